// Package fqbclient provides the primary entry point for constructing a
// Graph API connection that the fqb query builder dispatches through.
//
// It layers configuration, the HTTP transport and credential handling on top
// of the builder and error types defined in the fqb package. Most applications
// import fqbclient to build a connection, then use fqb.New to describe
// requests.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/fqb/pkg/fqb"
//	  "github.com/fivetwenty-io/fqb/pkg/fqbclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // With a user access token you already have:
//	  conn, err := fqbclient.NewWithToken("EAAB...")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with app credentials, pinned to a Graph API version:
//	  conn, err = fqbclient.New(&fqb.Config{
//	    AppID:          "1234",
//	    AppSecret:      "app-secret",
//	    GraphVersion:   "v2.1",
//	    AppSecretProof: true,
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  me, err := fqb.New(conn).Object("me", "id", "name").Get(ctx)
//	  if err != nil { log.Fatal(err) }
//	  log.Println(me.GetString("name"))
//	}
//
// Configuration highlights
//
//   - GraphURL defaults to https://graph.facebook.com. A trailing slash is
//     trimmed and https:// is added when no scheme is given.
//   - GraphVersion prefixes every request path, e.g. "/v2.1/me".
//   - AccessToken takes precedence over the AppID/AppSecret app token.
//   - AppSecretProof signs the access token with AppSecret.
//   - Debug with a Logger logs every request and response. Query strings are
//     not logged.
//
// Requests are sent exactly once; there is no retry, caching or batching.
package fqbclient
