// Package fqb provides a fluent query builder for the Facebook Graph API.
//
// # Overview
//
// A request is described by a RootEdge: the node or edge name, the requested
// fields, an optional limit, and nested edges. The RootEdge compiles itself to
// a request path such as "/me?limit=5&fields=id,photos{source}". A Connection
// sends that path through a Transport and wraps the body into a Response;
// Graph API failures are classified into *Error values.
//
// Getting a connection
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
//	  conn, err := fqbclient.NewWithToken("access-token")
//	  if err != nil { log.Fatal(err) }
//
//	  builder := fqb.New(conn)
//	  photos := builder.Edge("photos", "id", "source").Limit(5)
//
//	  me, err := builder.Object("me").Fields("id", "email").Edges(photos).Get(ctx)
//	  if err != nil { log.Fatal(err) }
//	  _ = me.GetString("email")
//	}
//
// Connections are never global. A builder uses its own connection, or the one
// stored in its request context with NewContext.
//
// # Errors
//
// Graph API failures are returned as *Error. Summary maps the error code to a
// short category ("Login required.", "Downtime. Try again later.", ...) and
// RequiredPermissions extracts the permission named by "Requires extended
// permission" messages. Helpers such as IsLoginRequired and
// IsPermissionRequired branch on the summary.
//
// # Paths
//
// Field names and node names are inserted into the path verbatim, without
// percent-encoding. Names containing reserved URL characters must be escaped
// by the caller.
package fqb
