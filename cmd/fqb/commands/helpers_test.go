package commands

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fivetwenty-io/fqb/internal/constants"
	"github.com/fivetwenty-io/fqb/pkg/fqb"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

//nolint:funlen // Test functions can be longer for detailed testing
func TestParseEdgeSpec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		spec     string
		expected string
		err      error
	}{
		{name: "name only", spec: "photos", expected: "photos"},
		{name: "name and fields", spec: "photos:id,source", expected: "photos{id,source}"},
		{name: "name limit and fields", spec: "photos:5:id,source", expected: "photos.limit(5){id,source}"},
		{name: "name and limit", spec: "photos:5", expected: "photos.limit(5)"},
		{name: "zero limit only", spec: "photos:0", expected: "photos"},
		{name: "negative limit only", spec: "photos:-2", err: constants.ErrInvalidEdgeLimit},
		{name: "digits inside a field name", spec: "photos:id2", expected: "photos{id2}"},
		{name: "empty fields are dropped", spec: "photos:id,,source,", expected: "photos{id,source}"},
		{name: "missing name", spec: ":id", err: constants.ErrInvalidEdgeSpec},
		{name: "too many parts", spec: "a:1:b:c", err: constants.ErrInvalidEdgeSpec},
		{name: "invalid limit", spec: "photos:x:id", err: constants.ErrInvalidEdgeLimit},
		{name: "negative limit", spec: "photos:-1:id", err: constants.ErrInvalidEdgeLimit},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			edge, err := parseEdgeSpec(tt.spec)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, edge.CompileEdge())
		})
	}
}

func TestParseDataPairs(t *testing.T) {
	t.Parallel()

	data, err := parseDataPairs([]string{"message=Hello", "link=https://example.com/?a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"message": "Hello",
		"link":    "https://example.com/?a=b",
	}, data)

	_, err = parseDataPairs([]string{"message"})
	require.ErrorIs(t, err, constants.ErrInvalidDataPair)

	_, err = parseDataPairs([]string{"=value"})
	require.ErrorIs(t, err, constants.ErrInvalidDataPair)
}

func TestBuildQuery(t *testing.T) {
	t.Parallel()

	query, err := buildQuery(fqb.New(nil), "me", queryOptions{
		fields: []string{"id", "name,email"},
		limit:  3,
		edges:  []string{"photos:source"},
	})
	require.NoError(t, err)
	assert.Equal(t, "/me?limit=3&fields=id,name,email,photos{source}", query.QueryURL())

	_, err = buildQuery(fqb.New(nil), "me", queryOptions{limit: -1})
	require.ErrorIs(t, err, constants.ErrInvalidEdgeLimit)

	_, err = buildQuery(fqb.New(nil), "me", queryOptions{edges: []string{""}})
	require.ErrorIs(t, err, constants.ErrInvalidEdgeSpec)
}

func TestFormatError(t *testing.T) {
	t.Parallel()

	plain := errors.New("boom")
	assert.Equal(t, "Error: boom", FormatError(plain))

	graphErr := fqb.NewError(&fqb.TransportFailure{
		Code:      200,
		Message:   "(#200) Requires extended permission: publish_actions",
		ErrorType: fqb.ErrorTypeOAuth,
	})
	wrapped := fmt.Errorf("failed to post to me/feed: %w", graphErr)

	formatted := FormatError(wrapped)
	assert.Contains(t, formatted, "Error: failed to post to me/feed: Error communicating with Facebook: (#200)")
	assert.Contains(t, formatted, "Summary: Extended permission required.")
	assert.Contains(t, formatted, "Code: 200")
	assert.Contains(t, formatted, "Type: OAuthException")
	assert.Contains(t, formatted, "Required permissions: publish_actions")
}

func TestOutputResponse(t *testing.T) {
	t.Parallel()

	response, err := fqb.NewResponse([]byte(`{"id":"4","name":"Mark","friend_count":42}`))
	require.NoError(t, err)

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer

		require.NoError(t, outputResponse(&out, response, constants.FormatJSON))
		assert.JSONEq(t, `{"id":"4","name":"Mark","friend_count":42}`, out.String())
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer

		require.NoError(t, outputResponse(&out, response, constants.FormatYAML))

		var decoded map[string]interface{}

		require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
		assert.Equal(t, "Mark", decoded["name"])
		assert.Equal(t, 42, decoded["friend_count"])
	})

	t.Run("table", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer

		require.NoError(t, outputResponse(&out, response, constants.FormatTable))
		assert.Contains(t, out.String(), "Mark")
		assert.Contains(t, out.String(), "friend_count")
	})

	t.Run("list table", func(t *testing.T) {
		t.Parallel()

		list, err := fqb.NewResponse([]byte(`{"data":[{"source":"a.jpg","id":"p1"},{"id":"p2","name":"Beach"}]}`))
		require.NoError(t, err)

		var out bytes.Buffer

		require.NoError(t, outputResponse(&out, list, constants.FormatTable))
		assert.Contains(t, out.String(), "p1")
		assert.Contains(t, out.String(), "Beach")
	})
}

func TestListColumns(t *testing.T) {
	t.Parallel()

	first, err := fqb.NewResponse([]byte(`{"source":"a.jpg","id":"p1"}`))
	require.NoError(t, err)

	second, err := fqb.NewResponse([]byte(`{"name":"Beach","id":"p2"}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "source"}, listColumns([]*fqb.Response{first, second}))
}

func TestSetConfigValue(t *testing.T) {
	t.Parallel()

	config := &Config{}

	require.NoError(t, setConfigValue(config, "graph_url", "https://graph.example.com"))
	require.NoError(t, setConfigValue(config, "graph_version", "v2.1"))
	require.NoError(t, setConfigValue(config, "app_id", "123"))
	require.NoError(t, setConfigValue(config, "app_secret", "secret"))
	require.NoError(t, setConfigValue(config, "token", "token"))
	require.NoError(t, setConfigValue(config, "appsecret_proof", "true"))
	require.NoError(t, setConfigValue(config, "output", "json"))

	assert.Equal(t, &Config{
		GraphURL:       "https://graph.example.com",
		GraphVersion:   "v2.1",
		AppID:          "123",
		AppSecret:      "secret",
		Token:          "token",
		AppSecretProof: true,
		Output:         "json",
	}, config)

	require.ErrorIs(t, setConfigValue(config, "output", "xml"), constants.ErrInvalidOutput)
	require.ErrorIs(t, setConfigValue(config, "nope", "x"), constants.ErrUnknownConfigKey)

	require.NoError(t, unsetConfigValue(config, "token"))
	require.NoError(t, unsetConfigValue(config, "appsecret_proof"))
	require.NoError(t, unsetConfigValue(config, "output"))
	assert.Empty(t, config.Token)
	assert.False(t, config.AppSecretProof)
	assert.Equal(t, constants.FormatTable, config.Output)
	require.ErrorIs(t, unsetConfigValue(config, "nope"), constants.ErrUnknownConfigKey)
}

func TestMaskSecret(t *testing.T) {
	t.Parallel()

	assert.Empty(t, maskSecret(""))
	assert.Equal(t, "****", maskSecret("short"))
	assert.Equal(t, "****cdef", maskSecret("0123456789abcdef"))

	masked := maskConfig(&Config{Token: "0123456789abcdef", AppID: "123"})
	assert.Equal(t, "****cdef", masked.Token)
	assert.Equal(t, "123", masked.AppID)
	assert.Equal(t, "value", maskIfSecret("app_id", "value"))
}

func TestWriteConfigFile(t *testing.T) {
	t.Parallel()

	configFile := filepath.Join(t.TempDir(), "config.yml")

	err := writeConfigFile(configFile, &Config{Token: "abc", Output: "yaml"})
	require.NoError(t, err)

	info, err := os.Stat(configFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(constants.ConfigFilePerm), info.Mode().Perm())

	data, err := os.ReadFile(configFile) // #nosec G304 -- test temp dir
	require.NoError(t, err)
	assert.Contains(t, string(data), "token: abc")
	assert.Contains(t, string(data), "output: yaml")
}

func TestGetCommand_Execute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/me", request.URL.Path)
		assert.Equal(t, "abc", request.URL.Query().Get("access_token"))

		if request.URL.Query().Get("fields") == "email" {
			writer.WriteHeader(http.StatusForbidden)
			_, _ = writer.Write([]byte(`{"error":{"message":"(#200) Requires extended permission: email","type":"OAuthException","code":200}}`))

			return
		}

		_, _ = writer.Write([]byte(`{"id":"4","name":"Mark"}`))
	}))
	defer server.Close()

	viper.Set("graph_url", server.URL)
	viper.Set("token", "abc")
	viper.Set("output", constants.FormatJSON)

	t.Cleanup(viper.Reset)

	cmd := NewGetCommand()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetArgs([]string{"me", "-f", "id,name"})

	require.NoError(t, cmd.Execute())
	assert.JSONEq(t, `{"id":"4","name":"Mark"}`, out.String())

	cmd = NewGetCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"me", "-f", "email"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, fqb.IsPermissionRequired(err))
	assert.Equal(t, []string{"email"}, fqb.RequiredPermissions(err))
}

func TestCreateConnection_RequiresCredentials(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, err := createConnection()
	require.ErrorIs(t, err, constants.ErrNotAuthenticated)
}
