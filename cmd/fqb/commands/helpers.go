package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/fqb/internal/constants"
	"github.com/fivetwenty-io/fqb/pkg/fqb"
	"github.com/fivetwenty-io/fqb/pkg/fqbclient"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// stderrLogger writes structured log lines to stderr.
type stderrLogger struct {
	writer io.Writer
}

func (l *stderrLogger) log(level, msg string, fields map[string]interface{}) {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	var builder strings.Builder

	builder.WriteString("[")
	builder.WriteString(level)
	builder.WriteString("] ")
	builder.WriteString(msg)

	for _, key := range keys {
		fmt.Fprintf(&builder, " %s=%v", key, fields[key])
	}

	_, _ = fmt.Fprintln(l.writer, builder.String())
}

func (l *stderrLogger) Debug(msg string, fields map[string]interface{}) {
	l.log("DEBUG", msg, fields)
}

func (l *stderrLogger) Info(msg string, fields map[string]interface{}) {
	l.log("INFO", msg, fields)
}

func (l *stderrLogger) Warn(msg string, fields map[string]interface{}) {
	l.log("WARN", msg, fields)
}

func (l *stderrLogger) Error(msg string, fields map[string]interface{}) {
	l.log("ERROR", msg, fields)
}

// buildClientConfig maps the CLI configuration onto a library config.
func buildClientConfig(config *Config) *fqb.Config {
	clientConfig := &fqb.Config{
		GraphURL:       config.GraphURL,
		GraphVersion:   config.GraphVersion,
		AppID:          config.AppID,
		AppSecret:      config.AppSecret,
		AccessToken:    config.Token,
		AppSecretProof: config.AppSecretProof,
		HTTPTimeout:    constants.DefaultHTTPTimeout,
	}

	if viper.GetBool("verbose") {
		clientConfig.Debug = true
		clientConfig.Logger = &stderrLogger{writer: os.Stderr}
	}

	return clientConfig
}

// createConnection creates a Graph API connection from the current configuration.
func createConnection() (*fqb.Connection, error) {
	config := loadConfig()

	if config.Token == "" && (config.AppID == "" || config.AppSecret == "") {
		return nil, constants.ErrNotAuthenticated
	}

	conn, err := fqbclient.New(buildClientConfig(config))
	if err != nil {
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}

	return conn, nil
}

// parseEdgeSpec parses "name", "name:f1,f2", "name:limit" or
// "name:limit:f1,f2". A purely numeric second part is a limit.
func parseEdgeSpec(spec string) (*fqb.Edge, error) {
	parts := strings.Split(spec, ":")
	if parts[0] == "" {
		return nil, fmt.Errorf("%w: %q", constants.ErrInvalidEdgeSpec, spec)
	}

	switch len(parts) {
	case constants.EdgeSpecNameOnly:
		return fqb.NewEdge(parts[0]), nil
	case constants.EdgeSpecWithFields:
		if isEdgeLimit(parts[1]) {
			limit, err := parseEdgeLimit(parts[1])
			if err != nil {
				return nil, err
			}

			return fqb.NewEdge(parts[0]).Limit(limit), nil
		}

		return fqb.NewEdge(parts[0], splitFields(parts[1])...), nil
	case constants.EdgeSpecWithLimit:
		limit, err := parseEdgeLimit(parts[1])
		if err != nil {
			return nil, err
		}

		return fqb.NewEdge(parts[0], splitFields(parts[2])...).Limit(limit), nil
	default:
		return nil, fmt.Errorf("%w: %q", constants.ErrInvalidEdgeSpec, spec)
	}
}

// isEdgeLimit reports whether part looks like a limit rather than a field
// list. Graph field names never start with a digit or sign.
func isEdgeLimit(part string) bool {
	part = strings.TrimSpace(part)

	return part != "" && strings.IndexFunc(part, func(r rune) bool {
		return (r < '0' || r > '9') && r != '-' && r != '+'
	}) == -1
}

func parseEdgeLimit(part string) (int, error) {
	limit, err := strconv.Atoi(strings.TrimSpace(part))
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("%w: %q", constants.ErrInvalidEdgeLimit, part)
	}

	return limit, nil
}

// splitFields splits a comma separated field list, dropping empty entries.
func splitFields(list string) []string {
	fields := []string{}

	for _, field := range strings.Split(list, ",") {
		field = strings.TrimSpace(field)
		if field != "" {
			fields = append(fields, field)
		}
	}

	return fields
}

// parseDataPairs parses key=value pairs into a POST body.
func parseDataPairs(pairs []string) (map[string]interface{}, error) {
	data := make(map[string]interface{}, len(pairs))

	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", constants.KeyValuePartCount)
		if len(parts) != constants.KeyValuePartCount || parts[0] == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidDataPair, pair)
		}

		data[parts[0]] = parts[1]
	}

	return data, nil
}

// queryOptions are the flags shared by the get and url commands.
type queryOptions struct {
	fields []string
	limit  int
	edges  []string
}

// buildQuery creates a builder for node from the query flags.
func buildQuery(builder *fqb.FQB, node string, opts queryOptions) (*fqb.FQB, error) {
	query := builder.Object(node)

	for _, list := range opts.fields {
		query.Fields(splitFields(list)...)
	}

	for _, spec := range opts.edges {
		edge, err := parseEdgeSpec(spec)
		if err != nil {
			return nil, err
		}

		query.Edges(edge)
	}

	if opts.limit < 0 {
		return nil, fmt.Errorf("%w: %d", constants.ErrInvalidEdgeLimit, opts.limit)
	}

	return query.Limit(opts.limit), nil
}

// FormatError renders an error for the terminal. Graph API errors include
// their summary and any required permissions.
func FormatError(err error) string {
	graphErr := &fqb.Error{}
	if !errors.As(err, &graphErr) {
		return "Error: " + err.Error()
	}

	var builder strings.Builder

	fmt.Fprintf(&builder, "Error: %s\n", err.Error())
	fmt.Fprintf(&builder, "Summary: %s\n", graphErr.Summary())
	fmt.Fprintf(&builder, "Code: %d", graphErr.Code())

	if graphErr.Type() != "" {
		fmt.Fprintf(&builder, "\nType: %s", graphErr.Type())
	}

	if permissions := graphErr.RequiredPermissions(); len(permissions) > 0 {
		fmt.Fprintf(&builder, "\nRequired permissions: %s", strings.Join(permissions, ", "))
	}

	return builder.String()
}

// outputResponse writes a Graph response in the requested format.
func outputResponse(writer io.Writer, response *fqb.Response, format string) error {
	switch format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", strings.Repeat(" ", constants.DefaultJSONIndentLen))

		err := encoder.Encode(response.Value())
		if err != nil {
			return fmt.Errorf("failed to encode response as JSON: %w", err)
		}

		return nil
	case constants.FormatYAML:
		err := yaml.NewEncoder(writer).Encode(yamlValue(response.Value()))
		if err != nil {
			return fmt.Errorf("failed to encode response as YAML: %w", err)
		}

		return nil
	default:
		if items := response.Data(); len(items) > 0 {
			return renderListTable(writer, items)
		}

		return renderObjectTable(writer, response)
	}
}

// yamlValue converts json.Number values so YAML renders them as numbers.
func yamlValue(value interface{}) interface{} {
	switch typed := value.(type) {
	case json.Number:
		if integer, err := typed.Int64(); err == nil {
			return integer
		}

		if decimal, err := typed.Float64(); err == nil {
			return decimal
		}

		return typed.String()
	case map[string]interface{}:
		converted := make(map[string]interface{}, len(typed))
		for key, item := range typed {
			converted[key] = yamlValue(item)
		}

		return converted
	case []interface{}:
		converted := make([]interface{}, len(typed))
		for index, item := range typed {
			converted[index] = yamlValue(item)
		}

		return converted
	default:
		return value
	}
}

func renderObjectTable(writer io.Writer, response *fqb.Response) error {
	table := tablewriter.NewWriter(writer)
	table.Header("Property", "Value")

	if response.Map() == nil {
		_ = table.Append([]string{"Result", fmt.Sprintf("%v", response.Value())})
	}

	for _, key := range response.Keys() {
		_ = table.Append([]string{key, response.GetString(key)})
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func renderListTable(writer io.Writer, items []*fqb.Response) error {
	columns := listColumns(items)

	headers := make([]any, 0, len(columns))
	for _, column := range columns {
		headers = append(headers, column)
	}

	table := tablewriter.NewWriter(writer)
	table.Header(headers...)

	for _, item := range items {
		row := make([]string, 0, len(columns))
		for _, column := range columns {
			row = append(row, item.GetString(column))
		}

		_ = table.Append(row)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// listColumns returns the union of item keys, "id" first.
func listColumns(items []*fqb.Response) []string {
	seen := map[string]bool{}
	columns := []string{}

	for _, item := range items {
		for _, key := range item.Keys() {
			if !seen[key] {
				seen[key] = true

				columns = append(columns, key)
			}
		}
	}

	sort.SliceStable(columns, func(i, j int) bool {
		if columns[i] == "id" || columns[j] == "id" {
			return columns[i] == "id"
		}

		return columns[i] < columns[j]
	})

	return columns
}
