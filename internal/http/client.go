package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fivetwenty-io/fqb/internal/constants"
	"github.com/fivetwenty-io/fqb/pkg/fqb"
	"github.com/hashicorp/go-retryablehttp"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request is one HTTP request relative to the client's base URL. Path may
// already carry a raw query string; it is sent verbatim.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Form    url.Values
	Headers map[string]string
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client is the Graph API HTTP transport. Requests are attempted once.
type Client struct {
	baseURL    string
	version    string
	httpClient *retryablehttp.Client
	logger     Logger
	debug      bool
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug logs every request and response.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithGraphVersion prefixes every path with "/<version>".
func WithGraphVersion(version string) Option {
	return func(c *Client) {
		c.version = strings.Trim(version, "/")
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient.HTTPClient = httpClient
		}
	}
}

// NewClient creates a transport for baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil
	retryClient.CheckRetry = neverRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout

	client := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: retryClient,
		userAgent:  constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.debug && client.logger != nil {
		retryClient.RequestLogHook = client.logRequest
		retryClient.ResponseLogHook = client.logResponse
	}

	return client
}

// logRequest logs the outgoing request. The query string is left out since
// it carries the access token.
func (c *Client) logRequest(_ retryablehttp.Logger, req *http.Request, attempt int) {
	c.logger.Debug("HTTP Request", map[string]interface{}{
		"method":  req.Method,
		"path":    req.URL.Path,
		"attempt": attempt,
	})
}

func (c *Client) logResponse(_ retryablehttp.Logger, resp *http.Response) {
	c.logger.Debug("HTTP Response", map[string]interface{}{
		"status_code":    resp.StatusCode,
		"content_length": resp.ContentLength,
	})
}

// neverRetry stops after the first attempt, surfacing context errors.
func neverRetry(ctx context.Context, _ *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	return false, err
}

// Do sends a request. Responses with status >= 400 are returned together
// with a *fqb.TransportFailure.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader

	if len(req.Form) > 0 {
		body = strings.NewReader(req.Form.Encode())
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, c.buildURL(req.Path, req.Query), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if body != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", redactURLError(err))
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	if resp.StatusCode >= constants.HTTPStatusBadRequest {
		return resp, fqb.ParseErrorBody(resp.StatusCode, respBody)
	}

	return resp, nil
}

// redactURLError drops the query string from a *url.Error, which would
// otherwise expose the access token in error text.
func redactURLError(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}

	parsed, parseErr := url.Parse(urlErr.URL)
	if parseErr != nil {
		urlErr.URL = ""

		return err
	}

	parsed.RawQuery = ""
	parsed.Fragment = ""
	urlErr.URL = parsed.String()

	return err
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post sends a form-encoded POST request.
func (c *Client) Post(ctx context.Context, path string, form url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Form: form})
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path, Query: query})
}

// Send implements fqb.Transport. GET and DELETE carry params in the query
// string, POST in a form body.
func (c *Client) Send(ctx context.Context, method, path string, params map[string]interface{}) ([]byte, error) {
	values, err := EncodeParams(params)
	if err != nil {
		return nil, err
	}

	req := &Request{Method: method, Path: path}
	if method == http.MethodPost {
		req.Form = values
	} else {
		req.Query = values
	}

	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}

// buildURL joins the base URL, version prefix, raw path and extra query.
func (c *Client) buildURL(path string, query url.Values) string {
	var builder strings.Builder

	builder.WriteString(c.baseURL)

	if c.version != "" {
		builder.WriteString("/")
		builder.WriteString(c.version)
	}

	if !strings.HasPrefix(path, "/") {
		builder.WriteString("/")
	}

	builder.WriteString(path)

	if len(query) > 0 {
		if strings.Contains(path, "?") {
			builder.WriteString("&")
		} else {
			builder.WriteString("?")
		}

		builder.WriteString(query.Encode())
	}

	return builder.String()
}

// EncodeParams converts request params to url.Values. Strings, numbers and
// booleans are formatted directly, everything else is JSON encoded.
func EncodeParams(params map[string]interface{}) (url.Values, error) {
	values := url.Values{}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		encoded, err := encodeParam(params[key])
		if err != nil {
			return nil, fmt.Errorf("encoding param %q: %w", key, err)
		}

		values.Set(key, encoded)
	}

	return values, nil
}

func encodeParam(value interface{}) (string, error) {
	switch typed := value.(type) {
	case nil:
		return "", nil
	case string:
		return typed, nil
	case fmt.Stringer:
		return typed.String(), nil
	case bool:
		return strconv.FormatBool(typed), nil
	case int:
		return strconv.Itoa(typed), nil
	case int64:
		return strconv.FormatInt(typed, 10), nil
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), nil
	case []byte:
		return string(typed), nil
	default:
		var buf bytes.Buffer

		err := json.NewEncoder(&buf).Encode(typed)
		if err != nil {
			return "", fmt.Errorf("marshaling value: %w", err)
		}

		return strings.TrimSuffix(buf.String(), "\n"), nil
	}
}
