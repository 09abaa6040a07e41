package fqb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fivetwenty-io/fqb/internal/auth"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Transport performs one Graph API call. Failed calls return a
// *TransportFailure when the API answered with an error.
type Transport interface {
	Send(ctx context.Context, method, path string, params map[string]interface{}) ([]byte, error)
}

// Connection adapts compiled root edges into transport calls and wraps the
// results. It carries the credentials applied to every request.
type Connection struct {
	transport      Transport
	credentials    *auth.Credentials
	logger         Logger
	appSecretProof bool
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	telemetry      *telemetry
}

// ConnectionOption configures a Connection.
type ConnectionOption func(*Connection)

// WithLogger sets the connection logger.
func WithLogger(logger Logger) ConnectionOption {
	return func(c *Connection) {
		c.logger = logger
	}
}

// WithCredentials shares a credential store with the connection.
func WithCredentials(credentials *auth.Credentials) ConnectionOption {
	return func(c *Connection) {
		if credentials != nil {
			c.credentials = credentials
		}
	}
}

// WithAppSecretProof enables the appsecret_proof parameter.
func WithAppSecretProof(enabled bool) ConnectionOption {
	return func(c *Connection) {
		c.appSecretProof = enabled
	}
}

// WithTracerProvider overrides the global OpenTelemetry tracer provider.
func WithTracerProvider(provider trace.TracerProvider) ConnectionOption {
	return func(c *Connection) {
		c.tracerProvider = provider
	}
}

// WithMeterProvider overrides the global OpenTelemetry meter provider.
func WithMeterProvider(provider metric.MeterProvider) ConnectionOption {
	return func(c *Connection) {
		c.meterProvider = provider
	}
}

// NewConnection creates a connection over the given transport.
func NewConnection(transport Transport, opts ...ConnectionOption) *Connection {
	conn := &Connection{
		transport:      transport,
		credentials:    auth.NewCredentials(),
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}

	for _, opt := range opts {
		opt(conn)
	}

	conn.telemetry = newTelemetry(conn.tracerProvider, conn.meterProvider)

	return conn
}

// SetAppCredentials sets the app id and secret.
func (c *Connection) SetAppCredentials(appID, appSecret string) {
	c.credentials.SetAppCredentials(appID, appSecret)
}

// SetAccessToken sets the access token used for all requests.
func (c *Connection) SetAccessToken(accessToken string) {
	c.credentials.SetAccessToken(accessToken)
}

// Credentials returns the credential store of the connection.
func (c *Connection) Credentials() *auth.Credentials {
	return c.credentials
}

// Get sends a GET request for the root edge.
func (c *Connection) Get(ctx context.Context, edge *RootEdge) (*Response, error) {
	return c.dispatch(ctx, http.MethodGet, edge, nil)
}

// Post sends a POST request for the root edge with data as the body.
func (c *Connection) Post(ctx context.Context, edge *RootEdge, data map[string]interface{}) (*Response, error) {
	return c.dispatch(ctx, http.MethodPost, edge, data)
}

// Delete sends a DELETE request for the root edge.
func (c *Connection) Delete(ctx context.Context, edge *RootEdge) (*Response, error) {
	return c.dispatch(ctx, http.MethodDelete, edge, nil)
}

func (c *Connection) dispatch(ctx context.Context, method string, edge *RootEdge, data map[string]interface{}) (*Response, error) {
	if edge == nil {
		return nil, ErrNoRootEdge
	}

	path := edge.CompileEdge()
	params := c.buildParams(data)

	ctx, span := c.telemetry.startDispatchSpan(ctx, method, path)
	defer span.End()

	started := time.Now()

	body, err := c.transport.Send(ctx, method, path, params)
	if err != nil {
		classified := classifyDispatchError(method, path, err)

		c.telemetry.finishDispatch(ctx, span, method, started, classified)
		c.logError(method, path, classified)

		return nil, classified
	}

	response, err := NewResponse(body)
	if err != nil {
		err = fmt.Errorf("%s %s: %w", method, path, err)
		c.telemetry.finishDispatch(ctx, span, method, started, err)

		return nil, err
	}

	c.telemetry.finishDispatch(ctx, span, method, started, nil)

	if c.logger != nil {
		c.logger.Debug("Graph request completed", map[string]interface{}{
			"method":   method,
			"path":     path,
			"duration": time.Since(started).String(),
		})
	}

	return response, nil
}

// buildParams copies the request data and adds the credentials.
func (c *Connection) buildParams(data map[string]interface{}) map[string]interface{} {
	params := make(map[string]interface{}, len(data)+2)
	for key, value := range data {
		params[key] = value
	}

	token := c.credentials.AccessToken()
	if token == "" {
		return params
	}

	params["access_token"] = token

	if secret := c.credentials.AppSecret(); c.appSecretProof && secret != "" {
		params["appsecret_proof"] = auth.AppSecretProof(token, secret)
	}

	return params
}

// classifyDispatchError turns Graph failures into *Error and adds request
// context to anything else.
func classifyDispatchError(method, path string, err error) error {
	var failure *TransportFailure

	graphErr := &Error{}
	if errors.As(err, &graphErr) || errors.As(err, &failure) {
		return Classify(err)
	}

	return fmt.Errorf("sending %s %s: %w", method, path, err)
}

func (c *Connection) logError(method, path string, err error) {
	if c.logger == nil {
		return
	}

	fields := map[string]interface{}{
		"method": method,
		"path":   path,
		"error":  err.Error(),
	}

	graphErr := &Error{}
	if errors.As(err, &graphErr) {
		fields["code"] = graphErr.Code()
		fields["type"] = graphErr.Type()
		fields["summary"] = graphErr.Summary()
	}

	c.logger.Error("Graph request failed", fields)
}
