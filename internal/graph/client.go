package graph

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/MehrXloop/calsync/internal/instrumentation"
	"github.com/MehrXloop/calsync/internal/msauth"
)

// DefaultBaseURL is the production Microsoft Graph endpoint.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

// DefaultTimeout bounds every Graph request. The transport default of
// "no timeout" is not acceptable for an interactive calendar.
const DefaultTimeout = 30 * time.Second

// timeFormat is how Graph renders and accepts date-times. Responses may
// carry fractional seconds; time.Parse tolerates them with this layout.
const timeFormat = "2006-01-02T15:04:05"

// hintLimit caps how much of a rejection body is kept as the hint.
const hintLimit = 512

// Client talks to the Microsoft Graph calendar endpoints. All requests
// carry a bearer credential obtained from the injected token provider.
type Client struct {
	baseURL string
	hc      *http.Client
	tokens  msauth.TokenProvider
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the Graph endpoint. Used by tests and by
// deployments behind an API gateway.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.hc = hc
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.hc.Timeout = d
	}
}

// WithLogger sets the logger for request-level logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics for Graph operations.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a Graph calendar client.
func NewClient(tokens msauth.TokenProvider, opts ...Option) (*Client, error) {
	if tokens == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	c := &Client{
		baseURL: DefaultBaseURL,
		hc:      &http.Client{Timeout: DefaultTimeout},
		tokens:  tokens,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// IsAuthenticated reports whether the token provider has a credential.
func (c *Client) IsAuthenticated() bool {
	return c.tokens.IsAuthenticated()
}

// bearer resolves the current credential, mapping provider failures to
// the auth error taxonomy.
func (c *Client) bearer(ctx context.Context, op string) (string, error) {
	cred, err := c.tokens.Credential(ctx)
	if err != nil {
		return "", &AuthError{Op: op, Err: err}
	}
	if !cred.Valid() {
		return "", &AuthError{Op: op, Err: msauth.ErrNotAuthenticated}
	}
	return cred.Token, nil
}

// newRequest builds an authenticated Graph request. Times are requested
// in UTC so normalization is independent of the mailbox timezone.
func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader, token string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("client-request-id", uuid.NewString())
	req.Header.Set("Prefer", `outlook.timezone="UTC"`)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// marshalBody encodes a request payload.
func marshalBody(v any) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return bytes.NewReader(data), nil
}

// readHint drains up to hintLimit bytes of a rejection body for the
// MutationError hint.
func readHint(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, hintLimit))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func formatGraphTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseGraphTime(s string) (time.Time, error) {
	return time.ParseInLocation(timeFormat, s, time.UTC)
}
