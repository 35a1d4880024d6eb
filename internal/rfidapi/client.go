package rfidapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"spooltag/internal/config"
	"spooltag/internal/form"
	"spooltag/internal/logging"
	"spooltag/internal/services"
	"spooltag/internal/tags"
)

// Operation names used in errors and logs.
const (
	OpReadAll = "read_all"
	OpReadOne = "read_one"
	OpWrite   = "write"
	OpErase   = "erase"
)

const maxBodyBytes = 1 << 20

// HTTPDoer describes the HTTP client used to reach the device.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError records a non-2xx device response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("device returned %d: %s", e.Code, e.Message)
}

// Client talks to the RFID component of a Moonraker instance.
type Client struct {
	base   string
	http   HTTPDoer
	creds  CredentialProvider
	newID  func() string
	logger *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

// WithCredentials attaches a credential provider.
func WithCredentials(p CredentialProvider) Option {
	return func(c *Client) { c.creds = p }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "rfidapi")
	}
}

// WithRequestIDs overrides the correlation id generator.
func WithRequestIDs(next func() string) Option {
	return func(c *Client) {
		if next != nil {
			c.newID = next
		}
	}
}

// NewClient returns a client for the service rooted at baseURL, for example
// http://printer:7125/server/rfid.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return nil, services.Wrap(services.ErrConfiguration, "rfidapi", fmt.Sprintf("invalid device url %q", baseURL), err)
	}
	c := &Client{
		base:   strings.TrimRight(parsed.String(), "/"),
		http:   &http.Client{Timeout: 10 * time.Second},
		newID:  uuid.NewString,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewConfiguredClient builds a client from the [device] section.
func NewConfiguredClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "rfidapi", "configuration required", nil)
	}
	return NewClient(cfg.DeviceBaseURL(),
		WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout()}),
		WithCredentials(StaticCredentials{Token: cfg.Device.APIToken, APIKey: cfg.Device.APIKey}),
		WithLogger(logger),
	)
}

// BaseURL returns the service root the client targets.
func (c *Client) BaseURL() string { return c.base }

// ListTags reads every channel.
func (c *Client) ListTags(ctx context.Context) ([]tags.ChannelRecord, error) {
	var out tagList
	if err := c.do(ctx, OpReadAll, http.MethodGet, "/tags", nil, &out); err != nil {
		return nil, err
	}
	if out.Channels == nil {
		return nil, services.Wrap(services.ErrTransport, OpReadAll, "invalid response from device", errMissingChannels)
	}
	return *out.Channels, nil
}

// GetTag reads one channel.
func (c *Client) GetTag(ctx context.Context, channel int) (tags.ChannelRecord, error) {
	var raw json.RawMessage
	if err := c.do(ctx, OpReadOne, http.MethodGet, "/tags/"+strconv.Itoa(channel), nil, &raw); err != nil {
		return tags.ChannelRecord{}, err
	}
	rec, err := decodeRecord(raw)
	if err != nil {
		return tags.ChannelRecord{}, services.Wrap(services.ErrTransport, OpReadOne, "invalid response from device", err)
	}
	return rec, nil
}

// WriteOpenSpool programs a tag. A device-reported failure is returned as an
// ErrRemoteOperation together with the decoded result.
func (c *Client) WriteOpenSpool(ctx context.Context, payload form.WritePayload) (OperationResult, error) {
	return c.operation(ctx, OpWrite, "/write_openspool", payload)
}

// Erase clears a tag.
func (c *Client) Erase(ctx context.Context, payload form.ErasePayload) (OperationResult, error) {
	return c.operation(ctx, OpErase, "/erase", payload)
}

func (c *Client) operation(ctx context.Context, op, path string, body any) (OperationResult, error) {
	var result OperationResult
	if err := c.do(ctx, op, http.MethodPost, path, body, &result); err != nil {
		return OperationResult{}, err
	}
	if !result.Success {
		return result, services.Wrap(services.ErrRemoteOperation, op, result.ErrorText(), nil)
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return services.Wrap(services.ErrValidation, op, "encode request", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return services.Wrap(services.ErrTransport, op, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestID, ok := services.RequestIDFromContext(ctx)
	if !ok {
		requestID = c.newID()
	}
	req.Header.Set("X-Request-ID", requestID)

	if c.creds != nil {
		creds, err := c.creds.Credentials(ctx)
		if err != nil {
			return services.Wrap(services.ErrTransport, op, "obtain credentials", err)
		}
		creds.apply(req)
	}

	logger := c.logger.With(
		logging.String(logging.FieldOperation, op),
		logging.String(logging.FieldCorrelationID, requestID),
	)
	logger.Debug("device request", logging.String("method", method), logging.String("path", path))

	resp, err := c.http.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransport, op, err.Error(), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return services.Wrap(services.ErrTransport, op, "read response", err)
	}
	logger.Debug("device response", logging.Int("status", resp.StatusCode), logging.Int("bytes", len(raw)))

	if !isSuccess(resp.StatusCode) {
		msg := errorMessage(resp.StatusCode, raw)
		return services.Wrap(services.ErrTransport, op, msg, &StatusError{Code: resp.StatusCode, Message: msg})
	}

	payload, err := unwrapEnvelope(raw)
	if err != nil {
		return services.Wrap(services.ErrTransport, op, "invalid response from device", err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return services.Wrap(services.ErrTransport, op, "invalid response from device", err)
	}
	return nil
}

// IsUnreachable reports whether err is a network-level failure to reach the
// device rather than a response it sent.
func IsUnreachable(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
