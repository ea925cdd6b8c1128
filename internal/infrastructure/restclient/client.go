// Package restclient talks to the dealership REST API.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Victor-armando18/vehicle-admin/internal/domain"
	"github.com/Victor-armando18/vehicle-admin/internal/platform/logging"
)

const (
	HeaderCorrelationID = "X-Correlation-ID"
	maxErrorBody        = 4 << 10
)

type Options struct {
	BaseURL      string
	Token        string
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

type Client struct {
	base  *url.URL
	token string
	http  *retryablehttp.Client
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	Op     string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: api responded %d: %s", e.Op, e.Status, e.Body)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return domain.ErrVehicleNotFound
	}
	return domain.ErrUpstreamRejected
}

func New(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: base url: %v", domain.ErrConfigInvalid, err)
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = opts.RetryMax
	if opts.RetryWaitMin > 0 {
		rc.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		rc.RetryWaitMax = opts.RetryWaitMax
	}
	rc.HTTPClient = &http.Client{
		Timeout:   opts.Timeout,
		Transport: otelhttp.NewTransport(cleanhttp.DefaultPooledTransport()),
	}
	rc.Logger = logging.RetryLogger{Logger: log.Logger.With().Str("component", "restclient").Logger()}
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.CheckRetry = checkRetry

	return &Client{base: base, token: opts.Token, http: rc}, nil
}

type noRetryKey struct{}

// checkRetry applies the default policy, except to requests marked as not
// idempotent: a create that failed after the API committed it must not be
// sent twice.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Value(noRetryKey{}) != nil {
		return false, ctx.Err()
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

func (c *Client) GetVehicle(ctx context.Context, id string) (domain.Record, error) {
	return c.do(ctx, "get vehicle", http.MethodGet, nil, "vehicles", id)
}

func (c *Client) PatchVehicle(ctx context.Context, id string, body domain.Record) (domain.Record, error) {
	return c.do(ctx, "patch vehicle", http.MethodPatch, body, "vehicles", id)
}

func (c *Client) CreateVehicle(ctx context.Context, body domain.Record) (domain.Record, error) {
	return c.do(ctx, "create vehicle", http.MethodPost, body, "vehicles")
}

func (c *Client) do(ctx context.Context, op, method string, body domain.Record, path ...string) (domain.Record, error) {
	var raw []byte
	if body != nil {
		var err error
		if raw, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("%s: %w: %v", op, domain.ErrInvalidRecord, err)
		}
	}

	if method == http.MethodPost {
		ctx = context.WithValue(ctx, noRetryKey{}, true)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.base.JoinPath(path...).String(), raw)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	corrID := domain.CorrelationIDFrom(ctx)
	if corrID == "" {
		corrID = uuid.NewString()
	}
	req.Header.Set(HeaderCorrelationID, corrID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, domain.ErrUpstreamUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{Op: op, Status: resp.StatusCode, Body: string(bytes.TrimSpace(msg))}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", op, err)
	}
	return decodeRecord(data)
}

// decodeRecord accepts a bare record or one wrapped in {"data": ...}.
// An empty body decodes to an empty record.
func decodeRecord(data []byte) (domain.Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return domain.Record{}, nil
	}
	var rec domain.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrInvalidRecord, err)
	}
	if inner, ok := rec["data"].(map[string]any); ok && len(rec) == 1 {
		return inner, nil
	}
	if rec == nil {
		rec = domain.Record{}
	}
	return rec, nil
}

// IsNotFound reports whether err means the vehicle does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrVehicleNotFound)
}
