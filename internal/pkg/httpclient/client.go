package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// ErrUnavailable marks transport-level failures: connection refused, timeouts,
// context deadline. Callers treat it as UpstreamUnavailable.
var ErrUnavailable = errors.New("upstream unavailable")

// StatusError is returned for non-2xx responses so adapters can map upstream
// status codes onto domain errors.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, string(e.Body))
}

// Client is a traced, injectable HTTP client shared by all outbound adapters.
// The underlying http.Client carries no global timeout; every call is bounded
// by the context passed in.
type Client struct {
	Tracer     trace.Tracer
	HTTPClient *http.Client

	// RetryAttempts applies only to Get; mutating calls are never retried
	// blindly (a lost response does not mean the write was lost).
	RetryAttempts int
	RetryBackoff  time.Duration
}

func NewClient(tracer trace.Tracer) *Client {
	return &Client{
		Tracer: tracer,
		HTTPClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
			},
		},
		RetryAttempts: 3,
		RetryBackoff:  100 * time.Millisecond,
	}
}

// Get performs a GET and decodes the JSON response into out (if non-nil).
// Transport failures and 5xx responses are retried with exponential backoff,
// bounded by RetryAttempts; GET is required to be idempotent upstream.
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values, out interface{}) error {
	var lastErr error
	backoff := c.RetryBackoff
	attempts := c.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		lastErr = c.do(ctx, http.MethodGet, rawURL, params, nil, out)
		if lastErr == nil {
			return nil
		}
		var se *StatusError
		if errors.As(lastErr, &se) && se.StatusCode < 500 {
			return lastErr // 4xx is definitive, do not retry
		}
	}
	return lastErr
}

// Post performs a POST with query parameters and no body, the convention used
// by the stock ledger endpoints. Never retried.
func (c *Client) Post(ctx context.Context, rawURL string, params url.Values, out interface{}) error {
	return c.do(ctx, http.MethodPost, rawURL, params, nil, out)
}

// PostJSON performs a POST with a JSON body. Never retried.
func (c *Client) PostJSON(ctx context.Context, rawURL string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, rawURL, nil, payload, out)
}

// PutJSON performs a PUT with a JSON body. Never retried.
func (c *Client) PutJSON(ctx context.Context, rawURL string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, rawURL, nil, payload, out)
}

// Delete performs a DELETE with query parameters. Never retried.
func (c *Client) Delete(ctx context.Context, rawURL string, params url.Values, out interface{}) error {
	return c.do(ctx, http.MethodDelete, rawURL, params, nil, out)
}

func (c *Client) do(ctx context.Context, method, rawURL string, params url.Values, body []byte, out interface{}) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	spanName := fmt.Sprintf("call-%s", strings.Split(parsedURL.Host, ":")[0])

	ctx, span := c.Tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	downstreamURL := *parsedURL
	if params != nil {
		q := downstreamURL.Query()
		for key, values := range params {
			for _, value := range values {
				q.Add(key, value)
			}
		}
		downstreamURL.RawQuery = q.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, downstreamURL.String(), reader)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	span.SetAttributes(
		attribute.String("http.url", downstreamURL.String()),
		attribute.String("http.method", method),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: respBody}
		span.RecordError(statusErr)
		span.SetStatus(codes.Error, statusErr.Error())
		return statusErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response from %s: %w", downstreamURL.Host, err)
		}
	}
	return nil
}
