// Package httpclient is the HTTP transport used by the provider adapters.
//
// Traverse issues one request and returns the raw body classified by content
// type (JSON, text, HTML or unknown). FetchJSON layers a shape guard and a
// typed decode on top. Neither retries; the timeout of the underlying
// *http.Client bounds every call.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultTimeout applies when NewDefaultClient is given a zero timeout.
	DefaultTimeout = 30 * time.Second

	// MaxBodyBytes caps how much of a response body is read. Larger bodies
	// fail with ErrBodyTooLarge.
	MaxBodyBytes = 32 << 20

	maxSummary = 200

	instrumentationName = "github.com/tilsley/gitmanager/pkg/httpclient"
)

// ErrBodyTooLarge reports a response body over MaxBodyBytes.
var ErrBodyTooLarge = errors.New("response body too large")

//go:generate mockgen -destination=mocks/mock_client.go -package=mocks -source=client.go Client

// Client performs a single HTTP traversal.
type Client interface {
	Traverse(ctx context.Context, req Request) (*Result, error)
}

// Compile-time check: *DefaultClient implements Client.
var _ Client = (*DefaultClient)(nil)

// DefaultClient implements Client on top of net/http, recording one span and
// one counter increment per request through the global OTel providers.
type DefaultClient struct {
	hc       *http.Client
	tracer   trace.Tracer
	requests metric.Int64Counter
}

// NewDefaultClient creates a client with the given timeout (0 = DefaultTimeout).
func NewDefaultClient(timeout time.Duration) *DefaultClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return New(&http.Client{Timeout: timeout})
}

// New wraps an existing *http.Client, e.g. one carrying a custom transport.
func New(hc *http.Client) *DefaultClient {
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	meter := otel.Meter(instrumentationName)
	requests, err := meter.Int64Counter("gitmanager.http.requests",
		metric.WithDescription("HTTP requests issued to git hosting providers"),
	)
	if err != nil {
		otel.Handle(err)
	}
	return &DefaultClient{
		hc:       hc,
		tracer:   otel.Tracer(instrumentationName),
		requests: requests,
	}
}

// Traverse issues req and reads the whole body. Non-2xx responses return an
// *HTTPError; the body is classified before returning.
func (c *DefaultClient) Traverse(ctx context.Context, req Request) (*Result, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	ctx, span := c.tracer.Start(ctx, "httpclient.Traverse",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", req.URL),
		),
	)
	defer span.End()

	result, err := c.do(ctx, method, req)
	status := 0
	kind := "error"
	if result != nil {
		status = result.StatusCode
		kind = result.Kind.String()
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.StatusCode
	}
	if c.requests != nil {
		c.requests.Add(ctx, 1, metric.WithAttributes(
			attribute.Int("http.status_code", status),
			attribute.String("result.kind", kind),
		))
	}
	span.SetAttributes(attribute.Int("http.response.status_code", status))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("result.kind", kind))
	return result, nil
}

func (c *DefaultClient) do(ctx context.Context, method string, req Request) (*Result, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, req.URL, err)
	}
	defer func() { //nolint:errcheck // response body close errors are non-actionable after reading
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", req.URL, err)
	}
	if len(body) > MaxBodyBytes {
		return nil, fmt.Errorf("body of %s exceeds %d bytes: %w", req.URL, MaxBodyBytes, ErrBodyTooLarge)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, NewHTTPError(resp.StatusCode, req.URL, summarize(body))
	}

	result := &Result{
		URL:        req.URL,
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
	}
	classify(result)
	return result, nil
}

// summarize keeps error messages short; provider error pages can be large.
func summarize(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxSummary {
		cut := maxSummary
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "..."
	}
	if s == "" {
		return "empty response body"
	}
	return s
}
