package chatapi

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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/airdesk/internal/log"
	"github.com/zjrosen/airdesk/internal/tracing"
)

const (
	// DefaultTimeout bounds one exchange including body transfer.
	DefaultTimeout = 60 * time.Second

	maxBodyBytes      = 8 << 20
	maxErrorBodyBytes = 4 << 10

	tracerName = "github.com/zjrosen/airdesk/internal/chatapi"
)

// Client exchanges one user message with the chat backend.
type Client interface {
	// Send posts message under conversationID ("" before the first reply)
	// and returns the decoded response or a *Failure.
	Send(ctx context.Context, message, conversationID string) (*Response, error)
}

// Config configures an HTTPClient.
type Config struct {
	// BaseURL is the backend origin, e.g. http://localhost:8000.
	BaseURL string
	// Timeout defaults to DefaultTimeout when zero.
	Timeout time.Duration
	// Headers are added to every request.
	Headers map[string]string
	// Transport overrides http.DefaultTransport. It is always wrapped for tracing.
	Transport http.RoundTripper
	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}

// HTTPClient is the production Client speaking JSON over HTTP.
type HTTPClient struct {
	endpoint string
	headers  map[string]string
	http     *http.Client
	tracer   trace.Tracer
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient validates cfg and builds a client.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("chat backend URL is required")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse backend URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend URL must be http or https, got %q", base)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &HTTPClient{
		endpoint: base + "/chat",
		headers:  cfg.Headers,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(transport, otelhttp.WithTracerProvider(tp)),
		},
		tracer: tp.Tracer(tracerName),
	}, nil
}

// Endpoint returns the full URL requests are posted to.
func (c *HTTPClient) Endpoint() string {
	return c.endpoint
}

// Send implements Client.
func (c *HTTPClient) Send(ctx context.Context, message, conversationID string) (*Response, error) {
	ctx, span := c.tracer.Start(ctx, tracing.SpanChatSend,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(tracing.AttrConversationID, conversationID),
			attribute.Int(tracing.AttrMessageLength, len(message)),
		),
	)
	defer span.End()

	resp, err := c.send(ctx, message, conversationID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorErr(log.CatAPI, "chat request failed", err, "conversation", conversationID)
		return nil, err
	}

	span.SetAttributes(
		attribute.String(tracing.AttrCurrentAgent, resp.Snapshot.CurrentAgent),
		attribute.Int(tracing.AttrMessageCount, len(resp.Delta.Messages)),
		attribute.Int(tracing.AttrEventCount, len(resp.Delta.Events)),
	)
	log.Debug(log.CatAPI, "chat response",
		"conversation", resp.Snapshot.ConversationID,
		"agent", resp.Snapshot.CurrentAgent,
		"messages", len(resp.Delta.Messages),
		"events", len(resp.Delta.Events))
	return resp, nil
}

func (c *HTTPClient) send(ctx context.Context, message, conversationID string) (*Response, error) {
	payload, err := json.Marshal(chatRequest{ConversationID: conversationID, Message: message})
	if err != nil {
		return nil, transportFailure(fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, transportFailure(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, transportFailure(err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(httpResp.Body, maxErrorBodyBytes))
		return nil, &Failure{
			Kind:       FailureStatus,
			StatusCode: httpResp.StatusCode,
			Err:        fmt.Errorf("%s", strings.TrimSpace(string(snippet))),
		}
	}

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, transportFailure(fmt.Errorf("read body: %w", err))
	}
	if len(body) > maxBodyBytes {
		return nil, malformed("response body exceeds %d bytes", maxBodyBytes)
	}
	return decodeResponse(body)
}
