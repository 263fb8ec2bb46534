package completion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/torosent/burstbench/internal/httpclient"
	"github.com/torosent/burstbench/internal/metrics"
	"github.com/torosent/burstbench/internal/tracing"
)

// Params are the request parameters shared by every call.
type Params struct {
	Model        string
	MaxTokens    int
	Temperature  float64
	SystemPrompt string
}

// Completion is the useful part of a chat-completion response.
type Completion struct {
	Text             string
	Model            string
	FinishReason     string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Client sends chat-completion requests.
type Client struct {
	http      *http.Client
	builder   *httpclient.RequestBuilder
	params    Params
	auth      httpclient.AuthProvider
	headers   map[string]string
	tracer    trace.Tracer
	propagate bool
	bodyLimit int64
}

// Option configures a Client.
type Option func(*Client)

// WithAuth sets the credential provider.
func WithAuth(provider httpclient.AuthProvider) Option {
	return func(c *Client) { c.auth = provider }
}

// WithHeaders adds static headers to every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) { c.headers = headers }
}

// WithTracing records a client span per request and, when the provider allows,
// injects W3C trace headers.
func WithTracing(p *tracing.Provider) Option {
	return func(c *Client) {
		c.tracer = p.Tracer()
		c.propagate = p.ShouldPropagate()
	}
}

// WithTracer sets the tracer directly. propagate controls W3C header injection.
func WithTracer(tracer trace.Tracer, propagate bool) Option {
	return func(c *Client) {
		c.tracer = tracer
		c.propagate = propagate
	}
}

// WithBodyLimit caps how much of a response is read.
func WithBodyLimit(limit int64) Option {
	return func(c *Client) { c.bodyLimit = limit }
}

// New creates a client for the API rooted at baseURL, e.g. https://api.openai.com/v1.
func New(httpClient *http.Client, baseURL string, params Params, opts ...Option) (*Client, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if strings.TrimSpace(params.Model) == "" {
		return nil, errors.New("model is required")
	}
	c := &Client{
		http:      httpClient,
		params:    params,
		tracer:    noop.NewTracerProvider().Tracer("completion"),
		bodyLimit: httpclient.DefaultBodyLimit,
	}
	for _, opt := range opts {
		opt(c)
	}

	endpoint := strings.TrimRight(strings.TrimSpace(baseURL), "/") + "/chat/completions"
	builder, err := httpclient.NewRequestBuilder(endpoint, c.headers, c.auth)
	if err != nil {
		return nil, fmt.Errorf("completion client: %w", err)
	}
	c.builder = builder
	return c, nil
}

// Endpoint returns the URL requests are posted to.
func (c *Client) Endpoint() string {
	return c.builder.Target()
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

// Complete sends prompt as the user message and returns the first choice.
func (c *Client) Complete(ctx context.Context, prompt string) (Completion, error) {
	ctx, span := tracing.StartCompletionSpan(ctx, c.tracer, c.params.Model, tracing.PromptIndex(ctx))

	out, status, err := c.do(ctx, prompt)

	attrs := []attribute.KeyValue{}
	if status > 0 {
		attrs = append(attrs, tracing.AttrHTTPResponseCode.Int(status))
	}
	if err != nil {
		kind, _ := metrics.Classify(err)
		attrs = append(attrs, tracing.AttrErrorKind.String(string(kind)))
	} else {
		attrs = append(attrs,
			tracing.AttrResponseModel.String(out.Model),
			tracing.AttrInputTokens.Int(out.PromptTokens),
			tracing.AttrOutputTokens.Int(out.CompletionTokens),
			tracing.AttrFinishReason.StringSlice([]string{out.FinishReason}),
		)
	}
	tracing.EndSpan(span, err, attrs...)

	return out, err
}

func (c *Client) do(ctx context.Context, prompt string) (Completion, int, error) {
	messages := make([]chatMessage, 0, 2)
	if c.params.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: c.params.SystemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	payload, err := json.Marshal(chatRequest{
		Model:       c.params.Model,
		Messages:    messages,
		MaxTokens:   c.params.MaxTokens,
		Temperature: c.params.Temperature,
	})
	if err != nil {
		return Completion{}, 0, fmt.Errorf("encode request: %w", err)
	}

	req, err := c.builder.Build(ctx, payload)
	if err != nil {
		return Completion{}, 0, err
	}
	if c.propagate {
		tracing.InjectHTTPHeaders(ctx, req.Header)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return Completion{}, 0, fmt.Errorf("request canceled: %w", context.Canceled)
		}
		return Completion{}, 0, newTransportError(err)
	}
	defer resp.Body.Close()

	data, err := httpclient.ReadBody(resp.Body, c.bodyLimit)
	if err != nil {
		return Completion{}, resp.StatusCode, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return Completion{}, resp.StatusCode, newAPIError(resp.StatusCode, data)
	}

	out, err := parseCompletion(data)
	return out, resp.StatusCode, err
}

func parseCompletion(data []byte) (Completion, error) {
	if !gjson.ValidBytes(data) {
		return Completion{}, errors.New("invalid response: body is not JSON")
	}
	doc := gjson.ParseBytes(data)

	content := doc.Get("choices.0.message.content")
	if !content.Exists() {
		if msg := doc.Get("error.message"); msg.Exists() {
			return Completion{}, fmt.Errorf("api error: %s", msg.String())
		}
		return Completion{}, errors.New("invalid response: no choices returned")
	}
	finish := doc.Get("choices.0.finish_reason").String()
	if content.Type != gjson.String {
		if finish == "" {
			finish = "unknown"
		}
		return Completion{}, fmt.Errorf("invalid response: empty message content (finish_reason: %s)", finish)
	}

	usage := doc.Get("usage")
	return Completion{
		Text:             content.String(),
		Model:            doc.Get("model").String(),
		FinishReason:     finish,
		PromptTokens:     int(usage.Get("prompt_tokens").Int()),
		CompletionTokens: int(usage.Get("completion_tokens").Int()),
		TotalTokens:      int(usage.Get("total_tokens").Int()),
	}, nil
}
