package client

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/campuslink/campus/cli/pkg/logger"
)

const userAgent = "Campus-CLI/0.1.0"

// RequestIDHeader correlates client log lines with server logs
const RequestIDHeader = "X-Request-ID"

// Options configures a resty client for the campus API
type Options struct {
	BaseURL string
	Timeout time.Duration
	Token   string
	// Transport overrides the traced default transport (tests).
	Transport http.RoundTripper
}

var (
	httpClient *resty.Client
	defaults   Options
	mu         sync.Mutex
)

// New builds a client with logging hooks, request IDs and tracing
func New(opts Options) *resty.Client {
	c := resty.New()

	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	transport := opts.Transport
	if transport == nil {
		transport = otelhttp.NewTransport(
			http.DefaultTransport,
			otelhttp.WithSpanOptions(trace.WithSpanKind(trace.SpanKindClient)),
		)
	}

	c.SetBaseURL(opts.BaseURL)
	c.SetTimeout(opts.Timeout)
	c.SetTransport(transport)
	c.SetHeader("User-Agent", userAgent)
	c.SetHeader("Accept", "application/json")
	if opts.Token != "" {
		c.SetAuthToken(opts.Token)
	}

	c.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		if req.Header.Get(RequestIDHeader) == "" {
			req.SetHeader(RequestIDHeader, uuid.NewString())
		}
		logger.Debug("HTTP Request", "method", req.Method, "url", req.URL, "request_id", req.Header.Get(RequestIDHeader))
		return nil
	})

	c.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logger.Debug("HTTP Response",
			"status", resp.StatusCode(),
			"url", resp.Request.URL,
			"duration_ms", resp.Time().Milliseconds())
		return nil
	})

	return c
}

// Init configures the shared client used by the CLI
func Init(opts Options) {
	mu.Lock()
	defer mu.Unlock()
	defaults = opts
	httpClient = New(opts)
}

// GetClient returns the shared HTTP client
func GetClient() *resty.Client {
	mu.Lock()
	defer mu.Unlock()
	if httpClient == nil {
		httpClient = New(defaults)
	}
	return httpClient
}

// SetAuthToken sets the bearer token on the shared client
func SetAuthToken(token string) {
	c := GetClient()
	mu.Lock()
	defaults.Token = token
	mu.Unlock()
	c.SetAuthToken(token)
}

// ClearAuthToken rebuilds the shared client without credentials
func ClearAuthToken() {
	mu.Lock()
	defer mu.Unlock()
	defaults.Token = ""
	httpClient = New(defaults)
}
