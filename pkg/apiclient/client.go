package apiclient

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jwalitptl/passpay-web/pkg/circuitbreaker"
	"github.com/jwalitptl/passpay-web/pkg/errors"
	"github.com/jwalitptl/passpay-web/pkg/logger"
	"github.com/jwalitptl/passpay-web/pkg/metrics"
)

const (
	apiPrefix       = "/api"
	maxResponseSize = 10 << 20
)

// errCallerGone marks transport failures caused by the caller's context
// ending, which say nothing about the backend's health.
var errCallerGone = stderrors.New("caller context done")

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	BaseURL         string
	Timeout         time.Duration
	BreakerFailures int
	BreakerTimeout  time.Duration
	HTTPClient      Doer
	Metrics         *metrics.Metrics
	Logger          *logger.Logger
}

// Request describes one backend call. Endpoint is a stable label used for
// metrics; it defaults to Path.
type Request struct {
	Method   string
	Path     string
	Query    Params
	Token    string
	Body     Body
	Endpoint string
}

type Client struct {
	baseURL string
	http    Doer
	breaker *circuitbreaker.CircuitBreaker
	metrics *metrics.Metrics
	log     *logger.Logger
}

type envelope struct {
	Status  *bool           `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		metrics: cfg.Metrics,
		log:     log.With("apiclient"),
	}

	c.breaker = circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
		Name:        "passpay-backend",
		MaxFailures: cfg.BreakerFailures,
		Timeout:     cfg.BreakerTimeout,
		IsFailure: func(err error) bool {
			return errors.Is(err, errors.ErrTransport) && !stderrors.Is(err, errCallerGone)
		},
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			c.log.Info("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			if c.metrics != nil {
				c.metrics.BreakerState.WithLabelValues(name).Set(float64(to))
			}
		},
	})

	return c
}

// BaseURL is the backend origin without the API prefix.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs the request and decodes the envelope's data into out (which may
// be nil). Every failure is an *errors.AppError.
func (c *Client) Do(ctx context.Context, r Request, out interface{}) error {
	endpoint := r.Endpoint
	if endpoint == "" {
		endpoint = r.Path
	}
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	start := time.Now()
	var status int
	err := c.breaker.Execute(func() error {
		var err error
		status, err = c.do(ctx, method, r, out)
		return err
	})
	if err == circuitbreaker.ErrOpen {
		err = errors.Transport("Le service est momentanément indisponible", err)
	}

	c.observe(endpoint, method, err, time.Since(start))
	c.log.Debug("backend call",
		"method", method,
		"path", r.Path,
		"status", status,
		"duration", time.Since(start).String(),
		"ok", err == nil,
	)
	return err
}

func (c *Client) do(ctx context.Context, method string, r Request, out interface{}) (int, error) {
	var (
		body        io.Reader
		contentType string
	)
	if r.Body != nil {
		var err error
		body, contentType, err = r.Body.encode()
		if err != nil {
			return 0, errors.NewInternal(fmt.Errorf("encode request body: %w", err))
		}
	}

	target := c.baseURL + apiPrefix + r.Path
	if q := r.Query.Values(); len(q) > 0 {
		target += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if r.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, errors.Transport("Impossible de contacter le serveur", callerGone(ctx, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return resp.StatusCode, errors.Transport("Réponse du serveur illisible", callerGone(ctx, err))
	}

	return resp.StatusCode, decode(resp.StatusCode, raw, out)
}

func callerGone(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %w", errCallerGone, err)
	}
	return err
}

func decode(status int, raw []byte, out interface{}) error {
	ok := status >= 200 && status < 300

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Status == nil {
		if ok {
			return errors.Transport("Réponse du serveur invalide", err)
		}
		return errors.Transport(fmt.Sprintf("Erreur HTTP %d", status), nil)
	}

	if !ok || !*env.Status {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("Erreur HTTP %d", status)
		}
		return errors.Application(codeFor(status), msg)
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.Transport("Réponse du serveur invalide", err)
	}
	return nil
}

func codeFor(status int) errors.ErrorCode {
	switch status {
	case http.StatusUnauthorized:
		return errors.ErrUnauthorized
	case http.StatusForbidden:
		return errors.ErrForbidden
	case http.StatusNotFound:
		return errors.ErrNotFound
	default:
		return errors.ErrApplication
	}
}

func (c *Client) observe(endpoint, method string, err error, d time.Duration) {
	if c.metrics == nil {
		return
	}
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, errors.ErrTransport):
		outcome = "transport_error"
	default:
		outcome = "app_error"
	}
	c.metrics.BackendRequests.WithLabelValues(endpoint, method, outcome).Inc()
	c.metrics.BackendLatency.WithLabelValues(endpoint).Observe(d.Seconds())
}
