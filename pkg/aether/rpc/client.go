// Package rpc implements the JSON-RPC 2.0 client for an Aether node.
// The client is transport only: every method is a typed request/response
// pair forwarded to the node, with URL failover across the configured
// endpoints. Domain logic on top of these calls lives in the ai, staking
// and governance packages.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aetherchain/go-aether/pkg/aether"
)

const (
	// DefaultRequestTimeout bounds a single HTTP round trip.
	DefaultRequestTimeout = 30 * time.Second
	// DefaultPollInterval is the receipt poll spacing used when a wait
	// does not specify one.
	DefaultPollInterval = time.Second
	// DefaultWaitTimeout is the receipt wait budget used when a wait does
	// not specify one.
	DefaultWaitTimeout = 30 * time.Second
)

// Config parameterizes a Client.
type Config struct {
	// URLs are the node endpoints, tried in order with failover. At
	// least one is required.
	URLs []string
	// RequestTimeout bounds each HTTP attempt. Zero means
	// DefaultRequestTimeout.
	RequestTimeout time.Duration
	// Clock drives the receipt wait loop. Nil means the system clock.
	Clock time2.Clock
	// Registerer receives the client's request metrics. Nil disables
	// registration; the client still works.
	Registerer prometheus.Registerer
	// HTTPClient overrides the transport, mainly for tests. Nil builds
	// one from RequestTimeout.
	HTTPClient *http.Client
}

// Client is a failover JSON-RPC client. It is safe for concurrent use;
// the only mutable state is the preferred endpoint index and the request
// id counter.
type Client struct {
	urls    []string
	httpc   *http.Client
	clock   time2.Clock
	logger  zerolog.Logger
	metrics *clientMetrics

	mu      sync.RWMutex
	current int

	nextID atomic.Int64
}

// NewClient validates cfg and builds a Client. No network traffic happens
// here; unreachable endpoints surface on first use.
func NewClient(cfg Config) (*Client, error) {
	if len(cfg.URLs) == 0 {
		return nil, aether.NewValidationError("urls", "at least one RPC URL is required")
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: timeout}
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time2.DefaultClock
	}

	return &Client{
		urls:    cfg.URLs,
		httpc:   httpc,
		clock:   clock,
		logger:  log.With().Str("component", "rpc").Logger(),
		metrics: newClientMetrics(cfg.Registerer),
	}, nil
}

// Close releases idle transport connections.
func (c *Client) Close() {
	c.httpc.CloseIdleConnections()
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int64  `json:"id"`
}

type rpcResponse struct {
	JSONRPC string           `json:"jsonrpc"`
	Result  json.RawMessage  `json:"result"`
	Error   *aether.RPCError `json:"error"`
	ID      int64            `json:"id"`
}

// call performs one JSON-RPC request and returns the raw result. Node
// errors come back as *aether.RPCError; transport failures rotate through
// the remaining endpoints first.
func (c *Client) call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode %s request", method)
	}

	start := time.Now()
	raw, err := c.post(ctx, method, body)
	c.metrics.duration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.requests.WithLabelValues(method, outcomeTransportError).Inc()
		return nil, err
	}

	var resp rpcResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		c.metrics.requests.WithLabelValues(method, outcomeTransportError).Inc()
		return nil, errors.Wrapf(err, "failed to decode %s response", method)
	}

	if resp.Error != nil {
		c.metrics.requests.WithLabelValues(method, outcomeRPCError).Inc()
		return nil, errors.Wrap(resp.Error, method)
	}

	c.metrics.requests.WithLabelValues(method, outcomeOK).Inc()
	return resp.Result, nil
}

// callInto calls method and decodes the result into out. A null result
// maps to aether.ErrNotFound: the node reports absent entities as null,
// and absence must stay distinguishable from failure.
func (c *Client) callInto(ctx context.Context, method string, params []any, out any) error {
	result, err := c.call(ctx, method, params)
	if err != nil {
		return err
	}

	if isNullResult(result) {
		return errors.Wrap(aether.ErrNotFound, method)
	}

	if err := json.Unmarshal(result, out); err != nil {
		return errors.Wrapf(err, "failed to decode %s result", method)
	}
	return nil
}

func isNullResult(result json.RawMessage) bool {
	return len(result) == 0 || bytes.Equal(result, []byte("null"))
}

// post sends body to the current endpoint, falling over to the next on
// transport errors. The index of the first endpoint that answers becomes
// the new preferred endpoint.
func (c *Client) post(ctx context.Context, method string, body []byte) ([]byte, error) {
	c.mu.RLock()
	start := c.current
	c.mu.RUnlock()

	var lastErr error
	for i := 0; i < len(c.urls); i++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "rpc call cancelled")
		}

		idx := (start + i) % len(c.urls)
		url := c.urls[idx]

		raw, err := c.postOne(ctx, url, body)
		if err != nil {
			lastErr = err
			c.logger.Warn().Str("url", url).Str("method", method).Err(err).
				Msg("RPC node unreachable, trying next")
			continue
		}

		if idx != start {
			c.mu.Lock()
			c.current = idx
			c.mu.Unlock()
		}
		return raw, nil
	}

	return nil, errors.Wrap(lastErr, "all RPC nodes unavailable")
}

func (c *Client) postOne(ctx context.Context, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(raw, 256))
	}

	return raw, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
