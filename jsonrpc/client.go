package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/NethermindEth/starkclient/utils"
)

// Backoff returns the wait before the retry with the given zero based index.
type Backoff func(retry int, minWait time.Duration) time.Duration

// JitterBackoff draws the wait uniformly from [minWait·2ⁿ, 1.5·minWait·2ⁿ].
func JitterBackoff(retry int, minWait time.Duration) time.Duration {
	base := minWait << retry
	return base + rand.N(base/2+1)
}

func NopBackoff(int, time.Duration) time.Duration {
	return 0
}

// Client sends JSON-RPC requests over HTTP. It is safe for concurrent use.
type Client struct {
	url        string
	client     *http.Client
	header     http.Header
	timeout    time.Duration
	backoff    Backoff
	maxRetries int
	minWait    time.Duration
	log        utils.SimpleLogger
	listener   EventListener
	nextID     atomic.Uint64
}

func NewClient(url string) *Client {
	return &Client{
		url:        url,
		client:     http.DefaultClient,
		header:     make(http.Header),
		timeout:    30 * time.Second,
		backoff:    JitterBackoff,
		maxRetries: 3,
		minWait:    500 * time.Millisecond,
		log:        utils.NewNopZapLogger(),
		listener:   &SelectiveListener{},
	}
}

// WithTimeout bounds every attempt. Zero leaves attempts bounded by the caller's context only.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.timeout = d
	return c
}

func (c *Client) WithMaxRetries(num int) *Client {
	c.maxRetries = num
	return c
}

func (c *Client) WithBackoff(b Backoff) *Client {
	c.backoff = b
	return c
}

func (c *Client) WithMinWait(d time.Duration) *Client {
	c.minWait = d
	return c
}

func (c *Client) WithLogger(log utils.SimpleLogger) *Client {
	c.log = log
	return c
}

func (c *Client) WithListener(l EventListener) *Client {
	c.listener = l
	return c
}

func (c *Client) WithHeader(key, value string) *Client {
	c.header.Set(key, value)
	return c
}

func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.client = client
	return c
}

func (c *Client) URL() string { return c.url }

// Call invokes method with positional params and decodes the result into result, which
// may be a *json.RawMessage to defer decoding. A nil result discards it.
func (c *Client) Call(ctx context.Context, result any, method string, params ...any) error {
	c.listener.OnRequest(method)
	start := time.Now()
	err := c.call(ctx, result, method, params)
	if err != nil {
		c.listener.OnRequestFailed(method, err)
		return err
	}
	c.listener.OnRequestDone(method, time.Since(start))
	return nil
}

func (c *Client) call(ctx context.Context, result any, method string, params []any) error {
	body, err := json.Marshal(newRequest(c.nextID.Add(1), method, params))
	if err != nil {
		return fmt.Errorf("encode %s request: %w", method, err)
	}
	raw, err := c.post(ctx, method, body)
	if err != nil {
		return err
	}

	var resp response
	if err = json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	return resp.decode(result)
}

func (r *response) decode(result any) error {
	if r.Error != nil {
		return r.Error
	}
	if result == nil || len(r.Result) == 0 {
		return nil
	}
	return json.Unmarshal(r.Result, result)
}

// BatchElem is one request of a batch. Error is set when the node answered that request
// with an error or not at all.
type BatchElem struct {
	Method string
	Params []any
	Result any
	Error  error
}

// BatchCall sends all elements in one request. The returned error is only about the
// transport; errors of single elements are stored in them.
func (c *Client) BatchCall(ctx context.Context, batch []BatchElem) error {
	const method = "batch"
	c.listener.OnRequest(method)
	start := time.Now()
	if err := c.batchCall(ctx, batch); err != nil {
		c.listener.OnRequestFailed(method, err)
		return err
	}
	c.listener.OnRequestDone(method, time.Since(start))
	return nil
}

func (c *Client) batchCall(ctx context.Context, batch []BatchElem) error {
	if len(batch) == 0 {
		return nil
	}
	reqs := make([]request, len(batch))
	byID := make(map[uint64]int, len(batch))
	for i, elem := range batch {
		reqs[i] = newRequest(c.nextID.Add(1), elem.Method, elem.Params)
		byID[reqs[i].ID] = i
	}
	body, err := json.Marshal(reqs)
	if err != nil {
		return fmt.Errorf("encode batch request: %w", err)
	}
	raw, err := c.post(ctx, "batch", body)
	if err != nil {
		return err
	}

	var resps []response
	if err = json.Unmarshal(raw, &resps); err != nil {
		// nodes answer a batch they cannot parse with a single error object
		var single response
		if json.Unmarshal(raw, &single) == nil && single.Error != nil {
			return single.Error
		}
		return fmt.Errorf("decode batch response: %w", err)
	}

	answered := make([]bool, len(batch))
	for i := range resps {
		if resps[i].ID == nil {
			continue
		}
		idx, ok := byID[*resps[i].ID]
		if !ok || answered[idx] {
			continue
		}
		answered[idx] = true
		batch[idx].Error = resps[i].decode(batch[idx].Result)
	}
	for i := range batch {
		if !answered[i] {
			batch[i].Error = fmt.Errorf("no response for %s", batch[i].Method)
		}
	}
	return nil
}

// post sends body and retries transport failures that may go away.
func (c *Client) post(ctx context.Context, method string, body []byte) ([]byte, error) {
	var err error
	for attempt := range c.maxRetries + 1 {
		if attempt > 0 {
			wait := c.backoff(attempt-1, c.minWait)
			c.listener.OnRetry(method, attempt)
			c.log.Debugw("Failed request, retrying...",
				"method", method,
				"attempt", attempt,
				"retryAfter", wait.String(),
				"err", err,
			)
			select {
			case <-ctx.Done():
				return nil, contextError(ctx.Err())
			case <-time.After(wait):
			}
		}

		var raw []byte
		raw, err = c.send(ctx, body)
		if err == nil {
			return raw, nil
		}
		var transportErr *TransportError
		if !errors.As(err, &transportErr) || !transportErr.Retryable() {
			return nil, err
		}
	}
	c.log.Warnw("Request failed after retries", "method", method, "retries", c.maxRetries, "err", err)
	return nil, err
}

func (c *Client) send(ctx context.Context, body []byte) ([]byte, error) {
	attemptCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header = c.header.Clone()
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, transportError(ctx, attemptCtx, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, transportError(ctx, attemptCtx, err)
	}
	if res.StatusCode != http.StatusOK {
		// some nodes attach a JSON-RPC error to non 200 statuses
		var resp response
		if json.Unmarshal(raw, &resp) == nil && resp.Error != nil {
			return raw, nil
		}
		return nil, &TransportError{Kind: KindHTTP, Status: res.StatusCode, Err: errors.New(res.Status)}
	}
	return raw, nil
}

func transportError(ctx, attemptCtx context.Context, err error) error {
	if ctx.Err() != nil {
		return contextError(ctx.Err())
	}
	if attemptCtx.Err() != nil {
		return &TransportError{Kind: KindTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TransportError{Kind: KindTimeout, Err: err}
	}
	return &TransportError{Kind: KindConnection, Err: err}
}
