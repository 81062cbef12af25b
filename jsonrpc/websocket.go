package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/NethermindEth/starkclient/utils"
	"github.com/coder/websocket"
	"github.com/ethereum/go-ethereum/event"
	"github.com/sourcegraph/conc"
)

const (
	unsubscribeMethod = "starknet_unsubscribe"
	reorgMethod       = "starknet_subscriptionReorg"

	maxMessageSize = 32 << 20
)

// Notification is a message the node pushes for a subscription. Params holds the whole
// params object, subscription id included.
type Notification struct {
	Method         string
	SubscriptionID string
	Params         json.RawMessage
}

type message struct {
	Version string          `json:"jsonrpc"`
	ID      *uint64         `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

type pendingCall struct {
	ch chan *message
	// onResult runs on the read loop before any later message is handled
	onResult func(json.RawMessage)
}

// WSClient multiplexes calls and subscriptions over one websocket connection.
type WSClient struct {
	url    string
	header http.Header
	log    utils.SimpleLogger

	conn    *websocket.Conn
	cancel  context.CancelFunc
	wg      conc.WaitGroup
	nextID  atomic.Uint64
	reorgs  event.Feed
	done    chan struct{}
	doneErr error

	mu      sync.Mutex
	pending map[uint64]pendingCall
	subs    map[string]*Subscription
}

func NewWSClient(url string) *WSClient {
	return &WSClient{
		url:     url,
		header:  make(http.Header),
		log:     utils.NewNopZapLogger(),
		done:    make(chan struct{}),
		pending: make(map[uint64]pendingCall),
		subs:    make(map[string]*Subscription),
	}
}

func (c *WSClient) WithLogger(log utils.SimpleLogger) *WSClient {
	c.log = log
	return c
}

func (c *WSClient) WithHeader(key, value string) *WSClient {
	c.header.Set(key, value)
	return c
}

// Dial opens the connection and starts reading from it.
func (c *WSClient) Dial(ctx context.Context) error {
	conn, _, err := websocket.Dial(ctx, c.url, &websocket.DialOptions{HTTPHeader: c.header}) //nolint:bodyclose
	if err != nil {
		if ctx.Err() != nil {
			return contextError(ctx.Err())
		}
		return &TransportError{Kind: KindConnection, Err: err}
	}
	conn.SetReadLimit(maxMessageSize)

	readCtx, cancel := context.WithCancel(context.Background())
	c.conn, c.cancel = conn, cancel
	c.wg.Go(func() { c.readLoop(readCtx) })
	return nil
}

// Close ends every subscription with ErrClosed and waits for the read loop to exit.
func (c *WSClient) Close() error {
	err := c.conn.Close(websocket.StatusNormalClosure, "")
	c.cancel()
	c.wg.Wait()
	return err
}

// Done is closed once the connection is gone.
func (c *WSClient) Done() <-chan struct{} { return c.done }

func (c *WSClient) readLoop(ctx context.Context) {
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			c.shutdown(err)
			return
		}
		c.dispatch(data)
	}
}

func (c *WSClient) shutdown(err error) {
	var closeErr error = ErrClosed
	if websocket.CloseStatus(err) != websocket.StatusNormalClosure && !errors.Is(err, context.Canceled) {
		closeErr = &TransportError{Kind: KindConnection, Err: err}
		c.log.Warnw("Websocket connection lost", "url", c.url, "err", err)
	}

	c.mu.Lock()
	c.doneErr = closeErr
	subs := c.subs
	c.subs = make(map[string]*Subscription)
	c.mu.Unlock()

	close(c.done)
	for _, sub := range subs {
		sub.finish(closeErr)
	}
}

func (c *WSClient) dispatch(data []byte) {
	var msg message
	if err := json.Unmarshal(data, &msg); err != nil {
		c.log.Warnw("Dropping malformed websocket message", "err", err)
		return
	}

	if msg.Method != "" {
		c.notify(&msg)
		return
	}
	if msg.ID == nil {
		c.log.Debugw("Dropping websocket message without id")
		return
	}

	c.mu.Lock()
	call, ok := c.pending[*msg.ID]
	delete(c.pending, *msg.ID)
	c.mu.Unlock()
	if !ok {
		return
	}
	if msg.Error == nil && call.onResult != nil {
		call.onResult(msg.Result)
	}
	call.ch <- &msg
}

func (c *WSClient) notify(msg *message) {
	var params struct {
		SubscriptionID json.RawMessage `json:"subscription_id"`
	}
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		c.log.Warnw("Dropping malformed notification", "method", msg.Method, "err", err)
		return
	}
	n := &Notification{
		Method:         msg.Method,
		SubscriptionID: subscriptionKey(params.SubscriptionID),
		Params:         msg.Params,
	}

	if n.Method == reorgMethod {
		c.reorgs.Send(n)
	}

	c.mu.Lock()
	sub, ok := c.subs[n.SubscriptionID]
	c.mu.Unlock()
	if !ok {
		c.log.Debugw("Notification for unknown subscription", "method", n.Method, "id", n.SubscriptionID)
		return
	}
	sub.handler(n)
}

// subscriptionKey normalises an id that may arrive as a number or a string.
func subscriptionKey(raw json.RawMessage) string {
	return strings.Trim(string(raw), `"`)
}

// SubscribeReorgs delivers every reorg notification, whichever subscription it belongs to.
// A slow receiver blocks the read loop.
func (c *WSClient) SubscribeReorgs(ch chan<- *Notification) event.Subscription {
	return c.reorgs.Subscribe(ch)
}

func (c *WSClient) Call(ctx context.Context, result any, method string, params ...any) error {
	return c.call(ctx, result, nil, method, params)
}

func (c *WSClient) call(ctx context.Context, result any, onResult func(json.RawMessage), method string,
	params []any,
) error {
	id := c.nextID.Add(1)
	body, err := json.Marshal(newRequest(id, method, params))
	if err != nil {
		return fmt.Errorf("encode %s request: %w", method, err)
	}

	ch := make(chan *message, 1)
	c.mu.Lock()
	if c.doneErr != nil {
		c.mu.Unlock()
		return c.doneErr
	}
	c.pending[id] = pendingCall{ch: ch, onResult: onResult}
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	if err = c.conn.Write(ctx, websocket.MessageText, body); err != nil {
		if ctx.Err() != nil {
			return contextError(ctx.Err())
		}
		return &TransportError{Kind: KindConnection, Err: err}
	}

	select {
	case <-ctx.Done():
		return contextError(ctx.Err())
	case <-c.done:
		return c.doneErr
	case msg := <-ch:
		if msg.Error != nil {
			return msg.Error
		}
		if result == nil || len(msg.Result) == 0 {
			return nil
		}
		return json.Unmarshal(msg.Result, result)
	}
}

// Subscription is a live subscription. The handler runs on the read loop and must not
// block.
type Subscription struct {
	client  *WSClient
	rawID   json.RawMessage
	id      string
	handler func(*Notification)
	errc    chan error
	once    sync.Once
}

// Subscribe calls a starknet_subscribe* method and routes its notifications to handler.
func (c *WSClient) Subscribe(ctx context.Context, method string, params []any,
	handler func(*Notification),
) (*Subscription, error) {
	sub := &Subscription{
		client:  c,
		handler: handler,
		errc:    make(chan error, 1),
	}
	register := func(result json.RawMessage) {
		sub.rawID = append(json.RawMessage(nil), result...)
		sub.id = subscriptionKey(result)
		c.mu.Lock()
		c.subs[sub.id] = sub
		c.mu.Unlock()
	}
	if err := c.call(ctx, nil, register, method, params); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *Subscription) ID() string { return s.id }

// Err is closed when the subscription ends. It first yields the error that ended it, if any.
func (s *Subscription) Err() <-chan error { return s.errc }

// Unsubscribe stops the notifications and tells the node.
func (s *Subscription) Unsubscribe(ctx context.Context) error {
	s.client.mu.Lock()
	_, live := s.client.subs[s.id]
	delete(s.client.subs, s.id)
	s.client.mu.Unlock()
	if !live {
		return nil
	}
	defer s.finish(nil)

	var ok bool
	return s.client.Call(ctx, &ok, unsubscribeMethod, s.rawID)
}

func (s *Subscription) finish(err error) {
	s.once.Do(func() {
		if err != nil {
			s.errc <- err
		}
		close(s.errc)
	})
}
