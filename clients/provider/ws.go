package provider

import (
	"context"
	"sync"

	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/NethermindEth/starkclient/jsonrpc"
	"github.com/NethermindEth/starkclient/rpc"
	"github.com/ethereum/go-ethereum/event"
)

const (
	subscribeNewHeads            = "starknet_subscribeNewHeads"
	subscribeEvents              = "starknet_subscribeEvents"
	subscribePendingTransactions = "starknet_subscribePendingTransactions"
	subscribeTransactionStatus   = "starknet_subscribeTransactionStatus"
)

// WSClient is a Client running over a websocket, with subscriptions on top.
type WSClient struct {
	*Client
	ws *jsonrpc.WSClient
}

// NewWS wraps an already dialled websocket client.
func NewWS(ws *jsonrpc.WSClient, schema *rpc.Schema) *WSClient {
	return &WSClient{Client: New(ws, schema), ws: ws}
}

// Subscription delivers decoded notifications of one kind, plus the reorgs the node reports
// on the same subscription. Events and Reorgs are closed once Err is closed.
type Subscription[T any] struct {
	sub    *jsonrpc.Subscription
	events chan *T
	reorgs chan *rpc.ReorgEvent
	errc   chan error

	mu    sync.Mutex
	queue []any
	wake  chan struct{}
}

func (s *Subscription[T]) ID() string                     { return s.sub.ID() }
func (s *Subscription[T]) Events() <-chan *T              { return s.events }
func (s *Subscription[T]) Reorgs() <-chan *rpc.ReorgEvent { return s.reorgs }

// Err yields the error that ended the subscription, if any, then closes.
func (s *Subscription[T]) Err() <-chan error { return s.errc }

func (s *Subscription[T]) Unsubscribe(ctx context.Context) error {
	return s.sub.Unsubscribe(ctx)
}

func (s *Subscription[T]) push(v any) {
	s.mu.Lock()
	s.queue = append(s.queue, v)
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Subscription[T]) pop() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.queue
	s.queue = nil
	return q
}

// pump moves queued notifications to the channels so the read loop never waits on a slow
// receiver. The first receive from the underlying Err ends the subscription.
func (s *Subscription[T]) pump() {
	err := s.deliverAll()
	close(s.events)
	close(s.reorgs)
	if err != nil {
		s.errc <- err
	}
	close(s.errc)
}

func (s *Subscription[T]) deliverAll() error {
	for {
		select {
		case <-s.wake:
		case err := <-s.sub.Err():
			return err
		}
		for _, v := range s.pop() {
			var err error
			var ended bool
			switch v := v.(type) {
			case *T:
				select {
				case s.events <- v:
				case err = <-s.sub.Err():
					ended = true
				}
			case *rpc.ReorgEvent:
				select {
				case s.reorgs <- v:
				case err = <-s.sub.Err():
					ended = true
				}
			}
			if ended {
				return err
			}
		}
	}
}

func subscribe[T any](ctx context.Context, c *WSClient, method, notification string,
	params jsonrpc.Named,
) (*Subscription[T], error) {
	var args []any
	if len(params) > 0 {
		encoded, err := c.encodeParams([]any{params})
		if err != nil {
			return nil, err
		}
		args = encoded
	}

	s := &Subscription[T]{
		events: make(chan *T),
		reorgs: make(chan *rpc.ReorgEvent),
		errc:   make(chan error, 1),
		wake:   make(chan struct{}, 1),
	}
	handler := func(n *jsonrpc.Notification) {
		if n.Method != notification && n.Method != rpc.MethodReorg {
			c.log.Debugw("Unexpected notification", "method", n.Method, "subscription", n.SubscriptionID)
			return
		}
		decoded, err := c.schema.ParseNotification(n.Method, n.Params)
		if err != nil {
			c.log.Warnw("Dropping undecodable notification", "method", n.Method, "err", err)
			return
		}
		switch d := decoded.(type) {
		case *rpc.Notification[T]:
			s.push(&d.Result)
		case *rpc.ReorgNotification:
			s.push(&d.Result)
		}
	}

	sub, err := c.ws.Subscribe(ctx, method, args, handler)
	if err != nil {
		return nil, err
	}
	s.sub = sub
	go s.pump()
	return s, nil
}

// SubscribeNewHeads streams block headers, starting from blockID when it is set.
func (c *WSClient) SubscribeNewHeads(ctx context.Context, blockID *rpc.BlockID) (*Subscription[rpc.BlockHeader], error) {
	params := jsonrpc.Named{}
	if blockID != nil {
		params["block_id"] = *blockID
	}
	return subscribe[rpc.BlockHeader](ctx, c, subscribeNewHeads, rpc.MethodNewHeads, params)
}

// SubscribeEvents streams events matching the optional emitter and key filter.
func (c *WSClient) SubscribeEvents(ctx context.Context, address *felt.Felt, keys [][]*felt.Felt,
	blockID *rpc.BlockID,
) (*Subscription[rpc.EmittedEvent], error) {
	params := jsonrpc.Named{}
	if address != nil {
		params["from_address"] = address
	}
	if len(keys) > 0 {
		params["keys"] = keys
	}
	if blockID != nil {
		params["block_id"] = *blockID
	}
	return subscribe[rpc.EmittedEvent](ctx, c, subscribeEvents, rpc.MethodEvents, params)
}

// SubscribePendingTransactions streams pending transactions, as hashes unless details is
// set, optionally restricted to senders.
func (c *WSClient) SubscribePendingTransactions(ctx context.Context, details bool,
	senders []*felt.Felt,
) (*Subscription[rpc.PendingTransaction], error) {
	params := jsonrpc.Named{}
	if details {
		params["transaction_details"] = true
	}
	if len(senders) > 0 {
		params["sender_address"] = senders
	}
	return subscribe[rpc.PendingTransaction](ctx, c, subscribePendingTransactions,
		rpc.MethodPendingTransactions, params)
}

// SubscribeTransactionStatus streams every status change of one transaction.
func (c *WSClient) SubscribeTransactionStatus(ctx context.Context,
	hash *felt.Felt,
) (*Subscription[rpc.SubscriptionTransactionStatus], error) {
	params := jsonrpc.Named{"transaction_hash": hash}
	return subscribe[rpc.SubscriptionTransactionStatus](ctx, c, subscribeTransactionStatus,
		rpc.MethodTransactionStatus, params)
}

// SubscribeReorgs delivers every reorg the node reports, across all subscriptions.
func (c *WSClient) SubscribeReorgs(ch chan<- *rpc.ReorgEvent) event.Subscription {
	raw := make(chan *jsonrpc.Notification)
	feed := c.ws.SubscribeReorgs(raw)
	return event.NewSubscription(func(quit <-chan struct{}) error {
		defer feed.Unsubscribe()
		for {
			select {
			case n := <-raw:
				decoded, err := c.schema.ParseNotification(n.Method, n.Params)
				if err != nil {
					c.log.Warnw("Dropping undecodable reorg", "err", err)
					continue
				}
				select {
				case ch <- &decoded.(*rpc.ReorgNotification).Result:
				case <-quit:
					return nil
				}
			case err := <-feed.Err():
				return err
			case <-quit:
				return nil
			}
		}
	})
}
