// Package waiter polls a node until a submitted transaction reaches a terminal status.
package waiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/NethermindEth/starkclient/engine"
	"github.com/NethermindEth/starkclient/jsonrpc"
	"github.com/NethermindEth/starkclient/rpc"
	"github.com/NethermindEth/starkclient/utils"
	"github.com/sourcegraph/conc/pool"
)

const (
	DefaultDeadline    = 5 * time.Minute
	DefaultMinInterval = 2 * time.Second
	DefaultMaxInterval = 60 * time.Second
	defaultWorkers     = 8
)

// ErrWaitTimeout means the deadline passed before the transaction settled. The
// transaction may still be included later.
var ErrWaitTimeout = errors.New("timed out waiting for transaction")

// StatusReader is the part of a provider the waiter polls.
type StatusReader interface {
	TransactionStatus(ctx context.Context, hash *felt.Felt) (*rpc.TransactionStatus, error)
	TransactionReceipt(ctx context.Context, hash *felt.Felt) (*rpc.TransactionReceipt, error)
}

type Options struct {
	Deadline    time.Duration
	MinInterval time.Duration
	MaxInterval time.Duration
	Logger      utils.SimpleLogger
}

func (o Options) withDefaults() Options {
	if o.Deadline <= 0 {
		o.Deadline = DefaultDeadline
	}
	if o.MinInterval <= 0 {
		o.MinInterval = DefaultMinInterval
	}
	if o.MaxInterval <= 0 {
		o.MaxInterval = DefaultMaxInterval
	}
	if o.MaxInterval < o.MinInterval {
		o.MaxInterval = o.MinInterval
	}
	if o.Logger == nil {
		o.Logger = utils.NewNopZapLogger()
	}
	return o
}

// Result is a transaction accepted on L2 or L1 with a successful execution.
type Result struct {
	Hash    *felt.Felt
	Status  rpc.TxnStatus
	Receipt *rpc.TransactionReceipt
}

// Wait polls the status of hash with a doubling interval until it is accepted, reverted or
// rejected. Reverts and rejections come back as *engine.TransactionError.
func Wait(ctx context.Context, r StatusReader, hash *felt.Felt, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	waitCtx, cancel := context.WithTimeout(ctx, opts.Deadline)
	defer cancel()

	interval := opts.MinInterval
	for attempt := 1; ; attempt++ {
		res, err := check(waitCtx, r, hash)
		switch {
		case res != nil:
			opts.Logger.Debugw("Transaction settled", "hash", hash, "status", res.Status, "attempts", attempt)
			return res, nil
		case err != nil && waitCtx.Err() == nil:
			return nil, err
		}
		opts.Logger.Debugw("Transaction not settled yet", "hash", hash, "attempt", attempt, "next", interval)

		timer := time.NewTimer(interval)
		select {
		case <-timer.C:
		case <-waitCtx.Done():
			timer.Stop()
			return nil, doneError(ctx, hash)
		}
		interval = min(2*interval, opts.MaxInterval)
	}
}

// check returns a result once the transaction settled. A nil result and error means keep
// polling.
func check(ctx context.Context, r StatusReader, hash *felt.Felt) (*Result, error) {
	status, err := r.TransactionStatus(ctx, hash)
	if err != nil {
		if pending(err) {
			return nil, nil
		}
		return nil, err
	}

	if status.Execution == rpc.TxnFailure {
		return nil, &engine.TransactionError{
			Kind:   engine.Reverted,
			Hash:   hash,
			Reason: engine.DecodeFailureReason(status.FailureReason),
		}
	}
	switch status.Finality {
	case rpc.TxnStatusRejected:
		return nil, &engine.TransactionError{
			Kind:   engine.Rejected,
			Hash:   hash,
			Reason: engine.DecodeFailureReason(status.FailureReason),
		}
	case rpc.TxnStatusAcceptedOnL2, rpc.TxnStatusAcceptedOnL1:
	default:
		return nil, nil
	}

	receipt, err := r.TransactionReceipt(ctx, hash)
	if err != nil {
		if pending(err) {
			return nil, nil
		}
		return nil, err
	}
	if receipt.ExecutionStatus == rpc.TxnFailure {
		return nil, &engine.TransactionError{Kind: engine.Reverted, Hash: hash, Reason: receipt.RevertReason}
	}
	return &Result{Hash: hash, Status: status.Finality, Receipt: receipt}, nil
}

// pending reports errors that only mean the node has not seen the transaction yet or
// could not be reached this round.
func pending(err error) bool {
	if errors.Is(err, rpc.ErrTxnHashNotFound) {
		return true
	}
	var transportErr *jsonrpc.TransportError
	return errors.As(err, &transportErr) && transportErr.Retryable()
}

func doneError(parent context.Context, hash *felt.Felt) error {
	switch {
	case errors.Is(parent.Err(), context.Canceled):
		return fmt.Errorf("wait for %s: %w", hash, jsonrpc.ErrCancelled)
	case errors.Is(parent.Err(), context.DeadlineExceeded):
		return fmt.Errorf("wait for %s: %w", hash, jsonrpc.ErrTimeout)
	default:
		return fmt.Errorf("%w %s", ErrWaitTimeout, hash)
	}
}

// WaitAll waits for every hash concurrently. Results line up with hashes and are nil where
// waiting failed; the failures are joined into the returned error.
func WaitAll(ctx context.Context, r StatusReader, hashes []*felt.Felt, opts Options) ([]*Result, error) {
	results := make([]*Result, len(hashes))
	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(defaultWorkers)
	for i, hash := range hashes {
		p.Go(func(ctx context.Context) error {
			res, err := Wait(ctx, r, hash, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	return results, p.Wait()
}
