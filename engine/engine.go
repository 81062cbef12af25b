// Package engine hashes, signs and submits transactions built by the account layer.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/NethermindEth/starkclient/clients/provider"
	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/NethermindEth/starkclient/core/hash"
	"github.com/NethermindEth/starkclient/rpc"
	"github.com/NethermindEth/starkclient/utils"
	"github.com/NethermindEth/starkclient/validator"
)

var (
	ErrNoSigner     = errors.New("engine has no signer")
	ErrHashMismatch = errors.New("node returned a different transaction hash")
)

// Submission is what the node hands back for an accepted transaction. ClassHash is set for
// declares and ContractAddress for account deployments.
type Submission struct {
	TransactionHash *felt.Felt
	ClassHash       *felt.Felt
	ContractAddress *felt.Felt
}

type Engine struct {
	provider provider.Provider
	signer   Signer
	chainID  *felt.Felt
	log      utils.SimpleLogger
}

// New returns an engine for one chain. signer may be nil for an engine that only estimates.
func New(p provider.Provider, signer Signer, chainID *felt.Felt) *Engine {
	return &Engine{
		provider: p,
		signer:   signer,
		chainID:  chainID,
		log:      utils.NewNopZapLogger(),
	}
}

func (e *Engine) WithLogger(log utils.SimpleLogger) *Engine {
	e.log = log
	return e
}

func (e *Engine) Provider() provider.Provider { return e.provider }
func (e *Engine) ChainID() *felt.Felt         { return e.chainID }

// EstimateFee prices txs in query mode with validation skipped. The intents are not modified
// and the estimates are returned as the node computed them.
func (e *Engine) EstimateFee(ctx context.Context, txs []*rpc.Transaction, blockID rpc.BlockID) ([]rpc.FeeEstimate, error) {
	queries := make([]*rpc.Transaction, len(txs))
	for i, tx := range txs {
		if tx.Body == nil {
			return nil, rpc.ErrMissingBody
		}
		queries[i] = estimateQuery(tx)
	}

	estimates, err := e.provider.EstimateFee(ctx, queries, []rpc.SimulationFlag{rpc.SkipValidateFlag}, blockID)
	if err != nil {
		return nil, classify(err)
	}
	if len(estimates) != len(txs) {
		return nil, &rpc.SchemaError{
			Reason: fmt.Sprintf("node returned %d estimates for %d transactions", len(estimates), len(txs)),
		}
	}
	e.log.Debugw("Estimated fees", "transactions", len(txs), "block", blockID)
	return estimates, nil
}

// Simulate runs txs in query mode against blockID.
func (e *Engine) Simulate(ctx context.Context, txs []*rpc.Transaction, blockID rpc.BlockID,
	flags ...rpc.SimulationFlag,
) ([]rpc.SimulatedTransaction, error) {
	queries := make([]*rpc.Transaction, len(txs))
	for i, tx := range txs {
		if tx.Body == nil {
			return nil, rpc.ErrMissingBody
		}
		queries[i] = estimateQuery(tx)
	}
	simulated, err := e.provider.SimulateTransactions(ctx, blockID, queries, flags)
	if err != nil {
		return nil, classify(err)
	}
	return simulated, nil
}

func estimateQuery(tx *rpc.Transaction) *rpc.Transaction {
	q := tx.AsQuery()
	q.Hash = nil
	q.Body.SetSignature([]*felt.Felt{})
	if v3, ok := rpc.V3(q.Body); ok {
		v3.ResourceBounds = rpc.ZeroResourceBounds()
	}
	return q
}

// Sign computes the hash of tx and sets its signature. tx is signed as is, so a query
// version yields a signature only valid for estimation.
func (e *Engine) Sign(ctx context.Context, tx *rpc.Transaction) (*felt.Felt, error) {
	if e.signer == nil {
		return nil, ErrNoSigner
	}
	if err := validator.Validator().Struct(tx); err != nil {
		return nil, fmt.Errorf("invalid %s transaction: %w", tx.Type, err)
	}

	txHash, err := hash.TransactionHash(tx, e.chainID)
	if err != nil {
		return nil, err
	}
	sig, err := e.signer.Sign(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("sign transaction %s: %w", txHash, err)
	}
	tx.Body.SetSignature(sig)
	return txHash, nil
}

// SignHash signs an arbitrary hash, such as a typed data message hash.
func (e *Engine) SignHash(ctx context.Context, h *felt.Felt) ([]*felt.Felt, error) {
	if e.signer == nil {
		return nil, ErrNoSigner
	}
	return e.signer.Sign(ctx, h)
}

// Submit signs tx and broadcasts it. The node must report the hash computed locally.
func (e *Engine) Submit(ctx context.Context, tx *rpc.Transaction) (*Submission, error) {
	txHash, err := e.Sign(ctx, tx)
	if err != nil {
		return nil, err
	}

	sub, err := e.broadcast(ctx, tx)
	if err != nil {
		e.log.Debugw("Transaction refused", "hash", txHash, "type", tx.Type, "err", err)
		return nil, classify(err)
	}
	if sub.TransactionHash == nil {
		return nil, &rpc.SchemaError{Path: "transaction_hash", Reason: "node reply has no transaction hash"}
	}
	if !sub.TransactionHash.Equal(txHash) {
		return nil, fmt.Errorf("%w: computed %s, node returned %s", ErrHashMismatch, txHash, sub.TransactionHash)
	}
	e.log.Infow("Submitted transaction", "hash", txHash, "type", tx.Type)
	return sub, nil
}

func (e *Engine) broadcast(ctx context.Context, tx *rpc.Transaction) (*Submission, error) {
	switch tx.Type {
	case rpc.TxnInvoke:
		resp, err := e.provider.AddInvokeTransaction(ctx, tx)
		if err != nil {
			return nil, err
		}
		return &Submission{TransactionHash: resp.TransactionHash}, nil
	case rpc.TxnDeclare:
		resp, err := e.provider.AddDeclareTransaction(ctx, tx)
		if err != nil {
			return nil, err
		}
		return &Submission{TransactionHash: resp.TransactionHash, ClassHash: resp.ClassHash}, nil
	case rpc.TxnDeployAccount:
		resp, err := e.provider.AddDeployAccountTransaction(ctx, tx)
		if err != nil {
			return nil, err
		}
		return &Submission{TransactionHash: resp.TransactionHash, ContractAddress: resp.ContractAddress}, nil
	default:
		return nil, fmt.Errorf("cannot broadcast %s transactions", tx.Type)
	}
}
