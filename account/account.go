// Package account builds, signs and sends transactions on behalf of an account contract.
package account

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/NethermindEth/starkclient/clients/provider"
	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/NethermindEth/starkclient/engine"
	"github.com/NethermindEth/starkclient/rpc"
	"github.com/NethermindEth/starkclient/utils"
	"github.com/NethermindEth/starkclient/waiter"
)

type TxVersion uint8

const (
	V1 TxVersion = 1
	V3 TxVersion = 3
)

var ErrUnsupportedTxVersion = errors.New("unsupported transaction version")

type Option func(*Account)

// WithCairoVersion selects the multicall layout. Cairo 0 accounts take the offset layout.
func WithCairoVersion(v int) Option {
	return func(a *Account) { a.cairoVersion = v }
}

// WithTxVersion selects v1 (max_fee, paid in ETH) or v3 (resource bounds, paid in STRK).
func WithTxVersion(v TxVersion) Option {
	return func(a *Account) { a.txVersion = v }
}

func WithLogger(log utils.SimpleLogger) Option {
	return func(a *Account) { a.log = log }
}

// WithFeeMultiplier scales estimated fees before they are used as limits.
func WithFeeMultiplier(m float64) Option {
	return func(a *Account) { a.feeMultiplier = m }
}

// WithNonceManagement makes the account track its next nonce locally. Sends are then
// serialized, and a nonce rejected by the node is refetched once.
func WithNonceManagement() Option {
	return func(a *Account) { a.manageNonce = true }
}

// WithWaitOptions configures how DeployViaUDC and funding wait for acceptance.
func WithWaitOptions(opts waiter.Options) Option {
	return func(a *Account) { a.waitOpts = opts }
}

type Account struct {
	address       *felt.Felt
	provider      provider.Provider
	engine        *engine.Engine
	cairoVersion  int
	txVersion     TxVersion
	feeMultiplier float64
	manageNonce   bool
	waitOpts      waiter.Options
	log           utils.SimpleLogger

	mu        sync.Mutex
	nextNonce *felt.Felt
}

func New(p provider.Provider, address *felt.Felt, signer engine.Signer, chainID *felt.Felt, opts ...Option) *Account {
	a := &Account{
		address:       address,
		provider:      p,
		cairoVersion:  1,
		txVersion:     V3,
		feeMultiplier: DefaultFeeMultiplier,
		log:           utils.NewNopZapLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.engine = engine.New(p, signer, chainID).WithLogger(a.log)
	if a.waitOpts.Logger == nil {
		a.waitOpts.Logger = a.log
	}
	return a
}

func (a *Account) Address() *felt.Felt         { return a.address }
func (a *Account) Provider() provider.Provider { return a.provider }
func (a *Account) Engine() *engine.Engine      { return a.engine }
func (a *Account) TxVersion() TxVersion        { return a.txVersion }

func (a *Account) layout() Layout {
	if a.cairoVersion == 0 {
		return LayoutOffset
	}
	return LayoutNested
}

// Nonce reads the account nonce at blockID from the node.
func (a *Account) Nonce(ctx context.Context, blockID rpc.BlockID) (*felt.Felt, error) {
	return a.provider.Nonce(ctx, blockID, a.address)
}

// TxOptions override what the account would otherwise fetch or estimate. A nil *TxOptions
// means all defaults.
type TxOptions struct {
	Nonce          *felt.Felt
	MaxFee         *felt.Felt
	ResourceBounds *rpc.ResourceBoundsMap
	Tip            rpc.U64
	PaymasterData  []*felt.Felt
	// BlockID the nonce is read and the fee estimated at, pending when unset.
	BlockID *rpc.BlockID
}

func (o *TxOptions) blockID() rpc.BlockID {
	if o == nil || o.BlockID == nil {
		return rpc.BlockPending()
	}
	return *o.BlockID
}

func (o *TxOptions) nonce() *felt.Felt {
	if o == nil {
		return nil
	}
	return o.Nonce
}

func (a *Account) v3Fields(nonce *felt.Felt, opts *TxOptions) rpc.V3Fields {
	f := rpc.V3Fields{
		Nonce:          nonce,
		ResourceBounds: rpc.ZeroResourceBounds(),
		Signature:      []*felt.Felt{},
		PaymasterData:  []*felt.Felt{},
		NonceDAMode:    rpc.DAModeL1,
		FeeDAMode:      rpc.DAModeL1,
	}
	if opts != nil {
		f.Tip = opts.Tip
		if opts.PaymasterData != nil {
			f.PaymasterData = opts.PaymasterData
		}
	}
	return f
}

// buildFunc builds an unsigned transaction with placeholder fee limits.
type buildFunc func(nonce *felt.Felt) (*rpc.Transaction, error)

// send resolves the nonce and fees of the transaction build returns and submits it.
func (a *Account) send(ctx context.Context, opts *TxOptions, build buildFunc) (*engine.Submission, error) {
	if a.manageNonce {
		a.mu.Lock()
		defer a.mu.Unlock()
	}

	for attempt := 0; ; attempt++ {
		nonce, err := a.resolveNonce(ctx, opts)
		if err != nil {
			return nil, err
		}
		tx, err := build(nonce)
		if err != nil {
			return nil, err
		}
		if err = a.applyFees(ctx, tx, opts); err != nil {
			return nil, err
		}

		sub, err := a.engine.Submit(ctx, tx)
		if err == nil {
			if a.manageNonce {
				a.nextNonce = new(felt.Felt).Add(nonce, &felt.One)
			}
			return sub, nil
		}
		if a.manageNonce {
			a.nextNonce = nil
			if attempt == 0 && opts.nonce() == nil && engine.IsKind(err, engine.NonceMismatch) {
				a.log.Debugw("Nonce rejected, refetching", "account", a.address, "nonce", nonce)
				continue
			}
		}
		return nil, err
	}
}

func (a *Account) resolveNonce(ctx context.Context, opts *TxOptions) (*felt.Felt, error) {
	if n := opts.nonce(); n != nil {
		return n, nil
	}
	if a.manageNonce && a.nextNonce != nil {
		return a.nextNonce, nil
	}
	nonce, err := a.Nonce(ctx, opts.blockID())
	if err != nil {
		return nil, fmt.Errorf("fetch nonce: %w", err)
	}
	return nonce, nil
}

// applyFees sets the fee limits of tx from opts or from an estimate.
func (a *Account) applyFees(ctx context.Context, tx *rpc.Transaction, opts *TxOptions) error {
	v3, isV3 := rpc.V3(tx.Body)
	if isV3 && opts != nil && opts.ResourceBounds != nil {
		v3.ResourceBounds = *opts.ResourceBounds
		return nil
	}
	if !isV3 && opts != nil && opts.MaxFee != nil {
		return setMaxFee(tx.Body, opts.MaxFee)
	}

	est, err := a.EstimateFee(ctx, tx, opts.blockID())
	if err != nil {
		return err
	}
	if isV3 {
		bounds, err := ResourceBounds(est, a.feeMultiplier)
		if err != nil {
			return err
		}
		v3.ResourceBounds = bounds
		return nil
	}
	maxFee, err := MaxFee(est, a.feeMultiplier)
	if err != nil {
		return err
	}
	return setMaxFee(tx.Body, maxFee)
}

func setMaxFee(body rpc.TransactionBody, maxFee *felt.Felt) error {
	switch b := body.(type) {
	case *rpc.InvokeV1:
		b.MaxFee = maxFee
	case *rpc.DeclareV2:
		b.MaxFee = maxFee
	case *rpc.DeployAccountV1:
		b.MaxFee = maxFee
	default:
		return fmt.Errorf("%w: %T has no max fee", ErrUnsupportedTxVersion, body)
	}
	return nil
}

// EstimateFee estimates a single transaction as the node would charge it, without markup.
func (a *Account) EstimateFee(ctx context.Context, tx *rpc.Transaction, blockID rpc.BlockID) (*rpc.FeeEstimate, error) {
	estimates, err := a.engine.EstimateFee(ctx, []*rpc.Transaction{tx}, blockID)
	if err != nil {
		return nil, fmt.Errorf("estimate fee: %w", err)
	}
	if len(estimates) == 0 {
		return nil, &rpc.SchemaError{Reason: "node returned no fee estimate"}
	}
	return &estimates[0], nil
}

// BuildInvoke returns the unsigned invoke of calls with zero fee limits.
func (a *Account) BuildInvoke(calls []rpc.FunctionCall, nonce *felt.Felt, opts *TxOptions) (*rpc.Transaction, error) {
	calldata := PackCalls(calls, a.layout())
	switch a.txVersion {
	case V1:
		return rpc.NewTransaction(&rpc.InvokeV1{
			MaxFee:        &felt.Zero,
			Nonce:         nonce,
			SenderAddress: a.address,
			Calldata:      calldata,
		}), nil
	case V3:
		return rpc.NewTransaction(&rpc.InvokeV3{
			V3Fields:              a.v3Fields(nonce, opts),
			SenderAddress:         a.address,
			Calldata:              calldata,
			AccountDeploymentData: []*felt.Felt{},
		}), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedTxVersion, a.txVersion)
	}
}

// Invoke sends calls as one multicall.
func (a *Account) Invoke(ctx context.Context, calls []rpc.FunctionCall, opts *TxOptions) (*rpc.AddInvokeResponse, error) {
	if len(calls) == 0 {
		return nil, errors.New("invoke needs at least one call")
	}
	sub, err := a.send(ctx, opts, func(nonce *felt.Felt) (*rpc.Transaction, error) {
		return a.BuildInvoke(calls, nonce, opts)
	})
	if err != nil {
		return nil, err
	}
	return &rpc.AddInvokeResponse{TransactionHash: sub.TransactionHash}, nil
}

// EstimateInvokeFee estimates calls as a multicall at the current nonce.
func (a *Account) EstimateInvokeFee(ctx context.Context, calls []rpc.FunctionCall, opts *TxOptions) (*rpc.FeeEstimate, error) {
	nonce, err := a.resolveNonce(ctx, opts)
	if err != nil {
		return nil, err
	}
	tx, err := a.BuildInvoke(calls, nonce, opts)
	if err != nil {
		return nil, err
	}
	return a.EstimateFee(ctx, tx, opts.blockID())
}

// Wait waits for hash with the account's wait options.
func (a *Account) Wait(ctx context.Context, hash *felt.Felt) (*waiter.Result, error) {
	return waiter.Wait(ctx, a.provider, hash, a.waitOpts)
}
