package engine_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/NethermindEth/starkclient/core/crypto"
	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/NethermindEth/starkclient/core/hash"
	"github.com/NethermindEth/starkclient/engine"
	"github.com/NethermindEth/starkclient/jsonrpc"
	"github.com/NethermindEth/starkclient/mocks"
	"github.com/NethermindEth/starkclient/rpc"
	"github.com/NethermindEth/starkclient/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var chainID = new(felt.Felt).SetBytes([]byte("SN_SEPOLIA"))

func testKey(t *testing.T) *crypto.PrivateKey {
	t.Helper()

	key, err := crypto.NewPrivateKey(big.NewInt(0xc0ffee))
	require.NoError(t, err)
	return key
}

func invokeV3(t *testing.T) *rpc.Transaction {
	t.Helper()

	bounds := rpc.ZeroResourceBounds()
	bounds.L2Gas.MaxAmount = 1000
	return rpc.NewTransaction(&rpc.InvokeV3{
		V3Fields: rpc.V3Fields{
			Nonce:          felt.NewFromUint64(4),
			ResourceBounds: bounds,
		},
		SenderAddress: utils.HexToFelt(t, "0x123"),
		Calldata:      utils.HexToFelts(t, "0x1", "0x2"),
	})
}

func TestEstimateFee(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mocks.NewMockProvider(ctrl)
	e := engine.New(p, nil, chainID)

	tx := invokeV3(t)
	tx.Body.SetSignature([]*felt.Felt{&felt.One, &felt.One})
	want := []rpc.FeeEstimate{{OverallFee: felt.NewFromUint64(77), Unit: rpc.FRI}}

	p.EXPECT().
		EstimateFee(gomock.Any(), gomock.Any(), []rpc.SimulationFlag{rpc.SkipValidateFlag}, rpc.BlockPending()).
		DoAndReturn(func(_ context.Context, txs []*rpc.Transaction, _ []rpc.SimulationFlag,
			_ rpc.BlockID,
		) ([]rpc.FeeEstimate, error) {
			require.Len(t, txs, 1)
			q := txs[0]
			assert.True(t, q.IsQuery())
			assert.Empty(t, q.Body.GetSignature())
			v3, ok := rpc.V3(q.Body)
			require.True(t, ok)
			assert.Equal(t, rpc.ZeroResourceBounds(), v3.ResourceBounds)
			return want, nil
		})

	estimates, err := e.EstimateFee(context.Background(), []*rpc.Transaction{tx}, rpc.BlockPending())
	require.NoError(t, err)
	assert.Equal(t, want, estimates)

	// the intent itself is left alone
	assert.False(t, tx.IsQuery())
	assert.Len(t, tx.Body.GetSignature(), 2)
	v3, _ := rpc.V3(tx.Body)
	assert.Equal(t, rpc.U64(1000), v3.ResourceBounds.L2Gas.MaxAmount)
}

func TestEstimateFeeCountMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mocks.NewMockProvider(ctrl)
	e := engine.New(p, nil, chainID)

	p.EXPECT().EstimateFee(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	_, err := e.EstimateFee(context.Background(), []*rpc.Transaction{invokeV3(t)}, rpc.BlockLatest())
	var schemaErr *rpc.SchemaError
	assert.ErrorAs(t, err, &schemaErr)
}

func TestSubmit(t *testing.T) {
	key := testKey(t)
	tx := invokeV3(t)
	txHash, err := hash.TransactionHash(tx, chainID)
	require.NoError(t, err)

	tests := map[string]struct {
		returned *felt.Felt
		rpcErr   error
		check    func(t *testing.T, sub *engine.Submission, err error)
	}{
		"accepted": {
			returned: txHash,
			check: func(t *testing.T, sub *engine.Submission, err error) {
				require.NoError(t, err)
				assert.Equal(t, txHash, sub.TransactionHash)
			},
		},
		"hash mismatch": {
			returned: &felt.One,
			check: func(t *testing.T, _ *engine.Submission, err error) {
				assert.ErrorIs(t, err, engine.ErrHashMismatch)
			},
		},
		"reply without hash": {
			check: func(t *testing.T, sub *engine.Submission, err error) {
				var schemaErr *rpc.SchemaError
				require.ErrorAs(t, err, &schemaErr)
				assert.Equal(t, "transaction_hash", schemaErr.Path)
				assert.Nil(t, sub)
			},
		},
		"nonce mismatch": {
			rpcErr: &jsonrpc.Error{Code: 52, Message: "Invalid transaction nonce"},
			check: func(t *testing.T, _ *engine.Submission, err error) {
				assert.True(t, engine.IsKind(err, engine.NonceMismatch))
				assert.ErrorIs(t, err, rpc.ErrInvalidTransactionNonce)
			},
		},
		"insufficient balance": {
			rpcErr: &jsonrpc.Error{Code: 54, Message: "Account balance is smaller than the transaction's max_fee"},
			check: func(t *testing.T, _ *engine.Submission, err error) {
				assert.True(t, engine.IsKind(err, engine.InsufficientFee))
			},
		},
		"validation failure": {
			rpcErr: &jsonrpc.Error{Code: 55, Message: "Account validation failed", Data: []byte(`"bad sig"`)},
			check: func(t *testing.T, _ *engine.Submission, err error) {
				var txErr *engine.TransactionError
				require.ErrorAs(t, err, &txErr)
				assert.Equal(t, engine.Rejected, txErr.Kind)
				assert.Contains(t, txErr.Reason, "bad sig")
			},
		},
		"unrelated node error": {
			rpcErr: &jsonrpc.Error{Code: 24, Message: "Block not found"},
			check: func(t *testing.T, _ *engine.Submission, err error) {
				var txErr *engine.TransactionError
				require.ErrorIs(t, err, rpc.ErrBlockNotFound)
				assert.False(t, errors.As(err, &txErr))
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			p := mocks.NewMockProvider(ctrl)
			e := engine.New(p, engine.NewKeySigner(key), chainID)

			submitted := tx.Clone()
			p.EXPECT().AddInvokeTransaction(gomock.Any(), submitted).DoAndReturn(
				func(_ context.Context, sent *rpc.Transaction) (*rpc.AddInvokeResponse, error) {
					sig := sent.Body.GetSignature()
					require.Len(t, sig, 2)
					ok, err := key.PublicKey().Verify(&crypto.Signature{R: *sig[0], S: *sig[1]}, txHash)
					require.NoError(t, err)
					assert.True(t, ok)

					if test.rpcErr != nil {
						return nil, test.rpcErr
					}
					return &rpc.AddInvokeResponse{TransactionHash: test.returned}, nil
				})

			sub, err := e.Submit(context.Background(), submitted)
			test.check(t, sub, err)
		})
	}
}

func TestSubmitWithoutSigner(t *testing.T) {
	e := engine.New(mocks.NewMockProvider(gomock.NewController(t)), nil, chainID)
	_, err := e.Submit(context.Background(), invokeV3(t))
	assert.ErrorIs(t, err, engine.ErrNoSigner)
}

func TestSubmitInvalidIntent(t *testing.T) {
	e := engine.New(mocks.NewMockProvider(gomock.NewController(t)), engine.NewKeySigner(testKey(t)), chainID)
	tx := rpc.NewTransaction(&rpc.InvokeV1{MaxFee: &felt.Zero, Nonce: &felt.Zero})
	_, err := e.Submit(context.Background(), tx)
	assert.Error(t, err)
}
