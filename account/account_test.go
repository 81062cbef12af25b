package account_test

import (
	"context"
	"math/big"
	"os"
	"sync"
	"testing"

	"github.com/NethermindEth/starkclient/account"
	"github.com/NethermindEth/starkclient/abi"
	"github.com/NethermindEth/starkclient/core/address"
	"github.com/NethermindEth/starkclient/core/crypto"
	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/NethermindEth/starkclient/core/hash"
	"github.com/NethermindEth/starkclient/engine"
	"github.com/NethermindEth/starkclient/jsonrpc"
	"github.com/NethermindEth/starkclient/mocks"
	"github.com/NethermindEth/starkclient/rpc"
	"github.com/NethermindEth/starkclient/typeddata"
	"github.com/NethermindEth/starkclient/uint128"
	"github.com/NethermindEth/starkclient/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var chainID = new(felt.Felt).SetBytes([]byte("SN_SEPOLIA"))

func testKey(t *testing.T) *crypto.PrivateKey {
	t.Helper()

	key, err := crypto.NewPrivateKey(big.NewInt(0xbeef))
	require.NoError(t, err)
	return key
}

func newAccount(t *testing.T, p *mocks.MockProvider, addr *felt.Felt, opts ...account.Option) *account.Account {
	t.Helper()

	return account.New(p, addr, engine.NewKeySigner(testKey(t)), chainID, opts...)
}

// acceptInvoke answers add_invoke with the hash of the received transaction.
func acceptInvoke(t *testing.T, inspect func(tx *rpc.Transaction)) func(context.Context, *rpc.Transaction) (*rpc.AddInvokeResponse, error) {
	return func(_ context.Context, tx *rpc.Transaction) (*rpc.AddInvokeResponse, error) {
		if inspect != nil {
			inspect(tx)
		}
		h, err := hash.TransactionHash(tx, chainID)
		require.NoError(t, err)
		return &rpc.AddInvokeResponse{TransactionHash: h}, nil
	}
}

func testCalls(t *testing.T) []rpc.FunctionCall {
	return []rpc.FunctionCall{
		{
			ContractAddress:    utils.HexToFelt(t, "0xa"),
			EntryPointSelector: utils.HexToFelt(t, "0xb"),
			Calldata:           utils.HexToFelts(t, "0x1", "0x2"),
		},
		{
			ContractAddress:    utils.HexToFelt(t, "0xc"),
			EntryPointSelector: utils.HexToFelt(t, "0xd"),
			Calldata:           utils.HexToFelts(t, "0x3"),
		},
	}
}

func explicitBounds() *rpc.ResourceBoundsMap {
	bounds := rpc.ZeroResourceBounds()
	bounds.L2Gas.MaxAmount = 100
	bounds.L2Gas.MaxPricePerUnit = uint128.FromUint64(7)
	return &bounds
}

func TestPackCalls(t *testing.T) {
	tests := map[string]struct {
		layout account.Layout
		want   []string
	}{
		"nested": {
			layout: account.LayoutNested,
			want:   []string{"0x2", "0xa", "0xb", "0x2", "0x1", "0x2", "0xc", "0xd", "0x1", "0x3"},
		},
		"offset": {
			layout: account.LayoutOffset,
			want: []string{
				"0x2", "0xa", "0xb", "0x0", "0x2", "0xc", "0xd", "0x2", "0x1",
				"0x3", "0x1", "0x2", "0x3",
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, utils.HexToFelts(t, test.want...), account.PackCalls(testCalls(t), test.layout))
		})
	}

	assert.Equal(t, utils.HexToFelts(t, "0x0"), account.PackCalls(nil, account.LayoutNested))
}

func TestFeeScaling(t *testing.T) {
	est := &rpc.FeeEstimate{
		L1GasConsumed:     felt.NewFromUint64(10),
		L1GasPrice:        felt.NewFromUint64(100),
		L2GasConsumed:     felt.NewFromUint64(1001),
		L2GasPrice:        felt.NewFromUint64(2),
		L1DataGasConsumed: felt.NewFromUint64(0),
		L1DataGasPrice:    felt.NewFromUint64(5),
		OverallFee:        felt.NewFromUint64(1000),
		Unit:              rpc.FRI,
	}

	maxFee, err := account.MaxFee(est, 1.5)
	require.NoError(t, err)
	assert.Equal(t, felt.NewFromUint64(1500), maxFee)

	bounds, err := account.ResourceBounds(est, 1.5)
	require.NoError(t, err)
	assert.Equal(t, &rpc.ResourceBounds{MaxAmount: 15, MaxPricePerUnit: uint128.FromUint64(150)}, bounds.L1Gas)
	// 1001 * 1.5 rounds up
	assert.Equal(t, &rpc.ResourceBounds{MaxAmount: 1502, MaxPricePerUnit: uint128.FromUint64(3)}, bounds.L2Gas)
	assert.Equal(t, &rpc.ResourceBounds{MaxAmount: 0, MaxPricePerUnit: uint128.FromUint64(8)}, bounds.L1DataGas)
	assert.Equal(t, "6756", account.MaxCost(bounds).String())

	t.Run("amount overflow", func(t *testing.T) {
		huge := *est
		huge.L2GasConsumed = new(felt.Felt).SetBigInt(new(big.Int).Lsh(big.NewInt(1), 64))
		_, err := account.ResourceBounds(&huge, 1)
		assert.Error(t, err)
	})
}

func TestInvokeEstimatesFees(t *testing.T) {
	sender := utils.HexToFelt(t, "0x5ca1ab1e")
	est := rpc.FeeEstimate{
		L1GasConsumed:     felt.NewFromUint64(10),
		L1GasPrice:        felt.NewFromUint64(100),
		L2GasConsumed:     felt.NewFromUint64(1000),
		L2GasPrice:        felt.NewFromUint64(2),
		L1DataGasConsumed: felt.NewFromUint64(0),
		L1DataGasPrice:    felt.NewFromUint64(0),
		OverallFee:        felt.NewFromUint64(1000),
		Unit:              rpc.FRI,
	}

	tests := map[string]struct {
		opts    []account.Option
		inspect func(t *testing.T, tx *rpc.Transaction)
	}{
		"v3 cairo 1": {
			inspect: func(t *testing.T, tx *rpc.Transaction) {
				body, ok := tx.Body.(*rpc.InvokeV3)
				require.True(t, ok)
				assert.Equal(t, felt.NewFromUint64(5), body.Nonce)
				assert.Equal(t, account.PackCalls(testCalls(t), account.LayoutNested), body.Calldata)
				assert.Equal(t, rpc.U64(1500), body.ResourceBounds.L2Gas.MaxAmount)
				assert.Equal(t, uint128.FromUint64(3), body.ResourceBounds.L2Gas.MaxPricePerUnit)
				assert.Len(t, body.Signature, 2)
			},
		},
		"v1 cairo 0": {
			opts: []account.Option{account.WithTxVersion(account.V1), account.WithCairoVersion(0)},
			inspect: func(t *testing.T, tx *rpc.Transaction) {
				body, ok := tx.Body.(*rpc.InvokeV1)
				require.True(t, ok)
				assert.Equal(t, account.PackCalls(testCalls(t), account.LayoutOffset), body.Calldata)
				assert.Equal(t, felt.NewFromUint64(1500), body.MaxFee)
				assert.Len(t, body.GetSignature(), 2)
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			p := mocks.NewMockProvider(ctrl)
			acc := newAccount(t, p, sender, test.opts...)

			p.EXPECT().Nonce(gomock.Any(), rpc.BlockPending(), sender).Return(felt.NewFromUint64(5), nil)
			p.EXPECT().
				EstimateFee(gomock.Any(), gomock.Any(), []rpc.SimulationFlag{rpc.SkipValidateFlag}, rpc.BlockPending()).
				DoAndReturn(func(_ context.Context, txs []*rpc.Transaction, _ []rpc.SimulationFlag,
					_ rpc.BlockID,
				) ([]rpc.FeeEstimate, error) {
					require.Len(t, txs, 1)
					assert.True(t, txs[0].IsQuery())
					return []rpc.FeeEstimate{est}, nil
				})
			p.EXPECT().AddInvokeTransaction(gomock.Any(), gomock.Any()).
				DoAndReturn(acceptInvoke(t, func(tx *rpc.Transaction) {
					assert.False(t, tx.IsQuery())
					test.inspect(t, tx)
				}))

			resp, err := acc.Invoke(context.Background(), testCalls(t), nil)
			require.NoError(t, err)
			assert.NotNil(t, resp.TransactionHash)
		})
	}
}

func TestEstimateFeeEmptyReply(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mocks.NewMockProvider(ctrl)
	acc := newAccount(t, p, utils.HexToFelt(t, "0x5ca1ab1e"))

	tx, err := acc.BuildInvoke(testCalls(t), felt.NewFromUint64(1), nil)
	require.NoError(t, err)
	p.EXPECT().EstimateFee(gomock.Any(), gomock.Any(), gomock.Any(), rpc.BlockLatest()).
		Return([]rpc.FeeEstimate{}, nil)

	estimate, err := acc.EstimateFee(context.Background(), tx, rpc.BlockLatest())
	var schemaErr *rpc.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Nil(t, estimate)
}

func TestInvokeExplicitOptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mocks.NewMockProvider(ctrl)
	sender := utils.HexToFelt(t, "0x5ca1ab1e")
	acc := newAccount(t, p, sender)

	// neither the nonce nor the fee is fetched
	p.EXPECT().AddInvokeTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(acceptInvoke(t, func(tx *rpc.Transaction) {
			v3, ok := rpc.V3(tx.Body)
			require.True(t, ok)
			assert.Equal(t, felt.NewFromUint64(9), v3.Nonce)
			assert.Equal(t, *explicitBounds(), v3.ResourceBounds)
			assert.Equal(t, rpc.U64(4), v3.Tip)
		}))

	_, err := acc.Invoke(context.Background(), testCalls(t), &account.TxOptions{
		Nonce:          felt.NewFromUint64(9),
		ResourceBounds: explicitBounds(),
		Tip:            4,
	})
	require.NoError(t, err)

	_, err = acc.Invoke(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestNonceManagement(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mocks.NewMockProvider(ctrl)
	sender := utils.HexToFelt(t, "0x5ca1ab1e")
	acc := newAccount(t, p, sender, account.WithNonceManagement())
	opts := &account.TxOptions{ResourceBounds: explicitBounds()}

	p.EXPECT().Nonce(gomock.Any(), gomock.Any(), sender).Return(felt.NewFromUint64(7), nil).Times(1)

	var (
		mu     sync.Mutex
		nonces []uint64
	)
	p.EXPECT().AddInvokeTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(acceptInvoke(t, func(tx *rpc.Transaction) {
			v3, _ := rpc.V3(tx.Body)
			n, _ := v3.Nonce.Uint64()
			mu.Lock()
			nonces = append(nonces, n)
			mu.Unlock()
		})).Times(3)

	var wg sync.WaitGroup
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := acc.Invoke(context.Background(), testCalls(t), opts)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.ElementsMatch(t, []uint64{7, 8, 9}, nonces)
}

func TestNonceMismatchRefetches(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mocks.NewMockProvider(ctrl)
	sender := utils.HexToFelt(t, "0x5ca1ab1e")
	acc := newAccount(t, p, sender, account.WithNonceManagement())
	opts := &account.TxOptions{ResourceBounds: explicitBounds()}

	gomock.InOrder(
		p.EXPECT().Nonce(gomock.Any(), gomock.Any(), sender).Return(felt.NewFromUint64(3), nil),
		p.EXPECT().AddInvokeTransaction(gomock.Any(), gomock.Any()).
			Return(nil, &jsonrpc.Error{Code: 52, Message: "Invalid transaction nonce"}),
		p.EXPECT().Nonce(gomock.Any(), gomock.Any(), sender).Return(felt.NewFromUint64(4), nil),
		p.EXPECT().AddInvokeTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(acceptInvoke(t, func(tx *rpc.Transaction) {
				v3, _ := rpc.V3(tx.Body)
				assert.Equal(t, felt.NewFromUint64(4), v3.Nonce)
			})),
	)

	_, err := acc.Invoke(context.Background(), testCalls(t), opts)
	require.NoError(t, err)

	t.Run("second mismatch is returned", func(t *testing.T) {
		gomock.InOrder(
			p.EXPECT().AddInvokeTransaction(gomock.Any(), gomock.Any()).Return(nil, rpc.ErrInvalidTransactionNonce),
			p.EXPECT().Nonce(gomock.Any(), gomock.Any(), sender).Return(felt.NewFromUint64(5), nil),
			p.EXPECT().AddInvokeTransaction(gomock.Any(), gomock.Any()).Return(nil, rpc.ErrInvalidTransactionNonce),
		)
		_, err := acc.Invoke(context.Background(), testCalls(t), opts)
		assert.True(t, engine.IsKind(err, engine.NonceMismatch))
	})
}

func TestDeclare(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mocks.NewMockProvider(ctrl)
	sender := utils.HexToFelt(t, "0x5ca1ab1e")
	acc := newAccount(t, p, sender)

	class := &rpc.SierraClass{
		SierraProgram:        utils.HexToFelts(t, "0x1", "0x2", "0x3"),
		ContractClassVersion: "0.1.0",
		EntryPoints: rpc.SierraEntryPoints{
			External: []rpc.SierraEntryPoint{{Selector: utils.HexToFelt(t, "0x1"), Index: 0}},
		},
		Abi: "[]",
	}
	classHash, err := hash.SierraClassHash(class)
	require.NoError(t, err)
	compiled := utils.HexToFelt(t, "0xc0de")

	p.EXPECT().AddDeclareTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *rpc.Transaction) (*rpc.AddDeclareResponse, error) {
			body, ok := tx.Body.(*rpc.DeclareV3)
			require.True(t, ok)
			assert.Nil(t, body.ClassHash)
			assert.Equal(t, compiled, body.CompiledClassHash)
			assert.Same(t, class, body.ContractClass)
			h, err := hash.TransactionHash(tx, chainID)
			require.NoError(t, err)
			return &rpc.AddDeclareResponse{TransactionHash: h, ClassHash: classHash}, nil
		})

	resp, err := acc.Declare(context.Background(), class, compiled, &account.TxOptions{
		Nonce:          &felt.One,
		ResourceBounds: explicitBounds(),
	})
	require.NoError(t, err)
	assert.Equal(t, classHash, resp.ClassHash)

	_, err = acc.Declare(context.Background(), nil, compiled, nil)
	assert.Error(t, err)
}

func TestDeployAccount(t *testing.T) {
	classHash := utils.HexToFelt(t, "0xacc")
	salt := utils.HexToFelt(t, "0x5a17")
	key := testKey(t)
	ctor := []*felt.Felt{key.PublicKey().Felt()}
	addr := address.ContractAddress(&felt.Zero, salt, classHash, ctor)

	acceptDeploy := func(_ context.Context, tx *rpc.Transaction) (*rpc.AddDeployAccountResponse, error) {
		body, ok := tx.Body.(*rpc.DeployAccountV3)
		require.True(t, ok)
		assert.True(t, body.Nonce.IsZero())
		assert.Equal(t, ctor, body.ConstructorCalldata)
		h, err := hash.TransactionHash(tx, chainID)
		require.NoError(t, err)
		return &rpc.AddDeployAccountResponse{TransactionHash: h, ContractAddress: addr}, nil
	}

	t.Run("deploys", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		p := mocks.NewMockProvider(ctrl)
		acc := newAccount(t, p, addr)

		p.EXPECT().AddDeployAccountTransaction(gomock.Any(), gomock.Any()).DoAndReturn(acceptDeploy)
		resp, err := acc.DeployAccount(context.Background(), classHash, salt, ctor, &account.DeployOptions{
			TxOptions: account.TxOptions{ResourceBounds: explicitBounds()},
		})
		require.NoError(t, err)
		assert.Equal(t, addr, resp.ContractAddress)
	})

	t.Run("wrong address", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		p := mocks.NewMockProvider(ctrl)
		acc := newAccount(t, p, utils.HexToFelt(t, "0x1"))

		_, err := acc.DeployAccount(context.Background(), classHash, salt, ctor, nil)
		assert.ErrorIs(t, err, account.ErrAddressMismatch)
	})

	t.Run("balance below max cost", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		p := mocks.NewMockProvider(ctrl)
		acc := newAccount(t, p, addr)

		p.EXPECT().Call(gomock.Any(), gomock.Any(), rpc.BlockPending()).
			DoAndReturn(func(_ context.Context, call rpc.FunctionCall, _ rpc.BlockID) ([]*felt.Felt, error) {
				assert.Equal(t, account.STRKToken, call.ContractAddress)
				assert.Equal(t, abi.SelectorFromName("balance_of"), call.EntryPointSelector)
				assert.Equal(t, []*felt.Felt{addr}, call.Calldata)
				// 699 is one short of 100 * 7
				return utils.HexToFelts(t, "0x2bb", "0x0"), nil
			})

		_, err := acc.DeployAccount(context.Background(), classHash, salt, ctor, &account.DeployOptions{
			TxOptions:    account.TxOptions{ResourceBounds: explicitBounds()},
			CheckBalance: true,
		})
		assert.ErrorIs(t, err, account.ErrInsufficientBalance)
	})

	t.Run("funded", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		p := mocks.NewMockProvider(ctrl)
		acc := newAccount(t, p, addr)
		funderAddr := utils.HexToFelt(t, "0xf00d")
		funder := newAccount(t, p, funderAddr)

		var transferHash *felt.Felt
		gomock.InOrder(
			p.EXPECT().Nonce(gomock.Any(), gomock.Any(), funderAddr).Return(felt.NewFromUint64(2), nil),
			p.EXPECT().EstimateFee(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return([]rpc.FeeEstimate{{OverallFee: felt.NewFromUint64(1), Unit: rpc.FRI}}, nil),
			p.EXPECT().AddInvokeTransaction(gomock.Any(), gomock.Any()).
				DoAndReturn(func(ctx context.Context, tx *rpc.Transaction) (*rpc.AddInvokeResponse, error) {
					resp, err := acceptInvoke(t, func(tx *rpc.Transaction) {
						call, err := account.TransferCall(account.STRKToken, addr, big.NewInt(700))
						require.NoError(t, err)
						v3, _ := rpc.V3(tx.Body)
						assert.Equal(t, funderAddr, tx.Body.(*rpc.InvokeV3).SenderAddress)
						assert.Equal(t, felt.NewFromUint64(2), v3.Nonce)
						assert.Equal(t, account.PackCalls([]rpc.FunctionCall{call}, account.LayoutNested),
							tx.Body.(*rpc.InvokeV3).Calldata)
					})(ctx, tx)
					transferHash = resp.TransactionHash
					return resp, err
				}),
			p.EXPECT().TransactionStatus(gomock.Any(), gomock.Any()).
				Return(&rpc.TransactionStatus{Finality: rpc.TxnStatusAcceptedOnL2, Execution: rpc.TxnSuccess}, nil),
			p.EXPECT().TransactionReceipt(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, h *felt.Felt) (*rpc.TransactionReceipt, error) {
					assert.Equal(t, transferHash, h)
					return &rpc.TransactionReceipt{Hash: h, ExecutionStatus: rpc.TxnSuccess}, nil
				}),
			p.EXPECT().AddDeployAccountTransaction(gomock.Any(), gomock.Any()).DoAndReturn(acceptDeploy),
		)

		// a nil amount funds the max cost of the deployment
		_, err := acc.DeployAccount(context.Background(), classHash, salt, ctor, &account.DeployOptions{
			TxOptions: account.TxOptions{ResourceBounds: explicitBounds()},
			Funder:    funder,
		})
		require.NoError(t, err)
	})
}

func TestDeployViaUDC(t *testing.T) {
	sender := utils.HexToFelt(t, "0x5ca1ab1e")
	classHash := utils.HexToFelt(t, "0xc1a55")
	salt := utils.HexToFelt(t, "0x1")
	ctor := utils.HexToFelts(t, "0x10", "0x20")
	deployed := account.UDCAddressOf(classHash, salt, ctor, true, sender)
	selector := abi.SelectorFromName("ContractDeployed")

	tests := map[string]struct {
		events []*rpc.Event
		check  func(t *testing.T, got *account.UDCDeployment, err error)
	}{
		"event found": {
			events: []*rpc.Event{
				{From: utils.HexToFelt(t, "0x123"), Keys: []*felt.Felt{selector}, Data: utils.HexToFelts(t, "0x666")},
				{From: account.UDCAddress, Keys: []*felt.Felt{selector}, Data: []*felt.Felt{deployed, sender}},
			},
			check: func(t *testing.T, got *account.UDCDeployment, err error) {
				require.NoError(t, err)
				assert.Equal(t, deployed, got.Address)
			},
		},
		"event missing": {
			events: []*rpc.Event{{From: account.UDCAddress, Keys: []*felt.Felt{&felt.One}}},
			check: func(t *testing.T, _ *account.UDCDeployment, err error) {
				assert.ErrorIs(t, err, account.ErrContractDeployedEventNotFound)
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			p := mocks.NewMockProvider(ctrl)
			acc := newAccount(t, p, sender)

			p.EXPECT().AddInvokeTransaction(gomock.Any(), gomock.Any()).
				DoAndReturn(acceptInvoke(t, func(tx *rpc.Transaction) {
					call, err := account.DeployCall(classHash, salt, ctor, true)
					require.NoError(t, err)
					assert.Equal(t, account.UDCAddress, call.ContractAddress)
					assert.Equal(t, abi.SelectorFromName("deployContract"), call.EntryPointSelector)
					assert.Equal(t, []*felt.Felt{classHash, salt, &felt.One, felt.NewFromUint64(2), ctor[0], ctor[1]},
						call.Calldata)
					assert.Equal(t, account.PackCalls([]rpc.FunctionCall{call}, account.LayoutNested),
						tx.Body.(*rpc.InvokeV3).Calldata)
				}))
			p.EXPECT().TransactionStatus(gomock.Any(), gomock.Any()).
				Return(&rpc.TransactionStatus{Finality: rpc.TxnStatusAcceptedOnL2, Execution: rpc.TxnSuccess}, nil)
			p.EXPECT().TransactionReceipt(gomock.Any(), gomock.Any()).
				Return(&rpc.TransactionReceipt{ExecutionStatus: rpc.TxnSuccess, Events: test.events}, nil)

			got, err := acc.DeployViaUDC(context.Background(), classHash, salt, ctor, true, &account.TxOptions{
				Nonce:          &felt.Zero,
				ResourceBounds: explicitBounds(),
			})
			test.check(t, got, err)
		})
	}
}

func TestBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mocks.NewMockProvider(ctrl)
	sender := utils.HexToFelt(t, "0x5ca1ab1e")
	acc := newAccount(t, p, sender, account.WithTxVersion(account.V1))
	assert.Equal(t, account.ETHToken, acc.FeeToken())

	p.EXPECT().Call(gomock.Any(), gomock.Any(), gomock.Any()).Return(utils.HexToFelts(t, "0x10", "0x1"), nil)
	balance, err := acc.Balance(context.Background(), acc.FeeToken())
	require.NoError(t, err)
	want := new(big.Int).Lsh(big.NewInt(1), 128)
	assert.Equal(t, want.Add(want, big.NewInt(16)).String(), balance.String())
}

func TestMessages(t *testing.T) {
	data, err := os.ReadFile("../typeddata/testdata/v1.json")
	require.NoError(t, err)
	td, err := typeddata.Parse(typeddata.V1, data)
	require.NoError(t, err)

	sender := utils.HexToFelt(t, "0x5ca1ab1e")
	msgHash, err := td.MessageHash(sender)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	p := mocks.NewMockProvider(ctrl)
	acc := newAccount(t, p, sender)

	sig, err := acc.SignMessage(context.Background(), td)
	require.NoError(t, err)
	require.Len(t, sig, 2)
	ok, err := testKey(t).PublicKey().Verify(&crypto.Signature{R: *sig[0], S: *sig[1]}, msgHash)
	require.NoError(t, err)
	assert.True(t, ok)

	tests := map[string]struct {
		out   []*felt.Felt
		err   error
		valid bool
	}{
		"VALID":          {out: []*felt.Felt{new(felt.Felt).SetBytes([]byte("VALID"))}, valid: true},
		"legacy one":     {out: []*felt.Felt{&felt.One}, valid: true},
		"zero":           {out: []*felt.Felt{&felt.Zero}},
		"contract error": {err: &jsonrpc.Error{Code: 40, Message: "Contract error"}},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			p.EXPECT().Call(gomock.Any(), gomock.Any(), rpc.BlockPending()).
				DoAndReturn(func(_ context.Context, call rpc.FunctionCall, _ rpc.BlockID) ([]*felt.Felt, error) {
					assert.Equal(t, sender, call.ContractAddress)
					assert.Equal(t, abi.SelectorFromName("is_valid_signature"), call.EntryPointSelector)
					assert.Equal(t, append([]*felt.Felt{msgHash, felt.NewFromUint64(2)}, sig...), call.Calldata)
					return test.out, test.err
				})
			valid, err := acc.VerifyMessage(context.Background(), td, sig)
			require.NoError(t, err)
			assert.Equal(t, test.valid, valid)
		})
	}

	t.Run("node failure", func(t *testing.T) {
		p.EXPECT().Call(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, &jsonrpc.Error{Code: 24, Message: "Block not found"})
		_, err := acc.VerifyMessage(context.Background(), td, sig)
		assert.Error(t, err)
	})
}
