package account

import (
	"context"
	"fmt"
	"math/big"

	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/NethermindEth/starkclient/rpc"
)

// Caller runs read-only contract calls.
type Caller interface {
	Call(ctx context.Context, call rpc.FunctionCall, id rpc.BlockID) ([]*felt.Felt, error)
}

// FeeToken is the token fees of this account's transactions are paid in.
func (a *Account) FeeToken() *felt.Felt {
	if a.txVersion == V1 {
		return ETHToken
	}
	return STRKToken
}

// Balance reads the ERC20 balance of the account in token.
func (a *Account) Balance(ctx context.Context, token *felt.Felt) (*big.Int, error) {
	return BalanceOf(ctx, a.provider, token, a.address)
}

// BalanceOf reads the ERC20 balance of owner in token at the pending block.
func BalanceOf(ctx context.Context, caller Caller, token, owner *felt.Felt) (*big.Int, error) {
	fn := mustFunction(erc20ABI, "balance_of")
	calldata, err := fn.EncodeCalldata(owner)
	if err != nil {
		return nil, err
	}
	out, err := caller.Call(ctx, rpc.FunctionCall{
		ContractAddress:    token,
		EntryPointSelector: fn.Selector(),
		Calldata:           calldata,
	}, rpc.BlockPending())
	if err != nil {
		return nil, fmt.Errorf("balance of %s: %w", owner, err)
	}
	decoded, err := fn.DecodeOutput(out)
	if err != nil {
		return nil, fmt.Errorf("balance of %s: %w", owner, err)
	}
	balance, ok := decoded.([]any)[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("balance of %s: unexpected output %v", owner, decoded)
	}
	return balance, nil
}

// TransferCall builds the ERC20 transfer of amount token to recipient.
func TransferCall(token, recipient *felt.Felt, amount *big.Int) (rpc.FunctionCall, error) {
	fn := mustFunction(erc20ABI, "transfer")
	calldata, err := fn.EncodeCalldata(recipient, amount)
	if err != nil {
		return rpc.FunctionCall{}, err
	}
	return rpc.FunctionCall{
		ContractAddress:    token,
		EntryPointSelector: fn.Selector(),
		Calldata:           calldata,
	}, nil
}

// Transfer sends amount of token to recipient.
func (a *Account) Transfer(ctx context.Context, token, recipient *felt.Felt, amount *big.Int,
	opts *TxOptions,
) (*rpc.AddInvokeResponse, error) {
	call, err := TransferCall(token, recipient, amount)
	if err != nil {
		return nil, err
	}
	return a.Invoke(ctx, []rpc.FunctionCall{call}, opts)
}
