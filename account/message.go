package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/NethermindEth/starkclient/rpc"
	"github.com/NethermindEth/starkclient/typeddata"
)

// isValidSignature is the 'VALID' short string account contracts return.
var isValidSignature = new(felt.Felt).SetBytes([]byte("VALID"))

// SignMessage signs the typed data message hash for this account.
func (a *Account) SignMessage(ctx context.Context, td *typeddata.TypedData) ([]*felt.Felt, error) {
	h, err := td.MessageHash(a.address)
	if err != nil {
		return nil, err
	}
	return a.engine.SignHash(ctx, h)
}

// VerifyMessage asks the account contract whether signature is valid for td. A contract
// that rejects the signature by failing the call counts as invalid.
func (a *Account) VerifyMessage(ctx context.Context, td *typeddata.TypedData, signature []*felt.Felt) (bool, error) {
	h, err := td.MessageHash(a.address)
	if err != nil {
		return false, err
	}
	return a.VerifyHash(ctx, h, signature)
}

// VerifyHash runs is_valid_signature on the account contract.
func (a *Account) VerifyHash(ctx context.Context, h *felt.Felt, signature []*felt.Felt) (bool, error) {
	fn := mustFunction(accountABI, "is_valid_signature")
	calldata, err := fn.EncodeCalldata(h, signature)
	if err != nil {
		return false, err
	}
	out, err := a.provider.Call(ctx, rpc.FunctionCall{
		ContractAddress:    a.address,
		EntryPointSelector: fn.Selector(),
		Calldata:           calldata,
	}, rpc.BlockPending())
	if err != nil {
		if errors.Is(err, rpc.ErrContractError) {
			return false, nil
		}
		return false, fmt.Errorf("is_valid_signature: %w", err)
	}
	if len(out) == 0 {
		return false, nil
	}
	// Older accounts return 1 instead of 'VALID'.
	return out[0].Equal(isValidSignature) || out[0].IsOne(), nil
}
