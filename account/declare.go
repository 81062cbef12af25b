package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/NethermindEth/starkclient/core/hash"
	"github.com/NethermindEth/starkclient/rpc"
)

// BuildDeclare returns the unsigned declaration of class with zero fee limits. The class
// hash is computed locally and left off the wire.
func (a *Account) BuildDeclare(class *rpc.SierraClass, compiledClassHash, nonce *felt.Felt,
	opts *TxOptions,
) (*rpc.Transaction, error) {
	switch a.txVersion {
	case V1:
		// v1 bodies cannot carry a Sierra class, so v2 is the fee-token declare.
		return rpc.NewTransaction(&rpc.DeclareV2{
			SenderAddress:     a.address,
			MaxFee:            &felt.Zero,
			Nonce:             nonce,
			CompiledClassHash: compiledClassHash,
			ContractClass:     class,
		}), nil
	case V3:
		return rpc.NewTransaction(&rpc.DeclareV3{
			V3Fields:              a.v3Fields(nonce, opts),
			SenderAddress:         a.address,
			CompiledClassHash:     compiledClassHash,
			AccountDeploymentData: []*felt.Felt{},
			ContractClass:         class,
		}), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedTxVersion, a.txVersion)
	}
}

// Declare registers a Sierra class. compiledClassHash is the hash of its CASM compilation,
// which the node checks against its own.
func (a *Account) Declare(ctx context.Context, class *rpc.SierraClass, compiledClassHash *felt.Felt,
	opts *TxOptions,
) (*rpc.AddDeclareResponse, error) {
	if class == nil {
		return nil, errors.New("declare needs a contract class")
	}
	classHash, err := hash.SierraClassHash(class)
	if err != nil {
		return nil, fmt.Errorf("class hash: %w", err)
	}

	sub, err := a.send(ctx, opts, func(nonce *felt.Felt) (*rpc.Transaction, error) {
		return a.BuildDeclare(class, compiledClassHash, nonce, opts)
	})
	if err != nil {
		return nil, err
	}
	if sub.ClassHash != nil && !sub.ClassHash.Equal(classHash) {
		return nil, fmt.Errorf("node declared class %s, expected %s", sub.ClassHash, classHash)
	}
	return &rpc.AddDeclareResponse{TransactionHash: sub.TransactionHash, ClassHash: classHash}, nil
}
