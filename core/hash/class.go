package hash

import (
	"fmt"

	"github.com/NethermindEth/starkclient/core/crypto"
	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/NethermindEth/starkclient/rpc"
	"github.com/sourcegraph/conc/iter"
)

var sierraClassVersion = new(felt.Felt).SetBytes([]byte("CONTRACT_CLASS_V0.1.0"))

// SierraClassHash computes the hash a Cairo 1 class is declared under.
func SierraClassHash(class *rpc.SierraClass) (*felt.Felt, error) {
	groups := [][]rpc.SierraEntryPoint{
		class.EntryPoints.External,
		class.EntryPoints.L1Handler,
		class.EntryPoints.Constructor,
	}
	for _, group := range groups {
		for _, ep := range group {
			if ep.Selector == nil {
				return nil, fmt.Errorf("%w: entry point selector", ErrMissingField)
			}
		}
	}

	entryPointHashes := iter.Map(groups, func(group *[]rpc.SierraEntryPoint) *felt.Felt {
		return entryPointsHash(*group)
	})

	return crypto.PoseidonArray(
		sierraClassVersion,
		entryPointHashes[0],
		entryPointHashes[1],
		entryPointHashes[2],
		crypto.StarknetKeccak([]byte(class.Abi)),
		crypto.PoseidonArray(class.SierraProgram...),
	), nil
}

func entryPointsHash(entryPoints []rpc.SierraEntryPoint) *felt.Felt {
	var digest crypto.PoseidonDigest
	for _, ep := range entryPoints {
		digest.Update(ep.Selector, felt.NewFromUint64(ep.Index))
	}
	return digest.Finish()
}
