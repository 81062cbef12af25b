package crypto

import "github.com/NethermindEth/starkclient/core/felt"

// Digest is an incremental array hash.
type Digest interface {
	Update(...*felt.Felt) Digest
	Finish() *felt.Felt
}

// HashFunc hashes a whole array at once. PedersenArray and PoseidonArray satisfy it.
type HashFunc func(...*felt.Felt) *felt.Felt

// PairHashFunc hashes two elements. Pedersen and Poseidon satisfy it.
type PairHashFunc func(a, b *felt.Felt) *felt.Felt
