package typeddata

import (
	"github.com/NethermindEth/starkclient/core/crypto"
	"github.com/NethermindEth/starkclient/core/felt"
)

// MerkleRoot builds the tree bottom up, hashing every pair in sorted order. An odd node
// at the end of a level is paired with zero and a single leaf is its own root.
func MerkleRoot(revision Revision, leaves []*felt.Felt) (*felt.Felt, error) {
	if len(leaves) == 0 {
		return nil, errorf("merkletree needs at least one leaf")
	}
	pair := crypto.Pedersen
	if revision == V1 {
		pair = crypto.Poseidon
	}

	level := leaves
	for len(level) > 1 {
		next := make([]*felt.Felt, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			a, b := level[i], &felt.Zero
			if i+1 < len(level) {
				b = level[i+1]
			}
			if a.Cmp(b) > 0 {
				a, b = b, a
			}
			next = append(next, pair(a, b))
		}
		level = next
	}
	return level[0], nil
}
