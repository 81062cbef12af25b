package rpc

import (
	"encoding/json"
	"errors"
	"slices"

	"github.com/NethermindEth/starkclient/core/felt"
)

type StorageKeys struct {
	Contract *felt.Felt   `json:"contract_address"`
	Keys     []*felt.Felt `json:"storage_keys"`
}

type BinaryNode struct {
	Left  *felt.Felt `json:"left"`
	Right *felt.Felt `json:"right"`
}

type EdgeNode struct {
	Path   *felt.Felt `json:"path"`
	Length uint8      `json:"length"`
	Child  *felt.Felt `json:"child"`
}

// MerkleNode is a binary or an edge node. Which one is decided by the exact key set of the
// object.
type MerkleNode struct {
	Binary *BinaryNode
	Edge   *EdgeNode
}

var ErrEmptyNode = errors.New("merkle node is neither binary nor edge")

func (n *MerkleNode) wireParts() []any {
	if n.Binary != nil {
		return []any{n.Binary}
	}
	return []any{n.Edge}
}

func (n MerkleNode) MarshalJSON() ([]byte, error) {
	switch {
	case n.Binary != nil:
		return json.Marshal(n.Binary)
	case n.Edge != nil:
		return json.Marshal(n.Edge)
	}
	return nil, ErrEmptyNode
}

var (
	binaryKeys = []string{"left", "right"}
	edgeKeys   = []string{"child", "length", "path"}
)

func (n *MerkleNode) UnmarshalJSON(data []byte) error {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return asSchemaError(err)
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	switch {
	case slices.Equal(keys, binaryKeys):
		n.Binary, n.Edge = new(BinaryNode), nil
		return asSchemaErrorOrNil(json.Unmarshal(data, n.Binary))
	case slices.Equal(keys, edgeKeys):
		n.Binary, n.Edge = nil, new(EdgeNode)
		return asSchemaErrorOrNil(json.Unmarshal(data, n.Edge))
	}
	return schemaErrorf("", "merkle node with keys %v is neither binary nor edge", keys)
}

type HashToNode struct {
	Hash *felt.Felt `json:"node_hash"`
	Node MerkleNode `json:"node"`
}

type LeafData struct {
	Nonce       *felt.Felt `json:"nonce"`
	ClassHash   *felt.Felt `json:"class_hash"`
	StorageRoot *felt.Felt `json:"storage_root,omitempty"`
}

type ContractProof struct {
	Nodes      []*HashToNode `json:"nodes"`
	LeavesData []*LeafData   `json:"contract_leaves_data"`
}

type GlobalRoots struct {
	ContractsTreeRoot *felt.Felt `json:"contracts_tree_root"`
	ClassesTreeRoot   *felt.Felt `json:"classes_tree_root"`
	BlockHash         *felt.Felt `json:"block_hash"`
}

type StorageProof struct {
	ClassesProof           []*HashToNode   `json:"classes_proof"`
	ContractsProof         *ContractProof  `json:"contracts_proof"`
	ContractsStorageProofs [][]*HashToNode `json:"contracts_storage_proofs"`
	GlobalRoots            *GlobalRoots    `json:"global_roots"`
}
