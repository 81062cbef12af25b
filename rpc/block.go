package rpc

import (
	"github.com/NethermindEth/starkclient/core/felt"
)

type BlockStatus uint8

const (
	BlockPendingStatus BlockStatus = iota
	BlockAcceptedL2
	BlockAcceptedL1
	BlockRejected
	BlockPreConfirmedStatus
)

// Older nodes report dropped blocks as ABORTED or REVERTED.
var blockStatuses = newEnum("block status", map[BlockStatus]string{
	BlockPendingStatus:      "PENDING",
	BlockAcceptedL2:         "ACCEPTED_ON_L2",
	BlockAcceptedL1:         "ACCEPTED_ON_L1",
	BlockRejected:           "REJECTED",
	BlockPreConfirmedStatus: "PRE_CONFIRMED",
}, map[string]BlockStatus{
	"ABORTED":  BlockRejected,
	"REVERTED": BlockRejected,
})

func (s BlockStatus) String() string {
	name, err := blockStatuses.name(s)
	if err != nil {
		return "UNKNOWN"
	}
	return name
}

func (s BlockStatus) MarshalJSON() ([]byte, error) { return blockStatuses.marshal(s) }

func (s *BlockStatus) UnmarshalJSON(data []byte) (err error) {
	*s, err = blockStatuses.unmarshal(data)
	return err
}

type L1DAMode uint8

const (
	Calldata L1DAMode = iota
	Blob
)

var l1DAModes = newEnum("l1 da mode", map[L1DAMode]string{Calldata: "CALLDATA", Blob: "BLOB"}, nil)

func (m L1DAMode) MarshalJSON() ([]byte, error) { return l1DAModes.marshal(m) }

func (m *L1DAMode) UnmarshalJSON(data []byte) (err error) {
	*m, err = l1DAModes.unmarshal(data)
	return err
}

type ResourcePrice struct {
	InFri *felt.Felt `json:"price_in_fri"`
	InWei *felt.Felt `json:"price_in_wei"`
}

type BlockHashAndNumber struct {
	Hash   *felt.Felt `json:"block_hash"`
	Number uint64     `json:"block_number"`
}

// BlockHeader also describes pending blocks, which carry no hash, number or root.
type BlockHeader struct {
	Hash             *felt.Felt     `json:"block_hash,omitempty"`
	ParentHash       *felt.Felt     `json:"parent_hash"`
	Number           *uint64        `json:"block_number,omitempty"`
	NewRoot          *felt.Felt     `json:"new_root,omitempty"`
	Timestamp        uint64         `json:"timestamp"`
	SequencerAddress *felt.Felt     `json:"sequencer_address"`
	L1GasPrice       *ResourcePrice `json:"l1_gas_price"`
	L2GasPrice       *ResourcePrice `json:"l2_gas_price,omitempty"`
	L1DataGasPrice   *ResourcePrice `json:"l1_data_gas_price,omitempty"`
	L1DAMode         *L1DAMode      `json:"l1_da_mode,omitempty"`
	StarknetVersion  string         `json:"starknet_version"`
}

func (h *BlockHeader) IsPending() bool {
	return h.Hash == nil
}

type BlockWithTxHashes struct {
	Status *BlockStatus `json:"status,omitempty"`
	BlockHeader
	TxnHashes []*felt.Felt `json:"transactions"`
}

type BlockWithTxs struct {
	Status *BlockStatus `json:"status,omitempty"`
	BlockHeader
	Transactions []*Transaction `json:"transactions"`
}

type TransactionWithReceipt struct {
	Transaction *Transaction        `json:"transaction"`
	Receipt     *TransactionReceipt `json:"receipt"`
}

type BlockWithReceipts struct {
	Status *BlockStatus `json:"status,omitempty"`
	BlockHeader
	Transactions []TransactionWithReceipt `json:"transactions"`
}
