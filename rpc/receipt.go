package rpc

import (
	"encoding/hex"
	"fmt"

	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/ethereum/go-ethereum/common"
)

// L1Address is an Ethereum address. Nodes send it as a felt, so it is parsed leniently and
// emitted as lowercase hex.
type L1Address struct {
	common.Address
}

func (a L1Address) MarshalJSON() ([]byte, error) {
	return []byte(`"0x` + hex.EncodeToString(a.Address[:]) + `"`), nil
}

func (a *L1Address) UnmarshalJSON(data []byte) error {
	f := new(felt.Felt)
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	if f.BitLen() > 8*common.AddressLength {
		return fmt.Errorf("l1 address %s does not fit in %d bytes", f, common.AddressLength)
	}
	b := f.Bytes()
	a.Address = common.BytesToAddress(b[:])
	return nil
}

type MsgToL1 struct {
	From    *felt.Felt   `json:"from_address,omitempty"`
	To      L1Address    `json:"to_address"`
	Payload []*felt.Felt `json:"payload"`
}

// MsgFromL1 is the input of starknet_estimateMessageFee.
type MsgFromL1 struct {
	From     L1Address    `json:"from_address"`
	To       *felt.Felt   `json:"to_address" validate:"required"`
	Selector *felt.Felt   `json:"entry_point_selector" validate:"required"`
	Payload  []*felt.Felt `json:"payload"`
}

type Event struct {
	From *felt.Felt   `json:"from_address,omitempty"`
	Keys []*felt.Felt `json:"keys"`
	Data []*felt.Felt `json:"data"`
}

type FeePayment struct {
	Amount *felt.Felt `json:"amount"`
	Unit   FeeUnit    `json:"unit"`
}

type ExecutionResources struct {
	L1Gas     uint64 `json:"l1_gas"`
	L1DataGas uint64 `json:"l1_data_gas"`
	L2Gas     uint64 `json:"l2_gas"`
}

type TransactionReceipt struct {
	Type               TransactionType     `json:"type"`
	Hash               *felt.Felt          `json:"transaction_hash"`
	ActualFee          *FeePayment         `json:"actual_fee"`
	ExecutionStatus    TxnExecutionStatus  `json:"execution_status"`
	FinalityStatus     TxnFinalityStatus   `json:"finality_status"`
	BlockHash          *felt.Felt          `json:"block_hash,omitempty"`
	BlockNumber        *uint64             `json:"block_number,omitempty"`
	MessagesSent       []*MsgToL1          `json:"messages_sent"`
	Events             []*Event            `json:"events"`
	ContractAddress    *felt.Felt          `json:"contract_address,omitempty"`
	RevertReason       string              `json:"revert_reason,omitempty"`
	ExecutionResources *ExecutionResources `json:"execution_resources,omitempty"`
	MessageHash        string              `json:"message_hash,omitempty"`
}

// IsPending reports whether the receipt belongs to a block that is not closed yet.
func (r *TransactionReceipt) IsPending() bool {
	return r.BlockHash == nil
}

// EventsFrom returns the events emitted by address whose first key is selector.
func (r *TransactionReceipt) EventsFrom(address, selector *felt.Felt) []*Event {
	var found []*Event
	for _, e := range r.Events {
		if e.From == nil || !e.From.Equal(address) || len(e.Keys) == 0 || !e.Keys[0].Equal(selector) {
			continue
		}
		found = append(found, e)
	}
	return found
}
