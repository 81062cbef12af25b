package rpc

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/NethermindEth/starkclient/core/felt"
)

// SubscriptionID is emitted as a decimal string. Nodes differ in what they send, so JSON
// numbers and decimal or hex strings are all accepted.
type SubscriptionID uint64

func (id SubscriptionID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

func (id SubscriptionID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(id.String())), nil
}

func (id *SubscriptionID) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	base := 10
	if digits, ok := strings.CutPrefix(s, "0x"); ok {
		s, base = digits, 16
	}
	v, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return schemaErrorf("", "invalid subscription id %s", data)
	}
	*id = SubscriptionID(v)
	return nil
}

const (
	MethodNewHeads            = "starknet_subscriptionNewHeads"
	MethodEvents              = "starknet_subscriptionEvents"
	MethodPendingTransactions = "starknet_subscriptionPendingTransactions"
	MethodTransactionStatus   = "starknet_subscriptionTransactionStatus"
	MethodReorg               = "starknet_subscriptionReorg"
)

type ReorgEvent struct {
	StartBlockHash *felt.Felt `json:"starting_block_hash"`
	StartBlockNum  uint64     `json:"starting_block_number"`
	EndBlockHash   *felt.Felt `json:"ending_block_hash"`
	EndBlockNum    uint64     `json:"ending_block_number"`
}

type SubscriptionTransactionStatus struct {
	TransactionHash *felt.Felt        `json:"transaction_hash"`
	Status          TransactionStatus `json:"status"`
}

// PendingTransaction is a bare hash or, when details were requested, the full transaction.
type PendingTransaction struct {
	Hash        *felt.Felt
	Transaction *Transaction
}

func (p *PendingTransaction) wireParts() []any {
	if p.Transaction != nil {
		return p.Transaction.wireParts()
	}
	return nil
}

func (p PendingTransaction) MarshalJSON() ([]byte, error) {
	if p.Transaction != nil {
		return json.Marshal(p.Transaction)
	}
	return json.Marshal(p.Hash)
}

func (p *PendingTransaction) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		hash, err := parseFelt(data, "")
		if err != nil {
			return err
		}
		p.Hash, p.Transaction = hash, nil
		return nil
	}
	tx := new(Transaction)
	if err := tx.UnmarshalJSON(data); err != nil {
		return err
	}
	p.Hash, p.Transaction = tx.Hash, tx
	return nil
}

type Notification[T any] struct {
	SubscriptionID SubscriptionID `json:"subscription_id"`
	Result         T              `json:"result"`
}

type (
	NewHeadsNotification           = Notification[BlockHeader]
	EventsNotification             = Notification[EmittedEvent]
	PendingTransactionNotification = Notification[PendingTransaction]
	TransactionStatusNotification  = Notification[SubscriptionTransactionStatus]
	ReorgNotification              = Notification[ReorgEvent]
)

var notifications = map[string]func() any{
	MethodNewHeads:            func() any { return new(NewHeadsNotification) },
	MethodEvents:              func() any { return new(EventsNotification) },
	MethodPendingTransactions: func() any { return new(PendingTransactionNotification) },
	MethodTransactionStatus:   func() any { return new(TransactionStatusNotification) },
	MethodReorg:               func() any { return new(ReorgNotification) },
}

// ParseNotification decodes the params of a subscription notification into the record that
// method carries, for example *NewHeadsNotification.
func (s *Schema) ParseNotification(method string, params []byte) (any, error) {
	newNotification, ok := notifications[method]
	if !ok {
		return nil, schemaErrorf("method", "unknown notification %q", method)
	}
	n := newNotification()
	if err := s.Unmarshal(params, n); err != nil {
		return nil, err
	}
	return n, nil
}
