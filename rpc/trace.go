package rpc

import (
	"bytes"
	"encoding/json"

	"github.com/NethermindEth/starkclient/core/felt"
)

type OrderedEvent struct {
	Order uint64       `json:"order"`
	Keys  []*felt.Felt `json:"keys"`
	Data  []*felt.Felt `json:"data"`
}

type OrderedL2toL1Message struct {
	Order   uint64       `json:"order"`
	To      *felt.Felt   `json:"to_address"`
	Payload []*felt.Felt `json:"payload"`
}

type InnerExecutionResources struct {
	L1Gas uint64 `json:"l1_gas"`
	L2Gas uint64 `json:"l2_gas"`
}

type FunctionInvocation struct {
	ContractAddress    *felt.Felt               `json:"contract_address"`
	EntryPointSelector *felt.Felt               `json:"entry_point_selector,omitempty"`
	Calldata           []*felt.Felt             `json:"calldata"`
	CallerAddress      *felt.Felt               `json:"caller_address"`
	ClassHash          *felt.Felt               `json:"class_hash,omitempty"`
	EntryPointType     string                   `json:"entry_point_type,omitempty"`
	CallType           string                   `json:"call_type,omitempty"`
	Result             []*felt.Felt             `json:"result"`
	Calls              []FunctionInvocation     `json:"calls"`
	Events             []OrderedEvent           `json:"events"`
	Messages           []OrderedL2toL1Message   `json:"messages"`
	ExecutionResources *InnerExecutionResources `json:"execution_resources,omitempty"`
	IsReverted         bool                     `json:"is_reverted"`
}

// ExecuteInvocation is either a function invocation or, for reverted transactions, only a
// revert reason.
type ExecuteInvocation struct {
	RevertReason string `json:"revert_reason,omitempty"`
	*FunctionInvocation
}

func (e *ExecuteInvocation) IsReverted() bool {
	return e.FunctionInvocation == nil
}

type TraceBody interface {
	Kind() TransactionType
}

type InvokeTrace struct {
	ValidateInvocation    *FunctionInvocation `json:"validate_invocation,omitempty"`
	ExecuteInvocation     *ExecuteInvocation  `json:"execute_invocation"`
	FeeTransferInvocation *FunctionInvocation `json:"fee_transfer_invocation,omitempty"`
	StateDiff             *StateDiff          `json:"state_diff,omitempty"`
	ExecutionResources    *ExecutionResources `json:"execution_resources,omitempty"`
}

type DeclareTrace struct {
	ValidateInvocation    *FunctionInvocation `json:"validate_invocation,omitempty"`
	FeeTransferInvocation *FunctionInvocation `json:"fee_transfer_invocation,omitempty"`
	StateDiff             *StateDiff          `json:"state_diff,omitempty"`
	ExecutionResources    *ExecutionResources `json:"execution_resources,omitempty"`
}

type DeployAccountTrace struct {
	ValidateInvocation    *FunctionInvocation `json:"validate_invocation,omitempty"`
	ConstructorInvocation *FunctionInvocation `json:"constructor_invocation"`
	FeeTransferInvocation *FunctionInvocation `json:"fee_transfer_invocation,omitempty"`
	StateDiff             *StateDiff          `json:"state_diff,omitempty"`
	ExecutionResources    *ExecutionResources `json:"execution_resources,omitempty"`
}

type L1HandlerTrace struct {
	FunctionInvocation *ExecuteInvocation  `json:"function_invocation"`
	StateDiff          *StateDiff          `json:"state_diff,omitempty"`
	ExecutionResources *ExecutionResources `json:"execution_resources,omitempty"`
}

func (*InvokeTrace) Kind() TransactionType        { return TxnInvoke }
func (*DeclareTrace) Kind() TransactionType       { return TxnDeclare }
func (*DeployAccountTrace) Kind() TransactionType { return TxnDeployAccount }
func (*L1HandlerTrace) Kind() TransactionType     { return TxnL1Handler }

var traceBodies = map[TransactionType]func() TraceBody{
	TxnInvoke:        func() TraceBody { return new(InvokeTrace) },
	TxnDeclare:       func() TraceBody { return new(DeclareTrace) },
	TxnDeployAccount: func() TraceBody { return new(DeployAccountTrace) },
	TxnL1Handler:     func() TraceBody { return new(L1HandlerTrace) },
}

// TransactionTrace is dispatched on its type field.
type TransactionTrace struct {
	Type TransactionType `json:"type"`
	Body TraceBody       `json:"-"`
}

type traceHeader struct {
	Type TransactionType `json:"type"`
}

func (t *TransactionTrace) wireParts() []any {
	return []any{&traceHeader{}, t.Body}
}

func (t TransactionTrace) MarshalJSON() ([]byte, error) {
	if t.Body == nil {
		return nil, ErrMissingBody
	}
	body, err := json.Marshal(t.Body)
	if err != nil {
		return nil, err
	}
	kind, err := json.Marshal(t.Body.Kind())
	if err != nil {
		return nil, err
	}
	out := bytes.NewBufferString(`{"type":`)
	out.Write(kind)
	if len(body) > 2 {
		out.WriteByte(',')
		out.Write(body[1:])
	} else {
		out.WriteByte('}')
	}
	return out.Bytes(), nil
}

func (t *TransactionTrace) UnmarshalJSON(data []byte) error {
	var header traceHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return withPath(asSchemaError(err), "type")
	}
	newBody, ok := traceBodies[header.Type]
	if !ok {
		return schemaErrorf("type", "no trace variant for %s transactions", header.Type)
	}
	body := newBody()
	if err := json.Unmarshal(data, body); err != nil {
		return asSchemaError(err)
	}
	t.Type, t.Body = header.Type, body
	return nil
}

type TracedBlockTransaction struct {
	TraceRoot       *TransactionTrace `json:"trace_root,omitempty"`
	TransactionHash *felt.Felt        `json:"transaction_hash,omitempty"`
}
