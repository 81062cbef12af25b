package rpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"slices"

	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/NethermindEth/starkclient/uint128"
)

type ResourceBounds struct {
	MaxAmount       U64         `json:"max_amount"`
	MaxPricePerUnit uint128.Int `json:"max_price_per_unit"`
}

type ResourceBoundsMap struct {
	L1Gas     *ResourceBounds `json:"l1_gas" validate:"required"`
	L2Gas     *ResourceBounds `json:"l2_gas" validate:"required"`
	L1DataGas *ResourceBounds `json:"l1_data_gas,omitempty"`
}

// ZeroResourceBounds has every bound set to zero, including l1_data_gas.
func ZeroResourceBounds() ResourceBoundsMap {
	return ResourceBoundsMap{L1Gas: new(ResourceBounds), L2Gas: new(ResourceBounds), L1DataGas: new(ResourceBounds)}
}

func (r ResourceBoundsMap) clone() ResourceBoundsMap {
	cp := func(b *ResourceBounds) *ResourceBounds {
		if b == nil {
			return nil
		}
		c := *b
		return &c
	}
	return ResourceBoundsMap{L1Gas: cp(r.L1Gas), L2Gas: cp(r.L2Gas), L1DataGas: cp(r.L1DataGas)}
}

// TransactionBody is the version specific part of a transaction.
type TransactionBody interface {
	Kind() TransactionType
	BaseVersion() uint64
	GetSignature() []*felt.Felt
	SetSignature([]*felt.Felt)
	clone() TransactionBody
}

// V3Fields are shared by every v3 transaction.
type V3Fields struct {
	Signature      []*felt.Felt         `json:"signature"`
	Nonce          *felt.Felt           `json:"nonce" validate:"required"`
	ResourceBounds ResourceBoundsMap    `json:"resource_bounds"`
	Tip            U64                  `json:"tip"`
	PaymasterData  []*felt.Felt         `json:"paymaster_data"`
	NonceDAMode    DataAvailabilityMode `json:"nonce_data_availability_mode"`
	FeeDAMode      DataAvailabilityMode `json:"fee_data_availability_mode"`
}

func (f *V3Fields) GetSignature() []*felt.Felt      { return f.Signature }
func (f *V3Fields) SetSignature(sig []*felt.Felt)   { f.Signature = sig }
func (f *V3Fields) v3() *V3Fields                   { return f }
func (f *V3Fields) cloneV3() V3Fields {
	c := *f
	c.Signature = cloneFelts(f.Signature)
	c.PaymasterData = cloneFelts(f.PaymasterData)
	c.ResourceBounds = f.ResourceBounds.clone()
	return c
}

// V3 returns the shared v3 fields of body, if it is a v3 transaction.
func V3(body TransactionBody) (*V3Fields, bool) {
	v, ok := body.(interface{ v3() *V3Fields })
	if !ok {
		return nil, false
	}
	return v.v3(), true
}

type legacySignature struct {
	Signature []*felt.Felt `json:"signature"`
}

func (s *legacySignature) GetSignature() []*felt.Felt    { return s.Signature }
func (s *legacySignature) SetSignature(sig []*felt.Felt) { s.Signature = sig }

type InvokeV0 struct {
	MaxFee *felt.Felt `json:"max_fee" validate:"required"`
	legacySignature
	ContractAddress    *felt.Felt   `json:"contract_address" alias:"sender_address" validate:"required"`
	EntryPointSelector *felt.Felt   `json:"entry_point_selector" validate:"required"`
	Calldata           []*felt.Felt `json:"calldata"`
}

type InvokeV1 struct {
	MaxFee *felt.Felt `json:"max_fee" validate:"required"`
	legacySignature
	Nonce         *felt.Felt   `json:"nonce" validate:"required"`
	SenderAddress *felt.Felt   `json:"sender_address" alias:"contract_address" validate:"required"`
	Calldata      []*felt.Felt `json:"calldata"`
}

type InvokeV3 struct {
	V3Fields
	SenderAddress         *felt.Felt   `json:"sender_address" validate:"required"`
	Calldata              []*felt.Felt `json:"calldata"`
	AccountDeploymentData []*felt.Felt `json:"account_deployment_data"`
}

type DeclareV0 struct {
	SenderAddress *felt.Felt `json:"sender_address" validate:"required"`
	MaxFee        *felt.Felt `json:"max_fee" validate:"required"`
	legacySignature
	ClassHash *felt.Felt `json:"class_hash" validate:"required"`
}

type DeclareV1 struct {
	SenderAddress *felt.Felt `json:"sender_address" validate:"required"`
	MaxFee        *felt.Felt `json:"max_fee" validate:"required"`
	legacySignature
	Nonce     *felt.Felt `json:"nonce" validate:"required"`
	ClassHash *felt.Felt `json:"class_hash" validate:"required"`
}

// DeclareV2 carries the class itself when broadcast and its hash when read back from a node.
type DeclareV2 struct {
	SenderAddress *felt.Felt `json:"sender_address" validate:"required"`
	MaxFee        *felt.Felt `json:"max_fee" validate:"required"`
	legacySignature
	Nonce             *felt.Felt   `json:"nonce" validate:"required"`
	ClassHash         *felt.Felt   `json:"class_hash,omitempty"`
	CompiledClassHash *felt.Felt   `json:"compiled_class_hash" validate:"required"`
	ContractClass     *SierraClass `json:"contract_class,omitempty"`
}

type DeclareV3 struct {
	V3Fields
	SenderAddress         *felt.Felt   `json:"sender_address" validate:"required"`
	ClassHash             *felt.Felt   `json:"class_hash,omitempty"`
	CompiledClassHash     *felt.Felt   `json:"compiled_class_hash" validate:"required"`
	AccountDeploymentData []*felt.Felt `json:"account_deployment_data"`
	ContractClass         *SierraClass `json:"contract_class,omitempty"`
}

type DeployV0 struct {
	ContractAddress     *felt.Felt   `json:"contract_address,omitempty"`
	ClassHash           *felt.Felt   `json:"class_hash" validate:"required"`
	ContractAddressSalt *felt.Felt   `json:"contract_address_salt" validate:"required"`
	ConstructorCalldata []*felt.Felt `json:"constructor_calldata"`
}

type DeployAccountV1 struct {
	MaxFee *felt.Felt `json:"max_fee" validate:"required"`
	legacySignature
	Nonce               *felt.Felt   `json:"nonce" validate:"required"`
	ContractAddressSalt *felt.Felt   `json:"contract_address_salt" validate:"required"`
	ConstructorCalldata []*felt.Felt `json:"constructor_calldata"`
	ClassHash           *felt.Felt   `json:"class_hash" validate:"required"`
}

type DeployAccountV3 struct {
	V3Fields
	ContractAddressSalt *felt.Felt   `json:"contract_address_salt" validate:"required"`
	ConstructorCalldata []*felt.Felt `json:"constructor_calldata"`
	ClassHash           *felt.Felt   `json:"class_hash" validate:"required"`
}

type L1HandlerV0 struct {
	Nonce              *felt.Felt   `json:"nonce" validate:"required"`
	ContractAddress    *felt.Felt   `json:"contract_address" validate:"required"`
	EntryPointSelector *felt.Felt   `json:"entry_point_selector" validate:"required"`
	Calldata           []*felt.Felt `json:"calldata"`
}

func (*L1HandlerV0) GetSignature() []*felt.Felt  { return nil }
func (*L1HandlerV0) SetSignature([]*felt.Felt)   {}
func (*DeployV0) GetSignature() []*felt.Felt     { return nil }
func (*DeployV0) SetSignature([]*felt.Felt)      {}
func (*InvokeV0) Kind() TransactionType          { return TxnInvoke }
func (*InvokeV1) Kind() TransactionType          { return TxnInvoke }
func (*InvokeV3) Kind() TransactionType          { return TxnInvoke }
func (*DeclareV0) Kind() TransactionType         { return TxnDeclare }
func (*DeclareV1) Kind() TransactionType         { return TxnDeclare }
func (*DeclareV2) Kind() TransactionType         { return TxnDeclare }
func (*DeclareV3) Kind() TransactionType         { return TxnDeclare }
func (*DeployV0) Kind() TransactionType          { return TxnDeploy }
func (*DeployAccountV1) Kind() TransactionType   { return TxnDeployAccount }
func (*DeployAccountV3) Kind() TransactionType   { return TxnDeployAccount }
func (*L1HandlerV0) Kind() TransactionType       { return TxnL1Handler }
func (*InvokeV0) BaseVersion() uint64            { return 0 }
func (*InvokeV1) BaseVersion() uint64            { return 1 }
func (*InvokeV3) BaseVersion() uint64            { return 3 }
func (*DeclareV0) BaseVersion() uint64           { return 0 }
func (*DeclareV1) BaseVersion() uint64           { return 1 }
func (*DeclareV2) BaseVersion() uint64           { return 2 }
func (*DeclareV3) BaseVersion() uint64           { return 3 }
func (*DeployV0) BaseVersion() uint64            { return 0 }
func (*DeployAccountV1) BaseVersion() uint64     { return 1 }
func (*DeployAccountV3) BaseVersion() uint64     { return 3 }
func (*L1HandlerV0) BaseVersion() uint64         { return 0 }

func (b *InvokeV0) clone() TransactionBody {
	c := *b
	c.Signature = cloneFelts(b.Signature)
	c.Calldata = cloneFelts(b.Calldata)
	return &c
}

func (b *InvokeV1) clone() TransactionBody {
	c := *b
	c.Signature = cloneFelts(b.Signature)
	c.Calldata = cloneFelts(b.Calldata)
	return &c
}

func (b *InvokeV3) clone() TransactionBody {
	c := *b
	c.V3Fields = b.cloneV3()
	c.Calldata = cloneFelts(b.Calldata)
	c.AccountDeploymentData = cloneFelts(b.AccountDeploymentData)
	return &c
}

func (b *DeclareV0) clone() TransactionBody {
	c := *b
	c.Signature = cloneFelts(b.Signature)
	return &c
}

func (b *DeclareV1) clone() TransactionBody {
	c := *b
	c.Signature = cloneFelts(b.Signature)
	return &c
}

func (b *DeclareV2) clone() TransactionBody {
	c := *b
	c.Signature = cloneFelts(b.Signature)
	return &c
}

func (b *DeclareV3) clone() TransactionBody {
	c := *b
	c.V3Fields = b.cloneV3()
	c.AccountDeploymentData = cloneFelts(b.AccountDeploymentData)
	return &c
}

func (b *DeployV0) clone() TransactionBody {
	c := *b
	c.ConstructorCalldata = cloneFelts(b.ConstructorCalldata)
	return &c
}

func (b *DeployAccountV1) clone() TransactionBody {
	c := *b
	c.Signature = cloneFelts(b.Signature)
	c.ConstructorCalldata = cloneFelts(b.ConstructorCalldata)
	return &c
}

func (b *DeployAccountV3) clone() TransactionBody {
	c := *b
	c.V3Fields = b.cloneV3()
	c.ConstructorCalldata = cloneFelts(b.ConstructorCalldata)
	return &c
}

func (b *L1HandlerV0) clone() TransactionBody {
	c := *b
	c.Calldata = cloneFelts(b.Calldata)
	return &c
}

func cloneFelts(s []*felt.Felt) []*felt.Felt {
	if s == nil {
		return nil
	}
	return slices.Clone(s)
}

// transactionBodies picks the body of a transaction from its type and its version with the
// query bit removed. Combinations missing here are rejected.
var transactionBodies = map[TransactionType]map[uint64]func() TransactionBody{
	TxnInvoke: {
		0: func() TransactionBody { return new(InvokeV0) },
		1: func() TransactionBody { return new(InvokeV1) },
		3: func() TransactionBody { return new(InvokeV3) },
	},
	TxnDeclare: {
		0: func() TransactionBody { return new(DeclareV0) },
		1: func() TransactionBody { return new(DeclareV1) },
		2: func() TransactionBody { return new(DeclareV2) },
		3: func() TransactionBody { return new(DeclareV3) },
	},
	TxnDeploy: {
		0: func() TransactionBody { return new(DeployV0) },
	},
	TxnDeployAccount: {
		1: func() TransactionBody { return new(DeployAccountV1) },
		3: func() TransactionBody { return new(DeployAccountV3) },
	},
	TxnL1Handler: {
		0: func() TransactionBody { return new(L1HandlerV0) },
	},
}

type TransactionHeader struct {
	Hash    *felt.Felt      `json:"transaction_hash,omitempty"`
	Type    TransactionType `json:"type"`
	Version *felt.Felt      `json:"version"`
}

// Transaction is a header shared by every kind plus a body selected by type and version.
type Transaction struct {
	TransactionHeader
	Body TransactionBody `json:"-"`
}

// NewTransaction wraps body with a matching header.
func NewTransaction(body TransactionBody) *Transaction {
	return &Transaction{
		TransactionHeader: TransactionHeader{Type: body.Kind(), Version: Version(body.BaseVersion())},
		Body:              body,
	}
}

// IsQuery reports whether the version carries the query bit.
func (t *Transaction) IsQuery() bool {
	if t.Version == nil {
		return false
	}
	_, query, err := SplitVersion(t.Version)
	return err == nil && query
}

// Clone copies the header, the body and every slice they hold. Felt values are shared, they
// are never mutated in place.
func (t *Transaction) Clone() *Transaction {
	c := *t
	if t.Body != nil {
		c.Body = t.Body.clone()
	}
	return &c
}

// AsQuery returns a copy with the query bit set on the version.
func (t *Transaction) AsQuery() *Transaction {
	c := t.Clone()
	c.Version = QueryVersion(t.Body.BaseVersion())
	return c
}

func (t *Transaction) wireParts() []any {
	return []any{&t.TransactionHeader, t.Body}
}

var ErrMissingBody = errors.New("transaction has no body")

func (t Transaction) MarshalJSON() ([]byte, error) {
	if t.Body == nil {
		return nil, ErrMissingBody
	}
	body, err := json.Marshal(t.Body)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err = json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	for key, value := range fields {
		if listFields[key] && bytes.Equal(value, []byte("null")) {
			fields[key] = json.RawMessage("[]")
		}
	}

	version := t.Version
	if version == nil {
		version = Version(t.Body.BaseVersion())
	}
	if fields["version"], err = json.Marshal(version); err != nil {
		return nil, err
	}
	if fields["type"], err = json.Marshal(t.Body.Kind()); err != nil {
		return nil, err
	}
	if t.Hash != nil {
		if fields["transaction_hash"], err = json.Marshal(t.Hash); err != nil {
			return nil, err
		}
	}
	return json.Marshal(fields)
}

// listFields are emitted as [] rather than null when unset.
var listFields = map[string]bool{
	"signature":               true,
	"calldata":                true,
	"constructor_calldata":    true,
	"paymaster_data":          true,
	"account_deployment_data": true,
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	var header TransactionHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return withPath(asSchemaError(err), "type")
	}
	if header.Type == Invalid {
		return schemaErrorf("type", "missing transaction type")
	}
	if header.Version == nil {
		return schemaErrorf("version", "missing transaction version")
	}
	base, _, err := SplitVersion(header.Version)
	if err != nil {
		return &SchemaError{Path: "version", Reason: err.Error()}
	}
	newBody, ok := transactionBodies[header.Type][base]
	if !ok {
		return schemaErrorf("version", "unsupported %s transaction version %s", header.Type, header.Version)
	}

	body := newBody()
	if err = json.Unmarshal(data, body); err != nil {
		return asSchemaError(err)
	}
	if err = fillLegacyInvokeAddress(data, body); err != nil {
		return err
	}

	t.TransactionHeader = header
	t.Body = body
	return nil
}

// fillLegacyInvokeAddress accepts either sender_address or contract_address on v0 and v1
// invokes. Exactly one of them must be present.
func fillLegacyInvokeAddress(data []byte, body TransactionBody) error {
	var target **felt.Felt
	var wanted, other string
	switch b := body.(type) {
	case *InvokeV0:
		target, wanted, other = &b.ContractAddress, "contract_address", "sender_address"
	case *InvokeV1:
		target, wanted, other = &b.SenderAddress, "sender_address", "contract_address"
	default:
		return nil
	}

	keys, err := presentKeys(data, wanted, other)
	if err != nil {
		return err
	}
	if len(keys) != 1 {
		return schemaErrorf(wanted, "legacy invoke needs exactly one of sender_address and contract_address")
	}
	if raw, ok := keys[other]; ok {
		if *target, err = parseFelt(raw, other); err != nil {
			return err
		}
	}
	return nil
}

func withPath(err error, path string) error {
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) && schemaErr.Path == "" {
		schemaErr.Path = path
	}
	return err
}

// FailureReason is kept exactly as the node sent it. Nodes are not consistent about its
// encoding, so interpretation is left to the caller.
type FailureReason []byte

func (r FailureReason) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return slices.Clone(r), nil
}

func (r *FailureReason) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*r = nil
		return nil
	}
	*r = slices.Clone(data)
	return nil
}

type TransactionStatus struct {
	Finality      TxnStatus          `json:"finality_status"`
	Execution     TxnExecutionStatus `json:"execution_status,omitempty"`
	FailureReason FailureReason      `json:"failure_reason,omitempty"`
}

type AddInvokeResponse struct {
	TransactionHash *felt.Felt `json:"transaction_hash"`
}

type AddDeclareResponse struct {
	TransactionHash *felt.Felt `json:"transaction_hash"`
	ClassHash       *felt.Felt `json:"class_hash"`
}

type AddDeployAccountResponse struct {
	TransactionHash *felt.Felt `json:"transaction_hash"`
	ContractAddress *felt.Felt `json:"contract_address"`
}
