package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/NethermindEth/starkclient/core/felt"
)

// QueryVersionBase is added to a transaction version to mark it as a query that must not
// be executed on chain, as fee estimation and simulation do.
var QueryVersionBase = new(big.Int).Lsh(big.NewInt(1), 128)

// Version returns the felt encoding of a plain transaction version.
func Version(v uint64) *felt.Felt {
	return felt.NewFromUint64(v)
}

// QueryVersion returns v with the query bit set.
func QueryVersion(v uint64) *felt.Felt {
	q := new(big.Int).Add(QueryVersionBase, new(big.Int).SetUint64(v))
	return new(felt.Felt).SetBigInt(q)
}

// SplitVersion separates the query bit from the version number. Versions with any other
// bits above 2^128 are not valid.
func SplitVersion(version *felt.Felt) (base uint64, query bool, err error) {
	v := version.BigInt()
	if v.Cmp(QueryVersionBase) >= 0 {
		v.Sub(v, QueryVersionBase)
		query = true
	}
	if !v.IsUint64() || v.Cmp(QueryVersionBase) >= 0 {
		return 0, false, fmt.Errorf("unsupported transaction version %s", version)
	}
	return v.Uint64(), query, nil
}

// U64 is an unsigned integer carried as a hex string on the wire.
type U64 uint64

func (u U64) MarshalJSON() ([]byte, error) {
	return []byte(`"0x` + strconv.FormatUint(uint64(u), 16) + `"`), nil
}

func (u *U64) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
		digits, ok := strings.CutPrefix(s, "0x")
		if !ok || digits == "" {
			return schemaErrorf("", "expected 0x-prefixed hex u64, got %q", s)
		}
		v, err := strconv.ParseUint(digits, 16, 64)
		if err != nil {
			return schemaErrorf("", "invalid u64 %q: %v", s, err)
		}
		*u = U64(v)
		return nil
	}
	// some nodes emit plain numbers
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return schemaErrorf("", "invalid u64 %s", s)
	}
	*u = U64(v)
	return nil
}

type blockIDKind uint8

const (
	blockIDLatest blockIDKind = iota
	blockIDPending
	blockIDPreConfirmed
	blockIDHash
	blockIDNumber
)

// BlockID selects a block by tag, hash or number. The zero value is the latest block.
type BlockID struct {
	kind   blockIDKind
	hash   *felt.Felt
	number uint64
}

func BlockLatest() BlockID                 { return BlockID{kind: blockIDLatest} }
func BlockPending() BlockID                { return BlockID{kind: blockIDPending} }
func BlockPreConfirmed() BlockID           { return BlockID{kind: blockIDPreConfirmed} }
func BlockNumber(n uint64) BlockID         { return BlockID{kind: blockIDNumber, number: n} }
func BlockHash(hash *felt.Felt) BlockID    { return BlockID{kind: blockIDHash, hash: hash} }
func (b BlockID) IsLatest() bool           { return b.kind == blockIDLatest }
func (b BlockID) IsPending() bool          { return b.kind == blockIDPending || b.kind == blockIDPreConfirmed }
func (b BlockID) Hash() (*felt.Felt, bool) { return b.hash, b.kind == blockIDHash }
func (b BlockID) Number() (uint64, bool)   { return b.number, b.kind == blockIDNumber }

func (b BlockID) String() string {
	switch b.kind {
	case blockIDPending:
		return "pending"
	case blockIDPreConfirmed:
		return "pre_confirmed"
	case blockIDHash:
		return b.hash.String()
	case blockIDNumber:
		return strconv.FormatUint(b.number, 10)
	default:
		return "latest"
	}
}

func (b BlockID) MarshalJSON() ([]byte, error) {
	switch b.kind {
	case blockIDHash:
		return json.Marshal(map[string]*felt.Felt{"block_hash": b.hash})
	case blockIDNumber:
		return json.Marshal(map[string]uint64{"block_number": b.number})
	default:
		return []byte(strconv.Quote(b.String())), nil
	}
}

func (b *BlockID) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"latest"`:
		*b = BlockLatest()
		return nil
	case `"pending"`:
		*b = BlockPending()
		return nil
	case `"pre_confirmed"`:
		*b = BlockPreConfirmed()
		return nil
	}

	var obj struct {
		Hash   *felt.Felt `json:"block_hash"`
		Number *uint64    `json:"block_number"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return schemaErrorf("", "cannot unmarshal block id %s", data)
	}
	switch {
	case obj.Hash != nil && obj.Number == nil:
		*b = BlockHash(obj.Hash)
	case obj.Number != nil && obj.Hash == nil:
		*b = BlockNumber(*obj.Number)
	default:
		return schemaErrorf("", "block id needs exactly one of block_hash and block_number")
	}
	return nil
}

var ErrInvalidBlockID = errors.New("invalid block id")

// ParseBlockID reads a command line style block id: a tag, a 0x hash or a decimal number.
func ParseBlockID(s string) (BlockID, error) {
	switch strings.ToLower(s) {
	case "", "latest":
		return BlockLatest(), nil
	case "pending":
		return BlockPending(), nil
	case "pre_confirmed", "pre-confirmed":
		return BlockPreConfirmed(), nil
	}
	if strings.HasPrefix(s, "0x") {
		hash, err := felt.FromHex(s)
		if err != nil {
			return BlockID{}, fmt.Errorf("%w: %w", ErrInvalidBlockID, err)
		}
		return BlockHash(hash), nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return BlockID{}, fmt.Errorf("%w: %q", ErrInvalidBlockID, s)
	}
	return BlockNumber(n), nil
}

type TransactionType uint8

const (
	Invalid TransactionType = iota
	TxnDeclare
	TxnDeploy
	TxnDeployAccount
	TxnInvoke
	TxnL1Handler
)

var transactionTypes = newEnum("transaction type", map[TransactionType]string{
	TxnDeclare:       "DECLARE",
	TxnDeploy:        "DEPLOY",
	TxnDeployAccount: "DEPLOY_ACCOUNT",
	TxnInvoke:        "INVOKE",
	TxnL1Handler:     "L1_HANDLER",
}, map[string]TransactionType{"INVOKE_FUNCTION": TxnInvoke})

func (t TransactionType) String() string {
	name, err := transactionTypes.name(t)
	if err != nil {
		return "<unknown>"
	}
	return name
}

func (t TransactionType) MarshalJSON() ([]byte, error) { return transactionTypes.marshal(t) }

func (t *TransactionType) UnmarshalJSON(data []byte) (err error) {
	*t, err = transactionTypes.unmarshal(data)
	return err
}

// UnmarshalText accepts the wire names, including the INVOKE_FUNCTION alias.
func (t *TransactionType) UnmarshalText(text []byte) (err error) {
	*t, err = transactionTypes.parse(string(text))
	return err
}

type DataAvailabilityMode uint32

const (
	DAModeL1 DataAvailabilityMode = iota
	DAModeL2
)

var daModes = newEnum("data availability mode", map[DataAvailabilityMode]string{
	DAModeL1: "L1",
	DAModeL2: "L2",
}, nil)

func (m DataAvailabilityMode) MarshalJSON() ([]byte, error) { return daModes.marshal(m) }

func (m *DataAvailabilityMode) UnmarshalJSON(data []byte) (err error) {
	*m, err = daModes.unmarshal(data)
	return err
}

type Resource uint32

const (
	ResourceL1Gas Resource = iota + 1
	ResourceL2Gas
	ResourceL1DataGas
)

// String returns the name used when hashing resource bounds.
func (r Resource) String() string {
	switch r {
	case ResourceL1Gas:
		return "L1_GAS"
	case ResourceL2Gas:
		return "L2_GAS"
	case ResourceL1DataGas:
		return "L1_DATA"
	default:
		return "<unknown>"
	}
}

type TxnStatus uint8

const (
	TxnStatusReceived TxnStatus = iota + 1
	TxnStatusRejected
	TxnStatusAcceptedOnL2
	TxnStatusAcceptedOnL1
	TxnStatusCandidate
	TxnStatusPreConfirmed
)

var txnStatuses = newEnum("transaction status", map[TxnStatus]string{
	TxnStatusReceived:     "RECEIVED",
	TxnStatusRejected:     "REJECTED",
	TxnStatusAcceptedOnL2: "ACCEPTED_ON_L2",
	TxnStatusAcceptedOnL1: "ACCEPTED_ON_L1",
	TxnStatusCandidate:    "CANDIDATE",
	TxnStatusPreConfirmed: "PRE_CONFIRMED",
}, nil)

func (s TxnStatus) String() string {
	name, err := txnStatuses.name(s)
	if err != nil {
		return "<unknown>"
	}
	return name
}

func (s TxnStatus) MarshalJSON() ([]byte, error) { return txnStatuses.marshal(s) }

func (s *TxnStatus) UnmarshalJSON(data []byte) (err error) {
	*s, err = txnStatuses.unmarshal(data)
	return err
}

// IsAccepted reports whether the transaction made it into a block on L2 or L1.
func (s TxnStatus) IsAccepted() bool {
	return s == TxnStatusAcceptedOnL2 || s == TxnStatusAcceptedOnL1
}

type TxnExecutionStatus uint8

const (
	UnknownExecution TxnExecutionStatus = iota
	TxnSuccess
	TxnFailure
)

var executionStatuses = newEnum("execution status", map[TxnExecutionStatus]string{
	TxnSuccess: "SUCCEEDED",
	TxnFailure: "REVERTED",
}, nil)

func (es TxnExecutionStatus) String() string {
	name, err := executionStatuses.name(es)
	if err != nil {
		return ""
	}
	return name
}

func (es TxnExecutionStatus) MarshalJSON() ([]byte, error) { return executionStatuses.marshal(es) }

func (es *TxnExecutionStatus) UnmarshalJSON(data []byte) (err error) {
	*es, err = executionStatuses.unmarshal(data)
	return err
}

type TxnFinalityStatus uint8

const (
	TxnAcceptedOnL2 TxnFinalityStatus = iota + 3
	TxnAcceptedOnL1
	TxnPreConfirmed
)

var finalityStatuses = newEnum("finality status", map[TxnFinalityStatus]string{
	TxnAcceptedOnL2: "ACCEPTED_ON_L2",
	TxnAcceptedOnL1: "ACCEPTED_ON_L1",
	TxnPreConfirmed: "PRE_CONFIRMED",
}, nil)

func (fs TxnFinalityStatus) String() string {
	name, err := finalityStatuses.name(fs)
	if err != nil {
		return "<unknown>"
	}
	return name
}

func (fs TxnFinalityStatus) MarshalJSON() ([]byte, error) { return finalityStatuses.marshal(fs) }

func (fs *TxnFinalityStatus) UnmarshalJSON(data []byte) (err error) {
	*fs, err = finalityStatuses.unmarshal(data)
	return err
}

type FeeUnit uint8

const (
	WEI FeeUnit = iota
	FRI
)

var feeUnits = newEnum("fee unit", map[FeeUnit]string{WEI: "WEI", FRI: "FRI"}, nil)

func (u FeeUnit) String() string {
	name, err := feeUnits.name(u)
	if err != nil {
		return "<unknown>"
	}
	return name
}

func (u FeeUnit) MarshalJSON() ([]byte, error) { return feeUnits.marshal(u) }

func (u *FeeUnit) UnmarshalJSON(data []byte) (err error) {
	*u, err = feeUnits.unmarshal(data)
	return err
}

type SimulationFlag uint8

const (
	SkipValidateFlag SimulationFlag = iota + 1
	SkipFeeChargeFlag
)

var simulationFlags = newEnum("simulation flag", map[SimulationFlag]string{
	SkipValidateFlag:  "SKIP_VALIDATE",
	SkipFeeChargeFlag: "SKIP_FEE_CHARGE",
}, nil)

func (f SimulationFlag) MarshalJSON() ([]byte, error) { return simulationFlags.marshal(f) }

func (f *SimulationFlag) UnmarshalJSON(data []byte) (err error) {
	*f, err = simulationFlags.unmarshal(data)
	return err
}

// FunctionCall is the payload of starknet_call and one entry of a multicall.
type FunctionCall struct {
	ContractAddress    *felt.Felt   `json:"contract_address" validate:"required,address"`
	EntryPointSelector *felt.Felt   `json:"entry_point_selector" validate:"required"`
	Calldata           []*felt.Felt `json:"calldata"`
}

func (c FunctionCall) MarshalJSON() ([]byte, error) {
	type alias FunctionCall
	if c.Calldata == nil {
		c.Calldata = []*felt.Felt{}
	}
	return json.Marshal(alias(c))
}
