// Package typeddata hashes structured off-chain messages for account signatures, in the
// legacy revision and in the SNIP-12 active revision.
package typeddata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/NethermindEth/starkclient/core/crypto"
	"github.com/NethermindEth/starkclient/core/felt"
)

type Revision uint8

const (
	// V0 hashes with the Pedersen chain and the StarkNetDomain domain type.
	V0 Revision = iota
	// V1 hashes with Poseidon and the StarknetDomain domain type.
	V1
)

func (r Revision) String() string {
	if r == V1 {
		return "1"
	}
	return "0"
}

func (r Revision) domainType() string {
	if r == V1 {
		return "StarknetDomain"
	}
	return "StarkNetDomain"
}

var ErrTypedData = errors.New("typed data error")

type Error struct {
	Reason string
}

func (e *Error) Error() string { return "typed data: " + e.Reason }

func (e *Error) Unwrap() error { return ErrTypedData }

func errorf(format string, args ...any) *Error {
	return &Error{Reason: fmt.Sprintf(format, args...)}
}

type RangeError struct {
	Type  string
	Value *big.Int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("typed data: %s out of range for %s", e.Value, e.Type)
}

func (e *RangeError) Unwrap() error { return ErrTypedData }

type Field struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Contains string `json:"contains,omitempty"`
}

type TypedData struct {
	Types       map[string][]Field `json:"types"`
	PrimaryType string             `json:"primaryType"`
	Domain      map[string]any     `json:"domain"`
	Message     map[string]any     `json:"message"`

	revision Revision
}

var messagePrefix = new(felt.Felt).SetBytes([]byte("StarkNet Message"))

var presetTypes = map[string][]Field{
	"u256": {
		{Name: "low", Type: "u128"},
		{Name: "high", Type: "u128"},
	},
	"TokenAmount": {
		{Name: "token_address", Type: "ContractAddress"},
		{Name: "amount", Type: "u256"},
	},
	"NftId": {
		{Name: "collection_address", Type: "ContractAddress"},
		{Name: "token_id", Type: "u256"},
	},
}

var basicTypes = map[Revision]map[string]bool{
	V0: {"felt": true, "bool": true, "string": true, "selector": true, "merkletree": true},
	V1: {
		"felt": true, "bool": true, "string": true, "selector": true, "merkletree": true,
		"u128": true, "i128": true, "ContractAddress": true, "ClassHash": true,
		"timestamp": true, "shortstring": true, "enum": true,
	},
}

// New checks the definitions against the chosen revision. The domain may carry a
// revision of its own, which has to agree.
func New(revision Revision, types map[string][]Field, primaryType string, domain, message map[string]any) (*TypedData, error) {
	td := &TypedData{
		Types:       types,
		PrimaryType: primaryType,
		Domain:      domain,
		Message:     message,
		revision:    revision,
	}
	if err := td.validate(); err != nil {
		return nil, err
	}
	return td, nil
}

// Parse reads a typed data document as wallets exchange it.
func Parse(revision Revision, data []byte) (*TypedData, error) {
	var doc TypedData
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, errorf("%v", err)
	}
	return New(revision, doc.Types, doc.PrimaryType, doc.Domain, doc.Message)
}

func (td *TypedData) Revision() Revision { return td.revision }

func (td *TypedData) validate() error {
	if td.revision != V0 && td.revision != V1 {
		return errorf("unknown revision %d", td.revision)
	}
	domainType := td.revision.domainType()
	if _, ok := td.Types[domainType]; !ok {
		return errorf("missing %s type for revision %s", domainType, td.revision)
	}
	for _, key := range []string{"name", "version"} {
		if _, ok := td.Domain[key]; !ok {
			return errorf("domain has no %s", key)
		}
	}
	if !td.hasChainID() {
		return errorf("domain has no chainId")
	}

	declared, hasRevision := td.Domain["revision"]
	want := int64(td.revision)
	if td.revision == V1 && !hasRevision {
		return errorf("revision 1 domains must carry revision 1")
	}
	if hasRevision {
		n, err := toBigInt(declared)
		if err != nil || !n.IsInt64() || n.Int64() != want {
			return errorf("domain revision %v contradicts revision %s", declared, td.revision)
		}
	}

	if _, ok := td.Types[td.PrimaryType]; !ok {
		return errorf("primary type %q is not defined", td.PrimaryType)
	}
	for name, fields := range td.Types {
		if td.revision == V1 {
			if basicTypes[V1][name] || presetTypes[name] != nil {
				return errorf("type %q redefines a builtin type", name)
			}
		}
		if strings.ContainsAny(name, "*(),") {
			return errorf("invalid type name %q", name)
		}
		for _, f := range fields {
			if err := td.checkField(name, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// hasChainID reports whether the domain names its chain. Legacy domains may spell the
// key chain_id.
func (td *TypedData) hasChainID() bool {
	if _, ok := td.Domain["chainId"]; ok {
		return true
	}
	_, ok := td.Domain["chain_id"]
	return ok && td.revision == V0
}

func (td *TypedData) checkField(parent string, f Field) error {
	switch f.Type {
	case "enum":
		if td.revision == V1 {
			if _, ok := td.Types[f.Contains]; !ok {
				return errorf("%s.%s: enum type %q is not defined", parent, f.Name, f.Contains)
			}
		}
		return nil
	case "merkletree":
		if f.Contains == "" || strings.HasSuffix(f.Contains, "*") {
			return errorf("%s.%s: merkletree needs a non array contains type", parent, f.Name)
		}
		return td.checkType(parent, f.Name, f.Contains)
	}
	if td.revision == V1 && isTuple(f.Type) {
		for _, part := range tupleParts(f.Type) {
			if err := td.checkType(parent, f.Name, part); err != nil {
				return err
			}
		}
		return nil
	}
	return td.checkType(parent, f.Name, f.Type)
}

func (td *TypedData) checkType(parent, field, typ string) error {
	typ = strings.TrimSuffix(typ, "*")
	if _, ok := td.lookup(typ); ok {
		return nil
	}
	// legacy documents treat unknown basic types as felts
	if td.revision == V0 || basicTypes[V1][typ] {
		return nil
	}
	return errorf("%s.%s: type %q is not defined", parent, field, typ)
}

func (td *TypedData) lookup(name string) ([]Field, bool) {
	if fields, ok := td.Types[name]; ok {
		return fields, true
	}
	if td.revision == V1 {
		fields, ok := presetTypes[name]
		return fields, ok
	}
	return nil, false
}

func isTuple(typ string) bool {
	return strings.HasPrefix(typ, "(") && strings.HasSuffix(typ, ")")
}

// tupleParts lists the member types of an enum variant, dropping the empty member of ().
func tupleParts(typ string) []string {
	var parts []string
	for _, part := range strings.Split(typ[1:len(typ)-1], ",") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

func (td *TypedData) hash(elems ...*felt.Felt) *felt.Felt {
	if td.revision == V1 {
		return crypto.PoseidonArray(elems...)
	}
	return crypto.PedersenArray(elems...)
}

// MessageHash is the hash an account signs: the prefix, the domain, the account address
// and the message.
func (td *TypedData) MessageHash(account *felt.Felt) (*felt.Felt, error) {
	domainHash, err := td.StructHash(td.revision.domainType(), td.Domain)
	if err != nil {
		return nil, err
	}
	messageHash, err := td.StructHash(td.PrimaryType, td.Message)
	if err != nil {
		return nil, err
	}
	return td.hash(messagePrefix, domainHash, account, messageHash), nil
}
