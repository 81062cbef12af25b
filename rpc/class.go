package rpc

import (
	"encoding/json"
	"errors"

	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/NethermindEth/starkclient/utils"
)

type SierraEntryPoint struct {
	Index    uint64     `json:"function_idx"`
	Selector *felt.Felt `json:"selector"`
}

type SierraEntryPoints struct {
	Constructor []SierraEntryPoint `json:"CONSTRUCTOR"`
	External    []SierraEntryPoint `json:"EXTERNAL"`
	L1Handler   []SierraEntryPoint `json:"L1_HANDLER"`
}

// SierraClass is a Cairo 1 contract class. Its ABI travels as a JSON string.
type SierraClass struct {
	SierraProgram        []*felt.Felt      `json:"sierra_program"`
	ContractClassVersion string            `json:"contract_class_version"`
	EntryPoints          SierraEntryPoints `json:"entry_points_by_type"`
	Abi                  string            `json:"abi"`
}

type DeprecatedEntryPoint struct {
	Offset   *felt.Felt `json:"offset"`
	Selector *felt.Felt `json:"selector"`
}

type DeprecatedEntryPoints struct {
	Constructor []DeprecatedEntryPoint `json:"CONSTRUCTOR"`
	External    []DeprecatedEntryPoint `json:"EXTERNAL"`
	L1Handler   []DeprecatedEntryPoint `json:"L1_HANDLER"`
}

// DeprecatedClass is a Cairo 0 contract class. Program is the gzipped, base64 encoded
// program JSON.
type DeprecatedClass struct {
	Program     string                `json:"program"`
	EntryPoints DeprecatedEntryPoints `json:"entry_points_by_type"`
	Abi         json.RawMessage       `json:"abi,omitempty"`
}

// DecodeProgram returns the program JSON.
func (c *DeprecatedClass) DecodeProgram() ([]byte, error) {
	return utils.Gzip64Decode(c.Program)
}

// Class holds exactly one of a Sierra or a deprecated class. The presence of
// sierra_program decides which.
type Class struct {
	Sierra     *SierraClass
	Deprecated *DeprecatedClass
}

var ErrEmptyClass = errors.New("class holds neither a sierra nor a deprecated class")

// ABI returns the class ABI as JSON.
func (c *Class) ABI() []byte {
	switch {
	case c.Sierra != nil:
		return []byte(c.Sierra.Abi)
	case c.Deprecated != nil:
		return c.Deprecated.Abi
	}
	return nil
}

func (c *Class) wireParts() []any {
	if c.Sierra != nil {
		return []any{c.Sierra}
	}
	return []any{c.Deprecated}
}

func (c Class) MarshalJSON() ([]byte, error) {
	switch {
	case c.Sierra != nil:
		return json.Marshal(c.Sierra)
	case c.Deprecated != nil:
		return json.Marshal(c.Deprecated)
	}
	return nil, ErrEmptyClass
}

func (c *Class) UnmarshalJSON(data []byte) error {
	keys, err := presentKeys(data, "sierra_program", "program")
	if err != nil {
		return err
	}
	if _, sierra := keys["sierra_program"]; sierra {
		c.Sierra, c.Deprecated = new(SierraClass), nil
		return asSchemaErrorOrNil(json.Unmarshal(data, c.Sierra))
	}
	if _, deprecated := keys["program"]; deprecated {
		c.Sierra, c.Deprecated = nil, new(DeprecatedClass)
		return asSchemaErrorOrNil(json.Unmarshal(data, c.Deprecated))
	}
	return schemaErrorf("", "class has neither sierra_program nor program")
}

func asSchemaErrorOrNil(err error) error {
	if err == nil {
		return nil
	}
	return asSchemaError(err)
}
