package abi

import (
	"strconv"
	"strings"
)

type Kind uint8

const (
	KindFelt Kind = iota + 1
	KindBool
	KindInt
	KindUint256
	KindContractAddress
	KindClassHash
	KindSelector
	KindByteArray
	KindUnit
	KindArray
	KindTuple
	KindOption
	KindStruct
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindFelt:
		return "felt"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint256:
		return "u256"
	case KindContractAddress:
		return "ContractAddress"
	case KindClassHash:
		return "ClassHash"
	case KindSelector:
		return "selector"
	case KindByteArray:
		return "ByteArray"
	case KindUnit:
		return "()"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	case KindOption:
		return "option"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	default:
		return "<unknown>"
	}
}

// Type is a node of the ABI type tree. Which fields are meaningful depends on Kind.
// Struct and Enum types are references into Abi.Types by Name.
type Type struct {
	Kind   Kind
	Bits   uint16 // KindInt
	Signed bool   // KindInt
	Elem   *Type  // KindArray, KindOption
	Elems  []Type // KindTuple
	// Names is set for named legacy tuples such as (x: felt, y: felt).
	Names []string
	Name  string // KindStruct, KindEnum
}

var (
	Felt            = Type{Kind: KindFelt}
	Bool            = Type{Kind: KindBool}
	Uint256         = Type{Kind: KindUint256}
	ContractAddress = Type{Kind: KindContractAddress}
	ClassHash       = Type{Kind: KindClassHash}
	Selector        = Type{Kind: KindSelector}
	ByteArray       = Type{Kind: KindByteArray}
	Unit            = Type{Kind: KindUnit}
)

func Uint(bits uint16) Type { return Type{Kind: KindInt, Bits: bits} }
func Int(bits uint16) Type  { return Type{Kind: KindInt, Bits: bits, Signed: true} }

func ArrayOf(elem Type) Type {
	return Type{Kind: KindArray, Elem: &elem}
}

func OptionOf(elem Type) Type {
	return Type{Kind: KindOption, Elem: &elem}
}

func TupleOf(elems ...Type) Type {
	return Type{Kind: KindTuple, Elems: elems}
}

func StructRef(name string) Type { return Type{Kind: KindStruct, Name: name} }
func EnumRef(name string) Type   { return Type{Kind: KindEnum, Name: name} }

// String renders the type in Cairo 1 notation.
func (t Type) String() string {
	switch t.Kind {
	case KindInt:
		prefix := "u"
		if t.Signed {
			prefix = "i"
		}
		return prefix + strconv.Itoa(int(t.Bits))
	case KindArray:
		return "Array<" + t.Elem.String() + ">"
	case KindOption:
		return "Option<" + t.Elem.String() + ">"
	case KindTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
			if i < len(t.Names) {
				parts[i] = t.Names[i] + ": " + parts[i]
			}
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindStruct, KindEnum:
		return t.Name
	default:
		return t.Kind.String()
	}
}
