package abi

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/NethermindEth/starkclient/core/crypto"
	"github.com/NethermindEth/starkclient/core/felt"
)

// EnumValue selects an enum variant by name. Value is the payload, nil for variants
// without one.
type EnumValue struct {
	Variant string
	Value   any
}

type Option struct {
	Some  bool
	Value any
}

func Some(v any) Option { return Option{Some: true, Value: v} }
func None() Option      { return Option{} }

// SelectorFromName returns the entry point selector of a function or event name.
func SelectorFromName(name string) *felt.Felt {
	if name == "__default__" || name == "__l1_default__" {
		return new(felt.Felt)
	}
	return crypto.StarknetKeccak([]byte(name))
}

func shortName(name string) string {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		return name[i+2:]
	}
	return name
}

// toFelt accepts the Go forms of a field element: felts, hex or decimal strings,
// non-negative integers and big integers below p.
func toFelt(v any) (*felt.Felt, error) {
	switch x := v.(type) {
	case *felt.Felt:
		if x == nil {
			return nil, fmt.Errorf("nil felt")
		}
		return x, nil
	case felt.Felt:
		return &x, nil
	case *felt.Address:
		return x.AsFelt(), nil
	case *felt.ClassHash:
		return x.AsFelt(), nil
	case string, *big.Int, big.Int:
		n, err := toBigInt(x)
		if err != nil {
			return nil, err
		}
		return felt.FromBigInt(n)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.Int() < 0 {
			return nil, fmt.Errorf("negative value %d", rv.Int())
		}
		return felt.NewFromUint64(uint64(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return felt.NewFromUint64(rv.Uint()), nil
	}
	return nil, fmt.Errorf("cannot use %T as a field element", v)
}

func toBigInt(v any) (*big.Int, error) {
	switch x := v.(type) {
	case *big.Int:
		if x == nil {
			return nil, fmt.Errorf("nil integer")
		}
		return x, nil
	case big.Int:
		return &x, nil
	case string:
		n, ok := new(big.Int).SetString(x, 0)
		if !ok {
			return nil, fmt.Errorf("%q is not an integer", x)
		}
		return n, nil
	case *felt.Felt, felt.Felt, *felt.Address, *felt.ClassHash:
		f, err := toFelt(x)
		if err != nil {
			return nil, err
		}
		return f.BigInt(), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return new(big.Int).SetUint64(rv.Uint()), nil
	}
	return nil, fmt.Errorf("cannot use %T as an integer", v)
}

// intRange returns the inclusive bounds of an integer type.
func intRange(bits uint16, signed bool) (lo, hi *big.Int) {
	if !signed {
		hi = new(big.Int).Lsh(big.NewInt(1), uint(bits))
		return new(big.Int), hi.Sub(hi, big.NewInt(1))
	}
	half := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	return new(big.Int).Neg(half), new(big.Int).Sub(half, big.NewInt(1))
}

func inRange(n *big.Int, bits uint16, signed bool) bool {
	lo, hi := intRange(bits, signed)
	return n.Cmp(lo) >= 0 && n.Cmp(hi) <= 0
}

// structMembers reads a struct value as a member map. Go struct fields are named by
// their abi tag or, without one, by the field name.
func structMembers(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}

	rt := rv.Type()
	m := make(map[string]any, rt.NumField())
	for i := range rt.NumField() {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag, ok := field.Tag.Lookup("abi"); ok {
			if tag == "-" {
				continue
			}
			name = tag
		}
		m[name] = rv.Field(i).Interface()
	}
	return m, true
}

func memberPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
