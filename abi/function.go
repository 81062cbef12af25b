package abi

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/mitchellh/mapstructure"
)

// EncodeCalldata encodes positional arguments.
func (f *Function) EncodeCalldata(args ...any) ([]*felt.Felt, error) {
	if len(args) != len(f.Inputs) {
		return nil, &EncodeError{Reason: fmt.Sprintf("%s takes %d arguments, got %d", f.Name, len(f.Inputs), len(args))}
	}
	c := codec{types: f.types}
	out := make([]*felt.Felt, 0, len(args))
	var err error
	for i, in := range f.Inputs {
		if out, err = c.encode(in.Type, args[i], in.Name, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// EncodeCalldataMap encodes arguments given by parameter name.
func (f *Function) EncodeCalldataMap(args map[string]any) ([]*felt.Felt, error) {
	positional := make([]any, len(f.Inputs))
	for i, in := range f.Inputs {
		v, ok := args[in.Name]
		if !ok {
			return nil, &EncodeError{Field: in.Name, Reason: "missing argument"}
		}
		positional[i] = v
	}
	if len(args) != len(f.Inputs) {
		for name := range args {
			if !f.hasInput(name) {
				return nil, &EncodeError{Field: name, Reason: fmt.Sprintf("%s has no such parameter", f.Name)}
			}
		}
	}
	return f.EncodeCalldata(positional...)
}

// EncodeCalldataStruct encodes arguments held by a map or a Go struct, the struct fields
// named by their abi tag.
func (f *Function) EncodeCalldataStruct(args any) ([]*felt.Felt, error) {
	named, ok := structMembers(args)
	if !ok {
		return nil, &EncodeError{Reason: fmt.Sprintf("%s arguments must be a map or struct, got %T", f.Name, args)}
	}
	return f.EncodeCalldataMap(named)
}

func (f *Function) hasInput(name string) bool {
	for _, in := range f.Inputs {
		if in.Name == name {
			return true
		}
	}
	return false
}

// DecodeOutput decodes a call result. Named legacy outputs come back as a map keyed by
// output name, anything else as a positional slice.
func (f *Function) DecodeOutput(data []*felt.Felt) (any, error) {
	d := &decoder{codec: codec{types: f.types}, data: data}
	named := f.legacy && len(f.Outputs) > 0
	for _, out := range f.Outputs {
		named = named && out.Name != ""
	}

	var result any
	if named {
		m := make(map[string]any, len(f.Outputs))
		for _, out := range f.Outputs {
			v, err := d.decode(out.Type)
			if err != nil {
				return nil, err
			}
			m[out.Name] = v
		}
		result = m
	} else {
		values := make([]any, 0, len(f.Outputs))
		for _, out := range f.Outputs {
			v, err := d.decode(out.Type)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		result = values
	}
	if err := d.done(); err != nil {
		return nil, err
	}
	return result, nil
}

// DecodeOutputInto decodes a call result into a Go value. A single output is decoded
// into out directly, several into a slice or struct.
func (f *Function) DecodeOutputInto(data []*felt.Felt, out any) error {
	v, err := f.DecodeOutput(data)
	if err != nil {
		return err
	}
	if values, ok := v.([]any); ok && len(values) == 1 {
		v = values[0]
	}
	return Assign(v, out)
}

// Encode encodes a single value of type t.
func (a *Abi) Encode(t Type, v any) ([]*felt.Felt, error) {
	return codec{types: a.Types}.encode(t, v, "", nil)
}

// Decode decodes data as a single value of type t, which must consume all of it.
func (a *Abi) Decode(t Type, data []*felt.Felt) (any, error) {
	d := &decoder{codec: codec{types: a.Types}, data: data}
	v, err := d.decode(t)
	if err != nil {
		return nil, err
	}
	return v, d.done()
}

var (
	bigIntType = reflect.TypeFor[*big.Int]()
	feltType   = reflect.TypeFor[*felt.Felt]()
)

// Assign copies a decoded value into out, which must be a pointer. Struct fields are
// matched by their abi tag, integers are narrowed with overflow checks.
func Assign(decoded, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "abi",
		Result:     out,
		DecodeHook: numberHook,
	})
	if err != nil {
		return err
	}
	return dec.Decode(decoded)
}

func numberHook(_, to reflect.Type, data any) (any, error) {
	var n *big.Int
	switch x := data.(type) {
	case *big.Int:
		n = x
	case *felt.Felt:
		if to == feltType {
			return x, nil
		}
		n = x.BigInt()
	default:
		return data, nil
	}

	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !n.IsInt64() || reflect.Zero(to).OverflowInt(n.Int64()) {
			return nil, fmt.Errorf("%s overflows %s", n, to)
		}
		v := reflect.New(to).Elem()
		v.SetInt(n.Int64())
		return v.Interface(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if !n.IsUint64() || reflect.Zero(to).OverflowUint(n.Uint64()) {
			return nil, fmt.Errorf("%s overflows %s", n, to)
		}
		v := reflect.New(to).Elem()
		v.SetUint(n.Uint64())
		return v.Interface(), nil
	case reflect.String:
		return "0x" + n.Text(16), nil
	}
	switch to {
	case feltType:
		return felt.FromBigInt(n)
	case bigIntType:
		return n, nil
	}
	return data, nil
}
