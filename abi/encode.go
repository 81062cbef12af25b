package abi

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/NethermindEth/starkclient/core/felt"
)

var two128 = new(big.Int).Lsh(big.NewInt(1), 128)

type codec struct {
	types map[string]*TypeDef
}

func (c codec) def(t Type) (*TypeDef, error) {
	d, ok := c.types[t.Name]
	if !ok || d.Kind != t.Kind {
		return nil, &TypeNotFoundError{Name: t.Name}
	}
	return d, nil
}

// encode appends the encoding of v as t to out.
func (c codec) encode(t Type, v any, path string, out []*felt.Felt) ([]*felt.Felt, error) {
	fail := func(format string, args ...any) ([]*felt.Felt, error) {
		return nil, &EncodeError{Field: path, Reason: fmt.Sprintf(format, args...)}
	}

	switch t.Kind {
	case KindFelt, KindContractAddress, KindClassHash:
		f, err := toFelt(v)
		if err != nil {
			return fail("%v", err)
		}
		return append(out, f), nil
	case KindSelector:
		if name, ok := v.(string); ok && !strings.HasPrefix(name, "0x") {
			return append(out, SelectorFromName(name)), nil
		}
		f, err := toFelt(v)
		if err != nil {
			return fail("%v", err)
		}
		return append(out, f), nil
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return fail("expected bool, got %T", v)
		}
		if b {
			return append(out, felt.NewFromUint64(1)), nil
		}
		return append(out, new(felt.Felt)), nil
	case KindInt:
		n, err := toBigInt(v)
		if err != nil {
			return fail("%v", err)
		}
		if !inRange(n, t.Bits, t.Signed) {
			return fail("%s out of range for %s", n, t)
		}
		// negative values wrap around the field modulus
		return append(out, new(felt.Felt).SetBigInt(n)), nil
	case KindUint256:
		n, err := toBigInt(v)
		if err != nil {
			return fail("%v", err)
		}
		if !inRange(n, 256, false) {
			return fail("%s out of range for u256", n)
		}
		low := new(big.Int).Mod(n, two128)
		high := new(big.Int).Rsh(n, 128)
		return append(out, new(felt.Felt).SetBigInt(low), new(felt.Felt).SetBigInt(high)), nil
	case KindByteArray:
		switch s := v.(type) {
		case string:
			return append(out, EncodeByteArray([]byte(s))...), nil
		case []byte:
			return append(out, EncodeByteArray(s)...), nil
		}
		return fail("expected string, got %T", v)
	case KindUnit:
		if v != nil && v != (struct{}{}) {
			return fail("unit takes no value, got %T", v)
		}
		return out, nil
	case KindArray:
		if v == nil {
			return append(out, new(felt.Felt)), nil
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return fail("expected a slice, got %T", v)
		}
		out = append(out, felt.NewFromUint64(uint64(rv.Len())))
		var err error
		for i := range rv.Len() {
			if out, err = c.encode(*t.Elem, rv.Index(i).Interface(), path+"["+strconv.Itoa(i)+"]", out); err != nil {
				return nil, err
			}
		}
		return out, nil
	case KindTuple:
		return c.encodeTuple(t, v, path, out)
	case KindOption:
		var opt Option
		switch o := v.(type) {
		case nil:
		case Option:
			opt = o
		case *Option:
			if o != nil {
				opt = *o
			}
		default:
			return fail("expected abi.Option, got %T", v)
		}
		if !opt.Some {
			return append(out, new(felt.Felt)), nil
		}
		return c.encode(*t.Elem, opt.Value, path, append(out, felt.NewFromUint64(1)))
	case KindStruct:
		d, err := c.def(t)
		if err != nil {
			return nil, err
		}
		members, ok := structMembers(v)
		if !ok {
			return fail("expected a map or struct for %s, got %T", t.Name, v)
		}
		for name := range members {
			if _, known := d.member(name); !known {
				return fail("%s has no member %q", t.Name, name)
			}
		}
		for _, m := range d.Members {
			mv, ok := members[m.Name]
			if !ok {
				return nil, &EncodeError{Field: memberPath(path, m.Name), Reason: "missing member of " + t.Name}
			}
			if out, err = c.encode(m.Type, mv, memberPath(path, m.Name), out); err != nil {
				return nil, err
			}
		}
		return out, nil
	case KindEnum:
		d, err := c.def(t)
		if err != nil {
			return nil, err
		}
		var ev EnumValue
		switch e := v.(type) {
		case EnumValue:
			ev = e
		case *EnumValue:
			if e == nil {
				return fail("nil enum value")
			}
			ev = *e
		default:
			return fail("expected abi.EnumValue for %s, got %T", t.Name, v)
		}
		idx, ok := d.member(ev.Variant)
		if !ok {
			return fail("%s has no variant %q", t.Name, ev.Variant)
		}
		out = append(out, felt.NewFromUint64(uint64(idx)))
		return c.encode(d.Members[idx].Type, ev.Value, memberPath(path, ev.Variant), out)
	}
	return fail("unsupported type %s", t)
}

func (c codec) encodeTuple(t Type, v any, path string, out []*felt.Felt) ([]*felt.Felt, error) {
	if m, ok := v.(map[string]any); ok && len(t.Names) == len(t.Elems) && len(t.Names) > 0 {
		items := make([]any, len(t.Names))
		for i, name := range t.Names {
			item, found := m[name]
			if !found {
				return nil, &EncodeError{Field: path, Reason: fmt.Sprintf("missing tuple member %q", name)}
			}
			items[i] = item
		}
		v = items
	}

	rv := reflect.ValueOf(v)
	if v == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, &EncodeError{Field: path, Reason: fmt.Sprintf("expected a slice for %s, got %T", t, v)}
	}
	if rv.Len() != len(t.Elems) {
		return nil, &EncodeError{Field: path, Reason: fmt.Sprintf("%s has %d members, got %d", t, len(t.Elems), rv.Len())}
	}
	var err error
	for i, elem := range t.Elems {
		name := strconv.Itoa(i)
		if i < len(t.Names) {
			name = t.Names[i]
		}
		if out, err = c.encode(elem, rv.Index(i).Interface(), memberPath(path, name), out); err != nil {
			return nil, err
		}
	}
	return out, nil
}
