package abi

import (
	"fmt"
	"math/big"

	"github.com/NethermindEth/starkclient/core/felt"
)

var halfModulus = new(big.Int).Rsh(felt.Modulus(), 1)

type decoder struct {
	codec
	data []*felt.Felt
	pos  int
}

func (d *decoder) next() (*felt.Felt, error) {
	if d.pos >= len(d.data) {
		return nil, &DecodeError{Position: d.pos, Reason: "unexpected end of data"}
	}
	f := d.data[d.pos]
	d.pos++
	return f, nil
}

// length reads an element count, which can not exceed what is left of the data.
func (d *decoder) length() (uint64, error) {
	f, err := d.next()
	if err != nil {
		return 0, err
	}
	n, ok := f.Uint64()
	if !ok || n > uint64(len(d.data)-d.pos) {
		return 0, &DecodeError{Position: d.pos - 1, Reason: fmt.Sprintf("length %s exceeds the remaining data", f)}
	}
	return n, nil
}

func (d *decoder) done() error {
	if d.pos != len(d.data) {
		return &DecodeError{Position: d.pos, Reason: fmt.Sprintf("%d elements left over", len(d.data)-d.pos)}
	}
	return nil
}

func (d *decoder) decode(t Type) (any, error) {
	switch t.Kind {
	case KindFelt, KindContractAddress, KindClassHash, KindSelector:
		return d.next()
	case KindBool:
		f, err := d.next()
		if err != nil {
			return nil, err
		}
		switch {
		case f.IsZero():
			return false, nil
		case f.IsOne():
			return true, nil
		}
		return nil, &DecodeError{Position: d.pos - 1, Reason: fmt.Sprintf("bool must be 0 or 1, got %s", f)}
	case KindInt:
		f, err := d.next()
		if err != nil {
			return nil, err
		}
		n := f.BigInt()
		if t.Signed && n.Cmp(halfModulus) > 0 {
			n.Sub(n, felt.Modulus())
		}
		if !inRange(n, t.Bits, t.Signed) {
			return nil, &DecodeError{Position: d.pos - 1, Reason: fmt.Sprintf("%s out of range for %s", f, t)}
		}
		return n, nil
	case KindUint256:
		low, err := d.next()
		if err != nil {
			return nil, err
		}
		high, err := d.next()
		if err != nil {
			return nil, err
		}
		if low.BitLen() > 128 || high.BitLen() > 128 {
			return nil, &DecodeError{Position: d.pos - 2, Reason: "u256 limb wider than 128 bits"}
		}
		n := high.BigInt()
		return n.Lsh(n, 128).Add(n, low.BigInt()), nil
	case KindByteArray:
		return d.byteArray()
	case KindUnit:
		return nil, nil
	case KindArray:
		n, err := d.length()
		if err != nil {
			return nil, err
		}
		items := make([]any, 0, n)
		for range n {
			item, err := d.decode(*t.Elem)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	case KindTuple:
		items := make([]any, 0, len(t.Elems))
		for _, elem := range t.Elems {
			item, err := d.decode(elem)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	case KindOption:
		tag, err := d.next()
		if err != nil {
			return nil, err
		}
		switch {
		case tag.IsZero():
			return None(), nil
		case tag.IsOne():
			v, err := d.decode(*t.Elem)
			if err != nil {
				return nil, err
			}
			return Some(v), nil
		}
		return nil, &DecodeError{Position: d.pos - 1, Reason: fmt.Sprintf("option tag must be 0 or 1, got %s", tag)}
	case KindStruct:
		def, err := d.def(t)
		if err != nil {
			return nil, err
		}
		out := make(map[string]any, len(def.Members))
		for _, m := range def.Members {
			if out[m.Name], err = d.decode(m.Type); err != nil {
				return nil, err
			}
		}
		return out, nil
	case KindEnum:
		def, err := d.def(t)
		if err != nil {
			return nil, err
		}
		f, err := d.next()
		if err != nil {
			return nil, err
		}
		idx, ok := f.Uint64()
		if !ok || idx >= uint64(len(def.Members)) {
			return nil, &DecodeError{Position: d.pos - 1, Reason: fmt.Sprintf("%s has no variant %s", t.Name, f)}
		}
		variant := def.Members[idx]
		v, err := d.decode(variant.Type)
		if err != nil {
			return nil, err
		}
		return EnumValue{Variant: variant.Name, Value: v}, nil
	}
	return nil, &DecodeError{Position: d.pos, Reason: fmt.Sprintf("unsupported type %s", t)}
}
