package felt

import (
	"errors"
	"fmt"
	"strings"
)

// MaxShortStringLen is the number of ASCII characters that fit in a felt.
const MaxShortStringLen = 31

var ErrShortStringTooLong = errors.New("short string longer than 31 characters")

// FromShortString encodes an ASCII string of at most 31 characters as a big-endian felt.
func FromShortString(s string) (*Felt, error) {
	if len(s) > MaxShortStringLen {
		return nil, fmt.Errorf("%q: %w", s, ErrShortStringTooLong)
	}
	for i := range len(s) {
		if s[i] > 0x7f {
			return nil, fmt.Errorf("%q: short strings must be ASCII", s)
		}
	}
	return NewFromBytes([]byte(s)), nil
}

// ShortString decodes the felt as ASCII bytes, dropping leading zero bytes.
func (z *Felt) ShortString() string {
	b := z.Bytes()
	return strings.TrimLeft(string(b[:]), "\x00")
}

// Slice helpers used when assembling calldata.

func Ptrs(vals ...uint64) []*Felt {
	out := make([]*Felt, len(vals))
	for i, v := range vals {
		out[i] = NewFromUint64(v)
	}
	return out
}

func CloneSlice(in []*Felt) []*Felt {
	if in == nil {
		return nil
	}
	out := make([]*Felt, len(in))
	for i, f := range in {
		out[i] = f.Clone()
	}
	return out
}

func SliceEqual(a, b []*Felt) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
