package uint128

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/NethermindEth/starkclient/core/felt"
)

var ErrOutOfRange = errors.New("value does not fit in 128 bits")

// Int is an unsigned 128-bit integer stored as [lo, hi] words.
type Int [2]uint64

var maxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

func New(hi, lo uint64) Int {
	return Int{lo, hi}
}

func FromUint64(v uint64) Int {
	return Int{v, 0}
}

func FromBig(v *big.Int) (Int, error) {
	if v.Sign() < 0 || v.Cmp(maxU128) > 0 {
		return Int{}, fmt.Errorf("%s: %w", v.String(), ErrOutOfRange)
	}
	var b [16]byte
	v.FillBytes(b[:])
	return Int{binary.BigEndian.Uint64(b[8:]), binary.BigEndian.Uint64(b[:8])}, nil
}

// FromFelt fails when f is not below 2^128.
func FromFelt(f *felt.Felt) (Int, error) {
	return FromBig(f.BigInt())
}

func (u *Int) Hi() uint64 { return u[1] }
func (u *Int) Lo() uint64 { return u[0] }

// Bytes returns the 16 byte big-endian representation
func (u *Int) Bytes() []byte {
	b := make([]byte, 16)
	binary.BigEndian.PutUint64(b[:8], u[1])
	binary.BigEndian.PutUint64(b[8:], u[0])
	return b
}

func (u *Int) BigInt() *big.Int {
	return new(big.Int).SetBytes(u.Bytes())
}

func (u *Int) Felt() *felt.Felt {
	return felt.NewFromBytes(u.Bytes())
}

func (u *Int) IsZero() bool {
	return u[0] == 0 && u[1] == 0
}

func (u *Int) Equal(o *Int) bool {
	if u == nil || o == nil {
		return u == o
	}
	return *u == *o
}

// SetString parses a 0x-prefixed hex string.
func (u *Int) SetString(s string) (*Int, error) {
	digits, ok := strings.CutPrefix(s, "0x")
	if !ok || digits == "" {
		return nil, fmt.Errorf("invalid u128 %q: expected 0x-prefixed hex", s)
	}
	v, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, fmt.Errorf("invalid u128 %q: not hex", s)
	}
	parsed, err := FromBig(v)
	if err != nil {
		return nil, err
	}
	*u = parsed
	return u, nil
}

// String returns lowercase 0x-prefixed hex without zero padding.
func (u Int) String() string {
	if u[1] == 0 {
		return fmt.Sprintf("0x%x", u[0])
	}
	return fmt.Sprintf("0x%x%016x", u[1], u[0])
}

func (u Int) MarshalJSON() ([]byte, error) {
	return []byte(`"` + u.String() + `"`), nil
}

func (u *Int) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid u128 %s: expected a quoted hex string", s)
	}
	_, err := u.SetString(s[1 : len(s)-1])
	return err
}
