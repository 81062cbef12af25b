package felt

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
)

const (
	Limbs = fp.Limbs // number of 64 bits words needed to represent a Element
	Bits  = fp.Bits  // number of bits needed to represent a Element
	Bytes = fp.Bytes // number of bytes needed to represent a Element
)

var ErrInvalidFelt = errors.New("invalid felt")

// InvalidFeltError carries the rejected input of a hex or JSON parse.
type InvalidFeltError struct {
	Input  string
	Reason string
}

func (e *InvalidFeltError) Error() string {
	return fmt.Sprintf("invalid felt %q: %s", e.Input, e.Reason)
}

func (e *InvalidFeltError) Unwrap() error {
	return ErrInvalidFelt
}

// Felt is an element of the Stark field, always reduced mod p.
type Felt struct {
	val fp.Element
}

var (
	// Zero felt constant
	Zero = Felt{}
	// One felt constant
	One = FromUint64(1)
)

// Modulus returns p as a big.Int.
func Modulus() *big.Int {
	return fp.Modulus()
}

func New(element fp.Element) Felt {
	return Felt{val: element}
}

func NewFelt(element *fp.Element) *Felt {
	return &Felt{val: *element}
}

func FromUint64(v uint64) Felt {
	var f Felt
	f.val.SetUint64(v)
	return f
}

func NewFromUint64(v uint64) *Felt {
	f := FromUint64(v)
	return &f
}

// FromBytes interprets b as a big-endian integer and reduces it mod p.
func FromBytes(b []byte) Felt {
	var f Felt
	f.val.SetBytes(b)
	return f
}

func NewFromBytes(b []byte) *Felt {
	f := FromBytes(b)
	return &f
}

// FromBigInt returns an error for negative values and values not below p.
func FromBigInt(v *big.Int) (*Felt, error) {
	if v.Sign() < 0 || v.Cmp(fp.Modulus()) >= 0 {
		return nil, &InvalidFeltError{Input: v.String(), Reason: "out of range"}
	}
	var f Felt
	f.val.SetBigInt(v)
	return &f, nil
}

// FromHex parses a hex string with a lower case 0x prefix. Digits may be of either case.
// Values that do not fit below p are rejected instead of being reduced.
func FromHex(s string) (*Felt, error) {
	digits, ok := strings.CutPrefix(s, "0x")
	if !ok {
		return nil, &InvalidFeltError{Input: s, Reason: "missing 0x prefix"}
	}
	if digits == "" {
		return nil, &InvalidFeltError{Input: s, Reason: "no digits"}
	}
	digits = strings.TrimLeft(digits, "0")
	if len(digits) > 2*Bytes {
		return nil, &InvalidFeltError{Input: s, Reason: "too long"}
	}
	if len(digits)%2 == 1 {
		digits = "0" + digits
	}
	raw, err := hex.DecodeString(digits)
	if err != nil {
		return nil, &InvalidFeltError{Input: s, Reason: "not hex"}
	}
	var f Felt
	if err := f.val.SetBytesCanonical(leftPad(raw)); err != nil {
		return nil, &InvalidFeltError{Input: s, Reason: "not below the field modulus"}
	}
	return &f, nil
}

// UnsafeFromString parses a hex string and panics on failure. Only meant for constants
// and tests.
func UnsafeFromString(s string) *Felt {
	f, err := FromHex(s)
	if err != nil {
		panic(err)
	}
	return f
}

func leftPad(b []byte) []byte {
	if len(b) == Bytes {
		return b
	}
	out := make([]byte, Bytes)
	copy(out[Bytes-len(b):], b)
	return out
}

// Impl returns the underlying field element type
func (z *Felt) Impl() *fp.Element {
	return &z.val
}

// UnmarshalJSON accepts quoted 0x-prefixed hex strings.
func (z *Felt) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return &InvalidFeltError{Input: s, Reason: "expected a quoted hex string"}
	}
	f, err := FromHex(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*z = *f
	return nil
}

// MarshalJSON emits the canonical hex string
func (z Felt) MarshalJSON() ([]byte, error) {
	return []byte(`"` + z.String() + `"`), nil
}

func (z *Felt) UnmarshalText(text []byte) error {
	f, err := FromHex(string(text))
	if err != nil {
		return err
	}
	*z = *f
	return nil
}

func (z Felt) MarshalText() ([]byte, error) {
	return []byte(z.String()), nil
}

// SetBytes forwards the call to underlying field element implementation
func (z *Felt) SetBytes(e []byte) *Felt {
	z.val.SetBytes(e)
	return z
}

// SetUint64 forwards the call to underlying field element implementation
func (z *Felt) SetUint64(v uint64) *Felt {
	z.val.SetUint64(v)
	return z
}

// SetBigInt reduces v mod p.
func (z *Felt) SetBigInt(v *big.Int) *Felt {
	z.val.SetBigInt(v)
	return z
}

// SetRandom forwards the call to underlying field element implementation
func (z *Felt) SetRandom() (*Felt, error) {
	_, err := z.val.SetRandom()
	return z, err
}

// String returns the lowercase 0x-prefixed hex without zero padding.
func (z *Felt) String() string {
	return "0x" + z.val.Text(16)
}

// Text forwards the call to underlying field element implementation
func (z *Felt) Text(base int) string {
	return z.val.Text(base)
}

// Equal forwards the call to underlying field element implementation
func (z *Felt) Equal(x *Felt) bool {
	return z.val.Equal(&x.val)
}

// Bytes returns the big-endian 32 byte representation
func (z *Felt) Bytes() [32]byte {
	return z.val.Bytes()
}

// BigInt returns the integer value in [0, p)
func (z *Felt) BigInt() *big.Int {
	return z.val.BigInt(new(big.Int))
}

// Uint64 returns the value and whether it fits in 64 bits.
func (z *Felt) Uint64() (uint64, bool) {
	if !z.val.IsUint64() {
		return 0, false
	}
	return z.val.Uint64(), true
}

// BitLen is the number of significant bits of the integer value.
func (z *Felt) BitLen() int {
	return z.BigInt().BitLen()
}

// IsOne forwards the call to underlying field element implementation
func (z *Felt) IsOne() bool {
	return z.val.IsOne()
}

// IsZero forwards the call to underlying field element implementation
func (z *Felt) IsZero() bool {
	return z.val.IsZero()
}

// Bit forwards the call to underlying field element implementation
func (z *Felt) Bit(i uint64) uint64 {
	return z.val.Bit(i)
}

// Add forwards the call to underlying field element implementation
func (z *Felt) Add(x, y *Felt) *Felt {
	z.val.Add(&x.val, &y.val)
	return z
}

// Sub forwards the call to underlying field element implementation
func (z *Felt) Sub(x, y *Felt) *Felt {
	z.val.Sub(&x.val, &y.val)
	return z
}

// Mul forwards the call to underlying field element implementation
func (z *Felt) Mul(x, y *Felt) *Felt {
	z.val.Mul(&x.val, &y.val)
	return z
}

// Div sets z to x * y⁻¹. Division by zero yields zero, as in the underlying field.
func (z *Felt) Div(x, y *Felt) *Felt {
	z.val.Div(&x.val, &y.val)
	return z
}

// Inverse forwards the call to underlying field element implementation
func (z *Felt) Inverse(x *Felt) *Felt {
	z.val.Inverse(&x.val)
	return z
}

// Exp sets z to x**k
func (z *Felt) Exp(x *Felt, k *big.Int) *Felt {
	z.val.Exp(x.val, k)
	return z
}

// Neg forwards the call to underlying field element implementation
func (z *Felt) Neg(x *Felt) *Felt {
	z.val.Neg(&x.val)
	return z
}

// Cmp forwards the call to underlying field element implementation
func (z *Felt) Cmp(x *Felt) int {
	return z.val.Cmp(&x.val)
}

// Clone returns a heap copy.
func (z *Felt) Clone() *Felt {
	c := *z
	return &c
}
