package crypto

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/NethermindEth/starkclient/pkg/crypto/weierstrass"
)

var (
	ErrInvalidScalar     = errors.New("private key must be in [1, N)")
	ErrInvalidPublicKey  = errors.New("not a valid public key")
	ErrSignatureRejected = errors.New("signature rejected")
)

var (
	stark      = weierstrass.Stark().Params()
	bound251   = new(big.Int).Lsh(big.NewInt(1), 251)
	bigOne     = big.NewInt(1)
	maxSignRun = 1 << 16
)

// CurveOrder returns N, the order of the Stark curve generator.
func CurveOrder() *big.Int {
	return new(big.Int).Set(stark.N)
}

// Signature is an (r, s) pair over the Stark curve.
type Signature struct {
	R felt.Felt
	S felt.Felt
}

// Felts returns the signature in the [r, s] layout accounts expect.
func (s *Signature) Felts() []*felt.Felt {
	return []*felt.Felt{s.R.Clone(), s.S.Clone()}
}

type PrivateKey struct {
	d *big.Int
}

// NewPrivateKey rejects scalars outside [1, N).
func NewPrivateKey(d *big.Int) (*PrivateKey, error) {
	if d.Sign() <= 0 || d.Cmp(stark.N) >= 0 {
		return nil, ErrInvalidScalar
	}
	return &PrivateKey{d: new(big.Int).Set(d)}, nil
}

func NewPrivateKeyFromFelt(f *felt.Felt) (*PrivateKey, error) {
	return NewPrivateKey(f.BigInt())
}

// Felt exposes the scalar. N < p so it always fits.
func (k *PrivateKey) Felt() *felt.Felt {
	var f felt.Felt
	f.SetBigInt(k.d)
	return &f
}

func (k *PrivateKey) PublicKey() *PublicKey {
	x, _ := stark.ScalarBaseMult(k.d.Bytes())
	var f felt.Felt
	f.SetBigInt(x)
	return &PublicKey{x: f}
}

// Sign produces a deterministic signature of msg, which must be below 2^251.
func (k *PrivateKey) Sign(msg *felt.Felt) (*Signature, error) {
	z := msg.BigInt()
	if z.Cmp(bound251) >= 0 {
		return nil, fmt.Errorf("%w: message %s does not fit in 251 bits", ErrSignatureRejected, msg)
	}

	var seed *big.Int
	for range maxSignRun {
		kk := generateK(stark.N, k.d, z, seed)
		if seed == nil {
			seed = big.NewInt(1)
		} else {
			seed = new(big.Int).Add(seed, bigOne)
		}

		r, _ := stark.ScalarBaseMult(kk.Bytes())
		if r.Sign() == 0 || r.Cmp(bound251) >= 0 {
			continue
		}

		// w = k / (z + r*d) mod N
		t := new(big.Int).Mul(r, k.d)
		t.Add(t, z).Mod(t, stark.N)
		if t.Sign() == 0 {
			continue
		}
		w := new(big.Int).ModInverse(t, stark.N)
		w.Mul(w, kk).Mod(w, stark.N)
		if w.Sign() == 0 || w.Cmp(bound251) >= 0 {
			continue
		}
		s := new(big.Int).ModInverse(w, stark.N)

		var sig Signature
		sig.R.SetBigInt(r)
		sig.S.SetBigInt(s)
		return &sig, nil
	}
	return nil, fmt.Errorf("%w: no valid nonce found", ErrSignatureRejected)
}

// PublicKey is the x coordinate of d·G. The matching y is recovered on demand.
type PublicKey struct {
	x felt.Felt
}

func NewPublicKey(x *felt.Felt) *PublicKey {
	return &PublicKey{x: *x}
}

func (p *PublicKey) Felt() *felt.Felt {
	return p.x.Clone()
}

func (p *PublicKey) String() string {
	return p.x.String()
}

// Verify reports whether sig is a valid signature of msg. Out of range
// components are rejected with an error; a mismatch is simply false.
func (p *PublicKey) Verify(sig *Signature, msg *felt.Felt) (bool, error) {
	x := p.x.BigInt()
	y, err := stark.Y(x)
	if err != nil {
		return false, ErrInvalidPublicKey
	}

	r, s, z := sig.R.BigInt(), sig.S.BigInt(), msg.BigInt()
	switch {
	case r.Sign() == 0 || r.Cmp(bound251) >= 0:
		return false, fmt.Errorf("%w: r out of range", ErrSignatureRejected)
	case s.Sign() == 0 || s.Cmp(stark.N) >= 0:
		return false, fmt.Errorf("%w: s out of range", ErrSignatureRejected)
	case z.Cmp(bound251) >= 0:
		return false, fmt.Errorf("%w: message does not fit in 251 bits", ErrSignatureRejected)
	}

	w := new(big.Int).ModInverse(s, stark.N)
	if w.Cmp(bound251) >= 0 {
		return false, fmt.Errorf("%w: w out of range", ErrSignatureRejected)
	}
	u1 := new(big.Int).Mul(z, w)
	u1.Mod(u1, stark.N)
	u2 := new(big.Int).Mul(r, w)
	u2.Mod(u2, stark.N)

	gx, gy := stark.ScalarBaseMult(u1.Bytes())
	for _, py := range []*big.Int{y, new(big.Int).Sub(stark.P, y)} {
		qx, qy := stark.ScalarMult(x, py, u2.Bytes())
		rx, _ := stark.Add(gx, gy, qx, qy)
		if rx.Cmp(r) == 0 {
			return true, nil
		}
	}
	return false, nil
}
