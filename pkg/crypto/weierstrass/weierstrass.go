// Package weierstrass implements short Weierstrass curves y² = x³ + ax + b over prime
// fields, with the point at infinity represented as (0, 0).
package weierstrass

import (
	"errors"
	"math/big"
)

// Curve is a short Weierstrass curve.
type Curve interface {
	// Params returns the parameters for the curve.
	Params() *CurveParams
	// IsOnCurve reports whether the given (x,y) lies on the curve.
	IsOnCurve(x, y *big.Int) bool
	// Add returns the sum of (x1,y1) and (x2,y2)
	Add(x1, y1, x2, y2 *big.Int) (x, y *big.Int)
	// Double returns 2*(x,y)
	Double(x1, y1 *big.Int) (x, y *big.Int)
	// ScalarMult returns k*(Bx,By) where k is a number in big-endian form.
	ScalarMult(x1, y1 *big.Int, k []byte) (x, y *big.Int)
	// ScalarBaseMult returns k*G, where G is the base point of the group
	// and k is an integer in big-endian form.
	ScalarBaseMult(k []byte) (x, y *big.Int)
}

// CurveParams contains the parameters of a short Weierstrass curve.
type CurveParams struct {
	P       *big.Int // the order of the underlying field
	N       *big.Int // the order of the base point
	A       *big.Int // the linear coefficient of the curve equation
	B       *big.Int // the constant of the curve equation
	Gx, Gy  *big.Int // (x,y) of the base point
	BitSize int      // the size of the underlying field
	Name    string   // the canonical name of the curve
}

var ErrNotOnCurve = errors.New("point is not on the curve")

func (curve *CurveParams) Params() *CurveParams {
	return curve
}

// short returns x³ + ax + b mod p.
func (curve *CurveParams) short(x *big.Int) *big.Int {
	x3 := new(big.Int).Mul(x, x)
	x3.Mul(x3, x)

	ax := new(big.Int).Mul(curve.A, x)
	x3.Add(x3, ax)
	x3.Add(x3, curve.B)
	x3.Mod(x3, curve.P)
	return x3
}

// Y returns one of the two y coordinates matching x, or an error when x is not the
// abscissa of a curve point.
func (curve *CurveParams) Y(x *big.Int) (*big.Int, error) {
	if x.Sign() < 0 || x.Cmp(curve.P) >= 0 {
		return nil, ErrNotOnCurve
	}
	y := new(big.Int).ModSqrt(curve.short(x), curve.P)
	if y == nil {
		return nil, ErrNotOnCurve
	}
	return y, nil
}

func (curve *CurveParams) IsOnCurve(x, y *big.Int) bool {
	if x.Sign() < 0 || x.Cmp(curve.P) >= 0 ||
		y.Sign() < 0 || y.Cmp(curve.P) >= 0 {
		return false
	}

	y2 := new(big.Int).Mul(y, y)
	y2.Mod(y2, curve.P)
	return curve.short(x).Cmp(y2) == 0
}

// zForAffine returns a Jacobian Z value for the affine point (x, y). If x and y are
// zero, it assumes that they represent the point at infinity.
func zForAffine(x, y *big.Int) *big.Int {
	z := new(big.Int)
	if x.Sign() != 0 || y.Sign() != 0 {
		z.SetInt64(1)
	}
	return z
}

// affineFromJacobian reverses the Jacobian transform.
func (curve *CurveParams) affineFromJacobian(x, y, z *big.Int) (xOut, yOut *big.Int) {
	if z.Sign() == 0 {
		return new(big.Int), new(big.Int)
	}

	zinv := new(big.Int).ModInverse(z, curve.P)
	zinvsq := new(big.Int).Mul(zinv, zinv)

	xOut = new(big.Int).Mul(x, zinvsq)
	xOut.Mod(xOut, curve.P)
	zinvsq.Mul(zinvsq, zinv)
	yOut = new(big.Int).Mul(y, zinvsq)
	yOut.Mod(yOut, curve.P)
	return xOut, yOut
}

func (curve *CurveParams) Add(x1, y1, x2, y2 *big.Int) (*big.Int, *big.Int) {
	z1 := zForAffine(x1, y1)
	z2 := zForAffine(x2, y2)
	return curve.affineFromJacobian(curve.addJacobian(x1, y1, z1, x2, y2, z2))
}

// addJacobian takes two points in Jacobian coordinates and returns their sum.
func (curve *CurveParams) addJacobian(x1, y1, z1, x2, y2, z2 *big.Int) (*big.Int, *big.Int, *big.Int) {
	if z1.Sign() == 0 {
		return new(big.Int).Set(x2), new(big.Int).Set(y2), new(big.Int).Set(z2)
	}
	if z2.Sign() == 0 {
		return new(big.Int).Set(x1), new(big.Int).Set(y1), new(big.Int).Set(z1)
	}
	p := curve.P

	z1z1 := new(big.Int).Mul(z1, z1)
	z1z1.Mod(z1z1, p)
	z2z2 := new(big.Int).Mul(z2, z2)
	z2z2.Mod(z2z2, p)

	u1 := new(big.Int).Mul(x1, z2z2)
	u1.Mod(u1, p)
	u2 := new(big.Int).Mul(x2, z1z1)
	u2.Mod(u2, p)

	s1 := new(big.Int).Mul(y1, z2)
	s1.Mul(s1, z2z2)
	s1.Mod(s1, p)
	s2 := new(big.Int).Mul(y2, z1)
	s2.Mul(s2, z1z1)
	s2.Mod(s2, p)

	h := new(big.Int).Sub(u2, u1)
	h.Mod(h, p)
	r := new(big.Int).Sub(s2, s1)
	r.Mod(r, p)

	if h.Sign() == 0 {
		if r.Sign() == 0 {
			return curve.doubleJacobian(x1, y1, z1)
		}
		return new(big.Int), new(big.Int), new(big.Int)
	}

	hh := new(big.Int).Mul(h, h)
	hh.Mod(hh, p)
	hhh := new(big.Int).Mul(h, hh)
	hhh.Mod(hhh, p)
	v := new(big.Int).Mul(u1, hh)
	v.Mod(v, p)

	x3 := new(big.Int).Mul(r, r)
	x3.Sub(x3, hhh)
	x3.Sub(x3, v)
	x3.Sub(x3, v)
	x3.Mod(x3, p)

	y3 := new(big.Int).Sub(v, x3)
	y3.Mul(y3, r)
	s1.Mul(s1, hhh)
	y3.Sub(y3, s1)
	y3.Mod(y3, p)

	z3 := new(big.Int).Mul(z1, z2)
	z3.Mul(z3, h)
	z3.Mod(z3, p)

	return x3, y3, z3
}

func (curve *CurveParams) Double(x1, y1 *big.Int) (*big.Int, *big.Int) {
	z1 := zForAffine(x1, y1)
	return curve.affineFromJacobian(curve.doubleJacobian(x1, y1, z1))
}

// doubleJacobian takes a point in Jacobian coordinates, (x, y, z), and returns its
// double. It works for any a.
func (curve *CurveParams) doubleJacobian(x, y, z *big.Int) (*big.Int, *big.Int, *big.Int) {
	if z.Sign() == 0 || y.Sign() == 0 {
		return new(big.Int), new(big.Int), new(big.Int)
	}
	p := curve.P

	xx := new(big.Int).Mul(x, x)
	xx.Mod(xx, p)
	yy := new(big.Int).Mul(y, y)
	yy.Mod(yy, p)
	yyyy := new(big.Int).Mul(yy, yy)
	yyyy.Mod(yyyy, p)
	zz := new(big.Int).Mul(z, z)
	zz.Mod(zz, p)

	// s = 4·x·yy
	s := new(big.Int).Mul(x, yy)
	s.Lsh(s, 2)
	s.Mod(s, p)

	// m = 3·xx + a·zz²
	m := new(big.Int).Mul(xx, big.NewInt(3))
	azz := new(big.Int).Mul(zz, zz)
	azz.Mul(azz, curve.A)
	m.Add(m, azz)
	m.Mod(m, p)

	x3 := new(big.Int).Mul(m, m)
	x3.Sub(x3, s)
	x3.Sub(x3, s)
	x3.Mod(x3, p)

	y3 := new(big.Int).Sub(s, x3)
	y3.Mul(y3, m)
	yyyy.Lsh(yyyy, 3)
	y3.Sub(y3, yyyy)
	y3.Mod(y3, p)

	z3 := new(big.Int).Mul(y, z)
	z3.Lsh(z3, 1)
	z3.Mod(z3, p)

	return x3, y3, z3
}

func (curve *CurveParams) ScalarMult(bx, by *big.Int, k []byte) (*big.Int, *big.Int) {
	bz := zForAffine(bx, by)
	x, y, z := new(big.Int), new(big.Int), new(big.Int)

	for _, b := range k {
		for range 8 {
			x, y, z = curve.doubleJacobian(x, y, z)
			if b&0x80 == 0x80 {
				x, y, z = curve.addJacobian(bx, by, bz, x, y, z)
			}
			b <<= 1
		}
	}

	return curve.affineFromJacobian(x, y, z)
}

func (curve *CurveParams) ScalarBaseMult(k []byte) (*big.Int, *big.Int) {
	return curve.ScalarMult(curve.Gx, curve.Gy, k)
}
