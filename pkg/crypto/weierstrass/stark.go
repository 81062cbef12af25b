package weierstrass

import (
	"math/big"
	"sync"
)

func hexInt(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("weierstrass: bad constant " + s)
	}
	return n
}

var stark = sync.OnceValue(func() *CurveParams {
	return &CurveParams{
		Name:    "STARK",
		BitSize: 252,
		A:       big.NewInt(1),
		B:       hexInt("6f21413efbe40de150e596d72f7a8c5609ad26c15c915c1f4cdfcb99cee9e89"),
		Gx:      hexInt("1ef15c18599971b7beced415a40f0c7deacfd9b0d1819e03d723d8bc943cfca"),
		Gy:      hexInt("5668060aa49730b7be4801df46ec62de53ecd11abe43a32873000c36e8dc1f"),
		N:       hexInt("800000000000010ffffffffffffffffb781126dcae7b2321e66a241adc64d2f"),
		P:       hexInt("800000000000011000000000000000000000000000000000000000000000001"),
	}
})

// Stark returns the curve Starknet signatures are made on. The parameters are shared and
// must not be modified.
func Stark() Curve {
	return stark()
}
