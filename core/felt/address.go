package felt

import "math/big"

// AddrBound is the exclusive upper bound of the contract address space, 2^251 - 256.
var AddrBound = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 251), big.NewInt(256))

type Address Felt

func (a *Address) AsFelt() *Felt {
	return (*Felt)(a)
}

func (a *Address) String() string {
	return (*Felt)(a).String()
}

func (a *Address) UnmarshalJSON(data []byte) error {
	return (*Felt)(a).UnmarshalJSON(data)
}

func (a Address) MarshalJSON() ([]byte, error) {
	return Felt(a).MarshalJSON()
}

func (a *Address) IsZero() bool {
	return (*Felt)(a).IsZero()
}

func (a *Address) Equal(b *Address) bool {
	return (*Felt)(a).Equal((*Felt)(b))
}

// ReduceAddress maps f into the address space.
func ReduceAddress(f *Felt) *Felt {
	v := f.BigInt()
	if v.Cmp(AddrBound) < 0 {
		return f.Clone()
	}
	return new(Felt).SetBigInt(v.Mod(v, AddrBound))
}
