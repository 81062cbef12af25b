package crypto

import (
	"crypto/sha256"
	"strconv"

	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
)

const (
	poseidonWidth         = 3
	poseidonFullRounds    = 8
	poseidonPartialRounds = 83
)

// poseidonRoundKeys holds the Hades round constants. Constant i is
// sha256("Hades<i>") reduced mod p, consumed three per round.
var poseidonRoundKeys = func() [][poseidonWidth]fp.Element {
	keys := make([][poseidonWidth]fp.Element, poseidonFullRounds+poseidonPartialRounds)
	for r := range keys {
		for i := range poseidonWidth {
			sum := sha256.Sum256([]byte("Hades" + strconv.Itoa(r*poseidonWidth+i)))
			keys[r][i].SetBytes(sum[:])
		}
	}
	return keys
}()

func cube(x *fp.Element) {
	var sq fp.Element
	sq.Square(x)
	x.Mul(x, &sq)
}

// mixLayer multiplies the state by the MDS matrix
// [[3, 1, 1], [1, -1, 1], [1, 1, -2]].
func mixLayer(state *[poseidonWidth]fp.Element) {
	var t, s0, s1, s2 fp.Element
	t.Add(&state[0], &state[1]).Add(&t, &state[2])

	s0.Double(&state[0])
	s0.Add(&s0, &t)

	s1.Double(&state[1])
	s1.Sub(&t, &s1)

	s2.Double(&state[2])
	s2.Add(&s2, &state[2])
	s2.Sub(&t, &s2)

	state[0], state[1], state[2] = s0, s1, s2
}

func hadesPermutation(state *[poseidonWidth]fp.Element) {
	const halfFull = poseidonFullRounds / 2
	for r := range poseidonRoundKeys {
		for i := range state {
			state[i].Add(&state[i], &poseidonRoundKeys[r][i])
		}
		if r < halfFull || r >= halfFull+poseidonPartialRounds {
			for i := range state {
				cube(&state[i])
			}
		} else {
			cube(&state[2])
		}
		mixLayer(state)
	}
}

// Poseidon implements the [Poseidon hash] of two elements.
//
// [Poseidon hash]: https://docs.starknet.io/documentation/architecture_and_concepts/Cryptography/hash-functions/#poseidon_hash
func Poseidon(a, b *felt.Felt) *felt.Felt {
	state := [poseidonWidth]fp.Element{*a.Impl(), *b.Impl()}
	state[2].SetUint64(2)
	hadesPermutation(&state)
	return felt.NewFelt(&state[0])
}

// PoseidonArray implements [Poseidon array hashing].
//
// [Poseidon array hashing]: https://docs.starknet.io/documentation/architecture_and_concepts/Cryptography/hash-functions/#poseidon_array_hash
func PoseidonArray(elems ...*felt.Felt) *felt.Felt {
	var digest PoseidonDigest
	return digest.Update(elems...).Finish()
}

var _ Digest = (*PoseidonDigest)(nil)

// PoseidonDigest absorbs elements two at a time. Finish pads with 1, and with 0
// when the count is odd.
type PoseidonDigest struct {
	state      [poseidonWidth]fp.Element
	pending    fp.Element
	hasPending bool
}

func (d *PoseidonDigest) Update(elems ...*felt.Felt) Digest {
	for _, elem := range elems {
		if !d.hasPending {
			d.pending = *elem.Impl()
			d.hasPending = true
			continue
		}
		d.state[0].Add(&d.state[0], &d.pending)
		d.state[1].Add(&d.state[1], elem.Impl())
		hadesPermutation(&d.state)
		d.hasPending = false
	}
	return d
}

func (d *PoseidonDigest) Finish() *felt.Felt {
	state := d.state
	one := new(fp.Element).SetOne()
	if d.hasPending {
		state[0].Add(&state[0], &d.pending)
		state[1].Add(&state[1], one)
	} else {
		state[0].Add(&state[0], one)
	}
	hadesPermutation(&state)
	return felt.NewFelt(&state[0])
}
