package crypto

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/tyler-smith/go-bip39"
)

// Flavor selects the wallet derivation scheme used to turn a mnemonic into a Stark key.
type Flavor uint8

const (
	FlavorArgent Flavor = iota
	FlavorBraavos
)

func (f Flavor) String() string {
	switch f {
	case FlavorArgent:
		return "argent"
	case FlavorBraavos:
		return "braavos"
	default:
		return fmt.Sprintf("flavor(%d)", uint8(f))
	}
}

var ErrUnknownFlavor = errors.New("unknown key derivation flavor")

var (
	ethereumPath = []uint32{
		hdkeychain.HardenedKeyStart + 44,
		hdkeychain.HardenedKeyStart + 60,
		hdkeychain.HardenedKeyStart,
		0,
		0,
	}
	starknetPrefix = []uint32{
		hdkeychain.HardenedKeyStart + 44,
		hdkeychain.HardenedKeyStart + 9004,
		hdkeychain.HardenedKeyStart,
		0,
	}
)

// GrindKey maps arbitrary key material to a scalar in [0, N) without modulo bias. Digests
// of seed||index are tried for index 0, 1, ... until one falls below the largest multiple
// of N that fits in 256 bits.
func GrindKey(seed []byte) *big.Int {
	limit := new(big.Int).Lsh(bigOne, 256)
	limit.Sub(limit, new(big.Int).Mod(limit, stark.N))

	buf := make([]byte, 0, len(seed)+8)
	for index := int64(0); ; index++ {
		i := big.NewInt(index).Bytes()
		if len(i) == 0 {
			i = []byte{0}
		}
		buf = append(append(buf[:0], seed...), i...)
		digest := sha256.Sum256(buf)
		key := new(big.Int).SetBytes(digest[:])
		if key.Cmp(limit) < 0 {
			return key.Mod(key, stark.N)
		}
	}
}

// KeyFromMnemonic derives the Stark private key of account n the way the named wallet does.
func KeyFromMnemonic(mnemonic, passphrase string, n uint32, flavor Flavor) (*PrivateKey, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("mnemonic: %w", err)
	}

	master, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, err
	}

	switch flavor {
	case FlavorArgent:
		ethKey, err := derive(master, ethereumPath...)
		if err != nil {
			return nil, err
		}
		if master, err = hdkeychain.NewMaster(ethKey, &chaincfg.MainNetParams); err != nil {
			return nil, err
		}
	case FlavorBraavos:
	default:
		return nil, ErrUnknownFlavor
	}

	raw, err := derive(master, append(starknetPrefix, n)...)
	if err != nil {
		return nil, err
	}
	return NewPrivateKey(GrindKey(raw))
}

func derive(key *hdkeychain.ExtendedKey, path ...uint32) ([]byte, error) {
	var err error
	for _, segment := range path {
		if key, err = key.Derive(segment); err != nil {
			return nil, fmt.Errorf("derive %d: %w", segment, err)
		}
	}
	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, err
	}
	return priv.Serialize(), nil
}
