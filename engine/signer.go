package engine

import (
	"context"

	"github.com/NethermindEth/starkclient/core/crypto"
	"github.com/NethermindEth/starkclient/core/felt"
)

// Signer produces the signature an account contract validates a transaction hash against.
type Signer interface {
	Sign(ctx context.Context, hash *felt.Felt) ([]*felt.Felt, error)
}

// KeySigner signs with a single stark key, giving the [r, s] signature the standard account
// contracts expect.
type KeySigner struct {
	key *crypto.PrivateKey
}

func NewKeySigner(key *crypto.PrivateKey) *KeySigner {
	return &KeySigner{key: key}
}

func (s *KeySigner) PublicKey() *crypto.PublicKey {
	return s.key.PublicKey()
}

func (s *KeySigner) Sign(_ context.Context, hash *felt.Felt) ([]*felt.Felt, error) {
	sig, err := s.key.Sign(hash)
	if err != nil {
		return nil, err
	}
	return sig.Felts(), nil
}
