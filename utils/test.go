package utils

import (
	"testing"

	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/stretchr/testify/require"
)

func HexToFelt(t testing.TB, hex string) *felt.Felt {
	t.Helper()

	f, err := felt.FromHex(hex)
	require.NoError(t, err)
	return f
}

func HexToFelts(t testing.TB, hexes ...string) []*felt.Felt {
	t.Helper()

	felts := make([]*felt.Felt, len(hexes))
	for i, hex := range hexes {
		felts[i] = HexToFelt(t, hex)
	}
	return felts
}
