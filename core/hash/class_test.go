package hash_test

import (
	"testing"

	"github.com/NethermindEth/starkclient/core/hash"
	"github.com/NethermindEth/starkclient/rpc"
	"github.com/NethermindEth/starkclient/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSierraClassHash(t *testing.T) {
	class := &rpc.SierraClass{
		SierraProgram:        utils.HexToFelts(t, "0x1", "0x2", "0x3"),
		ContractClassVersion: "0.1.0",
		EntryPoints: rpc.SierraEntryPoints{
			External: []rpc.SierraEntryPoint{
				{Selector: utils.HexToFelt(t, "0x1"), Index: 0},
				{Selector: utils.HexToFelt(t, "0x2"), Index: 1},
			},
			Constructor: []rpc.SierraEntryPoint{{Selector: utils.HexToFelt(t, "0x3"), Index: 2}},
		},
		Abi: "[]",
	}

	got, err := hash.SierraClassHash(class)
	require.NoError(t, err)
	assert.Equal(t, utils.HexToFelt(t, "0x1dcfbb3c24af8ed3378eef5645b36c7656caf2779f2dea118d6ed70fb2aa013"), got)

	t.Run("declare hashes the attached class", func(t *testing.T) {
		withHash := rpc.NewTransaction(&rpc.DeclareV2{
			SenderAddress:     utils.HexToFelt(t, "0x1"),
			MaxFee:            utils.HexToFelt(t, "0x64"),
			Nonce:             utils.HexToFelt(t, "0x5"),
			ClassHash:         got,
			CompiledClassHash: utils.HexToFelt(t, "0xb"),
		})
		withClass := rpc.NewTransaction(&rpc.DeclareV2{
			SenderAddress:     utils.HexToFelt(t, "0x1"),
			MaxFee:            utils.HexToFelt(t, "0x64"),
			Nonce:             utils.HexToFelt(t, "0x5"),
			ContractClass:     class,
			CompiledClassHash: utils.HexToFelt(t, "0xb"),
		})

		want, err := hash.TransactionHash(withHash, utils.Mainnet.ChainID())
		require.NoError(t, err)
		have, err := hash.TransactionHash(withClass, utils.Mainnet.ChainID())
		require.NoError(t, err)
		assert.Equal(t, want, have)
	})

	t.Run("nil selector", func(t *testing.T) {
		broken := *class
		broken.EntryPoints.L1Handler = []rpc.SierraEntryPoint{{Index: 0}}
		_, err := hash.SierraClassHash(&broken)
		require.ErrorIs(t, err, hash.ErrMissingField)
	})
}
