// Package address derives contract addresses the way the sequencer does on deployment.
package address

import (
	"math/big"

	"github.com/NethermindEth/starkclient/core/crypto"
	"github.com/NethermindEth/starkclient/core/felt"
)

var (
	contractAddressPrefix = new(felt.Felt).SetBytes([]byte("STARKNET_CONTRACT_ADDRESS"))

	// Bound is 2^251 - 256. Contract addresses are reduced below it.
	Bound = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 251), big.NewInt(256))
)

// ContractAddress computes the address of a contract deployed by deployer. Accounts deploy
// themselves with a zero deployer, and so does the UDC for non-unique deployments.
func ContractAddress(deployer, salt, classHash *felt.Felt, constructorCalldata []*felt.Felt) *felt.Felt {
	calldataHash := crypto.PedersenArray(constructorCalldata...)

	raw := crypto.PedersenArray(
		contractAddressPrefix,
		deployer,
		salt,
		classHash,
		calldataHash,
	)
	v := raw.BigInt()
	return new(felt.Felt).SetBigInt(v.Mod(v, Bound))
}
