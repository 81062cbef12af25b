package account

import (
	_ "embed"
	"fmt"

	"github.com/NethermindEth/starkclient/abi"
	"github.com/NethermindEth/starkclient/core/felt"
)

var (
	//go:embed abis/erc20.json
	erc20JSON []byte
	//go:embed abis/udc.json
	udcJSON []byte
	//go:embed abis/account.json
	accountJSON []byte

	erc20ABI   = mustParse("erc20", erc20JSON)
	udcABI     = mustParse("udc", udcJSON)
	accountABI = mustParse("account", accountJSON)
)

var (
	// ETH and STRK fee token contracts, deployed at the same address on mainnet and sepolia.
	ETHToken  = felt.UnsafeFromString("0x49d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7")
	STRKToken = felt.UnsafeFromString("0x4718f5a0fc34cc1af16a1cdee98ffb20c31f5cd61d6ab07201858f4287c938d")

	// UDCAddress is the universal deployer contract.
	UDCAddress = felt.UnsafeFromString("0x41a78e741e5af2fec34b695679bc6891742439f7afb8484ecd7766661ad02bf")
)

func mustParse(name string, data []byte) *abi.Abi {
	a, err := abi.Parse(data)
	if err != nil {
		panic(fmt.Sprintf("parse %s abi: %v", name, err))
	}
	return a
}

func mustFunction(a *abi.Abi, name string) *abi.Function {
	f, err := a.Function(name)
	if err != nil {
		panic(err)
	}
	return f
}
