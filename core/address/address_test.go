package address_test

import (
	"testing"

	"github.com/NethermindEth/starkclient/core/address"
	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/NethermindEth/starkclient/utils"
	"github.com/stretchr/testify/assert"
)

func TestContractAddress(t *testing.T) {
	tests := map[string]struct {
		deployer  *felt.Felt
		salt      *felt.Felt
		classHash *felt.Felt
		calldata  []*felt.Felt
		want      *felt.Felt
	}{
		"mainnet deploy": {
			// https://alpha-mainnet.starknet.io/feeder_gateway/get_transaction?transactionHash=0x6486c6303dba2f364c684a2e9609211c5b8e417e767f37b527cda51e776e6f0
			deployer:  &felt.Zero,
			salt:      utils.HexToFelt(t, "0x74dc2fe193daf1abd8241b63329c1123214842b96ad7fd003d25512598a956b"),
			classHash: utils.HexToFelt(t, "0x46f844ea1a3b3668f81d38b5c1bd55e816e0373802aefe732138628f0133486"),
			calldata: utils.HexToFelts(t,
				"0x6d706cfbac9b8262d601c38251c5fbe0497c3a96cc91a92b08d91b61d9e70c4",
				"0x79dc0da7c54b95f10aa182ad0a46400db63156920adb65eca2654c0945a463",
				"0x2",
				"0x6658165b4984816ab189568637bedec5aa0a18305909c7f5726e4a16e3afef6",
				"0x6b648b36b074a91eee55730f5f5e075ec19c0a8f9ffb0903cefeee93b6ff328",
			),
			want: utils.HexToFelt(t, "0x3ec215c6c9028ff671b46a2a9814970ea23ed3c4bcc3838c6d1dcbf395263c3"),
		},
		"small values": {
			deployer:  &felt.Zero,
			salt:      utils.HexToFelt(t, "0x1"),
			classHash: utils.HexToFelt(t, "0x2"),
			calldata:  utils.HexToFelts(t, "0x3"),
			want:      utils.HexToFelt(t, "0x3cd3c8e7dfb5e033947f90a2bff836179ea72dda4ff0ed51ff46814ae5d2a24"),
		},
		"no calldata": {
			deployer:  &felt.Zero,
			salt:      utils.HexToFelt(t, "0x5"),
			classHash: utils.HexToFelt(t, "0x6"),
			want:      utils.HexToFelt(t, "0x77e1bccad40d8f03b3aa845ee93056a39f70c1018482ebe23139006646a683a"),
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got := address.ContractAddress(test.deployer, test.salt, test.classHash, test.calldata)
			assert.Equal(t, test.want, got)
			assert.Negative(t, got.BigInt().Cmp(address.Bound))
		})
	}
}
