package rpc

import "github.com/NethermindEth/starkclient/core/felt"

type FeeEstimate struct {
	L1GasConsumed     *felt.Felt `json:"l1_gas_consumed"`
	L1GasPrice        *felt.Felt `json:"l1_gas_price"`
	L2GasConsumed     *felt.Felt `json:"l2_gas_consumed"`
	L2GasPrice        *felt.Felt `json:"l2_gas_price"`
	L1DataGasConsumed *felt.Felt `json:"l1_data_gas_consumed"`
	L1DataGasPrice    *felt.Felt `json:"l1_data_gas_price"`
	OverallFee        *felt.Felt `json:"overall_fee"`
	Unit              FeeUnit    `json:"unit"`
}

type SimulatedTransaction struct {
	TransactionTrace *TransactionTrace `json:"transaction_trace"`
	FeeEstimation    FeeEstimate       `json:"fee_estimation"`
}
