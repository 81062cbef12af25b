package account

import (
	"fmt"
	"math/big"

	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/NethermindEth/starkclient/rpc"
	"github.com/NethermindEth/starkclient/uint128"
)

const DefaultFeeMultiplier = 1.5

// multiplierScale is the precision the multiplier is applied with.
const multiplierScale = 10_000

// scale returns ceil(v * m).
func scale(v *big.Int, m float64) *big.Int {
	num := big.NewInt(int64(m*multiplierScale + 0.5))
	out := new(big.Int).Mul(v, num)
	out.Add(out, big.NewInt(multiplierScale-1))
	return out.Quo(out, big.NewInt(multiplierScale))
}

func feltInt(f *felt.Felt) *big.Int {
	if f == nil {
		return new(big.Int)
	}
	return f.BigInt()
}

// MaxFee is the overall fee of est scaled by multiplier, for v1 transactions.
func MaxFee(est *rpc.FeeEstimate, multiplier float64) (*felt.Felt, error) {
	return felt.FromBigInt(scale(feltInt(est.OverallFee), multiplier))
}

// ResourceBounds turns an estimate into v3 bounds, scaling both the amount and the price of
// every resource by multiplier.
func ResourceBounds(est *rpc.FeeEstimate, multiplier float64) (rpc.ResourceBoundsMap, error) {
	l1, err := bound(est.L1GasConsumed, est.L1GasPrice, multiplier)
	if err != nil {
		return rpc.ResourceBoundsMap{}, fmt.Errorf("l1_gas: %w", err)
	}
	l2, err := bound(est.L2GasConsumed, est.L2GasPrice, multiplier)
	if err != nil {
		return rpc.ResourceBoundsMap{}, fmt.Errorf("l2_gas: %w", err)
	}
	l1Data, err := bound(est.L1DataGasConsumed, est.L1DataGasPrice, multiplier)
	if err != nil {
		return rpc.ResourceBoundsMap{}, fmt.Errorf("l1_data_gas: %w", err)
	}
	return rpc.ResourceBoundsMap{L1Gas: l1, L2Gas: l2, L1DataGas: l1Data}, nil
}

func bound(consumed, price *felt.Felt, multiplier float64) (*rpc.ResourceBounds, error) {
	amount := scale(feltInt(consumed), multiplier)
	if !amount.IsUint64() {
		return nil, fmt.Errorf("max amount %s does not fit in 64 bits", amount)
	}
	maxPrice, err := uint128.FromBig(scale(feltInt(price), multiplier))
	if err != nil {
		return nil, fmt.Errorf("max price: %w", err)
	}
	return &rpc.ResourceBounds{MaxAmount: rpc.U64(amount.Uint64()), MaxPricePerUnit: maxPrice}, nil
}

// MaxCost is the most a transaction with these bounds can be charged, tip excluded.
func MaxCost(bounds rpc.ResourceBoundsMap) *big.Int {
	total := new(big.Int)
	for _, b := range []*rpc.ResourceBounds{bounds.L1Gas, bounds.L2Gas, bounds.L1DataGas} {
		if b == nil {
			continue
		}
		cost := new(big.Int).SetUint64(uint64(b.MaxAmount))
		total.Add(total, cost.Mul(cost, b.MaxPricePerUnit.BigInt()))
	}
	return total
}
