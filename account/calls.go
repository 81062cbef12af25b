package account

import (
	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/NethermindEth/starkclient/rpc"
)

// Layout is how an account's __execute__ expects a multicall to be flattened.
type Layout uint8

const (
	// LayoutNested is len, then per call to, selector, calldata len and calldata. Cairo 1
	// accounts use it.
	LayoutNested Layout = iota
	// LayoutOffset is the Cairo 0 call array: len, per call to, selector, data offset and
	// data len, then the total length and every calldata concatenated.
	LayoutOffset
)

func (l Layout) String() string {
	if l == LayoutOffset {
		return "offset"
	}
	return "nested"
}

// PackCalls flattens calls into the calldata of __execute__.
func PackCalls(calls []rpc.FunctionCall, layout Layout) []*felt.Felt {
	if layout == LayoutOffset {
		return packOffset(calls)
	}

	out := []*felt.Felt{felt.NewFromUint64(uint64(len(calls)))}
	for _, c := range calls {
		out = append(out, c.ContractAddress, c.EntryPointSelector, felt.NewFromUint64(uint64(len(c.Calldata))))
		out = append(out, c.Calldata...)
	}
	return out
}

func packOffset(calls []rpc.FunctionCall) []*felt.Felt {
	out := make([]*felt.Felt, 0, 1+4*len(calls)+1)
	out = append(out, felt.NewFromUint64(uint64(len(calls))))

	var data []*felt.Felt
	for _, c := range calls {
		out = append(out,
			c.ContractAddress,
			c.EntryPointSelector,
			felt.NewFromUint64(uint64(len(data))),
			felt.NewFromUint64(uint64(len(c.Calldata))),
		)
		data = append(data, c.Calldata...)
	}
	out = append(out, felt.NewFromUint64(uint64(len(data))))
	return append(out, data...)
}
