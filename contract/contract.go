// Package contract binds a deployed contract to its ABI for typed calls and invokes.
package contract

import (
	"context"
	"errors"
	"fmt"

	"github.com/NethermindEth/starkclient/abi"
	"github.com/NethermindEth/starkclient/account"
	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/NethermindEth/starkclient/rpc"
)

var ErrNoABI = errors.New("class has no abi")

// Provider is what a contract needs from the node.
type Provider interface {
	Call(ctx context.Context, call rpc.FunctionCall, id rpc.BlockID) ([]*felt.Felt, error)
	ClassHashAt(ctx context.Context, id rpc.BlockID, address *felt.Felt) (*felt.Felt, error)
	Class(ctx context.Context, id rpc.BlockID, classHash *felt.Felt) (*rpc.Class, error)
	ClassAt(ctx context.Context, id rpc.BlockID, address *felt.Felt) (*rpc.Class, error)
}

type Contract struct {
	address  *felt.Felt
	abi      *abi.Abi
	provider Provider
	block    rpc.BlockID
}

func New(address *felt.Felt, a *abi.Abi, p Provider) *Contract {
	return &Contract{address: address, abi: a, provider: p, block: rpc.BlockPending()}
}

// At loads the ABI of the contract deployed at address. With a cache the class hash is
// looked up first and the class is only fetched on a miss.
func At(ctx context.Context, p Provider, address *felt.Felt, cache *ABICache) (*Contract, error) {
	id := rpc.BlockPending()
	if cache == nil {
		class, err := p.ClassAt(ctx, id, address)
		if err != nil {
			return nil, fmt.Errorf("class at %s: %w", address, err)
		}
		a, err := parseClass(class)
		if err != nil {
			return nil, err
		}
		return New(address, a, p), nil
	}

	classHash, err := p.ClassHashAt(ctx, id, address)
	if err != nil {
		return nil, fmt.Errorf("class hash at %s: %w", address, err)
	}
	if a, ok := cache.Get(classHash); ok {
		return New(address, a, p), nil
	}
	class, err := p.Class(ctx, id, classHash)
	if err != nil {
		return nil, fmt.Errorf("class %s: %w", classHash, err)
	}
	a, err := parseClass(class)
	if err != nil {
		return nil, err
	}
	cache.Add(classHash, a)
	return New(address, a, p), nil
}

func parseClass(class *rpc.Class) (*abi.Abi, error) {
	raw := class.ABI()
	if len(raw) == 0 {
		return nil, ErrNoABI
	}
	return abi.Parse(raw)
}

func (c *Contract) Address() *felt.Felt { return c.address }
func (c *Contract) ABI() *abi.Abi       { return c.abi }

// AtBlock returns a copy of the contract that calls at id instead of the pending block.
func (c *Contract) AtBlock(id rpc.BlockID) *Contract {
	cp := *c
	cp.block = id
	return &cp
}

// FunctionCall encodes a call of fn with positional args.
func (c *Contract) FunctionCall(fn string, args ...any) (rpc.FunctionCall, error) {
	f, err := c.abi.Function(fn)
	if err != nil {
		return rpc.FunctionCall{}, err
	}
	calldata, err := f.EncodeCalldata(args...)
	if err != nil {
		return rpc.FunctionCall{}, err
	}
	return c.functionCall(f, calldata), nil
}

// FunctionCallWith encodes a call of fn whose arguments are given as a map or a struct,
// the struct fields named by their abi tag.
func (c *Contract) FunctionCallWith(fn string, args any) (rpc.FunctionCall, error) {
	f, err := c.abi.Function(fn)
	if err != nil {
		return rpc.FunctionCall{}, err
	}
	calldata, err := f.EncodeCalldataStruct(args)
	if err != nil {
		return rpc.FunctionCall{}, err
	}
	return c.functionCall(f, calldata), nil
}

func (c *Contract) functionCall(f *abi.Function, calldata []*felt.Felt) rpc.FunctionCall {
	return rpc.FunctionCall{
		ContractAddress:    c.address,
		EntryPointSelector: f.Selector(),
		Calldata:           calldata,
	}
}

// Call runs fn without a transaction and returns its decoded outputs.
func (c *Contract) Call(ctx context.Context, fn string, args ...any) (any, error) {
	call, err := c.FunctionCall(fn, args...)
	if err != nil {
		return nil, err
	}
	out, err := c.provider.Call(ctx, call, c.block)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", fn, err)
	}
	f, _ := c.abi.Function(fn)
	return f.DecodeOutput(out)
}

// CallInto runs fn and decodes its outputs into out.
func (c *Contract) CallInto(ctx context.Context, out any, fn string, args ...any) error {
	call, err := c.FunctionCall(fn, args...)
	if err != nil {
		return err
	}
	res, err := c.provider.Call(ctx, call, c.block)
	if err != nil {
		return fmt.Errorf("call %s: %w", fn, err)
	}
	f, _ := c.abi.Function(fn)
	return f.DecodeOutputInto(res, out)
}

// Invoke sends fn through acc with default transaction options.
func (c *Contract) Invoke(ctx context.Context, acc *account.Account, fn string, args ...any) (*rpc.AddInvokeResponse, error) {
	call, err := c.FunctionCall(fn, args...)
	if err != nil {
		return nil, err
	}
	return acc.Invoke(ctx, []rpc.FunctionCall{call}, nil)
}

// InvokeWith sends fn through acc with named arguments and explicit options.
func (c *Contract) InvokeWith(ctx context.Context, acc *account.Account, fn string, args any,
	opts *account.TxOptions,
) (*rpc.AddInvokeResponse, error) {
	call, err := c.FunctionCallWith(fn, args)
	if err != nil {
		return nil, err
	}
	return acc.Invoke(ctx, []rpc.FunctionCall{call}, opts)
}

// Events decodes the events this contract emitted in receipt. Events the ABI does not
// describe are skipped.
func (c *Contract) Events(receipt *rpc.TransactionReceipt) []*abi.DecodedEvent {
	var out []*abi.DecodedEvent
	for _, e := range receipt.Events {
		if e.From == nil || !e.From.Equal(c.address) {
			continue
		}
		decoded, err := c.abi.DecodeEvent(e.Keys, e.Data)
		if err != nil {
			continue
		}
		out = append(out, decoded)
	}
	return out
}
