// Package provider reads chain state from a Starknet node and submits transactions to it,
// one typed method per JSON-RPC method.
package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/NethermindEth/starkclient/jsonrpc"
	"github.com/NethermindEth/starkclient/rpc"
	"github.com/NethermindEth/starkclient/utils"
)

//go:generate mockgen -destination=../../mocks/mock_provider.go -package=mocks github.com/NethermindEth/starkclient/clients/provider Provider
type Provider interface {
	ChainID(ctx context.Context) (*felt.Felt, error)
	SpecVersion(ctx context.Context) (string, error)
	Syncing(ctx context.Context) (*rpc.SyncState, error)
	BlockNumber(ctx context.Context) (uint64, error)
	BlockHashAndNumber(ctx context.Context) (*rpc.BlockHashAndNumber, error)
	BlockWithTxHashes(ctx context.Context, id rpc.BlockID) (*rpc.BlockWithTxHashes, error)
	BlockWithTxs(ctx context.Context, id rpc.BlockID) (*rpc.BlockWithTxs, error)
	BlockWithReceipts(ctx context.Context, id rpc.BlockID) (*rpc.BlockWithReceipts, error)
	BlockTransactionCount(ctx context.Context, id rpc.BlockID) (uint64, error)
	StateUpdate(ctx context.Context, id rpc.BlockID) (*rpc.StateUpdate, error)
	TransactionByHash(ctx context.Context, hash *felt.Felt) (*rpc.Transaction, error)
	TransactionByBlockIDAndIndex(ctx context.Context, id rpc.BlockID, index uint64) (*rpc.Transaction, error)
	TransactionReceipt(ctx context.Context, hash *felt.Felt) (*rpc.TransactionReceipt, error)
	TransactionStatus(ctx context.Context, hash *felt.Felt) (*rpc.TransactionStatus, error)
	Class(ctx context.Context, id rpc.BlockID, classHash *felt.Felt) (*rpc.Class, error)
	ClassAt(ctx context.Context, id rpc.BlockID, address *felt.Felt) (*rpc.Class, error)
	ClassHashAt(ctx context.Context, id rpc.BlockID, address *felt.Felt) (*felt.Felt, error)
	StorageAt(ctx context.Context, address, key *felt.Felt, id rpc.BlockID) (*felt.Felt, error)
	StorageProof(ctx context.Context, id rpc.BlockID, classHashes, addresses []*felt.Felt,
		keys []rpc.StorageKeys) (*rpc.StorageProof, error)
	Nonce(ctx context.Context, id rpc.BlockID, address *felt.Felt) (*felt.Felt, error)
	Events(ctx context.Context, args rpc.EventsArg) (*rpc.EventsChunk, error)
	Call(ctx context.Context, call rpc.FunctionCall, id rpc.BlockID) ([]*felt.Felt, error)
	EstimateFee(ctx context.Context, txs []*rpc.Transaction, flags []rpc.SimulationFlag,
		id rpc.BlockID) ([]rpc.FeeEstimate, error)
	EstimateMessageFee(ctx context.Context, msg rpc.MsgFromL1, id rpc.BlockID) (*rpc.FeeEstimate, error)
	SimulateTransactions(ctx context.Context, id rpc.BlockID, txs []*rpc.Transaction,
		flags []rpc.SimulationFlag) ([]rpc.SimulatedTransaction, error)
	TraceTransaction(ctx context.Context, hash *felt.Felt) (*rpc.TransactionTrace, error)
	TraceBlockTransactions(ctx context.Context, id rpc.BlockID) ([]rpc.TracedBlockTransaction, error)
	AddInvokeTransaction(ctx context.Context, tx *rpc.Transaction) (*rpc.AddInvokeResponse, error)
	AddDeclareTransaction(ctx context.Context, tx *rpc.Transaction) (*rpc.AddDeclareResponse, error)
	AddDeployAccountTransaction(ctx context.Context, tx *rpc.Transaction) (*rpc.AddDeployAccountResponse, error)
}

// Caller is the transport a Client runs on, a *jsonrpc.Client or a *jsonrpc.WSClient.
type Caller interface {
	Call(ctx context.Context, result any, method string, params ...any) error
}

// Client is safe for concurrent use.
type Client struct {
	caller Caller
	schema *rpc.Schema
	log    utils.SimpleLogger
}

var _ Provider = (*Client)(nil)

// New wraps caller. A nil schema drops unknown fields.
func New(caller Caller, schema *rpc.Schema) *Client {
	if schema == nil {
		schema = rpc.DefaultSchema
	}
	return &Client{caller: caller, schema: schema, log: utils.NewNopZapLogger()}
}

func (c *Client) WithLogger(log utils.SimpleLogger) *Client {
	c.log = log
	return c
}

func (c *Client) Schema() *rpc.Schema { return c.schema }

// call encodes every param and decodes the result through the schema.
func (c *Client) call(ctx context.Context, out any, method string, params ...any) error {
	encoded, err := c.encodeParams(params)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	var result json.RawMessage
	if err = c.caller.Call(ctx, &result, method, encoded...); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err = c.schema.Unmarshal(result, out); err != nil {
		c.log.Debugw("Failed to decode result", "method", method, "err", err)
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

func (c *Client) encodeParams(params []any) ([]any, error) {
	if len(params) == 1 {
		if named, ok := params[0].(jsonrpc.Named); ok {
			encoded := make(jsonrpc.Named, len(named))
			for key, v := range named {
				data, err := c.schema.Marshal(v)
				if err != nil {
					return nil, err
				}
				encoded[key] = json.RawMessage(data)
			}
			return []any{encoded}, nil
		}
	}

	encoded := make([]any, len(params))
	for i, v := range params {
		data, err := c.schema.Marshal(v)
		if err != nil {
			return nil, err
		}
		encoded[i] = json.RawMessage(data)
	}
	return encoded, nil
}

func (c *Client) ChainID(ctx context.Context) (*felt.Felt, error) {
	chainID := new(felt.Felt)
	if err := c.call(ctx, chainID, "starknet_chainId"); err != nil {
		return nil, err
	}
	return chainID, nil
}

func (c *Client) SpecVersion(ctx context.Context) (string, error) {
	var version string
	if err := c.call(ctx, &version, "starknet_specVersion"); err != nil {
		return "", err
	}
	return version, nil
}

func (c *Client) Syncing(ctx context.Context) (*rpc.SyncState, error) {
	state := new(rpc.SyncState)
	if err := c.call(ctx, state, "starknet_syncing"); err != nil {
		return nil, err
	}
	return state, nil
}

func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	var number uint64
	if err := c.call(ctx, &number, "starknet_blockNumber"); err != nil {
		return 0, err
	}
	return number, nil
}

func (c *Client) BlockHashAndNumber(ctx context.Context) (*rpc.BlockHashAndNumber, error) {
	block := new(rpc.BlockHashAndNumber)
	if err := c.call(ctx, block, "starknet_blockHashAndNumber"); err != nil {
		return nil, err
	}
	return block, nil
}

func (c *Client) BlockWithTxHashes(ctx context.Context, id rpc.BlockID) (*rpc.BlockWithTxHashes, error) {
	block := new(rpc.BlockWithTxHashes)
	if err := c.call(ctx, block, "starknet_getBlockWithTxHashes", id); err != nil {
		return nil, err
	}
	return block, nil
}

func (c *Client) BlockWithTxs(ctx context.Context, id rpc.BlockID) (*rpc.BlockWithTxs, error) {
	block := new(rpc.BlockWithTxs)
	if err := c.call(ctx, block, "starknet_getBlockWithTxs", id); err != nil {
		return nil, err
	}
	return block, nil
}

func (c *Client) BlockWithReceipts(ctx context.Context, id rpc.BlockID) (*rpc.BlockWithReceipts, error) {
	block := new(rpc.BlockWithReceipts)
	if err := c.call(ctx, block, "starknet_getBlockWithReceipts", id); err != nil {
		return nil, err
	}
	return block, nil
}

func (c *Client) BlockTransactionCount(ctx context.Context, id rpc.BlockID) (uint64, error) {
	var count uint64
	if err := c.call(ctx, &count, "starknet_getBlockTransactionCount", id); err != nil {
		return 0, err
	}
	return count, nil
}

func (c *Client) StateUpdate(ctx context.Context, id rpc.BlockID) (*rpc.StateUpdate, error) {
	update := new(rpc.StateUpdate)
	if err := c.call(ctx, update, "starknet_getStateUpdate", id); err != nil {
		return nil, err
	}
	return update, nil
}

func (c *Client) TransactionByHash(ctx context.Context, hash *felt.Felt) (*rpc.Transaction, error) {
	tx := new(rpc.Transaction)
	if err := c.call(ctx, tx, "starknet_getTransactionByHash", hash); err != nil {
		return nil, err
	}
	return tx, nil
}

func (c *Client) TransactionByBlockIDAndIndex(ctx context.Context, id rpc.BlockID, index uint64) (*rpc.Transaction, error) {
	tx := new(rpc.Transaction)
	if err := c.call(ctx, tx, "starknet_getTransactionByBlockIdAndIndex", id, index); err != nil {
		return nil, err
	}
	return tx, nil
}

func (c *Client) TransactionReceipt(ctx context.Context, hash *felt.Felt) (*rpc.TransactionReceipt, error) {
	receipt := new(rpc.TransactionReceipt)
	if err := c.call(ctx, receipt, "starknet_getTransactionReceipt", hash); err != nil {
		return nil, err
	}
	return receipt, nil
}

func (c *Client) TransactionStatus(ctx context.Context, hash *felt.Felt) (*rpc.TransactionStatus, error) {
	status := new(rpc.TransactionStatus)
	if err := c.call(ctx, status, "starknet_getTransactionStatus", hash); err != nil {
		return nil, err
	}
	return status, nil
}

func (c *Client) Class(ctx context.Context, id rpc.BlockID, classHash *felt.Felt) (*rpc.Class, error) {
	class := new(rpc.Class)
	if err := c.call(ctx, class, "starknet_getClass", id, classHash); err != nil {
		return nil, err
	}
	return class, nil
}

func (c *Client) ClassAt(ctx context.Context, id rpc.BlockID, address *felt.Felt) (*rpc.Class, error) {
	class := new(rpc.Class)
	if err := c.call(ctx, class, "starknet_getClassAt", id, address); err != nil {
		return nil, err
	}
	return class, nil
}

func (c *Client) ClassHashAt(ctx context.Context, id rpc.BlockID, address *felt.Felt) (*felt.Felt, error) {
	classHash := new(felt.Felt)
	if err := c.call(ctx, classHash, "starknet_getClassHashAt", id, address); err != nil {
		return nil, err
	}
	return classHash, nil
}

func (c *Client) StorageAt(ctx context.Context, address, key *felt.Felt, id rpc.BlockID) (*felt.Felt, error) {
	value := new(felt.Felt)
	if err := c.call(ctx, value, "starknet_getStorageAt", address, key, id); err != nil {
		return nil, err
	}
	return value, nil
}

func (c *Client) StorageProof(ctx context.Context, id rpc.BlockID, classHashes, addresses []*felt.Felt,
	keys []rpc.StorageKeys,
) (*rpc.StorageProof, error) {
	params := jsonrpc.Named{"block_id": id}
	if len(classHashes) > 0 {
		params["class_hashes"] = classHashes
	}
	if len(addresses) > 0 {
		params["contract_addresses"] = addresses
	}
	if len(keys) > 0 {
		params["contracts_storage_keys"] = keys
	}
	proof := new(rpc.StorageProof)
	if err := c.call(ctx, proof, "starknet_getStorageProof", params); err != nil {
		return nil, err
	}
	return proof, nil
}

func (c *Client) Nonce(ctx context.Context, id rpc.BlockID, address *felt.Felt) (*felt.Felt, error) {
	nonce := new(felt.Felt)
	if err := c.call(ctx, nonce, "starknet_getNonce", id, address); err != nil {
		return nil, err
	}
	return nonce, nil
}

func (c *Client) Events(ctx context.Context, args rpc.EventsArg) (*rpc.EventsChunk, error) {
	chunk := new(rpc.EventsChunk)
	if err := c.call(ctx, chunk, "starknet_getEvents", args); err != nil {
		return nil, err
	}
	return chunk, nil
}

func (c *Client) Call(ctx context.Context, call rpc.FunctionCall, id rpc.BlockID) ([]*felt.Felt, error) {
	var result []*felt.Felt
	if err := c.call(ctx, &result, "starknet_call", call, id); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) EstimateFee(ctx context.Context, txs []*rpc.Transaction, flags []rpc.SimulationFlag,
	id rpc.BlockID,
) ([]rpc.FeeEstimate, error) {
	if flags == nil {
		flags = []rpc.SimulationFlag{}
	}
	var estimates []rpc.FeeEstimate
	if err := c.call(ctx, &estimates, "starknet_estimateFee", txs, flags, id); err != nil {
		return nil, err
	}
	return estimates, nil
}

func (c *Client) EstimateMessageFee(ctx context.Context, msg rpc.MsgFromL1, id rpc.BlockID) (*rpc.FeeEstimate, error) {
	estimate := new(rpc.FeeEstimate)
	if err := c.call(ctx, estimate, "starknet_estimateMessageFee", msg, id); err != nil {
		return nil, err
	}
	return estimate, nil
}

func (c *Client) SimulateTransactions(ctx context.Context, id rpc.BlockID, txs []*rpc.Transaction,
	flags []rpc.SimulationFlag,
) ([]rpc.SimulatedTransaction, error) {
	if flags == nil {
		flags = []rpc.SimulationFlag{}
	}
	var simulated []rpc.SimulatedTransaction
	if err := c.call(ctx, &simulated, "starknet_simulateTransactions", id, txs, flags); err != nil {
		return nil, err
	}
	return simulated, nil
}

func (c *Client) TraceTransaction(ctx context.Context, hash *felt.Felt) (*rpc.TransactionTrace, error) {
	trace := new(rpc.TransactionTrace)
	if err := c.call(ctx, trace, "starknet_traceTransaction", hash); err != nil {
		return nil, err
	}
	return trace, nil
}

func (c *Client) TraceBlockTransactions(ctx context.Context, id rpc.BlockID) ([]rpc.TracedBlockTransaction, error) {
	var traces []rpc.TracedBlockTransaction
	if err := c.call(ctx, &traces, "starknet_traceBlockTransactions", id); err != nil {
		return nil, err
	}
	return traces, nil
}

func (c *Client) AddInvokeTransaction(ctx context.Context, tx *rpc.Transaction) (*rpc.AddInvokeResponse, error) {
	resp := new(rpc.AddInvokeResponse)
	if err := c.call(ctx, resp, "starknet_addInvokeTransaction", tx); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) AddDeclareTransaction(ctx context.Context, tx *rpc.Transaction) (*rpc.AddDeclareResponse, error) {
	resp := new(rpc.AddDeclareResponse)
	if err := c.call(ctx, resp, "starknet_addDeclareTransaction", tx); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) AddDeployAccountTransaction(ctx context.Context, tx *rpc.Transaction) (*rpc.AddDeployAccountResponse, error) {
	resp := new(rpc.AddDeployAccountResponse)
	if err := c.call(ctx, resp, "starknet_addDeployAccountTransaction", tx); err != nil {
		return nil, err
	}
	return resp, nil
}
