package rpc

import (
	"encoding/json"

	"github.com/NethermindEth/starkclient/jsonrpc"
)

// Errors a node returns. jsonrpc.Error matches on code alone, so errors.Is works against
// these whatever message or data the node attached.
var (
	ErrFailedToReceiveTxn         = &jsonrpc.Error{Code: 1, Message: "Failed to write transaction"}
	ErrContractNotFound           = &jsonrpc.Error{Code: 20, Message: "Contract not found"}
	ErrEntrypointNotFound         = &jsonrpc.Error{Code: 21, Message: "Requested entrypoint does not exist in the contract"}
	ErrBlockNotFound              = &jsonrpc.Error{Code: 24, Message: "Block not found"}
	ErrInvalidTxHash              = &jsonrpc.Error{Code: 25, Message: "Invalid transaction hash"}
	ErrInvalidBlockHash           = &jsonrpc.Error{Code: 26, Message: "Invalid block hash"}
	ErrInvalidTxIndex             = &jsonrpc.Error{Code: 27, Message: "Invalid transaction index in a block"}
	ErrClassHashNotFound          = &jsonrpc.Error{Code: 28, Message: "Class hash not found"}
	ErrTxnHashNotFound            = &jsonrpc.Error{Code: 29, Message: "Transaction hash not found"}
	ErrPageSizeTooBig             = &jsonrpc.Error{Code: 31, Message: "Requested page size is too big"}
	ErrNoBlock                    = &jsonrpc.Error{Code: 32, Message: "There are no blocks"}
	ErrInvalidContinuationToken   = &jsonrpc.Error{Code: 33, Message: "The supplied continuation token is invalid or unknown"}
	ErrTooManyKeysInFilter        = &jsonrpc.Error{Code: 34, Message: "Too many keys provided in a filter"}
	ErrContractError              = &jsonrpc.Error{Code: 40, Message: "Contract error"}
	ErrTransactionExecutionError  = &jsonrpc.Error{Code: 41, Message: "Transaction execution error"}
	ErrStorageProofNotSupported   = &jsonrpc.Error{Code: 42, Message: "The node doesn't support storage proofs for blocks that are too far in the past"}
	ErrInvalidContractClass       = &jsonrpc.Error{Code: 50, Message: "Invalid contract class"}
	ErrClassAlreadyDeclared       = &jsonrpc.Error{Code: 51, Message: "Class already declared"}
	ErrInvalidTransactionNonce    = &jsonrpc.Error{Code: 52, Message: "Invalid transaction nonce"}
	ErrInsufficientMaxFee         = &jsonrpc.Error{Code: 53, Message: "Max fee is smaller than the minimal transaction cost (validation plus fee transfer)"}
	ErrInsufficientAccountBalance = &jsonrpc.Error{Code: 54, Message: "Account balance is smaller than the transaction's max_fee"}
	ErrValidationFailure          = &jsonrpc.Error{Code: 55, Message: "Account validation failed"}
	ErrCompilationFailed          = &jsonrpc.Error{Code: 56, Message: "Compilation failed"}
	ErrContractClassSizeTooLarge  = &jsonrpc.Error{Code: 57, Message: "Contract class size is too large"}
	ErrNonAccount                 = &jsonrpc.Error{Code: 58, Message: "Sender address is not an account contract"}
	ErrDuplicateTx                = &jsonrpc.Error{Code: 59, Message: "A transaction with the same hash already exists in the mempool"}
	ErrCompiledClassHashMismatch  = &jsonrpc.Error{Code: 60, Message: "The compiled class hash did not match the one supplied in the transaction"}
	ErrUnsupportedTxVersion       = &jsonrpc.Error{Code: 61, Message: "The transaction version is not supported"}
	ErrUnsupportedContractClass   = &jsonrpc.Error{Code: 62, Message: "The contract class version is not supported"}
	ErrUnexpectedError            = &jsonrpc.Error{Code: 63, Message: "An unexpected error occurred"}
	ErrInvalidSubscriptionID      = &jsonrpc.Error{Code: 66, Message: "Invalid subscription id"}
	ErrTooManyAddressesInFilter   = &jsonrpc.Error{Code: 67, Message: "Too many addresses in filter sender_address filter"}
	ErrTooManyBlocksBack          = &jsonrpc.Error{Code: 68, Message: "Cannot go back more than 1024 blocks"}
	ErrCallOnPending              = &jsonrpc.Error{Code: 69, Message: "This method does not support being called on the pending block"}
)

// ContractErrorData is the data of ErrContractError and ErrTransactionExecutionError. The
// revert error is kept raw since it nests arbitrarily deep.
type ContractErrorData struct {
	TransactionIndex *uint64         `json:"transaction_index,omitempty"`
	RevertError      json.RawMessage `json:"revert_error,omitempty"`
	ExecutionError   json.RawMessage `json:"execution_error,omitempty"`
}
