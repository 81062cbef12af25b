package engine

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/NethermindEth/starkclient/jsonrpc"
	"github.com/NethermindEth/starkclient/rpc"
)

type ErrorKind uint8

const (
	Rejected ErrorKind = iota + 1
	Reverted
	NonceMismatch
	InsufficientFee
)

func (k ErrorKind) String() string {
	switch k {
	case Rejected:
		return "rejected"
	case Reverted:
		return "reverted"
	case NonceMismatch:
		return "nonce mismatch"
	case InsufficientFee:
		return "insufficient fee"
	default:
		return "unknown"
	}
}

// TransactionError reports a transaction the node or the chain refused. Hash is set once the
// transaction was accepted for processing. Err is the node error it was mapped from, if any.
type TransactionError struct {
	Kind   ErrorKind
	Hash   *felt.Felt
	Reason string
	Err    error
}

func (e *TransactionError) Error() string {
	msg := "transaction " + e.Kind.String()
	if e.Hash != nil {
		msg = fmt.Sprintf("transaction %s %s", e.Hash, e.Kind)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a TransactionError of kind k.
func IsKind(err error, k ErrorKind) bool {
	var txErr *TransactionError
	return errors.As(err, &txErr) && txErr.Kind == k
}

// classify turns the node errors that describe the transaction itself into a
// TransactionError and leaves every other error alone.
func classify(err error) error {
	var rpcErr *jsonrpc.Error
	if !errors.As(err, &rpcErr) {
		return err
	}

	kind := Rejected
	switch {
	case errors.Is(rpcErr, rpc.ErrInvalidTransactionNonce):
		kind = NonceMismatch
	case errors.Is(rpcErr, rpc.ErrInsufficientMaxFee), errors.Is(rpcErr, rpc.ErrInsufficientAccountBalance):
		kind = InsufficientFee
	case errors.Is(rpcErr, rpc.ErrValidationFailure), errors.Is(rpcErr, rpc.ErrDuplicateTx),
		errors.Is(rpcErr, rpc.ErrNonAccount), errors.Is(rpcErr, rpc.ErrUnsupportedTxVersion),
		errors.Is(rpcErr, rpc.ErrClassAlreadyDeclared), errors.Is(rpcErr, rpc.ErrCompiledClassHashMismatch),
		errors.Is(rpcErr, rpc.ErrTransactionExecutionError):
	default:
		return err
	}

	reason := rpcErr.Message
	if len(rpcErr.Data) > 0 {
		reason += ": " + string(rpcErr.Data)
	}
	return &TransactionError{Kind: kind, Reason: reason, Err: rpcErr}
}

// DecodeFailureReason renders the opaque failure reason of a status. JSON strings are
// unquoted and anything else is returned as the node sent it.
func DecodeFailureReason(r rpc.FailureReason) string {
	if len(r) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(r, &s); err == nil {
		return s
	}
	if utf8.Valid(r) {
		return string(r)
	}
	return "0x" + hex.EncodeToString(r)
}
