// Package hash computes transaction and class hashes.
package hash

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/NethermindEth/starkclient/core/address"
	"github.com/NethermindEth/starkclient/core/crypto"
	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/NethermindEth/starkclient/rpc"
)

var (
	invokeFelt        = new(felt.Felt).SetBytes([]byte("invoke"))
	declareFelt       = new(felt.Felt).SetBytes([]byte("declare"))
	deployFelt        = new(felt.Felt).SetBytes([]byte("deploy"))
	deployAccountFelt = new(felt.Felt).SetBytes([]byte("deploy_account"))
	l1HandlerFelt     = new(felt.Felt).SetBytes([]byte("l1_handler"))

	constructorSelector = crypto.StarknetKeccak([]byte("constructor"))
)

var ErrMissingField = errors.New("transaction field not set")

type UnsupportedVersionError struct {
	Type    rpc.TransactionType
	Version *felt.Felt
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("cannot hash %s transaction of version %s", e.Type, e.Version)
}

type field struct {
	name  string
	value *felt.Felt
}

func present(fields ...field) error {
	for _, f := range fields {
		if f.value == nil {
			return fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}
	return nil
}

// TransactionHash computes the hash an account signs. The version is taken as is, so a
// transaction in query mode hashes differently from the one that is broadcast.
func TransactionHash(tx *rpc.Transaction, chainID *felt.Felt) (*felt.Felt, error) {
	if tx.Body == nil {
		return nil, rpc.ErrMissingBody
	}
	version := tx.Version
	if version == nil {
		version = rpc.Version(tx.Body.BaseVersion())
	}

	switch b := tx.Body.(type) {
	case *rpc.InvokeV0:
		if err := present(field{"contract_address", b.ContractAddress}, field{"entry_point_selector", b.EntryPointSelector},
			field{"max_fee", b.MaxFee}); err != nil {
			return nil, err
		}
		return crypto.PedersenArray(
			invokeFelt,
			version,
			b.ContractAddress,
			b.EntryPointSelector,
			crypto.PedersenArray(b.Calldata...),
			b.MaxFee,
			chainID,
		), nil
	case *rpc.InvokeV1:
		if err := present(field{"sender_address", b.SenderAddress}, field{"max_fee", b.MaxFee}, field{"nonce", b.Nonce}); err != nil {
			return nil, err
		}
		return crypto.PedersenArray(
			invokeFelt,
			version,
			b.SenderAddress,
			&felt.Zero,
			crypto.PedersenArray(b.Calldata...),
			b.MaxFee,
			chainID,
			b.Nonce,
		), nil
	case *rpc.InvokeV3:
		if err := present(field{"sender_address", b.SenderAddress}); err != nil {
			return nil, err
		}
		prefix, err := v3Prefix(invokeFelt, version, b.SenderAddress, &b.V3Fields, chainID)
		if err != nil {
			return nil, err
		}
		return crypto.PoseidonArray(append(prefix,
			crypto.PoseidonArray(b.AccountDeploymentData...),
			crypto.PoseidonArray(b.Calldata...),
		)...), nil
	case *rpc.DeclareV0:
		if err := present(field{"sender_address", b.SenderAddress}, field{"max_fee", b.MaxFee}, field{"class_hash", b.ClassHash}); err != nil {
			return nil, err
		}
		return crypto.PedersenArray(
			declareFelt,
			version,
			b.SenderAddress,
			&felt.Zero,
			crypto.PedersenArray(),
			b.MaxFee,
			chainID,
			b.ClassHash,
		), nil
	case *rpc.DeclareV1:
		if err := present(field{"sender_address", b.SenderAddress}, field{"max_fee", b.MaxFee}, field{"nonce", b.Nonce},
			field{"class_hash", b.ClassHash}); err != nil {
			return nil, err
		}
		return crypto.PedersenArray(
			declareFelt,
			version,
			b.SenderAddress,
			&felt.Zero,
			crypto.PedersenArray(b.ClassHash),
			b.MaxFee,
			chainID,
			b.Nonce,
		), nil
	case *rpc.DeclareV2:
		classHash, err := declaredClassHash(b.ClassHash, b.ContractClass)
		if err != nil {
			return nil, err
		}
		if err = present(field{"sender_address", b.SenderAddress}, field{"max_fee", b.MaxFee}, field{"nonce", b.Nonce},
			field{"compiled_class_hash", b.CompiledClassHash}); err != nil {
			return nil, err
		}
		return crypto.PedersenArray(
			declareFelt,
			version,
			b.SenderAddress,
			&felt.Zero,
			crypto.PedersenArray(classHash),
			b.MaxFee,
			chainID,
			b.Nonce,
			b.CompiledClassHash,
		), nil
	case *rpc.DeclareV3:
		classHash, err := declaredClassHash(b.ClassHash, b.ContractClass)
		if err != nil {
			return nil, err
		}
		if err = present(field{"sender_address", b.SenderAddress}, field{"compiled_class_hash", b.CompiledClassHash}); err != nil {
			return nil, err
		}
		prefix, err := v3Prefix(declareFelt, version, b.SenderAddress, &b.V3Fields, chainID)
		if err != nil {
			return nil, err
		}
		return crypto.PoseidonArray(append(prefix,
			crypto.PoseidonArray(b.AccountDeploymentData...),
			classHash,
			b.CompiledClassHash,
		)...), nil
	case *rpc.DeployV0:
		if err := present(field{"class_hash", b.ClassHash}, field{"contract_address_salt", b.ContractAddressSalt}); err != nil {
			return nil, err
		}
		contractAddress := b.ContractAddress
		if contractAddress == nil {
			contractAddress = address.ContractAddress(&felt.Zero, b.ContractAddressSalt, b.ClassHash, b.ConstructorCalldata)
		}
		return crypto.PedersenArray(
			deployFelt,
			version,
			contractAddress,
			constructorSelector,
			crypto.PedersenArray(b.ConstructorCalldata...),
			&felt.Zero,
			chainID,
		), nil
	case *rpc.DeployAccountV1:
		if err := present(field{"class_hash", b.ClassHash}, field{"contract_address_salt", b.ContractAddressSalt},
			field{"max_fee", b.MaxFee}, field{"nonce", b.Nonce}); err != nil {
			return nil, err
		}
		calldata := append([]*felt.Felt{b.ClassHash, b.ContractAddressSalt}, b.ConstructorCalldata...)
		return crypto.PedersenArray(
			deployAccountFelt,
			version,
			address.ContractAddress(&felt.Zero, b.ContractAddressSalt, b.ClassHash, b.ConstructorCalldata),
			&felt.Zero,
			crypto.PedersenArray(calldata...),
			b.MaxFee,
			chainID,
			b.Nonce,
		), nil
	case *rpc.DeployAccountV3:
		if err := present(field{"class_hash", b.ClassHash}, field{"contract_address_salt", b.ContractAddressSalt}); err != nil {
			return nil, err
		}
		sender := address.ContractAddress(&felt.Zero, b.ContractAddressSalt, b.ClassHash, b.ConstructorCalldata)
		prefix, err := v3Prefix(deployAccountFelt, version, sender, &b.V3Fields, chainID)
		if err != nil {
			return nil, err
		}
		return crypto.PoseidonArray(append(prefix,
			crypto.PoseidonArray(b.ConstructorCalldata...),
			b.ClassHash,
			b.ContractAddressSalt,
		)...), nil
	case *rpc.L1HandlerV0:
		if err := present(field{"contract_address", b.ContractAddress}, field{"entry_point_selector", b.EntryPointSelector},
			field{"nonce", b.Nonce}); err != nil {
			return nil, err
		}
		return crypto.PedersenArray(
			l1HandlerFelt,
			version,
			b.ContractAddress,
			b.EntryPointSelector,
			crypto.PedersenArray(b.Calldata...),
			&felt.Zero,
			chainID,
			b.Nonce,
		), nil
	}
	return nil, &UnsupportedVersionError{Type: tx.Body.Kind(), Version: version}
}

// declaredClassHash prefers the class hash carried by the transaction and hashes the
// attached class otherwise.
func declaredClassHash(classHash *felt.Felt, class *rpc.SierraClass) (*felt.Felt, error) {
	if classHash != nil {
		return classHash, nil
	}
	if class == nil {
		return nil, fmt.Errorf("%w: class_hash", ErrMissingField)
	}
	return SierraClassHash(class)
}

// v3Prefix returns the elements every v3 hash starts with.
func v3Prefix(prefix, version, sender *felt.Felt, f *rpc.V3Fields, chainID *felt.Felt) ([]*felt.Felt, error) {
	if err := present(field{"nonce", f.Nonce}); err != nil {
		return nil, err
	}
	feeHash, err := tipAndResourcesHash(f.Tip, f.ResourceBounds)
	if err != nil {
		return nil, err
	}
	return []*felt.Felt{
		prefix,
		version,
		sender,
		feeHash,
		crypto.PoseidonArray(f.PaymasterData...),
		chainID,
		f.Nonce,
		DataAvailabilityModes(f.NonceDAMode, f.FeeDAMode),
	}, nil
}

func tipAndResourcesHash(tip rpc.U64, bounds rpc.ResourceBoundsMap) (*felt.Felt, error) {
	if bounds.L1Gas == nil || bounds.L2Gas == nil {
		return nil, fmt.Errorf("%w: resource_bounds", ErrMissingField)
	}
	elems := []*felt.Felt{
		felt.NewFromUint64(uint64(tip)),
		ResourceBoundsFelt(rpc.ResourceL1Gas, bounds.L1Gas),
		ResourceBoundsFelt(rpc.ResourceL2Gas, bounds.L2Gas),
	}
	if bounds.L1DataGas != nil {
		elems = append(elems, ResourceBoundsFelt(rpc.ResourceL1DataGas, bounds.L1DataGas))
	}
	return crypto.PoseidonArray(elems...), nil
}

// ResourceBoundsFelt packs a bound as name<<192 | max_amount<<128 | max_price_per_unit.
func ResourceBoundsFelt(resource rpc.Resource, b *rpc.ResourceBounds) *felt.Felt {
	var buf [felt.Bytes]byte
	name := resource.String()
	copy(buf[8-len(name):8], name)
	binary.BigEndian.PutUint64(buf[8:16], uint64(b.MaxAmount))
	copy(buf[16:], b.MaxPricePerUnit.Bytes())
	return felt.NewFromBytes(buf[:])
}

// DataAvailabilityModes packs the nonce mode in the upper and the fee mode in the lower
// 32 bits.
func DataAvailabilityModes(nonceMode, feeMode rpc.DataAvailabilityMode) *felt.Felt {
	return felt.NewFromUint64(uint64(nonceMode)<<32 | uint64(feeMode))
}
