package account

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/NethermindEth/starkclient/core/address"
	"github.com/NethermindEth/starkclient/core/crypto"
	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/NethermindEth/starkclient/rpc"
)

var (
	ErrAddressMismatch               = errors.New("deployment does not yield the account address")
	ErrInsufficientBalance           = errors.New("account balance does not cover the fee")
	ErrContractDeployedEventNotFound = errors.New("no ContractDeployed event in receipt")
)

type DeployOptions struct {
	TxOptions
	// Funder, when set, transfers FundAmount of the fee token to the new address and waits
	// for the transfer before deploying. A nil FundAmount transfers the maximum fee.
	Funder     *Account
	FundAmount *big.Int
	// CheckBalance refuses to deploy when the balance is below the maximum fee.
	CheckBalance bool
}

// BuildDeployAccount returns the unsigned deployment of this account with zero fee limits.
func (a *Account) BuildDeployAccount(classHash, salt *felt.Felt, ctor []*felt.Felt, opts *TxOptions,
) (*rpc.Transaction, error) {
	if ctor == nil {
		ctor = []*felt.Felt{}
	}
	switch a.txVersion {
	case V1:
		return rpc.NewTransaction(&rpc.DeployAccountV1{
			MaxFee:              &felt.Zero,
			Nonce:               &felt.Zero,
			ContractAddressSalt: salt,
			ConstructorCalldata: ctor,
			ClassHash:           classHash,
		}), nil
	case V3:
		return rpc.NewTransaction(&rpc.DeployAccountV3{
			V3Fields:            a.v3Fields(&felt.Zero, opts),
			ContractAddressSalt: salt,
			ConstructorCalldata: ctor,
			ClassHash:           classHash,
		}), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedTxVersion, a.txVersion)
	}
}

// DeployAccount deploys the contract behind this account. The account address must be the
// one a zero deployer gets for classHash, salt and ctor.
func (a *Account) DeployAccount(ctx context.Context, classHash, salt *felt.Felt, ctor []*felt.Felt,
	opts *DeployOptions,
) (*rpc.AddDeployAccountResponse, error) {
	if opts == nil {
		opts = &DeployOptions{}
	}
	addr := address.ContractAddress(&felt.Zero, salt, classHash, ctor)
	if !addr.Equal(a.address) {
		return nil, fmt.Errorf("%w: computed %s, account is %s", ErrAddressMismatch, addr, a.address)
	}

	if a.manageNonce {
		a.mu.Lock()
		defer a.mu.Unlock()
	}

	tx, err := a.BuildDeployAccount(classHash, salt, ctor, &opts.TxOptions)
	if err != nil {
		return nil, err
	}
	if err = a.applyFees(ctx, tx, &opts.TxOptions); err != nil {
		return nil, err
	}
	cost, err := maxCost(tx)
	if err != nil {
		return nil, err
	}

	if opts.Funder != nil {
		amount := opts.FundAmount
		if amount == nil {
			amount = cost
		}
		if err = a.fund(ctx, opts.Funder, amount); err != nil {
			return nil, err
		}
	}
	if opts.CheckBalance {
		balance, err := a.Balance(ctx, a.FeeToken())
		if err != nil {
			return nil, err
		}
		if balance.Cmp(cost) < 0 {
			return nil, fmt.Errorf("%w: have %s, need %s", ErrInsufficientBalance, balance, cost)
		}
	}

	sub, err := a.engine.Submit(ctx, tx)
	if err != nil {
		return nil, err
	}
	if sub.ContractAddress != nil && !sub.ContractAddress.Equal(addr) {
		return nil, fmt.Errorf("%w: node deployed %s", ErrAddressMismatch, sub.ContractAddress)
	}
	if a.manageNonce {
		a.nextNonce = felt.One.Clone()
	}
	return &rpc.AddDeployAccountResponse{TransactionHash: sub.TransactionHash, ContractAddress: addr}, nil
}

func (a *Account) fund(ctx context.Context, funder *Account, amount *big.Int) error {
	resp, err := funder.Transfer(ctx, a.FeeToken(), a.address, amount, nil)
	if err != nil {
		return fmt.Errorf("fund %s: %w", a.address, err)
	}
	a.log.Infow("Funding account", "account", a.address, "amount", amount, "hash", resp.TransactionHash)
	if _, err = funder.Wait(ctx, resp.TransactionHash); err != nil {
		return fmt.Errorf("fund %s: %w", a.address, err)
	}
	return nil
}

// maxCost is the most the transaction may be charged.
func maxCost(tx *rpc.Transaction) (*big.Int, error) {
	if v3, ok := rpc.V3(tx.Body); ok {
		return MaxCost(v3.ResourceBounds), nil
	}
	switch b := tx.Body.(type) {
	case *rpc.InvokeV1:
		return b.MaxFee.BigInt(), nil
	case *rpc.DeclareV2:
		return b.MaxFee.BigInt(), nil
	case *rpc.DeployAccountV1:
		return b.MaxFee.BigInt(), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedTxVersion, tx.Body)
}

// UDCDeployment is a contract deployed through the universal deployer.
type UDCDeployment struct {
	TransactionHash *felt.Felt
	Address         *felt.Felt
}

// DeployCall builds the universal deployer call for classHash.
func DeployCall(classHash, salt *felt.Felt, ctor []*felt.Felt, unique bool) (rpc.FunctionCall, error) {
	fn := mustFunction(udcABI, "deployContract")
	if ctor == nil {
		ctor = []*felt.Felt{}
	}
	calldata, err := fn.EncodeCalldata(classHash, salt, unique, ctor)
	if err != nil {
		return rpc.FunctionCall{}, err
	}
	return rpc.FunctionCall{
		ContractAddress:    UDCAddress,
		EntryPointSelector: fn.Selector(),
		Calldata:           calldata,
	}, nil
}

// UDCAddressOf is the address the universal deployer assigns when deployer sends the call.
// Unique deployments mix the deployer into the salt.
func UDCAddressOf(classHash, salt *felt.Felt, ctor []*felt.Felt, unique bool, deployer *felt.Felt) *felt.Felt {
	if unique {
		return address.ContractAddress(UDCAddress, crypto.Pedersen(deployer, salt), classHash, ctor)
	}
	return address.ContractAddress(&felt.Zero, salt, classHash, ctor)
}

// DeployViaUDC deploys an instance of classHash through the universal deployer and waits
// for it. The address is read from the ContractDeployed event.
func (a *Account) DeployViaUDC(ctx context.Context, classHash, salt *felt.Felt, ctor []*felt.Felt,
	unique bool, opts *TxOptions,
) (*UDCDeployment, error) {
	call, err := DeployCall(classHash, salt, ctor, unique)
	if err != nil {
		return nil, err
	}
	resp, err := a.Invoke(ctx, []rpc.FunctionCall{call}, opts)
	if err != nil {
		return nil, err
	}
	result, err := a.Wait(ctx, resp.TransactionHash)
	if err != nil {
		return nil, err
	}

	ev, ok := udcABI.Event("ContractDeployed")
	if !ok {
		return nil, ErrContractDeployedEventNotFound
	}
	events := result.Receipt.EventsFrom(UDCAddress, ev.Selector)
	if len(events) == 0 || len(events[0].Data) == 0 {
		return nil, fmt.Errorf("%w: transaction %s", ErrContractDeployedEventNotFound, resp.TransactionHash)
	}
	deployed := events[0].Data[0]
	a.log.Infow("Deployed contract", "address", deployed, "class", classHash, "hash", resp.TransactionHash)
	return &UDCDeployment{TransactionHash: resp.TransactionHash, Address: deployed}, nil
}
