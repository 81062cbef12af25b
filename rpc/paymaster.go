package rpc

import (
	"encoding/json"

	"github.com/NethermindEth/starkclient/core/felt"
)

type PaymasterCall struct {
	To       *felt.Felt   `json:"to"`
	Selector *felt.Felt   `json:"selector"`
	Calldata []*felt.Felt `json:"calldata"`
}

type UserInvoke struct {
	UserAddress *felt.Felt      `json:"user_address"`
	Calls       []PaymasterCall `json:"calls"`
}

type AccountDeployment struct {
	Address   *felt.Felt   `json:"address"`
	ClassHash *felt.Felt   `json:"class_hash"`
	Salt      *felt.Felt   `json:"salt"`
	Calldata  []*felt.Felt `json:"calldata"`
	SigData   []*felt.Felt `json:"sigdata,omitempty"`
	Version   uint8        `json:"version"`
}

type UserTransactionType uint8

const (
	UserInvokeType UserTransactionType = iota + 1
	UserDeployType
	UserDeployAndInvokeType
)

var userTransactionTypes = newEnum("user transaction type", map[UserTransactionType]string{
	UserInvokeType:          "invoke",
	UserDeployType:          "deploy",
	UserDeployAndInvokeType: "deploy_and_invoke",
}, nil)

func (t UserTransactionType) MarshalJSON() ([]byte, error) { return userTransactionTypes.marshal(t) }

func (t *UserTransactionType) UnmarshalJSON(data []byte) (err error) {
	*t, err = userTransactionTypes.unmarshal(data)
	return err
}

// UserTransaction is what a paymaster is asked to sponsor. Deployment is set for deploy
// and deploy_and_invoke, Invoke for invoke and deploy_and_invoke.
type UserTransaction struct {
	Type       UserTransactionType `json:"type"`
	Deployment *AccountDeployment  `json:"deployment,omitempty"`
	Invoke     *UserInvoke         `json:"invoke,omitempty"`
}

func (u *UserTransaction) UnmarshalJSON(data []byte) error {
	type plain UserTransaction
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return asSchemaError(err)
	}
	needDeployment := decoded.Type == UserDeployType || decoded.Type == UserDeployAndInvokeType
	needInvoke := decoded.Type == UserInvokeType || decoded.Type == UserDeployAndInvokeType
	switch {
	case decoded.Type == 0:
		return schemaErrorf("type", "missing user transaction type")
	case needDeployment != (decoded.Deployment != nil):
		return schemaErrorf("deployment", "deployment does not match user transaction type")
	case needInvoke != (decoded.Invoke != nil):
		return schemaErrorf("invoke", "invoke does not match user transaction type")
	}
	*u = UserTransaction(decoded)
	return nil
}

func (u *UserTransaction) wireParts() []any {
	return []any{(*userTransactionFields)(u)}
}

type userTransactionFields UserTransaction
