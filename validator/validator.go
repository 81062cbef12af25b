package validator

import (
	"reflect"
	"sync"

	"github.com/NethermindEth/starkclient/core/address"
	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/NethermindEth/starkclient/rpc"
	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate
)

// validateFelt accepts hex strings that parse as a field element. Felt fields reach it as
// strings through the custom type func below.
func validateFelt(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := felt.FromHex(s)
	return err == nil
}

// validateAddress accepts felts below the contract address bound.
func validateAddress(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	f, err := felt.FromHex(s)
	return err == nil && f.BigInt().Cmp(address.Bound) < 0
}

// Validator returns a singleton that can be used to validate various objects
func Validator() *validator.Validate {
	once.Do(func() {
		v = validator.New()

		if err := v.RegisterValidation("felt", validateFelt); err != nil {
			panic("failed to register validation: " + err.Error())
		}

		if err := v.RegisterValidation("address", validateAddress); err != nil {
			panic("failed to register validation: " + err.Error())
		}

		// Register these types to use their string representation for validation
		// purposes
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			switch f := field.Interface().(type) {
			case felt.Felt:
				return f.String()
			case *felt.Felt:
				return f.String()
			}
			panic("not a felt")
		}, felt.Felt{}, &felt.Felt{})
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if t, ok := field.Interface().(rpc.TransactionType); ok {
				return t.String()
			}
			panic("not an rpc TransactionType")
		}, rpc.TransactionType(0))
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if id, ok := field.Interface().(rpc.BlockID); ok {
				return id.String()
			}
			panic("not an rpc BlockID")
		}, rpc.BlockID{})
	})
	return v
}
