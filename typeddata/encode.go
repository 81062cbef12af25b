package typeddata

import (
	"encoding/json"
	"math/big"
	"reflect"
	"sort"
	"strings"

	"github.com/NethermindEth/starkclient/abi"
	"github.com/NethermindEth/starkclient/core/crypto"
	"github.com/NethermindEth/starkclient/core/felt"
)

var (
	u128Bound = new(big.Int).Lsh(big.NewInt(1), 128)
	i128Min   = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	i128Max   = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
)

// EncodeType renders the type string of name followed by every type it depends on.
func (td *TypedData) EncodeType(name string) (string, error) {
	if _, ok := td.lookup(name); !ok {
		return "", errorf("type %q is not defined", name)
	}

	var b strings.Builder
	for _, dep := range td.dependencies(name) {
		fields, _ := td.lookup(dep)
		b.WriteString(td.escape(dep))
		b.WriteByte('(')
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			target := f.Type
			if td.revision == V1 && f.Type == "enum" {
				target = f.Contains
			}
			b.WriteString(td.escape(f.Name))
			b.WriteByte(':')
			if td.revision == V1 && isTuple(target) {
				parts := strings.Split(target[1:len(target)-1], ",")
				for j, part := range parts {
					if part != "" {
						parts[j] = td.escape(part)
					}
				}
				b.WriteString("(" + strings.Join(parts, ",") + ")")
			} else {
				b.WriteString(td.escape(target))
			}
		}
		b.WriteByte(')')
	}
	return b.String(), nil
}

func (td *TypedData) escape(s string) string {
	if td.revision == V1 {
		return `"` + s + `"`
	}
	return s
}

// dependencies lists name first and then the struct types it reaches, sorted.
func (td *TypedData) dependencies(name string) []string {
	seen := map[string]bool{name: true}
	var deps []string
	var visit func(f Field)
	visit = func(f Field) {
		for _, dep := range td.referenced(f) {
			fields, ok := td.lookup(dep)
			if !ok || seen[dep] {
				continue
			}
			seen[dep] = true
			deps = append(deps, dep)
			for _, sub := range fields {
				visit(sub)
			}
		}
	}
	fields, _ := td.lookup(name)
	for _, f := range fields {
		visit(f)
	}
	sort.Strings(deps)
	return append([]string{name}, deps...)
}

func (td *TypedData) referenced(f Field) []string {
	switch {
	case td.revision == V1 && f.Type == "enum":
		return []string{f.Contains}
	case td.revision == V1 && isTuple(f.Type):
		parts := tupleParts(f.Type)
		for i, part := range parts {
			parts[i] = strings.TrimSuffix(part, "*")
		}
		return parts
	}
	return []string{strings.TrimSuffix(f.Type, "*")}
}

func (td *TypedData) TypeHash(name string) (*felt.Felt, error) {
	enc, err := td.EncodeType(name)
	if err != nil {
		return nil, err
	}
	return crypto.StarknetKeccak([]byte(enc)), nil
}

// StructHash hashes the type hash of name together with the encoding of every field of
// data, in declaration order.
func (td *TypedData) StructHash(name string, data map[string]any) (*felt.Felt, error) {
	fields, ok := td.lookup(name)
	if !ok {
		return nil, errorf("type %q is not defined", name)
	}
	typeHash, err := td.TypeHash(name)
	if err != nil {
		return nil, err
	}

	elems := make([]*felt.Felt, 0, len(fields)+1)
	elems = append(elems, typeHash)
	for _, f := range fields {
		v, ok := data[f.Name]
		if !ok {
			return nil, errorf("%s has no value for %s", name, f.Name)
		}
		enc, err := td.encodeValue(f.Type, v, &f)
		if err != nil {
			return nil, err
		}
		elems = append(elems, enc)
	}
	return td.hash(elems...), nil
}

// encodeValue turns one value into a felt. field is the struct field being encoded, nil
// for array elements.
func (td *TypedData) encodeValue(typ string, v any, field *Field) (*felt.Felt, error) {
	if _, ok := td.lookup(typ); ok {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, errorf("%s value must be an object, got %T", typ, v)
		}
		return td.StructHash(typ, m)
	}

	if elem, ok := strings.CutSuffix(typ, "*"); ok {
		items, ok := asList(v)
		if !ok {
			return nil, errorf("%s value must be an array, got %T", typ, v)
		}
		hashes := make([]*felt.Felt, 0, len(items))
		for _, item := range items {
			h, err := td.encodeValue(elem, item, nil)
			if err != nil {
				return nil, err
			}
			hashes = append(hashes, h)
		}
		return td.hash(hashes...), nil
	}

	switch typ {
	case "merkletree":
		return td.merkleValue(v, field)
	case "selector":
		s, ok := v.(string)
		if !ok {
			return nil, errorf("selector value must be a string, got %T", v)
		}
		if digits, ok := cutHexPrefix(s); ok {
			return felt.FromHex("0x" + digits)
		}
		return abi.SelectorFromName(s), nil
	}

	if td.revision == V0 {
		return td.integer(typ, v)
	}

	switch typ {
	case "enum":
		return td.enumValue(v, field)
	case "string":
		s, ok := v.(string)
		if !ok {
			return nil, errorf("string value must be a string, got %T", v)
		}
		return crypto.PoseidonArray(abi.EncodeByteArray([]byte(s))...), nil
	case "i128":
		n, err := toBigInt(v)
		if err != nil {
			return nil, err
		}
		if n.Cmp(i128Min) < 0 || n.Cmp(i128Max) > 0 {
			return nil, &RangeError{Type: typ, Value: n}
		}
		return new(felt.Felt).SetBigInt(n), nil
	case "u128", "timestamp":
		n, err := toBigInt(v)
		if err != nil {
			return nil, err
		}
		if n.Sign() < 0 || n.Cmp(u128Bound) >= 0 {
			return nil, &RangeError{Type: typ, Value: n}
		}
		return new(felt.Felt).SetBigInt(n), nil
	case "bool":
		n, err := toBigInt(v)
		if err != nil {
			return nil, err
		}
		if n.Sign() < 0 || n.Cmp(big.NewInt(1)) > 0 {
			return nil, &RangeError{Type: typ, Value: n}
		}
		return new(felt.Felt).SetBigInt(n), nil
	case "felt", "shortstring", "ContractAddress", "ClassHash":
		return td.integer(typ, v)
	}
	return nil, errorf("unsupported type %q", typ)
}

func (td *TypedData) integer(typ string, v any) (*felt.Felt, error) {
	n, err := toBigInt(v)
	if err != nil {
		return nil, err
	}
	f, err := felt.FromBigInt(n)
	if err != nil {
		return nil, &RangeError{Type: typ, Value: n}
	}
	return f, nil
}

func (td *TypedData) enumValue(v any, field *Field) (*felt.Felt, error) {
	if field == nil {
		return nil, errorf("enum values are only allowed as struct members")
	}
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return nil, errorf("%s value must be an object with exactly one variant", field.Name)
	}
	variants, ok := td.lookup(field.Contains)
	if !ok {
		return nil, errorf("enum type %q is not defined", field.Contains)
	}

	var (
		name    string
		payload any
	)
	for name, payload = range m {
	}

	idx := -1
	for i, variant := range variants {
		if variant.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, errorf("%s has no variant %q", field.Contains, name)
	}
	variant := variants[idx]
	if !isTuple(variant.Type) {
		return nil, errorf("%s.%s variant type must be a tuple", field.Contains, name)
	}
	parts := tupleParts(variant.Type)
	items, _ := asList(payload)
	if len(items) != len(parts) {
		return nil, errorf("%s.%s takes %d values, got %d", field.Contains, name, len(parts), len(items))
	}

	elems := []*felt.Felt{felt.NewFromUint64(uint64(idx))}
	for i, part := range parts {
		enc, err := td.encodeValue(part, items[i], nil)
		if err != nil {
			return nil, err
		}
		elems = append(elems, enc)
	}
	if len(parts) == 0 {
		// a unit variant hashes its index with a zero
		elems = append(elems, &felt.Zero)
	}
	return td.hash(elems...), nil
}

func (td *TypedData) merkleValue(v any, field *Field) (*felt.Felt, error) {
	if field == nil || field.Contains == "" {
		return nil, errorf("merkletree values need a contains type")
	}
	items, ok := asList(v)
	if !ok {
		return nil, errorf("%s value must be an array, got %T", field.Name, v)
	}
	leaves := make([]*felt.Felt, 0, len(items))
	for _, item := range items {
		leaf, err := td.encodeValue(field.Contains, item, nil)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, leaf)
	}
	return MerkleRoot(td.revision, leaves)
}

func asList(v any) ([]any, bool) {
	switch v := v.(type) {
	case nil:
		return nil, true
	case []any:
		return v, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// toBigInt reads numbers, booleans and strings. Strings that are not integers are taken
// as short strings. The empty string is zero.
func toBigInt(v any) (*big.Int, error) {
	switch v := v.(type) {
	case bool:
		if v {
			return big.NewInt(1), nil
		}
		return new(big.Int), nil
	case json.Number:
		return stringInt(v.String())
	case string:
		return stringInt(v)
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case float64:
		n, acc := big.NewFloat(v).Int(nil)
		if acc != big.Exact {
			return nil, errorf("%v is not an integer", v)
		}
		return n, nil
	case *big.Int:
		return new(big.Int).Set(v), nil
	case *felt.Felt:
		return v.BigInt(), nil
	case felt.Felt:
		return v.BigInt(), nil
	}
	return nil, errorf("cannot encode %T as an integer", v)
}

func stringInt(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	if !strings.Contains(s, "_") {
		if n, ok := new(big.Int).SetString(s, 0); ok {
			return n, nil
		}
	}
	f, err := felt.FromShortString(s)
	if err != nil {
		return nil, errorf("%q is neither an integer nor a short string", s)
	}
	return f.BigInt(), nil
}

// cutHexPrefix accepts either case of the 0x prefix, as wallets send both.
func cutHexPrefix(s string) (string, bool) {
	if len(s) < 2 || s[0] != '0' || (s[1] != 'x' && s[1] != 'X') {
		return "", false
	}
	return s[2:], true
}
