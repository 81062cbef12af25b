package abi_test

import (
	"math/big"
	"os"
	"testing"

	"github.com/NethermindEth/starkclient/abi"
	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/NethermindEth/starkclient/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, name string) *abi.Abi {
	t.Helper()

	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	a, err := abi.Parse(data)
	require.NoError(t, err)
	return a
}

func TestParseCairo1(t *testing.T) {
	a := load(t, "cairo1.json")
	assert.False(t, a.Legacy)

	transfer, err := a.Function("transfer")
	require.NoError(t, err)
	assert.Equal(t, "demo::IToken", transfer.Interface)
	assert.Equal(t, []abi.Param{
		{Name: "recipient", Type: abi.ContractAddress},
		{Name: "amount", Type: abi.Uint256},
	}, transfer.Inputs)
	assert.Equal(t, "0x83afd3f4caedc6eebf44246fe54e38c95e3179a5ec9ea81740eca5b482d12e", transfer.Selector().String())

	balance, err := a.Function("balance_of")
	require.NoError(t, err)
	assert.True(t, balance.IsView())

	ctor, ok := a.Constructor()
	require.True(t, ok)
	assert.Equal(t, "0x28ffe4ff0f226a9107253e17a904099aa4f63a02a5621de0576e5aa71bc5194", ctor.Selector().String())

	order := a.Types["demo::Order"]
	require.NotNil(t, order)
	assert.Equal(t, abi.KindStruct, order.Kind)
	assert.Equal(t, abi.ArrayOf(abi.Felt), order.Members[2].Type)

	place, err := a.Function("place")
	require.NoError(t, err)
	assert.Equal(t, abi.EnumRef("demo::Side"), place.Inputs[1].Type)
	assert.Equal(t, abi.OptionOf(abi.ByteArray), place.Inputs[2].Type)
	assert.Equal(t, abi.TupleOf(abi.Felt, abi.Int(8)), place.Inputs[3].Type)

	_, err = a.Function("missing")
	require.ErrorIs(t, err, abi.ErrFunctionNotFound)
}

func TestParseLegacy(t *testing.T) {
	a := load(t, "legacy.json")
	assert.True(t, a.Legacy)

	set, err := a.Function("set_points")
	require.NoError(t, err)
	assert.Equal(t, []abi.Param{
		{Name: "points", Type: abi.ArrayOf(abi.StructRef("Point"))},
		{Name: "amount", Type: abi.Uint256},
	}, set.Inputs)

	pair, err := a.Function("get_pair")
	require.NoError(t, err)
	assert.Equal(t, abi.Type{Kind: abi.KindTuple, Elems: []abi.Type{abi.Felt, abi.Felt}, Names: []string{"x", "y"}},
		pair.Outputs[1].Type)
}

func TestParseSierraString(t *testing.T) {
	a, err := abi.Parse([]byte(`"[{\"type\":\"function\",\"name\":\"get\",\"inputs\":[],\"outputs\":[{\"type\":\"core::felt252\"}],\"state_mutability\":\"view\"}]"`))
	require.NoError(t, err)
	_, err = a.Function("get")
	require.NoError(t, err)
}

func TestParseErrors(t *testing.T) {
	tests := map[string]struct {
		doc  string
		want error
	}{
		"undefined type": {
			doc:  `[{"type":"function","name":"f","inputs":[{"name":"x","type":"demo::Missing"}],"outputs":[],"state_mutability":"view"}]`,
			want: abi.ErrTypeNotFound,
		},
		"recursive struct": {
			doc:  `[{"type":"struct","name":"demo::Node","members":[{"name":"next","type":"demo::Node"}]}]`,
			want: abi.ErrAbiParse,
		},
		"recursive through a tuple": {
			doc:  `[{"type":"struct","name":"demo::Node","members":[{"name":"next","type":"(core::felt252, demo::Node)"}]}]`,
			want: abi.ErrAbiParse,
		},
		"legacy array without length": {
			doc:  `[{"type":"function","name":"f","inputs":[{"name":"xs","type":"felt*"}],"outputs":[]}]`,
			want: abi.ErrAbiParse,
		},
		"unknown entry": {
			doc:  `[{"type":"storage","name":"s","state_mutability":"view"}]`,
			want: abi.ErrAbiParse,
		},
		"not json": {
			doc:  `{`,
			want: abi.ErrAbiParse,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := abi.Parse([]byte(test.doc))
			require.ErrorIs(t, err, test.want)
		})
	}

	t.Run("recursion through an array is allowed", func(t *testing.T) {
		_, err := abi.Parse([]byte(`[{"type":"struct","name":"demo::Node","members":[{"name":"children","type":"core::array::Array::<demo::Node>"}]}]`))
		require.NoError(t, err)
	})

	t.Run("missing type is named", func(t *testing.T) {
		_, err := abi.Parse([]byte(tests["undefined type"].doc))
		var notFound *abi.TypeNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "demo::Missing", notFound.Name)
	})
}

func TestSelectorFromName(t *testing.T) {
	assert.True(t, abi.SelectorFromName("__default__").IsZero())
	assert.True(t, abi.SelectorFromName("__l1_default__").IsZero())
	assert.Equal(t, "0x2e4263afad30923c891518314c3c95dbe830a16874e8abc5777a9a20b54c76e",
		abi.SelectorFromName("balanceOf").String())
}

func TestEncodeCalldata(t *testing.T) {
	a := load(t, "cairo1.json")
	place, err := a.Function("place")
	require.NoError(t, err)

	got, err := place.EncodeCalldata(
		map[string]any{"id": "0x1", "price": uint64(5), "tags": []*felt.Felt{felt.NewFromUint64(7), felt.NewFromUint64(8)}},
		abi.EnumValue{Variant: "Sell", Value: 3},
		abi.Some("hi"),
		[]any{2, -1},
	)
	require.NoError(t, err)
	assert.Equal(t, utils.HexToFelts(t,
		"0x1", "0x5", "0x2", "0x7", "0x8",
		"0x1", "0x3",
		"0x1", "0x0", "0x6869", "0x2",
		"0x2", "0x800000000000011000000000000000000000000000000000000000000000000",
	), got)

	t.Run("u256 splits into low and high", func(t *testing.T) {
		transfer, err := a.Function("transfer")
		require.NoError(t, err)
		amount := new(big.Int).Add(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(5))
		got, err := transfer.EncodeCalldataMap(map[string]any{"recipient": "0x123", "amount": amount})
		require.NoError(t, err)
		assert.Equal(t, utils.HexToFelts(t, "0x123", "0x5", "0x1"), got)
	})

	t.Run("go structs use abi tags", func(t *testing.T) {
		type order struct {
			ID    *felt.Felt   `abi:"id"`
			Price uint64       `abi:"price"`
			Tags  []*felt.Felt `abi:"tags"`
		}
		got, err := place.EncodeCalldata(
			&order{ID: felt.NewFromUint64(1), Price: 5},
			abi.EnumValue{Variant: "Buy"},
			nil,
			[2]int{1, 2},
		)
		require.NoError(t, err)
		assert.Equal(t, utils.HexToFelts(t, "0x1", "0x5", "0x0", "0x0", "0x0", "0x1", "0x2"), got)
	})
}

func TestEncodeErrors(t *testing.T) {
	a := load(t, "cairo1.json")
	place, err := a.Function("place")
	require.NoError(t, err)
	order := map[string]any{"id": 1, "price": 5, "tags": []any{}}

	tests := map[string]struct {
		args  []any
		field string
	}{
		"missing member": {
			args:  []any{map[string]any{"id": 1, "tags": []any{}}, abi.EnumValue{Variant: "Buy"}, nil, []any{1, 1}},
			field: "order.price",
		},
		"unknown member": {
			args:  []any{map[string]any{"id": 1, "price": 5, "tags": []any{}, "extra": 1}, abi.EnumValue{Variant: "Buy"}, nil, []any{1, 1}},
			field: "order",
		},
		"bad array element": {
			args:  []any{map[string]any{"id": 1, "price": 5, "tags": []any{1, "zz"}}, abi.EnumValue{Variant: "Buy"}, nil, []any{1, 1}},
			field: "order.tags[1]",
		},
		"u8 out of range": {
			args:  []any{order, abi.EnumValue{Variant: "Sell", Value: 256}, nil, []any{1, 1}},
			field: "side.Sell",
		},
		"unknown variant": {
			args:  []any{order, abi.EnumValue{Variant: "Hold"}, nil, []any{1, 1}},
			field: "side",
		},
		"option needs abi.Option": {
			args:  []any{order, abi.EnumValue{Variant: "Buy"}, "hi", []any{1, 1}},
			field: "note",
		},
		"i8 out of range": {
			args:  []any{order, abi.EnumValue{Variant: "Buy"}, nil, []any{1, -129}},
			field: "pair.1",
		},
		"tuple arity": {
			args:  []any{order, abi.EnumValue{Variant: "Buy"}, nil, []any{1}},
			field: "pair",
		},
		"negative felt": {
			args:  []any{map[string]any{"id": -1, "price": 5, "tags": []any{}}, abi.EnumValue{Variant: "Buy"}, nil, []any{1, 1}},
			field: "order.id",
		},
		"argument count": {
			args:  []any{order},
			field: "",
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := place.EncodeCalldata(test.args...)
			var encErr *abi.EncodeError
			require.ErrorAs(t, err, &encErr)
			require.ErrorIs(t, err, abi.ErrEncode)
			assert.Equal(t, test.field, encErr.Field)
		})
	}

	t.Run("bool must be a bool", func(t *testing.T) {
		_, err := a.Encode(abi.Bool, 1)
		require.ErrorIs(t, err, abi.ErrEncode)
	})
}

func TestRoundTrip(t *testing.T) {
	a := load(t, "cairo1.json")
	long := "a string that is longer than a single thirty one byte word"

	tests := map[string]struct {
		typ   abi.Type
		value any
	}{
		"felt":         {abi.Felt, felt.NewFromUint64(42)},
		"bool":         {abi.Bool, true},
		"u64":          {abi.Uint(64), big.NewInt(1 << 40)},
		"i128":         {abi.Int(128), big.NewInt(-12345)},
		"u256":         {abi.Uint256, new(big.Int).Lsh(big.NewInt(3), 200)},
		"byte array":   {abi.ByteArray, long},
		"empty string": {abi.ByteArray, ""},
		"array":        {abi.ArrayOf(abi.Uint(8)), []any{big.NewInt(1), big.NewInt(2)}},
		"option none":  {abi.OptionOf(abi.Felt), abi.None()},
		"option some":  {abi.OptionOf(abi.Felt), abi.Some(felt.NewFromUint64(9))},
		"struct": {abi.StructRef("demo::Order"), map[string]any{
			"id": felt.NewFromUint64(1), "price": big.NewInt(2), "tags": []any{felt.NewFromUint64(3)},
		}},
		"enum":  {abi.EnumRef("demo::Side"), abi.EnumValue{Variant: "Sell", Value: big.NewInt(4)}},
		"tuple": {abi.TupleOf(abi.Felt, abi.Bool), []any{felt.NewFromUint64(5), false}},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			data, err := a.Encode(test.typ, test.value)
			require.NoError(t, err)
			decoded, err := a.Decode(test.typ, data)
			require.NoError(t, err)
			again, err := a.Encode(test.typ, decoded)
			require.NoError(t, err)
			assert.Equal(t, data, again)
		})
	}

	t.Run("signed values come back negative", func(t *testing.T) {
		data, err := a.Encode(abi.Int(8), -5)
		require.NoError(t, err)
		v, err := a.Decode(abi.Int(8), data)
		require.NoError(t, err)
		assert.Equal(t, 0, big.NewInt(-5).Cmp(v.(*big.Int)))
	})
}

func TestByteArrayLayout(t *testing.T) {
	assert.Equal(t, utils.HexToFelts(t, "0x0", "0x68656c6c6f", "0x5"), abi.EncodeByteArray([]byte("hello")))
	assert.Equal(t, utils.HexToFelts(t, "0x1", "0x6162636465666768696a6b6c6d6e6f707172737475767778797a3031323334", "0x0", "0x0"),
		abi.EncodeByteArray([]byte("abcdefghijklmnopqrstuvwxyz01234")))

	a := &abi.Abi{}
	v, err := a.Decode(abi.ByteArray, utils.HexToFelts(t, "0x0", "0x68656c6c6f", "0x5"))
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	_, err = a.Decode(abi.ByteArray, utils.HexToFelts(t, "0x0", "0x68656c6c6f", "0x2"))
	require.ErrorIs(t, err, abi.ErrDecode)
}

func TestDecodeOutput(t *testing.T) {
	a := load(t, "cairo1.json")

	balance, err := a.Function("balance_of")
	require.NoError(t, err)
	v, err := balance.DecodeOutput(utils.HexToFelts(t, "0x10", "0x1"))
	require.NoError(t, err)
	values := v.([]any)
	require.Len(t, values, 1)
	want := new(big.Int).Add(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(16))
	assert.Equal(t, 0, want.Cmp(values[0].(*big.Int)))

	tests := map[string]struct {
		fn       string
		data     []string
		position int
	}{
		"bool out of range": {fn: "transfer", data: []string{"0x2"}, position: 0},
		"left over data":    {fn: "balance_of", data: []string{"0x1", "0x0", "0x9"}, position: 2},
		"truncated":         {fn: "balance_of", data: []string{"0x1"}, position: 1},
		"array too long":    {fn: "orders", data: []string{"0x5", "0x1"}, position: 0},
		"limb too wide":     {fn: "balance_of", data: []string{"0x100000000000000000000000000000000", "0x0"}, position: 0},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			f, err := a.Function(test.fn)
			require.NoError(t, err)
			_, err = f.DecodeOutput(utils.HexToFelts(t, test.data...))
			var decErr *abi.DecodeError
			require.ErrorAs(t, err, &decErr)
			assert.Equal(t, test.position, decErr.Position)
		})
	}

	t.Run("named legacy outputs", func(t *testing.T) {
		legacy := load(t, "legacy.json")
		pair, err := legacy.Function("get_pair")
		require.NoError(t, err)
		v, err := pair.DecodeOutput(utils.HexToFelts(t, "0x5", "0x6", "0x7"))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"a": felt.NewFromUint64(5),
			"b": []any{felt.NewFromUint64(6), felt.NewFromUint64(7)},
		}, v)
	})

	t.Run("into go values", func(t *testing.T) {
		type order struct {
			ID    *felt.Felt `abi:"id"`
			Price uint32     `abi:"price"`
			Tags  []uint64   `abi:"tags"`
		}
		orders, err := a.Function("orders")
		require.NoError(t, err)
		var out []order
		require.NoError(t, orders.DecodeOutputInto(utils.HexToFelts(t, "0x1", "0x9", "0x7", "0x2", "0x3", "0x4"), &out))
		assert.Equal(t, []order{{ID: felt.NewFromUint64(9), Price: 7, Tags: []uint64{3, 4}}}, out)

		var small uint8
		err = abi.Assign(big.NewInt(300), &small)
		require.Error(t, err)
	})
}

func TestLegacyEncode(t *testing.T) {
	a := load(t, "legacy.json")
	set, err := a.Function("set_points")
	require.NoError(t, err)

	got, err := set.EncodeCalldata([]any{map[string]any{"x": 1, "y": 2}}, 7)
	require.NoError(t, err)
	assert.Equal(t, utils.HexToFelts(t, "0x1", "0x1", "0x2", "0x7", "0x0"), got)
}

func TestDecodeEvent(t *testing.T) {
	a := load(t, "cairo1.json")
	keys := []*felt.Felt{abi.SelectorFromName("Transfer"), felt.NewFromUint64(0xa), felt.NewFromUint64(0xb)}

	ev, err := a.DecodeEvent(keys, utils.HexToFelts(t, "0x10", "0x0"))
	require.NoError(t, err)
	assert.Equal(t, "demo::Transfer", ev.Name)
	assert.Equal(t, felt.NewFromUint64(0xa), ev.Fields["from"])
	assert.Equal(t, felt.NewFromUint64(0xb), ev.Fields["to"])
	assert.Equal(t, 0, big.NewInt(16).Cmp(ev.Fields["value"].(*big.Int)))

	_, err = a.DecodeEvent([]*felt.Felt{abi.SelectorFromName("Approval")}, nil)
	require.ErrorIs(t, err, abi.ErrEventNotFound)

	_, err = a.DecodeEvent(keys, utils.HexToFelts(t, "0x10"))
	require.ErrorIs(t, err, abi.ErrDecode)

	t.Run("legacy events decode from data", func(t *testing.T) {
		legacy := load(t, "legacy.json")
		ev, err := legacy.DecodeEvent([]*felt.Felt{abi.SelectorFromName("Moved")}, utils.HexToFelts(t, "0x3", "0x4"))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"pos": map[string]any{"x": felt.NewFromUint64(3), "y": felt.NewFromUint64(4)}}, ev.Fields)
	})
}
