package uint128_test

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/NethermindEth/starkclient/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint128Bytes(t *testing.T) {
	tests := map[string]struct {
		hi, lo         uint64
		expectedBytes  []byte
		expectedString string
	}{
		"zero": {
			expectedBytes:  make([]byte, 16),
			expectedString: "0x0",
		},
		"one": {
			lo:             0x1,
			expectedBytes:  []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1},
			expectedString: "0x1",
		},
		"max": {
			hi:             0xFFFFFFFFFFFFFFFF,
			lo:             0xFFFFFFFFFFFFFFFF,
			expectedBytes:  []byte{255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255},
			expectedString: "0xffffffffffffffffffffffffffffffff",
		},
		"mixed": {
			hi:             0x123456789ABCDEF0,
			lo:             0x0123456789ABCDEF,
			expectedBytes:  []byte{18, 52, 86, 120, 154, 188, 222, 240, 1, 35, 69, 103, 137, 171, 205, 239},
			expectedString: "0x123456789abcdef00123456789abcdef",
		},
		"hi only": {
			hi:             0x1A4B7E9C2D3F5A6E,
			expectedBytes:  []byte{26, 75, 126, 156, 45, 63, 90, 110, 0, 0, 0, 0, 0, 0, 0, 0},
			expectedString: "0x1a4b7e9c2d3f5a6e0000000000000000",
		},
		"both words": {
			hi:             0x1,
			lo:             0x1,
			expectedBytes:  []byte{0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 1},
			expectedString: "0x10000000000000001",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			actual := uint128.New(test.hi, test.lo)
			assert.Equal(t, test.expectedString, actual.String())
			assert.Equal(t, test.expectedBytes, actual.Bytes())
		})
	}
}

func TestUnmarshalJSON(t *testing.T) {
	tests := map[string]struct {
		input    string
		expected uint128.Int
		wantErr  bool
	}{
		"zero":      {input: `{"max_price_per_unit": "0x0"}`},
		"small":     {input: `{"max_price_per_unit": "0x5af3107a4000"}`, expected: uint128.New(0, 0x5af3107a4000)},
		"padded":    {input: `{"max_price_per_unit": "0x00000000000000010000000000000001"}`, expected: uint128.New(1, 1)},
		"full":      {input: `{"max_price_per_unit": "0x6e58133b38301a6cdfa34ca991c4ba39"}`, expected: uint128.New(0x6e58133b38301a6c, 0xdfa34ca991c4ba39)},
		"not hex":   {input: `{"max_price_per_unit": "foobar"}`, wantErr: true},
		"empty":     {input: `{"max_price_per_unit": ""}`, wantErr: true},
		"number":    {input: `{"max_price_per_unit": 12}`, wantErr: true},
		"too large": {input: `{"max_price_per_unit": "0x100000000000000000000000000000000"}`, wantErr: true},
		"no prefix": {input: `{"max_price_per_unit": "1234"}`, wantErr: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var data struct {
				Value uint128.Int `json:"max_price_per_unit"`
			}
			err := json.Unmarshal([]byte(test.input), &data)
			if test.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, data.Value)
		})
	}
}

func TestFromBig(t *testing.T) {
	v, err := uint128.FromBig(new(big.Int).Lsh(big.NewInt(1), 100))
	require.NoError(t, err)
	assert.Equal(t, "0x10000000000000000000000000", v.String())
	assert.Equal(t, 0, v.BigInt().Cmp(new(big.Int).Lsh(big.NewInt(1), 100)))

	_, err = uint128.FromBig(big.NewInt(-1))
	require.ErrorIs(t, err, uint128.ErrOutOfRange)

	_, err = uint128.FromBig(new(big.Int).Lsh(big.NewInt(1), 128))
	require.ErrorIs(t, err, uint128.ErrOutOfRange)
}

func TestMarshalRoundTrip(t *testing.T) {
	v := uint128.New(0xabc, 0x1)
	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `"0xabc0000000000000001"`, string(b))

	var back uint128.Int
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, v, back)
}
