package rpc_test

import (
	"encoding/json"
	"testing"

	"github.com/NethermindEth/starkclient/rpc"
	"github.com/NethermindEth/starkclient/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassDispatch(t *testing.T) {
	t.Run("sierra", func(t *testing.T) {
		doc := `{
			"sierra_program": ["0x1", "0x2"],
			"contract_class_version": "0.1.0",
			"entry_points_by_type": {"CONSTRUCTOR": [], "EXTERNAL": [{"selector": "0x5", "function_idx": 1}], "L1_HANDLER": []},
			"abi": "[]"
		}`
		var class rpc.Class
		require.NoError(t, json.Unmarshal([]byte(doc), &class))
		require.NotNil(t, class.Sierra)
		assert.Nil(t, class.Deprecated)
		assert.Equal(t, uint64(1), class.Sierra.EntryPoints.External[0].Index)
		assert.Equal(t, []byte("[]"), class.ABI())

		out, err := json.Marshal(class)
		require.NoError(t, err)
		assert.JSONEq(t, doc, string(out))
	})
	t.Run("deprecated", func(t *testing.T) {
		program, err := utils.Gzip64Encode([]byte(`{"data":[]}`))
		require.NoError(t, err)
		doc := `{
			"program": "` + program + `",
			"entry_points_by_type": {"CONSTRUCTOR": [], "EXTERNAL": [{"selector": "0x5", "offset": "0x3a"}], "L1_HANDLER": []},
			"abi": [{"type": "function", "name": "f", "inputs": [], "outputs": []}]
		}`
		var class rpc.Class
		require.NoError(t, json.Unmarshal([]byte(doc), &class))
		require.NotNil(t, class.Deprecated)
		assert.Nil(t, class.Sierra)

		decoded, err := class.Deprecated.DecodeProgram()
		require.NoError(t, err)
		assert.JSONEq(t, `{"data":[]}`, string(decoded))
	})
	t.Run("neither", func(t *testing.T) {
		var class rpc.Class
		var schemaErr *rpc.SchemaError
		require.ErrorAs(t, json.Unmarshal([]byte(`{"abi":"[]"}`), &class), &schemaErr)
	})
}

func TestMerkleNodeDispatch(t *testing.T) {
	var binary rpc.MerkleNode
	require.NoError(t, json.Unmarshal([]byte(`{"left":"0x1","right":"0x2"}`), &binary))
	require.NotNil(t, binary.Binary)
	assert.Nil(t, binary.Edge)

	var edge rpc.MerkleNode
	require.NoError(t, json.Unmarshal([]byte(`{"path":"0x5","length":3,"child":"0x2"}`), &edge))
	require.NotNil(t, edge.Edge)
	assert.Equal(t, uint8(3), edge.Edge.Length)

	out, err := json.Marshal(edge)
	require.NoError(t, err)
	assert.JSONEq(t, `{"path":"0x5","length":3,"child":"0x2"}`, string(out))

	for name, doc := range map[string]string{
		"mixed":   `{"left":"0x1","child":"0x2"}`,
		"partial": `{"left":"0x1"}`,
		"extra":   `{"left":"0x1","right":"0x2","path":"0x0"}`,
	} {
		t.Run(name, func(t *testing.T) {
			var node rpc.MerkleNode
			var schemaErr *rpc.SchemaError
			require.ErrorAs(t, json.Unmarshal([]byte(doc), &node), &schemaErr)
		})
	}
}

func TestTraceDispatch(t *testing.T) {
	t.Run("reverted invoke", func(t *testing.T) {
		doc := `{"type":"INVOKE","execute_invocation":{"revert_reason":"out of gas"}}`
		var trace rpc.TransactionTrace
		require.NoError(t, json.Unmarshal([]byte(doc), &trace))
		invoke, ok := trace.Body.(*rpc.InvokeTrace)
		require.True(t, ok)
		assert.True(t, invoke.ExecuteInvocation.IsReverted())
		assert.Equal(t, "out of gas", invoke.ExecuteInvocation.RevertReason)

		out, err := json.Marshal(trace)
		require.NoError(t, err)
		assert.JSONEq(t, doc, string(out))
	})
	t.Run("deploy account", func(t *testing.T) {
		doc := `{"type":"DEPLOY_ACCOUNT","constructor_invocation":{"contract_address":"0x1","caller_address":"0x0","calldata":[],"result":[],"calls":[],"events":[],"messages":[],"is_reverted":false}}`
		var trace rpc.TransactionTrace
		require.NoError(t, json.Unmarshal([]byte(doc), &trace))
		deploy, ok := trace.Body.(*rpc.DeployAccountTrace)
		require.True(t, ok)
		assert.Equal(t, utils.HexToFelt(t, "0x1"), deploy.ConstructorInvocation.ContractAddress)
	})
	t.Run("no deploy traces", func(t *testing.T) {
		var trace rpc.TransactionTrace
		var schemaErr *rpc.SchemaError
		require.ErrorAs(t, json.Unmarshal([]byte(`{"type":"DEPLOY"}`), &trace), &schemaErr)
	})
}

func TestSubscriptionID(t *testing.T) {
	for name, doc := range map[string]string{
		"number":         `42`,
		"decimal string": `"42"`,
		"hex string":     `"0x2a"`,
	} {
		t.Run(name, func(t *testing.T) {
			var id rpc.SubscriptionID
			require.NoError(t, json.Unmarshal([]byte(doc), &id))
			assert.Equal(t, rpc.SubscriptionID(42), id)
		})
	}

	out, err := json.Marshal(rpc.SubscriptionID(42))
	require.NoError(t, err)
	assert.Equal(t, `"42"`, string(out))
}

func TestParseNotification(t *testing.T) {
	schema := rpc.NewSchema(rpc.UnknownFieldsReject)

	n, err := schema.ParseNotification(rpc.MethodReorg, []byte(`{"subscription_id":"7","result":{
		"starting_block_hash":"0x1","starting_block_number":10,"ending_block_hash":"0x2","ending_block_number":12}}`))
	require.NoError(t, err)
	reorg, ok := n.(*rpc.ReorgNotification)
	require.True(t, ok)
	assert.Equal(t, rpc.SubscriptionID(7), reorg.SubscriptionID)
	assert.Equal(t, uint64(12), reorg.Result.EndBlockNum)

	n, err = schema.ParseNotification(rpc.MethodPendingTransactions, []byte(`{"subscription_id":1,"result":"0xabc"}`))
	require.NoError(t, err)
	pending := n.(*rpc.PendingTransactionNotification)
	assert.Equal(t, utils.HexToFelt(t, "0xabc"), pending.Result.Hash)
	assert.Nil(t, pending.Result.Transaction)

	_, err = schema.ParseNotification("starknet_subscriptionUnknown", []byte(`{}`))
	var schemaErr *rpc.SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestSyncState(t *testing.T) {
	var state rpc.SyncState
	require.NoError(t, json.Unmarshal([]byte(`false`), &state))
	assert.False(t, state.Syncing)

	doc := `{"starting_block_hash":"0x1","starting_block_num":1,"current_block_hash":"0x2","current_block_num":2,"highest_block_hash":"0x3","highest_block_num":3}`
	require.NoError(t, json.Unmarshal([]byte(doc), &state))
	assert.True(t, state.Syncing)
	assert.Equal(t, uint64(3), state.Status.HighestBlockNumber)

	out, err := json.Marshal(rpc.SyncState{})
	require.NoError(t, err)
	assert.Equal(t, "false", string(out))
}

func TestUserTransaction(t *testing.T) {
	tests := map[string]struct {
		json string
		want rpc.UserTransactionType
		ok   bool
	}{
		"invoke": {
			json: `{"type":"invoke","invoke":{"user_address":"0x1","calls":[{"to":"0x2","selector":"0x3","calldata":[]}]}}`,
			want: rpc.UserInvokeType, ok: true,
		},
		"deploy": {
			json: `{"type":"deploy","deployment":{"address":"0x1","class_hash":"0x2","salt":"0x3","calldata":[],"version":1}}`,
			want: rpc.UserDeployType, ok: true,
		},
		"deploy_and_invoke": {
			json: `{"type":"deploy_and_invoke","deployment":{"address":"0x1","class_hash":"0x2","salt":"0x3","calldata":[],"version":1},"invoke":{"user_address":"0x1","calls":[]}}`,
			want: rpc.UserDeployAndInvokeType, ok: true,
		},
		"deploy without deployment": {json: `{"type":"deploy"}`},
		"invoke with deployment": {
			json: `{"type":"invoke","invoke":{"user_address":"0x1","calls":[]},"deployment":{"address":"0x1","class_hash":"0x2","salt":"0x3","calldata":[],"version":1}}`,
		},
		"unknown type": {json: `{"type":"transfer"}`},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var tx rpc.UserTransaction
			err := rpc.NewSchema(rpc.UnknownFieldsReject).Unmarshal([]byte(test.json), &tx)
			if !test.ok {
				var schemaErr *rpc.SchemaError
				require.ErrorAs(t, err, &schemaErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, tx.Type)

			encoded, err := json.Marshal(tx)
			require.NoError(t, err)
			var fields map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(encoded, &fields))
			assert.JSONEq(t, `"`+name+`"`, string(fields["type"]))

			var again rpc.UserTransaction
			require.NoError(t, rpc.NewSchema(rpc.UnknownFieldsReject).Unmarshal(encoded, &again))
			assert.Equal(t, tx, again)
		})
	}
}

func TestUnknownEnumValue(t *testing.T) {
	tests := map[string]struct {
		value  any
		text   string
		reason string
	}{
		"transaction type":   {rpc.TransactionType(99), rpc.TransactionType(99).String(), "unknown transaction type 99"},
		"transaction status": {rpc.TxnStatus(42), rpc.TxnStatus(42).String(), "unknown transaction status 42"},
		"fee unit":           {rpc.FeeUnit(7), rpc.FeeUnit(7).String(), "unknown fee unit 7"},
		"user transaction":   {rpc.UserTransactionType(9), "", "unknown user transaction type 9"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if test.text != "" {
				assert.Equal(t, "<unknown>", test.text)
			}
			_, err := json.Marshal(test.value)
			require.ErrorContains(t, err, test.reason)
		})
	}
}

func TestBlockID(t *testing.T) {
	hash := utils.HexToFelt(t, "0xabc")
	tests := map[string]struct {
		id   rpc.BlockID
		json string
	}{
		"latest":  {rpc.BlockLatest(), `"latest"`},
		"pending": {rpc.BlockPending(), `"pending"`},
		"number":  {rpc.BlockNumber(7), `{"block_number":7}`},
		"hash":    {rpc.BlockHash(hash), `{"block_hash":"0xabc"}`},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := json.Marshal(test.id)
			require.NoError(t, err)
			assert.JSONEq(t, test.json, string(out))

			var id rpc.BlockID
			require.NoError(t, json.Unmarshal([]byte(test.json), &id))
			assert.Equal(t, test.id, id)
		})
	}

	var id rpc.BlockID
	require.Error(t, json.Unmarshal([]byte(`{"block_number":1,"block_hash":"0x1"}`), &id))

	parsed, err := rpc.ParseBlockID("123")
	require.NoError(t, err)
	n, ok := parsed.Number()
	require.True(t, ok)
	assert.Equal(t, uint64(123), n)

	_, err = rpc.ParseBlockID("tip")
	require.ErrorIs(t, err, rpc.ErrInvalidBlockID)
}

func TestU64(t *testing.T) {
	var v rpc.U64
	require.NoError(t, json.Unmarshal([]byte(`"0x1f"`), &v))
	assert.Equal(t, rpc.U64(31), v)
	require.NoError(t, json.Unmarshal([]byte(`31`), &v))
	assert.Equal(t, rpc.U64(31), v)
	require.Error(t, json.Unmarshal([]byte(`"31"`), &v))

	out, err := json.Marshal(rpc.U64(255))
	require.NoError(t, err)
	assert.Equal(t, `"0xff"`, string(out))
}

func TestL1Address(t *testing.T) {
	var msg rpc.MsgToL1
	require.NoError(t, json.Unmarshal([]byte(`{"to_address":"0xabc","payload":[]}`), &msg))
	out, err := json.Marshal(msg.To)
	require.NoError(t, err)
	assert.Equal(t, `"0x0000000000000000000000000000000000000abc"`, string(out))

	require.Error(t, json.Unmarshal([]byte(`{"to_address":"0x10000000000000000000000000000000000000000","payload":[]}`), &msg))
}
