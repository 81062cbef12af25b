package jsonrpc_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/NethermindEth/starkclient/jsonrpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	Version string            `json:"jsonrpc"`
	ID      uint64            `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

func decodeRequest(t *testing.T, r *http.Request) rpcRequest {
	t.Helper()

	body, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	var req rpcRequest
	require.NoError(t, json.Unmarshal(body, &req))
	return req
}

func reply(w http.ResponseWriter, id uint64, member string) {
	fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,%s}`, id, member)
}

func TestCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		assert.Equal(t, "2.0", req.Version)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))

		switch req.Method {
		case "starknet_blockNumber":
			assert.Empty(t, req.Params)
			reply(w, req.ID, `"result":42`)
		case "starknet_getNonce":
			require.Len(t, req.Params, 2)
			assert.JSONEq(t, `"latest"`, string(req.Params[0]))
			assert.JSONEq(t, `{"block_number":7}`, string(req.Params[1]))
			reply(w, req.ID, `"result":"0x3"`)
		}
	}))
	defer srv.Close()

	listener := &CountingEventListener{}
	client := jsonrpc.NewClient(srv.URL).WithHeader("X-Api-Key", "secret").WithListener(listener)

	var number uint64
	require.NoError(t, client.Call(context.Background(), &number, "starknet_blockNumber"))
	assert.Equal(t, uint64(42), number)

	var raw json.RawMessage
	params := map[string]uint64{"block_number": 7}
	require.NoError(t, client.Call(context.Background(), &raw, "starknet_getNonce", "latest", params))
	assert.JSONEq(t, `"0x3"`, string(raw))

	assert.Equal(t, []string{"starknet_blockNumber", "starknet_getNonce"}, listener.Requests)
	assert.Equal(t, listener.Requests, listener.Done)
	assert.Empty(t, listener.Failures)
}

func TestCallRPCError(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		req := decodeRequest(t, r)
		reply(w, req.ID, `"error":{"code":24,"message":"Block not found","data":{"depth":3}}`)
	}))
	defer srv.Close()

	listener := &CountingEventListener{}
	client := jsonrpc.NewClient(srv.URL).WithListener(listener).WithMinWait(time.Millisecond)
	err := client.Call(context.Background(), nil, "starknet_getBlockWithTxHashes", "latest")
	require.ErrorIs(t, err, &jsonrpc.Error{Code: 24})
	assert.NotErrorIs(t, err, &jsonrpc.Error{Code: 29})

	var rpcErr *jsonrpc.Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, "Block not found", rpcErr.Message)
	var data struct {
		Depth int `json:"depth"`
	}
	require.NoError(t, rpcErr.DecodeData(&data))
	assert.Equal(t, 3, data.Depth)

	assert.Equal(t, int32(1), attempts.Load())
	assert.Len(t, listener.Failures, 1)
	assert.Empty(t, listener.RetryAttempts)
}

func TestRetry(t *testing.T) {
	tests := map[string]struct {
		statuses     []int
		wantAttempts int32
		wantStatus   int
		retryable    bool
	}{
		"server errors are retried": {
			statuses:     []int{http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusOK},
			wantAttempts: 3,
		},
		"client errors are not": {
			statuses:     []int{http.StatusBadRequest},
			wantAttempts: 1,
			wantStatus:   http.StatusBadRequest,
		},
		"retries run out": {
			statuses:     []int{500, 500, 500, 500, 500, 500},
			wantAttempts: 4,
			wantStatus:   http.StatusInternalServerError,
			retryable:    true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var attempts atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				status := test.statuses[attempts.Add(1)-1]
				req := decodeRequest(t, r)
				if status != http.StatusOK {
					w.WriteHeader(status)
					return
				}
				reply(w, req.ID, `"result":"0x1"`)
			}))
			defer srv.Close()

			listener := &CountingEventListener{}
			client := jsonrpc.NewClient(srv.URL).WithMinWait(time.Millisecond).WithListener(listener)
			err := client.Call(context.Background(), nil, "starknet_chainId")
			assert.Equal(t, test.wantAttempts, attempts.Load())
			assert.Len(t, listener.RetryAttempts, int(test.wantAttempts)-1)

			if test.wantStatus == 0 {
				require.NoError(t, err)
				return
			}
			var transportErr *jsonrpc.TransportError
			require.ErrorAs(t, err, &transportErr)
			assert.Equal(t, jsonrpc.KindHTTP, transportErr.Kind)
			assert.Equal(t, test.wantStatus, transportErr.Status)
			assert.Equal(t, test.retryable, transportErr.Retryable())
		})
	}
}

func slowServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
}

func TestTimeouts(t *testing.T) {
	srv := slowServer()
	defer srv.Close()

	t.Run("attempt timeout", func(t *testing.T) {
		client := jsonrpc.NewClient(srv.URL).WithTimeout(20 * time.Millisecond).WithMaxRetries(0)
		err := client.Call(context.Background(), nil, "starknet_chainId")
		var transportErr *jsonrpc.TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.Equal(t, jsonrpc.KindTimeout, transportErr.Kind)
		assert.True(t, transportErr.Retryable())
	})

	t.Run("caller deadline", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		err := jsonrpc.NewClient(srv.URL).WithTimeout(0).Call(ctx, nil, "starknet_chainId")
		require.ErrorIs(t, err, jsonrpc.ErrTimeout)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("caller cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := jsonrpc.NewClient(srv.URL).Call(ctx, nil, "starknet_chainId")
		require.ErrorIs(t, err, jsonrpc.ErrCancelled)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	listener := &CountingEventListener{}
	client := jsonrpc.NewClient(url).WithMaxRetries(2).WithMinWait(time.Millisecond).WithListener(listener)
	err := client.Call(context.Background(), nil, "starknet_chainId")

	var transportErr *jsonrpc.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, jsonrpc.KindConnection, transportErr.Kind)
	assert.True(t, transportErr.Retryable())
	assert.Equal(t, []int{1, 2}, listener.RetryAttempts)
}

func TestBatchCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var reqs []rpcRequest
		require.NoError(t, json.Unmarshal(body, &reqs))
		require.Len(t, reqs, 3)

		// answers out of order, the last one never
		fmt.Fprintf(w, `[{"jsonrpc":"2.0","id":%d,"error":{"code":29,"message":"Transaction hash not found"}},`+
			`{"jsonrpc":"2.0","id":%d,"result":"0x534e5f5345504f4c4941"}]`, reqs[1].ID, reqs[0].ID)
	}))
	defer srv.Close()

	var chainID string
	batch := []jsonrpc.BatchElem{
		{Method: "starknet_chainId", Result: &chainID},
		{Method: "starknet_getTransactionStatus", Params: []any{"0x1"}},
		{Method: "starknet_blockNumber"},
	}
	require.NoError(t, jsonrpc.NewClient(srv.URL).BatchCall(context.Background(), batch))

	require.NoError(t, batch[0].Error)
	assert.Equal(t, "0x534e5f5345504f4c4941", chainID)
	assert.ErrorIs(t, batch[1].Error, &jsonrpc.Error{Code: 29})
	assert.Error(t, batch[2].Error)
}

func TestJitterBackoff(t *testing.T) {
	minWait := 100 * time.Millisecond
	for retry := range 4 {
		base := minWait << retry
		for range 50 {
			wait := jsonrpc.JitterBackoff(retry, minWait)
			assert.GreaterOrEqual(t, wait, base)
			assert.LessOrEqual(t, wait, base+base/2)
		}
	}
	assert.Zero(t, jsonrpc.NopBackoff(3, minWait))
}

func TestTransportErrorRetryable(t *testing.T) {
	tests := map[string]struct {
		err  *jsonrpc.TransportError
		want bool
	}{
		"timeout":      {err: &jsonrpc.TransportError{Kind: jsonrpc.KindTimeout}, want: true},
		"502":          {err: &jsonrpc.TransportError{Kind: jsonrpc.KindHTTP, Status: 502}, want: true},
		"429":          {err: &jsonrpc.TransportError{Kind: jsonrpc.KindHTTP, Status: 429}},
		"other socket": {err: &jsonrpc.TransportError{Kind: jsonrpc.KindConnection, Err: io.ErrUnexpectedEOF}},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, test.err.Retryable())
		})
	}
}

func TestCallNamed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req struct {
			ID     uint64          `json:"id"`
			Params json.RawMessage `json:"params"`
		}
		require.NoError(t, json.Unmarshal(body, &req))
		assert.JSONEq(t, `{"transaction_hash":"0x1"}`, string(req.Params))
		reply(w, req.ID, `"result":"1"`)
	}))
	defer srv.Close()

	params := jsonrpc.Named{"transaction_hash": "0x1"}
	require.NoError(t, jsonrpc.NewClient(srv.URL).Call(context.Background(), nil, "starknet_subscribeTransactionStatus", params))
}
