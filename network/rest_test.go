package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// restTestServer serves canned bodies keyed by request path (without the
// /v2/ prefix).
func restTestServer(t *testing.T, routes map[string]func(w http.ResponseWriter)) (*httptest.Server, *RESTClient) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		path := strings.TrimPrefix(r.URL.Path, "/v2/")
		for prefix, h := range routes {
			if strings.HasPrefix(path, prefix) {
				h(w)
				return
			}
		}
		t.Errorf("unexpected path: %s", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)
	return server, NewRESTClient(Config{URL: server.URL + "/v2"})
}

func body(status int, s string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(s))
	}
}

func TestRESTBalance(t *testing.T) {
	_, client := restTestServer(t, map[string]func(http.ResponseWriter){
		"address/details/" + testAddr: body(200,
			`{"balance":0.0009,"balanceSat":90000,"unconfirmedBalance":0.0001,"unconfirmedBalanceSat":10000}`),
	})

	bal, err := client.Balance(context.Background(), testAddr)
	require.NoError(t, err)
	assert.Equal(t, "0.0009", bal.String())
}

func TestRESTBalance_UnconfirmedNotCounted(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"pending incoming", `{"balance":0,"unconfirmedBalance":0.001}`, "0"},
		{"pending spend", `{"balance":0.002,"unconfirmedBalance":-0.002}`, "0.002"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := restTestServer(t, map[string]func(http.ResponseWriter){
				"address/details/": body(200, tt.body),
			})
			bal, err := client.Balance(context.Background(), testAddr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, bal.String())
		})
	}
}

func TestRESTBalance_Zero(t *testing.T) {
	_, client := restTestServer(t, map[string]func(http.ResponseWriter){
		"address/details/": body(200, `{"balance":0,"unconfirmedBalance":0}`),
	})

	bal, err := client.Balance(context.Background(), testAddr)
	require.NoError(t, err)
	assert.True(t, bal.IsZero())
}

func TestRESTBalance_Errors(t *testing.T) {
	tests := []struct {
		name string
		resp func(http.ResponseWriter)
		want error
	}{
		{"server error", body(503, `{"error":"node down"}`), ErrNetworkUnavailable},
		{"bad request", body(400, `{"error":"Invalid BCH address"}`), ErrRequestRejected},
		{"missing field", body(200, `{"foo":1}`), ErrInvalidResponse},
		{"not json", body(200, `<html>`), ErrInvalidResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := restTestServer(t, map[string]func(http.ResponseWriter){"address/details/": tt.resp})
			_, err := client.Balance(context.Background(), testAddr)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRESTUnreachable(t *testing.T) {
	client := NewRESTClient(Config{URL: "http://localhost:1/v2/"})
	_, err := client.Balance(context.Background(), testAddr)
	assert.ErrorIs(t, err, ErrNetworkUnavailable)

	_, err = client.BroadcastTx(context.Background(), "0100")
	assert.ErrorIs(t, err, ErrNetworkUnavailable)
}

func TestRESTListUnspent(t *testing.T) {
	_, client := restTestServer(t, map[string]func(http.ResponseWriter){
		"address/utxo/": body(200, `{
			"utxos":[
				{"txid":"`+testTxID1+`","vout":0,"amount":0.001,"satoshis":100000,"height":700000,"confirmations":10},
				{"txid":"`+testTxID2+`","vout":2,"amount":0.0005,"confirmations":0}
			],
			"legacyAddress":"1PSSGeFHDnKNxiEyFrD1wcEaHr9hrQDDWc",
			"cashAddress":"`+testAddr+`",
			"scriptPubKey":"`+testP2PKH+`"
		}`),
	})

	utxos, err := client.ListUnspent(context.Background(), testAddr)
	require.NoError(t, err)
	require.Len(t, utxos, 2)

	assert.Equal(t, testTxID1, utxos[0].TxIDHex())
	assert.Equal(t, uint64(100_000), utxos[0].Amount)
	assert.Equal(t, uint32(2), utxos[1].Vout)
	assert.Equal(t, uint64(50_000), utxos[1].Amount, "amount falls back to BCH field")
	assert.Len(t, utxos[1].ScriptPubKey, 25)
}

func TestRESTListUnspent_Empty(t *testing.T) {
	_, client := restTestServer(t, map[string]func(http.ResponseWriter){
		"address/utxo/": body(200, `{"utxos":[],"scriptPubKey":"`+testP2PKH+`"}`),
	})
	utxos, err := client.ListUnspent(context.Background(), testAddr)
	require.NoError(t, err)
	assert.Empty(t, utxos)
}

func TestRESTListUnspent_Malformed(t *testing.T) {
	_, client := restTestServer(t, map[string]func(http.ResponseWriter){
		"address/utxo/": body(200, `{"utxos":{}}`),
	})
	_, err := client.ListUnspent(context.Background(), testAddr)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestRESTBroadcastTx(t *testing.T) {
	_, client := restTestServer(t, map[string]func(http.ResponseWriter){
		"rawtransactions/sendRawTransaction/0100beef": body(200, `"`+testTxID1+`"`),
	})
	txid, err := client.BroadcastTx(context.Background(), "0100beef")
	require.NoError(t, err)
	assert.Equal(t, testTxID1, txid)
}

func TestRESTBroadcastTx_ArrayResult(t *testing.T) {
	_, client := restTestServer(t, map[string]func(http.ResponseWriter){
		"rawtransactions/sendRawTransaction/": body(200, `["`+testTxID2+`"]`),
	})
	txid, err := client.BroadcastTx(context.Background(), "0100")
	require.NoError(t, err)
	assert.Equal(t, testTxID2, txid)
}

func TestRESTBroadcastTx_Rejected(t *testing.T) {
	_, client := restTestServer(t, map[string]func(http.ResponseWriter){
		"rawtransactions/sendRawTransaction/": body(400, `{"error":"64: dust"}`),
	})
	_, err := client.BroadcastTx(context.Background(), "0100")
	require.ErrorIs(t, err, ErrBroadcastRejected)

	var rej *RejectError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "64: dust", rej.Reason)
}

func TestRESTBroadcastTx_NonRejectStatuses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"not found", http.StatusNotFound, ErrRequestRejected},
		{"forbidden", http.StatusForbidden, ErrRequestRejected},
		{"rate limited", http.StatusTooManyRequests, ErrNetworkUnavailable},
		{"bad gateway", http.StatusBadGateway, ErrNetworkUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := restTestServer(t, map[string]func(http.ResponseWriter){
				"rawtransactions/sendRawTransaction/": body(tt.status, `{"error":"nope"}`),
			})
			_, err := client.BroadcastTx(context.Background(), "0100")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NotErrorIs(t, err, ErrBroadcastRejected)
		})
	}
}

func TestRESTBroadcastTx_GarbageResult(t *testing.T) {
	_, client := restTestServer(t, map[string]func(http.ResponseWriter){
		"rawtransactions/sendRawTransaction/": body(200, `"ok"`),
	})
	_, err := client.BroadcastTx(context.Background(), "0100")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestRESTGetTxStatus(t *testing.T) {
	_, client := restTestServer(t, map[string]func(http.ResponseWriter){
		"transaction/details/" + testTxID1: body(200,
			`{"txid":"`+testTxID1+`","confirmations":2,"blockhash":"00000000abc","blockheight":650000}`),
		"transaction/details/" + testTxID2: body(400, `{"error":"No such mempool or blockchain transaction"}`),
	})

	status, err := client.GetTxStatus(context.Background(), testTxID1)
	require.NoError(t, err)
	assert.True(t, status.Confirmed)
	assert.Equal(t, uint64(650000), status.BlockHeight)

	_, err = client.GetTxStatus(context.Background(), testTxID2)
	assert.ErrorIs(t, err, ErrTxNotFound)
}

func TestRejectError(t *testing.T) {
	err := error(&RejectError{Code: 16, Reason: "mandatory-script-verify-flag-failed"})
	assert.ErrorIs(t, err, ErrBroadcastRejected)
	assert.Contains(t, err.Error(), "code 16")
	assert.Contains(t, (&RejectError{Reason: "x"}).Error(), "broadcast rejected: x")
}
