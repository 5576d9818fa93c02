package network

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/bitfsorg/libbchsend-go/tx"
)

// Compile-time interface checks.
var (
	_ ChainService  = (*RESTClient)(nil)
	_ StatusService = (*RESTClient)(nil)
)

// RESTClient talks to a rest.bitcoin.com v2 style HTTP API.
type RESTClient struct {
	baseURL string
	client  *http.Client
}

// NewRESTClient creates a REST client rooted at cfg.URL.
func NewRESTClient(cfg Config) *RESTClient {
	base := strings.TrimRight(cfg.URL, "/") + "/"
	return &RESTClient{
		baseURL: base,
		client:  newHTTPClient(cfg.Timeout),
	}
}

// get issues a GET for path relative to the base URL. Transport failures and
// 5xx responses return ErrNetworkUnavailable; other statuses are returned to
// the caller with the body.
func (c *RESTClient) get(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("network: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrNetworkUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read response: %w", ErrNetworkUnavailable, err)
	}
	if resp.StatusCode >= 500 {
		return resp.StatusCode, body, fmt.Errorf("%w: HTTP %d: %s",
			ErrNetworkUnavailable, resp.StatusCode, errorMessage(body))
	}
	return resp.StatusCode, body, nil
}

// query GETs path and requires a 2xx JSON response.
func (c *RESTClient) query(ctx context.Context, path string) (gjson.Result, error) {
	status, body, err := c.get(ctx, path)
	if err != nil {
		return gjson.Result{}, err
	}
	if status < 200 || status >= 300 {
		return gjson.Result{}, fmt.Errorf("%w: HTTP %d: %s", ErrRequestRejected, status, errorMessage(body))
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("%w: body is not JSON", ErrInvalidResponse)
	}
	return gjson.ParseBytes(body), nil
}

// Balance returns the confirmed balance from address/details. Pending
// amounts in unconfirmedBalance are not counted.
func (c *RESTClient) Balance(ctx context.Context, address string) (decimal.Decimal, error) {
	res, err := c.query(ctx, "address/details/"+url.PathEscape(address))
	if err != nil {
		return decimal.Zero, err
	}
	return jsonDecimal(res, "balance")
}

// ListUnspent returns the outputs listed by address/utxo. The endpoint
// reports one scriptPubKey for the whole address; it is copied to every UTXO.
func (c *RESTClient) ListUnspent(ctx context.Context, address string) ([]*tx.UTXO, error) {
	res, err := c.query(ctx, "address/utxo/"+url.PathEscape(address))
	if err != nil {
		return nil, err
	}
	list := res.Get("utxos")
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: missing utxos array", ErrInvalidResponse)
	}

	var script []byte
	if s := res.Get("scriptPubKey").String(); s != "" {
		if script, err = hex.DecodeString(s); err != nil {
			return nil, fmt.Errorf("%w: invalid scriptPubKey hex: %v", ErrInvalidResponse, err)
		}
	}

	var utxos []*tx.UTXO
	for i, u := range list.Array() {
		txid, err := tx.ParseTxID(u.Get("txid").String())
		if err != nil {
			return nil, fmt.Errorf("%w: utxo %d: %w", ErrInvalidResponse, i, err)
		}
		var sats uint64
		if s := u.Get("satoshis"); s.Exists() {
			sats = s.Uint()
		} else {
			amount, err := jsonDecimal(u, "amount")
			if err != nil {
				return nil, err
			}
			if sats, err = bchToSat(amount); err != nil {
				return nil, err
			}
		}
		utxos = append(utxos, &tx.UTXO{
			TxID:         txid,
			Vout:         uint32(u.Get("vout").Uint()),
			Amount:       sats,
			ScriptPubKey: script,
		})
	}
	return utxos, nil
}

// BroadcastTx submits rawTxHex via rawtransactions/sendRawTransaction. Only a
// 400 answer carries the node's refusal and becomes *RejectError; a 429 is
// reported as ErrNetworkUnavailable and any other status as
// ErrRequestRejected.
func (c *RESTClient) BroadcastTx(ctx context.Context, rawTxHex string) (string, error) {
	status, body, err := c.get(ctx, "rawtransactions/sendRawTransaction/"+url.PathEscape(rawTxHex))
	if err != nil {
		return "", err
	}
	switch {
	case status == http.StatusBadRequest:
		return "", &RejectError{Reason: errorMessage(body)}
	case status == http.StatusTooManyRequests:
		return "", fmt.Errorf("%w: HTTP %d: %s", ErrNetworkUnavailable, status, errorMessage(body))
	case status < 200 || status >= 300:
		return "", fmt.Errorf("%w: HTTP %d: %s", ErrRequestRejected, status, errorMessage(body))
	}

	res := gjson.ParseBytes(body)
	if res.IsArray() {
		res = res.Get("0")
	}
	txid := res.String()
	if len(txid) != 2*tx.TxIDLen {
		return "", fmt.Errorf("%w: unexpected broadcast result %q", ErrInvalidResponse, truncate(body))
	}
	return txid, nil
}

// GetTxStatus reads confirmations from transaction/details.
func (c *RESTClient) GetTxStatus(ctx context.Context, txid string) (*TxStatus, error) {
	status, body, err := c.get(ctx, "transaction/details/"+url.PathEscape(txid))
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: %s: %s", ErrTxNotFound, txid, errorMessage(body))
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: body is not JSON", ErrInvalidResponse)
	}
	res := gjson.ParseBytes(body)
	confirmations := res.Get("confirmations").Int()
	return &TxStatus{
		Confirmed:     confirmations > 0,
		Confirmations: confirmations,
		BlockHash:     res.Get("blockhash").String(),
		BlockHeight:   res.Get("blockheight").Uint(),
	}, nil
}

// jsonDecimal reads a numeric field without going through float64.
func jsonDecimal(res gjson.Result, path string) (decimal.Decimal, error) {
	v := res.Get(path)
	if !v.Exists() {
		return decimal.Zero, fmt.Errorf("%w: missing %s", ErrInvalidResponse, path)
	}
	raw := v.Raw
	if v.Type == gjson.String {
		raw = v.Str
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", ErrInvalidResponse, path, err)
	}
	return d, nil
}

// errorMessage extracts {"error": "..."} from a body, falling back to the
// raw text.
func errorMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		if msg := gjson.GetBytes(body, "error"); msg.Exists() {
			if m := msg.Get("message"); m.Exists() {
				return m.String()
			}
			return msg.String()
		}
	}
	return strings.TrimSpace(truncate(body))
}
