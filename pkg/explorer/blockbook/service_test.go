package blockbook_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/bitcoin-payments/pkg/explorer"
	"github.com/tdex-network/bitcoin-payments/pkg/explorer/blockbook"
)

const (
	testAddress = "bc1qa0x889ge2ltycp9k7kyna5fjzd6p0swwe84k3h"
	testTxID    = "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"
	testBlock   = "000000000000000000036a2d7a7a4fc72c4ecf7a39fba8f1c5ff0e1c2a8bd6a2"

	mempoolTxID = "1111111111111111111111111111111111111111111111111111111111111111"
	unknownTxID = "2222222222222222222222222222222222222222222222222222222222222222"
	missingTxID = "3333333333333333333333333333333333333333333333333333333333333333"
	downTxID    = "4444444444444444444444444444444444444444444444444444444444444444"
	badTxID     = "5555555555555555555555555555555555555555555555555555555555555555"
)

var responses = map[string]struct {
	status int
	body   string
}{
	"/api/v2": {http.StatusOK, `{
		"blockbook": {"coin": "Bitcoin", "bestHeight": 760000, "inSync": true},
		"backend": {"chain": "main", "blocks": 760000, "bestBlockHash": "` + testBlock + `"}
	}`},
	"/api/v2/utxo/" + testAddress: {http.StatusOK, `[
		{"txid": "` + testTxID + `", "vout": 1, "value": "150000", "height": 759990, "confirmations": 11},
		{"txid": "` + testTxID + `", "vout": 0, "value": "2000", "confirmations": 0}
	]`},
	"/api/v2/address/" + testAddress: {http.StatusOK, `{
		"address": "` + testAddress + `", "balance": "152000",
		"unconfirmedBalance": "-2000", "txs": 3
	}`},
	"/api/v2/tx/" + testTxID: {http.StatusOK, `{
		"txid": "` + testTxID + `", "blockHash": "` + testBlock + `",
		"blockHeight": 759990, "confirmations": 11, "blockTime": 1666000000,
		"value": "149000", "valueIn": "150000", "fees": "1000", "hex": "0200",
		"vin": [{"n": 0, "txid": "` + testTxID + `", "vout": 1, "value": "150000", "addresses": ["` + testAddress + `"]}],
		"vout": [
			{"value": "100000", "n": 0, "addresses": ["1NVnicuFF5jeJJgT5ur9VqKts6pWyDhKVu"], "hex": "76a9"},
			{"value": "49000", "n": 1, "addresses": ["` + testAddress + `"], "hex": "0014"}
		]
	}`},
	"/api/v2/tx/" + mempoolTxID: {http.StatusOK, `{
		"txid": "` + mempoolTxID + `", "blockHeight": -1, "confirmations": 0,
		"value": "1000", "valueIn": "2000", "fees": "1000"
	}`},
	"/api/v2/tx/" + unknownTxID: {http.StatusBadRequest, `{"error": "Transaction '` + unknownTxID + `' not found"}`},
	"/api/v2/tx/" + missingTxID: {http.StatusNotFound, `{"error": "missing"}`},
	"/api/v2/tx/" + downTxID:    {http.StatusServiceUnavailable, ``},
	"/api/v2/tx/" + badTxID:     {http.StatusBadRequest, `{"error": "Invalid txid"}`},
	"/api/v2/block/759990": {http.StatusOK, `{
		"hash": "` + testBlock + `", "previousBlockHash": "prev", "nextBlockHash": "next",
		"height": 759990, "confirmations": 11, "time": 1666000000, "txCount": 2,
		"txs": [{"txid": "a"}, {"txid": "b"}]
	}`},
}

var largeTxHex = strings.Repeat("00", 16*1024)

// broadcasts are the responses of POST /api/v2/sendtx/ by request body.
var broadcasts = map[string]struct {
	status int
	body   string
}{
	"0200":     {http.StatusOK, `{"result": "` + testTxID + `"}`},
	"ff":       {http.StatusBadRequest, `{"error": "TX decode failed"}`},
	largeTxHex: {http.StatusOK, `{"result": "` + testTxID + `"}`},
}

func newTestService(t *testing.T) explorer.Service {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/v2/sendtx/" {
				if r.Method != http.MethodPost {
					w.WriteHeader(http.StatusMethodNotAllowed)
					return
				}
				body, _ := io.ReadAll(r.Body)
				res, ok := broadcasts[string(body)]
				if !ok {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				w.WriteHeader(res.status)
				w.Write([]byte(res.body))
				return
			}

			if r.Method != http.MethodGet {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			res, ok := responses[r.URL.Path]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.WriteHeader(res.status)
			w.Write([]byte(res.body))
		},
	))
	t.Cleanup(server.Close)

	svc, err := blockbook.NewService(server.URL+"/", 1000)
	require.NoError(t, err)
	return svc
}

func TestNewService(t *testing.T) {
	_, err := blockbook.NewService("", 0)
	require.ErrorIs(t, err, explorer.ErrNullURL)

	svc, err := blockbook.NewService("http://localhost:9130", 0)
	require.NoError(t, err)
	require.NotNil(t, svc)
}

func TestGetStatus(t *testing.T) {
	svc := newTestService(t)

	status, err := svc.GetStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, &explorer.Status{
		Chain:         "main",
		InSync:        true,
		BestHeight:    760000,
		BestBlockHash: testBlock,
	}, status)
}

func TestGetUtxos(t *testing.T) {
	svc := newTestService(t)

	utxos, err := svc.GetUtxos(context.Background(), testAddress)
	require.NoError(t, err)
	require.Len(t, utxos, 2)
	require.Equal(t, explorer.Utxo{
		TxID:          testTxID,
		Vout:          1,
		Value:         150000,
		Confirmations: 11,
		Height:        759990,
		Address:       testAddress,
	}, utxos[0])
	require.Zero(t, utxos[1].Height)
	require.Zero(t, utxos[1].Confirmations)

	utxos, err = svc.GetUtxos(context.Background(), "unknown")
	require.ErrorIs(t, err, explorer.ErrNotFound)
	require.Nil(t, utxos)
}

func TestGetAddressBalance(t *testing.T) {
	svc := newTestService(t)

	balance, err := svc.GetAddressBalance(context.Background(), testAddress)
	require.NoError(t, err)
	require.Equal(t, &explorer.Balance{
		Address:     testAddress,
		Confirmed:   152000,
		Unconfirmed: -2000,
		TxCount:     3,
	}, balance)
}

func TestGetTransaction(t *testing.T) {
	svc := newTestService(t)

	tx, err := svc.GetTransaction(context.Background(), testTxID)
	require.NoError(t, err)
	require.Equal(t, testTxID, tx.TxID)
	require.Equal(t, int64(759990), tx.BlockHeight)
	require.Equal(t, int64(1000), tx.Fees)
	require.Equal(t, int64(150000), tx.ValueIn)
	require.Len(t, tx.Vin, 1)
	require.Equal(t, []string{testAddress}, tx.Vin[0].Addresses)
	require.Len(t, tx.Vout, 2)
	require.Equal(t, int64(100000), tx.Vout[0].Value)
	require.Equal(t, "76a9", tx.Vout[0].Script)

	tx, err = svc.GetTransaction(context.Background(), mempoolTxID)
	require.NoError(t, err)
	require.Zero(t, tx.BlockHeight)
	require.Empty(t, tx.BlockHash)

	tests := []struct {
		txid string
		err  error
	}{
		{unknownTxID, explorer.ErrNotFound},
		{missingTxID, explorer.ErrNotFound},
		{downTxID, explorer.ErrDisconnected},
		{"", explorer.ErrInvalidTxID},
		{testTxID[:63], explorer.ErrInvalidTxID},
		{"zz" + testTxID[2:], explorer.ErrInvalidTxID},
		{testTxID[:60] + "/../", explorer.ErrInvalidTxID},
	}
	for _, tt := range tests {
		_, err := svc.GetTransaction(context.Background(), tt.txid)
		require.ErrorIs(t, err, tt.err)
	}

	_, err = svc.GetTransaction(context.Background(), badTxID)
	require.EqualError(t, err, "blockbook: 400 Invalid txid")
}

func TestBroadcastTransaction(t *testing.T) {
	svc := newTestService(t)

	txid, err := svc.BroadcastTransaction(context.Background(), "0200")
	require.NoError(t, err)
	require.Equal(t, testTxID, txid)

	_, err = svc.BroadcastTransaction(context.Background(), "ff")
	require.Error(t, err)
	require.Contains(t, err.Error(), "TX decode failed")

	// larger than the 8KB request line limit of common reverse proxies
	txid, err = svc.BroadcastTransaction(context.Background(), largeTxHex)
	require.NoError(t, err)
	require.Equal(t, testTxID, txid)
}

func TestGetBlock(t *testing.T) {
	svc := newTestService(t)

	block, err := svc.GetBlock(context.Background(), "759990")
	require.NoError(t, err)
	require.Equal(t, &explorer.Block{
		Hash:              testBlock,
		PreviousBlockHash: "prev",
		NextBlockHash:     "next",
		Height:            759990,
		Confirmations:     11,
		Time:              1666000000,
		TxCount:           2,
		TxIDs:             []string{"a", "b"},
	}, block)

	_, err = svc.GetBlock(context.Background(), "1")
	require.ErrorIs(t, err, explorer.ErrNotFound)
}
