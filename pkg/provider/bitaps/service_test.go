package bitaps_test

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"

	"github.com/bitwallet-network/bitwallet-daemon/pkg/provider"
	"github.com/bitwallet-network/bitwallet-daemon/pkg/provider/bitaps"
)

const txscriptOpTrue = 0x51

var p2pkhScript = append(
	append([]byte{0x76, 0xa9, 0x14}, bytes.Repeat([]byte{0x11}, 20)...),
	0x88, 0xac,
)

func buildRawTx(t *testing.T, prevTxID string, prevIndex uint32, value int64) string {
	t.Helper()

	hash, err := chainhash.NewHashFromStr(prevTxID)
	require.NoError(t, err)

	msgTx := wire.NewMsgTx(wire.TxVersion)
	msgTx.AddTxIn(wire.NewTxIn(
		wire.NewOutPoint(hash, prevIndex), []byte{txscriptOpTrue}, nil,
	))
	msgTx.AddTxOut(wire.NewTxOut(value, p2pkhScript))

	var buf bytes.Buffer
	require.NoError(t, msgTx.Serialize(&buf))
	return hex.EncodeToString(buf.Bytes())
}

func buildRawCoinbaseTx(t *testing.T, value int64) string {
	t.Helper()

	msgTx := wire.NewMsgTx(wire.TxVersion)
	msgTx.AddTxIn(wire.NewTxIn(
		wire.NewOutPoint(&chainhash.Hash{}, wire.MaxPrevOutIndex),
		[]byte{0x03, 0x4d, 0x35, 0x0c}, nil,
	))
	msgTx.AddTxOut(wire.NewTxOut(value, p2pkhScript))

	var buf bytes.Buffer
	require.NoError(t, msgTx.Serialize(&buf))
	return hex.EncodeToString(buf.Bytes())
}

// newTestService spins up a fake bitaps API serving canned bodies by path
// and returns a service pointed at it.
func newTestService(t *testing.T, bodies map[string]string) provider.Service {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if body, ok := bodies[r.URL.Path]; ok {
				fmt.Fprint(w, body)
				return
			}
			if r.URL.Path == "/blockchain/block/last" {
				fmt.Fprint(w, `{"data":{"block":{"height":800000}}}`)
				return
			}
			http.NotFound(w, r)
		},
	))
	t.Cleanup(server.Close)

	svc, err := bitaps.NewService(server.URL, "bitcoin")
	require.NoError(t, err)
	return svc
}

func TestGetChainHeight(t *testing.T) {
	svc := newTestService(t, nil)

	height, err := svc.GetChainHeight()
	require.NoError(t, err)
	require.Equal(t, uint64(800000), height)
}

func TestListAddressHistory(t *testing.T) {
	address := "1AddressUnderTest"
	rawTx := buildRawTx(
		t, "aa00000000000000000000000000000000000000000000000000000000000000",
		0, 5000,
	)

	page := fmt.Sprintf(`{
		"data": {
			"pages": 1,
			"list": [{
				"txId": "feed00000000000000000000000000000000000000000000000000000000beef",
				"rawTx": "%s",
				"confirmations": 3,
				"blockHeight": 799990,
				"blockHash": "000000000000000000aa",
				"timestamp": 1700000000,
				"fee": 100,
				"size": 200,
				"inputsAmount": 5100,
				"outputsAmount": 5000,
				"vIn": {"0": {"amount": 5100}},
				"vOut": {"0": {"address": "%s", "value": 5000, "spent": [{"txId": "cc"}]}}
			}]
		}
	}`, rawTx, address)

	svc := newTestService(t, map[string]string{
		"/blockchain/address/transactions/" + address: page,
	})

	records, pages, err := svc.ListAddressHistory(address, 50, 1)
	require.NoError(t, err)
	require.Equal(t, 1, pages)
	require.Len(t, records, 1)

	record := records[0]
	require.Equal(
		t,
		"feed00000000000000000000000000000000000000000000000000000000beef",
		record.TxID,
	)
	require.Equal(t, "confirmed", record.Status)
	require.Equal(t, uint64(3), record.Confirmations)
	require.NotNil(t, record.BlockHeight)
	require.Equal(t, uint64(799990), *record.BlockHeight)
	require.Equal(t, int64(1700000000), record.Date.Unix())
	require.Equal(t, uint64(5100), record.InputTotal)
	require.Equal(t, uint64(5000), record.OutputTotal)
	require.False(t, record.Coinbase)

	require.Len(t, record.Inputs, 1)
	require.Equal(t, uint64(5100), record.Inputs[0].Value)
	require.Equal(t, "sig_pubkey", record.Inputs[0].ScriptType)

	require.Len(t, record.Outputs, 1)
	require.Equal(t, address, record.Outputs[0].Address)
	require.Equal(t, uint64(5000), record.Outputs[0].Value)
	require.Equal(t, "p2pkh", record.Outputs[0].ScriptType)
	require.True(t, record.Outputs[0].Spent)
}

func TestListAddressHistoryMalformedPage(t *testing.T) {
	address := "1AddressUnderTest"

	// One item without rawTx poisons the whole page.
	page := `{
		"data": {
			"pages": 1,
			"list": [{
				"txId": "feed00000000000000000000000000000000000000000000000000000000beef",
				"confirmations": 3,
				"fee": 100,
				"size": 200,
				"outputsAmount": 5000
			}]
		}
	}`

	svc := newTestService(t, map[string]string{
		"/blockchain/address/transactions/" + address: page,
	})

	_, _, err := svc.ListAddressHistory(address, 50, 1)
	require.ErrorIs(t, err, provider.ErrMalformedResponse)
}

func TestListAddressHistoryServerError(t *testing.T) {
	address := "1AddressUnderTest"
	errBody := `{"error":"daily quota 100% used"}`

	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/blockchain/block/last" {
				fmt.Fprint(w, `{"data":{"block":{"height":800000}}}`)
				return
			}
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprint(w, errBody)
		},
	))
	t.Cleanup(server.Close)

	svc, err := bitaps.NewService(server.URL, "bitcoin")
	require.NoError(t, err)

	_, _, err = svc.ListAddressHistory(address, 50, 1)
	require.Error(t, err)
	// The body must come through untouched, percent signs included.
	require.Contains(t, err.Error(), errBody)
}

func TestGetTransactionCoinbase(t *testing.T) {
	txid := "c0ffee0000000000000000000000000000000000000000000000000000000000"
	rawTx := buildRawCoinbaseTx(t, 5000000000)

	body := fmt.Sprintf(`{
		"data": {
			"txId": "%s",
			"rawTx": "%s",
			"confirmations": 120,
			"blockHeight": 799000,
			"blockTime": 1690000000,
			"fee": 0,
			"size": 120,
			"outputsAmount": 5000000000,
			"vOut": {"0": {"value": 5000000000, "spent": null}}
		}
	}`, txid, rawTx)

	svc := newTestService(t, map[string]string{
		"/blockchain/transaction/" + txid: body,
	})

	record, err := svc.GetTransaction(txid)
	require.NoError(t, err)
	require.True(t, record.Coinbase)
	// No inputsAmount on a coinbase: the total is outputs minus fee.
	require.Equal(t, uint64(5000000000), record.InputTotal)
	require.Equal(t, int64(1690000000), record.Date.Unix())
	require.Len(t, record.Inputs, 1)
	require.Equal(t, "coinbase", record.Inputs[0].ScriptType)
	require.Zero(t, record.Inputs[0].Value)
	require.False(t, record.Outputs[0].Spent)
}

func TestListMempoolSingleTx(t *testing.T) {
	txid := "feed00000000000000000000000000000000000000000000000000000000beef"
	rawTx := buildRawTx(
		t, "aa00000000000000000000000000000000000000000000000000000000000000",
		0, 5000,
	)

	body := fmt.Sprintf(`{
		"data": {
			"txId": "%s",
			"rawTx": "%s",
			"confirmations": 0,
			"timestamp": 1700000000,
			"fee": 100,
			"size": 200,
			"inputsAmount": 5100,
			"outputsAmount": 5000,
			"vIn": {"0": {"amount": 5100}}
		}
	}`, txid, rawTx)

	svc := newTestService(t, map[string]string{
		"/blockchain/transaction/" + txid: body,
	})

	txids, err := svc.ListMempool(txid)
	require.NoError(t, err)
	require.Equal(t, []string{txid}, txids)
}

func TestGetBalance(t *testing.T) {
	svc := newTestService(t, map[string]string{
		"/blockchain/address/state/addr1": `{"data":{"balance":1500}}`,
		"/blockchain/address/state/addr2": `{"data":{"balance":2500}}`,
	})

	balance, err := svc.GetBalance([]string{"addr1", "addr2"})
	require.NoError(t, err)
	require.Equal(t, uint64(4000), balance)
}
