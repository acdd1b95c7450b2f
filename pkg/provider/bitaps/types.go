package bitaps

import (
	"bytes"
	"encoding/json"
)

// Payload types for the bitaps verbose API. Keys the provider may omit are
// modelled as pointers so that absence never collapses into a zero value.

type addressTxsResponse struct {
	Data *addressTxsData `json:"data"`
}

type addressTxsData struct {
	List  []txItem `json:"list"`
	Pages *int     `json:"pages"`
}

type txResponse struct {
	Data *txItem `json:"data"`
}

type blockResponse struct {
	Data *blockData `json:"data"`
}

type blockData struct {
	Block *blockItem `json:"block"`
}

type blockItem struct {
	Height *uint64 `json:"height"`
}

type addressStateResponse struct {
	Data *addressState `json:"data"`
}

type addressState struct {
	Balance *uint64 `json:"balance"`
}

type mempoolResponse struct {
	Data *mempoolData `json:"data"`
}

type mempoolData struct {
	Transactions []mempoolItem `json:"transactions"`
}

type mempoolItem struct {
	Hash string `json:"hash"`
}

type txItem struct {
	TxID          *string             `json:"txId"`
	RawTx         *string             `json:"rawTx"`
	Confirmations *uint64             `json:"confirmations"`
	BlockHeight   *uint64             `json:"blockHeight"`
	BlockHash     string              `json:"blockHash"`
	Timestamp     *int64              `json:"timestamp"`
	BlockTime     *int64              `json:"blockTime"`
	Fee           *uint64             `json:"fee"`
	Size          *int                `json:"size"`
	InputsAmount  *uint64             `json:"inputsAmount"`
	OutputsAmount *uint64             `json:"outputsAmount"`
	VIn           map[string]txItemIn  `json:"vIn"`
	VOut          map[string]txItemOut `json:"vOut"`
}

type txItemIn struct {
	Amount *uint64 `json:"amount"`
}

type txItemOut struct {
	Address      *string         `json:"address"`
	Value        *uint64         `json:"value"`
	ScriptPubKey string          `json:"scriptPubKey"`
	Spent        json.RawMessage `json:"spent"`
}

// isSpent interprets the provider's spent marker, which may be a bool, null,
// or a list of spending outpoints depending on the endpoint.
func (o txItemOut) isSpent() bool {
	trimmed := bytes.TrimSpace(o.Spent)
	if len(trimmed) == 0 {
		return false
	}
	switch string(trimmed) {
	case "null", "false", "[]", "{}", "0":
		return false
	}
	return true
}
