package bitaps

import (
	"encoding/json"
	"fmt"

	"github.com/bitwallet-network/bitwallet-daemon/pkg/provider"
)

func (b *bitaps) GetChainHeight() (uint64, error) {
	url := b.composeRequest("blockchain", "block", "last", "", nil)
	resp, err := b.getRequest(url)
	if err != nil {
		return 0, err
	}

	var payload blockResponse
	if err := json.Unmarshal([]byte(resp), &payload); err != nil {
		return 0, fmt.Errorf("%w: %s", provider.ErrMalformedResponse, err)
	}
	if payload.Data == nil || payload.Data.Block == nil ||
		payload.Data.Block.Height == nil {
		return 0, fmt.Errorf("%w: missing block height", provider.ErrMalformedResponse)
	}

	return *payload.Data.Block.Height, nil
}

func (b *bitaps) ListMempool(txid string) ([]string, error) {
	if txid != "" {
		tx, err := b.GetTransaction(txid)
		if err != nil {
			return nil, err
		}
		if tx.Confirmations == 0 {
			return []string{tx.TxID}, nil
		}
		return []string{}, nil
	}

	url := b.composeRequest("mempool", "transactions", "", "", nil)
	resp, err := b.getRequest(url)
	if err != nil {
		return nil, err
	}

	var payload mempoolResponse
	if err := json.Unmarshal([]byte(resp), &payload); err != nil {
		return nil, fmt.Errorf("%w: %s", provider.ErrMalformedResponse, err)
	}
	if payload.Data == nil {
		return nil, fmt.Errorf("%w: missing mempool data", provider.ErrMalformedResponse)
	}

	txids := make([]string, 0, len(payload.Data.Transactions))
	for _, tx := range payload.Data.Transactions {
		txids = append(txids, tx.Hash)
	}
	return txids, nil
}
