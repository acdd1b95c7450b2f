package bitaps

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/bitwallet-network/bitwallet-daemon/pkg/provider"
)

func (b *bitaps) ListAddressHistory(
	address string, pageSize, pageNum int,
) ([]provider.TxRecord, int, error) {
	query := url.Values{}
	query.Set("mode", "verbose")
	query.Set("limit", strconv.Itoa(pageSize))
	query.Set("page", strconv.Itoa(pageNum))
	// order=1 asks for ascending (oldest to newest) order. The cursor logic
	// of the sync driver depends on it, do not change.
	query.Set("order", "1")

	reqURL := b.composeRequest("blockchain", "address", "transactions", address, query)
	resp, err := b.getRequest(reqURL)
	if err != nil {
		return nil, 0, err
	}

	var payload addressTxsResponse
	if err := json.Unmarshal([]byte(resp), &payload); err != nil {
		return nil, 0, fmt.Errorf("%w: %s", provider.ErrMalformedResponse, err)
	}
	if payload.Data == nil || payload.Data.Pages == nil {
		return nil, 0, fmt.Errorf(
			"%w: missing page data for %s", provider.ErrMalformedResponse, address,
		)
	}

	// All-or-nothing: a page with one malformed item is dropped entirely.
	records := make([]provider.TxRecord, 0, len(payload.Data.List))
	for _, item := range payload.Data.List {
		record, err := b.parseTransaction(item)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, *record)
	}

	return records, *payload.Data.Pages, nil
}

func (b *bitaps) GetBalance(addresses []string) (uint64, error) {
	var balance uint64
	for _, address := range addresses {
		reqURL := b.composeRequest("blockchain", "address", "state", address, nil)
		resp, err := b.getRequest(reqURL)
		if err != nil {
			return 0, err
		}

		var payload addressStateResponse
		if err := json.Unmarshal([]byte(resp), &payload); err != nil {
			return 0, fmt.Errorf("%w: %s", provider.ErrMalformedResponse, err)
		}
		if payload.Data == nil || payload.Data.Balance == nil {
			return 0, fmt.Errorf(
				"%w: missing balance for %s", provider.ErrMalformedResponse, address,
			)
		}
		balance += *payload.Data.Balance
	}
	return balance, nil
}
