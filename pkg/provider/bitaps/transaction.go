package bitaps

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/bitwallet-network/bitwallet-daemon/pkg/provider"
	"github.com/bitwallet-network/bitwallet-daemon/pkg/txcodec"
)

func (b *bitaps) GetTransaction(txid string) (*provider.TxRecord, error) {
	url := b.composeRequest("blockchain", "transaction", "", txid, nil)
	resp, err := b.getRequest(url)
	if err != nil {
		return nil, err
	}

	var payload txResponse
	if err := json.Unmarshal([]byte(resp), &payload); err != nil {
		return nil, fmt.Errorf("%w: %s", provider.ErrMalformedResponse, err)
	}
	if payload.Data == nil {
		return nil, fmt.Errorf("%w: missing data", provider.ErrMalformedResponse)
	}

	return b.parseTransaction(*payload.Data)
}

func (b *bitaps) GetRawTransaction(txid string) (string, error) {
	url := b.composeRequest("blockchain", "transaction", "", txid, nil)
	resp, err := b.getRequest(url)
	if err != nil {
		return "", err
	}

	var payload txResponse
	if err := json.Unmarshal([]byte(resp), &payload); err != nil {
		return "", fmt.Errorf("%w: %s", provider.ErrMalformedResponse, err)
	}
	if payload.Data == nil || payload.Data.RawTx == nil {
		return "", fmt.Errorf("%w: missing rawTx", provider.ErrMalformedResponse)
	}

	return *payload.Data.RawTx, nil
}

// parseTransaction converts one verbose tx item into a canonical TxRecord.
// The raw transaction supplies the structure (inputs, outputs, scripts), the
// verbose fields supply amounts, spent flags and confirmation state.
func (b *bitaps) parseTransaction(item txItem) (*provider.TxRecord, error) {
	if item.TxID == nil {
		return nil, fmt.Errorf("%w: missing txId", provider.ErrMalformedResponse)
	}
	if item.RawTx == nil {
		return nil, fmt.Errorf(
			"%w: missing rawTx for %s", provider.ErrMalformedResponse, *item.TxID,
		)
	}
	if item.Confirmations == nil || item.Fee == nil || item.Size == nil ||
		item.OutputsAmount == nil {
		return nil, fmt.Errorf(
			"%w: missing tx fields for %s", provider.ErrMalformedResponse, *item.TxID,
		)
	}

	decoded, err := txcodec.Decode(*item.RawTx, b.chainParams)
	if err != nil {
		return nil, fmt.Errorf("decoding tx %s: %w", *item.TxID, err)
	}

	record := &provider.TxRecord{
		TxID:          *item.TxID,
		Status:        "unconfirmed",
		Confirmations: *item.Confirmations,
		Fee:           *item.Fee,
		Size:          *item.Size,
		RawHex:        *item.RawTx,
		Version:       decoded.Version,
		Locktime:      decoded.Locktime,
		Coinbase:      decoded.Coinbase,
		OutputTotal:   *item.OutputsAmount,
	}
	if *item.Confirmations > 0 {
		record.Status = "confirmed"
	}
	if item.Timestamp != nil {
		record.Date = time.Unix(*item.Timestamp, 0)
	} else if item.BlockTime != nil {
		record.Date = time.Unix(*item.BlockTime, 0)
	}
	if item.BlockHeight != nil {
		height := *item.BlockHeight
		record.BlockHeight = &height
		record.BlockHash = item.BlockHash
	}

	record.Inputs = make([]provider.TxIn, 0, len(decoded.Inputs))
	for _, in := range decoded.Inputs {
		txIn := provider.TxIn{
			Index:      in.Index,
			PrevTxID:   in.PrevTxID,
			PrevIndex:  in.PrevIndex,
			Script:     fmt.Sprintf("%x", in.ScriptSig),
			ScriptType: in.ScriptType,
			Sequence:   in.Sequence,
		}
		// Coinbase inputs have no per-input amount on the provider side.
		if !decoded.Coinbase {
			vIn, ok := item.VIn[strconv.Itoa(int(in.Index))]
			if !ok || vIn.Amount == nil {
				return nil, fmt.Errorf(
					"%w: missing input amount %d for %s",
					provider.ErrMalformedResponse, in.Index, *item.TxID,
				)
			}
			txIn.Value = *vIn.Amount
		}
		record.Inputs = append(record.Inputs, txIn)
	}

	record.Outputs = make([]provider.TxOut, 0, len(decoded.Outputs))
	for _, out := range decoded.Outputs {
		txOut := provider.TxOut{
			Index:      out.Index,
			Address:    out.Address,
			Script:     fmt.Sprintf("%x", out.Script),
			ScriptType: out.ScriptType,
			Value:      out.Value,
		}
		if vOut, ok := item.VOut[strconv.Itoa(int(out.Index))]; ok {
			if vOut.Address != nil {
				txOut.Address = *vOut.Address
			}
			if vOut.Value != nil {
				txOut.Value = *vOut.Value
			}
			txOut.Spent = vOut.isSpent()
		}
		record.Outputs = append(record.Outputs, txOut)
	}

	// A coinbase tx has no real inputs, so its input total is derived from
	// the output total minus the fee.
	if decoded.Coinbase {
		record.InputTotal = *item.OutputsAmount - *item.Fee
	} else {
		if item.InputsAmount == nil {
			return nil, fmt.Errorf(
				"%w: missing inputsAmount for %s",
				provider.ErrMalformedResponse, *item.TxID,
			)
		}
		record.InputTotal = *item.InputsAmount
	}

	return record, nil
}
