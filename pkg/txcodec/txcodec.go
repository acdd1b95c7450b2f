package txcodec

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// DecodedInput is an input of a decoded raw transaction.
type DecodedInput struct {
	Index      uint32
	PrevTxID   string
	PrevIndex  uint32
	ScriptSig  []byte
	ScriptType string
	Sequence   uint32
}

// DecodedOutput is an output of a decoded raw transaction.
type DecodedOutput struct {
	Index      uint32
	Value      uint64
	Script     []byte
	ScriptType string
	Address    string
}

// DecodedTx is the structured form of a raw bitcoin transaction.
type DecodedTx struct {
	TxID     string
	Version  int32
	Locktime uint32
	Size     int
	Coinbase bool
	Inputs   []DecodedInput
	Outputs  []DecodedOutput
}

// Decode parses a raw transaction in hex format into its structured form.
// Output script types are classified and, when the script encodes a standard
// address, the address is attached in the encoding of the given network.
func Decode(txHex string, params *chaincfg.Params) (*DecodedTx, error) {
	raw, err := hex.DecodeString(txHex)
	if err != nil {
		return nil, fmt.Errorf("invalid tx hex: %w", err)
	}
	return DecodeBytes(raw, params)
}

// DecodeBytes parses raw transaction bytes into its structured form.
func DecodeBytes(raw []byte, params *chaincfg.Params) (*DecodedTx, error) {
	var msgTx wire.MsgTx
	if err := msgTx.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("invalid raw transaction: %w", err)
	}

	coinbase := isCoinbase(&msgTx)

	inputs := make([]DecodedInput, 0, len(msgTx.TxIn))
	for i, in := range msgTx.TxIn {
		scriptType := "sig_pubkey"
		if coinbase {
			scriptType = "coinbase"
		}
		inputs = append(inputs, DecodedInput{
			Index:      uint32(i),
			PrevTxID:   in.PreviousOutPoint.Hash.String(),
			PrevIndex:  in.PreviousOutPoint.Index,
			ScriptSig:  in.SignatureScript,
			ScriptType: scriptType,
			Sequence:   in.Sequence,
		})
	}

	outputs := make([]DecodedOutput, 0, len(msgTx.TxOut))
	for i, out := range msgTx.TxOut {
		scriptType, address := classifyScript(out.PkScript, params)
		outputs = append(outputs, DecodedOutput{
			Index:      uint32(i),
			Value:      uint64(out.Value),
			Script:     out.PkScript,
			ScriptType: scriptType,
			Address:    address,
		})
	}

	return &DecodedTx{
		TxID:     msgTx.TxHash().String(),
		Version:  msgTx.Version,
		Locktime: msgTx.LockTime,
		Size:     msgTx.SerializeSize(),
		Coinbase: coinbase,
		Inputs:   inputs,
		Outputs:  outputs,
	}, nil
}

// isCoinbase reports whether the tx spends the null outpoint, ie. it is a
// block reward transaction with no real inputs.
func isCoinbase(msgTx *wire.MsgTx) bool {
	if len(msgTx.TxIn) != 1 {
		return false
	}
	prevOut := msgTx.TxIn[0].PreviousOutPoint
	return prevOut.Index == wire.MaxPrevOutIndex && prevOut.Hash == (chainhash.Hash{})
}

func classifyScript(script []byte, params *chaincfg.Params) (string, string) {
	scriptClass, addresses, _, err := txscript.ExtractPkScriptAddrs(script, params)
	if err != nil {
		return "unknown", ""
	}

	var address string
	if len(addresses) > 0 {
		address = addresses[0].EncodeAddress()
	}

	switch scriptClass {
	case txscript.PubKeyTy:
		return "p2pk", address
	case txscript.PubKeyHashTy:
		return "p2pkh", address
	case txscript.ScriptHashTy:
		return "p2sh", address
	case txscript.MultiSigTy:
		return "multisig", address
	case txscript.NullDataTy:
		return "nulldata", ""
	case txscript.WitnessV0PubKeyHashTy:
		return "p2wpkh", address
	case txscript.WitnessV0ScriptHashTy:
		return "p2wsh", address
	default:
		return "unknown", address
	}
}
