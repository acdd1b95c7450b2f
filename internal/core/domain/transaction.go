package domain

import "time"

// Allowed values for Transaction.Status. The status of a transaction only
// moves forward through this list, except when block data is revised by a
// reorg, in which case confirmation fields are overwritten.
const (
	StatusNew         = "new"
	StatusIncomplete  = "incomplete"
	StatusUnconfirmed = "unconfirmed"
	StatusConfirmed   = "confirmed"
)

var inputScriptTypes = map[string]struct{}{
	"":              {},
	"coinbase":      {},
	"sig_pubkey":    {},
	"p2sh_multisig": {},
	"signature":     {},
	"unknown":       {},
	"p2sh_p2wpkh":   {},
	"p2sh_p2wsh":    {},
}

var outputScriptTypes = map[string]struct{}{
	"":         {},
	"p2pkh":    {},
	"multisig": {},
	"p2sh":     {},
	"p2pk":     {},
	"nulldata": {},
	"unknown":  {},
	"p2wpkh":   {},
	"p2wsh":    {},
}

// TxKey identifies a transaction within the ledger. Uniqueness of
// (wallet, txid) hangs on this being the storage key.
type TxKey struct {
	WalletID uint64
	TxID     string
}

// Transaction defines the transaction entity along with its inputs and
// outputs. BlockHeight is nil until the tx is included in a block.
type Transaction struct {
	WalletID      uint64
	NetworkName   string
	TxID          string
	Raw           string
	Version       int32
	Locktime      uint32
	WitnessType   string
	Date          time.Time
	Coinbase      bool
	Status        string
	Confirmations uint64
	BlockHeight   *uint64
	BlockHash     string
	Size          int
	Fee           uint64
	InputTotal    uint64
	OutputTotal   uint64
	Verified      bool
	Inputs        []TransactionInput
	Outputs       []TransactionOutput
}

// TransactionInput is an input of a ledger transaction, keyed by
// (transaction, index).
type TransactionInput struct {
	Index       uint32
	PrevTxID    string
	OutputIndex uint32
	KeyID       *uint64
	Script      string
	ScriptType  string
	WitnessType string
	Sequence    uint32
	Value       uint64
	DoubleSpend bool
}

// TransactionOutput is an output of a ledger transaction, keyed by
// (transaction, output index). An output with Spent false is by definition
// part of the wallet's UTXO set.
type TransactionOutput struct {
	Index      uint32
	KeyID      *uint64
	Script     string
	ScriptType string
	Value      uint64
	Spent      bool
}

// Utxo is an unspent output annotated with the confirmation state of its
// owning transaction.
type Utxo struct {
	WalletID      uint64
	TxID          string
	OutputN       uint32
	Address       string
	Value         uint64
	Script        string
	ScriptType    string
	Status        string
	Confirmations uint64
	BlockHeight   *uint64
	Date          time.Time
}

func (t *Transaction) Key() TxKey {
	return TxKey{WalletID: t.WalletID, TxID: t.TxID}
}

// Validate returns an error if the status, witness type or any input/output
// script type holds a value outside its allowed set.
func (t *Transaction) Validate() error {
	if !IsValidStatus(t.Status) {
		return ErrInvalidStatus
	}
	if t.WitnessType != "" && !IsValidWitnessType(t.WitnessType) {
		return ErrInvalidWitnessType
	}
	for _, in := range t.Inputs {
		if _, ok := inputScriptTypes[in.ScriptType]; !ok {
			return ErrInvalidScriptType
		}
	}
	for _, out := range t.Outputs {
		if _, ok := outputScriptTypes[out.ScriptType]; !ok {
			return ErrInvalidScriptType
		}
	}
	return nil
}

// IsValidStatus reports whether the given value belongs to the closed set of
// transaction statuses.
func IsValidStatus(status string) bool {
	switch status {
	case StatusNew, StatusIncomplete, StatusUnconfirmed, StatusConfirmed:
		return true
	}
	return false
}

// IsValidInputScriptType reports whether the given value belongs to the
// closed set of input script types.
func IsValidInputScriptType(scriptType string) bool {
	_, ok := inputScriptTypes[scriptType]
	return ok
}

// IsValidOutputScriptType reports whether the given value belongs to the
// closed set of output script types.
func IsValidOutputScriptType(scriptType string) bool {
	_, ok := outputScriptTypes[scriptType]
	return ok
}

// ApplyConfirmationState recomputes the confirmation fields from freshly
// fetched provider data. It has no memory of the prior local status: a reorg
// that un-confirms the tx is reflected here instead of being silently
// ignored.
func (t *Transaction) ApplyConfirmationState(
	confirmations uint64, blockHeight *uint64, blockHash string,
) {
	t.Confirmations = confirmations
	if confirmations > 0 {
		t.Status = StatusConfirmed
	} else {
		t.Status = StatusUnconfirmed
	}
	t.BlockHeight = nil
	t.BlockHash = ""
	if blockHeight != nil {
		height := *blockHeight
		t.BlockHeight = &height
		t.BlockHash = blockHash
	}
}

// IsConfirmed returns whether the tx is included in the blockchain.
func (t *Transaction) IsConfirmed() bool {
	return t.Status == StatusConfirmed
}

// SpendOutput flips the spent flag of the output with the given index and
// reports whether such an output exists.
func (t *Transaction) SpendOutput(outputIndex uint32) bool {
	for i := range t.Outputs {
		if t.Outputs[i].Index == outputIndex {
			t.Outputs[i].Spent = true
			return true
		}
	}
	return false
}
