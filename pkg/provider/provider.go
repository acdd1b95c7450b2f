package provider

import (
	"errors"
	"time"
)

var (
	// ErrMalformedResponse is returned when a provider response misses keys
	// the canonical record shape requires. A page carrying a malformed item
	// is dropped entirely, it is never partially applied.
	ErrMalformedResponse = errors.New("malformed provider response")
)

// TxIn is a canonical transaction input record.
type TxIn struct {
	Index      uint32
	PrevTxID   string
	PrevIndex  uint32
	Script     string
	ScriptType string
	Sequence   uint32
	Value      uint64
}

// TxOut is a canonical transaction output record. Address is empty when the
// output script does not encode a standard address.
type TxOut struct {
	Index      uint32
	Address    string
	Script     string
	ScriptType string
	Value      uint64
	Spent      bool
}

// TxRecord is the canonical form of a transaction fetched from a remote
// provider. BlockHeight is nil for unconfirmed transactions, absence is
// never encoded as zero.
type TxRecord struct {
	TxID          string
	Status        string
	Confirmations uint64
	BlockHeight   *uint64
	BlockHash     string
	Date          time.Time
	Fee           uint64
	Size          int
	RawHex        string
	Version       int32
	Locktime      uint32
	Coinbase      bool
	InputTotal    uint64
	OutputTotal   uint64
	Inputs        []TxIn
	Outputs       []TxOut
}

// Utxo is an unspent output as reported by a UTXO-oriented fetch. InputN is
// always 0 and Fee/Size are left unset: UTXO listing carries output-level
// facts only.
type Utxo struct {
	Address       string
	TxID          string
	Confirmations uint64
	OutputN       uint32
	InputN        uint32
	BlockHeight   *uint64
	Value         uint64
	Script        string
	Date          time.Time
}

// Service is the representation of a remote blockchain data provider that
// allows to fetch the transaction history of an address one page at a time.
type Service interface {
	// Name returns the provider identifier used in logs and error context.
	Name() string
	// ListAddressHistory fetches one page of the history of the given
	// address, ordered oldest to newest, and returns the page's records
	// along with the provider's total page count. Pages are numbered
	// starting from 1. A page is parsed all-or-nothing.
	ListAddressHistory(address string, pageSize, pageNum int) ([]TxRecord, int, error)
	// GetTransaction fetches a single transaction given its id.
	GetTransaction(txid string) (*TxRecord, error)
	// GetRawTransaction fetches the raw transaction in hex format given its id.
	GetRawTransaction(txid string) (string, error)
	// GetChainHeight returns the height of the best block.
	GetChainHeight() (uint64, error)
	// ListMempool returns the ids of the transactions in the mempool. When
	// txid is not empty, it returns a singleton list containing txid if that
	// transaction is known and unconfirmed, an empty list otherwise.
	ListMempool(txid string) ([]string, error)
	// GetBalance returns the total balance of the given addresses.
	GetBalance(addresses []string) (uint64, error)
}
