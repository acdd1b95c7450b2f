package domain

import "context"

// TransactionRepository gives access to the transactions of the ledger.
// (wallet, txid) is unique: upserting never creates a second row for the
// same hash within a wallet.
type TransactionRepository interface {
	// UpsertTransaction inserts the tx if (wallet, txid) is absent, else
	// updates its mutable fields (status, confirmations, block fields, fee,
	// totals, date, raw, outputs' spent flags) in place.
	UpsertTransaction(ctx context.Context, tx Transaction) error
	GetTransaction(ctx context.Context, walletID uint64, txID string) (*Transaction, error)
	ListTransactions(ctx context.Context, walletID uint64) ([]Transaction, error)
	// MarkOutputSpent flips spent on the referenced output if its owning tx
	// is tracked in the wallet's ledger; it is a no-op, not an error, when
	// the prevout belongs to an untracked transaction.
	MarkOutputSpent(ctx context.Context, walletID uint64, prevTxID string, outputIndex uint32) error
	// ListUtxos returns the outputs with spent false under the wallet scope,
	// optionally narrowed to a key, annotated with the owning tx's
	// confirmation state.
	ListUtxos(ctx context.Context, walletID uint64, keyID *uint64) ([]Utxo, error)
	// DeleteTransactionsForKey detaches and removes the inputs and outputs
	// linked to the given key, dropping transactions left without any linked
	// input or output.
	DeleteTransactionsForKey(ctx context.Context, walletID, keyID uint64) error
}
