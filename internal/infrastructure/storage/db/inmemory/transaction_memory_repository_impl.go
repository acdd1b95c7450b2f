package inmemory

import (
	"context"
	"sort"

	"github.com/bitwallet-network/bitwallet-daemon/internal/core/domain"
)

// TransactionRepositoryImpl represents an in memory storage
type TransactionRepositoryImpl struct {
	store *storage
}

// NewTransactionRepositoryImpl returns a new empty TransactionRepositoryImpl
func NewTransactionRepositoryImpl(store *storage) *TransactionRepositoryImpl {
	return &TransactionRepositoryImpl{store: store}
}

func (r *TransactionRepositoryImpl) UpsertTransaction(
	ctx context.Context, transaction domain.Transaction,
) error {
	if err := transaction.Validate(); err != nil {
		return err
	}

	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	existing, ok := r.store.transactions[transaction.Key()]
	if !ok {
		r.store.transactions[transaction.Key()] = transaction
		return nil
	}

	merged := existing
	merged.Status = transaction.Status
	merged.Confirmations = transaction.Confirmations
	merged.BlockHeight = transaction.BlockHeight
	merged.BlockHash = transaction.BlockHash
	merged.Fee = transaction.Fee
	merged.InputTotal = transaction.InputTotal
	merged.OutputTotal = transaction.OutputTotal
	merged.Size = transaction.Size
	if !transaction.Date.IsZero() {
		merged.Date = transaction.Date
	}
	if transaction.Raw != "" {
		merged.Raw = transaction.Raw
	}
	if len(merged.Outputs) == 0 {
		merged.Outputs = transaction.Outputs
	} else {
		for i := range merged.Outputs {
			for _, out := range transaction.Outputs {
				if out.Index != merged.Outputs[i].Index {
					continue
				}
				merged.Outputs[i].Spent = merged.Outputs[i].Spent || out.Spent
				if merged.Outputs[i].KeyID == nil {
					merged.Outputs[i].KeyID = out.KeyID
				}
			}
		}
	}
	if len(merged.Inputs) == 0 {
		merged.Inputs = transaction.Inputs
	}

	r.store.transactions[transaction.Key()] = merged
	return nil
}

func (r *TransactionRepositoryImpl) GetTransaction(
	ctx context.Context, walletID uint64, txID string,
) (*domain.Transaction, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	transaction, ok := r.store.transactions[domain.TxKey{
		WalletID: walletID, TxID: txID,
	}]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return &transaction, nil
}

func (r *TransactionRepositoryImpl) ListTransactions(
	ctx context.Context, walletID uint64,
) ([]domain.Transaction, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	transactions := make([]domain.Transaction, 0)
	for _, transaction := range r.store.transactions {
		if transaction.WalletID == walletID {
			transactions = append(transactions, transaction)
		}
	}
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].Date.Before(transactions[j].Date)
	})
	return transactions, nil
}

func (r *TransactionRepositoryImpl) MarkOutputSpent(
	ctx context.Context, walletID uint64, prevTxID string, outputIndex uint32,
) error {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	key := domain.TxKey{WalletID: walletID, TxID: prevTxID}
	transaction, ok := r.store.transactions[key]
	if !ok {
		return nil
	}

	if transaction.SpendOutput(outputIndex) {
		r.store.transactions[key] = transaction
	}
	return nil
}

func (r *TransactionRepositoryImpl) ListUtxos(
	ctx context.Context, walletID uint64, keyID *uint64,
) ([]domain.Utxo, error) {
	transactions, err := r.ListTransactions(ctx, walletID)
	if err != nil {
		return nil, err
	}

	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	utxos := make([]domain.Utxo, 0)
	for _, transaction := range transactions {
		for _, out := range transaction.Outputs {
			if out.Spent {
				continue
			}
			if keyID != nil && (out.KeyID == nil || *out.KeyID != *keyID) {
				continue
			}

			var address string
			if out.KeyID != nil {
				if key, ok := r.store.keys[*out.KeyID]; ok {
					address = key.Address
				}
			}

			utxos = append(utxos, domain.Utxo{
				WalletID:      walletID,
				TxID:          transaction.TxID,
				OutputN:       out.Index,
				Address:       address,
				Value:         out.Value,
				Script:        out.Script,
				ScriptType:    out.ScriptType,
				Status:        transaction.Status,
				Confirmations: transaction.Confirmations,
				BlockHeight:   transaction.BlockHeight,
				Date:          transaction.Date,
			})
		}
	}
	return utxos, nil
}

func (r *TransactionRepositoryImpl) DeleteTransactionsForKey(
	ctx context.Context, walletID, keyID uint64,
) error {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	for key, transaction := range r.store.transactions {
		if transaction.WalletID != walletID {
			continue
		}

		inputs := make([]domain.TransactionInput, 0, len(transaction.Inputs))
		for _, in := range transaction.Inputs {
			if in.KeyID == nil || *in.KeyID != keyID {
				inputs = append(inputs, in)
			}
		}
		outputs := make([]domain.TransactionOutput, 0, len(transaction.Outputs))
		for _, out := range transaction.Outputs {
			if out.KeyID == nil || *out.KeyID != keyID {
				outputs = append(outputs, out)
			}
		}
		if len(inputs) == len(transaction.Inputs) &&
			len(outputs) == len(transaction.Outputs) {
			continue
		}
		transaction.Inputs = inputs
		transaction.Outputs = outputs

		var linked bool
		for _, in := range transaction.Inputs {
			if in.KeyID != nil {
				linked = true
				break
			}
		}
		for _, out := range transaction.Outputs {
			if out.KeyID != nil {
				linked = true
				break
			}
		}

		if !linked {
			delete(r.store.transactions, key)
			continue
		}
		r.store.transactions[key] = transaction
	}
	return nil
}
