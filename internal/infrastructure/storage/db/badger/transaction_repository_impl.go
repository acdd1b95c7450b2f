package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/bitwallet-network/bitwallet-daemon/internal/core/domain"
)

type transactionRepositoryImpl struct {
	db *repoManager
}

// NewTransactionRepositoryImpl returns a badger implementation of the domain
// TransactionRepository interface.
func NewTransactionRepositoryImpl(db *repoManager) domain.TransactionRepository {
	return transactionRepositoryImpl{db: db}
}

func (r transactionRepositoryImpl) UpsertTransaction(
	ctx context.Context, transaction domain.Transaction,
) error {
	if err := transaction.Validate(); err != nil {
		return err
	}

	if tx := txFromContext(ctx); tx != nil {
		return r.upsertTransaction(tx, transaction)
	}

	// Retry on conflict so two concurrent syncs of the same wallet never
	// create duplicate rows: the insert-or-update is keyed by (wallet, txid).
	err := badger.ErrConflict
	for err == badger.ErrConflict {
		tx := r.db.store.Badger().NewTransaction(true)
		err = r.upsertTransaction(tx, transaction)
		if err == nil {
			err = tx.Commit()
		}
		tx.Discard()
	}
	return err
}

func (r transactionRepositoryImpl) upsertTransaction(
	tx *badger.Txn, transaction domain.Transaction,
) error {
	var existing domain.Transaction
	err := r.db.store.TxGet(tx, transaction.Key(), &existing)
	if err != nil {
		if err != badgerhold.ErrNotFound {
			return err
		}
		err = r.db.store.TxInsert(tx, transaction.Key(), &transaction)
		if err != badgerhold.ErrKeyExists {
			return err
		}
		// Lost the race with another writer, fall through to the update.
		if err := r.db.store.TxGet(tx, transaction.Key(), &existing); err != nil {
			return err
		}
	}

	merged := mergeTransaction(existing, transaction)
	return r.db.store.TxUpdate(tx, merged.Key(), merged)
}

// mergeTransaction overwrites the mutable fields of the stored tx with the
// freshly fetched ones. Key links and locally known spent flags survive the
// merge; confirmation fields are replaced wholesale so that a reorg is
// reflected rather than appended.
func mergeTransaction(
	existing, fetched domain.Transaction,
) domain.Transaction {
	merged := existing
	merged.Status = fetched.Status
	merged.Confirmations = fetched.Confirmations
	merged.BlockHeight = fetched.BlockHeight
	merged.BlockHash = fetched.BlockHash
	merged.Fee = fetched.Fee
	merged.InputTotal = fetched.InputTotal
	merged.OutputTotal = fetched.OutputTotal
	merged.Size = fetched.Size
	if !fetched.Date.IsZero() {
		merged.Date = fetched.Date
	}
	if fetched.Raw != "" {
		merged.Raw = fetched.Raw
	}

	if len(merged.Inputs) == 0 {
		merged.Inputs = fetched.Inputs
	}
	if len(merged.Outputs) == 0 {
		merged.Outputs = fetched.Outputs
		return merged
	}
	for i := range merged.Outputs {
		for _, out := range fetched.Outputs {
			if out.Index != merged.Outputs[i].Index {
				continue
			}
			merged.Outputs[i].Spent = merged.Outputs[i].Spent || out.Spent
			if merged.Outputs[i].KeyID == nil {
				merged.Outputs[i].KeyID = out.KeyID
			}
		}
	}
	return merged
}

func (r transactionRepositoryImpl) GetTransaction(
	ctx context.Context, walletID uint64, txID string,
) (*domain.Transaction, error) {
	key := domain.TxKey{WalletID: walletID, TxID: txID}
	var transaction domain.Transaction
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.db.store.TxGet(tx, key, &transaction)
	} else {
		err = r.db.store.Get(key, &transaction)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &transaction, nil
}

func (r transactionRepositoryImpl) ListTransactions(
	ctx context.Context, walletID uint64,
) ([]domain.Transaction, error) {
	return r.findTransactions(ctx, badgerhold.Where("WalletID").Eq(walletID))
}

func (r transactionRepositoryImpl) MarkOutputSpent(
	ctx context.Context, walletID uint64, prevTxID string, outputIndex uint32,
) error {
	transaction, err := r.GetTransaction(ctx, walletID, prevTxID)
	if err != nil {
		// The prevout belongs to an untracked transaction: not an error.
		if err == domain.ErrTransactionNotFound {
			return nil
		}
		return err
	}

	if !transaction.SpendOutput(outputIndex) {
		return nil
	}

	if tx := txFromContext(ctx); tx != nil {
		return r.db.store.TxUpdate(tx, transaction.Key(), *transaction)
	}
	return r.db.store.Update(transaction.Key(), *transaction)
}

func (r transactionRepositoryImpl) ListUtxos(
	ctx context.Context, walletID uint64, keyID *uint64,
) ([]domain.Utxo, error) {
	transactions, err := r.ListTransactions(ctx, walletID)
	if err != nil {
		return nil, err
	}

	addressOf := map[uint64]string{}
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
				if cached, ok := addressOf[*out.KeyID]; ok {
					address = cached
				} else if key, err := r.db.keyRepository.GetKey(
					ctx, *out.KeyID,
				); err == nil {
					address = key.Address
					addressOf[*out.KeyID] = address
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

func (r transactionRepositoryImpl) DeleteTransactionsForKey(
	ctx context.Context, walletID, keyID uint64,
) error {
	transactions, err := r.ListTransactions(ctx, walletID)
	if err != nil {
		return err
	}

	for _, transaction := range transactions {
		inputs := transaction.Inputs[:0]
		for _, in := range transaction.Inputs {
			if in.KeyID == nil || *in.KeyID != keyID {
				inputs = append(inputs, in)
			}
		}
		outputs := transaction.Outputs[:0]
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

		if tx := txFromContext(ctx); tx != nil {
			if !linked {
				if err := r.db.store.TxDelete(
					tx, transaction.Key(), domain.Transaction{},
				); err != nil {
					return err
				}
				continue
			}
			if err := r.db.store.TxUpdate(
				tx, transaction.Key(), transaction,
			); err != nil {
				return err
			}
			continue
		}

		if !linked {
			if err := r.db.store.Delete(
				transaction.Key(), domain.Transaction{},
			); err != nil {
				return err
			}
			continue
		}
		if err := r.db.store.Update(transaction.Key(), transaction); err != nil {
			return err
		}
	}
	return nil
}

func (r transactionRepositoryImpl) findTransactions(
	ctx context.Context, query *badgerhold.Query,
) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.db.store.TxFind(tx, &transactions, query)
	} else {
		err = r.db.store.Find(&transactions, query)
	}
	if err != nil {
		return nil, err
	}
	return transactions, nil
}
