package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/bitwallet-network/bitwallet-daemon/internal/core/domain"
)

type walletRepositoryImpl struct {
	db *repoManager
}

// NewWalletRepositoryImpl returns a badger implementation of the domain
// WalletRepository interface.
func NewWalletRepositoryImpl(db *repoManager) domain.WalletRepository {
	return walletRepositoryImpl{db: db}
}

func (r walletRepositoryImpl) AddWallet(
	ctx context.Context, wallet domain.Wallet,
) (uint64, error) {
	// Enum membership is re-checked at the store boundary even though the
	// domain validates on construction.
	if err := wallet.Validate(); err != nil {
		return 0, err
	}

	if tx := txFromContext(ctx); tx != nil {
		return r.addWallet(tx, wallet)
	}

	var id uint64
	err := badger.ErrConflict
	for err == badger.ErrConflict {
		tx := r.db.store.Badger().NewTransaction(true)
		id, err = r.addWallet(tx, wallet)
		if err == nil {
			err = tx.Commit()
		}
		tx.Discard()
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r walletRepositoryImpl) addWallet(
	tx *badger.Txn, wallet domain.Wallet,
) (uint64, error) {
	var existing []domain.Wallet
	if err := r.db.store.TxFind(
		tx, &existing, badgerhold.Where("Name").Eq(wallet.Name),
	); err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, domain.ErrWalletNameTaken
	}

	if err := r.db.store.TxInsert(
		tx, badgerhold.NextSequence(), &wallet,
	); err != nil {
		return 0, err
	}
	return wallet.ID, nil
}

func (r walletRepositoryImpl) GetWallet(
	ctx context.Context, id uint64,
) (*domain.Wallet, error) {
	var wallet domain.Wallet
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.db.store.TxGet(tx, id, &wallet)
	} else {
		err = r.db.store.Get(id, &wallet)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

func (r walletRepositoryImpl) GetWalletByName(
	ctx context.Context, name string,
) (*domain.Wallet, error) {
	wallets, err := r.findWallets(ctx, badgerhold.Where("Name").Eq(name))
	if err != nil {
		return nil, err
	}
	if len(wallets) == 0 {
		return nil, domain.ErrWalletNotFound
	}
	return &wallets[0], nil
}

func (r walletRepositoryImpl) ListWallets(
	ctx context.Context,
) ([]domain.Wallet, error) {
	return r.findWallets(ctx, nil)
}

func (r walletRepositoryImpl) GetWalletTree(
	ctx context.Context, id uint64, maxDepth int,
) (*domain.WalletNode, error) {
	wallets, err := r.findWallets(ctx, nil)
	if err != nil {
		return nil, err
	}
	return domain.BuildWalletTree(wallets, id, maxDepth)
}

func (r walletRepositoryImpl) UpdateWallet(
	ctx context.Context, id uint64,
	updateFn func(w *domain.Wallet) (*domain.Wallet, error),
) error {
	wallet, err := r.GetWallet(ctx, id)
	if err != nil {
		return err
	}

	updated, err := updateFn(wallet)
	if err != nil {
		return err
	}
	if err := updated.Validate(); err != nil {
		return err
	}

	if tx := txFromContext(ctx); tx != nil {
		return r.db.store.TxUpdate(tx, id, *updated)
	}
	return r.db.store.Update(id, *updated)
}

func (r walletRepositoryImpl) DeleteWallet(ctx context.Context, id uint64) error {
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.db.store.TxDelete(tx, id, domain.Wallet{})
	} else {
		err = r.db.store.Delete(id, domain.Wallet{})
	}
	if err == badgerhold.ErrNotFound {
		return domain.ErrWalletNotFound
	}
	return err
}

func (r walletRepositoryImpl) findWallets(
	ctx context.Context, query *badgerhold.Query,
) ([]domain.Wallet, error) {
	var wallets []domain.Wallet
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.db.store.TxFind(tx, &wallets, query)
	} else {
		err = r.db.store.Find(&wallets, query)
	}
	if err != nil {
		return nil, err
	}
	return wallets, nil
}
