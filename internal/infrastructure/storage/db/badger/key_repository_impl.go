package dbbadger

import (
	"context"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/bitwallet-network/bitwallet-daemon/internal/core/domain"
)

type keyRepositoryImpl struct {
	db *repoManager
}

// NewKeyRepositoryImpl returns a badger implementation of the domain
// KeyRepository interface.
func NewKeyRepositoryImpl(db *repoManager) domain.KeyRepository {
	return keyRepositoryImpl{db: db}
}

func (r keyRepositoryImpl) AddKey(
	ctx context.Context, key domain.Key,
) (uint64, error) {
	if err := key.Validate(); err != nil {
		return 0, err
	}

	if tx := txFromContext(ctx); tx != nil {
		return r.addKey(tx, key)
	}

	var id uint64
	err := badger.ErrConflict
	for err == badger.ErrConflict {
		tx := r.db.store.Badger().NewTransaction(true)
		id, err = r.addKey(tx, key)
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

// addKey enforces the per-wallet uniqueness of each of the key's
// public/private/wif/address encodings before inserting.
func (r keyRepositoryImpl) addKey(
	tx *badger.Txn, key domain.Key,
) (uint64, error) {
	var siblings []domain.Key
	if err := r.db.store.TxFind(
		tx, &siblings, badgerhold.Where("WalletID").Eq(key.WalletID),
	); err != nil {
		return 0, err
	}
	for _, sibling := range siblings {
		if sameNonEmpty(sibling.Public, key.Public) ||
			sameNonEmpty(sibling.Private, key.Private) ||
			sameNonEmpty(sibling.WIF, key.WIF) ||
			sameNonEmpty(sibling.Address, key.Address) {
			return 0, domain.ErrDuplicateKey
		}
	}

	if err := r.db.store.TxInsert(
		tx, badgerhold.NextSequence(), &key,
	); err != nil {
		return 0, err
	}
	return key.ID, nil
}

func (r keyRepositoryImpl) GetKey(
	ctx context.Context, id uint64,
) (*domain.Key, error) {
	var key domain.Key
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.db.store.TxGet(tx, id, &key)
	} else {
		err = r.db.store.Get(id, &key)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrKeyNotFound
		}
		return nil, err
	}
	return &key, nil
}

func (r keyRepositoryImpl) GetKeyByAddress(
	ctx context.Context, walletID uint64, address string,
) (*domain.Key, error) {
	keys, err := r.findKeys(
		ctx,
		badgerhold.Where("WalletID").Eq(walletID).And("Address").Eq(address),
	)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, domain.ErrKeyNotFound
	}
	return &keys[0], nil
}

func (r keyRepositoryImpl) ListKeys(
	ctx context.Context, walletID uint64,
) ([]domain.Key, error) {
	return r.findKeys(ctx, badgerhold.Where("WalletID").Eq(walletID))
}

func (r keyRepositoryImpl) UpdateKey(
	ctx context.Context, id uint64,
	updateFn func(k *domain.Key) (*domain.Key, error),
) error {
	key, err := r.GetKey(ctx, id)
	if err != nil {
		return err
	}

	updated, err := updateFn(key)
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

// DeleteKey removes the key along with its transaction inputs and outputs.
// The cascade mirrors the ledger's documented delete behavior: transactions
// left without any linked input or output are dropped as well.
func (r keyRepositoryImpl) DeleteKey(ctx context.Context, id uint64) error {
	key, err := r.GetKey(ctx, id)
	if err != nil {
		return err
	}

	if err := r.db.transactionRepository.DeleteTransactionsForKey(
		ctx, key.WalletID, id,
	); err != nil {
		return err
	}

	var children []domain.MultisigChild
	query := badgerhold.Where("ParentKeyID").Eq(id).Or(
		badgerhold.Where("ChildKeyID").Eq(id),
	)
	if tx := txFromContext(ctx); tx != nil {
		if err := r.db.store.TxFind(tx, &children, query); err != nil {
			return err
		}
		for _, child := range children {
			if err := r.db.store.TxDelete(
				tx, child.Key(), domain.MultisigChild{},
			); err != nil {
				return err
			}
		}
		return r.db.store.TxDelete(tx, id, domain.Key{})
	}

	if err := r.db.store.Find(&children, query); err != nil {
		return err
	}
	for _, child := range children {
		if err := r.db.store.Delete(
			child.Key(), domain.MultisigChild{},
		); err != nil {
			return err
		}
	}
	return r.db.store.Delete(id, domain.Key{})
}

func (r keyRepositoryImpl) AddMultisigChildren(
	ctx context.Context, parentKeyID uint64, childKeyIDs []uint64,
) error {
	for order, childID := range childKeyIDs {
		child := domain.MultisigChild{
			ParentKeyID: parentKeyID,
			ChildKeyID:  childID,
			KeyOrder:    order,
		}
		var err error
		if tx := txFromContext(ctx); tx != nil {
			err = r.db.store.TxInsert(tx, child.Key(), &child)
		} else {
			err = r.db.store.Insert(child.Key(), &child)
		}
		if err != nil && err != badgerhold.ErrKeyExists {
			return err
		}
	}
	return nil
}

func (r keyRepositoryImpl) ListMultisigChildren(
	ctx context.Context, parentKeyID uint64,
) ([]domain.Key, error) {
	var children []domain.MultisigChild
	query := badgerhold.Where("ParentKeyID").Eq(parentKeyID)
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.db.store.TxFind(tx, &children, query)
	} else {
		err = r.db.store.Find(&children, query)
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(children, func(i, j int) bool {
		return children[i].KeyOrder < children[j].KeyOrder
	})

	keys := make([]domain.Key, 0, len(children))
	for _, child := range children {
		key, err := r.GetKey(ctx, child.ChildKeyID)
		if err != nil {
			return nil, err
		}
		keys = append(keys, *key)
	}
	return keys, nil
}

func (r keyRepositoryImpl) findKeys(
	ctx context.Context, query *badgerhold.Query,
) ([]domain.Key, error) {
	var keys []domain.Key
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.db.store.TxFind(tx, &keys, query)
	} else {
		err = r.db.store.Find(&keys, query)
	}
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func sameNonEmpty(a, b string) bool {
	return a != "" && a == b
}
