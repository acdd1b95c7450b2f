package inmemory

import (
	"context"
	"sort"

	"github.com/bitwallet-network/bitwallet-daemon/internal/core/domain"
)

// KeyRepositoryImpl represents an in memory storage
type KeyRepositoryImpl struct {
	store *storage
}

// NewKeyRepositoryImpl returns a new empty KeyRepositoryImpl
func NewKeyRepositoryImpl(store *storage) *KeyRepositoryImpl {
	return &KeyRepositoryImpl{store: store}
}

func (r *KeyRepositoryImpl) AddKey(
	ctx context.Context, key domain.Key,
) (uint64, error) {
	if err := key.Validate(); err != nil {
		return 0, err
	}

	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	for _, sibling := range r.store.keys {
		if sibling.WalletID != key.WalletID {
			continue
		}
		if sameNonEmpty(sibling.Public, key.Public) ||
			sameNonEmpty(sibling.Private, key.Private) ||
			sameNonEmpty(sibling.WIF, key.WIF) ||
			sameNonEmpty(sibling.Address, key.Address) {
			return 0, domain.ErrDuplicateKey
		}
	}

	r.store.keyCounter++
	key.ID = r.store.keyCounter
	r.store.keys[key.ID] = key
	return key.ID, nil
}

func (r *KeyRepositoryImpl) GetKey(
	ctx context.Context, id uint64,
) (*domain.Key, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	key, ok := r.store.keys[id]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return &key, nil
}

func (r *KeyRepositoryImpl) GetKeyByAddress(
	ctx context.Context, walletID uint64, address string,
) (*domain.Key, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	for _, key := range r.store.keys {
		if key.WalletID == walletID && key.Address == address {
			found := key
			return &found, nil
		}
	}
	return nil, domain.ErrKeyNotFound
}

func (r *KeyRepositoryImpl) ListKeys(
	ctx context.Context, walletID uint64,
) ([]domain.Key, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	keys := make([]domain.Key, 0)
	for _, key := range r.store.keys {
		if key.WalletID == walletID {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].ID < keys[j].ID })
	return keys, nil
}

func (r *KeyRepositoryImpl) UpdateKey(
	ctx context.Context, id uint64,
	updateFn func(k *domain.Key) (*domain.Key, error),
) error {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	key, ok := r.store.keys[id]
	if !ok {
		return domain.ErrKeyNotFound
	}

	updated, err := updateFn(&key)
	if err != nil {
		return err
	}
	if err := updated.Validate(); err != nil {
		return err
	}

	r.store.keys[id] = *updated
	return nil
}

func (r *KeyRepositoryImpl) DeleteKey(ctx context.Context, id uint64) error {
	r.store.lock.Lock()
	key, ok := r.store.keys[id]
	if !ok {
		r.store.lock.Unlock()
		return domain.ErrKeyNotFound
	}

	for msKey := range r.store.multisig {
		if msKey.ParentKeyID == id || msKey.ChildKeyID == id {
			delete(r.store.multisig, msKey)
		}
	}
	delete(r.store.keys, id)
	r.store.lock.Unlock()

	return NewTransactionRepositoryImpl(r.store).DeleteTransactionsForKey(
		ctx, key.WalletID, id,
	)
}

func (r *KeyRepositoryImpl) AddMultisigChildren(
	ctx context.Context, parentKeyID uint64, childKeyIDs []uint64,
) error {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	for order, childID := range childKeyIDs {
		child := domain.MultisigChild{
			ParentKeyID: parentKeyID,
			ChildKeyID:  childID,
			KeyOrder:    order,
		}
		if _, ok := r.store.multisig[child.Key()]; ok {
			continue
		}
		r.store.multisig[child.Key()] = child
	}
	return nil
}

func (r *KeyRepositoryImpl) ListMultisigChildren(
	ctx context.Context, parentKeyID uint64,
) ([]domain.Key, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	children := make([]domain.MultisigChild, 0)
	for _, child := range r.store.multisig {
		if child.ParentKeyID == parentKeyID {
			children = append(children, child)
		}
	}
	sort.Slice(children, func(i, j int) bool {
		return children[i].KeyOrder < children[j].KeyOrder
	})

	keys := make([]domain.Key, 0, len(children))
	for _, child := range children {
		key, ok := r.store.keys[child.ChildKeyID]
		if !ok {
			return nil, domain.ErrKeyNotFound
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func sameNonEmpty(a, b string) bool {
	return a != "" && a == b
}
