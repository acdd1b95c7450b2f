package inmemory

import (
	"context"

	"github.com/bitwallet-network/bitwallet-daemon/internal/core/domain"
)

// WalletRepositoryImpl represents an in memory storage
type WalletRepositoryImpl struct {
	store *storage
}

// NewWalletRepositoryImpl returns a new empty WalletRepositoryImpl
func NewWalletRepositoryImpl(store *storage) *WalletRepositoryImpl {
	return &WalletRepositoryImpl{store: store}
}

func (r *WalletRepositoryImpl) AddWallet(
	ctx context.Context, wallet domain.Wallet,
) (uint64, error) {
	if err := wallet.Validate(); err != nil {
		return 0, err
	}

	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	for _, existing := range r.store.wallets {
		if existing.Name == wallet.Name {
			return 0, domain.ErrWalletNameTaken
		}
	}

	r.store.walletCounter++
	wallet.ID = r.store.walletCounter
	r.store.wallets[wallet.ID] = wallet
	return wallet.ID, nil
}

func (r *WalletRepositoryImpl) GetWallet(
	ctx context.Context, id uint64,
) (*domain.Wallet, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	wallet, ok := r.store.wallets[id]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	return &wallet, nil
}

func (r *WalletRepositoryImpl) GetWalletByName(
	ctx context.Context, name string,
) (*domain.Wallet, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	for _, wallet := range r.store.wallets {
		if wallet.Name == name {
			found := wallet
			return &found, nil
		}
	}
	return nil, domain.ErrWalletNotFound
}

func (r *WalletRepositoryImpl) ListWallets(
	ctx context.Context,
) ([]domain.Wallet, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	wallets := make([]domain.Wallet, 0, len(r.store.wallets))
	for _, wallet := range r.store.wallets {
		wallets = append(wallets, wallet)
	}
	return wallets, nil
}

func (r *WalletRepositoryImpl) GetWalletTree(
	ctx context.Context, id uint64, maxDepth int,
) (*domain.WalletNode, error) {
	wallets, err := r.ListWallets(ctx)
	if err != nil {
		return nil, err
	}
	return domain.BuildWalletTree(wallets, id, maxDepth)
}

func (r *WalletRepositoryImpl) UpdateWallet(
	ctx context.Context, id uint64,
	updateFn func(w *domain.Wallet) (*domain.Wallet, error),
) error {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	wallet, ok := r.store.wallets[id]
	if !ok {
		return domain.ErrWalletNotFound
	}

	updated, err := updateFn(&wallet)
	if err != nil {
		return err
	}
	if err := updated.Validate(); err != nil {
		return err
	}

	r.store.wallets[id] = *updated
	return nil
}

func (r *WalletRepositoryImpl) DeleteWallet(
	ctx context.Context, id uint64,
) error {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	if _, ok := r.store.wallets[id]; !ok {
		return domain.ErrWalletNotFound
	}
	delete(r.store.wallets, id)
	return nil
}
