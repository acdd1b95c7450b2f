package domain

import "context"

// WalletRepository gives access to the wallets of the ledger. Wallet names
// are unique across the store.
type WalletRepository interface {
	// AddWallet persists the given wallet and returns its assigned id. It
	// returns ErrWalletNameTaken when the name is already in use and an
	// enum error when a field holds a value outside its allowed set.
	AddWallet(ctx context.Context, wallet Wallet) (uint64, error)
	GetWallet(ctx context.Context, id uint64) (*Wallet, error)
	GetWalletByName(ctx context.Context, name string) (*Wallet, error)
	ListWallets(ctx context.Context) ([]Wallet, error)
	// GetWalletTree returns the wallet along with its children, descending
	// at most maxDepth levels.
	GetWalletTree(ctx context.Context, id uint64, maxDepth int) (*WalletNode, error)
	UpdateWallet(
		ctx context.Context, id uint64,
		updateFn func(w *Wallet) (*Wallet, error),
	) error
	DeleteWallet(ctx context.Context, id uint64) error
}
