package application

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/bitwallet-network/bitwallet-daemon/internal/core/domain"
	"github.com/bitwallet-network/bitwallet-daemon/internal/core/ports"
)

// WalletService manages the wallets and keys of the ledger.
type WalletService interface {
	CreateWallet(ctx context.Context, wallet domain.Wallet) (uint64, error)
	GetWallet(ctx context.Context, name string) (*domain.Wallet, error)
	ListWallets(ctx context.Context) ([]domain.Wallet, error)
	// WalletTree returns the wallet and its children down to maxDepth
	// levels. maxDepth <= 0 falls back to the default tree depth.
	WalletTree(ctx context.Context, name string, maxDepth int) (*domain.WalletNode, error)
	DeleteWallet(ctx context.Context, name string) error

	AddKey(ctx context.Context, walletName string, key domain.Key) (uint64, error)
	// AddMultisigKey adds the parent key and links the given child keys to
	// it in the given order, all in one store transaction.
	AddMultisigKey(
		ctx context.Context, walletName string,
		key domain.Key, childKeyIDs []uint64,
	) (uint64, error)
	ListKeys(ctx context.Context, walletName string) ([]domain.Key, error)
	ListMultisigChildren(ctx context.Context, parentKeyID uint64) ([]domain.Key, error)
	// DeleteKey removes the key along with its transaction inputs and
	// outputs, dropping transactions left without any linked row.
	DeleteKey(ctx context.Context, walletName string, keyID uint64) error

	ListTransactions(ctx context.Context, walletName string) ([]domain.Transaction, error)
	ListUtxos(ctx context.Context, walletName string, keyID *uint64) ([]domain.Utxo, error)
	// Balance returns the sum of the wallet's unspent output values.
	Balance(ctx context.Context, walletName string) (uint64, error)
}

type walletService struct {
	repoManager ports.RepoManager
}

// NewWalletService returns a WalletService backed by the given store.
func NewWalletService(repoManager ports.RepoManager) WalletService {
	return &walletService{repoManager: repoManager}
}

func (s *walletService) CreateWallet(
	ctx context.Context, wallet domain.Wallet,
) (uint64, error) {
	if err := s.repoManager.NetworkRepository().AddNetwork(
		ctx, domain.Network{Name: wallet.NetworkName},
	); err != nil {
		return 0, err
	}

	id, err := s.repoManager.WalletRepository().AddWallet(ctx, wallet)
	if err != nil {
		return 0, err
	}

	log.Infof("created wallet %s (id %d)", wallet.Name, id)
	return id, nil
}

func (s *walletService) GetWallet(
	ctx context.Context, name string,
) (*domain.Wallet, error) {
	return s.repoManager.WalletRepository().GetWalletByName(ctx, name)
}

func (s *walletService) ListWallets(ctx context.Context) ([]domain.Wallet, error) {
	return s.repoManager.WalletRepository().ListWallets(ctx)
}

func (s *walletService) WalletTree(
	ctx context.Context, name string, maxDepth int,
) (*domain.WalletNode, error) {
	wallet, err := s.repoManager.WalletRepository().GetWalletByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if maxDepth <= 0 {
		maxDepth = domain.DefaultTreeDepth
	}
	return s.repoManager.WalletRepository().GetWalletTree(ctx, wallet.ID, maxDepth)
}

func (s *walletService) DeleteWallet(ctx context.Context, name string) error {
	wallet, err := s.repoManager.WalletRepository().GetWalletByName(ctx, name)
	if err != nil {
		return err
	}

	// Keys go first so their transaction rows are detached before the
	// wallet row disappears.
	_, err = s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			keys, err := s.repoManager.KeyRepository().ListKeys(ctx, wallet.ID)
			if err != nil {
				return nil, err
			}
			for _, key := range keys {
				if err := s.repoManager.KeyRepository().DeleteKey(
					ctx, key.ID,
				); err != nil {
					return nil, err
				}
			}
			return nil, s.repoManager.WalletRepository().DeleteWallet(ctx, wallet.ID)
		},
	)
	return err
}

func (s *walletService) AddKey(
	ctx context.Context, walletName string, key domain.Key,
) (uint64, error) {
	wallet, err := s.repoManager.WalletRepository().GetWalletByName(ctx, walletName)
	if err != nil {
		return 0, err
	}
	key.WalletID = wallet.ID
	if key.NetworkName == "" {
		key.NetworkName = wallet.NetworkName
	}
	if key.Encoding == "" {
		key.Encoding = wallet.Encoding
	}
	return s.repoManager.KeyRepository().AddKey(ctx, key)
}

func (s *walletService) AddMultisigKey(
	ctx context.Context, walletName string,
	key domain.Key, childKeyIDs []uint64,
) (uint64, error) {
	wallet, err := s.repoManager.WalletRepository().GetWalletByName(ctx, walletName)
	if err != nil {
		return 0, err
	}
	key.WalletID = wallet.ID
	key.KeyType = domain.KeyTypeMultisig
	if key.NetworkName == "" {
		key.NetworkName = wallet.NetworkName
	}

	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			id, err := s.repoManager.KeyRepository().AddKey(ctx, key)
			if err != nil {
				return nil, err
			}
			if err := s.repoManager.KeyRepository().AddMultisigChildren(
				ctx, id, childKeyIDs,
			); err != nil {
				return nil, err
			}
			return id, nil
		},
	)
	if err != nil {
		return 0, err
	}
	return res.(uint64), nil
}

func (s *walletService) ListKeys(
	ctx context.Context, walletName string,
) ([]domain.Key, error) {
	wallet, err := s.repoManager.WalletRepository().GetWalletByName(ctx, walletName)
	if err != nil {
		return nil, err
	}
	return s.repoManager.KeyRepository().ListKeys(ctx, wallet.ID)
}

func (s *walletService) ListMultisigChildren(
	ctx context.Context, parentKeyID uint64,
) ([]domain.Key, error) {
	return s.repoManager.KeyRepository().ListMultisigChildren(ctx, parentKeyID)
}

func (s *walletService) DeleteKey(
	ctx context.Context, walletName string, keyID uint64,
) error {
	wallet, err := s.repoManager.WalletRepository().GetWalletByName(ctx, walletName)
	if err != nil {
		return err
	}
	key, err := s.repoManager.KeyRepository().GetKey(ctx, keyID)
	if err != nil {
		return err
	}
	if key.WalletID != wallet.ID {
		return domain.ErrKeyNotFound
	}
	return s.repoManager.KeyRepository().DeleteKey(ctx, keyID)
}

func (s *walletService) ListTransactions(
	ctx context.Context, walletName string,
) ([]domain.Transaction, error) {
	wallet, err := s.repoManager.WalletRepository().GetWalletByName(ctx, walletName)
	if err != nil {
		return nil, err
	}
	return s.repoManager.TransactionRepository().ListTransactions(ctx, wallet.ID)
}

func (s *walletService) ListUtxos(
	ctx context.Context, walletName string, keyID *uint64,
) ([]domain.Utxo, error) {
	wallet, err := s.repoManager.WalletRepository().GetWalletByName(ctx, walletName)
	if err != nil {
		return nil, err
	}
	return s.repoManager.TransactionRepository().ListUtxos(ctx, wallet.ID, keyID)
}

func (s *walletService) Balance(
	ctx context.Context, walletName string,
) (uint64, error) {
	utxos, err := s.ListUtxos(ctx, walletName, nil)
	if err != nil {
		return 0, err
	}
	var balance uint64
	for _, utxo := range utxos {
		balance += utxo.Value
	}
	return balance, nil
}
