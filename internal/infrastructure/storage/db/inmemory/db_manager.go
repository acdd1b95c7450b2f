package inmemory

import (
	"context"
	"sync"

	"github.com/bitwallet-network/bitwallet-daemon/internal/core/domain"
	"github.com/bitwallet-network/bitwallet-daemon/internal/core/ports"
)

// storage is the shared in memory state of all the repositories.
type storage struct {
	networks      map[string]domain.Network
	wallets       map[uint64]domain.Wallet
	keys          map[uint64]domain.Key
	multisig      map[domain.MultisigChildKey]domain.MultisigChild
	transactions  map[domain.TxKey]domain.Transaction
	walletCounter uint64
	keyCounter    uint64
	lock          *sync.RWMutex
}

type repoManager struct {
	store *storage

	networkRepository     domain.NetworkRepository
	walletRepository      domain.WalletRepository
	keyRepository         domain.KeyRepository
	transactionRepository domain.TransactionRepository
}

// NewRepoManager returns an in memory implementation of the RepoManager
// interface, mainly useful for tests and ephemeral runs.
func NewRepoManager() ports.RepoManager {
	store := &storage{
		networks:     map[string]domain.Network{},
		wallets:      map[uint64]domain.Wallet{},
		keys:         map[uint64]domain.Key{},
		multisig:     map[domain.MultisigChildKey]domain.MultisigChild{},
		transactions: map[domain.TxKey]domain.Transaction{},
		lock:         &sync.RWMutex{},
	}

	manager := &repoManager{store: store}
	manager.networkRepository = NewNetworkRepositoryImpl(store)
	manager.walletRepository = NewWalletRepositoryImpl(store)
	manager.keyRepository = NewKeyRepositoryImpl(store)
	manager.transactionRepository = NewTransactionRepositoryImpl(store)
	return manager
}

func (d *repoManager) NetworkRepository() domain.NetworkRepository {
	return d.networkRepository
}

func (d *repoManager) WalletRepository() domain.WalletRepository {
	return d.walletRepository
}

func (d *repoManager) KeyRepository() domain.KeyRepository {
	return d.keyRepository
}

func (d *repoManager) TransactionRepository() domain.TransactionRepository {
	return d.transactionRepository
}

func (d *repoManager) Close() {}

// RunTransaction implements the RepoManager interface. The in memory store
// applies writes immediately, so the handler simply runs under the caller's
// context.
func (d *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	return handler(ctx)
}
