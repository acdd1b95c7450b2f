package dbbadger

import (
	"context"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bitwallet-network/bitwallet-daemon/internal/core/domain"
)

type networkRepositoryImpl struct {
	db *repoManager
}

// NewNetworkRepositoryImpl returns a badger implementation of the domain
// NetworkRepository interface.
func NewNetworkRepositoryImpl(db *repoManager) domain.NetworkRepository {
	return networkRepositoryImpl{db: db}
}

func (r networkRepositoryImpl) AddNetwork(
	ctx context.Context, network domain.Network,
) error {
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.db.store.TxInsert(tx, network.Name, &network)
	} else {
		err = r.db.store.Insert(network.Name, &network)
	}
	if err != nil && err != badgerhold.ErrKeyExists {
		return err
	}
	return nil
}

func (r networkRepositoryImpl) GetNetwork(
	ctx context.Context, name string,
) (*domain.Network, error) {
	var network domain.Network
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.db.store.TxGet(tx, name, &network)
	} else {
		err = r.db.store.Get(name, &network)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrNetworkNotFound
		}
		return nil, err
	}
	return &network, nil
}

func (r networkRepositoryImpl) ListNetworks(
	ctx context.Context,
) ([]domain.Network, error) {
	var networks []domain.Network
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.db.store.TxFind(tx, &networks, nil)
	} else {
		err = r.db.store.Find(&networks, nil)
	}
	if err != nil {
		return nil, err
	}
	return networks, nil
}
