package inmemory

import (
	"context"

	"github.com/bitwallet-network/bitwallet-daemon/internal/core/domain"
)

// NetworkRepositoryImpl represents an in memory storage
type NetworkRepositoryImpl struct {
	store *storage
}

// NewNetworkRepositoryImpl returns a new empty NetworkRepositoryImpl
func NewNetworkRepositoryImpl(store *storage) *NetworkRepositoryImpl {
	return &NetworkRepositoryImpl{store: store}
}

func (r *NetworkRepositoryImpl) AddNetwork(
	ctx context.Context, network domain.Network,
) error {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	if _, ok := r.store.networks[network.Name]; ok {
		return nil
	}
	r.store.networks[network.Name] = network
	return nil
}

func (r *NetworkRepositoryImpl) GetNetwork(
	ctx context.Context, name string,
) (*domain.Network, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	network, ok := r.store.networks[name]
	if !ok {
		return nil, domain.ErrNetworkNotFound
	}
	return &network, nil
}

func (r *NetworkRepositoryImpl) ListNetworks(
	ctx context.Context,
) ([]domain.Network, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	networks := make([]domain.Network, 0, len(r.store.networks))
	for _, network := range r.store.networks {
		networks = append(networks, network)
	}
	return networks, nil
}
