package domain

import "context"

// NetworkRepository gives access to the known networks.
type NetworkRepository interface {
	AddNetwork(ctx context.Context, network Network) error
	GetNetwork(ctx context.Context, name string) (*Network, error)
	ListNetworks(ctx context.Context) ([]Network, error)
}
