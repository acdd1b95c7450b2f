package ports

import (
	"context"

	"github.com/bitwallet-network/bitwallet-daemon/internal/core/domain"
)

// RepoManager gives access to all the repositories of the ledger store.
type RepoManager interface {
	NetworkRepository() domain.NetworkRepository
	WalletRepository() domain.WalletRepository
	KeyRepository() domain.KeyRepository
	TransactionRepository() domain.TransactionRepository

	Close()

	// RunTransaction runs the handler inside a single store transaction:
	// either every write of the handler is committed or none is.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)
}
