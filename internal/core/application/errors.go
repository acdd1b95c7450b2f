package application

import (
	"errors"
	"fmt"
)

var (
	// ErrAddressNotTracked is thrown when syncing an address no key of the
	// wallet was derived for
	ErrAddressNotTracked = errors.New("address does not belong to any key of the wallet")
	// ErrNothingToSync ...
	ErrNothingToSync = errors.New("wallet has no keys with an address to sync")
)

// SyncError carries enough context (provider, address, page, run id) for the
// caller to resume from a known-good cursor.
type SyncError struct {
	Provider string
	Address  string
	Page     int
	RunID    string
	Err      error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf(
		"sync run %s: provider %s, address %s, page %d: %v",
		e.RunID, e.Provider, e.Address, e.Page, e.Err,
	)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
