package domain

import "context"

// KeyRepository gives access to the keys of the ledger. Within a wallet the
// public key, private key, wif and address of a key are each unique.
type KeyRepository interface {
	// AddKey persists the given key and returns its assigned id. It returns
	// ErrDuplicateKey when the wallet already holds any of the key's
	// public/private/wif/address encodings.
	AddKey(ctx context.Context, key Key) (uint64, error)
	GetKey(ctx context.Context, id uint64) (*Key, error)
	GetKeyByAddress(ctx context.Context, walletID uint64, address string) (*Key, error)
	ListKeys(ctx context.Context, walletID uint64) ([]Key, error)
	UpdateKey(
		ctx context.Context, id uint64,
		updateFn func(k *Key) (*Key, error),
	) error
	// DeleteKey removes the key. Cascade removal of the key's transaction
	// inputs and outputs is the store's responsibility.
	DeleteKey(ctx context.Context, id uint64) error
	// AddMultisigChildren links the given child keys to the parent multisig
	// key, preserving the given order.
	AddMultisigChildren(ctx context.Context, parentKeyID uint64, childKeyIDs []uint64) error
	// ListMultisigChildren returns the child keys of the parent multisig key
	// in insertion order.
	ListMultisigChildren(ctx context.Context, parentKeyID uint64) ([]Key, error)
}
