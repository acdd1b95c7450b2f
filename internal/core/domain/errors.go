package domain

import "errors"

var (
	// ErrWalletNotFound ...
	ErrWalletNotFound = errors.New("wallet not found")
	// ErrWalletNameTaken is thrown when creating a wallet with a name already in use
	ErrWalletNameTaken = errors.New("wallet name already in use")
	// ErrKeyNotFound ...
	ErrKeyNotFound = errors.New("key not found")
	// ErrDuplicateKey is thrown when a wallet already holds the public key,
	// private key, wif or address of the key being added
	ErrDuplicateKey = errors.New("key already exists in wallet")
	// ErrTransactionNotFound ...
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrNetworkNotFound ...
	ErrNetworkNotFound = errors.New("network not found")
	// ErrInvalidScheme ...
	ErrInvalidScheme = errors.New("scheme must be either single or bip32")
	// ErrInvalidWitnessType ...
	ErrInvalidWitnessType = errors.New("witness type must be one of legacy, segwit, p2sh-segwit")
	// ErrInvalidEncoding ...
	ErrInvalidEncoding = errors.New("address encoding must be either base58 or bech32")
	// ErrInvalidKeyType ...
	ErrInvalidKeyType = errors.New("key type must be one of single, bip32, multisig")
	// ErrInvalidStatus ...
	ErrInvalidStatus = errors.New("transaction status must be one of new, incomplete, unconfirmed, confirmed")
	// ErrInvalidScriptType ...
	ErrInvalidScriptType = errors.New("script type not allowed")
	// ErrWalletTreeCycle is thrown when a wallet's parent chain loops back on itself
	ErrWalletTreeCycle = errors.New("wallet tree must not contain cycles")
)
