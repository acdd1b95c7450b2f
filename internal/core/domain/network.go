package domain

// Network is an immutable identifier of a blockchain network, referenced by
// wallets, keys and transactions.
type Network struct {
	Name        string
	Description string
}
