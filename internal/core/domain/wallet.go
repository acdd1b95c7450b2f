package domain

// Allowed values for Wallet.Scheme.
const (
	SchemeSingle = "single"
	SchemeBIP32  = "bip32"
)

// Allowed values for the witness type of wallets, transactions and inputs.
const (
	WitnessTypeLegacy     = "legacy"
	WitnessTypeSegwit     = "segwit"
	WitnessTypeP2SHSegwit = "p2sh-segwit"
)

// Allowed values for the address encoding of wallets and keys.
const (
	EncodingBase58 = "base58"
	EncodingBech32 = "bech32"
)

// DefaultTreeDepth bounds the eager traversal of a wallet's children.
const DefaultTreeDepth = 2

// Wallet defines the wallet entity, the root aggregate of the ledger.
// Wallets form a rooted tree through ParentID.
type Wallet struct {
	ID          uint64 `badgerhold:"key"`
	Name        string
	NetworkName string
	Scheme      string
	WitnessType string
	Encoding    string
	Purpose     int
	ParentID    *uint64
	// MultisigRequired is the number of required signatures, only meaningful
	// for multisignature master keys.
	MultisigRequired int
	// SortKeys indicates deterministic ordering of the keys of a multisig
	// wallet.
	SortKeys  bool
	MainKeyID uint64
	KeyPath   string
}

// Validate returns an error if any of the wallet's enumerated fields holds a
// value outside its allowed set.
func (w *Wallet) Validate() error {
	if !IsValidScheme(w.Scheme) {
		return ErrInvalidScheme
	}
	if !IsValidWitnessType(w.WitnessType) {
		return ErrInvalidWitnessType
	}
	if !IsValidEncoding(w.Encoding) {
		return ErrInvalidEncoding
	}
	return nil
}

// IsValidScheme reports whether the given value belongs to the closed set of
// wallet schemes.
func IsValidScheme(scheme string) bool {
	return scheme == SchemeSingle || scheme == SchemeBIP32
}

// IsValidWitnessType reports whether the given value belongs to the closed
// set of witness types.
func IsValidWitnessType(witnessType string) bool {
	switch witnessType {
	case WitnessTypeLegacy, WitnessTypeSegwit, WitnessTypeP2SHSegwit:
		return true
	}
	return false
}

// IsValidEncoding reports whether the given value belongs to the closed set
// of address encodings.
func IsValidEncoding(encoding string) bool {
	return encoding == EncodingBase58 || encoding == EncodingBech32
}

// WalletNode is a wallet along with its children up to a bounded depth.
type WalletNode struct {
	Wallet
	Children []*WalletNode
}

// BuildWalletTree assembles the subtree rooted at rootID from the given flat
// list of wallets, descending at most maxDepth levels below the root. It
// returns ErrWalletTreeCycle if the parent links loop, and ErrWalletNotFound
// if rootID does not appear in the list.
func BuildWalletTree(wallets []Wallet, rootID uint64, maxDepth int) (*WalletNode, error) {
	byID := make(map[uint64]Wallet, len(wallets))
	childrenOf := make(map[uint64][]uint64)
	for _, w := range wallets {
		byID[w.ID] = w
		if w.ParentID != nil {
			childrenOf[*w.ParentID] = append(childrenOf[*w.ParentID], w.ID)
		}
	}

	root, ok := byID[rootID]
	if !ok {
		return nil, ErrWalletNotFound
	}

	visited := map[uint64]bool{}
	return buildSubtree(root, byID, childrenOf, visited, maxDepth)
}

func buildSubtree(
	wallet Wallet,
	byID map[uint64]Wallet,
	childrenOf map[uint64][]uint64,
	visited map[uint64]bool,
	depthLeft int,
) (*WalletNode, error) {
	if visited[wallet.ID] {
		return nil, ErrWalletTreeCycle
	}
	visited[wallet.ID] = true

	node := &WalletNode{Wallet: wallet}
	if depthLeft <= 0 {
		return node, nil
	}

	for _, childID := range childrenOf[wallet.ID] {
		child, err := buildSubtree(
			byID[childID], byID, childrenOf, visited, depthLeft-1,
		)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}
