package domain

// Allowed values for Key.KeyType.
const (
	KeyTypeSingle   = "single"
	KeyTypeBIP32    = "bip32"
	KeyTypeMultisig = "multisig"
)

// Key defines the key entity. A key belongs to exactly one wallet and one
// network and carries the HD path components it was derived with.
type Key struct {
	ID           uint64 `badgerhold:"key"`
	WalletID     uint64
	NetworkName  string
	Name         string
	Path         string
	Depth        int
	Change       int
	AddressIndex uint64
	Public       string
	Private      string
	WIF          string
	Compressed   bool
	KeyType      string
	Address      string
	Encoding     string
	Purpose      int
	IsPrivate    bool
	Balance      uint64
	Used         bool
	// LatestTxID is the cursor of the last transaction consumed for this
	// key's address, used to resume incremental sync.
	LatestTxID string
}

// Validate returns an error if any of the key's enumerated fields holds a
// value outside its allowed set.
func (k *Key) Validate() error {
	if !IsValidKeyType(k.KeyType) {
		return ErrInvalidKeyType
	}
	if k.Encoding != "" && !IsValidEncoding(k.Encoding) {
		return ErrInvalidEncoding
	}
	return nil
}

// IsValidKeyType reports whether the given value belongs to the closed set
// of key types.
func IsValidKeyType(keyType string) bool {
	switch keyType {
	case KeyTypeSingle, KeyTypeBIP32, KeyTypeMultisig:
		return true
	}
	return false
}

// MultisigChild links a multisig key to one of its child keys. KeyOrder
// preserves insertion order: the key order of a multisig script is part of
// its identity, not incidental.
type MultisigChild struct {
	ParentKeyID uint64
	ChildKeyID  uint64
	KeyOrder    int
}

// MultisigChildKey identifies a MultisigChild row.
type MultisigChildKey struct {
	ParentKeyID uint64
	ChildKeyID  uint64
}

func (m MultisigChild) Key() MultisigChildKey {
	return MultisigChildKey{ParentKeyID: m.ParentKeyID, ChildKeyID: m.ChildKeyID}
}
