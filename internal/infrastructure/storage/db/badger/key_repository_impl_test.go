package dbbadger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitwallet-network/bitwallet-daemon/internal/core/domain"
)

func TestAddAndGetKey(t *testing.T) {
	before()
	defer after()

	walletID := insertTestWallet()
	keyID := insertTestKey(walletID, "bc1qfirst")

	key, err := manager.KeyRepository().GetKey(ctx, keyID)
	require.NoError(t, err)
	require.Equal(t, walletID, key.WalletID)

	key, err = manager.KeyRepository().GetKeyByAddress(ctx, walletID, "bc1qfirst")
	require.NoError(t, err)
	require.Equal(t, keyID, key.ID)

	_, err = manager.KeyRepository().GetKeyByAddress(ctx, walletID, "bc1qunknown")
	require.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestAddKeyDuplicateEncodings(t *testing.T) {
	before()
	defer after()

	walletID := insertTestWallet()
	insertTestKey(walletID, "bc1qfirst")

	// Same address within the wallet is rejected.
	_, err := manager.KeyRepository().AddKey(ctx, domain.Key{
		WalletID:    walletID,
		NetworkName: "bitcoin",
		KeyType:     domain.KeyTypeBIP32,
		Address:     "bc1qfirst",
	})
	require.ErrorIs(t, err, domain.ErrDuplicateKey)

	// The same address in another wallet is fine.
	otherWalletID, err := manager.WalletRepository().AddWallet(ctx, domain.Wallet{
		Name:        "otherwallet",
		NetworkName: "bitcoin",
		Scheme:      domain.SchemeBIP32,
		WitnessType: domain.WitnessTypeSegwit,
		Encoding:    domain.EncodingBech32,
	})
	require.NoError(t, err)

	_, err = manager.KeyRepository().AddKey(ctx, domain.Key{
		WalletID:    otherWalletID,
		NetworkName: "bitcoin",
		KeyType:     domain.KeyTypeBIP32,
		Address:     "bc1qfirst",
	})
	require.NoError(t, err)
}

func TestAddKeyDuplicatePublic(t *testing.T) {
	before()
	defer after()

	walletID := insertTestWallet()
	_, err := manager.KeyRepository().AddKey(ctx, domain.Key{
		WalletID:    walletID,
		NetworkName: "bitcoin",
		KeyType:     domain.KeyTypeBIP32,
		Public:      "02aabb",
		Address:     "bc1qfirst",
	})
	require.NoError(t, err)

	_, err = manager.KeyRepository().AddKey(ctx, domain.Key{
		WalletID:    walletID,
		NetworkName: "bitcoin",
		KeyType:     domain.KeyTypeBIP32,
		Public:      "02aabb",
		Address:     "bc1qsecond",
	})
	require.ErrorIs(t, err, domain.ErrDuplicateKey)
}

func TestUpdateKeyCursor(t *testing.T) {
	before()
	defer after()

	walletID := insertTestWallet()
	keyID := insertTestKey(walletID, "bc1qfirst")

	err := manager.KeyRepository().UpdateKey(
		ctx, keyID, func(k *domain.Key) (*domain.Key, error) {
			k.LatestTxID = "feedbeef"
			k.Used = true
			return k, nil
		},
	)
	require.NoError(t, err)

	key, err := manager.KeyRepository().GetKey(ctx, keyID)
	require.NoError(t, err)
	require.Equal(t, "feedbeef", key.LatestTxID)
	require.True(t, key.Used)
}

func TestMultisigChildrenOrder(t *testing.T) {
	before()
	defer after()

	walletID := insertTestWallet()
	parentID := insertTestKey(walletID, "3parent")
	childA := insertTestKey(walletID, "bc1qchilda")
	childB := insertTestKey(walletID, "bc1qchildb")
	childC := insertTestKey(walletID, "bc1qchildc")

	// Insertion order is what is preserved, not the id order.
	err := manager.KeyRepository().AddMultisigChildren(
		ctx, parentID, []uint64{childC, childA, childB},
	)
	require.NoError(t, err)

	children, err := manager.KeyRepository().ListMultisigChildren(ctx, parentID)
	require.NoError(t, err)
	require.Len(t, children, 3)
	require.Equal(t, childC, children[0].ID)
	require.Equal(t, childA, children[1].ID)
	require.Equal(t, childB, children[2].ID)
}

func TestDeleteKeyCascade(t *testing.T) {
	before()
	defer after()

	walletID := insertTestWallet()
	keyID := insertTestKey(walletID, "bc1qfirst")
	otherKeyID := insertTestKey(walletID, "bc1qsecond")

	// One tx linked only to keyID, one linked to both keys.
	soleTx := domain.Transaction{
		WalletID: walletID,
		TxID:     "aaaa",
		Status:   domain.StatusConfirmed,
		Outputs: []domain.TransactionOutput{
			{Index: 0, KeyID: &keyID, Value: 1000},
		},
	}
	sharedTx := domain.Transaction{
		WalletID: walletID,
		TxID:     "bbbb",
		Status:   domain.StatusConfirmed,
		Outputs: []domain.TransactionOutput{
			{Index: 0, KeyID: &keyID, Value: 2000},
			{Index: 1, KeyID: &otherKeyID, Value: 3000},
		},
	}
	require.NoError(t, manager.TransactionRepository().UpsertTransaction(ctx, soleTx))
	require.NoError(t, manager.TransactionRepository().UpsertTransaction(ctx, sharedTx))

	require.NoError(t, manager.KeyRepository().DeleteKey(ctx, keyID))

	_, err := manager.KeyRepository().GetKey(ctx, keyID)
	require.ErrorIs(t, err, domain.ErrKeyNotFound)

	// The tx linked only to the deleted key is gone, the shared one keeps
	// the other key's output.
	_, err = manager.TransactionRepository().GetTransaction(ctx, walletID, "aaaa")
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)

	shared, err := manager.TransactionRepository().GetTransaction(ctx, walletID, "bbbb")
	require.NoError(t, err)
	require.Len(t, shared.Outputs, 1)
	require.Equal(t, otherKeyID, *shared.Outputs[0].KeyID)
}
