package dbbadger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitwallet-network/bitwallet-daemon/internal/core/domain"
)

func TestAddAndGetWallet(t *testing.T) {
	before()
	defer after()

	id := insertTestWallet()
	require.NotZero(t, id)

	wallet, err := manager.WalletRepository().GetWallet(ctx, id)
	require.NoError(t, err)
	require.NotEmpty(t, wallet.Name)

	wallet, err = manager.WalletRepository().GetWalletByName(ctx, wallet.Name)
	require.NoError(t, err)
	require.Equal(t, id, wallet.ID)

	wallets, err := manager.WalletRepository().ListWallets(ctx)
	require.NoError(t, err)
	require.Len(t, wallets, 1)
}

func TestAddWalletDuplicateName(t *testing.T) {
	before()
	defer after()

	wallet := domain.Wallet{
		Name:        "hot",
		NetworkName: "bitcoin",
		Scheme:      domain.SchemeSingle,
		WitnessType: domain.WitnessTypeLegacy,
		Encoding:    domain.EncodingBase58,
	}
	_, err := manager.WalletRepository().AddWallet(ctx, wallet)
	require.NoError(t, err)

	_, err = manager.WalletRepository().AddWallet(ctx, wallet)
	require.ErrorIs(t, err, domain.ErrWalletNameTaken)
}

func TestAddWalletInvalidEnum(t *testing.T) {
	before()
	defer after()

	_, err := manager.WalletRepository().AddWallet(ctx, domain.Wallet{
		Name:        "badwallet",
		NetworkName: "bitcoin",
		Scheme:      "bip44",
		WitnessType: domain.WitnessTypeSegwit,
		Encoding:    domain.EncodingBech32,
	})
	require.ErrorIs(t, err, domain.ErrInvalidScheme)
}

func TestGetWalletTree(t *testing.T) {
	before()
	defer after()

	rootID := insertTestWallet()

	childID, err := manager.WalletRepository().AddWallet(ctx, domain.Wallet{
		Name:        "child",
		NetworkName: "bitcoin",
		Scheme:      domain.SchemeBIP32,
		WitnessType: domain.WitnessTypeSegwit,
		Encoding:    domain.EncodingBech32,
		ParentID:    &rootID,
	})
	require.NoError(t, err)

	tree, err := manager.WalletRepository().GetWalletTree(
		ctx, rootID, domain.DefaultTreeDepth,
	)
	require.NoError(t, err)
	require.Len(t, tree.Children, 1)
	require.Equal(t, childID, tree.Children[0].ID)
}

func TestUpdateWallet(t *testing.T) {
	before()
	defer after()

	id := insertTestWallet()

	err := manager.WalletRepository().UpdateWallet(
		ctx, id, func(w *domain.Wallet) (*domain.Wallet, error) {
			w.Purpose = 84
			return w, nil
		},
	)
	require.NoError(t, err)

	wallet, err := manager.WalletRepository().GetWallet(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 84, wallet.Purpose)
}

func TestDeleteWallet(t *testing.T) {
	before()
	defer after()

	id := insertTestWallet()

	require.NoError(t, manager.WalletRepository().DeleteWallet(ctx, id))

	_, err := manager.WalletRepository().GetWallet(ctx, id)
	require.ErrorIs(t, err, domain.ErrWalletNotFound)

	err = manager.WalletRepository().DeleteWallet(ctx, id)
	require.ErrorIs(t, err, domain.ErrWalletNotFound)
}
