package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitwallet-network/bitwallet-daemon/internal/core/application"
	"github.com/bitwallet-network/bitwallet-daemon/internal/core/domain"
	"github.com/bitwallet-network/bitwallet-daemon/internal/infrastructure/storage/db/inmemory"
)

func TestCreateWalletRegistersNetwork(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repoManager := inmemory.NewRepoManager()
	svc := application.NewWalletService(repoManager)

	id, err := svc.CreateWallet(ctx, domain.Wallet{
		Name:        "cold",
		NetworkName: "testnet",
		Scheme:      domain.SchemeBIP32,
		WitnessType: domain.WitnessTypeSegwit,
		Encoding:    domain.EncodingBech32,
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	network, err := repoManager.NetworkRepository().GetNetwork(ctx, "testnet")
	require.NoError(t, err)
	require.Equal(t, "testnet", network.Name)

	_, err = svc.CreateWallet(ctx, domain.Wallet{
		Name:        "cold",
		NetworkName: "testnet",
		Scheme:      domain.SchemeBIP32,
		WitnessType: domain.WitnessTypeSegwit,
		Encoding:    domain.EncodingBech32,
	})
	require.ErrorIs(t, err, domain.ErrWalletNameTaken)
}

func TestAddKeyInheritsWalletDefaults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := application.NewWalletService(inmemory.NewRepoManager())

	_, err := svc.CreateWallet(ctx, domain.Wallet{
		Name:        "hot",
		NetworkName: "bitcoin",
		Scheme:      domain.SchemeBIP32,
		WitnessType: domain.WitnessTypeSegwit,
		Encoding:    domain.EncodingBech32,
	})
	require.NoError(t, err)

	_, err = svc.AddKey(ctx, "hot", domain.Key{
		KeyType: domain.KeyTypeBIP32,
		Address: "bc1qsomeaddress",
	})
	require.NoError(t, err)

	keys, err := svc.ListKeys(ctx, "hot")
	require.NoError(t, err)
	require.Len(t, keys, 1)
	require.Equal(t, "bitcoin", keys[0].NetworkName)
	require.Equal(t, domain.EncodingBech32, keys[0].Encoding)
}

func TestAddMultisigKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := application.NewWalletService(inmemory.NewRepoManager())

	_, err := svc.CreateWallet(ctx, domain.Wallet{
		Name:             "shared",
		NetworkName:      "bitcoin",
		Scheme:           domain.SchemeBIP32,
		WitnessType:      domain.WitnessTypeSegwit,
		Encoding:         domain.EncodingBech32,
		MultisigRequired: 2,
	})
	require.NoError(t, err)

	childA, err := svc.AddKey(ctx, "shared", domain.Key{
		KeyType: domain.KeyTypeBIP32, Public: "02aa",
	})
	require.NoError(t, err)
	childB, err := svc.AddKey(ctx, "shared", domain.Key{
		KeyType: domain.KeyTypeBIP32, Public: "02bb",
	})
	require.NoError(t, err)

	parentID, err := svc.AddMultisigKey(ctx, "shared", domain.Key{
		Address: "3multisigaddr",
	}, []uint64{childB, childA})
	require.NoError(t, err)

	children, err := svc.ListMultisigChildren(ctx, parentID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	require.Equal(t, childB, children[0].ID)
	require.Equal(t, childA, children[1].ID)
}

func TestDeleteWalletCascades(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repoManager := inmemory.NewRepoManager()
	svc := application.NewWalletService(repoManager)

	walletID, err := svc.CreateWallet(ctx, domain.Wallet{
		Name:        "todelete",
		NetworkName: "bitcoin",
		Scheme:      domain.SchemeBIP32,
		WitnessType: domain.WitnessTypeSegwit,
		Encoding:    domain.EncodingBech32,
	})
	require.NoError(t, err)

	keyID, err := svc.AddKey(ctx, "todelete", domain.Key{
		KeyType: domain.KeyTypeBIP32, Address: "bc1qgone",
	})
	require.NoError(t, err)

	err = repoManager.TransactionRepository().UpsertTransaction(ctx, domain.Transaction{
		WalletID: walletID,
		TxID:     "aaaa",
		Status:   domain.StatusConfirmed,
		Outputs: []domain.TransactionOutput{
			{Index: 0, KeyID: &keyID, Value: 1000},
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteWallet(ctx, "todelete"))

	_, err = svc.GetWallet(ctx, "todelete")
	require.ErrorIs(t, err, domain.ErrWalletNotFound)

	txs, err := repoManager.TransactionRepository().ListTransactions(ctx, walletID)
	require.NoError(t, err)
	require.Empty(t, txs)
}

func TestWalletBalance(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repoManager := inmemory.NewRepoManager()
	svc := application.NewWalletService(repoManager)

	walletID, err := svc.CreateWallet(ctx, domain.Wallet{
		Name:        "rich",
		NetworkName: "bitcoin",
		Scheme:      domain.SchemeBIP32,
		WitnessType: domain.WitnessTypeSegwit,
		Encoding:    domain.EncodingBech32,
	})
	require.NoError(t, err)

	keyID, err := svc.AddKey(ctx, "rich", domain.Key{
		KeyType: domain.KeyTypeBIP32, Address: "bc1qrich",
	})
	require.NoError(t, err)

	err = repoManager.TransactionRepository().UpsertTransaction(ctx, domain.Transaction{
		WalletID: walletID,
		TxID:     "aaaa",
		Status:   domain.StatusConfirmed,
		Outputs: []domain.TransactionOutput{
			{Index: 0, KeyID: &keyID, Value: 1500},
			{Index: 1, KeyID: &keyID, Value: 2500, Spent: true},
		},
	})
	require.NoError(t, err)

	balance, err := svc.Balance(ctx, "rich")
	require.NoError(t, err)
	require.Equal(t, uint64(1500), balance)
}
