package dbbadger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bitwallet-network/bitwallet-daemon/internal/core/domain"
)

func testTx(walletID, keyID uint64, txid string) domain.Transaction {
	return domain.Transaction{
		WalletID: walletID,
		TxID:     txid,
		Status:   domain.StatusUnconfirmed,
		Date:     time.Unix(1700000000, 0),
		Outputs: []domain.TransactionOutput{
			{Index: 0, KeyID: &keyID, ScriptType: "p2wpkh", Value: 5000},
			{Index: 1, ScriptType: "p2wpkh", Value: 100},
		},
	}
}

func TestUpsertTransactionNoDuplicates(t *testing.T) {
	before()
	defer after()

	walletID := insertTestWallet()
	keyID := insertTestKey(walletID, "bc1qfirst")

	tx := testTx(walletID, keyID, "aaaa")
	require.NoError(t, manager.TransactionRepository().UpsertTransaction(ctx, tx))

	// Upserting the same hash again updates in place, the tx count stays 1.
	height := uint64(800000)
	tx.Status = domain.StatusConfirmed
	tx.Confirmations = 2
	tx.BlockHeight = &height
	tx.BlockHash = "00000000aa"
	require.NoError(t, manager.TransactionRepository().UpsertTransaction(ctx, tx))

	txs, err := manager.TransactionRepository().ListTransactions(ctx, walletID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, domain.StatusConfirmed, txs[0].Status)
	require.NotNil(t, txs[0].BlockHeight)
	require.Equal(t, height, *txs[0].BlockHeight)
}

func TestUpsertTransactionPreservesLocalState(t *testing.T) {
	before()
	defer after()

	walletID := insertTestWallet()
	keyID := insertTestKey(walletID, "bc1qfirst")

	tx := testTx(walletID, keyID, "aaaa")
	require.NoError(t, manager.TransactionRepository().UpsertTransaction(ctx, tx))
	require.NoError(t, manager.TransactionRepository().MarkOutputSpent(
		ctx, walletID, "aaaa", 0,
	))

	// A refetch without keyid links or spent flags must not lose either.
	refetched := testTx(walletID, keyID, "aaaa")
	refetched.Outputs[0].KeyID = nil
	refetched.Outputs[0].Spent = false
	require.NoError(t, manager.TransactionRepository().UpsertTransaction(ctx, refetched))

	stored, err := manager.TransactionRepository().GetTransaction(ctx, walletID, "aaaa")
	require.NoError(t, err)
	require.True(t, stored.Outputs[0].Spent)
	require.NotNil(t, stored.Outputs[0].KeyID)
	require.Equal(t, keyID, *stored.Outputs[0].KeyID)
}

func TestUpsertTransactionInvalidEnum(t *testing.T) {
	before()
	defer after()

	walletID := insertTestWallet()
	keyID := insertTestKey(walletID, "bc1qfirst")

	tx := testTx(walletID, keyID, "aaaa")
	tx.Status = "pending"
	err := manager.TransactionRepository().UpsertTransaction(ctx, tx)
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestMarkOutputSpent(t *testing.T) {
	before()
	defer after()

	walletID := insertTestWallet()
	keyID := insertTestKey(walletID, "bc1qfirst")

	tx := testTx(walletID, keyID, "aaaa")
	require.NoError(t, manager.TransactionRepository().UpsertTransaction(ctx, tx))

	require.NoError(t, manager.TransactionRepository().MarkOutputSpent(
		ctx, walletID, "aaaa", 0,
	))

	stored, err := manager.TransactionRepository().GetTransaction(ctx, walletID, "aaaa")
	require.NoError(t, err)
	require.True(t, stored.Outputs[0].Spent)
	require.False(t, stored.Outputs[1].Spent)

	// Untracked prevouts are skipped without error.
	require.NoError(t, manager.TransactionRepository().MarkOutputSpent(
		ctx, walletID, "ffff", 0,
	))
}

func TestListUtxos(t *testing.T) {
	before()
	defer after()

	walletID := insertTestWallet()
	keyID := insertTestKey(walletID, "bc1qfirst")
	otherKeyID := insertTestKey(walletID, "bc1qsecond")

	txA := testTx(walletID, keyID, "aaaa")
	txB := testTx(walletID, otherKeyID, "bbbb")
	require.NoError(t, manager.TransactionRepository().UpsertTransaction(ctx, txA))
	require.NoError(t, manager.TransactionRepository().UpsertTransaction(ctx, txB))
	require.NoError(t, manager.TransactionRepository().MarkOutputSpent(
		ctx, walletID, "aaaa", 0,
	))

	// Wallet wide: txA keeps only its unlinked output, txB both.
	utxos, err := manager.TransactionRepository().ListUtxos(ctx, walletID, nil)
	require.NoError(t, err)
	require.Len(t, utxos, 3)

	// Narrowed to a key only that key's linked unspent outputs remain.
	utxos, err = manager.TransactionRepository().ListUtxos(ctx, walletID, &otherKeyID)
	require.NoError(t, err)
	require.Len(t, utxos, 1)
	require.Equal(t, "bbbb", utxos[0].TxID)
	require.Equal(t, "bc1qsecond", utxos[0].Address)
	require.Equal(t, uint64(5000), utxos[0].Value)

	utxos, err = manager.TransactionRepository().ListUtxos(ctx, walletID, &keyID)
	require.NoError(t, err)
	require.Empty(t, utxos)
}

func TestRunTransactionAtomicity(t *testing.T) {
	before()
	defer after()

	walletID := insertTestWallet()
	keyID := insertTestKey(walletID, "bc1qfirst")

	_, err := manager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			tx := testTx(walletID, keyID, "aaaa")
			if err := manager.TransactionRepository().UpsertTransaction(ctx, tx); err != nil {
				return nil, err
			}
			return nil, domain.ErrInvalidStatus
		},
	)
	require.Error(t, err)

	// The failed handler leaves nothing behind.
	txs, err := manager.TransactionRepository().ListTransactions(ctx, walletID)
	require.NoError(t, err)
	require.Empty(t, txs)
}
