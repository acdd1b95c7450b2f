package dbbadger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/bitwallet-network/bitwallet-daemon/internal/core/domain"
	"github.com/bitwallet-network/bitwallet-daemon/internal/core/ports"
)

const (
	// LedgerVersion is written to the store metadata on first open.
	LedgerVersion = "1.0.0"

	txContextKey = "tx"
)

// configRecord mirrors the small variable/value metadata rows of the ledger.
type configRecord struct {
	Variable string `badgerhold:"key"`
	Value    string
}

// repoManager holds a single badgerhold store shared by all repositories, so
// that one badger transaction can span wallets, keys and transactions.
type repoManager struct {
	store *badgerhold.Store

	networkRepository     domain.NetworkRepository
	walletRepository      domain.WalletRepository
	keyRepository         domain.KeyRepository
	transactionRepository domain.TransactionRepository
}

// NewRepoManager opens (or creates if not exists) the badger store on disk.
// It expects a base data dir and an optional logger.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	store, err := createDb(filepath.Join(baseDbDir, "ledger"), logger)
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}

	if err := writeConfigRecords(store); err != nil {
		store.Close()
		return nil, fmt.Errorf("writing ledger metadata: %w", err)
	}

	manager := &repoManager{store: store}
	manager.networkRepository = NewNetworkRepositoryImpl(manager)
	manager.walletRepository = NewWalletRepositoryImpl(manager)
	manager.keyRepository = NewKeyRepositoryImpl(manager)
	manager.transactionRepository = NewTransactionRepositoryImpl(manager)
	return manager, nil
}

func (d *repoManager) NetworkRepository() domain.NetworkRepository {
	return d.networkRepository
}

func (d *repoManager) WalletRepository() domain.WalletRepository {
	return d.walletRepository
}

func (d *repoManager) KeyRepository() domain.KeyRepository {
	return d.keyRepository
}

func (d *repoManager) TransactionRepository() domain.TransactionRepository {
	return d.transactionRepository
}

func (d *repoManager) Close() {
	d.store.Close()
}

// RunTransaction implements the RepoManager interface.
func (d *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	tx := d.store.Badger().NewTransaction(!readOnly)
	defer tx.Discard()

	txCtx := context.WithValue(ctx, txContextKey, tx)
	res, err := handler(txCtx)
	if err != nil {
		return nil, err
	}

	if !readOnly {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// txFromContext returns the badger transaction carried by the context, nil
// when the caller runs outside RunTransaction.
func txFromContext(ctx context.Context) *badger.Txn {
	tx, _ := ctx.Value(txContextKey).(*badger.Txn)
	return tx
}

func writeConfigRecords(store *badgerhold.Store) error {
	records := []configRecord{
		{Variable: "version", Value: LedgerVersion},
		{Variable: "installation_date", Value: time.Now().Format(time.RFC3339)},
	}
	for _, record := range records {
		if err := store.Insert(record.Variable, &record); err != nil {
			if err == badgerhold.ErrKeyExists {
				continue
			}
			return err
		}
	}
	return nil
}

// JSONEncode is a custom JSON based encoder for badger.
func JSONEncode(value interface{}) ([]byte, error) {
	var buff bytes.Buffer

	en := json.NewEncoder(&buff)
	if err := en.Encode(value); err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

// JSONDecode is a custom JSON based decoder for badger.
func JSONDecode(data []byte, value interface{}) error {
	buff := bytes.NewBuffer(data)
	return json.NewDecoder(buff).Decode(value)
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	return badgerhold.Open(badgerhold.Options{
		Encoder:          JSONEncode,
		Decoder:          JSONDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
