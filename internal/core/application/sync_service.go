package application

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/bitwallet-network/bitwallet-daemon/internal/core/domain"
	"github.com/bitwallet-network/bitwallet-daemon/internal/core/ports"
	"github.com/bitwallet-network/bitwallet-daemon/pkg/provider"
	"github.com/bitwallet-network/bitwallet-daemon/pkg/stats"
)

// SyncResult reports what one sync run discovered and merged.
type SyncResult struct {
	RunID           string
	Address         string
	NewTransactions int
	Balance         uint64
	LatestTxID      string
}

// SyncService reconciles the local ledger against a remote data provider by
// paging through each address's history and merging what is new.
type SyncService interface {
	// SyncAddress fetches the transactions of the given address that appear
	// after the address key's cursor and merges them into the ledger.
	SyncAddress(ctx context.Context, walletName, address string) (*SyncResult, error)
	// SyncWallet runs SyncAddress for every key of the wallet that carries
	// an address, one driver instance per address.
	SyncWallet(ctx context.Context, walletName string) ([]SyncResult, error)
	// FetchTransactions pages through the address history and returns the
	// canonical records found after afterTxID, at most maxResults of them.
	FetchTransactions(
		ctx context.Context, address, afterTxID string, maxResults int,
	) ([]provider.TxRecord, error)
	// FetchUtxos pages through the address history and returns the unspent
	// outputs belonging to the address found after afterTxID.
	FetchUtxos(
		ctx context.Context, address, afterTxID string, maxResults int,
	) ([]provider.Utxo, error)
	// GetChainHeight returns the height of the best chain known to the
	// provider.
	GetChainHeight(ctx context.Context) (uint64, error)
	// ListMempool returns the txids in the provider's mempool, narrowed to
	// the given txid when not empty.
	ListMempool(ctx context.Context, txID string) ([]string, error)
}

type syncService struct {
	repoManager ports.RepoManager
	providerSvc provider.Service
	pageSize    int
	maxResults  int
}

// NewSyncService returns a SyncService backed by the given store and
// provider. pageSize is the fixed page size requested from the provider,
// maxResults caps the records collected per run.
func NewSyncService(
	repoManager ports.RepoManager,
	providerSvc provider.Service,
	pageSize, maxResults int,
) SyncService {
	return &syncService{
		repoManager: repoManager,
		providerSvc: providerSvc,
		pageSize:    pageSize,
		maxResults:  maxResults,
	}
}

func (s *syncService) FetchTransactions(
	ctx context.Context, address, afterTxID string, maxResults int,
) ([]provider.TxRecord, error) {
	runID := uuid.NewString()
	collected := make([]provider.TxRecord, 0)

	page := 1
	for {
		// Cancellation happens at page boundaries only: a page is always
		// received and processed whole.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		records, pages, err := s.providerSvc.ListAddressHistory(
			address, s.pageSize, page,
		)
		if err != nil {
			return nil, &SyncError{
				Provider: s.providerSvc.Name(),
				Address:  address,
				Page:     page,
				RunID:    runID,
				Err:      err,
			}
		}
		stats.PagesFetched.Inc()

		for _, record := range records {
			collected = append(collected, record)
			// The provider returns results oldest first: hitting the cursor
			// means everything appended so far in this run is already known
			// to the caller.
			if record.TxID == afterTxID {
				collected = collected[:0]
			}
		}

		page++
		if page > pages {
			break
		}
	}

	if len(collected) > maxResults {
		collected = collected[:maxResults]
	}
	return collected, nil
}

func (s *syncService) FetchUtxos(
	ctx context.Context, address, afterTxID string, maxResults int,
) ([]provider.Utxo, error) {
	runID := uuid.NewString()
	collected := make([]provider.Utxo, 0)

	page := 1
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		records, pages, err := s.providerSvc.ListAddressHistory(
			address, s.pageSize, page,
		)
		if err != nil {
			return nil, &SyncError{
				Provider: s.providerSvc.Name(),
				Address:  address,
				Page:     page,
				RunID:    runID,
				Err:      err,
			}
		}
		stats.PagesFetched.Inc()

		for _, record := range records {
			for _, out := range record.Outputs {
				// Outputs lacking an address (non-standard scripts) and
				// outputs of other addresses are not part of this view.
				if out.Address == "" || out.Address != address || out.Spent {
					continue
				}
				collected = append(collected, provider.Utxo{
					Address:       out.Address,
					TxID:          record.TxID,
					Confirmations: record.Confirmations,
					OutputN:       out.Index,
					InputN:        0,
					BlockHeight:   record.BlockHeight,
					Value:         out.Value,
					Script:        out.Script,
					Date:          record.Date,
				})
			}
			if record.TxID == afterTxID {
				collected = collected[:0]
			}
		}

		page++
		if page > pages {
			break
		}
	}

	if len(collected) > maxResults {
		collected = collected[:maxResults]
	}
	return collected, nil
}

func (s *syncService) SyncAddress(
	ctx context.Context, walletName, address string,
) (*SyncResult, error) {
	runID := uuid.NewString()

	wallet, err := s.repoManager.WalletRepository().GetWalletByName(ctx, walletName)
	if err != nil {
		return nil, err
	}
	key, err := s.repoManager.KeyRepository().GetKeyByAddress(
		ctx, wallet.ID, address,
	)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return nil, ErrAddressNotTracked
		}
		return nil, err
	}

	records, err := s.FetchTransactions(ctx, address, key.LatestTxID, s.maxResults)
	if err != nil {
		stats.SyncFailures.Inc()
		return nil, err
	}

	result := &SyncResult{
		RunID:      runID,
		Address:    address,
		LatestTxID: key.LatestTxID,
	}
	if len(records) == 0 {
		log.Debugf("sync run %s: address %s is up to date", runID, address)
		stats.SyncRuns.Inc()
		return result, nil
	}

	// The whole batch is merged atomically: an interrupted run leaves the
	// cursor untouched and the next run re-fetches from it.
	if _, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			txRepo := s.repoManager.TransactionRepository()
			for _, record := range records {
				transaction := recordToTransaction(wallet, key, record)
				if err := txRepo.UpsertTransaction(ctx, transaction); err != nil {
					return nil, err
				}
				stats.TransactionsMerged.Inc()

				// A later fetched tx consuming one of our outputs marks it
				// spent; untracked prevouts are skipped silently.
				if record.Coinbase {
					continue
				}
				for _, in := range record.Inputs {
					if err := txRepo.MarkOutputSpent(
						ctx, wallet.ID, in.PrevTxID, in.PrevIndex,
					); err != nil {
						return nil, err
					}
				}
			}

			latest := records[len(records)-1].TxID
			return nil, s.repoManager.KeyRepository().UpdateKey(
				ctx, key.ID, func(k *domain.Key) (*domain.Key, error) {
					k.LatestTxID = latest
					k.Used = true
					return k, nil
				},
			)
		},
	); err != nil {
		stats.SyncFailures.Inc()
		return nil, err
	}

	balance, err := s.recomputeBalance(ctx, wallet.ID, key.ID)
	if err != nil {
		return nil, err
	}

	result.NewTransactions = len(records)
	result.Balance = balance
	result.LatestTxID = records[len(records)-1].TxID
	stats.SyncRuns.Inc()

	log.Infof(
		"sync run %s: address %s, %d new transactions, balance %d",
		runID, address, result.NewTransactions, balance,
	)
	return result, nil
}

func (s *syncService) SyncWallet(
	ctx context.Context, walletName string,
) ([]SyncResult, error) {
	wallet, err := s.repoManager.WalletRepository().GetWalletByName(ctx, walletName)
	if err != nil {
		return nil, err
	}
	keys, err := s.repoManager.KeyRepository().ListKeys(ctx, wallet.ID)
	if err != nil {
		return nil, err
	}

	addresses := make([]string, 0, len(keys))
	for _, key := range keys {
		if key.Address != "" {
			addresses = append(addresses, key.Address)
		}
	}
	if len(addresses) == 0 {
		return nil, ErrNothingToSync
	}

	results := make([]SyncResult, 0, len(addresses))
	var resultsLock sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	for _, address := range addresses {
		address := address
		g.Go(func() error {
			result, err := s.SyncAddress(gCtx, walletName, address)
			if err != nil {
				return err
			}
			resultsLock.Lock()
			results = append(results, *result)
			resultsLock.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *syncService) GetChainHeight(ctx context.Context) (uint64, error) {
	return s.providerSvc.GetChainHeight()
}

func (s *syncService) ListMempool(
	ctx context.Context, txID string,
) ([]string, error) {
	return s.providerSvc.ListMempool(txID)
}

func (s *syncService) recomputeBalance(
	ctx context.Context, walletID, keyID uint64,
) (uint64, error) {
	utxos, err := s.repoManager.TransactionRepository().ListUtxos(
		ctx, walletID, &keyID,
	)
	if err != nil {
		return 0, err
	}

	var balance uint64
	for _, utxo := range utxos {
		balance += utxo.Value
	}

	if err := s.repoManager.KeyRepository().UpdateKey(
		ctx, keyID, func(k *domain.Key) (*domain.Key, error) {
			k.Balance = balance
			return k, nil
		},
	); err != nil {
		return 0, err
	}
	return balance, nil
}

// recordToTransaction converts a canonical provider record into a ledger
// transaction, linking the synced key to the outputs paying its address.
func recordToTransaction(
	wallet *domain.Wallet, key *domain.Key, record provider.TxRecord,
) domain.Transaction {
	transaction := domain.Transaction{
		WalletID:    wallet.ID,
		NetworkName: wallet.NetworkName,
		TxID:        record.TxID,
		Raw:         record.RawHex,
		Version:     record.Version,
		Locktime:    record.Locktime,
		Date:        record.Date,
		Coinbase:    record.Coinbase,
		Size:        record.Size,
		Fee:         record.Fee,
		InputTotal:  record.InputTotal,
		OutputTotal: record.OutputTotal,
	}
	transaction.ApplyConfirmationState(
		record.Confirmations, record.BlockHeight, record.BlockHash,
	)

	transaction.Inputs = make([]domain.TransactionInput, 0, len(record.Inputs))
	for _, in := range record.Inputs {
		transaction.Inputs = append(transaction.Inputs, domain.TransactionInput{
			Index:       in.Index,
			PrevTxID:    in.PrevTxID,
			OutputIndex: in.PrevIndex,
			Script:      in.Script,
			ScriptType:  in.ScriptType,
			Sequence:    in.Sequence,
			Value:       in.Value,
		})
	}

	transaction.Outputs = make([]domain.TransactionOutput, 0, len(record.Outputs))
	for _, out := range record.Outputs {
		output := domain.TransactionOutput{
			Index:      out.Index,
			Script:     out.Script,
			ScriptType: out.ScriptType,
			Value:      out.Value,
			Spent:      out.Spent,
		}
		if out.Address != "" && out.Address == key.Address {
			keyID := key.ID
			output.KeyID = &keyID
		}
		transaction.Outputs = append(transaction.Outputs, output)
	}
	return transaction
}
