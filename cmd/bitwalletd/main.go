package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bitwallet-network/bitwallet-daemon/internal/config"
	"github.com/bitwallet-network/bitwallet-daemon/internal/core/application"
	"github.com/bitwallet-network/bitwallet-daemon/internal/core/ports"
	dbbadger "github.com/bitwallet-network/bitwallet-daemon/internal/infrastructure/storage/db/badger"
	"github.com/bitwallet-network/bitwallet-daemon/internal/infrastructure/storage/db/inmemory"
	"github.com/bitwallet-network/bitwallet-daemon/pkg/provider/bitaps"
	"github.com/bitwallet-network/bitwallet-daemon/pkg/stats"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repoManager, err := openRepoManager()
	if err != nil {
		log.WithError(err).Fatal("error while opening ledger store")
	}
	defer repoManager.Close()

	providerSvc, err := bitaps.NewService(
		config.GetString(config.ProviderURLKey),
		config.GetString(config.NetworkKey),
	)
	if err != nil {
		log.WithError(err).Fatal("error while connecting to data provider")
	}

	syncSvc := application.NewSyncService(
		repoManager, providerSvc,
		config.GetInt(config.PageSizeKey),
		config.GetInt(config.MaxResultsKey),
	)

	if config.GetBool(config.EnableProfilerKey) {
		interval := time.Duration(config.GetInt(config.StatsIntervalKey)) * time.Second
		stats.EnableMemoryStatistics(ctx, interval)
	}

	walletName := config.GetString(config.WalletNameKey)
	if walletName == "" {
		log.Fatal("missing wallet name, set BITWALLET_WALLET_NAME")
	}

	log.Infof(
		"starting daemon, syncing wallet %s against %s every %ds",
		walletName, providerSvc.Name(), config.GetInt(config.SyncIntervalKey),
	)

	go syncLoop(ctx, syncSvc, walletName)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Debug("exiting")
}

func openRepoManager() (ports.RepoManager, error) {
	if config.GetString(config.DBTypeKey) == config.DBInMemory {
		return inmemory.NewRepoManager(), nil
	}

	dbDir := filepath.Join(config.GetDatadir(), config.DbLocation)
	return dbbadger.NewRepoManager(dbDir, log.New())
}

func syncLoop(
	ctx context.Context, syncSvc application.SyncService, walletName string,
) {
	interval := time.Duration(config.GetInt(config.SyncIntervalKey)) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// First round runs right away, then one round per tick.
	for {
		results, err := syncSvc.SyncWallet(ctx, walletName)
		if err != nil {
			log.WithError(err).Warn("sync round failed")
		} else {
			var merged int
			for _, res := range results {
				merged += res.NewTransactions
			}
			log.Debugf(
				"sync round completed, %d addresses, %d new transactions",
				len(results), merged,
			)
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}
