package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/btcsuite/btcd/btcutil"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/bitwallet-network/bitwallet-daemon/internal/core/application"
	"github.com/bitwallet-network/bitwallet-daemon/internal/core/ports"
	dbbadger "github.com/bitwallet-network/bitwallet-daemon/internal/infrastructure/storage/db/badger"
	"github.com/bitwallet-network/bitwallet-daemon/pkg/provider/bitaps"
)

var (
	defaultDatadir = btcutil.AppDataDir("bitwallet-daemon", false)

	datadirFlag = cli.StringFlag{
		Name:  "datadir",
		Usage: "data directory of the daemon",
		Value: defaultDatadir,
	}
	networkFlag = cli.StringFlag{
		Name:  "network",
		Usage: "the chain to operate on: bitcoin, testnet or regtest",
		Value: "bitcoin",
	}
	providerFlag = cli.StringFlag{
		Name:  "provider",
		Usage: "base url of the block data provider",
		Value: "https://api.bitaps.com/btc/v1",
	}
	pageSizeFlag = cli.IntFlag{
		Name:  "pagesize",
		Usage: "number of transactions requested per history page",
		Value: 50,
	}
	maxResultsFlag = cli.IntFlag{
		Name:  "maxresults",
		Usage: "max number of transactions collected per sync run",
		Value: 2000,
	}
)

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "bitwallet CLI"
	app.Usage = "Command line interface for the bitwalletd ledger"
	app.Flags = []cli.Flag{
		&datadirFlag,
		&networkFlag,
		&providerFlag,
		&pageSizeFlag,
		&maxResultsFlag,
	}
	app.Commands = append(
		app.Commands,
		&wallet,
		&key,
		&listutxos,
		&balance,
		&transactions,
		&sync,
		&chain,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func getRepoManager(ctx *cli.Context) (ports.RepoManager, func(), error) {
	dbDir := filepath.Join(ctx.String("datadir"), "db")
	repoManager, err := dbbadger.NewRepoManager(dbDir, log.New())
	if err != nil {
		return nil, nil, err
	}
	return repoManager, func() { repoManager.Close() }, nil
}

func getWalletService(ctx *cli.Context) (application.WalletService, func(), error) {
	repoManager, cleanup, err := getRepoManager(ctx)
	if err != nil {
		return nil, nil, err
	}
	return application.NewWalletService(repoManager), cleanup, nil
}

func getSyncService(ctx *cli.Context) (application.SyncService, func(), error) {
	repoManager, cleanup, err := getRepoManager(ctx)
	if err != nil {
		return nil, nil, err
	}
	providerSvc, err := bitaps.NewService(
		ctx.String("provider"), ctx.String("network"),
	)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	svc := application.NewSyncService(
		repoManager, providerSvc,
		ctx.Int("pagesize"), ctx.Int("maxresults"),
	)
	return svc, cleanup, nil
}

func printRespJSON(resp interface{}) {
	jsonStr, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}

	fmt.Println(string(jsonStr))
}

func parseID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[bitwallet] %v\n", err)
	os.Exit(1)
}
