package main

import (
	"errors"

	"github.com/urfave/cli/v2"
)

var sync = cli.Command{
	Name:   "sync",
	Usage:  "sync a wallet against the data provider: sync <wallet>",
	Action: syncAction,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "address",
			Usage: "sync a single address instead of the whole wallet",
		},
	},
}

func syncAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return errors.New("wallet name is missing")
	}

	svc, cleanup, err := getSyncService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	walletName := ctx.Args().First()

	if address := ctx.String("address"); address != "" {
		result, err := svc.SyncAddress(ctx.Context, walletName, address)
		if err != nil {
			return err
		}
		printRespJSON(result)
		return nil
	}

	results, err := svc.SyncWallet(ctx.Context, walletName)
	if err != nil {
		return err
	}

	printRespJSON(results)
	return nil
}
