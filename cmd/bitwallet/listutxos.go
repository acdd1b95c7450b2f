package main

import (
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/bitwallet-network/bitwallet-daemon/pkg/amount"
)

var listutxos = cli.Command{
	Name:   "listutxos",
	Usage:  "list the unspent outputs of a wallet: listutxos <wallet>",
	Action: listUtxosAction,
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:  "keyid",
			Usage: "narrow the list to a single key, 0 for all",
		},
		&cli.StringFlag{
			Name:  "minamount",
			Usage: "hide outputs below this BTC-denominated value, e.g. 0.001",
		},
	},
}

var balance = cli.Command{
	Name:   "balance",
	Usage:  "print the confirmed plus unconfirmed balance of a wallet: balance <wallet>",
	Action: balanceAction,
}

var transactions = cli.Command{
	Name:   "transactions",
	Usage:  "list the transactions of a wallet: transactions <wallet>",
	Action: transactionsAction,
}

func listUtxosAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return errors.New("wallet name is missing")
	}

	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	var keyID *uint64
	if id := ctx.Uint64("keyid"); id > 0 {
		keyID = &id
	}

	utxos, err := svc.ListUtxos(ctx.Context, ctx.Args().First(), keyID)
	if err != nil {
		return err
	}

	if value := ctx.String("minamount"); value != "" {
		minSats, err := amount.ParseBTC(value)
		if err != nil {
			return err
		}
		filtered := utxos[:0]
		for _, u := range utxos {
			if u.Value >= minSats {
				filtered = append(filtered, u)
			}
		}
		utxos = filtered
	}

	printRespJSON(utxos)
	return nil
}

func balanceAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return errors.New("wallet name is missing")
	}

	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	sats, err := svc.Balance(ctx.Context, ctx.Args().First())
	if err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{
		"satoshi": sats,
		"btc":     amount.FormatBTC(sats),
	})
	return nil
}

func transactionsAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return errors.New("wallet name is missing")
	}

	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	txs, err := svc.ListTransactions(ctx.Context, ctx.Args().First())
	if err != nil {
		return err
	}

	printRespJSON(txs)
	return nil
}
