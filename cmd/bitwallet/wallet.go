package main

import (
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/bitwallet-network/bitwallet-daemon/internal/core/domain"
)

var wallet = cli.Command{
	Name:  "wallet",
	Usage: "manage the wallets of the ledger",
	Subcommands: []*cli.Command{
		{
			Name:   "create",
			Usage:  "create a new wallet: wallet create <name>",
			Action: walletCreateAction,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "scheme",
					Usage: "key scheme: single or bip32",
					Value: domain.SchemeBIP32,
				},
				&cli.StringFlag{
					Name:  "witness",
					Usage: "witness type: legacy, segwit or p2sh-segwit",
					Value: domain.WitnessTypeSegwit,
				},
				&cli.StringFlag{
					Name:  "encoding",
					Usage: "address encoding: base58 or bech32",
					Value: domain.EncodingBech32,
				},
				&cli.Uint64Flag{
					Name:  "parent",
					Usage: "id of the parent wallet, 0 for none",
				},
			},
		},
		{
			Name:   "list",
			Usage:  "list all wallets",
			Action: walletListAction,
		},
		{
			Name:   "tree",
			Usage:  "print a wallet with its children: wallet tree <name>",
			Action: walletTreeAction,
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "depth",
					Usage: "max depth of the tree",
					Value: domain.DefaultTreeDepth,
				},
			},
		},
		{
			Name:   "delete",
			Usage:  "delete a wallet with its keys and transactions: wallet delete <name>",
			Action: walletDeleteAction,
		},
	},
}

func walletCreateAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return errors.New("wallet name is missing")
	}

	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	newWallet := domain.Wallet{
		Name:        ctx.Args().First(),
		NetworkName: ctx.String("network"),
		Scheme:      ctx.String("scheme"),
		WitnessType: ctx.String("witness"),
		Encoding:    ctx.String("encoding"),
	}
	if parentID := ctx.Uint64("parent"); parentID > 0 {
		newWallet.ParentID = &parentID
	}

	id, err := svc.CreateWallet(ctx.Context, newWallet)
	if err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{"id": id, "name": newWallet.Name})
	return nil
}

func walletListAction(ctx *cli.Context) error {
	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	wallets, err := svc.ListWallets(ctx.Context)
	if err != nil {
		return err
	}

	printRespJSON(wallets)
	return nil
}

func walletTreeAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return errors.New("wallet name is missing")
	}

	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	tree, err := svc.WalletTree(ctx.Context, ctx.Args().First(), ctx.Int("depth"))
	if err != nil {
		return err
	}

	printRespJSON(tree)
	return nil
}

func walletDeleteAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return errors.New("wallet name is missing")
	}

	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	return svc.DeleteWallet(ctx.Context, ctx.Args().First())
}
