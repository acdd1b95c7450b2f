package main

import (
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/bitwallet-network/bitwallet-daemon/internal/core/domain"
)

var key = cli.Command{
	Name:  "key",
	Usage: "manage the keys of a wallet",
	Subcommands: []*cli.Command{
		{
			Name:   "add",
			Usage:  "track a key in a wallet: key add <wallet> <address>",
			Action: keyAddAction,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "name",
					Usage: "display name of the key",
				},
				&cli.StringFlag{
					Name:  "path",
					Usage: "derivation path, e.g. m/84'/0'/0'/0/0",
				},
				&cli.StringFlag{
					Name:  "pubkey",
					Usage: "hex encoded public key",
				},
				&cli.StringFlag{
					Name:  "keytype",
					Usage: "key type: single, bip32 or multisig",
					Value: domain.KeyTypeBIP32,
				},
				&cli.IntFlag{
					Name:  "change",
					Usage: "0 for receive, 1 for change",
				},
				&cli.Uint64Flag{
					Name:  "index",
					Usage: "address index within the chain",
				},
			},
		},
		{
			Name:   "list",
			Usage:  "list the keys of a wallet: key list <wallet>",
			Action: keyListAction,
		},
		{
			Name:   "children",
			Usage:  "list the child keys of a multisig key: key children <keyid>",
			Action: keyChildrenAction,
		},
		{
			Name:   "delete",
			Usage:  "untrack a key and drop its transactions: key delete <wallet> <keyid>",
			Action: keyDeleteAction,
		},
	},
}

func keyAddAction(ctx *cli.Context) error {
	if ctx.NArg() < 2 {
		return errors.New("wallet name and address are missing")
	}

	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	walletName := ctx.Args().Get(0)
	newKey := domain.Key{
		Name:         ctx.String("name"),
		Path:         ctx.String("path"),
		Public:       ctx.String("pubkey"),
		KeyType:      ctx.String("keytype"),
		Change:       ctx.Int("change"),
		AddressIndex: ctx.Uint64("index"),
		Address:      ctx.Args().Get(1),
	}

	id, err := svc.AddKey(ctx.Context, walletName, newKey)
	if err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{"id": id, "address": newKey.Address})
	return nil
}

func keyListAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return errors.New("wallet name is missing")
	}

	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	keys, err := svc.ListKeys(ctx.Context, ctx.Args().First())
	if err != nil {
		return err
	}

	printRespJSON(keys)
	return nil
}

func keyChildrenAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return errors.New("key id is missing")
	}
	keyID, err := parseID(ctx.Args().First())
	if err != nil {
		return err
	}

	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	children, err := svc.ListMultisigChildren(ctx.Context, keyID)
	if err != nil {
		return err
	}

	printRespJSON(children)
	return nil
}

func keyDeleteAction(ctx *cli.Context) error {
	if ctx.NArg() < 2 {
		return errors.New("wallet name and key id are missing")
	}
	keyID, err := parseID(ctx.Args().Get(1))
	if err != nil {
		return err
	}

	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	return svc.DeleteKey(ctx.Context, ctx.Args().Get(0), keyID)
}
