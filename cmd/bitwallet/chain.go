package main

import (
	"github.com/urfave/cli/v2"
)

var chain = cli.Command{
	Name:  "chain",
	Usage: "query the block data provider",
	Subcommands: []*cli.Command{
		{
			Name:   "height",
			Usage:  "print the height of the best chain",
			Action: chainHeightAction,
		},
		{
			Name:   "mempool",
			Usage:  "list the txids in the mempool, or check one: chain mempool [txid]",
			Action: chainMempoolAction,
		},
	},
}

func chainHeightAction(ctx *cli.Context) error {
	svc, cleanup, err := getSyncService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	height, err := svc.GetChainHeight(ctx.Context)
	if err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{"height": height})
	return nil
}

func chainMempoolAction(ctx *cli.Context) error {
	svc, cleanup, err := getSyncService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	txids, err := svc.ListMempool(ctx.Context, ctx.Args().First())
	if err != nil {
		return err
	}

	printRespJSON(txids)
	return nil
}
