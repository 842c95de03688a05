package main

import (
	"github.com/urfave/cli/v2"
)

var txinfo = cli.Command{
	Name:      "txinfo",
	Usage:     "get the status of a transaction",
	ArgsUsage: "<txid>",
	Action:    txInfoAction,
}

func txInfoAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	engine, err := getEngine()
	if err != nil {
		return err
	}

	info, err := engine.GetTransactionInfo(ctx.Context, ctx.Args().First())
	if err != nil {
		return err
	}
	return printJSON(info)
}
