package main

import (
	"github.com/urfave/cli/v2"
)

var balance = cli.Command{
	Name:      "balance",
	Usage:     "get the balance of one or more account indexes or addresses",
	ArgsUsage: "<index|address> [<index|address>...]",
	Action:    balanceAction,
}

func balanceAction(ctx *cli.Context) error {
	if ctx.NArg() <= 0 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	engine, err := getEngine()
	if err != nil {
		return err
	}

	refs := make([]interface{}, 0, ctx.NArg())
	for _, arg := range ctx.Args().Slice() {
		refs = append(refs, parsePayportRef(arg))
	}

	balances, err := engine.GetBalances(ctx.Context, refs...)
	if err != nil {
		return err
	}

	res := make(map[string]interface{}, len(balances))
	for i, b := range balances {
		res[ctx.Args().Get(i)] = b
	}
	return printJSON(res)
}
