package main

import (
	"github.com/urfave/cli/v2"
)

var address = cli.Command{
	Name:  "address",
	Usage: "derive the address of the account at the given index",
	Flags: []cli.Flag{
		&indexFlag,
	},
	Action: addressAction,
}

func addressAction(ctx *cli.Context) error {
	engine, err := getEngine()
	if err != nil {
		return err
	}

	payport, err := engine.GetPayport(uint32(ctx.Uint("index")))
	if err != nil {
		return err
	}

	return printJSON(payport)
}
