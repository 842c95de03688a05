package main

import (
	"github.com/urfave/cli/v2"
)

var block = cli.Command{
	Name:      "block",
	Usage:     "get a block by hash or height, or the chain tip if omitted",
	ArgsUsage: "[hash|height]",
	Action:    blockAction,
}

func blockAction(ctx *cli.Context) error {
	engine, err := getEngine()
	if err != nil {
		return err
	}

	b, err := engine.GetBlock(ctx.Context, ctx.Args().First())
	if err != nil {
		return err
	}
	return printJSON(b)
}
