package main

import (
	"github.com/tdex-network/bitcoin-payments/pkg/wallet"
	"github.com/urfave/cli/v2"
)

var xpub = cli.Command{
	Name:      "xpub",
	Usage:     "print the public config of the account, or the xpub of the given xprv",
	ArgsUsage: "[xprv]",
	Action:    xpubAction,
}

func xpubAction(ctx *cli.Context) error {
	if ctx.NArg() > 0 {
		key, err := wallet.XPrvToXPub(ctx.Args().First())
		if err != nil {
			return err
		}
		return printJSON(map[string]string{"xpub": key})
	}

	engine, err := getEngine()
	if err != nil {
		return err
	}
	return printJSON(engine.PublicConfig())
}
