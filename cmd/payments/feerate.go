package main

import (
	"github.com/tdex-network/bitcoin-payments/pkg/fee"
	"github.com/tdex-network/bitcoin-payments/pkg/payments"
	"github.com/urfave/cli/v2"
)

var feerate = cli.Command{
	Name:  "feerate",
	Usage: "get the recommended fee rate for the given level",
	Flags: []cli.Flag{
		&feeLevelFlag,
	},
	Action: feeRateAction,
}

func feeRateAction(ctx *cli.Context) error {
	engine, err := getEngine()
	if err != nil {
		return err
	}

	option := payments.FeeOption{}
	if level := ctx.String("fee_level"); level != "" {
		if option.FeeLevel, err = fee.ParseLevel(level); err != nil {
			return err
		}
	}

	resolved, err := engine.ResolveFeeOption(ctx.Context, option)
	if err != nil {
		return err
	}
	return printJSON(resolved)
}
