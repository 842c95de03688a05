package main

import (
	"github.com/tdex-network/bitcoin-payments/pkg/payments"
	"github.com/urfave/cli/v2"
)

var sweep = cli.Command{
	Name:  "sweep",
	Usage: "send the whole balance of an account address, minus fees, to an account index or an address",
	Flags: []cli.Flag{
		&fromFlag,
		&toFlag,
		&feeLevelFlag,
		&feeRateFlag,
		&feeRateTypeFlag,
		&dryRunFlag,
	},
	Action: sweepAction,
}

func sweepAction(ctx *cli.Context) error {
	from := uint32(ctx.Uint("from"))
	to := parsePayportRef(ctx.String("to"))
	feeOption, err := feeOptionFromFlags(ctx)
	if err != nil {
		return err
	}
	opts := payments.CreateTransactionOptions{FeeOption: feeOption}

	if ctx.Bool("dry_run") {
		engine, err := getEngine()
		if err != nil {
			return err
		}
		tx, err := engine.CreateSweepTransaction(ctx.Context, from, to, opts)
		if err != nil {
			return err
		}
		return printJSON(tx)
	}

	engine, err := getSigningEngine()
	if err != nil {
		return err
	}
	tx, err := engine.CreateSweepTransaction(ctx.Context, from, to, opts)
	if err != nil {
		return err
	}
	return signAndBroadcast(ctx.Context, engine, tx)
}
