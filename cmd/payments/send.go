package main

import (
	"context"

	"github.com/tdex-network/bitcoin-payments/pkg/payments"
	"github.com/urfave/cli/v2"
)

var send = cli.Command{
	Name:  "send",
	Usage: "send some funds from an account address to an account index or an address",
	Flags: []cli.Flag{
		&fromFlag,
		&toFlag,
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "the amount in BTC to send",
			Required: true,
		},
		&feeLevelFlag,
		&feeRateFlag,
		&feeRateTypeFlag,
		&dryRunFlag,
	},
	Action: sendAction,
}

func sendAction(ctx *cli.Context) error {
	from := uint32(ctx.Uint("from"))
	to := parsePayportRef(ctx.String("to"))
	amount := ctx.String("amount")
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
		tx, err := engine.CreateTransaction(ctx.Context, from, to, amount, opts)
		if err != nil {
			return err
		}
		return printJSON(tx)
	}

	engine, err := getSigningEngine()
	if err != nil {
		return err
	}
	tx, err := engine.CreateTransaction(ctx.Context, from, to, amount, opts)
	if err != nil {
		return err
	}
	return signAndBroadcast(ctx.Context, engine, tx)
}

func signAndBroadcast(
	ctx context.Context,
	engine *payments.SigningEngine,
	tx *payments.UnsignedTransaction,
) error {
	signedTx, err := engine.SignTransaction(tx)
	if err != nil {
		return err
	}

	res, err := engine.BroadcastTransaction(ctx, signedTx)
	if err != nil {
		return err
	}

	return printJSON(map[string]string{
		"txid":   res.ID,
		"amount": signedTx.Amount,
		"fee":    signedTx.Fee,
	})
}
