package main

import (
	"github.com/tdex-network/bitcoin-payments/pkg/mathutil"
	"github.com/tdex-network/bitcoin-payments/pkg/payments"
	"github.com/urfave/cli/v2"
)

var utxos = cli.Command{
	Name:  "utxos",
	Usage: "get a list of all utxos of the account at the given index",
	Flags: []cli.Flag{
		&indexFlag,
	},
	Action: utxosAction,
}

type utxosResponse struct {
	Utxos []payments.Utxo `json:"utxos"`
	Total string          `json:"total"`
}

func utxosAction(ctx *cli.Context) error {
	engine, err := getEngine()
	if err != nil {
		return err
	}

	unspents, err := engine.GetAvailableUtxos(ctx.Context, uint32(ctx.Uint("index")))
	if err != nil {
		return err
	}

	resp, err := newUtxosResponse(unspents)
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func newUtxosResponse(unspents []payments.Utxo) (*utxosResponse, error) {
	values := make([]string, 0, len(unspents))
	for _, u := range unspents {
		values = append(values, u.Value)
	}
	total, err := mathutil.SumMain(values...)
	if err != nil {
		return nil, err
	}
	return &utxosResponse{unspents, total.String()}, nil
}
