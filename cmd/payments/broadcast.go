package main

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/wire"
	"github.com/tdex-network/bitcoin-payments/pkg/payments"
	"github.com/urfave/cli/v2"
)

var broadcast = cli.Command{
	Name:      "broadcast",
	Usage:     "broadcast a signed transaction in hex format",
	ArgsUsage: "<txhex>",
	Action:    broadcastAction,
}

func broadcastAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	txHex := ctx.Args().First()

	signedTx, err := parseSignedTx(txHex)
	if err != nil {
		return err
	}

	engine, err := getEngine()
	if err != nil {
		return err
	}

	res, err := engine.BroadcastTransaction(ctx.Context, signedTx)
	if err != nil {
		return err
	}
	return printJSON(res)
}

func parseSignedTx(txHex string) (*payments.SignedTransaction, error) {
	buf, err := hex.DecodeString(txHex)
	if err != nil {
		return nil, fmt.Errorf("tx must be in hex format: %s", err)
	}
	tx := &wire.MsgTx{}
	if err := tx.Deserialize(bytes.NewReader(buf)); err != nil {
		return nil, fmt.Errorf("invalid tx: %s", err)
	}

	return &payments.SignedTransaction{
		BaseTransaction: payments.BaseTransaction{
			Status: payments.StatusSigned,
			ID:     tx.TxHash().String(),
		},
		Data: payments.SignedTxData{Hex: txHex},
	}, nil
}
