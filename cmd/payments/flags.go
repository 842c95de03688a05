package main

import (
	"github.com/tdex-network/bitcoin-payments/pkg/fee"
	"github.com/urfave/cli/v2"
)

var (
	indexFlag = cli.UintFlag{
		Name:  "index",
		Usage: "the index of the account address",
	}
	fromFlag = cli.UintFlag{
		Name:  "from",
		Usage: "the index of the account address to spend from",
	}
	toFlag = cli.StringFlag{
		Name:     "to",
		Usage:    "the receiver, either an account index or an address",
		Required: true,
	}
	feeLevelFlag = cli.StringFlag{
		Name:  "fee_level",
		Usage: "the fee level: low, medium or high. Ignored if fee_rate is given",
	}
	feeRateFlag = cli.StringFlag{
		Name:  "fee_rate",
		Usage: "a custom fee rate, overrides fee_level",
	}
	feeRateTypeFlag = cli.StringFlag{
		Name:  "fee_rate_type",
		Usage: "the type of fee_rate: base-per-weight (sat/vbyte), base (sat) or main (BTC)",
		Value: string(fee.RateTypeBasePerWeight),
	}
	dryRunFlag = cli.BoolFlag{
		Name:  "dry_run",
		Usage: "print the unsigned transaction without signing nor broadcasting it",
	}
)
