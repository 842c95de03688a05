package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/bitcoin-payments/internal/config"
	"github.com/tdex-network/bitcoin-payments/pkg/fee"
	"github.com/tdex-network/bitcoin-payments/pkg/payments"
	"github.com/tdex-network/bitcoin-payments/pkg/stats"
	"github.com/tdex-network/bitcoin-payments/pkg/wallet"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()

	app.Version = "0.0.1"
	app.Name = "bitcoin payments CLI"
	app.Usage = "Command line interface to create, sign and broadcast bitcoin payments of an HD account"
	app.Before = initAction
	app.After = dumpMetricsAction
	app.Commands = append(
		app.Commands,
		&address,
		&xpub,
		&keygen,
		&balance,
		&utxos,
		&send,
		&sweep,
		&broadcast,
		&txinfo,
		&block,
		&feerate,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func initAction(_ *cli.Context) error {
	if err := config.InitConfig(); err != nil {
		return err
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))
	return nil
}

func dumpMetricsAction(_ *cli.Context) error {
	if metricsFile := config.GetMetricsFile(); metricsFile != "" {
		return stats.DumpMetricsToFile(metricsFile)
	}
	return nil
}

// getEngine returns a watch-only engine for the configured HD key, that can
// be either an xpub or an xprv.
func getEngine() (*payments.Engine, error) {
	cfg, err := config.PaymentsConfig()
	if err != nil {
		return nil, err
	}
	explorerSvc, err := config.GetExplorer()
	if err != nil {
		return nil, err
	}
	feeSvc, err := config.GetFeeService()
	if err != nil {
		return nil, err
	}
	return payments.NewEngine(cfg, explorerSvc, feeSvc)
}

func getSigningEngine() (*payments.SigningEngine, error) {
	cfg, err := config.PaymentsConfig()
	if err != nil {
		return nil, err
	}
	isPrivate, err := wallet.IsPrivateExtendedKey(cfg.ExtendedKey)
	if err != nil {
		return nil, err
	}
	if !isPrivate {
		return nil, fmt.Errorf(
			"set an xprv with PAYMENTS_%s to sign transactions", config.HDKeyKey,
		)
	}

	explorerSvc, err := config.GetExplorer()
	if err != nil {
		return nil, err
	}
	feeSvc, err := config.GetFeeService()
	if err != nil {
		return nil, err
	}
	return payments.NewSigningEngine(cfg, explorerSvc, feeSvc)
}

// parsePayportRef turns a command argument into an account index if numeric,
// or leaves it as an address otherwise.
func parsePayportRef(arg string) interface{} {
	if index, err := strconv.ParseUint(arg, 10, 32); err == nil {
		return uint32(index)
	}
	return arg
}

func feeOptionFromFlags(ctx *cli.Context) (payments.FeeOption, error) {
	option := payments.FeeOption{}
	if level := ctx.String("fee_level"); level != "" {
		feeLevel, err := fee.ParseLevel(level)
		if err != nil {
			return option, err
		}
		option.FeeLevel = feeLevel
	}
	if rate := ctx.String("fee_rate"); rate != "" {
		rateType, err := fee.ParseRateType(ctx.String("fee_rate_type"))
		if err != nil {
			return option, err
		}
		option.FeeRate = rate
		option.FeeRateType = rateType
	}
	return option, nil
}

func printJSON(resp interface{}) error {
	jsonBytes, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		return fmt.Errorf("unable to encode response: %s", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[payments] %v\n", err)
	}
	os.Exit(1)
}
