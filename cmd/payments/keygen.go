package main

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/tdex-network/bitcoin-payments/internal/config"
	"github.com/tdex-network/bitcoin-payments/pkg/wallet"
	"github.com/urfave/cli/v2"
)

var keygen = cli.Command{
	Name:  "keygen",
	Usage: "generate the xprv and xpub of a new account",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "seed",
			Usage: "the hex encoded seed to derive the keys from, random if not given",
		},
	},
	Action: keygenAction,
}

type keygenResponse struct {
	Seed           string `json:"seed"`
	DerivationPath string `json:"derivation_path"`
	Xprv           string `json:"xprv"`
	Xpub           string `json:"xpub"`
}

func keygenAction(ctx *cli.Context) error {
	seed := ctx.String("seed")
	if seed == "" {
		randomSeed, err := hdkeychain.GenerateSeed(hdkeychain.RecommendedSeedLen)
		if err != nil {
			return err
		}
		seed = hex.EncodeToString(randomSeed)
	}

	keys, err := generateKeys(
		seed,
		config.GetString(config.NetworkKey),
		config.GetString(config.DerivationPathKey),
	)
	if err != nil {
		return err
	}
	return printJSON(keys)
}

func generateKeys(seed, network, derivationPath string) (*keygenResponse, error) {
	net, err := wallet.NetworkParams(network)
	if err != nil {
		return nil, err
	}
	path, err := wallet.ParseDerivationPath(derivationPath)
	if err != nil {
		return nil, err
	}

	xprv, xpub, err := wallet.GenerateNewKeys(seed, path, net)
	if err != nil {
		return nil, err
	}
	return &keygenResponse{
		Seed:           seed,
		DerivationPath: path.String(),
		Xprv:           xprv,
		Xpub:           xpub,
	}, nil
}
