package wallet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

var (
	// ErrNullNetwork ...
	ErrNullNetwork = errors.New("network params are null")
	// ErrNullExtendedKey ...
	ErrNullExtendedKey = errors.New("extended key must not be null")
	// ErrNullDerivationPath ...
	ErrNullDerivationPath = errors.New("derivation path must not be null")
	// ErrNullPrevOutScript ...
	ErrNullPrevOutScript = errors.New("previous output script must not be null")

	// ErrInvalidExtendedKey ...
	ErrInvalidExtendedKey = errors.New("extended key must be a valid xprv or xpub")
	// ErrInvalidDerivationPath ...
	ErrInvalidDerivationPath = errors.New("invalid derivation path")
	// ErrInvalidAddressType ...
	ErrInvalidAddressType = errors.New("unknown address type")
	// ErrInvalidNetwork ...
	ErrInvalidNetwork = errors.New("network must be either mainnet or testnet")
	// ErrInvalidIndex ...
	ErrInvalidIndex = errors.New("index must be in range [0, 2^31)")
	// ErrInvalidSeed ...
	ErrInvalidSeed = errors.New("seed must be a hex string of 16 to 64 bytes")
	// ErrInvalidTxID ...
	ErrInvalidTxID = errors.New("input transaction id must be a 32 byte hash in hex format")
	// ErrInvalidOutputAddress ...
	ErrInvalidOutputAddress = errors.New("output address must be a valid address")
	// ErrExtendedKeyNetworkMismatch ...
	ErrExtendedKeyNetworkMismatch = errors.New("extended key does not belong to network")

	// ErrEmptyInputs ...
	ErrEmptyInputs = errors.New("input list must not be empty")
	// ErrEmptyOutputs ...
	ErrEmptyOutputs = errors.New("output list must not be empty")

	// ErrMalformedDerivationPath ...
	ErrMalformedDerivationPath = errors.New(
		"path must not start or end with a '/' and " +
			"can optionally start with 'm/' for absolute paths",
	)
	// ErrZeroInputAmount ...
	ErrZeroInputAmount = errors.New("input amount must not be zero")
	// ErrZeroOutputAmount ...
	ErrZeroOutputAmount = errors.New("output amount must not be zero")
	// ErrPrivateKeyRequired ...
	ErrPrivateKeyRequired = errors.New(
		"extended key is public, a private key is required for signing",
	)
)

const (
	// NetworkMainnet ...
	NetworkMainnet = "mainnet"
	// NetworkTestnet ...
	NetworkTestnet = "testnet"
)

// NetworkParams returns the chain params for the given network name.
func NetworkParams(network string) (*chaincfg.Params, error) {
	switch strings.ToLower(strings.TrimSpace(network)) {
	case NetworkMainnet, "main", "bitcoin":
		return &chaincfg.MainNetParams, nil
	case NetworkTestnet, "test", "testnet3":
		return &chaincfg.TestNet3Params, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidNetwork, network)
	}
}

// NetworkName is the inverse of NetworkParams.
func NetworkName(net *chaincfg.Params) string {
	if net != nil && net.Net == chaincfg.TestNet3Params.Net {
		return NetworkTestnet
	}
	return NetworkMainnet
}
