package payments

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/tdex-network/bitcoin-payments/pkg/fee"
	"github.com/tdex-network/bitcoin-payments/pkg/mathutil"
	"github.com/tdex-network/bitcoin-payments/pkg/wallet"
)

const (
	// DefaultDustThreshold is the min value in satoshis of a change output
	DefaultDustThreshold = 546
	// MinRelayFee is the default network min relay fee in satoshis
	MinRelayFee = 1000
)

// SweepThreshold selects the balance a sweep must exceed.
type SweepThreshold int

const (
	// SweepThresholdRelayFee requires the balance to exceed the network min
	// relay fee.
	SweepThresholdRelayFee SweepThreshold = iota
	// SweepThresholdEstimatedFee requires the balance to exceed the fee
	// estimated for the sweep transaction.
	SweepThresholdEstimatedFee
)

var sweepThresholdNames = map[SweepThreshold]string{
	SweepThresholdRelayFee:     "relay-fee",
	SweepThresholdEstimatedFee: "estimated-fee",
}

func (t SweepThreshold) String() string {
	return sweepThresholdNames[t]
}

// ParseSweepThreshold ...
func ParseSweepThreshold(name string) (SweepThreshold, error) {
	for t, n := range sweepThresholdNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrInvalidSweepThreshold, name)
}

// Config is the static configuration of an Engine. The engine keeps its own
// copy so later changes to the struct have no effect on it.
type Config struct {
	// Network is either mainnet or testnet.
	Network     string
	AddressType wallet.AddressType
	// ExtendedKey is an xpub for a watch-only engine or an xprv for a signing
	// one.
	ExtendedKey    string
	DerivationPath string
	// Decimals of the main denomination, defaults to 8.
	Decimals int32
	// MinTxFee is an optional fee floor.
	MinTxFee           *fee.Rate
	DustThreshold      int64
	NetworkMinRelayFee int64
	DefaultFeeLevel    fee.Level
	SweepThreshold     SweepThreshold
}

// DefaultConfig returns a config for the given network and extended key
// with all other fields set to their defaults.
func DefaultConfig(network, extendedKey string) Config {
	return Config{
		Network:            network,
		AddressType:        wallet.AddressTypeSegwitP2SH,
		ExtendedKey:        extendedKey,
		DerivationPath:     wallet.DefaultDerivationPath.String(),
		Decimals:           mathutil.DecimalPlaces,
		DustThreshold:      DefaultDustThreshold,
		NetworkMinRelayFee: MinRelayFee,
		DefaultFeeLevel:    fee.DefaultLevel,
		SweepThreshold:     SweepThresholdRelayFee,
	}
}

func (c Config) validate() (*chaincfg.Params, error) {
	net, err := wallet.NetworkParams(c.Network)
	if err != nil {
		return nil, err
	}
	if c.Decimals < 0 || c.Decimals > 18 {
		return nil, ErrInvalidDecimals
	}
	if c.DustThreshold < 0 {
		return nil, ErrInvalidDustThreshold
	}
	if c.NetworkMinRelayFee < 0 {
		return nil, ErrInvalidMinRelayFee
	}
	if c.DefaultFeeLevel != "" && !c.DefaultFeeLevel.IsAuto() {
		return nil, fmt.Errorf("%w: %s", fee.ErrInvalidFeeLevel, c.DefaultFeeLevel)
	}
	if _, ok := sweepThresholdNames[c.SweepThreshold]; !ok {
		return nil, ErrInvalidSweepThreshold
	}
	if c.MinTxFee != nil {
		if err := c.MinTxFee.Validate(); err != nil {
			return nil, fmt.Errorf("min tx fee: %w", err)
		}
	}
	return net, nil
}

// copy returns a deep copy of the config with defaults applied.
func (c Config) copy() Config {
	cfg := c
	if cfg.Decimals == 0 {
		cfg.Decimals = mathutil.DecimalPlaces
	}
	if cfg.DefaultFeeLevel == "" {
		cfg.DefaultFeeLevel = fee.DefaultLevel
	}
	if c.MinTxFee != nil {
		minTxFee := *c.MinTxFee
		cfg.MinTxFee = &minTxFee
	}
	return cfg
}
