package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/spf13/viper"
	"github.com/tdex-network/bitcoin-payments/pkg/explorer"
	"github.com/tdex-network/bitcoin-payments/pkg/explorer/blockbook"
	"github.com/tdex-network/bitcoin-payments/pkg/fee"
	"github.com/tdex-network/bitcoin-payments/pkg/payments"
	"github.com/tdex-network/bitcoin-payments/pkg/wallet"
)

const (
	// NetworkKey is the network to use. Either "mainnet" or "testnet"
	NetworkKey = "NETWORK"
	// AddressTypeKey is the encoding of the account addresses. One of
	// "legacy", "segwit-p2sh" or "segwit-native"
	AddressTypeKey = "ADDRESS_TYPE"
	// HDKeyKey is the xpub (watch-only) or xprv (signing) of the account
	HDKeyKey = "HD_KEY"
	// DerivationPathKey is the path of the account, relative to the master
	// key. Components already derived by HD_KEY are skipped
	DerivationPathKey = "DERIVATION_PATH"
	// MinTxFeeKey is an optional floor for the fee of every transaction
	MinTxFeeKey = "MIN_TX_FEE"
	// MinTxFeeTypeKey is the type of MIN_TX_FEE
	MinTxFeeTypeKey = "MIN_TX_FEE_TYPE"
	// DustThresholdKey is the min value in satoshis of a change output
	DustThresholdKey = "DUST_THRESHOLD"
	// NetworkMinRelayFeeKey is the min fee in satoshis of any transaction
	NetworkMinRelayFeeKey = "NETWORK_MIN_RELAY_FEE"
	// DefaultFeeLevelKey is the fee level used when none is given
	DefaultFeeLevelKey = "DEFAULT_FEE_LEVEL"
	// SweepThresholdKey is the balance a sweep must exceed. Either "relay-fee"
	// or "estimated-fee"
	SweepThresholdKey = "SWEEP_THRESHOLD"
	// ExplorerURLKey is the endpoint of the Blockbook REST API. Leave it
	// empty to run offline
	ExplorerURLKey = "EXPLORER_URL"
	// ExplorerRequestsPerSecondKey throttles the requests to the explorer
	ExplorerRequestsPerSecondKey = "EXPLORER_REQUESTS_PER_SECOND"
	// FeeServiceURLKey is the endpoint of the Blockcypher API
	FeeServiceURLKey = "FEE_SERVICE_URL"
	// RetryAttemptsKey is the max number of attempts of an explorer call
	RetryAttemptsKey = "RETRY_ATTEMPTS"
	// RetryDelayKey is the pause between two attempts of an explorer call
	RetryDelayKey = "RETRY_DELAY"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DatadirKey is the local data directory
	DatadirKey = "DATADIR"
	// EnableProfilerKey makes every command append the payments metrics to
	// a file in the datadir
	EnableProfilerKey = "ENABLE_PROFILER"

	ProfilerLocation = "stats"
	MetricsFile      = "metrics.log"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("bitcoin-payments", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("PAYMENTS")
	vip.AutomaticEnv()
	// an empty EXPLORER_URL or FEE_SERVICE_URL disables the service
	vip.AllowEmptyEnv(true)

	vip.SetDefault(NetworkKey, wallet.NetworkMainnet)
	vip.SetDefault(AddressTypeKey, wallet.AddressTypeSegwitP2SH.String())
	vip.SetDefault(DerivationPathKey, wallet.DefaultDerivationPath.String())
	vip.SetDefault(MinTxFeeTypeKey, string(fee.RateTypeBasePerWeight))
	vip.SetDefault(DustThresholdKey, payments.DefaultDustThreshold)
	vip.SetDefault(NetworkMinRelayFeeKey, payments.MinRelayFee)
	vip.SetDefault(DefaultFeeLevelKey, string(fee.DefaultLevel))
	vip.SetDefault(SweepThresholdKey, payments.SweepThresholdRelayFee.String())
	vip.SetDefault(ExplorerURLKey, "https://btc1.trezor.io")
	vip.SetDefault(ExplorerRequestsPerSecondKey, blockbook.DefaultRequestsPerSecond)
	vip.SetDefault(FeeServiceURLKey, fee.DefaultBlockcypherURL)
	vip.SetDefault(RetryAttemptsKey, explorer.DefaultRetryAttempts)
	vip.SetDefault(RetryDelayKey, explorer.DefaultRetryDelay)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(EnableProfilerKey, false)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// Set a value for the given key
func Set(key string, value interface{}) {
	vip.Set(key, value)
}

// GetMetricsFile returns the path of the metrics dump, or an empty string if
// the profiler is disabled.
func GetMetricsFile() string {
	if !GetBool(EnableProfilerKey) {
		return ""
	}
	return filepath.Join(GetDatadir(), ProfilerLocation, MetricsFile)
}

// GetRetryPolicy returns the policy wrapping every explorer call.
func GetRetryPolicy() explorer.RetryPolicy {
	policy := explorer.DefaultRetryPolicy()
	policy.Attempts = uint(GetInt(RetryAttemptsKey))
	policy.Delay = GetDuration(RetryDelayKey)
	return policy
}

// GetExplorer returns the retrying Blockbook client, or nil if no explorer
// url is configured.
func GetExplorer() (explorer.Service, error) {
	explorerURL := GetString(ExplorerURLKey)
	if explorerURL == "" {
		return nil, nil
	}

	svc, err := blockbook.NewService(
		explorerURL, GetInt(ExplorerRequestsPerSecondKey),
	)
	if err != nil {
		return nil, err
	}
	return explorer.NewRetryService(svc, GetRetryPolicy())
}

// GetFeeService returns the Blockcypher fee rate service, or nil if no url
// is configured.
func GetFeeService() (fee.RateService, error) {
	feeServiceURL := GetString(FeeServiceURLKey)
	if feeServiceURL == "" {
		return nil, nil
	}
	return fee.NewBlockcypherService(feeServiceURL, GetString(NetworkKey))
}

// PaymentsConfig returns the engine config defined by the current values.
func PaymentsConfig() (payments.Config, error) {
	cfg := payments.DefaultConfig(GetString(NetworkKey), GetString(HDKeyKey))
	cfg.DerivationPath = GetString(DerivationPathKey)
	cfg.DustThreshold = int64(GetInt(DustThresholdKey))
	cfg.NetworkMinRelayFee = int64(GetInt(NetworkMinRelayFeeKey))

	addressType, err := wallet.ParseAddressType(GetString(AddressTypeKey))
	if err != nil {
		return payments.Config{}, err
	}
	cfg.AddressType = addressType

	feeLevel, err := fee.ParseLevel(GetString(DefaultFeeLevelKey))
	if err != nil {
		return payments.Config{}, err
	}
	cfg.DefaultFeeLevel = feeLevel

	sweepThreshold, err := payments.ParseSweepThreshold(
		GetString(SweepThresholdKey),
	)
	if err != nil {
		return payments.Config{}, err
	}
	cfg.SweepThreshold = sweepThreshold

	if minTxFee := GetString(MinTxFeeKey); minTxFee != "" {
		rateType, err := fee.ParseRateType(GetString(MinTxFeeTypeKey))
		if err != nil {
			return payments.Config{}, err
		}
		cfg.MinTxFee = &fee.Rate{Rate: minTxFee, Type: rateType}
	}

	return cfg, nil
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	if _, err := wallet.NetworkParams(GetString(NetworkKey)); err != nil {
		return err
	}
	if _, err := wallet.ParseAddressType(GetString(AddressTypeKey)); err != nil {
		return err
	}
	if _, err := wallet.ParseDerivationPath(GetString(DerivationPathKey)); err != nil {
		return err
	}
	if _, err := fee.ParseLevel(GetString(DefaultFeeLevelKey)); err != nil {
		return err
	}
	if _, err := payments.ParseSweepThreshold(GetString(SweepThresholdKey)); err != nil {
		return err
	}

	if minTxFee := GetString(MinTxFeeKey); minTxFee != "" {
		rateType, err := fee.ParseRateType(GetString(MinTxFeeTypeKey))
		if err != nil {
			return err
		}
		rate := fee.Rate{Rate: minTxFee, Type: rateType}
		if err := rate.Validate(); err != nil {
			return fmt.Errorf("%s: %s", MinTxFeeKey, err)
		}
	}

	if GetInt(DustThresholdKey) < 0 {
		return fmt.Errorf("%s must not be negative", DustThresholdKey)
	}
	if GetInt(NetworkMinRelayFeeKey) < 0 {
		return fmt.Errorf("%s must not be negative", NetworkMinRelayFeeKey)
	}
	if GetInt(RetryAttemptsKey) < 1 {
		return fmt.Errorf("%s must be at least 1", RetryAttemptsKey)
	}
	if GetDuration(RetryDelayKey) < 0 {
		return fmt.Errorf("%s must not be negative", RetryDelayKey)
	}
	if GetInt(ExplorerRequestsPerSecondKey) < 0 {
		return fmt.Errorf("%s must not be negative", ExplorerRequestsPerSecondKey)
	}

	for _, key := range []string{ExplorerURLKey, FeeServiceURLKey} {
		endpoint := GetString(key)
		if endpoint == "" {
			continue
		}
		if _, err := url.ParseRequestURI(endpoint); err != nil {
			return fmt.Errorf("%s is not a valid url: %s", key, err)
		}
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if err := makeDirectoryIfNotExists(datadir); err != nil {
		return err
	}

	profilerEnabled := GetBool(EnableProfilerKey)
	if profilerEnabled {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
