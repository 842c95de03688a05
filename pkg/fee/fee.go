package fee

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tdex-network/bitcoin-payments/pkg/wallet"
)

var (
	// ErrInvalidFeeLevel ...
	ErrInvalidFeeLevel = errors.New("fee level must be one of low, medium, high")
	// ErrInvalidFeeRateType ...
	ErrInvalidFeeRateType = errors.New(
		"fee rate type must be one of base-per-weight, base, main",
	)
	// ErrInvalidFeeRate ...
	ErrInvalidFeeRate = errors.New("fee rate must be a non negative number")
	// ErrNullRateService ...
	ErrNullRateService = errors.New("fee rate service must not be null")
)

// Level is a coarse fee priority.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
	// LevelCustom marks a fee rate given explicitly by the caller.
	LevelCustom Level = "custom"

	// DefaultLevel is the level used when none is specified.
	DefaultLevel = LevelMedium
)

// ParseLevel parses one of the automatic levels (custom is not accepted).
func ParseLevel(level string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(level))); l {
	case LevelLow, LevelMedium, LevelHigh:
		return l, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidFeeLevel, level)
	}
}

// IsAuto returns whether the level is resolved through the rate service.
func (l Level) IsAuto() bool {
	return l == LevelLow || l == LevelMedium || l == LevelHigh
}

// DefaultSatPerByte returns the hardcoded fee rate of an automatic level.
// These are used whenever the rate service cannot be reached.
func DefaultSatPerByte(level Level) int64 {
	switch level {
	case LevelHigh:
		return 50
	case LevelLow:
		return 10
	default:
		return 25
	}
}

// RateType tells how a Rate is turned into a total fee.
type RateType string

const (
	// RateTypeBasePerWeight is a rate in base units per (virtual) byte.
	RateTypeBasePerWeight RateType = "base-per-weight"
	// RateTypeBase is a flat fee in base units.
	RateTypeBase RateType = "base"
	// RateTypeMain is a flat fee in main denomination.
	RateTypeMain RateType = "main"
)

// ParseRateType ...
func ParseRateType(rateType string) (RateType, error) {
	switch t := strings.ToLower(strings.TrimSpace(rateType)); t {
	case string(RateTypeBasePerWeight), "sat/byte", "satoshi-per-byte":
		return RateTypeBasePerWeight, nil
	case string(RateTypeBase), "sat", "satoshi":
		return RateTypeBase, nil
	case string(RateTypeMain), "btc":
		return RateTypeMain, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidFeeRateType, rateType)
	}
}

// Rate is a fee rate as given by the caller or resolved from a fee level.
type Rate struct {
	Rate string
	Type RateType
}

// NewSatPerByteRate ...
func NewSatPerByteRate(satPerByte int64) Rate {
	return Rate{
		Rate: decimal.NewFromInt(satPerByte).String(),
		Type: RateTypeBasePerWeight,
	}
}

func (r Rate) String() string {
	return fmt.Sprintf("%s %s", r.Rate, r.Type)
}

// Validate returns an error if the rate is not a non negative number or its
// type is unknown.
func (r Rate) Validate() error {
	_, err := r.parse()
	return err
}

func (r Rate) parse() (decimal.Decimal, error) {
	switch r.Type {
	case RateTypeBasePerWeight, RateTypeBase, RateTypeMain:
	default:
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidFeeRateType, r.Type)
	}
	rate, err := decimal.NewFromString(strings.TrimSpace(r.Rate))
	if err != nil || rate.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidFeeRate, r.Rate)
	}
	return rate, nil
}

// EstimateFee returns the fee in base units of a transaction with the given
// number of inputs and outputs, paying satPerByte for every estimated vbyte.
func EstimateFee(
	satPerByte decimal.Decimal, inputsCount, outputsCount int, segwit bool,
) decimal.Decimal {
	vsize := wallet.EstimateTxVsize(inputsCount, outputsCount, segwit)
	return decimal.NewFromInt(int64(vsize)).Mul(satPerByte)
}
