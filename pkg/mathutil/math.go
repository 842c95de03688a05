package mathutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// DecimalPlaces is the precision of bitcoin-like coins
	DecimalPlaces = 8
)

var (
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("amount must be a valid decimal number")
	// ErrTooManyDecimals ...
	ErrTooManyDecimals = errors.New("amount has more fractional digits than supported")
	// ErrAmountOverflow ...
	ErrAmountOverflow = errors.New("amount overflows base denomination range")
)

// Converter converts amounts between the integer base denomination (ie.
// satoshis) and the decimal main denomination (ie. BTC) of a coin.
type Converter struct {
	decimals int32
	unit     decimal.Decimal
}

// NewConverter returns a Converter for a coin with the given number of
// decimal places.
func NewConverter(decimals int32) Converter {
	return Converter{
		decimals: decimals,
		unit:     decimal.New(1, decimals),
	}
}

// Decimals returns the number of decimal places of the main denomination.
func (c Converter) Decimals() int32 {
	return c.decimals
}

//ParseDecimal parses a main denomination amount. NaN, infinities and empty
//strings are rejected.
func ParseDecimal(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidAmount, value)
	}
	return d, nil
}

//ToBaseDecimal converts a main denomination decimal into base units. Values
//with more fractional digits than the coin supports are rejected rather than
//rounded.
func (c Converter) ToBaseDecimal(value decimal.Decimal) (int64, error) {
	base := value.Mul(c.unit)
	if !base.Equal(base.Truncate(0)) {
		return 0, fmt.Errorf("%w: %s", ErrTooManyDecimals, value)
	}
	if !base.BigInt().IsInt64() {
		return 0, ErrAmountOverflow
	}
	return base.IntPart(), nil
}

//ToBase converts a main denomination string into base units
func (c Converter) ToBase(value string) (int64, error) {
	d, err := ParseDecimal(value)
	if err != nil {
		return 0, err
	}
	return c.ToBaseDecimal(d)
}

//ToMainDecimal converts an amount of base units into the main denomination
func (c Converter) ToMainDecimal(value int64) decimal.Decimal {
	return decimal.New(value, -c.decimals)
}

//ToMain converts an amount of base units into a main denomination string
//without trailing zeros
func (c Converter) ToMain(value int64) string {
	return c.ToMainDecimal(value).String()
}

//SumMain sums a list of main denomination strings
func SumMain(values ...string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, v := range values {
		d, err := ParseDecimal(v)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(d)
	}
	return total, nil
}
