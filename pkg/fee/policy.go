package fee

import (
	"github.com/shopspring/decimal"
	"github.com/tdex-network/bitcoin-payments/pkg/mathutil"
)

// Policy turns fee rates into required fees in base units for a specific
// coin and address type.
type Policy struct {
	Converter mathutil.Converter
	Segwit    bool
	// MinTxFee is an optional floor expressed as a fee rate.
	MinTxFee *Rate
	// NetworkMinRelayFee is the absolute floor in base units.
	NetworkMinRelayFee int64
}

// RequiredFee returns the fee in base units to pay for a transaction with
// the given number of inputs and outputs at the target rate. The result is
// never lower than the MinTxFee rate nor than the network min relay fee, and
// is always rounded up.
func (p Policy) RequiredFee(
	target Rate, inputsCount, outputsCount int,
) (int64, error) {
	fee, err := p.rateToBase(target, inputsCount, outputsCount)
	if err != nil {
		return 0, err
	}

	if p.MinTxFee != nil {
		minFee, err := p.rateToBase(*p.MinTxFee, inputsCount, outputsCount)
		if err != nil {
			return 0, err
		}
		if fee.LessThan(minFee) {
			fee = minFee
		}
	}

	if minRelayFee := decimal.NewFromInt(p.NetworkMinRelayFee); fee.LessThan(minRelayFee) {
		fee = minRelayFee
	}

	return fee.Ceil().IntPart(), nil
}

// FlatFees returns the fee in base and main denomination of a flat rate. Both
// are empty for rates that depend on the transaction size.
func (p Policy) FlatFees(rate Rate) (feeBase, feeMain string, err error) {
	value, err := rate.parse()
	if err != nil {
		return "", "", err
	}

	switch rate.Type {
	case RateTypeBase:
		return rate.Rate, p.Converter.ToMain(value.Ceil().IntPart()), nil
	case RateTypeMain:
		base, err := p.Converter.ToBaseDecimal(value)
		if err != nil {
			return "", "", err
		}
		return decimal.NewFromInt(base).String(), rate.Rate, nil
	default:
		return "", "", nil
	}
}

func (p Policy) rateToBase(
	rate Rate, inputsCount, outputsCount int,
) (decimal.Decimal, error) {
	value, err := rate.parse()
	if err != nil {
		return decimal.Zero, err
	}

	switch rate.Type {
	case RateTypeBasePerWeight:
		return EstimateFee(value, inputsCount, outputsCount, p.Segwit), nil
	case RateTypeMain:
		base, err := p.Converter.ToBaseDecimal(value)
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromInt(base), nil
	default:
		return value, nil
	}
}
