package payments

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/bitcoin-payments/pkg/fee"
	"github.com/tdex-network/bitcoin-payments/pkg/mathutil"
	"github.com/tdex-network/bitcoin-payments/pkg/wallet"
)

// Builder selects the coins and computes fee and change of payment
// transactions. All the accounting is done in base units.
type Builder struct {
	converter     mathutil.Converter
	feePolicy     fee.Policy
	dustThreshold int64
	network       *chaincfg.Params
}

// NewBuilder returns a Builder for the given config.
func NewBuilder(cfg Config) (*Builder, error) {
	net, err := cfg.validate()
	if err != nil {
		return nil, err
	}
	return newBuilder(cfg.copy(), net), nil
}

func newBuilder(cfg Config, net *chaincfg.Params) *Builder {
	converter := mathutil.NewConverter(cfg.Decimals)
	return &Builder{
		converter: converter,
		feePolicy: fee.Policy{
			Converter:          converter,
			Segwit:             cfg.AddressType.IsSegwit(),
			MinTxFee:           cfg.MinTxFee,
			NetworkMinRelayFee: cfg.NetworkMinRelayFee,
		},
		dustThreshold: cfg.DustThreshold,
		network:       net,
	}
}

type output struct {
	address  string
	satoshis int64
}

// BuildPaymentTx selects among availableUtxos the inputs to fund the desired
// outputs at the given fee rate and adds a change output to changeAddress if
// the remainder is above dust.
//
// If useAllUtxos is true every utxo is spent, otherwise utxos are added one
// at a time in SortUtxos order until they cover outputs and fee.
// If the desired outputs sum up exactly to the selected inputs, the fee is
// subtracted from the first output.
func (b *Builder) BuildPaymentTx(
	availableUtxos []Utxo,
	desiredOutputs []TxOutput,
	changeAddress string,
	feeRate fee.Rate,
	useAllUtxos bool,
) (*PaymentTx, error) {
	if len(desiredOutputs) <= 0 {
		return nil, ErrEmptyOutputs
	}

	outputs := make([]output, 0, len(desiredOutputs)+1)
	var outputTotal int64
	for i, out := range desiredOutputs {
		if !wallet.IsValidAddress(out.Address, b.network) {
			return nil, &InvalidOutputError{i, wallet.ErrInvalidOutputAddress}
		}
		satoshis, err := b.converter.ToBase(out.Value)
		if err != nil {
			return nil, &InvalidOutputError{i, err}
		}
		if satoshis <= 0 {
			return nil, &InvalidOutputError{i, ErrInvalidAmount}
		}
		outputs = append(outputs, output{out.Address, satoshis})
		outputTotal += satoshis
	}
	// one more for change
	outputCount := len(outputs) + 1

	utxos, err := b.normalizeUtxos(availableUtxos)
	if err != nil {
		return nil, err
	}

	var inputs []Utxo
	var inputTotal, feeSat int64
	amountWithFee := outputTotal
	if useAllUtxos {
		inputs = utxos
		for _, u := range inputs {
			inputTotal += u.Satoshis
		}
		if feeSat, err = b.feePolicy.RequiredFee(
			feeRate, len(inputs), outputCount,
		); err != nil {
			return nil, err
		}
		amountWithFee = outputTotal + feeSat
	} else {
		for _, u := range SortUtxos(utxos) {
			inputs = append(inputs, u)
			inputTotal += u.Satoshis
			if feeSat, err = b.feePolicy.RequiredFee(
				feeRate, len(inputs), outputCount,
			); err != nil {
				return nil, err
			}
			amountWithFee = outputTotal + feeSat
			if inputTotal >= amountWithFee {
				break
			}
		}
	}
	log.Debugf(
		"build payment tx: input total %d, fee %d, amount with fee %d",
		inputTotal, feeSat, amountWithFee,
	)

	if amountWithFee > inputTotal {
		if outputTotal != inputTotal {
			return nil, &InsufficientFundsError{
				InputTotal:  inputTotal,
				OutputTotal: outputTotal,
				Fee:         feeSat,
				FeeRate:     feeRate,
			}
		}

		log.Debugf(
			"attempting to send entire balance of %d sat, subtracting fee of "+
				"%d sat from first output",
			outputTotal, feeSat,
		)
		amountWithFee = outputTotal
		outputs[0].satoshis -= feeSat
		if outputs[0].satoshis <= b.dustThreshold {
			return nil, fmt.Errorf(
				"%w: %d sat left, dust threshold is %d sat",
				ErrOutputBelowDust, outputs[0].satoshis, b.dustThreshold,
			)
		}
	}

	changeSat := inputTotal - amountWithFee
	if changeSat > b.dustThreshold {
		if !wallet.IsValidAddress(changeAddress, b.network) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidChangeAddress, changeAddress)
		}
		outputs = append(outputs, output{changeAddress, changeSat})
	} else if changeSat > 0 {
		log.Infof(
			"change of %d sat is below dust threshold of %d sat, adding to fee",
			changeSat, b.dustThreshold,
		)
		feeSat += changeSat
		changeSat = 0
	}

	txOutputs := make([]TxOutput, 0, len(outputs))
	for _, out := range outputs {
		txOutputs = append(txOutputs, TxOutput{
			Address:  out.address,
			Value:    b.converter.ToMain(out.satoshis),
			Satoshis: out.satoshis,
		})
	}

	return &PaymentTx{
		Inputs:        inputs,
		Outputs:       txOutputs,
		Fee:           b.converter.ToMain(feeSat),
		Change:        b.converter.ToMain(changeSat),
		ChangeAddress: changeAddress,
	}, nil
}

// normalizeUtxos returns a copy of the given utxos with both Value and
// Satoshis set. Value takes precedence if both are given.
func (b *Builder) normalizeUtxos(utxos []Utxo) ([]Utxo, error) {
	normalized := make([]Utxo, 0, len(utxos))
	for i, u := range utxos {
		if u.Value != "" {
			satoshis, err := b.converter.ToBase(u.Value)
			if err != nil {
				return nil, fmt.Errorf("utxo %d: %w", i, err)
			}
			u.Satoshis = satoshis
		}
		if u.Satoshis <= 0 {
			return nil, fmt.Errorf("utxo %d: %w", i, ErrInvalidUtxo)
		}
		u.Value = b.converter.ToMain(u.Satoshis)
		normalized = append(normalized, u)
	}
	return normalized, nil
}
