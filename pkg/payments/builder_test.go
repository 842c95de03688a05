package payments_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/bitcoin-payments/pkg/fee"
	"github.com/tdex-network/bitcoin-payments/pkg/mathutil"
	"github.com/tdex-network/bitcoin-payments/pkg/payments"
	"github.com/tdex-network/bitcoin-payments/pkg/wallet"
)

var testRate = fee.Rate{Rate: "10", Type: fee.RateTypeBasePerWeight}

func newTestBuilder(t *testing.T) *payments.Builder {
	builder, err := payments.NewBuilder(newTestConfig(testXpub))
	require.NoError(t, err)
	return builder
}

func sumSatoshis(t *testing.T, tx *payments.PaymentTx) (inputs, outputs, txFee int64) {
	conv := mathutil.NewConverter(mathutil.DecimalPlaces)
	for _, in := range tx.Inputs {
		v, err := conv.ToBase(in.Value)
		require.NoError(t, err)
		require.Equal(t, in.Satoshis, v)
		inputs += v
	}
	for _, out := range tx.Outputs {
		v, err := conv.ToBase(out.Value)
		require.NoError(t, err)
		require.Equal(t, out.Satoshis, v)
		outputs += v
	}
	txFee, err := conv.ToBase(tx.Fee)
	require.NoError(t, err)
	return
}

func TestBuildPaymentTx(t *testing.T) {
	tests := []struct {
		name            string
		utxos           []payments.Utxo
		outputs         []payments.TxOutput
		rate            fee.Rate
		useAllUtxos     bool
		expectedInputs  []string
		expectedOutputs []string
		expectedFee     string
		expectedChange  string
	}{
		{
			name:    "mature utxos are selected smallest first",
			utxos:   newTestUtxos(10, 10, 10),
			outputs: []payments.TxOutput{{Address: testExternalAddress, Value: "0.0004"}},
			rate:    testRate,
			// 2 inputs, 2 outputs: 248 vbytes
			expectedInputs:  []string{testTxID3, testTxID2},
			expectedOutputs: []string{"0.0004", "0.0000752"},
			expectedFee:     "0.0000248",
			expectedChange:  "0.0000752",
		},
		{
			name:    "immature utxos are selected last",
			utxos:   newTestUtxos(10, 2, 1),
			outputs: []payments.TxOutput{{Address: testExternalAddress, Value: "0.0004"}},
			rate:    testRate,
			// 1 input, 2 outputs: 162 vbytes
			expectedInputs:  []string{testTxID1},
			expectedOutputs: []string{"0.0004", "0.0000838"},
			expectedFee:     "0.0000162",
			expectedChange:  "0.0000838",
		},
		{
			name: "dust change is added to fee",
			utxos: []payments.Utxo{
				{TxID: testTxID1, Value: "0.00042", Confirmations: 10},
			},
			outputs:         []payments.TxOutput{{Address: testExternalAddress, Value: "0.0004"}},
			rate:            testRate,
			expectedInputs:  []string{testTxID1},
			expectedOutputs: []string{"0.0004"},
			expectedFee:     "0.00002",
			expectedChange:  "0",
		},
		{
			name: "fee is subtracted from output when sending whole balance",
			utxos: []payments.Utxo{
				{TxID: testTxID1, Value: "0.0005", Confirmations: 10},
			},
			outputs:         []payments.TxOutput{{Address: testExternalAddress, Value: "0.0005"}},
			rate:            testRate,
			expectedInputs:  []string{testTxID1},
			expectedOutputs: []string{"0.0004838"},
			expectedFee:     "0.0000162",
			expectedChange:  "0",
		},
		{
			name:        "sweep spends all utxos in the given order",
			utxos:       newTestUtxos(10, 2, 1),
			outputs:     []payments.TxOutput{{Address: testExternalAddress, Value: "0.001"}},
			rate:        testRate,
			useAllUtxos: true,
			// 3 inputs, 2 outputs: 334 vbytes
			expectedInputs:  []string{testTxID1, testTxID2, testTxID3},
			expectedOutputs: []string{"0.0009666"},
			expectedFee:     "0.0000334",
			expectedChange:  "0",
		},
		{
			name:    "fee is raised to the min relay fee",
			utxos:           newTestUtxos(10),
			outputs:         []payments.TxOutput{{Address: testExternalAddress, Value: "0.0004"}},
			rate:            fee.Rate{Rate: "1", Type: fee.RateTypeBasePerWeight},
			expectedInputs:  []string{testTxID1},
			expectedOutputs: []string{"0.0004", "0.00009"},
			expectedFee:     "0.00001",
			expectedChange:  "0.00009",
		},
		{
			name:    "flat fee",
			utxos:           newTestUtxos(10),
			outputs:         []payments.TxOutput{{Address: testExternalAddress, Value: "0.0004"}},
			rate:            fee.Rate{Rate: "0.00002", Type: fee.RateTypeMain},
			expectedInputs:  []string{testTxID1},
			expectedOutputs: []string{"0.0004", "0.00008"},
			expectedFee:     "0.00002",
			expectedChange:  "0.00008",
		},
		{
			name:  "multiple outputs",
			utxos: newTestUtxos(10, 10, 10),
			outputs: []payments.TxOutput{
				{Address: testExternalAddress, Value: "0.0001"},
				{Address: testAddress1, Value: "0.00005"},
			},
			rate: testRate,
			// 1 input, 3 outputs: 194 vbytes
			expectedInputs:  []string{testTxID3},
			expectedOutputs: []string{"0.0001", "0.00005", "0.0000306"},
			expectedFee:     "0.0000194",
			expectedChange:  "0.0000306",
		},
	}

	builder := newTestBuilder(t)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tx, err := builder.BuildPaymentTx(
				tt.utxos, tt.outputs, testAddress0, tt.rate, tt.useAllUtxos,
			)
			require.NoError(t, err)

			inputs := make([]string, 0, len(tx.Inputs))
			for _, in := range tx.Inputs {
				inputs = append(inputs, in.TxID)
			}
			outputs := make([]string, 0, len(tx.Outputs))
			for _, out := range tx.Outputs {
				outputs = append(outputs, out.Value)
			}

			require.Equal(t, tt.expectedInputs, inputs)
			require.Equal(t, tt.expectedOutputs, outputs)
			require.Equal(t, tt.expectedFee, tx.Fee)
			require.Equal(t, tt.expectedChange, tx.Change)
			require.Equal(t, testAddress0, tx.ChangeAddress)
			if tt.expectedChange != "0" {
				require.Equal(t, testAddress0, tx.Outputs[len(tx.Outputs)-1].Address)
			}

			in, out, txFee := sumSatoshis(t, tx)
			require.Equal(t, in, out+txFee)
		})
	}
}

func TestFailingBuildPaymentTx(t *testing.T) {
	tests := []struct {
		name          string
		utxos         []payments.Utxo
		outputs       []payments.TxOutput
		changeAddress string
		useAllUtxos   bool
		expectedError error
	}{
		{
			name:          "no outputs",
			utxos:         newTestUtxos(10),
			outputs:       nil,
			expectedError: payments.ErrEmptyOutputs,
		},
		{
			name:          "invalid output address",
			utxos:         newTestUtxos(10),
			outputs:       []payments.TxOutput{{Address: "bc1qinvalid", Value: "0.0001"}},
			expectedError: wallet.ErrInvalidOutputAddress,
		},
		{
			name:          "output address of another network",
			utxos:         newTestUtxos(10),
			outputs:       []payments.TxOutput{{Address: testTestnetAddress, Value: "0.0001"}},
			expectedError: payments.ErrInvalidOutput,
		},
		{
			name:          "zero output",
			utxos:         newTestUtxos(10),
			outputs:       []payments.TxOutput{{Address: testExternalAddress, Value: "0"}},
			expectedError: payments.ErrInvalidAmount,
		},
		{
			name:          "negative output",
			utxos:         newTestUtxos(10),
			outputs:       []payments.TxOutput{{Address: testExternalAddress, Value: "-0.1"}},
			expectedError: payments.ErrInvalidAmount,
		},
		{
			name:          "output with too many decimals",
			utxos:         newTestUtxos(10),
			outputs:       []payments.TxOutput{{Address: testExternalAddress, Value: "0.000000001"}},
			expectedError: mathutil.ErrTooManyDecimals,
		},
		{
			name:          "invalid utxo",
			utxos:         []payments.Utxo{{TxID: testTxID1, Value: "0"}},
			outputs:       []payments.TxOutput{{Address: testExternalAddress, Value: "0.0001"}},
			expectedError: payments.ErrInvalidUtxo,
		},
		{
			name:          "insufficient funds",
			utxos:         newTestUtxos(10, 10, 10),
			outputs:       []payments.TxOutput{{Address: testExternalAddress, Value: "0.0006"}},
			expectedError: payments.ErrInsufficientFunds,
		},
		{
			name:          "insufficient funds without utxos",
			utxos:         nil,
			outputs:       []payments.TxOutput{{Address: testExternalAddress, Value: "0.0001"}},
			expectedError: payments.ErrInsufficientFunds,
		},
		{
			name: "whole balance below dust after fee",
			utxos: []payments.Utxo{
				{TxID: testTxID1, Value: "0.00002", Confirmations: 10},
			},
			outputs:       []payments.TxOutput{{Address: testExternalAddress, Value: "0.00002"}},
			expectedError: payments.ErrOutputBelowDust,
		},
		{
			name:          "sweep below dust after fee",
			utxos:         []payments.Utxo{{TxID: testTxID1, Satoshis: 546}},
			outputs:       []payments.TxOutput{{Address: testExternalAddress, Value: "0.00000546"}},
			useAllUtxos:   true,
			expectedError: payments.ErrOutputBelowDust,
		},
		{
			name:          "invalid change address",
			utxos:         newTestUtxos(10),
			outputs:       []payments.TxOutput{{Address: testExternalAddress, Value: "0.0001"}},
			changeAddress: "",
			expectedError: payments.ErrInvalidChangeAddress,
		},
	}

	builder := newTestBuilder(t)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tx, err := builder.BuildPaymentTx(
				tt.utxos, tt.outputs, tt.changeAddress, testRate, tt.useAllUtxos,
			)
			require.ErrorIs(t, err, tt.expectedError)
			require.Nil(t, tx)
		})
	}
}

func TestInsufficientFundsError(t *testing.T) {
	builder := newTestBuilder(t)

	_, err := builder.BuildPaymentTx(
		newTestUtxos(10, 10, 10),
		[]payments.TxOutput{{Address: testExternalAddress, Value: "0.0006"}},
		testAddress0, testRate, false,
	)

	var fundsErr *payments.InsufficientFundsError
	require.True(t, errors.As(err, &fundsErr))
	require.Equal(t, int64(100000), fundsErr.InputTotal)
	require.Equal(t, int64(60000), fundsErr.OutputTotal)
	// 3 inputs, 2 outputs: 334 vbytes
	require.Equal(t, int64(3340), fundsErr.Fee)
	require.Equal(t, testRate, fundsErr.FeeRate)
}

func TestInvalidOutputError(t *testing.T) {
	builder := newTestBuilder(t)

	_, err := builder.BuildPaymentTx(
		newTestUtxos(10),
		[]payments.TxOutput{
			{Address: testExternalAddress, Value: "0.0001"},
			{Address: testExternalAddress, Value: "0"},
		},
		testAddress0, testRate, false,
	)

	var outputErr *payments.InvalidOutputError
	require.True(t, errors.As(err, &outputErr))
	require.Equal(t, 1, outputErr.Index)
	require.ErrorIs(t, err, payments.ErrInvalidOutput)
	require.ErrorIs(t, err, payments.ErrInvalidAmount)
}

func TestBuildPaymentTxLegacy(t *testing.T) {
	cfg := newTestConfig(testXpub)
	cfg.AddressType = wallet.AddressTypeLegacy
	builder, err := payments.NewBuilder(cfg)
	require.NoError(t, err)

	tx, err := builder.BuildPaymentTx(
		newTestUtxos(10),
		[]payments.TxOutput{{Address: testAddress1, Value: "0.0004"}},
		testExternalAddress, testRate, false,
	)
	require.NoError(t, err)
	// 1 input, 2 outputs: 221 bytes
	require.Equal(t, "0.0000221", tx.Fee)
	require.Equal(t, "0.0000779", tx.Change)
}

func TestBuildPaymentTxInvariants(t *testing.T) {
	cfg := newTestConfig(testXpub)
	builder, err := payments.NewBuilder(cfg)
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(42))
	conv := mathutil.NewConverter(mathutil.DecimalPlaces)

	for i := 0; i < 500; i++ {
		numUtxos := rnd.Intn(8)
		utxos := make([]payments.Utxo, 0, numUtxos)
		var balance int64
		for j := 0; j < numUtxos; j++ {
			value := 1 + rnd.Int63n(200000)
			balance += value
			utxos = append(utxos, payments.Utxo{
				TxID:          testTxID1,
				Vout:          uint32(j),
				Satoshis:      value,
				Confirmations: rnd.Int63n(12),
			})
		}

		amount := 1 + rnd.Int63n(300000)
		// exercise whole balance sends too
		if balance > 0 && rnd.Intn(4) == 0 {
			amount = balance
		}
		rate := fee.NewSatPerByteRate(1 + rnd.Int63n(60))
		useAllUtxos := rnd.Intn(3) == 0

		tx, err := builder.BuildPaymentTx(
			utxos,
			[]payments.TxOutput{{Address: testExternalAddress, Value: conv.ToMain(amount)}},
			testAddress0, rate, useAllUtxos,
		)
		if err != nil {
			require.True(
				t,
				errors.Is(err, payments.ErrInsufficientFunds) ||
					errors.Is(err, payments.ErrOutputBelowDust),
				"unexpected error %s", err,
			)
			continue
		}

		in, out, txFee := sumSatoshis(t, tx)
		require.Equal(t, in, out+txFee)
		require.GreaterOrEqual(t, txFee, cfg.NetworkMinRelayFee)
		// change is never dust
		if len(tx.Outputs) > 1 {
			change := tx.Outputs[len(tx.Outputs)-1]
			require.Greater(t, change.Satoshis, cfg.DustThreshold)
		}
		if useAllUtxos {
			require.Len(t, tx.Inputs, len(utxos))
		}
	}
}
