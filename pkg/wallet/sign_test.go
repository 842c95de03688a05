package wallet

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testInputs = []TxInput{
	{
		TxID:  "2266ea441e3fbd144e33dc6c62c0d354d59dc267b48efe9a98a6e2fe6584cbd1",
		Vout:  0,
		Value: 50000,
	},
	{
		TxID:  "fa0b399f8eb9813f4549fc1066a134f93d1b4c7c6563d12629227ef3faf231b6",
		Vout:  4,
		Value: 30000,
	},
}

func TestSignTransaction(t *testing.T) {
	addressTypes := []AddressType{
		AddressTypeLegacy,
		AddressTypeSegwitP2SH,
		AddressTypeSegwitNative,
	}

	for _, addressType := range addressTypes {
		t.Run(addressType.String(), func(t *testing.T) {
			d, err := NewSigningDeriver(newTestOpts(testRootXprv, addressType))
			require.NoError(t, err)

			fromAddress, err := d.AddressAt(3)
			require.NoError(t, err)

			opts := SignTransactionOpts{
				Index:  3,
				Inputs: testInputs,
				Outputs: []TxOutput{
					{Address: "1NVnicuFF5jeJJgT5ur9VqKts6pWyDhKVu", Value: 40000},
					{Address: fromAddress, Value: 35000},
				},
			}

			signed, err := d.SignTransaction(opts)
			require.NoError(t, err)
			require.NotNil(t, signed)

			buf, err := hex.DecodeString(signed.Hex)
			require.NoError(t, err)
			tx := wire.NewMsgTx(wire.TxVersion)
			require.NoError(t, tx.Deserialize(bytes.NewReader(buf)))

			assert.Equal(t, signed.TxID, tx.TxHash().String())
			assert.Len(t, tx.TxIn, 2)
			assert.Len(t, tx.TxOut, 2)
			assert.Equal(t, int64(40000), tx.TxOut[0].Value)
			assert.Equal(t, int64(35000), tx.TxOut[1].Value)
			assert.Equal(t, uint32(4), tx.TxIn[1].PreviousOutPoint.Index)

			prevOutScript, err := PayToAddrScript(fromAddress, &chaincfg.MainNetParams)
			require.NoError(t, err)

			prevOuts := make(map[wire.OutPoint]*wire.TxOut)
			for i, in := range testInputs {
				prevOuts[tx.TxIn[i].PreviousOutPoint] = wire.NewTxOut(in.Value, prevOutScript)
			}
			fetcher := txscript.NewMultiPrevOutFetcher(prevOuts)
			sigHashes := txscript.NewTxSigHashes(tx, fetcher)

			for i, in := range testInputs {
				vm, err := txscript.NewEngine(
					prevOutScript, tx, i, txscript.StandardVerifyFlags,
					nil, sigHashes, in.Value, fetcher,
				)
				require.NoError(t, err)
				assert.NoError(t, vm.Execute(), "input %d", i)
			}
		})
	}
}

func TestSignTransactionInvalidOpts(t *testing.T) {
	d, err := NewSigningDeriver(newTestOpts(testRootXprv, AddressTypeSegwitNative))
	require.NoError(t, err)

	validOutputs := []TxOutput{{Address: testAddressLegacy, Value: 1000}}

	tests := []struct {
		opts SignTransactionOpts
		err  error
	}{
		{SignTransactionOpts{Outputs: validOutputs}, ErrEmptyInputs},
		{SignTransactionOpts{Inputs: testInputs}, ErrEmptyOutputs},
		{
			SignTransactionOpts{
				Inputs:  []TxInput{{TxID: testInputs[0].TxID, Value: 0}},
				Outputs: validOutputs,
			},
			ErrZeroInputAmount,
		},
		{
			SignTransactionOpts{
				Inputs:  []TxInput{{TxID: "abcd", Value: 1000}},
				Outputs: validOutputs,
			},
			ErrInvalidTxID,
		},
		{
			SignTransactionOpts{
				Inputs:  testInputs,
				Outputs: []TxOutput{{Address: testAddressLegacy, Value: -1}},
			},
			ErrZeroOutputAmount,
		},
		{
			SignTransactionOpts{
				Inputs:  testInputs,
				Outputs: []TxOutput{{Address: "mxcqKncrh2mxocdKHowEHcSWAduHENr4P8", Value: 1000}},
			},
			ErrInvalidOutputAddress,
		},
	}

	for _, tt := range tests {
		_, err := d.SignTransaction(tt.opts)
		assert.ErrorIs(t, err, tt.err)
	}
}
