package wallet

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddressType(t *testing.T) {
	tests := []struct {
		input    string
		expected AddressType
		err      error
	}{
		{"legacy", AddressTypeLegacy, nil},
		{"p2pkh", AddressTypeLegacy, nil},
		{"segwit-p2sh", AddressTypeSegwitP2SH, nil},
		{" Segwit-Wrapped ", AddressTypeSegwitP2SH, nil},
		{"segwit-native", AddressTypeSegwitNative, nil},
		{"bech32", AddressTypeSegwitNative, nil},
		{"p2tr", 0, ErrInvalidAddressType},
	}
	for _, tt := range tests {
		addressType, err := ParseAddressType(tt.input)
		if tt.err != nil {
			assert.ErrorIs(t, err, tt.err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.expected, addressType)
	}
}

func TestAddressTypeIsSegwit(t *testing.T) {
	assert.False(t, AddressTypeLegacy.IsSegwit())
	assert.True(t, AddressTypeSegwitP2SH.IsSegwit())
	assert.True(t, AddressTypeSegwitNative.IsSegwit())
}

func TestIsValidAddress(t *testing.T) {
	tests := []struct {
		address string
		network *chaincfg.Params
		valid   bool
	}{
		{testAddressLegacy, &chaincfg.MainNetParams, true},
		{testAddressSegwitP2SH, &chaincfg.MainNetParams, true},
		{testAddressSegwitNative, &chaincfg.MainNetParams, true},
		{"mxcqKncrh2mxocdKHowEHcSWAduHENr4P8", &chaincfg.TestNet3Params, true},
		{"tb1qhwtdp4q08553qkmlher7qe98n68mzn6txqxsed", &chaincfg.TestNet3Params, true},
		{testAddressLegacy, &chaincfg.TestNet3Params, false},
		{testAddressSegwitNative, &chaincfg.TestNet3Params, false},
		{"mxcqKncrh2mxocdKHowEHcSWAduHENr4P8", &chaincfg.MainNetParams, false},
		{"1J6t2jXst1Li2W9haExrThEBJeJaKpDCqX", &chaincfg.MainNetParams, false},
		{"", &chaincfg.MainNetParams, false},
		{testAddressLegacy, nil, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, IsValidAddress(tt.address, tt.network), tt.address)
	}
}

func TestPayToAddrScript(t *testing.T) {
	// hash160 of the pubkey at index 3 of the test account
	pubkeyHash := "bb96d0d40f3d29105b7fbe47e064a79e8fb14f4b"

	tests := []struct {
		address  string
		expected string
	}{
		{testAddressLegacy, "76a914" + pubkeyHash + "88ac"},
		{testAddressSegwitNative, "0014" + pubkeyHash},
	}
	for _, tt := range tests {
		script, err := PayToAddrScript(tt.address, &chaincfg.MainNetParams)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, hex.EncodeToString(script))
	}

	_, err := PayToAddrScript("invalid", &chaincfg.MainNetParams)
	assert.Error(t, err)
}

func TestNetworkParams(t *testing.T) {
	net, err := NetworkParams("mainnet")
	require.NoError(t, err)
	assert.Equal(t, &chaincfg.MainNetParams, net)
	assert.Equal(t, NetworkMainnet, NetworkName(net))

	net, err = NetworkParams("TESTNET")
	require.NoError(t, err)
	assert.Equal(t, &chaincfg.TestNet3Params, net)
	assert.Equal(t, NetworkTestnet, NetworkName(net))

	_, err = NetworkParams("regtest")
	assert.ErrorIs(t, err, ErrInvalidNetwork)
}
