package payments_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/tdex-network/bitcoin-payments/pkg/explorer"
	"github.com/tdex-network/bitcoin-payments/pkg/fee"
	"github.com/tdex-network/bitcoin-payments/pkg/payments"
	"github.com/tdex-network/bitcoin-payments/pkg/wallet"
)

const (
	// m/44'/0'/0' of the root key below
	testXpub = "xpub6CguzhKFeefGknchnkCYBMtVrqoizqA56dFBUd3Q5EMsDrJfaBgu9mv2YJTd3BANQhrcqmMKKPtYBETWF6SYD9G1Jubjze6VkZsX7DchtAi"
	testXprv = "xprv9s21ZrQH143K3z2wCDRa3rHg9CHKedM1GvbJzGeZB14tsFdiDtpY6T96c1wWr9rwWhU5C8zcEWFbBVa4T3A8bhGSESDG8Kx1SSPfM2rrjxk"

	testDerivationPath = "m/44'/0'/0'"

	testAddress0 = "bc1qa0x889ge2ltycp9k7kyna5fjzd6p0swwe84k3h"
	testAddress1 = "bc1qgtgttdhw4v92mkkkzs54lpanfcr8770d62uqdg"
	testAddress2 = "bc1qdz6f0ap3lemrj744mdt7rp2v7rca7lwhulnsjj"
	// legacy address of index 0, valid destination on mainnet
	testExternalAddress = "1NVnicuFF5jeJJgT5ur9VqKts6pWyDhKVu"
	testTestnetAddress  = "tb1qhwtdp4q08553qkmlher7qe98n68mzn6txqxsed"

	testPrivateKey3 = "L1yJZhQJ3RNW1hTD53NeovU8Wj4iFnT6v47ZXPrsCY8ikvqH4xzg"

	testTxID1 = "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"
	testTxID2 = "0e3e2357e806b6cdb1f70b54c3a3a17b6714ee1f0e68bebb44a74b1efd512098"
	testTxID3 = "9b0fc92260312ce44e74ef369f5c66bbb85848f2eddd5a7a1cde251e54ccfdd5"
)

var testCustomRate = payments.FeeOption{
	FeeRate:     "10",
	FeeRateType: fee.RateTypeBasePerWeight,
}

func newTestConfig(extendedKey string) payments.Config {
	cfg := payments.DefaultConfig(wallet.NetworkMainnet, extendedKey)
	cfg.AddressType = wallet.AddressTypeSegwitNative
	cfg.DerivationPath = testDerivationPath
	return cfg
}

func newTestUtxos(confirmations ...int64) []payments.Utxo {
	values := []string{"0.0005", "0.0003", "0.0002"}
	txids := []string{testTxID1, testTxID2, testTxID3}
	utxos := make([]payments.Utxo, 0, len(confirmations))
	for i, c := range confirmations {
		utxos = append(utxos, payments.Utxo{
			TxID:          txids[i],
			Vout:          uint32(i),
			Value:         values[i],
			Confirmations: c,
		})
	}
	return utxos
}

type mockExplorer struct {
	mock.Mock
}

func (m *mockExplorer) GetUtxos(
	ctx context.Context, address string,
) ([]explorer.Utxo, error) {
	args := m.Called(address)

	var res []explorer.Utxo
	if a := args.Get(0); a != nil {
		res = a.([]explorer.Utxo)
	}
	return res, args.Error(1)
}

func (m *mockExplorer) GetAddressBalance(
	ctx context.Context, address string,
) (*explorer.Balance, error) {
	args := m.Called(address)

	var res *explorer.Balance
	if a := args.Get(0); a != nil {
		res = a.(*explorer.Balance)
	}
	return res, args.Error(1)
}

func (m *mockExplorer) GetTransaction(
	ctx context.Context, txid string,
) (*explorer.Transaction, error) {
	args := m.Called(txid)

	var res *explorer.Transaction
	if a := args.Get(0); a != nil {
		res = a.(*explorer.Transaction)
	}
	return res, args.Error(1)
}

func (m *mockExplorer) BroadcastTransaction(
	ctx context.Context, txhex string,
) (string, error) {
	args := m.Called(txhex)
	return args.String(0), args.Error(1)
}

func (m *mockExplorer) GetBlock(
	ctx context.Context, hashOrHeight string,
) (*explorer.Block, error) {
	args := m.Called(hashOrHeight)

	var res *explorer.Block
	if a := args.Get(0); a != nil {
		res = a.(*explorer.Block)
	}
	return res, args.Error(1)
}

func (m *mockExplorer) GetStatus(ctx context.Context) (*explorer.Status, error) {
	args := m.Called()

	var res *explorer.Status
	if a := args.Get(0); a != nil {
		res = a.(*explorer.Status)
	}
	return res, args.Error(1)
}

type mockRateService struct {
	mock.Mock
}

func (m *mockRateService) GetFeeRate(ctx context.Context, level fee.Level) (int64, error) {
	args := m.Called(level)

	var res int64
	if a := args.Get(0); a != nil {
		res = a.(int64)
	}
	return res, args.Error(1)
}
