package explorer_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/tdex-network/bitcoin-payments/pkg/explorer"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetUtxos(
	ctx context.Context, address string,
) ([]explorer.Utxo, error) {
	args := m.Called(address)

	var res []explorer.Utxo
	if a := args.Get(0); a != nil {
		res = a.([]explorer.Utxo)
	}
	return res, args.Error(1)
}

func (m *mockService) GetAddressBalance(
	ctx context.Context, address string,
) (*explorer.Balance, error) {
	args := m.Called(address)

	var res *explorer.Balance
	if a := args.Get(0); a != nil {
		res = a.(*explorer.Balance)
	}
	return res, args.Error(1)
}

func (m *mockService) GetTransaction(
	ctx context.Context, txid string,
) (*explorer.Transaction, error) {
	args := m.Called(txid)

	var res *explorer.Transaction
	if a := args.Get(0); a != nil {
		res = a.(*explorer.Transaction)
	}
	return res, args.Error(1)
}

func (m *mockService) BroadcastTransaction(
	ctx context.Context, txhex string,
) (string, error) {
	args := m.Called(txhex)
	return args.String(0), args.Error(1)
}

func (m *mockService) GetBlock(
	ctx context.Context, hashOrHeight string,
) (*explorer.Block, error) {
	args := m.Called(hashOrHeight)

	var res *explorer.Block
	if a := args.Get(0); a != nil {
		res = a.(*explorer.Block)
	}
	return res, args.Error(1)
}

func (m *mockService) GetStatus(ctx context.Context) (*explorer.Status, error) {
	args := m.Called()

	var res *explorer.Status
	if a := args.Get(0); a != nil {
		res = a.(*explorer.Status)
	}
	return res, args.Error(1)
}
