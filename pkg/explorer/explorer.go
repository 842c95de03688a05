package explorer

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when the requested tx, block or address is
	// unknown to the data source.
	ErrNotFound = errors.New("not found")
	// ErrDisconnected is returned when the data source is temporarily
	// unreachable.
	ErrDisconnected = errors.New("explorer disconnected")
	// ErrNullService ...
	ErrNullService = errors.New("explorer service must not be null")
	// ErrNullURL ...
	ErrNullURL = errors.New("explorer url must not be null")
	// ErrInvalidTxID is returned when a txid is not a 64 chars hex string
	ErrInvalidTxID = errors.New("txid must be a 64 chars hex string")
)

// Utxo is an unspent output of an address. Value is in base units.
type Utxo struct {
	TxID          string
	Vout          uint32
	Value         int64
	Confirmations int64
	// Height is zero for unconfirmed outputs
	Height  int64
	Address string
}

// Balance of an address in base units.
type Balance struct {
	Address     string
	Confirmed   int64
	Unconfirmed int64
	TxCount     int64
}

// TxInput is an input of an indexed transaction.
type TxInput struct {
	N         int64
	TxID      string
	Vout      uint32
	Value     int64
	Addresses []string
}

// TxOutput is an output of an indexed transaction.
type TxOutput struct {
	N         int64
	Value     int64
	Addresses []string
	Script    string
}

// Transaction is a transaction as returned by the indexer. BlockHeight is
// zero (and BlockHash empty) while the transaction is in mempool.
type Transaction struct {
	TxID          string
	BlockHash     string
	BlockHeight   int64
	BlockTime     int64
	Confirmations int64
	Value         int64
	ValueIn       int64
	Fees          int64
	Hex           string
	Vin           []TxInput
	Vout          []TxOutput
}

// Block ...
type Block struct {
	Hash              string
	PreviousBlockHash string
	NextBlockHash     string
	Height            int64
	Confirmations     int64
	Time              int64
	TxCount           int64
	TxIDs             []string
}

// Status is the sync status of the indexer and its backend node.
type Status struct {
	Chain         string
	InSync        bool
	BestHeight    int64
	BestBlockHash string
}

// Service is the representation of a blockchain indexer that allows to fetch
// balances, unspents, transactions and blocks, and to broadcast transactions.
type Service interface {
	// GetUtxos returns the unspents locked by the given address.
	GetUtxos(ctx context.Context, address string) ([]Utxo, error)
	// GetAddressBalance returns the confirmed and unconfirmed balance of the
	// given address.
	GetAddressBalance(ctx context.Context, address string) (*Balance, error)
	// GetTransaction returns the tx identified by its hash or ErrNotFound.
	GetTransaction(ctx context.Context, txid string) (*Transaction, error)
	// BroadcastTransaction attempts to add the given tx in hex format to the
	// mempool and returns its tx hash.
	BroadcastTransaction(ctx context.Context, txhex string) (string, error)
	// GetBlock returns the block identified by its hash or height.
	GetBlock(ctx context.Context, hashOrHeight string) (*Block, error)
	// GetStatus returns the status of the indexer.
	GetStatus(ctx context.Context) (*Status, error)
}
