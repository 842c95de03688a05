package payments

import (
	"time"

	"github.com/tdex-network/bitcoin-payments/pkg/explorer"
	"github.com/tdex-network/bitcoin-payments/pkg/fee"
)

// TransactionStatus is the lifecycle state of a transaction:
// unsigned -> signed -> pending -> confirmed, or failed.
type TransactionStatus string

const (
	StatusUnsigned  TransactionStatus = "unsigned"
	StatusSigned    TransactionStatus = "signed"
	StatusPending   TransactionStatus = "pending"
	StatusConfirmed TransactionStatus = "confirmed"
	StatusFailed    TransactionStatus = "failed"
)

// Utxo is a spendable output. Value is in main denomination and is the
// authoritative amount, Satoshis is the same amount in base units.
type Utxo struct {
	TxID          string `json:"txid"`
	Vout          uint32 `json:"vout"`
	Value         string `json:"value"`
	Satoshis      int64  `json:"satoshis"`
	Confirmations int64  `json:"confirmations"`
	Height        int64  `json:"height,omitempty"`
	Address       string `json:"address,omitempty"`
}

// TxOutput is a payment destination. Value is in main denomination.
type TxOutput struct {
	Address  string `json:"address"`
	Value    string `json:"value"`
	Satoshis int64  `json:"satoshis,omitempty"`
}

// PaymentTx is the result of coin selection: the inputs to spend and the
// outputs to create, change included. The sum of the inputs always equals the
// sum of the outputs plus the fee.
type PaymentTx struct {
	Inputs        []Utxo     `json:"inputs"`
	Outputs       []TxOutput `json:"outputs"`
	Fee           string     `json:"fee"`
	Change        string     `json:"change"`
	ChangeAddress string     `json:"changeAddress,omitempty"`
}

// Payport is a resolved payment endpoint.
type Payport struct {
	Address string `json:"address"`
	ExtraID string `json:"extraId,omitempty"`
}

// FromTo holds the resolved endpoints of a payment. ToIndex is set only if
// the destination was given as an index.
type FromTo struct {
	FromIndex   uint32
	FromAddress string
	FromPayport Payport
	ToIndex     *uint32
	ToAddress   string
	ToPayport   Payport
}

// FeeOption selects the fee of a transaction: either a level resolved
// through the fee rate service or, if FeeRate is not empty, a custom rate.
type FeeOption struct {
	FeeLevel    fee.Level
	FeeRate     string
	FeeRateType fee.RateType
}

// ResolvedFeeOption is a FeeOption turned into a concrete rate. FeeBase and
// FeeMain are the total fee for flat rate types, empty otherwise.
type ResolvedFeeOption struct {
	TargetFeeLevel    fee.Level    `json:"targetFeeLevel"`
	TargetFeeRate     string       `json:"targetFeeRate"`
	TargetFeeRateType fee.RateType `json:"targetFeeRateType"`
	FeeBase           string       `json:"feeBase"`
	FeeMain           string       `json:"feeMain"`
}

// CreateTransactionOptions ...
type CreateTransactionOptions struct {
	FeeOption
	// AvailableUtxos, if not nil, are used in place of the utxos fetched from
	// the data source.
	AvailableUtxos []Utxo
	UseAllUtxos    bool
}

// BaseTransaction holds the fields shared by unsigned and signed
// transactions.
type BaseTransaction struct {
	Status            TransactionStatus `json:"status"`
	ID                string            `json:"id,omitempty"`
	FromIndex         uint32            `json:"fromIndex"`
	FromAddress       string            `json:"fromAddress"`
	ToIndex           *uint32           `json:"toIndex,omitempty"`
	ToAddress         string            `json:"toAddress"`
	Amount            string            `json:"amount"`
	Fee               string            `json:"fee"`
	TargetFeeLevel    fee.Level         `json:"targetFeeLevel"`
	TargetFeeRate     string            `json:"targetFeeRate"`
	TargetFeeRateType fee.RateType      `json:"targetFeeRateType"`
}

// UnsignedTransaction ...
type UnsignedTransaction struct {
	BaseTransaction
	Data PaymentTx `json:"data"`
}

// SignedTxData ...
type SignedTxData struct {
	Hex string `json:"hex"`
}

// SignedTransaction ...
type SignedTransaction struct {
	BaseTransaction
	Data SignedTxData `json:"data"`
}

// BroadcastResult ...
type BroadcastResult struct {
	ID string `json:"id"`
}

// TransactionInfo is the status of a transaction as seen by the data source.
type TransactionInfo struct {
	Status                TransactionStatus     `json:"status"`
	ID                    string                `json:"id"`
	FromAddress           string                `json:"fromAddress"`
	ToAddress             string                `json:"toAddress"`
	Amount                string                `json:"amount"`
	Fee                   string                `json:"fee"`
	Confirmations         int64                 `json:"confirmations"`
	ConfirmationID        string                `json:"confirmationId,omitempty"`
	ConfirmationNumber    string                `json:"confirmationNumber,omitempty"`
	ConfirmationTimestamp *time.Time            `json:"confirmationTimestamp,omitempty"`
	IsConfirmed           bool                  `json:"isConfirmed"`
	Data                  *explorer.Transaction `json:"data"`
}

// BalanceResult ...
type BalanceResult struct {
	ConfirmedBalance   string `json:"confirmedBalance"`
	UnconfirmedBalance string `json:"unconfirmedBalance"`
	Sweepable          bool   `json:"sweepable"`
}

// PublicConfig is the part of the configuration that can be shared, it never
// contains private key material.
type PublicConfig struct {
	Network        string `json:"network"`
	AddressType    string `json:"addressType"`
	DerivationPath string `json:"derivationPath"`
	XPub           string `json:"xpub"`
}
