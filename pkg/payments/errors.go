package payments

import (
	"errors"
	"fmt"

	"github.com/tdex-network/bitcoin-payments/pkg/fee"
)

var (
	// ErrInsufficientFunds ...
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrOutputBelowDust is returned when subtracting the fee from the first
	// output of a whole balance send leaves it at or below the dust threshold.
	ErrOutputBelowDust = errors.New("first output minus fee is below dust threshold")
	// ErrInvalidOutput ...
	ErrInvalidOutput = errors.New("invalid output")
	// ErrEmptyOutputs ...
	ErrEmptyOutputs = errors.New("at least one output is required")
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("amount must be a positive number")
	// ErrInvalidUtxo ...
	ErrInvalidUtxo = errors.New("utxo value must be a positive amount")
	// ErrInvalidChangeAddress ...
	ErrInvalidChangeAddress = errors.New("change address must be a valid address")
	// ErrNoUtxos ...
	ErrNoUtxos = errors.New("no utxos to sweep")
	// ErrBalanceNotSweepable is returned when the balance to sweep does not
	// exceed the sweep threshold.
	ErrBalanceNotSweepable = errors.New("balance too low to sweep")
	// ErrInvalidPayport ...
	ErrInvalidPayport = errors.New("payport must be an index, an address or a Payport")
	// ErrInvalidAddress ...
	ErrInvalidAddress = errors.New("invalid address")
	// ErrInvalidFeeOption ...
	ErrInvalidFeeOption = errors.New("fee option must have either a fee level or a custom fee rate")
	// ErrOfflineMode is returned by operations that require a data source when
	// the engine was built without one.
	ErrOfflineMode = errors.New("data source is not available in offline mode")
	// ErrUnknownFromAddress ...
	ErrUnknownFromAddress = errors.New("unable to determine from address of tx")
	// ErrUnknownToAddress ...
	ErrUnknownToAddress = errors.New("unable to determine to address of tx")
	// ErrNullTransaction ...
	ErrNullTransaction = errors.New("transaction must not be null")
	// ErrInvalidTransactionStatus ...
	ErrInvalidTransactionStatus = errors.New("transaction is not in the expected status")
	// ErrFromAddressMismatch is returned when the from address of a tx to sign
	// is not the one derived at its from index.
	ErrFromAddressMismatch = errors.New("from address does not match from index")
	// ErrInvalidDustThreshold ...
	ErrInvalidDustThreshold = errors.New("dust threshold must not be negative")
	// ErrInvalidMinRelayFee ...
	ErrInvalidMinRelayFee = errors.New("network min relay fee must not be negative")
	// ErrInvalidDecimals ...
	ErrInvalidDecimals = errors.New("decimals must be in range [0, 18]")
	// ErrInvalidSweepThreshold ...
	ErrInvalidSweepThreshold = errors.New("sweep threshold must be either relay-fee or estimated-fee")
)

// InsufficientFundsError reports the amounts involved in a failed coin
// selection. All values are in base units.
type InsufficientFundsError struct {
	InputTotal  int64
	OutputTotal int64
	Fee         int64
	FeeRate     fee.Rate
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf(
		"%s: you do not have enough utxos (%d sat) to send %d sat with %s fee (%d sat)",
		ErrInsufficientFunds, e.InputTotal, e.OutputTotal, e.FeeRate, e.Fee,
	)
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// InvalidOutputError identifies the desired output that failed validation.
type InvalidOutputError struct {
	Index  int
	Reason error
}

func (e *InvalidOutputError) Error() string {
	return fmt.Sprintf("%s %d: %s", ErrInvalidOutput, e.Index, e.Reason)
}

func (e *InvalidOutputError) Is(target error) bool {
	return target == ErrInvalidOutput
}

func (e *InvalidOutputError) Unwrap() error {
	return e.Reason
}
