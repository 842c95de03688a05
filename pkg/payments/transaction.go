package payments

import (
	"context"
	"fmt"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/bitcoin-payments/pkg/mathutil"
	"github.com/tdex-network/bitcoin-payments/pkg/stats"
)

const (
	kindPayment = "payment"
	kindSweep   = "sweep"
)

// CreateTransaction builds an unsigned transaction paying amount, in main
// denomination, from the account at index from to the given payport
// reference. Change goes back to the address of the from account.
func (e *Engine) CreateTransaction(
	ctx context.Context,
	from uint32,
	to interface{},
	amount string,
	opts CreateTransactionOptions,
) (*UnsignedTransaction, error) {
	log.Debugf("create transaction from %d to %v of %s", from, to, amount)

	desiredAmount, err := mathutil.ParseDecimal(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, err)
	}
	if !desiredAmount.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}

	fromTo, err := e.ResolveFromTo(from, to)
	if err != nil {
		return nil, err
	}

	availableUtxos := opts.AvailableUtxos
	if availableUtxos == nil {
		if availableUtxos, err = e.GetAvailableUtxos(ctx, from); err != nil {
			return nil, err
		}
	}

	feeOption, err := e.ResolveFeeOption(ctx, opts.FeeOption)
	if err != nil {
		return nil, err
	}
	log.Debugf(
		"create transaction resolved fee option %s %s %s",
		feeOption.TargetFeeLevel, feeOption.TargetFeeRate,
		feeOption.TargetFeeRateType,
	)

	paymentTx, err := e.builder.BuildPaymentTx(
		availableUtxos,
		[]TxOutput{{Address: fromTo.ToAddress, Value: desiredAmount.String()}},
		fromTo.FromAddress,
		feeRateOf(feeOption),
		opts.UseAllUtxos,
	)
	if err != nil {
		return nil, err
	}

	kind := kindPayment
	if opts.UseAllUtxos {
		kind = kindSweep
	}
	stats.TransactionsCreated.WithLabelValues(kind).Inc()

	return &UnsignedTransaction{
		BaseTransaction: BaseTransaction{
			Status:            StatusUnsigned,
			FromIndex:         fromTo.FromIndex,
			FromAddress:       fromTo.FromAddress,
			ToIndex:           fromTo.ToIndex,
			ToAddress:         fromTo.ToAddress,
			Amount:            paymentTx.Outputs[0].Value,
			Fee:               paymentTx.Fee,
			TargetFeeLevel:    feeOption.TargetFeeLevel,
			TargetFeeRate:     feeOption.TargetFeeRate,
			TargetFeeRateType: feeOption.TargetFeeRateType,
		},
		Data: *paymentTx,
	}, nil
}

// CreateSweepTransaction builds an unsigned transaction that spends all the
// utxos of the account at index from to the given payport reference, minus
// the fee.
func (e *Engine) CreateSweepTransaction(
	ctx context.Context,
	from uint32,
	to interface{},
	opts CreateTransactionOptions,
) (*UnsignedTransaction, error) {
	log.Debugf("create sweep transaction from %d to %v", from, to)

	availableUtxos := opts.AvailableUtxos
	if availableUtxos == nil {
		var err error
		if availableUtxos, err = e.GetAvailableUtxos(ctx, from); err != nil {
			return nil, err
		}
	}
	if len(availableUtxos) <= 0 {
		return nil, ErrNoUtxos
	}

	utxos, err := e.builder.normalizeUtxos(availableUtxos)
	if err != nil {
		return nil, err
	}
	var balance int64
	for _, u := range utxos {
		balance += u.Satoshis
	}

	threshold, err := e.sweepThreshold(ctx, len(utxos), opts.FeeOption)
	if err != nil {
		return nil, err
	}
	if balance <= threshold {
		return nil, fmt.Errorf(
			"%w: balance %s is not above %s",
			ErrBalanceNotSweepable,
			e.converter.ToMain(balance), e.converter.ToMain(threshold),
		)
	}

	opts.AvailableUtxos = utxos
	opts.UseAllUtxos = true
	return e.CreateTransaction(ctx, from, to, e.converter.ToMain(balance), opts)
}

func (e *Engine) sweepThreshold(
	ctx context.Context, inputsCount int, option FeeOption,
) (int64, error) {
	if e.cfg.SweepThreshold != SweepThresholdEstimatedFee {
		return e.cfg.NetworkMinRelayFee, nil
	}

	feeOption, err := e.ResolveFeeOption(ctx, option)
	if err != nil {
		return 0, err
	}
	// one output plus change, as the builder does
	return e.builder.feePolicy.RequiredFee(feeRateOf(feeOption), inputsCount, 2)
}

// BroadcastTransaction submits the given signed transaction. If the network
// reports a txid different from the one of tx, the former is returned.
func (e *Engine) BroadcastTransaction(
	ctx context.Context, tx *SignedTransaction,
) (*BroadcastResult, error) {
	if e.IsOffline() {
		return nil, ErrOfflineMode
	}
	if tx == nil {
		return nil, ErrNullTransaction
	}
	if tx.Status != StatusSigned || tx.Data.Hex == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransactionStatus, tx.Status)
	}

	txid, err := e.explorerSvc.BroadcastTransaction(ctx, tx.Data.Hex)
	if err != nil {
		return nil, err
	}
	if txid != tx.ID {
		stats.BroadcastTxIDMismatches.Inc()
		log.Warnf(
			"broadcasted txid %s doesn't match original txid %s", txid, tx.ID,
		)
	}

	return &BroadcastResult{ID: txid}, nil
}

// GetTransactionInfo returns the status of the transaction with the given id.
func (e *Engine) GetTransactionInfo(
	ctx context.Context, txid string,
) (*TransactionInfo, error) {
	if e.IsOffline() {
		return nil, ErrOfflineMode
	}

	tx, err := e.explorerSvc.GetTransaction(ctx, txid)
	if err != nil {
		return nil, err
	}

	isConfirmed := tx.BlockHeight > 0
	status := StatusPending
	var confirmationNumber string
	if isConfirmed {
		status = StatusConfirmed
		confirmationNumber = strconv.FormatInt(tx.BlockHeight, 10)
	}

	var confirmationTimestamp *time.Time
	if tx.BlockTime > 0 {
		t := time.Unix(tx.BlockTime, 0).UTC()
		confirmationTimestamp = &t
	}

	amount := tx.Value
	if len(tx.Vout) > 0 {
		amount = tx.Vout[0].Value
	}

	if len(tx.Vin) <= 0 || len(tx.Vin[0].Addresses) <= 0 {
		return nil, fmt.Errorf("%w %s", ErrUnknownFromAddress, txid)
	}
	if len(tx.Vout) <= 0 || len(tx.Vout[0].Addresses) <= 0 {
		return nil, fmt.Errorf("%w %s", ErrUnknownToAddress, txid)
	}

	return &TransactionInfo{
		Status:                status,
		ID:                    tx.TxID,
		FromAddress:           tx.Vin[0].Addresses[0],
		ToAddress:             tx.Vout[0].Addresses[0],
		Amount:                e.converter.ToMain(amount),
		Fee:                   e.converter.ToMain(tx.Fees),
		Confirmations:         tx.Confirmations,
		ConfirmationID:        tx.BlockHash,
		ConfirmationNumber:    confirmationNumber,
		ConfirmationTimestamp: confirmationTimestamp,
		IsConfirmed:           isConfirmed,
		Data:                  tx,
	}, nil
}
