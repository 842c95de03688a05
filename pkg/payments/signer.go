package payments

import (
	"fmt"

	"github.com/tdex-network/bitcoin-payments/pkg/explorer"
	"github.com/tdex-network/bitcoin-payments/pkg/fee"
	"github.com/tdex-network/bitcoin-payments/pkg/wallet"
)

// Signer is a KeyDeriver that also holds the private keys of the account.
type Signer interface {
	KeyDeriver
	SignTransaction(opts wallet.SignTransactionOpts) (*wallet.SignedTx, error)
	PrivateKeyAt(index uint32) (string, error)
}

// SigningEngine is an Engine that can also sign transactions.
type SigningEngine struct {
	*Engine
	signer Signer
}

// NewSigningEngine returns a SigningEngine for the extended key of the given
// config, that must be an xprv.
func NewSigningEngine(
	cfg Config, explorerSvc explorer.Service, rateSvc fee.RateService,
) (*SigningEngine, error) {
	net, err := cfg.validate()
	if err != nil {
		return nil, err
	}
	signer, err := wallet.NewSigningDeriver(wallet.KeyDeriverOpts{
		ExtendedKey:    cfg.ExtendedKey,
		DerivationPath: cfg.DerivationPath,
		AddressType:    cfg.AddressType,
		Network:        net,
	})
	if err != nil {
		return nil, err
	}

	return &SigningEngine{
		Engine: newEngine(cfg, net, signer, explorerSvc, rateSvc),
		signer: signer,
	}, nil
}

// GetPrivateKey returns the private key of the account at index in WIF.
func (e *SigningEngine) GetPrivateKey(index uint32) (string, error) {
	return e.signer.PrivateKeyAt(index)
}

// SignTransaction signs all the inputs of the given unsigned transaction with
// the key of its from account.
func (e *SigningEngine) SignTransaction(
	tx *UnsignedTransaction,
) (*SignedTransaction, error) {
	if tx == nil {
		return nil, ErrNullTransaction
	}
	if tx.Status != StatusUnsigned {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransactionStatus, tx.Status)
	}

	fromAddress, err := e.signer.AddressAt(tx.FromIndex)
	if err != nil {
		return nil, err
	}
	if fromAddress != tx.FromAddress {
		return nil, fmt.Errorf(
			"%w: expected %s, got %s", ErrFromAddressMismatch, fromAddress, tx.FromAddress,
		)
	}

	inputs := make([]wallet.TxInput, 0, len(tx.Data.Inputs))
	for i, in := range tx.Data.Inputs {
		value, err := e.converter.ToBase(in.Value)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		inputs = append(inputs, wallet.TxInput{
			TxID:  in.TxID,
			Vout:  in.Vout,
			Value: value,
		})
	}

	outputs := make([]wallet.TxOutput, 0, len(tx.Data.Outputs))
	for i, out := range tx.Data.Outputs {
		value, err := e.converter.ToBase(out.Value)
		if err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		outputs = append(outputs, wallet.TxOutput{
			Address: out.Address,
			Value:   value,
		})
	}

	signedTx, err := e.signer.SignTransaction(wallet.SignTransactionOpts{
		Index:   tx.FromIndex,
		Inputs:  inputs,
		Outputs: outputs,
	})
	if err != nil {
		return nil, err
	}

	base := tx.BaseTransaction
	base.Status = StatusSigned
	base.ID = signedTx.TxID

	return &SignedTransaction{
		BaseTransaction: base,
		Data:            SignedTxData{Hex: signedTx.Hex},
	}, nil
}
