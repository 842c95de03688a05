package wallet

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// TxInput is a previous output to spend, Value is in satoshis.
type TxInput struct {
	TxID  string
	Vout  uint32
	Value int64
}

// TxOutput is a payment destination, Value is in satoshis.
type TxOutput struct {
	Address string
	Value   int64
}

// SignTransactionOpts is the struct given to SignTransaction method. All
// inputs are expected to be locked by the address at Index.
type SignTransactionOpts struct {
	Index   uint32
	Inputs  []TxInput
	Outputs []TxOutput
}

func (o SignTransactionOpts) validate() error {
	if len(o.Inputs) <= 0 {
		return ErrEmptyInputs
	}
	if len(o.Outputs) <= 0 {
		return ErrEmptyOutputs
	}
	for i, in := range o.Inputs {
		if in.Value <= 0 {
			return fmt.Errorf("input %d: %w", i, ErrZeroInputAmount)
		}
		if _, err := chainhash.NewHashFromStr(in.TxID); err != nil || len(in.TxID) != 64 {
			return fmt.Errorf("input %d: %w", i, ErrInvalidTxID)
		}
	}
	for i, out := range o.Outputs {
		if out.Value <= 0 {
			return fmt.Errorf("output %d: %w", i, ErrZeroOutputAmount)
		}
	}
	return nil
}

// SignedTx is a fully signed transaction ready to be broadcasted.
type SignedTx struct {
	Hex  string
	TxID string
}

// SignTransaction builds the transaction described by opts and signs every
// input with the key at opts.Index.
func (d *SigningDeriver) SignTransaction(opts SignTransactionOpts) (*SignedTx, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	tx := wire.NewMsgTx(wire.TxVersion)
	for _, in := range opts.Inputs {
		hash, _ := chainhash.NewHashFromStr(in.TxID)
		tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(hash, in.Vout), nil, nil))
	}
	for i, out := range opts.Outputs {
		script, err := PayToAddrScript(out.Address, d.network)
		if err != nil {
			return nil, fmt.Errorf("output %d: %w: %s", i, ErrInvalidOutputAddress, err)
		}
		tx.AddTxOut(wire.NewTxOut(out.Value, script))
	}

	privateKey, publicKey, err := d.KeyPairAt(opts.Index)
	if err != nil {
		return nil, err
	}

	if d.addressType.IsSegwit() {
		err = signWitnessInputs(tx, opts.Inputs, privateKey, publicKey, d.addressType)
	} else {
		err = signLegacyInputs(tx, privateKey, publicKey)
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return nil, err
	}

	return &SignedTx{
		Hex:  hex.EncodeToString(buf.Bytes()),
		TxID: tx.TxHash().String(),
	}, nil
}

func signLegacyInputs(
	tx *wire.MsgTx, privateKey *btcec.PrivateKey, publicKey *btcec.PublicKey,
) error {
	prevOutScript, err := p2pkhScript(
		btcutil.Hash160(publicKey.SerializeCompressed()),
	)
	if err != nil {
		return err
	}

	for i := range tx.TxIn {
		sigScript, err := txscript.SignatureScript(
			tx, i, prevOutScript, txscript.SigHashAll, privateKey, true,
		)
		if err != nil {
			return fmt.Errorf("failed to sign input %d: %w", i, err)
		}
		tx.TxIn[i].SignatureScript = sigScript
	}
	return nil
}

func signWitnessInputs(
	tx *wire.MsgTx,
	inputs []TxInput,
	privateKey *btcec.PrivateKey,
	publicKey *btcec.PublicKey,
	addressType AddressType,
) error {
	witnessProgram, err := p2wpkhScript(
		btcutil.Hash160(publicKey.SerializeCompressed()),
	)
	if err != nil {
		return err
	}

	prevOutScript := witnessProgram
	var sigScript []byte
	if addressType == AddressTypeSegwitP2SH {
		if prevOutScript, err = p2shScript(witnessProgram); err != nil {
			return err
		}
		// the redeem script is the only push of the scriptsig
		if sigScript, err = txscript.NewScriptBuilder().
			AddData(witnessProgram).Script(); err != nil {
			return err
		}
	}

	prevOuts := make(map[wire.OutPoint]*wire.TxOut, len(inputs))
	for i, in := range inputs {
		prevOuts[tx.TxIn[i].PreviousOutPoint] = wire.NewTxOut(in.Value, prevOutScript)
	}
	prevOutFetcher := txscript.NewMultiPrevOutFetcher(prevOuts)
	sigHashes := txscript.NewTxSigHashes(tx, prevOutFetcher)

	for i, in := range inputs {
		witness, err := txscript.WitnessSignature(
			tx, sigHashes, i, in.Value, witnessProgram,
			txscript.SigHashAll, privateKey, true,
		)
		if err != nil {
			return fmt.Errorf("failed to sign input %d: %w", i, err)
		}
		tx.TxIn[i].Witness = witness
		tx.TxIn[i].SignatureScript = sigScript
	}
	return nil
}

func p2pkhScript(pubkeyHash []byte) ([]byte, error) {
	return txscript.NewScriptBuilder().
		AddOp(txscript.OP_DUP).
		AddOp(txscript.OP_HASH160).
		AddData(pubkeyHash).
		AddOp(txscript.OP_EQUALVERIFY).
		AddOp(txscript.OP_CHECKSIG).
		Script()
}

func p2shScript(redeemScript []byte) ([]byte, error) {
	return txscript.NewScriptBuilder().
		AddOp(txscript.OP_HASH160).
		AddData(btcutil.Hash160(redeemScript)).
		AddOp(txscript.OP_EQUAL).
		Script()
}
