package wallet

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// AddressType is the encoding scheme used to turn a public key into an
// address.
type AddressType int

const (
	// AddressTypeLegacy is a P2PKH address
	AddressTypeLegacy AddressType = iota
	// AddressTypeSegwitP2SH is a P2WPKH program nested into a P2SH address
	AddressTypeSegwitP2SH
	// AddressTypeSegwitNative is a bech32 P2WPKH address
	AddressTypeSegwitNative
)

var addressTypeNames = map[AddressType]string{
	AddressTypeLegacy:       "legacy",
	AddressTypeSegwitP2SH:   "segwit-p2sh",
	AddressTypeSegwitNative: "segwit-native",
}

func (t AddressType) String() string {
	if name, ok := addressTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("AddressType(%d)", int(t))
}

// IsSegwit returns whether inputs spending this kind of address carry a
// witness.
func (t AddressType) IsSegwit() bool {
	return t == AddressTypeSegwitP2SH || t == AddressTypeSegwitNative
}

// ParseAddressType parses the name of an address type.
func ParseAddressType(name string) (AddressType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "legacy", "p2pkh":
		return AddressTypeLegacy, nil
	case "segwit-p2sh", "p2sh-p2wpkh", "segwit-wrapped":
		return AddressTypeSegwitP2SH, nil
	case "segwit-native", "p2wpkh", "bech32":
		return AddressTypeSegwitNative, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrInvalidAddressType, name)
	}
}

// PublicKeyToAddress encodes the given public key according to the address
// type.
func PublicKeyToAddress(
	pubkey *btcec.PublicKey, addressType AddressType, net *chaincfg.Params,
) (string, error) {
	if net == nil {
		return "", ErrNullNetwork
	}
	pubkeyHash := btcutil.Hash160(pubkey.SerializeCompressed())

	switch addressType {
	case AddressTypeLegacy:
		addr, err := btcutil.NewAddressPubKeyHash(pubkeyHash, net)
		if err != nil {
			return "", err
		}
		return addr.EncodeAddress(), nil

	case AddressTypeSegwitNative:
		addr, err := btcutil.NewAddressWitnessPubKeyHash(pubkeyHash, net)
		if err != nil {
			return "", err
		}
		return addr.EncodeAddress(), nil

	case AddressTypeSegwitP2SH:
		redeemScript, err := p2wpkhScript(pubkeyHash)
		if err != nil {
			return "", err
		}
		addr, err := btcutil.NewAddressScriptHash(redeemScript, net)
		if err != nil {
			return "", err
		}
		return addr.EncodeAddress(), nil

	default:
		return "", ErrInvalidAddressType
	}
}

// IsValidAddress returns whether the address can be decoded and belongs to
// the given network.
func IsValidAddress(address string, net *chaincfg.Params) bool {
	_, err := decodeAddress(address, net)
	return err == nil
}

// PayToAddrScript returns the output script paying to the given address.
func PayToAddrScript(address string, net *chaincfg.Params) ([]byte, error) {
	addr, err := decodeAddress(address, net)
	if err != nil {
		return nil, err
	}
	return txscript.PayToAddrScript(addr)
}

func decodeAddress(address string, net *chaincfg.Params) (btcutil.Address, error) {
	if net == nil {
		return nil, ErrNullNetwork
	}
	addr, err := btcutil.DecodeAddress(address, net)
	if err != nil {
		return nil, err
	}
	if !addr.IsForNet(net) {
		return nil, fmt.Errorf("address %s is not for network %s", address, net.Name)
	}
	return addr, nil
}

func p2wpkhScript(pubkeyHash []byte) ([]byte, error) {
	return txscript.NewScriptBuilder().
		AddOp(txscript.OP_0).
		AddData(pubkeyHash).
		Script()
}
