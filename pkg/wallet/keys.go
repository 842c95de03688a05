package wallet

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

// KeyDeriverOpts is the struct given to NewWatchOnlyDeriver and
// NewSigningDeriver
type KeyDeriverOpts struct {
	// ExtendedKey is the base58 xprv or xpub. It may sit at any depth of
	// DerivationPath, only the missing levels get derived.
	ExtendedKey    string
	DerivationPath string
	AddressType    AddressType
	Network        *chaincfg.Params
}

func (o KeyDeriverOpts) validate() error {
	if len(strings.TrimSpace(o.ExtendedKey)) <= 0 {
		return ErrNullExtendedKey
	}
	if o.Network == nil {
		return ErrNullNetwork
	}
	if _, ok := addressTypeNames[o.AddressType]; !ok {
		return ErrInvalidAddressType
	}
	if len(o.DerivationPath) > 0 {
		if _, err := ParseDerivationPath(o.DerivationPath); err != nil {
			return err
		}
	}
	return nil
}

func (o KeyDeriverOpts) derivationPath() DerivationPath {
	if len(o.DerivationPath) <= 0 {
		return DefaultDerivationPath
	}
	path, _ := ParseDerivationPath(o.DerivationPath)
	return path
}

// WatchOnlyDeriver derives addresses from the public extended key of an
// account. It never holds private material.
type WatchOnlyDeriver struct {
	accountKey     *hdkeychain.ExtendedKey
	derivationPath DerivationPath
	addressType    AddressType
	network        *chaincfg.Params
}

// SigningDeriver is a WatchOnlyDeriver that additionally holds the private
// extended key of the account and can therefore export keypairs.
type SigningDeriver struct {
	*WatchOnlyDeriver
	accountPrivKey *hdkeychain.ExtendedKey
}

// NewWatchOnlyDeriver accepts both an xprv and an xpub, in the former case
// the private key is dropped right after deriving the account level.
func NewWatchOnlyDeriver(opts KeyDeriverOpts) (*WatchOnlyDeriver, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	accountKey, err := deriveAccountKey(opts)
	if err != nil {
		return nil, err
	}
	if accountKey.IsPrivate() {
		if accountKey, err = accountKey.Neuter(); err != nil {
			return nil, err
		}
	}

	return &WatchOnlyDeriver{
		accountKey:     accountKey,
		derivationPath: opts.derivationPath(),
		addressType:    opts.AddressType,
		network:        opts.Network,
	}, nil
}

// NewSigningDeriver requires opts.ExtendedKey to be an xprv.
func NewSigningDeriver(opts KeyDeriverOpts) (*SigningDeriver, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	accountPrivKey, err := deriveAccountKey(opts)
	if err != nil {
		return nil, err
	}
	if !accountPrivKey.IsPrivate() {
		return nil, ErrPrivateKeyRequired
	}
	accountKey, err := accountPrivKey.Neuter()
	if err != nil {
		return nil, err
	}

	return &SigningDeriver{
		WatchOnlyDeriver: &WatchOnlyDeriver{
			accountKey:     accountKey,
			derivationPath: opts.derivationPath(),
			addressType:    opts.AddressType,
			network:        opts.Network,
		},
		accountPrivKey: accountPrivKey,
	}, nil
}

// XPub returns the account level extended public key.
func (d *WatchOnlyDeriver) XPub() string {
	return d.accountKey.String()
}

// DerivationPath returns the account derivation path.
func (d *WatchOnlyDeriver) DerivationPath() DerivationPath {
	return d.derivationPath
}

// AddressType ...
func (d *WatchOnlyDeriver) AddressType() AddressType {
	return d.addressType
}

// Network ...
func (d *WatchOnlyDeriver) Network() *chaincfg.Params {
	return d.network
}

// PublicKeyAt returns the public key of the external chain at the given
// index (ie. <account>/0/<index>).
func (d *WatchOnlyDeriver) PublicKeyAt(index uint32) (*btcec.PublicKey, error) {
	node, err := deriveIndex(d.accountKey, index)
	if err != nil {
		return nil, err
	}
	return node.ECPubKey()
}

// AddressAt returns the address at the given index.
func (d *WatchOnlyDeriver) AddressAt(index uint32) (string, error) {
	pubkey, err := d.PublicKeyAt(index)
	if err != nil {
		return "", err
	}
	address, err := PublicKeyToAddress(pubkey, d.addressType, d.network)
	if err != nil {
		return "", err
	}
	if !IsValidAddress(address, d.network) {
		return "", fmt.Errorf("derived address %s for index %d is invalid", address, index)
	}
	return address, nil
}

// XPrv returns the account level extended private key.
func (d *SigningDeriver) XPrv() string {
	return d.accountPrivKey.String()
}

// KeyPairAt derives the key pair of the given index
func (d *SigningDeriver) KeyPairAt(index uint32) (
	*btcec.PrivateKey,
	*btcec.PublicKey,
	error,
) {
	node, err := deriveIndex(d.accountPrivKey, index)
	if err != nil {
		return nil, nil, err
	}
	privateKey, err := node.ECPrivKey()
	if err != nil {
		return nil, nil, err
	}
	return privateKey, privateKey.PubKey(), nil
}

// PrivateKeyAt returns the private key of the given index in WIF format.
func (d *SigningDeriver) PrivateKeyAt(index uint32) (string, error) {
	privateKey, _, err := d.KeyPairAt(index)
	if err != nil {
		return "", err
	}
	wif, err := btcutil.NewWIF(privateKey, d.network, true)
	if err != nil {
		return "", err
	}
	return wif.String(), nil
}

// IsPrivateExtendedKey returns whether the given key is a valid xprv (true)
// or xpub (false).
func IsPrivateExtendedKey(key string) (bool, error) {
	hdNode, err := hdkeychain.NewKeyFromString(strings.TrimSpace(key))
	if err != nil {
		return false, fmt.Errorf("%w: %s", ErrInvalidExtendedKey, err)
	}
	return hdNode.IsPrivate(), nil
}

// XPrvToXPub converts an extended private key to its public counterpart
// at the same depth.
func XPrvToXPub(xprv string) (string, error) {
	hdNode, err := hdkeychain.NewKeyFromString(strings.TrimSpace(xprv))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidExtendedKey, err)
	}
	if !hdNode.IsPrivate() {
		return "", ErrPrivateKeyRequired
	}
	xpub, err := hdNode.Neuter()
	if err != nil {
		return "", err
	}
	return xpub.String(), nil
}

// GenerateNewKeys derives the account xprv/xpub at the given path from a hex
// encoded seed.
func GenerateNewKeys(
	seedHex string, path DerivationPath, net *chaincfg.Params,
) (xprv, xpub string, err error) {
	if net == nil {
		return "", "", ErrNullNetwork
	}
	if len(path) <= 0 {
		path = DefaultDerivationPath
	}
	seed, err := hex.DecodeString(seedHex)
	if err != nil ||
		len(seed) < hdkeychain.MinSeedBytes || len(seed) > hdkeychain.MaxSeedBytes {
		return "", "", ErrInvalidSeed
	}

	hdNode, err := hdkeychain.NewMaster(seed, net)
	if err != nil {
		return "", "", err
	}
	for _, step := range path {
		hdNode, err = hdNode.Derive(step)
		if err != nil {
			return "", "", err
		}
	}
	pubNode, err := hdNode.Neuter()
	if err != nil {
		return "", "", err
	}
	return hdNode.String(), pubNode.String(), nil
}

func deriveAccountKey(opts KeyDeriverOpts) (*hdkeychain.ExtendedKey, error) {
	hdNode, err := hdkeychain.NewKeyFromString(strings.TrimSpace(opts.ExtendedKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidExtendedKey, err)
	}
	if !hdNode.IsForNet(opts.Network) {
		return nil, fmt.Errorf(
			"%w %s", ErrExtendedKeyNetworkMismatch, opts.Network.Name,
		)
	}

	for _, step := range opts.derivationPath().remaining(hdNode.Depth()) {
		hdNode, err = hdNode.Derive(step)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidDerivationPath, err)
		}
	}
	return hdNode, nil
}

func deriveIndex(
	accountKey *hdkeychain.ExtendedKey, index uint32,
) (*hdkeychain.ExtendedKey, error) {
	if index >= hdkeychain.HardenedKeyStart {
		return nil, ErrInvalidIndex
	}
	branch, err := accountKey.Derive(0)
	if err != nil {
		return nil, err
	}
	return branch.Derive(index)
}
