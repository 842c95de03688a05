package payments

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/bitcoin-payments/pkg/explorer"
	"github.com/tdex-network/bitcoin-payments/pkg/fee"
	"github.com/tdex-network/bitcoin-payments/pkg/mathutil"
	"github.com/tdex-network/bitcoin-payments/pkg/wallet"
	"golang.org/x/sync/errgroup"
)

// KeyDeriver derives the addresses of an account.
type KeyDeriver interface {
	AddressAt(index uint32) (string, error)
	XPub() string
	DerivationPath() wallet.DerivationPath
	AddressType() wallet.AddressType
	Network() *chaincfg.Params
}

// Engine is a watch-only payments engine. It resolves payports, reads
// balances and utxos and builds unsigned transactions, but cannot sign them.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	cfg         Config
	network     *chaincfg.Params
	converter   mathutil.Converter
	deriver     KeyDeriver
	explorerSvc explorer.Service
	estimator   *fee.Estimator
	builder     *Builder
}

// NewEngine returns a watch-only Engine for the extended key of the given
// config, that may be either an xpub or an xprv. A nil explorerSvc puts the
// engine in offline mode, a nil rateSvc makes it use hardcoded fee rates.
func NewEngine(
	cfg Config, explorerSvc explorer.Service, rateSvc fee.RateService,
) (*Engine, error) {
	net, err := cfg.validate()
	if err != nil {
		return nil, err
	}
	deriver, err := wallet.NewWatchOnlyDeriver(wallet.KeyDeriverOpts{
		ExtendedKey:    cfg.ExtendedKey,
		DerivationPath: cfg.DerivationPath,
		AddressType:    cfg.AddressType,
		Network:        net,
	})
	if err != nil {
		return nil, err
	}
	return newEngine(cfg, net, deriver, explorerSvc, rateSvc), nil
}

func newEngine(
	cfg Config,
	net *chaincfg.Params,
	deriver KeyDeriver,
	explorerSvc explorer.Service,
	rateSvc fee.RateService,
) *Engine {
	cfg = cfg.copy()
	return &Engine{
		cfg:         cfg,
		network:     net,
		converter:   mathutil.NewConverter(cfg.Decimals),
		deriver:     deriver,
		explorerSvc: explorerSvc,
		estimator:   fee.NewEstimator(rateSvc, wallet.NetworkName(net)),
		builder:     newBuilder(cfg, net),
	}
}

// PublicConfig returns the shareable configuration of the engine.
func (e *Engine) PublicConfig() PublicConfig {
	return PublicConfig{
		Network:        wallet.NetworkName(e.network),
		AddressType:    e.deriver.AddressType().String(),
		DerivationPath: e.deriver.DerivationPath().String(),
		XPub:           e.deriver.XPub(),
	}
}

// IsOffline returns whether the engine has no data source.
func (e *Engine) IsOffline() bool {
	return e.explorerSvc == nil
}

// IsValidAddress ...
func (e *Engine) IsValidAddress(address string) bool {
	return wallet.IsValidAddress(address, e.network)
}

// ValidatePayport ...
func (e *Engine) ValidatePayport(payport Payport) error {
	if !e.IsValidAddress(payport.Address) {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, payport.Address)
	}
	return nil
}

// GetPayport returns the payport of the account at the given index.
func (e *Engine) GetPayport(index uint32) (*Payport, error) {
	address, err := e.deriver.AddressAt(index)
	if err != nil {
		return nil, err
	}
	return &Payport{Address: address}, nil
}

// ResolvePayport turns ref into a Payport. ref can be an account index (int
// or uint32), an address or a Payport.
func (e *Engine) ResolvePayport(ref interface{}) (*Payport, error) {
	switch r := ref.(type) {
	case int:
		if r < 0 {
			return nil, fmt.Errorf("%w: negative index %d", ErrInvalidPayport, r)
		}
		return e.GetPayport(uint32(r))
	case uint32:
		return e.GetPayport(r)
	case string:
		payport := Payport{Address: r}
		if err := e.ValidatePayport(payport); err != nil {
			return nil, err
		}
		return &payport, nil
	case Payport:
		if err := e.ValidatePayport(r); err != nil {
			return nil, err
		}
		return &r, nil
	case *Payport:
		if r == nil {
			return nil, ErrInvalidPayport
		}
		if err := e.ValidatePayport(*r); err != nil {
			return nil, err
		}
		payport := *r
		return &payport, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrInvalidPayport, ref)
	}
}

// ResolveFromTo resolves the source account and the destination of a
// payment.
func (e *Engine) ResolveFromTo(from uint32, to interface{}) (*FromTo, error) {
	fromPayport, err := e.GetPayport(from)
	if err != nil {
		return nil, err
	}
	toPayport, err := e.ResolvePayport(to)
	if err != nil {
		return nil, err
	}

	var toIndex *uint32
	switch t := to.(type) {
	case int:
		i := uint32(t)
		toIndex = &i
	case uint32:
		toIndex = &t
	}

	return &FromTo{
		FromIndex:   from,
		FromAddress: fromPayport.Address,
		FromPayport: *fromPayport,
		ToIndex:     toIndex,
		ToAddress:   toPayport.Address,
		ToPayport:   *toPayport,
	}, nil
}

// ResolveFeeOption turns the given option into a concrete fee rate. A custom
// rate is used as is, otherwise the rate of the option's level (or the
// default one) is looked up, falling back to hardcoded rates on failure.
func (e *Engine) ResolveFeeOption(
	ctx context.Context, option FeeOption,
) (*ResolvedFeeOption, error) {
	var level fee.Level
	var rate fee.Rate

	if option.FeeRate != "" {
		level = fee.LevelCustom
		rate = fee.Rate{Rate: option.FeeRate, Type: option.FeeRateType}
		if err := rate.Validate(); err != nil {
			return nil, err
		}
	} else {
		level = option.FeeLevel
		if level == "" {
			level = e.cfg.DefaultFeeLevel
		}
		if !level.IsAuto() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidFeeOption, level)
		}
		rate = e.estimator.ResolveRate(ctx, level)
	}

	feeBase, feeMain, err := e.builder.feePolicy.FlatFees(rate)
	if err != nil {
		return nil, err
	}

	return &ResolvedFeeOption{
		TargetFeeLevel:    level,
		TargetFeeRate:     rate.Rate,
		TargetFeeRateType: rate.Type,
		FeeBase:           feeBase,
		FeeMain:           feeMain,
	}, nil
}

// IsSweepableBalance returns whether the given main denomination balance
// exceeds the network min relay fee. It does not take into account
// SweepThresholdEstimatedFee, see GetBalance for that.
func (e *Engine) IsSweepableBalance(balance string) bool {
	satoshis, err := e.converter.ToBase(balance)
	if err != nil {
		return false
	}
	return satoshis > e.cfg.NetworkMinRelayFee
}

// GetBalance returns the balance of the given payport reference.
func (e *Engine) GetBalance(
	ctx context.Context, ref interface{},
) (*BalanceResult, error) {
	if e.IsOffline() {
		return nil, ErrOfflineMode
	}
	payport, err := e.ResolvePayport(ref)
	if err != nil {
		return nil, err
	}

	balance, err := e.explorerSvc.GetAddressBalance(ctx, payport.Address)
	if err != nil {
		return nil, err
	}

	confirmed := e.converter.ToMain(balance.Confirmed)
	unconfirmed := e.converter.ToMain(balance.Unconfirmed)
	log.Debugf(
		"balance of %s: confirmed %s, unconfirmed %s",
		payport.Address, confirmed, unconfirmed,
	)

	sweepable := e.IsSweepableBalance(confirmed)
	if e.cfg.SweepThreshold == SweepThresholdEstimatedFee {
		if sweepable, err = e.isSweepableAddress(ctx, payport.Address); err != nil {
			return nil, err
		}
	}

	return &BalanceResult{
		ConfirmedBalance:   confirmed,
		UnconfirmedBalance: unconfirmed,
		Sweepable:          sweepable,
	}, nil
}

// isSweepableAddress returns whether CreateSweepTransaction with the default
// fee option would accept the utxos of the given address.
func (e *Engine) isSweepableAddress(
	ctx context.Context, address string,
) (bool, error) {
	utxos, err := e.GetAvailableUtxos(ctx, address)
	if err != nil {
		return false, err
	}
	if len(utxos) <= 0 {
		return false, nil
	}

	var balance int64
	for _, u := range utxos {
		balance += u.Satoshis
	}
	threshold, err := e.sweepThreshold(ctx, len(utxos), FeeOption{})
	if err != nil {
		return false, err
	}
	return balance > threshold, nil
}

// GetBalances returns the balances of the given payport references, in the
// same order. Balances are fetched concurrently and the first error aborts
// the whole call.
func (e *Engine) GetBalances(
	ctx context.Context, refs ...interface{},
) ([]BalanceResult, error) {
	balances := make([]BalanceResult, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			balance, err := e.GetBalance(gctx, ref)
			if err != nil {
				return err
			}
			balances[i] = *balance
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return balances, nil
}

// GetAvailableUtxos returns the utxos of the given payport reference.
func (e *Engine) GetAvailableUtxos(
	ctx context.Context, ref interface{},
) ([]Utxo, error) {
	if e.IsOffline() {
		return nil, ErrOfflineMode
	}
	payport, err := e.ResolvePayport(ref)
	if err != nil {
		return nil, err
	}

	unspents, err := e.explorerSvc.GetUtxos(ctx, payport.Address)
	if err != nil {
		return nil, err
	}

	utxos := make([]Utxo, 0, len(unspents))
	for _, u := range unspents {
		address := u.Address
		if address == "" {
			address = payport.Address
		}
		utxos = append(utxos, Utxo{
			TxID:          u.TxID,
			Vout:          u.Vout,
			Value:         e.converter.ToMain(u.Value),
			Satoshis:      u.Value,
			Confirmations: u.Confirmations,
			Height:        u.Height,
			Address:       address,
		})
	}
	return utxos, nil
}

// GetBlock returns the block with the given hash or height, or the chain tip
// if id is empty.
func (e *Engine) GetBlock(ctx context.Context, id string) (*explorer.Block, error) {
	if e.IsOffline() {
		return nil, ErrOfflineMode
	}
	if id == "" {
		status, err := e.explorerSvc.GetStatus(ctx)
		if err != nil {
			return nil, err
		}
		id = status.BestBlockHash
	}
	return e.explorerSvc.GetBlock(ctx, id)
}

func feeRateOf(option *ResolvedFeeOption) fee.Rate {
	return fee.Rate{
		Rate: option.TargetFeeRate,
		Type: option.TargetFeeRateType,
	}
}
