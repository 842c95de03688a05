package fee

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/sony/gobreaker"
	"github.com/tdex-network/bitcoin-payments/pkg/circuitbreaker"
	"github.com/tdex-network/bitcoin-payments/pkg/util"
	"github.com/tdex-network/bitcoin-payments/pkg/wallet"
)

// DefaultBlockcypherURL ...
const DefaultBlockcypherURL = "https://api.blockcypher.com/v1"

// RateService returns recommended fee rates in sat/byte.
type RateService interface {
	GetFeeRate(ctx context.Context, level Level) (int64, error)
}

type blockcypher struct {
	apiURL string
	chain  string
	cb     *gobreaker.CircuitBreaker
}

type chainResponse struct {
	HighFeePerKb   float64 `json:"high_fee_per_kb"`
	MediumFeePerKb float64 `json:"medium_fee_per_kb"`
	LowFeePerKb    float64 `json:"low_fee_per_kb"`
}

// NewBlockcypherService returns a RateService that reads the fee rates from
// the blockcypher chain endpoint of the given network. Requests go through a
// circuit breaker so that a failing service is not hammered.
func NewBlockcypherService(apiURL, network string) (RateService, error) {
	if apiURL == "" {
		apiURL = DefaultBlockcypherURL
	}
	net, err := wallet.NetworkParams(network)
	if err != nil {
		return nil, err
	}

	chain := "btc/main"
	if wallet.NetworkName(net) == wallet.NetworkTestnet {
		chain = "btc/test3"
	}

	return &blockcypher{
		apiURL: strings.TrimSuffix(apiURL, "/"),
		chain:  chain,
		cb:     circuitbreaker.NewCircuitBreaker("blockcypher"),
	}, nil
}

func (b *blockcypher) GetFeeRate(ctx context.Context, level Level) (int64, error) {
	if !level.IsAuto() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidFeeLevel, level)
	}

	iResp, err := b.cb.Execute(func() (interface{}, error) {
		return b.getChain(ctx)
	})
	if err != nil {
		return 0, err
	}
	resp := iResp.(*chainResponse)

	var feePerKb float64
	switch level {
	case LevelHigh:
		feePerKb = resp.HighFeePerKb
	case LevelLow:
		feePerKb = resp.LowFeePerKb
	default:
		feePerKb = resp.MediumFeePerKb
	}
	if feePerKb <= 0 {
		return 0, fmt.Errorf("blockcypher: invalid %s fee rate %v", level, feePerKb)
	}

	return int64(math.Ceil(feePerKb / 1000)), nil
}

func (b *blockcypher) getChain(ctx context.Context) (*chainResponse, error) {
	url := fmt.Sprintf("%s/%s", b.apiURL, b.chain)
	status, resp, err := util.NewHTTPRequest(ctx, http.MethodGet, url, "", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("blockcypher: %d %s", status, resp)
	}

	var chain chainResponse
	if err := json.Unmarshal([]byte(resp), &chain); err != nil {
		return nil, fmt.Errorf("blockcypher: failed to parse response: %w", err)
	}
	return &chain, nil
}
