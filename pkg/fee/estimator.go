package fee

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/bitcoin-payments/pkg/stats"
)

// Estimator resolves fee levels into concrete fee rates.
type Estimator struct {
	svc     RateService
	network string
}

// NewEstimator returns an Estimator backed by the given rate service. A nil
// service makes every lookup resolve to the hardcoded level defaults.
func NewEstimator(svc RateService, network string) *Estimator {
	return &Estimator{svc, network}
}

// ResolveRate returns the recommended sat/byte rate for the given automatic
// level. It never fails: if the rate service is missing or returns an error
// the hardcoded default of the level is returned.
func (e *Estimator) ResolveRate(ctx context.Context, level Level) Rate {
	if !level.IsAuto() {
		level = DefaultLevel
	}
	if e.svc == nil {
		return NewSatPerByteRate(DefaultSatPerByte(level))
	}

	satPerByte, err := e.svc.GetFeeRate(ctx, level)
	if err != nil {
		satPerByte = DefaultSatPerByte(level)
		stats.FeeRateFallbacks.WithLabelValues(string(level)).Inc()
		log.WithError(err).Warnf(
			"failed to get bitcoin %s fee estimate, using hardcoded default of "+
				"%d sat/byte for level %s",
			e.network, satPerByte, level,
		)
	}

	return NewSatPerByteRate(satPerByte)
}
