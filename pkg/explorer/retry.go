package explorer

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/avast/retry-go"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/bitcoin-payments/pkg/stats"
)

const (
	// DefaultRetryAttempts is the max number of times a call is attempted
	DefaultRetryAttempts = 3
	// DefaultRetryDelay is the pause between two attempts
	DefaultRetryDelay = 500 * time.Millisecond
)

var retryableErrors = []string{"timeout", "disconnected"}

// RetryPolicy retries a call a bounded number of times, only if the returned
// error is classified as retryable.
type RetryPolicy struct {
	Attempts    uint
	Delay       time.Duration
	IsRetryable func(error) bool
}

// DefaultRetryPolicy returns a policy retrying transient errors up to
// DefaultRetryAttempts times.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:    DefaultRetryAttempts,
		Delay:       DefaultRetryDelay,
		IsRetryable: IsTransientError,
	}
}

// Do calls fn until it succeeds, returns a non retryable error, or the
// attempts are exhausted. The returned error is always the last one.
func (p RetryPolicy) Do(ctx context.Context, name string, fn func() error) error {
	attempts := p.Attempts
	if attempts == 0 {
		attempts = 1
	}
	isRetryable := p.IsRetryable
	if isRetryable == nil {
		isRetryable = IsTransientError
	}

	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(p.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			stats.ExplorerTransientErrors.WithLabelValues(name).Inc()
			log.WithError(err).Warnf(
				"explorer: %s failed (attempt %d/%d)", name, n+1, attempts,
			)
		}),
	)
}

// IsTransientError returns whether err is a timeout or a dropped connection.
// Cancellations and not found errors are never transient.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrNotFound) {
		return false
	}
	if errors.Is(err, ErrDisconnected) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, e := range retryableErrors {
		if strings.Contains(msg, e) {
			return true
		}
	}
	return false
}

type retryService struct {
	svc    Service
	policy RetryPolicy
}

// NewRetryService decorates every call of the given service with the retry
// policy.
func NewRetryService(svc Service, policy RetryPolicy) (Service, error) {
	if svc == nil {
		return nil, ErrNullService
	}
	return &retryService{svc, policy}, nil
}

func (r *retryService) GetUtxos(ctx context.Context, address string) ([]Utxo, error) {
	var utxos []Utxo
	err := r.policy.Do(ctx, "GetUtxos", func() (err error) {
		utxos, err = r.svc.GetUtxos(ctx, address)
		return
	})
	return utxos, err
}

func (r *retryService) GetAddressBalance(
	ctx context.Context, address string,
) (*Balance, error) {
	var balance *Balance
	err := r.policy.Do(ctx, "GetAddressBalance", func() (err error) {
		balance, err = r.svc.GetAddressBalance(ctx, address)
		return
	})
	return balance, err
}

func (r *retryService) GetTransaction(
	ctx context.Context, txid string,
) (*Transaction, error) {
	var tx *Transaction
	err := r.policy.Do(ctx, "GetTransaction", func() (err error) {
		tx, err = r.svc.GetTransaction(ctx, txid)
		return
	})
	return tx, err
}

func (r *retryService) BroadcastTransaction(
	ctx context.Context, txhex string,
) (string, error) {
	var txid string
	err := r.policy.Do(ctx, "BroadcastTransaction", func() (err error) {
		txid, err = r.svc.BroadcastTransaction(ctx, txhex)
		return
	})
	return txid, err
}

func (r *retryService) GetBlock(
	ctx context.Context, hashOrHeight string,
) (*Block, error) {
	var block *Block
	err := r.policy.Do(ctx, "GetBlock", func() (err error) {
		block, err = r.svc.GetBlock(ctx, hashOrHeight)
		return
	})
	return block, err
}

func (r *retryService) GetStatus(ctx context.Context) (*Status, error) {
	var status *Status
	err := r.policy.Do(ctx, "GetStatus", func() (err error) {
		status, err = r.svc.GetStatus(ctx)
		return
	})
	return status, err
}
