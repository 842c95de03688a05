package stats

import (
	"bufio"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const namespace = "payments"

var (
	registry = prometheus.NewRegistry()

	// ExplorerTransientErrors counts the data source calls that failed with a
	// retryable error, labeled by method.
	ExplorerTransientErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "explorer",
			Name:      "transient_errors_total",
			Help:      "Number of data source calls failed with a retryable error.",
		},
		[]string{"method"},
	)
	// FeeRateFallbacks counts the times the hardcoded fee rate of a level was
	// used because the fee rate service failed.
	FeeRateFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fee",
			Name:      "rate_fallbacks_total",
			Help:      "Number of fee rate lookups resolved with hardcoded defaults.",
		},
		[]string{"level"},
	)
	// BroadcastTxIDMismatches counts broadcasts for which the network returned
	// a txid different from the locally computed one.
	BroadcastTxIDMismatches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "txid_mismatches_total",
			Help:      "Number of broadcasts whose network txid differs from the local one.",
		},
	)
	// TransactionsCreated counts built unsigned transactions by kind
	// (payment|sweep).
	TransactionsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_created_total",
			Help:      "Number of unsigned transactions created.",
		},
		[]string{"kind"},
	)
)

func init() {
	registry.MustRegister(
		ExplorerTransientErrors,
		FeeRateFallbacks,
		BroadcastTxIDMismatches,
		TransactionsCreated,
	)
}

// Registry returns the registry holding the payments metrics.
func Registry() *prometheus.Registry {
	return registry
}

// DumpMetrics writes the payments metrics to the given writer, one metric
// family per line.
func DumpMetrics(w io.Writer) error {
	metricFamily, err := registry.Gather()
	if err != nil {
		return err
	}

	writer := bufio.NewWriter(w)
	for _, v := range metricFamily {
		if _, err := writer.WriteString(v.String() + "\n"); err != nil {
			return err
		}
	}
	return writer.Flush()
}

// DumpMetricsToFile appends the payments metrics to the file at path.
func DumpMetricsToFile(path string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := DumpMetrics(file); err != nil {
		return err
	}
	log.Debugf("metrics dumped to %s", path)
	return nil
}
