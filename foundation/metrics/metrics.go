// Package metrics exposes the prometheus collectors used by the node.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ledger"

// Set of origins a block can come from.
const (
	OriginLocal   = "local"
	OriginForeign = "foreign"
)

// Set of outcomes for replication attempts.
const (
	ResultDelivered = "delivered"
	ResultFailed    = "failed"
	ResultDropped   = "dropped"
	ResultAccepted  = "accepted"
	ResultRejected  = "rejected"
	ResultMalformed = "malformed"
)

var (
	blocksAppended = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_appended_total",
			Help:      "The total number of blocks appended to the chain",
		},
		[]string{"origin"},
	)

	blocksRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_rejected_total",
			Help:      "The total number of candidate blocks that failed validation",
		},
		[]string{"origin", "reason"},
	)

	entriesInBlock = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "entries_in_block",
			Help:      "Number of entries carried by appended blocks",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	chainLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chain_length",
			Help:      "The current number of blocks in the chain including genesis",
		},
	)

	peerCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "peer_count",
			Help:      "The total number of registered peers",
		},
	)

	broadcasts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcast_total",
			Help:      "The total number of block deliveries attempted per outcome",
		},
		[]string{"result"},
	)

	inbound = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inbound_total",
			Help:      "The total number of frames received from peers per outcome",
		},
		[]string{"result"},
	)

	requests = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests handled by the node",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Handler returns the handler serving the registered collectors.
func Handler() http.Handler {
	return promhttp.Handler()
}

// BlockAppended records a block added to the chain.
func BlockAppended(origin string, entries int) {
	blocksAppended.With(prometheus.Labels{"origin": origin}).Inc()
	entriesInBlock.Observe(float64(entries))
}

// BlockRejected records a block that failed validation.
func BlockRejected(origin string, reason string) {
	blocksRejected.With(prometheus.Labels{"origin": origin, "reason": reason}).Inc()
}

// SetChainLength records the number of blocks in the chain.
func SetChainLength(length int) {
	chainLength.Set(float64(length))
}

// SetPeerCount records the number of registered peers.
func SetPeerCount(peers int) {
	peerCount.Set(float64(peers))
}

// Broadcast records the outcome of one delivery to a peer.
func Broadcast(result string) {
	broadcasts.With(prometheus.Labels{"result": result}).Inc()
}

// Inbound records the outcome of one frame read by the listener.
func Inbound(result string) {
	inbound.With(prometheus.Labels{"result": result}).Inc()
}

// Request records a completed HTTP request.
func Request(method string, route string, status int, took time.Duration) {
	requests.With(prometheus.Labels{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}).Observe(took.Seconds())
}
