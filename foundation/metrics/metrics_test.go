package metrics_test

import (
	"testing"
	"time"

	"github.com/ardanlabs/ledger/foundation/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestCollectors(t *testing.T) {
	metrics.BlockAppended(metrics.OriginLocal, 3)
	metrics.BlockRejected(metrics.OriginForeign, "link_mismatch")
	metrics.SetChainLength(4)
	metrics.SetPeerCount(2)
	metrics.Broadcast(metrics.ResultDelivered)
	metrics.Inbound(metrics.ResultMalformed)
	metrics.Request("GET", "/v1/blocks/list", 200, time.Millisecond)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, mf := range families {
		names[mf.GetName()] = true
	}

	for _, name := range []string{
		"ledger_blocks_appended_total",
		"ledger_blocks_rejected_total",
		"ledger_entries_in_block",
		"ledger_chain_length",
		"ledger_peer_count",
		"ledger_broadcast_total",
		"ledger_inbound_total",
		"ledger_http_request_duration_seconds",
	} {
		require.True(t, names[name], name)
	}
}
