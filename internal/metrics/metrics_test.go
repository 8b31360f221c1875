package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestInc(t *testing.T) {
	before := testutil.ToFloat64(Collector(MSG_SENT))
	Inc(MSG_SENT)
	require.Equal(t, before+1, testutil.ToFloat64(Collector(MSG_SENT)))

	vec := Collector(ONION_COUNT).(*prometheus.CounterVec)
	before = testutil.ToFloat64(vec.WithLabelValues(OutcomeForwarded))
	Inc(ONION_COUNT, OutcomeForwarded)
	Inc(ONION_COUNT, OutcomeForwarded)
	require.Equal(t, before+2, testutil.ToFloat64(vec.WithLabelValues(OutcomeForwarded)))
}

func TestUnknownCollectorIsIgnored(t *testing.T) {
	require.NotPanics(t, func() {
		Inc("doesNotExist")
		Observe(MSG_SENT, 1) // a counter is not an observer
	})
}
