package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordUnfurl(t *testing.T) {
	before := testutil.ToFloat64(Unfurls.WithLabelValues("helpful"))

	RecordUnfurl("helpful", time.Now().Add(-time.Millisecond))

	require.Equal(t, before+1, testutil.ToFloat64(Unfurls.WithLabelValues("helpful")))
}

func TestFeedSubscribersGauge(t *testing.T) {
	g := FeedSubscribers.WithLabelValues("test_topic")
	g.Set(0)
	g.Inc()
	g.Inc()
	g.Dec()

	require.Equal(t, float64(1), testutil.ToFloat64(g))
}
