package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledRecorderObserveIsNoop(t *testing.T) {
	r := New(Config{Enabled: false}, nil)
	assert.Nil(t, r.Registry())
	r.Observe("getattr", time.Millisecond, "")
}

func TestEnabledRecorderCountsCallsAndErrors(t *testing.T) {
	r := New(Config{Enabled: true, Namespace: "vfsbridge_test"}, nil)
	require.NotNil(t, r.Registry())

	r.Observe("getattr", time.Millisecond, "")
	r.Observe("getattr", time.Millisecond, "ENOENT")
	r.Observe("getattr", time.Millisecond, "ENOENT")

	count, err := testutil.GatherAndCount(r.Registry(), "vfsbridge_test_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count) // one series for outcome=ok, one for outcome=error
}

func TestEnabledRecorderRegistersIntoSuppliedRegistry(t *testing.T) {
	external := prometheus.NewRegistry()
	r := New(Config{Enabled: true, Namespace: "vfsbridge_test2"}, external)

	r.Observe("read", time.Millisecond, "")

	count, err := testutil.GatherAndCount(external, "vfsbridge_test2_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Same(t, external, r.Registry())
}

func TestNilRecorderObserveIsNoop(t *testing.T) {
	var r *Recorder
	assert.Nil(t, r.Registry())
	r.Observe("read", time.Millisecond, "")
}
