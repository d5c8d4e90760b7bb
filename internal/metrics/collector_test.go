package metrics_test

import (
	"sync"
	"testing"
	"time"

	"github.com/raphaelgruber/botdash/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCall(t *testing.T) {
	c := metrics.NewCollector()

	c.RecordCall(metrics.OpStatus, 10*time.Millisecond, false)
	c.RecordCall(metrics.OpStatus, 30*time.Millisecond, true)

	snap, ok := c.Get(metrics.OpStatus)
	require.True(t, ok)
	assert.Equal(t, int64(2), snap.Count)
	assert.Equal(t, int64(1), snap.Failures)
	assert.Equal(t, int64(10), snap.MinTimeMs)
	assert.Equal(t, int64(30), snap.MaxTimeMs)
	assert.InDelta(t, 20.0, snap.AvgTimeMs, 0.001)
}

func TestGetUnknownOperation(t *testing.T) {
	c := metrics.NewCollector()
	_, ok := c.Get(metrics.OpChat)
	assert.False(t, ok)
}

func TestSnapshotSorted(t *testing.T) {
	c := metrics.NewCollector()
	c.RecordCall(metrics.OpSearchWeb, time.Millisecond, false)
	c.RecordCall(metrics.OpDatasets, time.Millisecond, false)
	c.RecordCall(metrics.OpChat, time.Millisecond, false)

	snap := c.Snapshot()
	require.Len(t, snap.Operations, 3)
	assert.Equal(t, metrics.OpChat, snap.Operations[0].Operation)
	assert.Equal(t, metrics.OpDatasets, snap.Operations[1].Operation)
	assert.Equal(t, metrics.OpSearchWeb, snap.Operations[2].Operation)
	assert.GreaterOrEqual(t, snap.UptimeSeconds, 0.0)
}

func TestConcurrentRecord(t *testing.T) {
	c := metrics.NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RecordCall(metrics.OpUpload, time.Millisecond, false)
		}()
	}
	wg.Wait()

	snap, ok := c.Get(metrics.OpUpload)
	require.True(t, ok)
	assert.Equal(t, int64(50), snap.Count)
}
