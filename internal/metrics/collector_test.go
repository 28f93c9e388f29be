package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorAggregation(t *testing.T) {
	c := NewCollector()

	c.RecordTiming(OpRouter, 10*time.Millisecond)
	c.RecordTiming(OpRouter, 30*time.Millisecond)
	c.RecordError(OpRouter, 20*time.Millisecond)

	snap := c.Snapshot()
	require.NotNil(t, snap.Router)
	assert.Equal(t, int64(3), snap.Router.Count)
	assert.Equal(t, int64(1), snap.Router.Errors)
	assert.Equal(t, int64(60), snap.Router.TotalTimeMs)
	assert.Equal(t, int64(10), snap.Router.MinTimeMs)
	assert.Equal(t, int64(30), snap.Router.MaxTimeMs)
	assert.InDelta(t, 20.0, snap.Router.AvgTimeMs, 0.01)
}

func TestSnapshotOmitsUnusedOps(t *testing.T) {
	c := NewCollector()
	c.RecordTiming(OpDBQuery, time.Millisecond)

	snap := c.Snapshot()
	assert.NotNil(t, snap.DBQuery)
	assert.Nil(t, snap.Router)
	assert.Nil(t, snap.Intent)
	assert.Nil(t, snap.Answer)
	assert.GreaterOrEqual(t, snap.UptimeSeconds, 0.0)
}

func TestConcurrentRecording(t *testing.T) {
	c := NewCollector()

	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				c.RecordTiming(OpRequest, time.Millisecond)
			}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}

	snap := c.Snapshot()
	require.NotNil(t, snap.Request)
	assert.Equal(t, int64(400), snap.Request.Count)
}
