package concurrent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPoolProcessesEveryJob(t *testing.T) {
	const stations = 10
	totalJobs := stations * stations

	workers := NewWorkerPool[JourneyQueryParam, int32](8, totalJobs)
	for from := int32(0); from < stations; from++ {
		for to := int32(0); to < stations; to++ {
			workers.AddJob(NewJourneyQueryParam(from, to))
		}
	}
	workers.Close()
	workers.Start(func(job JourneyQueryParam) int32 {
		return job.FromStationID*stations + job.ToStationID
	})
	workers.Wait()

	seen := make(map[int32]bool)
	for result := range workers.CollectResults() {
		seen[result] = true
	}
	require.Len(t, seen, totalJobs)
	for i := int32(0); i < int32(totalJobs); i++ {
		assert.True(t, seen[i], "missing result %d", i)
	}
}

func TestWorkerPoolEmptyBatch(t *testing.T) {
	workers := NewWorkerPool[JourneyQueryParam, int32](4, 1)
	workers.Close()
	workers.Start(func(job JourneyQueryParam) int32 { return 0 })
	workers.Wait()

	count := 0
	for range workers.CollectResults() {
		count++
	}
	assert.Zero(t, count)
}
