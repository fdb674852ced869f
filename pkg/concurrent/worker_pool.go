package concurrent

import (
	"sync"
)

// WorkerPool fans a batch of queued jobs out to numWorkers goroutines.
// Queue every job with AddJob, then Close, Start, Wait, and range over
// CollectResults. Both channels are buffered to buffSize so a batch no
// larger than buffSize never blocks the producer.
type WorkerPool[T JobI, G any] struct {
	numWorkers int
	jobs       chan T
	results    chan G
	wg         sync.WaitGroup
}

func NewWorkerPool[T JobI, G any](numWorkers, buffSize int) *WorkerPool[T, G] {
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobs:       make(chan T, buffSize),
		results:    make(chan G, buffSize),
	}
}

func (wp *WorkerPool[T, G]) AddJob(job T) {
	wp.jobs <- job
}

// Close marks the job queue complete. Call after the last AddJob.
func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobs)
}

func (wp *WorkerPool[T, G]) Start(f JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go func() {
			defer wp.wg.Done()
			for job := range wp.jobs {
				wp.results <- f(job)
			}
		}()
	}
}

// Wait blocks until every queued job is done, then closes the results
// channel so CollectResults ranges terminate.
func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) CollectResults() chan G {
	return wp.results
}
