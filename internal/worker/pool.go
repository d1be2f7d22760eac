package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/logger"
)

// Pool runs queued jobs on a fixed number of goroutines.
type Pool struct {
	workerCount int
	jobChan     chan func(context.Context) error
	wg          sync.WaitGroup
	mu          sync.Mutex
	stopped     bool
	log         zerolog.Logger
}

func NewPool(workerCount int) *Pool {
	return &Pool{
		workerCount: workerCount,
		jobChan:     make(chan func(context.Context) error, workerCount*2),
		log:         logger.Get(),
	}
}

func (p *Pool) Start(ctx context.Context) {
	p.log.Info().Int("worker_count", p.workerCount).Msg("Starting worker pool")

	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.stopped {
		p.stopped = true
		close(p.jobChan)
	}
	p.mu.Unlock()

	p.wg.Wait()
	p.log.Info().Msg("Worker pool stopped")
}

// Submit queues a job. It reports false when the pool has stopped or the
// queue is full; the caller keeps ownership of rejected jobs.
func (p *Pool) Submit(job func(context.Context) error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return false
	}
	select {
	case p.jobChan <- job:
		return true
	default:
		p.log.Warn().Msg("Worker pool job queue full, job rejected")
		return false
	}
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	log := p.log.With().Int("worker_id", id).Logger()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.jobChan:
			if !ok {
				return
			}
			if err := job(ctx); err != nil {
				log.Error().Err(err).Msg("Job execution failed")
			}
		}
	}
}
