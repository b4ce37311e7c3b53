package scheduler

import (
	"context"
	"log"
	"sync"
	"time"
)

// Job is a named sweep invoked on a fixed interval.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Locker serializes a named sweep across processes. Acquire returns a
// release func and whether the lock was taken; a held lock means another
// instance is mid-sweep and this tick should be skipped.
type Locker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (func(), bool, error)
}

// Scheduler drives the periodic sweeps (pairing, match expiry). It is owned
// by process lifecycle: Start on boot, Stop on shutdown. Sweeps are
// idempotent, so a missed or doubled tick is harmless; the lock only avoids
// wasted work when several instances run.
type Scheduler struct {
	locker   Locker
	jobs     []Job
	stopChan chan struct{}
	wg       sync.WaitGroup
	started  bool
	stopped  bool
	mu       sync.Mutex
}

func New(locker Locker) *Scheduler {
	return &Scheduler{
		locker:   locker,
		stopChan: make(chan struct{}),
	}
}

func (s *Scheduler) Add(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runLoop(job)
	}

	log.Printf("Scheduler started with %d job(s)", len(s.jobs))
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	close(s.stopChan)
	s.wg.Wait()
	log.Println("Scheduler stopped")
}

func (s *Scheduler) runLoop(job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.runJob(job)
		}
	}
}

func (s *Scheduler) runJob(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), job.Interval*2)
	defer cancel()

	release, ok, err := s.locker.Acquire(ctx, job.Name, job.Interval*2)
	if err != nil {
		log.Printf("Failed to acquire %s lock: %v", job.Name, err)
		return
	}
	if !ok {
		return
	}
	defer release()

	if err := job.Run(ctx); err != nil {
		log.Printf("Job %s failed: %v", job.Name, err)
	}
}
