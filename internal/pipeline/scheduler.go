package pipeline

import (
	"context"
	"log"
	"sync"
	"time"
)

// Scheduler runs the pipeline periodically. It is a thin optional
// wrapper; the pipeline itself is schedule-agnostic.
type Scheduler struct {
	pipeline *Pipeline
	interval time.Duration

	mu        sync.Mutex
	stopCh    chan struct{}
	isRunning bool
}

// NewScheduler creates a scheduler over the given pipeline.
func NewScheduler(p *Pipeline, interval time.Duration) *Scheduler {
	return &Scheduler{
		pipeline: p,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start starts the scheduler. The first run happens immediately.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		log.Println("[Scheduler] already running")
		return
	}
	s.isRunning = true
	stopCh := s.stopCh
	s.mu.Unlock()

	log.Printf("[Scheduler] started with interval: %v", s.interval)

	s.runOnce()

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runOnce()
			case <-stopCh:
				log.Println("[Scheduler] stopped")
				s.mu.Lock()
				s.isRunning = false
				s.mu.Unlock()
				return
			}
		}
	}()
}

// Stop stops the scheduler. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.stopCh:
		// already closed
	default:
		close(s.stopCh)
	}
}

// IsRunning returns whether the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

func (s *Scheduler) runOnce() {
	result := s.pipeline.RunFullUpdate(context.Background(), DefaultOptions())
	if !result.Success {
		log.Printf("[Scheduler] scheduled run failed: %s", result.Error)
	}
}
