package worker

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// Task represents a unit of work executed by the pool.
type Task func()

var (
	ErrPoolStopped = errors.New("worker pool stopped")
	ErrQueueFull   = errors.New("worker queue full")
)

// 每個 worker 可排隊的工作數
const queuePerWorker = 64

// Pool runs submitted tasks on a fixed number of goroutines.
type Pool interface {
	// Submit never blocks: it returns ErrQueueFull when every worker is busy
	// and the queue is full, ErrPoolStopped after Stop.
	Submit(Task) error
	Stop()
}

// NewPool creates a pool with n workers. n<=0 defaults to 1.
// A panicking task is logged and does not take its worker down.
func NewPool(n int, log logrus.FieldLogger) Pool {
	if n <= 0 {
		n = 1
	}
	return newPool(n, n*queuePerWorker, log)
}

func newPool(n, queue int, log logrus.FieldLogger) *pool {
	if n <= 0 {
		n = 1
	}
	if queue < 0 {
		queue = 0
	}
	p := &pool{jobs: make(chan Task, queue), log: log}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go func(id int) {
			defer p.wg.Done()
			for job := range p.jobs {
				p.run(id, job)
			}
		}(i)
	}
	return p
}

type pool struct {
	jobs chan Task
	wg   sync.WaitGroup
	log  logrus.FieldLogger

	mu      sync.RWMutex
	stopped bool
}

func (p *pool) run(id int, job Task) {
	if job == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.log.WithField("worker", id).Errorf("task panic: %v", r)
		}
	}()
	job()
}

func (p *pool) Submit(t Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrPoolStopped
	}
	select {
	case p.jobs <- t:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop waits for queued tasks to finish. Safe to call more than once.
func (p *pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}
