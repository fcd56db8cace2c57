// Package threadpool runs jobs on a fixed number of workers fed from an
// unbounded FIFO queue.
package threadpool

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/facebookincubator/go-belt"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/rocvideodecode/helpers/closuresignaler"
	"github.com/xaionaro-go/rocvideodecode/logger"
	"github.com/xaionaro-go/xsync"
	"go.uber.org/atomic"
)

var ErrClosed = errors.New("the thread pool is joined")

type Job func()

type Pool struct {
	*closuresignaler.ClosureSignaler
	numThreads uint

	locker xsync.Mutex
	queue  []Job
	wakeup chan struct{}

	waitGroup    sync.WaitGroup
	done         chan struct{}
	jobsExecuted atomic.Uint64
	jobsPanicked atomic.Uint64
}

// New starts numThreads workers; they run until JoinThreads.
func New(
	ctx context.Context,
	numThreads uint,
) (*Pool, error) {
	if numThreads == 0 {
		return nil, fmt.Errorf("the number of threads must be positive")
	}
	p := &Pool{
		ClosureSignaler: closuresignaler.New(),
		numThreads:      numThreads,
		wakeup:          make(chan struct{}, 1),
		done:            make(chan struct{}),
	}
	for idx := range numThreads {
		p.waitGroup.Add(1)
		workerCtx := belt.WithField(ctx, "worker", idx)
		observability.Go(workerCtx, func(ctx context.Context) {
			defer p.waitGroup.Done()
			p.worker(ctx)
		})
	}
	observability.Go(ctx, func(ctx context.Context) {
		p.waitGroup.Wait()
		close(p.done)
	})
	logger.Debugf(ctx, "started a pool of %d threads", numThreads)
	return p, nil
}

func (p *Pool) NumThreads() uint {
	return p.numThreads
}

// ExecuteJob queues the job; it never blocks on busy workers.
func (p *Pool) ExecuteJob(job Job) error {
	if job == nil {
		return fmt.Errorf("the job is nil")
	}
	ctx := xsync.WithNoLogging(context.Background(), true)
	err := xsync.DoR1(ctx, &p.locker, func() error {
		if p.IsClosed() {
			return ErrClosed
		}
		p.queue = append(p.queue, job)
		return nil
	})
	if err != nil {
		return err
	}
	p.notify()
	return nil
}

func (p *Pool) notify() {
	select {
	case p.wakeup <- struct{}{}:
	default:
	}
}

// pop returns the next job; drained is true when there is none and none
// will come.
func (p *Pool) pop(ctx context.Context) (_job Job, _drained bool) {
	return xsync.DoR2(xsync.WithNoLogging(ctx, true), &p.locker, func() (Job, bool) {
		if len(p.queue) == 0 {
			return nil, p.IsClosed()
		}
		job := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		if len(p.queue) > 0 {
			p.notify()
		}
		return job, false
	})
}

func (p *Pool) worker(ctx context.Context) {
	logger.Tracef(ctx, "worker")
	defer func() { logger.Tracef(ctx, "/worker") }()
	for {
		job, drained := p.pop(ctx)
		if job != nil {
			p.run(ctx, job)
			continue
		}
		if drained {
			return
		}
		select {
		case <-p.wakeup:
		case <-p.CloseChan():
		}
	}
}

func (p *Pool) run(ctx context.Context, job Job) {
	defer func() {
		p.jobsExecuted.Inc()
		if r := recover(); r != nil {
			p.jobsPanicked.Inc()
			logger.Errorf(ctx, "a job panicked: %v\n%s", r, debug.Stack())
		}
	}()
	job()
}

// JobsExecuted returns how many jobs finished, including panicked ones.
func (p *Pool) JobsExecuted() uint64 {
	return p.jobsExecuted.Load()
}

func (p *Pool) JobsPanicked() uint64 {
	return p.jobsPanicked.Load()
}

// JoinThreads stops accepting jobs and waits until every queued job ran and
// all workers exited.
func (p *Pool) JoinThreads(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "JoinThreads")
	defer func() { logger.Debugf(ctx, "/JoinThreads: %v", _err) }()

	p.locker.Do(xsync.WithNoLogging(ctx, true), func() {
		p.ClosureSignaler.Close(ctx)
	})

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once all workers exited, which happens only after
// JoinThreads was called and the queue drained. A JoinThreads that gave up
// on its context leaves the workers running; wait here for them.
func (p *Pool) Done() <-chan struct{} {
	return p.done
}
