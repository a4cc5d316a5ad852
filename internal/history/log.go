package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Log runs every persistence operation on a single background worker, in the
// order the operations were submitted. Record never blocks the caller;
// reads and Clear wait for the worker to reach them, so they observe every
// record submitted before them.
type Log struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	queue  []job
	closed bool

	wake chan struct{}
	done chan struct{}
}

type job struct {
	name string
	run  func(ctx context.Context) error
	// result is nil for fire-and-forget jobs.
	result chan error
	// caller is the context of the waiting caller. A job whose caller has
	// given up is skipped.
	caller context.Context
}

// Option configures a Log.
type Option func(*Log)

// WithClock overrides the timestamp source for new records.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// NewLog starts the worker. Close must be called to flush pending records.
func NewLog(store Store, logger *zap.Logger, opts ...Option) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Log{
		store:  store,
		logger: logger,
		now:    time.Now,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}

	go l.run()
	return l
}

// Record queues a new calculation for insertion and returns immediately.
// Failures are logged, not returned.
func (l *Log) Record(expression, result string) {
	c := Calculation{
		ID:         uuid.NewString(),
		Expression: expression,
		Result:     result,
		CreatedAt:  l.now().UTC(),
	}

	err := l.enqueue(job{
		name: "insert",
		run: func(ctx context.Context) error {
			return l.store.Insert(ctx, c)
		},
	})
	if err != nil {
		l.logger.Warn("dropping calculation",
			zap.String("id", c.ID),
			zap.String("expression", expression),
			zap.Error(err),
		)
	}
}

// List returns every calculation, oldest first.
func (l *Log) List(ctx context.Context) ([]Calculation, error) {
	var out []Calculation
	err := l.submit(ctx, "list", func(ctx context.Context) error {
		var err error
		out, err = l.store.List(ctx)
		return err
	})
	return out, err
}

// Get returns the calculation with the given id.
func (l *Log) Get(ctx context.Context, id string) (Calculation, error) {
	var out Calculation
	err := l.submit(ctx, "get", func(ctx context.Context) error {
		var err error
		out, err = l.store.Get(ctx, id)
		return err
	})
	return out, err
}

// Clear deletes every calculation recorded so far. Nothing is deleted when
// ctx ends before the worker reaches the request.
func (l *Log) Clear(ctx context.Context) error {
	return l.submit(ctx, "clear", l.store.Clear)
}

// Close stops accepting work, waits for everything already queued and stops
// the worker. It is safe to call more than once.
func (l *Log) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	l.signal()
	<-l.done
}

func (l *Log) submit(ctx context.Context, name string, run func(context.Context) error) error {
	j := job{name: name, run: run, result: make(chan error, 1), caller: ctx}
	if err := l.enqueue(j); err != nil {
		return err
	}

	select {
	case err := <-j.result:
		return err
	case <-ctx.Done():
		return fmt.Errorf("waiting for history %s: %w", name, ctx.Err())
	}
}

func (l *Log) enqueue(j job) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.queue = append(l.queue, j)
	queueDepth.Set(float64(len(l.queue)))
	l.mu.Unlock()

	l.signal()
	return nil
}

func (l *Log) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Log) run() {
	defer close(l.done)

	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			closed := l.closed
			l.mu.Unlock()
			if closed {
				return
			}
			<-l.wake
			continue
		}
		j := l.queue[0]
		l.queue[0] = job{}
		l.queue = l.queue[1:]
		queueDepth.Set(float64(len(l.queue)))
		l.mu.Unlock()

		if j.caller != nil && j.caller.Err() != nil {
			observeOperation(j.name, j.caller.Err())
			j.result <- j.caller.Err()
			continue
		}

		err := j.run(context.Background())
		observeOperation(j.name, err)

		if j.result != nil {
			j.result <- err
			continue
		}
		if err != nil {
			l.logger.Error("history operation failed",
				zap.String("operation", j.name),
				zap.Error(err),
			)
		}
	}
}
