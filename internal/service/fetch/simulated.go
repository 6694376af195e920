package fetch

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"
)

const (
	DefaultMinDelay = 1000 * time.Millisecond
	DefaultMaxDelay = 3000 * time.Millisecond
)

// SimulatedFetcher waits a random bounded delay and answers from a canned pool.
type SimulatedFetcher struct {
	pool       []string
	disclaimer string
	minDelay   time.Duration
	maxDelay   time.Duration
	sleep      func(ctx context.Context, d time.Duration) error

	mu  sync.Mutex
	rnd *rand.Rand
}

// SimulatedOption customises a SimulatedFetcher.
type SimulatedOption func(*SimulatedFetcher)

// WithDelay bounds the artificial latency. max below min is raised to min.
func WithDelay(min, max time.Duration) SimulatedOption {
	return func(f *SimulatedFetcher) {
		if min < 0 {
			min = 0
		}
		if max < min {
			max = min
		}
		f.minDelay, f.maxDelay = min, max
	}
}

// WithRand injects the random source.
func WithRand(rnd *rand.Rand) SimulatedOption {
	return func(f *SimulatedFetcher) {
		f.rnd = rnd
	}
}

// WithSleep replaces the wait, mainly for tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) SimulatedOption {
	return func(f *SimulatedFetcher) {
		f.sleep = sleep
	}
}

// NewSimulatedFetcher creates the demo strategy over a non-empty response pool.
func NewSimulatedFetcher(pool []string, disclaimer string, opts ...SimulatedOption) *SimulatedFetcher {
	f := &SimulatedFetcher{
		pool:       append([]string(nil), pool...),
		disclaimer: disclaimer,
		minDelay:   DefaultMinDelay,
		maxDelay:   DefaultMaxDelay,
		sleep:      sleepWithContext,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *SimulatedFetcher) FetchResponse(ctx context.Context, _ string) (string, error) {
	if len(f.pool) == 0 {
		return "", &Error{Kind: KindUnknown, Err: errors.New("simulated response pool is empty")}
	}

	f.mu.Lock()
	delay := f.minDelay
	if span := f.maxDelay - f.minDelay; span > 0 {
		delay += time.Duration(f.rnd.Int63n(int64(span) + 1))
	}
	pick := f.pool[f.rnd.Intn(len(f.pool))]
	f.mu.Unlock()

	if err := f.sleep(ctx, delay); err != nil {
		return "", Classify(err)
	}
	return WithDisclaimer(pick, f.disclaimer), nil
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
