package sim

import (
	"context"
	"sync"
	"time"
)

// Scheduler drives a tick callback at a fixed target rate on its own
// goroutine. Ticks never overlap: the callback runs to completion before
// the next interval fires, and Stop blocks until the loop has exited.
type Scheduler struct {
	interval time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
	tps     float64
}

// NewScheduler creates a scheduler targeting the given ticks per second.
func NewScheduler(targetTPS int) *Scheduler {
	if targetTPS < 1 {
		targetTPS = 1
	}
	return &Scheduler{interval: time.Second / time.Duration(targetTPS)}
}

// Start launches the tick loop. tick receives the wall-clock seconds elapsed
// since the previous tick. Calling Start while running is a no-op.
func (sc *Scheduler) Start(tick func(elapsed float64)) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	sc.cancel = cancel
	sc.done = done
	sc.running = true

	go sc.loop(ctx, done, tick)
}

func (sc *Scheduler) loop(ctx context.Context, done chan struct{}, tick func(elapsed float64)) {
	defer close(done)

	ticker := time.NewTicker(sc.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			elapsed := now.Sub(last).Seconds()
			last = now
			if elapsed <= 0 {
				continue
			}
			tick(elapsed)
			sc.recordTick(elapsed)
		}
	}
}

// recordTick updates the smoothed tick-rate estimate.
func (sc *Scheduler) recordTick(elapsed float64) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	instant := 1 / elapsed
	if sc.tps == 0 {
		sc.tps = instant
	} else {
		sc.tps = sc.tps*0.95 + instant*0.05
	}
}

// Stop cancels the loop and waits for it to exit. No tick callback runs
// after Stop returns. Calling Stop while stopped is a no-op.
func (sc *Scheduler) Stop() {
	sc.mu.Lock()
	if !sc.running {
		sc.mu.Unlock()
		return
	}
	cancel := sc.cancel
	done := sc.done
	sc.running = false
	sc.mu.Unlock()

	cancel()
	<-done
}

// Running reports whether the tick loop is active.
func (sc *Scheduler) Running() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.running
}

// TPS returns the smoothed measured tick rate, zero before the first tick.
func (sc *Scheduler) TPS() float64 {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.tps
}
