package framework

import (
	"context"
	"fmt"
	"time"
)

// Runner drives the periodic read cycle: every interval it snapshots the
// active device's registers, delivers the snapshot to the read bindings and
// fires the refresh event. The interval is fixed at construction; there is
// no process-wide default to mutate.
type Runner struct {
	f        *Framework
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewRunner(f *Framework, interval time.Duration) *Runner {
	return &Runner{f: f, interval: interval}
}

// RunOnce performs a single read cycle. Having no device selected is not an
// error; the cycle is simply skipped.
func (r *Runner) RunOnce() {
	dev, ok := r.f.ActiveDevice()
	if !ok {
		return
	}
	values, err := dev.ReadRegisters()
	if err != nil {
		r.f.Fire(EventRefreshError, fmt.Sprintf("reading %s: %v", dev.Name(), err))
		return
	}
	r.f.OnRead(values)
	r.f.Fire(EventRefresh, values)
}

// Start launches the read loop on its own goroutine.
func (r *Runner) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.RunOnce()
			}
		}
	}()
}

// Stop terminates the read loop and waits for the in-flight cycle to finish.
func (r *Runner) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel = nil
}
