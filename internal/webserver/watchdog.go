package webserver

import (
	"context"
	"log/slog"
	"time"
)

// Watchdog calls onIdle when no Alive signal arrived for the idle window, then
// re-arms. If the host survives the shutdown attempt it will try again after
// another full window.
type Watchdog struct {
	idle   time.Duration
	alive  chan struct{}
	onIdle func(ctx context.Context)
}

func NewWatchdog(idle time.Duration, onIdle func(ctx context.Context)) *Watchdog {
	return &Watchdog{
		idle:   idle,
		alive:  make(chan struct{}, 1),
		onIdle: onIdle,
	}
}

// Alive resets the idle timer. It never blocks: one pending signal is as good as many.
func (w *Watchdog) Alive() {
	select {
	case w.alive <- struct{}{}:
	default:
	}
}

// Run blocks until ctx is done.
func (w *Watchdog) Run(ctx context.Context) {
	t := time.NewTimer(w.idle)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.alive:
			t.Reset(w.idle)
		case <-t.C:
			slog.Warn("idle timeout reached, shutting the host down", "idle", w.idle)
			w.onIdle(ctx)
			t.Reset(w.idle)
		}
	}
}
