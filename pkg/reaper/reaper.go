// Package reaper runs the FabricManager's periodic prune cycle.
package reaper

import (
	"sync"
	"time"

	"github.com/nexusprime/fabric/pkg/fabric"
	"github.com/nexusprime/fabric/pkg/log"
	"github.com/rs/zerolog"
)

// Reaper is a cooperative ticker that invokes PruneStaleEntities at a
// fixed interval. Overlapping runs are impossible by construction: a
// single goroutine runs each prune to completion before reading the
// next tick, and time.Ticker's one-slot channel drops ticks that arrive
// meanwhile, so a long prune is followed by at most one more run.
type Reaper struct {
	manager  *fabric.Manager
	interval time.Duration
	logger   zerolog.Logger

	mu     sync.Mutex
	stopCh chan struct{}
}

// New creates a Reaper. A zero interval defaults to fabric.ReapInterval.
func New(manager *fabric.Manager, interval time.Duration) *Reaper {
	if interval <= 0 {
		interval = fabric.ReapInterval
	}
	return &Reaper{
		manager:  manager,
		interval: interval,
		logger:   log.WithComponent("reaper"),
	}
}

// Start begins the prune loop in a background goroutine.
func (r *Reaper) Start() {
	r.mu.Lock()
	r.stopCh = make(chan struct{})
	stopCh := r.stopCh
	r.mu.Unlock()

	go r.run(stopCh)
}

// Stop terminates the prune loop. The Reaper does not abort an
// in-flight prune; it simply does not schedule another.
func (r *Reaper) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopCh != nil {
		close(r.stopCh)
		r.stopCh = nil
	}
}

func (r *Reaper) run(stopCh chan struct{}) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info().Dur("interval", r.interval).Msg("reaper started")

	for {
		select {
		case <-ticker.C:
			r.manager.PruneStaleEntities()
		case <-stopCh:
			r.logger.Info().Msg("reaper stopped")
			return
		}
	}
}
