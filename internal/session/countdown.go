package session

import (
	"context"
	"time"
)

// countdown owns at most one running ticker. Every start or stop bumps the
// generation, so a tick already in flight from a cancelled ticker can be
// recognised and dropped. Callers serialise access.
type countdown struct {
	interval time.Duration
	gen      uint64
	cancel   context.CancelFunc
}

// start replaces any running ticker with a new one calling onTick with the
// new generation. No ticker runs when the interval is zero.
func (cd *countdown) start(onTick func(gen uint64)) uint64 {
	cd.stop()
	gen := cd.gen
	if cd.interval <= 0 {
		return gen
	}

	ctx, cancel := context.WithCancel(context.Background())
	cd.cancel = cancel
	interval := cd.interval

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				onTick(gen)
			}
		}
	}()
	return gen
}

func (cd *countdown) stop() {
	cd.gen++
	if cd.cancel != nil {
		cd.cancel()
		cd.cancel = nil
	}
}

func (cd *countdown) current(gen uint64) bool {
	return gen == cd.gen
}
