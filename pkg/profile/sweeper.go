package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"github.com/dotsetgreg/leadpilot/pkg/logger"
)

// Sweeper runs periodic purge passes over the session store on a cron
// schedule. The expirable LRU already reaps in the background; the
// sweep exists so idle-session cleanup shows up in the logs and covers
// entries whose TTL was refreshed without a real mutation.
type Sweeper struct {
	store    *Store
	schedule string
}

func NewSweeper(store *Store, schedule string) (*Sweeper, error) {
	gron := gronx.New()
	if !gron.IsValid(schedule) {
		return nil, fmt.Errorf("invalid sweep schedule %q", schedule)
	}
	return &Sweeper{store: store, schedule: schedule}, nil
}

// Run blocks until ctx is canceled, checking the schedule once per
// minute and purging when due.
func (s *Sweeper) Run(ctx context.Context) {
	logger.InfoCF("sweeper", "Session sweeper started", map[string]interface{}{
		"schedule": s.schedule,
	})

	gron := gronx.New()
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.InfoC("sweeper", "Session sweeper stopped")
			return
		case now := <-ticker.C:
			due, err := gron.IsDue(s.schedule, now)
			if err != nil {
				logger.WarnCF("sweeper", "Schedule check failed", map[string]interface{}{"error": err.Error()})
				continue
			}
			if !due {
				continue
			}
			purged := s.store.PurgeIdle()
			logger.InfoCF("sweeper", "Sweep completed", map[string]interface{}{
				"purged":        purged,
				"live_sessions": s.store.Len(),
			})
		}
	}
}
