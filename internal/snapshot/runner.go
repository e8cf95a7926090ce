package snapshot

import (
	"context"
	"time"

	"github.com/ayatori/workspace-chat-api/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Runner periodically captures the store and writes it to the snapshot
// database until its context is cancelled.
type Runner struct {
	db       *gorm.DB
	store    *store.Store
	interval time.Duration
	logger   *zap.Logger
}

// NewRunner creates a Runner. It does not start anything; call Run in a
// goroutine.
func NewRunner(db *gorm.DB, st *store.Store, interval time.Duration, logger *zap.Logger) *Runner {
	return &Runner{
		db:       db,
		store:    st,
		interval: interval,
		logger:   logger,
	}
}

// Run saves on every tick until ctx is cancelled, then takes one final
// save so a clean shutdown never loses more than in-flight requests.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.save()
		case <-ctx.Done():
			r.save()
			return
		}
	}
}

func (r *Runner) save() {
	if err := Save(r.db, r.store.State()); err != nil {
		r.logger.Error("snapshot save failed", zap.Error(err))
		return
	}
	r.logger.Debug("snapshot saved")
}
