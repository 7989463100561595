package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"eventmind/internal/app"
)

// SweepWorker runs the expired-event teardown on a fixed cadence. Events
// whose teardown fails stay selectable and are retried on the next cycle.
type SweepWorker struct {
	lifecycle *app.LifecycleService
	interval  time.Duration
	logger    *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSweepWorker(lifecycle *app.LifecycleService, interval time.Duration, logger *slog.Logger) *SweepWorker {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &SweepWorker{
		lifecycle: lifecycle,
		interval:  interval,
		logger:    logger,
	}
}

func (w *SweepWorker) Start(ctx context.Context) {
	if w.cancel != nil {
		return
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				w.runOnce(workerCtx)
			}
		}
	}()
}

func (w *SweepWorker) runOnce(ctx context.Context) {
	runID := uuid.NewString()
	w.logger.Info("expired event sweep started", "run_id", runID)

	deleted, failed := w.lifecycle.SweepExpired(ctx)

	w.logger.Info("expired event sweep finished",
		"run_id", runID, "deleted", deleted, "failed", failed)
}

func (w *SweepWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
