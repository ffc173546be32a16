package reconcile

import (
	"context"
	"log/slog"
	"time"

	"github.com/coursehub/coursehub/internal/observability"
)

// Store is the read-only scan surface the reconciler needs.
type Store interface {
	CountOrphanProfiles(ctx context.Context) (int, error)
	CountCoursesMissingInstructor(ctx context.Context) (int, error)
	CountCoursesMissingCategory(ctx context.Context) (int, error)
	CountOrphanEnrollments(ctx context.Context) (int, error)
	CountHiddenPublished(ctx context.Context) (int, error)
}

type Config struct {
	Interval     time.Duration
	SweepTimeout time.Duration
}

// Reconciler sweeps the store for referential drift the write paths allow:
// deletes leave enrollments and category references dangling, and approval
// can publish a course that is still hidden. Sweeps only count and report,
// they never repair.
type Reconciler struct {
	cfg   Config
	store Store
	prom  *observability.Prom
	log   *slog.Logger
}

func New(cfg Config, store Store, prom *observability.Prom, log *slog.Logger) *Reconciler {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}

	if cfg.SweepTimeout <= 0 {
		cfg.SweepTimeout = 30 * time.Second
	}

	return &Reconciler{
		cfg:   cfg,
		store: store,
		prom:  prom,
		log:   log,
	}
}

// Run sweeps once immediately, then on every tick until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) error {
	r.sweep(ctx)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

type check struct {
	name  string
	count func(ctx context.Context) (int, error)
}

func (r *Reconciler) sweep(ctx context.Context) {
	sctx, cancel := context.WithTimeout(ctx, r.cfg.SweepTimeout)
	defer cancel()

	started := time.Now()

	checks := []check{
		{"orphan_profiles", r.store.CountOrphanProfiles},
		{"courses_missing_instructor", r.store.CountCoursesMissingInstructor},
		{"courses_missing_category", r.store.CountCoursesMissingCategory},
		{"orphan_enrollments", r.store.CountOrphanEnrollments},
		{"hidden_published_courses", r.store.CountHiddenPublished},
	}

	failed := false

	for _, c := range checks {
		n, err := c.count(sctx)

		if err != nil {
			failed = true
			r.log.Error("reconcile check failed", "check", c.name, "err", err)
			continue
		}

		r.prom.InconsistentRows.WithLabelValues(c.name).Set(float64(n))

		if n > 0 {
			r.log.Warn("inconsistent rows found", "check", c.name, "count", n)
		}
	}

	r.prom.ReconcileDuration.Observe(time.Since(started).Seconds())

	result := "ok"
	if failed {
		result = "error"
	}

	r.prom.ReconcileRuns.WithLabelValues(result).Inc()

	r.log.Info("reconcile sweep complete", "duration", time.Since(started), "result", result)
}
