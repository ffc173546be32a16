package postgres

import (
	"context"
	"time"

	"github.com/coursehub/coursehub/internal/observability"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalyticsRepo runs the counting queries behind the analytics endpoint.
// Each count is an independent query; the aggregate is not a consistent
// snapshot and does not try to be.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewAnalyticsRepo(pool *pgxpool.Pool, prom *observability.Prom) *AnalyticsRepo {
	return &AnalyticsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *AnalyticsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *AnalyticsRepo) CountUsers(ctx context.Context) (int, error) {
	var total int
	err := r.observe("analytics.count_users", func() error {
		return r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total)
	})
	return total, err
}

func (r *AnalyticsRepo) CountUsersByType(ctx context.Context, accountType string) (int, error) {
	var total int
	err := r.observe("analytics.count_users_by_type", func() error {
		return r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE account_type = $1`, accountType).Scan(&total)
	})
	return total, err
}

// CountUsersCreatedSince uses an inclusive lower bound.
func (r *AnalyticsRepo) CountUsersCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var total int
	err := r.observe("analytics.count_users_created_since", func() error {
		return r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE created_at >= $1`, since).Scan(&total)
	})
	return total, err
}

func (r *AnalyticsRepo) CountCourses(ctx context.Context) (int, error) {
	var total int
	err := r.observe("analytics.count_courses", func() error {
		return r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&total)
	})
	return total, err
}

func (r *AnalyticsRepo) CountCoursesByStatus(ctx context.Context, status string) (int, error) {
	var total int
	err := r.observe("analytics.count_courses_by_status", func() error {
		return r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM courses WHERE status = $1`, status).Scan(&total)
	})
	return total, err
}
