package postgres

import (
	"context"

	"github.com/coursehub/coursehub/internal/observability"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReconcileRepo holds the consistency scans the reconciler runs. Entity
// references are plain id columns with no FK enforcement, so deletes can
// leave rows pointing at nothing; these queries find them. Read-only.
type ReconcileRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewReconcileRepo(pool *pgxpool.Pool, prom *observability.Prom) *ReconcileRepo {
	return &ReconcileRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *ReconcileRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

// CountOrphanProfiles finds profiles no user references, the leftover of a
// cascade delete that removed the profile's owner reference but failed before
// removing the profile (or vice versa).
func (r *ReconcileRepo) CountOrphanProfiles(ctx context.Context) (int, error) {
	var total int
	err := r.observe("reconcile.count_orphan_profiles", func() error {
		return r.pool.QueryRow(ctx, `
			SELECT COUNT(*)
			FROM profiles p
			WHERE NOT EXISTS (SELECT 1 FROM users u WHERE u.profile_id = p.id)
		`).Scan(&total)
	})
	return total, err
}

func (r *ReconcileRepo) CountCoursesMissingInstructor(ctx context.Context) (int, error) {
	var total int
	err := r.observe("reconcile.count_courses_missing_instructor", func() error {
		return r.pool.QueryRow(ctx, `
			SELECT COUNT(*)
			FROM courses c
			WHERE NOT EXISTS (SELECT 1 FROM users u WHERE u.id = c.instructor_id)
		`).Scan(&total)
	})
	return total, err
}

func (r *ReconcileRepo) CountCoursesMissingCategory(ctx context.Context) (int, error) {
	var total int
	err := r.observe("reconcile.count_courses_missing_category", func() error {
		return r.pool.QueryRow(ctx, `
			SELECT COUNT(*)
			FROM courses c
			WHERE c.category_id IS NOT NULL
			  AND NOT EXISTS (SELECT 1 FROM categories cat WHERE cat.id = c.category_id)
		`).Scan(&total)
	})
	return total, err
}

// CountOrphanEnrollments finds enrollment rows whose course or student has
// been deleted (deleteCourse/deleteUser do not cascade into enrollments).
func (r *ReconcileRepo) CountOrphanEnrollments(ctx context.Context) (int, error) {
	var total int
	err := r.observe("reconcile.count_orphan_enrollments", func() error {
		return r.pool.QueryRow(ctx, `
			SELECT COUNT(*)
			FROM course_enrollments e
			WHERE NOT EXISTS (SELECT 1 FROM courses c WHERE c.id = e.course_id)
			   OR NOT EXISTS (SELECT 1 FROM users u WHERE u.id = e.user_id)
		`).Scan(&total)
	})
	return total, err
}

// CountHiddenPublished finds courses where approval broke the visibility and
// status coupling: status Published while is_visible is still false.
func (r *ReconcileRepo) CountHiddenPublished(ctx context.Context) (int, error) {
	var total int
	err := r.observe("reconcile.count_hidden_published", func() error {
		return r.pool.QueryRow(ctx, `
			SELECT COUNT(*)
			FROM courses
			WHERE status = 'Published' AND is_visible = FALSE
		`).Scan(&total)
	})
	return total, err
}
