package admin

import (
	"context"
	"time"

	"github.com/coursehub/coursehub/internal/domain/analytics"
	"github.com/coursehub/coursehub/internal/domain/course"
	"github.com/coursehub/coursehub/internal/domain/user"
)

type AnalyticsRepo interface {
	CountUsers(ctx context.Context) (int, error)
	CountUsersByType(ctx context.Context, accountType string) (int, error)
	CountUsersCreatedSince(ctx context.Context, since time.Time) (int, error)
	CountCourses(ctx context.Context) (int, error)
	CountCoursesByStatus(ctx context.Context, status string) (int, error)
}

// SnapshotCache holds the last analytics summary for a short TTL. A nil or
// unreachable cache degrades to counting on every call.
type SnapshotCache interface {
	Get(ctx context.Context) (analytics.Summary, bool)
	Set(ctx context.Context, s analytics.Summary)
	Invalidate(ctx context.Context)
}

const recentRegistrationWindow = 30 * 24 * time.Hour

// GetAnalytics collects the dashboard counts. The queries run one after
// another against live data, so the summary is not an atomic snapshot.
func (s *Service) GetAnalytics(ctx context.Context) (analytics.Summary, error) {
	if s.snapshots != nil {
		if cached, ok := s.snapshots.Get(ctx); ok {
			return cached, nil
		}
	}

	var out analytics.Summary
	var err error

	if out.Users.Total, err = s.analytics.CountUsers(ctx); err != nil {
		return analytics.Summary{}, err
	}
	if out.Users.Students, err = s.analytics.CountUsersByType(ctx, user.AccountTypeStudent); err != nil {
		return analytics.Summary{}, err
	}
	if out.Users.Instructors, err = s.analytics.CountUsersByType(ctx, user.AccountTypeInstructor); err != nil {
		return analytics.Summary{}, err
	}
	if out.Users.Admins, err = s.analytics.CountUsersByType(ctx, user.AccountTypeAdmin); err != nil {
		return analytics.Summary{}, err
	}

	if out.Courses.Total, err = s.analytics.CountCourses(ctx); err != nil {
		return analytics.Summary{}, err
	}
	if out.Courses.Published, err = s.analytics.CountCoursesByStatus(ctx, course.StatusPublished); err != nil {
		return analytics.Summary{}, err
	}
	if out.Courses.Draft, err = s.analytics.CountCoursesByStatus(ctx, course.StatusDraft); err != nil {
		return analytics.Summary{}, err
	}

	since := s.now().Add(-recentRegistrationWindow)

	if out.Users.RecentRegistrations, err = s.analytics.CountUsersCreatedSince(ctx, since); err != nil {
		return analytics.Summary{}, err
	}

	if s.snapshots != nil {
		s.snapshots.Set(ctx, out)
	}

	return out, nil
}
