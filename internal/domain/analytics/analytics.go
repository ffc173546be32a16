package analytics

// Summary is the point-in-time metrics snapshot returned by the analytics
// endpoint. Counts are collected with separate queries and are not atomic
// with respect to each other.
type Summary struct {
	Users   UserMetrics   `json:"users"`
	Courses CourseMetrics `json:"courses"`
}

type UserMetrics struct {
	Total               int `json:"total"`
	Students            int `json:"students"`
	Instructors         int `json:"instructors"`
	Admins              int `json:"admins"`
	RecentRegistrations int `json:"recentRegistrations"` // trailing 30 days
}

type CourseMetrics struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Draft     int `json:"draft"`
}
