package observability

import (
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// ObserveDB times a single repository operation and records its outcome.
// Every repo wraps its queries in this, so the per-op latency and error-class
// series cover the whole store surface.
func (p *Prom) ObserveDB(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	if err != nil {
		p.DbErrorsTotal.WithLabelValues(op, dbErrClass(err)).Inc()
		p.DbQueryDuration.WithLabelValues(op, "error").Observe(elapsed.Seconds())
		return err
	}

	p.DbQueryDuration.WithLabelValues(op, "ok").Observe(elapsed.Seconds())
	return err
}

// dbErrClass buckets a query error into a low-cardinality label value.
func dbErrClass(err error) string {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return "unique_violation"
		case "40001":
			return "serialization_failure"
		case "40P01":
			return "deadlock"
		case "57014":
			return "query_canceled"
		}
		return "pg_" + pgErr.Code
	}

	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline"):
		return "timeout"
	case strings.Contains(msg, "connection"):
		return "connection"
	}

	return "unknown"
}
