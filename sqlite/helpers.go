package sqlite

import (
	"fmt"
	"strings"
	"time"
)

// timeLayout is fixed-width so stored timestamps sort in time order as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime parses a stored timestamp. The error names the column.
func parseTime(value, column string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", column, err)
	}
	return t, nil
}

// selectQuery builds a SELECT with optional equality filters, an order
// and pagination.
type selectQuery struct {
	sql   strings.Builder
	args  []any
	where bool
}

func newSelectQuery(columns, table string) *selectQuery {
	q := &selectQuery{}
	fmt.Fprintf(&q.sql, "SELECT %s FROM %s", columns, table)
	return q
}

// eq filters on column = value.
func (q *selectQuery) eq(column string, value any) {
	if q.where {
		q.sql.WriteString(" AND ")
	} else {
		q.sql.WriteString(" WHERE ")
		q.where = true
	}
	q.sql.WriteString(column + " = ?")
	q.args = append(q.args, value)
}

func (q *selectQuery) orderBy(clause string) {
	q.sql.WriteString(" ORDER BY " + clause)
}

// page appends LIMIT and OFFSET for values > 0. SQLite only accepts
// OFFSET after a LIMIT, so an offset alone gets LIMIT -1.
func (q *selectQuery) page(limit, offset int) {
	switch {
	case limit > 0:
		q.sql.WriteString(" LIMIT ?")
		q.args = append(q.args, limit)
	case offset > 0:
		q.sql.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		q.sql.WriteString(" OFFSET ?")
		q.args = append(q.args, offset)
	}
}

func (q *selectQuery) String() string {
	return q.sql.String()
}
