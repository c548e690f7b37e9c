package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/database"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// isUniqueViolation reports a 23505 error, optionally restricted to one constraint or index.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// newID returns a time-ordered UUIDv7 string.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// whereBuilder collects AND-ed conditions. Each "?" in a clause is bound to the
// next positional argument.
type whereBuilder struct {
	clauses []string
	args    []interface{}
}

func newWhere(clause string, args ...interface{}) *whereBuilder {
	w := &whereBuilder{}
	w.add(clause, args...)
	return w
}

func (w *whereBuilder) add(clause string, args ...interface{}) {
	for _, arg := range args {
		w.args = append(w.args, arg)
		clause = strings.Replace(clause, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.clauses = append(w.clauses, clause)
}

func (w *whereBuilder) sql() string {
	if len(w.clauses) == 0 {
		return "TRUE"
	}
	return strings.Join(w.clauses, " AND ")
}

// listQuery is the shape shared by every paginated list.
type listQuery struct {
	columns string
	from    string
	where   *whereBuilder
	// tiebreak keeps the order stable across pages, usually the id column.
	tiebreak string
}

// fetchPage counts the matching rows and loads one page ordered by page.OrderBy().
func fetchPage[T any](ctx context.Context, q database.Querier, lq listQuery, page pagination.Params, scan func(pgx.Row) (T, error)) ([]T, int64, error) {
	where := lq.where.sql()

	var total int64
	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", lq.from, where)
	if err := q.QueryRow(ctx, countSQL, lq.where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count rows: %w", err)
	}
	if total == 0 {
		return []T{}, 0, nil
	}

	args := make([]interface{}, 0, len(lq.where.args)+2)
	args = append(args, lq.where.args...)
	args = append(args, page.PerPage, page.Offset())

	order := page.OrderBy()
	if lq.tiebreak != "" {
		order += ", " + lq.tiebreak
	}
	listSQL := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		lq.columns, lq.from, where, order, len(args)-1, len(args))

	rows, err := q.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list rows: %w", err)
	}
	defer rows.Close()

	items := make([]T, 0, page.PerPage)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return items, total, nil
}

// collect scans every row of an unpaginated query.
func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()

	var items []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return items, nil
}

// setList builds the SET clause of a partial update; only non-nil fields are written.
type setList struct {
	clauses []string
	args    []interface{}
}

func (s *setList) set(column string, value *string) {
	if value == nil {
		return
	}
	s.args = append(s.args, *value)
	s.clauses = append(s.clauses, fmt.Sprintf("%s = $%d", column, len(s.args)))
}

func (s *setList) empty() bool {
	return len(s.clauses) == 0
}

// sql renders "SET ..., updated_at = NOW()" and returns the next free placeholder index.
func (s *setList) sql() (string, int) {
	return "SET " + strings.Join(append(s.clauses, "updated_at = NOW()"), ", "), len(s.args) + 1
}
