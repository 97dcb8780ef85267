package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Fields maps column names to values for inserts and updates. A nil value
// writes NULL.
type Fields map[string]any

func (f Fields) sortedKeys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Filter is a WHERE clause written with ? placeholders.
type Filter struct {
	Where string
	Args  []any
}

func byID(id int64) Filter { return Filter{Where: "id = ?", Args: []any{id}} }

// Table is a typed record store over one table with an integer id column.
// Every method takes the executor explicitly so the same Table serves both
// the pool and an open transaction.
type Table[T any] struct {
	name    string
	columns string
}

func NewTable[T any](name string, columns ...string) Table[T] {
	return Table[T]{name: name, columns: strings.Join(columns, ", ")}
}

// Get returns the row with id. The bool is false when no row matches.
func (t Table[T]) Get(ctx context.Context, q sqlx.ExtContext, id int64) (T, bool, error) {
	return t.First(ctx, q, byID(id))
}

func (t Table[T]) First(ctx context.Context, q sqlx.ExtContext, f Filter) (T, bool, error) {
	var out T
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s LIMIT 1", t.columns, t.name, f.Where)

	err := sqlx.GetContext(ctx, q, &out, q.Rebind(query), f.Args...)
	if errors.Is(err, sql.ErrNoRows) {
		return out, false, nil
	}
	if err != nil {
		return out, false, fmt.Errorf("select %s: %w", t.name, err)
	}
	return out, true, nil
}

// List returns matching rows in order. An empty Filter matches everything.
func (t Table[T]) List(ctx context.Context, q sqlx.ExtContext, f Filter, orderBy string) ([]T, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", t.columns, t.name)
	if f.Where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(f.Where)
	}
	if orderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(orderBy)
	}

	out := make([]T, 0)
	if err := sqlx.SelectContext(ctx, q, &out, q.Rebind(b.String()), f.Args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	return out, nil
}

// Insert writes a row and returns its generated id.
func (t Table[T]) Insert(ctx context.Context, q sqlx.ExtContext, fields Fields) (int64, error) {
	keys := fields.sortedKeys()
	args := make([]any, 0, len(keys))
	marks := make([]string, 0, len(keys))
	for _, k := range keys {
		args = append(args, fields[k])
		marks = append(marks, "?")
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		t.name, strings.Join(keys, ", "), strings.Join(marks, ", "))

	var id int64
	if err := q.QueryRowxContext(ctx, q.Rebind(query), args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert %s: %w", t.name, err)
	}
	return id, nil
}

// Update sets fields on the row with id and reports how many rows changed.
func (t Table[T]) Update(ctx context.Context, q sqlx.ExtContext, id int64, fields Fields) (int64, error) {
	return t.UpdateWhere(ctx, q, fields, byID(id))
}

func (t Table[T]) UpdateWhere(ctx context.Context, q sqlx.ExtContext, fields Fields, f Filter) (int64, error) {
	if f.Where == "" {
		return 0, fmt.Errorf("update %s: refusing update without filter", t.name)
	}

	keys := fields.sortedKeys()
	sets := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys)+len(f.Args))
	for _, k := range keys {
		sets = append(sets, k+" = ?")
		args = append(args, fields[k])
	}
	args = append(args, f.Args...)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s", t.name, strings.Join(sets, ", "), f.Where)
	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", t.name, err)
	}
	return rowsAffected(res)
}

// Delete removes the row with id and reports how many rows went away.
func (t Table[T]) Delete(ctx context.Context, q sqlx.ExtContext, id int64) (int64, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", t.name)
	res, err := q.ExecContext(ctx, q.Rebind(query), id)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", t.name, err)
	}
	return rowsAffected(res)
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// nullableID turns an optional id into a driver value.
func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
