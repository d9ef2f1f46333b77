package repository

import (
	"fmt"
	"regexp"
	"slices"

	"gorm.io/gorm"
)

var identifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)

type condition struct {
	expr string
	args []interface{}
}

type order struct {
	column string
	desc   bool
}

// Query describes a filtered, ordered selection of T. Every method returns a
// new Query; the receiver is never modified, so partially built queries can
// be shared and extended safely.
type Query[T any] struct {
	conds    []condition
	selects  []condition
	orders   []order
	preloads []string
	scopes   []func(*gorm.DB) *gorm.DB
	limit    int
	active   bool
}

func NewQuery[T any]() Query[T] {
	return Query[T]{}
}

// Where adds a raw SQL predicate with ? placeholders.
func (q Query[T]) Where(expr string, args ...interface{}) Query[T] {
	q.conds = append(slices.Clip(q.conds), condition{expr: expr, args: args})
	return q
}

func (q Query[T]) Eq(column string, value interface{}) Query[T] {
	return q.Where(quote(column)+" = ?", value)
}

func (q Query[T]) In(column string, values interface{}) Query[T] {
	return q.Where(quote(column)+" IN ?", values)
}

func (q Query[T]) OrderBy(column string, desc bool) Query[T] {
	q.orders = append(slices.Clip(q.orders), order{column: quote(column), desc: desc})
	return q
}

// Select replaces the selected columns of row fetches. Counts ignore it.
func (q Query[T]) Select(expr string, args ...interface{}) Query[T] {
	q.selects = append(slices.Clip(q.selects), condition{expr: expr, args: args})
	return q
}

func (q Query[T]) Preload(association string) Query[T] {
	q.preloads = append(slices.Clip(q.preloads), association)
	return q
}

func (q Query[T]) Limit(n int) Query[T] {
	q.limit = n
	return q
}

// Active excludes soft-deleted rows. It has no effect on types without
// soft-delete columns.
func (q Query[T]) Active() Query[T] {
	q.active = true
	return q
}

// Scope attaches a gorm scope for predicates the builder cannot express.
func (q Query[T]) Scope(fn func(*gorm.DB) *gorm.DB) Query[T] {
	q.scopes = append(slices.Clip(q.scopes), fn)
	return q
}

// HasConditions reports whether the query narrows the table at all.
func (q Query[T]) HasConditions() bool {
	return len(q.conds) > 0 || len(q.scopes) > 0
}

func (q Query[T]) filter(db *gorm.DB, softDelete bool) *gorm.DB {
	for _, c := range q.conds {
		db = db.Where(c.expr, c.args...)
	}
	if q.active && softDelete {
		db = db.Where("is_deleted = ?", false)
	}
	if len(q.scopes) > 0 {
		db = db.Scopes(q.scopes...)
	}
	return db
}

func (q Query[T]) apply(db *gorm.DB, softDelete bool) *gorm.DB {
	db = q.filter(db, softDelete)
	for _, s := range q.selects {
		db = db.Select(s.expr, s.args...)
	}
	for _, p := range q.preloads {
		db = db.Preload(p)
	}
	for _, o := range q.orders {
		dir := "ASC"
		if o.desc {
			dir = "DESC"
		}
		db = db.Order(fmt.Sprintf("%s %s", o.column, dir))
	}
	if q.limit > 0 {
		db = db.Limit(q.limit)
	}
	return db
}

// quote panics on anything that is not a plain column reference so that
// column names never carry SQL.
func quote(column string) string {
	if !identifier.MatchString(column) {
		panic(fmt.Sprintf("repository: invalid column name %q", column))
	}
	return column
}
