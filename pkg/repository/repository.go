// Package repository provides a generic data-access layer over gorm models:
// typed queries, pagination, soft delete, upserts and bulk operations.
package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/PhucHuuDang/GraphQL/pkg/database"
	"github.com/PhucHuuDang/GraphQL/pkg/errs"
	"github.com/PhucHuuDang/GraphQL/pkg/models"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type identifiable interface {
	GetID() string
}

// UpsertInput finds a row with Where; the row is updated with Update when
// present and Create is inserted otherwise.
type UpsertInput[T any] struct {
	Where  Query[T]
	Create *T
	Update map[string]interface{}
}

type Repository[T any] struct {
	db         *gorm.DB
	uow        *database.UnitOfWork
	entity     string
	softDelete bool
	tel        telemetry
}

func New[T any](db *gorm.DB) *Repository[T] {
	var zero T
	_, softDelete := interface{}(&zero).(models.SoftDeletable)
	return &Repository[T]{
		db:         db,
		uow:        database.NewUnitOfWork(db),
		entity:     reflect.TypeOf(zero).Name(),
		softDelete: softDelete,
		tel:        newTelemetry(),
	}
}

func (r *Repository[T]) Entity() string { return r.entity }

func (r *Repository[T]) conn(ctx context.Context) *gorm.DB {
	return database.Conn(ctx, r.db).Model(new(T))
}

func dbErr(err error) error {
	if err == nil {
		return nil
	}
	return errs.FromDatabase(err)
}

func idOf(v interface{}) string {
	if e, ok := v.(identifiable); ok {
		return e.GetID()
	}
	return ""
}

func requireID(id string) error {
	if id == "" {
		return errs.BadRequest("id is required")
	}
	return nil
}

func (r *Repository[T]) notFound(id string) error {
	return errs.NotFound(fmt.Sprintf("%s with id %s not found", r.entity, id))
}

// FindByID returns nil without error when no row matches. Soft-deleted rows
// are still returned.
func (r *Repository[T]) FindByID(ctx context.Context, id string, opts ...Query[T]) (out *T, err error) {
	ctx, done := r.tel.start(ctx, r.entity, "FindByID")
	defer func() { done(err) }()

	if err = requireID(id); err != nil {
		return nil, err
	}
	q := NewQuery[T]()
	if len(opts) > 0 {
		q = opts[0]
	}
	return r.first(ctx, q.Where("id = ?", id))
}

func (r *Repository[T]) FindByIDOrFail(ctx context.Context, id string, opts ...Query[T]) (*T, error) {
	out, err := r.FindByID(ctx, id, opts...)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, r.notFound(id)
	}
	return out, nil
}

func (r *Repository[T]) first(ctx context.Context, q Query[T]) (*T, error) {
	var out T
	err := q.apply(r.conn(ctx), r.softDelete).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dbErr(err)
	}
	return &out, nil
}

func (r *Repository[T]) FindOne(ctx context.Context, q Query[T]) (out *T, err error) {
	ctx, done := r.tel.start(ctx, r.entity, "FindOne")
	defer func() { done(err) }()
	return r.first(ctx, q)
}

func (r *Repository[T]) FindOneOrFail(ctx context.Context, q Query[T]) (*T, error) {
	out, err := r.FindOne(ctx, q)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errs.NotFound(r.entity + " not found")
	}
	return out, nil
}

func (r *Repository[T]) FindAll(ctx context.Context, q Query[T]) (out []T, err error) {
	ctx, done := r.tel.start(ctx, r.entity, "FindAll")
	defer func() { done(err) }()

	out = make([]T, 0)
	if err = q.apply(r.conn(ctx), r.softDelete).Find(&out).Error; err != nil {
		return nil, dbErr(err)
	}
	return out, nil
}

// FindAllActive is FindAll with soft-deleted rows excluded.
func (r *Repository[T]) FindAllActive(ctx context.Context, q Query[T]) ([]T, error) {
	return r.FindAll(ctx, q.Active())
}

// FindManyPaginated fetches one page and the total match count. Outside a
// transaction both queries run concurrently.
func (r *Repository[T]) FindManyPaginated(ctx context.Context, q Query[T], p PageParams) (out *Page[T], err error) {
	ctx, done := r.tel.start(ctx, r.entity, "FindManyPaginated")
	defer func() { done(err) }()

	if err = p.Validate(); err != nil {
		return nil, err
	}

	var (
		rows  = make([]T, 0, p.Limit)
		total int64
	)
	fetch := func(ctx context.Context) error {
		return q.apply(r.conn(ctx), r.softDelete).
			Offset(p.Offset()).
			Limit(p.Limit).
			Find(&rows).Error
	}
	count := func(ctx context.Context) error {
		return q.filter(r.conn(ctx), r.softDelete).Count(&total).Error
	}

	if _, inTx := database.TxFrom(ctx); inTx {
		if err = fetch(ctx); err == nil {
			err = count(ctx)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return fetch(gctx) })
		g.Go(func() error { return count(gctx) })
		err = g.Wait()
	}
	if err != nil {
		return nil, dbErr(err)
	}

	return &Page[T]{Data: rows, Meta: NewMeta(total, p.Page, p.Limit)}, nil
}

func (r *Repository[T]) Count(ctx context.Context, q Query[T]) (total int64, err error) {
	ctx, done := r.tel.start(ctx, r.entity, "Count")
	defer func() { done(err) }()

	err = dbErr(q.filter(r.conn(ctx), r.softDelete).Count(&total).Error)
	return total, err
}

func (r *Repository[T]) Exists(ctx context.Context, q Query[T]) (bool, error) {
	n, err := r.Count(ctx, q.Limit(1))
	return n > 0, err
}

func (r *Repository[T]) Create(ctx context.Context, entity *T) (out *T, err error) {
	ctx, done := r.tel.start(ctx, r.entity, "Create")
	defer func() { done(err) }()

	if entity == nil || reflect.ValueOf(*entity).IsZero() {
		return nil, errs.BadRequest("data is required to create " + r.entity)
	}
	if err = database.Conn(ctx, r.db).Create(entity).Error; err != nil {
		return nil, dbErr(err)
	}
	return entity, nil
}

func (r *Repository[T]) CreateMany(ctx context.Context, entities []T) (out *BulkResult, err error) {
	ctx, done := r.tel.start(ctx, r.entity, "CreateMany")
	defer func() { done(err) }()

	if len(entities) == 0 {
		return nil, errs.BadRequest("at least one record is required")
	}
	if err = database.Conn(ctx, r.db).CreateInBatches(&entities, 100).Error; err != nil {
		return nil, dbErr(err)
	}

	out = &BulkResult{Count: len(entities), AffectedIDs: make([]string, 0, len(entities))}
	for i := range entities {
		out.AffectedIDs = append(out.AffectedIDs, idOf(&entities[i]))
	}
	return out, nil
}

// Update applies column/value pairs to one row and returns the reloaded row.
func (r *Repository[T]) Update(ctx context.Context, id string, fields map[string]interface{}) (out *T, err error) {
	ctx, done := r.tel.start(ctx, r.entity, "Update")
	defer func() { done(err) }()

	if err = requireID(id); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errs.BadRequest("no fields to update")
	}
	return r.update(ctx, id, fields)
}

func (r *Repository[T]) update(ctx context.Context, id string, fields map[string]interface{}) (*T, error) {
	res := r.conn(ctx).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, dbErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, r.notFound(id)
	}
	out, err := r.first(ctx, NewQuery[T]().Where("id = ?", id))
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, r.notFound(id)
	}
	return out, nil
}

func (r *Repository[T]) UpdateMany(ctx context.Context, q Query[T], fields map[string]interface{}) (out *BulkResult, err error) {
	ctx, done := r.tel.start(ctx, r.entity, "UpdateMany")
	defer func() { done(err) }()

	if len(fields) == 0 {
		return nil, errs.BadRequest("no fields to update")
	}
	err = r.Transaction(ctx, func(ctx context.Context) error {
		ids, err := r.ids(ctx, q)
		if err != nil {
			return err
		}
		out = &BulkResult{Count: len(ids), AffectedIDs: ids}
		if len(ids) == 0 {
			return nil
		}
		return dbErr(r.conn(ctx).Where("id IN ?", ids).Updates(fields).Error)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository[T]) ids(ctx context.Context, q Query[T]) ([]string, error) {
	ids := make([]string, 0)
	if err := q.filter(r.conn(ctx), r.softDelete).Pluck("id", &ids).Error; err != nil {
		return nil, dbErr(err)
	}
	return ids, nil
}

func (r *Repository[T]) Upsert(ctx context.Context, in UpsertInput[T]) (out *T, err error) {
	ctx, done := r.tel.start(ctx, r.entity, "Upsert")
	defer func() { done(err) }()

	if err = validateUpsert(in); err != nil {
		return nil, err
	}
	err = r.Transaction(ctx, func(ctx context.Context) error {
		out, err = r.upsert(ctx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func validateUpsert[T any](in UpsertInput[T]) error {
	switch {
	case !in.Where.HasConditions():
		return errs.BadRequest("upsert requires a where condition")
	case in.Create == nil:
		return errs.BadRequest("upsert requires create data")
	case len(in.Update) == 0:
		return errs.BadRequest("upsert requires update data")
	}
	return nil
}

func (r *Repository[T]) upsert(ctx context.Context, in UpsertInput[T]) (*T, error) {
	existing, err := r.first(ctx, in.Where)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return r.update(ctx, idOf(existing), in.Update)
	}
	if err := database.Conn(ctx, r.db).Create(in.Create).Error; err != nil {
		return nil, dbErr(err)
	}
	return in.Create, nil
}

// BulkUpsert runs every upsert in one transaction; the first failure rolls
// all of them back.
func (r *Repository[T]) BulkUpsert(ctx context.Context, inputs []UpsertInput[T]) (out []*T, err error) {
	ctx, done := r.tel.start(ctx, r.entity, "BulkUpsert")
	defer func() { done(err) }()

	if len(inputs) == 0 {
		return nil, errs.BadRequest("at least one upsert is required")
	}
	for i := range inputs {
		if err = validateUpsert(inputs[i]); err != nil {
			return nil, err
		}
	}

	err = r.Transaction(ctx, func(ctx context.Context) error {
		out = make([]*T, 0, len(inputs))
		for i := range inputs {
			row, err := r.upsert(ctx, inputs[i])
			if err != nil {
				return err
			}
			out = append(out, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the row permanently and returns it as it was.
func (r *Repository[T]) Delete(ctx context.Context, id string) (out *T, err error) {
	ctx, done := r.tel.start(ctx, r.entity, "Delete")
	defer func() { done(err) }()

	if err = requireID(id); err != nil {
		return nil, err
	}
	out, err = r.first(ctx, NewQuery[T]().Where("id = ?", id))
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, r.notFound(id)
	}
	if err = database.Conn(ctx, r.db).Delete(out).Error; err != nil {
		return nil, dbErr(err)
	}
	return out, nil
}

func (r *Repository[T]) DeleteMany(ctx context.Context, q Query[T]) (out *BulkResult, err error) {
	ctx, done := r.tel.start(ctx, r.entity, "DeleteMany")
	defer func() { done(err) }()

	if !q.HasConditions() {
		return nil, errs.BadRequest("refusing to delete without a condition")
	}
	err = r.Transaction(ctx, func(ctx context.Context) error {
		ids, err := r.ids(ctx, q)
		if err != nil {
			return err
		}
		out = &BulkResult{Count: len(ids), AffectedIDs: ids}
		if len(ids) == 0 {
			return nil
		}
		return dbErr(database.Conn(ctx, r.db).Where("id IN ?", ids).Delete(new(T)).Error)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SoftDelete flags the row as deleted and stamps deleted_at.
func (r *Repository[T]) SoftDelete(ctx context.Context, id string) (out *T, err error) {
	ctx, done := r.tel.start(ctx, r.entity, "SoftDelete")
	defer func() { done(err) }()

	if err = r.requireSoftDelete(id); err != nil {
		return nil, err
	}
	return r.update(ctx, id, map[string]interface{}{
		"is_deleted": true,
		"deleted_at": time.Now(),
	})
}

func (r *Repository[T]) Restore(ctx context.Context, id string) (out *T, err error) {
	ctx, done := r.tel.start(ctx, r.entity, "Restore")
	defer func() { done(err) }()

	if err = r.requireSoftDelete(id); err != nil {
		return nil, err
	}
	return r.update(ctx, id, map[string]interface{}{
		"is_deleted": false,
		"deleted_at": nil,
	})
}

func (r *Repository[T]) requireSoftDelete(id string) error {
	if !r.softDelete {
		return errs.BadRequest(r.entity + " does not support soft delete")
	}
	return requireID(id)
}

// Increment adds by to a numeric column without touching updated_at.
func (r *Repository[T]) Increment(ctx context.Context, id, column string, by int) (out *T, err error) {
	ctx, done := r.tel.start(ctx, r.entity, "Increment")
	defer func() { done(err) }()

	if err = requireID(id); err != nil {
		return nil, err
	}
	col := quote(column)
	res := r.conn(ctx).Where("id = ?", id).UpdateColumn(col, gorm.Expr(col+" + ?", by))
	if res.Error != nil {
		return nil, dbErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, r.notFound(id)
	}
	return r.first(ctx, NewQuery[T]().Where("id = ?", id))
}

// Transaction runs fn atomically. Calls nested inside another transaction
// join it.
func (r *Repository[T]) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.uow.Do(ctx, fn)
}

// Search returns rows where any of fields contains term, ignoring case. An
// empty term matches everything q matches.
func (r *Repository[T]) Search(ctx context.Context, term string, fields []string, q Query[T]) ([]T, error) {
	q, err := withSearch(q, term, fields)
	if err != nil {
		return nil, err
	}
	return r.FindAll(ctx, q)
}

func (r *Repository[T]) SearchPaginated(ctx context.Context, term string, fields []string, q Query[T], p PageParams) (*Page[T], error) {
	q, err := withSearch(q, term, fields)
	if err != nil {
		return nil, err
	}
	return r.FindManyPaginated(ctx, q, p)
}

func withSearch[T any](q Query[T], term string, fields []string) (Query[T], error) {
	if term == "" || len(fields) == 0 {
		return q, nil
	}
	expr, args, err := searchPredicate(term, fields)
	if err != nil {
		return q, errs.BadRequest("invalid search")
	}
	return q.Where(expr, args...), nil
}
