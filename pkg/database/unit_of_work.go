package database

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// UnitOfWork runs callbacks inside one database transaction carried by the
// context, so repositories called from the callback join it transparently.
type UnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Do commits when fn returns nil and rolls back otherwise. A nested call
// reuses the transaction already bound to ctx. Panics roll back and propagate.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := TxFrom(ctx); ok {
		return fn(ctx)
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(WithTx(ctx, tx)); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// Conn returns the transaction bound to ctx or the base pool.
func (u *UnitOfWork) Conn(ctx context.Context) *gorm.DB {
	return Conn(ctx, u.db)
}

func (u *UnitOfWork) DB() *gorm.DB {
	return u.db
}

func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func TxFrom(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	return tx, ok && tx != nil
}

func Conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := TxFrom(ctx); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
