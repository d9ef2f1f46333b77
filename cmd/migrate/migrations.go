package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/PhucHuuDang/GraphQL/pkg/models"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

// schemaVersion is the Go migration that builds the tables from the gorm
// models. SQL files added under -dir continue from version 2.
const schemaVersion int64 = 1

func goMigrations(db *gorm.DB) []*goose.Migration {
	return []*goose.Migration{
		goose.NewGoMigration(schemaVersion,
			&goose.GoFunc{RunTx: func(ctx context.Context, tx *sql.Tx) error {
				return bind(ctx, db, tx).AutoMigrate(models.AllModels()...)
			}},
			&goose.GoFunc{RunTx: func(ctx context.Context, tx *sql.Tx) error {
				migrator := bind(ctx, db, tx).Migrator()
				// Drop dependents first.
				all := models.AllModels()
				for i := len(all) - 1; i >= 0; i-- {
					if err := migrator.DropTable(all[i]); err != nil {
						return fmt.Errorf("failed to drop %T: %w", all[i], err)
					}
				}
				return nil
			}},
		),
	}
}

// bind returns a gorm session that runs on the goose transaction.
func bind(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	session := db.Session(&gorm.Session{NewDB: true, Context: ctx})
	session.Statement.ConnPool = tx
	return session
}
