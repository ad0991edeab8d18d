package dbtx

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Session returns a gorm handle bound to ctx. When tx is set, statements run on
// that transaction so services can commit or roll back repository work
// together with raw SQL (outbox, audit) on the same *sql.Tx.
func Session(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	session := db.WithContext(ctx)
	if tx != nil {
		session.Statement.ConnPool = tx
	}
	return session
}
