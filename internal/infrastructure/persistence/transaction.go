package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/hrm/backend/internal/domain/shared"
)

type txContextKey struct{}

// WithTx returns a context carrying an open transaction
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// TxFromContext returns the transaction carried by the context, if any
func TxFromContext(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txContextKey{}).(*gorm.DB)
	return tx
}

// dbFromContext resolves the handle a repository call runs on: the
// context transaction when one is open, the base connection otherwise
func dbFromContext(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}

// GormTransactionManager implements shared.TransactionManager on a GORM
// connection
type GormTransactionManager struct {
	db *gorm.DB
}

// NewGormTransactionManager creates a new transaction manager
func NewGormTransactionManager(db *gorm.DB) *GormTransactionManager {
	return &GormTransactionManager{db: db}
}

// Transact runs fn inside one transaction. A nested call joins the
// transaction already open on the context instead of starting another.
func (m *GormTransactionManager) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	if TxFromContext(ctx) != nil {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(WithTx(ctx, tx))
	})
}

var _ shared.TransactionManager = (*GormTransactionManager)(nil)
