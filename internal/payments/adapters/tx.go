package adapters

import (
	"context"

	"gorm.io/gorm"

	"github.com/anouar36/B2B-TradeHub/pkg/db"
)

// GormTxRunner runs functions inside a database transaction carried in
// the context
type GormTxRunner struct {
	db *gorm.DB
}

// NewGormTxRunner creates a transaction runner on the given connection
func NewGormTxRunner(gdb *gorm.DB) *GormTxRunner {
	return &GormTxRunner{db: gdb}
}

// InTx runs fn inside a transaction, committing on nil and rolling back
// on error
func (r *GormTxRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return db.Transaction(ctx, r.db, fn)
}
