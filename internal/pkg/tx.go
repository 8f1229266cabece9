package pkg

import (
	"context"

	"gorm.io/gorm"
)

// txKey is the context key under which the active transaction is stored.
type txKey struct{}

// DB returns the transaction carried by ctx, or db bound to ctx when there is none.
func DB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := TxFromContext(ctx); tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// TxFromContext returns the transaction stored in ctx, if any.
func TxFromContext(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return nil
	}
	tx, _ := ctx.Value(txKey{}).(*gorm.DB)
	return tx
}

// InTx reports whether ctx carries a transaction.
func InTx(ctx context.Context) bool {
	return TxFromContext(ctx) != nil
}

// WithTx executes fn within a database transaction carried by the context
// passed to fn. It commits on success, rolls back on error or panic.
//
// Transactions are flat: when ctx already carries a transaction, fn runs
// directly against it and the outer caller decides commit or rollback.
func WithTx(ctx context.Context, db *gorm.DB, fn func(ctx context.Context) error) error {
	if InTx(ctx) {
		return fn(ctx)
	}

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
