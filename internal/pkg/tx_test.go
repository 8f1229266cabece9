package pkg

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type ledgerRow struct {
	ID   uint   `gorm:"primaryKey"`
	Note string `gorm:"size:100"`
}

func openLedger(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	// :memory: is per connection.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.AutoMigrate(&ledgerRow{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func countRows(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&ledgerRow{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestWithTx_Outcomes(t *testing.T) {
	errFail := errors.New("write rejected")

	tests := []struct {
		name      string
		fn        func(ctx context.Context, db *gorm.DB) error
		wantErr   error
		wantPanic any
		wantRows  int64
	}{
		{
			name: "commit",
			fn: func(ctx context.Context, db *gorm.DB) error {
				return DB(ctx, db).Create(&ledgerRow{Note: "kept"}).Error
			},
			wantRows: 1,
		},
		{
			name: "error rolls back",
			fn: func(ctx context.Context, db *gorm.DB) error {
				if err := DB(ctx, db).Create(&ledgerRow{Note: "dropped"}).Error; err != nil {
					return err
				}
				return errFail
			},
			wantErr: errFail,
		},
		{
			name: "panic rolls back and propagates",
			fn: func(ctx context.Context, db *gorm.DB) error {
				DB(ctx, db).Create(&ledgerRow{Note: "dropped"})
				panic("ledger exploded")
			},
			wantPanic: "ledger exploded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := openLedger(t)

			var err error
			recovered := func() (r any) {
				defer func() { r = recover() }()
				err = WithTx(t.Context(), db, func(ctx context.Context) error {
					if !InTx(ctx) {
						t.Error("fn context does not carry the transaction")
					}
					return tt.fn(ctx, db)
				})
				return nil
			}()

			if recovered != tt.wantPanic {
				t.Fatalf("panic = %v, want %v", recovered, tt.wantPanic)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got := countRows(t, db); got != tt.wantRows {
				t.Errorf("rows = %d, want %d", got, tt.wantRows)
			}
		})
	}
}

func TestWithTx_BeginFailure(t *testing.T) {
	db := openLedger(t)
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	called := false
	err = WithTx(t.Context(), db, func(context.Context) error {
		called = true
		return nil
	})
	if err == nil {
		t.Fatal("expected an error when the transaction cannot start")
	}
	if called {
		t.Error("fn ran without a transaction")
	}
}

func TestWithTx_NestedJoinsOuter(t *testing.T) {
	db := openLedger(t)
	errOuter := errors.New("outer failed")

	err := WithTx(t.Context(), db, func(outer context.Context) error {
		err := WithTx(outer, db, func(inner context.Context) error {
			if TxFromContext(inner) != TxFromContext(outer) {
				t.Error("nested call started a second transaction")
			}
			return DB(inner, db).Create(&ledgerRow{Note: "nested"}).Error
		})
		if err != nil {
			t.Fatalf("nested: %v", err)
		}
		return errOuter
	})
	if !errors.Is(err, errOuter) {
		t.Fatalf("err = %v, want %v", err, errOuter)
	}
	if got := countRows(t, db); got != 0 {
		t.Errorf("nested write survived the outer rollback: %d rows", got)
	}
}

func TestDB_OutsideTransaction(t *testing.T) {
	db := openLedger(t)
	ctx := t.Context()

	if InTx(ctx) {
		t.Fatal("plain context reports a transaction")
	}
	if err := DB(ctx, db).Create(&ledgerRow{Note: "direct"}).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := countRows(t, DB(ctx, db)); got != 1 {
		t.Errorf("rows = %d, want 1", got)
	}
}
