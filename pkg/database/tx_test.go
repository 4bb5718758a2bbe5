package database_test

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tair/grocery-pos/pkg/database"
)

type widget struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: database.NewGormLogger()})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&widget{}); err != nil {
		t.Fatal(err)
	}
	return db
}

func countWidgets(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&widget{}).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

func TestAfterCommitOutsideTransactionRunsImmediately(t *testing.T) {
	ran := false
	database.AfterCommit(context.Background(), func(context.Context) { ran = true })
	if !ran {
		t.Fatal("hook should run immediately without a transaction")
	}
}

func TestAfterCommitRunsOnlyAfterCommit(t *testing.T) {
	db := openDB(t)
	tr := database.NewTransactor(db)

	var calls []string
	err := tr.WithinTransaction(context.Background(), func(ctx context.Context) error {
		database.AfterCommit(ctx, func(context.Context) { calls = append(calls, "hook") })
		calls = append(calls, "body")
		return database.Conn(ctx, db).Create(&widget{Name: "a"}).Error
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(calls) != 2 || calls[0] != "body" || calls[1] != "hook" {
		t.Fatalf("unexpected call order %v", calls)
	}

	calls = nil
	boom := errors.New("boom")
	err = tr.WithinTransaction(context.Background(), func(ctx context.Context) error {
		database.AfterCommit(ctx, func(context.Context) { calls = append(calls, "hook") })
		if err := database.Conn(ctx, db).Create(&widget{Name: "b"}).Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	if len(calls) != 0 {
		t.Fatalf("hook ran for a rolled back transaction: %v", calls)
	}
	if n := countWidgets(t, db); n != 1 {
		t.Fatalf("want 1 widget after rollback, got %d", n)
	}
}

func TestNestedTransactionJoinsOuter(t *testing.T) {
	db := openDB(t)
	tr := database.NewTransactor(db)
	boom := errors.New("outer failed")

	err := tr.WithinTransaction(context.Background(), func(ctx context.Context) error {
		inner := tr.WithinTransaction(ctx, func(ctx context.Context) error {
			if !database.InTransaction(ctx) {
				t.Error("inner call should see the outer transaction")
			}
			return database.Conn(ctx, db).Create(&widget{Name: "inner"}).Error
		})
		if inner != nil {
			return inner
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want outer error, got %v", err)
	}
	if n := countWidgets(t, db); n != 0 {
		t.Fatalf("inner write survived the outer rollback: %d rows", n)
	}
}
