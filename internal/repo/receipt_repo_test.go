package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/decoynet/go-phishsim-backend/internal/domain"
)

func newReceiptDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("receipt_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(&domain.EmailReceipt{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestEmailReceipt_CreateGetAndExpiry(t *testing.T) {
	db := newReceiptDB(t)
	ctx := context.Background()

	rec, err := CreateEmailReceipt(ctx, db, "jane@corp.example.com", "tmpl1", "k1", 200, time.Hour)
	if err != nil {
		t.Fatalf("CreateEmailReceipt: %v", err)
	}
	if rec.ID == "" || rec.Status != 200 {
		t.Fatalf("unexpected receipt: %+v", rec)
	}

	now := time.Now().UTC()
	got, err := GetEmailReceipt(ctx, db, "jane@corp.example.com", "tmpl1", "k1", now)
	if err != nil || got == nil {
		t.Fatalf("GetEmailReceipt: %v %v", got, err)
	}

	// Same tuple after the TTL window: treated as absent.
	if _, err := GetEmailReceipt(ctx, db, "jane@corp.example.com", "tmpl1", "k1", now.Add(2*time.Hour)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}

	// Different key: absent.
	if _, err := GetEmailReceipt(ctx, db, "jane@corp.example.com", "tmpl1", "other", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown key, got %v", err)
	}

	// Blank key never matches anything.
	if _, err := GetEmailReceipt(ctx, db, "jane@corp.example.com", "tmpl1", " ", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for blank key, got %v", err)
	}
}

func TestEmailReceipt_DuplicateTuple(t *testing.T) {
	db := newReceiptDB(t)
	ctx := context.Background()

	if _, err := CreateEmailReceipt(ctx, db, "r", "t", "k", 200, time.Hour); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := CreateEmailReceipt(ctx, db, "r", "t", "k", 200, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	// Same key for another recipient is a distinct tuple.
	if _, err := CreateEmailReceipt(ctx, db, "r2", "t", "k", 200, time.Hour); err != nil {
		t.Fatalf("distinct tuple create: %v", err)
	}
}

func TestGetEmailReceiptByKey(t *testing.T) {
	db := newReceiptDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := GetEmailReceiptByKey(ctx, db, "k9", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before create, got %v", err)
	}
	if _, err := GetEmailReceiptByKey(ctx, db, "", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty key, got %v", err)
	}

	if _, err := CreateEmailReceipt(ctx, db, "r", "t", "k9", 200, time.Hour); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := GetEmailReceiptByKey(ctx, db, "k9", now)
	if err != nil || got.Recipient != "r" {
		t.Fatalf("GetEmailReceiptByKey: %+v %v", got, err)
	}
	if _, err := GetEmailReceiptByKey(ctx, db, "k9", now.Add(2*time.Hour)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
}
