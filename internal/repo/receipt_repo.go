// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the EmailReceipt
// model used to implement safe-retry semantics for POST /send-email.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/decoynet/go-phishsim-backend/internal/domain"
)

// ErrDuplicate indicates that a receipt already exists for the given
// (recipient, template_id, key) tuple.
var ErrDuplicate = errors.New("duplicate")

// GetEmailReceipt returns a non-expired receipt or ErrNotFound.
func GetEmailReceipt(ctx context.Context, db *gorm.DB, recipient, templateID, key string, now time.Time) (*domain.EmailReceipt, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.EmailReceipt
	err := db.WithContext(ctx).
		Where("recipient = ? AND template_id = ? AND key = ? AND expires_at > ?", recipient, templateID, key, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &rec, err
}

// GetEmailReceiptByKey returns any non-expired receipt carrying the given
// idempotency key, or ErrNotFound. Used by the HTTP idempotency middleware,
// which sees only the header, not the request body.
func GetEmailReceiptByKey(ctx context.Context, db *gorm.DB, key string, now time.Time) (*domain.EmailReceipt, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.EmailReceipt
	err := db.WithContext(ctx).
		Where("key = ? AND expires_at > ?", key, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &rec, err
}

// CreateEmailReceipt inserts a receipt and returns ErrDuplicate on unique violation.
func CreateEmailReceipt(ctx context.Context, db *gorm.DB, recipient, templateID, key string, status int, ttl time.Duration) (*domain.EmailReceipt, error) {
	now := time.Now().UTC()
	rec := &domain.EmailReceipt{
		ID:         uuid.NewString(),
		Recipient:  recipient,
		TemplateID: templateID,
		Key:        key,
		Status:     status,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(low, "unique constraint failed") ||
			strings.Contains(low, "constraint failed: unique") {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}
