// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the user
// directory (TargetUser).
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/decoynet/go-phishsim-backend/internal/domain"
)

// GetUser fetches a single directory entry by its ID. If the record does not
// exist, it returns ErrNotFound. On other DB errors, the raw error is
// returned.
//
// Callers that only need a display name should treat any error as "no name
// available": the directory is advisory and never blocks click recording.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.TargetUser, error) {
	var u domain.TargetUser
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new directory entry. When id is empty a UUID is
// generated. On success, it returns the persisted TargetUser.
func CreateUser(ctx context.Context, db *gorm.DB, id, displayName, email string) (*domain.TargetUser, error) {
	if id == "" {
		id = uuid.NewString()
	}
	u := &domain.TargetUser{
		ID:          id,
		DisplayName: displayName,
		Email:       email,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}
