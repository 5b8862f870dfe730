// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Group model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a group is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - When a results write loses an optimistic-concurrency race,
//     UpdateGroupResults returns ErrVersionConflict; callers re-read the
//     group and recompute their write.
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// The results column is only ever replaced wholesale, guarded by the group's
// version counter. Replacing the array (rather than the whole row) keeps
// concurrently-written unrelated columns intact; the version guard keeps
// concurrent array replacements from silently dropping each other.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/decoynet/go-phishsim-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrVersionConflict is returned by UpdateGroupResults when the group row was
// modified between the caller's read and its write. The caller owns the retry.
var ErrVersionConflict = errors.New("group version conflict")

// CreateGroup inserts a new Group with the given name and an empty results
// array. The group ID is a randomly generated UUID (string), and CreatedAt is
// set to UTC. On success, it returns the persisted Group.
func CreateGroup(ctx context.Context, db *gorm.DB, name string) (*domain.Group, error) {
	g := &domain.Group{
		ID:        uuid.NewString(),
		Name:      name,
		Results:   domain.ResultList{},
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(g).Error; err != nil {
		return nil, err
	}
	return g, nil
}

// GetGroup fetches a single group by its ID. If the record does not exist,
// it returns ErrNotFound. On other DB errors, the raw error is returned.
func GetGroup(ctx context.Context, db *gorm.DB, id string) (*domain.Group, error) {
	var g domain.Group
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// CountGroups returns the total number of groups. On DB error, it returns
// the error.
func CountGroups(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Group{}).
		Count(&total).Error
	return total, err
}

// ListGroupsPage returns a paginated slice of groups, ordered by creation
// time descending. Use CountGroups to obtain the total for pagination
// metadata. On DB error, it returns the error.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListGroupsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Group, error) {
	var out []domain.Group
	err := db.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdateGroupResults replaces the full results array of the group identified
// by id, but only if the row still carries the version the caller read
// (compare-and-swap). The version is incremented on success so any concurrent
// writer holding the old version fails.
//
// Returns ErrVersionConflict when zero rows were affected: either a
// concurrent writer bumped the version first, or the group was deleted in the
// meantime. Callers distinguish the two by re-reading the group.
func UpdateGroupResults(ctx context.Context, db *gorm.DB, id string, version int64, results domain.ResultList) error {
	res := db.WithContext(ctx).
		Model(&domain.Group{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]any{
			"results": results,
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}
