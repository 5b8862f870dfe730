// Package services – GroupService
//
// This file implements the GroupService, which manages the operator-facing
// lifecycle of campaign groups: creating cohorts, fetching a group with its
// recorded results, and listing groups with pagination. Click-side mutation
// of a group's results belongs to ResultService, not here.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/decoynet/go-phishsim-backend/internal/domain"
	"github.com/decoynet/go-phishsim-backend/internal/repo"
)

// GroupAdminStore defines the repository contract required by GroupService.
type GroupAdminStore interface {
	// CreateGroup inserts a new group with an empty results array.
	CreateGroup(ctx context.Context, db *gorm.DB, name string) (*domain.Group, error)

	// GetGroup fetches a group by ID, returning repo.ErrNotFound when absent.
	GetGroup(ctx context.Context, db *gorm.DB, id string) (*domain.Group, error)

	// CountGroups returns the total number of groups for pagination.
	CountGroups(ctx context.Context, db *gorm.DB) (int64, error)

	// ListGroupsPage returns a page of groups.
	ListGroupsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Group, error)
}

// GroupService provides group-level operations for campaign operators.
type GroupService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the group repository used by this service.
	Repo GroupAdminStore
}

// NewGroupService constructs a GroupService.
func NewGroupService(db *gorm.DB, r GroupAdminStore) *GroupService {
	return &GroupService{DB: db, Repo: r}
}

// Create inserts a new campaign group with the provided name. Names are
// trimmed; a default fallback is applied when blank.
func (s *GroupService) Create(ctx context.Context, name string) (*domain.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "New campaign"
	}
	return s.Repo.CreateGroup(ctx, s.DB, name)
}

// Get returns one group with its full results array, or ErrGroupNotFound.
func (s *GroupService) Get(ctx context.Context, id string) (*domain.Group, error) {
	g, err := s.Repo.GetGroup(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return g, nil
}

// ListPage returns a page of groups and the total count. It applies defaults
// for invalid page/pageSize.
func (s *GroupService) ListPage(ctx context.Context, page, pageSize int) ([]domain.Group, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountGroups(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Group{}, 0, nil
	}

	items, err := s.Repo.ListGroupsPage(ctx, s.DB, offset, pageSize)
	return items, total, err
}
