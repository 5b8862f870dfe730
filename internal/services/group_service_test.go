package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/decoynet/go-phishsim-backend/internal/domain"
	"github.com/decoynet/go-phishsim-backend/internal/repo"
)

// stubAdminStore records calls for pagination assertions.
type stubAdminStore struct {
	created    []string
	group      *domain.Group
	total      int64
	lastOffset int
	lastLimit  int
	countErr   error
	listErr    error
}

func (s *stubAdminStore) CreateGroup(_ context.Context, _ *gorm.DB, name string) (*domain.Group, error) {
	s.created = append(s.created, name)
	return &domain.Group{ID: "g-new", Name: name, Results: domain.ResultList{}}, nil
}

func (s *stubAdminStore) GetGroup(_ context.Context, _ *gorm.DB, id string) (*domain.Group, error) {
	if s.group == nil || s.group.ID != id {
		return nil, repo.ErrNotFound
	}
	return s.group, nil
}

func (s *stubAdminStore) CountGroups(_ context.Context, _ *gorm.DB) (int64, error) {
	return s.total, s.countErr
}

func (s *stubAdminStore) ListGroupsPage(_ context.Context, _ *gorm.DB, offset, limit int) ([]domain.Group, error) {
	s.lastOffset, s.lastLimit = offset, limit
	if s.listErr != nil {
		return nil, s.listErr
	}
	return []domain.Group{{ID: "g1"}}, nil
}

func TestGroupService_Create_DefaultName(t *testing.T) {
	st := &stubAdminStore{}
	svc := NewGroupService(nil, st)

	if _, err := svc.Create(context.Background(), "  "); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(st.created) != 1 || st.created[0] != "New campaign" {
		t.Fatalf("expected default name, got %v", st.created)
	}

	if _, err := svc.Create(context.Background(), "  Q3 wave  "); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if st.created[1] != "Q3 wave" {
		t.Fatalf("expected trimmed name, got %q", st.created[1])
	}
}

func TestGroupService_Get_NotFoundMapping(t *testing.T) {
	st := &stubAdminStore{group: &domain.Group{ID: "g1"}}
	svc := NewGroupService(nil, st)

	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
	g, err := svc.Get(context.Background(), "g1")
	if err != nil || g.ID != "g1" {
		t.Fatalf("Get: %+v %v", g, err)
	}
}

func TestGroupService_ListPage_OffsetsAndDefaults(t *testing.T) {
	st := &stubAdminStore{total: 45}
	svc := NewGroupService(nil, st)

	_, total, err := svc.ListPage(context.Background(), 3, 10)
	if err != nil || total != 45 {
		t.Fatalf("ListPage: total=%d err=%v", total, err)
	}
	if st.lastOffset != 20 || st.lastLimit != 10 {
		t.Fatalf("offset/limit = %d/%d, want 20/10", st.lastOffset, st.lastLimit)
	}

	// Invalid inputs fall back to page 1, size 20.
	if _, _, err := svc.ListPage(context.Background(), 0, -1); err != nil {
		t.Fatalf("ListPage with defaults: %v", err)
	}
	if st.lastOffset != 0 || st.lastLimit != 20 {
		t.Fatalf("default offset/limit = %d/%d, want 0/20", st.lastOffset, st.lastLimit)
	}
}

func TestGroupService_ListPage_EmptySkipsQuery(t *testing.T) {
	st := &stubAdminStore{total: 0, lastLimit: -1}
	svc := NewGroupService(nil, st)

	items, total, err := svc.ListPage(context.Background(), 1, 20)
	if err != nil || total != 0 {
		t.Fatalf("ListPage: total=%d err=%v", total, err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", items)
	}
	if st.lastLimit != -1 {
		t.Fatalf("list query must be skipped when the table is empty")
	}
}

func TestGroupService_ListPage_CountError(t *testing.T) {
	boom := errors.New("db down")
	svc := NewGroupService(nil, &stubAdminStore{countErr: boom})

	if _, _, err := svc.ListPage(context.Background(), 1, 20); !errors.Is(err, boom) {
		t.Fatalf("expected count error, got %v", err)
	}
}
