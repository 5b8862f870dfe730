package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/decoynet/go-phishsim-backend/internal/domain"
	"github.com/decoynet/go-phishsim-backend/internal/repo"
)

// stubGroupStore is an in-memory GroupStore with scriptable conflict behavior.
type stubGroupStore struct {
	group        *domain.Group
	getErr       error
	conflictsFor int // first N update calls return ErrVersionConflict
	updateErr    error
	updates      int
}

func (s *stubGroupStore) GetGroup(_ context.Context, _ *gorm.DB, id string) (*domain.Group, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.group == nil || s.group.ID != id {
		return nil, repo.ErrNotFound
	}
	cp := *s.group
	cp.Results = append(domain.ResultList{}, s.group.Results...)
	return &cp, nil
}

func (s *stubGroupStore) UpdateGroupResults(_ context.Context, _ *gorm.DB, id string, version int64, results domain.ResultList) error {
	s.updates++
	if s.updateErr != nil {
		return s.updateErr
	}
	if s.conflictsFor > 0 {
		s.conflictsFor--
		s.group.Version++ // a concurrent writer won this round
		return repo.ErrVersionConflict
	}
	if version != s.group.Version {
		return repo.ErrVersionConflict
	}
	s.group.Results = results
	s.group.Version++
	return nil
}

// stubUserDir resolves one known user id.
type stubUserDir struct {
	id   string
	name string
	err  error
}

func (s *stubUserDir) GetUser(_ context.Context, _ *gorm.DB, id string) (*domain.TargetUser, error) {
	if s.err != nil {
		return nil, s.err
	}
	if id != s.id {
		return nil, repo.ErrNotFound
	}
	return &domain.TargetUser{ID: id, DisplayName: s.name}, nil
}

func newClickFixture(results domain.ResultList) (*ResultService, *stubGroupStore) {
	gs := &stubGroupStore{group: &domain.Group{ID: "g1", Name: "g", Results: results}}
	svc := NewResultService(nil, gs, &stubUserDir{id: "u1", name: "Jane Doe"})
	return svc, gs
}

func TestRecordClick_AppendsResultWithAllFields(t *testing.T) {
	svc, gs := newClickFixture(nil)

	before := time.Now().UTC().Add(-time.Second)
	res, err := svc.RecordClick(context.Background(), "g1", "u1", "t1", "click-1")
	if err != nil {
		t.Fatalf("RecordClick: %v", err)
	}
	if res.ID != "click-1" || res.User != "u1" || res.TemplateID != "t1" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Username != "Jane Doe" {
		t.Fatalf("expected resolved display name, got %q", res.Username)
	}
	if res.Comment != domain.ClickComment {
		t.Fatalf("unexpected comment: %q", res.Comment)
	}
	if res.UpdatedAt.Before(before) {
		t.Fatalf("timestamp not stamped: %v", res.UpdatedAt)
	}
	if len(gs.group.Results) != 1 {
		t.Fatalf("stored results = %+v", gs.group.Results)
	}
}

func TestRecordClick_GeneratesIDWhenMissing(t *testing.T) {
	svc, gs := newClickFixture(nil)

	res, err := svc.RecordClick(context.Background(), "g1", "u1", "t1", "")
	if err != nil {
		t.Fatalf("RecordClick: %v", err)
	}
	if res.ID == "" {
		t.Fatalf("stored results must always carry an id")
	}
	if gs.group.Results[0].ID != res.ID {
		t.Fatalf("stored id mismatch: %+v", gs.group.Results)
	}
}

func TestRecordClick_RepeatReplacesNotDuplicates(t *testing.T) {
	svc, gs := newClickFixture(nil)
	ctx := context.Background()

	first, err := svc.RecordClick(ctx, "g1", "u1", "t1", "c1")
	if err != nil {
		t.Fatalf("first click: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	second, err := svc.RecordClick(ctx, "g1", "u1", "t1", "c2")
	if err != nil {
		t.Fatalf("second click: %v", err)
	}

	if len(gs.group.Results) != 1 {
		t.Fatalf("repeat click must not duplicate: %+v", gs.group.Results)
	}
	got := gs.group.Results[0]
	if got.ID != "c2" {
		t.Fatalf("expected the later click to win, got %+v", got)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Fatalf("timestamp must refresh: %v !> %v", second.UpdatedAt, first.UpdatedAt)
	}
}

func TestRecordClick_DistinctPairsAreIsolated(t *testing.T) {
	svc, gs := newClickFixture(nil)
	ctx := context.Background()

	cases := []struct{ user, tmpl string }{
		{"u1", "t1"}, {"u1", "t2"}, {"u2", "t1"},
	}
	for _, c := range cases {
		if _, err := svc.RecordClick(ctx, "g1", c.user, c.tmpl, ""); err != nil {
			t.Fatalf("click %s/%s: %v", c.user, c.tmpl, err)
		}
	}
	if len(gs.group.Results) != 3 {
		t.Fatalf("distinct (user, template) pairs must coexist: %+v", gs.group.Results)
	}

	// A repeat for one pair leaves the other two untouched.
	if _, err := svc.RecordClick(ctx, "g1", "u1", "t1", ""); err != nil {
		t.Fatalf("repeat click: %v", err)
	}
	if len(gs.group.Results) != 3 {
		t.Fatalf("repeat must only replace its own pair: %+v", gs.group.Results)
	}
}

func TestRecordClick_GroupNotFound(t *testing.T) {
	svc, gs := newClickFixture(nil)

	_, err := svc.RecordClick(context.Background(), "other", "u1", "t1", "")
	if !errors.Is(err, ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
	if gs.updates != 0 {
		t.Fatalf("no write may happen for a missing group")
	}
}

func TestRecordClick_DirectoryFailureStillRecords(t *testing.T) {
	gs := &stubGroupStore{group: &domain.Group{ID: "g1"}}
	svc := NewResultService(nil, gs, &stubUserDir{err: errors.New("directory down")})

	res, err := svc.RecordClick(context.Background(), "g1", "u1", "t1", "")
	if err != nil {
		t.Fatalf("RecordClick must survive directory failure: %v", err)
	}
	if res.Username != "" {
		t.Fatalf("expected empty username on lookup failure, got %q", res.Username)
	}
}

func TestRecordClick_RetriesOnVersionConflict(t *testing.T) {
	svc, gs := newClickFixture(nil)
	gs.conflictsFor = 2

	if _, err := svc.RecordClick(context.Background(), "g1", "u1", "t1", ""); err != nil {
		t.Fatalf("RecordClick after conflicts: %v", err)
	}
	if gs.updates != 3 {
		t.Fatalf("expected 2 conflicted attempts + 1 success, got %d", gs.updates)
	}
}

func TestRecordClick_ConflictBudgetExhausted(t *testing.T) {
	svc, gs := newClickFixture(nil)
	gs.conflictsFor = 100
	svc.MaxAttempts = 3

	_, err := svc.RecordClick(context.Background(), "g1", "u1", "t1", "")
	if !errors.Is(err, ErrReconcileConflict) {
		t.Fatalf("expected ErrReconcileConflict, got %v", err)
	}
	if gs.updates != 3 {
		t.Fatalf("expected exactly MaxAttempts writes, got %d", gs.updates)
	}
}

func TestRecordClick_NonConflictWriteErrorPropagates(t *testing.T) {
	svc, gs := newClickFixture(nil)
	boom := errors.New("disk full")
	gs.updateErr = boom

	_, err := svc.RecordClick(context.Background(), "g1", "u1", "t1", "")
	if !errors.Is(err, boom) {
		t.Fatalf("expected underlying write error, got %v", err)
	}
	if gs.updates != 1 {
		t.Fatalf("non-conflict errors must not be retried, got %d writes", gs.updates)
	}
}
