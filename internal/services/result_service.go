// Package services – ResultService
//
// This file implements the ResultService, which reconciles click events into
// a group's results array. A click replaces any prior result for the same
// (user, template) pair and appends a fresh one, so a target who clicks the
// same link N times leaves exactly one result carrying the latest click time.
//
// The write is a whole-array replacement guarded by the group's version
// counter (optimistic concurrency). When a concurrent click wins the race,
// reconciliation is recomputed from a fresh read; the retry budget bounds the
// loop so pathological contention surfaces as an error instead of spinning.
//
// Observability: RecordClick is OpenTelemetry-instrumented; spans include
// group/user/template identifiers.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/decoynet/go-phishsim-backend/internal/domain"
	"github.com/decoynet/go-phishsim-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// GroupStore defines the repository contract required by ResultService.
// Implementations are responsible for persistence of group aggregates.
type GroupStore interface {
	// GetGroup fetches a group by ID, returning repo.ErrNotFound when absent.
	GetGroup(ctx context.Context, db *gorm.DB, id string) (*domain.Group, error)

	// UpdateGroupResults replaces the group's results array if and only if
	// the row still carries the given version (compare-and-swap). Returns
	// repo.ErrVersionConflict when a concurrent writer won.
	UpdateGroupResults(ctx context.Context, db *gorm.DB, id string, version int64, results domain.ResultList) error
}

// UserDirectory defines the lookup contract for resolving display names.
// The directory is advisory: any failure is treated as "no name available".
type UserDirectory interface {
	// GetUser fetches a directory entry by ID.
	GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.TargetUser, error)
}

// ResultService records simulated-phishing click events against groups.
// It enforces the at-most-one-result-per-(user, template) invariant and owns
// the optimistic-concurrency retry loop around the results write.
type ResultService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Groups is the group repository used by this service.
	Groups GroupStore
	// Users is the user directory used for best-effort name resolution.
	Users UserDirectory

	// MaxAttempts bounds the reconcile-and-write loop. Values <= 0 default
	// to 5 attempts.
	MaxAttempts int
}

// NewResultService constructs a ResultService with the default retry budget.
func NewResultService(db *gorm.DB, groups GroupStore, users UserDirectory) *ResultService {
	return &ResultService{
		DB:          db,
		Groups:      groups,
		Users:       users,
		MaxAttempts: 5,
	}
}

// RecordClick reconciles a click event into the group identified by groupID.
//
// Semantics:
//   - The group must exist; otherwise ErrGroupNotFound (and no write occurs).
//   - The target's display name is resolved best-effort; on any lookup
//     failure the click is still recorded with an empty username.
//   - Any existing result for (userID, templateID) is removed and a single
//     fresh result is appended, stamped with the current UTC time. Repeating
//     the same click is therefore idempotent in count and refreshes the
//     timestamp.
//   - clickID becomes the result's id; when empty, a UUID is generated so
//     stored results always carry an id.
//
// Concurrency:
//   - The results write is a version-guarded whole-array replacement. On a
//     version conflict the group is re-read and the merge recomputed, up to
//     MaxAttempts times; after that ErrReconcileConflict is returned.
//
// On success the newly stored result is returned.
func (s *ResultService) RecordClick(ctx context.Context, groupID, userID, templateID, clickID string) (*domain.Result, error) {
	tr := otel.Tracer("services/ResultService")
	ctx, span := tr.Start(ctx, "RecordClick",
		trace.WithAttributes(
			attribute.String("group.id", groupID),
			attribute.String("user.id", userID),
			attribute.String("template.id", templateID),
		),
	)
	defer span.End()

	if clickID == "" {
		clickID = uuid.NewString()
	}

	// Best-effort display name; failures here must never block recording.
	username := ""
	if u, err := s.Users.GetUser(ctx, s.DB, userID); err == nil {
		username = u.DisplayName
	}

	attempts := s.MaxAttempts
	if attempts <= 0 {
		attempts = 5
	}

	for i := 0; i < attempts; i++ {
		g, err := s.Groups.GetGroup(ctx, s.DB, groupID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrGroupNotFound
			}
			return nil, err
		}

		newResult := domain.Result{
			ID:         clickID,
			User:       userID,
			Username:   username,
			TemplateID: templateID,
			Comment:    domain.ClickComment,
			UpdatedAt:  time.Now().UTC(),
		}
		merged := mergeResult(g.Results, newResult)

		err = s.Groups.UpdateGroupResults(ctx, s.DB, groupID, g.Version, merged)
		if err == nil {
			return &newResult, nil
		}
		if !errors.Is(err, repo.ErrVersionConflict) {
			return nil, err
		}
		// Lost the race: re-read and recompute against the winner's array.
	}

	return nil, ErrReconcileConflict
}

// mergeResult returns existing with any entry matching the (user, template)
// pair of r removed, and r appended. Order of unrelated entries is preserved.
func mergeResult(existing domain.ResultList, r domain.Result) domain.ResultList {
	merged := make(domain.ResultList, 0, len(existing)+1)
	for _, e := range existing {
		if e.User == r.User && e.TemplateID == r.TemplateID {
			continue
		}
		merged = append(merged, e)
	}
	return append(merged, r)
}
