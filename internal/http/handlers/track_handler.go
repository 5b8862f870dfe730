// Click-tracking HTTP handler.
//
// This file defines the Handlers wiring shared by all endpoint files in this
// package, plus the tracked-redirect endpoint:
//   - GET /record-behavior   (record a click, then redirect to the decoy page)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/decoynet/go-phishsim-backend/internal/domain"
	"github.com/decoynet/go-phishsim-backend/internal/http/middleware"
	"github.com/decoynet/go-phishsim-backend/internal/services"
	"github.com/decoynet/go-phishsim-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// ClickRecorder defines the click-reconciliation operation consumed by the
// tracking endpoint.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ClickRecorder interface {
	// RecordClick merges one click event into the group's results array.
	RecordClick(ctx context.Context, groupID, userID, templateID, clickID string) (*domain.Result, error)
}

// ScanService defines the URL-reputation and content-scan operations.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts; ScanURL in particular
// blocks for the duration of the scan.
type ScanService interface {
	// ScanURL blocks until the scanner reaches a terminal verdict for url.
	ScanURL(ctx context.Context, url string) (json.RawMessage, error)
	// ScanEmail forwards a raw message to the content-scanning collaborator.
	ScanEmail(ctx context.Context, email string) (json.RawMessage, error)
}

// EmailService defines the notification-delivery operation.
type EmailService interface {
	// SendTemplate delivers one templated email, replaying on a matching
	// idempotency receipt instead of re-sending.
	SendTemplate(ctx context.Context, idemKey string, in services.SendEmailInput) (replayed bool, err error)
}

// GroupService defines the operator-facing group lifecycle operations.
type GroupService interface {
	// Create starts a new campaign group with an optional name.
	Create(ctx context.Context, name string) (*domain.Group, error)
	// Get returns one group with its results.
	Get(ctx context.Context, id string) (*domain.Group, error)
	// ListPage returns a page of groups and the total count.
	ListPage(ctx context.Context, page, pageSize int) ([]domain.Group, int64, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for tracking, scanning, email delivery, and
// group administration. It depends on abstract service interfaces to keep
// transport concerns separate from business logic.
type Handlers struct {
	clickSvc ClickRecorder
	scanSvc  ScanService
	emailSvc EmailService
	groupSvc GroupService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(clickSvc ClickRecorder, scanSvc ScanService, emailSvc EmailService, groupSvc GroupService) *Handlers {
	return &Handlers{clickSvc: clickSvc, scanSvc: scanSvc, emailSvc: emailSvc, groupSvc: groupSvc}
}

//
// Helpers
//

// clampPagination reads the page and page_size query params and applies the
// shared pagination policy.
func clampPagination(c *gin.Context) (page, pageSize int) {
	return utils.PageParams(c.Query("page"), c.Query("page_size"))
}

//
// Handlers
//

// RecordBehavior godoc
// @ID          recordBehavior
// @Summary     Record a simulated-phishing click
// @Description Records the click against the group's results and redirects the target to the decoy page. The redirect only happens after a successful write; a failed write returns an error instead of silently redirecting.
// @Tags        Tracking
// @Produce     json
//
// @Param       groupId     query  string  true  "Campaign group ID"
// @Param       userId      query  string  true  "Target user ID"
// @Param       templateId  query  string  true  "Template ID of the clicked variant"
// @Param       uniqueId    query  string  false "Client-supplied click token"
//
// @Success     302  {string} string "Redirect to /phishing-link"
// @Failure     400  {object} handlers.ErrorResponse "Missing identifiers"
// @Failure     404  {object} handlers.ErrorResponse "Group not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /record-behavior [get]
func (h *Handlers) RecordBehavior(c *gin.Context) {
	groupID := c.Query("groupId")
	userID := c.Query("userId")
	templateID := c.Query("templateId")
	clickID := c.Query("uniqueId")

	if groupID == "" || userID == "" || templateID == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "groupId, userId and templateId are required")
		return
	}

	res, err := h.clickSvc.RecordClick(c.Request.Context(), groupID, userID, templateID, clickID)
	if err != nil {
		if errors.Is(err, services.ErrGroupNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "group not found")
			return
		}
		// A failed write must surface as an error; redirecting here would
		// hide a lost result from the operator.
		fail(c, http.StatusInternalServerError, ErrCodeRecordFailed, err.Error())
		return
	}

	lg := middleware.LoggerFrom(c)
	lg.Info().
		Str("group_id", groupID).
		Str("template_id", templateID).
		Str("result_id", res.ID).
		Msg("click recorded")

	c.Redirect(http.StatusFound, "/phishing-link")
}
