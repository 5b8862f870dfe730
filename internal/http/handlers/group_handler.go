// Group HTTP handlers.
//
// This file exposes REST endpoints for campaign-group resources:
//   - POST /groups       (create)
//   - GET  /groups       (list, paginated, ETag support)
//   - GET  /groups/{id}  (fetch with results)
//   - GET  /debug/groups (diagnostic dump to the log)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/decoynet/go-phishsim-backend/internal/domain"
	"github.com/decoynet/go-phishsim-backend/internal/http/middleware"
	"github.com/decoynet/go-phishsim-backend/internal/repo"
	"github.com/decoynet/go-phishsim-backend/internal/services"
)

//
// DTOs
//

// CreateGroupRequest is the JSON payload for creating a campaign group.
type CreateGroupRequest struct {
	// Name optionally labels the cohort; a default is used when empty.
	Name string `json:"name" example:"Q3 awareness wave"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListGroupsResponse wraps a page of groups and pagination information.
type ListGroupsResponse struct {
	Groups     []domain.Group `json:"groups"`
	Pagination Pagination     `json:"pagination"`
}

//
// Handlers
//

// CreateGroup godoc
// @ID          createGroup
// @Summary     Create a campaign group
// @Description Creates a group with an empty results array and returns the group resource.
// @Tags        Groups
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateGroupRequest  true  "Create group payload"
//
// @Success     201  {object}  domain.Group
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /groups [post]
func (h *Handlers) CreateGroup(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	name := strings.TrimSpace(req.Name)

	g, err := h.groupSvc.Create(c.Request.Context(), name)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, g)
}

// ListGroups godoc
// @ID          listGroups
// @Summary     List campaign groups (paginated)
// @Description Returns a page of groups. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Groups
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListGroupsResponse
// @Header      200  {string} ETag           "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /groups [get]
func (h *Handlers) ListGroups(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort). The page coordinates are part of the
	// validator so distinct pages never share one; a cache that keys ETags
	// loosely must not serve page 2 a 304 minted for page 1.
	var db *gorm.DB
	if svc, ok := h.groupSvc.(*services.GroupService); ok {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.GroupsStats(ctx, db)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"groups:%d:%d:%d:%d"`, page, pageSize, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	// Fetch page.
	items, total, err := h.groupSvc.ListPage(ctx, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	resp := ListGroupsResponse{
		Groups: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	}
	ok(c, http.StatusOK, resp)
}

// GetGroup godoc
// @ID          getGroup
// @Summary     Fetch one campaign group
// @Description Returns the group and its full results array.
// @Tags        Groups
// @Produce     json
//
// @Param       id  path  string  true  "Group ID"
//
// @Success     200  {object} domain.Group
// @Failure     404  {object} handlers.ErrorResponse "Group not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /groups/{id} [get]
func (h *Handlers) GetGroup(c *gin.Context) {
	g, err := h.groupSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrGroupNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "group not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, g)
}

// DebugGroups godoc
// @ID          debugGroups
// @Summary     Log a diagnostic snapshot of groups
// @Description Writes group ids and result counts to the service log. Not a production data endpoint; the response carries no body.
// @Tags        Groups
// @Produce     json
//
// @Success     204  {string} string "No Content"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /debug/groups [get]
func (h *Handlers) DebugGroups(c *gin.Context) {
	items, total, err := h.groupSvc.ListPage(c.Request.Context(), 1, 100)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	lg := middleware.LoggerFrom(c)
	for _, g := range items {
		lg.Info().
			Str("group_id", g.ID).
			Str("name", g.Name).
			Int("results", len(g.Results)).
			Msg("group snapshot")
	}
	lg.Info().Int64("total", total).Msg("group store reachable")

	noContent(c)
}
