// Scan HTTP handlers.
//
// This file exposes the scanning endpoints:
//   - POST /scan-url        (URL reputation scan, blocks until a verdict)
//   - POST /api/scan-email  (email content scan via external collaborator)
//
// Verdict payloads are passed through verbatim: the scanner owns the verdict
// schema, this service only owns the coordination.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/decoynet/go-phishsim-backend/internal/services"
)

//
// DTOs
//

// ScanURLRequest is the JSON payload for a URL reputation scan.
type ScanURLRequest struct {
	// URL is the address to submit for a full scan.
	URL string `json:"url" binding:"required" example:"https://suspicious.example.com/login"`
}

// ScanEmailRequest is the JSON payload for an email content scan.
type ScanEmailRequest struct {
	// Email is the raw message to scan.
	Email string `json:"email" binding:"required"`
}

// ScanURL godoc
// @ID          scanURL
// @Summary     Scan a URL's reputation
// @Description Submits the URL to the external reputation scanner and blocks until the scan reaches a terminal status, returning the scanner's verdict verbatim. Bounded by the configured scan ceiling.
// @Tags        Scanning
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.ScanURLRequest  true  "URL to scan"
//
// @Success     200  {object}  object "Scanner verdict (scanner-defined schema)"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse "Submission failure, poll failure, or timeout (stage-specific code)"
// @Router      /scan-url [post]
func (h *Handlers) ScanURL(c *gin.Context) {
	var req ScanURLRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "url is required")
		return
	}

	verdict, err := h.scanSvc.ScanURL(c.Request.Context(), req.URL)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrScanTimeout):
			fail(c, http.StatusInternalServerError, ErrCodeScanTimeout, "scan did not finish in time")
		case errors.Is(err, services.ErrScanSubmission):
			fail(c, http.StatusInternalServerError, ErrCodeScanSubmitFailed, "failed to submit url for scanning")
		case errors.Is(err, services.ErrScanPoll):
			fail(c, http.StatusInternalServerError, ErrCodeScanPollFailed, "failed to poll scan status")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	c.Data(http.StatusOK, "application/json", verdict)
}

// ScanEmail godoc
// @ID          scanEmail
// @Summary     Scan an email's content
// @Description Forwards the raw message to the external content-scanning collaborator and returns its verdict verbatim.
// @Tags        Scanning
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.ScanEmailRequest  true  "Message to scan"
//
// @Success     200  {object}  object "Scanner verdict (scanner-defined schema)"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse "Collaborator failure"
// @Router      /api/scan-email [post]
func (h *Handlers) ScanEmail(c *gin.Context) {
	var req ScanEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email is required")
		return
	}

	verdict, err := h.scanSvc.ScanEmail(c.Request.Context(), req.Email)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to scan email")
		return
	}

	c.Data(http.StatusOK, "application/json", verdict)
}
