// Notification-email HTTP handler.
//
// This file exposes the delivery endpoint:
//   - POST /send-email  (deliver a templated campaign notification)
//
// Requests may carry an Idempotency-Key header; a retried request whose key
// matches a stored receipt is acknowledged without re-sending the email.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/decoynet/go-phishsim-backend/internal/http/middleware"
	"github.com/decoynet/go-phishsim-backend/internal/services"
)

//
// DTOs
//

// SendEmailParams carries the template id and substitution values of a send
// request, mirroring the delivery provider's parameter names.
type SendEmailParams struct {
	Template    string `json:"template" binding:"required" example:"tmpl_password_reset"`
	Fullname    string `json:"fullname" example:"Jane Doe"`
	Email       string `json:"email" example:"jane.doe@corp.example.com"`
	URL         string `json:"url" example:"https://phish.example.com/record-behavior?groupId=g1"`
	ToEmail     string `json:"to_email" binding:"required" example:"jane.doe@corp.example.com"`
	FromService string `json:"from_service" example:"IT Service Desk"`
}

// SendEmailRequest is the JSON payload for sending a notification email.
type SendEmailRequest struct {
	Params SendEmailParams `json:"params" binding:"required"`
}

// SendEmailResponse acknowledges a delivered (or replayed) notification.
type SendEmailResponse struct {
	Message string `json:"message" example:"Email sent successfully!"`
}

// SendEmail godoc
// @ID          sendEmail
// @Summary     Send a campaign notification email
// @Description Delivers a templated email through the external delivery service. With an Idempotency-Key header, retries of an already-delivered send are acknowledged without sending again.
// @Tags        Email
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Safe-retry key"
// @Param       body             body    handlers.SendEmailRequest  true  "Send payload"
//
// @Success     200  {object}  handlers.SendEmailResponse
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse "Delivery failure"
// @Router      /send-email [post]
func (h *Handlers) SendEmail(c *gin.Context) {
	var req SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Params.ToEmail) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "params.template and params.to_email are required")
		return
	}

	idemKey, _ := middleware.GetIdempotencyKey(c)

	replayed, err := h.emailSvc.SendTemplate(c.Request.Context(), idemKey, services.SendEmailInput{
		Template:    req.Params.Template,
		Fullname:    req.Params.Fullname,
		Email:       req.Params.Email,
		URL:         req.Params.URL,
		ToEmail:     req.Params.ToEmail,
		FromService: req.Params.FromService,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmptyRecipient) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "params.to_email is required")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeEmailFailed, "failed to send email")
		return
	}

	if replayed {
		lg := middleware.LoggerFrom(c)
		lg.Info().Str("template_id", req.Params.Template).Msg("email send replayed from receipt")
	}
	ok(c, http.StatusOK, SendEmailResponse{Message: "Email sent successfully!"})
}
