// Static page handlers.
//
// The landing, decoy, and error documents are fixed HTML compiled into the
// binary (internal/web). Targets reach the decoy page via the 302 from
// /record-behavior; serving it directly is also fine.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/decoynet/go-phishsim-backend/internal/web"
)

const contentTypeHTML = "text/html; charset=utf-8"

// Landing serves the landing page at GET /.
func (h *Handlers) Landing(c *gin.Context) {
	c.Data(http.StatusOK, contentTypeHTML, web.Landing)
}

// DecoyPage serves the post-click decoy page at GET /phishing-link.
func (h *Handlers) DecoyPage(c *gin.Context) {
	c.Data(http.StatusOK, contentTypeHTML, web.Decoy)
}

// ErrorPage serves the error document at GET /error-404.
func (h *Handlers) ErrorPage(c *gin.Context) {
	c.Data(http.StatusOK, contentTypeHTML, web.NotFound)
}
