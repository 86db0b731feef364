// Support HTTP handler.
//
// POST /support validates a ticket and relays it to the helpdesk upstream.
// The upstream's answer is passed through as-is, except for 429 which is
// replaced by a fixed message.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-invoice-backend/internal/http/middleware"
	"github.com/tbourn/go-invoice-backend/internal/services"
)

// SupportRateLimitedMessage is returned when the upstream answers 429.
const SupportRateLimitedMessage = "Too many support requests. Please try again later."

// SupportReferenceHeader carries the generated ticket reference on success.
const SupportReferenceHeader = "X-Support-Reference"

// SupportRequest is the JSON payload for POST /support.
type SupportRequest struct {
	Product   string         `json:"product" binding:"required,max=100" example:"invoicer"`
	Category  string         `json:"category" binding:"required,max=100" example:"bug"`
	Message   string         `json:"message" binding:"required,max=5000" example:"The PDF total is wrong"`
	UserEmail string         `json:"user_email" binding:"required,email,max=254" example:"user@example.com"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Support godoc
// @ID          createSupportTicket
// @Summary     Submit a support ticket
// @Description Validates the ticket and forwards it to the support upstream. The upstream status and body are returned unchanged, except 429 which gets a fixed message.
// @Tags        Support
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.SupportRequest  true  "Support ticket"
//
// @Success     200  {object}  map[string]any          "Upstream response body"
// @Header      200  {string}  X-Support-Reference     "Ticket reference"
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid ticket"
// @Failure     429  {object}  handlers.ErrorResponse  "Upstream rate limited"
// @Failure     502  {object}  handlers.ErrorResponse  "Upstream unreachable"
// @Failure     503  {object}  handlers.ErrorResponse  "Support forwarding not configured"
// @Router      /support [post]
func (h *Handlers) Support(c *gin.Context) {
	var req SupportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if tooLarge(err) {
			fail(c, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "request body too large")
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "product, category, message and a valid user_email are required")
		return
	}

	res, err := h.supportSvc.Forward(c.Request.Context(), services.SupportTicket{
		Product:   req.Product,
		Category:  req.Category,
		Message:   req.Message,
		UserEmail: req.UserEmail,
		Metadata:  req.Metadata,
	})

	var upErr *services.UpstreamError
	switch {
	case err == nil:
		c.Header(SupportReferenceHeader, res.Reference)
		passthrough(c, res.Status, res.ContentType, res.Body)
	case errors.Is(err, services.ErrSupportDisabled):
		fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "support is not available")
	case errors.Is(err, services.ErrUpstreamRateLimited):
		fail(c, http.StatusTooManyRequests, ErrCodeRateLimited, SupportRateLimitedMessage)
	case errors.As(err, &upErr):
		middleware.LoggerFrom(c).Warn().Int("upstream_status", upErr.Status).Msg("support upstream rejected ticket")
		passthrough(c, upErr.Status, upErr.ContentType, upErr.Body)
	default:
		fail(c, http.StatusBadGateway, ErrCodeUpstream, "support service unreachable", err)
	}
}

// passthrough relays an upstream response body with its status.
func passthrough(c *gin.Context, status int, contentType string, body []byte) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if len(body) == 0 {
		c.Status(status)
		return
	}
	c.Data(status, contentType, body)
}
