// Package http provides HTTP handlers for waitlist operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lavoo/waitlist/internal/httputil"
	customValidation "github.com/lavoo/waitlist/internal/validation"
	"github.com/lavoo/waitlist/internal/waitlist/http/dto"
	"github.com/lavoo/waitlist/internal/waitlist/usecase"
)

// WaitlistHandler handles HTTP requests for waitlist operations.
type WaitlistHandler struct {
	waitlistUseCase usecase.WaitlistUseCase
	logger          *slog.Logger
}

// NewWaitlistHandler creates a new waitlist handler with required dependencies.
func NewWaitlistHandler(waitlistUseCase usecase.WaitlistUseCase, logger *slog.Logger) *WaitlistHandler {
	return &WaitlistHandler{
		waitlistUseCase: waitlistUseCase,
		logger:          logger,
	}
}

// SignupHandler registers an email on the waitlist.
// POST /api/waitlist
// Returns 201 Created for a new signup. A repeat submission of the same email
// answers 200 OK with success=false and the original registration time, so
// frontends can show a friendly message without treating it as an error.
func (h *WaitlistHandler) SignupHandler(c *gin.Context) {
	var req dto.SignupRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.waitlistUseCase.Signup(c.Request.Context(), &usecase.SignupInput{
		Email:          req.Email,
		Name:           req.Name,
		ReferralSource: req.ReferralSource,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	statusCode := http.StatusCreated
	if result.AlreadyRegistered {
		statusCode = http.StatusOK
	}

	c.JSON(statusCode, dto.MapSignupResultToResponse(result))
}

// CountHandler returns the total number of waitlist entries.
// GET /api/waitlist/count
func (h *WaitlistHandler) CountHandler(c *gin.Context) {
	count, err := h.waitlistUseCase.Count(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewCountResponse(count))
}
