package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/trace-ai/trace-api/internal/dto"
	"github.com/trace-ai/trace-api/internal/service"
	"github.com/trace-ai/trace-api/internal/utils"
)

// ReviewHandler exposes the code-review endpoints.
type ReviewHandler struct {
	reviews    service.ReviewService
	consultant service.ConsultantService
	dashboard  service.DashboardService
	logger     zerolog.Logger
}

// NewReviewHandler constructs the handler.
func NewReviewHandler(reviews service.ReviewService, consultant service.ConsultantService, dashboard service.DashboardService, logger zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews:    reviews,
		consultant: consultant,
		dashboard:  dashboard,
		logger:     logger.With().Str("component", "review_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group. The submit
// route additionally carries the review rate limiter.
func (h *ReviewHandler) Register(router fiber.Router, submitLimiter fiber.Handler) {
	if submitLimiter != nil {
		router.Post("/submit", submitLimiter, h.submit)
	} else {
		router.Post("/submit", h.submit)
	}
	router.Get("/history", h.history)
	router.Get("/dashboard", h.getDashboard)
	router.Get("/:id", h.get)
	router.Post("/:id/chat", h.chat)
}

func (h *ReviewHandler) submit(c *fiber.Ctx) error {
	var payload dto.SubmitReviewRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	response, err := h.reviews.Submit(c.Context(), userID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "Code reviewed successfully", response)
}

func (h *ReviewHandler) history(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	page := parseQueryInt(c, "page", 1)
	limit := parseQueryInt(c, "limit", 10)

	response, err := h.reviews.History(c.Context(), userID, page, limit)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "history retrieved", response)
}

func (h *ReviewHandler) getDashboard(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	response, err := h.dashboard.GetDashboard(c.Context(), userID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "dashboard retrieved", response)
}

func (h *ReviewHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	response, err := h.reviews.Get(c.Context(), userID, id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission retrieved", fiber.Map{"submission": response})
}

func (h *ReviewHandler) chat(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.ChatRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.consultant.Chat(c.Context(), userID, id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "answer generated", response)
}

func (h *ReviewHandler) handleError(c *fiber.Ctx, err error) error {
	var validationError *service.ValidationError
	var aiFailure *service.AIFailureError
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &validationError):
		return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "Validation failed", validationError.Errors)
	case errors.As(err, &validationErrors):
		return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "Validation failed", validationMessages(validationErrors))
	case errors.As(err, &aiFailure):
		// The failed submission remains inspectable, so its id is returned.
		return utils.SendErrorWithData(c, fiber.StatusInternalServerError, "AI service temporarily unavailable",
			fiber.Map{"submission_id": aiFailure.SubmissionID})
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "Submission not found")
	case errors.Is(err, service.ErrReviewNotCompleted):
		return utils.SendError(c, fiber.StatusBadRequest, "Can only chat about completed reviews")
	case errors.Is(err, service.ErrChatUnavailable):
		return utils.SendError(c, fiber.StatusInternalServerError, "Chat service temporarily unavailable")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusUnauthorized, "user not found")
	default:
		h.logger.Error().Err(err).Msg("review operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
