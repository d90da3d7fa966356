package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-access-api/internal/dto"
	"github.com/noah-isme/campus-access-api/internal/service"
	"github.com/noah-isme/campus-access-api/internal/utils"
)

// SessionHandler wires payment-session HTTP routes.
type SessionHandler struct {
	service service.SessionService
	logger  zerolog.Logger
}

// NewSessionHandler constructs the handler.
func NewSessionHandler(service service.SessionService, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		logger:  logger.With().Str("component", "session_handler").Logger(),
	}
}

// Register attaches session endpoints to the router group.
func (h *SessionHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *SessionHandler) list(c *fiber.Ctx) error {
	sessions, err := h.service.List(c.Context())
	if err != nil {
		return mapServiceError(c, err, h.logger)
	}
	return utils.SendSuccess(c, "sessions retrieved", sessions)
}

func (h *SessionHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	session, err := h.service.Get(c.Context(), id)
	if err != nil {
		return mapServiceError(c, err, h.logger)
	}
	return utils.SendSuccess(c, "session retrieved", session)
}

func (h *SessionHandler) create(c *fiber.Ctx) error {
	var payload dto.SessionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	session, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return mapServiceError(c, err, h.logger)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "session created", session)
}

func (h *SessionHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SessionUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	session, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		return mapServiceError(c, err, h.logger)
	}
	return utils.SendSuccess(c, "session updated", session)
}

func (h *SessionHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return mapServiceError(c, err, h.logger)
	}
	return utils.SendSuccess(c, "session deleted", fiber.Map{"id": id})
}
