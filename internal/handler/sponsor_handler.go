package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-access-api/internal/dto"
	"github.com/noah-isme/campus-access-api/internal/service"
	"github.com/noah-isme/campus-access-api/internal/utils"
)

// SponsorHandler wires sponsor registry HTTP routes.
type SponsorHandler struct {
	service service.SponsorService
	logger  zerolog.Logger
}

// NewSponsorHandler constructs the handler.
func NewSponsorHandler(service service.SponsorService, logger zerolog.Logger) *SponsorHandler {
	return &SponsorHandler{
		service: service,
		logger:  logger.With().Str("component", "sponsor_handler").Logger(),
	}
}

// Register attaches sponsor endpoints to the router group.
func (h *SponsorHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Patch("/:id", h.rename)
	router.Delete("/:id", h.delete)
}

func (h *SponsorHandler) list(c *fiber.Ctx) error {
	sponsors, err := h.service.List(c.Context())
	if err != nil {
		return mapServiceError(c, err, h.logger)
	}
	return utils.SendSuccess(c, "sponsors retrieved", sponsors)
}

func (h *SponsorHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	sponsor, err := h.service.Get(c.Context(), id)
	if err != nil {
		return mapServiceError(c, err, h.logger)
	}
	return utils.SendSuccess(c, "sponsor retrieved", sponsor)
}

func (h *SponsorHandler) create(c *fiber.Ctx) error {
	var payload dto.SponsorCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	sponsor, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return mapServiceError(c, err, h.logger)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "sponsor created", sponsor)
}

func (h *SponsorHandler) rename(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SponsorUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	sponsor, err := h.service.Rename(c.Context(), id, payload)
	if err != nil {
		return mapServiceError(c, err, h.logger)
	}
	return utils.SendSuccess(c, "sponsor updated", sponsor)
}

func (h *SponsorHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.Delete(c.Context(), id)
	if err != nil {
		return mapServiceError(c, err, h.logger)
	}
	return utils.SendSuccess(c, "sponsor deleted and students reassigned", result)
}
