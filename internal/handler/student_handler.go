package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-access-api/internal/dto"
	"github.com/noah-isme/campus-access-api/internal/repository"
	"github.com/noah-isme/campus-access-api/internal/service"
	"github.com/noah-isme/campus-access-api/internal/utils"
)

// StudentHandler wires student registry HTTP routes.
type StudentHandler struct {
	service service.StudentService
	stats   service.StatsService
	logger  zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(service service.StudentService, stats service.StatsService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		stats:   stats,
		logger:  logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches student endpoints to the router group.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/registered", h.listRegistered)
	router.Get("/stats", h.classStats)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Patch("/sponsor", h.updateSponsor)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	filter := repository.StudentFilter{
		Name:     c.Query("name"),
		RegNo:    c.Query("reg_no"),
		Page:     page,
		PageSize: limit,
	}

	students, err := h.service.List(c.Context(), filter)
	if err != nil {
		return mapServiceError(c, err, h.logger)
	}
	return utils.SendSuccess(c, "students retrieved", students)
}

func (h *StudentHandler) listRegistered(c *fiber.Ctx) error {
	students, err := h.service.ListRegistered(c.Context())
	if err != nil {
		return mapServiceError(c, err, h.logger)
	}
	return utils.SendSuccess(c, "registered students retrieved", students)
}

func (h *StudentHandler) classStats(c *fiber.Ctx) error {
	stats, err := h.stats.ClassRegistrationStats(c.Context())
	if err != nil {
		return mapServiceError(c, err, h.logger)
	}
	return utils.SendSuccess(c, "class registration stats retrieved", stats)
}

func (h *StudentHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	student, err := h.service.Get(c.Context(), id)
	if err != nil {
		return mapServiceError(c, err, h.logger)
	}
	return utils.SendSuccess(c, "student retrieved", student)
}

func (h *StudentHandler) create(c *fiber.Ctx) error {
	var payload dto.StudentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	student, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return mapServiceError(c, err, h.logger)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student created", student)
}

func (h *StudentHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.StudentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	student, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		return mapServiceError(c, err, h.logger)
	}
	return utils.SendSuccess(c, "student updated", student)
}

func (h *StudentHandler) updateSponsor(c *fiber.Ctx) error {
	var payload dto.StudentSponsorUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	student, err := h.service.UpdateSponsor(c.Context(), payload)
	if err != nil {
		return mapServiceError(c, err, h.logger)
	}
	return utils.SendSuccess(c, "sponsor updated successfully", student)
}

func (h *StudentHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return mapServiceError(c, err, h.logger)
	}
	return utils.SendSuccess(c, "student deleted", fiber.Map{"id": id})
}
