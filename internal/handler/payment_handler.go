package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-access-api/internal/dto"
	"github.com/noah-isme/campus-access-api/internal/service"
	"github.com/noah-isme/campus-access-api/internal/utils"
)

// PaymentHandler wires payment ledger HTTP routes.
type PaymentHandler struct {
	service service.PaymentService
	logger  zerolog.Logger
}

// NewPaymentHandler constructs the handler.
func NewPaymentHandler(service service.PaymentService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger.With().Str("component", "payment_handler").Logger(),
	}
}

// Register attaches payment endpoints to the router group.
func (h *PaymentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/student/:studentId", h.listByStudent)
	router.Get("/session/:sessionId", h.listBySession)
	router.Get("/:id", h.get)
	router.Post("", h.record)
}

func (h *PaymentHandler) list(c *fiber.Ctx) error {
	payments, err := h.service.List(c.Context())
	if err != nil {
		return mapServiceError(c, err, h.logger)
	}
	return utils.SendSuccess(c, "payments retrieved", payments)
}

func (h *PaymentHandler) listByStudent(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "studentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	payments, err := h.service.ListByStudent(c.Context(), studentID)
	if err != nil {
		return mapServiceError(c, err, h.logger)
	}
	return utils.SendSuccess(c, "payments retrieved", payments)
}

func (h *PaymentHandler) listBySession(c *fiber.Ctx) error {
	sessionID, err := parseUintParam(c, "sessionId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	payments, err := h.service.ListBySession(c.Context(), sessionID)
	if err != nil {
		return mapServiceError(c, err, h.logger)
	}
	return utils.SendSuccess(c, "payments retrieved", payments)
}

func (h *PaymentHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	payment, err := h.service.Get(c.Context(), id)
	if err != nil {
		return mapServiceError(c, err, h.logger)
	}
	return utils.SendSuccess(c, "payment retrieved", payment)
}

func (h *PaymentHandler) record(c *fiber.Ctx) error {
	var payload dto.PaymentRecordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	payment, err := h.service.Record(c.Context(), payload)
	if err != nil {
		return mapServiceError(c, err, h.logger)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "payment recorded", payment)
}
