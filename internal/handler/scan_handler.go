package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-access-api/internal/models"
	"github.com/noah-isme/campus-access-api/internal/repository"
	"github.com/noah-isme/campus-access-api/internal/service"
	"github.com/noah-isme/campus-access-api/internal/utils"
)

// ScanHandler wires campus scan HTTP routes.
type ScanHandler struct {
	service service.ScanService
	logger  zerolog.Logger
}

// NewScanHandler constructs the handler.
func NewScanHandler(service service.ScanService, logger zerolog.Logger) *ScanHandler {
	return &ScanHandler{
		service: service,
		logger:  logger.With().Str("component", "scan_handler").Logger(),
	}
}

// Register attaches scan endpoints to the router group.
func (h *ScanHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/student/:studentId", h.listByStudent)
	router.Post("/:id", h.scan)
}

// scan processes a gate scan for the student id carried by the QR code. A
// failed attempt still returns the scan record so the gate can display it,
// and attempts that never resolve to a student or scan type land in the
// ledger too.
func (h *ScanHandler) scan(c *fiber.Ctx) error {
	scanType := models.ScanType(strings.ToUpper(strings.TrimSpace(c.Query("type"))))

	id, err := parseUintParam(c, "id")
	if err != nil {
		if logErr := h.service.LogUnresolved(c.Context(), scanType); logErr != nil {
			return mapServiceError(c, logErr, h.logger)
		}
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if scanType == "" {
		if logErr := h.service.LogUnresolved(c.Context(), scanType); logErr != nil {
			return mapServiceError(c, logErr, h.logger)
		}
		return utils.SendError(c, fiber.StatusBadRequest, "please specify scan type: 'ENTRY' for entering campus or 'EXIT' for leaving campus")
	}

	outcome, err := h.service.Scan(c.Context(), id, scanType)
	if err != nil {
		return mapServiceError(c, err, h.logger)
	}

	if !outcome.Completed {
		return c.Status(fiber.StatusBadRequest).JSON(utils.APIResponse{
			Success: false,
			Data:    outcome.Result,
			Message: outcome.Message,
		})
	}
	return utils.SendSuccess(c, outcome.Message, outcome.Result)
}

func (h *ScanHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	scans, err := h.service.List(c.Context(), repository.ScanFilter{Page: page, PageSize: limit})
	if err != nil {
		return mapServiceError(c, err, h.logger)
	}
	return utils.SendSuccess(c, "scans retrieved", scans)
}

func (h *ScanHandler) listByStudent(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "studentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	scans, err := h.service.ListByStudent(c.Context(), studentID)
	if err != nil {
		return mapServiceError(c, err, h.logger)
	}
	return utils.SendSuccess(c, "scans retrieved", scans)
}
