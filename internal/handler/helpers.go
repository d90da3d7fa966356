package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-access-api/internal/service"
	"github.com/noah-isme/campus-access-api/internal/utils"
)

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	value := c.Params(name)
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.New("invalid identifier")
	}
	return uint(parsed), nil
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

// mapServiceError translates service-layer failures into the API envelope.
func mapServiceError(c *fiber.Ctx, err error, logger zerolog.Logger) error {
	var validationError service.ValidationError
	var validationErrors validator.ValidationErrors

	switch {
	case errors.As(err, &validationError):
		return utils.SendError(c, fiber.StatusBadRequest, validationError.Message)
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrSponsorNotFound),
		errors.Is(err, service.ErrClassNotFound),
		errors.Is(err, service.ErrPaymentNotFound),
		errors.Is(err, service.ErrNoActiveSession),
		errors.Is(err, service.ErrPrivateSponsorMissing):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSessionConflict):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	default:
		logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
