package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/pkg/validator"
	"github.com/rs/zerolog/log"
)

// writeError traduce errores de dominio a respuestas HTTP. El cliente muestra message tal cual.
func writeError(c *fiber.Ctx, err error) error {
	var validation *domain.ValidationError
	var insufficient *domain.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: insufficient.Error(),
			Details: map[string]any{
				"disponible": insufficient.Available,
				"solicitado": insufficient.Requested,
				"almacen_id": insufficient.WarehouseID,
			},
		})
	case errors.As(err, &validation):
		resp := dto.ErrorResponse{Code: "VALIDATION", Message: validation.Error()}
		if validation.Field != "" {
			resp.Details = map[string]any{"campo": validation.Field}
		}
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	case errors.Is(err, domain.ErrUnknownMovementType):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNKNOWN_MOVEMENT_TYPE", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidStateTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: domain.ErrInvalidStateTransition.Error()})
	case errors.Is(err, domain.ErrAuthorizationRequired):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "AUTHORIZATION_REQUIRED", Message: domain.ErrAuthorizationRequired.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	log.Error().Err(err).Str("ruta", c.Path()).Str("metodo", c.Method()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno, intente de nuevo"})
}

func writeInvalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// validateBody corre las reglas validate:"..." del DTO. Devuelve false si ya respondió.
func validateBody(c *fiber.Ctx, body interface{}) (bool, error) {
	errs := validator.ValidateStruct(body)
	if len(errs) == 0 {
		return true, nil
	}
	return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code:    "VALIDATION",
		Message: "datos inválidos: " + errs[0].Field,
		Details: map[string]any{"errores": errs},
	})
}
