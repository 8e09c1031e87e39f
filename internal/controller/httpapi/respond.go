package httpapi

import (
	"github.com/evlasenko/tutor_market/internal/apperr"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Единый конверт ответа; каждый вид бизнес-ошибки отображается в свой
// HTTP-статус и стабильный внешний код

func success(c *fiber.Ctx, code int, data interface{}) error {
	return c.Status(code).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

func fail(c *fiber.Ctx, code int, errCode, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"status":  "error",
		"code":    errCode,
		"message": message,
	})
}

// httpStatus отображение видов бизнес-ошибок на HTTP-статусы
func httpStatus(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindConflict:
		return fiber.StatusConflict
	case apperr.KindInvalidState:
		return fiber.StatusUnprocessableEntity
	case apperr.KindForbidden:
		return fiber.StatusForbidden
	case apperr.KindBadRequest:
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	kind := apperr.KindOf(err)
	if kind == apperr.KindUnknown {
		logger.Error("Internal error",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return fail(c, fiber.StatusInternalServerError, "internal", "internal error")
	}

	return fail(c, httpStatus(kind), kind.String(), err.Error())
}

func respondValidation(c *fiber.Ctx, err error) error {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return fail(c, fiber.StatusBadRequest, apperr.KindBadRequest.String(), "invalid input")
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status":  "error",
		"code":    apperr.KindBadRequest.String(),
		"message": "validation failed",
		"fields":  fields,
	})
}
