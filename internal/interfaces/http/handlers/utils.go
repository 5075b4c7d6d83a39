package handlers

import (
	"errors"
	"strconv"

	"github.com/PavaniTiago/survey-api/internal/application/usecases"
	"github.com/gofiber/fiber/v2"
)

// statusFor traduz o tipo do erro de domínio para o status HTTP
func statusFor(kind usecases.Kind) int {
	switch kind {
	case usecases.KindValidation:
		return fiber.StatusBadRequest
	case usecases.KindNotFound:
		return fiber.StatusNotFound
	case usecases.KindInvalidStateTransition,
		usecases.KindOrderConflict,
		usecases.KindDuplicateResponseNotAllowed,
		usecases.KindResponseLimitReached:
		return fiber.StatusConflict
	case usecases.KindMissingRequiredAnswer:
		return fiber.StatusUnprocessableEntity
	case usecases.KindStoreTimeout:
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	kind := usecases.KindOf(err)
	message := err.Error()
	var e *usecases.Error
	if errors.As(err, &e) && e.Message != "" {
		message = e.Message
	}
	if kind == usecases.KindInternal {
		message = "Erro interno do servidor"
	}
	return c.Status(statusFor(kind)).JSON(fiber.Map{
		"error": message,
		"kind":  kind,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
		"kind":  usecases.KindValidation,
	})
}

// paramID lê um parâmetro de rota numérico e positivo
func paramID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// orderRequest é o corpo das rotas de reordenação
type orderRequest struct {
	Index int `json:"index"`
}
