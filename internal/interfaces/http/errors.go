package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/libertsolutions/libertvendas/internal/application/dto"
	"github.com/libertsolutions/libertvendas/internal/domain"
)

// respondError traduce un error de aplicación a status HTTP y ErrorResponse.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotLoggedIn):
		return fail(c, fiber.StatusUnauthorized, "SESSION_CLOSED", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return fail(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrEmptyOrder):
		return fail(c, fiber.StatusUnprocessableEntity, "EMPTY_ORDER", err.Error())
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidTransition):
		return fail(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, domain.ErrOffline):
		return fail(c, fiber.StatusServiceUnavailable, "OFFLINE", err.Error())
	}
	switch domain.Classify(err) {
	case domain.KindServer:
		return fail(c, fiber.StatusBadGateway, "SERVER_ERROR", "el servidor respondió con error")
	case domain.KindNetwork:
		return fail(c, fiber.StatusServiceUnavailable, "NETWORK_ERROR", "sin respuesta del servidor")
	case domain.KindValidation:
		return fail(c, fiber.StatusUnprocessableEntity, "REJECTED", domain.ValidationMessage(err))
	}
	return fail(c, fiber.StatusInternalServerError, "INTERNAL", "error inesperado")
}

func fail(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: message})
}

// viewError desenlace de error que registró una vista HTTP.
type viewError struct {
	status  int
	code    string
	message string
}

// errorRecorder base de las vistas HTTP: guarda el primer error que muestra el presentador.
type errorRecorder struct {
	err *viewError
}

func (r *errorRecorder) fail(status int, code, message string) {
	if r.err == nil {
		r.err = &viewError{status: status, code: code, message: message}
	}
}

func (r *errorRecorder) failed() bool { return r.err != nil }

func (r *errorRecorder) respond(c *fiber.Ctx) error {
	return fail(c, r.err.status, r.err.code, r.err.message)
}

func (r *errorRecorder) ShowServerError() {
	r.fail(fiber.StatusBadGateway, "SERVER_ERROR", "el servidor respondió con error")
}

func (r *errorRecorder) ShowNetworkError() {
	r.fail(fiber.StatusServiceUnavailable, "NETWORK_ERROR", "sin respuesta del servidor")
}

func (r *errorRecorder) ShowValidationError(message string) {
	r.fail(fiber.StatusBadRequest, "VALIDATION", message)
}

func (r *errorRecorder) ShowUnknownError() {
	r.fail(fiber.StatusInternalServerError, "INTERNAL", "error inesperado")
}
