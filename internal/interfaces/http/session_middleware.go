package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/libertsolutions/libertvendas/internal/application/dto"
	"github.com/libertsolutions/libertvendas/internal/domain"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
)

// LocalLoggedUser key de c.Locals con la sesión del dispositivo.
const LocalLoggedUser = "logged_user"

// sessionReader es el contrato mínimo que necesita el middleware para leer la sesión.
// Lo implementa *session.Store.
type sessionReader interface {
	LoggedUser(ctx context.Context) (*entity.LoggedUser, error)
}

// RequireSession verifica que el token corresponda a la sesión abierta en el dispositivo.
// Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 SESSION_CLOSED  → no hay sesión (logout o nunca se eligió empresa).
//   - 401 SESSION_CHANGED → la sesión es de otro vendedor o de otra empresa.
//   - 503 Service Unavailable → fallo al leer la sesión persistida.
func RequireSession(sessions sessionReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := sessions.LoggedUser(c.UserContext())
		if errors.Is(err, domain.ErrNotLoggedIn) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "SESSION_CLOSED",
				Message: "no hay sesión iniciada en el dispositivo",
			})
		}
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "SESSION_CHECK_FAILED",
				Message: "no se pudo leer la sesión, intente más tarde",
			})
		}
		if user.Salesman.SalesmanID != GetSalesmanID(c) || user.DefaultCompany.CompanyID != GetCompanyID(c) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "SESSION_CHANGED",
				Message: "el token no corresponde a la sesión actual",
			})
		}
		c.Locals(LocalLoggedUser, user)
		return c.Next()
	}
}

// GetLoggedUser devuelve la sesión (después de RequireSession).
func GetLoggedUser(c *fiber.Ctx) *entity.LoggedUser {
	u, _ := c.Locals(LocalLoggedUser).(*entity.LoggedUser)
	return u
}
