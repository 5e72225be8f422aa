package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/libertsolutions/libertvendas/internal/application/dto"
	"github.com/libertsolutions/libertvendas/pkg/jwt"
)

// Locals keys para la sesión del token en Fiber.
const (
	LocalSalesmanID = "salesman_id"
	LocalCompanyID  = "company_id"
	LocalCPFCNPJ    = "cpf_cnpj"
)

// AuthMiddleware valida el Bearer Token JWT y extrae vendedor y empresa a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalSalesmanID, claims.SalesmanID)
		c.Locals(LocalCompanyID, claims.CompanyID)
		c.Locals(LocalCPFCNPJ, claims.CPFCNPJ)
		return c.Next()
	}
}

// GetSalesmanID devuelve el vendedor del token (después del middleware de auth).
func GetSalesmanID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(LocalSalesmanID).(int64)
	return id
}

// GetCompanyID devuelve la empresa del token (después del middleware de auth).
func GetCompanyID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(LocalCompanyID).(int64)
	return id
}
