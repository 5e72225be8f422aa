package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/libertsolutions/libertvendas/internal/application/catalog"
	"github.com/libertsolutions/libertvendas/internal/application/dto"
)

// CatalogHandler expone la caché de referencia: formas de pago, ciudades, tablas de precio y CEPs.
type CatalogHandler struct {
	svc *catalog.Service
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(svc *catalog.Service) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// PaymentMethods GET /api/payment-methods
func (h *CatalogHandler) PaymentMethods(c *fiber.Ctx) error {
	list, err := h.svc.PaymentMethods(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Cities GET /api/cities?uf=SP
func (h *CatalogHandler) Cities(c *fiber.Ctx) error {
	list, err := h.svc.Cities(c.UserContext(), strings.ToUpper(strings.TrimSpace(c.Query("uf"))))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// PriceTables GET /api/price-tables
func (h *CatalogHandler) PriceTables(c *fiber.Ctx) error {
	list, err := h.svc.PriceTables(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Refresh POST /api/catalog/refresh descarga tablas de precio y cartera en paralelo.
func (h *CatalogHandler) Refresh(c *fiber.Ctx) error {
	var out dto.RefreshResponse
	g, ctx := errgroup.WithContext(c.UserContext())
	g.Go(func() error {
		n, err := h.svc.RefreshPriceTables(ctx)
		out.PriceTables = n
		return err
	})
	g.Go(func() error {
		n, err := h.svc.RefreshCustomers(ctx)
		out.Customers = n
		return err
	})
	if err := g.Wait(); err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PostalCode GET /api/postal-codes/:cep
func (h *CatalogHandler) PostalCode(c *fiber.Ctx) error {
	pc, err := h.svc.LookupPostalCode(c.UserContext(), c.Params("cep"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pc)
}
