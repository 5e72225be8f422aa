package http

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/libertsolutions/libertvendas/internal/application/catalog"
	"github.com/libertsolutions/libertvendas/internal/application/dto"
	"github.com/libertsolutions/libertvendas/internal/domain"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
)

// CustomerHandler maneja la cartera de clientes del vendedor.
type CustomerHandler struct {
	svc *catalog.Service
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(svc *catalog.Service) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

// List GET /api/customers?q=texto
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	list, err := h.svc.SearchCustomers(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, cu := range list {
		out = append(out, dto.NewCustomerResponse(cu))
	}
	return c.JSON(out)
}

// GetByKey GET /api/customers/:key
func (h *CustomerHandler) GetByKey(c *fiber.Ctx) error {
	cu, err := h.svc.Customer(c.UserContext(), c.Params("key"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewCustomerResponse(cu))
}

// Create POST /api/customers
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	city, err := h.city(c, in.CityID)
	if err != nil {
		return respondError(c, err)
	}
	cu, err := h.svc.CreateCustomer(c.UserContext(), in.ToData(city))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewCustomerResponse(cu))
}

// Update PUT /api/customers/:key
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var in dto.CustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	city, err := h.city(c, in.CityID)
	if err != nil {
		return respondError(c, err)
	}
	cu, err := h.svc.ChangeCustomer(c.UserContext(), c.Params("key"), in.ToData(city))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewCustomerResponse(cu))
}

// Sync POST /api/customers/sync envía los clientes pendientes al backend.
func (h *CustomerHandler) Sync(c *fiber.Ctx) error {
	n, err := h.svc.PushCustomers(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CountResponse{Count: n})
}

func (h *CustomerHandler) city(c *fiber.Ctx, id int64) (*entity.City, error) {
	if id == 0 {
		return nil, nil
	}
	city, err := h.svc.City(c.UserContext(), strconv.FormatInt(id, 10))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: ciudad %d no importada", domain.ErrInvalidInput, id)
	}
	return city, err
}
