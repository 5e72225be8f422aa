package http

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/libertsolutions/libertvendas/internal/application/dto"
	"github.com/libertsolutions/libertvendas/internal/application/order"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
)

// ── Vistas ────────────────────────────────────────────────────────────────────

type itemsView struct {
	errorRecorder
	lines []entity.OrderLine
	item  *entity.OrderLine
	total *decimal.Decimal
}

func (v *itemsView) BindItems(lines []entity.OrderLine) { v.lines = lines }

func (v *itemsView) UpdateItem(line entity.OrderLine) { v.item = &line }

func (v *itemsView) ShowTotal(total decimal.Decimal) { v.total = &total }

type finalizeView struct {
	errorRecorder
	state dto.CheckoutResponse
	saved *entity.Order
}

func (v *finalizeView) BindPaymentMethods(methods []*entity.PaymentMethod) {
	v.state.PaymentMethods = methods
}

func (v *finalizeView) BindIssueDate(formatted string) { v.state.IssueDate = formatted }

func (v *finalizeView) BindCustomer(c *entity.Customer) { v.state.Customer = c }

func (v *finalizeView) BindPaymentMethod(pm *entity.PaymentMethod) { v.state.PaymentMethod = pm }

func (v *finalizeView) BindTotals(items, discount, total decimal.Decimal) {
	v.state.TotalItems, v.state.Discount, v.state.Total = items, discount, total
}

func (v *finalizeView) ShowEmptyOrderError() {
	v.fail(fiber.StatusUnprocessableEntity, "EMPTY_ORDER", "el pedido no tiene ítems")
}

func (v *finalizeView) ShowSavedOrder(o *entity.Order) { v.saved = o }

// ── Handler ───────────────────────────────────────────────────────────────────

// OrderHandler maneja el pedido en curso (selección de ítems y cierre) y los comprobantes.
// Hay un solo pedido en curso por dispositivo; las peticiones se atienden de a una.
type OrderHandler struct {
	items    *order.SelectItemsPresenter
	finalize *order.FinalizePresenter
	receipts *order.ReceiptUseCase

	mu sync.Mutex
}

// NewOrderHandler construye el handler.
func NewOrderHandler(items *order.SelectItemsPresenter, finalize *order.FinalizePresenter, receipts *order.ReceiptUseCase) *OrderHandler {
	return &OrderHandler{items: items, finalize: finalize, receipts: receipts}
}

// StartDraft POST /api/orders/draft
func (h *OrderHandler) StartDraft(c *fiber.Ctx) error {
	var in dto.StartDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if in.PriceTable == "" {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "price_table es requerido")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	v := &itemsView{}
	h.items.Attach(v)
	defer h.items.Detach()

	h.items.Load(c.UserContext(), in.PriceTable)
	if v.failed() {
		return v.respond(c)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.DraftResponse{Items: v.lines, Total: totalOf(v)})
}

// GetDraft GET /api/orders/draft?q=texto
func (h *OrderHandler) GetDraft(c *fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	v := &itemsView{}
	h.items.Attach(v)
	defer h.items.Detach()

	f, ok := h.draft(c)
	if !ok {
		return fail(c, fiber.StatusNotFound, "NO_DRAFT", "no hay pedido en curso")
	}
	h.items.Filter(c.Query("q"))
	if v.failed() {
		return v.respond(c)
	}
	return c.JSON(dto.DraftResponse{Items: v.lines, Total: f.TotalItems()})
}

// Increment POST /api/orders/draft/items/:productID/increment
func (h *OrderHandler) Increment(c *fiber.Ctx) error {
	return h.mutate(c, func(id int64) {
		h.items.Increment(c.UserContext(), id)
	})
}

// Decrement POST /api/orders/draft/items/:productID/decrement
func (h *OrderHandler) Decrement(c *fiber.Ctx) error {
	return h.mutate(c, func(id int64) {
		h.items.Decrement(c.UserContext(), id)
	})
}

// SetQuantity PUT /api/orders/draft/items/:productID
func (h *OrderHandler) SetQuantity(c *fiber.Ctx) error {
	var in dto.QuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	return h.mutate(c, func(id int64) {
		h.items.SetQuantity(c.UserContext(), id, in.Quantity)
	})
}

// Checkout GET /api/orders/draft/checkout
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.openCheckout(c)
	defer h.finalize.Detach()
	if !ok {
		return fail(c, fiber.StatusNotFound, "NO_DRAFT", "no hay pedido en curso")
	}
	h.finalize.InitializeView(c.UserContext())
	if v.failed() {
		return v.respond(c)
	}
	return c.JSON(v.state)
}

// UpdateCheckout PATCH /api/orders/draft/checkout aplica los campos presentes, en orden,
// y se detiene en el primero que falla.
func (h *OrderHandler) UpdateCheckout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	var issue time.Time
	if in.IssueDate != nil {
		t, err := time.Parse(order.IssueDateLayout, *in.IssueDate)
		if err != nil {
			return fail(c, fiber.StatusBadRequest, "VALIDATION", "issue_date: formato dd/mm/aaaa")
		}
		issue = t
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.openCheckout(c)
	defer h.finalize.Detach()
	if !ok {
		return fail(c, fiber.StatusNotFound, "NO_DRAFT", "no hay pedido en curso")
	}

	ctx := c.UserContext()
	steps := []func(){}
	if in.CustomerKey != nil {
		steps = append(steps, func() { h.finalize.SelectCustomer(ctx, *in.CustomerKey) })
	}
	if in.PaymentMethodKey != nil {
		steps = append(steps, func() { h.finalize.SelectPaymentMethod(ctx, *in.PaymentMethodKey) })
	}
	if in.IssueDate != nil {
		steps = append(steps, func() { h.finalize.SetIssueDate(ctx, issue.Year(), issue.Month(), issue.Day()) })
	}
	if in.Discount != nil {
		steps = append(steps, func() { h.finalize.SetDiscount(ctx, *in.Discount) })
	}
	if in.Observation != nil {
		steps = append(steps, func() { h.finalize.SetObservation(ctx, *in.Observation) })
	}
	for _, step := range steps {
		step()
		if v.failed() {
			return v.respond(c)
		}
	}

	h.finalize.InitializeView(ctx)
	if v.failed() {
		return v.respond(c)
	}
	return c.JSON(v.state)
}

// Save POST /api/orders guarda el pedido en curso.
func (h *OrderHandler) Save(c *fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.openCheckout(c)
	defer h.finalize.Detach()
	if !ok {
		return fail(c, fiber.StatusNotFound, "NO_DRAFT", "no hay pedido en curso")
	}

	h.finalize.Save(c.UserContext())
	if v.failed() {
		return v.respond(c)
	}
	if v.saved == nil {
		return fail(c, fiber.StatusInternalServerError, "INTERNAL", "pedido sin desenlace")
	}
	h.items.Reset()
	return c.Status(fiber.StatusCreated).JSON(dto.NewOrderResponse(v.saved))
}

// Receipt GET /api/orders/:key/pdf
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	key := c.Params("key")
	pdf, err := h.receipts.Receipt(c.UserContext(), key)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="pedido-`+key+`.pdf"`)
	return c.Send(pdf)
}

// Reset suelta el pedido en curso de ambos presentadores (al cerrar o cambiar de sesión).
func (h *OrderHandler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items.Reset()
	h.finalize.SetForm(nil)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// draft devuelve el pedido en curso de la sesión; si no hay, intenta recuperar el
// borrador persistido. Requiere h.mu y la vista de ítems adjunta.
func (h *OrderHandler) draft(c *fiber.Ctx) (*order.Form, bool) {
	f, ok := h.items.Resume(c.UserContext())
	if !ok {
		h.finalize.SetForm(nil)
	}
	return f, ok
}

// openCheckout pasa el pedido en curso al presentador de cierre y le adjunta una vista.
// Requiere h.mu; el llamador hace Detach.
func (h *OrderHandler) openCheckout(c *fiber.Ctx) (*finalizeView, bool) {
	v := &finalizeView{}
	h.finalize.Attach(v)

	iv := &itemsView{}
	h.items.Attach(iv)
	f, ok := h.draft(c)
	h.items.Detach()
	if !ok {
		return v, false
	}
	h.finalize.SetForm(f)
	return v, true
}

func (h *OrderHandler) mutate(c *fiber.Ctx, fn func(productID int64)) error {
	id, err := strconv.ParseInt(c.Params("productID"), 10, 64)
	if err != nil || id <= 0 {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "productID inválido")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	v := &itemsView{}
	h.items.Attach(v)
	defer h.items.Detach()

	f, ok := h.draft(c)
	if !ok {
		return fail(c, fiber.StatusNotFound, "NO_DRAFT", "no hay pedido en curso")
	}
	fn(id)
	if v.failed() {
		return v.respond(c)
	}
	changed := v.item != nil
	if !changed {
		// decrementar en cero: se devuelve la línea tal cual
		it, err := f.Item(id)
		if err != nil {
			return respondError(c, err)
		}
		line := it.Snapshot()
		v.item = &line
	}
	return c.JSON(dto.DraftResponse{Item: v.item, Changed: &changed, Total: f.TotalItems()})
}

func totalOf(v *itemsView) decimal.Decimal {
	if v.total == nil {
		return decimal.Zero
	}
	return *v.total
}
