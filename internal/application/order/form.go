// Package order cubre la toma de pedidos: selección de ítems sobre una tabla de
// precio, cierre (cliente, forma de pago, fecha, descuento) y borradores.
package order

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/libertsolutions/libertvendas/internal/domain"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
	"github.com/libertsolutions/libertvendas/pkg/textutil"
)

// IssueDateLayout formato con que la vista muestra la fecha de emisión.
const IssueDateLayout = "02/01/2006"

// Form pedido en edición. Los ítems salen de la tabla de precio y se indexan por producto.
type Form struct {
	mu sync.Mutex

	salesmanID   int64
	companyID    int64
	priceTableID int64

	items     []*entity.OrderItem // en el orden de la tabla
	byProduct map[int64]*entity.OrderItem

	customer      *entity.Customer
	paymentMethod *entity.PaymentMethod
	issueDate     time.Time
	discount      decimal.Decimal
	observation   string
}

// NewForm arma el formulario con todos los productos de la tabla en cantidad cero.
func NewForm(user *entity.LoggedUser, table *entity.PriceTable, issueDate time.Time) *Form {
	f := &Form{
		salesmanID:   user.Salesman.SalesmanID,
		companyID:    user.DefaultCompany.CompanyID,
		priceTableID: table.PriceTableID,
		issueDate:    dateOnly(issueDate),
	}
	f.setItems(make([]*entity.OrderItem, 0, len(table.Items)))
	for _, it := range table.Items {
		f.addItem(entity.NewOrderItem(it.Product, it.SalePrice))
	}
	return f
}

func (f *Form) setItems(items []*entity.OrderItem) {
	f.items = items
	f.byProduct = make(map[int64]*entity.OrderItem, cap(items))
	for _, it := range items {
		f.byProduct[it.Product().ProductID] = it
	}
}

func (f *Form) addItem(it *entity.OrderItem) {
	if _, dup := f.byProduct[it.Product().ProductID]; dup {
		return
	}
	f.items = append(f.items, it)
	f.byProduct[it.Product().ProductID] = it
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SalesmanID vendedor dueño del formulario.
func (f *Form) SalesmanID() int64 { return f.salesmanID }

// CompanyID empresa en la que se toma el pedido.
func (f *Form) CompanyID() int64 { return f.companyID }

// BelongsTo indica si el formulario es del vendedor y la empresa de la sesión.
func (f *Form) BelongsTo(user *entity.LoggedUser) bool {
	return user != nil && user.Salesman != nil &&
		f.salesmanID == user.Salesman.SalesmanID && f.companyID == user.DefaultCompany.CompanyID
}

// PriceTableID tabla de precio del formulario.
func (f *Form) PriceTableID() int64 { return f.priceTableID }

// Item devuelve la línea de un producto o domain.ErrNotFound.
func (f *Form) Item(productID int64) (*entity.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.byProduct[productID]
	if !ok {
		return nil, fmt.Errorf("%w: producto %d fuera de la tabla", domain.ErrNotFound, productID)
	}
	return it, nil
}

// Lines todas las líneas, filtradas por query sobre descripción y código de barras.
func (f *Form) Lines(query string) []entity.OrderLine {
	f.mu.Lock()
	items := append([]*entity.OrderItem(nil), f.items...)
	f.mu.Unlock()

	out := make([]entity.OrderLine, 0, len(items))
	for _, it := range items {
		p := it.Product()
		if textutil.ContainsFold(query, p.Description, p.BarCode) {
			out = append(out, it.Snapshot())
		}
	}
	return out
}

// Selected líneas con cantidad positiva.
func (f *Form) Selected() []entity.OrderLine {
	f.mu.Lock()
	items := append([]*entity.OrderItem(nil), f.items...)
	f.mu.Unlock()

	var out []entity.OrderLine
	for _, it := range items {
		line := it.Snapshot()
		if line.Quantity.IsPositive() {
			out = append(out, line)
		}
	}
	return out
}

// TotalItems suma de subtotales de las líneas seleccionadas.
func (f *Form) TotalItems() decimal.Decimal {
	total := decimal.Zero
	for _, l := range f.Selected() {
		total = total.Add(l.Subtotal)
	}
	return total
}

func (f *Form) Customer() *entity.Customer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.customer
}

func (f *Form) SetCustomer(c *entity.Customer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.customer = c
}

func (f *Form) PaymentMethod() *entity.PaymentMethod {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paymentMethod
}

func (f *Form) SetPaymentMethod(pm *entity.PaymentMethod) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paymentMethod = pm
}

func (f *Form) IssueDate() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.issueDate
}

// SetIssueDate fija la fecha de emisión; month va de 1 a 12.
func (f *Form) SetIssueDate(year int, month time.Month, day int) error {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != month || d.Day() != day {
		return fmt.Errorf("%w: fecha %04d-%02d-%02d inexistente", domain.ErrInvalidInput, year, month, day)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issueDate = d
	return nil
}

func (f *Form) Discount() decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.discount
}

// SetDiscount fija el descuento en moneda; los negativos se rechazan.
func (f *Form) SetDiscount(d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("%w: descuento negativo", domain.ErrInvalidInput)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.discount = d
	return nil
}

func (f *Form) Observation() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.observation
}

func (f *Form) SetObservation(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observation = s
}

// Build valida el formulario y arma el pedido en estado created con clave local.
func (f *Form) Build(localKey string) (*entity.Order, error) {
	lines := f.Selected()

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.customer == nil {
		return nil, fmt.Errorf("%w: cliente requerido", domain.ErrInvalidInput)
	}
	if f.paymentMethod == nil {
		return nil, fmt.Errorf("%w: forma de pago requerida", domain.ErrInvalidInput)
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	o := &entity.Order{
		LocalKey:      localKey,
		SalesmanID:    f.salesmanID,
		CompanyID:     f.companyID,
		Customer:      *f.customer,
		PaymentMethod: *f.paymentMethod,
		PriceTableID:  f.priceTableID,
		IssueDate:     f.issueDate,
		Discount:      f.discount,
		Observation:   f.observation,
		Items:         lines,
	}
	if o.Discount.GreaterThan(o.TotalItems()) {
		return nil, fmt.Errorf("%w: descuento %s mayor que el total %s", domain.ErrInvalidInput, o.Discount, o.TotalItems())
	}
	if err := o.MarkStatus(entity.StatusCreated); err != nil {
		return nil, err
	}
	return o, nil
}
