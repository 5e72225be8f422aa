package entity

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/libertsolutions/libertvendas/internal/domain"
)

var one = decimal.NewFromInt(1)

// OrderItem línea en edición de un pedido: producto, precio unitario y el par
// (cantidad, subtotal). El par se actualiza siempre bajo el mismo mutex, así que
// ningún lector observa una cantidad con el subtotal de otra.
type OrderItem struct {
	product   Product
	unitPrice decimal.Decimal

	mu       sync.Mutex
	quantity decimal.Decimal
	subtotal decimal.Decimal
}

// NewOrderItem crea la línea con cantidad cero.
func NewOrderItem(product Product, unitPrice decimal.Decimal) *OrderItem {
	return &OrderItem{product: product, unitPrice: unitPrice}
}

// Product producto de la línea.
func (i *OrderItem) Product() Product { return i.product }

// UnitPrice precio unitario (de la tabla de precio).
func (i *OrderItem) UnitPrice() decimal.Decimal { return i.unitPrice }

// AddQuantity suma una unidad.
func (i *OrderItem) AddQuantity() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.quantity = i.quantity.Add(one)
	i.recalculate()
}

// RemoveQuantity resta una unidad. Con cantidad cero no hace nada y devuelve false.
func (i *OrderItem) RemoveQuantity() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.quantity.IsPositive() {
		return false
	}
	i.quantity = i.quantity.Sub(one)
	if i.quantity.IsNegative() {
		i.quantity = decimal.Zero
	}
	i.recalculate()
	return true
}

// SetQuantity fija una cantidad explícita; las negativas se rechazan.
func (i *OrderItem) SetQuantity(q decimal.Decimal) error {
	if q.IsNegative() {
		return fmt.Errorf("%w: cantidad negativa %s", domain.ErrInvalidInput, q)
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.quantity = q
	i.recalculate()
	return nil
}

// Quantity cantidad actual.
func (i *OrderItem) Quantity() decimal.Decimal {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.quantity
}

// Subtotal cantidad × precio unitario.
func (i *OrderItem) Subtotal() decimal.Decimal {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.subtotal
}

// Snapshot copia consistente de la línea.
func (i *OrderItem) Snapshot() OrderLine {
	i.mu.Lock()
	defer i.mu.Unlock()
	return OrderLine{
		Product:   i.product,
		UnitPrice: i.unitPrice,
		Quantity:  i.quantity,
		Subtotal:  i.subtotal,
	}
}

// recalculate requiere i.mu tomado.
func (i *OrderItem) recalculate() {
	i.subtotal = i.quantity.Mul(i.unitPrice)
}
