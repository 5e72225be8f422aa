package order

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/libertsolutions/libertvendas/internal/domain/entity"
)

// SessionStore sesión del vendedor.
type SessionStore interface {
	LoggedUser(ctx context.Context) (*entity.LoggedUser, error)
}

// ReceiptGenerator genera el comprobante imprimible de un pedido.
type ReceiptGenerator interface {
	Generate(order *entity.Order, user *entity.LoggedUser) ([]byte, error)
}

// SelectItemsView contrato de la pantalla de selección de ítems.
type SelectItemsView interface {
	BindItems(lines []entity.OrderLine)
	UpdateItem(line entity.OrderLine)
	ShowTotal(total decimal.Decimal)
	ShowValidationError(message string)
	ShowUnknownError()
}

// FinalizeView contrato de la pantalla de cierre del pedido.
type FinalizeView interface {
	BindPaymentMethods(methods []*entity.PaymentMethod)
	BindIssueDate(formatted string)
	BindCustomer(customer *entity.Customer)
	BindPaymentMethod(method *entity.PaymentMethod)
	BindTotals(items, discount, total decimal.Decimal)
	ShowValidationError(message string)
	ShowEmptyOrderError()
	ShowUnknownError()
	ShowSavedOrder(order *entity.Order)
}
