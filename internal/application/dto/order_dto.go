package dto

import (
	"github.com/shopspring/decimal"

	"github.com/libertsolutions/libertvendas/internal/domain/entity"
)

// StartDraftRequest body para POST /api/orders/draft.
type StartDraftRequest struct {
	PriceTable string `json:"price_table"`
}

// QuantityRequest body para PUT /api/orders/draft/items/:productID.
type QuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// DraftResponse ítems del pedido en curso. Changed sólo viaja en las respuestas a
// cambios de cantidad; false indica que la línea quedó igual (decrementar en cero).
type DraftResponse struct {
	Items   []entity.OrderLine `json:"items,omitempty"`
	Item    *entity.OrderLine  `json:"item,omitempty"`
	Changed *bool              `json:"changed,omitempty"`
	Total   decimal.Decimal    `json:"total"`
}

// CheckoutRequest body para PATCH /api/orders/draft/checkout. Sólo se aplican los
// campos presentes; IssueDate usa el formato dd/mm/aaaa.
type CheckoutRequest struct {
	CustomerKey      *string          `json:"customer_key,omitempty"`
	PaymentMethodKey *string          `json:"payment_method_key,omitempty"`
	IssueDate        *string          `json:"issue_date,omitempty"`
	Discount         *decimal.Decimal `json:"discount,omitempty"`
	Observation      *string          `json:"observation,omitempty"`
}

// CheckoutResponse estado de la pantalla de cierre.
type CheckoutResponse struct {
	PaymentMethods []*entity.PaymentMethod `json:"payment_methods,omitempty"`
	IssueDate      string                  `json:"issue_date,omitempty"`
	Customer       *entity.Customer        `json:"customer,omitempty"`
	PaymentMethod  *entity.PaymentMethod   `json:"payment_method,omitempty"`
	TotalItems     decimal.Decimal         `json:"total_items"`
	Discount       decimal.Decimal         `json:"discount"`
	Total          decimal.Decimal         `json:"total"`
}

// OrderResponse pedido guardado.
type OrderResponse struct {
	*entity.Order
	Key   string          `json:"key"`
	Total decimal.Decimal `json:"total"`
}

// NewOrderResponse arma la respuesta.
func NewOrderResponse(o *entity.Order) OrderResponse {
	return OrderResponse{Order: o, Key: o.Key(), Total: o.Total()}
}
