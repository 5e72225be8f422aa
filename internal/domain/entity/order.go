package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine línea ya cerrada de un pedido (valor inmutable).
type OrderLine struct {
	Product   Product         `json:"product"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  decimal.Decimal `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Order pedido emitido por el vendedor para una empresa.
type Order struct {
	Meta
	OrderID       int64           `json:"order_id"`
	LocalKey      string          `json:"local_key,omitempty"`
	SalesmanID    int64           `json:"salesman_id"`
	CompanyID     int64           `json:"company_id"`
	Customer      Customer        `json:"customer"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	PriceTableID  int64           `json:"price_table_id"`
	IssueDate     time.Time       `json:"issue_date"`
	Discount      decimal.Decimal `json:"discount"`
	Observation   string          `json:"observation"`
	Items         []OrderLine     `json:"items"`
}

func (o *Order) Kind() string { return KindOrder }
func (o *Order) Key() string  { return remoteKey(o.OrderID, o.LocalKey) }

// TotalItems suma de los subtotales.
func (o *Order) TotalItems() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal)
	}
	return total
}

// Total TotalItems menos el descuento.
func (o *Order) Total() decimal.Decimal {
	return o.TotalItems().Sub(o.Discount)
}

// Amount importe del pedido para los índices de la caché (igual a Total).
func (o *Order) Amount() decimal.Decimal { return o.Total() }
