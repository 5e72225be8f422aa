package entity

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// PaymentMethod forma de pago habilitada para la empresa.
type PaymentMethod struct {
	Meta
	PaymentMethodID int64           `json:"payment_method_id"`
	Code            string          `json:"code"`
	Description     string          `json:"description"`
	Discount        decimal.Decimal `json:"discount"` // porcentaje máximo de descuento
	Active          bool            `json:"active"`
}

func (p *PaymentMethod) Kind() string { return KindPaymentMethod }
func (p *PaymentMethod) Key() string  { return strconv.FormatInt(p.PaymentMethodID, 10) }
