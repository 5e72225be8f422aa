package entity

import "github.com/shopspring/decimal"

// Product producto del catálogo. Viaja dentro de las tablas de precio.
type Product struct {
	ProductID   int64           `json:"product_id"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	BarCode     string          `json:"bar_code"`
	Unit        string          `json:"unit"`
	Group       string          `json:"group"`
	Price       decimal.Decimal `json:"price"` // precio base, sin tabla
}
