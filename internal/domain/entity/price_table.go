package entity

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// PriceTable tabla de precios de la empresa.
type PriceTable struct {
	Meta
	PriceTableID int64            `json:"price_table_id"`
	Code         string           `json:"code"`
	Description  string           `json:"description"`
	Items        []PriceTableItem `json:"items"`
}

// PriceTableItem precio de venta de un producto dentro de la tabla.
type PriceTableItem struct {
	ItemID    int64           `json:"item_id"`
	Product   Product         `json:"product"`
	SalePrice decimal.Decimal `json:"sale_price"`
}

func (p *PriceTable) Kind() string { return KindPriceTable }
func (p *PriceTable) Key() string  { return strconv.FormatInt(p.PriceTableID, 10) }
