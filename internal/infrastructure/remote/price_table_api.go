package remote

import (
	"context"
	"net/url"

	"github.com/libertsolutions/libertvendas/internal/application/catalog"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
)

var _ catalog.PriceTableService = (*PriceTableAPI)(nil)

// PriceTableAPI tablas de precio por empresa (api/tabela/get).
type PriceTableAPI struct {
	c *Client
}

// NewPriceTableAPI construye el cliente.
func NewPriceTableAPI(c *Client) *PriceTableAPI { return &PriceTableAPI{c: c} }

func (a *PriceTableAPI) PriceTables(ctx context.Context, companyCNPJ string) ([]*entity.PriceTable, error) {
	const op = "tabela.get"
	raw, err := a.c.getJSON(ctx, op, "api/tabela/get", url.Values{"cnpj": {companyCNPJ}})
	if err != nil {
		return nil, err
	}
	dtos, err := decodeList[tabelaDto](op, raw)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.PriceTable, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toEntity())
	}
	return out, nil
}
