package remote

import (
	"context"
	"net/url"

	"github.com/libertsolutions/libertvendas/internal/application/dataimport"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
)

var _ dataimport.PaymentMethodService = (*PaymentMethodAPI)(nil)

// PaymentMethodAPI formas de pago por empresa (api/formpgto/get).
type PaymentMethodAPI struct {
	c *Client
}

// NewPaymentMethodAPI construye el cliente.
func NewPaymentMethodAPI(c *Client) *PaymentMethodAPI { return &PaymentMethodAPI{c: c} }

func (a *PaymentMethodAPI) PaymentMethods(ctx context.Context, companyCNPJ string) ([]*entity.PaymentMethod, error) {
	const op = "formpgto.get"
	raw, err := a.c.getJSON(ctx, op, "api/formpgto/get", url.Values{"cnpj": {companyCNPJ}})
	if err != nil {
		return nil, err
	}
	dtos, err := decodeList[formaPagamentoDto](op, raw)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.PaymentMethod, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toEntity())
	}
	return out, nil
}
