package remote

import (
	"context"
	"net/url"

	"github.com/libertsolutions/libertvendas/internal/application/catalog"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
)

var _ catalog.PostalCodeService = (*PostalCodeAPI)(nil)

// PostalCodeAPI consulta de CEP (api/cep/get).
type PostalCodeAPI struct {
	c *Client
}

// NewPostalCodeAPI construye el cliente.
func NewPostalCodeAPI(c *Client) *PostalCodeAPI { return &PostalCodeAPI{c: c} }

func (a *PostalCodeAPI) PostalCode(ctx context.Context, cep string) (*entity.PostalCode, error) {
	const op = "cep.get"
	raw, err := a.c.getJSON(ctx, op, "api/cep/get", url.Values{"cep": {cep}})
	if err != nil {
		return nil, err
	}
	dto, err := decodeOne[cepDto](op, raw)
	if err != nil {
		return nil, err
	}
	if dto.CEP == "" {
		dto.CEP = cep
	}
	return dto.toEntity(), nil
}
