package remote

import (
	"context"

	"github.com/libertsolutions/libertvendas/internal/application/dataimport"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
)

var _ dataimport.CityService = (*CityAPI)(nil)

// CityAPI catálogo completo de ciudades (api/cidade/get).
type CityAPI struct {
	c *Client
}

// NewCityAPI construye el cliente.
func NewCityAPI(c *Client) *CityAPI { return &CityAPI{c: c} }

func (a *CityAPI) Cities(ctx context.Context) ([]*entity.City, error) {
	const op = "cidade.get"
	raw, err := a.c.getJSON(ctx, op, "api/cidade/get", nil)
	if err != nil {
		return nil, err
	}
	dtos, err := decodeList[cidadeDto](op, raw)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.City, 0, len(dtos))
	for i := range dtos {
		out = append(out, dtos[i].toEntity())
	}
	return out, nil
}
