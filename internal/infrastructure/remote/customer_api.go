package remote

import (
	"context"
	"fmt"
	"net/url"

	"github.com/libertsolutions/libertvendas/internal/application/catalog"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
)

var _ catalog.CustomerService = (*CustomerAPI)(nil)

// CustomerAPI cartera de clientes (api/cliente/get, api/cliente/save).
type CustomerAPI struct {
	c *Client
}

// NewCustomerAPI construye el cliente.
func NewCustomerAPI(c *Client) *CustomerAPI { return &CustomerAPI{c: c} }

func (a *CustomerAPI) Customers(ctx context.Context, salesmanCPFCNPJ, companyCNPJ string) ([]*entity.Customer, error) {
	const op = "cliente.get"
	raw, err := a.c.getJSON(ctx, op, "api/cliente/get", url.Values{"cpfCnpj": {salesmanCPFCNPJ}, "cnpj": {companyCNPJ}})
	if err != nil {
		return nil, err
	}
	dtos, err := decodeList[clienteDto](op, raw)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Customer, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toEntity())
	}
	return out, nil
}

// SaveCustomer envía un cliente creado o editado y devuelve el id asignado por el backend.
func (a *CustomerAPI) SaveCustomer(ctx context.Context, c *entity.Customer) (int64, error) {
	const op = "cliente.save"
	raw, err := a.c.postJSON(ctx, op, "api/cliente/save", clienteFromEntity(c))
	if err != nil {
		return 0, err
	}
	saved, err := decodeOne[clienteDto](op, raw)
	if err != nil {
		return 0, err
	}
	if saved.IDCliente == 0 {
		return 0, fmt.Errorf("remote: %s: respuesta sin idCliente", op)
	}
	return saved.IDCliente, nil
}
