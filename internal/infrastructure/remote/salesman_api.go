package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/libertsolutions/libertvendas/internal/application/login"
)

var _ login.SalesmanService = (*SalesmanAPI)(nil)

// SalesmanAPI autenticación del vendedor (api/vendedor/get).
type SalesmanAPI struct {
	c *Client
}

// NewSalesmanAPI construye el cliente.
func NewSalesmanAPI(c *Client) *SalesmanAPI { return &SalesmanAPI{c: c} }

// Authenticate envía las credenciales por query string, como espera el backend.
// Un rechazo de negocio (error=true) no es un error de transporte: vuelve en Authentication.
func (a *SalesmanAPI) Authenticate(ctx context.Context, cpfCnpj, password string) (*login.Authentication, error) {
	const op = "vendedor.get"
	raw, err := a.c.getJSON(ctx, op, "api/vendedor/get", url.Values{"cpfCnpj": {cpfCnpj}, "senha": {password}})
	if err != nil {
		return nil, err
	}
	var dto loginDto
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("remote: %s: deserializar respuesta: %w", op, err)
	}
	auth := &login.Authentication{Rejected: dto.Error, Message: dto.Mensagem}
	if dto.Vendedor != nil {
		auth.Salesman = dto.Vendedor.toEntity()
	}
	return auth, nil
}
