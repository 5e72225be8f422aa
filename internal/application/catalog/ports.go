package catalog

import (
	"context"

	"github.com/libertsolutions/libertvendas/internal/domain/entity"
)

// PriceTableService tablas de precio remotas de una empresa.
type PriceTableService interface {
	PriceTables(ctx context.Context, companyCNPJ string) ([]*entity.PriceTable, error)
}

// CustomerService cartera remota del vendedor.
type CustomerService interface {
	Customers(ctx context.Context, salesmanCPFCNPJ, companyCNPJ string) ([]*entity.Customer, error)
	// SaveCustomer devuelve el id remoto asignado (o confirmado) por el backend.
	SaveCustomer(ctx context.Context, c *entity.Customer) (int64, error)
}

// PostalCodeService consulta de CEP.
type PostalCodeService interface {
	PostalCode(ctx context.Context, cep string) (*entity.PostalCode, error)
}

// SessionStore sesión del vendedor.
type SessionStore interface {
	LoggedUser(ctx context.Context) (*entity.LoggedUser, error)
}
