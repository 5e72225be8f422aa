package order

import (
	"context"
	"fmt"

	"github.com/libertsolutions/libertvendas/internal/domain"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
	"github.com/libertsolutions/libertvendas/internal/domain/repository"
)

// ReceiptUseCase comprobante PDF de un pedido guardado.
type ReceiptUseCase struct {
	orders    repository.Repository[*entity.Order]
	session   SessionStore
	generator ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(orders repository.Repository[*entity.Order], session SessionStore, generator ReceiptGenerator) *ReceiptUseCase {
	return &ReceiptUseCase{orders: orders, session: session, generator: generator}
}

// Receipt genera el comprobante. Sólo el vendedor y la empresa del pedido pueden pedirlo.
func (uc *ReceiptUseCase) Receipt(ctx context.Context, key string) ([]byte, error) {
	user, err := uc.session.LoggedUser(ctx)
	if err != nil {
		return nil, err
	}
	o, err := uc.orders.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if o.SalesmanID != user.Salesman.SalesmanID || o.CompanyID != user.DefaultCompany.CompanyID {
		return nil, domain.ErrForbidden
	}
	pdf, err := uc.generator.Generate(o, user)
	if err != nil {
		return nil, fmt.Errorf("order: generar comprobante: %w", err)
	}
	return pdf, nil
}
