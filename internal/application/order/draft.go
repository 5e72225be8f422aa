package order

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/libertsolutions/libertvendas/internal/domain"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
	"github.com/libertsolutions/libertvendas/internal/domain/repository"
	"github.com/libertsolutions/libertvendas/internal/infrastructure/codec"
)

const (
	draftMagic   = "LVPD"
	draftVersion = 2
	maxDraftRows = 100_000
)

// MarshalBinary codifica el formulario campo por campo.
func (f *Form) MarshalBinary() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w := codec.NewWriter(draftMagic, draftVersion)
	w.Int64(f.salesmanID)
	w.Int64(f.companyID)
	w.Int64(f.priceTableID)
	w.Time(f.issueDate)
	w.Decimal(f.discount)
	w.String(f.observation)

	w.Bool(f.customer != nil)
	if c := f.customer; c != nil {
		w.Int64(c.CustomerID)
		w.String(c.LocalKey)
		w.String(c.Code)
		w.String(c.Name)
		w.String(c.CPFCNPJ)
		w.String(c.CompanyCNPJ)
		w.String(c.SalesmanCPFCNPJ)
		w.Int64(int64(c.Status))
	}

	w.Bool(f.paymentMethod != nil)
	if pm := f.paymentMethod; pm != nil {
		w.Int64(pm.PaymentMethodID)
		w.String(pm.Code)
		w.String(pm.Description)
		w.Decimal(pm.Discount)
	}

	w.Len(len(f.items))
	for _, it := range f.items {
		line := it.Snapshot()
		p := line.Product
		w.Int64(p.ProductID)
		w.String(p.Code)
		w.String(p.Description)
		w.String(p.BarCode)
		w.String(p.Unit)
		w.String(p.Group)
		w.Decimal(p.Price)
		w.Decimal(line.UnitPrice)
		w.Decimal(line.Quantity)
	}
	return w.Bytes(), nil
}

// UnmarshalBinary reemplaza el estado del formulario por el codificado en data.
func (f *Form) UnmarshalBinary(data []byte) error {
	r, err := codec.NewReader(data, draftMagic)
	if err != nil {
		return err
	}
	if r.Version() != draftVersion {
		return fmt.Errorf("%w: versión de borrador %d", codec.ErrMalformed, r.Version())
	}

	var g Form
	g.salesmanID = r.Int64()
	g.companyID = r.Int64()
	g.priceTableID = r.Int64()
	g.issueDate = r.Time()
	g.discount = r.Decimal()
	g.observation = r.String()

	if r.Bool() {
		c := &entity.Customer{}
		c.CustomerID = r.Int64()
		c.LocalKey = r.String()
		c.Code = r.String()
		c.Name = r.String()
		c.CPFCNPJ = r.String()
		c.CompanyCNPJ = r.String()
		c.SalesmanCPFCNPJ = r.String()
		c.Status = entity.SyncStatus(r.Int64())
		g.customer = c
	}

	if r.Bool() {
		pm := &entity.PaymentMethod{}
		pm.PaymentMethodID = r.Int64()
		pm.Code = r.String()
		pm.Description = r.String()
		pm.Discount = r.Decimal()
		g.paymentMethod = pm
	}

	n := r.Len(maxDraftRows)
	g.setItems(make([]*entity.OrderItem, 0, n))
	for i := 0; i < n && r.Err() == nil; i++ {
		var p entity.Product
		p.ProductID = r.Int64()
		p.Code = r.String()
		p.Description = r.String()
		p.BarCode = r.String()
		p.Unit = r.String()
		p.Group = r.String()
		p.Price = r.Decimal()
		unitPrice := r.Decimal()
		quantity := r.Decimal()
		if r.Err() != nil {
			break
		}
		it := entity.NewOrderItem(p, unitPrice)
		if err := it.SetQuantity(quantity); err != nil {
			return fmt.Errorf("%w: %v", codec.ErrMalformed, err)
		}
		g.addItem(it)
	}
	if err := r.Done(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.salesmanID, f.companyID, f.priceTableID = g.salesmanID, g.companyID, g.priceTableID
	f.issueDate, f.discount, f.observation = g.issueDate, g.discount, g.observation
	f.customer, f.paymentMethod = g.customer, g.paymentMethod
	f.items, f.byProduct = g.items, g.byProduct
	return nil
}

// DraftStore guarda el pedido en edición de cada vendedor y empresa entre reinicios
// del agente. Al cargar, el cliente y la forma de pago se releen de la caché.
type DraftStore struct {
	settings       repository.SettingsRepository
	customers      repository.Repository[*entity.Customer]
	paymentMethods repository.Repository[*entity.PaymentMethod]
}

// NewDraftStore construye el store. customers y paymentMethods pueden ser nil;
// entonces el borrador conserva sólo los datos codificados.
func NewDraftStore(
	settings repository.SettingsRepository,
	customers repository.Repository[*entity.Customer],
	paymentMethods repository.Repository[*entity.PaymentMethod],
) *DraftStore {
	return &DraftStore{settings: settings, customers: customers, paymentMethods: paymentMethods}
}

func draftKey(salesmanID, companyID int64) string {
	return "order.draft." + strconv.FormatInt(salesmanID, 10) + "." + strconv.FormatInt(companyID, 10)
}

// Save persiste el borrador.
func (s *DraftStore) Save(ctx context.Context, f *Form) error {
	b, err := f.MarshalBinary()
	if err != nil {
		return fmt.Errorf("order: codificar borrador: %w", err)
	}
	if err := s.settings.Put(ctx, draftKey(f.SalesmanID(), f.CompanyID()), b); err != nil {
		return fmt.Errorf("order: guardar borrador: %w", err)
	}
	return nil
}

// Load devuelve domain.ErrNotFound si el vendedor no tiene borrador en la empresa.
func (s *DraftStore) Load(ctx context.Context, salesmanID, companyID int64) (*Form, error) {
	b, err := s.settings.Get(ctx, draftKey(salesmanID, companyID))
	if err != nil {
		return nil, fmt.Errorf("order: leer borrador: %w", err)
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	f := &Form{discount: decimal.Zero}
	if err := f.UnmarshalBinary(b); err != nil {
		return nil, fmt.Errorf("order: decodificar borrador: %w", err)
	}
	if f.SalesmanID() != salesmanID || f.CompanyID() != companyID {
		return nil, fmt.Errorf("%w: borrador de otro vendedor o empresa", codec.ErrMalformed)
	}
	if err := s.refresh(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// refresh reemplaza el cliente y la forma de pago codificados por los de la caché.
// Si ya no están en la caché se conserva lo codificado.
func (s *DraftStore) refresh(ctx context.Context, f *Form) error {
	if c := f.Customer(); c != nil && s.customers != nil {
		cached, err := s.customers.FindByKey(ctx, c.Key())
		switch {
		case err == nil:
			f.SetCustomer(cached)
		case !errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("order: releer cliente del borrador: %w", err)
		}
	}
	if pm := f.PaymentMethod(); pm != nil && s.paymentMethods != nil {
		cached, err := s.paymentMethods.FindByKey(ctx, pm.Key())
		switch {
		case err == nil:
			f.SetPaymentMethod(cached)
		case !errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("order: releer forma de pago del borrador: %w", err)
		}
	}
	return nil
}

// Discard borra el borrador.
func (s *DraftStore) Discard(ctx context.Context, salesmanID, companyID int64) error {
	if err := s.settings.Delete(ctx, draftKey(salesmanID, companyID)); err != nil {
		return fmt.Errorf("order: borrar borrador: %w", err)
	}
	return nil
}
