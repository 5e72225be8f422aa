package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/libertsolutions/libertvendas/internal/application/events"
	"github.com/libertsolutions/libertvendas/internal/application/mvp"
	"github.com/libertsolutions/libertvendas/internal/domain"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
	"github.com/libertsolutions/libertvendas/internal/domain/repository"
	"github.com/libertsolutions/libertvendas/internal/domain/specification"
	"github.com/libertsolutions/libertvendas/pkg/logger"
)

// StepFinalize nombre del paso que publica NavigateToNextEvent al guardar.
const StepFinalize = "finalize_order"

// FinalizePresenter presentador del cierre del pedido.
type FinalizePresenter struct {
	mvp.Base[FinalizeView]

	paymentMethods repository.Repository[*entity.PaymentMethod]
	customers      repository.Repository[*entity.Customer]
	orders         repository.Repository[*entity.Order]
	session        SessionStore
	drafts         *DraftStore
	bus            *events.Bus
	log            *logger.Logger

	mu   sync.Mutex
	form *Form
}

// NewFinalizePresenter construye el presentador. drafts puede ser nil.
func NewFinalizePresenter(
	paymentMethods repository.Repository[*entity.PaymentMethod],
	customers repository.Repository[*entity.Customer],
	orders repository.Repository[*entity.Order],
	session SessionStore,
	drafts *DraftStore,
	bus *events.Bus,
	log *logger.Logger,
) *FinalizePresenter {
	if log == nil {
		log = logger.Nop()
	}
	return &FinalizePresenter{
		paymentMethods: paymentMethods,
		customers:      customers,
		orders:         orders,
		session:        session,
		drafts:         drafts,
		bus:            bus,
		log:            log.Component("order.finalize"),
	}
}

// SetForm recibe el pedido armado en la selección de ítems.
func (p *FinalizePresenter) SetForm(f *Form) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form = f
}

// InitializeView muestra las formas de pago importadas, la fecha y los totales.
func (p *FinalizePresenter) InitializeView(ctx context.Context) {
	f, err := p.current()
	if err != nil {
		p.showError(err)
		return
	}
	methods, err := p.paymentMethods.List(ctx)
	if err != nil {
		p.showError(fmt.Errorf("order: listar formas de pago: %w", err))
		return
	}
	issue := f.IssueDate().Format(IssueDateLayout)
	p.Deliver(func(v FinalizeView) {
		v.BindPaymentMethods(methods)
		v.BindIssueDate(issue)
	})
	if c := f.Customer(); c != nil {
		p.Deliver(func(v FinalizeView) { v.BindCustomer(c) })
	}
	if pm := f.PaymentMethod(); pm != nil {
		p.Deliver(func(v FinalizeView) { v.BindPaymentMethod(pm) })
	}
	p.bindTotals(f)
}

// SetIssueDate fija la fecha de emisión (month de 1 a 12).
func (p *FinalizePresenter) SetIssueDate(ctx context.Context, year int, month time.Month, day int) {
	f, err := p.current()
	if err == nil {
		err = f.SetIssueDate(year, month, day)
	}
	if err != nil {
		p.showError(err)
		return
	}
	p.persist(ctx, f)
	issue := f.IssueDate().Format(IssueDateLayout)
	p.Deliver(func(v FinalizeView) { v.BindIssueDate(issue) })
}

// SelectCustomer elige el cliente por clave, dentro de la cartera de la sesión.
func (p *FinalizePresenter) SelectCustomer(ctx context.Context, key string) {
	f, err := p.current()
	if err != nil {
		p.showError(err)
		return
	}
	user, err := p.session.LoggedUser(ctx)
	if err != nil {
		p.showError(err)
		return
	}
	c, err := p.customers.FindByKey(ctx, key)
	if err == nil && !portfolio(user).IsSatisfiedBy(c) {
		err = fmt.Errorf("%w: cliente %s fuera de la cartera", domain.ErrNotFound, key)
	}
	if err != nil {
		p.showError(notFoundAsInput(err, "cliente", key))
		return
	}
	f.SetCustomer(c)
	p.persist(ctx, f)
	p.Deliver(func(v FinalizeView) { v.BindCustomer(c) })
}

// SelectPaymentMethod elige la forma de pago por clave.
func (p *FinalizePresenter) SelectPaymentMethod(ctx context.Context, key string) {
	f, err := p.current()
	if err != nil {
		p.showError(err)
		return
	}
	pm, err := p.paymentMethods.FindByKey(ctx, key)
	if err != nil {
		p.showError(notFoundAsInput(err, "forma de pago", key))
		return
	}
	f.SetPaymentMethod(pm)
	p.persist(ctx, f)
	p.Deliver(func(v FinalizeView) { v.BindPaymentMethod(pm) })
}

// SetDiscount fija el descuento en moneda.
func (p *FinalizePresenter) SetDiscount(ctx context.Context, d decimal.Decimal) {
	f, err := p.current()
	if err == nil {
		err = f.SetDiscount(d)
	}
	if err != nil {
		p.showError(err)
		return
	}
	p.persist(ctx, f)
	p.bindTotals(f)
}

// SetObservation fija la observación libre del pedido.
func (p *FinalizePresenter) SetObservation(ctx context.Context, s string) {
	f, err := p.current()
	if err != nil {
		p.showError(err)
		return
	}
	f.SetObservation(s)
	p.persist(ctx, f)
}

// Save valida y guarda el pedido, publica SavedOrderEvent y NavigateToNextEvent
// y descarta el borrador.
func (p *FinalizePresenter) Save(ctx context.Context) {
	f, err := p.current()
	if err != nil {
		p.showError(err)
		return
	}
	user, err := p.session.LoggedUser(ctx)
	if err != nil {
		p.showError(err)
		return
	}
	if !f.BelongsTo(user) {
		p.showError(fmt.Errorf("%w: el pedido en curso es de otro vendedor o empresa", domain.ErrInvalidInput))
		return
	}
	o, err := f.Build(uuid.New().String())
	if err != nil {
		p.showError(err)
		return
	}
	if err := p.orders.Save(ctx, o); err != nil {
		p.showError(fmt.Errorf("order: guardar pedido: %w", err))
		return
	}
	p.log.Info().
		Str("key", o.Key()).
		Int64("salesman_id", o.SalesmanID).
		Str("customer", o.Customer.Name).
		Str("total", o.Total().StringFixed(2)).
		Msg("pedido guardado")

	if p.drafts != nil {
		if err := p.drafts.Discard(ctx, f.SalesmanID(), f.CompanyID()); err != nil {
			p.log.Warn().Err(err).Msg("no se pudo descartar el borrador")
		}
	}
	p.mu.Lock()
	p.form = nil
	p.mu.Unlock()

	if p.bus != nil {
		p.bus.Publish(events.SavedOrderEvent{Order: o})
		p.bus.Publish(events.NavigateToNextEvent{From: StepFinalize})
	}
	p.Deliver(func(v FinalizeView) { v.ShowSavedOrder(o) })
}

func (p *FinalizePresenter) bindTotals(f *Form) {
	items, discount := f.TotalItems(), f.Discount()
	p.Deliver(func(v FinalizeView) { v.BindTotals(items, discount, items.Sub(discount)) })
}

func (p *FinalizePresenter) persist(ctx context.Context, f *Form) {
	if p.drafts == nil {
		return
	}
	if err := p.drafts.Save(ctx, f); err != nil {
		p.log.Warn().Err(err).Msg("no se pudo guardar el borrador")
	}
}

func (p *FinalizePresenter) current() (*Form, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.form == nil {
		return nil, fmt.Errorf("%w: no hay pedido en curso", domain.ErrInvalidInput)
	}
	return p.form, nil
}

func (p *FinalizePresenter) showError(err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyOrder):
		p.Deliver(func(v FinalizeView) { v.ShowEmptyOrderError() })
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNotLoggedIn):
		p.Deliver(func(v FinalizeView) { v.ShowValidationError(err.Error()) })
	default:
		p.log.Error().Err(err).Msg("cierre del pedido falló")
		p.Deliver(func(v FinalizeView) { v.ShowUnknownError() })
	}
}

func portfolio(u *entity.LoggedUser) specification.CustomersBySalesmanAndCompany {
	return specification.CustomersBySalesmanAndCompany{
		SalesmanCPFCNPJ: u.Salesman.CPFCNPJ,
		CompanyCNPJ:     u.DefaultCompany.CNPJ,
	}
}

func notFoundAsInput(err error, what, key string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %s %s no encontrado", domain.ErrInvalidInput, what, key)
	}
	return err
}
