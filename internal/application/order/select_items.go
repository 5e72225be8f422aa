package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/libertsolutions/libertvendas/internal/application/mvp"
	"github.com/libertsolutions/libertvendas/internal/domain"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
	"github.com/libertsolutions/libertvendas/internal/domain/repository"
	"github.com/libertsolutions/libertvendas/pkg/logger"
)

// SelectItemsPresenter presentador de la selección de ítems.
type SelectItemsPresenter struct {
	mvp.Base[SelectItemsView]

	tables  repository.Repository[*entity.PriceTable]
	session SessionStore
	drafts  *DraftStore
	log     *logger.Logger
	now     func() time.Time

	mu   sync.Mutex
	form *Form
}

// NewSelectItemsPresenter construye el presentador. drafts puede ser nil.
func NewSelectItemsPresenter(
	tables repository.Repository[*entity.PriceTable],
	session SessionStore,
	drafts *DraftStore,
	log *logger.Logger,
) *SelectItemsPresenter {
	if log == nil {
		log = logger.Nop()
	}
	return &SelectItemsPresenter{
		tables:  tables,
		session: session,
		drafts:  drafts,
		log:     log.Component("order.items"),
		now:     time.Now,
	}
}

// Load inicia un pedido nuevo sobre la tabla de precio indicada.
func (p *SelectItemsPresenter) Load(ctx context.Context, priceTableKey string) {
	user, err := p.session.LoggedUser(ctx)
	if err != nil {
		p.showError(err)
		return
	}
	table, err := p.tables.FindByKey(ctx, priceTableKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = fmt.Errorf("%w: tabla de precio %s no encontrada", domain.ErrInvalidInput, priceTableKey)
		}
		p.showError(err)
		return
	}

	f := NewForm(user, table, p.now())
	p.setForm(f)
	p.persist(ctx, f)
	p.bind(f, "")
}

// Restore recupera el borrador del vendedor en la empresa de la sesión. Devuelve
// false si no había.
func (p *SelectItemsPresenter) Restore(ctx context.Context) bool {
	if p.drafts == nil {
		return false
	}
	user, err := p.session.LoggedUser(ctx)
	if err != nil {
		p.showError(err)
		return false
	}
	f, err := p.drafts.Load(ctx, user.Salesman.SalesmanID, user.DefaultCompany.CompanyID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			p.log.Warn().Err(err).Msg("borrador ilegible, se descarta")
		}
		return false
	}
	p.setForm(f)
	p.bind(f, "")
	return true
}

// Resume devuelve el pedido en curso de la sesión. Un pedido en memoria de otro
// vendedor o empresa se suelta y se intenta recuperar el borrador de la sesión.
func (p *SelectItemsPresenter) Resume(ctx context.Context) (*Form, bool) {
	user, err := p.session.LoggedUser(ctx)
	if err != nil {
		p.showError(err)
		return nil, false
	}
	if f, err := p.current(); err == nil {
		if f.BelongsTo(user) {
			return f, true
		}
		p.log.Info().
			Int64("form_company_id", f.CompanyID()).
			Int64("session_company_id", user.DefaultCompany.CompanyID).
			Msg("pedido en curso de otra sesión, se suelta")
		p.setForm(nil)
	}
	if !p.Restore(ctx) {
		return nil, false
	}
	f, err := p.current()
	return f, err == nil
}

// Filter muestra sólo los productos cuya descripción o código de barras contienen query.
func (p *SelectItemsPresenter) Filter(query string) {
	f, err := p.current()
	if err != nil {
		p.showError(err)
		return
	}
	p.Deliver(func(v SelectItemsView) { v.BindItems(f.Lines(query)) })
}

// Increment suma una unidad al producto.
func (p *SelectItemsPresenter) Increment(ctx context.Context, productID int64) {
	p.mutate(ctx, productID, func(it *entity.OrderItem) (bool, error) {
		it.AddQuantity()
		return true, nil
	})
}

// Decrement resta una unidad; con cantidad cero no cambia nada.
func (p *SelectItemsPresenter) Decrement(ctx context.Context, productID int64) {
	p.mutate(ctx, productID, func(it *entity.OrderItem) (bool, error) {
		return it.RemoveQuantity(), nil
	})
}

// SetQuantity fija la cantidad del producto.
func (p *SelectItemsPresenter) SetQuantity(ctx context.Context, productID int64, q decimal.Decimal) {
	p.mutate(ctx, productID, func(it *entity.OrderItem) (bool, error) {
		return true, it.SetQuantity(q)
	})
}

// Selected líneas con cantidad positiva del pedido en curso.
func (p *SelectItemsPresenter) Selected() []entity.OrderLine {
	f, err := p.current()
	if err != nil {
		return nil
	}
	return f.Selected()
}

// Form pedido en curso, para continuar en la pantalla de cierre.
func (p *SelectItemsPresenter) Form() (*Form, error) {
	return p.current()
}

// Reset suelta el pedido en curso (tras guardarlo o al cerrar sesión).
func (p *SelectItemsPresenter) Reset() {
	p.setForm(nil)
}

func (p *SelectItemsPresenter) mutate(ctx context.Context, productID int64, fn func(*entity.OrderItem) (bool, error)) {
	f, err := p.current()
	if err != nil {
		p.showError(err)
		return
	}
	it, err := f.Item(productID)
	if err != nil {
		p.showError(fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}
	changed, err := fn(it)
	if err != nil {
		p.showError(err)
		return
	}
	if !changed {
		return
	}
	p.persist(ctx, f)
	line, total := it.Snapshot(), f.TotalItems()
	p.Deliver(func(v SelectItemsView) {
		v.UpdateItem(line)
		v.ShowTotal(total)
	})
}

func (p *SelectItemsPresenter) bind(f *Form, query string) {
	lines, total := f.Lines(query), f.TotalItems()
	p.Deliver(func(v SelectItemsView) {
		v.BindItems(lines)
		v.ShowTotal(total)
	})
}

func (p *SelectItemsPresenter) persist(ctx context.Context, f *Form) {
	if p.drafts == nil {
		return
	}
	if err := p.drafts.Save(ctx, f); err != nil {
		p.log.Warn().Err(err).Msg("no se pudo guardar el borrador")
	}
}

func (p *SelectItemsPresenter) setForm(f *Form) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form = f
}

func (p *SelectItemsPresenter) current() (*Form, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.form == nil {
		return nil, fmt.Errorf("%w: no hay pedido en curso", domain.ErrInvalidInput)
	}
	return p.form, nil
}

func (p *SelectItemsPresenter) showError(err error) {
	if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrNotLoggedIn) {
		p.Deliver(func(v SelectItemsView) { v.ShowValidationError(err.Error()) })
		return
	}
	p.log.Error().Err(err).Msg("selección de ítems falló")
	p.Deliver(func(v SelectItemsView) { v.ShowUnknownError() })
}
