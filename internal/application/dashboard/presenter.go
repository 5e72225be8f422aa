// Package dashboard resume los pedidos del vendedor por cliente.
package dashboard

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/libertsolutions/libertvendas/internal/application/events"
	"github.com/libertsolutions/libertvendas/internal/application/mvp"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
	"github.com/libertsolutions/libertvendas/internal/domain/repository"
	"github.com/libertsolutions/libertvendas/internal/domain/specification"
	"github.com/libertsolutions/libertvendas/pkg/logger"
)

// OrderChartData porción del gráfico: importe acumulado de un cliente.
type OrderChartData struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// View contrato de la pantalla de inicio.
type View interface {
	StartLoading()
	StopLoading()
	ShowChart(data []OrderChartData)
	ShowEmptyState()
	ShowErrorState()
}

// ToChartData agrupa pedidos consecutivos del mismo cliente; espera la entrada
// ordenada por nombre de cliente. El importe de cada pedido es total de ítems menos descuento.
func ToChartData(orders []*entity.Order) []OrderChartData {
	if len(orders) == 0 {
		return nil
	}
	var out []OrderChartData
	name := orders[0].Customer.Name
	amount := decimal.Zero
	for _, o := range orders {
		if o.Customer.Name != name {
			out = append(out, OrderChartData{Name: name, Amount: amount})
			name, amount = o.Customer.Name, decimal.Zero
		}
		amount = amount.Add(o.TotalItems()).Sub(o.Discount)
	}
	return append(out, OrderChartData{Name: name, Amount: amount})
}

// Presenter presentador del dashboard.
type Presenter struct {
	mvp.Base[View]

	orders repository.Repository[*entity.Order]
	bus    *events.Bus
	log    *logger.Logger

	mu     sync.Mutex
	user   *entity.LoggedUser
	unsubs []func()
}

// NewPresenter construye el presentador.
func NewPresenter(orders repository.Repository[*entity.Order], bus *events.Bus, log *logger.Logger) *Presenter {
	if log == nil {
		log = logger.Nop()
	}
	return &Presenter{orders: orders, bus: bus, log: log.Component("dashboard")}
}

// Attach adjunta la vista y se suscribe a la sesión (sticky) y a los pedidos guardados.
// Si ya hay sesión publicada, la carga ocurre dentro de Attach.
func (p *Presenter) Attach(view View) {
	p.Base.Attach(view)
	if p.bus == nil {
		return
	}
	onUser := events.SubscribeTo(p.bus, p.onLoggedInUser, true)
	onSaved := events.SubscribeTo(p.bus, p.onSavedOrder, false)
	p.mu.Lock()
	p.unsubs = append(p.unsubs, onUser, onSaved)
	p.mu.Unlock()
}

// Detach cancela la suscripción y la carga en curso.
func (p *Presenter) Detach() {
	p.mu.Lock()
	unsubs := p.unsubs
	p.unsubs = nil
	p.mu.Unlock()
	for _, unsub := range unsubs {
		unsub()
	}
	p.Base.Detach()
}

func (p *Presenter) onLoggedInUser(ev events.LoggedInUserEvent) {
	p.mu.Lock()
	changed := p.user == nil || !p.user.Equal(ev.User)
	if changed {
		p.user = ev.User
	}
	p.mu.Unlock()
	if changed {
		p.Refresh(context.Background())
	}
}

func (p *Presenter) onSavedOrder(events.SavedOrderEvent) {
	p.Refresh(context.Background())
}

// Refresh recarga el gráfico.
func (p *Presenter) Refresh(ctx context.Context) {
	user := p.loggedUser()
	if user == nil {
		return
	}
	opCtx, op := p.Track(ctx)
	defer op.Done()

	op.Deliver(func(v View) { v.StartLoading() })
	orders, err := p.orders.Query(opCtx, specification.OrderedOrdersBySalesmanAndCompany{
		SalesmanID: user.Salesman.SalesmanID,
		CompanyID:  user.DefaultCompany.CompanyID,
	})
	if err != nil {
		p.log.Error().Err(err).Msg("no se pudo armar el gráfico de pedidos")
		op.Deliver(func(v View) {
			v.StopLoading()
			v.ShowErrorState()
		})
		return
	}
	data := ToChartData(orders)
	op.Deliver(func(v View) {
		if len(data) == 0 {
			v.ShowEmptyState()
		} else {
			v.ShowChart(data)
		}
		v.StopLoading()
	})
}

// Retry reintenta tras un error.
func (p *Presenter) Retry(ctx context.Context) { p.Refresh(ctx) }

func (p *Presenter) loggedUser() *entity.LoggedUser {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.user == nil && p.bus != nil {
		if ev, ok := events.StickyOf[events.LoggedInUserEvent](p.bus); ok {
			p.user = ev.User
		}
	}
	return p.user
}
