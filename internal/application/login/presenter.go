// Package login orquesta la autenticación del vendedor y la elección de empresa.
package login

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/libertsolutions/libertvendas/internal/application/events"
	"github.com/libertsolutions/libertvendas/internal/application/mvp"
	"github.com/libertsolutions/libertvendas/internal/application/retry"
	"github.com/libertsolutions/libertvendas/internal/domain"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
	"github.com/libertsolutions/libertvendas/internal/domain/repository"
	"github.com/libertsolutions/libertvendas/pkg/cpfcnpj"
	"github.com/libertsolutions/libertvendas/pkg/logger"
)

// Presenter presentador de la pantalla de login.
type Presenter struct {
	mvp.Base[View]

	salesmen     SalesmanService
	repo         repository.Repository[*entity.Salesman]
	session      SessionStore
	connectivity Connectivity
	bus          *events.Bus
	backoff      retry.Backoff
	log          *logger.Logger

	mu      sync.Mutex
	pending *entity.Salesman // autenticado, esperando la elección de empresa
}

// NewPresenter construye el presentador. backoff define reintentos y esperas;
// el presentador fija que sólo se reintentan los timeouts.
func NewPresenter(
	salesmen SalesmanService,
	repo repository.Repository[*entity.Salesman],
	session SessionStore,
	connectivity Connectivity,
	bus *events.Bus,
	backoff retry.Backoff,
	log *logger.Logger,
) *Presenter {
	if log == nil {
		log = logger.Nop()
	}
	backoff.Retryable = domain.IsTimeout
	p := &Presenter{
		salesmen:     salesmen,
		repo:         repo,
		session:      session,
		connectivity: connectivity,
		bus:          bus,
		backoff:      backoff,
		log:          log.Component("login"),
	}
	p.backoff.OnRetry = func(attempt int, delay time.Duration, err error) {
		p.log.Warn().Err(err).Int("attempt", attempt).Dur("delay", delay).Msg("timeout en login, reintentando")
	}
	return p
}

// StartLogin valida el formulario y autentica. Bloquea hasta tener resultado;
// todo desenlace llega a la vista, nunca como error.
func (p *Presenter) StartLogin(ctx context.Context) {
	p.Deliver(func(v View) {
		v.HideRequiredMessages()
		v.ShowIdle()
	})

	if !p.connectivity.IsOnline(ctx) {
		p.Deliver(func(v View) { v.ShowOfflineMessage() })
		return
	}

	in, ok := p.validateInputValues()
	if !ok {
		return
	}

	p.Deliver(func(v View) {
		v.BlockInputFields()
		v.ShowLoading()
	})

	opCtx, op := p.Track(ctx)
	defer op.Done()

	auth, err := retry.Value(opCtx, p.backoff, func(ctx context.Context) (*Authentication, error) {
		return p.salesmen.Authenticate(ctx, cpfcnpj.Digits(in.CPFCNPJ), in.Password)
	})
	if err == nil && auth.Rejected {
		err = domain.NewValidationError(auth.Message)
	}
	if err == nil && auth.Salesman == nil {
		err = errors.New("login: respuesta sin vendedor")
	}
	if err != nil {
		if !op.Live() {
			return
		}
		p.log.Error().Err(err).Str("kind", string(domain.Classify(err))).Msg("login falló")
		p.showError(op, err)
		return
	}
	p.onLoginResult(op, auth.Salesman)
}

func (p *Presenter) validateInputValues() (InputValues, bool) {
	view, ok := p.View()
	if !ok {
		return InputValues{}, false
	}
	in := view.InputValues()

	if !in.HasCPFCNPJ() || !in.HasPassword() {
		p.Deliver(func(v View) {
			if !in.HasPassword() {
				v.DisplayRequiredMessageForFieldPassword()
			}
			if !in.HasCPFCNPJ() {
				v.DisplayRequiredMessageForFieldCPFCNPJ()
			}
			v.ShowFillRequiredFieldsMessage()
		})
		return in, false
	}
	if err := cpfcnpj.Validate(in.CPFCNPJ); err != nil {
		p.Deliver(func(v View) { v.DisplayInvalidCPFCNPJ() })
		return in, false
	}
	return in, true
}

func (p *Presenter) onLoginResult(op *mvp.Op[View], salesman *entity.Salesman) {
	if !salesman.HasCompanies() {
		op.Deliver(func(v View) {
			v.DisplayErrorIndicator()
			v.UnblockInputFields()
			v.DisplayNoCompaniesError()
		})
		return
	}

	p.mu.Lock()
	p.pending = salesman
	p.mu.Unlock()

	companies := append([]entity.Company(nil), salesman.Companies...)
	op.Deliver(func(v View) {
		v.ShowSelectCompany(companies)
		v.ShowCompletedIndicator()
	})
}

// HandleCompanySelected compone la sesión con la empresa elegida, la persiste,
// publica LoggedInUserEvent (sticky) y navega al inicio.
func (p *Presenter) HandleCompanySelected(ctx context.Context, company entity.Company) {
	opCtx, op := p.Track(ctx)
	defer op.Done()

	user, err := p.completeLogin(opCtx, company)
	if err != nil {
		if !op.Live() {
			return
		}
		p.log.Error().Err(err).Int64("company_id", company.CompanyID).Msg("no se pudo completar el login")
		p.showError(op, err)
		return
	}

	p.log.Info().
		Int64("salesman_id", user.Salesman.SalesmanID).
		Str("email", user.Salesman.Email).
		Str("name", user.Salesman.Name).
		Int64("company_id", user.DefaultCompany.CompanyID).
		Msg("vendedor con sesión iniciada")

	if p.bus != nil {
		p.bus.PublishSticky(events.LoggedInUserEvent{User: user})
	}
	op.Deliver(func(v View) { v.NavigateToHome(user) })
}

func (p *Presenter) completeLogin(ctx context.Context, company entity.Company) (*entity.LoggedUser, error) {
	p.mu.Lock()
	pending := p.pending
	p.mu.Unlock()
	if pending == nil {
		return nil, domain.ErrNotLoggedIn
	}

	salesman, err := pending.WithSelectedCompany(company)
	if err != nil {
		return nil, err
	}
	if err := p.repo.Save(ctx, salesman); err != nil {
		return nil, fmt.Errorf("login: guardar vendedor: %w", err)
	}
	user, err := entity.NewLoggedUser(salesman)
	if err != nil {
		return nil, err
	}
	if err := p.session.SetLoggedInUser(ctx, user); err != nil {
		return nil, fmt.Errorf("login: guardar sesión: %w", err)
	}

	p.mu.Lock()
	p.pending = nil
	p.mu.Unlock()
	return user, nil
}

// Cancel cancela lo pendiente, cierra la vista y la suelta.
func (p *Presenter) Cancel() {
	p.Clear()
	p.Deliver(func(v View) { v.FinalizeView() })
	p.Detach()
}

func (p *Presenter) showError(op *mvp.Op[View], err error) {
	op.Deliver(func(v View) {
		v.DisplayErrorIndicator()
		v.UnblockInputFields()
		switch {
		case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNotLoggedIn):
			v.ShowValidationError(err.Error())
		default:
			switch domain.Classify(err) {
			case domain.KindServer:
				v.ShowServerError()
			case domain.KindNetwork:
				v.ShowNetworkError()
			case domain.KindValidation:
				v.ShowValidationError(domain.ValidationMessage(err))
			default:
				v.ShowUnknownError()
			}
		}
	})
}
