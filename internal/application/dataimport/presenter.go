// Package dataimport importa los datos de referencia iniciales (formas de pago y
// ciudades) a la caché local.
package dataimport

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/libertsolutions/libertvendas/internal/application/mvp"
	"github.com/libertsolutions/libertvendas/internal/domain"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
	"github.com/libertsolutions/libertvendas/internal/domain/repository"
	"github.com/libertsolutions/libertvendas/pkg/logger"
)

// Presenter presentador de la importación inicial.
type Presenter struct {
	mvp.Base[View]

	paymentMethods     PaymentMethodService
	paymentMethodsRepo repository.Repository[*entity.PaymentMethod]
	cities             CityService
	citiesRepo         repository.Repository[*entity.City]
	session            SessionStore
	log                *logger.Logger

	mu        sync.Mutex
	syncing   bool  // se inició una importación en esta sesión
	succeeded bool  // la última importación terminó bien
	lastErr   error // falla de la última importación
}

// NewPresenter construye el presentador.
func NewPresenter(
	paymentMethods PaymentMethodService,
	paymentMethodsRepo repository.Repository[*entity.PaymentMethod],
	cities CityService,
	citiesRepo repository.Repository[*entity.City],
	session SessionStore,
	log *logger.Logger,
) *Presenter {
	if log == nil {
		log = logger.Nop()
	}
	return &Presenter{
		paymentMethods:     paymentMethods,
		paymentMethodsRepo: paymentMethodsRepo,
		cities:             cities,
		citiesRepo:         citiesRepo,
		session:            session,
		log:                log.Component("dataimport"),
	}
}

// StartSync lanza la importación si el dispositivo tiene conexión. Bloquea hasta
// que terminan las dos descargas o hasta la primera falla.
func (p *Presenter) StartSync(ctx context.Context, connected bool) {
	if !connected {
		p.Deliver(func(v View) { v.ShowDeviceNotConnectedError() })
		return
	}
	p.Deliver(func(v View) { v.ShowLoading() })

	p.mu.Lock()
	p.syncing = true
	p.succeeded = false
	p.lastErr = nil
	p.mu.Unlock()

	opCtx, op := p.Track(ctx)
	defer op.Done()

	err := p.requestImport(opCtx)

	p.mu.Lock()
	p.succeeded = err == nil
	p.lastErr = err
	p.mu.Unlock()

	if err != nil {
		p.log.Error().Err(err).Str("kind", string(domain.Classify(err))).Msg("importación inicial falló")
		op.Deliver(func(v View) { v.HideLoadingWithFail() })
		return
	}
	if err := p.session.MarkInitialDataSynced(ctx); err != nil {
		p.log.Warn().Err(err).Msg("no se pudo registrar la importación inicial")
	}
	op.Deliver(func(v View) { v.HideLoadingWithSuccess() })
}

// requestImport ejecuta las dos descargas en paralelo. Devuelve en cuanto una
// falla: la otra se cancela por contexto y lo ya guardado no se revierte.
func (p *Presenter) requestImport(ctx context.Context) error {
	companyCNPJ := p.session.CompanyCNPJ(ctx)

	g, gctx := errgroup.WithContext(ctx)
	failed := make(chan error, 2)
	step := func(name string, fn func(context.Context) (int, error)) {
		g.Go(func() error {
			n, err := fn(gctx)
			if err != nil {
				err = fmt.Errorf("dataimport: %s: %w", name, err)
				failed <- err
				return err
			}
			p.log.Debug().Str("step", name).Int("saved", n).Msg("paso de importación completo")
			return nil
		})
	}

	step("formas de pago", func(ctx context.Context) (int, error) {
		list, err := p.paymentMethods.PaymentMethods(ctx, companyCNPJ)
		if err != nil {
			return 0, err
		}
		return repository.Merge(ctx, p.paymentMethodsRepo, list)
	})
	step("ciudades", func(ctx context.Context) (int, error) {
		list, err := p.cities.Cities(ctx)
		if err != nil {
			return 0, err
		}
		return repository.Merge(ctx, p.citiesRepo, list)
	})

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-failed:
		return err
	case err := <-done:
		return err
	}
}

// HandleClickDone con una importación iniciada va a la pantalla principal;
// si no, cierra la vista.
func (p *Presenter) HandleClickDone() {
	p.mu.Lock()
	syncing := p.syncing
	p.mu.Unlock()
	if syncing {
		p.Deliver(func(v View) { v.NavigateToMain() })
		return
	}
	p.Deliver(func(v View) { v.FinishView() })
}

// HandleCancelOnSyncError el usuario desiste tras una falla.
func (p *Presenter) HandleCancelOnSyncError() {
	p.Deliver(func(v View) { v.FinishView() })
}

// HandleAnimationEnd muestra el desenlace cuando la vista terminó de ocultar la carga.
func (p *Presenter) HandleAnimationEnd(success bool) {
	if success {
		p.Deliver(func(v View) {
			v.ShowSuccessMessage()
			v.InvalidateMenu()
		})
		return
	}
	p.mu.Lock()
	err := p.lastErr
	p.mu.Unlock()
	p.Deliver(func(v View) {
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
	})
}

// IsSyncDone indica si los datos iniciales ya están en la caché: una importación
// exitosa en esta sesión o la marca persistida de una anterior.
func (p *Presenter) IsSyncDone(ctx context.Context) bool {
	p.mu.Lock()
	succeeded := p.succeeded
	p.mu.Unlock()
	if succeeded {
		return true
	}
	done, err := p.session.IsInitialDataSynced(ctx)
	if err != nil {
		p.log.Warn().Err(err).Msg("no se pudo leer la marca de importación")
		return false
	}
	return done
}

// Cancel cancela la importación en curso y suelta la vista.
func (p *Presenter) Cancel() {
	p.Detach()
}
