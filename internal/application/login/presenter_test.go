package login_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libertsolutions/libertvendas/internal/application/events"
	"github.com/libertsolutions/libertvendas/internal/application/login"
	"github.com/libertsolutions/libertvendas/internal/application/retry"
	"github.com/libertsolutions/libertvendas/internal/application/session"
	"github.com/libertsolutions/libertvendas/internal/domain"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
	"github.com/libertsolutions/libertvendas/internal/infrastructure/memory"
	"github.com/libertsolutions/libertvendas/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de test
// ──────────────────────────────────────────────────────────────────────────────

const validCPF = "529.982.247-25"

type viewRecorder struct {
	mu        sync.Mutex
	input     login.InputValues
	calls     []string
	companies []entity.Company
	message   string
	home      *entity.LoggedUser
}

func (v *viewRecorder) add(call string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls = append(v.calls, call)
}

func (v *viewRecorder) InputValues() login.InputValues { return v.input }
func (v *viewRecorder) HideRequiredMessages() { v.add("HideRequiredMessages") }
func (v *viewRecorder) ShowIdle() { v.add("ShowIdle") }
func (v *viewRecorder) ShowOfflineMessage() { v.add("ShowOfflineMessage") }
func (v *viewRecorder) DisplayRequiredMessageForFieldCPFCNPJ() { v.add("RequiredCPFCNPJ") }
func (v *viewRecorder) DisplayRequiredMessageForFieldPassword() {
	v.add("RequiredPassword")
}
func (v *viewRecorder) ShowFillRequiredFieldsMessage() { v.add("ShowFillRequiredFieldsMessage") }
func (v *viewRecorder) DisplayInvalidCPFCNPJ() { v.add("DisplayInvalidCPFCNPJ") }
func (v *viewRecorder) BlockInputFields() { v.add("BlockInputFields") }
func (v *viewRecorder) UnblockInputFields() { v.add("UnblockInputFields") }
func (v *viewRecorder) ShowLoading() { v.add("ShowLoading") }
func (v *viewRecorder) ShowCompletedIndicator() { v.add("ShowCompletedIndicator") }
func (v *viewRecorder) DisplayErrorIndicator() { v.add("DisplayErrorIndicator") }
func (v *viewRecorder) ShowSelectCompany(companies []entity.Company) {
	v.companies = companies
	v.add("ShowSelectCompany")
}
func (v *viewRecorder) DisplayNoCompaniesError() { v.add("DisplayNoCompaniesError") }
func (v *viewRecorder) ShowServerError() { v.add("ShowServerError") }
func (v *viewRecorder) ShowNetworkError() { v.add("ShowNetworkError") }
func (v *viewRecorder) ShowValidationError(message string) {
	v.message = message
	v.add("ShowValidationError")
}
func (v *viewRecorder) ShowUnknownError() { v.add("ShowUnknownError") }
func (v *viewRecorder) NavigateToHome(user *entity.LoggedUser) {
	v.home = user
	v.add("NavigateToHome")
}
func (v *viewRecorder) FinalizeView() { v.add("FinalizeView") }

func (v *viewRecorder) has(call string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, c := range v.calls {
		if c == call {
			return true
		}
	}
	return false
}

type online bool

func (o online) IsOnline(context.Context) bool { return bool(o) }

// scriptedService devuelve las respuestas en orden; la última se repite.
type scriptedService struct {
	mu       sync.Mutex
	attempts int
	gotCPF   string
	script   []func() (*login.Authentication, error)
}

func (s *scriptedService) Authenticate(_ context.Context, cpfCnpj, _ string) (*login.Authentication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gotCPF = cpfCnpj
	i := s.attempts
	if i >= len(s.script) {
		i = len(s.script) - 1
	}
	s.attempts++
	return s.script[i]()
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func timeout() (*login.Authentication, error) {
	return nil, &domain.NetworkError{Op: "vendedor.get", Err: timeoutErr{}}
}

func acme() entity.Company { return entity.Company{CompanyID: 1, Name: "Acme", CNPJ: "18285835000109"} }

func authenticated() (*login.Authentication, error) {
	return &login.Authentication{Salesman: &entity.Salesman{
		SalesmanID: 3, Name: "Ana", Email: "ana@acme.com", Companies: []entity.Company{acme()},
	}}, nil
}

type fixture struct {
	presenter *login.Presenter
	view      *viewRecorder
	service   *scriptedService
	waits     []time.Duration
	bus       *events.Bus
	repo      *memory.Repo[*entity.Salesman]
	session   *session.Store
}

func newFixture(t *testing.T, connected bool, script ...func() (*login.Authentication, error)) *fixture {
	t.Helper()
	f := &fixture{
		view:    &viewRecorder{input: login.InputValues{CPFCNPJ: validCPF, Password: "s3nha"}},
		service: &scriptedService{script: script},
		bus:     events.NewBus(logger.Nop()),
		repo:    memory.NewRepo(func() *entity.Salesman { return new(entity.Salesman) }),
	}
	f.session = session.NewStore(memory.NewSettings(), f.bus, "")
	backoff := retry.Backoff{
		MaxRetries: 3,
		BaseDelay:  5 * time.Second,
		Sleep: func(ctx context.Context, d time.Duration) error {
			f.waits = append(f.waits, d)
			return ctx.Err()
		},
	}
	f.presenter = login.NewPresenter(f.service, f.repo, f.session, online(connected), f.bus, backoff, logger.Nop())
	f.presenter.Attach(f.view)
	return f
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestStartLogin_SinConexion(t *testing.T) {
	f := newFixture(t, false, authenticated)

	f.presenter.StartLogin(context.Background())

	assert.Equal(t, []string{"HideRequiredMessages", "ShowIdle", "ShowOfflineMessage"}, f.view.calls)
	assert.Zero(t, f.service.attempts)
}

func TestStartLogin_CamposVacios(t *testing.T) {
	f := newFixture(t, true, authenticated)
	f.view.input = login.InputValues{}

	f.presenter.StartLogin(context.Background())

	assert.True(t, f.view.has("RequiredCPFCNPJ"))
	assert.True(t, f.view.has("RequiredPassword"))
	assert.True(t, f.view.has("ShowFillRequiredFieldsMessage"))
	assert.False(t, f.view.has("BlockInputFields"))
	assert.Zero(t, f.service.attempts)
}

func TestStartLogin_DocumentoInvalido(t *testing.T) {
	f := newFixture(t, true, authenticated)
	f.view.input.CPFCNPJ = "111.111.111-11"

	f.presenter.StartLogin(context.Background())

	assert.True(t, f.view.has("DisplayInvalidCPFCNPJ"))
	assert.Zero(t, f.service.attempts)
}

func TestStartLogin_ExitoMuestraEmpresas(t *testing.T) {
	f := newFixture(t, true, authenticated)

	f.presenter.StartLogin(context.Background())

	assert.Equal(t, "52998224725", f.service.gotCPF, "se envían sólo los dígitos")
	assert.Equal(t, []string{
		"HideRequiredMessages", "ShowIdle", "BlockInputFields", "ShowLoading",
		"ShowSelectCompany", "ShowCompletedIndicator",
	}, f.view.calls)
	assert.Equal(t, []entity.Company{acme()}, f.view.companies)
}

func TestStartLogin_TimeoutsReintentanConEsperaExponencial(t *testing.T) {
	f := newFixture(t, true, timeout)

	f.presenter.StartLogin(context.Background())

	assert.Equal(t, 4, f.service.attempts, "intento inicial + 3 reintentos")
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second, 20 * time.Second}, f.waits)
	assert.True(t, f.view.has("ShowNetworkError"))
	assert.True(t, f.view.has("UnblockInputFields"))
	assert.False(t, f.view.has("ShowSelectCompany"))
}

func TestStartLogin_TimeoutSeguidoDeExito(t *testing.T) {
	f := newFixture(t, true, timeout, authenticated)

	f.presenter.StartLogin(context.Background())

	assert.Equal(t, 2, f.service.attempts)
	assert.Equal(t, []time.Duration{5 * time.Second}, f.waits)
	assert.True(t, f.view.has("ShowSelectCompany"))
}

func TestStartLogin_RechazoEsValidacionSinSeleccionDeEmpresa(t *testing.T) {
	f := newFixture(t, true, func() (*login.Authentication, error) {
		return &login.Authentication{Rejected: true, Message: "Senha inválida", Salesman: &entity.Salesman{
			Companies: []entity.Company{acme()},
		}}, nil
	})

	f.presenter.StartLogin(context.Background())

	assert.True(t, f.view.has("ShowValidationError"))
	assert.Equal(t, "Senha inválida", f.view.message)
	assert.False(t, f.view.has("ShowSelectCompany"))
	assert.Equal(t, 1, f.service.attempts, "un rechazo no se reintenta")
}

func TestStartLogin_SinEmpresas(t *testing.T) {
	f := newFixture(t, true, func() (*login.Authentication, error) {
		return &login.Authentication{Salesman: &entity.Salesman{SalesmanID: 3}}, nil
	})

	f.presenter.StartLogin(context.Background())

	assert.True(t, f.view.has("DisplayErrorIndicator"))
	assert.True(t, f.view.has("UnblockInputFields"))
	assert.True(t, f.view.has("DisplayNoCompaniesError"))
	assert.False(t, f.view.has("ShowSelectCompany"))
}

func TestStartLogin_ClasificaErrores(t *testing.T) {
	cases := map[string]error{
		"ShowServerError":  &domain.ServerError{StatusCode: http.StatusBadGateway},
		"ShowNetworkError": &domain.NetworkError{Op: "vendedor.get", Err: errors.New("connection refused")},
		"ShowUnknownError": fmt.Errorf("remote: deserializar: %w", errors.New("bad json")),
	}
	for want, err := range cases {
		t.Run(want, func(t *testing.T) {
			f := newFixture(t, true, func() (*login.Authentication, error) { return nil, err })

			f.presenter.StartLogin(context.Background())

			assert.True(t, f.view.has(want))
			assert.True(t, f.view.has("DisplayErrorIndicator"))
			assert.Equal(t, 1, f.service.attempts, "sólo los timeouts se reintentan")
		})
	}
}

func TestHandleCompanySelected_PersisteSesionYPublicaEvento(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true, authenticated)
	f.presenter.StartLogin(ctx)

	f.presenter.HandleCompanySelected(ctx, acme())

	require.True(t, f.view.has("NavigateToHome"))
	assert.Equal(t, int64(3), f.view.home.Salesman.SalesmanID)
	assert.Equal(t, acme(), f.view.home.DefaultCompany)

	saved, err := f.repo.FindByKey(ctx, "3")
	require.NoError(t, err)
	require.NotNil(t, saved.SelectedCompany)
	assert.Equal(t, int64(1), saved.SelectedCompany.CompanyID)

	stored, err := f.session.LoggedUser(ctx)
	require.NoError(t, err)
	assert.True(t, stored.Equal(f.view.home))

	ev, ok := events.StickyOf[events.LoggedInUserEvent](f.bus)
	require.True(t, ok)
	assert.True(t, ev.User.Equal(f.view.home))
}

func TestHandleCompanySelected_EmpresaAjena(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true, authenticated)
	f.presenter.StartLogin(ctx)

	f.presenter.HandleCompanySelected(ctx, entity.Company{CompanyID: 99})

	assert.True(t, f.view.has("ShowValidationError"))
	assert.False(t, f.view.has("NavigateToHome"))
}

func TestHandleCompanySelected_SinLoginPrevio(t *testing.T) {
	f := newFixture(t, true, authenticated)

	f.presenter.HandleCompanySelected(context.Background(), acme())

	assert.True(t, f.view.has("ShowValidationError"))
	_, ok := events.StickyOf[events.LoggedInUserEvent](f.bus)
	assert.False(t, ok)
}

func TestCancel_CierraLaVistaYSilenciaResultados(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	f := newFixture(t, true, func() (*login.Authentication, error) {
		close(started)
		<-release
		return authenticated()
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.presenter.StartLogin(context.Background())
	}()
	<-started
	f.presenter.Cancel()
	close(release)
	<-done

	assert.True(t, f.view.has("FinalizeView"))
	assert.False(t, f.view.has("ShowSelectCompany"), "tras Cancel la vista no recibe el resultado")
}
