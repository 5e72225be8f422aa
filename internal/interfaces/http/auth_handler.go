package http

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/libertsolutions/libertvendas/internal/application/dto"
	"github.com/libertsolutions/libertvendas/internal/application/login"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
	"github.com/libertsolutions/libertvendas/pkg/jwt"
)

// pendingLoginTTL tiempo que un vendedor autenticado puede tardar en elegir empresa.
const pendingLoginTTL = 10 * time.Minute

// JWTConfig parámetros de los tokens que emite el login.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// sessionCloser cierra la sesión del dispositivo. Lo implementa *session.Store.
type sessionCloser interface {
	Logout(ctx context.Context) error
}

// loginView vista HTTP del login: registra el desenlace de un intento.
type loginView struct {
	errorRecorder
	in        login.InputValues
	fields    dto.LoginFieldErrors
	companies []entity.Company
	user      *entity.LoggedUser
}

func (v *loginView) InputValues() login.InputValues { return v.in }

func (v *loginView) HideRequiredMessages() {}
func (v *loginView) ShowIdle() {}
func (v *loginView) BlockInputFields() {}
func (v *loginView) UnblockInputFields() {}
func (v *loginView) ShowLoading() {}
func (v *loginView) ShowCompletedIndicator() {}
func (v *loginView) DisplayErrorIndicator() {}
func (v *loginView) FinalizeView() {}

func (v *loginView) ShowOfflineMessage() {
	v.fail(fiber.StatusServiceUnavailable, "OFFLINE", "dispositivo sin conexión")
}

func (v *loginView) DisplayRequiredMessageForFieldCPFCNPJ() { v.fields.CPFCNPJRequired = true }
func (v *loginView) DisplayRequiredMessageForFieldPassword() { v.fields.PasswordRequired = true }

func (v *loginView) ShowFillRequiredFieldsMessage() {
	v.fail(fiber.StatusBadRequest, "REQUIRED_FIELDS", "cpf_cnpj y password son requeridos")
}

func (v *loginView) DisplayInvalidCPFCNPJ() {
	v.fields.CPFCNPJInvalid = true
	v.fail(fiber.StatusBadRequest, "INVALID_CPF_CNPJ", "CPF/CNPJ inválido")
}

func (v *loginView) ShowSelectCompany(companies []entity.Company) { v.companies = companies }

func (v *loginView) DisplayNoCompaniesError() {
	v.fail(fiber.StatusForbidden, "NO_COMPANIES", "el vendedor no tiene empresas asociadas")
}

func (v *loginView) NavigateToHome(user *entity.LoggedUser) { v.user = user }

func (v *loginView) respond(c *fiber.Ctx) error {
	body := dto.LoginErrorResponse{
		ErrorResponse: dto.ErrorResponse{Code: v.err.code, Message: v.err.message},
	}
	if v.fields != (dto.LoginFieldErrors{}) {
		fields := v.fields
		body.Fields = &fields
	}
	return c.Status(v.err.status).JSON(body)
}

// pendingLogin vendedor autenticado esperando la elección de empresa.
type pendingLogin struct {
	presenter *login.Presenter
	expires   time.Time
}

// AuthHandler maneja login, elección de empresa y logout.
// Cada intento de login tiene su propio presentador, que vive hasta elegir empresa.
type AuthHandler struct {
	newPresenter func() *login.Presenter
	sessions     sessionCloser
	jwtCfg       JWTConfig
	onSessionEnd []func()
	now          func() time.Time

	mu      sync.Mutex
	pending map[string]*pendingLogin
}

// NewAuthHandler construye el handler de auth. onSessionEnd se ejecuta tras cerrar sesión
// y tras abrir una nueva al elegir empresa.
func NewAuthHandler(newPresenter func() *login.Presenter, sessions sessionCloser, jwtCfg JWTConfig, onSessionEnd ...func()) *AuthHandler {
	return &AuthHandler{
		newPresenter: newPresenter,
		sessions:     sessions,
		jwtCfg:       jwtCfg,
		onSessionEnd: onSessionEnd,
		now:          time.Now,
		pending:      make(map[string]*pendingLogin),
	}
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}

	p := h.newPresenter()
	v := &loginView{in: login.InputValues{CPFCNPJ: in.CPFCNPJ, Password: in.Password}}
	p.Attach(v)
	p.StartLogin(c.UserContext())

	if v.failed() {
		p.Detach()
		return v.respond(c)
	}
	if v.companies == nil {
		p.Detach()
		return fail(c, fiber.StatusInternalServerError, "INTERNAL", "login sin desenlace")
	}

	id := uuid.New().String()
	h.mu.Lock()
	h.pruneLocked()
	h.pending[id] = &pendingLogin{presenter: p, expires: h.now().Add(pendingLoginTTL)}
	h.mu.Unlock()

	return c.JSON(dto.LoginResponse{LoginID: id, Companies: v.companies})
}

// SelectCompany POST /api/auth/company
func (h *AuthHandler) SelectCompany(c *fiber.Ctx) error {
	var in dto.SelectCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if in.LoginID == "" || in.CompanyID == 0 {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "login_id y company_id son requeridos")
	}
	pl := h.lookup(in.LoginID)
	if pl == nil {
		return fail(c, fiber.StatusNotFound, "LOGIN_NOT_FOUND", "intento de login inexistente o expirado")
	}

	v := &loginView{}
	pl.presenter.Attach(v)
	pl.presenter.HandleCompanySelected(c.UserContext(), entity.Company{CompanyID: in.CompanyID})
	if v.failed() {
		return v.respond(c)
	}
	if v.user == nil {
		return fail(c, fiber.StatusInternalServerError, "INTERNAL", "login sin desenlace")
	}
	h.forget(in.LoginID)
	pl.presenter.Detach()
	h.endSession()

	token, err := jwt.Generate(h.jwtCfg.Secret, v.user.Salesman.SalesmanID, v.user.DefaultCompany.CompanyID,
		v.user.Salesman.CPFCNPJ, h.jwtCfg.Issuer, h.jwtCfg.ExpMinutes)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "INTERNAL", err.Error())
	}
	return c.JSON(dto.SessionResponse{Token: token, ExpiresIn: h.jwtCfg.ExpMinutes * 60, User: v.user})
}

// CancelLogin DELETE /api/auth/login/:id
func (h *AuthHandler) CancelLogin(c *fiber.Ctx) error {
	id := c.Params("id")
	pl := h.lookup(id)
	if pl == nil {
		return fail(c, fiber.StatusNotFound, "LOGIN_NOT_FOUND", "intento de login inexistente o expirado")
	}
	h.forget(id)
	pl.presenter.Cancel()
	return c.SendStatus(fiber.StatusNoContent)
}

// Logout POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Logout(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	h.endSession()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) endSession() {
	for _, fn := range h.onSessionEnd {
		fn()
	}
}

func (h *AuthHandler) lookup(id string) *pendingLogin {
	h.mu.Lock()
	defer h.mu.Unlock()
	pl, ok := h.pending[id]
	if !ok || h.now().After(pl.expires) {
		return nil
	}
	return pl
}

func (h *AuthHandler) forget(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.pending, id)
}

func (h *AuthHandler) pruneLocked() {
	now := h.now()
	for id, pl := range h.pending {
		if now.After(pl.expires) {
			pl.presenter.Cancel()
			delete(h.pending, id)
		}
	}
}
