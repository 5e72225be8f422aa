package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libertsolutions/libertvendas/internal/domain"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
	apphttp "github.com/libertsolutions/libertvendas/internal/interfaces/http"
	pkgjwt "github.com/libertsolutions/libertvendas/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret  = "test-secret-key-for-unit-tests"
	testSalesmanID = int64(9)
	testCompanyID  = int64(2)
	testCPF        = "52998224725"
	testIssuer     = "libertvendas-test"
	testExpMin     = 60
)

// fixedSession sesión fija del dispositivo.
type fixedSession struct {
	user *entity.LoggedUser
	err  error
}

func (s fixedSession) LoggedUser(context.Context) (*entity.LoggedUser, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.user == nil {
		return nil, domain.ErrNotLoggedIn
	}
	return s.user, nil
}

func sessionOf(salesmanID, companyID int64) fixedSession {
	company := entity.Company{CompanyID: companyID, CNPJ: "11222333000181"}
	return fixedSession{user: &entity.LoggedUser{
		Salesman:       &entity.Salesman{SalesmanID: salesmanID, Companies: []entity.Company{company}},
		DefaultCompany: company,
	}}
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - RequireSession para contrastar el token con la sesión del dispositivo
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(sessions fixedSession) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireSession(sessions),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"salesman_id": apphttp.GetSalesmanID(c),
				"company_id":  apphttp.GetCompanyID(c),
				"name":        apphttp.GetLoggedUser(c).Salesman.Name,
			})
		},
	)
	return app
}

func bearer(t *testing.T, salesmanID, companyID int64) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, salesmanID, companyID, testCPF, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func bodyString(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := buildTestApp(sessionOf(testSalesmanID, testCompanyID))
	resp := doRequest(t, app, bearer(t, testSalesmanID, testCompanyID))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.EqualValues(t, testSalesmanID, body["salesman_id"])
	assert.EqualValues(t, testCompanyID, body["company_id"])
}

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(sessionOf(testSalesmanID, testCompanyID)), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "MISSING_TOKEN")
}

func TestAuthMiddleware_FormatoInvalido_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(sessionOf(testSalesmanID, testCompanyID)), "Token abc")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "INVALID_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(sessionOf(testSalesmanID, testCompanyID)), "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenExpirado_Retorna401(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testSalesmanID, testCompanyID, testCPF, testIssuer, -1)
	require.NoError(t, err)

	resp := doRequest(t, buildTestApp(sessionOf(testSalesmanID, testCompanyID)), "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireSession
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireSession_SinSesion_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(fixedSession{}), bearer(t, testSalesmanID, testCompanyID))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "SESSION_CLOSED")
}

func TestRequireSession_OtraEmpresa_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(sessionOf(testSalesmanID, 99)), bearer(t, testSalesmanID, testCompanyID))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "SESSION_CHANGED")
}

func TestRequireSession_FalloAlLeer_Retorna503(t *testing.T) {
	resp := doRequest(t, buildTestApp(fixedSession{err: assert.AnError}), bearer(t, testSalesmanID, testCompanyID))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
