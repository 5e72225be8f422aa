package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libertsolutions/libertvendas/internal/domain"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
	"github.com/libertsolutions/libertvendas/internal/infrastructure/remote"
	"github.com/libertsolutions/libertvendas/pkg/config"
	"github.com/libertsolutions/libertvendas/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func newClient(t *testing.T, handler http.HandlerFunc) *remote.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := remote.NewClient(config.BackendConfig{BaseURL: srv.URL, Timeout: 2 * time.Second}, logger.Nop())
	require.NoError(t, err)
	return c
}

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestSalesmanAPI_EnviaCredencialesYMapeaEmpresas(t *testing.T) {
	var gotPath, gotCPF, gotPass string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCPF = r.URL.Query().Get("cpfCnpj")
		gotPass = r.URL.Query().Get("senha")
		respond(`{"error":false,"vendedor":{"idVendedor":3,"nome":"Ana","email":"ana@x.com",
			"cpfCnpj":"52998224725","empresas":[{"idEmpresa":1,"nome":"Acme","cnpj":"18285835000109"}]}}`)(w, r)
	})

	auth, err := remote.NewSalesmanAPI(c).Authenticate(context.Background(), "52998224725", "s3nha")

	require.NoError(t, err)
	assert.Equal(t, "/api/vendedor/get", gotPath)
	assert.Equal(t, "52998224725", gotCPF)
	assert.Equal(t, "s3nha", gotPass)
	assert.False(t, auth.Rejected)
	require.NotNil(t, auth.Salesman)
	assert.Equal(t, int64(3), auth.Salesman.SalesmanID)
	require.Len(t, auth.Salesman.Companies, 1)
	assert.Equal(t, "Acme", auth.Salesman.Companies[0].Name)
}

func TestSalesmanAPI_RechazoVuelveEnAuthentication(t *testing.T) {
	c := newClient(t, respond(`{"error":true,"mensagem":"Senha inválida"}`))

	auth, err := remote.NewSalesmanAPI(c).Authenticate(context.Background(), "1", "2")

	require.NoError(t, err)
	assert.True(t, auth.Rejected)
	assert.Equal(t, "Senha inválida", auth.Message)
	assert.Nil(t, auth.Salesman)
}

func TestPaymentMethodAPI_ListaDirecta(t *testing.T) {
	var gotCNPJ string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotCNPJ = r.URL.Query().Get("cnpj")
		respond(`[{"idFormPgto":1,"descricao":"À vista","percDesc":"5.5","ativo":true}]`)(w, r)
	})

	list, err := remote.NewPaymentMethodAPI(c).PaymentMethods(context.Background(), "18285835000109")

	require.NoError(t, err)
	assert.Equal(t, "18285835000109", gotCNPJ)
	require.Len(t, list, 1)
	assert.Equal(t, "À vista", list[0].Description)
	assert.Equal(t, "5.5", list[0].Discount.String())
	assert.Equal(t, entity.StatusImported, list[0].SyncStatus())
}

func TestCityAPI_ListaEnSobre(t *testing.T) {
	c := newClient(t, respond(`{"error":false,"dados":[{"idCidade":10,"nome":"Teresina","uf":"PI"}]}`))

	list, err := remote.NewCityAPI(c).Cities(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Teresina", list[0].Name)
}

func TestCityAPI_SobreConErrorEsValidacion(t *testing.T) {
	c := newClient(t, respond(`{"error":true,"mensagem":"Empresa bloqueada"}`))

	_, err := remote.NewCityAPI(c).Cities(context.Background())

	assert.Equal(t, domain.KindValidation, domain.Classify(err))
	assert.Equal(t, "Empresa bloqueada", domain.ValidationMessage(err))
}

func TestClient_StatusDeErrorEsServerError(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"mensagem":"falha interna"}`)
	})

	_, err := remote.NewCityAPI(c).Cities(context.Background())

	var serverErr *domain.ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusInternalServerError, serverErr.StatusCode)
	assert.Equal(t, "falha interna", serverErr.Message)
}

func TestClient_RespuestaIlegibleEsDesconocido(t *testing.T) {
	c := newClient(t, respond(`<html>oops</html>`))

	_, err := remote.NewCityAPI(c).Cities(context.Background())

	require.Error(t, err)
	assert.Equal(t, domain.KindUnknown, domain.Classify(err))
}

func TestClient_TimeoutEsNetworkErrorReintentable(t *testing.T) {
	release := make(chan struct{})
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := remote.NewCityAPI(c).Cities(ctx)

	assert.Equal(t, domain.KindNetwork, domain.Classify(err))
	assert.True(t, domain.IsTimeout(err))
}

func TestClient_ServidorCaidoEsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	c, err := remote.NewClient(config.BackendConfig{BaseURL: url, Timeout: time.Second}, logger.Nop())
	require.NoError(t, err)

	_, err = remote.NewCityAPI(c).Cities(context.Background())

	assert.Equal(t, domain.KindNetwork, domain.Classify(err))
}

func TestCustomerAPI_SaveDevuelveIDRemoto(t *testing.T) {
	var got map[string]any
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/cliente/save", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		respond(`{"idCliente":501,"nome":"Bar do Zé"}`)(w, r)
	})
	customer := entity.NewCustomer(entity.CustomerData{Name: "Bar do Zé"}, "182", "529")

	id, err := remote.NewCustomerAPI(c).SaveCustomer(context.Background(), customer)

	require.NoError(t, err)
	assert.Equal(t, int64(501), id)
	assert.Equal(t, "Bar do Zé", got["nome"])
	_, hasID := got["idCliente"]
	assert.False(t, hasID, "un cliente nuevo no envía idCliente")
}

func TestPostalCodeAPI_MapeaDireccion(t *testing.T) {
	c := newClient(t, respond(`{"cep":"64000000","logradouro":"Av. Frei Serafim","bairro":"Centro",
		"cidade":{"idCidade":10,"nome":"Teresina","uf":"PI"}}`))

	pc, err := remote.NewPostalCodeAPI(c).PostalCode(context.Background(), "64000000")

	require.NoError(t, err)
	assert.Equal(t, "64000000", pc.Key())
	assert.Equal(t, "Av. Frei Serafim", pc.Street)
	require.NotNil(t, pc.City)
	assert.Equal(t, "PI", pc.City.UF)
}

func TestConnectivity(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := remote.NewClient(config.BackendConfig{BaseURL: srv.URL}, logger.Nop())
	require.NoError(t, err)
	conn := remote.NewConnectivity(c, time.Second)

	assert.True(t, conn.IsOnline(context.Background()))
	srv.Close()
	assert.False(t, conn.IsOnline(context.Background()))
}

func TestNewClient_URLInvalida(t *testing.T) {
	_, err := remote.NewClient(config.BackendConfig{BaseURL: "sin-esquema"}, logger.Nop())

	assert.Error(t, err)
}
