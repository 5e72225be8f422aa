// Package remote implementa los clientes REST del backend de LibertVendas.
// Toda falla se entrega clasificada: *domain.NetworkError (sin respuesta),
// *domain.ServerError (status HTTP de error), *domain.ValidationError (sobre con
// error=true) o un error común (respuesta ilegible).
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/libertsolutions/libertvendas/internal/domain"
	"github.com/libertsolutions/libertvendas/pkg/config"
	"github.com/libertsolutions/libertvendas/pkg/logger"
)

const maxBodyBytes = 4 << 20

// Client cliente HTTP base del backend.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient construye el cliente. BaseURL debe ser absoluta (http://host:puerto/).
func NewClient(cfg config.BackendConfig, log *logger.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("remote: BACKEND_URL inválida %q", cfg.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Component("remote"),
	}, nil
}

// BaseURL dirección del backend (la usa el chequeo de conectividad).
func (c *Client) BaseURL() *url.URL { return c.baseURL }

// envelope sobre opcional con el que el backend informa rechazos de negocio.
type envelope struct {
	Error    bool            `json:"error"`
	Mensagem string          `json:"mensagem"`
	Dados    json.RawMessage `json:"dados"`
}

func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, op, http.MethodGet, path, query, nil)
}

func (c *Client) postJSON(ctx context.Context, op, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("remote: %s: serializar request: %w", op, err)
	}
	return c.do(ctx, op, http.MethodPost, path, nil, body)
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body []byte) ([]byte, error) {
	u := c.baseURL.ResolveReference(&url.URL{Path: path})
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("remote: %s: crear HTTP request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, fmt.Errorf("remote: %s: %w", op, ctx.Err())
		}
		return nil, &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &domain.NetworkError{Op: op, Err: err}
	}
	c.log.Debug().
		Str("op", op).
		Str("method", method).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend")

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &domain.ServerError{StatusCode: resp.StatusCode, Message: serverMessage(raw)}
	}
	return raw, nil
}

// serverMessage intenta extraer el mensaje del sobre; si no, un recorte del cuerpo.
func serverMessage(raw []byte) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Mensagem != "" {
		return env.Mensagem
	}
	s := strings.TrimSpace(string(raw))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

// decodeList acepta una lista JSON directa o envuelta en el sobre {error, mensagem, dados}.
func decodeList[T any](op string, raw []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("remote: %s: deserializar respuesta: %w", op, err)
		}
		if env.Error {
			return nil, domain.NewValidationError(env.Mensagem)
		}
		trimmed = bytes.TrimSpace(env.Dados)
		if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
			return nil, nil
		}
	}
	var list []T
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, fmt.Errorf("remote: %s: deserializar respuesta: %w", op, err)
	}
	return list, nil
}

// decodeOne igual que decodeList para un único objeto.
func decodeOne[T any](op string, raw []byte) (*T, error) {
	trimmed := bytes.TrimSpace(raw)
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err == nil && env.Error {
		return nil, domain.NewValidationError(env.Mensagem)
	}
	if len(env.Dados) > 0 && !bytes.Equal(bytes.TrimSpace(env.Dados), []byte("null")) {
		trimmed = env.Dados
	}
	var out T
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, fmt.Errorf("remote: %s: deserializar respuesta: %w", op, err)
	}
	return &out, nil
}
