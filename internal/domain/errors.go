package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrForbidden         = errors.New("acceso denegado")
	ErrNoCompanies       = errors.New("el vendedor no tiene empresas asociadas")
	ErrNotLoggedIn       = errors.New("no hay vendedor con sesión iniciada")
	ErrOffline           = errors.New("dispositivo sin conexión")
	ErrInvalidTransition = errors.New("transición de estado de sincronización inválida")
	ErrEmptyOrder        = errors.New("el pedido no tiene ítems")
)

// ErrorKind categoría de error que la vista sabe mostrar.
type ErrorKind string

const (
	KindServer     ErrorKind = "server"
	KindNetwork    ErrorKind = "network"
	KindValidation ErrorKind = "validation"
	KindUnknown    ErrorKind = "unknown"
)

// ServerError el backend respondió con un status HTTP de error.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("error del servidor: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("error del servidor: HTTP %d: %s", e.StatusCode, e.Message)
}

// NetworkError falla de E/S sin respuesta del backend.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("error de red en %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Timeout indica si la falla fue por tiempo de espera agotado.
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// ValidationError rechazo de una regla de negocio con el mensaje del servidor.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError construye un ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// Classify traduce cualquier error a la taxonomía que muestran las vistas.
func Classify(err error) ErrorKind {
	var (
		serverErr     *ServerError
		networkErr    *NetworkError
		validationErr *ValidationError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &serverErr):
		return KindServer
	case errors.As(err, &networkErr):
		return KindNetwork
	case errors.As(err, &validationErr):
		return KindValidation
	default:
		return KindUnknown
	}
}

// IsTimeout indica si err es un NetworkError por timeout (único caso que se reintenta).
func IsTimeout(err error) bool {
	var networkErr *NetworkError
	return errors.As(err, &networkErr) && networkErr.Timeout()
}

// ValidationMessage devuelve el mensaje de un ValidationError envuelto en err.
func ValidationMessage(err error) string {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	return ""
}
