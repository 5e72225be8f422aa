package login

import (
	"context"
	"strings"

	"github.com/libertsolutions/libertvendas/internal/domain/entity"
)

// Authentication respuesta del backend al login. Rejected es el rechazo de negocio
// (credenciales inválidas, vendedor inactivo) con el mensaje del servidor.
type Authentication struct {
	Rejected bool
	Message  string
	Salesman *entity.Salesman
}

// SalesmanService autenticación remota del vendedor.
type SalesmanService interface {
	Authenticate(ctx context.Context, cpfCnpj, password string) (*Authentication, error)
}

// Connectivity chequeo de red previo al login.
type Connectivity interface {
	IsOnline(ctx context.Context) bool
}

// SessionStore persistencia de la sesión.
type SessionStore interface {
	SetLoggedInUser(ctx context.Context, u *entity.LoggedUser) error
}

// InputValues campos del formulario; viven sólo durante un intento.
type InputValues struct {
	CPFCNPJ  string
	Password string
}

func (v InputValues) HasCPFCNPJ() bool  { return strings.TrimSpace(v.CPFCNPJ) != "" }
func (v InputValues) HasPassword() bool { return v.Password != "" }

// View contrato de la pantalla de login.
type View interface {
	InputValues() InputValues

	HideRequiredMessages()
	ShowIdle()
	ShowOfflineMessage()
	DisplayRequiredMessageForFieldCPFCNPJ()
	DisplayRequiredMessageForFieldPassword()
	ShowFillRequiredFieldsMessage()
	DisplayInvalidCPFCNPJ()

	BlockInputFields()
	UnblockInputFields()
	ShowLoading()
	ShowCompletedIndicator()
	DisplayErrorIndicator()

	ShowSelectCompany(companies []entity.Company)
	DisplayNoCompaniesError()

	ShowServerError()
	ShowNetworkError()
	ShowValidationError(message string)
	ShowUnknownError()

	NavigateToHome(user *entity.LoggedUser)
	FinalizeView()
}
