package dto

import "github.com/libertsolutions/libertvendas/internal/domain/entity"

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	CPFCNPJ  string `json:"cpf_cnpj"`
	Password string `json:"password"`
}

// LoginResponse vendedor autenticado, pendiente de elegir empresa.
// LoginID identifica el intento en POST /api/auth/company.
type LoginResponse struct {
	LoginID   string           `json:"login_id"`
	Companies []entity.Company `json:"companies"`
}

// SelectCompanyRequest body para POST /api/auth/company.
type SelectCompanyRequest struct {
	LoginID   string `json:"login_id"`
	CompanyID int64  `json:"company_id"`
}

// SessionResponse sesión iniciada con su token.
type SessionResponse struct {
	Token     string             `json:"token"`
	ExpiresIn int                `json:"expires_in"` // segundos
	User      *entity.LoggedUser `json:"user"`
}

// LoginFieldErrors campos faltantes o inválidos del formulario de login.
type LoginFieldErrors struct {
	CPFCNPJRequired  bool `json:"cpf_cnpj_required,omitempty"`
	PasswordRequired bool `json:"password_required,omitempty"`
	CPFCNPJInvalid   bool `json:"cpf_cnpj_invalid,omitempty"`
}

// LoginErrorResponse error de login con el detalle por campo.
type LoginErrorResponse struct {
	ErrorResponse
	Fields *LoginFieldErrors `json:"fields,omitempty"`
}
