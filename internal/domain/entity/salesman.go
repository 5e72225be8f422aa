package entity

import (
	"fmt"
	"strconv"

	"github.com/libertsolutions/libertvendas/internal/domain"
)

// Salesman vendedor autenticado junto con sus empresas.
type Salesman struct {
	Meta
	SalesmanID      int64     `json:"salesman_id"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	CPFCNPJ         string    `json:"cpf_cnpj"`
	Companies       []Company `json:"companies"`
	SelectedCompany *Company  `json:"selected_company,omitempty"`
}

func (s *Salesman) Kind() string { return KindSalesman }
func (s *Salesman) Key() string  { return strconv.FormatInt(s.SalesmanID, 10) }

// HasCompanies indica si el vendedor puede operar (al menos una empresa).
func (s *Salesman) HasCompanies() bool { return len(s.Companies) > 0 }

// WithSelectedCompany compone la sesión: copia del vendedor con la empresa elegida.
// La empresa debe pertenecer a la lista del vendedor.
func (s *Salesman) WithSelectedCompany(company Company) (*Salesman, error) {
	for _, c := range s.Companies {
		if c.Equal(company) {
			out := *s
			out.Companies = append([]Company(nil), s.Companies...)
			selected := c
			out.SelectedCompany = &selected
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: empresa %d no pertenece al vendedor %d", domain.ErrInvalidInput, company.CompanyID, s.SalesmanID)
}

// LoggedUser vendedor con sesión iniciada y su empresa por defecto.
type LoggedUser struct {
	Salesman       *Salesman `json:"salesman"`
	DefaultCompany Company   `json:"default_company"`
}

// NewLoggedUser construye la sesión a partir de un vendedor con empresa seleccionada.
func NewLoggedUser(s *Salesman) (*LoggedUser, error) {
	if s == nil || s.SelectedCompany == nil {
		return nil, fmt.Errorf("%w: vendedor sin empresa seleccionada", domain.ErrInvalidInput)
	}
	return &LoggedUser{Salesman: s, DefaultCompany: *s.SelectedCompany}, nil
}

// Equal dos sesiones son iguales si coinciden vendedor y empresa.
func (u *LoggedUser) Equal(o *LoggedUser) bool {
	if u == nil || o == nil {
		return u == o
	}
	return u.Salesman.SalesmanID == o.Salesman.SalesmanID && u.DefaultCompany.Equal(o.DefaultCompany)
}
