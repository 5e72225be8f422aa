// Package specification reúne las consultas reutilizables sobre la caché local.
// Cada una se evalúa en memoria (IsSatisfiedBy/Less) y, cuando puede, también
// como SQL sobre la columna payload de la tabla records.
package specification

import (
	"fmt"
	"strings"

	"github.com/libertsolutions/libertvendas/internal/domain/entity"
	"github.com/libertsolutions/libertvendas/internal/domain/repository"
	"github.com/libertsolutions/libertvendas/pkg/textutil"
)

var (
	_ repository.Specification[*entity.Order] = OrderedOrdersBySalesmanAndCompany{}
	_ repository.Ordering[*entity.Order]      = OrderedOrdersBySalesmanAndCompany{}
	_ repository.SQLSpecification             = OrderedOrdersBySalesmanAndCompany{}

	_ repository.Specification[*entity.Customer] = CustomersBySalesmanAndCompany{}
	_ repository.SQLSpecification                = CustomersBySalesmanAndCompany{}

	_ repository.Specification[*entity.City] = CitiesByUF{}
	_ repository.SQLSpecification            = CitiesByUF{}

	_ repository.Specification[*entity.Customer] = PendingUpload[*entity.Customer]{}
	_ repository.SQLSpecification                = PendingUpload[*entity.Customer]{}
)

// OrderedOrdersBySalesmanAndCompany pedidos del vendedor en la empresa, agrupados
// por nombre de cliente y dentro de cada cliente por fecha de emisión.
type OrderedOrdersBySalesmanAndCompany struct {
	SalesmanID int64
	CompanyID  int64
}

func (s OrderedOrdersBySalesmanAndCompany) IsSatisfiedBy(o *entity.Order) bool {
	return o.SalesmanID == s.SalesmanID && o.CompanyID == s.CompanyID
}

func (s OrderedOrdersBySalesmanAndCompany) Less(a, b *entity.Order) bool {
	if a.Customer.Name != b.Customer.Name {
		return a.Customer.Name < b.Customer.Name
	}
	return a.IssueDate.Before(b.IssueDate)
}

func (s OrderedOrdersBySalesmanAndCompany) Where(argOffset int) (string, []any) {
	where := fmt.Sprintf("(payload->>'salesman_id')::bigint = $%d AND (payload->>'company_id')::bigint = $%d",
		argOffset+1, argOffset+2)
	return where, []any{s.SalesmanID, s.CompanyID}
}

func (s OrderedOrdersBySalesmanAndCompany) OrderBy() string {
	return "payload->'customer'->>'name', (payload->>'issue_date')::timestamptz"
}

// CustomersBySalesmanAndCompany cartera del vendedor en la empresa, por nombre.
type CustomersBySalesmanAndCompany struct {
	SalesmanCPFCNPJ string
	CompanyCNPJ     string
}

func (s CustomersBySalesmanAndCompany) IsSatisfiedBy(c *entity.Customer) bool {
	return c.SalesmanCPFCNPJ == s.SalesmanCPFCNPJ && c.CompanyCNPJ == s.CompanyCNPJ
}

func (s CustomersBySalesmanAndCompany) Less(a, b *entity.Customer) bool { return a.Name < b.Name }

func (s CustomersBySalesmanAndCompany) Where(argOffset int) (string, []any) {
	where := fmt.Sprintf("payload->>'salesman_cpf_cnpj' = $%d AND payload->>'company_cnpj' = $%d",
		argOffset+1, argOffset+2)
	return where, []any{s.SalesmanCPFCNPJ, s.CompanyCNPJ}
}

func (s CustomersBySalesmanAndCompany) OrderBy() string { return "payload->>'name'" }

// CitiesByUF ciudades de un estado, por nombre. UF vacío devuelve todas.
type CitiesByUF struct {
	UF string
}

func (s CitiesByUF) IsSatisfiedBy(c *entity.City) bool {
	return s.UF == "" || strings.EqualFold(c.UF, s.UF)
}

func (s CitiesByUF) Less(a, b *entity.City) bool { return a.Name < b.Name }

func (s CitiesByUF) Where(argOffset int) (string, []any) {
	if s.UF == "" {
		return "TRUE", nil
	}
	return fmt.Sprintf("upper(payload->>'uf') = upper($%d)", argOffset+1), []any{s.UF}
}

func (s CitiesByUF) OrderBy() string { return "payload->>'name'" }

// PendingUpload registros con cambios locales aún no enviados (created o modified).
type PendingUpload[T entity.Record] struct{}

func (PendingUpload[T]) IsSatisfiedBy(r T) bool { return r.SyncStatus().NeedsUpload() }

func (PendingUpload[T]) Where(argOffset int) (string, []any) {
	where := fmt.Sprintf("status IN ($%d, $%d)", argOffset+1, argOffset+2)
	return where, []any{int(entity.StatusCreated), int(entity.StatusModified)}
}

func (PendingUpload[T]) OrderBy() string { return "id" }

// CustomerSearch búsqueda libre dentro de la cartera (nombre, documento, código,
// e-mail), insensible a acentos. SQL sólo acota por cartera; el texto se filtra en memoria.
type CustomerSearch struct {
	Portfolio CustomersBySalesmanAndCompany
	Query     string
}

func (s CustomerSearch) IsSatisfiedBy(c *entity.Customer) bool {
	return s.Portfolio.IsSatisfiedBy(c) &&
		textutil.ContainsFold(s.Query, c.Name, c.CPFCNPJ, c.Email, c.Code)
}

func (s CustomerSearch) Less(a, b *entity.Customer) bool { return s.Portfolio.Less(a, b) }

func (s CustomerSearch) Where(argOffset int) (string, []any) { return s.Portfolio.Where(argOffset) }

func (s CustomerSearch) OrderBy() string { return s.Portfolio.OrderBy() }
