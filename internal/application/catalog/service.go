// Package catalog mantiene la caché de referencia que no entra en la importación
// inicial: tablas de precio, cartera de clientes y CEPs.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/libertsolutions/libertvendas/internal/domain"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
	"github.com/libertsolutions/libertvendas/internal/domain/repository"
	"github.com/libertsolutions/libertvendas/internal/domain/specification"
	"github.com/libertsolutions/libertvendas/pkg/cpfcnpj"
	"github.com/libertsolutions/libertvendas/pkg/logger"
)

const lastChangeLayout = "2006-01-02T15:04:05"

// Repositories repositorios de la caché que usa el catálogo.
type Repositories struct {
	PriceTables    repository.Repository[*entity.PriceTable]
	Customers      repository.Repository[*entity.Customer]
	PostalCodes    repository.Repository[*entity.PostalCode]
	PaymentMethods repository.Repository[*entity.PaymentMethod]
	Cities         repository.Repository[*entity.City]
}

// Service casos de uso del catálogo.
type Service struct {
	priceTables PriceTableService
	customers   CustomerService
	postalCodes PostalCodeService
	repos       Repositories
	session     SessionStore
	log         *logger.Logger
	now         func() time.Time
}

// NewService construye el servicio.
func NewService(
	priceTables PriceTableService,
	customers CustomerService,
	postalCodes PostalCodeService,
	repos Repositories,
	session SessionStore,
	log *logger.Logger,
) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		priceTables: priceTables,
		customers:   customers,
		postalCodes: postalCodes,
		repos:       repos,
		session:     session,
		log:         log.Component("catalog"),
		now:         time.Now,
	}
}

// ── Lectura de la caché ──────────────────────────────────────────────────────

// PaymentMethods formas de pago importadas.
func (s *Service) PaymentMethods(ctx context.Context) ([]*entity.PaymentMethod, error) {
	return s.repos.PaymentMethods.List(ctx)
}

// Cities ciudades importadas, filtradas por UF si se indica.
func (s *Service) Cities(ctx context.Context, uf string) ([]*entity.City, error) {
	return s.repos.Cities.Query(ctx, specification.CitiesByUF{UF: uf})
}

// City ciudad importada por clave.
func (s *Service) City(ctx context.Context, key string) (*entity.City, error) {
	return s.repos.Cities.FindByKey(ctx, key)
}

// PriceTables tablas de precio cacheadas.
func (s *Service) PriceTables(ctx context.Context) ([]*entity.PriceTable, error) {
	return s.repos.PriceTables.List(ctx)
}

// ── Refresco desde el backend ────────────────────────────────────────────────

// RefreshPriceTables descarga las tablas de la empresa de la sesión. Una lista
// vacía no modifica la caché.
func (s *Service) RefreshPriceTables(ctx context.Context) (int, error) {
	user, err := s.session.LoggedUser(ctx)
	if err != nil {
		return 0, err
	}
	list, err := s.priceTables.PriceTables(ctx, user.DefaultCompany.CNPJ)
	if err != nil {
		return 0, fmt.Errorf("catalog: descargar tablas de precio: %w", err)
	}
	n, err := repository.Merge(ctx, s.repos.PriceTables, list)
	if err != nil {
		return 0, fmt.Errorf("catalog: guardar tablas de precio: %w", err)
	}
	s.log.Info().Int("count", n).Msg("tablas de precio actualizadas")
	return n, nil
}

// RefreshCustomers descarga la cartera del vendedor. Los clientes con cambios
// locales pendientes de envío no se pisan.
func (s *Service) RefreshCustomers(ctx context.Context) (int, error) {
	user, err := s.session.LoggedUser(ctx)
	if err != nil {
		return 0, err
	}
	list, err := s.customers.Customers(ctx, user.Salesman.CPFCNPJ, user.DefaultCompany.CNPJ)
	if err != nil {
		return 0, fmt.Errorf("catalog: descargar clientes: %w", err)
	}

	pending, err := s.repos.Customers.Query(ctx, specification.PendingUpload[*entity.Customer]{})
	if err != nil {
		return 0, fmt.Errorf("catalog: leer clientes pendientes: %w", err)
	}
	skip := make(map[string]bool, len(pending))
	for _, c := range pending {
		skip[c.Key()] = true
	}
	fresh := make([]*entity.Customer, 0, len(list))
	for _, c := range list {
		if !skip[c.Key()] {
			fresh = append(fresh, c)
		}
	}

	n, err := repository.Merge(ctx, s.repos.Customers, fresh)
	if err != nil {
		return 0, fmt.Errorf("catalog: guardar clientes: %w", err)
	}
	s.log.Info().Int("count", n).Int("kept_local", len(list)-len(fresh)).Msg("cartera actualizada")
	return n, nil
}

// ── Cartera ──────────────────────────────────────────────────────────────────

// SearchCustomers busca en la cartera del vendedor; query vacío devuelve toda la cartera.
func (s *Service) SearchCustomers(ctx context.Context, query string) ([]*entity.Customer, error) {
	user, err := s.session.LoggedUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.repos.Customers.Query(ctx, specification.CustomerSearch{
		Portfolio: portfolio(user),
		Query:     query,
	})
}

// Customer devuelve un cliente de la cartera por clave. Un cliente de otra cartera
// se informa como inexistente.
func (s *Service) Customer(ctx context.Context, key string) (*entity.Customer, error) {
	user, err := s.session.LoggedUser(ctx)
	if err != nil {
		return nil, err
	}
	c, err := s.repos.Customers.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if !portfolio(user).IsSatisfiedBy(c) {
		return nil, fmt.Errorf("%w: cliente %s fuera de la cartera", domain.ErrNotFound, key)
	}
	return c, nil
}

// CreateCustomer crea un cliente en el dispositivo, pendiente de envío.
func (s *Service) CreateCustomer(ctx context.Context, d entity.CustomerData) (*entity.Customer, error) {
	if err := validateCustomer(d); err != nil {
		return nil, err
	}
	user, err := s.session.LoggedUser(ctx)
	if err != nil {
		return nil, err
	}
	c := entity.NewCustomer(d, user.DefaultCompany.CNPJ, user.Salesman.CPFCNPJ)
	c.LastChange = s.now().Format(lastChangeLayout)
	if err := s.repos.Customers.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("catalog: guardar cliente: %w", err)
	}
	return c, nil
}

// ChangeCustomer edita un cliente existente.
func (s *Service) ChangeCustomer(ctx context.Context, key string, d entity.CustomerData) (*entity.Customer, error) {
	if err := validateCustomer(d); err != nil {
		return nil, err
	}
	c, err := s.Customer(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := c.Change(d, s.now().Format(lastChangeLayout)); err != nil {
		return nil, err
	}
	if err := s.repos.Customers.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("catalog: guardar cliente: %w", err)
	}
	return c, nil
}

// PushCustomers envía los clientes creados o editados en el dispositivo y los marca
// como sincronizados. Se detiene en la primera falla; los ya enviados quedan marcados.
func (s *Service) PushCustomers(ctx context.Context) (int, error) {
	pending, err := s.repos.Customers.Query(ctx, specification.PendingUpload[*entity.Customer]{})
	if err != nil {
		return 0, fmt.Errorf("catalog: leer clientes pendientes: %w", err)
	}
	sent := 0
	for _, c := range pending {
		id, err := s.customers.SaveCustomer(ctx, c)
		if err != nil {
			return sent, fmt.Errorf("catalog: enviar cliente %s: %w", c.Key(), err)
		}
		if err := c.MarkSynchronized(id); err != nil {
			return sent, err
		}
		if err := s.repos.Customers.Save(ctx, c); err != nil {
			return sent, fmt.Errorf("catalog: guardar cliente %s: %w", c.Key(), err)
		}
		sent++
	}
	if sent > 0 {
		s.log.Info().Int("count", sent).Msg("clientes enviados")
	}
	return sent, nil
}

// ── CEP ──────────────────────────────────────────────────────────────────────

// LookupPostalCode busca el CEP en la caché y, si no está, en el backend.
func (s *Service) LookupPostalCode(ctx context.Context, cep string) (*entity.PostalCode, error) {
	cep = cpfcnpj.Digits(cep)
	if len(cep) != 8 {
		return nil, fmt.Errorf("%w: CEP debe tener 8 dígitos", domain.ErrInvalidInput)
	}
	cached, err := s.repos.PostalCodes.FindByKey(ctx, cep)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("catalog: leer CEP: %w", err)
	}

	pc, err := s.postalCodes.PostalCode(ctx, cep)
	if err != nil {
		return nil, fmt.Errorf("catalog: consultar CEP: %w", err)
	}
	pc.CEP = cep
	if err := s.repos.PostalCodes.Save(ctx, pc); err != nil {
		return nil, fmt.Errorf("catalog: guardar CEP: %w", err)
	}
	return pc, nil
}

func portfolio(u *entity.LoggedUser) specification.CustomersBySalesmanAndCompany {
	return specification.CustomersBySalesmanAndCompany{
		SalesmanCPFCNPJ: u.Salesman.CPFCNPJ,
		CompanyCNPJ:     u.DefaultCompany.CNPJ,
	}
}

func validateCustomer(d entity.CustomerData) error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	if d.CPFCNPJ != "" {
		if err := cpfcnpj.Validate(d.CPFCNPJ); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	}
	return nil
}
