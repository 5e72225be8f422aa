package entity

import (
	"github.com/google/uuid"
)

// Tipos de cliente.
const (
	CustomerTypeIndividual = 1 // CPF
	CustomerTypeCompany    = 2 // CNPJ
)

// Customer cliente de la cartera del vendedor.
// Los clientes creados en el dispositivo usan LocalKey hasta que el backend les asigna CustomerID.
type Customer struct {
	Meta
	CustomerID      int64  `json:"customer_id"`
	LocalKey        string `json:"local_key,omitempty"`
	Code            string `json:"code"`
	Name            string `json:"name"`
	Type            int    `json:"type"`
	CPFCNPJ         string `json:"cpf_cnpj"`
	Contact         string `json:"contact"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Phone2          string `json:"phone2"`
	Address         string `json:"address"`
	PostalCode      string `json:"postal_code"`
	City            *City  `json:"city,omitempty"`
	District        string `json:"district"`
	Number          string `json:"number"`
	Complement      string `json:"complement"`
	LastChange      string `json:"last_change"`
	Active          bool   `json:"active"`
	CompanyCNPJ     string `json:"company_cnpj"`
	SalesmanCPFCNPJ string `json:"salesman_cpf_cnpj"`
}

// CustomerData campos editables por el vendedor.
type CustomerData struct {
	Name       string
	Type       int
	CPFCNPJ    string
	Email      string
	Phone      string
	Phone2     string
	Address    string
	PostalCode string
	City       *City
	District   string
	Number     string
	Complement string
}

func (c *Customer) Kind() string { return KindCustomer }
func (c *Customer) Key() string  { return remoteKey(c.CustomerID, c.LocalKey) }

// Equal compara por identidad remota, nunca por fila local.
func (c *Customer) Equal(o *Customer) bool {
	if c == nil || o == nil {
		return c == o
	}
	return SameRecord(c, o)
}

// NewCustomer crea un cliente en el dispositivo (estado created).
func NewCustomer(d CustomerData, companyCNPJ, salesmanCPFCNPJ string) *Customer {
	c := &Customer{
		Meta:            Meta{Status: StatusCreated},
		LocalKey:        uuid.New().String(),
		Active:          true,
		CompanyCNPJ:     companyCNPJ,
		SalesmanCPFCNPJ: salesmanCPFCNPJ,
	}
	c.apply(d)
	return c
}

// Change aplica una edición local. Un cliente aún no enviado sigue como created;
// uno importado o sincronizado pasa a modified.
func (c *Customer) Change(d CustomerData, changedAt string) error {
	if c.Status != StatusCreated && c.Status != StatusModified {
		if err := c.MarkStatus(StatusModified); err != nil {
			return err
		}
	}
	c.apply(d)
	c.LastChange = changedAt
	return nil
}

// MarkSynchronized registra la confirmación del backend y adopta su id remoto.
func (c *Customer) MarkSynchronized(customerID int64) error {
	if err := c.MarkStatus(StatusSynchronized); err != nil {
		return err
	}
	if customerID != 0 {
		c.CustomerID = customerID
		c.LocalKey = ""
	}
	return nil
}

func (c *Customer) apply(d CustomerData) {
	c.Name = d.Name
	c.Type = d.Type
	c.CPFCNPJ = d.CPFCNPJ
	c.Email = d.Email
	c.Phone = d.Phone
	c.Phone2 = d.Phone2
	c.Address = d.Address
	c.PostalCode = d.PostalCode
	c.City = d.City
	c.District = d.District
	c.Number = d.Number
	c.Complement = d.Complement
}
