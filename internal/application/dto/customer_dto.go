package dto

import "github.com/libertsolutions/libertvendas/internal/domain/entity"

// CustomerRequest body para POST /api/customers y PUT /api/customers/:key.
type CustomerRequest struct {
	Name       string `json:"name"`
	Type       int    `json:"type"`
	CPFCNPJ    string `json:"cpf_cnpj"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Phone2     string `json:"phone2,omitempty"`
	Address    string `json:"address,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	CityID     int64  `json:"city_id,omitempty"`
	District   string `json:"district,omitempty"`
	Number     string `json:"number,omitempty"`
	Complement string `json:"complement,omitempty"`
}

// ToData convierte el body en los campos editables; la ciudad se resuelve aparte.
func (r CustomerRequest) ToData(city *entity.City) entity.CustomerData {
	return entity.CustomerData{
		Name:       r.Name,
		Type:       r.Type,
		CPFCNPJ:    r.CPFCNPJ,
		Email:      r.Email,
		Phone:      r.Phone,
		Phone2:     r.Phone2,
		Address:    r.Address,
		PostalCode: r.PostalCode,
		City:       city,
		District:   r.District,
		Number:     r.Number,
		Complement: r.Complement,
	}
}

// CustomerResponse cliente en respuestas, con su clave y estado de sincronización.
type CustomerResponse struct {
	*entity.Customer
	Key    string `json:"key"`
	Status string `json:"status"`
}

// NewCustomerResponse arma la respuesta.
func NewCustomerResponse(c *entity.Customer) CustomerResponse {
	return CustomerResponse{Customer: c, Key: c.Key(), Status: c.Status.String()}
}
