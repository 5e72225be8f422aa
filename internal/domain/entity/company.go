package entity

// Company empresa a la que el vendedor está afiliado. No se persiste sola:
// viaja dentro del Salesman y de la sesión.
type Company struct {
	CompanyID int64  `json:"company_id"`
	Name      string `json:"name"`
	CNPJ      string `json:"cnpj"`
}

// Equal compara por identificador remoto.
func (c Company) Equal(o Company) bool {
	return c.CompanyID == o.CompanyID
}
