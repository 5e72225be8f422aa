package entity

// PostalCode CEP con su dirección. La clave remota es el propio CEP (sólo dígitos).
type PostalCode struct {
	Meta
	CEP      string `json:"cep"`
	Street   string `json:"street"`
	District string `json:"district"`
	City     *City  `json:"city,omitempty"`
}

func (p *PostalCode) Kind() string { return KindPostalCode }
func (p *PostalCode) Key() string  { return p.CEP }
