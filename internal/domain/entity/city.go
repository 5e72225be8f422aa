package entity

import "strconv"

// City ciudad (referencia remota).
type City struct {
	Meta
	CityID int64  `json:"city_id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	UF     string `json:"uf"`
}

func (c *City) Kind() string { return KindCity }
func (c *City) Key() string  { return strconv.FormatInt(c.CityID, 10) }
