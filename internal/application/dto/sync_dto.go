package dto

// ImportResponse resultado de POST /api/import.
type ImportResponse struct {
	Done bool `json:"done"`
}

// ImportStatusResponse resultado de GET /api/import/status.
type ImportStatusResponse struct {
	Done bool `json:"done"`
}

// RefreshResponse resultado de POST /api/catalog/refresh.
type RefreshResponse struct {
	PriceTables int `json:"price_tables"`
	Customers   int `json:"customers"`
}
