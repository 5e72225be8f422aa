// Package dto cuerpos de petición y respuesta de la API HTTP del agente.
package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CountResponse resultado de una operación que procesa registros en lote.
type CountResponse struct {
	Count int `json:"count"`
}
