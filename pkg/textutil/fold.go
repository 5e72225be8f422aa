// Package textutil normaliza texto para búsquedas insensibles a acentos y mayúsculas
// ("AÇÚCAR cristal" coincide con "acucar").
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold quita diacríticos, pasa a minúsculas y colapsa espacios.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// ContainsFold indica si alguno de los valores contiene la consulta tras normalizar ambos.
// Una consulta vacía coincide con todo.
func ContainsFold(query string, values ...string) bool {
	q := Fold(query)
	if q == "" {
		return true
	}
	for _, v := range values {
		if strings.Contains(Fold(v), q) {
			return true
		}
	}
	return false
}
