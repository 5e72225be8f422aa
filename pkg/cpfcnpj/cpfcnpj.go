// Package cpfcnpj valida documentos brasileños: CPF (persona física, 11 dígitos)
// y CNPJ (persona jurídica, 14 dígitos), ambos con dos dígitos verificadores módulo 11.
package cpfcnpj

import (
	"errors"
	"fmt"
	"unicode"
)

var (
	// ErrInvalidLength el documento no tiene 11 (CPF) ni 14 (CNPJ) dígitos.
	ErrInvalidLength = errors.New("cpfcnpj: cantidad de dígitos inválida")
	// ErrInvalidCheckDigit los dígitos verificadores no coinciden.
	ErrInvalidCheckDigit = errors.New("cpfcnpj: dígito verificador inválido")
)

// pesos del CNPJ para el primer y segundo dígito verificador.
var (
	cnpjWeights1 = [12]int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = [13]int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Digits devuelve sólo los dígitos del documento ("123.456.789-09" -> "12345678909").
func Digits(s string) string {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if unicode.IsDigit(r) && r < 128 {
			out = append(out, byte(r))
		}
	}
	return string(out)
}

// IsCPF indica si el documento tiene la longitud de un CPF.
func IsCPF(s string) bool { return len(Digits(s)) == 11 }

// IsCNPJ indica si el documento tiene la longitud de un CNPJ.
func IsCNPJ(s string) bool { return len(Digits(s)) == 14 }

// Validate verifica un CPF o un CNPJ (con o sin puntuación).
func Validate(s string) error {
	d := Digits(s)
	switch len(d) {
	case 11:
		return validateCPF(d)
	case 14:
		return validateCNPJ(d)
	default:
		return fmt.Errorf("%w: %d", ErrInvalidLength, len(d))
	}
}

func validateCPF(d string) error {
	if repeated(d) {
		return ErrInvalidCheckDigit
	}
	for n := 9; n <= 10; n++ {
		sum := 0
		for i := 0; i < n; i++ {
			sum += int(d[i]-'0') * (n + 1 - i)
		}
		dv := sum * 10 % 11
		if dv == 10 {
			dv = 0
		}
		if int(d[n]-'0') != dv {
			return ErrInvalidCheckDigit
		}
	}
	return nil
}

func validateCNPJ(d string) error {
	if repeated(d) {
		return ErrInvalidCheckDigit
	}
	if int(d[12]-'0') != cnpjDigit(d[:12], cnpjWeights1[:]) {
		return ErrInvalidCheckDigit
	}
	if int(d[13]-'0') != cnpjDigit(d[:13], cnpjWeights2[:]) {
		return ErrInvalidCheckDigit
	}
	return nil
}

func cnpjDigit(base string, weights []int) int {
	sum := 0
	for i := range base {
		sum += int(base[i]-'0') * weights[i]
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}

// repeated rechaza secuencias como 000.000.000-00, que pasan el módulo 11.
func repeated(d string) bool {
	for i := 1; i < len(d); i++ {
		if d[i] != d[0] {
			return false
		}
	}
	return true
}
