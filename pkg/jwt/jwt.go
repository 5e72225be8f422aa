package jwt

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más la sesión del vendedor (vendedor + empresa elegida).
type Claims struct {
	jwt.RegisteredClaims
	SalesmanID int64  `json:"salesman_id"`
	CompanyID  int64  `json:"company_id"`
	CPFCNPJ    string `json:"cpf_cnpj"`
}

// Generate genera un token firmado para el vendedor y la empresa seleccionada.
func Generate(secret string, salesmanID, companyID int64, cpfCnpj, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(salesmanID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		SalesmanID: salesmanID,
		CompanyID:  companyID,
		CPFCNPJ:    cpfCnpj,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve sus claims.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	if claims.SalesmanID == 0 || claims.CompanyID == 0 {
		return nil, fmt.Errorf("jwt: sesión incompleta")
	}
	return claims, nil
}
