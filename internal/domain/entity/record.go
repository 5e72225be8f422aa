package entity

import (
	"strconv"
	"strings"
)

// Tipos de registro (columna kind del almacén local).
const (
	KindSalesman      = "salesman"
	KindCustomer      = "customer"
	KindPaymentMethod = "payment_method"
	KindCity          = "city"
	KindPostalCode    = "postal_code"
	KindPriceTable    = "price_table"
	KindOrder         = "order"
)

const localKeyPrefix = "local:"

// Record registro de referencia cacheado localmente.
// La identidad es Kind()+Key() (identificador remoto); el id de fila local no participa.
type Record interface {
	Kind() string
	Key() string
	LocalID() int64
	SetLocalID(id int64)
	SyncStatus() SyncStatus
}

// SameRecord compara dos registros por identidad remota.
func SameRecord(a, b Record) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Kind() == b.Kind() && a.Key() == b.Key()
}

// remoteKey construye la clave de un registro: el id remoto, o local:<uuid> si aún no tiene.
func remoteKey(remoteID int64, localKey string) string {
	if remoteID != 0 {
		return strconv.FormatInt(remoteID, 10)
	}
	return localKeyPrefix + localKey
}

// IsLocalKey indica si la clave corresponde a un registro aún no conocido por el backend.
func IsLocalKey(key string) bool {
	return strings.HasPrefix(key, localKeyPrefix)
}
