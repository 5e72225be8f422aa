package codec_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libertsolutions/libertvendas/internal/infrastructure/codec"
)

func TestCodec_CamposEnOrden(t *testing.T) {
	issued := time.Date(2026, 10, 19, 14, 30, 0, 0, time.UTC)
	w := codec.NewWriter("TST", 2)
	w.Int64(-42)
	w.String("Açúcar cristal")
	w.Bool(true)
	w.Decimal(decimal.RequireFromString("12.50"))
	w.Time(issued)
	w.Time(time.Time{})
	w.Len(3)

	r, err := codec.NewReader(w.Bytes(), "TST")
	require.NoError(t, err)
	assert.Equal(t, byte(2), r.Version())
	assert.Equal(t, int64(-42), r.Int64())
	assert.Equal(t, "Açúcar cristal", r.String())
	assert.True(t, r.Bool())
	assert.Equal(t, "12.50", r.Decimal().StringFixed(2))
	assert.True(t, issued.Equal(r.Time()))
	assert.True(t, r.Time().IsZero())
	assert.Equal(t, 3, r.Len(10))
	assert.NoError(t, r.Done())
}

func TestCodec_FechasFueraDelRangoDeNanosegundos(t *testing.T) {
	fechas := []time.Time{
		time.Date(2300, time.January, 15, 0, 0, 0, 0, time.UTC),
		time.Date(1500, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(9999, time.December, 31, 23, 59, 59, 999_999_999, time.UTC),
		time.Date(1, time.January, 2, 0, 0, 0, 0, time.UTC),
	}
	w := codec.NewWriter("TST", 1)
	for _, f := range fechas {
		w.Time(f)
	}

	r, err := codec.NewReader(w.Bytes(), "TST")
	require.NoError(t, err)
	for _, f := range fechas {
		got := r.Time()
		assert.True(t, f.Equal(got), "esperado %s, obtenido %s", f, got)
	}
	assert.NoError(t, r.Done())
}

func TestCodec_CabeceraInvalida(t *testing.T) {
	_, err := codec.NewReader([]byte("XXX\x01"), "TST")

	assert.True(t, errors.Is(err, codec.ErrMalformed))
}

func TestCodec_EtiquetaEquivocadaFijaError(t *testing.T) {
	w := codec.NewWriter("TST", 1)
	w.String("no soy un entero")

	r, err := codec.NewReader(w.Bytes(), "TST")
	require.NoError(t, err)

	assert.Zero(t, r.Int64())
	assert.Empty(t, r.String(), "después del primer error todo devuelve cero")
	assert.True(t, errors.Is(r.Err(), codec.ErrMalformed))
}

func TestCodec_DatosTruncados(t *testing.T) {
	w := codec.NewWriter("TST", 1)
	w.String("pedido")
	data := w.Bytes()

	r, err := codec.NewReader(data[:len(data)-2], "TST")
	require.NoError(t, err)
	_ = r.String()

	assert.True(t, errors.Is(r.Done(), codec.ErrMalformed))
}

func TestCodec_LenSobreElMaximo(t *testing.T) {
	w := codec.NewWriter("TST", 1)
	w.Len(5000)

	r, err := codec.NewReader(w.Bytes(), "TST")
	require.NoError(t, err)

	assert.Zero(t, r.Len(100))
	assert.Error(t, r.Err())
}

func TestCodec_BytesSobrantes(t *testing.T) {
	w := codec.NewWriter("TST", 1)
	w.Bool(false)
	w.Bool(true)

	r, err := codec.NewReader(w.Bytes(), "TST")
	require.NoError(t, err)
	assert.False(t, r.Bool())

	assert.Error(t, r.Done())
}
