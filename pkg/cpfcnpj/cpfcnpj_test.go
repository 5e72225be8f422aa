package cpfcnpj_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/libertsolutions/libertvendas/pkg/cpfcnpj"
)

func TestValidate_CPFValido(t *testing.T) {
	assert.NoError(t, cpfcnpj.Validate("529.982.247-25"))
	assert.NoError(t, cpfcnpj.Validate("52998224725"))
}

func TestValidate_CNPJValido(t *testing.T) {
	assert.NoError(t, cpfcnpj.Validate("18.285.835/0001-09"))
}

func TestValidate_DigitoIncorrecto(t *testing.T) {
	assert.ErrorIs(t, cpfcnpj.Validate("529.982.247-26"), cpfcnpj.ErrInvalidCheckDigit)
	assert.ErrorIs(t, cpfcnpj.Validate("18.285.835/0001-08"), cpfcnpj.ErrInvalidCheckDigit)
}

func TestValidate_SecuenciaRepetida(t *testing.T) {
	assert.ErrorIs(t, cpfcnpj.Validate("111.111.111-11"), cpfcnpj.ErrInvalidCheckDigit)
}

func TestValidate_Longitud(t *testing.T) {
	assert.ErrorIs(t, cpfcnpj.Validate("1234"), cpfcnpj.ErrInvalidLength)
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "18285835000109", cpfcnpj.Digits("18.285.835/0001-09"))
	assert.True(t, cpfcnpj.IsCNPJ("18.285.835/0001-09"))
	assert.True(t, cpfcnpj.IsCPF("529.982.247-25"))
}
