package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libertsolutions/libertvendas/internal/domain/entity"
)

func TestGenerate_ProducePDF(t *testing.T) {
	company := entity.Company{CompanyID: 1, Name: "Liberty Distribuidora", CNPJ: "18285835000109"}
	user := &entity.LoggedUser{
		Salesman:       &entity.Salesman{SalesmanID: 3, Name: "Marina Souza", Code: "V03", Companies: []entity.Company{company}},
		DefaultCompany: company,
	}
	o := &entity.Order{
		LocalKey:      "0b6f3c2e-8a51-4c1e-9d55-2f1f0f6a9b11",
		SalesmanID:    3,
		CompanyID:     1,
		Customer:      entity.Customer{Name: "Mercado Bom Preço", CPFCNPJ: "52998224725"},
		PaymentMethod: entity.PaymentMethod{Description: "Boleto 30 dias"},
		IssueDate:     time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		Discount:      decimal.RequireFromString("5"),
		Observation:   "Entregar pela manhã",
		Items: []entity.OrderLine{{
			Product:   entity.Product{ProductID: 7, Description: "Café torrado 500g"},
			UnitPrice: decimal.RequireFromString("12.50"),
			Quantity:  decimal.RequireFromString("4"),
			Subtotal:  decimal.RequireFromString("50"),
		}},
	}

	out, err := NewMarotoPDFGenerator().Generate(o, user)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerate_SinSesion(t *testing.T) {
	_, err := NewMarotoPDFGenerator().Generate(&entity.Order{}, nil)
	assert.Error(t, err)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "R$ 1.234,50", formatMoney(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "R$ 0,00", formatMoney(decimal.Zero))
	assert.Equal(t, "R$ -10,00", formatMoney(decimal.NewFromInt(-10)))
	assert.Equal(t, "R$ 1.000.000,00", formatMoney(decimal.NewFromInt(1000000)))
}

func TestFormatDocument(t *testing.T) {
	assert.Equal(t, "529.982.247-25", formatDocument("52998224725"))
	assert.Equal(t, "18.285.835/0001-09", formatDocument("18285835000109"))
	assert.Equal(t, "123", formatDocument("123"))
}

func TestOrderNumber(t *testing.T) {
	assert.Equal(t, "N° 42", orderNumber(&entity.Order{OrderID: 42}))
	assert.Equal(t, "N° 0B6F3C2E", orderNumber(&entity.Order{LocalKey: "0b6f3c2e-8a51"}))
}

func TestSplitEvery_RespetaRunas(t *testing.T) {
	assert.Equal(t, []string{"ção", "ção"}, splitEvery("çãoção", 3))
}
