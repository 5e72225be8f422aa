package entity_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libertsolutions/libertvendas/internal/domain"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
)

func newItem(t *testing.T, price string) *entity.OrderItem {
	t.Helper()
	return entity.NewOrderItem(
		entity.Product{ProductID: 7, Description: "Café torrado 500g"},
		decimal.RequireFromString(price),
	)
}

func assertConsistent(t *testing.T, item *entity.OrderItem) {
	t.Helper()
	line := item.Snapshot()
	assert.True(t, line.Subtotal.Equal(line.Quantity.Mul(line.UnitPrice)),
		"subtotal %s != %s x %s", line.Subtotal, line.Quantity, line.UnitPrice)
	assert.False(t, line.Quantity.IsNegative())
}

func TestOrderItem_SubtotalSigueCadaCambio(t *testing.T) {
	item := newItem(t, "12.50")

	item.AddQuantity()
	assertConsistent(t, item)
	item.AddQuantity()
	assertConsistent(t, item)
	assert.Equal(t, "25", item.Subtotal().String())

	require.NoError(t, item.SetQuantity(decimal.NewFromInt(10)))
	assertConsistent(t, item)
	assert.Equal(t, "125", item.Subtotal().String())

	assert.True(t, item.RemoveQuantity())
	assertConsistent(t, item)
	assert.Equal(t, "9", item.Quantity().String())
}

func TestOrderItem_RestarEnCeroNoCambiaNada(t *testing.T) {
	item := newItem(t, "3")

	assert.False(t, item.RemoveQuantity())
	assert.True(t, item.Quantity().IsZero())
	assert.True(t, item.Subtotal().IsZero())
}

func TestOrderItem_RestarFraccionNuncaQuedaNegativo(t *testing.T) {
	item := newItem(t, "2")
	require.NoError(t, item.SetQuantity(decimal.RequireFromString("0.5")))

	assert.True(t, item.RemoveQuantity())
	assert.True(t, item.Quantity().IsZero())
	assertConsistent(t, item)
}

func TestOrderItem_CantidadNegativaRechazada(t *testing.T) {
	item := newItem(t, "2")
	item.AddQuantity()

	err := item.SetQuantity(decimal.NewFromInt(-1))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Equal(t, "1", item.Quantity().String())
}

func TestOrderItem_CambiosConcurrentesMantienenElPar(t *testing.T) {
	item := newItem(t, "1.10")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			item.AddQuantity()
		}()
		go func() {
			defer wg.Done()
			item.RemoveQuantity()
		}()
		go func() {
			defer wg.Done()
			line := item.Snapshot()
			if !line.Subtotal.Equal(line.Quantity.Mul(line.UnitPrice)) {
				t.Errorf("par inconsistente: %s x %s = %s", line.Quantity, line.UnitPrice, line.Subtotal)
			}
		}()
	}
	wg.Wait()
	assertConsistent(t, item)
}

func TestOrder_TotalRestaElDescuento(t *testing.T) {
	order := &entity.Order{
		Discount: decimal.RequireFromString("5"),
		Items: []entity.OrderLine{
			{Subtotal: decimal.RequireFromString("20")},
			{Subtotal: decimal.RequireFromString("7.5")},
		},
	}

	assert.Equal(t, "27.5", order.TotalItems().String())
	assert.Equal(t, "22.5", order.Total().String())
}

func TestSameRecord_IgnoraLaFilaLocal(t *testing.T) {
	a := &entity.Customer{CustomerID: 42, Name: "Mercado Bom Preço"}
	b := &entity.Customer{CustomerID: 42, Name: "Mercado Bom Preco (editado)"}
	a.SetLocalID(1)
	b.SetLocalID(99)

	assert.True(t, a.Equal(b))
	assert.True(t, entity.SameRecord(a, b))

	c := &entity.Customer{CustomerID: 43}
	c.SetLocalID(1)
	assert.False(t, a.Equal(c))
}

func TestSameRecord_TiposDistintosNuncaIguales(t *testing.T) {
	city := &entity.City{CityID: 5}
	pm := &entity.PaymentMethod{PaymentMethodID: 5}

	assert.False(t, entity.SameRecord(city, pm))
}

func TestCustomer_ComparacionConNil(t *testing.T) {
	var nilCustomer *entity.Customer
	assert.True(t, nilCustomer.Equal(nil))
	assert.False(t, (&entity.Customer{CustomerID: 1}).Equal(nil))
}

func TestSyncStatus_TransicionesPermitidas(t *testing.T) {
	var m entity.Meta

	require.NoError(t, m.MarkStatus(entity.StatusImported))
	err := m.MarkStatus(entity.StatusSynchronized)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	assert.Equal(t, entity.StatusImported, m.SyncStatus())

	require.NoError(t, m.MarkStatus(entity.StatusModified))
	assert.True(t, m.SyncStatus().NeedsUpload())
	require.NoError(t, m.MarkStatus(entity.StatusSynchronized))
	assert.False(t, m.SyncStatus().NeedsUpload())

	assert.Error(t, m.MarkStatus(entity.StatusImported))
	assert.Error(t, m.MarkStatus(entity.StatusCreated))
	require.NoError(t, m.MarkStatus(entity.StatusModified))
}

func TestCustomer_CicloDeVidaRespetaLosEstados(t *testing.T) {
	c := entity.NewCustomer(entity.CustomerData{Name: "Padaria Central", CPFCNPJ: "52998224725"},
		"18285835000109", "52998224725")

	assert.Equal(t, entity.StatusCreated, c.Status)
	assert.True(t, entity.IsLocalKey(c.Key()))

	require.NoError(t, c.Change(entity.CustomerData{Name: "Padaria Central Ltda"}, "2026-10-01"))
	assert.Equal(t, entity.StatusCreated, c.Status, "un cliente no enviado sigue como created")

	require.NoError(t, c.MarkSynchronized(501))
	assert.Equal(t, "501", c.Key())
	assert.Equal(t, entity.StatusSynchronized, c.Status)

	require.NoError(t, c.Change(entity.CustomerData{Name: "Padaria Central SA"}, "2026-10-02"))
	assert.Equal(t, entity.StatusModified, c.Status)
	assert.Equal(t, "2026-10-02", c.LastChange)
}

func TestSalesman_EmpresaSeleccionadaNoMutaElOriginal(t *testing.T) {
	acme := entity.Company{CompanyID: 1, Name: "Acme", CNPJ: "18285835000109"}
	s := &entity.Salesman{SalesmanID: 3, Name: "Ana", Companies: []entity.Company{acme}}

	selected, err := s.WithSelectedCompany(acme)
	require.NoError(t, err)
	require.NotNil(t, selected.SelectedCompany)
	assert.Equal(t, acme, *selected.SelectedCompany)
	assert.Nil(t, s.SelectedCompany, "no muta el original")

	_, err = s.WithSelectedCompany(entity.Company{CompanyID: 9})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
