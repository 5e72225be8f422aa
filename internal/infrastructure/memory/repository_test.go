package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libertsolutions/libertvendas/internal/domain"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
	"github.com/libertsolutions/libertvendas/internal/domain/specification"
	"github.com/libertsolutions/libertvendas/internal/infrastructure/memory"
)

func newCityRepo() *memory.Repo[*entity.City] {
	return memory.NewRepo(func() *entity.City { return new(entity.City) })
}

func TestRepo_SaveAllUpsertsByRemoteKey(t *testing.T) {
	ctx := context.Background()
	repo := newCityRepo()

	require.NoError(t, repo.SaveAll(ctx, []*entity.City{
		{CityID: 1, Name: "Teresina", UF: "PI"},
		{CityID: 2, Name: "Fortaleza", UF: "CE"},
	}))
	first, err := repo.FindByKey(ctx, "1")
	require.NoError(t, err)

	require.NoError(t, repo.SaveAll(ctx, []*entity.City{{CityID: 1, Name: "Teresina (PI)", UF: "PI"}}))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Teresina (PI)", all[0].Name)
	assert.Equal(t, first.LocalID(), all[0].LocalID(), "el reemplazo conserva la fila local")
}

func TestRepo_SaveAssignsLocalID(t *testing.T) {
	repo := newCityRepo()
	city := &entity.City{CityID: 9, Name: "Picos"}

	require.NoError(t, repo.Save(context.Background(), city))

	assert.NotZero(t, city.LocalID())
}

func TestRepo_DevuelveCopias(t *testing.T) {
	ctx := context.Background()
	repo := newCityRepo()
	require.NoError(t, repo.Save(ctx, &entity.City{CityID: 1, Name: "Teresina"}))

	got, err := repo.FindByKey(ctx, "1")
	require.NoError(t, err)
	got.Name = "cambiado"

	again, err := repo.FindByKey(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Teresina", again.Name)
}

func TestRepo_FindByKeyNotFound(t *testing.T) {
	_, err := newCityRepo().FindByKey(context.Background(), "404")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRepo_QueryAppliesSpecification(t *testing.T) {
	ctx := context.Background()
	repo := newCityRepo()
	require.NoError(t, repo.SaveAll(ctx, []*entity.City{
		{CityID: 1, Name: "Teresina", UF: "PI"},
		{CityID: 2, Name: "Fortaleza", UF: "CE"},
		{CityID: 3, Name: "Parnaíba", UF: "PI"},
	}))

	got, err := repo.Query(ctx, specification.CitiesByUF{UF: "PI"})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Parnaíba", got[0].Name)
	assert.Equal(t, "Teresina", got[1].Name)
}

func TestRepo_KeyChangeReplacesLocalRow(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepo(func() *entity.Customer { return new(entity.Customer) })
	c := entity.NewCustomer(entity.CustomerData{Name: "Bar do Zé"}, "182", "529")
	require.NoError(t, repo.Save(ctx, c))
	localKey := c.Key()

	require.NoError(t, c.MarkSynchronized(77))
	require.NoError(t, repo.Save(ctx, c))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "77", all[0].Key())
	_, err = repo.FindByKey(ctx, localKey)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRepo_DecimalSurvivesRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepo(func() *entity.PaymentMethod { return new(entity.PaymentMethod) })
	require.NoError(t, repo.Save(ctx, &entity.PaymentMethod{PaymentMethodID: 1, Discount: decimal.RequireFromString("2.5")}))

	got, err := repo.FindByKey(ctx, "1")

	require.NoError(t, err)
	assert.Equal(t, "2.5", got.Discount.String())
}

func TestSettings_MissingKeyIsNil(t *testing.T) {
	ctx := context.Background()
	s := memory.NewSettings()

	v, err := s.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, s.Put(ctx, "k", []byte("v")))
	v, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	require.NoError(t, s.Delete(ctx, "k"))
	v, _ = s.Get(ctx, "k")
	assert.Nil(t, v)
}
