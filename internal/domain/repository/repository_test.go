package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/libertsolutions/libertvendas/internal/domain/entity"
	"github.com/libertsolutions/libertvendas/internal/domain/repository"
)

type evenCities struct{}

func (evenCities) IsSatisfiedBy(c *entity.City) bool { return c.CityID%2 == 0 }
func (evenCities) Less(a, b *entity.City) bool     { return a.Name < b.Name }

type anyCity struct{}

func (anyCity) IsSatisfiedBy(*entity.City) bool { return true }

func TestApply_FiltersAndSorts(t *testing.T) {
	cities := []*entity.City{
		{CityID: 2, Name: "Teresina"},
		{CityID: 3, Name: "Parnaíba"},
		{CityID: 4, Name: "Picos"},
	}

	got := repository.Apply[*entity.City](cities, evenCities{})

	assert.Len(t, got, 2)
	assert.Equal(t, "Picos", got[0].Name)
	assert.Equal(t, "Teresina", got[1].Name)
}

func TestApply_SinOrdenConservaElOrden(t *testing.T) {
	cities := []*entity.City{{CityID: 9, Name: "Z"}, {CityID: 1, Name: "A"}}

	got := repository.Apply[*entity.City](cities, anyCity{})

	assert.Equal(t, []*entity.City{cities[0], cities[1]}, got)
}
