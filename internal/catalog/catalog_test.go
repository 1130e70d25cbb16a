package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/carcare-booking/internal/models"
	"github.com/ukydev/carcare-booking/internal/money"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, 5, c.Len())

	o, ok := c.Lookup("full-service")
	require.True(t, ok)
	assert.Equal(t, "AED 517.50", o.UnitPrice.String())
	assert.Equal(t, models.CategoryCarService, o.Category)
	assert.Equal(t, "6 Months Service Warranty", o.WarrantyLabel)

	_, ok = c.Lookup("missing")
	assert.False(t, ok)
}

func TestNew_Validation(t *testing.T) {
	t.Run("duplicate id", func(t *testing.T) {
		offerings := []models.ServiceOffering{
			{ID: "a", Title: "A", Category: models.CategoryBattery},
			{ID: "a", Title: "A again", Category: models.CategoryBattery},
		}
		_, err := New(offerings)
		assert.ErrorIs(t, err, ErrDuplicateService)
	})

	t.Run("negative price", func(t *testing.T) {
		_, err := New([]models.ServiceOffering{{ID: "a", Title: "A", UnitPrice: money.FromFloat(-1), Category: models.CategoryBattery}})
		assert.ErrorIs(t, err, ErrInvalidService)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := New([]models.ServiceOffering{{ID: "a", Title: "A", Category: "tyres"}})
		assert.ErrorIs(t, err, ErrInvalidService)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := New([]models.ServiceOffering{{Title: "A", Category: models.CategoryBattery}})
		assert.ErrorIs(t, err, ErrInvalidService)
	})
}

func TestCatalog_Search(t *testing.T) {
	c := Default()

	services := c.ByCategory(models.CategoryCarService)
	require.Len(t, services, 2)
	assert.Equal(t, "full-service", services[0].ID)
	assert.Equal(t, "diagnostics", services[1].ID)

	found := c.Search(models.CategoryCarService, "DIAGNOSTICS")
	require.Len(t, found, 1)
	assert.Equal(t, "diagnostics", found[0].ID)

	// Description matches count too.
	found = c.Search("", "wax coating")
	require.Len(t, found, 1)
	assert.Equal(t, "exterior-wash", found[0].ID)

	assert.Empty(t, c.Search(models.CategoryCeramic, ""))
	assert.Len(t, c.Search("", ""), 5)
}

func TestCatalog_Categories(t *testing.T) {
	cats := Default().Categories()
	require.Len(t, cats, 9)
	assert.Equal(t, models.CategoryCarWash, cats[0].ID)
	assert.Equal(t, "Car Wash", cats[0].Name)
	assert.Equal(t, 1, cats[0].Services)
	assert.Equal(t, 2, cats[1].Services)
}

func TestCatalog_AllReturnsCopy(t *testing.T) {
	c := Default()
	all := c.All()
	all[0].UnitPrice = money.FromFloat(1)
	o, _ := c.Lookup(all[0].ID)
	assert.False(t, o.UnitPrice.Equal(money.FromFloat(1)))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	content := `{
		"currency": "AED",
		"offerings": [
			{"id": "premium-wash", "title": "Premium Car Wash", "description": "Wash", "unit_price": 45, "category": "car-wash", "features": ["Foam"]},
			{"id": "oil-change", "title": "Oil Change Service", "description": "Oil", "unit_price": 120.5, "category": "car-service", "features": []}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	o, ok := c.Lookup("oil-change")
	require.True(t, ok)
	assert.Equal(t, "120.50", o.UnitPrice.Decimal())

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.json"))
		assert.Error(t, err)
	})

	t.Run("wrong currency", func(t *testing.T) {
		bad := filepath.Join(dir, "usd.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{"currency":"USD","offerings":[{"id":"a","title":"A","unit_price":1,"category":"battery"}]}`), 0o600))
		_, err := LoadFile(bad)
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		empty := filepath.Join(dir, "empty.json")
		require.NoError(t, os.WriteFile(empty, []byte(`{"offerings":[]}`), 0o600))
		_, err := LoadFile(empty)
		assert.Error(t, err)
	})
}

func TestBrands(t *testing.T) {
	b := Brands()
	require.Len(t, b, 14)
	assert.Equal(t, "Audi", b[0].Name)
	assert.Contains(t, b[0].Models, "Q5")

	name, ok := BrandName("mercedes")
	assert.True(t, ok)
	assert.Equal(t, "Mercedes-Benz", name)

	for _, brand := range b {
		if brand.ID == "gmc" {
			assert.Empty(t, brand.Models)
		}
	}
}

func TestModelYears(t *testing.T) {
	years := ModelYears(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.Len(t, years, 25)
	assert.Equal(t, "2024", years[0])
	assert.Equal(t, "2000", years[24])
}

func TestBookableDates(t *testing.T) {
	now := time.Date(2024, 1, 21, 15, 0, 0, 0, time.UTC)
	dates := BookableDates(now)
	require.Len(t, dates, 14)
	assert.Equal(t, "2024-01-22", dates[0].Value)
	assert.Equal(t, "Monday, January 22", dates[0].Label)
	assert.Equal(t, "2024-02-04", dates[13].Value)
}

func TestTimeSlotsAndLocations(t *testing.T) {
	slots := TimeSlots()
	require.Len(t, slots, 11)
	assert.Equal(t, "09:00 AM", slots[0])
	assert.Equal(t, "07:00 PM", slots[10])
	assert.Contains(t, PopularLocations(), "Deira - Dubai")
}
