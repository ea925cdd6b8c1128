package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVehicle_ToRecord(t *testing.T) {
	acquired := time.Date(2024, 11, 3, 9, 30, 0, 0, time.UTC)
	v := Vehicle{
		ID:       "veh-1",
		VIN:      "JTDBR32E720123456",
		Make:     &Ref{ID: 3, Name: "Toyota"},
		Year:     2019,
		Features: []string{"sunroof"},
		Pricing:  &Pricing{ListPrice: 17999, Currency: "GBP"},
		Internal: &Internal{StockNumber: "STK-1", AcquisitionCost: 30000, AcquiredAt: &acquired},
	}

	rec, err := v.ToRecord()
	require.NoError(t, err)

	assert.Equal(t, "veh-1", rec["id"])
	assert.Equal(t, map[string]any{"id": float64(3), "name": "Toyota"}, rec["make"])
	assert.Equal(t, []any{"sunroof"}, rec["features"])
	assert.Equal(t, map[string]any{"listPrice": float64(17999), "salePrice": nil, "currency": "GBP"}, rec["pricing"])
	assert.Equal(t, "2024-11-03T09:30:00Z", rec["internal"].(map[string]any)["acquiredAt"])
	assert.Nil(t, rec["model"])
	assert.Contains(t, rec, "model")
}

func TestFromRecord(t *testing.T) {
	v, err := FromRecord(map[string]any{
		"id":      "veh-2",
		"year":    2021,
		"pricing": map[string]any{"listPrice": 18999},
	})
	require.NoError(t, err)
	assert.Equal(t, "veh-2", v.ID)
	assert.Equal(t, 2021, v.Year)
	require.NotNil(t, v.Pricing)
	assert.Equal(t, 18999.0, v.Pricing.ListPrice)

	_, err = FromRecord(map[string]any{"year": "twenty"})
	assert.Error(t, err)
}

func TestFormRecord(t *testing.T) {
	rec, err := FormRecord(map[string]any{
		"id":         "veh-1",
		"year":       2020,
		"colour":     "",
		"pricing":    map[string]any{"listPrice": 18999, "currency": "GBP"},
		"__v":        4,
		"submitting": true,
	})
	require.NoError(t, err)

	assert.Equal(t, "veh-1", rec["id"])
	assert.Equal(t, float64(2020), rec["year"])
	assert.Equal(t, float64(4), rec["__v"])
	assert.NotContains(t, rec, "submitting")
	assert.NotContains(t, rec, "colour")
	assert.Nil(t, rec["mileage"])
	assert.Contains(t, rec, "mileage")
	assert.Equal(t, map[string]any{"listPrice": float64(18999), "salePrice": nil, "currency": "GBP"}, rec["pricing"])

	_, err = FormRecord(map[string]any{"mileage": "lots"})
	assert.Error(t, err)
}
