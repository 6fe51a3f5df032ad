package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentifyUnitType(t *testing.T) {
	tests := []struct {
		unit       string
		wantType   UnitType
		wantFactor float64
	}{
		{"ml", UnitVolume, 1},
		{"Cups", UnitVolume, 236.588},
		{" tbsp ", UnitVolume, 14.787},
		{"fl oz", UnitVolume, 29.574},
		{"l", UnitVolume, 1000},
		{"g", UnitWeight, 1},
		{"kg", UnitWeight, 1000},
		{"lbs", UnitWeight, 453.592},
		{"oz", UnitWeight, 28.3495},
		{"clove", UnitCount, 1},
		{"cans", UnitCount, 1},
		{"small", UnitCount, 0.75},
		{"large egg", UnitCount, 1.5},
		{"extra large", UnitCount, 1.5},
		{"xl", UnitCount, 2},
		{"handful", UnitUnknown, 1},
	}

	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			gotType, gotFactor := IdentifyUnitType(tt.unit)
			assert.Equal(t, tt.wantType, gotType)
			assert.InDelta(t, tt.wantFactor, gotFactor, 1e-9)
		})
	}
}

func TestNormalizeQuantity(t *testing.T) {
	t.Run("empty unit is a count", func(t *testing.T) {
		q := NormalizeQuantity("3", "")
		assert.Equal(t, UnitCount, q.UnitType)
		assert.Equal(t, "", q.Unit)
		assert.Equal(t, 3.0, q.Value)
		assert.Equal(t, "3", q.OriginalQuantity)
	})

	t.Run("missing quantity counts as one", func(t *testing.T) {
		q := NormalizeQuantity("", "")
		assert.Equal(t, 1.0, q.Value)
		assert.Equal(t, "1", q.OriginalQuantity)
	})

	t.Run("volume converts to ml", func(t *testing.T) {
		q := NormalizeQuantity("2", "cups")
		assert.Equal(t, UnitVolume, q.UnitType)
		assert.Equal(t, "ml", q.Unit)
		assert.InDelta(t, 473.176, q.Value, 1e-9)
		assert.Equal(t, "cups", q.OriginalUnit)
	})

	t.Run("weight converts to g", func(t *testing.T) {
		q := NormalizeQuantity("1.5", "kg")
		assert.Equal(t, UnitWeight, q.UnitType)
		assert.Equal(t, "g", q.Unit)
		assert.InDelta(t, 1500, q.Value, 1e-9)
	})

	t.Run("count keeps the lowercased token", func(t *testing.T) {
		q := NormalizeQuantity("2", " Cloves ")
		assert.Equal(t, UnitCount, q.UnitType)
		assert.Equal(t, "cloves", q.Unit)
	})

	t.Run("unknown keeps the original unit", func(t *testing.T) {
		q := NormalizeQuantity("1", "Handful")
		assert.Equal(t, UnitUnknown, q.UnitType)
		assert.Equal(t, "Handful", q.Unit)
		assert.Equal(t, 1.0, q.Value)
	})

	t.Run("numeric value", func(t *testing.T) {
		q := NormalizeQuantityValue(0.5, "l")
		assert.InDelta(t, 500, q.Value, 1e-9)
		assert.Equal(t, "0.5", q.OriginalQuantity)
	})
}

func TestCanAggregate(t *testing.T) {
	tests := []struct {
		u1, u2 string
		want   bool
	}{
		{"ml", "cups", true},
		{"ml", "g", false},
		{"kg", "oz", true},
		{"clove", "cloves", true},
		{"ml", "handful", false},
		// only type labels are compared, so two different unknown units pass
		{"xyz", "abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.u1+"/"+tt.u2, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAggregate(tt.u1, tt.u2))
		})
	}
}
