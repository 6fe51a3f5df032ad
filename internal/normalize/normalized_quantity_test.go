package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizedQuantity_Add(t *testing.T) {
	t.Run("same type sums values", func(t *testing.T) {
		res := NormalizeQuantity("1", "cup").Add(NormalizeQuantity("263", "ml"))

		require.True(t, res.Merged)
		assert.Nil(t, res.Dropped)

		want := NormalizeQuantity("500", "ml")
		assert.InEpsilon(t, want.Value, res.Quantity.Value, 0.01)
		assert.Equal(t, "ml", res.Quantity.Unit)
		assert.Equal(t, "1 + 263", res.Quantity.OriginalQuantity)
	})

	t.Run("different types keep the receiver", func(t *testing.T) {
		left := NormalizeQuantity("200", "g")
		right := NormalizeQuantity("1", "cup")

		res := left.Add(right)

		assert.False(t, res.Merged)
		assert.Equal(t, left, res.Quantity)
		require.NotNil(t, res.Dropped)
		assert.Equal(t, right, *res.Dropped)
	})

	t.Run("does not mutate operands", func(t *testing.T) {
		left := NormalizeQuantity("1", "")
		right := NormalizeQuantity("2", "")
		_ = left.Add(right)

		assert.Equal(t, 1.0, left.Value)
		assert.Equal(t, 2.0, right.Value)
	})
}

func TestNormalizedQuantity_ToDisplayString(t *testing.T) {
	tests := []struct {
		name     string
		qty      NormalizedQuantity
		wantQty  string
		wantUnit string
	}{
		{"liters", NormalizeQuantity("1500", "ml"), "1.5", "L"},
		{"whole liters", NormalizeQuantity("2", "l"), "2", "L"},
		{"deciliters", NormalizeQuantity("200", "ml"), "2", "dl"},
		{"milliliters", NormalizeQuantity("2", "tbsp"), "30", "ml"},
		{"kilograms", NormalizeQuantity("1500", "g"), "1.5", "kg"},
		{"kilograms two decimals", NormalizeQuantity("1250", "g"), "1.25", "kg"},
		{"grams", NormalizeQuantity("250", "g"), "250", "g"},
		{"whole count", NormalizeQuantity("3", "cloves"), "3", "cloves"},
		{"fractional count", NormalizeQuantity("1 1/2", ""), "1.5", ""},
		{"unknown", NormalizeQuantity("2", "handful"), "2", "handful"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotQty, gotUnit := tt.qty.ToDisplayString()
			assert.Equal(t, tt.wantQty, gotQty)
			assert.Equal(t, tt.wantUnit, gotUnit)
		})
	}
}

func TestNormalizedQuantity_Scale(t *testing.T) {
	q := NormalizeQuantity("100", "g")
	scaled := q.Scale(2.5)

	assert.Equal(t, 250.0, scaled.Value)
	assert.Equal(t, 100.0, q.Value)
	assert.Equal(t, "250 g", scaled.String())
}
