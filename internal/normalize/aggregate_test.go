package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestAggregateIngredients(t *testing.T) {
	agg := NewAggregator(nil)

	t.Run("sums quantities of the same ingredient", func(t *testing.T) {
		result := agg.AggregateIngredients([]RawIngredientReference{
			{Name: "onion", Quantity: "1"},
			{Name: "onion", Quantity: "2"},
		}, "r1")

		item, ok := result.Get("onion")
		require.True(t, ok)
		assert.Equal(t, 3.0, item.TotalQuantity.Value)
		assert.Equal(t, []string{"r1"}, item.RecipeSources)
	})

	t.Run("keys by normalized name", func(t *testing.T) {
		result := agg.AggregateIngredients([]RawIngredientReference{
			{Name: "Fresh Chopped Onion", Quantity: "1"},
			{Name: "onion", Quantity: "1"},
		}, "r1")

		assert.Equal(t, 1, result.Len())
		item, _ := result.Get("onion")
		assert.Equal(t, "Fresh Chopped Onion", item.Name)
		assert.Equal(t, 2.0, item.TotalQuantity.Value)
	})

	t.Run("splits combined measure when quantity is missing", func(t *testing.T) {
		result := agg.AggregateIngredients([]RawIngredientReference{
			{Name: "milk", Measure: "1 cup"},
			{Name: "milk", Measure: "100ml"},
		}, "r1")

		item, _ := result.Get("milk")
		assert.Equal(t, UnitVolume, item.TotalQuantity.UnitType)
		assert.InDelta(t, 336.588, item.TotalQuantity.Value, 1e-6)
	})

	t.Run("uses numeric quantity", func(t *testing.T) {
		half := 0.5
		result := agg.AggregateIngredients([]RawIngredientReference{
			{Name: "butter", QuantityValue: &half, Measure: "kg"},
		}, "r1")

		item, _ := result.Get("butter")
		assert.Equal(t, 500.0, item.TotalQuantity.Value)
	})

	t.Run("skips empty names", func(t *testing.T) {
		result := agg.AggregateIngredients([]RawIngredientReference{
			{Name: "  ", Quantity: "1"},
			{Name: "salt", Quantity: "pinch"},
		}, "r1")

		assert.Equal(t, []string{"salt"}, result.Keys())
	})

	t.Run("preserves first-occurrence order", func(t *testing.T) {
		result := agg.AggregateIngredients([]RawIngredientReference{
			{Name: "tomato"}, {Name: "basil"}, {Name: "garlic"}, {Name: "basil"},
		}, "r1")

		assert.Equal(t, []string{"tomato", "basil", "garlic"}, result.Keys())
	})
}

func TestAggregator_IncompatibleUnits(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	agg := NewAggregator(zap.New(core))

	result := agg.AggregateIngredients([]RawIngredientReference{
		{Name: "flour", Quantity: "200", Measure: "g"},
		{Name: "flour", Quantity: "1", Measure: "cup"},
	}, "r1")

	item, ok := result.Get("flour")
	require.True(t, ok)
	assert.Equal(t, UnitWeight, item.TotalQuantity.UnitType)
	assert.Equal(t, 200.0, item.TotalQuantity.Value)
	require.Len(t, item.Dropped, 1)
	assert.Equal(t, UnitVolume, item.Dropped[0].UnitType)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "cannot add quantities of different unit types, keeping first", entry.Message)
	assert.Equal(t, "flour", entry.ContextMap()["ingredient"])
}

func TestAggregator_Merge(t *testing.T) {
	agg := NewAggregator(nil)

	plan := NewAggregation()
	agg.Merge(plan, agg.AggregateIngredients([]RawIngredientReference{
		{Name: "onion", Quantity: "1"},
		{Name: "garlic", Quantity: "2", Measure: "cloves"},
	}, "r1"))
	agg.Merge(plan, agg.AggregateIngredients([]RawIngredientReference{
		{Name: "garlic", Quantity: "3", Measure: "cloves"},
		{Name: "rice", Quantity: "200", Measure: "g"},
	}, "r2"))
	agg.Merge(plan, agg.AggregateIngredients([]RawIngredientReference{
		{Name: "garlic", Quantity: "1", Measure: "clove"},
	}, "r2"))

	assert.Equal(t, []string{"onion", "garlic", "rice"}, plan.Keys())

	garlic, _ := plan.Get("garlic")
	assert.Equal(t, 6.0, garlic.TotalQuantity.Value)
	assert.Equal(t, []string{"r1", "r2"}, garlic.RecipeSources)
	assert.Equal(t, "6 cloves", garlic.DisplayQuantity())
}

func TestAggregateIngredients_ReferenceRecipeID(t *testing.T) {
	agg := NewAggregator(nil)

	result := agg.AggregateIngredients([]RawIngredientReference{
		{Name: "onion", Quantity: "1", RecipeID: "soup"},
		{Name: "onion", Quantity: "1", RecipeID: "stew"},
		{Name: "leek", Quantity: "1"},
	}, "")

	onion, ok := result.Get("onion")
	require.True(t, ok)
	assert.Equal(t, []string{"soup", "stew"}, onion.RecipeSources)

	leek, _ := result.Get("leek")
	assert.Empty(t, leek.RecipeSources)

	// an explicit recipe id wins
	result = agg.AggregateIngredients([]RawIngredientReference{{Name: "onion", RecipeID: "soup"}}, "r1")
	onion, _ = result.Get("onion")
	assert.Equal(t, []string{"r1"}, onion.RecipeSources)
}
