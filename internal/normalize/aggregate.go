package normalize

import (
	"strings"

	"go.uber.org/zap"
)

// RawIngredientReference is one ingredient line from a recipe. Quantity and
// Measure are free text; QuantityValue takes precedence when the amount is
// already numeric. RecipeID is only consulted when the caller aggregates
// without a recipe id of its own.
type RawIngredientReference struct {
	Name          string   `json:"name" yaml:"name"`
	Quantity      string   `json:"quantity,omitempty" yaml:"quantity"`
	QuantityValue *float64 `json:"quantity_value,omitempty" yaml:"quantity_value"`
	Measure       string   `json:"measure,omitempty" yaml:"measure"`
	RecipeID      string   `json:"recipe_id,omitempty" yaml:"recipe_id"`
}

// AggregatedIngredient is the running total for one normalized ingredient name
type AggregatedIngredient struct {
	Name           string               `json:"name"`
	NormalizedName string               `json:"normalized_name"`
	TotalQuantity  NormalizedQuantity   `json:"total_quantity"`
	RecipeSources  []string             `json:"recipe_sources"`
	Dropped        []NormalizedQuantity `json:"dropped,omitempty"`
}

// DisplayQuantity renders the total as "amount unit"
func (a *AggregatedIngredient) DisplayQuantity() string {
	return a.TotalQuantity.String()
}

// HasSource reports whether recipeID already contributed to this ingredient
func (a *AggregatedIngredient) HasSource(recipeID string) bool {
	for _, id := range a.RecipeSources {
		if id == recipeID {
			return true
		}
	}
	return false
}

func (a *AggregatedIngredient) addSource(recipeID string) {
	if recipeID == "" || a.HasSource(recipeID) {
		return
	}
	a.RecipeSources = append(a.RecipeSources, recipeID)
}

// Aggregation maps normalized names to aggregated ingredients and keeps
// the order in which names were first seen.
type Aggregation struct {
	keys  []string
	items map[string]*AggregatedIngredient
}

// NewAggregation creates an empty aggregation
func NewAggregation() *Aggregation {
	return &Aggregation{items: make(map[string]*AggregatedIngredient)}
}

// Get returns the entry for a normalized name
func (a *Aggregation) Get(normalizedName string) (*AggregatedIngredient, bool) {
	item, ok := a.items[normalizedName]
	return item, ok
}

// Len returns the number of distinct ingredients
func (a *Aggregation) Len() int {
	return len(a.keys)
}

// Keys returns normalized names in first-occurrence order
func (a *Aggregation) Keys() []string {
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// Items returns entries in first-occurrence order
func (a *Aggregation) Items() []*AggregatedIngredient {
	out := make([]*AggregatedIngredient, 0, len(a.keys))
	for _, k := range a.keys {
		out = append(out, a.items[k])
	}
	return out
}

func (a *Aggregation) insert(item *AggregatedIngredient) {
	a.keys = append(a.keys, item.NormalizedName)
	a.items[item.NormalizedName] = item
}

// Aggregator sums ingredient quantities across recipes
type Aggregator struct {
	logger *zap.Logger
}

// NewAggregator creates an aggregator. A nil logger disables logging.
func NewAggregator(logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{logger: logger.Named("aggregator")}
}

// AggregateIngredients builds one entry per normalized ingredient name from
// the lines of a single recipe.
func (g *Aggregator) AggregateIngredients(refs []RawIngredientReference, recipeID string) *Aggregation {
	result := NewAggregation()
	g.AggregateInto(result, refs, recipeID)
	return result
}

// AggregateInto adds the lines of one recipe to an existing aggregation
func (g *Aggregator) AggregateInto(result *Aggregation, refs []RawIngredientReference, recipeID string) {
	for _, ref := range refs {
		name := strings.TrimSpace(ref.Name)
		if name == "" {
			continue
		}

		normalizedName := NormalizeIngredientName(name)
		if normalizedName == "" {
			normalizedName = strings.ToLower(name)
		}

		source := recipeID
		if source == "" {
			source = ref.RecipeID
		}

		g.add(result, &AggregatedIngredient{
			Name:           name,
			NormalizedName: normalizedName,
			TotalQuantity:  quantityOf(ref),
			RecipeSources:  []string{source},
		})
	}
}

// Merge folds every entry of from into into, preserving first-occurrence order
func (g *Aggregator) Merge(into, from *Aggregation) {
	for _, item := range from.Items() {
		copied := *item
		copied.RecipeSources = append([]string(nil), item.RecipeSources...)
		copied.Dropped = append([]NormalizedQuantity(nil), item.Dropped...)
		g.add(into, &copied)
	}
}

func (g *Aggregator) add(result *Aggregation, item *AggregatedIngredient) {
	existing, ok := result.Get(item.NormalizedName)
	if !ok {
		sources := item.RecipeSources[:0]
		for _, id := range item.RecipeSources {
			if id != "" {
				sources = append(sources, id)
			}
		}
		item.RecipeSources = sources
		result.insert(item)
		return
	}

	merge := existing.TotalQuantity.Add(item.TotalQuantity)
	if !merge.Merged {
		g.logger.Warn("cannot add quantities of different unit types, keeping first",
			zap.String("ingredient", existing.NormalizedName),
			zap.String("kept_type", string(existing.TotalQuantity.UnitType)),
			zap.String("dropped_type", string(merge.Dropped.UnitType)),
			zap.Float64("dropped_value", merge.Dropped.Value))
		existing.Dropped = append(existing.Dropped, *merge.Dropped)
	}
	existing.TotalQuantity = merge.Quantity
	existing.Dropped = append(existing.Dropped, item.Dropped...)

	for _, id := range item.RecipeSources {
		existing.addSource(id)
	}
}

// quantityOf derives a normalized quantity from whichever amount fields are set
func quantityOf(ref RawIngredientReference) NormalizedQuantity {
	measure := strings.TrimSpace(ref.Measure)

	if ref.QuantityValue != nil {
		return NormalizeQuantityValue(*ref.QuantityValue, measure)
	}

	quantity := strings.TrimSpace(ref.Quantity)
	if quantity == "" && measure != "" {
		quantity, measure = ExtractQuantityAndUnit(measure)
	}
	return NormalizeQuantity(quantity, measure)
}
