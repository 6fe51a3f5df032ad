package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NormalizedQuantity is an amount expressed in the base unit of its type:
// ml for volume, g for weight, the literal unit token for count.
type NormalizedQuantity struct {
	Value            float64  `json:"value"`
	Unit             string   `json:"unit"`
	UnitType         UnitType `json:"unit_type"`
	OriginalQuantity string   `json:"original_quantity"`
	OriginalUnit     string   `json:"original_unit"`
}

// MergeResult is the outcome of adding two quantities.
// When Merged is false, Quantity is the unchanged receiver and Dropped holds
// the operand whose amount was discarded.
type MergeResult struct {
	Quantity NormalizedQuantity
	Merged   bool
	Dropped  *NormalizedQuantity
}

// Add sums two quantities of the same unit type. Quantities of different
// types cannot be summed: the receiver is kept and the other operand is
// reported as dropped.
func (q NormalizedQuantity) Add(other NormalizedQuantity) MergeResult {
	if q.UnitType != other.UnitType {
		dropped := other
		return MergeResult{Quantity: q, Merged: false, Dropped: &dropped}
	}

	return MergeResult{
		Quantity: NormalizedQuantity{
			Value:            q.Value + other.Value,
			Unit:             q.Unit,
			UnitType:         q.UnitType,
			OriginalQuantity: q.OriginalQuantity + " + " + other.OriginalQuantity,
			OriginalUnit:     q.Unit,
		},
		Merged: true,
	}
}

// Scale returns a copy with the value multiplied by factor
func (q NormalizedQuantity) Scale(factor float64) NormalizedQuantity {
	scaled := q
	scaled.Value = q.Value * factor
	return scaled
}

// ToDisplayString renders the quantity at a human scale and returns the
// number and unit text separately.
func (q NormalizedQuantity) ToDisplayString() (string, string) {
	switch q.UnitType {
	case UnitVolume:
		switch {
		case q.Value >= 1000:
			return trimDecimal(fmt.Sprintf("%.1f", q.Value/1000)), "L"
		case q.Value >= 100:
			return trimDecimal(fmt.Sprintf("%.1f", q.Value/100)), "dl"
		default:
			return fmt.Sprintf("%.0f", q.Value), "ml"
		}

	case UnitWeight:
		if q.Value >= 1000 {
			return trimDecimal(fmt.Sprintf("%.2f", q.Value/1000)), "kg"
		}
		return fmt.Sprintf("%.0f", q.Value), "g"

	case UnitCount:
		if q.Value == math.Trunc(q.Value) {
			return strconv.FormatFloat(q.Value, 'f', 0, 64), q.OriginalUnit
		}
		return fmt.Sprintf("%.1f", q.Value), q.OriginalUnit

	default:
		return formatNumber(q.Value), q.OriginalUnit
	}
}

// String renders the quantity as "amount unit"
func (q NormalizedQuantity) String() string {
	amount, unit := q.ToDisplayString()
	return strings.TrimSpace(amount + " " + unit)
}

// trimDecimal removes trailing zeros and a dangling decimal point
func trimDecimal(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
