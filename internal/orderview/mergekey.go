package orderview

import (
	"encoding/json"
	"slices"
	"strings"
)

// MergeKey identifies "the same product with the same customization":
// product identity, trimmed notes and the sorted topping list.
//
// When the product identity is unknown the key falls back to notes and
// toppings alone, so unidentified lines with identical customization merge.
func MergeKey(line RawOrderLine) string {
	toppings := slices.Clone(line.Toppings)
	if toppings == nil {
		toppings = []string{}
	}
	slices.Sort(toppings)

	// A []string always marshals.
	encoded, _ := json.Marshal(toppings)

	var b strings.Builder
	b.WriteString(line.ProductIdentity())
	b.WriteByte('|')
	b.WriteString(strings.TrimSpace(line.Notes))
	b.WriteByte('|')
	b.Write(encoded)
	return b.String()
}
