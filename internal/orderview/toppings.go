package orderview

// AttachToppings nests topping aggregates under their parent dish.
//
// A topping is an aggregate with IsTopping set and a ParentItemID. Every
// other aggregate is a candidate parent, looked up by its backing id (or its
// synthetic id when it has none). Toppings are appended to the parent's
// AttachedToppings in processing order. A topping whose parent cannot be
// found is dropped from the result.
//
// The returned slice holds only candidates, in their original order.
// lines is not modified.
func AttachToppings(lines []AggregatedLine) []AggregatedLine {
	out := make([]AggregatedLine, 0, len(lines))
	byID := make(map[string]int, len(lines))
	var toppings []AggregatedLine

	for _, line := range lines {
		if line.IsTopping && line.ParentItemID != "" {
			toppings = append(toppings, line)
			continue
		}
		byID[line.lookupID()] = len(out)
		out = append(out, line.snapshot())
	}

	for _, topping := range toppings {
		idx, ok := byID[topping.ParentItemID]
		if !ok {
			continue
		}
		out[idx].AttachedToppings = append(out[idx].AttachedToppings, topping.snapshot())
	}

	return out
}

// BuildCart runs the full cart pipeline over a resolved order: combo
// lookup, aggregation, then topping attachment.
func BuildCart(order Order) []AggregatedLine {
	combos := ResolveCombos(order.Combos)
	return AttachToppings(Aggregate(order.Lines, combos).Lines())
}
