package orderview

import (
	"strings"

	"github.com/google/uuid"
)

// newID generates synthetic ids for aggregates and tickets that have no
// backing record yet. Replaced in tests.
var newID = uuid.NewString

// Aggregation is an insertion-ordered map of merge key to aggregate line.
// Keys are kept in the order they were first seen.
type Aggregation struct {
	keys  []string
	lines map[string]*AggregatedLine
}

// Aggregate folds raw lines into aggregates keyed by MergeKey, in input
// order. combos is the lookup built by ResolveCombos and may be nil.
func Aggregate(lines []RawOrderLine, combos map[string]ComboDescriptor) *Aggregation {
	a := &Aggregation{lines: make(map[string]*AggregatedLine, len(lines))}
	for _, line := range lines {
		a.add(line, combos)
	}
	return a
}

func (a *Aggregation) add(line RawOrderLine, combos map[string]ComboDescriptor) {
	key := MergeKey(line)
	status := line.Status.orDefault()

	agg, ok := a.lines[key]
	if !ok {
		agg = newAggregate(key, line, combos)
		a.keys = append(a.keys, key)
		a.lines[key] = agg
	} else {
		agg.TotalQuantity += line.Quantity
		agg.StatusBucket.add(status, line.Quantity)
		if line.ID != "" {
			agg.SourceLineIDs.append(status, line.ID)
			if agg.BackingID == "" {
				agg.BackingID = line.ID
			}
		}
	}

	agg.Status = resolveStatus(agg.StatusBucket, agg.Status)
}

func newAggregate(key string, line RawOrderLine, combos map[string]ComboDescriptor) *AggregatedLine {
	status := line.Status.orDefault()
	agg := &AggregatedLine{
		ID:            line.ID,
		BackingID:     line.ID,
		MergeKey:      key,
		Name:          line.Name,
		UnitPrice:     line.UnitPrice,
		TotalQuantity: line.Quantity,
		Status:        status,
		SourceLineIDs: SourceIDs{}.clone(),
		Toppings:      append([]string{}, line.Toppings...),
		IsTopping:     line.IsTopping,
		ParentItemID:  line.ParentItemID,
		ComboID:       line.ComboID,
		Notes:         strings.TrimSpace(line.Notes),
	}
	if agg.ID == "" {
		agg.ID = newID()
	}
	agg.StatusBucket.add(status, line.Quantity)
	if line.ID != "" {
		agg.SourceLineIDs.append(status, line.ID)
	}
	if line.ComboID != "" {
		if combo, ok := combos[line.ComboID]; ok {
			price := combo.ComboPrice
			agg.ComboName = combo.ComboName
			agg.ComboPrice = &price
		}
	}
	return agg
}

// resolveStatus picks the first status, in priority order, that still has
// units. One pending unit outranks any number of served ones. If every
// bucket is empty the current status is kept.
func resolveStatus(b StatusBuckets, current Status) Status {
	for _, s := range statusPriority {
		if b.Get(s) > 0 {
			return s
		}
	}
	return current
}

// Len returns the number of distinct merge keys.
func (a *Aggregation) Len() int {
	return len(a.keys)
}

// Keys returns the merge keys in first-seen order.
func (a *Aggregation) Keys() []string {
	return append([]string(nil), a.keys...)
}

// Get returns a copy of the aggregate for key.
func (a *Aggregation) Get(key string) (AggregatedLine, bool) {
	agg, ok := a.lines[key]
	if !ok {
		return AggregatedLine{}, false
	}
	return agg.snapshot(), true
}

// Lines returns copies of all aggregates in first-seen order.
func (a *Aggregation) Lines() []AggregatedLine {
	out := make([]AggregatedLine, 0, len(a.keys))
	for _, key := range a.keys {
		out = append(out, a.lines[key].snapshot())
	}
	return out
}

// snapshot copies the slices so callers never share state with the builder.
func (a *AggregatedLine) snapshot() AggregatedLine {
	out := *a
	out.Toppings = append([]string{}, a.Toppings...)
	out.SourceLineIDs = a.SourceLineIDs.clone()
	if a.AttachedToppings != nil {
		out.AttachedToppings = make([]AggregatedLine, len(a.AttachedToppings))
		for i := range a.AttachedToppings {
			out.AttachedToppings[i] = a.AttachedToppings[i].snapshot()
		}
	}
	if a.ComboPrice != nil {
		price := *a.ComboPrice
		out.ComboPrice = &price
	}
	return out
}
