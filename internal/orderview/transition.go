package orderview

import "errors"

var (
	ErrUnknownStatus       = errors.New("unknown status")
	ErrNothingToTransition = errors.New("no source lines in status")
)

// PlanTransition returns the backing record ids to target when moving an
// aggregate's units out of from. count limits how many records are picked,
// oldest first; count <= 0 picks all of them.
//
// It only reads the aggregate's source buckets. Whether the move itself is
// allowed is the caller's decision.
func PlanTransition(line AggregatedLine, from Status, count int) ([]string, error) {
	if !from.Valid() {
		return nil, ErrUnknownStatus
	}
	ids := line.SourceLineIDs.Get(from)
	if len(ids) == 0 {
		return nil, ErrNothingToTransition
	}
	if count > 0 && count < len(ids) {
		ids = ids[:count]
	}
	return append([]string(nil), ids...), nil
}

// FindLine looks up an aggregate by id or backing id, including toppings
// attached to a parent.
func FindLine(lines []AggregatedLine, id string) (AggregatedLine, bool) {
	for _, line := range lines {
		if line.ID == id || (line.BackingID != "" && line.BackingID == id) {
			return line, true
		}
		if found, ok := FindLine(line.AttachedToppings, id); ok {
			return found, true
		}
	}
	return AggregatedLine{}, false
}
