// Package orderview turns the flat order-item records returned by the order
// backend into the consolidated views used by the POS cart and the kitchen
// display.
//
// Everything in this package is a pure function over its arguments: no I/O,
// no shared state, safe to call from concurrent requests.
package orderview

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the fulfillment state of an order item.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusCompleted Status = "completed"
	StatusServed    Status = "served"
)

// statusPriority is the order in which buckets are scanned to pick the
// overall status of an aggregate. The most urgent outstanding work wins.
var statusPriority = [...]Status{StatusPending, StatusPreparing, StatusCompleted, StatusServed}

// Statuses returns the known statuses in priority order.
func Statuses() []Status {
	return append([]Status(nil), statusPriority[:]...)
}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusCompleted, StatusServed:
		return true
	}
	return false
}

// orDefault maps an absent or unknown status to pending.
func (s Status) orDefault() Status {
	if !s.Valid() {
		return StatusPending
	}
	return s
}

// RawOrderLine is one persisted order-item record, already normalized by
// the payload adapter. Zero values mean "absent".
type RawOrderLine struct {
	ID              string
	InventoryItemID string
	ItemID          string
	ItemRelationID  string
	Name            string
	UnitPrice       decimal.Decimal
	Quantity        int
	Status          Status
	Notes           string
	Toppings        []string
	IsTopping       bool
	ParentItemID    string
	ComboID         string
	Timestamp       time.Time
}

// ProductIdentity resolves the product this line refers to:
// inventory item id, then item id, then the nested item relation id.
// Returns "" when none is known.
func (l RawOrderLine) ProductIdentity() string {
	switch {
	case l.InventoryItemID != "":
		return l.InventoryItemID
	case l.ItemID != "":
		return l.ItemID
	default:
		return l.ItemRelationID
	}
}

// ComboDescriptor is the display name and price of a combo.
type ComboDescriptor struct {
	ComboID    string          `json:"combo_id"`
	ComboName  string          `json:"combo_name"`
	ComboPrice decimal.Decimal `json:"combo_price"`
}

// Order is a raw order payload after field resolution.
type Order struct {
	Table     string
	Timestamp time.Time
	Lines     []RawOrderLine
	Combos    []ComboDescriptor
}

// StatusBuckets counts units per fulfillment state.
type StatusBuckets struct {
	Pending   int `json:"pending"`
	Preparing int `json:"preparing"`
	Completed int `json:"completed"`
	Served    int `json:"served"`
}

// Get returns the quantity in the bucket for s. Unknown statuses read as 0.
func (b StatusBuckets) Get(s Status) int {
	switch s {
	case StatusPending:
		return b.Pending
	case StatusPreparing:
		return b.Preparing
	case StatusCompleted:
		return b.Completed
	case StatusServed:
		return b.Served
	}
	return 0
}

func (b *StatusBuckets) add(s Status, qty int) {
	switch s {
	case StatusPending:
		b.Pending += qty
	case StatusPreparing:
		b.Preparing += qty
	case StatusCompleted:
		b.Completed += qty
	case StatusServed:
		b.Served += qty
	}
}

// Total is the sum of all buckets.
func (b StatusBuckets) Total() int {
	return b.Pending + b.Preparing + b.Completed + b.Served
}

// SourceIDs lists, per fulfillment state, the backing record ids that
// contributed units to that state.
type SourceIDs struct {
	Pending   []string `json:"pending"`
	Preparing []string `json:"preparing"`
	Completed []string `json:"completed"`
	Served    []string `json:"served"`
}

// Get returns the ids recorded for s.
func (s SourceIDs) Get(st Status) []string {
	switch st {
	case StatusPending:
		return s.Pending
	case StatusPreparing:
		return s.Preparing
	case StatusCompleted:
		return s.Completed
	case StatusServed:
		return s.Served
	}
	return nil
}

func (s *SourceIDs) append(st Status, id string) {
	switch st {
	case StatusPending:
		s.Pending = append(s.Pending, id)
	case StatusPreparing:
		s.Preparing = append(s.Preparing, id)
	case StatusCompleted:
		s.Completed = append(s.Completed, id)
	case StatusServed:
		s.Served = append(s.Served, id)
	}
}

func (s SourceIDs) clone() SourceIDs {
	return SourceIDs{
		Pending:   append([]string{}, s.Pending...),
		Preparing: append([]string{}, s.Preparing...),
		Completed: append([]string{}, s.Completed...),
		Served:    append([]string{}, s.Served...),
	}
}

// AggregatedLine is one or more raw lines sharing a merge key.
type AggregatedLine struct {
	ID               string           `json:"id"`
	BackingID        string           `json:"backing_id,omitempty"`
	MergeKey         string           `json:"merge_key"`
	Name             string           `json:"name"`
	UnitPrice        decimal.Decimal  `json:"unit_price"`
	TotalQuantity    int              `json:"total_quantity"`
	Status           Status           `json:"status"`
	StatusBucket     StatusBuckets    `json:"status_bucket"`
	SourceLineIDs    SourceIDs        `json:"source_line_ids_by_status"`
	Toppings         []string         `json:"toppings"`
	IsTopping        bool             `json:"is_topping"`
	ParentItemID     string           `json:"parent_item_id,omitempty"`
	AttachedToppings []AggregatedLine `json:"attached_toppings,omitempty"`
	ComboID          string           `json:"combo_id,omitempty"`
	ComboName        string           `json:"combo_name,omitempty"`
	ComboPrice       *decimal.Decimal `json:"combo_price,omitempty"`
	Notes            string           `json:"notes"`
}

// lookupID is the id other lines use to reference this aggregate: the real
// backing id when one is known, else the synthetic id.
func (a AggregatedLine) lookupID() string {
	if a.BackingID != "" {
		return a.BackingID
	}
	return a.ID
}

// ReadyTicket is one completed raw line on the kitchen ready-to-serve list.
type ReadyTicket struct {
	ID                string    `json:"id"`
	ItemName          string    `json:"item_name"`
	TotalQuantity     int       `json:"total_quantity"`
	CompletedQuantity int       `json:"completed_quantity"`
	ServedQuantity    int       `json:"served_quantity"`
	Table             string    `json:"table"`
	Timestamp         time.Time `json:"timestamp"`
	Notes             string    `json:"notes"`
}
