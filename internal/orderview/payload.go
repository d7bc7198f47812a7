package orderview

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrMalformedPayload is returned by ParseOrder when the body is not a single
// JSON object or array. Missing or mistyped fields never produce an error.
var ErrMalformedPayload = errors.New("malformed order payload")

// UnknownItemName is the display name used when a line carries none.
const UnknownItemName = "Unknown item"

// Field precedence table. The order backend has shipped several names for
// the same field; for each field the first key holding a usable value wins.
// Dotted keys walk into nested objects.
var (
	orderItemKeys  = []string{"items", "orderItems", "order_items", "lines", "details"}
	orderComboKeys = []string{"combos", "comboSummary", "combo_summary", "orderCombos"}
	orderTableKeys = []string{"tableNumber", "table_number", "tableName", "table"}
	timestampKeys  = []string{"updatedAt", "updated_at", "createdAt", "created_at"}

	lineIDKeys        = []string{"id", "_id", "orderItemId", "order_item_id"}
	inventoryIDKeys   = []string{"inventoryItemId", "inventory_item_id"}
	itemIDKeys        = []string{"itemId", "item_id", "productId", "product_id"}
	itemRelationKeys  = []string{"item.id", "product.id"}
	nameKeys          = []string{"name", "itemName", "item_name", "productName", "item.name", "product.name"}
	priceKeys         = []string{"price", "unitPrice", "unit_price", "basePrice", "item.price"}
	quantityKeys      = []string{"quantity", "qty"}
	statusKeys        = []string{"status", "itemStatus", "item_status"}
	notesKeys         = []string{"notes", "note"}
	toppingKeys       = []string{"toppings", "modifiers"}
	isToppingKeys     = []string{"isTopping", "is_topping"}
	parentItemIDKeys  = []string{"parentItemId", "parent_item_id", "parentId"}
	lineComboIDKeys   = []string{"comboId", "combo_id"}
	comboIDKeys       = []string{"comboId", "combo_id", "id"}
	comboNameKeys     = []string{"comboName", "combo_name", "name"}
	comboPriceKeys    = []string{"comboPrice", "combo_price", "price"}
	toppingObjectKeys = []string{"name", "toppingName", "modifierName"}
)

// ParseOrder decodes a raw order payload. A JSON object is read as an order;
// a bare JSON array is read as its item list.
func ParseOrder(data []byte) (Order, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return Order{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return Order{}, fmt.Errorf("%w: trailing data after JSON value", ErrMalformedPayload)
	}

	switch t := v.(type) {
	case map[string]any:
		return OrderFromMap(t), nil
	case []any:
		return Order{Lines: linesFrom(t)}, nil
	}
	return Order{}, ErrMalformedPayload
}

// OrderFromMap resolves an already decoded order object.
func OrderFromMap(m map[string]any) Order {
	order := Order{
		Table:     stringField(m, orderTableKeys),
		Timestamp: timeField(m, timestampKeys),
		Lines:     linesFrom(listField(m, orderItemKeys)),
	}
	for _, raw := range listField(m, orderComboKeys) {
		if cm, ok := raw.(map[string]any); ok {
			order.Combos = append(order.Combos, comboFrom(cm))
		}
	}
	return order
}

// LineFromMap resolves one order-item object.
func LineFromMap(m map[string]any) RawOrderLine {
	name := stringField(m, nameKeys)
	if name == "" {
		name = UnknownItemName
	}
	return RawOrderLine{
		ID:              stringField(m, lineIDKeys),
		InventoryItemID: stringField(m, inventoryIDKeys),
		ItemID:          stringField(m, itemIDKeys),
		ItemRelationID:  stringField(m, itemRelationKeys),
		Name:            name,
		UnitPrice:       decimalField(m, priceKeys),
		Quantity:        intField(m, quantityKeys),
		Status:          ParseStatus(stringField(m, statusKeys)),
		Notes:           stringField(m, notesKeys),
		Toppings:        toppingsField(m, toppingKeys),
		IsTopping:       boolField(m, isToppingKeys),
		ParentItemID:    stringField(m, parentItemIDKeys),
		ComboID:         stringField(m, lineComboIDKeys),
		Timestamp:       timeField(m, timestampKeys),
	}
}

// ParseStatus normalizes a status label. Unknown labels read as absent.
func ParseStatus(s string) Status {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if st.Valid() {
		return st
	}
	return ""
}

func linesFrom(items []any) []RawOrderLine {
	lines := make([]RawOrderLine, 0, len(items))
	for _, raw := range items {
		if m, ok := raw.(map[string]any); ok {
			lines = append(lines, LineFromMap(m))
		}
	}
	return lines
}

func comboFrom(m map[string]any) ComboDescriptor {
	return ComboDescriptor{
		ComboID:    stringField(m, comboIDKeys),
		ComboName:  stringField(m, comboNameKeys),
		ComboPrice: decimalField(m, comboPriceKeys),
	}
}

// --- Field resolution ---

func lookup(m map[string]any, path string) (any, bool) {
	var cur any = m
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[part]
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}

func stringField(m map[string]any, keys []string) string {
	for _, k := range keys {
		v, ok := lookup(m, k)
		if !ok {
			continue
		}
		if s, ok := toString(v); ok && s != "" {
			return s
		}
	}
	return ""
}

func decimalField(m map[string]any, keys []string) decimal.Decimal {
	for _, k := range keys {
		v, ok := lookup(m, k)
		if !ok {
			continue
		}
		if d, ok := toDecimal(v); ok {
			return d
		}
	}
	return decimal.Zero
}

func intField(m map[string]any, keys []string) int {
	for _, k := range keys {
		v, ok := lookup(m, k)
		if !ok {
			continue
		}
		if d, ok := toDecimal(v); ok && inIntRange(d) {
			return int(d.IntPart())
		}
	}
	return 0
}

var (
	minQuantity = decimal.NewFromInt(math.MinInt32)
	maxQuantity = decimal.NewFromInt(math.MaxInt32)
)

// inIntRange reports whether d fits a stored quantity. Larger values are
// treated as mistyped.
func inIntRange(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(minQuantity) && d.LessThanOrEqual(maxQuantity)
}

func boolField(m map[string]any, keys []string) bool {
	for _, k := range keys {
		v, ok := lookup(m, k)
		if !ok {
			continue
		}
		if b, ok := toBool(v); ok {
			return b
		}
	}
	return false
}

func timeField(m map[string]any, keys []string) time.Time {
	for _, k := range keys {
		v, ok := lookup(m, k)
		if !ok {
			continue
		}
		if t, ok := toTime(v); ok {
			return t
		}
	}
	return time.Time{}
}

func listField(m map[string]any, keys []string) []any {
	for _, k := range keys {
		v, ok := lookup(m, k)
		if !ok {
			continue
		}
		if list, ok := v.([]any); ok {
			return list
		}
	}
	return nil
}

func toppingsField(m map[string]any, keys []string) []string {
	list := listField(m, keys)
	toppings := make([]string, 0, len(list))
	for _, raw := range list {
		var name string
		switch t := raw.(type) {
		case map[string]any:
			name = stringField(t, toppingObjectKeys)
		default:
			name, _ = toString(t)
		}
		if name != "" {
			toppings = append(toppings, name)
		}
	}
	return toppings
}

// --- Coercion ---

func toString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	}
	return "", false
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	}
	return decimal.Zero, false
}

func toBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no", "":
			return false, true
		}
		return false, false
	}
	if d, ok := toDecimal(v); ok {
		return !d.IsZero(), true
	}
	return false, false
}

func toTime(v any) (time.Time, bool) {
	if s, ok := v.(string); ok {
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
		return t, err == nil
	}
	if d, ok := toDecimal(v); ok {
		return time.UnixMilli(d.IntPart()).UTC(), true
	}
	return time.Time{}, false
}
