package service

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/kiwari-pos/cartview/internal/database"
	"github.com/kiwari-pos/cartview/internal/orderview"
)

// orderToView maps stored rows onto the raw order the view engine consumes.
func orderToView(order database.Order, items []database.OrderItem, combos []database.OrderCombo) orderview.Order {
	view := orderview.Order{
		Table:     order.TableNumber.String,
		Timestamp: order.CreatedAt.Time,
		Lines:     make([]orderview.RawOrderLine, 0, len(items)),
		Combos:    make([]orderview.ComboDescriptor, 0, len(combos)),
	}
	for _, item := range items {
		view.Lines = append(view.Lines, itemToLine(item))
	}
	for _, c := range combos {
		view.Combos = append(view.Combos, orderview.ComboDescriptor{
			ComboID:    c.ComboRef,
			ComboName:  c.Name,
			ComboPrice: database.DecimalFromNumeric(c.Price),
		})
	}
	return view
}

func itemToLine(item database.OrderItem) orderview.RawOrderLine {
	return orderview.RawOrderLine{
		ID:              item.ID.String(),
		InventoryItemID: item.InventoryItemID.String,
		ItemID:          item.ItemID.String,
		ItemRelationID:  item.ItemRelationID.String,
		Name:            nameOrUnknown(item.Name),
		UnitPrice:       database.DecimalFromNumeric(item.UnitPrice),
		Quantity:        int(item.Quantity),
		Status:          orderview.ParseStatus(item.Status),
		Notes:           item.Notes.String,
		Toppings:        append([]string(nil), item.Toppings...),
		IsTopping:       item.IsTopping,
		ParentItemID:    item.ParentItemID.String,
		ComboID:         item.ComboRef.String,
		Timestamp:       item.CreatedAt.Time,
	}
}

// groupByOrder rebuilds one raw order per stored order, keeping row order.
func groupByOrder(rows []database.ListOrderItemsByOutletAndStatusRow) []orderview.Order {
	var orders []orderview.Order
	index := map[uuid.UUID]int{}
	for _, row := range rows {
		i, ok := index[row.OrderID]
		if !ok {
			i = len(orders)
			index[row.OrderID] = i
			orders = append(orders, orderview.Order{
				Table:     row.OrderTableNumber.String,
				Timestamp: row.OrderCreatedAt.Time,
			})
		}
		orders[i].Lines = append(orders[i].Lines, itemToLine(row.OrderItem))
	}
	return orders
}

func nameOrUnknown(t pgtype.Text) string {
	if t.Valid && t.String != "" {
		return t.String
	}
	return orderview.UnknownItemName
}
