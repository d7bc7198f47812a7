package orderview

// ProjectReady lists every raw line whose status is completed as a ready
// ticket. Lines are not merged: each qualifying line gets its own ticket.
//
// Tickets report TotalQuantity as 0 and mirror the line quantity into both
// CompletedQuantity and ServedQuantity. The kitchen ready-list reads them
// that way today.
func ProjectReady(order Order) []ReadyTicket {
	tickets := make([]ReadyTicket, 0)
	for _, line := range order.Lines {
		if line.Status != StatusCompleted {
			continue
		}

		id := line.ID
		if id == "" {
			id = newID()
		}
		ts := line.Timestamp
		if ts.IsZero() {
			ts = order.Timestamp
		}

		tickets = append(tickets, ReadyTicket{
			ID:                id,
			ItemName:          line.Name,
			TotalQuantity:     0,
			CompletedQuantity: line.Quantity,
			ServedQuantity:    line.Quantity,
			Table:             order.Table,
			Timestamp:         ts,
			Notes:             line.Notes,
		})
	}
	return tickets
}
