package features

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/cucumber/godog"
	"github.com/kiwari-pos/cartview/internal/orderview"
	"github.com/shopspring/decimal"
)

type cartTestContext struct {
	order   orderview.Order
	lines   []orderview.AggregatedLine
	tickets []orderview.ReadyTicket
}

func (c *cartTestContext) reset() {
	c.order = orderview.Order{}
	c.lines = nil
	c.tickets = nil
}

func (c *cartTestContext) line(n int) (orderview.AggregatedLine, error) {
	if n < 1 || n > len(c.lines) {
		return orderview.AggregatedLine{}, fmt.Errorf("cart has %d lines, no line %d", len(c.lines), n)
	}
	return c.lines[n-1], nil
}

// Given steps

func (c *cartTestContext) anOrderWithItems(table *godog.Table) error {
	if len(table.Rows) == 0 {
		return errors.New("empty table")
	}
	header := table.Rows[0].Cells
	items := make([]map[string]any, 0, len(table.Rows)-1)
	for _, row := range table.Rows[1:] {
		item := make(map[string]any, len(header))
		for i, cell := range row.Cells {
			item[header[i].Value] = cell.Value
		}
		items = append(items, item)
	}

	raw, err := json.Marshal(map[string]any{"items": items})
	if err != nil {
		return err
	}
	return c.anOrderPayload(&godog.DocString{Content: string(raw)})
}

func (c *cartTestContext) anOrderPayload(doc *godog.DocString) error {
	order, err := orderview.ParseOrder([]byte(doc.Content))
	if err != nil {
		return err
	}
	c.order = order
	return nil
}

// When steps

func (c *cartTestContext) iBuildTheCartView() error {
	c.lines = orderview.BuildCart(c.order)
	return nil
}

func (c *cartTestContext) iProjectTheReadyList() error {
	c.tickets = orderview.ProjectReady(c.order)
	return nil
}

// Then steps

func (c *cartTestContext) theCartHasLines(n int) error {
	if len(c.lines) != n {
		return fmt.Errorf("expected %d lines, got %d", n, len(c.lines))
	}
	return nil
}

func (c *cartTestContext) lineHasTotalQuantity(n, qty int) error {
	l, err := c.line(n)
	if err != nil {
		return err
	}
	if l.TotalQuantity != qty {
		return fmt.Errorf("expected total quantity %d, got %d", qty, l.TotalQuantity)
	}
	return nil
}

func (c *cartTestContext) lineHasStatus(n int, status string) error {
	l, err := c.line(n)
	if err != nil {
		return err
	}
	if string(l.Status) != status {
		return fmt.Errorf("expected status %q, got %q", status, l.Status)
	}
	return nil
}

func (c *cartTestContext) lineHasBuckets(n, pending, preparing, completed, served int) error {
	l, err := c.line(n)
	if err != nil {
		return err
	}
	want := orderview.StatusBuckets{Pending: pending, Preparing: preparing, Completed: completed, Served: served}
	if l.StatusBucket != want {
		return fmt.Errorf("expected buckets %+v, got %+v", want, l.StatusBucket)
	}
	if l.StatusBucket.Total() != l.TotalQuantity {
		return fmt.Errorf("buckets sum to %d, total quantity is %d", l.StatusBucket.Total(), l.TotalQuantity)
	}
	return nil
}

func (c *cartTestContext) lineHasComboPriced(n int, name string, price string) error {
	l, err := c.line(n)
	if err != nil {
		return err
	}
	if l.ComboName != name {
		return fmt.Errorf("expected combo %q, got %q", name, l.ComboName)
	}
	want, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	if l.ComboPrice == nil || !l.ComboPrice.Equal(want) {
		return fmt.Errorf("expected combo price %s, got %v", want, l.ComboPrice)
	}
	return nil
}

func (c *cartTestContext) lineHasAttachedToppings(n, count int) error {
	l, err := c.line(n)
	if err != nil {
		return err
	}
	if len(l.AttachedToppings) != count {
		return fmt.Errorf("expected %d attached toppings, got %d", count, len(l.AttachedToppings))
	}
	return nil
}

func (c *cartTestContext) theReadyListHasTickets(n int) error {
	if len(c.tickets) != n {
		return fmt.Errorf("expected %d tickets, got %d", n, len(c.tickets))
	}
	return nil
}

func (c *cartTestContext) ticketHasQuantities(n int, completed, served, total string) error {
	if n < 1 || n > len(c.tickets) {
		return fmt.Errorf("no ticket %d", n)
	}
	tk := c.tickets[n-1]
	got := []int{tk.CompletedQuantity, tk.ServedQuantity, tk.TotalQuantity}
	for i, s := range []string{completed, served, total} {
		want, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		if got[i] != want {
			return fmt.Errorf("expected completed/served/total %s/%s/%s, got %v", completed, served, total, got)
		}
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^an order with items:$`, tc.anOrderWithItems)
	ctx.Step(`^an order payload:$`, tc.anOrderPayload)

	ctx.Step(`^I build the cart view$`, tc.iBuildTheCartView)
	ctx.Step(`^I project the ready list$`, tc.iProjectTheReadyList)

	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^line (\d+) has total quantity (\d+)$`, tc.lineHasTotalQuantity)
	ctx.Step(`^line (\d+) has status "([^"]*)"$`, tc.lineHasStatus)
	ctx.Step(`^line (\d+) has buckets pending (\d+), preparing (\d+), completed (\d+), served (\d+)$`, tc.lineHasBuckets)
	ctx.Step(`^line (\d+) has combo "([^"]*)" priced (\d+)$`, tc.lineHasComboPriced)
	ctx.Step(`^line (\d+) has (\d+) attached toppings?$`, tc.lineHasAttachedToppings)
	ctx.Step(`^the ready list has (\d+) tickets?$`, tc.theReadyListHasTickets)
	ctx.Step(`^ticket (\d+) has completed (\d+), served (\d+), total (\d+)$`, tc.ticketHasQuantities)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"cart_view.feature"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
