package database

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func TestNumericRoundTrip(t *testing.T) {
	n := NumericFromDecimal(decimal.RequireFromString("12500.5"))
	if !n.Valid {
		t.Fatal("expected valid numeric")
	}
	got := DecimalFromNumeric(n)
	if !got.Equal(decimal.RequireFromString("12500.50")) {
		t.Errorf("got %s, want 12500.50", got)
	}
}

func TestDecimalFromNullNumeric(t *testing.T) {
	if got := DecimalFromNumeric(pgtype.Numeric{}); !got.IsZero() {
		t.Errorf("got %s, want 0", got)
	}
}
