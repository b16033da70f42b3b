package view

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/moneyballs/internal/entry"
)

const dbTimeout = 5 * time.Second

// FormatAmount renders an amount with two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatEntryAmount renders an entry amount, leaving unknown amounts blank.
func FormatEntryAmount(e entry.Entry) string {
	if !e.Amount.Valid {
		return ""
	}

	return FormatAmount(e.Amount.Decimal)
}

// ParseAmount reads a user typed amount. Both "," and "." are accepted as the
// decimal separator; an empty string means no amount.
func ParseAmount(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return nil, err
	}

	return &d, nil
}

// DbCtx returns a context with a standard timeout for ledger commands.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
