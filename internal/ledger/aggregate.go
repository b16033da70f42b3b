package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/moneyballs/internal/entry"
)

// Balance sums the amount of every entry.
func Balance(entries []*entry.Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.AmountOrZero())
	}

	return total
}

// BalancePaid sums the amount of the entries marked as paid.
func BalancePaid(entries []*entry.Entry) decimal.Decimal {
	total := decimal.Zero

	for _, e := range entries {
		if !e.Paid {
			continue
		}

		total = total.Add(e.AmountOrZero())
	}

	return total
}

// RunningBalances returns the prefix sums of the amounts in ledger order,
// one per entry.
func RunningBalances(entries []*entry.Entry) []decimal.Decimal {
	balances := make([]decimal.Decimal, len(entries))
	current := decimal.Zero

	for i, e := range entries {
		current = current.Add(e.AmountOrZero())
		balances[i] = current
	}

	return balances
}
