package entry

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/moneyballs/internal/ledger"
)

type entryResponse struct {
	ID             uuid.UUID           `json:"id"`
	Name           string              `json:"name"`
	Amount         decimal.NullDecimal `json:"amount"`
	Paid           bool                `json:"paid"`
	Order          int                 `json:"order"`
	RunningBalance decimal.Decimal     `json:"running_balance"`
}

type ledgerResponse struct {
	Loaded      bool            `json:"loaded"`
	Balance     decimal.Decimal `json:"balance"`
	BalancePaid decimal.Decimal `json:"balance_paid"`
	Entries     []entryResponse `json:"entries"`
}

func toResponse(snap ledger.Snapshot) ledgerResponse {
	resp := ledgerResponse{
		Loaded:      snap.Loaded,
		Balance:     snap.Balance,
		BalancePaid: snap.BalancePaid,
		Entries:     make([]entryResponse, len(snap.Entries)),
	}

	for i, e := range snap.Entries {
		resp.Entries[i] = entryResponse{
			ID:             e.ID,
			Name:           e.Name,
			Amount:         e.Amount,
			Paid:           e.Paid,
			Order:          e.Order,
			RunningBalance: snap.RunningBalances[i],
		}
	}

	return resp
}

type importResponse struct {
	Imported int `json:"imported"`
	Failed   int `json:"failed"`
}
