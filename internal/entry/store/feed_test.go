package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/moneyballs/internal/entry"
)

func TestDecodeEvent(t *testing.T) {
	id := uuid.MustParse("6f1c1b1e-3f5d-4c55-9a57-0b7f6f4c2a10")

	type testCase struct {
		name    string
		payload string
		check   func(t *testing.T, ev entry.Event)
		wantErr bool
	}

	tests := []testCase{
		{
			name:    "Insert",
			payload: `{"type":"INSERT","new":{"id":"6f1c1b1e-3f5d-4c55-9a57-0b7f6f4c2a10","name":"Salary","amount":4999.99,"paid":false,"order":1,"created_at":"2026-01-01T00:00:00Z"}}`,
			check: func(t *testing.T, ev entry.Event) {
				assert.Equal(t, entry.EventInsert, ev.Type)
				assert.Equal(t, id, ev.ID)
				require.NotNil(t, ev.Record)
				assert.Equal(t, "Salary", ev.Record.Name)
				assert.True(t, ev.Record.Amount.Valid)
				assert.Equal(t, "4999.99", ev.Record.Amount.Decimal.String())
				assert.Equal(t, 1, ev.Record.Order)
			},
		},
		{
			name:    "InsertNullAmount",
			payload: `{"type":"INSERT","new":{"id":"6f1c1b1e-3f5d-4c55-9a57-0b7f6f4c2a10","name":"Unknown","amount":null,"paid":false,"order":2}}`,
			check: func(t *testing.T, ev entry.Event) {
				require.NotNil(t, ev.Record)
				assert.False(t, ev.Record.Amount.Valid)
			},
		},
		{
			name:    "UpdateChangedColumnsOnly",
			payload: `{"type":"UPDATE","new":{"paid":true,"id":"6f1c1b1e-3f5d-4c55-9a57-0b7f6f4c2a10"}}`,
			check: func(t *testing.T, ev entry.Event) {
				assert.Equal(t, entry.EventUpdate, ev.Type)
				assert.Equal(t, id, ev.ID)
				require.NotNil(t, ev.Patch.Paid)
				assert.True(t, *ev.Patch.Paid)
				assert.Nil(t, ev.Patch.Name)
				assert.Nil(t, ev.Patch.Amount)
				assert.Nil(t, ev.Patch.Order)
			},
		},
		{
			name:    "Delete",
			payload: `{"type":"DELETE","old":{"id":"6f1c1b1e-3f5d-4c55-9a57-0b7f6f4c2a10"}}`,
			check: func(t *testing.T, ev entry.Event) {
				assert.Equal(t, entry.EventDelete, ev.Type)
				assert.Equal(t, id, ev.ID)
			},
		},
		{name: "DeleteWithoutOld", payload: `{"type":"DELETE"}`, wantErr: true},
		{name: "UnknownType", payload: `{"type":"TRUNCATE"}`, wantErr: true},
		{name: "NotJSON", payload: `not json`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := decodeEvent([]byte(tt.payload))

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			tt.check(t, ev)
		})
	}
}
