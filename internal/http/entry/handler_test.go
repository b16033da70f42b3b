package entry_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/moneyballs/internal/entry"
	"github.com/MrJamesThe3rd/moneyballs/internal/entry/memory"
	entryhttp "github.com/MrJamesThe3rd/moneyballs/internal/http/entry"
	"github.com/MrJamesThe3rd/moneyballs/internal/importer"
	"github.com/MrJamesThe3rd/moneyballs/internal/ledger"
	"github.com/MrJamesThe3rd/moneyballs/internal/notify"
)

type entryBody struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Amount         *string `json:"amount"`
	Paid           bool    `json:"paid"`
	Order          int     `json:"order"`
	RunningBalance string  `json:"running_balance"`
}

type ledgerBody struct {
	Loaded      bool        `json:"loaded"`
	Balance     string      `json:"balance"`
	BalancePaid string      `json:"balance_paid"`
	Entries     []entryBody `json:"entries"`
}

func newRouter(t *testing.T, remote ledger.Remote) (http.Handler, *ledger.Store) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := ledger.New(remote, notify.NewLog(logger), ledger.Options{Ordering: true, Logger: logger})
	t.Cleanup(store.Close)

	r := chi.NewRouter()
	r.Route("/entries", entryhttp.NewHandler(store, importer.NewService()).Routes)

	return r, store
}

func loadedRouter(t *testing.T) (http.Handler, *ledger.Store) {
	t.Helper()

	r, store := newRouter(t, memory.New())
	require.NoError(t, store.Load(context.Background()))

	return r, store
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func list(t *testing.T, h http.Handler) ledgerBody {
	t.Helper()

	rec := do(t, h, http.MethodGet, "/entries/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body ledgerBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	return body
}

func TestHandler_CreateAndList(t *testing.T) {
	r, _ := loadedRouter(t)

	rec := do(t, r, http.MethodPost, "/entries/", `{"name":"Salary","amount":"100"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = do(t, r, http.MethodPost, "/entries/", `{"name":"Rent","amount":-40.5}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = do(t, r, http.MethodPost, "/entries/", `{"name":"Unknown"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	body := list(t, r)
	assert.True(t, body.Loaded)
	assert.Equal(t, "59.5", body.Balance)
	assert.Equal(t, "0", body.BalancePaid)
	require.Len(t, body.Entries, 3)

	assert.Equal(t, "Salary", body.Entries[0].Name)
	assert.Equal(t, 1, body.Entries[0].Order)
	assert.Equal(t, "100", body.Entries[0].RunningBalance)
	assert.Equal(t, "59.5", body.Entries[1].RunningBalance)
	require.NotNil(t, body.Entries[2].Amount)
	assert.Equal(t, "0", *body.Entries[2].Amount)
	assert.Equal(t, 3, body.Entries[2].Order)
}

func TestHandler_Update(t *testing.T) {
	r, store := loadedRouter(t)

	require.Equal(t, http.StatusAccepted, do(t, r, http.MethodPost, "/entries/", `{"name":"Rent","amount":"-50"}`).Code)
	id := store.Entries()[0].ID.String()

	type testCase struct {
		name string
		path string
		body string
		want int
	}

	tests := []testCase{
		{name: "InvalidID", path: "/entries/nope", body: `{"paid":true}`, want: http.StatusBadRequest},
		{name: "UnknownID", path: "/entries/00000000-0000-0000-0000-000000000009", body: `{"paid":true}`, want: http.StatusNotFound},
		{name: "EmptyPatch", path: "/entries/" + id, body: `{}`, want: http.StatusBadRequest},
		{name: "BadJSON", path: "/entries/" + id, body: `{`, want: http.StatusBadRequest},
		{name: "Paid", path: "/entries/" + id, body: `{"paid":true}`, want: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, do(t, r, http.MethodPatch, tt.path, tt.body).Code)
		})
	}

	body := list(t, r)
	require.Len(t, body.Entries, 1)
	assert.True(t, body.Entries[0].Paid)
	assert.Equal(t, "-50", body.BalancePaid)
}

func TestHandler_SortAndDelete(t *testing.T) {
	r, store := loadedRouter(t)

	for _, payload := range []string{`{"name":"A","amount":"1"}`, `{"name":"B","amount":"2"}`, `{"name":"C","amount":"3"}`} {
		require.Equal(t, http.StatusAccepted, do(t, r, http.MethodPost, "/entries/", payload).Code)
	}

	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/entries/sort", `{"old_index":7,"new_index":0}`).Code)
	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodPost, "/entries/sort", `{"old_index":2,"new_index":0}`).Code)

	body := list(t, r)
	require.Len(t, body.Entries, 3)
	assert.Equal(t, []string{"C", "A", "B"}, []string{body.Entries[0].Name, body.Entries[1].Name, body.Entries[2].Name})
	assert.Equal(t, []int{1, 2, 3}, []int{body.Entries[0].Order, body.Entries[1].Order, body.Entries[2].Order})

	id := store.Entries()[0].ID.String()
	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodDelete, "/entries/"+id, "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodDelete, "/entries/nope", "").Code)

	body = list(t, r)
	require.Len(t, body.Entries, 2)
	assert.Equal(t, "A", body.Entries[0].Name)
}

func TestHandler_Reload(t *testing.T) {
	remote := memory.New()
	r, _ := newRouter(t, remote)

	require.NoError(t, remote.Insert(context.Background(), &entry.Entry{Name: "Phone", Order: 1}))
	assert.False(t, list(t, r).Loaded)

	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodPost, "/entries/reload", "").Code)

	body := list(t, r)
	assert.True(t, body.Loaded)
	require.Len(t, body.Entries, 1)
	assert.Equal(t, "Phone", body.Entries[0].Name)
}

func TestHandler_Import(t *testing.T) {
	r, _ := loadedRouter(t)

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("bank", string(importer.BankCGD)))

	fw, err := mw.CreateFormFile("file", "export.csv")
	require.NoError(t, err)

	_, err = io.WriteString(fw, "Data mov.;Descrição;Montante\n30-01-2026;Rent;-500,00\n31-01-2026;Salary;1.200,00\n")
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/entries/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"imported":2,"failed":0}`, rec.Body.String())

	body := list(t, r)
	require.Len(t, body.Entries, 2)
	assert.Equal(t, "700", body.Balance)
}

func TestHandler_Errors(t *testing.T) {
	t.Run("RemoteFailure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		remote := ledger.NewMockRemote(ctrl)
		remote.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

		r, _ := newRouter(t, remote)

		assert.Equal(t, http.StatusBadGateway, do(t, r, http.MethodPost, "/entries/", `{"name":"Rent"}`).Code)
	})

	t.Run("Closed", func(t *testing.T) {
		r, store := loadedRouter(t)
		store.Close()

		assert.Equal(t, http.StatusServiceUnavailable, do(t, r, http.MethodPost, "/entries/", `{"name":"Rent"}`).Code)
	})

	t.Run("WrongContentType", func(t *testing.T) {
		r, _ := loadedRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/entries/", strings.NewReader(`{"name":"Rent"}`))
		req.Header.Set("Content-Type", "text/plain")

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})
}
