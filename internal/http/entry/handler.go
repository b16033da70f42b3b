package entry

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/moneyballs/internal/entry"
	"github.com/MrJamesThe3rd/moneyballs/internal/importer"
	"github.com/MrJamesThe3rd/moneyballs/internal/ledger"
)

type Handler struct {
	ledger    *ledger.Store
	importSvc *importer.Service
}

func NewHandler(l *ledger.Store, importSvc *importer.Service) *Handler {
	return &Handler{ledger: l, importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/reload", h.reload)
	r.Post("/import", h.importCSV)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))

		r.Post("/", h.create)
		r.Post("/sort", h.sort)
		r.Patch("/{id}", h.update)
	})

	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toResponse(h.ledger.Snapshot()))
}

type createEntryRequest struct {
	Name   string           `json:"name"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.ledger.AddEntry(r.Context(), entry.Form{Name: req.Name, Amount: req.Amount}); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

type updateEntryRequest struct {
	Name   *string          `json:"name,omitempty"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
	Paid   *bool            `json:"paid,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	patch := entry.Patch{Name: req.Name, Amount: req.Amount, Paid: req.Paid}
	if patch.IsEmpty() {
		http.Error(w, "nothing to update", http.StatusBadRequest)
		return
	}

	if err := h.ledger.UpdateEntry(r.Context(), id, patch); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.ledger.DeleteEntry(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type sortRequest struct {
	OldIndex int `json:"old_index"`
	NewIndex int `json:"new_index"`
}

func (h *Handler) sort(w http.ResponseWriter, r *http.Request) {
	var req sortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.ledger.SortEnd(r.Context(), req.OldIndex, req.NewIndex); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) reload(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.Load(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// importCSV adds one entry per row of the uploaded bank export. Rows that
// fail to add are counted and the rest carry on.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	forms, err := h.importSvc.Import(importer.Bank(r.FormValue("bank")), file)
	if err != nil {
		http.Error(w, "failed to parse file: "+err.Error(), http.StatusBadRequest)
		return
	}

	var resp importResponse

	for _, f := range forms {
		if err := h.ledger.AddEntry(r.Context(), f); err != nil {
			if errors.Is(err, ledger.ErrClosed) {
				writeError(w, err)
				return
			}

			resp.Failed++

			continue
		}

		resp.Imported++
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entry.ErrNotFound):
		http.Error(w, "entry not found", http.StatusNotFound)
	case errors.Is(err, ledger.ErrIndexOutOfRange):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ledger.ErrClosed):
		http.Error(w, "ledger closed", http.StatusServiceUnavailable)
	case errors.Is(err, ledger.ErrLoadFailed), errors.Is(err, ledger.ErrMutationFailed):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
