package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budgetly/internal/action"
	"github.com/MrJamesThe3rd/budgetly/internal/budget"
	"github.com/MrJamesThe3rd/budgetly/internal/export"
	budgetHttp "github.com/MrJamesThe3rd/budgetly/internal/http/budget"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes expects an {id} budget parameter on the mount path.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.metadata)
	r.Get("/download", h.download)
}

type transactionResponse struct {
	ID          uuid.UUID       `json:"id"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Type        budget.Type     `json:"type"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

type exportMetadataResponse struct {
	Range        budget.DateRange      `json:"range"`
	Transactions []transactionResponse `json:"transactions"`
	Income       decimal.Decimal       `json:"income"`
	Expense      decimal.Decimal       `json:"expense"`
	Summary      string                `json:"summary"`
}

func (h *Handler) statement(w http.ResponseWriter, r *http.Request) (*export.Statement, bool) {
	userID, budgetID, err := budgetHttp.BudgetScope(r)
	if err != nil {
		action.Fail(w, r, err, "")
		return nil, false
	}

	rng, err := budgetHttp.ParseRange(r)
	if err != nil {
		action.Fail(w, r, err, "")
		return nil, false
	}

	st, err := h.svc.Export(r.Context(), userID, budgetID, rng)
	if err != nil {
		action.Fail(w, r, err, "Internal Server Error, exporting budget")
		return nil, false
	}

	return st, true
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	st, ok := h.statement(w, r)
	if !ok {
		return
	}

	txs := make([]transactionResponse, 0, len(st.Items))
	for _, item := range st.Items {
		txs = append(txs, transactionResponse{
			ID:          item.Transaction.ID,
			Category:    item.Category,
			Amount:      item.Transaction.Amount,
			Type:        item.Transaction.Type,
			Description: item.Transaction.Description,
			Date:        item.Transaction.Date,
		})
	}

	action.Write(w, http.StatusOK, action.Ok(exportMetadataResponse{
		Range:        st.Range,
		Transactions: txs,
		Income:       st.Income,
		Expense:      st.Expense,
		Summary:      st.Summary(),
	}, ""))
}

// download streams a zip with the CSV statement and its text summary.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	st, ok := h.statement(w, r)
	if !ok {
		return
	}

	var statement bytes.Buffer
	if err := st.WriteCSV(&statement); err != nil {
		action.Fail(w, r, err, "Internal Server Error, exporting budget")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"export_%s.zip\"", st.Range.To.Format("20060102")))

	zipWriter := zip.NewWriter(w)
	defer zipWriter.Close()

	files := []struct {
		name string
		body []byte
	}{
		{"statement.csv", statement.Bytes()},
		{"summary.txt", []byte(st.Summary())},
	}

	for _, f := range files {
		zf, err := zipWriter.Create(f.name)
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to create zip entry", "name", f.name, "error", err)
			return
		}

		if _, err := zf.Write(f.body); err != nil {
			slog.ErrorContext(r.Context(), "failed to write zip entry", "name", f.name, "error", err)
			return
		}
	}
}
