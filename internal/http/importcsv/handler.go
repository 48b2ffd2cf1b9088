package importcsv

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/budgetly/internal/action"
	"github.com/MrJamesThe3rd/budgetly/internal/apperr"
	budgetHttp "github.com/MrJamesThe3rd/budgetly/internal/http/budget"
	"github.com/MrJamesThe3rd/budgetly/internal/importer"
)

const maxUpload = 10 << 20

type Handler struct {
	svc *importer.Service
}

func NewHandler(svc *importer.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes expects an {id} budget parameter on the mount path.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	userID, budgetID, err := budgetHttp.BudgetScope(r)
	if err != nil {
		action.Fail(w, r, err, "")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)

	if err := r.ParseMultipartForm(maxUpload); err != nil {
		action.Fail(w, r, apperr.Validation("failed to parse form", err), "")
		return
	}

	dryRun := false
	if s := r.FormValue("dryRun"); s != "" {
		dryRun, err = strconv.ParseBool(s)
		if err != nil {
			action.Fail(w, r, apperr.Validation("dryRun must be true or false", err), "")
			return
		}
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		action.Fail(w, r, apperr.Validation("file field is required", err), "")
		return
	}
	defer file.Close()

	report, err := h.svc.Import(r.Context(), userID, budgetID, file, dryRun)
	if err != nil {
		action.Fail(w, r, err, "Internal Server Error, importing statement")
		return
	}

	if dryRun {
		action.Write(w, http.StatusOK, action.Ok(report, "Statement preview"))
		return
	}

	action.Write(w, http.StatusCreated, action.Ok(report, strconv.Itoa(report.Imported)+" transactions imported"))
}
