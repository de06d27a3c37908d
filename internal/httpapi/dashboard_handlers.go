package httpapi

import (
	"net/http"
)

func (a *API) handleCategoryCounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	rows, err := a.reports.CategoryCounts(r.Context())
	if err != nil {
		handleInventoryError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (a *API) handleStatusCounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	rows, err := a.reports.StatusCounts(r.Context())
	if err != nil {
		handleInventoryError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (a *API) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	sum, err := a.reports.Summary(r.Context())
	if err != nil {
		handleInventoryError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (a *API) handleCounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	c, err := a.reports.Counts(r.Context())
	if err != nil {
		handleInventoryError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
