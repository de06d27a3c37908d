package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"dtiestoque.org/internal/audit"
	"dtiestoque.org/internal/inventory"
	"dtiestoque.org/internal/obs"
)

type mutationResponse struct {
	AffectedRows int64  `json:"affectedRows"`
	Message      string `json:"message"`
}

func (a *API) handleEquipmentCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listEquipment(w, r)
	case http.MethodPost:
		a.createEquipment(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleEquipmentResource(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/api/equipamentos/")
	if raw == "" || strings.Contains(raw, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid equipment id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		a.updateEquipment(w, r, id)
	case http.MethodDelete:
		a.deleteEquipment(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) listEquipment(w http.ResponseWriter, r *http.Request) {
	items, err := a.equipment.List(r.Context())
	if err != nil {
		handleInventoryError(w, r, err)
		return
	}
	if items == nil {
		items = []inventory.Equipment{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (a *API) createEquipment(w http.ResponseWriter, r *http.Request) {
	f, ok := decodeFields(w, r)
	if !ok {
		return
	}
	id, err := a.equipment.Create(r.Context(), f)
	if err != nil {
		handleInventoryError(w, r, err)
		return
	}
	obs.ObserveMutation("create")
	_ = audit.LogEvent(r.Context(), "equipment.created", map[string]any{
		"id":     id,
		"tipo":   f.Type,
		"status": string(f.Status),
	})
	writeJSON(w, http.StatusCreated, createdResponse{ID: id, Message: "Equipamento criado"})
}

func (a *API) updateEquipment(w http.ResponseWriter, r *http.Request, id int64) {
	f, ok := decodeFields(w, r)
	if !ok {
		return
	}
	n, err := a.equipment.Update(r.Context(), id, f)
	if err != nil {
		handleInventoryError(w, r, err)
		return
	}
	if n == 0 {
		handleInventoryError(w, r, fmt.Errorf("%w: id %d", inventory.ErrNotFound, id))
		return
	}
	obs.ObserveMutation("update")
	_ = audit.LogEvent(r.Context(), "equipment.updated", map[string]any{
		"id":     id,
		"status": string(f.Status),
	})
	writeJSON(w, http.StatusOK, mutationResponse{AffectedRows: n, Message: "Equipamento atualizado"})
}

func (a *API) deleteEquipment(w http.ResponseWriter, r *http.Request, id int64) {
	n, err := a.equipment.Delete(r.Context(), id)
	if err != nil {
		handleInventoryError(w, r, err)
		return
	}
	if n > 0 {
		obs.ObserveMutation("delete")
		_ = audit.LogEvent(r.Context(), "equipment.deleted", map[string]any{"id": id})
	}
	writeJSON(w, http.StatusOK, mutationResponse{AffectedRows: n, Message: "Equipamento removido"})
}

func decodeFields(w http.ResponseWriter, r *http.Request) (inventory.Fields, bool) {
	var f inventory.Fields
	if err := decodeJSON(w, r, &f); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return inventory.Fields{}, false
	}
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		handleInventoryError(w, r, err)
		return inventory.Fields{}, false
	}
	return f, true
}

func handleInventoryError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, inventory.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, inventory.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "Equipamento não encontrado")
	default:
		obs.Logger().Error("inventory_failure",
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
