package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shelfmetrics/stockwatch/internal/api/dto"
	"github.com/shelfmetrics/stockwatch/internal/domain/alert"
	"github.com/shelfmetrics/stockwatch/internal/pkg/cache"
	"github.com/shelfmetrics/stockwatch/internal/pkg/errors"
	"github.com/shelfmetrics/stockwatch/internal/pkg/logger"
	"github.com/shelfmetrics/stockwatch/internal/pkg/utils"
	"github.com/shelfmetrics/stockwatch/internal/pkg/validator"
)

type AlertHandler struct {
	service   alert.Service
	engine    alert.Engine
	cache     *cache.Cache
	logger    *logger.Logger
	validator *validator.Validator
}

func NewAlertHandler(service alert.Service, engine alert.Engine, c *cache.Cache, log *logger.Logger, val *validator.Validator) *AlertHandler {
	return &AlertHandler{service: service, engine: engine, cache: c, logger: log, validator: val}
}

// Sweep triggers an inventory sweep for one workspace
func (h *AlertHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	var req dto.SweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	result, err := h.engine.Sweep(r.Context(), req.WorkspaceID)
	if err != nil {
		writeServiceError(w, err, "Failed to run inventory sweep")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.SweepResponse{
		Alerts:          result.Created,
		Created:         len(result.Created),
		Closed:          len(result.ClosedIDs),
		ProductsChecked: result.ProductsChecked,
	})
}

// List returns a workspace's alerts with optional filtering. When the store
// is unreachable it falls back to the last cached snapshot for the query.
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	workspaceID := r.URL.Query().Get("workspace_id")
	if workspaceID == "" {
		utils.WriteError(w, errors.ValidationError("workspace_id is required", nil))
		return
	}

	filter := alert.Filter{
		Status:   r.URL.Query().Get("status"),
		Type:     r.URL.Query().Get("type"),
		Severity: r.URL.Query().Get("severity"),
	}
	cacheKey := "alerts:" + workspaceID + ":" + filter.Status + ":" + filter.Type + ":" + filter.Severity

	alerts, err := h.service.List(r.Context(), workspaceID, filter)
	if err != nil {
		if cached, ok := h.cache.Get(cacheKey); ok {
			h.logger.WithFields(map[string]interface{}{
				"workspace_id": workspaceID,
			}).ErrorWithErr(err, "Alert store unavailable, serving cached snapshot")
			utils.WriteSuccess(w, http.StatusOK, dto.AlertListResponse{
				Alerts:   cached.([]*alert.Alert),
				Degraded: true,
			})
			return
		}
		writeServiceError(w, err, "Failed to list alerts")
		return
	}

	h.cache.Set(cacheKey, alerts)
	utils.WriteSuccess(w, http.StatusOK, dto.AlertListResponse{Alerts: alerts})
}

// Acknowledge marks an open alert as acknowledged by the requesting actor
func (h *AlertHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid alert id"))
		return
	}

	var req dto.AcknowledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	a, err := h.service.Acknowledge(r.Context(), id, req.AcknowledgedBy)
	if err != nil {
		writeServiceError(w, err, "Failed to acknowledge alert")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, a)
}
