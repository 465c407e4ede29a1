package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shelfmetrics/stockwatch/internal/api/dto"
	"github.com/shelfmetrics/stockwatch/internal/domain/scheduler"
	"github.com/shelfmetrics/stockwatch/internal/pkg/errors"
	"github.com/shelfmetrics/stockwatch/internal/pkg/logger"
	"github.com/shelfmetrics/stockwatch/internal/pkg/utils"
)

type SchedulerHandler struct {
	service scheduler.Service
	logger  *logger.Logger
}

func NewSchedulerHandler(service scheduler.Service, log *logger.Logger) *SchedulerHandler {
	return &SchedulerHandler{service: service, logger: log}
}

// Run triggers a scheduler run across all workspaces, or one workspace when
// given. Individual workspace failures are reported in the results, not as
// a top-level error.
func (h *SchedulerHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req dto.SchedulerRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	trigger := scheduler.TriggerTimed
	if req.Manual {
		trigger = scheduler.TriggerManual
	}

	report, err := h.service.Run(r.Context(), trigger, req.WorkspaceID)
	if err != nil {
		writeServiceError(w, err, "Scheduler run failed")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, report)
}

// Status returns recent runs, active workspaces, and static configuration
func (h *SchedulerHandler) Status(w http.ResponseWriter, r *http.Request) {
	if action := r.URL.Query().Get("action"); action != "status" {
		utils.WriteError(w, errors.BadRequest("Unsupported action, expected action=status"))
		return
	}

	status, err := h.service.Status(r.Context())
	if err != nil {
		writeServiceError(w, err, "Failed to get scheduler status")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, status)
}
