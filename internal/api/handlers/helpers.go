package handlers

import (
	"net/http"

	"github.com/shelfmetrics/stockwatch/internal/pkg/errors"
	"github.com/shelfmetrics/stockwatch/internal/pkg/utils"
)

// writeServiceError maps a service error onto the HTTP response, preserving
// AppError status codes and wrapping anything else as an internal error
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	if appErr, ok := err.(*errors.AppError); ok {
		utils.WriteError(w, appErr)
		return
	}
	utils.WriteError(w, errors.Internal(fallback, err))
}
