package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/vidhiq/vidhiq-backend/internal/logger"
	"github.com/vidhiq/vidhiq-backend/internal/usecase"
)

type errorResponse struct {
	Error   string                    `json:"error"`
	Message string                    `json:"message"`
	Fields  []usecase.ValidationError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// writeUseCaseError maps the usecase error taxonomy onto HTTP. Domain errors
// carry their message through; technical errors are logged in full and
// surfaced only as a generic message plus the code.
func writeUseCaseError(w http.ResponseWriter, err error) {
	switch e := err.(type) {
	case *usecase.DomainError:
		status := http.StatusBadRequest
		switch e.Code {
		case usecase.CodeDuplicatePaid, usecase.CodeDuplicateUnpaid:
			status = http.StatusConflict
		case usecase.CodeNotFound:
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: e.Code, Message: e.Message, Fields: e.Fields})

	case *usecase.TechnicalError:
		logger.L().Error("request failed", zap.String("code", e.Code), zap.String("detail", e.Message))
		writeError(w, http.StatusInternalServerError, e.Code, "something went wrong, please try again or contact support")

	default:
		logger.L().Error("unexpected error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "something went wrong, please try again or contact support")
	}
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
