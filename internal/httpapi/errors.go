package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/service"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/types"
)

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeResponse(w, r, status, types.ErrorResponse{OK: false, Error: code, Message: msg})
}

func statusForKind(k service.Kind) int {
	switch k {
	case service.KindInvalidArgument:
		return http.StatusBadRequest
	case service.KindAlreadyExists:
		return http.StatusConflict
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError maps a registry error onto the response.  Anything that
// is not a service.Failure is logged and reported as internal.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if f, ok := service.AsFailure(err); ok {
		writeError(w, r, statusForKind(f.Kind), f.Reason, err.Error())
		return
	}
	if ctxErr := r.Context().Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		writeError(w, r, http.StatusServiceUnavailable, "canceled", "request canceled")
		return
	}
	s.logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, r, http.StatusInternalServerError, "internal-error", "unexpected server error")
}

func (s *Server) writeBadBody(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errBodyTooLarge) {
		writeError(w, r, http.StatusRequestEntityTooLarge, "body-too-large", err.Error())
		return
	}
	writeError(w, r, http.StatusBadRequest, "bad-body", "invalid request body")
}
