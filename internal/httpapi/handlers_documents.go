package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BrandonDHaskell/cornerstone/internal/archive"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/types"
	"github.com/BrandonDHaskell/cornerstone/internal/requestctx"
)

// handlePutDocument archives the raw body and answers with its
// documentation hash.
func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, r, http.StatusNotImplemented, "archive-disabled", "no document archive configured")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "body-too-large", "document exceeds size limit")
			return
		}
		writeError(w, r, http.StatusBadRequest, "bad-body", "could not read document")
		return
	}
	if len(body) == 0 {
		writeError(w, r, http.StatusBadRequest, "invalid-argument", "document is empty")
		return
	}

	info, err := archive.Save(r.Context(), s.archive, body, r.Header.Get("Content-Type"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.logger.Info("document archived",
		zap.String("hash", info.Key),
		zap.Int64("size", info.Size),
		zap.String("caller", requestctx.Caller(r.Context())),
	)
	writeJSON(w, http.StatusOK, types.DocumentResponse{
		OK:                true,
		DocumentationHash: info.Key,
		Size:              info.Size,
		ContentType:       info.ContentType,
	})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, r, http.StatusNotImplemented, "archive-disabled", "no document archive configured")
		return
	}

	key := strings.ToLower(strings.TrimPrefix(chi.URLParam(r, "hash"), "0x"))
	if !archive.ValidKey(key) {
		writeError(w, r, http.StatusBadRequest, "invalid-hash", "hash must be 64 hex characters")
		return
	}

	info, rc, err := s.archive.Get(r.Context(), key)
	if errors.Is(err, archive.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "document-not-found", "no document with that hash")
		return
	}
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	defer rc.Close()

	ct := info.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	w.Header().Set("ETag", `"`+info.Key+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Warn("document stream interrupted", zap.String("hash", key), zap.Error(err))
	}
}
