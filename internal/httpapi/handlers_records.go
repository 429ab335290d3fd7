package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/types"
	"github.com/BrandonDHaskell/cornerstone/internal/requestctx"
)

// ── Designations ─────────────────────────────────────────────────────────────

func (s *Server) handleAddDesignation(w http.ResponseWriter, r *http.Request) {
	var req types.AddDesignationRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeBadBody(w, r, err)
		return
	}
	err := s.registry.AddDesignation(r.Context(), requestctx.Caller(r.Context()), chi.URLParam(r, "buildingID"), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.created(w, r)
}

func (s *Server) handleGetDesignation(w http.ResponseWriter, r *http.Request) {
	rec, err := s.registry.GetHistoricalDesignation(r.Context(),
		chi.URLParam(r, "buildingID"), chi.URLParam(r, "designationID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if rec == nil {
		writeResponse(w, r, http.StatusOK, types.NotFound())
		return
	}
	writeResponse(w, r, http.StatusOK, types.Found(types.DesignationFrom(*rec)))
}

func (s *Server) handleListDesignations(w http.ResponseWriter, r *http.Request) {
	recs, err := s.registry.ListDesignations(r.Context(), chi.URLParam(r, "buildingID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	items := make([]types.Designation, 0, len(recs))
	for _, rec := range recs {
		items = append(items, types.DesignationFrom(rec))
	}
	writeResponse(w, r, http.StatusOK, types.ListResponse{OK: true, Count: len(items), Items: items})
}

// ── Features ─────────────────────────────────────────────────────────────────

func (s *Server) handleAddFeature(w http.ResponseWriter, r *http.Request) {
	var req types.AddFeatureRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeBadBody(w, r, err)
		return
	}
	err := s.registry.AddFeature(r.Context(), requestctx.Caller(r.Context()), chi.URLParam(r, "buildingID"), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.created(w, r)
}

func (s *Server) handleGetFeature(w http.ResponseWriter, r *http.Request) {
	rec, err := s.registry.GetBuildingFeature(r.Context(),
		chi.URLParam(r, "buildingID"), chi.URLParam(r, "featureID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if rec == nil {
		writeResponse(w, r, http.StatusOK, types.NotFound())
		return
	}
	writeResponse(w, r, http.StatusOK, types.Found(types.FeatureFrom(*rec)))
}

func (s *Server) handleListFeatures(w http.ResponseWriter, r *http.Request) {
	recs, err := s.registry.ListFeatures(r.Context(), chi.URLParam(r, "buildingID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	items := make([]types.Feature, 0, len(recs))
	for _, rec := range recs {
		items = append(items, types.FeatureFrom(rec))
	}
	writeResponse(w, r, http.StatusOK, types.ListResponse{OK: true, Count: len(items), Items: items})
}

// ── Modifications ────────────────────────────────────────────────────────────

func (s *Server) handleRecordModification(w http.ResponseWriter, r *http.Request) {
	var req types.RecordModificationRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeBadBody(w, r, err)
		return
	}
	id, err := s.registry.RecordModification(r.Context(), requestctx.Caller(r.Context()), chi.URLParam(r, "buildingID"), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeResponse(w, r, http.StatusCreated, types.MutationResponse{OK: true, ModificationID: id})
}

func (s *Server) handleGetModification(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "modificationID"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid-argument", "modification id must be a positive integer")
		return
	}
	rec, err := s.registry.GetBuildingModification(r.Context(), chi.URLParam(r, "buildingID"), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if rec == nil {
		writeResponse(w, r, http.StatusOK, types.NotFound())
		return
	}
	writeResponse(w, r, http.StatusOK, types.Found(types.ModificationFrom(*rec)))
}

func (s *Server) handleListModifications(w http.ResponseWriter, r *http.Request) {
	recs, err := s.registry.ListModifications(r.Context(), chi.URLParam(r, "buildingID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	items := make([]types.Modification, 0, len(recs))
	for _, rec := range recs {
		items = append(items, types.ModificationFrom(rec))
	}
	writeResponse(w, r, http.StatusOK, types.ListResponse{OK: true, Count: len(items), Items: items})
}
