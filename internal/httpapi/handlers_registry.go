package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/types"
	"github.com/BrandonDHaskell/cornerstone/internal/requestctx"
)

func (s *Server) ok(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, r, http.StatusOK, types.MutationResponse{OK: true})
}

func (s *Server) created(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, r, http.StatusCreated, types.MutationResponse{OK: true})
}

// ── Registrars ───────────────────────────────────────────────────────────────

func (s *Server) handleRegisterRegistrar(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRegistrarRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeBadBody(w, r, err)
		return
	}
	if err := s.registry.RegisterRegistrar(r.Context(), requestctx.Caller(r.Context()), req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.created(w, r)
}

func (s *Server) handleGetRegistrar(w http.ResponseWriter, r *http.Request) {
	rec, err := s.registry.GetRegistrar(r.Context(), chi.URLParam(r, "registrarID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if rec == nil {
		writeResponse(w, r, http.StatusOK, types.NotFound())
		return
	}
	writeResponse(w, r, http.StatusOK, types.Found(types.RegistrarFrom(*rec)))
}

// ── Buildings ────────────────────────────────────────────────────────────────

func (s *Server) handleRegisterBuilding(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterBuildingRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeBadBody(w, r, err)
		return
	}
	if err := s.registry.RegisterBuilding(r.Context(), requestctx.Caller(r.Context()), req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.created(w, r)
}

func (s *Server) handleGetBuilding(w http.ResponseWriter, r *http.Request) {
	rec, err := s.registry.GetBuilding(r.Context(), chi.URLParam(r, "buildingID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if rec == nil {
		writeResponse(w, r, http.StatusOK, types.NotFound())
		return
	}
	writeResponse(w, r, http.StatusOK, types.Found(types.BuildingFrom(*rec)))
}

func (s *Server) handleListBuildings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.BuildingFilter{Status: q.Get("status")}
	for name, dst := range map[string]*int{"limit": &f.Limit, "offset": &f.Offset} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, r, http.StatusBadRequest, "invalid-argument", name+" must be a non-negative integer")
			return
		}
		*dst = n
	}

	recs, err := s.registry.ListBuildings(r.Context(), f)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	items := make([]types.Building, 0, len(recs))
	for _, rec := range recs {
		items = append(items, types.BuildingFrom(rec))
	}
	writeResponse(w, r, http.StatusOK, types.ListResponse{OK: true, Count: len(items), Items: items})
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req types.UpdateStatusRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeBadBody(w, r, err)
		return
	}
	err := s.registry.UpdateBuildingStatus(r.Context(), requestctx.Caller(r.Context()), chi.URLParam(r, "buildingID"), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.ok(w, r)
}

func (s *Server) handleStatusHistory(w http.ResponseWriter, r *http.Request) {
	recs, err := s.registry.StatusHistory(r.Context(), chi.URLParam(r, "buildingID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	items := make([]types.StatusEvent, 0, len(recs))
	for _, rec := range recs {
		items = append(items, types.StatusEventFrom(rec))
	}
	writeResponse(w, r, http.StatusOK, types.ListResponse{OK: true, Count: len(items), Items: items})
}

// ── Ownership ────────────────────────────────────────────────────────────────

func (s *Server) handleRegisterOwnership(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterOwnershipRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeBadBody(w, r, err)
		return
	}
	err := s.registry.RegisterOwnership(r.Context(), requestctx.Caller(r.Context()), chi.URLParam(r, "buildingID"), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.ok(w, r)
}

func (s *Server) handleVerifyOwnership(w http.ResponseWriter, r *http.Request) {
	var req types.VerifyOwnershipRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeBadBody(w, r, err)
		return
	}
	err := s.registry.VerifyOwnership(r.Context(), requestctx.Caller(r.Context()), chi.URLParam(r, "buildingID"), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.ok(w, r)
}

func (s *Server) handleGetOwnership(w http.ResponseWriter, r *http.Request) {
	rec, err := s.registry.GetBuildingOwnership(r.Context(), chi.URLParam(r, "buildingID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if rec == nil {
		writeResponse(w, r, http.StatusOK, types.NotFound())
		return
	}
	writeResponse(w, r, http.StatusOK, types.Found(types.OwnershipFrom(*rec)))
}
