package service

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/types"
)

const StatusActive = "active"

func (r *Registry) RegisterBuilding(ctx context.Context, caller string, req types.RegisterBuildingRequest) (err error) {
	ctx, done := r.begin(ctx, "RegisterBuilding", attribute.String("building.id", req.ID))
	defer done(&err)

	caller, err = r.authorize(ctx, caller)
	if err != nil {
		return err
	}
	id, err := requireID("id", req.ID)
	if err != nil {
		return err
	}

	now := r.now()
	err = r.store.CreateBuilding(ctx, store.BuildingRecord{
		ID:                 id,
		Name:               req.Name,
		Address:            req.Address,
		ConstructionYear:   req.ConstructionYear,
		Architect:          req.Architect,
		ArchitecturalStyle: req.ArchitecturalStyle,
		RegistrationDate:   now,
		LastUpdated:        now,
		RegisteredBy:       caller,
		Status:             StatusActive,
	})
	return translate(err, nil, ErrBuildingExists)
}

// GetBuilding returns nil, nil when the building does not exist.
func (r *Registry) GetBuilding(ctx context.Context, id string) (_ *store.BuildingRecord, err error) {
	ctx, done := r.begin(ctx, "GetBuilding", attribute.String("building.id", id))
	defer done(&err)

	if id == "" {
		return nil, nil
	}
	return r.store.GetBuilding(ctx, id)
}

func (r *Registry) ListBuildings(ctx context.Context, f store.BuildingFilter) (_ []store.BuildingRecord, err error) {
	ctx, done := r.begin(ctx, "ListBuildings", attribute.String("building.status", f.Status))
	defer done(&err)

	if f.Limit < 0 || f.Offset < 0 {
		return nil, ErrInvalidArgument
	}
	f.Status = strings.TrimSpace(f.Status)
	return r.store.ListBuildings(ctx, f)
}

// UpdateBuildingStatus sets the status and refreshes last_updated.  The
// reason goes only to the status audit log.
func (r *Registry) UpdateBuildingStatus(ctx context.Context, caller, buildingID string, req types.UpdateStatusRequest) (err error) {
	ctx, done := r.begin(ctx, "UpdateBuildingStatus",
		attribute.String("building.id", buildingID),
		attribute.String("building.status", req.Status),
	)
	defer done(&err)

	caller, err = r.authorize(ctx, caller)
	if err != nil {
		return err
	}
	if buildingID, err = requireID("building_id", buildingID); err != nil {
		return err
	}
	status, err := requireID("status", req.Status)
	if err != nil {
		return err
	}

	now := r.now()
	prev, err := r.store.UpdateBuildingStatus(ctx, buildingID, status, now)
	if err != nil {
		return translate(err, ErrBuildingNotFound, nil)
	}

	r.recordStatusEvent(ctx, store.StatusEventRecord{
		EventID:        r.newEventID(),
		BuildingID:     buildingID,
		PreviousStatus: prev,
		Status:         status,
		Reason:         req.Reason,
		ChangedBy:      caller,
		ChangedAt:      now,
	})
	return nil
}

// recordStatusEvent appends to the audit log.  A failed audit write is
// logged and does not undo the status change.
func (r *Registry) recordStatusEvent(ctx context.Context, rec store.StatusEventRecord) {
	if err := r.store.RecordStatusEvent(ctx, rec); err != nil {
		r.logger.Warn("status event not recorded",
			zap.String("building_id", rec.BuildingID),
			zap.String("status", rec.Status),
			zap.Error(err),
		)
	}
}

// StatusHistory lists a building's status changes oldest first.
func (r *Registry) StatusHistory(ctx context.Context, buildingID string) (_ []store.StatusEventRecord, err error) {
	ctx, done := r.begin(ctx, "StatusHistory", attribute.String("building.id", buildingID))
	defer done(&err)

	return r.store.ListStatusEvents(ctx, buildingID)
}
