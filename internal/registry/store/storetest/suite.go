// Package storetest holds the behaviour every store.Backend must share.
// Backend packages run it from their own tests.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

// Factory returns a fresh, empty backend for one test.
type Factory func(t *testing.T) store.Backend

type BackendSuite struct {
	suite.Suite
	New Factory

	st  store.Backend
	ctx context.Context
	now time.Time
}

func Run(t *testing.T, f Factory) {
	suite.Run(t, &BackendSuite{New: f})
}

func (s *BackendSuite) SetupTest() {
	s.st = s.New(s.T())
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
}

func (s *BackendSuite) hash(b byte) []byte {
	h := make([]byte, 32)
	for i := range h {
		h[i] = b
	}
	return h
}

func (s *BackendSuite) seedBuilding(id string) {
	s.Require().NoError(s.st.CreateBuilding(s.ctx, store.BuildingRecord{
		ID:                 id,
		Name:               "Old Town Hall",
		Address:            "123 Main St",
		ConstructionYear:   1890,
		Architect:          "John Smith",
		ArchitecturalStyle: "Victorian Gothic",
		RegistrationDate:   s.now,
		LastUpdated:        s.now,
		RegisteredBy:       "registrar-1",
		Status:             "active",
	}))
}

func (s *BackendSuite) TestRegistrars() {
	rec := store.RegistrarRecord{
		ID:           "registrar-1",
		Name:         "County Records Office",
		Organization: "Springfield County",
		RegisteredBy: "admin",
		RegisteredAt: s.now,
	}
	s.Require().NoError(s.st.CreateRegistrar(s.ctx, rec))

	s.Run("duplicate rejected", func() {
		err := s.st.CreateRegistrar(s.ctx, rec)
		s.ErrorIs(err, store.ErrAlreadyExists)
	})

	s.Run("lookup", func() {
		got, err := s.st.GetRegistrar(s.ctx, "registrar-1")
		s.Require().NoError(err)
		s.Require().NotNil(got)
		s.Equal("County Records Office", got.Name)
		s.Equal("Springfield County", got.Organization)
		s.Equal("admin", got.RegisteredBy)
		s.Equal(s.now.UnixMilli(), got.RegisteredAt.UnixMilli())
	})

	s.Run("absent is nil", func() {
		got, err := s.st.GetRegistrar(s.ctx, "nobody")
		s.NoError(err)
		s.Nil(got)
	})
}

func (s *BackendSuite) TestBuildings() {
	s.seedBuilding("building-001")

	s.Run("duplicate rejected", func() {
		err := s.st.CreateBuilding(s.ctx, store.BuildingRecord{ID: "building-001", Status: "active"})
		s.ErrorIs(err, store.ErrAlreadyExists)
	})

	s.Run("lookup", func() {
		got, err := s.st.GetBuilding(s.ctx, "building-001")
		s.Require().NoError(err)
		s.Require().NotNil(got)
		s.Equal("Old Town Hall", got.Name)
		s.Equal(1890, got.ConstructionYear)
		s.Equal("Victorian Gothic", got.ArchitecturalStyle)
		s.Equal("active", got.Status)
		s.Equal("registrar-1", got.RegisteredBy)
	})

	s.Run("absent is nil", func() {
		got, err := s.st.GetBuilding(s.ctx, "building-404")
		s.NoError(err)
		s.Nil(got)
	})

	s.Run("status update", func() {
		later := s.now.Add(time.Hour)
		prev, err := s.st.UpdateBuildingStatus(s.ctx, "building-001", "inactive", later)
		s.Require().NoError(err)
		s.Equal("active", prev)

		got, err := s.st.GetBuilding(s.ctx, "building-001")
		s.Require().NoError(err)
		s.Equal("inactive", got.Status)
		s.Equal(later.UnixMilli(), got.LastUpdated.UnixMilli())
		s.Equal(s.now.UnixMilli(), got.RegistrationDate.UnixMilli())
	})

	s.Run("status update of unknown building", func() {
		_, err := s.st.UpdateBuildingStatus(s.ctx, "building-404", "inactive", s.now)
		s.ErrorIs(err, store.ErrNotFound)
	})
}

func (s *BackendSuite) TestListBuildings() {
	for _, id := range []string{"b-3", "b-1", "b-2"} {
		s.seedBuilding(id)
	}
	_, err := s.st.UpdateBuildingStatus(s.ctx, "b-2", "demolished", s.now)
	s.Require().NoError(err)

	all, err := s.st.ListBuildings(s.ctx, store.BuildingFilter{})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("b-1", all[0].ID)
	s.Equal("b-3", all[2].ID)

	active, err := s.st.ListBuildings(s.ctx, store.BuildingFilter{Status: "active"})
	s.Require().NoError(err)
	s.Len(active, 2)

	page, err := s.st.ListBuildings(s.ctx, store.BuildingFilter{Limit: 1, Offset: 1})
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Equal("b-2", page[0].ID)
}

func (s *BackendSuite) TestOwnership() {
	s.seedBuilding("building-001")

	s.Run("unknown building", func() {
		err := s.st.PutOwnership(s.ctx, store.OwnershipRecord{BuildingID: "building-404"})
		s.ErrorIs(err, store.ErrNotFound)
	})

	s.Run("verify without ownership", func() {
		err := s.st.VerifyOwnership(s.ctx, "building-001", store.Verification{VerifiedBy: "r", VerifiedAt: s.now})
		s.ErrorIs(err, store.ErrNotFound)
	})

	s.Run("register then verify", func() {
		owned := s.now.AddDate(-10, 0, 0)
		s.Require().NoError(s.st.PutOwnership(s.ctx, store.OwnershipRecord{
			BuildingID:    "building-001",
			OwnerName:     "City of Springfield",
			OwnerType:     "municipal",
			ContactInfo:   "clerk@springfield.gov",
			OwnershipDate: owned,
			RecordedBy:    "registrar-1",
			RecordedAt:    s.now,
		}))

		got, err := s.st.GetOwnership(s.ctx, "building-001")
		s.Require().NoError(err)
		s.Require().NotNil(got)
		s.False(got.Verified)
		s.Nil(got.VerifiedBy)
		s.Nil(got.VerificationDate)
		s.Equal(owned.UnixMilli(), got.OwnershipDate.UnixMilli())

		at := s.now.Add(time.Minute)
		s.Require().NoError(s.st.VerifyOwnership(s.ctx, "building-001", store.Verification{
			VerifiedBy:        "registrar-2",
			VerifiedAt:        at,
			DocumentationHash: s.hash(0xab),
		}))

		got, err = s.st.GetOwnership(s.ctx, "building-001")
		s.Require().NoError(err)
		s.True(got.Verified)
		s.Require().NotNil(got.VerifiedBy)
		s.Equal("registrar-2", *got.VerifiedBy)
		s.Require().NotNil(got.VerificationDate)
		s.Equal(at.UnixMilli(), got.VerificationDate.UnixMilli())
		s.Equal(s.hash(0xab), got.VerificationHash)
	})

	s.Run("re-registration clears verification", func() {
		s.Require().NoError(s.st.PutOwnership(s.ctx, store.OwnershipRecord{
			BuildingID: "building-001",
			OwnerName:  "Springfield Heritage Trust",
			OwnerType:  "nonprofit",
			RecordedBy: "registrar-1",
			RecordedAt: s.now,
		}))
		got, err := s.st.GetOwnership(s.ctx, "building-001")
		s.Require().NoError(err)
		s.Equal("Springfield Heritage Trust", got.OwnerName)
		s.False(got.Verified)
		s.Nil(got.VerifiedBy)
	})

	s.Run("absent is nil", func() {
		s.seedBuilding("building-002")
		got, err := s.st.GetOwnership(s.ctx, "building-002")
		s.NoError(err)
		s.Nil(got)
	})
}

func (s *BackendSuite) TestDesignations() {
	s.seedBuilding("building-001")
	rec := store.DesignationRecord{
		BuildingID:           "building-001",
		DesignationID:        "nrhp-1978",
		DesignationType:      "National Register",
		DesignatingAuthority: "National Park Service",
		DesignationDate:      time.Date(1978, 6, 1, 0, 0, 0, 0, time.UTC),
		Criteria:             "Criterion C",
		DocumentationHash:    s.hash(0x01),
		Status:               "active",
	}
	s.Require().NoError(s.st.AddDesignation(s.ctx, rec))

	s.ErrorIs(s.st.AddDesignation(s.ctx, rec), store.ErrAlreadyExists)

	other := rec
	other.DesignationID = "local-1990"
	s.NoError(s.st.AddDesignation(s.ctx, other))

	orphan := rec
	orphan.BuildingID = "building-404"
	s.ErrorIs(s.st.AddDesignation(s.ctx, orphan), store.ErrNotFound)

	got, err := s.st.GetDesignation(s.ctx, "building-001", "nrhp-1978")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("National Park Service", got.DesignatingAuthority)
	s.Equal(s.hash(0x01), got.DocumentationHash)
	s.Equal(rec.DesignationDate.UnixMilli(), got.DesignationDate.UnixMilli())

	missing, err := s.st.GetDesignation(s.ctx, "building-001", "nope")
	s.NoError(err)
	s.Nil(missing)

	list, err := s.st.ListDesignations(s.ctx, "building-001")
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("local-1990", list[0].DesignationID)
}

func (s *BackendSuite) TestFeatures() {
	s.seedBuilding("building-001")
	rec := store.FeatureRecord{
		BuildingID:             "building-001",
		FeatureID:              "clock-tower",
		FeatureType:            "tower",
		Description:            "Four-faced clock tower",
		HistoricalSignificance: "Original 1890 mechanism",
		DocumentationHash:      s.hash(0x02),
		AddedBy:                "registrar-1",
		AddedAt:                s.now,
	}
	s.Require().NoError(s.st.AddFeature(s.ctx, rec))
	s.ErrorIs(s.st.AddFeature(s.ctx, rec), store.ErrAlreadyExists)

	orphan := rec
	orphan.BuildingID = "building-404"
	s.ErrorIs(s.st.AddFeature(s.ctx, orphan), store.ErrNotFound)

	got, err := s.st.GetFeature(s.ctx, "building-001", "clock-tower")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("registrar-1", got.AddedBy)
	s.Equal(s.now.UnixMilli(), got.AddedAt.UnixMilli())

	missing, err := s.st.GetFeature(s.ctx, "building-001", "nope")
	s.NoError(err)
	s.Nil(missing)

	list, err := s.st.ListFeatures(s.ctx, "building-001")
	s.Require().NoError(err)
	s.Len(list, 1)
}

func (s *BackendSuite) TestModifications() {
	s.seedBuilding("building-001")
	s.seedBuilding("building-002")

	rec := store.ModificationRecord{
		BuildingID:        "building-001",
		ModificationType:  "restoration",
		Description:       "Roof slate replaced",
		Date:              time.Date(1952, 4, 1, 0, 0, 0, 0, time.UTC),
		PerformedBy:       "Acme Roofing",
		DocumentationHash: s.hash(0x03),
		RecordedBy:        "registrar-1",
		RecordedAt:        s.now,
	}

	for want := uint64(1); want <= 3; want++ {
		id, err := s.st.AppendModification(s.ctx, rec)
		s.Require().NoError(err)
		s.Equal(want, id)
	}

	other := rec
	other.BuildingID = "building-002"
	id, err := s.st.AppendModification(s.ctx, other)
	s.Require().NoError(err)
	s.Equal(uint64(1), id, "ids are per building")

	orphan := rec
	orphan.BuildingID = "building-404"
	_, err = s.st.AppendModification(s.ctx, orphan)
	s.ErrorIs(err, store.ErrNotFound)

	got, err := s.st.GetModification(s.ctx, "building-001", 2)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(uint64(2), got.ModificationID)
	s.Equal("Acme Roofing", got.PerformedBy)

	missing, err := s.st.GetModification(s.ctx, "building-001", 4)
	s.NoError(err)
	s.Nil(missing)

	list, err := s.st.ListModifications(s.ctx, "building-001")
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	for i, m := range list {
		s.Equal(uint64(i+1), m.ModificationID)
	}
}

func (s *BackendSuite) TestStatusEvents() {
	s.seedBuilding("building-001")

	old := store.StatusEventRecord{
		EventID:        "6f1c1f5e-0000-4000-8000-000000000001",
		BuildingID:     "building-001",
		PreviousStatus: "active",
		Status:         "inactive",
		Reason:         "closed for renovation",
		ChangedBy:      "registrar-1",
		ChangedAt:      s.now.AddDate(0, 0, -40),
	}
	recent := old
	recent.EventID = "6f1c1f5e-0000-4000-8000-000000000002"
	recent.PreviousStatus = "inactive"
	recent.Status = "active"
	recent.Reason = "reopened"
	recent.ChangedAt = s.now.AddDate(0, 0, -1)

	s.Require().NoError(s.st.RecordStatusEvent(s.ctx, recent))
	s.Require().NoError(s.st.RecordStatusEvent(s.ctx, old))

	events, err := s.st.ListStatusEvents(s.ctx, "building-001")
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal("closed for renovation", events[0].Reason)
	s.Equal("reopened", events[1].Reason)

	deleted, err := s.st.PruneOlderThan(s.ctx, s.now.AddDate(0, 0, -30))
	s.Require().NoError(err)
	s.Equal(int64(1), deleted)

	events, err = s.st.ListStatusEvents(s.ctx, "building-001")
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal("reopened", events[0].Reason)
}

func (s *BackendSuite) TestStatusEventsSameInstantKeepInsertionOrder() {
	s.seedBuilding("building-001")

	want := []string{"s0", "s1", "s2", "s3", "s4", "s5"}
	prev := "active"
	for i, status := range want {
		s.Require().NoError(s.st.RecordStatusEvent(s.ctx, store.StatusEventRecord{
			// ids sort in the opposite order to insertion
			EventID:        fmt.Sprintf("6f1c1f5e-0000-4000-8000-00000000000%d", len(want)-i),
			BuildingID:     "building-001",
			PreviousStatus: prev,
			Status:         status,
			ChangedBy:      "registrar-1",
			ChangedAt:      s.now,
		}))
		prev = status
	}

	events, err := s.st.ListStatusEvents(s.ctx, "building-001")
	s.Require().NoError(err)
	got := make([]string, 0, len(events))
	for _, ev := range events {
		got = append(got, ev.Status)
	}
	s.Equal(want, got)
	s.Equal("active", events[0].PreviousStatus)
}
