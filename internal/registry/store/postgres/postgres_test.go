package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Store) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, New(mock)
}

var buildingCols = []string{
	"building_id", "name", "address", "construction_year", "architect", "architectural_style",
	"registered_at", "last_updated", "registered_by", "status",
}

func TestMigrate_AppliesSchema(t *testing.T) {
	mock, _ := newMock(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS registrars").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, Migrate(context.Background(), mock))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRegistrar(t *testing.T) {
	ctx := context.Background()
	rec := store.RegistrarRecord{ID: "registrar-1", Name: "County Records", Organization: "Springfield", RegisteredBy: "admin", RegisteredAt: time.Now()}

	t.Run("inserted", func(t *testing.T) {
		mock, st := newMock(t)
		mock.ExpectExec("INSERT INTO registrars").
			WithArgs("registrar-1", "County Records", "Springfield", "admin", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		assert.NoError(t, st.CreateRegistrar(ctx, rec))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("conflict", func(t *testing.T) {
		mock, st := newMock(t)
		mock.ExpectExec("INSERT INTO registrars").
			WithArgs("registrar-1", "County Records", "Springfield", "admin", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 0))

		assert.ErrorIs(t, st.CreateRegistrar(ctx, rec), store.ErrAlreadyExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetRegistrar_Absent(t *testing.T) {
	mock, st := newMock(t)
	mock.ExpectQuery("FROM registrars").
		WithArgs("nobody").
		WillReturnError(pgx.ErrNoRows)

	got, err := st.GetRegistrar(context.Background(), "nobody")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBuilding(t *testing.T) {
	mock, st := newMock(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM buildings WHERE building_id").
		WithArgs("building-001").
		WillReturnRows(pgxmock.NewRows(buildingCols).AddRow(
			"building-001", "Old Town Hall", "123 Main St", 1890, "John Smith", "Victorian Gothic",
			now, now, "registrar-1", "active",
		))

	got, err := st.GetBuilding(context.Background(), "building-001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Old Town Hall", got.Name)
	assert.Equal(t, 1890, got.ConstructionYear)
	assert.Equal(t, now, got.RegistrationDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBuildingStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("returns previous status", func(t *testing.T) {
		mock, st := newMock(t)
		mock.ExpectQuery("UPDATE buildings").
			WithArgs("building-001", "inactive", pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("active"))

		prev, err := st.UpdateBuildingStatus(ctx, "building-001", "inactive", time.Now())
		require.NoError(t, err)
		assert.Equal(t, "active", prev)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown building", func(t *testing.T) {
		mock, st := newMock(t)
		mock.ExpectQuery("UPDATE buildings").
			WithArgs("building-404", "inactive", pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows([]string{"status"}))

		_, err := st.UpdateBuildingStatus(ctx, "building-404", "inactive", time.Now())
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListBuildings_FilterAndPage(t *testing.T) {
	mock, st := newMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery("FROM buildings").
		WithArgs("active", 10, 5).
		WillReturnRows(pgxmock.NewRows(buildingCols).
			AddRow("b-1", "A", "1 St", 1900, "X", "Y", now, now, "r", "active").
			AddRow("b-2", "B", "2 St", 1910, "X", "Y", now, now, "r", "active"))

	got, err := st.ListBuildings(context.Background(), store.BuildingFilter{Status: "active", Limit: 10, Offset: 5})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b-2", got[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOwnership_Unverified(t *testing.T) {
	mock, st := newMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery("FROM building_ownership").
		WithArgs("building-001").
		WillReturnRows(pgxmock.NewRows([]string{
			"building_id", "owner_name", "owner_type", "contact_info", "ownership_date",
			"verified", "verified_by", "verified_at", "verification_hash", "recorded_by", "recorded_at",
		}).AddRow("building-001", "City", "municipal", "clerk", now, false, nil, nil, nil, "registrar-1", now))

	got, err := st.GetOwnership(context.Background(), "building-001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Verified)
	assert.Nil(t, got.VerifiedBy)
	assert.Nil(t, got.VerificationDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOwnership_Verified(t *testing.T) {
	mock, st := newMock(t)
	now := time.Now().UTC()
	hash := make([]byte, 32)
	mock.ExpectQuery("FROM building_ownership").
		WithArgs("building-001").
		WillReturnRows(pgxmock.NewRows([]string{
			"building_id", "owner_name", "owner_type", "contact_info", "ownership_date",
			"verified", "verified_by", "verified_at", "verification_hash", "recorded_by", "recorded_at",
		}).AddRow("building-001", "City", "municipal", "clerk", now, true, "registrar-2", now, hash, "registrar-1", now))

	got, err := st.GetOwnership(context.Background(), "building-001")
	require.NoError(t, err)
	require.NotNil(t, got.VerifiedBy)
	assert.Equal(t, "registrar-2", *got.VerifiedBy)
	require.NotNil(t, got.VerificationDate)
	assert.True(t, now.Equal(*got.VerificationDate))
	assert.Len(t, got.VerificationHash, 32)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyOwnership_NoRecord(t *testing.T) {
	mock, st := newMock(t)
	mock.ExpectExec("UPDATE building_ownership").
		WithArgs("building-001", "r", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := st.VerifyOwnership(context.Background(), "building-001", store.Verification{VerifiedBy: "r", VerifiedAt: time.Now()})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPutOwnership_UnknownBuildingRollsBack(t *testing.T) {
	mock, st := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM buildings").
		WithArgs("building-404").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	err := st.PutOwnership(context.Background(), store.OwnershipRecord{BuildingID: "building-404"})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddDesignation_Duplicate(t *testing.T) {
	mock, st := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM buildings").
		WithArgs("building-001").
		WillReturnRows(pgxmock.NewRows([]string{"one"}).AddRow(1))
	mock.ExpectExec("INSERT INTO historical_designations").
		WithArgs("building-001", "nrhp-1978", "", "", pgxmock.AnyArg(), "", pgxmock.AnyArg(), "active").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectRollback()

	err := st.AddDesignation(context.Background(), store.DesignationRecord{
		BuildingID:        "building-001",
		DesignationID:     "nrhp-1978",
		DocumentationHash: make([]byte, 32),
		Status:            "active",
	})
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddFeature_Inserted(t *testing.T) {
	mock, st := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM buildings").
		WithArgs("building-001").
		WillReturnRows(pgxmock.NewRows([]string{"one"}).AddRow(1))
	mock.ExpectExec("INSERT INTO building_features").
		WithArgs("building-001", "clock-tower", "", "", "", pgxmock.AnyArg(), "", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := st.AddFeature(context.Background(), store.FeatureRecord{
		BuildingID:        "building-001",
		FeatureID:         "clock-tower",
		DocumentationHash: make([]byte, 32),
		AddedAt:           time.Now(),
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendModification_AssignsNextID(t *testing.T) {
	mock, st := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM buildings").
		WithArgs("building-001").
		WillReturnRows(pgxmock.NewRows([]string{"one"}).AddRow(1))
	mock.ExpectQuery("FROM building_modifications").
		WithArgs("building-001").
		WillReturnRows(pgxmock.NewRows([]string{"next"}).AddRow(uint64(3)))
	mock.ExpectExec("INSERT INTO building_modifications").
		WithArgs("building-001", uint64(3), "restoration", "", pgxmock.AnyArg(), "", pgxmock.AnyArg(), "", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	id, err := st.AppendModification(context.Background(), store.ModificationRecord{
		BuildingID:        "building-001",
		ModificationType:  "restoration",
		DocumentationHash: make([]byte, 32),
		RecordedAt:        time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetModification_Absent(t *testing.T) {
	mock, st := newMock(t)
	mock.ExpectQuery("FROM building_modifications").
		WithArgs("building-001", uint64(9)).
		WillReturnError(pgx.ErrNoRows)

	got, err := st.GetModification(context.Background(), "building-001", 9)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestPruneOlderThan(t *testing.T) {
	mock, st := newMock(t)
	mock.ExpectExec("DELETE FROM building_status_events").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))

	n, err := st.PruneOlderThan(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListStatusEvents_OrdersBySequenceWithinInstant(t *testing.T) {
	mock, st := newMock(t)
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	cols := []string{"event_id", "building_id", "previous_status", "status", "reason", "changed_by", "changed_at"}
	mock.ExpectQuery(`ORDER BY changed_at, seq`).
		WithArgs("building-001").
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow("e-2", "building-001", "active", "s0", "", "registrar-1", at).
			AddRow("e-1", "building-001", "s0", "s1", "", "registrar-1", at))

	got, err := st.ListStatusEvents(context.Background(), "building-001")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "s0", got[0].Status)
	assert.Equal(t, "s1", got[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
