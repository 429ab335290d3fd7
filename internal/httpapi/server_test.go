package httpapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/BrandonDHaskell/cornerstone/internal/archive"
	"github.com/BrandonDHaskell/cornerstone/internal/httpapi"
	"github.com/BrandonDHaskell/cornerstone/internal/metrics"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/service"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/store/memory"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/types"
)

const registrar = "registrar-1"

var docHash = strings.Repeat("cd", 32)

type testEnv struct {
	ts      *httptest.Server
	metrics *metrics.Metrics
}

type envOption func(*httpapi.Dependencies, *[]service.Option)

func withRateLimit(rps float64, burst int) envOption {
	return func(d *httpapi.Dependencies, _ *[]service.Option) {
		d.RateLimitRPS, d.RateBurst = rps, burst
	}
}

func withRequireRegistrar() envOption {
	return func(_ *httpapi.Dependencies, o *[]service.Option) {
		*o = append(*o, service.WithRequireRegistrar(true))
	}
}

// newTestServer wires up the full dependency graph on in-memory stores and
// returns an httptest.Server.
func newTestServer(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	clock := func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	svcOpts := []service.Option{
		service.WithClock(clock),
		service.WithLogger(zap.NewNop()),
		service.WithMetrics(m),
	}
	deps := httpapi.Dependencies{
		Logger:   zap.NewNop(),
		Addr:     ":0",
		Archive:  archive.NewMemory(),
		Metrics:  m,
		Gatherer: reg,
	}
	for _, o := range opts {
		o(&deps, &svcOpts)
	}
	deps.Registry = service.New(memory.New(), svcOpts...)

	ts := httptest.NewServer(httpapi.NewServer(deps).Handler())
	t.Cleanup(ts.Close)
	return &testEnv{ts: ts, metrics: m}
}

func (e *testEnv) do(t *testing.T, method, path, caller string, body any) *http.Response {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.ts.URL+path, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set("X-Caller-ID", caller)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

type lookup[T any] struct {
	OK     bool `json:"ok"`
	Found  bool `json:"found"`
	Record *T   `json:"record"`
}

type list[T any] struct {
	OK    bool `json:"ok"`
	Count int  `json:"count"`
	Items []T  `json:"items"`
}

func (e *testEnv) registerBuilding(t *testing.T, id string) {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/v1/buildings", registrar, types.RegisterBuildingRequest{
		ID: id, Name: "Old Mill", Address: "1 River Rd", ConstructionYear: 1887,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

// ── Buildings ────────────────────────────────────────────────────────────────

func TestBuilding_RegisterAndGet(t *testing.T) {
	e := newTestServer(t)
	e.registerBuilding(t, "bldg-1")

	resp := e.do(t, http.MethodGet, "/v1/buildings/bldg-1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[lookup[types.Building]](t, resp)
	assert.True(t, got.OK)
	assert.True(t, got.Found)
	require.NotNil(t, got.Record)
	assert.Equal(t, "Old Mill", got.Record.Name)
	assert.Equal(t, 1887, got.Record.ConstructionYear)
	assert.Equal(t, "active", got.Record.Status)
	assert.Equal(t, registrar, got.Record.RegisteredBy)
	assert.Equal(t, "2024-03-01T12:00:00Z", got.Record.RegistrationDate)
}

func TestBuilding_AbsentIsFoundFalse(t *testing.T) {
	e := newTestServer(t)

	resp := e.do(t, http.MethodGet, "/v1/buildings/ghost", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw := decode[map[string]any](t, resp)
	assert.Equal(t, true, raw["ok"])
	assert.Equal(t, false, raw["found"])
	assert.NotContains(t, raw, "record")
}

func TestBuilding_DuplicateIsConflict(t *testing.T) {
	e := newTestServer(t)
	e.registerBuilding(t, "bldg-1")

	resp := e.do(t, http.MethodPost, "/v1/buildings", registrar, types.RegisterBuildingRequest{ID: "bldg-1"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	got := decode[types.ErrorResponse](t, resp)
	assert.False(t, got.OK)
	assert.Equal(t, "building-already-exists", got.Error)
}

func TestMutation_MissingCaller(t *testing.T) {
	e := newTestServer(t)

	resp := e.do(t, http.MethodPost, "/v1/buildings", "", types.RegisterBuildingRequest{ID: "bldg-1"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "missing-caller", decode[types.ErrorResponse](t, resp).Error)
}

func TestMutation_UnknownFieldRejected(t *testing.T) {
	e := newTestServer(t)

	resp := e.do(t, http.MethodPost, "/v1/buildings", registrar, map[string]any{"id": "b", "floors": 3})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "bad-body", decode[types.ErrorResponse](t, resp).Error)
}

func TestMutation_NotRegistrarIsForbidden(t *testing.T) {
	e := newTestServer(t, withRequireRegistrar())

	resp := e.do(t, http.MethodPost, "/v1/buildings", "stranger", types.RegisterBuildingRequest{ID: "bldg-1"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "not-registrar", decode[types.ErrorResponse](t, resp).Error)

	resp = e.do(t, http.MethodPost, "/v1/registrars", "bootstrap", types.RegisterRegistrarRequest{ID: "stranger", Name: "County"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = e.do(t, http.MethodPost, "/v1/buildings", "stranger", types.RegisterBuildingRequest{ID: "bldg-1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/v1/registrars/stranger", "", nil)
	got := decode[lookup[types.Registrar]](t, resp)
	require.True(t, got.Found)
	assert.Equal(t, "County", got.Record.Name)
}

func TestStatusUpdateAndHistory(t *testing.T) {
	e := newTestServer(t)
	e.registerBuilding(t, "bldg-1")

	resp := e.do(t, http.MethodPut, "/v1/buildings/bldg-1/status", registrar, types.UpdateStatusRequest{Status: "closed", Reason: "unsafe"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodPut, "/v1/buildings/ghost/status", registrar, types.UpdateStatusRequest{Status: "closed"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "building-not-found", decode[types.ErrorResponse](t, resp).Error)

	resp = e.do(t, http.MethodGet, "/v1/buildings/bldg-1/status/history", "", nil)
	hist := decode[list[types.StatusEvent]](t, resp)
	require.Equal(t, 1, hist.Count)
	assert.Equal(t, "active", hist.Items[0].PreviousStatus)
	assert.Equal(t, "closed", hist.Items[0].Status)
	assert.Equal(t, "unsafe", hist.Items[0].Reason)
}

func TestListBuildings(t *testing.T) {
	e := newTestServer(t)
	for _, id := range []string{"b-1", "b-2", "b-3"} {
		e.registerBuilding(t, id)
	}

	resp := e.do(t, http.MethodGet, "/v1/buildings?limit=2&offset=1", "", nil)
	got := decode[list[types.Building]](t, resp)
	require.Equal(t, 2, got.Count)
	assert.Equal(t, "b-2", got.Items[0].ID)
	assert.Equal(t, "b-3", got.Items[1].ID)

	resp = e.do(t, http.MethodGet, "/v1/buildings?limit=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ── Ownership ────────────────────────────────────────────────────────────────

func TestOwnership_Flow(t *testing.T) {
	e := newTestServer(t)
	e.registerBuilding(t, "bldg-1")

	resp := e.do(t, http.MethodPost, "/v1/buildings/bldg-1/ownership/verify", registrar, types.VerifyOwnershipRequest{DocumentationHash: docHash})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ownership-not-found", decode[types.ErrorResponse](t, resp).Error)

	resp = e.do(t, http.MethodPut, "/v1/buildings/bldg-1/ownership", registrar, types.RegisterOwnershipRequest{
		OwnerName: "Heritage Trust", OwnerType: "nonprofit", OwnershipDate: "1990-05-17",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/v1/buildings/bldg-1/ownership", "", nil)
	own := decode[lookup[types.Ownership]](t, resp)
	require.True(t, own.Found)
	assert.False(t, own.Record.Verified)

	resp = e.do(t, http.MethodPost, "/v1/buildings/bldg-1/ownership/verify", "inspector", types.VerifyOwnershipRequest{DocumentationHash: docHash})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/v1/buildings/bldg-1/ownership", "", nil)
	own = decode[lookup[types.Ownership]](t, resp)
	assert.True(t, own.Record.Verified)
	require.NotNil(t, own.Record.VerifiedBy)
	assert.Equal(t, "inspector", *own.Record.VerifiedBy)

	resp = e.do(t, http.MethodPost, "/v1/buildings/bldg-1/ownership/verify", "inspector", types.VerifyOwnershipRequest{DocumentationHash: "zz"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid-hash", decode[types.ErrorResponse](t, resp).Error)
}

// ── Child records ────────────────────────────────────────────────────────────

func TestDesignationsAndFeatures(t *testing.T) {
	e := newTestServer(t)
	e.registerBuilding(t, "bldg-1")

	des := types.AddDesignationRequest{
		DesignationID: "nrhp-1", DesignationType: "national", DesignatingAuthority: "NPS",
		DesignationDate: "1979-10-02", DocumentationHash: docHash,
	}
	resp := e.do(t, http.MethodPost, "/v1/buildings/bldg-1/designations", registrar, des)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = e.do(t, http.MethodPost, "/v1/buildings/bldg-1/designations", registrar, des)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/v1/buildings/bldg-1/designations/nrhp-1", "", nil)
	gotDes := decode[lookup[types.Designation]](t, resp)
	require.True(t, gotDes.Found)
	assert.Equal(t, docHash, gotDes.Record.DocumentationHash)

	resp = e.do(t, http.MethodGet, "/v1/buildings/bldg-1/designations/other", "", nil)
	assert.False(t, decode[lookup[types.Designation]](t, resp).Found)

	feat := types.AddFeatureRequest{FeatureID: "f-1", FeatureType: "window", DocumentationHash: docHash}
	resp = e.do(t, http.MethodPost, "/v1/buildings/ghost/features", registrar, feat)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = e.do(t, http.MethodPost, "/v1/buildings/bldg-1/features", registrar, feat)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/v1/buildings/bldg-1/features", "", nil)
	feats := decode[list[types.Feature]](t, resp)
	require.Equal(t, 1, feats.Count)
	assert.Equal(t, registrar, feats.Items[0].AddedBy)
}

func TestModifications(t *testing.T) {
	e := newTestServer(t)
	e.registerBuilding(t, "bldg-1")

	mod := types.RecordModificationRequest{
		ModificationType: "restoration", Description: "roof", Date: "2001-06-30",
		PerformedBy: "Acme", DocumentationHash: docHash,
	}
	for want := uint64(1); want <= 2; want++ {
		resp := e.do(t, http.MethodPost, "/v1/buildings/bldg-1/modifications", registrar, mod)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, want, decode[types.MutationResponse](t, resp).ModificationID)
	}

	resp := e.do(t, http.MethodGet, "/v1/buildings/bldg-1/modifications/2", "", nil)
	got := decode[lookup[types.Modification]](t, resp)
	require.True(t, got.Found)
	assert.Equal(t, uint64(2), got.Record.ModificationID)

	resp = e.do(t, http.MethodGet, "/v1/buildings/bldg-1/modifications/9", "", nil)
	assert.False(t, decode[lookup[types.Modification]](t, resp).Found)

	resp = e.do(t, http.MethodGet, "/v1/buildings/bldg-1/modifications/first", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ── Protobuf ─────────────────────────────────────────────────────────────────

func TestProtobufStructBodies(t *testing.T) {
	e := newTestServer(t)

	body, err := structpb.NewStruct(map[string]any{"id": "bldg-pb", "name": "Proto Hall", "construction_year": 1901})
	require.NoError(t, err)
	data, err := proto.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, e.ts.URL+"/v1/buildings", bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-protobuf")
	req.Header.Set("X-Caller-ID", registrar)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "application/x-protobuf", resp.Header.Get("Content-Type"))

	req, err = http.NewRequest(http.MethodGet, e.ts.URL+"/v1/buildings/bldg-pb", nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/x-protobuf")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()

	raw, err := io.ReadAll(resp2.Body)
	require.NoError(t, err)
	var out structpb.Struct
	require.NoError(t, proto.Unmarshal(raw, &out))

	assert.True(t, out.Fields["found"].GetBoolValue())
	rec := out.Fields["record"].GetStructValue()
	require.NotNil(t, rec)
	assert.Equal(t, "Proto Hall", rec.Fields["name"].GetStringValue())
	assert.InDelta(t, 1901, rec.Fields["construction_year"].GetNumberValue(), 0.001)
}

// ── Documents ────────────────────────────────────────────────────────────────

func TestDocuments_UploadAndDownload(t *testing.T) {
	e := newTestServer(t)
	doc := []byte("deed of sale, 1990")

	req, err := http.NewRequest(http.MethodPost, e.ts.URL+"/v1/documents", bytes.NewReader(doc))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-Caller-ID", registrar)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	up := decode[types.DocumentResponse](t, resp)
	assert.Equal(t, archive.Key(doc), up.DocumentationHash)

	get := e.do(t, http.MethodGet, "/v1/documents/"+up.DocumentationHash, "", nil)
	require.Equal(t, http.StatusOK, get.StatusCode)
	assert.Equal(t, "text/plain", get.Header.Get("Content-Type"))
	body, err := io.ReadAll(get.Body)
	require.NoError(t, err)
	assert.Equal(t, doc, body)

	// The archived hash is accepted as documentation on a record.
	e.registerBuilding(t, "bldg-1")
	r := e.do(t, http.MethodPost, "/v1/buildings/bldg-1/features", registrar, types.AddFeatureRequest{
		FeatureID: "f-1", DocumentationHash: up.DocumentationHash,
	})
	assert.Equal(t, http.StatusCreated, r.StatusCode)

	missing := e.do(t, http.MethodGet, "/v1/documents/"+archive.Key([]byte("other")), "", nil)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)

	bad := e.do(t, http.MethodGet, "/v1/documents/xyz", "", nil)
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

// ── Ambient ──────────────────────────────────────────────────────────────────

func TestRateLimit(t *testing.T) {
	e := newTestServer(t, withRateLimit(0.001, 1))

	e.registerBuilding(t, "bldg-1")
	resp := e.do(t, http.MethodPost, "/v1/buildings", registrar, types.RegisterBuildingRequest{ID: "bldg-2"})
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.RateLimited))

	// Lookups are not limited.
	resp = e.do(t, http.MethodGet, "/v1/buildings/bldg-1", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestErrorCodesAreKebabCase(t *testing.T) {
	e := newTestServer(t)
	kebab := regexp.MustCompile(`^[a-z]+(-[a-z]+)*$`)

	check := func(resp *http.Response, status int, code string) {
		t.Helper()
		require.Equal(t, status, resp.StatusCode)
		got := decode[types.ErrorResponse](t, resp).Error
		assert.Equal(t, code, got)
		assert.Regexp(t, kebab, got)
	}

	check(e.do(t, http.MethodPost, "/v1/buildings", "", types.RegisterBuildingRequest{ID: "bldg-1"}),
		http.StatusUnauthorized, "missing-caller")
	check(e.do(t, http.MethodPost, "/v1/buildings", registrar, map[string]any{"id": "b", "floors": 3}),
		http.StatusBadRequest, "bad-body")
	check(e.do(t, http.MethodPost, "/v1/buildings", registrar, map[string]any{"id": strings.Repeat("x", 20<<10)}),
		http.StatusRequestEntityTooLarge, "body-too-large")
	check(e.do(t, http.MethodGet, "/v1/documents/xyz", "", nil),
		http.StatusBadRequest, "invalid-hash")
	check(e.do(t, http.MethodGet, "/v1/documents/"+docHash, "", nil),
		http.StatusNotFound, "document-not-found")

	check(e.do(t, http.MethodPost, "/v1/buildings", registrar, types.RegisterBuildingRequest{ID: " bldg-1"}),
		http.StatusBadRequest, "invalid-argument")

	limited := newTestServer(t, withRateLimit(0.001, 1))
	limited.registerBuilding(t, "bldg-1")
	check(limited.do(t, http.MethodPost, "/v1/buildings", registrar, types.RegisterBuildingRequest{ID: "bldg-2"}),
		http.StatusTooManyRequests, "rate-limited")
}

func TestHealthAndMetrics(t *testing.T) {
	e := newTestServer(t)

	resp := e.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	e.registerBuilding(t, "bldg-1")
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.HTTPRequests.WithLabelValues("POST", "/v1/buildings", "201")))

	resp = e.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "cornerstone_registry_operations_total")
}

func TestRequestID(t *testing.T) {
	e := newTestServer(t)

	resp := e.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Len(t, resp.Header.Get("X-Request-Id"), 36)

	req, err := http.NewRequest(http.MethodGet, e.ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "trace-me")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, "trace-me", resp2.Header.Get("X-Request-Id"))
}
