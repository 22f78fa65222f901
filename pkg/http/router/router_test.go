package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lintang-b-s/trajtrunc/pkg/catalog"
	"github.com/lintang-b-s/trajtrunc/pkg/datastructure"
	"github.com/lintang-b-s/trajtrunc/pkg/http/usecases"
	"github.com/lintang-b-s/trajtrunc/pkg/truncation"
	"github.com/lintang-b-s/trajtrunc/pkg/util"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	cat := catalog.NewCatalog(4,
		[]*datastructure.ProtectionCell{datastructure.NewProtectionCell(1, orb.MultiPolygon{{orb.Ring{
			{116.30, 39.90}, {116.32, 39.90}, {116.32, 39.92}, {116.30, 39.92}, {116.30, 39.90},
		}}})},
		map[int]orb.MultiPoint{1: {{116.31, 39.91}}},
		zap.NewNop())

	tr, err := truncation.NewTruncator(cat, util.TruncationConfig{
		Alpha:           60,
		K:               4,
		AddEndpoints:    true,
		StopMinDuration: 15 * time.Minute,
		StopRadiusKm:    0.2,
		PcellsCRS:       "EPSG:4326",
		TrajectoryCRS:   "EPSG:4326",
		CatalogDir:      "testdata",
		Workers:         1,
	}, zap.NewNop())
	require.NoError(t, err)

	service := usecases.NewTruncationService(zap.NewNop(), usecases.NewTruncatorFactory(tr), 0)
	return NewAPI(zap.NewNop()).Handler(zap.NewNop(), false, service)
}

type point struct {
	Time string  `json:"time"`
	Lon  float64 `json:"lon"`
	Lat  float64 `json:"lat"`
}

func postTruncate(t *testing.T, h http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/truncate", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestTruncateEndpoint(t *testing.T) {
	h := newTestHandler(t)

	// starts inside the cell, leaves it heading east
	points := []point{
		{Time: "2024-03-01T08:00:00Z", Lon: 116.310, Lat: 39.910},
		{Time: "2024-03-01T08:01:00Z", Lon: 116.315, Lat: 39.910},
		{Time: "2024-03-01T08:02:00Z", Lon: 116.325, Lat: 39.910},
		{Time: "2024-03-01T08:03:00Z", Lon: 116.330, Lat: 39.910},
		{Time: "2024-03-01T08:04:00Z", Lon: 116.335, Lat: 39.910},
	}
	rec := postTruncate(t, h, map[string]any{"id": "trip-1", "points": points})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			ID       string  `json:"id"`
			Points   []point `json:"points"`
			Polyline string  `json:"polyline"`
			Removed  int     `json:"removed"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "trip-1", resp.Data.ID)
	assert.Equal(t, 2, resp.Data.Removed)
	require.Len(t, resp.Data.Points, 3)
	assert.Equal(t, 116.325, resp.Data.Points[0].Lon)
	assert.NotEmpty(t, resp.Data.Polyline)

	_, err := uuid.Parse(rec.Header().Get(requestIDHeader))
	assert.NoError(t, err)
}

func TestTruncateEndpointErrors(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name string
		body any
		want int
	}{
		{name: "no points", body: map[string]any{"points": []point{}}, want: http.StatusBadRequest},
		{name: "bad alpha", body: map[string]any{"alpha": 400, "points": []point{{Time: "2024-03-01T08:00:00Z"}}}, want: http.StatusBadRequest},
		{name: "bad time", body: map[string]any{"points": []point{{Time: "yesterday"}}}, want: http.StatusBadRequest},
		{name: "single point with endpoints", body: map[string]any{"points": []point{{Time: "2024-03-01T08:00:00Z", Lon: 1, Lat: 1}}}, want: http.StatusBadRequest},
		{
			name: "unordered",
			body: map[string]any{"points": []point{
				{Time: "2024-03-01T08:01:00Z", Lon: 1, Lat: 1},
				{Time: "2024-03-01T08:00:00Z", Lon: 2, Lat: 1},
			}},
			want: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postTruncate(t, h, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestMiddleware(t *testing.T) {
	h := newTestHandler(t)

	t.Run("heartbeat", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("json required", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/truncate", bytes.NewReader([]byte("a,b")))
		req.Header.Set("Content-Type", "text/csv")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("request id is kept", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(requestIDHeader, id)
		rec := httptest.NewRecorder()
		Labels(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, id, RequestID(r.Context()))
		})).ServeHTTP(rec, req)
		assert.Equal(t, id, rec.Header().Get(requestIDHeader))
	})

	t.Run("real ip", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		var got string
		RealIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.RemoteAddr
		})).ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, "203.0.113.7", got)
	})

	t.Run("recover panic", func(t *testing.T) {
		api := NewAPI(zap.NewNop())
		rec := httptest.NewRecorder()
		api.recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
