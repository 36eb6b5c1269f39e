package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theglobal/uren-backend-go/internal/domain/auth"
	"github.com/theglobal/uren-backend-go/internal/domain/geofence"
	"github.com/theglobal/uren-backend-go/internal/pkg/jwt"
	"github.com/theglobal/uren-backend-go/internal/pkg/lock"
	"github.com/theglobal/uren-backend-go/internal/pkg/metrics"
	"github.com/theglobal/uren-backend-go/internal/pkg/sse"
	"github.com/theglobal/uren-backend-go/internal/repository/memory"
	auditService "github.com/theglobal/uren-backend-go/internal/service/audit"
	clockService "github.com/theglobal/uren-backend-go/internal/service/clocksession"
	geofenceService "github.com/theglobal/uren-backend-go/internal/service/geofence"
	siteService "github.com/theglobal/uren-backend-go/internal/service/site"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type testServer struct {
	router *chi.Mux
	jwt    jwt.Service
	hub    *sse.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	positions := memory.NewPositionLogRepository()
	sessions := memory.NewClockSessionRepository(positions)
	sites := memory.NewSiteRepository()
	store := memory.NewAuditStore()
	hub := sse.NewHub(16)
	publisher := auditService.NewPublisher(logger, m,
		auditService.NamedSink{Name: "store", Sink: auditService.NewStoreSink(store)},
		auditService.NamedSink{Name: "stream", Sink: auditService.NewStreamSink(hub)},
	)

	clockSvc := clockService.NewClockSessionService(
		sessions,
		positions,
		sites,
		geofenceService.NewPolicy(geofence.DefaultConfig()),
		lock.NewLocalLocker(0),
		publisher,
		m,
		logger,
		time.UTC,
	)

	jwtSvc, err := jwt.NewJWTService(handlerTestSecret, "1h")
	require.NoError(t, err)

	router := NewRouter(
		jwtSvc,
		RouterOptions{
			Logger:         logger,
			MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		},
		NewClockHandler(clockSvc),
		NewReportHandler(clockSvc),
		NewSiteHandler(siteService.NewSiteService(sites)),
		NewAuditHandler(auditService.NewAuditService(store)),
		NewStreamHandler(hub),
	)

	return &testServer{router: router, jwt: jwtSvc, hub: hub}
}

func (s *testServer) token(t *testing.T, workerID, name string, role auth.Role) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(workerID, name, role)
	require.NoError(t, err)
	return token
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
	Meta *struct {
		Count int `json:"count"`
	} `json:"meta"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, apiResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec.Code, resp
}

func TestRouter_HeartbeatAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "uren_clock_ins_total")
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	code, resp := s.do(t, http.MethodGet, "/api/v1/clock/status", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/clock/status", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	other, err := jwt.NewJWTService("another-secret", "1h")
	require.NoError(t, err)
	forged, _, err := other.GenerateAccessToken("w-1", "Piet", auth.RoleAdmin)
	require.NoError(t, err)
	code, _ = s.do(t, http.MethodGet, "/api/v1/clock/status", forged, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRouter_AdminRoutesRejectEmployees(t *testing.T) {
	s := newTestServer(t)
	employee := s.token(t, "w-1", "Piet", auth.RoleEmployee)

	for _, path := range []string{
		"/api/v1/admin/time-entries/overview",
		"/api/v1/admin/timesheet",
		"/api/v1/admin/audit",
	} {
		code, resp := s.do(t, http.MethodGet, path, employee, nil)
		assert.Equal(t, http.StatusForbidden, code, path)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "FORBIDDEN", resp.Error.Code)
	}

	code, _ := s.do(t, http.MethodPost, "/api/v1/sites", employee, map[string]interface{}{"name": "X", "company": "Y"})
	assert.Equal(t, http.StatusForbidden, code)
}
