package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theglobal/uren-backend-go/internal/domain/auth"
	"github.com/theglobal/uren-backend-go/internal/domain/site"
)

func TestSiteHandler_CRUD(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(t, "a-1", "Admin", auth.RoleAdmin)
	worker := s.token(t, "w-1", "Piet", auth.RoleEmployee)

	st := s.createSite(t, admin)
	assert.Equal(t, site.DefaultMatchRadiusM, st.MatchRadiusM)

	code, resp := s.do(t, http.MethodGet, "/api/v1/sites", worker, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, resp.Meta.Count)

	code, resp = s.do(t, http.MethodPut, "/api/v1/sites/"+st.ID, admin, map[string]interface{}{
		"name":            "Bouwplaats Utrecht Noord",
		"company":         "Bouwbedrijf Jansen",
		"latitude":        testSiteLat,
		"longitude":       testSiteLon,
		"location_radius": 150,
	})
	require.Equal(t, http.StatusOK, code)
	var updated site.SiteResponse
	require.NoError(t, json.Unmarshal(resp.Data, &updated))
	assert.Equal(t, 150.0, updated.MatchRadiusM)

	code, resp = s.do(t, http.MethodPost, "/api/v1/sites", admin, map[string]interface{}{
		"name":     "Half",
		"company":  "X",
		"latitude": 52.0,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

	code, _ = s.do(t, http.MethodDelete, "/api/v1/sites/"+st.ID, admin, nil)
	require.Equal(t, http.StatusOK, code)

	code, resp = s.do(t, http.MethodGet, "/api/v1/sites", worker, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, resp.Meta.Count)

	code, _ = s.do(t, http.MethodPost, "/api/v1/clock/in", worker, map[string]interface{}{
		"site_id":  st.ID,
		"location": location(0),
	})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/sites/missing", worker, nil)
	assert.Equal(t, http.StatusNotFound, code)
}
