package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theglobal/uren-backend-go/internal/domain/auth"
	"github.com/theglobal/uren-backend-go/internal/domain/clocksession"
)

func TestReportHandler_OverviewAndTimesheet(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(t, "a-1", "Admin", auth.RoleAdmin)
	worker := s.token(t, "w-1", "Piet", auth.RoleEmployee)
	st := s.createSite(t, admin)

	code, resp := s.do(t, http.MethodPost, "/api/v1/clock/in", worker, map[string]interface{}{
		"site_id":  st.ID,
		"location": location(0),
	})
	require.Equal(t, http.StatusCreated, code)
	var opened clocksession.SessionResponse
	require.NoError(t, json.Unmarshal(resp.Data, &opened))

	code, _ = s.do(t, http.MethodPost, "/api/v1/clock/sessions/"+opened.ID+"/out", worker, map[string]interface{}{
		"location": location(0),
	})
	require.Equal(t, http.StatusOK, code)

	code, resp = s.do(t, http.MethodGet, "/api/v1/time-entries/my-overview", worker, nil)
	require.Equal(t, http.StatusOK, code)
	var mine clocksession.OverviewResponse
	require.NoError(t, json.Unmarshal(resp.Data, &mine))
	assert.Equal(t, 1, mine.EntryCount)
	assert.Nil(t, mine.HoursPerWorker)

	code, resp = s.do(t, http.MethodGet, "/api/v1/admin/time-entries/overview?site_id="+st.ID, admin, nil)
	require.Equal(t, http.StatusOK, code)
	var overview clocksession.OverviewResponse
	require.NoError(t, json.Unmarshal(resp.Data, &overview))
	assert.Equal(t, 1, overview.EntryCount)
	require.Len(t, overview.HoursPerWorker, 1)
	assert.Equal(t, "w-1", overview.HoursPerWorker[0].WorkerID)

	code, _ = s.do(t, http.MethodGet, "/api/v1/admin/time-entries/overview?start_date=2024-13-01", admin, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/admin/timesheet?site_id="+st.ID, admin, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	date := opened.OpenedAt[:10]
	code, resp = s.do(t, http.MethodGet, "/api/v1/admin/timesheet?site_id="+st.ID+"&start_date="+date+"&end_date="+date, admin, nil)
	require.Equal(t, http.StatusOK, code)
	var sheet clocksession.TimesheetResponse
	require.NoError(t, json.Unmarshal(resp.Data, &sheet))
	assert.Equal(t, st.ID, sheet.Site.ID)
	require.Len(t, sheet.Days, 1)
	assert.Equal(t, date, sheet.Days[0].Date)
}
