package http

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theglobal/uren-backend-go/internal/domain/auth"
)

// openStream connects to the live feed and waits for the connected event.
func openStream(t *testing.T, ctx context.Context, srv *httptest.Server, token string) *bufio.Scanner {
	t.Helper()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/clock/events", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	scanner := bufio.NewScanner(resp.Body)
	require.Equal(t, "event: connected", nextEvent(t, scanner))
	return scanner
}

// nextEvent returns the next "event:" line, skipping data and blank lines.
func nextEvent(t *testing.T, scanner *bufio.Scanner) string {
	t.Helper()
	for scanner.Scan() {
		if line := scanner.Text(); strings.HasPrefix(line, "event: ") {
			return line
		}
	}
	t.Fatalf("stream ended: %v", scanner.Err())
	return ""
}

func TestStreamHandler_ClockEvents(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	admin := s.token(t, "a-1", "Admin", auth.RoleAdmin)
	piet := s.token(t, "w-1", "Piet", auth.RoleEmployee)
	klaas := s.token(t, "w-2", "Klaas", auth.RoleEmployee)
	st := s.createSite(t, admin)

	adminFeed := openStream(t, ctx, srv, admin)
	pietFeed := openStream(t, ctx, srv, piet)

	code, _ := s.do(t, http.MethodPost, "/api/v1/clock/in", klaas, map[string]interface{}{
		"site_id":  st.ID,
		"location": location(0),
	})
	require.Equal(t, http.StatusCreated, code)

	code, _ = s.do(t, http.MethodPost, "/api/v1/clock/in", piet, map[string]interface{}{
		"site_id":  st.ID,
		"location": location(500),
	})
	require.Equal(t, http.StatusForbidden, code)

	assert.Equal(t, "event: clocked_in", nextEvent(t, adminFeed))
	assert.Equal(t, "event: admission_rejected", nextEvent(t, adminFeed))

	// Klaas' clock-in never reaches Piet's feed.
	assert.Equal(t, "event: admission_rejected", nextEvent(t, pietFeed))
}

func TestStreamHandler_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(t, http.MethodGet, "/api/v1/clock/events", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, 0, s.hub.TotalSubscribers())
}
