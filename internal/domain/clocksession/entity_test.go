package clocksession

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theglobal/uren-backend-go/internal/domain/geofence"
	"github.com/theglobal/uren-backend-go/internal/domain/site"
	"github.com/theglobal/uren-backend-go/internal/pkg/geo"
)

func strPtr(s string) *string { return &s }

func openFixture(t *testing.T, note *string) Session {
	t.Helper()
	s := site.Site{
		ID:            "site-1",
		Name:          "Kade 12",
		Company:       "Bouwbedrijf Noord",
		LocationLabel: "Amsterdam",
		Coordinate:    &geo.Coordinate{Latitude: 52.0, Longitude: 5.0},
		MatchRadiusM:  100,
		Active:        true,
	}
	opened := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	sample := LocationSample{Coordinate: geo.Coordinate{Latitude: 52.0, Longitude: 5.0}, CapturedAt: opened}
	v := geofence.Verdict{DistanceM: 3.2, WithinReportRadius: true, WithinAdvisoryRadius: true}

	return NewOpenSession("sess-1", Worker{ID: "w-1", Name: "Jan"}, s, sample, v, note, opened)
}

func TestNewOpenSession(t *testing.T) {
	sess := openFixture(t, strPtr("morning shift"))

	assert.Equal(t, StatusOpen, sess.Status)
	assert.True(t, sess.IsOpen())
	assert.Equal(t, "w-1", sess.WorkerID)
	assert.Equal(t, "Jan", sess.WorkerName)
	assert.Equal(t, "Kade 12", sess.SiteName)
	assert.Equal(t, "Bouwbedrijf Noord", sess.Company)
	assert.Equal(t, "Amsterdam", sess.SiteLocationLabel)
	assert.Equal(t, 3.2, sess.AdmissionDistanceM)
	assert.True(t, sess.AdmissionMatch)
	assert.Nil(t, sess.AdmissionWarning)
	assert.Nil(t, sess.ClosedAt)
	assert.Nil(t, sess.DurationHours)
	require.NotNil(t, sess.Note)
	assert.Equal(t, "morning shift", *sess.Note)
	assert.NoError(t, sess.EnsureActive())
}

func TestNewOpenSession_EmptyNoteIsNil(t *testing.T) {
	sess := openFixture(t, strPtr(""))
	assert.Nil(t, sess.Note)
}

func TestSessionClose(t *testing.T) {
	sess := openFixture(t, strPtr("morning shift"))
	closedAt := sess.OpenedAt.Add(4*time.Hour + 30*time.Minute)
	warning := "distance deviation 120m (allowed: 100m)"
	v := geofence.Verdict{DistanceM: 120, WithinReportRadius: true, WithinAdvisoryRadius: false, Warning: &warning}

	err := sess.Close(closedAt, LocationSample{CapturedAt: closedAt}, &v, nil)
	require.NoError(t, err)

	assert.Equal(t, StatusClosed, sess.Status)
	require.NotNil(t, sess.ClosedAt)
	assert.True(t, closedAt.Equal(*sess.ClosedAt))
	require.NotNil(t, sess.DurationHours)
	assert.Equal(t, 4.5, *sess.DurationHours)
	require.NotNil(t, sess.ClosingDistanceM)
	assert.Equal(t, 120.0, *sess.ClosingDistanceM)
	require.NotNil(t, sess.ClosingMatch)
	assert.True(t, *sess.ClosingMatch)
	require.NotNil(t, sess.ClosingWarning)
	assert.Equal(t, warning, *sess.ClosingWarning)
	require.NotNil(t, sess.Note)
	assert.Equal(t, "morning shift", *sess.Note, "opening note is kept when none is supplied")
	assert.ErrorIs(t, sess.EnsureActive(), ErrSessionNotActive)
}

func TestSessionClose_OverwritesNote(t *testing.T) {
	sess := openFixture(t, strPtr("morning shift"))
	at := sess.OpenedAt.Add(time.Hour)

	require.NoError(t, sess.Close(at, LocationSample{CapturedAt: at}, &geofence.Verdict{}, strPtr("left early")))
	require.NotNil(t, sess.Note)
	assert.Equal(t, "left early", *sess.Note)
}

func TestSessionClose_Twice(t *testing.T) {
	sess := openFixture(t, nil)
	first := sess.OpenedAt.Add(time.Hour)
	require.NoError(t, sess.Close(first, LocationSample{CapturedAt: first}, &geofence.Verdict{}, nil))

	second := first.Add(time.Hour)
	err := sess.Close(second, LocationSample{CapturedAt: second}, &geofence.Verdict{}, strPtr("again"))
	assert.ErrorIs(t, err, ErrAlreadyClosed)
	assert.True(t, first.Equal(*sess.ClosedAt))
	assert.Equal(t, 1.0, *sess.DurationHours)
	assert.Nil(t, sess.Note)
}

func TestSessionClose_WithoutVerdict(t *testing.T) {
	sess := openFixture(t, nil)
	at := sess.OpenedAt.Add(2 * time.Hour)

	require.NoError(t, sess.Close(at, LocationSample{CapturedAt: at}, nil, nil))
	assert.Equal(t, StatusClosed, sess.Status)
	assert.Nil(t, sess.ClosingDistanceM)
	assert.Nil(t, sess.ClosingMatch)
	assert.Nil(t, sess.ClosingWarning)
	assert.Equal(t, 2.0, *sess.DurationHours)
}

func TestDurationHours(t *testing.T) {
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	cases := []struct {
		elapsed time.Duration
		want    float64
	}{
		{0, 0},
		{time.Hour, 1},
		{4*time.Hour + 30*time.Minute, 4.5},
		{20 * time.Minute, 0.33},
		{time.Hour + 59*time.Second, 1.02},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, DurationHours(start, start.Add(tc.elapsed)), tc.elapsed.String())
	}
}
