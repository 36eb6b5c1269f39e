package clocksession

import (
	"fmt"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closedSession(id, workerID, workerName, siteID, siteName string, opened time.Time, hours float64, note *string) Session {
	closed := opened.Add(time.Duration(hours * float64(time.Hour)))
	return Session{
		ID:            id,
		WorkerID:      workerID,
		WorkerName:    workerName,
		SiteID:        siteID,
		SiteName:      siteName,
		OpenedAt:      opened,
		ClosedAt:      &closed,
		Status:        StatusClosed,
		DurationHours: &hours,
		Note:          note,
	}
}

func TestAggregate(t *testing.T) {
	day := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)
	sessions := []Session{
		closedSession("1", "w-1", "Anna", "s-1", "Kade 12", day, 4.5, nil),
		closedSession("2", "w-2", "Bram", "s-1", "Kade 12", day, 8, nil),
		closedSession("3", "w-1", "Anna", "s-2", "Dok 3", day.Add(24*time.Hour), 2.25, nil),
		{ID: "4", WorkerID: "w-3", WorkerName: "Cor", SiteID: "s-2", SiteName: "Dok 3", OpenedAt: day, Status: StatusOpen},
		{ID: "5", WorkerID: "w-3", WorkerName: "Cor", SiteID: "s-2", SiteName: "Dok 3", OpenedAt: day, Status: StatusClosed},
	}

	o := Aggregate(sessions)

	assert.Equal(t, 14.75, o.TotalHours)
	assert.Equal(t, 3, o.EntryCount)
	require.Len(t, o.Entries, 3)

	require.Len(t, o.PerSite, 2)
	assert.Equal(t, SiteHours{SiteID: "s-1", SiteName: "Kade 12", Hours: 12.5}, o.PerSite[0])
	assert.Equal(t, SiteHours{SiteID: "s-2", SiteName: "Dok 3", Hours: 2.25}, o.PerSite[1])

	require.Len(t, o.PerWorker, 2)
	assert.Equal(t, WorkerHours{WorkerID: "w-2", WorkerName: "Bram", Hours: 8}, o.PerWorker[0])
	assert.Equal(t, WorkerHours{WorkerID: "w-1", WorkerName: "Anna", Hours: 6.75}, o.PerWorker[1])
	assert.Equal(t, o.PerWorker, o.TopWorkers)
}

func TestAggregate_Empty(t *testing.T) {
	o := Aggregate(nil)

	assert.Equal(t, 0.0, o.TotalHours)
	assert.Equal(t, 0, o.EntryCount)
	assert.NotNil(t, o.PerSite)
	assert.NotNil(t, o.PerWorker)
	assert.NotNil(t, o.TopWorkers)
	assert.NotNil(t, o.Entries)
}

func TestAggregate_TopTenWorkers(t *testing.T) {
	day := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)
	var sessions []Session
	for i := 1; i <= 12; i++ {
		sessions = append(sessions, closedSession(
			fmt.Sprintf("s%d", i), fmt.Sprintf("w-%02d", i), fmt.Sprintf("Worker %02d", i),
			"s-1", "Kade 12", day, float64(i), nil,
		))
	}

	o := Aggregate(sessions)

	assert.Len(t, o.PerWorker, 12)
	require.Len(t, o.TopWorkers, 10)
	assert.Equal(t, "w-12", o.TopWorkers[0].WorkerID)
	assert.Equal(t, "w-03", o.TopWorkers[9].WorkerID)
	assert.Equal(t, 78.0, o.TotalHours)
}

func TestBuildTimesheet(t *testing.T) {
	ams, err := time.LoadLocation("Europe/Amsterdam")
	require.NoError(t, err)

	// 23:30 UTC on 1 May is already 2 May in Amsterdam.
	late := time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC)
	morning := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)

	sessions := []Session{
		closedSession("1", "w-1", "Anna", "s-1", "Kade 12", morning, 4, strPtr("fundering")),
		closedSession("2", "w-1", "Anna", "s-1", "Kade 12", morning.Add(5*time.Hour), 3.5, strPtr("bekisting")),
		closedSession("3", "w-2", "Bram", "s-1", "Kade 12", morning, 8, nil),
		closedSession("4", "w-2", "Bram", "s-1", "Kade 12", late, 2, nil),
		{ID: "5", WorkerID: "w-3", WorkerName: "Cor", SiteID: "s-1", OpenedAt: morning, Status: StatusOpen},
	}

	ts := BuildTimesheet(sessions, ams)

	require.Len(t, ts.Days, 2)
	assert.Equal(t, "2024-05-01", ts.Days[0].Date)
	require.Len(t, ts.Days[0].Workers, 2)
	assert.Equal(t, TimesheetCell{WorkerID: "w-1", WorkerName: "Anna", Hours: 7.5, Notes: []string{"fundering", "bekisting"}}, ts.Days[0].Workers[0])
	assert.Equal(t, TimesheetCell{WorkerID: "w-2", WorkerName: "Bram", Hours: 8, Notes: []string{}}, ts.Days[0].Workers[1])

	assert.Equal(t, "2024-05-02", ts.Days[1].Date)
	require.Len(t, ts.Days[1].Workers, 1)
	assert.Equal(t, 2.0, ts.Days[1].Workers[0].Hours)

	assert.Equal(t, []WorkerHours{
		{WorkerID: "w-1", WorkerName: "Anna", Hours: 7.5},
		{WorkerID: "w-2", WorkerName: "Bram", Hours: 10},
	}, ts.WorkerTotals)
	assert.Equal(t, 17.5, ts.TotalHours)
}

func TestBuildTimesheet_Empty(t *testing.T) {
	ts := BuildTimesheet(nil, nil)

	assert.Empty(t, ts.Days)
	assert.NotNil(t, ts.Days)
	assert.NotNil(t, ts.WorkerTotals)
	assert.Equal(t, 0.0, ts.TotalHours)
}
