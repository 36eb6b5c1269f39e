package clocksession

import (
	"sort"
	"time"
)

const topWorkersLimit = 10

type SiteHours struct {
	SiteID   string
	SiteName string
	Hours    float64
}

type WorkerHours struct {
	WorkerID   string
	WorkerName string
	Hours      float64
}

// Overview is the hour summary over a set of sessions.
type Overview struct {
	TotalHours float64
	PerSite    []SiteHours
	PerWorker  []WorkerHours
	TopWorkers []WorkerHours
	Entries    []Session
	EntryCount int
}

// Aggregate sums DurationHours of closed sessions per site and per worker.
// Open sessions and sessions without a duration are skipped entirely.
func Aggregate(sessions []Session) Overview {
	var total float64
	var perSite []SiteHours
	var perWorker []WorkerHours
	siteIdx := map[string]int{}
	workerIdx := map[string]int{}
	entries := make([]Session, 0, len(sessions))

	for _, s := range sessions {
		if s.Status != StatusClosed || s.DurationHours == nil {
			continue
		}
		h := *s.DurationHours
		total += h
		entries = append(entries, s)

		i, ok := siteIdx[s.SiteID]
		if !ok {
			i = len(perSite)
			siteIdx[s.SiteID] = i
			perSite = append(perSite, SiteHours{SiteID: s.SiteID, SiteName: s.SiteName})
		}
		perSite[i].Hours += h

		j, ok := workerIdx[s.WorkerID]
		if !ok {
			j = len(perWorker)
			workerIdx[s.WorkerID] = j
			perWorker = append(perWorker, WorkerHours{WorkerID: s.WorkerID, WorkerName: s.WorkerName})
		}
		perWorker[j].Hours += h
	}

	for i := range perSite {
		perSite[i].Hours = round2(perSite[i].Hours)
	}
	for i := range perWorker {
		perWorker[i].Hours = round2(perWorker[i].Hours)
	}

	sort.SliceStable(perSite, func(a, b int) bool {
		if perSite[a].Hours != perSite[b].Hours {
			return perSite[a].Hours > perSite[b].Hours
		}
		return perSite[a].SiteName < perSite[b].SiteName
	})
	sortWorkersByHours(perWorker)

	top := perWorker
	if len(top) > topWorkersLimit {
		top = top[:topWorkersLimit]
	}

	return Overview{
		TotalHours: round2(total),
		PerSite:    nonNilSites(perSite),
		PerWorker:  nonNilWorkers(perWorker),
		TopWorkers: append([]WorkerHours{}, top...),
		Entries:    entries,
		EntryCount: len(entries),
	}
}

// TimesheetCell is one worker on one day.
type TimesheetCell struct {
	WorkerID   string
	WorkerName string
	Hours      float64
	Notes      []string
}

type TimesheetDay struct {
	Date    string
	Workers []TimesheetCell
}

// Timesheet is the per-day, per-worker breakdown of a site's closed sessions.
type Timesheet struct {
	Days         []TimesheetDay
	WorkerTotals []WorkerHours
	TotalHours   float64
}

// BuildTimesheet groups closed sessions by their local opening date in loc and by worker.
func BuildTimesheet(sessions []Session, loc *time.Location) Timesheet {
	if loc == nil {
		loc = time.UTC
	}

	type dayKey struct {
		date     string
		workerID string
	}

	var grand float64
	var totals []WorkerHours
	var dateOrder []string
	cells := map[dayKey]*TimesheetCell{}
	dates := map[string][]dayKey{}
	totalIdx := map[string]int{}

	for _, s := range sessions {
		if s.Status != StatusClosed || s.DurationHours == nil {
			continue
		}
		h := *s.DurationHours
		date := s.OpenedAt.In(loc).Format(time.DateOnly)
		key := dayKey{date: date, workerID: s.WorkerID}

		cell, ok := cells[key]
		if !ok {
			cell = &TimesheetCell{WorkerID: s.WorkerID, WorkerName: s.WorkerName, Notes: []string{}}
			cells[key] = cell
			if _, seen := dates[date]; !seen {
				dateOrder = append(dateOrder, date)
			}
			dates[date] = append(dates[date], key)
		}
		cell.Hours += h
		if s.Note != nil && *s.Note != "" {
			cell.Notes = append(cell.Notes, *s.Note)
		}

		i, ok := totalIdx[s.WorkerID]
		if !ok {
			i = len(totals)
			totalIdx[s.WorkerID] = i
			totals = append(totals, WorkerHours{WorkerID: s.WorkerID, WorkerName: s.WorkerName})
		}
		totals[i].Hours += h
		grand += h
	}

	sort.Strings(dateOrder)

	days := make([]TimesheetDay, 0, len(dateOrder))
	for _, date := range dateOrder {
		day := TimesheetDay{Date: date}
		for _, key := range dates[date] {
			c := *cells[key]
			c.Hours = round2(c.Hours)
			day.Workers = append(day.Workers, c)
		}
		sort.SliceStable(day.Workers, func(a, b int) bool {
			if day.Workers[a].WorkerName != day.Workers[b].WorkerName {
				return day.Workers[a].WorkerName < day.Workers[b].WorkerName
			}
			return day.Workers[a].WorkerID < day.Workers[b].WorkerID
		})
		days = append(days, day)
	}

	for i := range totals {
		totals[i].Hours = round2(totals[i].Hours)
	}
	sort.SliceStable(totals, func(a, b int) bool {
		if totals[a].WorkerName != totals[b].WorkerName {
			return totals[a].WorkerName < totals[b].WorkerName
		}
		return totals[a].WorkerID < totals[b].WorkerID
	})

	return Timesheet{
		Days:         days,
		WorkerTotals: nonNilWorkers(totals),
		TotalHours:   round2(grand),
	}
}

func sortWorkersByHours(ws []WorkerHours) {
	sort.SliceStable(ws, func(a, b int) bool {
		if ws[a].Hours != ws[b].Hours {
			return ws[a].Hours > ws[b].Hours
		}
		return ws[a].WorkerName < ws[b].WorkerName
	})
}

func nonNilSites(s []SiteHours) []SiteHours {
	if s == nil {
		return []SiteHours{}
	}
	return s
}

func nonNilWorkers(w []WorkerHours) []WorkerHours {
	if w == nil {
		return []WorkerHours{}
	}
	return w
}
