package service

import (
	"sort"
	"time"

	"github.com/warehouse_pulse/backend/internal/models"
	"github.com/warehouse_pulse/backend/internal/warehouse"
)

// HistorySince is the season start the per-worker history reaches back to.
const HistorySince = "2025-01-01"

type dayAgg struct {
	Count int
	Items float64
	Hours map[int]bool
}

// BuildUserPickHistory rolls one worker's confirmed lines into daily rows.
// For a single worker an active hour counts as one full effort unit however
// many contexts it was split across.
func BuildUserPickHistory(lines []models.WorkLine, profile warehouse.Profile) []models.UserDayStat {
	days := map[string]*dayAgg{}
	for _, l := range lines {
		if !profile.Qualifies(l.SourceBin) {
			continue
		}
		agg := days[l.ConfirmDate]
		if agg == nil {
			agg = &dayAgg{Hours: map[int]bool{}}
			days[l.ConfirmDate] = agg
		}
		agg.Count++
		agg.Items += l.Items
		agg.Hours[warehouse.ExtractHour(l.ConfirmTime)] = true
	}
	return historyRows(days, true)
}

// BuildUserPackHistory rolls one worker's box closings into daily rows. Each
// unit counts once per day; items do not apply to packing.
func BuildUserPackHistory(events []models.PackEvent) []models.UserDayStat {
	days := map[string]*dayAgg{}
	seen := map[string]bool{}
	for _, e := range events {
		key := warehouse.NormalizeID(e.ObjectID) + "@" + e.Date
		if seen[key] {
			continue
		}
		seen[key] = true
		agg := days[e.Date]
		if agg == nil {
			agg = &dayAgg{Hours: map[int]bool{}}
			days[e.Date] = agg
		}
		agg.Count++
		agg.Hours[warehouse.ExtractHour(e.Time)] = true
	}
	return historyRows(days, false)
}

func historyRows(days map[string]*dayAgg, withRatio bool) []models.UserDayStat {
	var out []models.UserDayStat
	for date, agg := range days {
		var effort float64
		for hour := range agg.Hours {
			effort += warehouse.BaseEffort(hour)
		}
		effort = round2(effort)

		row := models.UserDayStat{
			Date:        date,
			TotalLines:  agg.Count,
			TotalItems:  agg.Items,
			TotalEffort: effort,
		}
		if t, err := time.Parse("2006-01-02", date); err == nil {
			y, w := t.ISOWeek()
			row.Year = y
			row.Week = w
			row.DayName = t.Weekday().String()
		}
		if withRatio && agg.Count > 0 {
			row.Ratio = round2(agg.Items / float64(agg.Count))
		}
		if effort > 0 {
			row.Productivity = round2(float64(agg.Count) / effort)
		}
		out = append(out, row)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Date > out[b].Date })
	return out
}
