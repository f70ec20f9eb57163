package service

import (
	"sort"

	"github.com/warehouse_pulse/backend/internal/models"
	"github.com/warehouse_pulse/backend/internal/warehouse"
)

// AttributionLookbackDays is how far behind the target date packing touches
// are collected, so a box first closed days ago is not re-counted today.
const AttributionLookbackDays = 5

// remoteActor is the automated closing source. It only exists at MS and its
// recorded hour lags the shift boundary by one.
const remoteActor = "WEBMREMOTEWS"

// ResolveAttribution reduces a multi-day touch stream to the units that
// belong to the target date. Touches are ordered by (date, zero-padded time),
// the earliest touch per unit wins, and a unit whose first touch predates the
// target date is excluded entirely. The sort is stable, so equal timestamps
// keep their input order.
func ResolveAttribution(events []models.PackEvent, targetDate string) []models.PackEvent {
	sorted := make([]models.PackEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(a, b int) bool {
		if sorted[a].Date != sorted[b].Date {
			return sorted[a].Date < sorted[b].Date
		}
		return warehouse.PadTime(sorted[a].Time) < warehouse.PadTime(sorted[b].Time)
	})

	seen := map[string]bool{}
	var out []models.PackEvent
	for _, e := range sorted {
		id := warehouse.NormalizeID(e.ObjectID)
		if seen[id] {
			continue
		}
		seen[id] = true
		if e.Date == targetDate {
			out = append(out, e)
		}
	}
	return out
}

// BuildPackingStats rolls attributed box closings into hourly and daily rows.
// Each event is one distinct box; there is no item or intensity concept here.
func BuildPackingStats(events []models.PackEvent, profile warehouse.Profile, flows *warehouse.FlowMap) ([]models.PackHourlyStat, []models.PackDailyStat) {
	type packAgg struct{ Boxes int }
	groups := map[hourlyKey]*packAgg{}
	contexts := map[hourKey]map[contextKey]bool{}

	for _, e := range events {
		flow := flows.FlowOf(e.Route)
		floor := profile.FloorOf(e.Storage)
		hour := warehouse.ExtractHour(e.Time)
		if e.Worker == remoteActor && hour != warehouse.UnknownHour {
			hour = (hour + 1) % 24
		}

		k := hourlyKey{Worker: e.Worker, Date: e.Date, Hour: hour, Flow: flow, Floor: floor}
		agg := groups[k]
		if agg == nil {
			agg = &packAgg{}
			groups[k] = agg
		}
		agg.Boxes++

		hk := hourKey{Worker: e.Worker, Date: e.Date, Hour: hour}
		if contexts[hk] == nil {
			contexts[hk] = map[contextKey]bool{}
		}
		contexts[hk][contextKey{Flow: flow, Floor: floor}] = true
	}

	hourly := make([]models.PackHourlyStat, 0, len(groups))
	for k, agg := range groups {
		n := len(contexts[hourKey{Worker: k.Worker, Date: k.Date, Hour: k.Hour}])
		effort := warehouse.BaseEffort(k.Hour) / float64(n)
		row := models.PackHourlyStat{
			Worker: k.Worker,
			Date:   k.Date,
			Hour:   k.Hour,
			Flow:   k.Flow,
			Floor:  k.Floor,
			Boxes:  agg.Boxes,
			Effort: round2(effort),
		}
		if effort > 0 {
			row.Productivity = round2(float64(agg.Boxes) / effort)
		}
		hourly = append(hourly, row)
	}
	sort.Slice(hourly, func(a, b int) bool {
		x, y := hourly[a], hourly[b]
		if x.Worker != y.Worker {
			return x.Worker < y.Worker
		}
		if x.Date != y.Date {
			return x.Date < y.Date
		}
		if x.Hour != y.Hour {
			return x.Hour < y.Hour
		}
		if x.Flow != y.Flow {
			return x.Flow < y.Flow
		}
		return x.Floor < y.Floor
	})

	dailyAgg := map[dailyKey]*models.PackDailyStat{}
	for _, h := range hourly {
		k := dailyKey{Worker: h.Worker, Date: h.Date, Flow: h.Flow, Floor: h.Floor}
		d := dailyAgg[k]
		if d == nil {
			d = &models.PackDailyStat{Worker: h.Worker, Date: h.Date, Flow: h.Flow, Floor: h.Floor}
			dailyAgg[k] = d
		}
		d.Boxes += h.Boxes
		d.Effort += h.Effort
	}

	daily := make([]models.PackDailyStat, 0, len(dailyAgg))
	for _, d := range dailyAgg {
		d.Effort = round2(d.Effort)
		if d.Effort > 0 {
			d.Productivity = round2(float64(d.Boxes) / d.Effort)
		}
		daily = append(daily, *d)
	}
	sort.Slice(daily, func(a, b int) bool {
		x, y := daily[a], daily[b]
		if x.Worker != y.Worker {
			return x.Worker < y.Worker
		}
		if x.Date != y.Date {
			return x.Date < y.Date
		}
		if x.Flow != y.Flow {
			return x.Flow < y.Flow
		}
		return x.Floor < y.Floor
	})

	return hourly, daily
}
