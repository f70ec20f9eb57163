package service

import (
	"math"
	"sort"

	"github.com/warehouse_pulse/backend/internal/models"
	"github.com/warehouse_pulse/backend/internal/warehouse"
)

// contextKey identifies one (flow, floor) work context.
type contextKey struct {
	Flow  string
	Floor string
}

// hourKey identifies one worker-hour; its distinct context count is the
// effort divisor.
type hourKey struct {
	Worker string
	Date   string
	Hour   int
}

type hourlyKey struct {
	Worker string
	Date   string
	Hour   int
	Flow   string
	Floor  string
}

type dailyKey struct {
	Worker string
	Date   string
	Flow   string
	Floor  string
}

type hourlyAgg struct {
	Lines  int
	Items  float64
	Weight float64
}

type benchmark struct {
	WeightPerLine float64
	ItemsPerLine  float64
}

// BuildPickingStats turns one warehouse's confirmed lines into hourly and
// daily productivity rows. Lines failing the warehouse bin filter and rows on
// an unknown floor are dropped before anything is counted, so the context
// divisor and the emitted rows always reconcile.
func BuildPickingStats(lines []models.WorkLine, profile warehouse.Profile, flows *warehouse.FlowMap, routes map[string]string) ([]models.HourlyStat, []models.DailyStat) {
	groups := map[hourlyKey]*hourlyAgg{}
	contexts := map[hourKey]map[contextKey]bool{}
	contextTotals := map[contextKey]*hourlyAgg{}

	for _, l := range lines {
		if !profile.Qualifies(l.SourceBin) {
			continue
		}
		floor := profile.FloorOf(l.SourceType)
		if floor == warehouse.FloorUnknown {
			continue
		}
		flow := flows.FlowOf(routes[l.Delivery])
		hour := warehouse.ExtractHour(l.ConfirmTime)

		k := hourlyKey{Worker: l.Worker, Date: l.ConfirmDate, Hour: hour, Flow: flow, Floor: floor}
		agg := groups[k]
		if agg == nil {
			agg = &hourlyAgg{}
			groups[k] = agg
		}
		agg.Lines++
		agg.Items += l.Items
		agg.Weight += l.Weight

		hk := hourKey{Worker: l.Worker, Date: l.ConfirmDate, Hour: hour}
		if contexts[hk] == nil {
			contexts[hk] = map[contextKey]bool{}
		}
		contexts[hk][contextKey{Flow: flow, Floor: floor}] = true

		ck := contextKey{Flow: flow, Floor: floor}
		ct := contextTotals[ck]
		if ct == nil {
			ct = &hourlyAgg{}
			contextTotals[ck] = ct
		}
		ct.Lines++
		ct.Items += l.Items
		ct.Weight += l.Weight
	}

	benchmarks := map[contextKey]benchmark{}
	for ck, ct := range contextTotals {
		if ct.Lines == 0 {
			continue
		}
		benchmarks[ck] = benchmark{
			WeightPerLine: ct.Weight / float64(ct.Lines),
			ItemsPerLine:  ct.Items / float64(ct.Lines),
		}
	}

	hourly := make([]models.HourlyStat, 0, len(groups))
	for k, agg := range groups {
		n := len(contexts[hourKey{Worker: k.Worker, Date: k.Date, Hour: k.Hour}])
		// Productivity uses the exact share; the stored effort is rounded
		// separately so per-hour sums still reconcile with the base budget.
		effort := warehouse.BaseEffort(k.Hour) / float64(n)
		row := models.HourlyStat{
			Worker: k.Worker,
			Date:   k.Date,
			Hour:   k.Hour,
			Flow:   k.Flow,
			Floor:  k.Floor,
			Lines:  agg.Lines,
			Items:  agg.Items,
			Weight: agg.Weight,
			Effort: round2(effort),
		}
		if agg.Lines > 0 {
			row.Ratio = round2(agg.Items / float64(agg.Lines))
		}
		if effort > 0 {
			row.Productivity = round2(float64(agg.Lines) / effort)
		}
		row.WeightIntensity, row.ItemIntensity = intensities(agg, benchmarks[contextKey{Flow: k.Flow, Floor: k.Floor}])
		hourly = append(hourly, row)
	}
	sortHourly(hourly)

	dailyAgg := map[dailyKey]*models.DailyStat{}
	for _, h := range hourly {
		k := dailyKey{Worker: h.Worker, Date: h.Date, Flow: h.Flow, Floor: h.Floor}
		d := dailyAgg[k]
		if d == nil {
			d = &models.DailyStat{Worker: h.Worker, Date: h.Date, Flow: h.Flow, Floor: h.Floor}
			dailyAgg[k] = d
		}
		d.Lines += h.Lines
		d.Items += h.Items
		d.Weight += h.Weight
		d.Effort += h.Effort
	}

	daily := make([]models.DailyStat, 0, len(dailyAgg))
	for k, d := range dailyAgg {
		d.Effort = round2(d.Effort)
		if d.Lines > 0 {
			d.Ratio = round2(d.Items / float64(d.Lines))
		}
		if d.Effort > 0 {
			d.Productivity = round2(float64(d.Lines) / d.Effort)
		}
		agg := &hourlyAgg{Lines: d.Lines, Items: d.Items, Weight: d.Weight}
		d.WeightIntensity, d.ItemIntensity = intensities(agg, benchmarks[contextKey{Flow: k.Flow, Floor: k.Floor}])
		daily = append(daily, *d)
	}
	sortDaily(daily)

	return hourly, daily
}

// intensities relates a row's per-line weight and item density to the
// context-wide benchmark. A zero benchmark reads as average difficulty.
func intensities(agg *hourlyAgg, b benchmark) (float64, float64) {
	w, i := 1.0, 1.0
	if agg.Lines > 0 {
		if b.WeightPerLine > 0 {
			w = round2((agg.Weight / float64(agg.Lines)) / b.WeightPerLine)
		}
		if b.ItemsPerLine > 0 {
			i = round2((agg.Items / float64(agg.Lines)) / b.ItemsPerLine)
		}
	}
	return w, i
}

func sortHourly(rows []models.HourlyStat) {
	sort.Slice(rows, func(a, b int) bool {
		x, y := rows[a], rows[b]
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
}

func sortDaily(rows []models.DailyStat) {
	sort.Slice(rows, func(a, b int) bool {
		x, y := rows[a], rows[b]
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
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
