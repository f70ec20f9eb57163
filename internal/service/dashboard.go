package service

import (
	"math"
	"sort"
	"strconv"

	"github.com/warehouse_pulse/backend/internal/models"
	"github.com/warehouse_pulse/backend/internal/warehouse"
)

// DashboardInput bundles the raw rows one snapshot is built from. Deliveries
// are the scenario's open headers; Lines and Units belong to them.
type DashboardInput struct {
	Deliveries []models.Delivery
	Lines      []models.WorkLine
	Units      []models.HandlingUnit
	Groups     map[string]string
}

// BuildSnapshot assembles the nested dashboard summary for one warehouse and
// scenario, scoped to the B-flow partition. Missing numeric source values
// arrive already coerced to zero from the store layer.
func BuildSnapshot(in DashboardInput, profile warehouse.Profile, flows *warehouse.FlowMap) models.Snapshot {
	scoped := scopeDeliveries(in.Deliveries, flows)

	var lines []models.WorkLine
	for _, l := range in.Lines {
		if _, ok := scoped[warehouse.NormalizeID(l.Delivery)]; !ok {
			continue
		}
		if !profile.QualifiesDashboard(l.SourceBin, l.SourceType) {
			continue
		}
		lines = append(lines, l)
	}

	var units []models.HandlingUnit
	for _, u := range in.Units {
		if _, ok := scoped[warehouse.NormalizeID(u.Delivery)]; ok {
			units = append(units, u)
		}
	}
	status := ResolvePickStatus(units, lines)

	snap := models.Snapshot{
		OpenDeliveries: len(scoped),
		OpenHUs:        len(units),
		Priorities:     map[string]int{},
		PriorityHUs:    map[string]int{},
		Cutoffs:        map[string]models.CutoffStats{},
		VltypDist:      map[string]models.DataPoint{},
		KoberDist:      map[string]models.DataPoint{},
	}

	vltyp := map[string]*models.DataPoint{}
	kober := map[string]*models.DataPoint{}
	floors := map[string]*models.DataPoint{}
	floorDeliveries := map[string]map[string]bool{}
	floorDP10Deliveries := map[string]map[string]bool{}
	floorHUs := map[string]*models.HUSummary{}
	cutoffLines := map[string]*models.CutoffStats{}
	cutoffDeliveries := map[string]map[string]bool{}
	cutoffDP10Deliveries := map[string]map[string]bool{}

	for _, l := range lines {
		d := scoped[warehouse.NormalizeID(l.Delivery)]
		picked := l.ConfirmedAt != nil

		addPoint(&snap.Summary, l, picked)
		addPoint(point(vltyp, l.SourceType), l, picked)
		addPoint(point(kober, l.PickArea), l, picked)

		prio := warehouse.NormalizePriority(d.Priority)
		snap.Priorities[prio]++

		floor := profile.FloorOf(l.SourceType)
		if profile.ID == warehouse.WarehouseCVNS && floor != warehouse.FloorUnknown {
			fp := point(floors, floor)
			addPoint(fp, l, picked)
			if floorDeliveries[floor] == nil {
				floorDeliveries[floor] = map[string]bool{}
				floorDP10Deliveries[floor] = map[string]bool{}
			}
			floorDeliveries[floor][d.ID] = true
			if prio == "10" {
				fp.Total.DP10Lines++
				floorDP10Deliveries[floor][d.ID] = true
			}
		}

		cs := cutoffLines[d.Cutoff]
		if cs == nil {
			cs = &models.CutoffStats{}
			cutoffLines[d.Cutoff] = cs
			cutoffDeliveries[d.Cutoff] = map[string]bool{}
			cutoffDP10Deliveries[d.Cutoff] = map[string]bool{}
		}
		cs.TotalLines++
		if picked {
			cs.PickedLines++
		}
		cutoffDeliveries[d.Cutoff][d.ID] = true
		if prio == "10" {
			cs.DP10Lines++
			cutoffDP10Deliveries[d.Cutoff][d.ID] = true
		}
	}

	var huLines int
	var huItems float64
	for _, u := range units {
		st := status[warehouse.NormalizeID(u.External)]
		if st.Picked {
			snap.HUSummary.Picked++
		} else {
			snap.HUSummary.NotPicked++
		}
		huLines += st.Lines
		huItems += st.Items

		if profile.ID == warehouse.WarehouseCVNS {
			if floor := profile.FloorOf(u.StorageType); floor != warehouse.FloorUnknown {
				fh := floorHUs[floor]
				if fh == nil {
					fh = &models.HUSummary{}
					floorHUs[floor] = fh
				}
				fh.Total++
				if st.Picked {
					fh.Picked++
				} else {
					fh.NotPicked++
				}
			}
		}

		d := scoped[warehouse.NormalizeID(u.Delivery)]
		snap.PriorityHUs[warehouse.NormalizePriority(d.Priority)]++

		cs := cutoffLines[d.Cutoff]
		if cs == nil {
			cs = &models.CutoffStats{}
			cutoffLines[d.Cutoff] = cs
			cutoffDeliveries[d.Cutoff] = map[string]bool{}
			cutoffDP10Deliveries[d.Cutoff] = map[string]bool{}
		}
		cs.TotalHUs++
		if st.Picked {
			cs.PickedHUs++
		}
	}
	snap.HUSummary.Total = len(units)
	if len(units) > 0 {
		snap.HUSummary.AvgLinesPerHU = round2(float64(huLines) / float64(len(units)))
		snap.HUSummary.AvgItemsPerHU = round2(huItems / float64(len(units)))
	}

	for cutoff, cs := range cutoffLines {
		cs.TotalDeliveries = len(cutoffDeliveries[cutoff])
		cs.DP10Deliveries = len(cutoffDP10Deliveries[cutoff])
		snap.Cutoffs[cutoff] = *cs
	}
	for k, p := range vltyp {
		snap.VltypDist[k] = *p
	}
	for k, p := range kober {
		snap.KoberDist[k] = *p
	}
	if profile.ID == warehouse.WarehouseCVNS {
		snap.Floors = map[string]models.FloorStats{}
		for k, p := range floors {
			p.Total.Deliveries = len(floorDeliveries[k])
			p.Total.DP10Deliveries = len(floorDP10Deliveries[k])
			entry := models.FloorStats{DataPoint: *p}
			if fh := floorHUs[k]; fh != nil {
				entry.HUSummary = *fh
			}
			snap.Floors[k] = entry
		}
		// A floor can hold units without any open lines on it.
		for k, fh := range floorHUs {
			if _, ok := snap.Floors[k]; !ok {
				snap.Floors[k] = models.FloorStats{HUSummary: *fh}
			}
		}
	}

	return snap
}

// BuildClosedMetrics sums the B-flow deliveries issued on the target date.
func BuildClosedMetrics(in DashboardInput, flows *warehouse.FlowMap) models.ClosedMetrics {
	scoped := scopeDeliveries(in.Deliveries, flows)
	out := models.ClosedMetrics{Deliveries: len(scoped)}
	for _, l := range in.Lines {
		if _, ok := scoped[warehouse.NormalizeID(l.Delivery)]; !ok {
			continue
		}
		out.Lines++
		out.Items += l.Items
		out.Kg += l.Weight
		out.Vol += l.Volume
	}
	for _, u := range in.Units {
		if _, ok := scoped[warehouse.NormalizeID(u.Delivery)]; ok {
			out.HUs++
		}
	}
	return out
}

// BuildLineExports mirrors the filtered line rows the snapshot was built
// from, for the detailed drill-down view.
func BuildLineExports(in DashboardInput, profile warehouse.Profile, flows *warehouse.FlowMap) []models.LineExport {
	scoped := scopeDeliveries(in.Deliveries, flows)
	var out []models.LineExport
	for _, l := range in.Lines {
		d, ok := scoped[warehouse.NormalizeID(l.Delivery)]
		if !ok || !profile.QualifiesDashboard(l.SourceBin, l.SourceType) {
			continue
		}
		out = append(out, models.LineExport{
			Delivery:  l.Delivery,
			SourceBin: l.SourceBin,
			SourceTyp: l.SourceType,
			Priority:  d.Priority,
			Cutoff:    d.Cutoff,
			PickArea:  l.PickArea,
			ActualQty: l.ActualQty,
			Weight:    l.Weight,
			Volume:    l.Volume,
			Floor:     profile.FloorOf(l.SourceType),
			Flow:      flows.FlowOf(d.Route),
			IsPicked:  l.ConfirmedAt != nil,
		})
	}
	sort.SliceStable(out, func(a, b int) bool {
		ra, rb := priorityRank(out[a].Priority), priorityRank(out[b].Priority)
		if ra != rb {
			return ra < rb
		}
		return out[a].Cutoff < out[b].Cutoff
	})
	return out
}

// BuildHUExports mirrors the enriched unit rows, with the pick status and
// priority-group enrichment resolved.
func BuildHUExports(in DashboardInput, profile warehouse.Profile, flows *warehouse.FlowMap) []models.HUExport {
	scoped := scopeDeliveries(in.Deliveries, flows)

	var lines []models.WorkLine
	for _, l := range in.Lines {
		if _, ok := scoped[warehouse.NormalizeID(l.Delivery)]; !ok {
			continue
		}
		if profile.QualifiesDashboard(l.SourceBin, l.SourceType) {
			lines = append(lines, l)
		}
	}
	var units []models.HandlingUnit
	for _, u := range in.Units {
		if _, ok := scoped[warehouse.NormalizeID(u.Delivery)]; ok {
			units = append(units, u)
		}
	}
	status := ResolvePickStatus(units, lines)

	var out []models.HUExport
	for _, u := range units {
		d := scoped[warehouse.NormalizeID(u.Delivery)]
		st := status[warehouse.NormalizeID(u.External)]
		grouped, tag := GroupTagOf(u, in.Groups)
		out = append(out, models.HUExport{
			External:     u.External,
			Delivery:     u.Delivery,
			Priority:     d.Priority,
			Cutoff:       d.Cutoff,
			Floor:        profile.FloorOf(u.StorageType),
			Grouped:      grouped,
			GroupTag:     tag,
			PickInitUser: u.PickInitUser,
			LinesPerHU:   st.Lines,
			ItemsPerHU:   st.Items,
			IsPicked:     st.Picked,
		})
	}
	sort.SliceStable(out, func(a, b int) bool {
		ra, rb := priorityRank(out[a].Priority), priorityRank(out[b].Priority)
		if ra != rb {
			return ra < rb
		}
		return out[a].Cutoff < out[b].Cutoff
	})
	return out
}

// priorityRank orders priority codes numerically after normalization, so
// "9" comes before "10" and "010" ties with "10". Non-numeric codes sort
// last.
func priorityRank(p string) int {
	n, err := strconv.Atoi(warehouse.NormalizePriority(p))
	if err != nil {
		return math.MaxInt32
	}
	return n
}

func scopeDeliveries(deliveries []models.Delivery, flows *warehouse.FlowMap) map[string]models.Delivery {
	out := map[string]models.Delivery{}
	for _, d := range deliveries {
		if flows.FlowOf(d.Route) == warehouse.FlowB {
			out[warehouse.NormalizeID(d.ID)] = d
		}
	}
	return out
}

func point(m map[string]*models.DataPoint, key string) *models.DataPoint {
	p := m[key]
	if p == nil {
		p = &models.DataPoint{}
		m[key] = p
	}
	return p
}

func addPoint(p *models.DataPoint, l models.WorkLine, picked bool) {
	addSet(&p.Total, l)
	if picked {
		addSet(&p.Picked, l)
	} else {
		addSet(&p.NotPicked, l)
	}
}

func addSet(m *models.MetricSet, l models.WorkLine) {
	m.Lines++
	m.Items += l.Items
	m.Kg += l.Weight
	m.Vol += l.Volume
}
