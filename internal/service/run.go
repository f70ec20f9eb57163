package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/warehouse_pulse/backend/internal/db"
	"github.com/warehouse_pulse/backend/internal/export"
	"github.com/warehouse_pulse/backend/internal/models"
	"github.com/warehouse_pulse/backend/internal/warehouse"
)

const (
	StatusOK       = "OK"
	StatusDegraded = "DEGRADED"
	StatusFailed   = "FAILED"
)

// prefixFor maps a warehouse id to its artifact name prefix.
var prefixFor = map[string]string{
	warehouse.WarehouseMS:   "ms",
	warehouse.WarehouseCVNS: "cvns",
}

var scenarioSuffix = map[string]string{
	"today":   "",
	"backlog": "_backlog",
	"future":  "_future",
}

type ExtractionService struct {
	Store  *db.Store
	Out    *export.Writer
	Flows  *warehouse.FlowMap
	Logger zerolog.Logger
}

type RunSummary struct {
	TargetDate string           `json:"target_date"`
	Events     []map[string]any `json:"events"`
	Counts     map[string]any   `json:"counts"`
}

// Run executes one full extraction for the target date: picking stats,
// packing stats and the dashboard snapshots for both warehouses. A failing
// scenario is recorded and skipped; only an unreachable source aborts the
// whole run.
func (s *ExtractionService) Run(ctx context.Context, targetDate string) (RunSummary, string, error) {
	summary := RunSummary{TargetDate: targetDate, Counts: map[string]any{}}
	if err := s.Store.Ping(ctx); err != nil {
		return summary, StatusFailed, err
	}

	degraded := false
	fail := func(scope string, err error) {
		degraded = true
		s.Logger.Error().Err(err).Str("scope", scope).Msg("scenario failed")
		summary.Events = append(summary.Events, map[string]any{
			"type": "error", "scope": scope, "error": err.Error(), "time": time.Now().UTC(),
		})
	}

	if s.Flows.Len() == 0 {
		summary.Events = append(summary.Events, map[string]any{
			"type": "warning", "message": "route map empty, flows will be unknown", "time": time.Now().UTC(),
		})
	}

	s.runPicking(ctx, targetDate, &summary, fail)
	s.runPacking(ctx, targetDate, &summary, fail)
	s.runDashboards(ctx, targetDate, &summary, fail)

	status := StatusOK
	if degraded {
		status = StatusDegraded
	}
	return summary, status, nil
}

func (s *ExtractionService) runPicking(ctx context.Context, targetDate string, summary *RunSummary, fail func(string, error)) {
	lines, err := s.Store.FetchPickLines(ctx, targetDate)
	if err != nil {
		fail("picking", err)
		return
	}
	if len(lines) == 0 {
		summary.Events = append(summary.Events, map[string]any{
			"type": "picking", "message": "no lines for date", "time": time.Now().UTC(),
		})
		return
	}

	seen := map[string]bool{}
	var deliveries []string
	for _, l := range lines {
		if !seen[l.Delivery] {
			seen[l.Delivery] = true
			deliveries = append(deliveries, l.Delivery)
		}
	}
	routes, err := s.Store.FetchRoutes(ctx, deliveries)
	if err != nil {
		fail("picking", err)
		return
	}

	for id, profile := range warehouse.Profiles() {
		var whLines []models.WorkLine
		for _, l := range lines {
			if l.Warehouse == id {
				whLines = append(whLines, l)
			}
		}
		hourly, daily := BuildPickingStats(whLines, profile, s.Flows, routes)
		prefix := prefixFor[id]
		if len(hourly) == 0 {
			summary.Events = append(summary.Events, map[string]any{
				"type": "picking", "warehouse": prefix, "message": "no qualifying rows", "time": time.Now().UTC(),
			})
			continue
		}
		if err := s.Out.WritePickingStats(prefix, hourly, daily); err != nil {
			fail("picking/"+prefix, err)
			continue
		}
		summary.Counts[prefix+"_picking_hourly_rows"] = len(hourly)
		summary.Counts[prefix+"_picking_daily_rows"] = len(daily)
		summary.Events = append(summary.Events, map[string]any{
			"type": "picking", "warehouse": prefix, "hourly": len(hourly), "daily": len(daily), "time": time.Now().UTC(),
		})
	}
}

func (s *ExtractionService) runPacking(ctx context.Context, targetDate string, summary *RunSummary, fail func(string, error)) {
	from := targetDate
	if t, err := time.Parse("2006-01-02", targetDate); err == nil {
		from = t.AddDate(0, 0, -AttributionLookbackDays).Format("2006-01-02")
	}

	for id, profile := range warehouse.Profiles() {
		prefix := prefixFor[id]
		events, err := s.Store.FetchPackEvents(ctx, id, from, targetDate)
		if err != nil {
			fail("packing/"+prefix, err)
			continue
		}
		attributed := ResolveAttribution(events, targetDate)
		if len(attributed) == 0 {
			summary.Events = append(summary.Events, map[string]any{
				"type": "packing", "warehouse": prefix, "message": "no attributed boxes", "time": time.Now().UTC(),
			})
			continue
		}
		hourly, daily := BuildPackingStats(attributed, profile, s.Flows)
		if err := s.Out.WritePackingStats(prefix, hourly, daily); err != nil {
			fail("packing/"+prefix, err)
			continue
		}
		summary.Counts[prefix+"_boxes_attributed"] = len(attributed)
		summary.Events = append(summary.Events, map[string]any{
			"type": "packing", "warehouse": prefix, "boxes": len(attributed), "hourly": len(hourly), "time": time.Now().UTC(),
		})
	}
}

func (s *ExtractionService) runDashboards(ctx context.Context, targetDate string, summary *RunSummary, fail func(string, error)) {
	groups, err := s.Store.FetchPriorityGroups(ctx)
	if err != nil {
		// Degraded mode: every unit reads as not grouped.
		summary.Events = append(summary.Events, map[string]any{
			"type": "warning", "message": "priority groups unavailable", "error": err.Error(), "time": time.Now().UTC(),
		})
		groups = nil
	}

	for id, profile := range warehouse.Profiles() {
		prefix := prefixFor[id]
		for scenario, suffix := range scenarioSuffix {
			scope := "dashboard/" + prefix + "/" + scenario
			in, err := s.fetchDashboardInput(ctx, id, scenario, targetDate)
			if err != nil {
				fail(scope, err)
				continue
			}
			in.Groups = groups

			var closed *DashboardInput
			if scenario == "today" && len(in.Deliveries) > 0 {
				c, err := s.fetchDashboardInput(ctx, id, "closed", targetDate)
				if err != nil {
					fail(scope+"/closed", err)
				} else {
					closed = &c
				}
			}
			s.writeDashboardScenario(prefix, scenario, suffix, in, closed, profile, summary, fail)
		}
	}
}

// writeDashboardScenario builds and writes the three artifacts for one
// warehouse/scenario slice. An empty slice produces no artifacts, only an
// event, so stale files from a previous run are not overwritten with zeros.
func (s *ExtractionService) writeDashboardScenario(prefix, scenario, suffix string, in DashboardInput, closed *DashboardInput, profile warehouse.Profile, summary *RunSummary, fail func(string, error)) {
	scope := "dashboard/" + prefix + "/" + scenario
	if len(in.Deliveries) == 0 {
		summary.Events = append(summary.Events, map[string]any{
			"type": "dashboard", "warehouse": prefix, "scenario": scenario,
			"message": "no deliveries for scenario", "time": time.Now().UTC(),
		})
		return
	}

	snap := BuildSnapshot(in, profile, s.Flows)
	if closed != nil {
		cm := BuildClosedMetrics(*closed, s.Flows)
		snap.ClosedToday = &cm
	}

	if err := s.Out.WriteJSON("dashboard_data_"+prefix+suffix+".json", snap); err != nil {
		fail(scope, err)
		return
	}
	if err := s.Out.WriteJSON("dashboard_lines_"+prefix+suffix+".json", BuildLineExports(in, profile, s.Flows)); err != nil {
		fail(scope, err)
		return
	}
	if err := s.Out.WriteJSON("dashboard_hu_"+prefix+suffix+".json", BuildHUExports(in, profile, s.Flows)); err != nil {
		fail(scope, err)
		return
	}
	summary.Events = append(summary.Events, map[string]any{
		"type": "dashboard", "warehouse": prefix, "scenario": scenario,
		"open_deliveries": snap.OpenDeliveries, "open_hus": snap.OpenHUs, "time": time.Now().UTC(),
	})
}

func (s *ExtractionService) fetchDashboardInput(ctx context.Context, warehouseID, scenario, targetDate string) (DashboardInput, error) {
	deliveries, err := s.Store.FetchDeliveries(ctx, warehouseID, scenario, targetDate)
	if err != nil {
		return DashboardInput{}, err
	}
	if len(deliveries) == 0 {
		return DashboardInput{}, nil
	}
	ids := make([]string, 0, len(deliveries))
	for _, d := range deliveries {
		ids = append(ids, d.ID)
	}
	lines, err := s.Store.FetchLinesForDeliveries(ctx, ids)
	if err != nil {
		return DashboardInput{}, err
	}
	units, err := s.Store.FetchHUsForDeliveries(ctx, ids)
	if err != nil {
		return DashboardInput{}, err
	}
	return DashboardInput{Deliveries: deliveries, Lines: lines, Units: units}, nil
}

// UserHistory computes the per-worker history variant for one warehouse and
// activity.
func (s *ExtractionService) UserHistory(ctx context.Context, worker, warehouseID, activity string) ([]models.UserDayStat, error) {
	profile, ok := warehouse.Profiles()[warehouseID]
	if !ok {
		profile = warehouse.Profile{ID: warehouseID}
	}
	if activity == "packing" {
		events, err := s.Store.FetchUserPackEvents(ctx, worker, warehouseID, HistorySince)
		if err != nil {
			return nil, err
		}
		return BuildUserPackHistory(events), nil
	}
	lines, err := s.Store.FetchUserPickLines(ctx, worker, warehouseID, HistorySince)
	if err != nil {
		return nil, err
	}
	return BuildUserPickHistory(lines, profile), nil
}
