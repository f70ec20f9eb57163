package service

import (
	"errors"
	"os"
	"testing"

	"github.com/rs/zerolog"

	"github.com/warehouse_pulse/backend/internal/export"
	"github.com/warehouse_pulse/backend/internal/models"
	"github.com/warehouse_pulse/backend/internal/warehouse"
)

func testExtractor(t *testing.T) *ExtractionService {
	t.Helper()
	out, err := export.NewWriter(t.TempDir())
	if err != nil {
		t.Fatalf("writer: %v", err)
	}
	return &ExtractionService{Out: out, Flows: testFlows(t, "RB,B-flow\n"), Logger: zerolog.Nop()}
}

func TestWriteDashboardScenarioEmptySlice(t *testing.T) {
	s := testExtractor(t)
	summary := RunSummary{Counts: map[string]any{}}
	fail := func(scope string, err error) { t.Fatalf("unexpected failure %s: %v", scope, err) }

	s.writeDashboardScenario("ms", "backlog", "_backlog", DashboardInput{}, nil, warehouse.Profiles()[warehouse.WarehouseMS], &summary, fail)

	if len(summary.Events) != 1 {
		t.Fatalf("expected one event, got %d", len(summary.Events))
	}
	ev := summary.Events[0]
	if ev["message"] != "no deliveries for scenario" || ev["scenario"] != "backlog" {
		t.Fatalf("unexpected event: %v", ev)
	}
	if _, err := s.Out.ReadJSONRaw("dashboard_data_ms_backlog.json"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("empty slice must not write artifacts, read err = %v", err)
	}
}

func TestWriteDashboardScenarioWritesArtifacts(t *testing.T) {
	s := testExtractor(t)
	summary := RunSummary{Counts: map[string]any{}}
	fail := func(scope string, err error) { t.Fatalf("unexpected failure %s: %v", scope, err) }

	in := DashboardInput{
		Deliveries: []models.Delivery{{ID: "D1", Route: "RB", Priority: "10", Cutoff: "12:00"}},
		Lines:      []models.WorkLine{{Delivery: "D1", SourceBin: "B01-01", Items: 1}},
	}
	closed := DashboardInput{Deliveries: []models.Delivery{{ID: "D9", Route: "RB"}}}
	s.writeDashboardScenario("ms", "today", "", in, &closed, warehouse.Profiles()[warehouse.WarehouseMS], &summary, fail)

	for _, name := range []string{"dashboard_data_ms.json", "dashboard_lines_ms.json", "dashboard_hu_ms.json"} {
		if _, err := s.Out.ReadJSONRaw(name); err != nil {
			t.Fatalf("artifact %s missing: %v", name, err)
		}
	}
	if len(summary.Events) != 1 || summary.Events[0]["open_deliveries"] != 1 {
		t.Fatalf("unexpected events: %v", summary.Events)
	}
}
