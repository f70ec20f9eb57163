package export

import (
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/warehouse_pulse/backend/internal/models"
)

func TestWritePickingStatsRoundTrip(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	hourly := []models.HourlyStat{{
		Worker: "W1", Date: "2026-02-02", Hour: 10, Flow: "A-flow", Floor: "ground_floor",
		Lines: 2, Items: 6, Weight: 3.5, Ratio: 3, Effort: 0.38,
		WeightIntensity: 1.25, ItemIntensity: 1, Productivity: 5.33,
	}}
	daily := []models.DailyStat{{
		Worker: "W1", Date: "2026-02-02", Flow: "A-flow", Floor: "ground_floor",
		Lines: 2, Items: 6, Weight: 3.5, Ratio: 3, Effort: 0.38,
		WeightIntensity: 1.25, ItemIntensity: 1, Productivity: 5.26,
	}}
	if err := w.WritePickingStats("ms", hourly, daily); err != nil {
		t.Fatalf("write: %v", err)
	}

	rows, err := w.ReadCSV("ms_hourly_stats.csv")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row["QNAME"] != "W1" || row["HOUR"] != 10 {
		t.Fatalf("identity cells wrong: %v", row)
	}
	if row["LINES_PICKED"] != 2 {
		t.Fatalf("LINES_PICKED = %v (%T), want int 2", row["LINES_PICKED"], row["LINES_PICKED"])
	}
	if row["EFFORT"] != 0.38 || row["PRODUCTIVITY"] != 5.33 {
		t.Fatalf("numeric cells wrong: %v", row)
	}

	dailyRows, err := w.ReadCSV("ms_daily_stats.csv")
	if err != nil {
		t.Fatalf("read daily: %v", err)
	}
	if _, ok := dailyRows[0]["HOUR"]; ok {
		t.Fatal("daily file must not carry an HOUR column")
	}
	if dailyRows[0]["PRODUCTIVITY"] != 5.26 {
		t.Fatalf("daily productivity = %v", dailyRows[0]["PRODUCTIVITY"])
	}
}

func TestWritePackingStatsFiles(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	hourly := []models.PackHourlyStat{{Worker: "W1", Date: "2026-02-02", Hour: 14, Flow: "B-flow", Floor: "ground_floor", Boxes: 3, Effort: 1, Productivity: 3}}
	daily := []models.PackDailyStat{{Worker: "W1", Date: "2026-02-02", Flow: "B-flow", Floor: "ground_floor", Boxes: 3, Effort: 1, Productivity: 3}}
	if err := w.WritePackingStats("cvns", hourly, daily); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows, err := w.ReadCSV("cvns_packing_hourly_stats.csv")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if rows[0]["BOXES_PACKED"] != 3 {
		t.Fatalf("BOXES_PACKED = %v", rows[0]["BOXES_PACKED"])
	}
	if _, err := w.ReadCSV("cvns_packing_daily_stats.csv"); err != nil {
		t.Fatalf("daily file missing: %v", err)
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	snap := models.Snapshot{OpenDeliveries: 7, Priorities: map[string]int{"10": 3}}
	if err := w.WriteJSON("dashboard_data_ms.json", snap); err != nil {
		t.Fatalf("write: %v", err)
	}
	raw, err := w.ReadJSONRaw("dashboard_data_ms.json")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got models.Snapshot
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.OpenDeliveries != 7 || got.Priorities["10"] != 3 {
		t.Fatalf("round trip lost data: %+v", got)
	}
}

func TestReadJSONRawMissingFile(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	_, err = w.ReadJSONRaw("dashboard_data_ms_backlog.json")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}
