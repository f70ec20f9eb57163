package service

import (
	"testing"

	"github.com/warehouse_pulse/backend/internal/models"
	"github.com/warehouse_pulse/backend/internal/warehouse"
)

func bflowInput() DashboardInput {
	return DashboardInput{
		Deliveries: []models.Delivery{
			{ID: "D1", Route: "RB", Priority: "010", Cutoff: "12:00"},
			{ID: "D2", Route: "RB", Priority: "020", Cutoff: "16:00"},
			{ID: "D3", Route: "RA", Priority: "010", Cutoff: "12:00"},
		},
		Lines: []models.WorkLine{
			{Delivery: "D1", SourceBin: "B01-01", SourceType: "110", PickArea: "K1", Items: 2, Weight: 5, ConfirmedAt: confirmed()},
			{Delivery: "D1", SourceBin: "B01-02", SourceType: "110", PickArea: "K1", Items: 1, Weight: 2},
			{Delivery: "D2", SourceBin: "C02-01", SourceType: "120", PickArea: "K2", Items: 4, Weight: 8},
			{Delivery: "D3", SourceBin: "B01-03", SourceType: "110", PickArea: "K1", Items: 9, Weight: 9},
		},
		Units: []models.HandlingUnit{
			{External: "HU1", Internal: "1", Delivery: "D1", TransferOrder: "T1"},
			{External: "HU2", Internal: "2", Delivery: "D3", TransferOrder: "T2"},
		},
	}
}

func TestBuildSnapshotScopesToBFlow(t *testing.T) {
	flows := testFlows(t, "RB,B-flow\nRA,A-flow\n")
	profile := warehouse.Profiles()[warehouse.WarehouseMS]
	snap := BuildSnapshot(bflowInput(), profile, flows)

	if snap.OpenDeliveries != 2 {
		t.Fatalf("open deliveries = %d, want 2 (D3 is A-flow)", snap.OpenDeliveries)
	}
	if snap.OpenHUs != 1 {
		t.Fatalf("open HUs = %d, want 1", snap.OpenHUs)
	}
	// D3's line must not leak into the summary.
	if snap.Summary.Total.Lines != 3 {
		t.Fatalf("summary lines = %d, want 3", snap.Summary.Total.Lines)
	}
	if snap.Summary.Picked.Lines != 1 || snap.Summary.NotPicked.Lines != 2 {
		t.Fatalf("picked/not = %d/%d, want 1/2", snap.Summary.Picked.Lines, snap.Summary.NotPicked.Lines)
	}
}

func TestBuildSnapshotPrioritiesAndCutoffs(t *testing.T) {
	flows := testFlows(t, "RB,B-flow\n")
	profile := warehouse.Profiles()[warehouse.WarehouseMS]
	snap := BuildSnapshot(bflowInput(), profile, flows)

	if snap.Priorities["10"] != 2 || snap.Priorities["20"] != 1 {
		t.Fatalf("priorities = %v, want stripped keys 10:2 20:1", snap.Priorities)
	}
	cs, ok := snap.Cutoffs["12:00"]
	if !ok {
		t.Fatalf("cutoffs missing 12:00: %v", snap.Cutoffs)
	}
	if cs.TotalLines != 2 || cs.PickedLines != 1 || cs.TotalDeliveries != 1 {
		t.Fatalf("12:00 cutoff = %+v", cs)
	}
	if cs.DP10Lines != 2 || cs.DP10Deliveries != 1 {
		t.Fatalf("DP10 counters = %d/%d, want 2/1", cs.DP10Lines, cs.DP10Deliveries)
	}
	if cs.TotalHUs != 1 {
		t.Fatalf("12:00 HUs = %d, want 1", cs.TotalHUs)
	}
}

func TestBuildSnapshotExcludesDashboardOnlyStorageType(t *testing.T) {
	flows := testFlows(t, "RB,B-flow\n")
	profile := warehouse.Profiles()[warehouse.WarehouseMS]
	in := bflowInput()
	in.Lines = append(in.Lines, models.WorkLine{Delivery: "D1", SourceBin: "B09-01", SourceType: "922", Items: 100})
	snap := BuildSnapshot(in, profile, flows)
	if snap.Summary.Total.Lines != 3 {
		t.Fatalf("922 storage must not count on the dashboard, lines = %d", snap.Summary.Total.Lines)
	}
}

func TestBuildSnapshotFloorsOnlyForCVNS(t *testing.T) {
	flows := testFlows(t, "RB,B-flow\n")

	ms := BuildSnapshot(bflowInput(), warehouse.Profiles()[warehouse.WarehouseMS], flows)
	if ms.Floors != nil {
		t.Fatal("MS snapshot must not carry a floors section")
	}

	in := DashboardInput{
		Deliveries: []models.Delivery{{ID: "D1", Route: "RB", Priority: "10"}},
		Lines: []models.WorkLine{
			{Delivery: "D1", SourceBin: "L01", SourceType: "LO2", Items: 1},
			{Delivery: "D1", SourceBin: "L02", SourceType: "999", Items: 1},
		},
	}
	cvns := BuildSnapshot(in, warehouse.Profiles()[warehouse.WarehouseCVNS], flows)
	if cvns.Floors == nil {
		t.Fatal("CVNS snapshot must carry a floors section")
	}
	if cvns.Summary.Total.Lines != 2 {
		t.Fatalf("unknown floor keeps its totals, lines = %d", cvns.Summary.Total.Lines)
	}
	total := 0
	for floor, p := range cvns.Floors {
		if floor == warehouse.FloorUnknown {
			t.Fatal("floors section must not carry an unknown key")
		}
		total += p.Total.Lines
	}
	if total != 1 {
		t.Fatalf("floor-attributed lines = %d, want 1", total)
	}
}

func TestBuildSnapshotFloorBreakdownCarriesDP10AndHUs(t *testing.T) {
	flows := testFlows(t, "RB,B-flow\n")
	profile := warehouse.Profiles()[warehouse.WarehouseCVNS]
	in := DashboardInput{
		Deliveries: []models.Delivery{{ID: "D1", Route: "RB", Priority: "010", Cutoff: "12:00"}},
		Lines: []models.WorkLine{
			{Delivery: "D1", SourceBin: "L01", SourceType: "LO2", TransferOrder: "T1", Items: 2, ConfirmedAt: confirmed()},
			{Delivery: "D1", SourceBin: "L02", SourceType: "LO2", TransferOrder: "T1", Items: 3},
		},
		Units: []models.HandlingUnit{
			{External: "HU1", Internal: "1", Delivery: "D1", TransferOrder: "T1", StorageType: "LO2"},
			{External: "HU2", Internal: "2", Delivery: "D1", TransferOrder: "T9", StorageType: "S12"},
		},
	}
	snap := BuildSnapshot(in, profile, flows)

	ground, ok := snap.Floors[warehouse.FloorGround]
	if !ok {
		t.Fatalf("floors = %v, want a ground_floor entry", snap.Floors)
	}
	if ground.Total.Lines != 2 || ground.Total.DP10Lines != 2 {
		t.Fatalf("ground lines/dp10 = %d/%d, want 2/2", ground.Total.Lines, ground.Total.DP10Lines)
	}
	if ground.Total.Deliveries != 1 || ground.Total.DP10Deliveries != 1 {
		t.Fatalf("ground deliveries/dp10 = %d/%d, want 1/1", ground.Total.Deliveries, ground.Total.DP10Deliveries)
	}
	// HU1's order still has an open line.
	if ground.HUSummary.Total != 1 || ground.HUSummary.Picked != 0 || ground.HUSummary.NotPicked != 1 {
		t.Fatalf("ground hu summary = %+v", ground.HUSummary)
	}

	// HU2 sits on the first floor where no open line lives.
	first, ok := snap.Floors[warehouse.FloorFirst]
	if !ok {
		t.Fatalf("a floor holding only units must still appear: %v", snap.Floors)
	}
	if first.Total.Lines != 0 || first.HUSummary.Total != 1 {
		t.Fatalf("first floor = %+v", first)
	}
}

func TestBuildClosedMetrics(t *testing.T) {
	flows := testFlows(t, "RB,B-flow\nRA,A-flow\n")
	in := bflowInput()
	got := BuildClosedMetrics(in, flows)
	if got.Deliveries != 2 {
		t.Fatalf("closed deliveries = %d, want 2", got.Deliveries)
	}
	if got.Lines != 3 || got.Items != 7 || got.Kg != 15 {
		t.Fatalf("closed totals = %+v", got)
	}
	if got.HUs != 1 {
		t.Fatalf("closed HUs = %d, want 1", got.HUs)
	}
}

func TestBuildLineExportsSortsByPriorityThenCutoff(t *testing.T) {
	flows := testFlows(t, "RB,B-flow\n")
	profile := warehouse.Profiles()[warehouse.WarehouseMS]
	out := BuildLineExports(bflowInput(), profile, flows)
	if len(out) != 3 {
		t.Fatalf("line exports = %d, want 3", len(out))
	}
	for i := 1; i < len(out); i++ {
		a, b := warehouse.NormalizePriority(out[i-1].Priority), warehouse.NormalizePriority(out[i].Priority)
		if a > b {
			t.Fatalf("exports out of priority order at %d: %s > %s", i, a, b)
		}
	}
	picked := 0
	for _, l := range out {
		if l.IsPicked {
			picked++
		}
	}
	if picked != 1 {
		t.Fatalf("picked exports = %d, want 1", picked)
	}
}

func TestBuildLineExportsOrdersPrioritiesNumerically(t *testing.T) {
	flows := testFlows(t, "RB,B-flow\n")
	profile := warehouse.Profiles()[warehouse.WarehouseMS]
	in := DashboardInput{
		Deliveries: []models.Delivery{
			{ID: "D1", Route: "RB", Priority: "10", Cutoff: "12:00"},
			{ID: "D2", Route: "RB", Priority: "9", Cutoff: "16:00"},
			{ID: "D3", Route: "RB", Priority: "010", Cutoff: "08:00"},
		},
		Lines: []models.WorkLine{
			{Delivery: "D1", SourceBin: "B01-01", Items: 1},
			{Delivery: "D2", SourceBin: "B01-02", Items: 1},
			{Delivery: "D3", SourceBin: "B01-03", Items: 1},
		},
	}
	out := BuildLineExports(in, profile, flows)
	if len(out) != 3 {
		t.Fatalf("line exports = %d, want 3", len(out))
	}
	if out[0].Priority != "9" {
		t.Fatalf("priority 9 must sort before 10, got %s first", out[0].Priority)
	}
	// "010" and "10" are the same priority, so the cutoff decides.
	if out[1].Cutoff != "08:00" || out[2].Cutoff != "12:00" {
		t.Fatalf("equal priorities must order by cutoff, got %s then %s", out[1].Cutoff, out[2].Cutoff)
	}
}

func TestBuildHUExportsEnrichment(t *testing.T) {
	flows := testFlows(t, "RB,B-flow\n")
	profile := warehouse.Profiles()[warehouse.WarehouseMS]
	in := bflowInput()
	in.Lines = append(in.Lines, models.WorkLine{Delivery: "D1", SourceBin: "B05-01", SourceType: "110", TransferOrder: "T1", Items: 6, ConfirmedAt: confirmed()})
	in.Groups = map[string]string{warehouse.PadID("1", 20): "GRP-X"}

	out := BuildHUExports(in, profile, flows)
	if len(out) != 1 {
		t.Fatalf("HU exports = %d, want 1 (HU2 is on an A-flow delivery)", len(out))
	}
	hu := out[0]
	if hu.External != "HU1" || !hu.IsPicked {
		t.Fatalf("HU1 with its one confirmed line must be picked: %+v", hu)
	}
	if hu.LinesPerHU != 1 || hu.ItemsPerHU != 6 {
		t.Fatalf("per-HU line stats = %d/%v", hu.LinesPerHU, hu.ItemsPerHU)
	}
	if hu.Grouped != "OK" || hu.GroupTag != "GRP-X" {
		t.Fatalf("group enrichment = %q/%q", hu.Grouped, hu.GroupTag)
	}
}
