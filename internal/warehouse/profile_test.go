package warehouse

import "testing"

func TestFloorOfMSAlwaysGround(t *testing.T) {
	p := Profiles()[WarehouseMS]
	for _, typ := range []string{"LO2", "S12", "ZZZ", ""} {
		if got := p.FloorOf(typ); got != FloorGround {
			t.Fatalf("MS floor for %q = %s, want ground_floor", typ, got)
		}
	}
}

func TestFloorOfCVNSLookup(t *testing.T) {
	p := Profiles()[WarehouseCVNS]
	cases := map[string]string{
		"LO2": FloorGround,
		"S12": FloorFirst,
		"B24": FloorSecond,
		"ZZZ": FloorUnknown,
		"":    FloorUnknown,
	}
	for typ, want := range cases {
		if got := p.FloorOf(typ); got != want {
			t.Fatalf("CVNS floor for %q = %s, want %s", typ, got, want)
		}
	}
}

func TestFloorOfDeterministic(t *testing.T) {
	p := Profiles()[WarehouseCVNS]
	if p.FloorOf("NE4") != p.FloorOf("NE4") {
		t.Fatalf("classification must be a pure function of the code")
	}
}

func TestQualifiesCVNSExclusionAfterInclusion(t *testing.T) {
	p := Profiles()[WarehouseCVNS]
	if !p.Qualifies("L01-02-03") {
		t.Fatalf("L-prefixed bin should qualify for CVNS")
	}
	// LONGGOODS starts with L (included) but matches an exclusion prefix.
	if p.Qualifies("LONGGOODS-01") {
		t.Fatalf("LONGGOODS bin must be excluded")
	}
	if p.Qualifies("YES-STAGE") || p.Qualifies("NO-STAGE") {
		t.Fatalf("YES/NO staging bins must be excluded")
	}
	if p.Qualifies("B01-01") {
		t.Fatalf("B bins belong to MS, not CVNS")
	}
}

func TestQualifiesMS(t *testing.T) {
	p := Profiles()[WarehouseMS]
	for _, bin := range []string{"B01", "C12-04", "E99"} {
		if !p.Qualifies(bin) {
			t.Fatalf("bin %q should qualify for MS", bin)
		}
	}
	if p.Qualifies("L01") || p.Qualifies("") {
		t.Fatalf("non-MS bins must not qualify")
	}
}

func TestQualifiesDashboardExcludesStorageType(t *testing.T) {
	ms := Profiles()[WarehouseMS]
	if ms.QualifiesDashboard("B01", "922") {
		t.Fatalf("storage type 922 is excluded on the MS dashboard path")
	}
	if !ms.QualifiesDashboard("B01", "100") {
		t.Fatalf("other storage types keep the bin filter result")
	}
	// The stats path ignores the storage type entirely.
	if !ms.Qualifies("B01") {
		t.Fatalf("stats path must not apply the 922 exclusion")
	}
	cvns := Profiles()[WarehouseCVNS]
	if !cvns.QualifiesDashboard("L01", "922") {
		t.Fatalf("the 922 exclusion is MS-only")
	}
}

func TestBaseEffort(t *testing.T) {
	cases := map[int]float64{10: 0.75, 11: 0.50, 13: 0.75, 17: 0.75, 19: 0.50, 21: 0.75, 9: 1.0, 0: 1.0, UnknownHour: 1.0}
	for hour, want := range cases {
		if got := BaseEffort(hour); got != want {
			t.Fatalf("BaseEffort(%d) = %v, want %v", hour, got, want)
		}
	}
}
