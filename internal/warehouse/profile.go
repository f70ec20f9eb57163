package warehouse

import "strings"

const (
	WarehouseMS   = "245"
	WarehouseCVNS = "266"

	FloorGround  = "ground_floor"
	FloorFirst   = "first_floor"
	FloorSecond  = "second_floor"
	FloorUnknown = "unknown_floor"

	FlowUnknown = "unknown_flow"
	FlowA       = "A-flow"
	FlowB       = "B-flow"
	FlowY2      = "Y2-flow"
)

var (
	cvnsBinPrefixes        = []string{"L", "F", "X", "N", "O", "Y", "W"}
	cvnsBinExcludePrefixes = []string{"YES", "NO", "LONGGOODS", "NCS", "OSO"}
	msBinPrefixes          = []string{"B", "C", "D", "V", "E"}
)

// msDashboardExcludedType is dropped from MS dashboard extraction only; the
// picking stats path still counts lines from it.
const msDashboardExcludedType = "922"

// Profile bundles the per-warehouse classification rules so that the
// aggregation code never branches on the warehouse id itself.
type Profile struct {
	ID string
}

// Profiles returns the two live sites keyed by warehouse id.
func Profiles() map[string]Profile {
	return map[string]Profile{
		WarehouseMS:   {ID: WarehouseMS},
		WarehouseCVNS: {ID: WarehouseCVNS},
	}
}

// FloorOf maps a storage-type code to a floor label. MS is a single-level
// site; CVNS floors come from the static storage-type table.
func (p Profile) FloorOf(storageType string) string {
	if p.ID == WarehouseMS {
		return FloorGround
	}
	if f, ok := floorByStorageType[strings.TrimSpace(storageType)]; ok {
		return f
	}
	return FloorUnknown
}

// Qualifies reports whether a source-bin code counts as real pick activity.
// The CVNS exclusion list is checked after the inclusion list; both are
// prefix matches.
func (p Profile) Qualifies(bin string) bool {
	bin = strings.TrimSpace(bin)
	if p.ID == WarehouseMS {
		return hasAnyPrefix(bin, msBinPrefixes)
	}
	if !hasAnyPrefix(bin, cvnsBinPrefixes) {
		return false
	}
	return !hasAnyPrefix(bin, cvnsBinExcludePrefixes)
}

// QualifiesDashboard applies the dashboard-path filter, which for MS also
// drops one storage type.
func (p Profile) QualifiesDashboard(bin, storageType string) bool {
	if p.ID == WarehouseMS && strings.TrimSpace(storageType) == msDashboardExcludedType {
		return false
	}
	return p.Qualifies(bin)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
