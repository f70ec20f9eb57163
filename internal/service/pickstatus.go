package service

import (
	"github.com/warehouse_pulse/backend/internal/models"
	"github.com/warehouse_pulse/backend/internal/warehouse"
)

// priorityGroupIDWidth is the fixed width the group lookup keys its unit
// numbers at.
const priorityGroupIDWidth = 20

// HUStatus is the derived completion state of one handling unit.
type HUStatus struct {
	Picked bool
	Lines  int
	Items  float64
}

// ResolvePickStatus joins handling units to transfer-order lines on the
// normalized transfer-order number and ANDs the lines' completion flags. A
// unit with no joined lines is never picked; data absence is not completion.
func ResolvePickStatus(units []models.HandlingUnit, lines []models.WorkLine) map[string]HUStatus {
	type toAgg struct {
		Lines  int
		Items  float64
		Open   int
	}
	byOrder := map[string]*toAgg{}
	for _, l := range lines {
		key := warehouse.NormalizeID(l.TransferOrder)
		if key == "" {
			continue
		}
		agg := byOrder[key]
		if agg == nil {
			agg = &toAgg{}
			byOrder[key] = agg
		}
		agg.Lines++
		agg.Items += l.Items
		if l.ConfirmedAt == nil {
			agg.Open++
		}
	}

	out := map[string]HUStatus{}
	for _, u := range units {
		st := HUStatus{}
		if agg, ok := byOrder[warehouse.NormalizeID(u.TransferOrder)]; ok && agg.Lines > 0 {
			st.Lines = agg.Lines
			st.Items = agg.Items
			st.Picked = agg.Open == 0
		}
		out[warehouse.NormalizeID(u.External)] = st
	}
	return out
}

// GroupTagOf looks a unit up in the priority-group table by its padded
// internal number. A missing table or a miss means "not grouped", never an
// error.
func GroupTagOf(unit models.HandlingUnit, groups map[string]string) (string, string) {
	if groups == nil {
		return "NOT OK", ""
	}
	key := warehouse.PadID(warehouse.NormalizeID(unit.Internal), priorityGroupIDWidth)
	if tag, ok := groups[key]; ok {
		return "OK", tag
	}
	return "NOT OK", ""
}
