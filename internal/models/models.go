package models

import "time"

// WorkLine is one transfer-order line mirrored from the warehouse system.
// ConfirmedAt is nil while the line is still waiting to be picked.
type WorkLine struct {
	Warehouse     string     `json:"lgnum"`
	TransferOrder string     `json:"tanum"`
	Delivery      string     `json:"vbeln"`
	SourceType    string     `json:"vltyp"`
	SourceBin     string     `json:"vlpla"`
	DestBin       string     `json:"nlpla"`
	PickArea      string     `json:"kober"`
	Worker        string     `json:"qname"`
	ConfirmDate   string     `json:"qdatu"`
	ConfirmTime   string     `json:"qzeit"`
	ConfirmedAt   *time.Time `json:"confirmed_at"`
	Items         float64    `json:"umrez"`
	ActualQty     float64    `json:"nista"`
	Weight        float64    `json:"brgew"`
	Volume        float64    `json:"volum"`
}

// Delivery is a shipment header. GoodsIssuedAt nil means the delivery is open.
type Delivery struct {
	ID            string     `json:"vbeln"`
	Warehouse     string     `json:"lgnum"`
	Route         string     `json:"route"`
	Priority      string     `json:"lprio"`
	Cutoff        string     `json:"wauhr"`
	PlannedDate   string     `json:"wadat"`
	GoodsIssuedAt *time.Time `json:"wadat_ist"`
	ShippingPoint string     `json:"vstel"`
}

// HandlingUnit is a physical box tracked independently of its lines.
type HandlingUnit struct {
	Internal      string `json:"venum"`
	External      string `json:"exidv"`
	Delivery      string `json:"vbeln"`
	Warehouse     string `json:"lgnum"`
	TransferOrder string `json:"tanum"`
	StorageType   string `json:"vltyp"`
	Route         string `json:"route"`
	GroupTag      string `json:"zexidvgrp"`
	PickInitUser  string `json:"pickiniuser"`
}

// PackEvent is one packing/closing action on a handling unit, taken from the
// change-event headers. ObjectID refers to the unit's internal number.
type PackEvent struct {
	ObjectID  string `json:"objectid"`
	Worker    string `json:"username"`
	Date      string `json:"udate"`
	Time      string `json:"utime"`
	TCode     string `json:"tcode"`
	Warehouse string `json:"lgnum"`
	Storage   string `json:"vltyp"`
	Route     string `json:"route"`
}

// PriorityGroup maps a handling unit's padded internal number to its group tag.
type PriorityGroup struct {
	Unit     string `json:"venum"`
	GroupTag string `json:"zexidvgrp"`
}

// HourlyStat is one picking metrics row keyed by worker, date, hour and context.
type HourlyStat struct {
	Worker          string  `json:"QNAME"`
	Date            string  `json:"QDATU"`
	Hour            int     `json:"HOUR"`
	Flow            string  `json:"FLOW"`
	Floor           string  `json:"FLOOR"`
	Lines           int     `json:"LINES_PICKED"`
	Items           float64 `json:"ITEMS_PICKED"`
	Weight          float64 `json:"WEIGHT_PICKED"`
	Ratio           float64 `json:"RATIO"`
	Effort          float64 `json:"EFFORT"`
	WeightIntensity float64 `json:"WEIGHT_INTENSITY"`
	ItemIntensity   float64 `json:"ITEM_INTENSITY"`
	Productivity    float64 `json:"PRODUCTIVITY"`
}

// DailyStat is the per-day rollup of HourlyStat rows for one context.
type DailyStat struct {
	Worker          string  `json:"QNAME"`
	Date            string  `json:"QDATU"`
	Flow            string  `json:"FLOW"`
	Floor           string  `json:"FLOOR"`
	Lines           int     `json:"LINES_PICKED"`
	Items           float64 `json:"ITEMS_PICKED"`
	Weight          float64 `json:"WEIGHT_PICKED"`
	Ratio           float64 `json:"RATIO"`
	Effort          float64 `json:"EFFORT"`
	WeightIntensity float64 `json:"WEIGHT_INTENSITY"`
	ItemIntensity   float64 `json:"ITEM_INTENSITY"`
	Productivity    float64 `json:"PRODUCTIVITY"`
}

// PackHourlyStat counts distinct boxes closed per worker, hour and context.
type PackHourlyStat struct {
	Worker       string  `json:"QNAME"`
	Date         string  `json:"QDATU"`
	Hour         int     `json:"HOUR"`
	Flow         string  `json:"FLOW"`
	Floor        string  `json:"FLOOR"`
	Boxes        int     `json:"BOXES_PACKED"`
	Effort       float64 `json:"EFFORT"`
	Productivity float64 `json:"PRODUCTIVITY"`
}

// PackDailyStat is the per-day rollup of PackHourlyStat rows.
type PackDailyStat struct {
	Worker       string  `json:"QNAME"`
	Date         string  `json:"QDATU"`
	Flow         string  `json:"FLOW"`
	Floor        string  `json:"FLOOR"`
	Boxes        int     `json:"BOXES_PACKED"`
	Effort       float64 `json:"EFFORT"`
	Productivity float64 `json:"PRODUCTIVITY"`
}

// UserDayStat is one row of the per-worker history variant.
type UserDayStat struct {
	Year         int     `json:"YEAR"`
	Week         int     `json:"WEEK"`
	Date         string  `json:"DATE"`
	DayName      string  `json:"DAY_NAME"`
	TotalLines   int     `json:"TOTAL_LINES"`
	TotalItems   float64 `json:"TOTAL_ITEMS"`
	TotalEffort  float64 `json:"TOTAL_EFFORT"`
	Ratio        float64 `json:"RATIO"`
	Productivity float64 `json:"PRODUCTIVITY"`
}

// MetricSet is one sum block of the dashboard snapshot. The delivery and
// DP10 counters only apply to breakdowns keyed by a grouping dimension.
type MetricSet struct {
	Lines          int     `json:"lines"`
	Items          float64 `json:"items"`
	Kg             float64 `json:"kg"`
	Vol            float64 `json:"vol"`
	Deliveries     int     `json:"deliveries,omitempty"`
	DP10Deliveries int     `json:"dp10_deliveries,omitempty"`
	DP10Lines      int     `json:"dp10_lines,omitempty"`
}

// DataPoint is a total/picked/not-picked breakdown.
type DataPoint struct {
	Total     MetricSet `json:"total"`
	Picked    MetricSet `json:"picked"`
	NotPicked MetricSet `json:"not_picked"`
}

// FloorStats is one per-floor dashboard row: the line breakdown plus the
// completion state of the units stored on that floor.
type FloorStats struct {
	DataPoint
	HUSummary HUSummary `json:"hu_summary"`
}

// CutoffStats summarises one scheduled departure time.
type CutoffStats struct {
	TotalDeliveries int `json:"total_deliveries"`
	TotalLines      int `json:"total_lines"`
	PickedLines     int `json:"picked_lines"`
	TotalHUs        int `json:"total_hus"`
	PickedHUs       int `json:"picked_hus"`
	DP10Lines       int `json:"dp10_lines"`
	DP10Deliveries  int `json:"dp10_deliveries"`
}

// HUSummary is the handling-unit completion block of the snapshot.
type HUSummary struct {
	Total         int     `json:"total"`
	Picked        int     `json:"picked"`
	NotPicked     int     `json:"not_picked"`
	AvgLinesPerHU float64 `json:"avg_lines_per_hu"`
	AvgItemsPerHU float64 `json:"avg_items_per_hu"`
}

// ClosedMetrics covers deliveries issued on the target date.
type ClosedMetrics struct {
	Deliveries int     `json:"deliveries"`
	HUs        int     `json:"hus"`
	Lines      int     `json:"lines"`
	Items      float64 `json:"items"`
	Kg         float64 `json:"kg"`
	Vol        float64 `json:"vol"`
}

// Snapshot is the dashboard payload for one warehouse and scenario.
type Snapshot struct {
	OpenDeliveries int                    `json:"open_deliveries"`
	OpenHUs        int                    `json:"open_hus"`
	HUSummary      HUSummary              `json:"hu_summary"`
	ClosedToday    *ClosedMetrics         `json:"closed_today,omitempty"`
	Priorities     map[string]int         `json:"priorities"`
	PriorityHUs    map[string]int         `json:"priority_hus"`
	Cutoffs        map[string]CutoffStats `json:"cutoffs"`
	Summary        DataPoint              `json:"summary"`
	VltypDist      map[string]DataPoint   `json:"vltyp_distribution"`
	KoberDist      map[string]DataPoint   `json:"kober_distribution"`
	Floors         map[string]FloorStats  `json:"floors,omitempty"`
}

// LineExport is one row of the detailed line-level export.
type LineExport struct {
	Delivery  string  `json:"VBELN"`
	SourceBin string  `json:"VLPLA"`
	SourceTyp string  `json:"VLTYP"`
	Priority  string  `json:"LPRIO"`
	Cutoff    string  `json:"WAUHR"`
	PickArea  string  `json:"KOBER"`
	ActualQty float64 `json:"NISTA"`
	Weight    float64 `json:"BRGEW"`
	Volume    float64 `json:"VOLUM"`
	Floor     string  `json:"FLOOR"`
	Flow      string  `json:"FLOW"`
	IsPicked  bool    `json:"IS_PICKED"`
}

// HUExport is one row of the detailed unit-level export.
type HUExport struct {
	External     string  `json:"EXIDV"`
	Delivery     string  `json:"VBELN"`
	Priority     string  `json:"LPRIO"`
	Cutoff       string  `json:"WAUHR"`
	Floor        string  `json:"FLOOR"`
	Grouped      string  `json:"GROUPED"`
	GroupTag     string  `json:"ZEXIDVGRP"`
	PickInitUser string  `json:"PICKINIUSER"`
	LinesPerHU   int     `json:"LINES_PER_HU"`
	ItemsPerHU   float64 `json:"ITEMS_PER_HU"`
	IsPicked     bool    `json:"IS_PICKED"`
}
