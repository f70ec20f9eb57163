package warehouse

// floorByStorageType assigns the CVNS storage types to physical floors.
// MS does not use it: the whole site works on the ground floor.
var floorByStorageType = map[string]string{
	"LO2": FloorGround,
	"LO4": FloorGround,
	"S12": FloorFirst,
	"S14": FloorFirst,
	"NE2": FloorFirst,
	"NE4": FloorFirst,
	"B22": FloorSecond,
	"B24": FloorSecond,
	"S22": FloorSecond,
	"S24": FloorSecond,
	"F22": FloorSecond,
	"F24": FloorSecond,
	"CO2": FloorGround,
	"CO4": FloorGround,
	"CP2": FloorGround,
	"CP4": FloorGround,
	"CB2": FloorGround,
	"DB2": FloorGround,
	"DB4": FloorGround,
	"SSA": FloorGround,
	"AM2": FloorGround,
	"AM4": FloorGround,
	"LG4": FloorGround,
	"LG2": FloorGround,
	"DC2": FloorGround,
	"DC4": FloorGround,
	"NOA": FloorGround,
}

// breakByHour discounts hours that carry a scheduled break.
// Hours absent from the table count as a full 1.0.
var breakByHour = map[int]float64{
	10: 0.75,
	11: 0.50,
	13: 0.75,
	17: 0.75,
	19: 0.50,
	21: 0.75,
}

// BaseEffort returns the break-adjusted effort budget for an hour of day.
func BaseEffort(hour int) float64 {
	if v, ok := breakByHour[hour]; ok {
		return v
	}
	return 1.0
}
