package domain

import "math"

type ViolationType string

const (
	SpeedingMinor  ViolationType = "speeding_minor"
	SpeedingMajor  ViolationType = "speeding_major"
	RedLight       ViolationType = "red_light"
	NoSeatbelt     ViolationType = "no_seatbelt"
	MobileUse      ViolationType = "mobile_use"
	WrongWay       ViolationType = "wrong_way"
	IllegalParking ViolationType = "illegal_parking"
	NoLicense      ViolationType = "no_license"
	DrunkDriving   ViolationType = "drunk_driving"
	Reckless       ViolationType = "reckless"
	Overloading    ViolationType = "overloading"
	NoHelmet       ViolationType = "no_helmet"
)

const processingFeeRate = 0.05

// fineSchedule maps each offense category to its base fine. Changing this
// table never touches existing records: totals are frozen at creation.
var fineSchedule = map[ViolationType]int64{
	SpeedingMinor:  2000,
	SpeedingMajor:  5000,
	RedLight:       7500,
	NoSeatbelt:     1500,
	MobileUse:      3000,
	WrongWay:       6000,
	IllegalParking: 1000,
	NoLicense:      10000,
	DrunkDriving:   25000,
	Reckless:       15000,
	Overloading:    8000,
	NoHelmet:       1500,
}

func (t ViolationType) Valid() bool {
	_, ok := fineSchedule[t]
	return ok
}

// ViolationTypes lists every supported offense category.
func ViolationTypes() []ViolationType {
	types := make([]ViolationType, 0, len(fineSchedule))
	for t := range fineSchedule {
		types = append(types, t)
	}
	return types
}

type FineBreakdown struct {
	Base  int64 `json:"base"`
	Fee   int64 `json:"fee"`
	Total int64 `json:"total"`
}

// CalculateFine looks up the base fine and adds the 5% processing fee,
// rounded half away from zero. An unknown category yields a zero fine
// rather than an error; this is the only call site computing fees, which
// keeps totals reproducible across the system.
func CalculateFine(t ViolationType) FineBreakdown {
	base := fineSchedule[t]
	fee := int64(math.Round(float64(base) * processingFeeRate))

	return FineBreakdown{
		Base:  base,
		Fee:   fee,
		Total: base + fee,
	}
}
