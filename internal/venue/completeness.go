package venue

import "math"

// Completeness reports how much of the capability wizard a venue has filled
// in. It drives onboarding nudges only and never gates matching.
type Completeness struct {
	Percentage    int      `json:"percentage"`
	MissingFields []string `json:"missing_fields"`
}

type fieldCheck struct {
	label  string
	filled func(p *CapabilityProfile) bool
}

func hasInt(v *int) bool       { return v != nil }
func hasInt64(v *int64) bool   { return v != nil }
func hasString(v *string) bool { return v != nil && *v != "" }

// The fixed 20-field set from the capability wizard. Booleans count as filled
// only when declared true, since an untouched form also reads false.
var capabilityFields = []fieldCheck{
	{"Typical minimum guarantee", func(p *CapabilityProfile) bool { return hasInt64(p.TypicalGuaranteeMin) }},
	{"Typical maximum guarantee", func(p *CapabilityProfile) bool { return hasInt64(p.TypicalGuaranteeMax) }},
	{"Payment methods", func(p *CapabilityProfile) bool { return len(p.PaymentMethods) > 0 }},
	{"W-9 on file", func(p *CapabilityProfile) bool { return p.W9OnFile }},
	{"Insurance COI on file", func(p *CapabilityProfile) bool { return p.InsuranceCOIOnFile }},
	{"Stage width", func(p *CapabilityProfile) bool { return hasInt(p.StageWidthFeet) }},
	{"Stage depth", func(p *CapabilityProfile) bool { return hasInt(p.StageDepthFeet) }},
	{"Input channels", func(p *CapabilityProfile) bool { return hasInt(p.InputChannels) }},
	{"House drums", func(p *CapabilityProfile) bool { return p.HasHouseDrums }},
	{"Backline", func(p *CapabilityProfile) bool { return p.HasBackline }},
	{"Green room", func(p *CapabilityProfile) bool { return p.GreenRoomAvailable }},
	{"Green room description", func(p *CapabilityProfile) bool { return hasString(p.GreenRoomDescription) }},
	{"Meal buyout", func(p *CapabilityProfile) bool { return p.MealBuyoutAvailable }},
	{"Typical meal buyout amount", func(p *CapabilityProfile) bool { return hasInt64(p.TypicalMealBuyoutAmount) }},
	{"Drink tickets", func(p *CapabilityProfile) bool { return hasInt(p.DrinkTicketsAvailable) }},
	{"Guest list spots", func(p *CapabilityProfile) bool { return hasInt(p.GuestListSpots) }},
	{"Parking spaces", func(p *CapabilityProfile) bool { return hasInt(p.ParkingSpaces) }},
	{"Age restrictions", func(p *CapabilityProfile) bool { return len(p.AgeRestrictions) > 0 }},
	{"Load-in notes", func(p *CapabilityProfile) bool { return hasString(p.LoadInNotes) }},
	{"Curfew time", func(p *CapabilityProfile) bool { return hasString(p.CurfewTime) }},
}

// ComputeCompleteness is pure and side-effect free.
func ComputeCompleteness(p *CapabilityProfile) Completeness {
	result := Completeness{MissingFields: []string{}}
	if p == nil {
		for _, f := range capabilityFields {
			result.MissingFields = append(result.MissingFields, f.label)
		}
		return result
	}

	filled := 0
	for _, f := range capabilityFields {
		if f.filled(p) {
			filled++
		} else {
			result.MissingFields = append(result.MissingFields, f.label)
		}
	}

	result.Percentage = int(math.Round(float64(filled) / float64(len(capabilityFields)) * 100))
	return result
}
