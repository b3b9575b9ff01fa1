package venue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func i64(v int64) *int64 { return &v }
func i(v int) *int       { return &v }
func s(v string) *string { return &v }

func fullProfile() *CapabilityProfile {
	return &CapabilityProfile{
		TypicalGuaranteeMin:     i64(10000),
		TypicalGuaranteeMax:     i64(50000),
		PaymentMethods:          []string{"cash", "venmo"},
		W9OnFile:                true,
		InsuranceCOIOnFile:      true,
		StageWidthFeet:          i(24),
		StageDepthFeet:          i(16),
		InputChannels:           i(24),
		HasHouseDrums:           true,
		HasBackline:             true,
		GreenRoomAvailable:      true,
		GreenRoomDescription:    s("Back hallway, couch and mirror"),
		MealBuyoutAvailable:     true,
		TypicalMealBuyoutAmount: i64(1500),
		DrinkTicketsAvailable:   i(4),
		GuestListSpots:          i(10),
		ParkingSpaces:           i(2),
		AgeRestrictions:         []string{"18+", "21+"},
		LoadInNotes:             s("Alley door, two steps up"),
		CurfewTime:              s("23:00"),
	}
}

func TestCompletenessFullProfile(t *testing.T) {
	c := ComputeCompleteness(fullProfile())
	require.Equal(t, 100, c.Percentage)
	require.Empty(t, c.MissingFields)
}

func TestCompletenessNilProfile(t *testing.T) {
	c := ComputeCompleteness(nil)
	require.Equal(t, 0, c.Percentage)
	require.Len(t, c.MissingFields, 20)
}

func TestCompletenessCountsAndNamesMissingFields(t *testing.T) {
	p := fullProfile()
	p.TypicalGuaranteeMin = nil
	p.PaymentMethods = nil
	p.CurfewTime = s("")

	c := ComputeCompleteness(p)
	require.Equal(t, 85, c.Percentage)
	require.Equal(t, []string{"Typical minimum guarantee", "Payment methods", "Curfew time"}, c.MissingFields)
}

func TestCompletenessFalseBooleansReadAsMissing(t *testing.T) {
	p := fullProfile()
	p.W9OnFile = false
	p.HasHouseDrums = false

	c := ComputeCompleteness(p)
	require.Equal(t, 90, c.Percentage)
	require.Contains(t, c.MissingFields, "W-9 on file")
	require.Contains(t, c.MissingFields, "House drums")
}

func TestCompletenessPartialProfile(t *testing.T) {
	// 7 of 20 filled is exactly 35
	p := &CapabilityProfile{
		TypicalGuaranteeMin: i64(10000),
		PaymentMethods:      []string{"cash"},
		W9OnFile:            true,
		StageWidthFeet:      i(20),
		StageDepthFeet:      i(14),
		InputChannels:       i(16),
		AgeRestrictions:     []string{"all_ages"},
	}
	c := ComputeCompleteness(p)
	require.Equal(t, 35, c.Percentage)
	require.Len(t, c.MissingFields, 13)
}
