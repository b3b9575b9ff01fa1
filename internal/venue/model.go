package venue

import (
	"time"

	"github.com/lib/pq"
)

type Venue struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	Capacity  *int      `db:"capacity" json:"capacity,omitempty"`
	ClaimedBy *int      `db:"claimed_by" json:"claimed_by,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CapabilityProfile is a venue's declared technical, financial and policy
// capacity, one row per venue. The field set mirrors the capability wizard.
type CapabilityProfile struct {
	VenueID                 int            `db:"venue_id" json:"venue_id"`
	TypicalGuaranteeMin     *int64         `db:"typical_guarantee_min" json:"typical_guarantee_min,omitempty"`
	TypicalGuaranteeMax     *int64         `db:"typical_guarantee_max" json:"typical_guarantee_max,omitempty"`
	PaymentMethods          pq.StringArray `db:"payment_methods" json:"payment_methods"`
	W9OnFile                bool           `db:"w9_on_file" json:"w9_on_file"`
	InsuranceCOIOnFile      bool           `db:"insurance_coi_on_file" json:"insurance_coi_on_file"`
	StageWidthFeet          *int           `db:"stage_width_feet" json:"stage_width_feet,omitempty"`
	StageDepthFeet          *int           `db:"stage_depth_feet" json:"stage_depth_feet,omitempty"`
	InputChannels           *int           `db:"input_channels" json:"input_channels,omitempty"`
	HasHouseDrums           bool           `db:"has_house_drums" json:"has_house_drums"`
	HasBackline             bool           `db:"has_backline" json:"has_backline"`
	GreenRoomAvailable      bool           `db:"green_room_available" json:"green_room_available"`
	GreenRoomDescription    *string        `db:"green_room_description" json:"green_room_description,omitempty"`
	MealBuyoutAvailable     bool           `db:"meal_buyout_available" json:"meal_buyout_available"`
	TypicalMealBuyoutAmount *int64         `db:"typical_meal_buyout_amount" json:"typical_meal_buyout_amount,omitempty"`
	DrinkTicketsAvailable   *int           `db:"drink_tickets_available" json:"drink_tickets_available,omitempty"`
	GuestListSpots          *int           `db:"guest_list_spots" json:"guest_list_spots,omitempty"`
	ParkingSpaces           *int           `db:"parking_spaces" json:"parking_spaces,omitempty"`
	AgeRestrictions         pq.StringArray `db:"age_restrictions" json:"age_restrictions"`
	LoadInNotes             *string        `db:"load_in_notes" json:"load_in_notes,omitempty"`
	CurfewTime              *string        `db:"curfew_time" json:"curfew_time,omitempty"`
	UpdatedAt               time.Time      `db:"updated_at" json:"updated_at"`
}

// ProfileWithVenue carries the capability profile together with the venue
// attributes ranking needs.
type ProfileWithVenue struct {
	CapabilityProfile
	VenueName string `db:"venue_name" json:"venue_name"`
	Capacity  *int   `db:"capacity" json:"capacity,omitempty"`
}

type CreateVenueRequest struct {
	Name     string `json:"name" binding:"required"`
	Slug     string `json:"slug" binding:"required"`
	Capacity *int   `json:"capacity" binding:"omitempty,gt=0"`
}

type CapabilityInput struct {
	TypicalGuaranteeMin     *int64   `json:"typical_guarantee_min" binding:"omitempty,gte=0"`
	TypicalGuaranteeMax     *int64   `json:"typical_guarantee_max" binding:"omitempty,gte=0"`
	PaymentMethods          []string `json:"payment_methods" binding:"omitempty,dive,oneof=cash venmo zelle paypal check ach"`
	W9OnFile                bool     `json:"w9_on_file"`
	InsuranceCOIOnFile      bool     `json:"insurance_coi_on_file"`
	StageWidthFeet          *int     `json:"stage_width_feet" binding:"omitempty,gte=0,lte=200"`
	StageDepthFeet          *int     `json:"stage_depth_feet" binding:"omitempty,gte=0,lte=100"`
	InputChannels           *int     `json:"input_channels" binding:"omitempty,gte=0,lte=64"`
	HasHouseDrums           bool     `json:"has_house_drums"`
	HasBackline             bool     `json:"has_backline"`
	GreenRoomAvailable      bool     `json:"green_room_available"`
	GreenRoomDescription    *string  `json:"green_room_description"`
	MealBuyoutAvailable     bool     `json:"meal_buyout_available"`
	TypicalMealBuyoutAmount *int64   `json:"typical_meal_buyout_amount" binding:"omitempty,gte=0"`
	DrinkTicketsAvailable   *int     `json:"drink_tickets_available" binding:"omitempty,gte=0"`
	GuestListSpots          *int     `json:"guest_list_spots" binding:"omitempty,gte=0"`
	ParkingSpaces           *int     `json:"parking_spaces" binding:"omitempty,gte=0"`
	AgeRestrictions         []string `json:"age_restrictions" binding:"omitempty,dive,oneof=all_ages 18+ 21+"`
	LoadInNotes             *string  `json:"load_in_notes"`
	CurfewTime              *string  `json:"curfew_time"`
}
