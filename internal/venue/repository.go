package venue

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrVenueNotFound   = errors.New("venue not found")
	ErrProfileNotFound = errors.New("capability profile not found")
	ErrAlreadyClaimed  = errors.New("venue already claimed")
)

const profileColumns = `venue_id, typical_guarantee_min, typical_guarantee_max, payment_methods,
	w9_on_file, insurance_coi_on_file, stage_width_feet, stage_depth_feet, input_channels,
	has_house_drums, has_backline, green_room_available, green_room_description,
	meal_buyout_available, typical_meal_buyout_amount, drink_tickets_available,
	guest_list_spots, parking_spaces, age_restrictions, load_in_notes, curfew_time, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateVenue(ctx context.Context, name, slug string, capacity *int) (*Venue, error) {
	var v Venue
	err := r.db.GetContext(ctx, &v,
		`INSERT INTO venues (name, slug, capacity)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, slug, capacity, claimed_by, created_at`,
		name, slug, capacity,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *repository) GetAllVenues(ctx context.Context) ([]Venue, error) {
	venues := []Venue{}
	err := r.db.SelectContext(ctx, &venues,
		`SELECT id, name, slug, capacity, claimed_by, created_at FROM venues ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return venues, nil
}

func (r *repository) GetVenueByID(ctx context.Context, id int) (*Venue, error) {
	var v Venue
	err := r.db.GetContext(ctx, &v,
		`SELECT id, name, slug, capacity, claimed_by, created_at FROM venues WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *repository) ClaimVenue(ctx context.Context, venueID, userID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE venues SET claimed_by = $1 WHERE id = $2 AND claimed_by IS NULL`,
		userID, venueID,
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, err := r.GetVenueByID(ctx, venueID); err != nil {
			return err
		}
		return ErrAlreadyClaimed
	}
	return nil
}

func (r *repository) ClaimedBy(ctx context.Context, id int) (*int, error) {
	var claimedBy *int
	err := r.db.GetContext(ctx, &claimedBy,
		`SELECT claimed_by FROM venues WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return claimedBy, nil
}

func (r *repository) UpsertCapabilityProfile(ctx context.Context, venueID int, in CapabilityInput) (*CapabilityProfile, error) {
	var p CapabilityProfile
	err := r.db.GetContext(ctx, &p,
		`INSERT INTO venue_capabilities (venue_id, typical_guarantee_min, typical_guarantee_max,
			payment_methods, w9_on_file, insurance_coi_on_file, stage_width_feet, stage_depth_feet,
			input_channels, has_house_drums, has_backline, green_room_available, green_room_description,
			meal_buyout_available, typical_meal_buyout_amount, drink_tickets_available,
			guest_list_spots, parking_spaces, age_restrictions, load_in_notes, curfew_time)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		 ON CONFLICT (venue_id) DO UPDATE SET
			typical_guarantee_min = EXCLUDED.typical_guarantee_min,
			typical_guarantee_max = EXCLUDED.typical_guarantee_max,
			payment_methods = EXCLUDED.payment_methods,
			w9_on_file = EXCLUDED.w9_on_file,
			insurance_coi_on_file = EXCLUDED.insurance_coi_on_file,
			stage_width_feet = EXCLUDED.stage_width_feet,
			stage_depth_feet = EXCLUDED.stage_depth_feet,
			input_channels = EXCLUDED.input_channels,
			has_house_drums = EXCLUDED.has_house_drums,
			has_backline = EXCLUDED.has_backline,
			green_room_available = EXCLUDED.green_room_available,
			green_room_description = EXCLUDED.green_room_description,
			meal_buyout_available = EXCLUDED.meal_buyout_available,
			typical_meal_buyout_amount = EXCLUDED.typical_meal_buyout_amount,
			drink_tickets_available = EXCLUDED.drink_tickets_available,
			guest_list_spots = EXCLUDED.guest_list_spots,
			parking_spaces = EXCLUDED.parking_spaces,
			age_restrictions = EXCLUDED.age_restrictions,
			load_in_notes = EXCLUDED.load_in_notes,
			curfew_time = EXCLUDED.curfew_time,
			updated_at = NOW()
		 RETURNING `+profileColumns,
		venueID, in.TypicalGuaranteeMin, in.TypicalGuaranteeMax, pq.StringArray(in.PaymentMethods),
		in.W9OnFile, in.InsuranceCOIOnFile, in.StageWidthFeet, in.StageDepthFeet,
		in.InputChannels, in.HasHouseDrums, in.HasBackline, in.GreenRoomAvailable,
		in.GreenRoomDescription, in.MealBuyoutAvailable, in.TypicalMealBuyoutAmount,
		in.DrinkTicketsAvailable, in.GuestListSpots, in.ParkingSpaces,
		pq.StringArray(in.AgeRestrictions), in.LoadInNotes, in.CurfewTime,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetCapabilityProfile(ctx context.Context, venueID int) (*ProfileWithVenue, error) {
	var p ProfileWithVenue
	err := r.db.GetContext(ctx, &p,
		`SELECT vc.*, v.name AS venue_name, v.capacity
		 FROM venue_capabilities vc
		 JOIN venues v ON v.id = vc.venue_id
		 WHERE vc.venue_id = $1`,
		venueID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListCapabilityProfiles(ctx context.Context) ([]ProfileWithVenue, error) {
	profiles := []ProfileWithVenue{}
	err := r.db.SelectContext(ctx, &profiles,
		`SELECT vc.*, v.name AS venue_name, v.capacity
		 FROM venue_capabilities vc
		 JOIN venues v ON v.id = vc.venue_id
		 ORDER BY vc.venue_id`,
	)
	if err != nil {
		return nil, err
	}
	return profiles, nil
}
