package venue

import "context"

type Repository interface {
	CreateVenue(ctx context.Context, name, slug string, capacity *int) (*Venue, error)
	GetAllVenues(ctx context.Context) ([]Venue, error)
	GetVenueByID(ctx context.Context, id int) (*Venue, error)
	ClaimVenue(ctx context.Context, venueID, userID int) error
	ClaimedBy(ctx context.Context, id int) (*int, error)

	UpsertCapabilityProfile(ctx context.Context, venueID int, in CapabilityInput) (*CapabilityProfile, error)
	GetCapabilityProfile(ctx context.Context, venueID int) (*ProfileWithVenue, error)
	ListCapabilityProfiles(ctx context.Context) ([]ProfileWithVenue, error)
}
