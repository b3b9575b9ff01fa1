package band

import "context"

type Repository interface {
	CreateBand(ctx context.Context, name, slug string) (*Band, error)
	GetAllBands(ctx context.Context) ([]Band, error)
	GetBandByID(ctx context.Context, id int) (*Band, error)
	ClaimBand(ctx context.Context, bandID, userID int) error
	ClaimedBy(ctx context.Context, id int) (*int, error)

	CreateRider(ctx context.Context, bandID int, in RiderInput) (*Rider, error)
	GetRiderByID(ctx context.Context, id int) (*Rider, error)
	GetRidersByBand(ctx context.Context, bandID int) ([]Rider, error)
	UpdateRider(ctx context.Context, id int, in RiderInput) (*Rider, error)
	PublishRider(ctx context.Context, id int) (*Rider, error)
	WithdrawRider(ctx context.Context, id int) error
	GetPublishedRider(ctx context.Context, bandID int) (*Rider, error)
	ListPublishedRiders(ctx context.Context) ([]Rider, error)
}
