package band

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrBandNotFound   = errors.New("band not found")
	ErrRiderNotFound  = errors.New("rider not found")
	ErrAlreadyClaimed = errors.New("band already claimed")
	ErrRiderNotDraft  = errors.New("only draft riders can be edited")
)

const riderColumns = `id, band_id, guarantee_min, guarantee_max, min_stage_width_feet,
	min_stage_depth_feet, min_input_channels, requires_house_drums, age_restriction,
	status, published_at, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBand(ctx context.Context, name, slug string) (*Band, error) {
	var b Band
	err := r.db.GetContext(ctx, &b,
		`INSERT INTO bands (name, slug)
		 VALUES ($1, $2)
		 RETURNING id, name, slug, claimed_by, created_at`,
		name, slug,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) GetAllBands(ctx context.Context) ([]Band, error) {
	bands := []Band{}
	err := r.db.SelectContext(ctx, &bands,
		`SELECT id, name, slug, claimed_by, created_at FROM bands ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return bands, nil
}

func (r *repository) GetBandByID(ctx context.Context, id int) (*Band, error) {
	var b Band
	err := r.db.GetContext(ctx, &b,
		`SELECT id, name, slug, claimed_by, created_at FROM bands WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBandNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ClaimBand is first-come: it only succeeds while the band is unclaimed.
func (r *repository) ClaimBand(ctx context.Context, bandID, userID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bands SET claimed_by = $1 WHERE id = $2 AND claimed_by IS NULL`,
		userID, bandID,
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, err := r.GetBandByID(ctx, bandID); err != nil {
			return err
		}
		return ErrAlreadyClaimed
	}
	return nil
}

func (r *repository) ClaimedBy(ctx context.Context, id int) (*int, error) {
	var claimedBy *int
	err := r.db.GetContext(ctx, &claimedBy,
		`SELECT claimed_by FROM bands WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return claimedBy, nil
}

func (r *repository) CreateRider(ctx context.Context, bandID int, in RiderInput) (*Rider, error) {
	var rider Rider
	err := r.db.GetContext(ctx, &rider,
		`INSERT INTO riders (band_id, guarantee_min, guarantee_max, min_stage_width_feet,
			min_stage_depth_feet, min_input_channels, requires_house_drums, age_restriction, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'draft')
		 RETURNING `+riderColumns,
		bandID, in.GuaranteeMin, in.GuaranteeMax, in.MinStageWidthFeet,
		in.MinStageDepthFeet, in.MinInputChannels, in.RequiresHouseDrums, in.AgeRestriction,
	)
	if err != nil {
		return nil, err
	}
	return &rider, nil
}

func (r *repository) GetRiderByID(ctx context.Context, id int) (*Rider, error) {
	var rider Rider
	err := r.db.GetContext(ctx, &rider,
		`SELECT `+riderColumns+` FROM riders WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRiderNotFound
		}
		return nil, err
	}
	return &rider, nil
}

func (r *repository) GetRidersByBand(ctx context.Context, bandID int) ([]Rider, error) {
	riders := []Rider{}
	err := r.db.SelectContext(ctx, &riders,
		`SELECT `+riderColumns+` FROM riders WHERE band_id = $1 ORDER BY created_at DESC`, bandID)
	if err != nil {
		return nil, err
	}
	return riders, nil
}

func (r *repository) UpdateRider(ctx context.Context, id int, in RiderInput) (*Rider, error) {
	var rider Rider
	err := r.db.GetContext(ctx, &rider,
		`UPDATE riders
		 SET guarantee_min = $1, guarantee_max = $2, min_stage_width_feet = $3,
		     min_stage_depth_feet = $4, min_input_channels = $5, requires_house_drums = $6,
		     age_restriction = $7, updated_at = NOW()
		 WHERE id = $8 AND status = 'draft'
		 RETURNING `+riderColumns,
		in.GuaranteeMin, in.GuaranteeMax, in.MinStageWidthFeet, in.MinStageDepthFeet,
		in.MinInputChannels, in.RequiresHouseDrums, in.AgeRestriction, id,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, gerr := r.GetRiderByID(ctx, id); gerr != nil {
				return nil, gerr
			}
			return nil, ErrRiderNotDraft
		}
		return nil, err
	}
	return &rider, nil
}

// PublishRider publishes a draft and withdraws any previously published rider
// for the same band in the same transaction, so at most one rider per band is
// live for matching.
func (r *repository) PublishRider(ctx context.Context, id int) (*Rider, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var bandID int
	err = tx.GetContext(ctx, &bandID,
		`SELECT band_id FROM riders WHERE id = $1 AND status = 'draft'`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, gerr := r.GetRiderByID(ctx, id); gerr != nil {
				return nil, gerr
			}
			return nil, ErrRiderNotDraft
		}
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE riders SET status = 'withdrawn', updated_at = NOW()
		 WHERE band_id = $1 AND status = 'published'`,
		bandID,
	); err != nil {
		return nil, err
	}

	var rider Rider
	err = tx.GetContext(ctx, &rider,
		`UPDATE riders SET status = 'published', published_at = NOW(), updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+riderColumns,
		id,
	)
	if err != nil {
		return nil, err
	}

	return &rider, tx.Commit()
}

func (r *repository) WithdrawRider(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE riders SET status = 'withdrawn', updated_at = NOW()
		 WHERE id = $1 AND status = 'published'`,
		id,
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRiderNotFound
	}
	return nil
}

func (r *repository) GetPublishedRider(ctx context.Context, bandID int) (*Rider, error) {
	var rider Rider
	err := r.db.GetContext(ctx, &rider,
		`SELECT `+riderColumns+` FROM riders WHERE band_id = $1 AND status = 'published'`, bandID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRiderNotFound
		}
		return nil, err
	}
	return &rider, nil
}

func (r *repository) ListPublishedRiders(ctx context.Context) ([]Rider, error) {
	riders := []Rider{}
	err := r.db.SelectContext(ctx, &riders,
		`SELECT `+riderColumns+` FROM riders WHERE status = 'published' ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return riders, nil
}
