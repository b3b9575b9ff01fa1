package band

import "time"

type Band struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	ClaimedBy *int      `db:"claimed_by" json:"claimed_by,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type RiderStatus string

const (
	RiderDraft     RiderStatus = "draft"
	RiderPublished RiderStatus = "published"
	RiderWithdrawn RiderStatus = "withdrawn"
)

// Rider is a band's published technical and financial booking requirements.
// A published rider is an immutable snapshot used for matching until it is
// superseded by the next publish or withdrawn.
type Rider struct {
	ID                 int         `db:"id" json:"id"`
	BandID             int         `db:"band_id" json:"band_id"`
	GuaranteeMin       *int64      `db:"guarantee_min" json:"guarantee_min,omitempty"`
	GuaranteeMax       *int64      `db:"guarantee_max" json:"guarantee_max,omitempty"`
	MinStageWidthFeet  *int        `db:"min_stage_width_feet" json:"min_stage_width_feet,omitempty"`
	MinStageDepthFeet  *int        `db:"min_stage_depth_feet" json:"min_stage_depth_feet,omitempty"`
	MinInputChannels   *int        `db:"min_input_channels" json:"min_input_channels,omitempty"`
	RequiresHouseDrums bool        `db:"requires_house_drums" json:"requires_house_drums"`
	AgeRestriction     *string     `db:"age_restriction" json:"age_restriction,omitempty"`
	Status             RiderStatus `db:"status" json:"status"`
	PublishedAt        *time.Time  `db:"published_at" json:"published_at,omitempty"`
	CreatedAt          time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time   `db:"updated_at" json:"updated_at"`
}

type CreateBandRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

type RiderInput struct {
	GuaranteeMin       *int64  `json:"guarantee_min" binding:"omitempty,gte=0"`
	GuaranteeMax       *int64  `json:"guarantee_max" binding:"omitempty,gte=0"`
	MinStageWidthFeet  *int    `json:"min_stage_width_feet" binding:"omitempty,gte=0,lte=200"`
	MinStageDepthFeet  *int    `json:"min_stage_depth_feet" binding:"omitempty,gte=0,lte=100"`
	MinInputChannels   *int    `json:"min_input_channels" binding:"omitempty,gte=0,lte=64"`
	RequiresHouseDrums bool    `json:"requires_house_drums"`
	AgeRestriction     *string `json:"age_restriction" binding:"omitempty,oneof=all_ages 18+ 21+"`
}
