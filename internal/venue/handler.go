package venue

import (
	"errors"
	"net/http"
	"strconv"

	"rocksalt/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

// CreateVenue godoc
// @Summary      Create a venue directory entry
// @Tags         venues
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body  CreateVenueRequest  true  "Venue data"
// @Success      201  {object}  Venue
// @Failure      400  {object}  gin.H
// @Router       /admin/venues [post]
func (h *Handler) CreateVenue(c *gin.Context) {
	var req CreateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v, err := h.repo.CreateVenue(c.Request.Context(), req.Name, req.Slug, req.Capacity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create venue"})
		return
	}

	c.JSON(http.StatusCreated, v)
}

// ListVenues godoc
// @Summary      List venues
// @Tags         venues
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  Venue
// @Router       /venues [get]
func (h *Handler) ListVenues(c *gin.Context) {
	venues, err := h.repo.GetAllVenues(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load venues"})
		return
	}
	c.JSON(http.StatusOK, venues)
}

// ClaimVenue godoc
// @Summary      Claim a venue
// @Tags         venues
// @Security     BearerAuth
// @Produce      json
// @Param        venueID  path  int  true  "Venue id"
// @Success      200  {object}  gin.H
// @Failure      404  {object}  gin.H
// @Failure      409  {object}  gin.H
// @Router       /venues/{venueID}/claim [post]
func (h *Handler) ClaimVenue(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	venueID, err := strconv.Atoi(c.Param("venueID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid venue id"})
		return
	}

	if err := h.repo.ClaimVenue(c.Request.Context(), venueID, userID); err != nil {
		switch {
		case errors.Is(err, ErrVenueNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "venue not found"})
		case errors.Is(err, ErrAlreadyClaimed):
			c.JSON(http.StatusConflict, gin.H{"error": "venue already claimed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to claim venue"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "venue claimed"})
}

func (h *Handler) requireOwnedVenue(c *gin.Context, venueID int) bool {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return false
	}

	v, err := h.repo.GetVenueByID(c.Request.Context(), venueID)
	if err != nil {
		if errors.Is(err, ErrVenueNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "venue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load venue"})
		}
		return false
	}

	if v.ClaimedBy == nil || *v.ClaimedBy != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "you do not own this venue"})
		return false
	}

	return true
}

// UpsertCapability godoc
// @Summary      Create or update the capability profile
// @Tags         venues
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        venueID  path  int              true  "Venue id"
// @Param        request  body  CapabilityInput  true  "Capability fields"
// @Success      200  {object}  CapabilityProfile
// @Failure      400  {object}  gin.H
// @Failure      403  {object}  gin.H
// @Router       /venues/{venueID}/capabilities [put]
func (h *Handler) UpsertCapability(c *gin.Context) {
	venueID, err := strconv.Atoi(c.Param("venueID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid venue id"})
		return
	}

	if !h.requireOwnedVenue(c, venueID) {
		return
	}

	var in CapabilityInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if in.TypicalGuaranteeMin != nil && in.TypicalGuaranteeMax != nil &&
		*in.TypicalGuaranteeMax < *in.TypicalGuaranteeMin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "typical_guarantee_max must be >= typical_guarantee_min"})
		return
	}

	p, err := h.repo.UpsertCapabilityProfile(c.Request.Context(), venueID, in)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save capability profile"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// GetCapability godoc
// @Summary      Get a venue's capability profile with completeness
// @Description  Completeness is advisory and never blocks matching.
// @Tags         venues
// @Security     BearerAuth
// @Produce      json
// @Param        venueID  path  int  true  "Venue id"
// @Success      200  {object}  gin.H
// @Failure      404  {object}  gin.H
// @Router       /venues/{venueID}/capabilities [get]
func (h *Handler) GetCapability(c *gin.Context) {
	venueID, err := strconv.Atoi(c.Param("venueID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid venue id"})
		return
	}

	p, err := h.repo.GetCapabilityProfile(c.Request.Context(), venueID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			// No profile yet: report zero completeness so the dashboard can
			// prompt onboarding.
			c.JSON(http.StatusOK, gin.H{
				"profile":      nil,
				"completeness": ComputeCompleteness(nil),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load capability profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":      p,
		"completeness": ComputeCompleteness(&p.CapabilityProfile),
	})
}
