package band

import (
	"errors"
	"net/http"
	"strconv"

	"rocksalt/internal/auth"
	"rocksalt/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

// CreateBand godoc
// @Summary      Create a band directory entry
// @Tags         bands
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body  CreateBandRequest  true  "Band data"
// @Success      201  {object}  Band
// @Failure      400  {object}  gin.H
// @Router       /admin/bands [post]
func (h *Handler) CreateBand(c *gin.Context) {
	var req CreateBandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.repo.CreateBand(c.Request.Context(), req.Name, req.Slug)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create band"})
		return
	}

	c.JSON(http.StatusCreated, b)
}

// ListBands godoc
// @Summary      List bands
// @Tags         bands
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  Band
// @Router       /bands [get]
func (h *Handler) ListBands(c *gin.Context) {
	bands, err := h.repo.GetAllBands(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load bands"})
		return
	}
	c.JSON(http.StatusOK, bands)
}

// ClaimBand godoc
// @Summary      Claim a band
// @Description  First-come claim. The claim owner controls the band's riders and wallet.
// @Tags         bands
// @Security     BearerAuth
// @Produce      json
// @Param        bandID  path  int  true  "Band id"
// @Success      200  {object}  gin.H
// @Failure      404  {object}  gin.H
// @Failure      409  {object}  gin.H
// @Router       /bands/{bandID}/claim [post]
func (h *Handler) ClaimBand(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	bandID, err := strconv.Atoi(c.Param("bandID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid band id"})
		return
	}

	if err := h.repo.ClaimBand(c.Request.Context(), bandID, userID); err != nil {
		switch {
		case errors.Is(err, ErrBandNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "band not found"})
		case errors.Is(err, ErrAlreadyClaimed):
			c.JSON(http.StatusConflict, gin.H{"error": "band already claimed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to claim band"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "band claimed"})
}

// requireOwnedBand loads the band and checks the caller holds the claim.
func (h *Handler) requireOwnedBand(c *gin.Context, bandID int) bool {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return false
	}

	b, err := h.repo.GetBandByID(c.Request.Context(), bandID)
	if err != nil {
		if errors.Is(err, ErrBandNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "band not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load band"})
		}
		return false
	}

	if b.ClaimedBy == nil || *b.ClaimedBy != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "you do not own this band"})
		return false
	}

	return true
}

// CreateRider godoc
// @Summary      Create a draft rider
// @Tags         riders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bandID   path  int         true  "Band id"
// @Param        request  body  RiderInput  true  "Rider requirements"
// @Success      201  {object}  Rider
// @Failure      400  {object}  gin.H
// @Failure      403  {object}  gin.H
// @Router       /bands/{bandID}/riders [post]
func (h *Handler) CreateRider(c *gin.Context) {
	bandID, err := strconv.Atoi(c.Param("bandID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid band id"})
		return
	}

	if !h.requireOwnedBand(c, bandID) {
		return
	}

	var in RiderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if in.GuaranteeMin != nil && in.GuaranteeMax != nil && *in.GuaranteeMax < *in.GuaranteeMin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "guarantee_max must be >= guarantee_min"})
		return
	}

	rider, err := h.repo.CreateRider(c.Request.Context(), bandID, in)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create rider"})
		return
	}

	c.JSON(http.StatusCreated, rider)
}

// ListRiders godoc
// @Summary      List a band's riders
// @Tags         riders
// @Security     BearerAuth
// @Produce      json
// @Param        bandID  path  int  true  "Band id"
// @Success      200  {array}   Rider
// @Failure      403  {object}  gin.H
// @Router       /bands/{bandID}/riders [get]
func (h *Handler) ListRiders(c *gin.Context) {
	bandID, err := strconv.Atoi(c.Param("bandID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid band id"})
		return
	}

	if !h.requireOwnedBand(c, bandID) {
		return
	}

	riders, err := h.repo.GetRidersByBand(c.Request.Context(), bandID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load riders"})
		return
	}

	c.JSON(http.StatusOK, riders)
}

func (h *Handler) riderForOwner(c *gin.Context) (*Rider, bool) {
	riderID, err := strconv.Atoi(c.Param("riderID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rider id"})
		return nil, false
	}

	rider, err := h.repo.GetRiderByID(c.Request.Context(), riderID)
	if err != nil {
		if errors.Is(err, ErrRiderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "rider not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load rider"})
		}
		return nil, false
	}

	if !h.requireOwnedBand(c, rider.BandID) {
		return nil, false
	}

	return rider, true
}

// UpdateRider godoc
// @Summary      Update a draft rider
// @Tags         riders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        riderID  path  int         true  "Rider id"
// @Param        request  body  RiderInput  true  "Rider requirements"
// @Success      200  {object}  Rider
// @Failure      400  {object}  gin.H
// @Failure      409  {object}  gin.H
// @Router       /riders/{riderID} [patch]
func (h *Handler) UpdateRider(c *gin.Context) {
	rider, ok := h.riderForOwner(c)
	if !ok {
		return
	}

	var in RiderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.repo.UpdateRider(c.Request.Context(), rider.ID, in)
	if err != nil {
		if errors.Is(err, ErrRiderNotDraft) {
			c.JSON(http.StatusConflict, gin.H{"error": "published riders are immutable; create a new draft"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update rider"})
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// PublishRider godoc
// @Summary      Publish a rider
// @Description  Publishes the draft and withdraws any previously published rider for the band.
// @Tags         riders
// @Security     BearerAuth
// @Produce      json
// @Param        riderID  path  int  true  "Rider id"
// @Success      200  {object}  Rider
// @Failure      409  {object}  gin.H
// @Router       /riders/{riderID}/publish [post]
func (h *Handler) PublishRider(c *gin.Context) {
	rider, ok := h.riderForOwner(c)
	if !ok {
		return
	}

	published, err := h.repo.PublishRider(c.Request.Context(), rider.ID)
	if err != nil {
		if errors.Is(err, ErrRiderNotDraft) {
			c.JSON(http.StatusConflict, gin.H{"error": "only draft riders can be published"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to publish rider"})
		}
		return
	}
	metrics.RecordRiderPublished()

	c.JSON(http.StatusOK, published)
}

// WithdrawRider godoc
// @Summary      Withdraw a published rider
// @Tags         riders
// @Security     BearerAuth
// @Produce      json
// @Param        riderID  path  int  true  "Rider id"
// @Success      200  {object}  gin.H
// @Failure      404  {object}  gin.H
// @Router       /riders/{riderID}/withdraw [post]
func (h *Handler) WithdrawRider(c *gin.Context) {
	rider, ok := h.riderForOwner(c)
	if !ok {
		return
	}

	if err := h.repo.WithdrawRider(c.Request.Context(), rider.ID); err != nil {
		if errors.Is(err, ErrRiderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no published rider to withdraw"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to withdraw rider"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "rider withdrawn"})
}
