package matching

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"rocksalt/internal/band"
	"rocksalt/internal/metrics"
	"rocksalt/internal/venue"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// GetMatches godoc
// @Summary      Rank compatibility matches
// @Description  Anchor is "rider:{id}" to rank venues against a published rider, or "venue:{id}" to rank published riders against a venue's capability profile.
// @Tags         matching
// @Security     BearerAuth
// @Produce      json
// @Param        anchor  query  string  true  "rider:{id} or venue:{id}"
// @Success      200  {array}   Result
// @Failure      400  {object}  gin.H
// @Failure      404  {object}  gin.H
// @Router       /matches [get]
func (h *Handler) GetMatches(c *gin.Context) {
	anchorType, anchorID, ok := parseAnchor(c.Query("anchor"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "anchor must be rider:{id} or venue:{id}"})
		return
	}
	metrics.RecordMatchRequest(anchorType)

	var results []Result
	var err error
	switch anchorType {
	case "rider":
		results, err = h.svc.MatchesForRider(c.Request.Context(), anchorID)
	case "venue":
		results, err = h.svc.MatchesForVenue(c.Request.Context(), anchorID)
	}

	if err != nil {
		switch {
		case errors.Is(err, band.ErrRiderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "no published rider with that id"})
		case errors.Is(err, venue.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "venue has no capability profile"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute matches"})
		}
		return
	}

	for _, r := range results {
		metrics.RecordMatchCategory(string(r.Category))
	}

	c.JSON(http.StatusOK, results)
}

func parseAnchor(anchor string) (string, int, bool) {
	parts := strings.SplitN(anchor, ":", 2)
	if len(parts) != 2 {
		return "", 0, false
	}
	if parts[0] != "rider" && parts[0] != "venue" {
		return "", 0, false
	}
	id, err := strconv.Atoi(parts[1])
	if err != nil || id <= 0 {
		return "", 0, false
	}
	return parts[0], id, true
}
