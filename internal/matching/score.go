package matching

import (
	"fmt"
	"sort"

	"rocksalt/internal/band"
	"rocksalt/internal/venue"
)

type Category string

const (
	CategoryExcellent    Category = "excellent"
	CategoryGood         Category = "good"
	CategoryPartial      Category = "partial"
	CategoryIncompatible Category = "incompatible"
)

// Fixed dimension weights, summing to 100.
const (
	weightFinancial = 30
	weightStage     = 20
	weightInputs    = 15
	weightBackline  = 20
	weightAge       = 15
)

// DimensionResult is one pass/fail check. Hard marks legal/contractual
// blockers that cap the category regardless of score.
type DimensionResult struct {
	Dimension string `json:"dimension"`
	Weight    int    `json:"weight"`
	Passed    bool   `json:"passed"`
	Hard      bool   `json:"hard"`
}

// Result is a computed, non-persisted compatibility score between one rider
// and one venue capability profile.
type Result struct {
	RiderID      int               `json:"rider_id"`
	BandID       int               `json:"band_id"`
	VenueID      int               `json:"venue_id"`
	VenueName    string            `json:"venue_name,omitempty"`
	Capacity     *int              `json:"capacity,omitempty"`
	Dimensions   []DimensionResult `json:"dimensions"`
	OverallScore int               `json:"overall_score"`
	Category     Category          `json:"category"`
}

func checkFinancial(r *band.Rider, p *venue.CapabilityProfile) bool {
	// A missing bound is unbounded in that direction, so a venue that never
	// set a guarantee ceiling is not penalized.
	if r.GuaranteeMin != nil && p.TypicalGuaranteeMax != nil && *p.TypicalGuaranteeMax < *r.GuaranteeMin {
		return false
	}
	if p.TypicalGuaranteeMin != nil && r.GuaranteeMax != nil && *r.GuaranteeMax < *p.TypicalGuaranteeMin {
		return false
	}
	return true
}

func checkStage(r *band.Rider, p *venue.CapabilityProfile) bool {
	// Unknown dimensions fail: unstated capability is not assumed sufficient.
	if r.MinStageWidthFeet == nil || r.MinStageDepthFeet == nil ||
		p.StageWidthFeet == nil || p.StageDepthFeet == nil {
		return false
	}
	return *p.StageWidthFeet >= *r.MinStageWidthFeet && *p.StageDepthFeet >= *r.MinStageDepthFeet
}

func checkInputs(r *band.Rider, p *venue.CapabilityProfile) bool {
	if r.MinInputChannels == nil || p.InputChannels == nil {
		return false
	}
	return *p.InputChannels >= *r.MinInputChannels
}

func checkBackline(r *band.Rider, p *venue.CapabilityProfile) bool {
	return !r.RequiresHouseDrums || p.HasHouseDrums
}

func checkAge(r *band.Rider, p *venue.CapabilityProfile) bool {
	if r.AgeRestriction == nil || *r.AgeRestriction == "all_ages" {
		return true
	}
	for _, a := range p.AgeRestrictions {
		if a == *r.AgeRestriction || a == "all_ages" {
			return true
		}
	}
	return false
}

// Score computes the compatibility between a rider and a venue capability
// profile. It is pure and symmetric: the same dimension semantics apply
// whichever side is the anchor.
func Score(r *band.Rider, p *venue.ProfileWithVenue) Result {
	dims := []DimensionResult{
		{Dimension: "financial", Weight: weightFinancial, Passed: checkFinancial(r, &p.CapabilityProfile)},
		{Dimension: "stage", Weight: weightStage, Passed: checkStage(r, &p.CapabilityProfile)},
		{Dimension: "inputs", Weight: weightInputs, Passed: checkInputs(r, &p.CapabilityProfile)},
		{Dimension: "backline", Weight: weightBackline, Passed: checkBackline(r, &p.CapabilityProfile), Hard: true},
		{Dimension: "age_policy", Weight: weightAge, Passed: checkAge(r, &p.CapabilityProfile), Hard: true},
	}

	score := 0
	hardFail := false
	for _, d := range dims {
		if d.Passed {
			score += d.Weight
		} else if d.Hard {
			hardFail = true
		}
	}
	if score < 0 || score > 100 {
		panic(fmt.Sprintf("compatibility score out of range: %d", score))
	}

	category := categorize(score)
	// Hard constraints are blockers, not preferences: they must not hide
	// behind a high score.
	if hardFail && (category == CategoryExcellent || category == CategoryGood) {
		category = CategoryPartial
	}

	return Result{
		RiderID:      r.ID,
		BandID:       r.BandID,
		VenueID:      p.VenueID,
		VenueName:    p.VenueName,
		Capacity:     p.Capacity,
		Dimensions:   dims,
		OverallScore: score,
		Category:     category,
	}
}

func categorize(score int) Category {
	switch {
	case score >= 90:
		return CategoryExcellent
	case score >= 70:
		return CategoryGood
	case score >= 40:
		return CategoryPartial
	default:
		return CategoryIncompatible
	}
}

// RankProfiles scores every profile against the rider and sorts by score
// descending, capacity descending, venue id ascending. The total order keeps
// pagination deterministic.
func RankProfiles(r *band.Rider, profiles []venue.ProfileWithVenue) []Result {
	results := make([]Result, 0, len(profiles))
	for i := range profiles {
		results = append(results, Score(r, &profiles[i]))
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].OverallScore != results[j].OverallScore {
			return results[i].OverallScore > results[j].OverallScore
		}
		ci, cj := capacityOrZero(results[i].Capacity), capacityOrZero(results[j].Capacity)
		if ci != cj {
			return ci > cj
		}
		return results[i].VenueID < results[j].VenueID
	})

	return results
}

// RankRiders is the reversed-anchor form: one venue profile against many
// published riders. Ties break by rider id ascending.
func RankRiders(p *venue.ProfileWithVenue, riders []band.Rider) []Result {
	results := make([]Result, 0, len(riders))
	for i := range riders {
		results = append(results, Score(&riders[i], p))
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].OverallScore != results[j].OverallScore {
			return results[i].OverallScore > results[j].OverallScore
		}
		return results[i].RiderID < results[j].RiderID
	})

	return results
}

func capacityOrZero(c *int) int {
	if c == nil {
		return 0
	}
	return *c
}
