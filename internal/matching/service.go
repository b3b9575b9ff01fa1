package matching

import (
	"context"
	"encoding/json"
	"time"

	"rocksalt/internal/band"
	"rocksalt/internal/logger"
	"rocksalt/internal/venue"

	"github.com/redis/go-redis/v9"
)

const (
	profilesCacheKey = "matching:profiles"
	ridersCacheKey   = "matching:riders"
	cacheTTL         = 30 * time.Second
)

type Service interface {
	MatchesForRider(ctx context.Context, riderID int) ([]Result, error)
	MatchesForVenue(ctx context.Context, venueID int) ([]Result, error)
}

// service is the capability registry read model: it loads published riders
// and venue capability profiles and feeds them to the pure scorer. The redis
// cache is a short-lived convenience and never authoritative.
type service struct {
	bands  band.Repository
	venues venue.Repository
	cache  *redis.Client
}

func NewService(bands band.Repository, venues venue.Repository, cache *redis.Client) Service {
	return &service{bands: bands, venues: venues, cache: cache}
}

func (s *service) loadProfiles(ctx context.Context) ([]venue.ProfileWithVenue, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, profilesCacheKey).Bytes(); err == nil {
			var profiles []venue.ProfileWithVenue
			if err := json.Unmarshal(data, &profiles); err == nil {
				return profiles, nil
			}
		}
	}

	profiles, err := s.venues.ListCapabilityProfiles(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(profiles); err == nil {
			if err := s.cache.Set(ctx, profilesCacheKey, data, cacheTTL).Err(); err != nil {
				logger.Debugf("profile cache write failed: %v", err)
			}
		}
	}

	return profiles, nil
}

func (s *service) loadRiders(ctx context.Context) ([]band.Rider, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, ridersCacheKey).Bytes(); err == nil {
			var riders []band.Rider
			if err := json.Unmarshal(data, &riders); err == nil {
				return riders, nil
			}
		}
	}

	riders, err := s.bands.ListPublishedRiders(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(riders); err == nil {
			if err := s.cache.Set(ctx, ridersCacheKey, data, cacheTTL).Err(); err != nil {
				logger.Debugf("rider cache write failed: %v", err)
			}
		}
	}

	return riders, nil
}

func (s *service) MatchesForRider(ctx context.Context, riderID int) ([]Result, error) {
	rider, err := s.bands.GetRiderByID(ctx, riderID)
	if err != nil {
		return nil, err
	}
	if rider.Status != band.RiderPublished {
		return nil, band.ErrRiderNotFound
	}

	profiles, err := s.loadProfiles(ctx)
	if err != nil {
		return nil, err
	}

	return RankProfiles(rider, profiles), nil
}

func (s *service) MatchesForVenue(ctx context.Context, venueID int) ([]Result, error) {
	profile, err := s.venues.GetCapabilityProfile(ctx, venueID)
	if err != nil {
		return nil, err
	}

	riders, err := s.loadRiders(ctx)
	if err != nil {
		return nil, err
	}

	return RankRiders(profile, riders), nil
}
