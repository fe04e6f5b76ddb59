package redis

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"flavorquest/db"
	"flavorquest/models/venue"
)

const VENUES_GEO_KEY_V1 = "venues_geo_v1"
const VENUES_GEO_PLACE_MEMBER_FORMAT_V1 = "venues_geo_place_v1:%s"

// RedisVenueDAO handles venue operations using Redis.
type RedisVenueDAO struct {
	client db.RedisClient
}

// NewRedisVenueDAO initializes a RedisVenueDAO with the Redis client.
func NewRedisVenueDAO(client db.RedisClient) *RedisVenueDAO {
	return &RedisVenueDAO{client: client}
}

func venueKey(venueID string) string {
	return fmt.Sprintf(VENUES_GEO_PLACE_MEMBER_FORMAT_V1, venueID)
}

// UpsertVenue stores the venue as a geolocation with the venue's JSON data.
func (dao *RedisVenueDAO) UpsertVenue(v venue.Venue) error {
	if v.VenueID == "" {
		return fmt.Errorf("[RedisVenueDAO] refusing to store venue without id (name=%q)", v.VenueName)
	}
	ctx := dao.client.GetContext()
	return dao.client.AddLocationWithJSON(ctx, VENUES_GEO_KEY_V1, venueKey(v.VenueID), v.VenueLat, v.VenueLon, v)
}

// GetVenue returns the venue stored under venueID, or nil when there is none.
func (dao *RedisVenueDAO) GetVenue(venueID string) (*venue.Venue, error) {
	str, err := dao.client.Get(venueKey(venueID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get venue %s from redis: %w", venueID, err)
	}
	var v venue.Venue
	if err := json.Unmarshal([]byte(str), &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal venue JSON: %w", err)
	}
	return &v, nil
}

// DeleteVenue removes a venue from the geo index and drops its document.
func (dao *RedisVenueDAO) DeleteVenue(venueID string) error {
	ctx := dao.client.GetContext()
	if err := dao.client.RemoveLocation(ctx, VENUES_GEO_KEY_V1, venueKey(venueID)); err != nil {
		return fmt.Errorf("failed to delete venue %s: %w", venueID, err)
	}
	log.Printf("[RedisVenueDAO] Deleted venue %s", venueID)
	return nil
}

// GetNearbyVenues retrieves nearby venues within a given radius (in km), nearest first.
func (dao *RedisVenueDAO) GetNearbyVenues(lat, lon float64, radius float64) ([]venue.Venue, error) {
	venuesJSON, err := dao.client.GetLocationsWithinRadius(VENUES_GEO_KEY_V1, lat, lon, radius)
	if err != nil {
		return nil, fmt.Errorf("[RedisVenueDAO] failed to get venues: %w", err)
	}

	venues := make([]venue.Venue, len(venuesJSON))
	for i, venueJSON := range venuesJSON {
		if err := json.Unmarshal([]byte(venueJSON), &venues[i]); err != nil {
			return nil, fmt.Errorf("failed to unmarshal venue JSON: %w", err)
		}
	}
	return venues, nil
}

// ListAllVenueIDs returns all venue IDs present in the geo index.
func (dao *RedisVenueDAO) ListAllVenueIDs() ([]string, error) {
	pattern := venueKey("*") // "venues_geo_place_v1:*"
	keys, err := dao.client.Keys(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list venue geo keys: %w", err)
	}
	ids := make([]string, 0, len(keys))
	prefix := venueKey("")
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, prefix))
	}
	return ids, nil
}

// ListAllVenues loads every stored venue. Documents that vanish or fail to
// decode between listing and loading are skipped.
func (dao *RedisVenueDAO) ListAllVenues() ([]venue.Venue, error) {
	ids, err := dao.ListAllVenueIDs()
	if err != nil {
		return nil, err
	}
	venues := make([]venue.Venue, 0, len(ids))
	for _, id := range ids {
		v, err := dao.GetVenue(id)
		if err != nil {
			log.Printf("[RedisVenueDAO] Skipping venue %s: %v", id, err)
			continue
		}
		if v == nil {
			continue
		}
		venues = append(venues, *v)
	}
	return venues, nil
}
