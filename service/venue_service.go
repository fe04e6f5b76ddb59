package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"flavorquest/api"
	"flavorquest/api/catalog"
	"flavorquest/dao/redis"
	"flavorquest/db"
	"flavorquest/models"
	"flavorquest/models/venue"
	"flavorquest/openinghours"
	"flavorquest/util"

	"github.com/google/uuid"
)

var (
	ErrVenueNotFound = errors.New("venue not found")
	ErrInvalidVenue  = errors.New("invalid venue")
)

// SearchResult is one page of search hits plus the total match count.
type SearchResult struct {
	Total  int                     `json:"total"`
	Venues []venue.VenueWithStatus `json:"venues"`
}

type VenueService struct {
	venueDao   *redis.RedisVenueDAO
	catalogApi catalog.CatalogAPI
	evaluator  *openinghours.Evaluator
	newID      func() string
}

// NewVenueService constructs a new VenueService. The evaluator carries the
// business timezone and clock used for every opening status.
func NewVenueService(
	venueDao *redis.RedisVenueDAO,
	catalogApi catalog.CatalogAPI,
	evaluator *openinghours.Evaluator) *VenueService {

	return &VenueService{
		venueDao:   venueDao,
		catalogApi: catalogApi,
		evaluator:  evaluator,
		newID:      func() string { return uuid.NewString() },
	}
}

// GetVenue returns an approved venue. Venues missing from Redis are read
// through from the upstream catalog and cached.
func (vs *VenueService) GetVenue(ctx context.Context, venueId string) (*venue.Venue, error) {
	v, err := vs.venueDao.GetVenue(venueId)
	if err != nil {
		return nil, err
	}
	if v == nil {
		v, err = vs.fetchFromCatalog(ctx, venueId)
		if err != nil {
			return nil, err
		}
	}
	if !v.IsApproved() {
		return nil, ErrVenueNotFound
	}
	return v, nil
}

func (vs *VenueService) fetchFromCatalog(ctx context.Context, venueId string) (*venue.Venue, error) {
	if vs.catalogApi == nil {
		return nil, ErrVenueNotFound
	}
	v, err := vs.catalogApi.GetVenue(ctx, venueId)
	if err != nil {
		if api.IsNotFound(err) {
			return nil, ErrVenueNotFound
		}
		return nil, fmt.Errorf("failed to read venue %s from catalog: %w", venueId, err)
	}
	if v.VenueID == "" {
		v.VenueID = venueId
	}
	v.Source = venue.SourceCatalog
	if err := vs.venueDao.UpsertVenue(*v); err != nil {
		log.Printf("[VenueService] Could not cache catalog venue %s: %v", venueId, err)
	}
	return v, nil
}

// GetVenueWithStatus returns an approved venue decorated with its opening status.
func (vs *VenueService) GetVenueWithStatus(ctx context.Context, venueId string) (*venue.VenueWithStatus, error) {
	v, err := vs.GetVenue(ctx, venueId)
	if err != nil {
		return nil, err
	}
	return &venue.VenueWithStatus{Venue: *v, Status: vs.evaluator.Status(v.OpeningHours)}, nil
}

// EvaluateSchedule evaluates an ad-hoc schedule at t, or now when t is nil.
func (vs *VenueService) EvaluateSchedule(schedule openinghours.WeeklySchedule, t *time.Time) openinghours.Status {
	if t == nil {
		return vs.evaluator.Status(schedule)
	}
	return vs.evaluator.StatusAt(schedule, *t)
}

// GetVenuesNearby returns approved venues within radius km, nearest first.
func (vs *VenueService) GetVenuesNearby(lat, lon, radius float64, openNow bool) ([]venue.VenueWithStatus, error) {
	venues, err := vs.venueDao.GetNearbyVenues(lat, lon, radius)
	if err != nil {
		return nil, err
	}
	now := vs.evaluator.Now()
	out := make([]venue.VenueWithStatus, 0, len(venues))
	for _, v := range venues {
		if !v.IsApproved() {
			continue
		}
		st := vs.evaluator.StatusAt(v.OpeningHours, now)
		if openNow && !st.IsOpen {
			continue
		}
		out = append(out, venue.VenueWithStatus{Venue: v, Status: st})
	}
	return out, nil
}

// Search filters and sorts approved venues in memory.
func (vs *VenueService) Search(p models.VenueSearchParams) (*SearchResult, error) {
	venues, err := vs.venueDao.ListAllVenues()
	if err != nil {
		return nil, err
	}

	now := vs.evaluator.Now()
	hits := make([]venue.VenueWithStatus, 0, len(venues))
	for _, v := range venues {
		if !v.IsApproved() || !matches(v, p) {
			continue
		}
		st := vs.evaluator.StatusAt(v.OpeningHours, now)
		if p.OpenNow != nil && st.IsOpen != *p.OpenNow {
			continue
		}
		hits = append(hits, venue.VenueWithStatus{Venue: v, Status: st})
	}

	sortHits(hits, p)

	start, end := p.PageBounds(len(hits))
	return &SearchResult{Total: len(hits), Venues: hits[start:end]}, nil
}

func matches(v venue.Venue, p models.VenueSearchParams) bool {
	if p.Query != "" &&
		!util.ContainsFolded(v.VenueName, p.Query) &&
		!util.ContainsFolded(v.VenueAddress, p.Query) &&
		!util.ContainsFolded(v.VenueCity, p.Query) {
		return false
	}
	if p.Type != "" && util.Fold(v.VenueType) != util.Fold(p.Type) {
		return false
	}
	if p.City != "" && util.Fold(v.VenueCity) != util.Fold(p.City) {
		return false
	}
	if p.RatingMin != nil && v.Rating < *p.RatingMin {
		return false
	}
	// Unknown price levels never satisfy a price cap.
	if p.PriceMax != nil && (v.PriceLevel <= 0 || v.PriceLevel > *p.PriceMax) {
		return false
	}
	return true
}

func sortHits(hits []venue.VenueWithStatus, p models.VenueSearchParams) {
	byName := func(i, j int) bool {
		return util.Fold(hits[i].Venue.VenueName) < util.Fold(hits[j].Venue.VenueName)
	}

	switch p.OrderBy {
	case models.OrderByRating:
		sort.SliceStable(hits, func(i, j int) bool {
			if hits[i].Venue.Rating != hits[j].Venue.Rating {
				return hits[i].Venue.Rating > hits[j].Venue.Rating
			}
			return byName(i, j)
		})
	case models.OrderByDistance:
		dist := func(v venue.Venue) float64 {
			return db.HaversineKm(*p.Lat, *p.Lng, v.VenueLat, v.VenueLon)
		}
		sort.SliceStable(hits, func(i, j int) bool {
			return dist(hits[i].Venue) < dist(hits[j].Venue)
		})
	default:
		sort.SliceStable(hits, byName)
	}
}

// SubmitVenue validates a public submission and stores it pending moderation.
func (vs *VenueService) SubmitVenue(v venue.Venue) (*venue.Venue, error) {
	if err := validateVenue(v); err != nil {
		return nil, err
	}

	submittedAt := vs.evaluator.Now().UTC()
	v.VenueID = vs.newID()
	v.Moderation = venue.ModerationPending
	v.Source = venue.SourceSubmission
	v.SubmittedAt = &submittedAt

	if err := vs.venueDao.UpsertVenue(v); err != nil {
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}
	log.Printf("[VenueService] Stored submission id=%s name=%q", v.VenueID, v.VenueName)
	return &v, nil
}

// Moderate approves or rejects a stored venue.
func (vs *VenueService) Moderate(venueId, decision string) (*venue.Venue, error) {
	if decision != venue.ModerationApproved && decision != venue.ModerationRejected {
		return nil, fmt.Errorf("%w: unknown moderation decision %q", ErrInvalidVenue, decision)
	}
	v, err := vs.venueDao.GetVenue(venueId)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrVenueNotFound
	}

	v.Moderation = decision
	if err := vs.venueDao.UpsertVenue(*v); err != nil {
		return nil, fmt.Errorf("failed to store moderation for %s: %w", venueId, err)
	}
	log.Printf("[VenueService] Venue %s moderated: %s", venueId, decision)
	return v, nil
}

func validateVenue(v venue.Venue) error {
	var problems []string
	if strings.TrimSpace(v.VenueName) == "" {
		problems = append(problems, "venue_name is required")
	}
	if v.VenueLat < -90 || v.VenueLat > 90 {
		problems = append(problems, "venue_lat out of range")
	}
	if v.VenueLon < -180 || v.VenueLon > 180 {
		problems = append(problems, "venue_lng out of range")
	}
	if v.PriceLevel < 0 || v.PriceLevel > 4 {
		problems = append(problems, "price_level must be in 0..4")
	}
	for _, day := range openinghours.Week {
		ds, ok := v.OpeningHours[day]
		if !ok || ds.Closed {
			continue
		}
		for i, r := range ds.Ranges {
			_, okOpen := openinghours.ParseClock(r.Open)
			_, okClose := openinghours.ParseClock(r.Close)
			if !okOpen || !okClose {
				problems = append(problems, fmt.Sprintf("opening_hours.%s.ranges[%d] must be HH:MM", day, i))
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidVenue, strings.Join(problems, "; "))
	}
	return nil
}
