package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"flavorquest/api"
	"flavorquest/dao/redis"
	"flavorquest/db"
	"flavorquest/models"
	"flavorquest/models/venue"
	"flavorquest/openinghours"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog is an in-memory CatalogAPI.
type fakeCatalog struct {
	venues []venue.Venue
	err    error
	calls  int
}

func (f *fakeCatalog) GetCatalog(ctx context.Context) (*models.CatalogResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.CatalogResponse{Status: "OK", Venues: f.venues, VenuesN: len(f.venues)}, nil
}

func (f *fakeCatalog) GetVenue(ctx context.Context, venueId string) (*venue.Venue, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.venues {
		if f.venues[i].VenueID == venueId {
			v := f.venues[i]
			return &v, nil
		}
	}
	return nil, fmt.Errorf("venue %s: %w", venueId, &api.StatusError{StatusCode: http.StatusNotFound, Status: "404 Not Found"})
}

func (f *fakeCatalog) SetCredentials(apiKey string) {}

// Friday 7 June 2024, 20:30 in Brussels.
var fridayEvening = time.Date(2024, time.June, 7, 18, 30, 0, 0, time.UTC)

func brussels(t *testing.T) *time.Location {
	t.Helper()
	loc, err := openinghours.LoadLocation("Europe/Brussels")
	require.NoError(t, err)
	return loc
}

func hours(day openinghours.Day, open, close string) openinghours.WeeklySchedule {
	return openinghours.WeeklySchedule{
		day: {Ranges: []openinghours.TimeRange{{Open: open, Close: close}}},
	}
}

func newTestService(t *testing.T, catalogApi *fakeCatalog) (*VenueService, *redis.RedisVenueDAO) {
	t.Helper()
	dao := redis.NewRedisVenueDAO(db.NewMockRedisClient(context.Background()))
	evaluator := openinghours.NewEvaluator(brussels(t), func() time.Time { return fridayEvening })
	if catalogApi == nil {
		catalogApi = &fakeCatalog{}
	}
	return NewVenueService(dao, catalogApi, evaluator), dao
}

func seed(t *testing.T, dao *redis.RedisVenueDAO, venues ...venue.Venue) {
	t.Helper()
	for _, v := range venues {
		require.NoError(t, dao.UpsertVenue(v))
	}
}

func TestVenueService_GetVenueWithStatus(t *testing.T) {
	vs, dao := newTestService(t, nil)
	seed(t, dao, venue.Venue{
		VenueID:      "bar",
		VenueName:    "Le Bar du Coin",
		OpeningHours: hours(openinghours.Friday, "18:00", "21:00"),
	})

	got, err := vs.GetVenueWithStatus(context.Background(), "bar")
	require.NoError(t, err)
	assert.Equal(t, "Le Bar du Coin", got.Venue.VenueName)
	assert.Equal(t, openinghours.StateClosingSoon, got.Status.State)
	assert.Equal(t, "Closes at 21:00", got.Status.Detail)
}

func TestVenueService_GetVenue_PendingIsHidden(t *testing.T) {
	vs, dao := newTestService(t, nil)
	seed(t, dao, venue.Venue{VenueID: "p", VenueName: "Pending", Moderation: venue.ModerationPending})

	_, err := vs.GetVenue(context.Background(), "p")
	assert.True(t, errors.Is(err, ErrVenueNotFound))
}

func TestVenueService_GetVenue_ReadsThroughCatalog(t *testing.T) {
	catalogApi := &fakeCatalog{venues: []venue.Venue{{VenueID: "up", VenueName: "Upstream"}}}
	vs, dao := newTestService(t, catalogApi)

	got, err := vs.GetVenue(context.Background(), "up")
	require.NoError(t, err)
	assert.Equal(t, "Upstream", got.VenueName)

	cached, err := dao.GetVenue("up")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, venue.SourceCatalog, cached.Source)

	_, err = vs.GetVenue(context.Background(), "nowhere")
	assert.True(t, errors.Is(err, ErrVenueNotFound))
}

func TestVenueService_GetVenue_CatalogFailure(t *testing.T) {
	vs, _ := newTestService(t, &fakeCatalog{err: errors.New("connection refused")})

	_, err := vs.GetVenue(context.Background(), "x")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrVenueNotFound))
}

func TestVenueService_GetVenuesNearby(t *testing.T) {
	vs, dao := newTestService(t, nil)
	seed(t, dao,
		venue.Venue{VenueID: "open", VenueName: "Open", VenueLat: 50.4674, VenueLon: 4.8718, OpeningHours: hours(openinghours.Friday, "18:00", "23:00")},
		venue.Venue{VenueID: "closed", VenueName: "Closed", VenueLat: 50.4675, VenueLon: 4.8719, OpeningHours: hours(openinghours.Friday, "11:00", "14:00")},
		venue.Venue{VenueID: "pending", VenueName: "Pending", VenueLat: 50.4676, VenueLon: 4.8720, Moderation: venue.ModerationPending},
		venue.Venue{VenueID: "far", VenueName: "Far", VenueLat: 50.6326, VenueLon: 5.5797},
	)

	all, err := vs.GetVenuesNearby(50.4674, 4.8718, 2, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "open", all[0].Venue.VenueID)
	assert.Equal(t, openinghours.StateOpen, all[0].Status.State)
	assert.Equal(t, openinghours.StateClosed, all[1].Status.State)

	openOnly, err := vs.GetVenuesNearby(50.4674, 4.8718, 2, true)
	require.NoError(t, err)
	require.Len(t, openOnly, 1)
	assert.Equal(t, "open", openOnly[0].Venue.VenueID)
}

func TestVenueService_Search(t *testing.T) {
	vs, dao := newTestService(t, nil)
	seed(t, dao,
		venue.Venue{VenueID: "1", VenueName: "Brasserie de Liège", VenueCity: "Liège", VenueType: "restaurant", Rating: 4.2, PriceLevel: 2, VenueLat: 50.6326, VenueLon: 5.5797},
		venue.Venue{VenueID: "2", VenueName: "Café des Arts", VenueCity: "Namur", VenueType: "cafe", Rating: 4.8, PriceLevel: 1, VenueLat: 50.4674, VenueLon: 4.8718,
			OpeningHours: hours(openinghours.Friday, "08:00", "23:00")},
		venue.Venue{VenueID: "3", VenueName: "Au Liégeois", VenueCity: "Namur", VenueType: "restaurant", Rating: 3.9, VenueLat: 50.4680, VenueLon: 4.8600},
		venue.Venue{VenueID: "4", VenueName: "Hidden", VenueCity: "Liège", Moderation: venue.ModerationRejected},
	)

	t.Run("accent insensitive text", func(t *testing.T) {
		res, err := vs.Search(models.VenueSearchParams{Query: "LIEGE"})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Total)
		assert.Equal(t, "3", res.Venues[0].Venue.VenueID) // "au liegeois" sorts first
		assert.Equal(t, "1", res.Venues[1].Venue.VenueID)
	})

	t.Run("type and city", func(t *testing.T) {
		res, err := vs.Search(models.VenueSearchParams{Type: "Restaurant", City: "namur"})
		require.NoError(t, err)
		require.Equal(t, 1, res.Total)
		assert.Equal(t, "3", res.Venues[0].Venue.VenueID)
	})

	t.Run("open now", func(t *testing.T) {
		openNow := true
		res, err := vs.Search(models.VenueSearchParams{OpenNow: &openNow})
		require.NoError(t, err)
		require.Equal(t, 1, res.Total)
		assert.Equal(t, "2", res.Venues[0].Venue.VenueID)
		assert.True(t, res.Venues[0].Status.IsOpen)
	})

	t.Run("rating and price", func(t *testing.T) {
		minRating, maxPrice := 4.0, 2
		res, err := vs.Search(models.VenueSearchParams{RatingMin: &minRating, PriceMax: &maxPrice, OrderBy: models.OrderByRating})
		require.NoError(t, err)
		require.Equal(t, 2, res.Total)
		assert.Equal(t, "2", res.Venues[0].Venue.VenueID)
		assert.Equal(t, "1", res.Venues[1].Venue.VenueID)
	})

	t.Run("distance and paging", func(t *testing.T) {
		lat, lng := 50.4674, 4.8718
		limit, page := 1, 1
		res, err := vs.Search(models.VenueSearchParams{Lat: &lat, Lng: &lng, OrderBy: models.OrderByDistance, Limit: &limit, Page: &page})
		require.NoError(t, err)
		assert.Equal(t, 3, res.Total)
		require.Len(t, res.Venues, 1)
		assert.Equal(t, "3", res.Venues[0].Venue.VenueID)
	})
}

func TestVenueService_Search_HugePage(t *testing.T) {
	vs, dao := newTestService(t, nil)
	seed(t, dao,
		venue.Venue{VenueID: "1", VenueName: "A"},
		venue.Venue{VenueID: "2", VenueName: "B"},
		venue.Venue{VenueID: "3", VenueName: "C"},
	)

	q, err := url.ParseQuery("page=9223372036854775807&limit=2")
	require.NoError(t, err)
	params, err := models.ParseVenueSearchParams(q)
	require.NoError(t, err)

	var result *SearchResult
	require.NotPanics(t, func() { result, err = vs.Search(params) })
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Empty(t, result.Venues)
}

func TestVenueService_SubmitAndModerate(t *testing.T) {
	vs, dao := newTestService(t, nil)
	vs.newID = func() string { return "sub-1" }

	submitted, err := vs.SubmitVenue(venue.Venue{
		VenueName:    "Friterie Chez Martine",
		VenueLat:     50.41,
		VenueLon:     4.44,
		Moderation:   venue.ModerationApproved,
		OpeningHours: hours(openinghours.Saturday, "11:30", "22:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "sub-1", submitted.VenueID)
	assert.Equal(t, venue.ModerationPending, submitted.Moderation)
	assert.Equal(t, venue.SourceSubmission, submitted.Source)
	require.NotNil(t, submitted.SubmittedAt)
	assert.True(t, submitted.SubmittedAt.Equal(fridayEvening))

	_, err = vs.GetVenue(context.Background(), "sub-1")
	assert.True(t, errors.Is(err, ErrVenueNotFound))

	_, err = vs.Moderate("sub-1", "maybe")
	assert.True(t, errors.Is(err, ErrInvalidVenue))

	_, err = vs.Moderate("missing", venue.ModerationApproved)
	assert.True(t, errors.Is(err, ErrVenueNotFound))

	approved, err := vs.Moderate("sub-1", venue.ModerationApproved)
	require.NoError(t, err)
	assert.Equal(t, venue.ModerationApproved, approved.Moderation)

	stored, err := dao.GetVenue("sub-1")
	require.NoError(t, err)
	assert.True(t, stored.IsApproved())

	got, err := vs.GetVenue(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.Equal(t, "Friterie Chez Martine", got.VenueName)
}

func TestVenueService_SubmitVenue_Invalid(t *testing.T) {
	vs, _ := newTestService(t, nil)

	_, err := vs.SubmitVenue(venue.Venue{
		VenueLat:     91,
		OpeningHours: hours(openinghours.Monday, "11h", "14:00"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidVenue))
	assert.Contains(t, err.Error(), "venue_name is required")
	assert.Contains(t, err.Error(), "venue_lat out of range")
	assert.Contains(t, err.Error(), "opening_hours.monday.ranges[0] must be HH:MM")
}

func TestVenueService_EvaluateSchedule(t *testing.T) {
	vs, _ := newTestService(t, nil)
	schedule := hours(openinghours.Friday, "22:00", "02:00")

	assert.Equal(t, openinghours.StateClosed, vs.EvaluateSchedule(schedule, nil).State)

	// Saturday 00:30 in Brussels.
	late := time.Date(2024, time.June, 7, 22, 30, 0, 0, time.UTC)
	st := vs.EvaluateSchedule(schedule, &late)
	assert.Equal(t, openinghours.StateOpen, st.State)
	assert.Equal(t, "Closes at 02:00", st.Detail)

	assert.Equal(t, openinghours.StateUnknown, vs.EvaluateSchedule(nil, nil).State)
}
