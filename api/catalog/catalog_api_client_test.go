package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"flavorquest/api"
	"flavorquest/models"
	"flavorquest/models/venue"
	"flavorquest/openinghours"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/venues", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get(API_KEY_HEADER))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "OK",
			"venues_n": 1,
			"venues": [{
				"venue_id": "fq-1",
				"venue_name": "Friterie du Pont",
				"venue_lat": 50.4674,
				"venue_lng": 4.8718,
				"opening_hours": {"friday": {"open": "18:00", "close": "01:00"}}
			}]
		}`))
	}))
	defer srv.Close()

	client := NewCatalogApiClient(api.NewHTTPClient(srv.URL))
	client.SetCredentials("secret")

	got, err := client.GetCatalog(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "OK", got.Status)
	require.Len(t, got.Venues, 1)
	assert.Equal(t, "Friterie du Pont", got.Venues[0].VenueName)
	assert.Equal(t, []openinghours.TimeRange{{Open: "18:00", Close: "01:00"}},
		got.Venues[0].OpeningHours[openinghours.Friday].Ranges)
}

func TestGetVenue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/venues/fq-2", r.URL.Path)
		assert.Empty(t, r.Header.Get(API_KEY_HEADER))
		json.NewEncoder(w).Encode(venue.Venue{VenueID: "fq-2", VenueName: "Le Comptoir"})
	}))
	defer srv.Close()

	client := NewCatalogApiClient(api.NewHTTPClient(srv.URL))

	got, err := client.GetVenue(context.Background(), "fq-2")
	require.NoError(t, err)
	assert.Equal(t, "Le Comptoir", got.VenueName)
}

func TestGetCatalog_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	got, err := NewCatalogApiClient(api.NewHTTPClient(srv.URL)).GetCatalog(context.Background())
	assert.Error(t, err)
	assert.Nil(t, got)
}

func writeFixture(t *testing.T, name string, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func TestCatalogApiClientMock(t *testing.T) {
	catalogPath := writeFixture(t, "catalog.json", models.CatalogResponse{
		Status:  "OK",
		VenuesN: 1,
		Venues:  []venue.Venue{{VenueID: "fq-1", VenueName: "Friterie du Pont"}},
	})
	venuePath := writeFixture(t, "venue.json", venue.Venue{VenueID: "fq-static", VenueName: "Static"})

	client := NewCatalogApiClientMockFromFiles(catalogPath, venuePath)

	resp, err := client.GetCatalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, resp.Venues, 1)

	v, err := client.GetVenue(context.Background(), "fq-1")
	require.NoError(t, err)
	assert.Equal(t, "Friterie du Pont", v.VenueName)

	v, err = client.GetVenue(context.Background(), "fq-static")
	require.NoError(t, err)
	assert.Equal(t, "Static", v.VenueName)

	_, err = client.GetVenue(context.Background(), "unknown")
	assert.Error(t, err)
}
