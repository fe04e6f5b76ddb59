package catalog

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"flavorquest/api"
	"flavorquest/config"
	"flavorquest/models"
	"flavorquest/models/venue"
	"flavorquest/util"
)

// CatalogApiClientMock serves the catalog from the JSON fixtures under resources/
type CatalogApiClientMock struct {
	catalogPath string
	venuePath   string
}

// NewCatalogApiClientMock creates a new instance of CatalogApiClientMock
func NewCatalogApiClientMock() *CatalogApiClientMock {
	return &CatalogApiClientMock{
		catalogPath: config.GetResourcePath(config.CATALOG_RESPONSE_RESOURCE),
		venuePath:   config.GetResourcePath(config.VENUE_STATIC_RESOURCE),
	}
}

// NewCatalogApiClientMockFromFiles serves the given fixture files instead of resources/
func NewCatalogApiClientMockFromFiles(catalogPath, venuePath string) *CatalogApiClientMock {
	return &CatalogApiClientMock{catalogPath: catalogPath, venuePath: venuePath}
}

func (c *CatalogApiClientMock) SetCredentials(apiKey string) {}

// GetCatalog returns the fixture catalog
func (c *CatalogApiClientMock) GetCatalog(ctx context.Context) (*models.CatalogResponse, error) {
	response, err := util.ReadCatalogResponseFromJSON(c.catalogPath)
	if err != nil {
		log.Println("[CatalogApiClientMock] Could not read catalog response from json")
		return nil, err
	}
	return response, nil
}

// GetVenue looks the venue up in the fixture catalog, falling back to the static venue fixture
func (c *CatalogApiClientMock) GetVenue(ctx context.Context, venueId string) (*venue.Venue, error) {
	if response, err := util.ReadCatalogResponseFromJSON(c.catalogPath); err == nil {
		for i := range response.Venues {
			if response.Venues[i].VenueID == venueId {
				return &response.Venues[i], nil
			}
		}
	}

	response, err := util.ReadVenueFromJSON(c.venuePath)
	if err != nil {
		log.Println("[CatalogApiClientMock] Could not read venue from json")
		return nil, err
	}
	if response.VenueID != venueId {
		return nil, fmt.Errorf("venue %s not in fixtures: %w", venueId,
			&api.StatusError{StatusCode: http.StatusNotFound, Status: "404 Not Found"})
	}
	return response, nil
}
