package catalog

import (
	"context"
	"fmt"
	"net/url"

	"flavorquest/api"
	"flavorquest/models"
	"flavorquest/models/venue"
)

const API_KEY_HEADER = "X-Api-Key"

// CatalogApiClient embeds the common HTTPClient
type CatalogApiClient struct {
	*api.HTTPClient // Embed HTTPClient to reuse its methods and properties
	apiKey          string
}

// NewCatalogApiClient creates a new instance of CatalogApiClient
func NewCatalogApiClient(httpClient *api.HTTPClient) *CatalogApiClient {
	return &CatalogApiClient{
		HTTPClient: httpClient,
	}
}

func (c *CatalogApiClient) SetCredentials(apiKey string) {
	c.apiKey = apiKey
}

func (c *CatalogApiClient) headers() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	return map[string]string{API_KEY_HEADER: c.apiKey}
}

// GetCatalog retrieves the full venue catalog export
func (c *CatalogApiClient) GetCatalog(ctx context.Context) (*models.CatalogResponse, error) {
	var response models.CatalogResponse
	if err := c.Request(ctx, "GET", "/venues", c.headers(), nil, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	return &response, nil
}

// GetVenue retrieves a venue given a venue id
func (c *CatalogApiClient) GetVenue(ctx context.Context, venueId string) (*venue.Venue, error) {
	var response venue.Venue
	if err := c.Request(ctx, "GET", "/venues/"+url.PathEscape(venueId), c.headers(), nil, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch venue %s: %w", venueId, err)
	}
	return &response, nil
}
