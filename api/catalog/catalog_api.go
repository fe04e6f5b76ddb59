package catalog

import (
	"context"

	"flavorquest/models"
	"flavorquest/models/venue"
)

// CatalogAPI defines the interface for reading the upstream venue catalog
type CatalogAPI interface {
	GetCatalog(ctx context.Context) (*models.CatalogResponse, error)
	GetVenue(ctx context.Context, venueId string) (*venue.Venue, error)
	SetCredentials(apiKey string)
}
