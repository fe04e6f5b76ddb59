// models/catalog_response.go
package models

import "flavorquest/models/venue"

// CatalogResponse is the upstream catalog export returned by GET /venues.
type CatalogResponse struct {
	Status    string        `json:"status"`
	Venues    []venue.Venue `json:"venues"`
	VenuesN   int           `json:"venues_n"`
	UpdatedAt string        `json:"updated_at,omitempty"`
}
