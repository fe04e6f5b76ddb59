package util

import (
	"encoding/json"
	"fmt"
	"os"

	"flavorquest/models"
	"flavorquest/models/venue"
)

// ReadCatalogResponseFromJSON loads a CatalogResponse from JSON on disk.
func ReadCatalogResponseFromJSON(filePath string) (*models.CatalogResponse, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var resp models.CatalogResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal CatalogResponse: %w", err)
	}
	return &resp, nil
}

// ReadVenueFromJSON loads a single Venue from JSON on disk.
func ReadVenueFromJSON(filePath string) (*venue.Venue, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var v venue.Venue
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal Venue: %w", err)
	}
	return &v, nil
}

// PrintCatalogResponsePartially prints key fields of CatalogResponse.
func PrintCatalogResponsePartially(resp *models.CatalogResponse) {
	fmt.Printf("Status: %s\n", resp.Status)
	fmt.Printf("Updated at: %s\n", resp.UpdatedAt)
	fmt.Printf("Venues returned: %d (declared %d)\n", len(resp.Venues), resp.VenuesN)
	if len(resp.Venues) > 0 {
		v := resp.Venues[0]
		fmt.Printf("First venue: %s at %s (%.6f, %.6f)\n", v.VenueName, v.VenueAddress, v.VenueLat, v.VenueLon)
	}
}
