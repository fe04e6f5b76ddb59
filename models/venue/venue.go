package venue

import (
	"fmt"
	"time"

	"flavorquest/openinghours"
)

// Moderation states of a listing.
const (
	ModerationApproved = "approved"
	ModerationPending  = "pending"
	ModerationRejected = "rejected"
)

// Where a stored venue came from.
const (
	SourceCatalog    = "catalog"
	SourceSubmission = "submission"
)

// Venue is a listed restaurant or food venue as stored in the directory.
type Venue struct {
	VenueID      string  `json:"venue_id"`
	VenueName    string  `json:"venue_name"`
	VenueAddress string  `json:"venue_address"`
	VenueCity    string  `json:"venue_city,omitempty"`
	VenueLat     float64 `json:"venue_lat"`
	VenueLon     float64 `json:"venue_lng"`

	VenueType  string  `json:"venue_type,omitempty"`
	Phone      string  `json:"phone,omitempty"`
	Website    string  `json:"website,omitempty"`
	PriceLevel int     `json:"price_level,omitempty"`
	Rating     float64 `json:"rating,omitempty"`
	Reviews    int     `json:"reviews,omitempty"`

	OpeningHours openinghours.WeeklySchedule `json:"opening_hours"`

	Moderation  string     `json:"moderation,omitempty"`
	Source      string     `json:"source,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

// VenueWithStatus pairs a Venue with its current opening status.
type VenueWithStatus struct {
	Venue  Venue               `json:"venue"`
	Status openinghours.Status `json:"status"`
}

// IsApproved reports whether the venue is publicly listed. Catalog documents
// without a moderation field predate moderation and count as approved.
func (v *Venue) IsApproved() bool {
	return v.Moderation == "" || v.Moderation == ModerationApproved
}

func (v *Venue) ToString() string {
	return fmt.Sprintf("Venue(name=%s, address=%s, lat=%f, lon=%f)",
		v.VenueName, v.VenueAddress, v.VenueLat, v.VenueLon)
}
