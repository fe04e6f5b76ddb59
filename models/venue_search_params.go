package models

import (
	"fmt"
	"net/url"
	"strconv"
)

// Search sort orders.
const (
	OrderByName     = "name"
	OrderByRating   = "rating"
	OrderByDistance = "distance"
)

const DEFAULT_SEARCH_LIMIT = 50
const MAX_SEARCH_LIMIT = 500

// VenueSearchParams mirrors the /v1/venues/search query args. Use zero-values to omit.
type VenueSearchParams struct {
	Query     string   // free text over name, address and city
	Type      string   // e.g. "restaurant", "cafe", "bar"
	City      string   // optional
	OpenNow   *bool    // optional
	RatingMin *float64 // optional, 0..5
	PriceMax  *int     // optional, 1..4
	Lat       *float64 // optional; must be paired with Lng
	Lng       *float64 // optional
	OrderBy   string   // "name"(default) | "rating" | "distance"
	Limit     *int     // default 50
	Page      *int     // default 0
}

// ParseVenueSearchParams reads and validates query args.
func ParseVenueSearchParams(q url.Values) (VenueSearchParams, error) {
	p := VenueSearchParams{
		Query:   q.Get("q"),
		Type:    q.Get("type"),
		City:    q.Get("city"),
		OrderBy: q.Get("sort"),
	}

	var err error
	if p.OpenNow, err = parseBool(q, "open_now"); err != nil {
		return p, err
	}
	if p.RatingMin, err = parseFloat(q, "min_rating"); err != nil {
		return p, err
	}
	if p.PriceMax, err = parseInt(q, "max_price"); err != nil {
		return p, err
	}
	if p.Lat, err = parseFloat(q, "lat"); err != nil {
		return p, err
	}
	if p.Lng, err = parseFloat(q, "lng"); err != nil {
		return p, err
	}
	if p.Limit, err = parseInt(q, "limit"); err != nil {
		return p, err
	}
	if p.Page, err = parseInt(q, "page"); err != nil {
		return p, err
	}

	switch p.OrderBy {
	case "", OrderByName, OrderByRating:
	case OrderByDistance:
		if p.Lat == nil || p.Lng == nil {
			return p, fmt.Errorf("sort=distance requires lat and lng")
		}
	default:
		return p, fmt.Errorf("invalid argument sort: %q", p.OrderBy)
	}
	if (p.Lat == nil) != (p.Lng == nil) {
		return p, fmt.Errorf("lat and lng must be given together")
	}
	if p.Limit != nil && (*p.Limit <= 0 || *p.Limit > MAX_SEARCH_LIMIT) {
		return p, fmt.Errorf("invalid argument limit: must be in 1..%d", MAX_SEARCH_LIMIT)
	}
	if p.Page != nil && *p.Page < 0 {
		return p, fmt.Errorf("invalid argument page: must not be negative")
	}
	return p, nil
}

// PageBounds returns the [start, end) slice window for n results.
func (p VenueSearchParams) PageBounds(n int) (int, int) {
	limit := DEFAULT_SEARCH_LIMIT
	if p.Limit != nil {
		limit = *p.Limit
	}
	page := 0
	if p.Page != nil {
		page = *p.Page
	}
	if limit <= 0 {
		limit = DEFAULT_SEARCH_LIMIT
	}
	if page < 0 {
		page = 0
	}
	// Compare before multiplying so huge pages cannot overflow.
	if page > n/limit {
		return n, n
	}
	start := page * limit
	end := n
	if limit < n-start {
		end = start + limit
	}
	return start, end
}

func (p VenueSearchParams) ToValues() url.Values {
	q := url.Values{}

	if p.Query != "" {
		q.Set("q", p.Query)
	}
	if p.Type != "" {
		q.Set("type", p.Type)
	}
	if p.City != "" {
		q.Set("city", p.City)
	}
	if p.OpenNow != nil {
		q.Set("open_now", btoa(*p.OpenNow))
	}
	if p.RatingMin != nil {
		q.Set("min_rating", ftoa(*p.RatingMin))
	}
	if p.PriceMax != nil {
		q.Set("max_price", itoa(*p.PriceMax))
	}
	if p.Lat != nil {
		q.Set("lat", ftoa(*p.Lat))
	}
	if p.Lng != nil {
		q.Set("lng", ftoa(*p.Lng))
	}
	if p.OrderBy != "" {
		q.Set("sort", p.OrderBy)
	}
	if p.Limit != nil {
		q.Set("limit", itoa(*p.Limit))
	}
	if p.Page != nil {
		q.Set("page", itoa(*p.Page))
	}

	return q
}

func parseBool(q url.Values, name string) (*bool, error) {
	s := q.Get(name)
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("invalid argument %s: %w", name, err)
	}
	return &b, nil
}

func parseFloat(q url.Values, name string) (*float64, error) {
	s := q.Get(name)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid argument %s: %w", name, err)
	}
	return &f, nil
}

func parseInt(q url.Values, name string) (*int, error) {
	s := q.Get(name)
	if s == "" {
		return nil, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid argument %s: %w", name, err)
	}
	return &i, nil
}

// lightweight helpers (no fmt.Sprintf allocations for ints/bools)
func itoa(i int) string     { return strconv.Itoa(i) }
func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
func btoa(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
