package handlers

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"flavorquest/config"
	"flavorquest/models"
	"flavorquest/models/venue"
	"flavorquest/openinghours"
	services "flavorquest/service"
	"flavorquest/util"

	"github.com/gorilla/mux"
)

const (
	LAT_QUERY_ARG      = "lat"
	LON_QUERY_ARG      = "lon"
	RADIUS_QUERY_ARG   = "radius"
	VERBOSE_QUERY_ARG  = "verbose"
	OPEN_NOW_QUERY_ARG = "open_now"

	VENUE_ID_PATH_VAR = "id"

	ADMIN_KEY_HEADER = "X-Api-Key"

	MAX_BODY_BYTES = 1 << 20
)

// MinifiedVenue is the small form returned when verbose=false.
type MinifiedVenue struct {
	VenueID      string             `json:"venue_id"`
	VenueName    string             `json:"venue_name"`
	VenueAddress string             `json:"venue_address"`
	VenueType    string             `json:"venue_type,omitempty"`
	Rating       float64            `json:"rating,omitempty"`
	State        openinghours.State `json:"state"`
	IsOpen       bool               `json:"is_open"`
	Label        string             `json:"label"`
	Detail       string             `json:"detail,omitempty"`
}

// EvaluateRequest is the body of POST /v1/hours/evaluate.
type EvaluateRequest struct {
	OpeningHours openinghours.WeeklySchedule `json:"opening_hours"`
	At           *time.Time                  `json:"at,omitempty"`
}

type ModerationRequest struct {
	Decision string `json:"decision"`
}

type VenueHandler struct {
	venueService *services.VenueService
	adminAPIKey  string
}

// NewVenueHandler builds the handler. Moderation requires adminAPIKey in the
// X-Api-Key header and is disabled when the key is empty.
func NewVenueHandler(venueService *services.VenueService, adminAPIKey string) *VenueHandler {
	return &VenueHandler{venueService: venueService, adminAPIKey: adminAPIKey}
}

// GetVenuesNearby handles GET /v1/venues/nearby
func (h *VenueHandler) GetVenuesNearby(w http.ResponseWriter, r *http.Request) {
	// 1) Parse query args
	lat, lon, radius, verbose, openNow, ok := h.parseNearbyArgs(r.URL.Query(), w)
	if !ok {
		return // error already written
	}

	// 2) Load geo-indexed venues with their status
	venues, err := h.venueService.GetVenuesNearby(lat, lon, radius, openNow)
	if err != nil {
		log.Println("[VenueHandler] Error loading nearby venues:", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// 3) Transform according to verbose flag
	writeJSON(w, http.StatusOK, h.transform(venues, verbose))
}

func (h *VenueHandler) parseNearbyArgs(vals url.Values, w http.ResponseWriter) (
	lat, lon, radius float64, verbose, openNow bool, ok bool,
) {
	var err error

	lat, err = parseArgFloat64(vals, LAT_QUERY_ARG)
	if err != nil || lat < -90 || lat > 90 {
		http.Error(w, "Invalid argument "+LAT_QUERY_ARG, http.StatusBadRequest)
		return
	}
	lon, err = parseArgFloat64(vals, LON_QUERY_ARG)
	if err != nil || lon < -180 || lon > 180 {
		http.Error(w, "Invalid argument "+LON_QUERY_ARG, http.StatusBadRequest)
		return
	}
	radius = config.DEFAULT_NEARBY_RADIUS_KM
	if vals.Get(RADIUS_QUERY_ARG) != "" {
		radius, err = parseArgFloat64(vals, RADIUS_QUERY_ARG)
		if err != nil || radius <= 0 {
			http.Error(w, "Invalid argument "+RADIUS_QUERY_ARG, http.StatusBadRequest)
			return
		}
	}
	if v := vals.Get(VERBOSE_QUERY_ARG); v != "" {
		verbose, _ = strconv.ParseBool(v)
	}
	if v := vals.Get(OPEN_NOW_QUERY_ARG); v != "" {
		openNow, _ = strconv.ParseBool(v)
	}
	ok = true
	return
}

func (h *VenueHandler) transform(venues []venue.VenueWithStatus, verbose bool) interface{} {
	if verbose {
		return venues
	}
	out := make([]MinifiedVenue, 0, len(venues))
	for _, m := range venues {
		out = append(out, MinifiedVenue{
			VenueID:      m.Venue.VenueID,
			VenueName:    m.Venue.VenueName,
			VenueAddress: m.Venue.VenueAddress,
			VenueType:    m.Venue.VenueType,
			Rating:       m.Venue.Rating,
			State:        m.Status.State,
			IsOpen:       m.Status.IsOpen,
			Label:        m.Status.Label,
			Detail:       m.Status.Detail,
		})
	}
	return out
}

// SearchVenues handles GET /v1/venues/search
func (h *VenueHandler) SearchVenues(w http.ResponseWriter, r *http.Request) {
	params, err := models.ParseVenueSearchParams(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.venueService.Search(params)
	if err != nil {
		log.Println("[VenueHandler] Error searching venues:", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetVenue handles GET /v1/venues/{id}
func (h *VenueHandler) GetVenue(w http.ResponseWriter, r *http.Request) {
	v, err := h.venueService.GetVenueWithStatus(r.Context(), mux.Vars(r)[VENUE_ID_PATH_VAR])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// GetVenueStatus handles GET /v1/venues/{id}/status
func (h *VenueHandler) GetVenueStatus(w http.ResponseWriter, r *http.Request) {
	v, err := h.venueService.GetVenueWithStatus(r.Context(), mux.Vars(r)[VENUE_ID_PATH_VAR])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v.Status)
}

// GetVenueHoursChart handles GET /v1/venues/{id}/hours/chart
func (h *VenueHandler) GetVenueHoursChart(w http.ResponseWriter, r *http.Request) {
	v, err := h.venueService.GetVenue(r.Context(), mux.Vars(r)[VENUE_ID_PATH_VAR])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := util.RenderWeeklyHoursChart(&buf, *v); err != nil {
		log.Println("[VenueHandler] Error rendering chart:", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// SubmitVenue handles POST /v1/venues
func (h *VenueHandler) SubmitVenue(w http.ResponseWriter, r *http.Request) {
	var v venue.Venue
	if err := decodeBody(r, &v); err != nil {
		http.Error(w, "Invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}

	stored, err := h.venueService.SubmitVenue(v)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"venue_id":   stored.VenueID,
		"moderation": stored.Moderation,
	})
}

// ModerateVenue handles POST /v1/venues/{id}/moderation
func (h *VenueHandler) ModerateVenue(w http.ResponseWriter, r *http.Request) {
	if h.adminAPIKey == "" {
		http.Error(w, "Moderation is disabled", http.StatusForbidden)
		return
	}
	key := r.Header.Get(ADMIN_KEY_HEADER)
	if subtle.ConstantTimeCompare([]byte(key), []byte(h.adminAPIKey)) != 1 {
		log.Println("[VenueHandler] Rejected moderation request without a valid admin key")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req ModerationRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "Invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}

	v, err := h.venueService.Moderate(mux.Vars(r)[VENUE_ID_PATH_VAR], req.Decision)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// EvaluateHours handles POST /v1/hours/evaluate
func (h *VenueHandler) EvaluateHours(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "Invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.venueService.EvaluateSchedule(req.OpeningHours, req.At))
}

// Ping handles GET /ping
func (h *VenueHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "pong"})
}

func parseArgFloat64(vals url.Values, name string) (float64, error) {
	s := vals.Get(name)
	return strconv.ParseFloat(s, 64)
}

func decodeBody(r *http.Request, out interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, MAX_BODY_BYTES+1))
	if err != nil {
		return err
	}
	if len(body) > MAX_BODY_BYTES {
		return fmt.Errorf("body larger than %d bytes", MAX_BODY_BYTES)
	}
	return json.Unmarshal(body, out)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrVenueNotFound):
		http.Error(w, "Venue not found", http.StatusNotFound)
	case errors.Is(err, services.ErrInvalidVenue):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Println("[VenueHandler] Internal error:", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("[VenueHandler] Error encoding response:", err)
	}
}
