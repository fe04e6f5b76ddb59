package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// VenueRoutes is the set of handlers the router exposes.
type VenueRoutes interface {
	Ping(w http.ResponseWriter, r *http.Request)
	GetVenuesNearby(w http.ResponseWriter, r *http.Request)
	SearchVenues(w http.ResponseWriter, r *http.Request)
	GetVenue(w http.ResponseWriter, r *http.Request)
	GetVenueStatus(w http.ResponseWriter, r *http.Request)
	GetVenueHoursChart(w http.ResponseWriter, r *http.Request)
	SubmitVenue(w http.ResponseWriter, r *http.Request)
	ModerateVenue(w http.ResponseWriter, r *http.Request)
	EvaluateHours(w http.ResponseWriter, r *http.Request)
}

type Router struct {
	venueHandler VenueRoutes
	router       *mux.Router
}

// NewRouter creates a router with the app’s routes.
func NewRouter(
	venueHandler VenueRoutes,
	router *mux.Router) *Router {
	return &Router{
		venueHandler: venueHandler,
		router:       router,
	}
}

func (r *Router) RegisterRoutes() {
	r.router.HandleFunc("/ping", r.venueHandler.Ping).Methods("GET")

	v1 := r.router.PathPrefix("/v1").Subrouter()

	// expects ?lat={latitude(float)}&lon={longitude(float)}[&radius={km(float)}][&open_now=bool][&verbose=bool]
	v1.HandleFunc("/venues/nearby", r.venueHandler.GetVenuesNearby).Methods("GET")
	v1.HandleFunc("/venues/search", r.venueHandler.SearchVenues).Methods("GET")
	v1.HandleFunc("/venues", r.venueHandler.SubmitVenue).Methods("POST")
	v1.HandleFunc("/venues/{id}", r.venueHandler.GetVenue).Methods("GET")
	v1.HandleFunc("/venues/{id}/status", r.venueHandler.GetVenueStatus).Methods("GET")
	v1.HandleFunc("/venues/{id}/hours/chart", r.venueHandler.GetVenueHoursChart).Methods("GET")
	v1.HandleFunc("/venues/{id}/moderation", r.venueHandler.ModerateVenue).Methods("POST")
	v1.HandleFunc("/hours/evaluate", r.venueHandler.EvaluateHours).Methods("POST")
}

// Handler returns the underlying mux router.
func (r *Router) Handler() http.Handler {
	return r.router
}
