package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"flavorquest/api/catalog"
	"flavorquest/dao/redis"
	"flavorquest/models/venue"
	"flavorquest/util"
)

// RefreshSummary reports what one catalog refresh did.
type RefreshSummary struct {
	Fetched  int
	Upserted int
	Skipped  int
	Removed  int
}

// VenuesRefresherService periodically mirrors the upstream catalog into Redis.
type VenuesRefresherService struct {
	venueDao   *redis.RedisVenueDAO
	catalogAPI catalog.CatalogAPI
}

// NewVenuesRefresherService constructs a new Refresher with dependencies.
func NewVenuesRefresherService(
	venueDao *redis.RedisVenueDAO,
	catalogAPI catalog.CatalogAPI,
) *VenuesRefresherService {
	return &VenuesRefresherService{
		venueDao:   venueDao,
		catalogAPI: catalogAPI,
	}
}

// StartPeriodicJob launches the background loop at the given interval. It
// stops when ctx is cancelled.
func (vr *VenuesRefresherService) StartPeriodicJob(ctx context.Context, interval time.Duration) {
	go vr.startPeriodicJob(ctx, interval)
}

func (vr *VenuesRefresherService) startPeriodicJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[VenuesRefresherService] Periodic job stopped.")
			return
		case <-ticker.C:
			log.Println("[VenuesRefresherService] Running periodic venues refresher job.")
			if _, err := vr.RefreshVenuesData(ctx); err != nil {
				log.Printf("[VenuesRefresherService] RefreshVenuesData returned error: %v", err)
			} else {
				log.Println("[VenuesRefresherService] RefreshVenuesData completed successfully.")
			}
		}
	}
}

// RefreshVenuesData fetches the catalog, upserts its unique venues and
// removes catalog venues that disappeared upstream. Local submissions are
// never pruned.
func (vr *VenuesRefresherService) RefreshVenuesData(ctx context.Context) (RefreshSummary, error) {
	var summary RefreshSummary

	// 1) Fetch catalog
	resp, err := vr.catalogAPI.GetCatalog(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	summary.Fetched = len(resp.Venues)
	log.Printf("[VenuesRefresherService] Catalog returned %d venues (status=%q)", summary.Fetched, resp.Status)

	// 2) Dedupe and upsert
	seen := vr.upsertUnique(resp.Venues, &summary)

	// 3) Prune venues gone from the catalog
	if len(seen) == 0 {
		log.Println("[VenuesRefresherService] Empty catalog; skipping prune.")
		return summary, nil
	}
	removed, err := vr.pruneMissing(seen)
	summary.Removed = removed
	if err != nil {
		return summary, err
	}

	log.Printf("[VenuesRefresherService] Refresh done: fetched=%d upserted=%d skipped=%d removed=%d",
		summary.Fetched, summary.Upserted, summary.Skipped, summary.Removed)
	return summary, nil
}

// upsertUnique stores each venue once, deduping by id and by folded name,
// and returns the ids it kept.
func (vr *VenuesRefresherService) upsertUnique(venues []venue.Venue, summary *RefreshSummary) map[string]struct{} {
	seenIDs := make(map[string]struct{})
	seenNames := make(map[string]struct{})

	for _, v := range venues {
		if v.VenueID == "" {
			log.Printf("[VenuesRefresherService] Skipping venue without id name=%q", v.VenueName)
			summary.Skipped++
			continue
		}
		if _, dup := seenIDs[v.VenueID]; dup {
			log.Printf("[VenuesRefresherService] Skipping duplicate venue ID=%s", v.VenueID)
			summary.Skipped++
			continue
		}
		nameKey := util.Fold(v.VenueName) + "|" + util.Fold(v.VenueAddress)
		if _, dup := seenNames[nameKey]; dup {
			log.Printf("[VenuesRefresherService] Skipping duplicate venue Name=%q", v.VenueName)
			summary.Skipped++
			continue
		}

		seenIDs[v.VenueID] = struct{}{}
		seenNames[nameKey] = struct{}{}

		v.Source = venue.SourceCatalog
		if v.Moderation == "" {
			v.Moderation = venue.ModerationApproved
		}
		if vr.locallyRejected(v.VenueID) {
			v.Moderation = venue.ModerationRejected
		}
		if err := vr.venueDao.UpsertVenue(v); err != nil {
			log.Printf("[VenuesRefresherService] Upsert failed for %s: %v", v.VenueID, err)
			summary.Skipped++
			continue
		}
		summary.Upserted++
	}
	return seenIDs
}

// locallyRejected reports whether a moderator rejected the stored copy. Such a
// decision survives refreshes whatever the catalog says.
func (vr *VenuesRefresherService) locallyRejected(venueID string) bool {
	stored, err := vr.venueDao.GetVenue(venueID)
	if err != nil {
		log.Printf("[VenuesRefresherService] Could not read stored venue %s: %v", venueID, err)
		return false
	}
	return stored != nil && stored.Moderation == venue.ModerationRejected
}

func (vr *VenuesRefresherService) pruneMissing(keep map[string]struct{}) (int, error) {
	stored, err := vr.venueDao.ListAllVenues()
	if err != nil {
		return 0, fmt.Errorf("failed to list stored venues: %w", err)
	}

	removed := 0
	for _, v := range stored {
		if v.Source != venue.SourceCatalog {
			continue
		}
		if _, ok := keep[v.VenueID]; ok {
			continue
		}
		if err := vr.venueDao.DeleteVenue(v.VenueID); err != nil {
			log.Printf("[VenuesRefresherService] Failed to remove stale venue %s: %v", v.VenueID, err)
			continue
		}
		removed++
	}
	return removed, nil
}
