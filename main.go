package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"flavorquest/config"
	"flavorquest/di"
)

func main() {
	cfg := config.Load()
	container := di.NewContainer(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("[MAIN] Refreshing venues catalog")
	if _, err := container.VenuesRefresherService.RefreshVenuesData(ctx); err != nil {
		log.Printf("[MAIN] Initial refresh failed: %v", err)
	}

	log.Printf("[MAIN] Starting periodic refresh every %s", cfg.CatalogRefreshInterval)
	container.VenuesRefresherService.StartPeriodicJob(ctx, cfg.CatalogRefreshInterval)

	if err := container.FlavorQuestHttpServer.Start(ctx); err != nil {
		log.Fatalf("[MAIN] Server error: %v", err)
	}
}
