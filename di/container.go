package di

import (
	"context"
	"fmt"
	"log"
	"time"

	"flavorquest/api"
	"flavorquest/api/catalog"
	"flavorquest/config"
	"flavorquest/dao/redis"
	"flavorquest/db"
	"flavorquest/openinghours"
	"flavorquest/server"
	"flavorquest/server/handlers"
	services "flavorquest/service"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
)

// Container holds all application dependencies.
type Container struct {
	Config                 config.Config
	RedisClient            db.RedisClient
	RedisVenueDao          *redis.RedisVenueDAO
	CatalogAPI             catalog.CatalogAPI
	Evaluator              *openinghours.Evaluator
	VenueService           *services.VenueService
	VenuesRefresherService *services.VenuesRefresherService
	VenueHandler           *handlers.VenueHandler
	MuxRouter              *mux.Router
	Router                 *server.Router
	FlavorQuestHttpServer  *server.FlavorQuestHttpServer
}

// NewContainer initializes and wires up all dependencies against a live Redis.
func NewContainer(cfg config.Config) *Container {
	log.Printf("initializing container - env: %s", cfg.Env)
	ctx := context.Background()

	redisInternalClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	redisClient := db.NewGeoRedisClient(ctx, redisInternalClient)
	if err := redisClient.Ping(); err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis: %v", err))
	}

	return NewContainerWithRedis(cfg, redisClient)
}

// NewContainerWithRedis wires everything above the given Redis client.
func NewContainerWithRedis(cfg config.Config, redisClient db.RedisClient) *Container {
	redisVenueDao := redis.NewRedisVenueDAO(redisClient)

	var catalogApiClient catalog.CatalogAPI
	if cfg.Env != "prod" {
		catalogApiClient = catalog.NewCatalogApiClientMock()
		log.Printf("Using mock catalog api")
	} else {
		log.Printf("Using prod catalog api at %s", cfg.CatalogEndpoint)
		catalogApiClient = catalog.NewCatalogApiClient(api.NewHTTPClient(cfg.CatalogEndpoint))
		catalogApiClient.SetCredentials(cfg.CatalogAPIKey)
	}

	loc, err := openinghours.LoadLocation(cfg.BusinessTimezone)
	if err != nil {
		log.Printf("[Container] %v; evaluating opening hours in UTC", err)
	}
	evaluator := openinghours.NewEvaluator(loc, time.Now)

	venueService := services.NewVenueService(redisVenueDao, catalogApiClient, evaluator)
	venuesRefresherService := services.NewVenuesRefresherService(redisVenueDao, catalogApiClient)

	venueHandler := handlers.NewVenueHandler(venueService, cfg.AdminAPIKey)
	muxRouter := mux.NewRouter()
	router := server.NewRouter(venueHandler, muxRouter)
	httpServer := server.NewFlavorQuestHttpServer(router, cfg.HTTPAddress,
		config.HTTP_SHUTDOWN_TIMEOUT_SECONDS*time.Second)

	return &Container{
		Config:                 cfg,
		RedisClient:            redisClient,
		RedisVenueDao:          redisVenueDao,
		CatalogAPI:             catalogApiClient,
		Evaluator:              evaluator,
		VenueService:           venueService,
		VenuesRefresherService: venuesRefresherService,
		VenueHandler:           venueHandler,
		MuxRouter:              muxRouter,
		Router:                 router,
		FlavorQuestHttpServer:  httpServer,
	}
}
