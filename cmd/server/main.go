package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-listing/internal/auth"
	"github.com/iliyamo/hotel-listing/internal/config"
	"github.com/iliyamo/hotel-listing/internal/database"
	"github.com/iliyamo/hotel-listing/internal/handler"
	"github.com/iliyamo/hotel-listing/internal/queue"
	"github.com/iliyamo/hotel-listing/internal/repository"
	"github.com/iliyamo/hotel-listing/internal/router"
	"github.com/iliyamo/hotel-listing/internal/token"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	signer := token.NewSigner(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTDurationMin)

	users := repository.NewUserRepo(db, cfg.BcryptCost)
	refreshTokens := repository.NewRefreshTokenRepo(db)
	countryStore := repository.NewCountryStore(db)
	hotelStore := repository.NewHotelStore(db)

	manager := auth.NewManager(users, refreshTokens, signer)

	authHandler := handler.NewAuthHandler(manager)
	countryHandler := handler.NewCountryHandler(countryStore)
	hotelHandler := handler.NewHotelHandler(hotelStore, countryStore)

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}

	// Audit trail consumer runs for the life of the process.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e, signer, rdb, authHandler, countryHandler, hotelHandler)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
