// Package router maps HTTP routes onto handlers and applies middleware.
// Public catalog reads sit behind the Redis response cache; mutations
// require a valid access token, deletes additionally the Administrator
// role; the auth endpoints are rate limited.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotel-listing/internal/config"
	"github.com/iliyamo/hotel-listing/internal/handler"
	"github.com/iliyamo/hotel-listing/internal/middleware"
	"github.com/iliyamo/hotel-listing/internal/token"
)

// AdminRole guards destructive catalog operations.
const AdminRole = "Administrator"

// RegisterRoutes wires every route of the service onto the Echo instance.
func RegisterRoutes(e *echo.Echo, signer *token.Signer, rdb *redis.Client,
	a *handler.AuthHandler, countries *handler.CountryHandler, hotels *handler.HotelHandler) {

	e.GET("/healthz", handler.Health)

	// Auth endpoints: no session required, but rate limited per IP.
	authGroup := e.Group("/v1/auth")
	authGroup.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	authGroup.POST("/register", a.Register)
	authGroup.POST("/login", a.Login)
	authGroup.POST("/refresh", a.Refresh)

	// Public catalog reads, cached.
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)
	e.GET("/v1/countries", countries.List, cache)
	e.GET("/v1/countries/:id", countries.Get, cache)
	e.GET("/v1/hotels", hotels.List, cache)
	e.GET("/v1/hotels/:id", hotels.Get, cache)
	e.GET("/v1/hotels/search", hotels.Search, cache)

	// Authenticated catalog writes.
	jwt := middleware.JWTAuth(signer)
	e.POST("/v1/countries", countries.Create, jwt)
	e.PUT("/v1/countries/:id", countries.Update, jwt)
	e.POST("/v1/hotels", hotels.Create, jwt)
	e.PUT("/v1/hotels/:id", hotels.Update, jwt)

	// Deletes are for administrators only.
	admin := middleware.RequireRole(AdminRole)
	e.DELETE("/v1/countries/:id", countries.Delete, jwt, admin)
	e.DELETE("/v1/hotels/:id", hotels.Delete, jwt, admin)
}
