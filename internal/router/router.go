// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/prasetyow/galaxytix/internal/config"
	"github.com/prasetyow/galaxytix/internal/handler"
	"github.com/prasetyow/galaxytix/internal/middleware"
	"github.com/prasetyow/galaxytix/internal/model"
)

// Handlers groups everything RegisterRoutes needs.
type Handlers struct {
	Auth  *handler.AuthHandler
	Films *handler.FilmHandler
	Order *handler.OrderHandler
}

// RegisterRoutes registers the whole API surface.
//
//	public:     /healthz, GET /v1/films (redis response cache)
//	auth:       /v1/auth/* (redis token-bucket rate limit)
//	protected:  films admin + order endpoints under /v1, behind JWT
func RegisterRoutes(e *echo.Echo, cfg config.Config, rdb *redis.Client, h Handlers) {
	e.GET("/healthz", handler.Health)

	// Public catalog browsing. The listing is read-heavy and cacheable;
	// the cache middleware is a no-op when redis is unavailable.
	cacheCfg := config.LoadCacheConfig()
	e.GET("/v1/films", h.Films.List, middleware.NewRedisCache(cacheCfg, rdb))

	// Credential endpoints get rate limiting to slow down guessing.
	rlCfg := config.LoadRateLimitConfig()
	authGroup := e.Group("/v1/auth", middleware.NewTokenBucket(rlCfg, rdb))
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/refresh", h.Auth.Refresh)
	authGroup.POST("/logout", h.Auth.Logout)

	// Everything below requires a valid access token.
	authed := e.Group("/v1")
	authed.Use(middleware.JWTAuth(cfg.JWTSecret))
	authed.Use(middleware.RequireRole(model.RoleAdmin, model.RoleUser))
	authed.GET("/me", h.Auth.Me)

	// Film management is admin-only; ordinary users only browse.
	admin := authed.Group("/films", middleware.RequireRole(model.RoleAdmin))
	admin.POST("", h.Films.Create)
	admin.DELETE("/:id", h.Films.Delete)

	// Purchases and the payment state machine. Ownership (owner or admin)
	// is enforced by the booking engine, not here.
	authed.POST("/films/:id/orders", h.Order.Create)
	authed.GET("/orders", h.Order.ListMine)
	authed.GET("/orders/:id", h.Order.Get)
	authed.POST("/orders/:id/confirm", h.Order.Confirm)
	authed.POST("/orders/:id/cancel", h.Order.Cancel)
}
