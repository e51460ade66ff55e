package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/prasetyow/galaxytix/internal/booking"
	"github.com/prasetyow/galaxytix/internal/config"
	"github.com/prasetyow/galaxytix/internal/database"
	"github.com/prasetyow/galaxytix/internal/handler"
	"github.com/prasetyow/galaxytix/internal/qr"
	"github.com/prasetyow/galaxytix/internal/queue"
	"github.com/prasetyow/galaxytix/internal/repository"
	"github.com/prasetyow/galaxytix/internal/router"
	"github.com/prasetyow/galaxytix/internal/service"
)

func main() {
	cfg := config.Load()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName,
		cfg.DBMaxConns, cfg.DBConnLife)
	if err != nil {
		logrus.Fatalf("connect to db: %v", err)
	}
	if err := database.EnsureSchema(db); err != nil {
		logrus.Fatalf("ensure schema: %v", err)
	}

	users := repository.NewUserRepo(db)
	films := repository.NewFilmRepo(db)
	orders := repository.NewOrderRepo(db)
	tokens := repository.NewTokenRepo(db)

	// First-run bootstrap: one admin account and a demo film.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := users.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword, cfg.BcryptCost); err != nil {
		logrus.Fatalf("seed admin: %v", err)
	}
	if err := films.SeedDemo(ctx); err != nil {
		logrus.Fatalf("seed films: %v", err)
	}
	cancel()

	engine := booking.NewEngine(films, orders, qr.New(cfg.QRServiceURL, cfg.QRTimeout))
	engine.Window = cfg.PaymentWindow
	engine.Publish = service.PublishOrderPaid

	// Redis backs the response cache and rate limiter; nil degrades both
	// to pass-through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logrus.Warn("redis unavailable, caching and rate limiting disabled")
	}

	// Consume order.paid events in the background.
	go func() {
		if err := queue.StartOrderPaidConsumer(); err != nil {
			logrus.WithError(err).Warn("payments consumer stopped")
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e, cfg, rdb, router.Handlers{
		Auth:  handler.NewAuthHandler(cfg, users, tokens),
		Films: handler.NewFilmHandler(films, engine),
		Order: handler.NewOrderHandler(engine),
	})

	addr := ":" + cfg.Port
	logrus.Infof("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		logrus.Fatal(err)
	}
}
