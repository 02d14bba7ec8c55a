package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/juju/clock"
	"github.com/sirupsen/logrus"

	"github.com/safar/medshop/internal/api"
	"github.com/safar/medshop/internal/auth"
	"github.com/safar/medshop/internal/config"
	"github.com/safar/medshop/internal/database"
	"github.com/safar/medshop/internal/guest"
	"github.com/safar/medshop/internal/mail"
	"github.com/safar/medshop/internal/receipt"
	"github.com/safar/medshop/internal/store"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("Connect to database: %v", err)
	}
	defer db.Close()

	log.Info("Connected to database successfully")

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	mailer := mail.New(cfg.Mail, cfg.Auth.OTPTTL, log.WithField("component", "mail"))

	sweeper := guest.NewSweeper(
		store.Guests{DB: db},
		clock.WallClock,
		cfg.Guest.SessionTTL,
		cfg.Guest.SweepInterval,
		log.WithField("component", "guest-sweeper"),
	)
	sweeper.Start()
	defer sweeper.Stop()

	app := api.New(db, tokens, mailer, sweeper, receipt.TextRenderer{}, cfg.Auth.OTPTTL, log.WithField("component", "api"))

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app.Router(cfg.Server.CORSOrigin),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("Server starting on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Server shutdown: %v", err)
	}
}
