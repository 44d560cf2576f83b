package main

import (
	"context"
	"crypto/rand"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	fuzzytaxohttp "github.com/royludo/fuzzytaxosearch/internal/api/http"
	"github.com/royludo/fuzzytaxosearch/internal/api/session"
	"github.com/royludo/fuzzytaxosearch/internal/config"
	"github.com/royludo/fuzzytaxosearch/internal/dataset"
	"github.com/royludo/fuzzytaxosearch/internal/ecosystem"
	"github.com/royludo/fuzzytaxosearch/internal/matcher"
	"github.com/royludo/fuzzytaxosearch/internal/platform/logger"
)

func main() {
	input := flag.String("input", "", "path to the JSON record dataset (required)")
	flag.Parse()

	log := logger.New("fuzzytaxo-service")

	if *input == "" {
		log.Fatal().Msg("--input is required")
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Stack().Err(err).Msg("failed to load configuration")
	}

	ds, err := dataset.Load(*input)
	if err != nil {
		log.Fatal().Stack().Err(err).Str("input", *input).Msg("failed to load dataset")
	}
	log.Info().Int("records", ds.Len()).Msg("dataset loaded")

	matcherFactory := func() *matcher.Matcher {
		return matcher.New(ds.Records())
	}

	// Two independent ecosystems (§4.8 step 3): autocomplete workers are
	// session-pinned and long-lived, so mixing them with batch traffic
	// would cause head-of-line blocking.
	autocomplete := ecosystem.New(cfg.AutocompletePoolMax, cfg.AutocompletePoolMin, matcherFactory)
	generalPurpose := ecosystem.New(cfg.GPPoolMax, cfg.GPPoolMin, matcherFactory)
	defer autocomplete.Close()
	defer generalPurpose.Close()

	hashKey := make([]byte, 32)
	if _, err := rand.Read(hashKey); err != nil {
		log.Fatal().Stack().Err(err).Msg("failed to generate session hash key")
	}
	sessions := session.New(hashKey, cfg.SessionTTLSeconds, false)

	acquireTimeout := time.Duration(cfg.AcquireTimeoutMS) * time.Millisecond
	handlers := fuzzytaxohttp.New(ds, autocomplete, generalPurpose, sessions, cfg.EngineTTL(), acquireTimeout)
	router := fuzzytaxohttp.NewRouter(handlers)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Stack().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Stack().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}
