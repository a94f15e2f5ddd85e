package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hbnb_web/internal/adapters/hbnbapi"
	server "hbnb_web/internal/adapters/http_server"
	"hbnb_web/internal/adapters/observability"
	redisad "hbnb_web/internal/adapters/redis"
	"hbnb_web/internal/app"
	"hbnb_web/internal/domain"
	"hbnb_web/internal/session"
	"hbnb_web/internal/shared"
)

func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := hbnbapi.New(cfg.APIBase, cfg.APIRPS, cfg.APITimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize HBnB client")
	}

	var guard domain.SubmitGuard = app.NewMemoryGuard()
	if cfg.RedisAddr != "" {
		rg := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rg.Close()
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rg.Ping(pctx); err != nil {
			// the guard fails open, so a missing redis only degrades duplicate protection
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed")
		}
		cancel()
		guard = rg
		log.Info().Str("addr", cfg.RedisAddr).Msg("submit guard: redis")
	}

	f := app.NewFrontend(client, guard, app.Config{TokenTTL: cfg.TokenTTL, LockTTL: cfg.LockTTL})

	// http
	reg := observability.InitRegistry()
	srv := server.New()
	if cfg.MetricsAddr == "" {
		srv.Mount("/metrics", observability.MetricsHandler(reg))
	}
	h := &server.Handlers{F: f, CookieSecure: cfg.CookieSecure}
	if len(cfg.SessionKey) > 0 {
		h.Codec = session.NewCodec(cfg.SessionKey)
	} else {
		log.Warn().Msg("SESSION_HASH_KEY is empty; flash cookies are signed with a per-process key")
	}
	srv.MountHandlers(h)

	servers := []*http.Server{{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}}
	if ms := observability.Serve(cfg.MetricsAddr, reg); ms != nil {
		servers = append(servers, ms)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, hs := range servers {
		g.Go(func() error {
			log.Info().Str("addr", hs.Addr).Msg("listening")
			if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, hs := range servers {
			if err := hs.Shutdown(sctx); err != nil {
				log.Warn().Err(err).Str("addr", hs.Addr).Msg("shutdown")
			}
		}
		return nil
	})

	log.Info().Str("api", cfg.APIBase).Str("env", cfg.AppEnv).Msg("hbnb web starting")
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("stopped")
}
