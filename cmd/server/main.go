package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	httpapi "digital-world/internal/api/http"
	"digital-world/internal/api/ws"
	"digital-world/internal/config"
	"digital-world/internal/game"
	"digital-world/internal/gamedata"
	"digital-world/internal/logging"
	"digital-world/internal/room"
	"digital-world/internal/store"
	"digital-world/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.New("info", false)
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logging.New(cfg.LogLevel, cfg.LogPretty)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn().Err(err).Msg("flush traces")
		}
	}()

	data, err := gamedata.LoadAll()
	if err != nil {
		return err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	engine := game.NewEngine(data)

	mem := store.NewMemoryStore()
	reg := room.NewRegistry(mem, room.Options{
		Data:           data,
		Engine:         engine,
		Rand:           rand.New(rand.NewSource(seed)),
		Logger:         log.With().Str("component", "room").Logger(),
		Tracer:         telemetry.Tracer("room"),
		BarrierTimeout: cfg.BarrierTimeout,
	})
	hub := ws.NewHub(reg, log.With().Str("component", "ws").Logger(), cfg.SendBuffer)
	reg.SetBroadcaster(hub)

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(reg, hub, engine, log.With().Str("component", "http").Logger()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Int64("seed", seed).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if cfg.BarrierTimeout <= 0 {
			return nil
		}
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case now := <-ticker.C:
				reg.Sweep(now)
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		hub.Close()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
