package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"artillery/config"
	"artillery/events"
	"artillery/game"
	"artillery/network"
	"artillery/protocol"
	"artillery/room"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "artillery",
	})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", "err", err)
	}
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.Warn("unknown LOG_LEVEL, keeping info", "value", cfg.LogLevel)
	}

	tuning, err := config.LoadTuning(cfg.TuningFile)
	if err != nil {
		logger.Fatal("tuning", "file", cfg.TuningFile, "err", err)
	}
	codec, err := protocol.CodecByName(cfg.WireFormat)
	if err != nil {
		logger.Fatal("codec", "err", err)
	}

	sinks := events.Multi{events.Log{Logger: logger}}
	if cfg.NatsURL != "" {
		nc, err := events.DialNATS(cfg.NatsURL, logger)
		if err != nil {
			logger.Fatal("nats", "err", err)
		}
		defer nc.Close()
		sinks = append(sinks, nc)
		logger.Info("publishing match events", "nats", cfg.NatsURL)
	}

	manager := room.NewManager(logger,
		room.WithTickHz(cfg.TickHz),
		room.WithCodec(codec),
		room.WithSink(sinks),
		room.WithMatchOptions(game.WithTuning(tuning)),
	)
	defer manager.Close()

	mux := http.NewServeMux()
	mux.Handle("/ws", network.NewHandler(manager, codec, logger))
	mux.HandleFunc("/api/rooms", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(manager.ListRooms()); err != nil {
			logger.Warn("list rooms", "err", err)
		}
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("listening", "addr", cfg.Addr, "ws", "/ws", "wire", codec.Name(), "tick_hz", cfg.TickHz)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", "err", err)
	}
}
