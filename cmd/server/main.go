package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	osSignal "os/signal"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ivanzxc/go-qrs-monitor/internal/config"
	"github.com/ivanzxc/go-qrs-monitor/internal/hub"
	"github.com/ivanzxc/go-qrs-monitor/internal/logging"
	"github.com/ivanzxc/go-qrs-monitor/internal/stream"
)

func main() {
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		logging.GetDefaultLogger().Fatal().Err(err).Msg("invalid configuration")
	}
	logging.ApplyLevel(cfg.LogLevel)
	log := logging.Component("server")

	nc, err := stream.Connect(cfg.NATSURL)
	if err != nil {
		log.Fatal().Err(err).Str("url", cfg.NATSURL).Msg("nats connect")
	}
	defer nc.Drain()

	h := hub.New()

	// Waves (binario passthrough)
	if _, err := nc.Subscribe(cfg.WaveSubject, func(msg *nats.Msg) {
		h.BroadcastWave(msg.Data)
	}); err != nil {
		log.Fatal().Err(err).Msg("subscribe waves")
	}

	// Params (JSON)
	if _, err := nc.Subscribe(cfg.ParamsSubject, func(msg *nats.Msg) {
		m, err := stream.DecodeParamMsg(msg.Data)
		if err != nil {
			log.Warn().Err(err).Msg("bad params message")
			return
		}
		log.Debug().Int("hr", m.HR).Bool("valid", m.Valid).Uint64("seq", m.Seq).Msg("params")
		h.BroadcastParams(msg.Data)
	}); err != nil {
		log.Fatal().Err(err).Msg("subscribe params")
	}

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir("./web")))
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/ws", h)

	server := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("server running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server")
		}
	}()

	ch := make(chan os.Signal, 1)
	osSignal.Notify(ch, os.Interrupt)
	<-ch

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	server.Shutdown(ctx)
	log.Info().Msg("server stopped")
}
