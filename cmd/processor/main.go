package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	osSignal "os/signal"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ivanzxc/go-qrs-monitor/internal/acquire"
	"github.com/ivanzxc/go-qrs-monitor/internal/config"
	"github.com/ivanzxc/go-qrs-monitor/internal/logging"
	"github.com/ivanzxc/go-qrs-monitor/internal/monitor"
	"github.com/ivanzxc/go-qrs-monitor/internal/signal"
	"github.com/ivanzxc/go-qrs-monitor/internal/stream"
)

func main() {
	logger := logging.GetDefaultLogger()

	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.ApplyLevel(cfg.LogLevel)
	log := logging.Component("processor")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := make(chan os.Signal, 1)
	osSignal.Notify(ch, os.Interrupt)
	go func() {
		<-ch
		cancel()
	}()

	// el ring pertenece al monitor; la adquisición solo recibe el handle
	ring := acquire.NewRing(cfg.Params.WindowLen)
	acq := acquire.NewAcquirer(ring, cfg.Params.SampleRate)

	sinks := monitor.Sinks{monitor.LogSink{Logger: log}}

	var nc *nats.Conn
	nc, err = connectNATS(cfg, stream.Connect)
	switch {
	case err != nil:
		log.Fatal().Err(err).Str("url", cfg.NATSURL).Msg("nats connect")
	case nc != nil:
		defer nc.Drain()
		sinks = append(sinks, stream.ReadingSink{Conn: nc, Subject: cfg.ParamsSubject})
	case cfg.NATSURL != "":
		log.Warn().Str("url", cfg.NATSURL).Msg("nats unavailable, publishing to log only")
	}

	sched, err := monitor.New(cfg.Params, acq, sinks)
	if err != nil {
		log.Fatal().Err(err).Msg("scheduler")
	}

	var wg sync.WaitGroup
	run := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Str("task", name).Msg("task stopped")
				cancel()
			}
		}()
	}

	run("acquisition", acq.Run)
	run("scheduler", sched.Run)
	run("timer", func(ctx context.Context) error {
		return sched.RunTimer(ctx, cfg.DetectPeriod.Duration)
	})

	record := func(batch []uint16) {
		for _, s := range batch {
			acq.Record(s)
		}
	}

	switch cfg.Source {
	case "nats":
		if nc == nil {
			log.Fatal().Msg("nats source needs -nats url")
		}
		sub, err := stream.SubscribeSamples(nc, cfg.WaveSubject, acq.Record)
		if err != nil {
			log.Fatal().Err(err).Msg("subscribe")
		}
		defer sub.Unsubscribe()

	case "sim":
		sim := signal.NewECGSim(float64(cfg.Params.SampleRate), cfg.SimHR, cfg.SimNoise)
		run("sampler", func(ctx context.Context) error {
			return signal.Drive(ctx, sim, cfg.Params.SampleRate, 1, record)
		})

	case "replay":
		replay := signal.NewReplay(signal.RecordedWindow())
		run("sampler", func(ctx context.Context) error {
			return signal.Drive(ctx, replay, cfg.Params.SampleRate, 1, record)
		})

	default:
		log.Fatal().Str("source", cfg.Source).Msg("unknown source")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("metrics server running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server")
		}
	}()

	log.Info().
		Str("source", cfg.Source).
		Int("fs", cfg.Params.SampleRate).
		Int("window", cfg.Params.WindowLen).
		Dur("period", cfg.DetectPeriod.Duration).
		Str("session", sched.Session()).
		Msg("processor running...")

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)

	wg.Wait()
	log.Info().Msg("processor stopped")
}

// connectNATS solo exige NATS cuando las muestras llegan por NATS; sim y
// replay siguen funcionando con el display local si la conexión falla.
func connectNATS(cfg config.Settings, connect func(string) (*nats.Conn, error)) (*nats.Conn, error) {
	if cfg.NATSURL == "" {
		if cfg.Source == "nats" {
			return nil, errors.New("nats source needs -nats url")
		}
		return nil, nil
	}
	nc, err := connect(cfg.NATSURL)
	if err != nil {
		if cfg.Source == "nats" {
			return nil, err
		}
		return nil, nil
	}
	return nc, nil
}
