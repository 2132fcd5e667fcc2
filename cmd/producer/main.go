package main

import (
	"context"
	"errors"
	"flag"
	"os"
	osSignal "os/signal"

	"github.com/ivanzxc/go-qrs-monitor/internal/config"
	"github.com/ivanzxc/go-qrs-monitor/internal/logging"
	"github.com/ivanzxc/go-qrs-monitor/internal/signal"
	"github.com/ivanzxc/go-qrs-monitor/internal/stream"
)

func main() {
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		logging.GetDefaultLogger().Fatal().Err(err).Msg("invalid configuration")
	}
	logging.ApplyLevel(cfg.LogLevel)
	log := logging.Component("producer")

	nc, err := stream.Connect(cfg.NATSURL)
	if err != nil {
		log.Fatal().Err(err).Str("url", cfg.NATSURL).Msg("nats connect")
	}
	defer nc.Drain()

	var src signal.Sampler
	switch cfg.Source {
	case "replay":
		src = signal.NewReplay(signal.RecordedWindow())
	default:
		src = signal.NewECGSim(float64(cfg.Params.SampleRate), cfg.SimHR, cfg.SimNoise)
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 1)
	osSignal.Notify(ch, os.Interrupt)

	go func() {
		<-ch
		cancel()
	}()

	log.Info().
		Str("subject", cfg.WaveSubject).
		Int("fs", cfg.Params.SampleRate).
		Int("batch", cfg.Batch).
		Msg("producer running")

	err = signal.Drive(ctx, src, cfg.Params.SampleRate, cfg.Batch, func(batch []uint16) {
		if err := nc.Publish(cfg.WaveSubject, stream.EncodeSamples(batch)); err != nil {
			log.Warn().Err(err).Msg("publish samples")
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("producer failed")
	}
	log.Info().Msg("producer: stopping")
}
