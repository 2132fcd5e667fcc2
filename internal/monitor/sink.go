package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Reading es la salida de un ciclo completo. Con Valid=false, BPM es 0.
type Reading struct {
	Session string
	Seq     uint64
	Time    time.Time
	BPM     uint16
	Valid   bool
	Beats   int
}

// Sink recibe una lectura por ciclo.
type Sink interface {
	Publish(ctx context.Context, r Reading) error
}

// SinkFunc adapta una función a Sink.
type SinkFunc func(ctx context.Context, r Reading) error

func (f SinkFunc) Publish(ctx context.Context, r Reading) error { return f(ctx, r) }

// Sinks publica en todos; un fallo no impide entregar al resto.
type Sinks []Sink

func (ss Sinks) Publish(ctx context.Context, r Reading) error {
	var errs []error
	for _, s := range ss {
		if err := s.Publish(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogSink escribe cada lectura en el log, el equivalente al display local.
type LogSink struct {
	Logger zerolog.Logger
}

func (s LogSink) Publish(_ context.Context, r Reading) error {
	if !r.Valid {
		s.Logger.Info().Int("beats", r.Beats).Msg("no valid heart rate")
		return nil
	}
	s.Logger.Info().Uint16("bpm", r.BPM).Int("beats", r.Beats).Msg("HR detected")
	return nil
}
