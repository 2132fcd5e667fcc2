package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ivanzxc/go-qrs-monitor/internal/acquire"
	"github.com/ivanzxc/go-qrs-monitor/internal/config"
	"github.com/ivanzxc/go-qrs-monitor/internal/logging"
	"github.com/ivanzxc/go-qrs-monitor/internal/metrics"
	"github.com/ivanzxc/go-qrs-monitor/internal/qrs"
)

// Snapshotter copia la ventana de adquisición a un buffer lineal sin mezclar
// épocas. Lo implementa acquire.Acquirer.
type Snapshotter interface {
	Snapshot(ctx context.Context, into []uint16) error
}

// Scheduler secuencia Idle -> Snapshot -> Detect -> Publish -> Idle.
//
// El estado es una celda atómica compartida: Tick (desde cualquier goroutine)
// solo hace Idle -> Snapshot con CAS; el resto de transiciones las hace el
// bucle principal, también con CAS. Un tick con un ciclo en curso se ignora.
type Scheduler struct {
	state atomic.Int32
	wake  chan struct{}

	source   Snapshotter
	pipeline *qrs.Pipeline
	sink     Sink

	session string
	seq     uint64
	started time.Time
	result  qrs.Result

	log zerolog.Logger
}

func New(p config.Params, source Snapshotter, sink Sink) (*Scheduler, error) {
	pl, err := qrs.NewPipeline(p)
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		wake:     make(chan struct{}, 1),
		source:   source,
		pipeline: pl,
		sink:     sink,
		session:  uuid.NewString(),
		log:      logging.Component("scheduler"),
	}, nil
}

func (s *Scheduler) State() State { return State(s.state.Load()) }

func (s *Scheduler) Session() string { return s.session }

// Tick pide un nuevo ciclo. Devuelve false si ya había uno en curso.
func (s *Scheduler) Tick() bool {
	started := s.state.CompareAndSwap(int32(StateIdle), int32(StateSnapshot))
	metrics.RecordTick(!started)
	if !started {
		s.log.Debug().Stringer("state", s.State()).Msg("tick ignored, cycle in flight")
		return false
	}

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return true
}

func (s *Scheduler) advance(from, to State) {
	if !s.state.CompareAndSwap(int32(from), int32(to)) {
		s.log.Warn().Stringer("from", from).Stringer("to", to).Stringer("state", s.State()).
			Msg("unexpected state, resetting")
		s.state.Store(int32(StateIdle))
	}
}

// Step ejecuta el trabajo del estado actual y avanza al siguiente. En Idle no
// hace nada. Un error descarta el ciclo y deja el estado en Idle.
func (s *Scheduler) Step(ctx context.Context) error {
	switch st := s.State(); st {
	case StateIdle:
		return nil

	case StateSnapshot:
		s.started = time.Now()
		if err := s.source.Snapshot(ctx, s.pipeline.Input()); err != nil {
			s.state.Store(int32(StateIdle))
			return fmt.Errorf("snapshot: %w", err)
		}
		s.advance(StateSnapshot, StateDetect)

	case StateDetect:
		res, err := s.pipeline.Process()
		if err != nil {
			s.state.Store(int32(StateIdle))
			return fmt.Errorf("detect: %w", err)
		}
		s.result = res
		s.log.Debug().
			Int("beats", res.Beats()).
			Uints16("intervals", res.Intervals).
			Uint16("threshold", res.Threshold).
			Uint16("bpm", res.Rate.BPM).
			Bool("valid", res.Rate.Valid).
			Msg("cycle detected")
		s.advance(StateDetect, StatePublish)

	case StatePublish:
		s.publish(ctx)
		s.advance(StatePublish, StateIdle)

	default:
		s.log.Warn().Stringer("state", st).Msg("unknown state, resetting")
		s.state.Store(int32(StateIdle))
	}
	return nil
}

func (s *Scheduler) publish(ctx context.Context) {
	s.seq++
	r := Reading{
		Session: s.session,
		Seq:     s.seq,
		Time:    time.Now(),
		BPM:     s.result.Rate.BPM,
		Valid:   s.result.Rate.Valid,
		Beats:   s.result.Beats(),
	}
	metrics.RecordCycle(int(r.BPM), r.Valid, r.Beats, time.Since(s.started))

	if err := s.sink.Publish(ctx, r); err != nil {
		metrics.RecordSinkError()
		s.log.Error().Err(err).Uint64("seq", r.Seq).Msg("publish failed")
	}
}

// Run es el bucle principal: espera un tick y ejecuta el ciclo completo.
// Vuelve cuando ctx termina o la adquisición se ha detenido.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info().Str("session", s.session).Msg("scheduler running")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
		}

		for s.State() != StateIdle {
			if err := s.Step(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if errors.Is(err, acquire.ErrStopped) {
					return err
				}
				s.log.Error().Err(err).Msg("cycle discarded")
			}
		}
	}
}

// RunTimer llama a Tick cada period hasta que ctx termina.
func (s *Scheduler) RunTimer(ctx context.Context, period time.Duration) error {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Tick()
		}
	}
}
