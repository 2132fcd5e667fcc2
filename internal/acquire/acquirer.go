package acquire

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/ivanzxc/go-qrs-monitor/internal/logging"
	"github.com/ivanzxc/go-qrs-monitor/internal/metrics"
)

var ErrStopped = errors.New("acquire: acquirer stopped")

// Acquirer es el contexto de adquisición: una goroutine que es la única que
// escribe en el Ring. Las fuentes entregan muestras con Record; el flujo
// principal pausa la escritura durante el Snapshot.
//
// La exclusión es cooperativa: Snapshot le pide a la goroutine que deje de
// escribir, copia y la reanuda. No hay mutex sobre el Ring.
type Acquirer struct {
	ring    *Ring
	samples chan uint16
	pause   chan chan struct{}
	resume  chan struct{}
	done    chan struct{}

	paused   atomic.Bool
	recorded atomic.Uint64
	dropped  atomic.Uint64

	log zerolog.Logger
}

// NewAcquirer toma posesión de las escrituras sobre ring. backlog es cuántas
// muestras pueden esperar en cola mientras la goroutine está ocupada.
func NewAcquirer(ring *Ring, backlog int) *Acquirer {
	if backlog < 1 {
		backlog = 1
	}
	return &Acquirer{
		ring:    ring,
		samples: make(chan uint16, backlog),
		pause:   make(chan chan struct{}),
		resume:  make(chan struct{}),
		done:    make(chan struct{}),
		log:     logging.Component("acquirer"),
	}
}

// Record entrega una muestra. Nunca bloquea: si la adquisición está pausada o
// la cola está llena la muestra se descarta y devuelve false.
func (a *Acquirer) Record(s uint16) bool {
	if a.paused.Load() {
		a.drop()
		return false
	}
	select {
	case a.samples <- s:
		return true
	default:
		a.drop()
		return false
	}
}

func (a *Acquirer) drop() {
	a.dropped.Add(1)
	metrics.RecordDroppedSample()
}

// Run es el bucle de adquisición. Termina cuando ctx se cancela.
func (a *Acquirer) Run(ctx context.Context) error {
	defer close(a.done)

	a.log.Debug().Int("len", a.ring.Len()).Msg("acquisition started")
	paused := false
	for {
		select {
		case <-ctx.Done():
			a.log.Debug().
				Uint64("recorded", a.recorded.Load()).
				Uint64("dropped", a.dropped.Load()).
				Msg("acquisition stopped")
			return ctx.Err()

		case s := <-a.samples:
			if paused {
				a.drop()
				continue
			}
			a.record(s)

		case ack := <-a.pause:
			// lo ya aceptado por Record entra en el ring antes de pausar
			for n := len(a.samples); n > 0; n-- {
				a.record(<-a.samples)
			}
			paused = true
			close(ack)

		case <-a.resume:
			paused = false
		}
	}
}

func (a *Acquirer) record(s uint16) {
	a.ring.Record(s)
	a.recorded.Add(1)
	metrics.RecordSample()
}

// Snapshot suspende la adquisición, desenrolla el Ring en into y la reanuda.
// Al volver, into contiene una única época de adquisición.
func (a *Acquirer) Snapshot(ctx context.Context, into []uint16) error {
	if len(into) != a.ring.Len() {
		return fmt.Errorf("%w: ring %d, into %d", ErrLengthMismatch, a.ring.Len(), len(into))
	}

	a.paused.Store(true)
	defer a.paused.Store(false)

	// la goroutine de adquisición vuelca las muestras en cola y cierra ack;
	// desde ese momento no escribe hasta el resume
	ack := make(chan struct{})
	select {
	case a.pause <- ack:
	case <-a.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-ack

	err := a.ring.Snapshot(into)

	// la reanudación no depende de ctx: un ciclo cancelado no deja la
	// adquisición parada
	if rerr := a.signal(context.Background(), a.resume); rerr != nil && err == nil {
		err = rerr
	}
	return err
}

func (a *Acquirer) signal(ctx context.Context, ch chan struct{}) error {
	select {
	case ch <- struct{}{}:
		return nil
	case <-a.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Recorded y Dropped son contadores acumulados desde el arranque.
func (a *Acquirer) Recorded() uint64 { return a.recorded.Load() }
func (a *Acquirer) Dropped() uint64  { return a.dropped.Load() }
