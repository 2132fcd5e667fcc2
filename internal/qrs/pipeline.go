package qrs

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ivanzxc/go-qrs-monitor/internal/config"
	"github.com/ivanzxc/go-qrs-monitor/internal/logging"
)

// Pipeline encadena high-pass, low-pass y detección sobre dos buffers de
// trabajo A y B que se reutilizan en cada ciclo:
//
//	snapshot -> A, HighPass A -> B, LowPass B -> A, Detect A -> marcas en B
//
// No es seguro para uso concurrente; lo usa solo el flujo principal.
type Pipeline struct {
	params   config.Params
	a, b     []uint16
	detector *Detector
	log      zerolog.Logger
}

// Result resume un ciclo. Intervals es válido hasta el siguiente Process.
type Result struct {
	Rate      Rate
	Intervals []uint16
	Threshold uint16
}

func (r Result) Beats() int { return len(r.Intervals) }

func NewPipeline(p config.Params) (*Pipeline, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		params:   p,
		a:        make([]uint16, p.WindowLen),
		b:        make([]uint16, p.WindowLen),
		detector: NewDetector(p),
		log:      logging.Component("qrs"),
	}, nil
}

// Input es el buffer lineal donde se deposita el snapshot antes de Process.
func (pl *Pipeline) Input() []uint16 { return pl.a }

// Marks devuelve las marcas de latido del último Process (1 = latido).
func (pl *Pipeline) Marks() []uint16 { return pl.b }

// Process filtra Input() y estima la frecuencia. El valor devuelto ya está
// limitado a MaxRate.
func (pl *Pipeline) Process() (Result, error) {
	pl.dump("raw", pl.a)

	if err := HighPass(pl.a, pl.b, pl.params.HighPassShift); err != nil {
		return Result{}, fmt.Errorf("high pass: %w", err)
	}
	pl.dump("high pass", pl.b)

	if err := LowPass(pl.b, pl.a, pl.params.LowPassWindow); err != nil {
		return Result{}, fmt.Errorf("low pass: %w", err)
	}
	pl.dump("low pass", pl.a)

	det, err := pl.detector.Detect(pl.a, pl.b)
	if err != nil {
		return Result{}, fmt.Errorf("detect: %w", err)
	}
	pl.dump("qrs", pl.b)

	rate := EstimateRate(det.Intervals, pl.params.RateNumerator()).
		Clamp(uint16(pl.params.MaxRate))

	return Result{
		Rate:      rate,
		Intervals: det.Intervals,
		Threshold: det.Threshold,
	}, nil
}

// ProcessWindow copia window en Input() y ejecuta Process.
func (pl *Pipeline) ProcessWindow(window []uint16) (Result, error) {
	if len(window) != len(pl.a) {
		return Result{}, fmt.Errorf("%w: window %d, want %d", ErrLengthMismatch, len(window), len(pl.a))
	}
	copy(pl.a, window)
	return pl.Process()
}

func (pl *Pipeline) dump(stage string, data []uint16) {
	if e := pl.log.Trace(); e.Enabled() {
		e.Str("stage", stage).Uints16("samples", data).Msg("stage output")
	}
}
