package config

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidParams = errors.New("config: invalid params")

// Params son las constantes del detector QRS. Se fijan al arrancar y no
// cambian durante la vida del proceso.
type Params struct {
	SampleRate        int `toml:"sample_rate"`         // Hz
	WindowLen         int `toml:"window_len"`          // N, muestras por ciclo
	HighPassShift     int `toml:"high_pass_shift"`     // ventana high-pass = 1 << shift
	LowPassWindow     int `toml:"low_pass_window"`     // ~150 ms
	FrameWidth        int `toml:"frame_width"`         // frame de decisión
	InitialFrameWidth int `toml:"initial_frame_width"` // frame del umbral inicial
	MinBeatGap        int `toml:"min_beat_gap"`        // periodo refractario
	MaxRate           int `toml:"max_rate"`            // máximo mostrable

	// Mezcla del umbral en punto fijo:
	// th' = (BlendPeak*peak + BlendPrev*th) >> BlendShift
	BlendPeak  uint32 `toml:"blend_peak"`
	BlendPrev  uint32 `toml:"blend_prev"`
	BlendShift uint   `toml:"blend_shift"`
}

// DefaultParams corresponde al monitor a 256 Hz con ventana de 1250 muestras.
// alpha=0.05, gamma=0.15 escalados por 1024.
func DefaultParams() Params {
	return Params{
		SampleRate:        256,
		WindowLen:         1250,
		HighPassShift:     4,
		LowPassWindow:     32,
		FrameWidth:        200,
		InitialFrameWidth: 350,
		MinBeatGap:        75,
		MaxRate:           199,
		BlendPeak:         8,
		BlendPrev:         973,
		BlendShift:        10,
	}
}

func (p Params) HighPassWindow() int {
	return 1 << p.HighPassShift
}

// RateNumerator es sampleRate*60: bpm = RateNumerator / muestrasEntreLatidos.
func (p Params) RateNumerator() uint32 {
	return uint32(p.SampleRate) * 60
}

// MaxBeats es la cota de la lista de intervalos para una ventana.
func (p Params) MaxBeats() int {
	return p.WindowLen/(p.MinBeatGap+1) + 1
}

func (p Params) Validate() error {
	switch {
	case p.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidParams, p.SampleRate)
	case p.WindowLen <= 0 || p.WindowLen > math.MaxUint16:
		return fmt.Errorf("%w: window length %d", ErrInvalidParams, p.WindowLen)
	case p.HighPassShift < 0 || p.HighPassShift > 15 || p.HighPassWindow() > p.WindowLen:
		return fmt.Errorf("%w: high-pass window %d exceeds window length %d", ErrInvalidParams, p.HighPassWindow(), p.WindowLen)
	case p.LowPassWindow <= 0 || p.LowPassWindow > p.WindowLen:
		return fmt.Errorf("%w: low-pass window %d exceeds window length %d", ErrInvalidParams, p.LowPassWindow, p.WindowLen)
	case p.FrameWidth <= 0 || p.FrameWidth > p.WindowLen:
		return fmt.Errorf("%w: frame width %d", ErrInvalidParams, p.FrameWidth)
	case p.InitialFrameWidth <= 0 || p.InitialFrameWidth > p.WindowLen:
		return fmt.Errorf("%w: initial frame width %d", ErrInvalidParams, p.InitialFrameWidth)
	case p.MinBeatGap <= 0 || p.MinBeatGap >= p.WindowLen:
		return fmt.Errorf("%w: min beat gap %d", ErrInvalidParams, p.MinBeatGap)
	case p.MaxRate <= 0 || p.MaxRate > math.MaxUint16:
		return fmt.Errorf("%w: max rate %d", ErrInvalidParams, p.MaxRate)
	case p.BlendShift == 0 || p.BlendShift > 16:
		return fmt.Errorf("%w: blend shift %d", ErrInvalidParams, p.BlendShift)
	case p.BlendPeak+p.BlendPrev > 1<<p.BlendShift:
		// el umbral no puede crecer por encima del pico
		return fmt.Errorf("%w: blend coefficients %d+%d exceed scale %d", ErrInvalidParams, p.BlendPeak, p.BlendPrev, 1<<p.BlendShift)
	case p.RateNumerator() > math.MaxUint16*uint32(p.MinBeatGap):
		return fmt.Errorf("%w: sample rate %d too high for min beat gap %d", ErrInvalidParams, p.SampleRate, p.MinBeatGap)
	}
	return nil
}
