package qrs

import (
	"github.com/ivanzxc/go-qrs-monitor/internal/config"
)

// Detector marca complejos QRS sobre la envolvente de energía con un umbral
// adaptativo por frames. Reutiliza su lista de intervalos entre ciclos.
type Detector struct {
	frame      int
	initial    int
	minGap     int
	blendPeak  uint32
	blendPrev  uint32
	blendShift uint

	intervals []uint16
}

// Detection es el resultado de un Detect. Intervals comparte memoria con el
// Detector y es válido hasta la siguiente llamada.
type Detection struct {
	// Intervals[0] cuenta desde el inicio de la ventana hasta el primer latido.
	Intervals []uint16
	// Threshold es el umbral tras el último frame.
	Threshold uint16
}

func (d Detection) Beats() int { return len(d.Intervals) }

func NewDetector(p config.Params) *Detector {
	return &Detector{
		frame:      p.FrameWidth,
		initial:    p.InitialFrameWidth,
		minGap:     p.MinBeatGap,
		blendPeak:  p.BlendPeak,
		blendPrev:  p.BlendPrev,
		blendShift: p.BlendShift,
		intervals:  make([]uint16, 0, p.MaxBeats()),
	}
}

// Detect recorre energy en frames de ancho fijo. marks[i] queda a 1 en las
// muestras marcadas como latido y a 0 en el resto.
//
// Una muestra es latido si han pasado más de minGap muestras desde el anterior
// y su energía es >= umbral. Energía cero nunca cuenta como latido.
func (d *Detector) Detect(energy, marks []uint16) (Detection, error) {
	if err := checkLen(energy, marks); err != nil {
		return Detection{}, err
	}
	size := len(energy)

	threshold := peak(energy, 0, d.initial)
	gap := 0
	d.intervals = d.intervals[:0]

	for first := 0; first < size; first += d.frame {
		last := min(first+d.frame, size)

		for i := first; i < last; i++ {
			e := energy[i]
			if gap > d.minGap && e >= threshold && e > 0 {
				marks[i] = 1
				d.intervals = append(d.intervals, uint16(gap))
				gap = 0
				continue
			}
			marks[i] = 0
			gap++
		}

		threshold = d.blend(threshold, peak(energy, first, last))
	}

	return Detection{Intervals: d.intervals, Threshold: threshold}, nil
}

// blend calcula alpha*gamma*peak + (1-alpha)*threshold en punto fijo.
func (d *Detector) blend(threshold, peak uint16) uint16 {
	v := d.blendPeak*uint32(peak) + d.blendPrev*uint32(threshold)
	return uint16(v >> d.blendShift)
}
