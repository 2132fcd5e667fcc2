package signal

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"strconv"
)

// Sampler entrega lecturas de ADC una a una.
type Sampler interface {
	Sample() uint16
}

// PulseTrain es una línea base plana con pulsos rectangulares estrechos cada
// Period muestras, empezando en First. Count <= 0 significa pulsos sin fin.
type PulseTrain struct {
	Base      uint16
	Amplitude uint16
	Width     int
	Period    int
	First     int
	Count     int

	n int
}

func (p *PulseTrain) Sample() uint16 {
	i := p.n
	p.n++

	if i < p.First || p.Period <= 0 {
		return p.Base
	}
	k, off := (i-p.First)/p.Period, (i-p.First)%p.Period
	if p.Count > 0 && k >= p.Count {
		return p.Base
	}
	if off < p.Width {
		return p.Base + p.Amplitude
	}
	return p.Base
}

// Replay repite una ventana grabada en bucle.
type Replay struct {
	data []uint16
	i    int
}

func NewReplay(data []uint16) *Replay {
	return &Replay{data: data}
}

func (r *Replay) Sample() uint16 {
	if len(r.data) == 0 {
		return 0
	}
	s := r.data[r.i]
	r.i = (r.i + 1) % len(r.data)
	return s
}

// Window extrae n muestras consecutivas de s.
func Window(s Sampler, n int) []uint16 {
	out := make([]uint16, n)
	for i := range out {
		out[i] = s.Sample()
	}
	return out
}

//go:embed recorded_window.txt
var recordedWindow []byte

// RecordedWindow devuelve 1250 muestras reales de ECG a 256 Hz.
func RecordedWindow() []uint16 {
	data, err := parseSamples(recordedWindow)
	if err != nil {
		panic(err)
	}
	return data
}

func parseSamples(b []byte) ([]uint16, error) {
	sc := bufio.NewScanner(bytes.NewReader(b))
	sc.Split(bufio.ScanWords)

	var out []uint16
	for sc.Scan() {
		v, err := strconv.ParseUint(sc.Text(), 10, 16)
		if err != nil {
			return nil, fmt.Errorf("signal: sample %d: %w", len(out), err)
		}
		out = append(out, uint16(v))
	}
	return out, sc.Err()
}
