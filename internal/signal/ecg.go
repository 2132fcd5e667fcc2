package signal

import "math"

const (
	// Conversión a cuentas de un ADC de 12 bits: línea base y ganancia
	// parecidas a las del registro de referencia.
	DefaultOffset = 900
	DefaultGain   = 250
	adcMax        = 4095
)

// ECGSim genera una forma tipo ECG (no clínica) a fs Hz.
// Es deliberadamente simple: baseline + “QRS” gaussiano + algo de ruido.
type ECGSim struct {
	fs     float64
	phase  float64
	hrBPM  float64
	noise  float64
	offset float64
	gain   float64
}

// NewECGSim fs=256, hrBPM típico 60-120, noise ~0.0-0.05
func NewECGSim(fs, hrBPM, noise float64) *ECGSim {
	return &ECGSim{
		fs:     fs,
		hrBPM:  hrBPM,
		noise:  noise,
		offset: DefaultOffset,
		gain:   DefaultGain,
	}
}

// Sample devuelve la próxima lectura del ADC y avanza el tiempo.
func (s *ECGSim) Sample() uint16 {
	c := math.Round(s.offset + s.gain*s.next())
	return uint16(math.Max(0, math.Min(adcMax, c)))
}

func (s *ECGSim) next() float64 {
	// tiempo normalizado dentro del ciclo [0..1)
	cycleHz := s.hrBPM / 60.0
	s.phase += cycleHz / s.fs
	if s.phase >= 1.0 {
		s.phase -= 1.0
	}

	t := s.phase // 0..1

	// baseline (respiración suave)
	baseline := 0.05 * math.Sin(2*math.Pi*0.33*t)

	// P, QRS, T como gaussianas
	p := 0.08 * gauss(t, 0.18, 0.03)
	q := -0.12 * gauss(t, 0.30, 0.01)
	r := 1.00 * gauss(t, 0.32, 0.008)
	sv := -0.25 * gauss(t, 0.35, 0.012)
	tt := 0.25 * gauss(t, 0.60, 0.06)

	// ruido determinista simple (barato)
	n := s.noise * (2*fract(math.Sin(12345.678*t)*9876.543) - 1)

	return baseline + p + q + r + sv + tt + n
}

func gauss(x, mu, sigma float64) float64 {
	z := (x - mu) / sigma
	return math.Exp(-0.5 * z * z)
}

func fract(x float64) float64 { return x - math.Floor(x) }
