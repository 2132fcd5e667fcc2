package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Settings agrupa la configuración del proceso. Se carga una vez al arrancar.
type Settings struct {
	NATSURL       string   `toml:"nats_url"`
	WaveSubject   string   `toml:"wave_subject"`
	ParamsSubject string   `toml:"params_subject"`
	Addr          string   `toml:"addr"`
	Source        string   `toml:"source"` // nats | sim | replay
	DetectPeriod  Duration `toml:"detect_period"`
	LogLevel      string   `toml:"log_level"`
	SimHR         float64  `toml:"sim_hr"`
	SimNoise      float64  `toml:"sim_noise"`
	Batch         int      `toml:"batch"`

	Params Params `toml:"params"`
}

func DefaultSettings() Settings {
	return Settings{
		NATSURL:       "nats://127.0.0.1:4222",
		WaveSubject:   "ecg.wave",
		ParamsSubject: "ecg.params",
		Addr:          ":8080",
		Source:        "nats",
		DetectPeriod:  Duration{2 * time.Second},
		LogLevel:      "info",
		SimHR:         72,
		SimNoise:      0.02,
		Batch:         10,
		Params:        DefaultParams(),
	}
}

// LoadFile aplica un fichero TOML sobre s. Los campos ausentes se conservan.
func (s *Settings) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(b, s); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	return nil
}

// RegisterFlags enlaza los ajustes comunes a fs usando los valores actuales
// de s como defaults.
func (s *Settings) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&s.NATSURL, "nats", s.NATSURL, "NATS url")
	fs.StringVar(&s.WaveSubject, "in", s.WaveSubject, "sample subject")
	fs.StringVar(&s.ParamsSubject, "out", s.ParamsSubject, "heart rate subject")
	fs.StringVar(&s.Addr, "addr", s.Addr, "http address")
	fs.StringVar(&s.Source, "source", s.Source, "sample source: nats, sim or replay")
	fs.DurationVar(&s.DetectPeriod.Duration, "period", s.DetectPeriod.Duration, "detection period")
	fs.StringVar(&s.LogLevel, "log", s.LogLevel, "log level")
	fs.Float64Var(&s.SimHR, "hr", s.SimHR, "simulated heart rate bpm")
	fs.Float64Var(&s.SimNoise, "noise", s.SimNoise, "simulated noise")
	fs.IntVar(&s.Batch, "batch", s.Batch, "samples per message")
	fs.IntVar(&s.Params.SampleRate, "fs", s.Params.SampleRate, "sampling rate Hz")
}

// Load resuelve defaults, fichero opcional (-config) y flags, en ese orden,
// y valida los parámetros del detector.
func Load(fs *flag.FlagSet, args []string) (Settings, error) {
	s := DefaultSettings()

	// primera pasada solo para -config
	path := configPath(args)
	if path != "" {
		if err := s.LoadFile(path); err != nil {
			return s, err
		}
	}

	fs.String("config", path, "TOML config file")
	s.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return s, err
	}

	if s.DetectPeriod.Duration <= 0 {
		return s, fmt.Errorf("%w: detect period %s", ErrInvalidParams, s.DetectPeriod.Duration)
	}
	if s.Batch <= 0 {
		return s, fmt.Errorf("%w: batch %d", ErrInvalidParams, s.Batch)
	}
	return s, s.Params.Validate()
}

func configPath(args []string) string {
	for i, a := range args {
		if a == "-config" || a == "--config" {
			if i+1 < len(args) {
				return args[i+1]
			}
			return ""
		}
		if !strings.HasPrefix(a, "-") {
			continue
		}
		if v, ok := strings.CutPrefix(strings.TrimLeft(a, "-"), "config="); ok {
			return v
		}
	}
	return ""
}

// Duration acepta "2s", "500ms"... en el fichero TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
