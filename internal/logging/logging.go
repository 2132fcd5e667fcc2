package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

var (
	defaultLogger     zerolog.Logger
	defaultLoggerOnce sync.Once
)

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// GetDefaultLogger devuelve el logger del proceso: consola legible en un TTY,
// JSON en otro caso. Nivel por defecto: info.
func GetDefaultLogger() *zerolog.Logger {
	defaultLoggerOnce.Do(func() {
		var w io.Writer = os.Stderr
		if isatty.IsTerminal(os.Stderr.Fd()) {
			w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		}
		defaultLogger = newLogger(w, zerolog.InfoLevel)
	})
	return &defaultLogger
}

// SetLevel ajusta el nivel global. Un nivel desconocido deja el actual y
// devuelve el error de parseo.
func SetLevel(level string) error {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(l)
	GetDefaultLogger()
	defaultLogger = defaultLogger.Level(l)
	return nil
}

// Component devuelve un logger hijo etiquetado con el componente.
func Component(name string) zerolog.Logger {
	return GetDefaultLogger().With().Str("component", name).Logger()
}

// ApplyLevel es SetLevel para los comandos: un nivel desconocido se avisa en
// el log y se sigue con el nivel actual.
func ApplyLevel(level string) {
	if err := SetLevel(level); err != nil {
		GetDefaultLogger().Warn().Err(err).Str("level", level).Msg("unknown log level")
	}
}
