package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones para el logger.
type Config struct {
	Env   string    // development -> consola legible; production -> JSON
	Level string    // trace, debug, info, warn, error
	Out   io.Writer // nil = stdout
}

// Logger wrapper sobre zerolog para inyección y consistencia.
type Logger struct {
	zl zerolog.Logger
}

// New crea un logger estructurado. En development usa salida legible; en el resto JSON.
func New(cfg Config) *Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	w := out
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	zl := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()

	// Redirigir el logger global de zerolog para librerías que lo usen
	log.Logger = zl

	return &Logger{zl: zl}
}

// Nop devuelve un logger que descarta todo (tests y herramientas sin salida).
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// parseLevel acepta los nombres de zerolog sin importar mayúsculas; lo desconocido es info.
func parseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// Trace, Debug, Info, Warn, Error delegados a zerolog. Un *Logger nil se comporta como Nop.
func (l *Logger) Trace() *zerolog.Event { return l.get().Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.get().Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.get().Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.get().Warn() }
func (l *Logger) Error() *zerolog.Event { return l.get().Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.get().Fatal() }

func (l *Logger) get() *zerolog.Logger {
	if l == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return &l.zl
}

// Component sublogger con el campo component fijo (ledger, dietas, http...).
func (l *Logger) Component(name string) *Logger {
	return &Logger{zl: l.get().With().Str("component", name).Logger()}
}
