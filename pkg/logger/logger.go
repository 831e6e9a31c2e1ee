package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones para el logger.
type Config struct {
	Env   string    // development -> consola legible; production -> JSON
	Level string    // trace, debug, info, warn, error
	File  string    // log append-only (una línea JSON por evento); vacío = solo salida estándar
	Out   io.Writer // salida estándar; nil = os.Stdout
}

// Logger wrapper sobre zerolog para inyección y consistencia.
type Logger struct {
	zl   zerolog.Logger
	file *os.File
}

func init() {
	// Marcas de tiempo ISO-8601 en UTC en todas las salidas.
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
}

// New crea un logger estructurado. En development usa salida legible; en production JSON.
// Si el archivo de log no se puede abrir se sigue solo con la salida estándar.
func New(cfg Config) *Logger {
	var out io.Writer = os.Stdout
	if cfg.Out != nil {
		out = cfg.Out
	}
	var w io.Writer = out
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, TimeLocation: time.UTC}
	}

	var file *os.File
	var openErr error
	if cfg.File != "" {
		file, openErr = os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if openErr == nil {
			w = zerolog.MultiLevelWriter(w, lossyWriter{file})
		}
	}

	level := parseLevel(cfg.Level)
	zl := zerolog.New(w).Level(level).With().Timestamp().Logger()

	// Redirigir el logger global de zerolog para librerías que lo usen
	log.Logger = zl

	if openErr != nil {
		zl.Warn().Err(openErr).Str("file", cfg.File).Msg("no se pudo abrir el archivo de log; solo salida estándar")
	}
	return &Logger{zl: zl, file: file}
}

// Nop logger descartable para tests.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// FromZerolog envuelve un zerolog.Logger existente (tests con buffer).
func FromZerolog(zl zerolog.Logger) *Logger {
	return &Logger{zl: zl}
}

func parseLevel(s string) zerolog.Level {
	switch s {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Trace, Debug, Info, Warn, Error delegados a zerolog.
func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// With crea un sublogger con campos fijos.
func (l *Logger) With() zerolog.Context {
	return l.zl.With()
}

// Named sublogger con el campo "component".
func (l *Logger) Named(component string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", component).Logger()}
}

// Close cierra el archivo de log, si hay uno.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// lossyWriter descarta los errores de escritura del archivo: el log nunca detiene al proceso.
type lossyWriter struct {
	w io.Writer
}

func (lw lossyWriter) Write(p []byte) (int, error) {
	_, _ = lw.w.Write(p)
	return len(p), nil
}
