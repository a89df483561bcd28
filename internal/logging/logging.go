package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init configures the global logger: a console sink on stderr plus a rotating
// file under logDir. Seeding runs are short; the file sink keeps a record of
// what each run actually wrote to the cluster.
func Init(verbose bool, logDir string) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	isTerminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal,
	}

	var sink io.Writer = console
	if err := os.MkdirAll(logDir, 0755); err == nil {
		file := &lumberjack.Logger{
			Filename:   filepath.Join(logDir, "socseed.log"),
			MaxSize:    16, // megabytes
			MaxBackups: 8,
			MaxAge:     90, // days
			Compress:   true,
		}
		sink = zerolog.MultiLevelWriter(console, file)
	} else {
		log.Warn().Err(err).Str("path", logDir).Msg("Log directory unavailable, console only")
	}

	log.Logger = zerolog.New(sink).
		With().
		Timestamp().
		Logger()
}
