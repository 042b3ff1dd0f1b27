// Package logging configures the global zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls log output.
type Options struct {
	Level   string
	JSON    bool
	Caller  bool
	NoColor bool
}

// Configure sets up the global logger.
func Configure(opts Options) {
	var w io.Writer

	// Adds support for NO_COLOR. More info https://no-color.org/
	_, noColor := os.LookupEnv("NO_COLOR")

	if !opts.JSON {
		w = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			NoColor:    noColor || opts.NoColor,
			TimeFormat: time.RFC1123,
		}
	} else {
		w = os.Stderr
	}

	ctx := zerolog.New(w).With().Timestamp()
	if opts.Caller {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil {
		log.Fatal().Err(err).Msg("Unknown log level")
	} else {
		zerolog.SetGlobalLevel(level)
	}
}
