// Package logging provides structured logging for wdtaxa using zerolog.
// Terminals get a human-readable console writer; pipes and files get JSON
// lines so that a batch run can be audited afterwards.
//
//	ctx = logging.WithAuthority(ctx, "ipni")
//	logging.FromContext(ctx).Warn().Str("citation", c).Msg("Skipping citation")
package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger = NewLoggerFromConfig(&Config{
	Level:   os.Getenv("LOG_LEVEL"),
	Format:  os.Getenv("LOG_FORMAT"),
	NoColor: os.Getenv("NO_COLOR") != "",
})

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process-wide logger, including zerolog's global
// log.Logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
