package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// logger fields
const (
	COMPONENT = "component"
	PRINCIPAL = "principal"
	CODE      = "code"
	ACTION    = "action"
	KIND      = "kind"
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// Init configures the global logger. format "console" writes human-readable
// output; anything else writes JSON.
func Init(level, format string) {
	var out io.Writer = os.Stdout
	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

// For returns a child of the global logger tagged with component=name.
func For(name string) *zerolog.Logger {
	l := log.With().Str(COMPONENT, name).Logger()
	return &l
}
