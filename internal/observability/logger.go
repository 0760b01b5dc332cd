package observability

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger returns the global logger tagged with a component name. Call it after
// logging is configured so the current output is captured.
func Logger(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}
