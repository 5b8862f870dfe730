// Package sysutil holds small process-level helpers used by the server
// entrypoint: mapping the configured log level onto zerolog's global level
// and picking build metadata from fallback chains.
package sysutil

import (
	"strings"

	"github.com/rs/zerolog"
)

// levelNames maps accepted LOG_LEVEL values (post trim/lowercase) onto
// zerolog levels. "warning" is accepted as an alias because it is what half
// of all deployment templates write.
var levelNames = map[string]zerolog.Level{
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"":        zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
	"fatal":   zerolog.FatalLevel,
	"panic":   zerolog.PanicLevel,
}

// SetLogLevel sets the global zerolog level from a configuration string and
// returns the level that was applied. Unknown values fall back to info, so a
// typo in LOG_LEVEL degrades to noisier logs rather than silence.
func SetLogLevel(lvl string) zerolog.Level {
	level, ok := levelNames[strings.ToLower(strings.TrimSpace(lvl))]
	if !ok {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	return level
}

// FirstNonEmpty returns the first value that is not blank after trimming,
// preserving the original (untrimmed) string. Used for fallback chains such
// as version stamps: env override first, then the linker-set value.
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
