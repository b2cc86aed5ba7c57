package logging

import "log/slog"

// LevelTrace is below Debug and enabled by -vvv.
const LevelTrace = slog.Level(-8)

// LevelFromVerbosity maps a -v count to a log level: 0 warns, 1 informs,
// 2 debugs, 3 and above trace.
func LevelFromVerbosity(verbosity int) slog.Level {
	switch {
	case verbosity <= 0:
		return slog.LevelWarn
	case verbosity == 1:
		return slog.LevelInfo
	case verbosity == 2:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}
