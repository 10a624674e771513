package logger

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// NewPGXTracer routes pgx query logs into zerolog. Query arguments and the
// backend pid are dropped; routine statements are logged at debug.
func NewPGXTracer(logger zerolog.Logger) *tracelog.TraceLog {
	logger = logger.With().Str("component", "pgx").Logger()

	return &tracelog.TraceLog{
		Logger: tracelog.LoggerFunc(func(ctx context.Context, l tracelog.LogLevel, msg string, data map[string]any) {
			keys := make([]string, 0, len(data))
			for k := range data {
				switch k {
				case "args", "pid":
				default:
					keys = append(keys, k)
				}
			}
			sort.Strings(keys)

			var evt *zerolog.Event
			switch l {
			case tracelog.LogLevelTrace, tracelog.LogLevelDebug, tracelog.LogLevelInfo:
				evt = logger.Debug()
			case tracelog.LogLevelWarn:
				evt = logger.Warn()
			case tracelog.LogLevelError:
				evt = logger.Error()
			default:
				evt = logger.Error().Stringer("invalid_pgx_log_level", l)
			}

			for _, k := range keys {
				evt = evt.Interface(k, data[k])
			}
			evt.Msg(msg)
		}),
		LogLevel: tracelog.LogLevelDebug,
	}
}
