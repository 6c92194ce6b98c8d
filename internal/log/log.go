package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

func init() {
	zerolog.DurationFieldUnit = time.Microsecond
	zerolog.ErrorFieldName = "error"
	zerolog.ErrorStackFieldName = "stack-trace"
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.LevelFieldName = "level"
	zerolog.MessageFieldName = "message"
	zerolog.TimestampFieldName = "timestamp"
}

// Get builds the process logger on first use. Later calls return the same
// logger whatever arguments they pass.
func Get(filepath string, config config.Application) zerolog.Logger {
	once.Do(func() {
		logger = New(output(filepath), config)
		logger.Info().
			Str(constants.KEY_TAG, "log Get").
			Str(constants.KEY_PROCESS, "initializing logger").
			Str("file", filepath).
			Msg("initialized logger")
	})
	return logger
}

// New writes trace level events in development and info level otherwise.
func New(w io.Writer, config config.Application) zerolog.Logger {
	level := zerolog.InfoLevel
	if config.Env == constants.ENV_DEVELOPMENT {
		level = zerolog.TraceLevel
	}
	return zerolog.New(w).
		Level(level).
		Hook(AttachTraceIdFromContext()).
		With().
		Timestamp().
		Caller().
		Stack().
		Str("env", config.Env).
		Int("pid", os.Getpid()).
		Logger()
}

func output(filepath string) io.Writer {
	if filepath == "" {
		return os.Stdout
	}
	return zerolog.MultiLevelWriter(os.Stdout, &lumberjack.Logger{
		Filename:   filepath,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     28,
		Compress:   true,
	})
}
