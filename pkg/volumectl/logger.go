package volumectl

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	buildTypeNone    = ""
	buildTypeDev     = "dev"
	buildTypeRelease = "release"

	// overrides the level picked from -v/-q, e.g. VOLUME_CTL_LOG=debug
	envLogLevel = "VOLUME_CTL_LOG"
)

// TraceLevel sits below zap's debug level and logs every main loop iteration
const TraceLevel = zapcore.DebugLevel - 1

// LevelForVerbosity maps the difference of -v and -q flag counts to a log level
func LevelForVerbosity(verbosity int) zapcore.Level {
	switch {
	case verbosity <= -2:
		return zapcore.ErrorLevel
	case verbosity == -1:
		return zapcore.WarnLevel
	case verbosity == 0:
		return zapcore.InfoLevel
	case verbosity == 1:
		return zapcore.DebugLevel
	default:
		return TraceLevel
	}
}

// ParseLevel accepts zap's level names plus "trace"
func ParseLevel(text string) (zapcore.Level, error) {
	if strings.EqualFold(text, "trace") {
		return TraceLevel, nil
	}

	level, err := zapcore.ParseLevel(text)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("parse log level: %w", err)
	}

	return level, nil
}

func encodeLevel(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if level == TraceLevel {
		enc.AppendString("TRACE")
		return
	}

	zapcore.CapitalLevelEncoder(level, enc)
}

// NewLogger provides a logger writing to stderr. Dev builds get
// development-mode behavior (DPanic panics).
func NewLogger(buildType string, verbosity int) (*zap.SugaredLogger, error) {
	level := LevelForVerbosity(verbosity)

	if override := os.Getenv(envLogLevel); override != "" {
		parsed, err := ParseLevel(override)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", envLogLevel, err)
		}
		level = parsed
	}

	loggerConfig := zap.NewDevelopmentConfig()
	loggerConfig.Level = zap.NewAtomicLevelAt(level)
	loggerConfig.Development = buildType == buildTypeNone || buildType == buildTypeDev
	loggerConfig.DisableStacktrace = true
	loggerConfig.OutputPaths = []string{"stderr"}
	loggerConfig.ErrorOutputPaths = []string{"stderr"}

	// one-shot tool, timestamps and callers are noise
	loggerConfig.EncoderConfig.TimeKey = ""
	loggerConfig.EncoderConfig.CallerKey = ""
	loggerConfig.EncoderConfig.EncodeLevel = encodeLevel

	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("create zap logger: %w", err)
	}

	return logger.Sugar(), nil
}
