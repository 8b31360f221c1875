package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	slogrus "github.com/samber/slog-logrus/v2"
	"github.com/sirupsen/logrus"
)

// ConvertLogLevel maps a level name to logrus, defaulting to info.
func ConvertLogLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

// NewLogrusHandler returns a slog.Handler that writes through logger at the level logger is set to.
func NewLogrusHandler(logger *logrus.Logger) slog.Handler {
	return slogrus.Option{
		Level:  toSlogLevel(logger.GetLevel()),
		Logger: logger,
	}.NewLogrusHandler()
}

func toSlogLevel(level logrus.Level) slog.Level {
	switch {
	case level >= logrus.DebugLevel:
		return slog.LevelDebug
	case level == logrus.InfoLevel:
		return slog.LevelInfo
	case level == logrus.WarnLevel:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// SetUpLogrusAndSlog points both logrus and the default slog logger at stdout as JSON.
func SetUpLogrusAndSlog(level string) {
	SetUp(os.Stdout, level, &logrus.JSONFormatter{})
}

func SetUp(out io.Writer, level string, formatter logrus.Formatter) {
	logrus.SetFormatter(formatter)
	logrus.SetOutput(out)
	logrus.SetLevel(ConvertLogLevel(level))

	// integrate Logrus with the slog logger
	slog.SetDefault(slog.New(NewLogrusHandler(logrus.StandardLogger())))
}
