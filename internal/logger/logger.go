package logger

import (
	"io"
	"os"
	"time"

	"github.com/northstar/dispatch-backend/internal/config"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the application logger: JSON in production, text otherwise.
// When LogFile is set, output also goes to a rotating file.
func New(cfg config.ServerConfig) *logrus.Logger {
	logger := logrus.New()

	if cfg.IsProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("Invalid log level %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.LogFile != "" {
		logger.SetOutput(io.MultiWriter(os.Stdout, NewRotator(cfg.LogFile)))
	} else {
		logger.SetOutput(os.Stdout)
	}

	return logger
}

// NewRotator returns a size-rotated log file writer
func NewRotator(filename string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    10, // megabytes
		MaxBackups: 7,
		MaxAge:     7, // days
		Compress:   true,
	}
}
