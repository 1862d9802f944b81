package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  = newLogger(os.Stdout, logrus.InfoLevel)
	ErrorLogger = newLogger(os.Stderr, logrus.ErrorLevel)
)

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetLevel(level)
	return logger
}

// InitLogger mengatur ulang level InfoLogger. ErrorLogger selalu di level error
// kecuali level yang diminta lebih verbose (debug/trace).
func InitLogger(level string) {
	infoLevel := logrus.InfoLevel
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			ErrorLogger.Warnf("Unknown LOG_LEVEL %q, falling back to info", level)
		} else {
			infoLevel = parsed
		}
	}

	InfoLogger = newLogger(os.Stdout, infoLevel)

	errorLevel := logrus.ErrorLevel
	if infoLevel > logrus.InfoLevel {
		errorLevel = infoLevel
	}
	ErrorLogger = newLogger(os.Stderr, errorLevel)
}
