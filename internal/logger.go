package internal

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger writes human-friendly text in debug mode and JSON otherwise.
func NewLogger(debug bool) *logrus.Logger {
	return newLogger(os.Stderr, debug)
}

func newLogger(w io.Writer, debug bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)

	if debug {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}
