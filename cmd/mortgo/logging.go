package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

func newLogger(out io.Writer, level, format string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)

	switch format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	default:
		return nil, fmt.Errorf("unsupported log format %q", format)
	}

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetLevel(logLevel)
	return logger, nil
}
