package logger

import (
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	projectLogger *logrus.Logger
	once          sync.Once
)

// GetProjectLogger returns the logger shared by every package
func GetProjectLogger() *logrus.Logger {
	once.Do(func() {
		projectLogger = logrus.New()
		projectLogger.SetLevel(logrus.InfoLevel)
		projectLogger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05.000",
		})
	})
	return projectLogger
}

// Configure sets the level and destination of the project logger
func Configure(level string, out io.Writer) error {
	lvl, err := logrus.ParseLevel(level)
	if nil != err {
		return fmt.Errorf("unable to parse log level: %w", err)
	}
	l := GetProjectLogger()
	l.SetLevel(lvl)
	if nil != out {
		l.SetOutput(out)
	}
	return nil
}
