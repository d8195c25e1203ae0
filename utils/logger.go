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
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	l.SetLevel(level)
	return l
}

// InitLogger resets both loggers. level is a logrus level name; an empty or
// unknown value keeps the info level.
func InitLogger(level ...string) {
	InfoLogger = newLogger(os.Stdout, logrus.InfoLevel)
	ErrorLogger = newLogger(os.Stderr, logrus.ErrorLevel)

	if len(level) == 0 || level[0] == "" {
		return
	}
	lvl, err := logrus.ParseLevel(level[0])
	if err != nil {
		ErrorLogger.Printf("unknown log level %q, keeping info", level[0])
		return
	}
	InfoLogger.SetLevel(lvl)
}
