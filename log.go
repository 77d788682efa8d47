package yatb

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type LogLevelType uint8

const (
	LevelVerbose LogLevelType = 50
	LevelDebug   LogLevelType = 40
	LevelInfo    LogLevelType = 30
	LevelWarn    LogLevelType = 20
	LevelError   LogLevelType = 10
	LevelQuiet   LogLevelType = 0
)

var (
	nameToLevels = map[string]LogLevelType{
		"verbose": LevelVerbose,
		"debug":   LevelDebug,
		"info":    LevelInfo,
		"warn":    LevelWarn,
		"error":   LevelError,
		"quiet":   LevelQuiet,
	}
	levelToLogrus = map[LogLevelType]logrus.Level{
		LevelVerbose: logrus.TraceLevel,
		LevelDebug:   logrus.DebugLevel,
		LevelInfo:    logrus.InfoLevel,
		LevelWarn:    logrus.WarnLevel,
		LevelError:   logrus.ErrorLevel,
	}
)

var (
	logger = newLogger()

	outputLock sync.Mutex
	// Destination of the report lines, stdout unless -s is given.
	OutputDest io.Writer = os.Stdout
)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetLogLevel sets the level by one of the names:
// verbose, debug, info, warn, error, quiet.
func SetLogLevel(name string) error {
	level, ok := nameToLevels[strings.ToLower(name)]
	if !ok {
		return errors.Errorf("unknown log level: %s", name)
	}
	if level == LevelQuiet {
		logger.SetOutput(io.Discard)
		return nil
	}
	logger.SetOutput(os.Stderr)
	logger.SetLevel(levelToLogrus[level])
	return nil
}

// SetLogOutput redirects the log records, mostly for tests.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

// LogWith returns a log entry carrying the given structured fields.
func LogWith(fields logrus.Fields) *logrus.Entry {
	return logger.WithFields(fields)
}

func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

func Warnf(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

func Infof(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

func Verbosef(format string, args ...interface{}) {
	logger.Tracef(format, args...)
}

// Fprintln writes one formatted line to w.
func Fprintln(w io.Writer, format string, args ...interface{}) {
	outputLock.Lock()
	defer outputLock.Unlock()
	fmt.Fprintf(w, format, args...)
	fmt.Fprintln(w)
}

// Println writes one formatted line to the report output.
func Println(format string, args ...interface{}) {
	Fprintln(OutputDest, format, args...)
}

func PromptPrintf(format string, args ...interface{}) {
	outputLock.Lock()
	defer outputLock.Unlock()
	fmt.Fprintf(OutputDest, format, args...)
}

func EPrintln(format string, args ...interface{}) {
	Fprintln(os.Stderr, format, args...)
}
