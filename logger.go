package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger = newLogger(os.Stdout, logrus.InfoLevel)

// CustomFormatter provides a clean, standard log format
type CustomFormatter struct {
	// NoColor drops the ANSI level colours, used for log files.
	NoColor bool
}

func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	timestamp := entry.Time.Format("2006-01-02 15:04:05")

	var levelColor string
	var levelText string
	switch entry.Level {
	case logrus.InfoLevel:
		levelColor = "\033[36m" // Cyan
		levelText = " INFO"
	case logrus.WarnLevel:
		levelColor = "\033[33m" // Yellow
		levelText = " WARN"
	case logrus.ErrorLevel:
		levelColor = "\033[31m" // Red
		levelText = "ERROR"
	case logrus.DebugLevel:
		levelColor = "\033[37m" // White
		levelText = "DEBUG"
	default:
		levelColor = "\033[0m" // Reset
		levelText = strings.ToUpper(entry.Level.String())
	}

	reset := "\033[0m"
	if f.NoColor {
		levelColor, reset = "", ""
	}

	module := "main"
	if moduleField, exists := entry.Data["module"]; exists {
		if moduleStr, ok := moduleField.(string); ok {
			module = moduleStr
		}
	}

	// Format: [LEVEL timestamp] [module] message
	return []byte(fmt.Sprintf("[%s%s%s %s] [%8s] %s\n",
		levelColor, levelText, reset, timestamp, module, entry.Message)), nil
}

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)
	l.SetFormatter(&CustomFormatter{})
	return l
}

// initLogger sets the level and, when logFile is given, tees output into a
// size-rotated file.
func initLogger(level, logFile string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}

	var output io.Writer = os.Stdout
	if logFile != "" {
		output = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
		})
		logger.SetFormatter(&CustomFormatter{NoColor: true})
	}

	logger.SetOutput(output)
	logger.SetLevel(lvl)
}

func logf(module string, level logrus.Level, msg string, args ...interface{}) {
	entry := logger.WithField("module", module)
	if len(args) > 0 {
		entry.Logf(level, msg, args...)
	} else {
		entry.Log(level, msg)
	}
}

func logInfo(msg string, args ...interface{}) { logf("main", logrus.InfoLevel, msg, args...) }
func logWarn(msg string, args ...interface{}) { logf("main", logrus.WarnLevel, msg, args...) }

func logFatal(msg string, args ...interface{}) {
	entry := logger.WithField("module", "main")
	if len(args) > 0 {
		entry.Fatalf(msg, args...)
	} else {
		entry.Fatal(msg)
	}
}

// Module-specific logging functions
func logInfoModule(module, msg string, args ...interface{}) {
	logf(module, logrus.InfoLevel, msg, args...)
}

func logWarnModule(module, msg string, args ...interface{}) {
	logf(module, logrus.WarnLevel, msg, args...)
}

func logErrorModule(module, msg string, args ...interface{}) {
	logf(module, logrus.ErrorLevel, msg, args...)
}

func logDebugModule(module, msg string, args ...interface{}) {
	logf(module, logrus.DebugLevel, msg, args...)
}
