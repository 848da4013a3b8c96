package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/op/go-logging"
)

type Level logging.Level

// The levels that can be passed to the SetLevel function.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

// Level names accepted by ParseLevel, indexed by Level.
var levelNames = [...]string{"debug", "info", "notice", "warning", "error"}

// Backend levels indexed by Level.
var backendLevels = [...]logging.Level{logging.DEBUG, logging.INFO, logging.NOTICE, logging.WARNING, logging.ERROR}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Messages carry the process id so output from gather workers sharing a
// terminal can be told apart.
var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000} rt[%{pid}] [%{module}] %{level:.4s}%{color:reset} %{message}`,
)

var (
	leveledBackend logging.LeveledBackend
	curLevel       = Notice
)

// The logger interface
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// Create a new named logger.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// Redirect log output to sink keeping the current level. Stdout carries
// pixel data when rendering to a pipe so the default sink is stderr.
func SetSink(sink io.Writer) {
	backend := logging.NewBackendFormatter(logging.NewLogBackend(sink, "", 0), format)
	leveledBackend = logging.AddModuleLevel(backend)
	logging.SetBackend(leveledBackend)
	SetLevel(curLevel)
}

// Set logger verbosity for all modules.
func SetLevel(level Level) {
	if int(level) >= len(backendLevels) {
		level = Error
	}
	curLevel = level
	leveledBackend.SetLevel(backendLevels[level], "")
}

// Parse a level name. The match is case-insensitive and "warn" is accepted
// as an alias for "warning".
func ParseLevel(name string) (Level, error) {
	name = strings.ToLower(name)
	if name == "warn" {
		name = "warning"
	}
	for level, levelName := range levelNames {
		if name == levelName {
			return Level(level), nil
		}
	}
	return Notice, fmt.Errorf("log: unknown level %q", name)
}

func init() {
	SetSink(os.Stderr)
}
