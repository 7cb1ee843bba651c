package console

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// ConsoleLogger writes log lines to a terminal or any other writer.
type ConsoleLogger struct {
	logger *log.Logger
}

// ConsoleLoggerParams configures a ConsoleLogger.
//
// Output defaults to stderr. Format is one of "text" (default), "json" or
// "logfmt"; json is meant for log collectors in container deployments.
type ConsoleLoggerParams struct {
	Debug  bool
	Prefix string
	Format string
	Output io.Writer
}

func formatter(name string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

func NewConsoleLogger(params ConsoleLoggerParams) *ConsoleLogger {
	level := log.InfoLevel
	if params.Debug {
		level = log.DebugLevel
	}
	out := params.Output
	if out == nil {
		out = os.Stderr
	}
	return &ConsoleLogger{
		logger: log.NewWithOptions(out, log.Options{
			ReportTimestamp: true,
			Level:           level,
			Prefix:          params.Prefix,
			Formatter:       formatter(params.Format),
		}),
	}
}

func (c *ConsoleLogger) Log(message string, keyvals ...any) {
	c.logger.Print(message, keyvals...)
}

func (c *ConsoleLogger) Info(message string, keyvals ...any) {
	c.logger.Info(message, keyvals...)
}

func (c *ConsoleLogger) Warn(message string, keyvals ...any) {
	c.logger.Warn(message, keyvals...)
}

func (c *ConsoleLogger) Error(message string, keyvals ...any) {
	c.logger.Error(message, keyvals...)
}

func (c *ConsoleLogger) Debug(message string, keyvals ...any) {
	c.logger.Debug(message, keyvals...)
}

// Fatal logs at FATAL level and exits the process.
func (c *ConsoleLogger) Fatal(message string, keyvals ...any) {
	c.logger.Fatal(message, keyvals...)
}
