// Package logging contains the logger setup that the ld-flagsync command uses.
package logging

import (
	"io"
	"log"
	"os"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// MakeDefaultLoggers returns a Loggers instance that writes Error messages to stderr and everything else
// to stdout, with a minimum level of Info.
func MakeDefaultLoggers() ldlog.Loggers {
	return MakeLoggers(os.Stdout, os.Stderr, ldlog.Info)
}

// MakeLoggers returns a Loggers instance that writes Error messages to errorOut, everything else to out,
// and drops messages below minLevel.
func MakeLoggers(out, errorOut io.Writer, minLevel ldlog.LogLevel) ldlog.Loggers {
	loggers := ldlog.NewDefaultLoggers()
	loggers.SetBaseLogger(makeLog(out))
	loggers.SetBaseLoggerForLevel(ldlog.Error, makeLog(errorOut))
	loggers.SetMinLevel(minLevel)
	return loggers
}

func makeLog(w io.Writer) *log.Logger {
	return log.New(w, "", log.Ldate|log.Ltime|log.Lmicroseconds)
}
