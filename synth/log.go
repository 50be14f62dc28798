// SPDX-License-Identifier: EPL-2.0

package synth

import (
	"log"
	"os"
)

// LogLevel orders log messages by severity.
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarning
	LogError
)

func (l LogLevel) String() string {
	switch l {
	case LogDebug:
		return "debug"
	case LogInfo:
		return "info"
	case LogWarning:
		return "warning"
	case LogError:
		return "error"
	}
	return "unknown"
}

func defaultLogger() *log.Logger {
	return log.New(os.Stderr, "sfzsynth: ", 0)
}

func (s *Synth) logf(level LogLevel, format string, args ...any) {
	if s.logger == nil || level < s.logLevel {
		return
	}
	s.logger.Printf(level.String()+": "+format, args...)
}
