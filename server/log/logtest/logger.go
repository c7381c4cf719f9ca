// Package logtest implements support for testing Loggers.
package logtest

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jacobpatterson1549/tennis-scorer/server/log"
)

// DiscardLogger is a Logger that ignores everything written to it.
var DiscardLogger log.Logger = discardLogger{}

type (
	// discardLogger is a logger that logs nothing.
	discardLogger struct{}

	// Logger records each formatted message so tests can check what was logged.
	// Messages are recorded without separators, in the order they are logged.
	Logger struct {
		mu      sync.RWMutex
		entries []string
	}
)

// NewLogger creates a Logger with no messages.
func NewLogger() *Logger {
	return new(Logger)
}

// Logger implements the server's log.Logger interface.
var _ log.Logger = NewLogger()

// Printf implements the log.Logger interface
func (discardLogger) Printf(format string, v ...interface{}) {
	// NOOP
}

// Printf records the formatted message.
func (l *Logger) Printf(format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, message)
}

// String returns all the recorded messages.
func (l *Logger) String() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return strings.Join(l.entries, "")
}

// Messages returns a copy of the recorded messages.
func (l *Logger) Messages() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	messages := make([]string, len(l.entries))
	copy(messages, l.entries)
	return messages
}

// Contains reports whether any recorded message contains the text.
func (l *Logger) Contains(text string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, m := range l.entries {
		if strings.Contains(m, text) {
			return true
		}
	}
	return false
}

// Empty reports whether nothing has been logged.  Messages that format to empty strings are not counted.
func (l *Logger) Empty() bool {
	return len(l.String()) == 0
}

// Reset clears the recorded messages.
func (l *Logger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
