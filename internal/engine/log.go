package engine

import (
	"strings"
	"sync"
)

// Log is an append-only text stream shared by every engine invocation.
// Implementations embed it to satisfy the LogLen/LogSlice half of Engine.
type Log struct {
	mu  sync.Mutex
	buf strings.Builder
}

// Append adds text to the stream and returns the new length.
func (l *Log) Append(text string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.WriteString(text)
	return l.buf.Len()
}

// LogLen reports the current stream length.
func (l *Log) LogLen() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Len()
}

// LogSlice returns the segment in [from, to), clamped to the stream bounds.
func (l *Log) LogSlice(from, to int) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	text := l.buf.String()
	if from < 0 {
		from = 0
	}
	if to > len(text) {
		to = len(text)
	}
	if from >= to {
		return ""
	}
	return text[from:to]
}
