package logger

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EventSink receives named pipeline events. Implementations must not fail
// the caller; delivery is best effort.
type EventSink interface {
	Event(name string, fields map[string]interface{})
}

// EventLog appends one JSON object per event to a journal file and mirrors
// each event to a console Logger.
type EventLog struct {
	mu      *sync.Mutex
	journal *zerolog.Logger
	file    *os.File
	console Logger
	base    map[string]interface{}
	now     func() time.Time
}

// NewEventLog opens (or creates) the journal at path. An empty path only
// mirrors events to console.
func NewEventLog(path string, console Logger) (*EventLog, error) {
	if console == nil {
		console = NewNopLogger()
	}
	e := &EventLog{
		mu:      &sync.Mutex{},
		console: console,
		base:    map[string]interface{}{},
		now:     time.Now,
	}
	if path == "" {
		return e, nil
	}

	file, err := openAppend(path)
	if err != nil {
		return nil, err
	}
	journal := zerolog.New(file)
	e.file = file
	e.journal = &journal
	return e, nil
}

// With returns an EventLog sharing the same journal whose events all carry fields
func (e *EventLog) With(fields map[string]interface{}) *EventLog {
	base := make(map[string]interface{}, len(e.base)+len(fields))
	for k, v := range e.base {
		base[k] = v
	}
	for k, v := range fields {
		base[k] = v
	}
	child := *e
	child.base = base
	return &child
}

// Event records name with fields
func (e *EventLog) Event(name string, fields map[string]interface{}) {
	level := EventLevel(name)

	if e.journal != nil {
		e.mu.Lock()
		ev := e.journal.WithLevel(level).Str("event", name).Time("ts", e.now().UTC())
		for k, v := range e.base {
			ev = addFieldToEvent(ev, k, v)
		}
		for k, v := range fields {
			ev = addFieldToEvent(ev, k, v)
		}
		ev.Send()
		e.mu.Unlock()
	}

	console := e.console.WithFields(e.base)
	switch level {
	case zerolog.ErrorLevel:
		console.ErrorWithFields(name, fields)
	case zerolog.WarnLevel:
		console.WarnWithFields(name, fields)
	default:
		console.InfoWithFields(name, fields)
	}
}

// Close closes the journal file, if any
func (e *EventLog) Close() error {
	if e.file == nil {
		return nil
	}
	return e.file.Close()
}

// EventLevel derives a severity from an event name
func EventLevel(name string) zerolog.Level {
	switch {
	case strings.HasSuffix(name, "_FAILED"):
		return zerolog.ErrorLevel
	case strings.HasPrefix(name, "WARN_"), strings.HasSuffix(name, "_WARNING"):
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

type nopSink struct{}

func (nopSink) Event(string, map[string]interface{}) {}

// NopEvents returns a sink that drops every event
func NopEvents() EventSink {
	return nopSink{}
}

type teeSink []EventSink

func (t teeSink) Event(name string, fields map[string]interface{}) {
	for _, s := range t {
		s.Event(name, fields)
	}
}

// Tee fans every event out to sinks in order. Nil sinks are skipped.
func Tee(sinks ...EventSink) EventSink {
	var out teeSink
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
