// Package diagnostic delivers progress and conflict messages from table construction
// and compilation to whoever is interested in them.
package diagnostic

import (
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("dslmanager.diag")
}

type Severity int

const (
	Log Severity = iota
	Success
	Error
	Failure
	Warning
	Info
	Question
	Progress
)

var severityNames = [...]string{
	Log:      "log",
	Success:  "success",
	Error:    "error",
	Failure:  "failure",
	Warning:  "warning",
	Info:     "info",
	Question: "question",
	Progress: "progress",
}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "unknown"
	}
	return severityNames[s]
}

// Sink receives diagnostic messages. Messages never influence control flow, so a sink
// may drop them.
type Sink interface {
	OnMessage(msg string, severity Severity)
}

// Func adapts a plain function to a Sink.
type Func func(msg string, severity Severity)

func (f Func) OnMessage(msg string, severity Severity) {
	f(msg, severity)
}

// Send delivers a message to a sink that may be nil.
func Send(s Sink, msg string, severity Severity) {
	if s == nil {
		return
	}
	s.OnMessage(msg, severity)
}

// TraceSink writes messages to the tracer of this package.
type TraceSink struct{}

func (TraceSink) OnMessage(msg string, severity Severity) {
	switch severity {
	case Error, Failure, Warning:
		tracer().Errorf("%v: %v", severity, msg)
	case Log:
		tracer().Debugf("%v", msg)
	default:
		tracer().Infof("%v", msg)
	}
}

// Recorder keeps every message it receives.
type Recorder struct {
	Messages []Message
}

type Message struct {
	Text     string
	Severity Severity
}

func (r *Recorder) OnMessage(msg string, severity Severity) {
	r.Messages = append(r.Messages, Message{
		Text:     msg,
		Severity: severity,
	})
}

// Count returns the number of recorded messages with the given severity.
func (r *Recorder) Count(severity Severity) int {
	n := 0
	for _, m := range r.Messages {
		if m.Severity == severity {
			n++
		}
	}
	return n
}

// Tee delivers every message to all of its sinks.
type Tee []Sink

func (t Tee) OnMessage(msg string, severity Severity) {
	for _, s := range t {
		Send(s, msg, severity)
	}
}
