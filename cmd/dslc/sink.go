package main

import (
	"github.com/michelematteini/dslmanager/diagnostic"
	"github.com/pterm/pterm"
)

// ptermSink prints diagnostic messages to the terminal, colored by severity.
type ptermSink struct{}

func (ptermSink) OnMessage(msg string, severity diagnostic.Severity) {
	switch severity {
	case diagnostic.Error, diagnostic.Failure:
		pterm.Error.Println(msg)
	case diagnostic.Warning:
		pterm.Warning.Println(msg)
	case diagnostic.Success:
		pterm.Success.Println(msg)
	case diagnostic.Log:
		tracer().Debugf("%v", msg)
	default:
		pterm.Info.Println(msg)
	}
}
