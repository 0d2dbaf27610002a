package diagnostic

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestTee(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dslmanager.diag")
	defer teardown()

	var rec1, rec2 Recorder
	var got []string
	sink := Tee{
		&rec1,
		nil,
		TraceSink{},
		Func(func(msg string, severity Severity) {
			got = append(got, severity.String()+":"+msg)
		}),
		&rec2,
	}
	sink.OnMessage("Found 2 conflicts.", Warning)
	sink.OnMessage("calc.txt", Progress)
	Send(nil, "dropped", Error)

	if rec1.Count(Warning) != 1 || rec2.Count(Progress) != 1 || rec1.Count(Error) != 0 {
		t.Fatalf("unexpected records: %+v, %+v", rec1.Messages, rec2.Messages)
	}
	if len(got) != 2 || got[0] != "warning:Found 2 conflicts." || got[1] != "progress:calc.txt" {
		t.Fatalf("unexpected messages: %v", got)
	}
	if Severity(42).String() != "unknown" {
		t.Fatalf("an out-of-range severity must be unknown")
	}
}
