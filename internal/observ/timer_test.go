package observ_test

import (
	"errors"
	"strings"
	"testing"

	"paxy/internal/observ"
)

func TestTimerReport(t *testing.T) {
	tm := observ.NewTimer()
	idx := tm.Begin("parse")
	tm.End(idx, "3 commands")
	err := tm.Measure("codegen", func() error { return errors.New("boom") })
	if err == nil || err.Error() != "boom" {
		t.Fatalf("Measure returned %v", err)
	}
	tm.End(99, "ignored")

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("phases = %+v", rep.Phases)
	}
	if rep.Phases[0].Note != "3 commands" || rep.Phases[1].Note != "failed" {
		t.Errorf("notes = %q, %q", rep.Phases[0].Note, rep.Phases[1].Note)
	}
	sum := tm.Summary()
	for _, want := range []string{"timings:", "parse", "(3 commands)", "total"} {
		if !strings.Contains(sum, want) {
			t.Errorf("summary lacks %q:\n%s", want, sum)
		}
	}
}

func TestNilTimer(t *testing.T) {
	var tm *observ.Timer
	tm.End(tm.Begin("x"), "")
	if len(tm.Report().Phases) != 0 {
		t.Errorf("nil timer recorded phases")
	}
}
