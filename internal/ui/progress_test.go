package ui

import (
	"strings"
	"testing"
	"time"

	"paxy/internal/buildpipeline"
)

func TestApplyEventTracksStatus(t *testing.T) {
	m := NewProgressModel("build", []string{"a.px", "b.px"}, nil).(*progressModel)
	m.applyEvent(buildpipeline.Event{File: "a.px", Stage: buildpipeline.StageCompile, Status: buildpipeline.StatusWorking})
	if got := m.fraction(); got != 0.2 {
		t.Errorf("fraction = %v, want 0.2", got)
	}
	m.applyEvent(buildpipeline.Event{File: "a.px", Stage: buildpipeline.StageCompile, Status: buildpipeline.StatusDone, Elapsed: 3 * time.Millisecond})
	m.applyEvent(buildpipeline.Event{File: "b.px", Stage: buildpipeline.StageCompile, Status: buildpipeline.StatusError})
	m.applyEvent(buildpipeline.Event{File: "b.px", Stage: buildpipeline.StageCompile, Status: buildpipeline.StatusWorking})
	if m.items[1].status != buildpipeline.StatusError {
		t.Errorf("terminal status was overwritten: %v", m.items[1].status)
	}
	if got := m.fraction(); got != 1 {
		t.Errorf("fraction = %v, want 1", got)
	}
	m.applyEvent(buildpipeline.Event{File: "unknown.px", Status: buildpipeline.StatusDone})

	view := m.View()
	for _, want := range []string{"a.px", "b.px", "2/2 files", "1 failed", "3.0ms"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestStatusLabel(t *testing.T) {
	if got := statusLabel(buildpipeline.StageEmit, buildpipeline.StatusWorking); got != "writing" {
		t.Errorf("label = %q", got)
	}
	if got := statusLabel(buildpipeline.StageCache, buildpipeline.StatusCached); got != "cached" {
		t.Errorf("label = %q", got)
	}
}

func TestTruncateKeepsTail(t *testing.T) {
	got := truncate("very/long/directory/name/file.px", 12)
	if got != "...e/file.px" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("short.px", 20); got != "short.px" {
		t.Errorf("truncate = %q", got)
	}
}
