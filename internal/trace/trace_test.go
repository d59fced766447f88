package trace_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"paxy/internal/trace"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]trace.Level{
		"off":    trace.LevelOff,
		"PHASE":  trace.LevelPhase,
		"detail": trace.LevelDetail,
		"debug":  trace.LevelDebug,
	}
	for in, want := range cases {
		got, err := trace.ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := trace.ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestLevelGatesScopes(t *testing.T) {
	if trace.LevelPhase.ShouldEmit(trace.ScopeUnit) {
		t.Fatal("phase level must not emit unit events")
	}
	if !trace.LevelDetail.ShouldEmit(trace.ScopeUnit) {
		t.Fatal("detail level must emit unit events")
	}
	if trace.LevelDetail.ShouldEmit(trace.ScopeNode) {
		t.Fatal("detail level must not emit node events")
	}
	if !trace.LevelDebug.ShouldEmit(trace.ScopeNode) {
		t.Fatal("debug level must emit node events")
	}
}

func TestStreamTracerWritesSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelPhase, trace.FormatText)
	span := trace.Begin(tr, trace.ScopePass, "codegen", 0)
	span.WithExtra("instrs", "12").WithExtra("consts", "3")
	span.End("ok")

	out := buf.String()
	if !strings.Contains(out, "→ codegen") || !strings.Contains(out, "← codegen (ok)") {
		t.Fatalf("unexpected trace output:\n%s", out)
	}
	if !strings.Contains(out, "{consts=3, instrs=12}") {
		t.Fatalf("extra keys not sorted:\n%s", out)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelDebug, trace.FormatNDJSON)
	trace.Point(tr, trace.ScopeNode, "block", "main", 0)
	if !strings.Contains(buf.String(), `"name":"block"`) {
		t.Fatalf("missing name field: %s", buf.String())
	}
}

func TestRingTracerWraps(t *testing.T) {
	ring := trace.NewRingTracer(2, trace.LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		trace.Point(ring, trace.ScopeNode, name, "", 0)
	}
	snap := ring.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestMultiTracerFindsRing(t *testing.T) {
	var buf bytes.Buffer
	ring := trace.NewRingTracer(8, trace.LevelPhase)
	multi := trace.NewMultiTracer(trace.LevelPhase, trace.NewStreamTracer(&buf, trace.LevelPhase, trace.FormatText), ring)
	trace.Begin(multi, trace.ScopePass, "parse", 0).End("")
	got, ok := trace.Ring(multi)
	if !ok || got != ring {
		t.Fatal("Ring did not find the ring tracer")
	}
	if len(ring.Snapshot()) != 2 {
		t.Fatalf("ring recorded %d events, want 2", len(ring.Snapshot()))
	}
}

func TestDisabledSpanIsInert(t *testing.T) {
	span := trace.Begin(trace.Nop, trace.ScopePass, "parse", 0)
	if span.ID() != 0 {
		t.Fatal("nop span must have zero id")
	}
	if d := span.End(""); d != 0 {
		t.Fatalf("nop span duration = %v", d)
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	if trace.FromContext(ctx) != trace.Nop {
		t.Fatal("empty context must yield Nop")
	}
	ring := trace.NewRingTracer(4, trace.LevelPhase)
	ctx = trace.WithParent(trace.WithTracer(ctx, ring), 42)
	if trace.FromContext(ctx) != ring {
		t.Fatal("tracer not propagated")
	}
	if trace.ParentSpan(ctx) != 42 {
		t.Fatal("parent span not propagated")
	}
}

func TestStartNestsUnderContextSpan(t *testing.T) {
	ring := trace.NewRingTracer(8, trace.LevelPhase)
	ctx := trace.WithTracer(context.Background(), ring)

	ctx, build := trace.Start(ctx, trace.ScopeDriver, "build")
	_, pass := trace.Start(ctx, trace.ScopePass, "parse")
	pass.EndErr(nil)
	build.WithExtra("files", "1").End("")

	events := ring.Snapshot()
	if len(events) != 4 {
		t.Fatalf("recorded %d events, want 4", len(events))
	}
	if events[1].ParentID != build.ID() || events[1].Name != "parse" {
		t.Errorf("pass begin = %+v, want parent %d", events[1], build.ID())
	}
	if events[3].Extra["files"] != "1" {
		t.Errorf("build end extras = %v", events[3].Extra)
	}
}

func TestStartWithoutTracerKeepsContext(t *testing.T) {
	ctx := trace.WithParent(context.Background(), 7)
	got, span := trace.Start(ctx, trace.ScopePass, "ir")
	if got != ctx || span.ID() != 0 {
		t.Fatal("disabled span must not alter the context")
	}
	span.EndErr(context.Canceled)
}
