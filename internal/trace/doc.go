// Package trace is the structured event log of the paxy compiler.
//
// Every compile runs with a Tracer taken from its context. Passes open spans
// around their work, compile units and subroutines emit detail events, and the
// code generator can report each emitted block at debug level.
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "codegen", 0)
//	defer span.End("")
//
// Implementations:
//
//   - Nop: used when tracing is off
//   - StreamTracer: writes every event to an io.Writer
//   - RingTracer: keeps the last N events for a post-mortem dump
//   - MultiTracer: fans out to several tracers
//
// Levels gate scopes: phase shows driver and pass spans, detail adds
// per-unit events, debug adds per-node events.
package trace
