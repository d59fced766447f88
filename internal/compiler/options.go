package compiler

import (
	"io"

	"paxy/internal/codegen"
	"paxy/internal/lexer"
	"paxy/internal/observ"
	"paxy/internal/symbols"
)

// Options configures one compile. The zero value uses the default policies:
// labels=error, variables=reuse, loop_end=once, comment "#".
type Options struct {
	Policy  symbols.Policy
	LoopEnd codegen.LoopEndPolicy
	Lexer   lexer.Options

	// Timer receives one phase per pass when set.
	Timer *observ.Timer
	// CrashDump receives the ring trace buffer when an internal invariant fails.
	CrashDump io.Writer
}

// Fingerprint identifies the options that change generated code, for caching.
func (o Options) Fingerprint() string {
	marker := o.Lexer.CommentMarker
	if marker == "" {
		marker = lexer.DefaultCommentMarker
	}
	return "labels=" + o.Policy.Labels.String() +
		";variables=" + o.Policy.Variables.String() +
		";loop_end=" + o.LoopEnd.String() +
		";comment=" + marker
}
