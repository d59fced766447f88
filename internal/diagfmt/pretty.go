package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"paxy/internal/diag"
	"paxy/internal/source"
)

type palette struct {
	err, warn, info, code, path, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan),
		code:   color.New(color.Bold),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		note:   color.New(color.FgCyan, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty renders diagnostics for humans:
//
//	path:line:col: ERROR PX3001 NameError: message
//	   2 | LET b a + c
//	     |           ^
//
// followed by notes when requested.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range limit(bag.Items(), opts.Max) {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s%s %s %s: %s\n",
			p.path.Sprint(location(d.Primary, d, fs, opts.PathMode, opts.BaseDir)),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Code.Kind(),
			d.Message)
		if located(d, fs) {
			writeSnippet(w, p, fs, d.Primary, p.caret)
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s%s\n", p.note.Sprint("note:"),
				location(n.Span, d, fs, opts.PathMode, opts.BaseDir), n.Msg)
			if located(d, fs) {
				writeSnippet(w, p, fs, n.Span, p.note)
			}
		}
	}
	if dropped := bag.Len() - len(limit(bag.Items(), opts.Max)); dropped > 0 {
		fmt.Fprintf(w, "... and %d more\n", dropped)
	}
}

// Short prints one line per diagnostic.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range limit(bag.Items(), opts.Max) {
		fmt.Fprintf(w, "%s%s %s: %s\n",
			location(d.Primary, d, fs, opts.PathMode, opts.BaseDir),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			d.Code.ID(), d.Message)
	}
}

func limit(items []diag.Diagnostic, max int) []diag.Diagnostic {
	if max > 0 && len(items) > max {
		return items[:max]
	}
	return items
}

// location renders "path:line:col: " or "paxy: " for location-less diagnostics.
func location(sp source.Span, d diag.Diagnostic, fs *source.FileSet, mode PathMode, base string) string {
	if !located(d, fs) {
		return "paxy: "
	}
	f := fs.Get(sp.File)
	if f == nil {
		return "paxy: "
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d: ", formatPath(f.Path, mode, base), start.Line, displayCol(f.GetLine(start.Line), start.Col))
}

// displayCol converts a 1-based byte column into a 1-based display column.
func displayCol(line string, col uint32) int {
	off := min(int(col-1), len(line))
	return runewidth.StringWidth(untab(line[:off])) + 1
}

func untab(s string) string { return strings.ReplaceAll(s, "\t", "    ") }

func writeSnippet(w io.Writer, p palette, fs *source.FileSet, sp source.Span, mark *color.Color) {
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	text := f.GetLine(start.Line)
	gutter := fmt.Sprintf("%4d", start.Line)
	fmt.Fprintf(w, "%s %s %s\n", p.gutter.Sprint(gutter), p.gutter.Sprint("|"), untab(text))

	from := min(int(start.Col-1), len(text))
	to := len(text)
	if end.Line == start.Line {
		to = min(int(end.Col-1), len(text))
	}
	pad := runewidth.StringWidth(untab(text[:from]))
	width := max(1, runewidth.StringWidth(untab(text[from:to])))
	underline := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s %s %s%s\n", strings.Repeat(" ", len(gutter)), p.gutter.Sprint("|"),
		strings.Repeat(" ", pad), mark.Sprint(underline))
}
