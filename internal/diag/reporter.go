package diag

import (
	"sync"

	"paxy/internal/source"
)

// Reporter receives diagnostics from the driver.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// ReportError forwards a *Error to r.
func ReportError(r Reporter, e *Error) {
	if r == nil || e == nil {
		return
	}
	d := e.Diagnostic()
	r.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
}

// BagReporter writes into a Bag. It is safe for concurrent use.
type BagReporter struct {
	mu  sync.Mutex
	Bag *Bag
}

func (r *BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r == nil || r.Bag == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes,
	})
}
