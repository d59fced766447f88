package diagfmt

import (
	"paxy/internal/diag"
	"paxy/internal/source"
)

// FromError converts a compile error into a one-entry bag. Errors that
// are not *diag.Error become location-less diagnostics.
func FromError(err error) *diag.Bag {
	bag := diag.NewBag(0)
	if err == nil {
		return bag
	}
	de, ok := diag.AsError(err)
	if !ok {
		bag.Add(diag.NewError(diag.UnknownCode, source.Span{}, err.Error()))
		return bag
	}
	d := de.Diagnostic()
	if de.Mnemonic != "" {
		d.Message = de.Mnemonic + ": " + d.Message
	}
	bag.Add(d)
	return bag
}

// located reports whether d points into a file of fs.
func located(d diag.Diagnostic, fs *source.FileSet) bool {
	if fs == nil || fs.Get(d.Primary.File) == nil {
		return false
	}
	switch d.Code.Kind() {
	case diag.KindIO, diag.KindUnknown:
		return false
	}
	return true
}
