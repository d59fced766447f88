package diag_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"paxy/internal/diag"
	"paxy/internal/source"
)

func TestCodeKinds(t *testing.T) {
	cases := []struct {
		code diag.Code
		tag  string
	}{
		{diag.SynUnknownMnemonic, "SyntaxError"},
		{diag.StructUnmatchedEnd, "StructureError"},
		{diag.NameUndeclaredVariable, "NameError"},
		{diag.DupLabel, "DuplicateDefinitionError"},
		{diag.ArityMismatch, "ArityError"},
		{diag.LabelUnresolved, "UnresolvedLabelError"},
		{diag.InternalJoinDepth, "InternalInvariantError"},
	}
	for _, tc := range cases {
		if got := tc.code.Kind().String(); got != tc.tag {
			t.Errorf("%s: kind %s, want %s", tc.code.ID(), got, tc.tag)
		}
	}
	if diag.ArityMismatch.ID() != "PX5001" {
		t.Fatalf("ID = %s", diag.ArityMismatch.ID())
	}
}

func TestErrorMessageAndUnwrap(t *testing.T) {
	e := diag.Errorf(diag.ArityMismatch, source.Span{}, 7, "add expects %d arguments, got %d", 2, 1).At("GOS", "add")
	msg := e.Error()
	for _, want := range []string{"line 7", "ArityError", "GOS", "expects 2", `"add"`} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
	wrapped := fmt.Errorf("compile main.px: %w", e)
	if diag.KindOf(wrapped) != diag.KindArity {
		t.Fatalf("KindOf(wrapped) = %v", diag.KindOf(wrapped))
	}
	if diag.KindOf(errors.New("plain")) != diag.KindUnknown {
		t.Fatal("plain errors have no kind")
	}
}

func TestBagSortDedupLimit(t *testing.T) {
	bag := diag.NewBag(3)
	d1 := diag.NewError(diag.NameUndeclaredVariable, source.Span{File: 1, Start: 5, End: 6}, "x")
	d2 := diag.NewError(diag.SynBadNumber, source.Span{File: 0, Start: 9, End: 10}, "y")
	bag.Add(d1)
	bag.Add(d2)
	bag.Add(d1)
	if bag.Add(d2) {
		t.Fatal("limit not enforced")
	}
	bag.Sort()
	bag.Dedup()
	items := bag.Items()
	if len(items) != 2 || items[0].Code != diag.SynBadNumber {
		t.Fatalf("unexpected items: %+v", items)
	}
	if !bag.HasErrors() {
		t.Fatal("HasErrors = false")
	}
}

func TestBagReporter(t *testing.T) {
	bag := diag.NewBag(0)
	r := &diag.BagReporter{Bag: bag}
	diag.ReportError(r, diag.Errorf(diag.DupLabel, source.Span{}, 3, "label top defined twice"))
	if bag.Len() != 1 || bag.Items()[0].Code != diag.DupLabel {
		t.Fatalf("reporter did not record: %+v", bag.Items())
	}
}
