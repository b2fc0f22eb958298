package diag

import (
	"errors"
	"testing"

	"weft/internal/source"
)

func TestBagCap(t *testing.T) {
	b := NewBag(2)
	if !b.Add(NewError(ResArityMismatch, source.Span{}, "one")) {
		t.Fatalf("first add must fit")
	}
	if !b.Add(NewError(ResArityMismatch, source.Span{}, "two")) {
		t.Fatalf("second add must fit")
	}
	if b.Add(NewError(ResArityMismatch, source.Span{}, "three")) {
		t.Fatalf("cap must reject the third diagnostic")
	}
	if b.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", b.Len())
	}
}

func TestBagAddError(t *testing.T) {
	b := NewBag(4)
	b.AddError(Errorf(ResAttributeNotFound, source.Span{Start: 1, End: 2}, "no attribute %q", "gate"))
	b.AddError(errors.New("plumbing broke"))
	items := b.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Code != ResAttributeNotFound {
		t.Fatalf("diag error must keep its code, got %v", items[0].Code)
	}
	if items[1].Code != UnknownCode {
		t.Fatalf("plain errors fold under UnknownCode, got %v", items[1].Code)
	}
}

func TestReporters(t *testing.T) {
	b := NewBag(4)
	var rep Reporter = BagReporter{Bag: b}
	rep.Report(ResAttributeNotFound, SevError, source.Span{}, "missing", nil)
	if b.Len() != 1 || b.Items()[0].Code != ResAttributeNotFound {
		t.Fatalf("bag reporter must forward the diagnostic")
	}
	BagReporter{}.Report(ResAttributeNotFound, SevError, source.Span{}, "dropped", nil)
	NopReporter{}.Report(ResAttributeNotFound, SevError, source.Span{}, "dropped", nil)
	if b.Len() != 1 {
		t.Fatalf("nil-bag and nop reporters must not touch the bag")
	}
}

func TestBagSortDeterministic(t *testing.T) {
	b := NewBag(8)
	b.Add(NewError(ResSchemaMismatch, source.Span{File: 1, Start: 9, End: 10}, "later"))
	b.Add(NewError(ResArityMismatch, source.Span{File: 0, Start: 3, End: 4}, "earlier"))
	b.Sort()
	if b.Items()[0].Message != "earlier" {
		t.Fatalf("sort must order by file then offset")
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		ResUnrepresentableValue: "RES1001",
		HostEqualityError:       "HOST2002",
		IOLoadFileError:         "IO4001",
		UnknownCode:             "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Fatalf("ID(%d) = %q, want %q", code, got, want)
		}
	}
}
