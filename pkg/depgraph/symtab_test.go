package depgraph

import "testing"

func TestSymbolTableInternIsStable(t *testing.T) {
	tab := newSymbolTable()

	a := tab.intern("a.h")
	b := tab.intern("b.h")
	aAgain := tab.intern("a.h")

	if a != aAgain {
		t.Fatalf("expected stable id for repeated intern, got %d then %d", a, aAgain)
	}

	if a == b {
		t.Fatalf("expected distinct ids for distinct strings")
	}

	if tab.resolve(a) != "a.h" || tab.resolve(b) != "b.h" {
		t.Fatalf("resolve mismatch")
	}

	if tab.size() != 2 {
		t.Fatalf("expected size 2, got %d", tab.size())
	}
}
