package logfields

import (
	"errors"
	"testing"
)

func TestHelpers(t *testing.T) {
	if a := Kind("figure"); a.Key != KeyKind || a.Value.String() != "figure" {
		t.Fatalf("unexpected attr: %v", a)
	}
	if a := Number(3); a.Key != KeyNumber || a.Value.Int64() != 3 {
		t.Fatalf("unexpected attr: %v", a)
	}
	if a := Count(2); a.Key != KeyCount || a.Value.Int64() != 2 {
		t.Fatalf("unexpected attr: %v", a)
	}
	if a := Error(nil); a.Value.String() != "" {
		t.Fatalf("nil error should be empty, got %q", a.Value.String())
	}
	if a := Error(errors.New("x")); a.Value.String() != "x" {
		t.Fatalf("unexpected error attr: %v", a)
	}
}
