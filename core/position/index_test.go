package position

import (
	"errors"
	"math/rand"
	"testing"

	apperrors "github.com/FocuswithJustin/annodex/core/errors"
)

// "This is a test ." as base units.
var sentenceUnits = []Range{{0, 4}, {5, 7}, {8, 9}, {10, 14}, {15, 16}}

func mustIndex(t *testing.T, units []Range) *Index {
	t.Helper()
	x, err := New(units)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return x
}

func TestNewDensePositions(t *testing.T) {
	x := mustIndex(t, sentenceUnits)
	if x.Len() != len(sentenceUnits) {
		t.Fatalf("Len() = %d, want %d", x.Len(), len(sentenceUnits))
	}
	for i, u := range sentenceUnits {
		p0, p1, ok := x.Resolve(u.Begin, u.End)
		if !ok || p0 != i || p1 != i {
			t.Errorf("Resolve(unit %d) = (%d, %d, %v), want (%d, %d, true)", i, p0, p1, ok, i, i)
		}
		if x.Unit(i) != u {
			t.Errorf("Unit(%d) = %v, want %v", i, x.Unit(i), u)
		}
	}
}

func TestNewSortsUnsortedInput(t *testing.T) {
	units := []Range{{8, 9}, {0, 4}, {5, 7}}
	x := mustIndex(t, units)
	want := []Range{{0, 4}, {5, 7}, {8, 9}}
	for i := range want {
		if x.Unit(i) != want[i] {
			t.Errorf("Unit(%d) = %v, want %v", i, x.Unit(i), want[i])
		}
	}
	if units[0] != (Range{8, 9}) {
		t.Error("New() modified its input")
	}
}

func TestNewMalformed(t *testing.T) {
	tests := []struct {
		name   string
		units  []Range
		index  int
		reason string
	}{
		{"overlap", []Range{{0, 4}, {3, 8}}, 1, "overlap"},
		{"duplicate", []Range{{0, 4}, {0, 4}}, 1, "overlap"},
		{"nested", []Range{{0, 10}, {2, 3}}, 1, "overlap"},
		{"empty", []Range{{0, 4}, {4, 4}}, 1, "empty"},
		{"reversed", []Range{{5, 2}}, 0, "empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.units)
			if !errors.Is(err, apperrors.ErrMalformedSegmentation) {
				t.Fatalf("New() error = %v, want ErrMalformedSegmentation", err)
			}
			var se *apperrors.SegmentationError
			if !errors.As(err, &se) {
				t.Fatalf("error type = %T, want *SegmentationError", err)
			}
			if se.Index != tt.index {
				t.Errorf("Index = %d, want %d", se.Index, tt.index)
			}
			if se.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", se.Reason, tt.reason)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	x := mustIndex(t, sentenceUnits)

	tests := []struct {
		name       string
		begin, end int
		p0, p1     int
		degenerate bool
	}{
		{"whole sentence", 0, 16, 0, 4, false},
		{"two units", 5, 9, 1, 2, false},
		{"partial overlap", 2, 6, 0, 1, false},
		{"inside one unit", 11, 13, 3, 3, false},
		{"gap only", 4, 5, 0, 0, true},
		{"gap between later units", 9, 10, 2, 2, true},
		{"past the end", 20, 25, 4, 4, true},
		{"zero width inside", 6, 6, 1, 1, false},
		{"zero width at unit start", 5, 5, 1, 1, false},
		{"zero width at unit end", 4, 4, 0, 0, true},
		{"zero width at text start", 0, 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p0, p1, ok := x.Resolve(tt.begin, tt.end)
			if !ok {
				t.Fatal("ok = false, want true")
			}
			if p0 != tt.p0 || p1 != tt.p1 {
				t.Errorf("Resolve(%d, %d) = [%d, %d], want [%d, %d]", tt.begin, tt.end, p0, p1, tt.p0, tt.p1)
			}
			if got := x.Degenerate(tt.begin, tt.end); got != tt.degenerate {
				t.Errorf("Degenerate(%d, %d) = %v, want %v", tt.begin, tt.end, got, tt.degenerate)
			}
		})
	}
}

func TestResolveBeforeFirstUnit(t *testing.T) {
	x := mustIndex(t, []Range{{3, 5}, {6, 8}})
	p0, p1, ok := x.Resolve(0, 2)
	if !ok || p0 != 0 || p1 != 0 {
		t.Errorf("Resolve(0, 2) = (%d, %d, %v), want (0, 0, true)", p0, p1, ok)
	}
	if !x.Degenerate(0, 2) {
		t.Error("Degenerate(0, 2) = false, want true")
	}
}

func TestResolveEmptyIndex(t *testing.T) {
	x := mustIndex(t, nil)
	if x.Len() != 0 {
		t.Errorf("Len() = %d, want 0", x.Len())
	}
	if _, _, ok := x.Resolve(0, 3); ok {
		t.Error("Resolve() ok = true on empty index, want false")
	}
}

func TestResolveBounds(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	var units []Range
	pos := 0
	for i := 0; i < 200; i++ {
		pos += r.Intn(3)
		n := 1 + r.Intn(6)
		units = append(units, Range{pos, pos + n})
		pos += n
	}
	x := mustIndex(t, units)

	for i := 0; i < 2000; i++ {
		b := r.Intn(pos + 5)
		e := b + r.Intn(30)
		p0, p1, ok := x.Resolve(b, e)
		if !ok {
			t.Fatalf("Resolve(%d, %d) ok = false", b, e)
		}
		if p0 < 0 || p0 > p1 || p1 >= x.Len() {
			t.Fatalf("Resolve(%d, %d) = [%d, %d], out of bounds for %d units", b, e, p0, p1, x.Len())
		}
	}
}
