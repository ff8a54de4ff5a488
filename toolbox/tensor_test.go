package toolbox

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRowsShareStorage(t *testing.T) {
	a := MakeAF32(3, 2)
	for k := 0; k < 3; k++ {
		a.Set2(k, 0, float32(k))
		a.Set2(k, 1, float32(10*k))
	}

	rows := a.Rows()
	want := [][]float32{{0, 0}, {1, 10}, {2, 20}}
	if diff := cmp.Diff(rows, want); diff != "" {
		t.Fatalf("Wrong rows; diff (-got +want)\n%s", diff)
	}

	rows[1][1] = 99
	if got := a.At2(1, 1); got != 99 {
		t.Errorf("At2(1, 1) = %v after writing through Rows, want 99", got)
	}

	// Appending to a row must not overwrite the next one.
	_ = append(rows[0], 42)
	if got := a.At2(1, 0); got != 1 {
		t.Errorf("At2(1, 0) = %v after append, want 1", got)
	}
}

func TestAF32Slice(t *testing.T) {
	a := MakeAF32(4, 1)
	for k := 0; k < 4; k++ {
		a.Set2(k, 0, float32(k))
	}

	head := AF32Slice(a, 0, 3)
	tail := AF32Slice(a, 3, 4)

	if diff := cmp.Diff(head.Shape, []int{3, 1}); diff != "" {
		t.Errorf("Wrong head shape; diff (-got +want)\n%s", diff)
	}
	if diff := cmp.Diff(tail.V, []float32{3}); diff != "" {
		t.Errorf("Wrong tail values; diff (-got +want)\n%s", diff)
	}
}

func TestMakeAF32RejectsEmptyShape(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("MakeAF32(0, 2) did not panic")
		}
	}()
	MakeAF32(0, 2)
}
