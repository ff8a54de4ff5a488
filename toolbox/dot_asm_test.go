//go:build rainnet_asm && amd64

package toolbox

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
)

func TestDotKernelMatchesGeneric(t *testing.T) {
	r := rand.New(rand.NewSource(12345))

	// Covers the empty case, tail-only lengths, and whole blocks plus tails.
	for n := 0; n < 80; n++ {
		w := make([]float32, n)
		x := make([]float32, n)
		for i := range w {
			w[i] = r.Float32()*2 - 1
			x[i] = r.Float32()*2 - 1
		}

		got := dot(w, x)
		want := dotGeneric(w, x)
		if math32.Abs(got-want) > 1e-4 {
			t.Errorf("n=%d dot = %v, dotGeneric = %v", n, got, want)
		}
	}
}

func TestDotKernelReadsOnlyLenW(t *testing.T) {
	w := []float32{1, 2, 3}
	x := []float32{1, 1, 1, 100, 100}
	if got := dot(w, x); got != 6 {
		t.Errorf("dot = %v, want 6", got)
	}
}
