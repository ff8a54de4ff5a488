package toolbox

// dot computes sum_i w[i]*x[i] over the indices of w.
//
// The default build uses dotGeneric.  Building with -tags rainnet_asm on amd64
// switches to an AVX/FMA kernel; generate it first with
//
//   go generate ./toolbox/

//go:generate go run ./asm-generators/neuron-dot -out neuron_dot_amd64.s -stubs neuron_dot_stub_amd64.go -pkg toolbox

func dotGeneric(w, x []float32) float32 {
	var sum float32
	for i := range w {
		sum += w[i] * x[i]
	}
	return sum
}
