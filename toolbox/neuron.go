package toolbox

import (
	"math/rand"

	"github.com/chewxy/math32"
)

// Neuron is a single sigmoid unit.  len(Weights) is the number of inputs
// feeding it and is fixed at construction.
type Neuron struct {
	Weights []float32
	Bias    float32
}

// MakeNeuron draws every weight and the bias independently from [0, 1).
func MakeNeuron(inputSize int, r *rand.Rand) *Neuron {
	if inputSize <= 0 {
		panic("invalid neuron input size")
	}

	n := &Neuron{
		Weights: make([]float32, inputSize),
	}
	for i := range n.Weights {
		n.Weights[i] = r.Float32()
	}
	n.Bias = r.Float32()

	return n
}

// CalculateOutput returns sigmoid(Bias + sum_i Weights[i]*inputs[i]).
//
// inputs must have exactly len(n.Weights) entries.  Any other length is
// undefined behaviour.
func (n *Neuron) CalculateOutput(inputs []float32) float32 {
	return Sigmoid(n.Bias + dot(n.Weights, inputs))
}

// Sigmoid computes 1/(1+e^-z).  Very negative z saturates to 0.
func Sigmoid(z float32) float32 {
	return 1 / (1 + math32.Exp(-z))
}
