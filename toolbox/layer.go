package toolbox

import (
	"fmt"
	"math/rand"
)

// Layer is an ordered set of neurons that all read the same input vector.
type Layer struct {
	Neurons []*Neuron

	InputSize int // len(Neurons[i].Weights) for every i
}

func MakeLayer(numNeurons, inputSize int, r *rand.Rand) *Layer {
	if numNeurons <= 0 {
		panic("invalid layer size")
	}

	l := &Layer{
		Neurons:   make([]*Neuron, numNeurons),
		InputSize: inputSize,
	}
	for i := range l.Neurons {
		l.Neurons[i] = MakeNeuron(inputSize, r)
	}

	return l
}

// OutputSize is the number of neurons, which is also the length of the slice
// FeedForward returns.
func (l *Layer) OutputSize() int {
	return len(l.Neurons)
}

// FeedForward evaluates every neuron on inputs and returns the outputs in
// neuron order.
func (l *Layer) FeedForward(inputs []float32) []float32 {
	return l.feedForwardInto(inputs, make([]float32, len(l.Neurons)))
}

// feedForwardInto is FeedForward writing into caller-owned storage.  It
// panics unless len(inputs) == InputSize.
func (l *Layer) feedForwardInto(inputs, out []float32) []float32 {
	if len(inputs) != l.InputSize {
		panic(fmt.Sprintf("layer expects %d inputs, got %d", l.InputSize, len(inputs)))
	}
	for i, n := range l.Neurons {
		out[i] = n.CalculateOutput(inputs)
	}
	return out
}
