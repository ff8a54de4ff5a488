package toolbox

import (
	"fmt"
	"math/rand"
)

// HiddenGradientMode selects how Train accumulates hidden-layer gradients.
type HiddenGradientMode int

const (
	// BackpropHidden applies the backpropagated hidden-layer gradients.
	BackpropHidden HiddenGradientMode = iota

	// NaNGatedHidden only accumulates hidden gradients when some hidden error
	// is NaN, and each hidden weight only accumulates updates that are
	// themselves NaN.  With finite weights the hidden layer never changes.
	// Kept to reproduce models trained with that guard.
	NaNGatedHidden
)

func (m HiddenGradientMode) String() string {
	switch m {
	case BackpropHidden:
		return "backprop"
	case NaNGatedHidden:
		return "nan-gated"
	default:
		return fmt.Sprintf("HiddenGradientMode(%d)", int(m))
	}
}

// Network is a 2-layer sigmoid perceptron: InputSize inputs, one hidden layer
// and one output layer.
//
// Predict and Forward only read the weights and may be called concurrently.
// Train writes them, so it must not overlap any other call on the same
// Network.
type Network struct {
	InputSize int

	Hidden *Layer // len(Hidden.Neurons[i].Weights) == InputSize
	Output *Layer // len(Output.Neurons[i].Weights) == Hidden.OutputSize()

	HiddenGradients HiddenGradientMode
}

// MakeNetwork builds a network with every weight and bias drawn uniformly from
// [0, 1).
func MakeNetwork(numInputs, numHidden, numOutputs int, r *rand.Rand) *Network {
	if numInputs <= 0 || numHidden <= 0 || numOutputs <= 0 {
		panic(fmt.Sprintf("invalid topology: %d-%d-%d", numInputs, numHidden, numOutputs))
	}

	return &Network{
		InputSize: numInputs,
		Hidden:    MakeLayer(numHidden, numInputs, r),
		Output:    MakeLayer(numOutputs, numHidden, r),
	}
}

// Activations holds the layer outputs of a single forward pass.  Backprop
// reads it instead of any state stored on the neurons.
type Activations struct {
	Hidden []float32 // Shape (Hidden.OutputSize())
	Output []float32 // Shape (Output.OutputSize())
}

func makeActivations(net *Network) *Activations {
	return &Activations{
		Hidden: make([]float32, net.Hidden.OutputSize()),
		Output: make([]float32, net.Output.OutputSize()),
	}
}

// Forward runs inputs through the hidden and output layers.  inputs must have
// InputSize entries.
func (net *Network) Forward(inputs []float32) *Activations {
	act := makeActivations(net)
	net.forwardInto(inputs, act)
	return act
}

func (net *Network) forwardInto(inputs []float32, act *Activations) {
	net.Hidden.feedForwardInto(inputs, act.Hidden)
	net.Output.feedForwardInto(act.Hidden, act.Output)
}

// Predict returns the output layer's activations for inputs.
func (net *Network) Predict(inputs []float32) []float32 {
	return net.Forward(inputs).Output
}

// Accuracy returns the percentage of examples whose first output, rounded to
// 0 or 1, equals the first target.
func Accuracy(net *Network, inputsList, targetsList [][]float32) (float32, error) {
	if len(inputsList) != len(targetsList) {
		return 0, fmt.Errorf("%w: %d inputs, %d targets", ErrLengthMismatch, len(inputsList), len(targetsList))
	}
	if len(inputsList) == 0 {
		return 0, nil
	}

	act := makeActivations(net)
	correct := 0
	for k := range inputsList {
		net.forwardInto(inputsList[k], act)
		prediction := float32(0)
		if act.Output[0] >= 0.5 {
			prediction = 1
		}
		if prediction == targetsList[k][0] {
			correct++
		}
	}

	return float32(correct) / float32(len(inputsList)) * 100, nil
}
