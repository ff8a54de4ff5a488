package toolbox

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// ErrLengthMismatch is returned when the inputs and targets lists passed to
// Train, Accuracy or DatasetLoss have different lengths.
var ErrLengthMismatch = errors.New("inputs and targets have different lengths")

// Gradients accumulates learning-rate-scaled parameter updates over one
// epoch.
type Gradients struct {
	OutputW *AF32     // Shape (Output.OutputSize(), Hidden.OutputSize())
	OutputB []float32 // Shape (Output.OutputSize())
	HiddenW *AF32     // Shape (Hidden.OutputSize(), InputSize)
	HiddenB []float32 // Shape (Hidden.OutputSize())

	// Per-example error signals, reused across Backprop calls.
	outputErr []float32
	hiddenErr []float32
}

func MakeGradients(net *Network) *Gradients {
	hiddenSize := net.Hidden.OutputSize()
	outputSize := net.Output.OutputSize()

	return &Gradients{
		OutputW:   MakeAF32(outputSize, hiddenSize),
		OutputB:   make([]float32, outputSize),
		HiddenW:   MakeAF32(hiddenSize, net.InputSize),
		HiddenB:   make([]float32, hiddenSize),
		outputErr: make([]float32, outputSize),
		hiddenErr: make([]float32, hiddenSize),
	}
}

// Reset zeroes every accumulator.
func (g *Gradients) Reset() {
	clear(g.OutputW.V)
	clear(g.OutputB)
	clear(g.HiddenW.V)
	clear(g.HiddenB)
}

// Backprop adds the updates for a single example to grads.  act must be the
// result of net.Forward(inputs) under the current weights.
//
// The output error signal is -(target - output), the derivative of the
// squared error, even though CalculateLoss reports cross-entropy.
func (net *Network) Backprop(inputs, targets []float32, act *Activations, learningRate float32, grads *Gradients) {
	hiddenSize := net.Hidden.OutputSize()

	for j, neuron := range net.Output.Neurons {
		o := act.Output[j]
		grads.outputErr[j] = -(targets[j] - o)

		delta := learningRate * grads.outputErr[j] * o * (1 - o)
		row := grads.OutputW.V[j*hiddenSize : j*hiddenSize+hiddenSize]
		for k := range neuron.Weights {
			row[k] += delta * act.Hidden[k]
		}
		grads.OutputB[j] += delta
	}

	// hiddenErr[i] = sum_k Output.Neurons[k].Weights[i] * outputErr[k]
	for i := range grads.hiddenErr {
		sum := float32(0)
		for k, neuron := range net.Output.Neurons {
			sum += neuron.Weights[i] * grads.outputErr[k]
		}
		grads.hiddenErr[i] = sum
	}

	switch net.HiddenGradients {
	case BackpropHidden:
		net.accumulateHidden(inputs, act, learningRate, grads)
	case NaNGatedHidden:
		net.accumulateHiddenNaNGated(inputs, act, learningRate, grads)
	default:
		panic("unhandled hidden gradient mode")
	}
}

func (net *Network) accumulateHidden(inputs []float32, act *Activations, learningRate float32, grads *Gradients) {
	inputSize := net.InputSize
	for j, neuron := range net.Hidden.Neurons {
		h := act.Hidden[j]
		delta := learningRate * grads.hiddenErr[j] * h * (1 - h)
		row := grads.HiddenW.V[j*inputSize : j*inputSize+inputSize]
		for k := range neuron.Weights {
			row[k] += delta * inputs[k]
		}
		grads.HiddenB[j] += delta
	}
}

func (net *Network) accumulateHiddenNaNGated(inputs []float32, act *Activations, learningRate float32, grads *Gradients) {
	anyNaN := false
	for _, e := range grads.hiddenErr {
		if math32.IsNaN(e) {
			anyNaN = true
			break
		}
	}
	if !anyNaN {
		return
	}

	inputSize := net.InputSize
	for j, neuron := range net.Hidden.Neurons {
		h := act.Hidden[j]
		delta := learningRate * grads.hiddenErr[j] * h * (1 - h)
		row := grads.HiddenW.V[j*inputSize : j*inputSize+inputSize]
		for k := range neuron.Weights {
			if update := delta * inputs[k]; math32.IsNaN(update) {
				row[k] += update
			}
		}
		grads.HiddenB[j] += delta
	}
}

// Apply takes one gradient descent step: every parameter is decreased by its
// accumulated update divided by numExamples.
func (net *Network) Apply(grads *Gradients, numExamples int) {
	n := float32(numExamples)

	hiddenSize := net.Hidden.OutputSize()
	for j, neuron := range net.Output.Neurons {
		for k := range neuron.Weights {
			neuron.Weights[k] -= grads.OutputW.V[j*hiddenSize+k] / n
		}
		neuron.Bias -= grads.OutputB[j] / n
	}

	inputSize := net.InputSize
	for j, neuron := range net.Hidden.Neurons {
		for k := range neuron.Weights {
			neuron.Weights[k] -= grads.HiddenW.V[j*inputSize+k] / n
		}
		neuron.Bias -= grads.HiddenB[j] / n
	}
}

// Train runs full-batch gradient descent for exactly epochs passes over
// inputsList.  targetsList[k] is the target for inputsList[k] and has one
// entry per output neuron.
//
// Mismatched list lengths return ErrLengthMismatch before any weight changes.
// An empty dataset or epochs <= 0 leaves the weights untouched.
func (net *Network) Train(inputsList, targetsList [][]float32, epochs int, learningRate float32) error {
	return net.TrainFunc(inputsList, targetsList, epochs, learningRate, nil)
}

// TrainFunc is Train, calling afterEpoch (if non-nil) once each epoch's update
// has been applied.
func (net *Network) TrainFunc(inputsList, targetsList [][]float32, epochs int, learningRate float32, afterEpoch func(epoch int)) error {
	if len(inputsList) != len(targetsList) {
		return fmt.Errorf("%w: %d inputs, %d targets", ErrLengthMismatch, len(inputsList), len(targetsList))
	}
	if len(inputsList) == 0 {
		return nil
	}

	grads := MakeGradients(net)
	act := makeActivations(net)

	for epoch := 0; epoch < epochs; epoch++ {
		grads.Reset()

		for k := range inputsList {
			net.forwardInto(inputsList[k], act)
			net.Backprop(inputsList[k], targetsList[k], act, learningRate, grads)
		}

		net.Apply(grads, len(inputsList))

		if afterEpoch != nil {
			afterEpoch(epoch)
		}
	}

	return nil
}
