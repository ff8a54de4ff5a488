package toolbox

import (
	"fmt"

	"github.com/chewxy/math32"
)

// CalculateLoss is the binary cross-entropy averaged over the paired entries
// of actual and predicted.
//
// Every predicted[i] must lie strictly inside (0, 1).  A prediction of exactly
// 0 or 1 yields +Inf or NaN; callers that care must check with math32.IsInf
// and math32.IsNaN.
//
// Train does not use this loss.  Its updates follow the MeanSquaredError
// gradient.
func CalculateLoss(actual, predicted []float32) float32 {
	loss := float32(0)
	for i := range actual {
		loss -= actual[i]*math32.Log(predicted[i]) + (1-actual[i])*math32.Log(1-predicted[i])
	}
	return loss / float32(len(actual))
}

// MeanSquaredError is (1/2n) * sum_i (predicted[i]-actual[i])^2, the loss
// whose gradient Train descends.
func MeanSquaredError(actual, predicted []float32) float32 {
	loss := float32(0)
	for i := range actual {
		diff := predicted[i] - actual[i]
		loss += diff * diff / 2 / float32(len(actual))
	}
	return loss
}

// DatasetLoss averages lossFn(targets[k], net.Predict(inputs[k])) over every
// example.  An empty dataset has loss 0.
func DatasetLoss(net *Network, inputsList, targetsList [][]float32, lossFn func(actual, predicted []float32) float32) (float32, error) {
	if len(inputsList) != len(targetsList) {
		return 0, fmt.Errorf("%w: %d inputs, %d targets", ErrLengthMismatch, len(inputsList), len(targetsList))
	}
	if len(inputsList) == 0 {
		return 0, nil
	}

	act := makeActivations(net)
	total := float32(0)
	for k := range inputsList {
		net.forwardInto(inputsList[k], act)
		total += lossFn(targetsList[k], act.Output)
	}
	return total / float32(len(inputsList)), nil
}
