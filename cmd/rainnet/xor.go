package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"

	"github.com/ahmedtd/rainnet/toolbox"
	"github.com/google/subcommands"
)

type XORCommand struct {
	hidden       int
	epochs       int
	learningRate float64
	seed         int64
}

var _ subcommands.Command = (*XORCommand)(nil)

func (*XORCommand) Name() string {
	return "xor"
}

func (*XORCommand) Synopsis() string {
	return "Train on XOR as a smoke test of backpropagation"
}

func (*XORCommand) Usage() string {
	return ``
}

func (c *XORCommand) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.hidden, "hidden", 8, "Number of hidden neurons")
	f.IntVar(&c.epochs, "epochs", 2000, "Number of full passes over the four examples")
	f.Float64Var(&c.learningRate, "learning-rate", 0.6, "Gradient descent step scale")
	f.Int64Var(&c.seed, "seed", 12345, "Weight initialization seed")
}

func (c *XORCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.executeErr(ctx); err != nil {
		log.Printf("Error: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *XORCommand) executeErr(ctx context.Context) error {
	if c.hidden <= 0 || c.epochs <= 0 || c.learningRate <= 0 {
		return fmt.Errorf("--hidden, --epochs and --learning-rate must be positive")
	}

	inputs := [][]float32{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	targets := [][]float32{{0}, {1}, {1}, {0}}

	net := toolbox.MakeNetwork(2, c.hidden, 1, rand.New(rand.NewSource(c.seed)))
	if err := net.Train(inputs, targets, c.epochs, float32(c.learningRate)); err != nil {
		return fmt.Errorf("while training: %w", err)
	}

	for k, x := range inputs {
		log.Printf("xor(%v, %v) want=%v got=%.4f", x[0], x[1], targets[k][0], net.Predict(x)[0])
	}
	loss, err := toolbox.DatasetLoss(net, inputs, targets, toolbox.CalculateLoss)
	if err != nil {
		return fmt.Errorf("while computing loss: %w", err)
	}
	log.Printf("loss=%f", loss)

	return nil
}
