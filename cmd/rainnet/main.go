// Command rainnet trains a small sigmoid network to predict rain from hourly
// temperature and relative humidity.
//
// To train on an Open-Meteo export:
//
//	go run ./cmd/rainnet train --data-file=data/data-last-year.json
//
// To check the network can learn XOR:
//
//	go run ./cmd/rainnet xor
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"runtime/pprof"
	"time"

	"github.com/ahmedtd/rainnet/toolbox"
	"github.com/ahmedtd/rainnet/weather"
	"github.com/chewxy/math32"
	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&TrainCommand{}, "")
	subcommands.Register(&XORCommand{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}

type TrainCommand struct {
	dataFile      string
	hidden        int
	epochs        int
	learningRate  float64
	trainFraction float64
	seed          int64
	logEvery      int

	nanGatedHidden bool

	todayTemp     float64
	todayHumidity float64

	cpuProfileFile string
}

var _ subcommands.Command = (*TrainCommand)(nil)

func (*TrainCommand) Name() string {
	return "train"
}

func (*TrainCommand) Synopsis() string {
	return "Train the rain predictor and report test accuracy"
}

func (*TrainCommand) Usage() string {
	return `train [flags]
`
}

func (c *TrainCommand) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dataFile, "data-file", "data/data-last-year.json", "Path to the hourly weather data (.json Open-Meteo export or .npz)")
	f.IntVar(&c.hidden, "hidden", 2, "Number of hidden neurons")
	f.IntVar(&c.epochs, "epochs", 100, "Number of full passes over the training set")
	f.Float64Var(&c.learningRate, "learning-rate", 0.9, "Gradient descent step scale")
	f.Float64Var(&c.trainFraction, "train-fraction", 0.8, "Leading fraction of the hours used for training; the rest are for testing")
	f.Int64Var(&c.seed, "seed", 0, "Weight initialization seed (0 picks one from the clock)")
	f.IntVar(&c.logEvery, "log-every", 0, "Log the training loss every N epochs (0 disables)")

	f.BoolVar(&c.nanGatedHidden, "nan-gated-hidden", false, "Only accumulate hidden-layer updates that are NaN (leaves the hidden layer untrained)")

	f.Float64Var(&c.todayTemp, "today-temp", 21, "Today's temperature (°C) to predict for")
	f.Float64Var(&c.todayHumidity, "today-humidity", 44, "Today's relative humidity (%) to predict for")

	f.StringVar(&c.cpuProfileFile, "cpu-profile", "", "Write a CPU profile")
}

func (c *TrainCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.executeErr(ctx); err != nil {
		log.Printf("Error: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *TrainCommand) validate() error {
	if c.hidden <= 0 {
		return fmt.Errorf("--hidden must be positive, got %d", c.hidden)
	}
	if c.epochs <= 0 {
		return fmt.Errorf("--epochs must be positive, got %d", c.epochs)
	}
	if c.learningRate <= 0 {
		return fmt.Errorf("--learning-rate must be positive, got %v", c.learningRate)
	}
	if c.trainFraction <= 0 || c.trainFraction >= 1 {
		return fmt.Errorf("--train-fraction must be in (0, 1), got %v", c.trainFraction)
	}
	if c.logEvery < 0 {
		return fmt.Errorf("--log-every must not be negative, got %d", c.logEvery)
	}
	return nil
}

func (c *TrainCommand) executeErr(ctx context.Context) error {
	if err := c.validate(); err != nil {
		return err
	}

	if c.cpuProfileFile != "" {
		f, err := os.Create(c.cpuProfileFile)
		if err != nil {
			return fmt.Errorf("while creating CPU profile file: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("while starting CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	obs, err := weather.Load(c.dataFile)
	if err != nil {
		return fmt.Errorf("while loading weather data: %w", err)
	}

	ds, err := weather.BuildDataset(obs)
	if err != nil {
		return fmt.Errorf("while building dataset: %w", err)
	}
	log.Printf("Data loaded: hours=%d temp-mean=%.2f temp-stddev=%.2f humidity-mean=%.2f humidity-stddev=%.2f",
		ds.Len(), ds.Temperature.Mean, ds.Temperature.StdDev, ds.Humidity.Mean, ds.Humidity.StdDev)

	train, test, err := ds.Split(c.trainFraction)
	if err != nil {
		return fmt.Errorf("while splitting dataset: %w", err)
	}

	net := toolbox.MakeNetwork(2, c.hidden, 1, rand.New(rand.NewSource(c.seedOrNow())))
	if c.nanGatedHidden {
		net.HiddenGradients = toolbox.NaNGatedHidden
	}

	log.Printf("Parameters: train-hours=%d test-hours=%d hidden=%d epochs=%d learning-rate=%v hidden-gradients=%v",
		train.Len(), test.Len(), c.hidden, c.epochs, c.learningRate, net.HiddenGradients)

	start := time.Now()
	trainInputs, trainTargets := train.Inputs(), train.Targets()
	err = net.TrainFunc(trainInputs, trainTargets, c.epochs, float32(c.learningRate), func(epoch int) {
		if c.logEvery == 0 || epoch%c.logEvery != 0 {
			return
		}
		loss, mse, err := datasetLosses(net, trainInputs, trainTargets)
		if err != nil {
			log.Printf("epoch %d: %v", epoch, err)
			return
		}
		log.Printf("epoch %d training-loss=%f training-mse=%f", epoch, loss, mse)
	})
	if err != nil {
		return fmt.Errorf("while training: %w", err)
	}
	log.Printf("Trained in %.1fs", time.Since(start).Seconds())

	testInputs, testTargets := test.Inputs(), test.Targets()
	accuracy, err := toolbox.Accuracy(net, testInputs, testTargets)
	if err != nil {
		return fmt.Errorf("while scoring test set: %w", err)
	}
	testLoss, testMSE, err := datasetLosses(net, testInputs, testTargets)
	if err != nil {
		return fmt.Errorf("while scoring test set: %w", err)
	}
	if math32.IsNaN(testLoss) || math32.IsInf(testLoss, 0) {
		log.Printf("Warning: test cross-entropy is not finite (%v); some predictions saturated to 0 or 1", testLoss)
	}
	log.Printf("Results: accuracy=%.2f%% testing-loss=%f testing-mse=%f",
		weather.Round2(float64(accuracy)), testLoss, testMSE)

	today := ds.Features(c.todayTemp, c.todayHumidity)
	prediction := net.Predict(today)[0]
	rain := 0
	if prediction >= 0.5 {
		rain = 1
	}
	log.Printf("Today: temp=%v temp-normalized=%v humidity=%v humidity-normalized=%v prediction=%d (p=%.3f)",
		c.todayTemp, today[0], c.todayHumidity, today[1], rain, prediction)

	return nil
}

// datasetLosses returns the cross-entropy and mean squared error over a
// dataset.
func datasetLosses(net *toolbox.Network, inputs, targets [][]float32) (loss, mse float32, err error) {
	loss, err = toolbox.DatasetLoss(net, inputs, targets, toolbox.CalculateLoss)
	if err != nil {
		return 0, 0, err
	}
	mse, err = toolbox.DatasetLoss(net, inputs, targets, toolbox.MeanSquaredError)
	if err != nil {
		return 0, 0, err
	}
	return loss, mse, nil
}

func (c *TrainCommand) seedOrNow() int64 {
	if c.seed != 0 {
		return c.seed
	}
	return time.Now().UnixNano()
}
