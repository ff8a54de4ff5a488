package weather

import (
	"errors"
	"fmt"
	"math"

	"github.com/ahmedtd/rainnet/toolbox"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrConstantSeries is returned when a feature has zero standard deviation
// and so cannot be normalized.
var ErrConstantSeries = errors.New("series has zero standard deviation")

// Round2 rounds to 2 decimal places, halves rounding up.
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

// Scaler maps raw readings to standard scores.
type Scaler struct {
	Mean   float64
	StdDev float64 // population standard deviation, rounded to 2 places
}

// FitScaler computes the mean and rounded population standard deviation of xs.
func FitScaler(xs []float64) Scaler {
	return Scaler{
		Mean:   stat.Mean(xs, nil),
		StdDev: Round2(math.Sqrt(stat.PopVariance(xs, nil))),
	}
}

// Apply returns (x-Mean)/StdDev rounded to 2 places.
func (s Scaler) Apply(x float64) float64 {
	return Round2((x - s.Mean) / s.StdDev)
}

// Normalize fits a Scaler to xs and returns the scaled copy of xs.
func Normalize(xs []float64) ([]float64, Scaler) {
	s := FitScaler(xs)

	out := make([]float64, len(xs))
	copy(out, xs)
	floats.AddConst(-s.Mean, out)
	for i := range out {
		out[i] = Round2(out[i] / s.StdDev)
	}

	return out, s
}

// DidItRain is 1 for any positive rainfall and 0 otherwise.
func DidItRain(mm float64) float32 {
	if mm > 0 {
		return 1
	}
	return 0
}

// Dataset is a normalized feature matrix with binary rain targets.
type Dataset struct {
	X *toolbox.AF32 // Shape (n, 2): temperature, humidity
	Y *toolbox.AF32 // Shape (n, 1)

	Temperature Scaler
	Humidity    Scaler
}

// BuildDataset normalizes temperature and humidity independently and pairs
// each hour's features with whether it rained.
func BuildDataset(obs *Observations) (*Dataset, error) {
	if err := obs.Validate(); err != nil {
		return nil, err
	}

	temp, tempScaler := Normalize(obs.Temperature)
	if tempScaler.StdDev == 0 {
		return nil, fmt.Errorf("while normalizing temperature: %w", ErrConstantSeries)
	}
	hum, humScaler := Normalize(obs.Humidity)
	if humScaler.StdDev == 0 {
		return nil, fmt.Errorf("while normalizing humidity: %w", ErrConstantSeries)
	}

	n := obs.Len()
	ds := &Dataset{
		X:           toolbox.MakeAF32(n, 2),
		Y:           toolbox.MakeAF32(n, 1),
		Temperature: tempScaler,
		Humidity:    humScaler,
	}
	for k := 0; k < n; k++ {
		ds.X.Set2(k, 0, float32(temp[k]))
		ds.X.Set2(k, 1, float32(hum[k]))
		ds.Y.Set2(k, 0, DidItRain(obs.Rain[k]))
	}

	return ds, nil
}

func (ds *Dataset) Len() int {
	return ds.X.Shape[0]
}

// Inputs returns one feature vector per hour.  Storage is shared with X.
func (ds *Dataset) Inputs() [][]float32 {
	return ds.X.Rows()
}

// Targets returns one single-element target vector per hour.  Storage is
// shared with Y.
func (ds *Dataset) Targets() [][]float32 {
	return ds.Y.Rows()
}

// Features normalizes a raw reading with the dataset's scalers.
func (ds *Dataset) Features(temperature, humidity float64) []float32 {
	return []float32{
		float32(ds.Temperature.Apply(temperature)),
		float32(ds.Humidity.Apply(humidity)),
	}
}

// Split keeps the first floor(fraction*n) hours for training and the rest for
// testing.  Order is preserved; both halves share storage with ds.
func (ds *Dataset) Split(fraction float64) (train, test *Dataset, err error) {
	if fraction < 0 || fraction > 1 || math.IsNaN(fraction) {
		return nil, nil, fmt.Errorf("split fraction %v outside [0, 1]", fraction)
	}

	n := ds.Len()
	cut := int(math.Floor(fraction * float64(n)))

	train = &Dataset{
		X:           toolbox.AF32Slice(ds.X, 0, cut),
		Y:           toolbox.AF32Slice(ds.Y, 0, cut),
		Temperature: ds.Temperature,
		Humidity:    ds.Humidity,
	}
	test = &Dataset{
		X:           toolbox.AF32Slice(ds.X, cut, n),
		Y:           toolbox.AF32Slice(ds.Y, cut, n),
		Temperature: ds.Temperature,
		Humidity:    ds.Humidity,
	}
	return train, test, nil
}
