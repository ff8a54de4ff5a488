package weather

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sbinet/npyio/npz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.234))
	assert.Equal(t, 1.24, Round2(1.235001))
	assert.Equal(t, -0.5, Round2(-0.5))
	assert.Equal(t, 0.0, Round2(0.001))
}

func TestNormalize(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	got, s := Normalize(xs)
	assert.InDelta(t, 5, s.Mean, 1e-12)
	assert.InDelta(t, 2, s.StdDev, 1e-12)

	want := []float64{-1.5, -0.5, -0.5, -0.5, 0, 0, 1, 2}
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-12, "index %d", i)
	}

	// The input is left alone.
	assert.Equal(t, []float64{2, 4, 4, 4, 5, 5, 7, 9}, xs)

	for i, x := range xs {
		assert.Equal(t, got[i], s.Apply(x), "Apply(%v)", x)
	}
}

func TestScalerApplyDivides(t *testing.T) {
	// 3.5/1.12 lands just under 3.125; 3.5*(1/1.12) lands on it and rounds up.
	s := Scaler{Mean: 10, StdDev: 1.12}
	assert.Equal(t, 3.12, s.Apply(13.5))

	s = Scaler{Mean: 10, StdDev: 1.44}
	assert.Equal(t, 13.13, s.Apply(28.9))
}

func TestFitScalerRoundsStdDev(t *testing.T) {
	// Population std-dev of {0, 1} is 0.5; of {0, 1, 2} it is 0.8165.
	assert.Equal(t, 0.5, FitScaler([]float64{0, 1}).StdDev)
	assert.Equal(t, 0.82, FitScaler([]float64{0, 1, 2}).StdDev)
}

func TestDidItRain(t *testing.T) {
	assert.Equal(t, float32(0), DidItRain(0))
	assert.Equal(t, float32(1), DidItRain(0.1))
	assert.Equal(t, float32(1), DidItRain(12))
}

const sampleExport = `{
  "latitude": 38.7,
  "longitude": -9.1,
  "hourly_units": {"temperature_2m": "°C", "relativehumidity_2m": "%", "rain": "mm"},
  "hourly": {
    "time": ["2023-01-01T00:00", "2023-01-01T01:00", "2023-01-01T02:00", "2023-01-01T03:00", "2023-01-01T04:00"],
    "temperature_2m": [12.0, 11.5, 11.0, 14.0, 16.5],
    "relativehumidity_2m": [88, 91, 93, 70, 60],
    "rain": [0.4, 1.2, 0.0, 0.0, 0.0]
  }
}`

func TestLoadJSON(t *testing.T) {
	obs, err := LoadJSON(strings.NewReader(sampleExport))
	require.NoError(t, err)

	assert.Equal(t, 5, obs.Len())
	assert.Equal(t, []float64{12.0, 11.5, 11.0, 14.0, 16.5}, obs.Temperature)
	assert.Equal(t, []float64{88, 91, 93, 70, 60}, obs.Humidity)
	assert.Equal(t, []float64{0.4, 1.2, 0, 0, 0}, obs.Rain)
}

func TestLoadJSONErrors(t *testing.T) {
	_, err := LoadJSON(strings.NewReader(`{"hourly": {"temperature_2m": [1, 2], "relativehumidity_2m": [3], "rain": [0, 0]}}`))
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = LoadJSON(strings.NewReader(`{"hourly": {}}`))
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = LoadJSON(strings.NewReader(`{"hourly": [`))
	assert.Error(t, err)
}

func TestLoadNPZ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.npz")

	w, err := npz.Create(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(TemperatureArray, []float64{10, 20, 30}))
	require.NoError(t, w.Write(HumidityArray, []float64{40, 50, 60}))
	require.NoError(t, w.Write(RainArray, []float64{0, 2.5, 0}))
	require.NoError(t, w.Close())

	obs, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []float64{10, 20, 30}, obs.Temperature)
	assert.Equal(t, []float64{40, 50, 60}, obs.Humidity)
	assert.Equal(t, []float64{0, 2.5, 0}, obs.Rain)
}

func TestLoadNPZMissingArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.npz")

	w, err := npz.Create(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(TemperatureArray, []float64{10, 20, 30}))
	require.NoError(t, w.Close())

	_, err = LoadNPZ(path)
	assert.ErrorContains(t, err, HumidityArray)
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "data-last-year.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(sampleExport), 0o644))
	obs, err := Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 5, obs.Len())

	_, err = Load(filepath.Join(dir, "data.csv"))
	assert.ErrorContains(t, err, "unsupported")
}

func TestBuildDatasetAndSplit(t *testing.T) {
	obs, err := LoadJSON(strings.NewReader(sampleExport))
	require.NoError(t, err)

	ds, err := BuildDataset(obs)
	require.NoError(t, err)
	require.Equal(t, 5, ds.Len())

	wantTemp, _ := Normalize(obs.Temperature)
	wantHum, _ := Normalize(obs.Humidity)
	inputs := ds.Inputs()
	targets := ds.Targets()
	for k := 0; k < ds.Len(); k++ {
		assert.InDelta(t, wantTemp[k], inputs[k][0], 1e-6)
		assert.InDelta(t, wantHum[k], inputs[k][1], 1e-6)
		assert.Equal(t, []float32{DidItRain(obs.Rain[k])}, targets[k])
	}

	train, test, err := ds.Split(0.8)
	require.NoError(t, err)
	assert.Equal(t, 4, train.Len())
	assert.Equal(t, 1, test.Len())
	assert.Equal(t, inputs[4], test.Inputs()[0])
	assert.Equal(t, ds.Temperature, test.Temperature)

	_, _, err = ds.Split(1.5)
	assert.Error(t, err)
}

func TestBuildDatasetRejectsConstantSeries(t *testing.T) {
	_, err := BuildDataset(&Observations{
		Temperature: []float64{20, 20, 20},
		Humidity:    []float64{50, 60, 70},
		Rain:        []float64{0, 0, 1},
	})
	assert.ErrorIs(t, err, ErrConstantSeries)
}

func TestFeatures(t *testing.T) {
	ds := &Dataset{
		Temperature: Scaler{Mean: 15, StdDev: 5},
		Humidity:    Scaler{Mean: 70, StdDev: 20},
	}

	got := ds.Features(21, 44)
	assert.InDelta(t, 1.2, got[0], 1e-6)
	assert.InDelta(t, -1.3, got[1], 1e-6)
	assert.False(t, math.IsNaN(float64(got[0])))
}
