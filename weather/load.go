// Package weather turns hourly weather observations into normalized
// (temperature, humidity) -> rain training data for toolbox.Network.
package weather

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sbinet/npyio/npz"
)

var (
	// ErrLengthMismatch is returned when the observation series have
	// different lengths.
	ErrLengthMismatch = errors.New("observation series have different lengths")

	// ErrEmpty is returned for a dataset with no observations.
	ErrEmpty = errors.New("no observations")
)

// Observations holds parallel hourly series.  Rain is in millimetres.
type Observations struct {
	Temperature []float64
	Humidity    []float64
	Rain        []float64
}

func (o *Observations) Len() int {
	return len(o.Temperature)
}

// Validate checks that every series is non-empty and that they line up.
func (o *Observations) Validate() error {
	if len(o.Temperature) == 0 {
		return ErrEmpty
	}
	if len(o.Humidity) != len(o.Temperature) || len(o.Rain) != len(o.Temperature) {
		return fmt.Errorf("%w: temperature=%d humidity=%d rain=%d",
			ErrLengthMismatch, len(o.Temperature), len(o.Humidity), len(o.Rain))
	}
	return nil
}

type openMeteoExport struct {
	Hourly struct {
		Temperature []float64 `json:"temperature_2m"`
		Humidity    []float64 `json:"relativehumidity_2m"`
		Rain        []float64 `json:"rain"`
	} `json:"hourly"`
}

// LoadJSON reads an Open-Meteo hourly export.  Null readings decode as 0.
func LoadJSON(r io.Reader) (*Observations, error) {
	export := openMeteoExport{}
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("while decoding open-meteo export: %w", err)
	}

	obs := &Observations{
		Temperature: export.Hourly.Temperature,
		Humidity:    export.Hourly.Humidity,
		Rain:        export.Hourly.Rain,
	}
	if err := obs.Validate(); err != nil {
		return nil, err
	}
	return obs, nil
}

// Names of the float64 arrays LoadNPZ expects.
const (
	TemperatureArray = "temperature_2m.npy"
	HumidityArray    = "relativehumidity_2m.npy"
	RainArray        = "rain.npy"
)

// LoadNPZ reads the three series from a NumPy .npz archive.  Each must be a
// 1-d float64 array.
func LoadNPZ(path string) (*Observations, error) {
	r, err := npz.Open(path)
	if err != nil {
		return nil, fmt.Errorf("while opening npz file: %w", err)
	}
	defer r.Close()

	obs := &Observations{}
	if obs.Temperature, err = loadSeries(r, TemperatureArray); err != nil {
		return nil, fmt.Errorf("while reading %s: %w", TemperatureArray, err)
	}
	if obs.Humidity, err = loadSeries(r, HumidityArray); err != nil {
		return nil, fmt.Errorf("while reading %s: %w", HumidityArray, err)
	}
	if obs.Rain, err = loadSeries(r, RainArray); err != nil {
		return nil, fmt.Errorf("while reading %s: %w", RainArray, err)
	}

	if err := obs.Validate(); err != nil {
		return nil, err
	}
	return obs, nil
}

func loadSeries(r *npz.Reader, name string) ([]float64, error) {
	if !slices.Contains(r.Keys(), name) {
		return nil, fmt.Errorf("no array named %s", name)
	}

	header := r.Header(name)
	if len(header.Descr.Shape) != 1 {
		return nil, fmt.Errorf("want a 1-d array, got shape %v", header.Descr.Shape)
	}

	var raw []float64
	if err := r.Read(name, &raw); err != nil {
		return nil, fmt.Errorf("while reading float64 array: %w", err)
	}
	return raw, nil
}

// Load picks LoadJSON or LoadNPZ by file extension.
func Load(path string) (*Observations, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("while opening data file: %w", err)
		}
		defer f.Close()
		return LoadJSON(f)
	case ".npz":
		return LoadNPZ(path)
	default:
		return nil, fmt.Errorf("unsupported data file extension %q", ext)
	}
}
