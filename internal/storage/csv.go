package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/flightsim/internal/sim"
)

// Columns is the samples.csv header.
var Columns = []string{
	"t",
	"x", "y", "z",
	"qw", "qx", "qy", "qz",
	"vx", "vy", "vz",
	"wx", "wy", "wz",
}

func sampleRow(s sim.Sample) []float64 {
	q := s.Orientation
	return []float64{
		s.Time,
		s.Position[0], s.Position[1], s.Position[2],
		q.W, q.V[0], q.V[1], q.V[2],
		s.Velocity[0], s.Velocity[1], s.Velocity[2],
		s.AngularVelocity[0], s.AngularVelocity[1], s.AngularVelocity[2],
	}
}

func WriteSamplesCSV(out io.Writer, samples []sim.Sample) error {
	w := csv.NewWriter(out)
	if err := w.Write(Columns); err != nil {
		return err
	}

	row := make([]string, len(Columns))
	for _, s := range samples {
		for i, v := range sampleRow(s) {
			row[i] = strconv.FormatFloat(v, 'f', 6, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func ReadSamplesCSV(in io.Reader) ([]sim.Sample, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = len(Columns)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	var vals [14]float64
	for line, record := range records[1:] {
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("samples line %d column %s: %w", line+2, Columns[j], err)
			}
			vals[j] = v
		}

		var s sim.Sample
		s.Time = vals[0]
		copy(s.Position[:], vals[1:4])
		s.Orientation.W = vals[4]
		copy(s.Orientation.V[:], vals[5:8])
		copy(s.Velocity[:], vals[8:11])
		copy(s.AngularVelocity[:], vals[11:14])
		samples = append(samples, s)
	}
	return samples, nil
}

// Channel extracts one named column from samples.
func Channel(samples []sim.Sample, name string) ([]float64, error) {
	idx := -1
	for i, c := range Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("unknown channel: %s", name)
	}

	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = sampleRow(s)[idx]
	}
	return out, nil
}
