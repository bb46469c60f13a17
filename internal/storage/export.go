package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/flightsim/internal/sim"
)

type ExportSample struct {
	Time            float64    `json:"t"`
	Position        [3]float64 `json:"position"`
	Orientation     [4]float64 `json:"orientation"`
	Velocity        [3]float64 `json:"velocity"`
	AngularVelocity [3]float64 `json:"angular_velocity"`
}

type ExportData struct {
	ID       string             `json:"id,omitempty"`
	Scenario string             `json:"scenario"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Samples  []ExportSample     `json:"samples"`
	Metrics  map[string]float64 `json:"metrics"`
}

// NewExportData packs a stored run for JSON output. Orientation is
// [w, x, y, z].
func NewExportData(meta *RunMetadata, samples []sim.Sample) ExportData {
	data := ExportData{
		ID:       meta.ID,
		Scenario: meta.Scenario,
		Dt:       meta.Dt,
		Duration: meta.Duration,
		Steps:    meta.Steps,
		Samples:  make([]ExportSample, len(samples)),
		Metrics:  meta.Metrics,
	}
	for i, s := range samples {
		q := s.Orientation
		data.Samples[i] = ExportSample{
			Time:            s.Time,
			Position:        s.Position,
			Orientation:     [4]float64{q.W, q.V[0], q.V[1], q.V[2]},
			Velocity:        s.Velocity,
			AngularVelocity: s.AngularVelocity,
		}
	}
	return data
}

func ExportJSON(w io.Writer, meta *RunMetadata, samples []sim.Sample) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewExportData(meta, samples))
}

// ExportMetadata writes only the run metadata.
func ExportMetadata(w io.Writer, meta *RunMetadata) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
