// Package export writes stored runs and world snapshots to files.
package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/parched/internal/metrics"
	"github.com/san-kum/parched/internal/storage"
)

type ExportData struct {
	ID       string             `json:"id"`
	Scene    string             `json:"scene"`
	Seed     int64              `json:"seed"`
	Dt       float64            `json:"dt"`
	Frames   int                `json:"frames"`
	SubSteps int                `json:"sub_steps"`
	Balls    int                `json:"balls"`
	Metrics  map[string]float64 `json:"metrics"`
	Samples  []metrics.Sample   `json:"samples"`
}

func newExportData(meta *storage.RunMetadata, samples []metrics.Sample) ExportData {
	if samples == nil {
		samples = []metrics.Sample{}
	}
	return ExportData{
		ID:       meta.ID,
		Scene:    meta.Scene,
		Seed:     meta.Seed,
		Dt:       meta.Dt,
		Frames:   meta.Frames,
		SubSteps: meta.SubSteps,
		Balls:    meta.Balls,
		Metrics:  meta.Metrics,
		Samples:  samples,
	}
}

// WriteJSON encodes a run with its samples as indented JSON.
func WriteJSON(w io.Writer, meta *storage.RunMetadata, samples []metrics.Sample) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, samples))
}

func ExportJSON(path string, meta *storage.RunMetadata, samples []metrics.Sample) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, meta, samples)
}

func ExportJSONStdout(meta *storage.RunMetadata, samples []metrics.Sample) error {
	return WriteJSON(os.Stdout, meta, samples)
}
