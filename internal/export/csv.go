package export

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"

	"github.com/san-kum/parched/internal/metrics"
)

var ErrNoSamples = errors.New("export: no samples")

// WriteCSV writes one row per sample. Metric columns follow names; a nil
// names uses metrics.Names.
func WriteCSV(w io.Writer, samples []metrics.Sample, names []string) error {
	if len(samples) == 0 {
		return ErrNoSamples
	}
	if names == nil {
		names = metrics.Names()
	}

	cw := csv.NewWriter(w)

	header := append([]string{"frame", "time", "balls"}, names...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, s := range samples {
		row := []string{
			strconv.Itoa(s.Frame),
			strconv.FormatFloat(s.Time, 'f', 6, 64),
			strconv.Itoa(s.Balls),
		}
		for _, name := range names {
			row = append(row, strconv.FormatFloat(s.Values[name], 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
