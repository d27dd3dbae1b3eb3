package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/outbreaklab/epidemic-core/pkg/models"
)

// WriteSeriesCSV writes a mean trajectory as CSV: one row per step with
// the three state means, plus one infected column per village when the
// series carries partitions.
func WriteSeriesCSV(w io.Writer, mean *models.MeanTimeSeries) error {
	if mean == nil || len(mean.Steps) == 0 {
		return fmt.Errorf("nothing to export: empty series")
	}

	writer := csv.NewWriter(w)

	header := []string{"step", "susceptible", "infected", "recovered"}
	villages := 0
	if len(mean.Partitions) > 0 {
		villages = len(mean.Partitions[0])
		for v := 0; v < villages; v++ {
			header = append(header, fmt.Sprintf("village%d_infected", v))
		}
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for step, c := range mean.Steps {
		row := []string{
			strconv.Itoa(step),
			formatMean(c.Susceptible),
			formatMean(c.Infected),
			formatMean(c.Recovered),
		}
		for v := 0; v < villages; v++ {
			row = append(row, formatMean(mean.Partitions[step][v].Infected))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", step, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatMean(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
