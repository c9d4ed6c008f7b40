// Package export renders race results and full-state backups for
// download, and writes auto-backup files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/okian/paceline/internal/domain/model"
	"github.com/okian/paceline/internal/domain/ranking"
)

// resultsHeader is the fixed column set of the results export.
var resultsHeader = []string{
	"Overall Place",
	"Wave Place",
	"Bib Number",
	"First Name",
	"Last Name",
	"Wave",
	"Finish Time",
	"Elapsed Time",
	"Full Timestamp",
}

// WriteResultsCSV writes the placed entries elapsed-ascending, one row
// per entry with a wave. Wave place is the entry's 1-based rank within
// its own wave's sorted subset. Returns the number of rows written.
func WriteResultsCSV(w io.Writer, entries []model.Entry) (int, error) {
	writer := csv.NewWriter(w)
	if err := writer.Write(resultsHeader); err != nil {
		return 0, fmt.Errorf("write results header: %w", err)
	}
	ranked := ranking.Overall(entries)
	for i, e := range ranked {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(ranking.WavePlace(entries, e.Wave, e.ID)),
			e.Bib,
			e.FirstName,
			e.LastName,
			string(e.Wave),
			model.TimeOfDay(e.FinishedAt),
			e.FormatElapsed(),
			e.FinishedAt.Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return 0, fmt.Errorf("write results row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, fmt.Errorf("flush results: %w", err)
	}
	return len(ranked), nil
}
