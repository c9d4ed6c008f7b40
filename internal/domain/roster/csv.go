package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/okian/paceline/internal/domain/model"
)

// Defaults applied to the optional import columns.
const (
	defaultDOB = "1990-01-01"

	minImportColumns = 4
)

// ImportCSV parses a registrant sheet and returns a fresh directory
// plus the number of rows loaded. The header row is skipped. Rows need
// at least four columns (bib, first, last, wave); columns five and six
// (dob, gender) are optional. Rows missing a required field or naming
// an unknown wave are silently skipped, matching how messy day-of
// registration sheets are handled at the line.
func ImportCSV(r io.Reader) (*Directory, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	dir := New()
	loaded := 0
	header := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read csv: %w", err)
		}
		if header {
			header = false
			continue
		}
		if len(record) < minImportColumns {
			continue
		}
		bib := strings.TrimSpace(record[0])
		first := strings.TrimSpace(record[1])
		last := strings.TrimSpace(record[2])
		wave, err := model.ParseWave(record[3])
		if bib == "" || first == "" || last == "" || err != nil || !wave.Valid() {
			continue
		}
		dob := defaultDOB
		if len(record) > 4 && strings.TrimSpace(record[4]) != "" {
			dob = strings.TrimSpace(record[4])
		}
		gender := model.GenderNone
		if len(record) > 5 {
			gender = model.ParseGender(record[5])
		}
		dir.Upsert(model.Registrant{
			Bib:       bib,
			FirstName: first,
			LastName:  last,
			Wave:      wave,
			DOB:       dob,
			Gender:    gender,
		})
		loaded++
	}
	return dir, loaded, nil
}

// ExportCSV writes the directory in the import format, header included.
func (d *Directory) ExportCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Bib", "First Name", "Last Name", "Wave", "DOB", "Gender"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range d.All() {
		row := []string{r.Bib, r.FirstName, r.LastName, string(r.Wave), r.DOB, string(r.Gender)}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
