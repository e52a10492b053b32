package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"smart-hr/internal/domain/application"
)

const bom = "\uFEFF"

// WriteCSV writes a UTF-8 CSV with a byte order mark: one header line and
// one line per non-hidden application. Fields containing commas or quotes
// are quoted.
func WriteCSV(w io.Writer, apps []application.Application, lang string) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(lang)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, a := range visible(apps) {
		if err := cw.Write(Row(a, lang)); err != nil {
			return fmt.Errorf("write row %s: %w", a.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func CSV(apps []application.Application, lang string) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, apps, lang); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
