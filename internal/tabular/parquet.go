package tabular

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/parquet-go/parquet-go"

	"github.com/lehigh-university-libraries/booktab/internal/schema"
	"github.com/lehigh-university-libraries/booktab/internal/textnorm"
)

// parquetRow has one string column per canonical field, named by key.
type parquetRow struct {
	Index         string `parquet:"index"`
	EntryID       string `parquet:"entryId"`
	EntryDate     string `parquet:"entryDate"`
	Title         string `parquet:"title"`
	Author        string `parquet:"author"`
	Publisher     string `parquet:"publisher"`
	Publishers    string `parquet:"publishers"`
	Year          string `parquet:"year"`
	NumCopies     string `parquet:"numCopies"`
	Code          string `parquet:"code"`
	CodeC1        string `parquet:"codeC1"`
	CodeC2        string `parquet:"codeC2"`
	CodeC3        string `parquet:"codeC3"`
	CodeC4        string `parquet:"codeC4"`
	IsLibrary     string `parquet:"isLibrary"`
	IsExpo        string `parquet:"isExpo"`
	IsReadingRoom string `parquet:"isReadingRoom"`
	Description   string `parquet:"description"`
}

// cells returns the row's fields in schema.Order.
func (r *parquetRow) cells() []*string {
	return []*string{
		&r.Index, &r.EntryID, &r.EntryDate, &r.Title, &r.Author, &r.Publisher,
		&r.Publishers, &r.Year, &r.NumCopies, &r.Code, &r.CodeC1, &r.CodeC2,
		&r.CodeC3, &r.CodeC4, &r.IsLibrary, &r.IsExpo, &r.IsReadingRoom,
		&r.Description,
	}
}

// ReadParquet reads a catalog snapshot. Headers are the canonical display
// labels.
func ReadParquet(r io.ReaderAt, size int64) (*Sheet, error) {
	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet file opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[parquetRow](pf)
	defer reader.Close()

	sheet := &Sheet{Headers: schema.Labels()}
	batch := make([]parquetRow, 128)
	for {
		n, err := reader.Read(batch)
		for i := range batch[:n] {
			cells := batch[i].cells()
			row := make([]string, len(cells))
			for j, c := range cells {
				row[j] = *c
			}
			sheet.Rows = append(sheet.Rows, row)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}
	return sheet, nil
}

// WriteParquet writes sheet as a catalog snapshot. Every header must be a
// canonical label.
func WriteParquet(w io.Writer, sheet *Sheet) error {
	positions := make([]int, len(sheet.Headers))
	for i, h := range sheet.Headers {
		key, ok := schema.Lookup(textnorm.Compact(h))
		if !ok {
			return fmt.Errorf("column %q has no parquet field", h)
		}
		positions[i], _ = schema.Position(key)
	}

	rows := make([]parquetRow, len(sheet.Rows))
	for i, values := range sheet.Rows {
		cells := rows[i].cells()
		for j, v := range values {
			if j >= len(positions) {
				break
			}
			*cells[positions[j]] = v
		}
	}

	writer := parquet.NewGenericWriter[parquetRow](w)
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}
