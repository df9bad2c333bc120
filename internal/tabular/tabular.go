// Package tabular reads and writes spreadsheets as a header row plus data
// rows of raw cell text.
package tabular

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrUnknownEncoding   = errors.New("unknown text encoding")
	ErrNoHeader          = errors.New("spreadsheet has no header row")
)

// Sheet is a decoded spreadsheet. Rows may be shorter or longer than
// Headers.
type Sheet struct {
	Headers []string
	Rows    [][]string
}

type Format string

const (
	FormatCSV     Format = "csv"
	FormatTSV     Format = "tsv"
	FormatParquet Format = "parquet"
)

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".tsv", ".tab":
		return FormatTSV, nil
	case ".parquet":
		return FormatParquet, nil
	default:
		return "", fmt.Errorf("%w: %s (supported: .csv, .tsv, .parquet)", ErrUnsupportedFormat, ext)
	}
}

// Options control how text formats are decoded.
type Options struct {
	// Encoding names the character set of CSV input. Empty means UTF-8.
	Encoding string
}

// Load reads the spreadsheet at path.
func Load(path string, opts Options) (*Sheet, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	slog.Debug("Opening spreadsheet", "path", path, "format", format)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer file.Close()

	if format == FormatParquet {
		info, err := file.Stat()
		if err != nil {
			return nil, fmt.Errorf("failed to stat file: %w", err)
		}
		return ReadParquet(file, info.Size())
	}
	return ReadCSV(file, delimiter(format), opts.Encoding)
}

// Read decodes a spreadsheet of the given format from r. Parquet needs
// random access, so r must also implement io.ReaderAt for that format.
func Read(r io.Reader, size int64, format Format, opts Options) (*Sheet, error) {
	if format == FormatParquet {
		ra, ok := r.(io.ReaderAt)
		if !ok {
			return nil, fmt.Errorf("%w: parquet input must be seekable", ErrUnsupportedFormat)
		}
		return ReadParquet(ra, size)
	}
	return ReadCSV(r, delimiter(format), opts.Encoding)
}

// Save writes sheet to path, replacing any existing file.
func Save(path string, sheet *Sheet) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create spreadsheet: %w", err)
	}

	if err := Write(file, format, sheet); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close spreadsheet: %w", err)
	}

	slog.Debug("Wrote spreadsheet", "path", path, "rows", len(sheet.Rows))
	return nil
}

// Write encodes sheet in the given format.
func Write(w io.Writer, format Format, sheet *Sheet) error {
	switch format {
	case FormatCSV, FormatTSV:
		return WriteCSV(w, delimiter(format), sheet)
	case FormatParquet:
		return WriteParquet(w, sheet)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

func delimiter(format Format) rune {
	if format == FormatTSV {
		return '\t'
	}
	return ','
}
