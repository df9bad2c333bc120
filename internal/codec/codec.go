// Package codec converts between catalog records and flat spreadsheet rows.
//
// Decode takes the key sequence produced by the header mapper and builds one
// book per row. Marker columns collapse into the book's library, and the item
// code is rebuilt either from a single code column or from its four
// component columns. Encode renders books in canonical display order,
// computing the index, marker and code component columns from the stored
// fields so that decoding an export reproduces every library and code.
package codec

import (
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/booktab/internal/models"
	"github.com/lehigh-university-libraries/booktab/internal/schema"
)

var componentKeys = [4]string{schema.KeyCodeC1, schema.KeyCodeC2, schema.KeyCodeC3, schema.KeyCodeC4}

// Decode builds one book per row. keys must come from the header mapper;
// columns resolved to ignore and the derived index column are skipped, and
// cells past the end of keys are dropped.
func Decode(keys []string, rows [][]string) []models.Book {
	books := make([]models.Book, len(rows))
	for i, row := range rows {
		books[i] = decodeRow(keys, row)
	}
	return books
}

func decodeRow(keys []string, row []string) models.Book {
	var book models.Book
	derived := make(map[string]string)

	for i, value := range row {
		if i >= len(keys) {
			break
		}
		key := keys[i]
		if key == schema.Ignore || key == schema.KeyIndex {
			continue
		}
		if !book.SetField(key, value) {
			derived[key] = value
		}
	}

	book.LibraryID = resolveLibrary(derived)
	book.Code = decodeCode(book.Code, derived)

	return book
}

// decodeCode returns the normalized item code. A code cell that matches the
// grammar wins; otherwise the component cells are joined with placeholders
// for the missing ones.
func decodeCode(cell string, derived map[string]string) string {
	cell = strings.TrimSpace(cell)
	if parts, ok := SplitCode(cell); ok {
		return parts.String()
	}

	var parts CodeParts
	var present bool
	for i, key := range componentKeys {
		parts[i] = strings.TrimSpace(derived[key])
		if parts[i] != "" {
			present = true
		}
	}

	// A code decoded earlier with placeholders survives an export.
	if !present {
		if stored, ok := split(storedCodePattern, cell); ok {
			return stored.String()
		}
	}

	return JoinCode(parts)
}

// Encode renders books as a header row of display labels and one row per
// book in canonical order.
func Encode(books []models.Book) models.ExportData {
	rows := make([][]string, len(books))
	for i := range books {
		rows[i] = encodeRow(i, &books[i])
	}
	return models.ExportData{
		Headers: schema.Labels(),
		Rows:    rows,
	}
}

func encodeRow(index int, book *models.Book) []string {
	parts, parsed := SplitCode(book.Code)

	row := make([]string, len(schema.Order))
	for i, field := range schema.Order {
		switch field.Key {
		case schema.KeyIndex:
			row[i] = strconv.Itoa(index + 1)
		case schema.KeyIsLibrary, schema.KeyIsExpo, schema.KeyIsReadingRoom:
			row[i] = markerFor(field.Key, book.LibraryID)
		case schema.KeyCodeC1, schema.KeyCodeC2, schema.KeyCodeC3, schema.KeyCodeC4:
			if parsed {
				row[i] = parts[componentIndex(field.Key)]
			}
		default:
			row[i] = book.Field(field.Key)
		}
	}
	return row
}

func componentIndex(key string) int {
	for i, k := range componentKeys {
		if k == key {
			return i
		}
	}
	return -1
}
