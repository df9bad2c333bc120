package models

import "github.com/lehigh-university-libraries/booktab/internal/schema"

// LibraryID identifies which collection holds a book.
type LibraryID string

const (
	LibraryNone        LibraryID = ""
	LibraryLending     LibraryID = "library"
	LibraryExpo        LibraryID = "expo"
	LibraryReadingRoom LibraryID = "reading-room"
)

// Valid reports whether id is one of the known collections or absent.
func (id LibraryID) Valid() bool {
	switch id {
	case LibraryNone, LibraryLending, LibraryExpo, LibraryReadingRoom:
		return true
	}
	return false
}

// Book is a single catalog record. JSON names match the persisted catalog.
type Book struct {
	Code        string    `json:"code,omitempty"`
	Title       string    `json:"title,omitempty"`
	Author      string    `json:"author,omitempty"`
	Publisher   string    `json:"publisher,omitempty"`
	Publishers  string    `json:"publishers,omitempty"`
	Year        string    `json:"year,omitempty"`
	NumCopies   string    `json:"numCopies,omitempty"`
	EntryID     string    `json:"entryId,omitempty"`
	EntryDate   string    `json:"entryDate,omitempty"`
	Description string    `json:"description,omitempty"`
	LibraryID   LibraryID `json:"libraryId,omitempty"`
}

// Field returns the stored value for a canonical key. Derived columns
// (index, markers, code components) are not stored and yield "".
func (b *Book) Field(key string) string {
	switch key {
	case schema.KeyCode:
		return b.Code
	case schema.KeyTitle:
		return b.Title
	case schema.KeyAuthor:
		return b.Author
	case schema.KeyPublisher:
		return b.Publisher
	case schema.KeyPublishers:
		return b.Publishers
	case schema.KeyYear:
		return b.Year
	case schema.KeyNumCopies:
		return b.NumCopies
	case schema.KeyEntryID:
		return b.EntryID
	case schema.KeyEntryDate:
		return b.EntryDate
	case schema.KeyDescription:
		return b.Description
	}
	return ""
}

// SetField stores value under a canonical key. It reports false for keys
// that are not stored fields.
func (b *Book) SetField(key, value string) bool {
	switch key {
	case schema.KeyCode:
		b.Code = value
	case schema.KeyTitle:
		b.Title = value
	case schema.KeyAuthor:
		b.Author = value
	case schema.KeyPublisher:
		b.Publisher = value
	case schema.KeyPublishers:
		b.Publishers = value
	case schema.KeyYear:
		b.Year = value
	case schema.KeyNumCopies:
		b.NumCopies = value
	case schema.KeyEntryID:
		b.EntryID = value
	case schema.KeyEntryDate:
		b.EntryDate = value
	case schema.KeyDescription:
		b.Description = value
	default:
		return false
	}
	return true
}

// ExportData is a catalog rendered as a spreadsheet: header labels and one
// row per book.
type ExportData struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}
