// Package search filters catalog records by a free-text query.
//
// Matching is substring containment on values folded by textnorm.Compact,
// so accents, case and spacing do not matter. Fields are tried in priority
// order and a record is yielded once, on the first field that matches.
package search

import (
	"iter"
	"strings"

	"github.com/lehigh-university-libraries/booktab/internal/models"
	"github.com/lehigh-university-libraries/booktab/internal/schema"
	"github.com/lehigh-university-libraries/booktab/internal/textnorm"
)

// Fields are the searched keys, highest priority first.
var Fields = []string{schema.KeyTitle, schema.KeyAuthor, schema.KeyPublisher, schema.KeyCode}

// Match is a record yielded by a Cursor. Field names the key that matched,
// or is empty when the query did not filter.
type Match struct {
	Book  models.Book `json:"book"`
	Field string      `json:"field,omitempty"`
}

// Cursor is a single-consumer pull iterator over a snapshot of records.
type Cursor struct {
	books  []models.Book
	query  string
	pos    int
	closed bool
}

// New returns a cursor over books. The slice is not copied; callers that
// mutate it afterwards must pass a copy.
func New(books []models.Book, query string) *Cursor {
	return &Cursor{
		books: books,
		query: textnorm.Compact(query),
	}
}

// Next returns the next matching record. It reports false once the snapshot
// is exhausted or the cursor is closed.
func (c *Cursor) Next() (Match, bool) {
	for !c.closed && c.pos < len(c.books) {
		book := c.books[c.pos]
		c.pos++

		if c.query == "" {
			return Match{Book: book}, true
		}
		if field := matchField(&book, c.query); field != "" {
			return Match{Book: book, Field: field}, true
		}
	}
	c.Close()
	return Match{}, false
}

// Close releases the snapshot. It is safe to call more than once and after
// the cursor is exhausted.
func (c *Cursor) Close() {
	c.closed = true
	c.books = nil
}

// Seq adapts the cursor to a range-over-func iterator. Breaking out of the
// loop closes the cursor.
func (c *Cursor) Seq() iter.Seq[Match] {
	return func(yield func(Match) bool) {
		defer c.Close()
		for {
			m, ok := c.Next()
			if !ok || !yield(m) {
				return
			}
		}
	}
}

// Collect drains the cursor into a slice of books.
func (c *Cursor) Collect() []models.Book {
	var books []models.Book
	for m := range c.Seq() {
		books = append(books, m.Book)
	}
	return books
}

func matchField(book *models.Book, query string) string {
	for _, key := range Fields {
		if strings.Contains(textnorm.Compact(book.Field(key)), query) {
			return key
		}
	}
	return ""
}
