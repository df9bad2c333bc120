package search

import (
	"reflect"
	"testing"

	"github.com/lehigh-university-libraries/booktab/internal/models"
	"github.com/lehigh-university-libraries/booktab/internal/schema"
)

var catalog = []models.Book{
	{Code: "12ΑΒγδ345", Title: "Η Μεγάλη Χίμαιρα", Author: "Μ. Καραγάτσης", Publisher: "Εστία"},
	{Code: "3Κλμ10", Title: "Ο Καπετάν Μιχάλης", Author: "Νίκος Καζαντζάκης", Publisher: "Καζαντζάκη"},
	{Code: "1Αα1", Title: "Ποιήματα", Author: "Κ. Π. Καβάφης", Publisher: "Ίκαρος"},
	{Code: "7Ζζ7", Title: "Καζαντζάκης, μια βιογραφία", Author: "Καζαντζάκης Γ.", Publisher: "Πατάκης"},
}

func titles(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Book.Title
	}
	return out
}

func drain(c *Cursor) []Match {
	var out []Match
	for m := range c.Seq() {
		out = append(out, m)
	}
	return out
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected []string
		fields   []string
	}{
		{
			name:     "empty query yields everything in order",
			query:    "",
			expected: []string{"Η Μεγάλη Χίμαιρα", "Ο Καπετάν Μιχάλης", "Ποιήματα", "Καζαντζάκης, μια βιογραφία"},
			fields:   []string{"", "", "", ""},
		},
		{
			name:     "query without letters is unfiltered",
			query:    "?!",
			expected: []string{"Η Μεγάλη Χίμαιρα", "Ο Καπετάν Μιχάλης", "Ποιήματα", "Καζαντζάκης, μια βιογραφία"},
			fields:   []string{"", "", "", ""},
		},
		{
			name:     "accent and case insensitive",
			query:    "ποιηματα",
			expected: []string{"Ποιήματα"},
			fields:   []string{schema.KeyTitle},
		},
		{
			name:     "title beats author and no duplicates",
			query:    "Καζαντζάκης",
			expected: []string{"Ο Καπετάν Μιχάλης", "Καζαντζάκης, μια βιογραφία"},
			fields:   []string{schema.KeyAuthor, schema.KeyTitle},
		},
		{
			name:     "spaces are ignored",
			query:    "μεγαλη χιμ",
			expected: []string{"Η Μεγάλη Χίμαιρα"},
			fields:   []string{schema.KeyTitle},
		},
		{
			name:     "publisher",
			query:    "εστια",
			expected: []string{"Η Μεγάλη Χίμαιρα"},
			fields:   []string{schema.KeyPublisher},
		},
		{
			name:     "code",
			query:    "3κλμ",
			expected: []string{"Ο Καπετάν Μιχάλης"},
			fields:   []string{schema.KeyCode},
		},
		{
			name:     "no match",
			query:    "Σεφέρης",
			expected: []string{},
			fields:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := drain(New(catalog, tt.query))
			got := titles(matches)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
			for i, m := range matches {
				if m.Field != tt.fields[i] {
					t.Errorf("Match %d: expected field %q, got %q", i, tt.fields[i], m.Field)
				}
			}
		})
	}
}

func TestSearchEmptyCatalog(t *testing.T) {
	c := New(nil, "κάτι")
	if _, ok := c.Next(); ok {
		t.Error("Expected no match on an empty catalog")
	}
}

func TestCursorClose(t *testing.T) {
	c := New(catalog, "")

	if _, ok := c.Next(); !ok {
		t.Fatal("Expected a first record")
	}

	c.Close()
	c.Close()

	if _, ok := c.Next(); ok {
		t.Error("Expected no records after Close")
	}
}

func TestCursorCloseAfterExhaustion(t *testing.T) {
	c := New(catalog[:1], "")
	drain(c)
	c.Close()
	if _, ok := c.Next(); ok {
		t.Error("Expected exhausted cursor to stay exhausted")
	}
}

func TestSeqBreakClosesCursor(t *testing.T) {
	c := New(catalog, "")
	for range c.Seq() {
		break
	}
	if !c.closed {
		t.Error("Expected cursor to be closed after break")
	}
	if _, ok := c.Next(); ok {
		t.Error("Expected no records after break")
	}
}

func TestCursorSnapshot(t *testing.T) {
	books := append([]models.Book(nil), catalog[:2]...)
	c := New(books, "")

	// Appending grows a new backing array; the cursor keeps its own view.
	books = append(books, models.Book{Title: "Νέο"})
	_ = books

	if got := len(c.Collect()); got != 2 {
		t.Errorf("Expected 2 records from snapshot, got %d", got)
	}
}
