// Package schema holds the canonical book schema: the fields a catalog
// spreadsheet may carry, their display order, the labels used on export and
// the exact-match header dictionary.
package schema

import (
	"regexp"
	"time"

	"github.com/lehigh-university-libraries/booktab/internal/textnorm"
)

// Canonical keys.
const (
	KeyIndex         = "index"
	KeyEntryID       = "entryId"
	KeyEntryDate     = "entryDate"
	KeyTitle         = "title"
	KeyAuthor        = "author"
	KeyPublisher     = "publisher"
	KeyPublishers    = "publishers"
	KeyYear          = "year"
	KeyNumCopies     = "numCopies"
	KeyCode          = "code"
	KeyCodeC1        = "codeC1"
	KeyCodeC2        = "codeC2"
	KeyCodeC3        = "codeC3"
	KeyCodeC4        = "codeC4"
	KeyIsLibrary     = "isLibrary"
	KeyIsExpo        = "isExpo"
	KeyIsReadingRoom = "isReadingRoom"
	KeyDescription   = "description"

	// Ignore marks a column that carries no data.
	Ignore = "ignore"
)

// Field describes one canonical column. Exactly one of Pattern, Validator or
// Scorer is set; it is used to confirm a positional guess against data.
type Field struct {
	Key       string
	Label     string
	Optional  bool
	Pattern   *regexp.Regexp
	Validator func(string) bool
	Scorer    func(string) float64
}

// Score rates how plausible value is for the field. Pattern and Validator
// rules yield 1 or 0, a Scorer yields its raw value.
func (f Field) Score(value string) float64 {
	switch {
	case f.Pattern != nil:
		if f.Pattern.MatchString(value) {
			return 1
		}
		return 0
	case f.Validator != nil:
		if f.Validator(value) {
			return 1
		}
		return 0
	case f.Scorer != nil:
		return f.Scorer(value)
	}
	return 0
}

var entryDatePattern = regexp.MustCompile(`^[0-9]{1,2}/[0-9]{1,2}/[0-9]{4}$`)

// isEntryDate accepts d/m/yyyy cells and ISO dates, which is how spreadsheet
// date cells come out of the row readers.
func isEntryDate(v string) bool {
	if entryDatePattern.MatchString(v) {
		return true
	}
	_, err := time.Parse("2006-01-02", v)
	return err == nil
}

// Titles usually have many words.
func titleScore(v string) float64 {
	return float64(min(len(textnorm.Tokenize(v)), 8))
}

// Authors usually have two or three words.
func authorScore(v string) float64 {
	switch len(textnorm.Tokenize(v)) {
	case 1:
		return 0.5
	case 2:
		return 1.5
	case 3:
		return 0.75
	default:
		return 0
	}
}

// Publishers usually have one word, two or three at most.
func publisherScore(v string) float64 {
	switch len(textnorm.Tokenize(v)) {
	case 1:
		return 1.5
	case 2:
		return 1
	case 3:
		return 0.33
	default:
		return 0
	}
}

func descriptionScore(v string) float64 {
	return float64(max(len(textnorm.Tokenize(v))-5, 0)) / 5
}

// Order is the canonical display order. Positional inference depends on it.
var Order = []Field{
	{Key: KeyIndex, Label: "ΑΑ", Pattern: regexp.MustCompile(`^[0-9]+$`)},
	{Key: KeyEntryID, Label: "ΑΡΙΘΜΟΣ ΕΙΣΑΓΩΓΗΣ", Pattern: regexp.MustCompile(`^[0-9]+$`)},
	{Key: KeyEntryDate, Label: "ΗΜΕΡΟΜΗΝΙΑ", Validator: isEntryDate},
	{Key: KeyTitle, Label: "ΤΙΤΛΟΣ", Scorer: titleScore},
	{Key: KeyAuthor, Label: "ΣΥΓΓΡΑΦΕΑΣ", Scorer: authorScore},
	{Key: KeyPublisher, Label: "ΕΚΔΟΤΗΣ", Scorer: publisherScore},
	{Key: KeyPublishers, Label: "ΕΚΔΟΤΕΣ", Optional: true, Scorer: publisherScore},
	{Key: KeyYear, Label: "ΧΡΟΝΟΛΟΓΙΑ", Pattern: regexp.MustCompile(`^[0-9]{4}$`)},
	{Key: KeyNumCopies, Label: "ΑΝΤΙΤΥΠΑ", Pattern: regexp.MustCompile(`^[0-9]$`)},
	{Key: KeyCode, Label: "ΚΩΔΙΚΟΣ", Pattern: regexp.MustCompile(`^[0-9]{1,2}[Α-Ω]{1,2}[α-ω]{1,2}[0-9]{1,3}$`)},
	{Key: KeyCodeC1, Label: "ΚΑΤ1", Pattern: regexp.MustCompile(`^[0-9]{1,2}$`)},
	{Key: KeyCodeC2, Label: "ΚΑΤ2", Pattern: regexp.MustCompile(`^[Α-Ω]{1,2}$`)},
	{Key: KeyCodeC3, Label: "ΚΑΤ3", Pattern: regexp.MustCompile(`^[α-ω]{1,2}$`)},
	{Key: KeyCodeC4, Label: "ΚΑΤ4", Pattern: regexp.MustCompile(`^[0-9]{1,3}$`)},
	{Key: KeyIsLibrary, Label: "ΔΑΝΕΙΣΤΙΚΗ", Pattern: regexp.MustCompile(`^Δ$`)},
	{Key: KeyIsExpo, Label: "ΕΚΘΕΣΗ", Pattern: regexp.MustCompile(`^Ε$`)},
	{Key: KeyIsReadingRoom, Label: "ΑΝΑΓΝΩΣΤΗΡΙΟ", Pattern: regexp.MustCompile(`^Α$`)},
	{Key: KeyDescription, Label: "ΠΕΡΙΓΡΑΦΗ", Scorer: descriptionScore},
}

// headerMap maps compact normalized header labels to canonical keys.
var headerMap = map[string]string{
	"ΑΑ":               KeyIndex,
	"ΑΝΑΓΝΩΣΤΗΡΙΟ":     KeyIsReadingRoom,
	"ΑΝΤΙΤΥΠΑ":         KeyNumCopies,
	"ΑΡΙΘΜΟΣΕΙΣΑΓΩΓΗΣ": KeyEntryID,
	"ΔΑΝΕΙΣΤΙΚΗ":       KeyIsLibrary,
	"ΕΚΔΟΤΗΣ":          KeyPublisher,
	"ΕΚΔΟΤΕΣ":          KeyPublishers,
	"ΕΚΘΕΣΗ":           KeyIsExpo,
	"ΗΜΕΡΟΜΗΝΙΑ":       KeyEntryDate,
	"ΚΑΤ1":             KeyCodeC1,
	"ΚΑΤ2":             KeyCodeC2,
	"ΚΑΤ3":             KeyCodeC3,
	"ΚΑΤ4":             KeyCodeC4,
	"ΚΩΔΙΚΟΣ":          KeyCode,
	"ΠΕΡΙΓΡΑΦΗ":        KeyDescription,
	"ΣΥΓΓΡΑΦΕΑΣ":       KeyAuthor,
	"ΤΙΤΛΟΣ":           KeyTitle,
	"ΧΡΟΝΟΛΟΓΙΑ":       KeyYear,
}

var position = func() map[string]int {
	m := make(map[string]int, len(Order))
	for i, f := range Order {
		m[f.Key] = i
	}
	return m
}()

// Lookup resolves a compact normalized header label to its canonical key.
func Lookup(compact string) (string, bool) {
	key, ok := headerMap[compact]
	return key, ok
}

// Position returns the index of key in Order.
func Position(key string) (int, bool) {
	i, ok := position[key]
	return i, ok
}

// ByKey returns the field for key.
func ByKey(key string) (Field, bool) {
	i, ok := position[key]
	if !ok {
		return Field{}, false
	}
	return Order[i], true
}

// Known reports whether key is a canonical key or Ignore. Anything else
// returned by the mapper is a passthrough label.
func Known(key string) bool {
	if key == Ignore {
		return true
	}
	_, ok := position[key]
	return ok
}

// Labels returns the export header labels in display order.
func Labels() []string {
	labels := make([]string, len(Order))
	for i, f := range Order {
		labels[i] = f.Label
	}
	return labels
}
