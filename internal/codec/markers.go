package codec

import (
	"strings"

	"github.com/lehigh-university-libraries/booktab/internal/models"
	"github.com/lehigh-university-libraries/booktab/internal/schema"
)

// markerRule ties a single-character marker column to a collection.
type markerRule struct {
	Key     string
	Marker  string
	Library models.LibraryID
}

// markerRules are checked in order and the last matching rule wins, so a
// row flagged for several collections lands in the last one listed.
var markerRules = []markerRule{
	{Key: schema.KeyIsLibrary, Marker: "Δ", Library: models.LibraryLending},
	{Key: schema.KeyIsExpo, Marker: "Ε", Library: models.LibraryExpo},
	{Key: schema.KeyIsReadingRoom, Marker: "Α", Library: models.LibraryReadingRoom},
}

func resolveLibrary(cells map[string]string) models.LibraryID {
	id := models.LibraryNone
	for _, rule := range markerRules {
		if strings.TrimSpace(cells[rule.Key]) == rule.Marker {
			id = rule.Library
		}
	}
	return id
}

func markerFor(key string, id models.LibraryID) string {
	for _, rule := range markerRules {
		if rule.Key == key && rule.Library == id {
			return rule.Marker
		}
	}
	return ""
}
