// Package mapper infers the canonical key of every spreadsheet column.
//
// Columns are resolved in three stages. Labels found in the header
// dictionary are resolved outright. A column sitting between two resolved
// columns whose canonical distance matches their distance in the sheet is
// given the key implied by its position, provided the column's data
// confirms it. Everything else falls back to its own normalized label, which
// callers treat as a mapping failure.
//
// Columns that cannot be guessed from their neighbors are never matched
// against the remaining canonical fields, and canonical fields missing from
// the sheet are not reported.
package mapper

import (
	"strings"

	"github.com/lehigh-university-libraries/booktab/internal/schema"
	"github.com/lehigh-university-libraries/booktab/internal/textnorm"
)

// ConfirmThreshold is the average score a column's data must strictly
// exceed for a positional guess to be accepted.
const ConfirmThreshold = 0.95

// Method records how a column was resolved.
type Method string

const (
	MethodExact       Method = "exact"
	MethodPositional  Method = "positional"
	MethodIgnore      Method = "ignore"
	MethodPassthrough Method = "passthrough"
)

// Column is the mapping state of a single input column.
type Column struct {
	Original   string  `json:"original" yaml:"original"`
	Normalized string  `json:"normalized" yaml:"normalized"`
	Key        string  `json:"key" yaml:"key"`
	Method     Method  `json:"method" yaml:"method"`
	Suspected  string  `json:"suspected,omitempty" yaml:"suspected,omitempty"`
	Score      float64 `json:"score,omitempty" yaml:"score,omitempty"`

	compact string
	prevKey string
	prevPos int
	nextKey string
	nextPos int
}

// Result holds the resolved keys, one per header, and the per-column report.
type Result struct {
	Keys    []string `json:"keys" yaml:"keys"`
	Columns []Column `json:"columns" yaml:"columns"`
}

// Passthrough returns the original labels of columns that were not resolved.
func (r Result) Passthrough() []string {
	var labels []string
	for _, c := range r.Columns {
		if c.Method == MethodPassthrough {
			labels = append(labels, c.Original)
		}
	}
	return labels
}

// MapHeaders returns the resolved key of every header. rows are the data
// rows aligned by column index.
func MapHeaders(headers []string, rows [][]string) []string {
	return Map(headers, rows).Keys
}

// Map resolves every header and reports how each one was resolved.
func Map(headers []string, rows [][]string) Result {
	columns := make([]Column, len(headers))

	// Exact pass
	for i, h := range headers {
		normalized := textnorm.Normalize(h)
		c := Column{
			Original:   h,
			Normalized: normalized,
			compact:    strings.ReplaceAll(normalized, " ", ""),
		}
		if key, ok := schema.Lookup(c.compact); ok {
			c.Key = key
			c.Method = MethodExact
		}
		columns[i] = c
	}

	scanNeighbors(columns)

	for i := range columns {
		if columns[i].Key == "" {
			columns[i].Suspected = suspect(columns[i])
		}
	}

	for i := range columns {
		if columns[i].Suspected != "" {
			confirm(&columns[i], i, rows)
		}
	}

	keys := make([]string, len(columns))
	for i := range columns {
		if columns[i].Key == "" {
			columns[i].Key = columns[i].Normalized
			columns[i].Method = MethodPassthrough
		}
		keys[i] = columns[i].Key
	}

	return Result{Keys: keys, Columns: columns}
}

// scanNeighbors records, for every unresolved column, the nearest resolved
// column on each side and its signed distance. When a side has no resolved
// column the key stays empty and the distance runs past the array edge.
func scanNeighbors(columns []Column) {
	for i := range columns {
		if columns[i].Key != "" {
			continue
		}

		j := 1
		for i+j < len(columns) {
			if columns[i+j].Key != "" {
				columns[i].nextKey = columns[i+j].Key
				break
			}
			j++
		}
		columns[i].nextPos = j

		j = -1
		for i+j >= 0 {
			if columns[i+j].Key != "" {
				columns[i].prevKey = columns[i+j].Key
				break
			}
			j--
		}
		columns[i].prevPos = j
	}
}

// suspect returns the canonical key implied by the column's position between
// its two resolved neighbors, or "" when the layout does not agree with the
// canonical order.
func suspect(c Column) string {
	if c.prevKey == "" || c.nextKey == "" {
		return ""
	}

	next, ok := schema.Position(c.nextKey)
	if !ok {
		return ""
	}
	prev, ok := schema.Position(c.prevKey)
	if !ok {
		return ""
	}

	// Either extra unknown columns or a missing canonical column sit
	// between the neighbors.
	if next-prev != c.nextPos-c.prevPos {
		return ""
	}

	return schema.Order[next-c.nextPos].Key
}

// confirm checks the suspected key against the column's non-empty values.
func confirm(c *Column, index int, rows [][]string) {
	field, ok := schema.ByKey(c.Suspected)
	if !ok {
		return
	}

	var values []string
	for _, row := range rows {
		if index >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[index]); v != "" {
			values = append(values, v)
		}
	}

	if len(values) == 0 {
		c.Key = schema.Ignore
		c.Method = MethodIgnore
		return
	}

	var score float64
	for _, v := range values {
		score += field.Score(v)
	}
	score /= float64(len(values))
	c.Score = score

	if score > ConfirmThreshold {
		c.Key = c.Suspected
		c.Method = MethodPositional
	}
}
