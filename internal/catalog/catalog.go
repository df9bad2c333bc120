// Package catalog owns the in-memory book catalog and its persistence.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"

	"github.com/lehigh-university-libraries/booktab/internal/codec"
	"github.com/lehigh-university-libraries/booktab/internal/mapper"
	"github.com/lehigh-university-libraries/booktab/internal/models"
	"github.com/lehigh-university-libraries/booktab/internal/search"
	"github.com/lehigh-university-libraries/booktab/internal/settings"
	"github.com/lehigh-university-libraries/booktab/internal/storage"
)

var (
	// ErrNoHeaders is returned by Import for a spreadsheet without a header
	// row.
	ErrNoHeaders = errors.New("spreadsheet has no header row")

	ErrNoDetection = errors.New("setting cannot be autodetected")
)

// MappingError is returned by Import when some columns could not be
// resolved to a canonical field. Headers holds their original labels.
type MappingError struct {
	Headers []string
}

func (e *MappingError) Error() string {
	quoted := make([]string, len(e.Headers))
	for i, h := range e.Headers {
		quoted[i] = fmt.Sprintf("%q", h)
	}
	return "could not map headers: " + strings.Join(quoted, ", ")
}

// ImportResult describes a completed import.
type ImportResult struct {
	BatchID     string        `json:"batchId" yaml:"batchId"`
	Count       int           `json:"count" yaml:"count"`
	Unchanged   bool          `json:"unchanged" yaml:"unchanged"`
	Fingerprint string        `json:"fingerprint" yaml:"fingerprint"`
	Mapping     mapper.Result `json:"mapping" yaml:"mapping"`
}

// Service holds the catalog. Reads are served from memory; Import is the
// only writer and replaces the whole catalog at once.
//
// The store may be shared with other processes, so memory can lag behind it.
// Import compares against what the store holds, not against memory, before
// it skips a write.
type Service struct {
	store    storage.Store
	settings *settings.Store

	books []models.Book
	mu    sync.RWMutex
}

// NewService returns an empty catalog backed by store. When prefs is not
// nil, the first import into an empty catalog autodetects the terminal
// location.
func NewService(store storage.Store, prefs *settings.Store) *Service {
	return &Service{
		store:    store,
		settings: prefs,
	}
}

// Init loads the catalog from the store. A store that cannot be read leaves
// the catalog empty.
func (s *Service) Init(ctx context.Context) {
	books, err := s.store.Load(ctx)
	if err != nil {
		slog.Warn("Failed to load catalog, starting empty", "err", err)
		books = nil
	}

	s.mu.Lock()
	s.books = books
	s.mu.Unlock()

	slog.Info("Catalog loaded", "books", len(books))
}

// Import maps headers, decodes rows and replaces the catalog. Nothing is
// replaced when the sheet has no header row, when any header is unresolved
// or when the store write fails.
func (s *Service) Import(ctx context.Context, headers []string, rows [][]string) (*ImportResult, error) {
	batchID := uuid.New().String()
	logger := slog.With("batch", batchID)

	if len(headers) == 0 {
		logger.Error("Refusing spreadsheet without headers", "rows", len(rows))
		return nil, ErrNoHeaders
	}

	mapping := mapper.Map(headers, rows)
	if failed := mapping.Passthrough(); len(failed) > 0 {
		logger.Error("Could not map headers", "headers", failed)
		return nil, &MappingError{Headers: failed}
	}

	result := &ImportResult{
		BatchID:     batchID,
		Count:       len(rows),
		Fingerprint: fmt.Sprintf("%016x", Fingerprint(headers, rows)),
		Mapping:     mapping,
	}

	books := codec.Decode(mapping.Keys, rows)

	if s.stored(ctx, books) {
		logger.Info("Import matches stored catalog, skipping write", "fingerprint", result.Fingerprint)
		result.Unchanged = true
		s.replace(logger, books)
		return result, nil
	}

	if err := s.store.Save(ctx, books); err != nil {
		return nil, fmt.Errorf("failed to save catalog: %w", err)
	}
	s.replace(logger, books)

	logger.Info("Imported catalog", "books", len(books), "fingerprint", result.Fingerprint)
	return result, nil
}

// stored reports whether the store already holds exactly books.
func (s *Service) stored(ctx context.Context, books []models.Book) bool {
	current, err := s.store.Load(ctx)
	if err != nil {
		slog.Debug("Could not read store for comparison", "err", err)
		return false
	}
	return slices.Equal(current, books)
}

// replace swaps in books. The first catalog loaded into an empty service
// sets the detected terminal location.
func (s *Service) replace(logger *slog.Logger, books []models.Book) {
	s.mu.Lock()
	wasEmpty := len(s.books) == 0
	s.books = books
	s.mu.Unlock()

	if wasEmpty && len(books) > 0 && s.settings != nil {
		location := s.EstimateTerminalLocation()
		if err := s.settings.SetAutodetect(settings.TerminalLocation, string(location)); err != nil {
			logger.Warn("Failed to store detected terminal location", "err", err)
		}
	}
}

// Autodetect clears any explicit or detected value of key and stores the
// value estimated from the current catalog. Only the terminal location can
// be detected.
func (s *Service) Autodetect(key string) (string, error) {
	if key != settings.TerminalLocation {
		return "", fmt.Errorf("%w: %s", ErrNoDetection, key)
	}
	if s.settings == nil {
		return "", errors.New("no settings store configured")
	}

	location := string(s.EstimateTerminalLocation())
	if err := s.settings.Reset(key); err != nil {
		return "", fmt.Errorf("failed to reset %s: %w", key, err)
	}
	if err := s.settings.SetAutodetect(key, location); err != nil {
		return "", fmt.Errorf("failed to store detected %s: %w", key, err)
	}

	slog.Info("Detected setting", "key", key, "value", location, "books", s.Len())
	return location, nil
}

// Export renders the catalog in canonical column order.
func (s *Service) Export() models.ExportData {
	return codec.Encode(s.Books())
}

// Search returns a cursor over the catalog as it is now. Later imports do
// not affect it.
func (s *Service) Search(query string) *search.Cursor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// Import swaps the slice rather than writing into it, so sharing is safe.
	return search.New(s.books, query)
}

func (s *Service) HasData() bool {
	return s.Len() > 0
}

func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books)
}

// Books returns a copy of the catalog.
func (s *Service) Books() []models.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Book, len(s.books))
	copy(out, s.books)
	return out
}

// EstimateTerminalLocation returns the collection holding the most books.
// Ties go to the lending library, then the exhibition.
func (s *Service) EstimateTerminalLocation() models.LibraryID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[models.LibraryID]int)
	for _, b := range s.books {
		counts[b.LibraryID]++
	}

	best := models.LibraryLending
	for _, id := range []models.LibraryID{models.LibraryExpo, models.LibraryReadingRoom} {
		if counts[id] > counts[best] {
			best = id
		}
	}
	return best
}

// Fingerprint hashes a row set. Cells are length-prefixed so that moving
// text between neighboring cells changes the hash.
func Fingerprint(headers []string, rows [][]string) uint64 {
	h := xxh3.New()
	writeRow(h, headers)
	for _, row := range rows {
		writeRow(h, row)
	}
	return h.Sum64()
}

func writeRow(w io.Writer, row []string) {
	fmt.Fprintf(w, "%d\n", len(row))
	for _, cell := range row {
		fmt.Fprintf(w, "%d:%s", len(cell), cell)
	}
}
