// Package storage persists the whole catalog as an ordered list of books.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/lehigh-university-libraries/booktab/internal/models"
)

var ErrUnknownDriver = errors.New("unknown store driver")

// Store loads and saves the catalog as a whole. Save replaces everything
// previously stored.
type Store interface {
	Load(ctx context.Context) ([]models.Book, error)
	Save(ctx context.Context, books []models.Book) error
	Close() error
}

const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Open returns the store for driver. path is ignored by the memory driver.
func Open(driver, path string) (Store, error) {
	switch driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFile:
		return NewFile(path), nil
	case DriverSQLite:
		return NewSQLite(path)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
}

func clone(books []models.Book) []models.Book {
	if books == nil {
		return nil
	}
	out := make([]models.Book, len(books))
	copy(out, books)
	return out
}
