package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/booktab/internal/models"
)

var sample = []models.Book{
	{Code: "12ΑΒγδ345", Title: "Η Μεγάλη Χίμαιρα", Author: "Μ. Καραγάτσης", LibraryID: models.LibraryLending},
	{Code: "χχΧΧχχΧΧ", Title: "Ποιήματα", Year: "1935", LibraryID: models.LibraryReadingRoom},
	{Code: "3Κλμ10", Title: "Ο Καπετάν Μιχάλης", Description: "Μυθιστόρημα"},
}

func TestStores(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		driver string
		path   string
	}{
		{name: "memory", driver: DriverMemory},
		{name: "json file", driver: DriverFile, path: filepath.Join(dir, "books.json")},
		{name: "zstd file", driver: DriverFile, path: filepath.Join(dir, "nested", "books.json.zst")},
		{name: "sqlite", driver: DriverSQLite, path: filepath.Join(dir, "books.db")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()

			store, err := Open(tt.driver, tt.path)
			if err != nil {
				t.Fatalf("Failed to open store: %v", err)
			}
			defer store.Close()

			books, err := store.Load(ctx)
			if err != nil {
				t.Fatalf("Failed to load empty store: %v", err)
			}
			if len(books) != 0 {
				t.Errorf("Expected empty store, got %d books", len(books))
			}

			if err := store.Save(ctx, sample); err != nil {
				t.Fatalf("Failed to save: %v", err)
			}

			books, err = store.Load(ctx)
			if err != nil {
				t.Fatalf("Failed to load: %v", err)
			}
			if !reflect.DeepEqual(books, sample) {
				t.Errorf("Expected %+v, got %+v", sample, books)
			}

			// Save replaces the previous contents.
			if err := store.Save(ctx, sample[:1]); err != nil {
				t.Fatalf("Failed to save: %v", err)
			}
			books, err = store.Load(ctx)
			if err != nil {
				t.Fatalf("Failed to load: %v", err)
			}
			if len(books) != 1 {
				t.Errorf("Expected 1 book, got %d", len(books))
			}
		})
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("postgres", "")
	if !errors.Is(err, ErrUnknownDriver) {
		t.Errorf("Expected ErrUnknownDriver, got %v", err)
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	_, err := NewFile(path).Load(context.Background())
	if err == nil {
		t.Error("Expected error for corrupt catalog file")
	}
}

func TestFileStorePersistedShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	store := NewFile(path)

	if err := store.Save(context.Background(), sample[:1]); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}

	for _, key := range []string{`"code"`, `"title"`, `"author"`, `"libraryId"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("Expected persisted catalog to contain %s", key)
		}
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	store := NewMemory()
	books := append([]models.Book(nil), sample...)

	if err := store.Save(context.Background(), books); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	books[0].Title = "changed"

	loaded, _ := store.Load(context.Background())
	if loaded[0].Title != sample[0].Title {
		t.Errorf("Expected %s, got %s", sample[0].Title, loaded[0].Title)
	}
}
