package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/lehigh-university-libraries/booktab/internal/models"
)

// SQLiteStore keeps one row per book, ordered by catalog position.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS books (
			position    INTEGER PRIMARY KEY,
			code        TEXT NOT NULL DEFAULT '',
			title       TEXT NOT NULL DEFAULT '',
			author      TEXT NOT NULL DEFAULT '',
			publisher   TEXT NOT NULL DEFAULT '',
			publishers  TEXT NOT NULL DEFAULT '',
			year        TEXT NOT NULL DEFAULT '',
			num_copies  TEXT NOT NULL DEFAULT '',
			entry_id    TEXT NOT NULL DEFAULT '',
			entry_date  TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			library_id  TEXT NOT NULL DEFAULT ''
		)
	`)
	return err
}

func (s *SQLiteStore) Load(ctx context.Context) ([]models.Book, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, title, author, publisher, publishers, year, num_copies,
		       entry_id, entry_date, description, library_id
		FROM books ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		var b models.Book
		var library string
		if err := rows.Scan(
			&b.Code, &b.Title, &b.Author, &b.Publisher, &b.Publishers, &b.Year,
			&b.NumCopies, &b.EntryID, &b.EntryDate, &b.Description, &library,
		); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		b.LibraryID = models.LibraryID(library)
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read books: %w", err)
	}
	return books, nil
}

// Save replaces the table contents in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, books []models.Book) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM books"); err != nil {
		return fmt.Errorf("failed to clear books: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO books (position, code, title, author, publisher, publishers,
		                   year, num_copies, entry_id, entry_date, description, library_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, b := range books {
		if _, err := stmt.ExecContext(ctx,
			i, b.Code, b.Title, b.Author, b.Publisher, b.Publishers,
			b.Year, b.NumCopies, b.EntryID, b.EntryDate, b.Description, string(b.LibraryID),
		); err != nil {
			return fmt.Errorf("failed to insert book %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit books: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
