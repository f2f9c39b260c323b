// Package storage persists block documents in a SQLite database. Documents
// are stored whole, as zstd compressed JSON, and every save replaces the
// previous body in a single transaction.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"go.uber.org/multierr"

	"github.com/rubiojr/blockpress/pkg/core"
	"github.com/rubiojr/blockpress/pkg/db"
	"github.com/rubiojr/blockpress/pkg/log"
)

// ErrNotFound is returned for unknown document ids.
var ErrNotFound = errors.New("document not found")

var logger = log.ForService("storage")

// Record describes a stored document.
type Record struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Target    string    `json:"target"`
	Version   int       `json:"version"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store is a document store backed by one SQLite file.
type Store struct {
	db      *sql.DB
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	now     func() time.Time
}

// OpenDatabase opens the SQLite file at path with the store's pragmas but
// without touching the schema.
func OpenDatabase(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
		"PRAGMA temp_store = memory",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			return nil, multierr.Append(fmt.Errorf("applying pragma %q: %w", pragma, err), conn.Close())
		}
	}
	return conn, nil
}

// Open opens (creating if needed) the database at path and applies pending
// migrations.
func Open(path string) (*Store, error) {
	conn, err := OpenDatabase(path)
	if err != nil {
		return nil, err
	}

	if err := db.InitializeDatabase(conn); err != nil {
		return nil, multierr.Append(err, conn.Close())
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("creating zstd encoder: %w", err), conn.Close())
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, multierr.Combine(fmt.Errorf("creating zstd decoder: %w", err), encoder.Close(), conn.Close())
	}

	return &Store{db: conn, encoder: encoder, decoder: decoder, now: time.Now}, nil
}

// Close releases the codecs and the database handle.
func (s *Store) Close() error {
	s.decoder.Close()
	return multierr.Combine(s.encoder.Close(), s.db.Close())
}

// DB returns the underlying connection, for migrations tooling.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Save stores doc under id, replacing any previous body and bumping the
// stored version. A new id creates the document.
func (s *Store) Save(ctx context.Context, id, name, target string, doc *core.Document) (Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Record{}, errors.New("document id is required")
	}
	if doc == nil {
		return Record{}, errors.New("document is nil")
	}

	body, err := doc.Encode()
	if err != nil {
		return Record{}, fmt.Errorf("encoding document %s: %w", id, err)
	}
	compressed := s.encoder.EncodeAll(body, nil)
	now := s.now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, fmt.Errorf("beginning transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				logger.Warnf("failed to rollback transaction: %v", err)
			}
		}
	}()

	rec := Record{ID: id, Name: name, Target: target, Size: len(body), UpdatedAt: now}

	var created string
	err = tx.QueryRowContext(ctx, `SELECT version, created_at FROM documents WHERE id = ?`, id).Scan(&rec.Version, &created)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		rec.Version = 1
		rec.CreatedAt = now
		_, err = tx.ExecContext(ctx, `
			INSERT INTO documents (id, name, target, version, body, size, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, rec.ID, rec.Name, rec.Target, rec.Version, compressed, rec.Size, formatTime(now), formatTime(now))
	case err != nil:
		return Record{}, fmt.Errorf("looking up document %s: %w", id, err)
	default:
		rec.Version++
		rec.CreatedAt = parseTime(created)
		_, err = tx.ExecContext(ctx, `
			UPDATE documents SET name = ?, target = ?, version = ?, body = ?, size = ?, updated_at = ?
			WHERE id = ?
		`, rec.Name, rec.Target, rec.Version, compressed, rec.Size, formatTime(now), rec.ID)
	}
	if err != nil {
		return Record{}, fmt.Errorf("writing document %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return Record{}, fmt.Errorf("committing document %s: %w", id, err)
	}
	committed = true

	logger.Debugf("saved document %s v%d (%d bytes, %d compressed)", id, rec.Version, len(body), len(compressed))
	return rec, nil
}

// Load returns the document stored under id.
func (s *Store) Load(ctx context.Context, id string) (*core.Document, Record, error) {
	var (
		rec              Record
		body             []byte
		created, updated string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, target, version, size, body, created_at, updated_at
		FROM documents WHERE id = ?
	`, id).Scan(&rec.ID, &rec.Name, &rec.Target, &rec.Version, &rec.Size, &body, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, Record{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, Record{}, fmt.Errorf("loading document %s: %w", id, err)
	}
	rec.CreatedAt, rec.UpdatedAt = parseTime(created), parseTime(updated)

	raw, err := s.decoder.DecodeAll(body, nil)
	if err != nil {
		return nil, Record{}, fmt.Errorf("decompressing document %s: %w", id, err)
	}
	doc, err := core.DecodeDocument(raw)
	if err != nil {
		return nil, Record{}, fmt.Errorf("decoding document %s: %w", id, err)
	}
	return doc, rec, nil
}

// List returns every stored document, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, target, version, size, created_at, updated_at
		FROM documents ORDER BY updated_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Warnf("failed to close rows: %v", err)
		}
	}()

	var out []Record
	for rows.Next() {
		var (
			rec              Record
			created, updated string
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Target, &rec.Version, &rec.Size, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		rec.CreatedAt, rec.UpdatedAt = parseTime(created), parseTime(updated)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Delete removes the document stored under id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		logger.Warnf("unparseable timestamp %q: %v", s, err)
	}
	return t
}
