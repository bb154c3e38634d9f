package store

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id              TEXT PRIMARY KEY,
	file_name       TEXT NOT NULL,
	uploaded_at     INTEGER NOT NULL,
	original_size   INTEGER NOT NULL,
	has_images      INTEGER NOT NULL,
	detected_styles TEXT NOT NULL,
	original        BLOB NOT NULL,
	html            TEXT NOT NULL,
	raw_text        TEXT NOT NULL
);
`

// SQLite is the persistent store. A single connection guarded by a mutex
// is plenty for the import/export workload.
type SQLite struct {
	mu   sync.Mutex
	conn *sqlite.Conn
}

// OpenSQLite opens or creates the database file and ensures the schema.
func OpenSQLite(path string) (*SQLite, error) {
	conn, err := sqlite.OpenConn(path)
	if err != nil {
		return nil, fmt.Errorf("open document store %s: %w", path, err)
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("prepare document store schema: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

func (s *SQLite) Put(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetInterrupt(ctx.Done())

	err := sqlitex.Execute(s.conn,
		`INSERT OR REPLACE INTO documents
			(id, file_name, uploaded_at, original_size, has_images, detected_styles, original, html, raw_text)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{
			rec.ID,
			rec.Meta.FileName,
			rec.Meta.UploadedAt.UnixMilli(),
			rec.Meta.OriginalSize,
			boolInt(rec.Meta.HasImages),
			strings.Join(rec.Meta.DetectedStyles, "\n"),
			rec.Original,
			rec.HTML,
			rec.Text,
		}})
	if err != nil {
		return fmt.Errorf("store document %s: %w", rec.ID, err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetInterrupt(ctx.Done())

	var rec *Record
	err := sqlitex.Execute(s.conn,
		`SELECT id, file_name, uploaded_at, original_size, has_images, detected_styles, original, html, raw_text
			FROM documents WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{id},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				original, err := io.ReadAll(stmt.ColumnReader(6))
				if err != nil {
					return err
				}
				rec = &Record{
					ID:       stmt.ColumnText(0),
					Meta:     scanMetadata(stmt),
					Original: original,
					HTML:     stmt.ColumnText(7),
					Text:     stmt.ColumnText(8),
				}
				return nil
			}})
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", id, err)
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (s *SQLite) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetInterrupt(ctx.Done())

	if err := sqlitex.Execute(s.conn, `DELETE FROM documents WHERE id = ?`,
		&sqlitex.ExecOptions{Args: []any{id}}); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}

func (s *SQLite) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetInterrupt(ctx.Done())

	if err := sqlitex.Execute(s.conn, `DELETE FROM documents`, nil); err != nil {
		return fmt.Errorf("clear document store: %w", err)
	}
	return nil
}

func (s *SQLite) List(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetInterrupt(ctx.Done())

	var entries []Entry
	err := sqlitex.Execute(s.conn,
		`SELECT id, file_name, uploaded_at, original_size, has_images, detected_styles FROM documents`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			entries = append(entries, Entry{ID: stmt.ColumnText(0), Meta: scanMetadata(stmt)})
			return nil
		}})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	sortEntries(entries)
	return entries, nil
}

func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}

// scanMetadata reads the metadata columns, which occupy the same
// positions 1-5 in both queries.
func scanMetadata(stmt *sqlite.Stmt) Metadata {
	var styles []string
	if raw := stmt.ColumnText(5); raw != "" {
		styles = strings.Split(raw, "\n")
	}
	return Metadata{
		FileName:       stmt.ColumnText(1),
		UploadedAt:     time.UnixMilli(stmt.ColumnInt64(2)).UTC(),
		OriginalSize:   stmt.ColumnInt64(3),
		HasImages:      stmt.ColumnInt64(4) != 0,
		DetectedStyles: styles,
	}
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
