package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get missing: %v", err)
	}

	recs := []*Record{
		{
			ID: "a1",
			Meta: Metadata{
				FileName:       "chapter10.docx",
				UploadedAt:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
				OriginalSize:   3,
				HasImages:      true,
				DetectedStyles: []string{"Heading 1", "Normal"},
			},
			Original: []byte{1, 2, 3},
			HTML:     "<p>ten</p>",
			Text:     "ten",
		},
		{
			ID:   "b2",
			Meta: Metadata{FileName: "chapter2.docx", UploadedAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), OriginalSize: 1},
			Original: []byte{9},
			HTML:     "<p>two</p>",
			Text:     "two",
		},
	}
	for _, rec := range recs {
		if err := s.Put(ctx, rec); err != nil {
			t.Fatalf("put %s: %v", rec.ID, err)
		}
	}

	got, err := s.Get(ctx, "a1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Meta.FileName != "chapter10.docx" || !got.Meta.HasImages {
		t.Errorf("metadata: %+v", got.Meta)
	}
	if len(got.Meta.DetectedStyles) != 2 || got.Meta.DetectedStyles[0] != "Heading 1" {
		t.Errorf("styles: %v", got.Meta.DetectedStyles)
	}
	if string(got.Original) != "\x01\x02\x03" || got.HTML != "<p>ten</p>" || got.Text != "ten" {
		t.Errorf("payload: %+v", got)
	}
	if !got.Meta.UploadedAt.Equal(recs[0].Meta.UploadedAt) {
		t.Errorf("uploaded at: %v", got.Meta.UploadedAt)
	}

	// listing is naturally ordered: chapter2 before chapter10
	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("want 2 entries, got %d", len(entries))
	}
	if entries[0].Meta.FileName != "chapter2.docx" || entries[1].Meta.FileName != "chapter10.docx" {
		t.Errorf("order: %q, %q", entries[0].Meta.FileName, entries[1].Meta.FileName)
	}

	if err := s.Delete(ctx, "a1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, "a1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete: %v", err)
	}
	// deleting an unknown id is fine
	if err := s.Delete(ctx, "a1"); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	entries, err = s.List(ctx)
	if err != nil {
		t.Fatalf("list after clear: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries after clear: %d", len(entries))
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	testStore(t, s)
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "docs.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	testStore(t, s)
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	defer s.Close()

	rec := &Record{ID: "x", Meta: Metadata{FileName: "f.docx"}, HTML: "<p>a</p>"}
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("put: %v", err)
	}
	rec.HTML = "mutated"

	got, err := s.Get(ctx, "x")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.HTML != "<p>a</p>" {
		t.Errorf("caller mutation leaked into store: %q", got.HTML)
	}
}
