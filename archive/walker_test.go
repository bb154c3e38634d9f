package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func makeZip(t *testing.T, names []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := zip.NewWriter(f)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		w.Write([]byte("x"))
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	f.Close()
	return path
}

func TestWalkNaturalOrder(t *testing.T) {
	path := makeZip(t, []string{"chapter10.docx", "chapter2.docx", "chapter1.docx"})

	var got []string
	err := Walk(path, "", func(_ string, f *zip.File) error {
		got = append(got, f.FileHeader.Name)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	want := []string{"chapter1.docx", "chapter2.docx", "chapter10.docx"}
	if len(got) != len(want) {
		t.Fatalf("visited %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("visited %v, want %v", got, want)
		}
	}
}

func TestWalkPatternFilter(t *testing.T) {
	path := makeZip(t, []string{"keep/a.docx", "skip/b.docx"})

	count := 0
	err := Walk(path, "keep/", func(_ string, f *zip.File) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if count != 1 {
		t.Fatalf("visited %d entries, want 1", count)
	}
}

func TestWalkRejectsTraversal(t *testing.T) {
	path := makeZip(t, []string{"../evil.docx"})

	err := Walk(path, "", func(_ string, _ *zip.File) error { return nil })
	if err == nil {
		t.Fatal("path traversal entry must abort the walk")
	}
}
