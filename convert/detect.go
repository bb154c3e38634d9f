package convert

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
)

// detection header size, enough for filetype's zip-based matchers
const sniffLen = 8192

func readFileHeader(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

// isArchiveFile reports whether path is a plain zip collection (as
// opposed to a .docx, which is also a zip container underneath).
func isArchiveFile(path string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return false, nil
	}
	buf, err := readFileHeader(path)
	if err != nil {
		return false, err
	}
	return filetype.IsType(buf, matchers.TypeZip), nil
}

// isDocxFile checks magic bytes, not just the extension: the importer
// only accepts real containers.
func isDocxFile(path string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(path), ".docx") {
		return false, nil
	}
	buf, err := readFileHeader(path)
	if err != nil {
		return false, err
	}
	// filetype distinguishes docx from bare zip when the header chunk
	// carries the content-types part; a plain zip signature is accepted
	// too since the importer validates the part structure itself
	if t, err := filetype.Match(buf); err == nil && t == matchers.TypeDocx {
		return true, nil
	}
	return filetype.IsType(buf, matchers.TypeZip), nil
}

// isDocxInArchive applies the same extension check to an archive entry.
func isDocxInArchive(f *zip.File) bool {
	return strings.EqualFold(filepath.Ext(f.FileHeader.Name), ".docx")
}
