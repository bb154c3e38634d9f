package images

import (
	"path"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
)

// DetectFormat determines the true image format. Signature bytes win over
// everything else - a PNG that claims to be image/jpeg is still a PNG and
// writing it out under the wrong name produces a document consumers
// reject. Declared MIME and URL extension are only consulted when the
// payload is too mangled to recognize.
func DetectFormat(data []byte, declaredMime, src string) string {
	if f := formatFromMagic(data); f != "" {
		return f
	}
	if f := formatFromMime(declaredMime); f != "" {
		return f
	}
	if f := formatFromExt(src); f != "" {
		return f
	}
	return "png"
}

func formatFromMagic(data []byte) string {
	if len(data) < 4 {
		return ""
	}
	t, err := filetype.Match(data)
	if err != nil {
		return ""
	}
	switch t {
	case matchers.TypePng:
		return "png"
	case matchers.TypeJpeg:
		return "jpeg"
	case matchers.TypeGif:
		return "gif"
	case matchers.TypeBmp:
		return "bmp"
	case matchers.TypeWebp:
		return "webp"
	case matchers.TypeTiff:
		return "tiff"
	}
	// filetype has no SVG matcher (XML text), probe for it directly
	head := strings.TrimSpace(string(data[:min(len(data), 512)]))
	if strings.HasPrefix(head, "<svg") || (strings.HasPrefix(head, "<?xml") && strings.Contains(head, "<svg")) {
		return "svg"
	}
	return ""
}

func formatFromMime(mime string) string {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "image/png":
		return "png"
	case "image/jpeg", "image/jpg":
		return "jpeg"
	case "image/gif":
		return "gif"
	case "image/bmp":
		return "bmp"
	case "image/webp":
		return "webp"
	case "image/tiff":
		return "tiff"
	case "image/svg+xml":
		return "svg"
	}
	return ""
}

func formatFromExt(src string) string {
	if src == "" || strings.HasPrefix(src, "data:") {
		return ""
	}
	// strip query/fragment so URLs with cache busters still match
	if i := strings.IndexAny(src, "?#"); i >= 0 {
		src = src[:i]
	}
	switch strings.ToLower(path.Ext(src)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".webp":
		return "webp"
	case ".tif", ".tiff":
		return "tiff"
	case ".svg":
		return "svg"
	}
	return ""
}

// IsNativelySupported reports formats the destination container embeds
// as is. Everything else needs a re-encode before embedding.
func IsNativelySupported(format string) bool {
	switch format {
	case "png", "jpeg", "gif", "bmp":
		return true
	}
	return false
}
