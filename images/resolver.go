// Package images loads and prepares raster content for embedding: bytes
// come from data URIs, local files or the network, get converted to a
// container-supported encoding when needed and receive bounded display
// dimensions. A failed image never fails the surrounding conversion -
// callers get nil (or a placeholder when configured) and keep going.
package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/net/html"

	"qpc/css"
	"qpc/docmodel"
)

// Options control resolution behavior. Dimensions are in points.
type Options struct {
	MaxWidth              int
	MaxHeight             int
	JPEGQuality           int
	RemovePNGTransparency bool
	FetchRemote           bool
	FetchTimeout          time.Duration
	UsePlaceholder        bool
}

// rasterCap limits pixel dimensions of embedded bitmaps - anything larger
// gets downscaled before embedding, display size is bounded anyway and
// megapixel originals only bloat the container.
const rasterCap = 4

type Resolver struct {
	opt    Options
	client *http.Client
	log    *zap.Logger
}

func NewResolver(opt Options, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	if opt.MaxWidth <= 0 {
		opt.MaxWidth = 480
	}
	if opt.MaxHeight <= 0 {
		opt.MaxHeight = 600
	}
	if opt.JPEGQuality <= 0 {
		opt.JPEGQuality = 75
	}
	if opt.FetchTimeout <= 0 {
		opt.FetchTimeout = 20 * time.Second
	}
	return &Resolver{
		opt:    opt,
		client: &http.Client{Timeout: opt.FetchTimeout},
		log:    log.Named("images"),
	}
}

// Resolve turns an img element into an embeddable image. Returns nil
// (not an error) when the element cannot be resolved - a single bad
// image must not lose the rest of the document. The error return is
// reserved for context cancellation.
func (r *Resolver) Resolve(ctx context.Context, n *html.Node) (*docmodel.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src := attrValue(n, "src")
	if src == "" {
		return nil, nil
	}

	data, declaredMime, err := r.load(ctx, src)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		r.log.Warn("Unable to load image, skipping", zap.String("src", truncateSrc(src)), zap.Error(err))
		return r.placeholderOrNil(n), nil
	}

	format := DetectFormat(data, declaredMime, src)
	wantW, wantH := requestedDimensions(n)

	var naturalW, naturalH int
	if format == "svg" {
		img, err := RasterizeSVG(data, wantW, wantH)
		if err != nil {
			r.log.Warn("Unable to rasterize SVG, skipping", zap.String("src", truncateSrc(src)), zap.Error(err))
			return r.placeholderOrNil(n), nil
		}
		if data, err = encodePNG(img, r.opt.RemovePNGTransparency); err != nil {
			return r.placeholderOrNil(n), nil
		}
		format = "png"
		naturalW, naturalH = img.Bounds().Dx(), img.Bounds().Dy()
	} else if !IsNativelySupported(format) {
		// WebP/TIFF and friends - decode and re-encode as PNG
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			r.log.Warn("Unable to decode image, skipping", zap.String("src", truncateSrc(src)), zap.String("format", format), zap.Error(err))
			return r.placeholderOrNil(n), nil
		}
		img = r.capRaster(img)
		if data, err = encodePNG(img, r.opt.RemovePNGTransparency); err != nil {
			return r.placeholderOrNil(n), nil
		}
		format = "png"
		naturalW, naturalH = img.Bounds().Dx(), img.Bounds().Dy()
	} else {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err == nil {
			naturalW, naturalH = cfg.Width, cfg.Height
		}
		if data, format, err = r.normalizeRaster(data, format, naturalW, naturalH); err != nil {
			r.log.Warn("Unable to re-encode image, skipping", zap.String("src", truncateSrc(src)), zap.Error(err))
			return r.placeholderOrNil(n), nil
		}
	}

	w, h := FitDimensions(naturalW, naturalH, wantW, wantH, r.opt.MaxWidth, r.opt.MaxHeight)

	return &docmodel.Image{
		Data:      data,
		Format:    format,
		Width:     w,
		Height:    h,
		Alignment: inferAlignment(n),
	}, nil
}

// load fetches image bytes and the declared MIME type (when known).
func (r *Resolver) load(ctx context.Context, src string) ([]byte, string, error) {
	switch {
	case strings.HasPrefix(src, "data:"):
		return decodeDataURI(src)

	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		if !r.opt.FetchRemote {
			return nil, "", errors.New("remote image fetch is disabled")
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, "", err
		}
		resp, err := r.client.Do(req)
		if err != nil {
			return nil, "", err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, "", fmt.Errorf("unexpected status %s", resp.Status)
		}
		data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
		if err != nil {
			return nil, "", err
		}
		return data, resp.Header.Get("Content-Type"), nil

	default:
		data, err := os.ReadFile(src)
		return data, "", err
	}
}

func decodeDataURI(src string) ([]byte, string, error) {
	comma := strings.IndexByte(src, ',')
	if comma < 0 {
		return nil, "", errors.New("malformed data URI")
	}
	meta, payload := src[len("data:"):comma], src[comma+1:]

	mime := meta
	if i := strings.IndexByte(meta, ';'); i >= 0 {
		mime = meta[:i]
	}
	if !strings.Contains(meta, "base64") {
		return nil, "", errors.New("unsupported data URI encoding")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// editors occasionally produce URL-safe payloads
		if data, err = base64.URLEncoding.DecodeString(payload); err != nil {
			return nil, "", fmt.Errorf("unable to decode data URI payload: %w", err)
		}
	}
	return data, mime, nil
}

// normalizeRaster re-encodes natively supported formats only when
// required: transparency flattening for PNG and downscaling of oversized
// bitmaps.
func (r *Resolver) normalizeRaster(data []byte, format string, naturalW, naturalH int) ([]byte, string, error) {
	needScale := naturalW > r.opt.MaxWidth*rasterCap || naturalH > r.opt.MaxHeight*rasterCap
	needFlatten := format == "png" && r.opt.RemovePNGTransparency

	if !needScale && !needFlatten {
		return data, format, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		// cannot decode but signature said it is a supported format - embed as is
		return data, format, nil
	}
	if needScale {
		img = r.capRaster(img)
	}

	switch format {
	case "jpeg":
		out, err := EncodeJPEG(img, r.opt.JPEGQuality)
		return out, "jpeg", err
	default:
		out, err := encodePNG(img, needFlatten)
		return out, "png", err
	}
}

func (r *Resolver) capRaster(img image.Image) image.Image {
	maxW := r.opt.MaxWidth * rasterCap
	maxH := r.opt.MaxHeight * rasterCap
	b := img.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return img
	}
	return imaging.Fit(img, maxW, maxH, imaging.Lanczos)
}

func (r *Resolver) placeholderOrNil(n *html.Node) *docmodel.Image {
	if !r.opt.UsePlaceholder {
		return nil
	}
	img := r.Placeholder()
	if img != nil {
		img.Alignment = inferAlignment(n)
	}
	return img
}

// requestedDimensions extracts explicit display dimensions: inline style
// pixel values win over width/height attributes.
func requestedDimensions(n *html.Node) (int, int) {
	var w, h int

	if a, ok := intAttr(n, "width"); ok {
		w = a
	}
	if a, ok := intAttr(n, "height"); ok {
		h = a
	}

	decls := css.ParseDeclarations(attrValue(n, "style"))
	if v, ok := decls.Get("width"); ok {
		if px, ok := v.Pixels(); ok {
			w = int(px)
		}
	}
	if v, ok := decls.Get("height"); ok {
		if px, ok := v.Pixels(); ok {
			h = int(px)
		}
	}
	return w, h
}

// inferAlignment detects centering idioms on the element itself (block
// display with auto margins) or alignment on the nearest interested
// ancestor. Defaults to left.
func inferAlignment(n *html.Node) docmodel.Alignment {
	decls := css.ParseDeclarations(attrValue(n, "style"))
	if v, ok := decls.Get("margin"); ok && v.Contains("auto") {
		if d, ok := decls.Get("display"); ok && d.Contains("block") {
			return docmodel.AlignCenter
		}
	}
	ml, okl := decls.Get("margin-left")
	mr, okr := decls.Get("margin-right")
	if okl && okr && ml.Contains("auto") && mr.Contains("auto") {
		return docmodel.AlignCenter
	}

	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if a := alignmentFromNode(p); a != docmodel.AlignDefault {
			return a
		}
	}
	return docmodel.AlignLeft
}

func alignmentFromNode(n *html.Node) docmodel.Alignment {
	if v := strings.ToLower(attrValue(n, "align")); v != "" {
		if a := alignmentFromKeyword(v); a != docmodel.AlignDefault {
			return a
		}
	}
	class := strings.ToLower(attrValue(n, "class"))
	if strings.Contains(class, "text-center") || hasClassWord(class, "center") || hasClassWord(class, "centered") {
		return docmodel.AlignCenter
	}
	if v, ok := css.ParseDeclarations(attrValue(n, "style")).Get("text-align"); ok {
		return alignmentFromKeyword(v.Keyword)
	}
	return docmodel.AlignDefault
}

func alignmentFromKeyword(v string) docmodel.Alignment {
	switch {
	case strings.Contains(v, "center"):
		return docmodel.AlignCenter
	case strings.Contains(v, "right"):
		return docmodel.AlignRight
	case strings.Contains(v, "justify"):
		return docmodel.AlignJustify
	case strings.Contains(v, "left"):
		return docmodel.AlignLeft
	}
	return docmodel.AlignDefault
}

func hasClassWord(class, word string) bool {
	for _, c := range strings.Fields(class) {
		if c == word {
			return true
		}
	}
	return false
}

func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

func intAttr(n *html.Node, name string) (int, bool) {
	v := strings.TrimSuffix(strings.TrimSpace(attrValue(n, name)), "px")
	if v == "" {
		return 0, false
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		return 0, false
	}
	return i, true
}

func truncateSrc(src string) string {
	if len(src) > 96 {
		return src[:96] + "..."
	}
	return src
}
