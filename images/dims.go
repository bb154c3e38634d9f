package images

import "math"

// FitDimensions computes display dimensions for an image. wantW/wantH are
// the explicitly requested dimensions (0 means unspecified, style pixels
// take priority over attributes upstream), naturalW/naturalH come from the
// decoded image, maxW/maxH is the hard display bound.
//
// Aspect ratio is always preserved and the result never upscales beyond
// the bound. With no explicit request the natural size is used, shrunk to
// fit the bound when necessary.
func FitDimensions(naturalW, naturalH, wantW, wantH, maxW, maxH int) (int, int) {
	if naturalW <= 0 || naturalH <= 0 {
		// nothing to preserve, trust the request or fall back to bound
		w, h := wantW, wantH
		if w <= 0 && h <= 0 {
			return maxW, maxH
		}
		if w <= 0 {
			w = h
		}
		if h <= 0 {
			h = w
		}
		return clampBox(w, h, maxW, maxH)
	}

	ratio := float64(naturalH) / float64(naturalW)

	var w, h int
	switch {
	case wantW > 0 && wantH > 0:
		w, h = wantW, wantH
	case wantW > 0:
		w = wantW
		h = int(math.Round(float64(wantW) * ratio))
	case wantH > 0:
		h = wantH
		w = int(math.Round(float64(wantH) / ratio))
	default:
		w, h = naturalW, naturalH
	}

	return clampBox(w, h, maxW, maxH)
}

// clampBox shrinks (never grows) a box to fit the bound keeping its
// aspect ratio.
func clampBox(w, h, maxW, maxH int) (int, int) {
	w = max(w, 1)
	h = max(h, 1)
	if w <= maxW && h <= maxH {
		return w, h
	}
	s := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	return max(int(math.Round(float64(w)*s)), 1), max(int(math.Round(float64(h)*s)), 1)
}
