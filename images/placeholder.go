package images

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"qpc/docmodel"
)

const (
	placeholderW = 160
	placeholderH = 120
)

// Placeholder produces a neutral gray rectangle standing in for an image
// which could not be resolved. Returns nil only if PNG encoding itself
// fails, which should not happen.
func (r *Resolver) Placeholder() *docmodel.Image {
	img := image.NewRGBA(image.Rect(0, 0, placeholderW, placeholderH))
	fill := color.RGBA{0xE0, 0xE0, 0xE0, 0xFF}
	border := color.RGBA{0x9E, 0x9E, 0x9E, 0xFF}

	draw.Draw(img, img.Bounds(), &image.Uniform{C: fill}, image.Point{}, draw.Src)
	for x := 0; x < placeholderW; x++ {
		img.SetRGBA(x, 0, border)
		img.SetRGBA(x, placeholderH-1, border)
	}
	for y := 0; y < placeholderH; y++ {
		img.SetRGBA(0, y, border)
		img.SetRGBA(placeholderW-1, y, border)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return &docmodel.Image{
		Data:   buf.Bytes(),
		Format: "png",
		Width:  placeholderW,
		Height: placeholderH,
	}
}

// encodePNG serializes an image as PNG, optionally flattening
// transparency onto white.
func encodePNG(img image.Image, flatten bool) ([]byte, error) {
	if flatten {
		b := img.Bounds()
		flat := image.NewRGBA(b)
		draw.Draw(flat, b, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
		draw.Draw(flat, b, img, b.Min, draw.Over)
		img = flat
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
