// Package compose flattens background images for embedding in a page.
//
// PDF and PNG backdrops in this module are always opaque, so translucency is
// simulated: [ApplyOpacity] blends the source over a white canvas of the same
// size. An opacity of 0 yields pure white, 100 yields the source itself
// (flattened onto white where it carried its own transparency).
package compose

import (
	"bytes"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register WebP alongside imaging's formats

	"github.com/matzehuels/handbook/pkg/errors"
)

// White is the backdrop every image is flattened onto.
var White = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// ApplyOpacity composites img over an opaque white canvas with the given
// opacity percent (0-100). The result has the same pixel dimensions as img,
// every pixel fully opaque, and shares no memory with img.
//
// Per channel the result is white*(1-a) + src*a with a = percent/100 scaled
// by the source pixel's own alpha, which is the same as flattening a
// translucent source onto white first and then blending.
func ApplyOpacity(img image.Image, percent float64) *image.NRGBA {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), White)
	if b.Empty() {
		return bg
	}
	return imaging.Overlay(bg, img, image.Pt(0, 0), percent/100)
}

// Decode reads an uploaded image. JPEG, PNG, GIF, TIFF, BMP and WebP are
// accepted and EXIF orientation is applied so phone photos come out upright.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageDecode, err, "decode background image")
	}
	if img.Bounds().Empty() {
		return nil, errors.New(errors.ErrCodeImageDecode, "background image has no pixels")
	}
	return img, nil
}

// DecodeBytes is Decode for an in-memory upload.
func DecodeBytes(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeImageDecode, "background image is empty")
	}
	return Decode(bytes.NewReader(data))
}

// Fit downscales img so its longest edge is at most maxEdge pixels,
// preserving the aspect ratio. Images already within bounds, and
// maxEdge <= 0, return img unchanged.
func Fit(img image.Image, maxEdge int) image.Image {
	b := img.Bounds()
	if maxEdge <= 0 || (b.Dx() <= maxEdge && b.Dy() <= maxEdge) {
		return img
	}
	return imaging.Fit(img, maxEdge, maxEdge, imaging.Lanczos)
}

// Stretch resamples img to exactly w x h pixels without preserving the
// aspect ratio. It is used to place a background full-bleed on a page whose
// proportions differ from the photo's.
func Stretch(img image.Image, w, h int) *image.NRGBA {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, w, h, imaging.Linear)
}
