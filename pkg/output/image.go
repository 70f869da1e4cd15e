package output

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// Format identifies an output image encoding
type Format string

const (
	FormatPPM  Format = "ppm"
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// ParseFormat resolves a format name, case-insensitively
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatPPM, FormatPNG, FormatBMP, FormatTIFF:
		return f, nil
	case "tif":
		return FormatTIFF, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want ppm, png, bmp or tiff)", name)
	}
}

// ImageBuffer collects rendered pixels into an RGBA raster
type ImageBuffer struct {
	img *image.RGBA
}

// NewImageBuffer creates an empty buffer; its raster is allocated by Begin
func NewImageBuffer() *ImageBuffer {
	return &ImageBuffer{}
}

// Begin allocates the raster
func (b *ImageBuffer) Begin(width, height int) error {
	b.img = image.NewRGBA(image.Rect(0, 0, width, height))
	return nil
}

// SetPixel quantizes and stores one pixel
func (b *ImageBuffer) SetPixel(x, y int, color core.Vec3) error {
	if b.img == nil {
		return fmt.Errorf("image buffer not started")
	}
	if !(image.Point{X: x, Y: y}.In(b.img.Rect)) {
		return fmt.Errorf("pixel (%d, %d) outside %v", x, y, b.img.Rect)
	}
	b.img.SetRGBA(x, y, renderer.ToRGBA(color))
	return nil
}

// End is a no-op; the raster is read back with Image
func (b *ImageBuffer) End() error {
	return nil
}

// Image returns the collected raster, or nil before Begin
func (b *ImageBuffer) Image() *image.RGBA {
	return b.img
}

// Upscale enlarges img by an integer factor with nearest-neighbour sampling,
// keeping each rendered pixel a sharp block
func Upscale(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx()*factor, bounds.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	return dst
}

// Encode writes img to w in a raster format
func Encode(w io.Writer, img image.Image, format Format) error {
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatPPM:
		err = encodePPM(w, img)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

// encodePPM writes an already quantized raster as P3, used when a PPM is upscaled
func encodePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	p := NewPPMWriter(w)
	if err := p.writeHeader(bounds.Dx(), bounds.Dy()); err != nil {
		return err
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if err := p.writeRGB(uint8(r>>8), uint8(g>>8), uint8(b>>8)); err != nil {
				return err
			}
		}
	}
	return p.w.Flush()
}
