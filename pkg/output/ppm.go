package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// PPMWriter streams pixels as a plain-text P3 image. Each pixel is written
// as soon as it arrives, so memory use does not grow with image size.
type PPMWriter struct {
	w      *bufio.Writer
	width  int
	height int
	count  int
}

// NewPPMWriter creates a PPM writer on top of w
func NewPPMWriter(w io.Writer) *PPMWriter {
	return &PPMWriter{w: bufio.NewWriter(w)}
}

// Begin writes the P3 header
func (p *PPMWriter) Begin(width, height int) error {
	p.width = width
	p.height = height
	p.count = 0
	if err := p.writeHeader(width, height); err != nil {
		return fmt.Errorf("write ppm header: %w", err)
	}
	return nil
}

func (p *PPMWriter) writeHeader(width, height int) error {
	_, err := fmt.Fprintf(p.w, "P3\n%d %d\n255\n\n", width, height)
	return err
}

func (p *PPMWriter) writeRGB(r, g, b uint8) error {
	_, err := fmt.Fprintf(p.w, "%d %d %d\n", r, g, b)
	return err
}

// SetPixel writes one "R G B" line. Pixels must arrive in scanline order.
func (p *PPMWriter) SetPixel(x, y int, color core.Vec3) error {
	if expected := y*p.width + x; expected != p.count {
		return fmt.Errorf("ppm pixel (%d, %d) out of order, expected index %d", x, y, p.count)
	}
	c := renderer.ToRGBA(color)
	if err := p.writeRGB(c.R, c.G, c.B); err != nil {
		return fmt.Errorf("write ppm pixel: %w", err)
	}
	p.count++
	return nil
}

// End flushes buffered output
func (p *PPMWriter) End() error {
	if p.count != p.width*p.height {
		return fmt.Errorf("ppm image incomplete: %d of %d pixels written", p.count, p.width*p.height)
	}
	if err := p.w.Flush(); err != nil {
		return fmt.Errorf("flush ppm: %w", err)
	}
	return nil
}
