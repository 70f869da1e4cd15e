package output

import (
	"io"
	"log/slog"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// ProgressReporter logs scanline progress with grouped numbers ("12,480 pixels")
type ProgressReporter struct {
	logger   *slog.Logger
	printer  *message.Printer
	width    int
	interval time.Duration
	start    time.Time
	last     time.Time
	now      func() time.Time
}

// NewProgressReporter creates a reporter for an image width pixels wide.
// At most one line is logged per interval, plus the final line.
func NewProgressReporter(logger *slog.Logger, width int, interval time.Duration) *ProgressReporter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	return &ProgressReporter{
		logger:   logger,
		printer:  message.NewPrinter(language.English),
		width:    width,
		interval: interval,
		now:      time.Now,
	}
}

// Func returns the callback to install with Raytracer.SetProgress
func (p *ProgressReporter) Func() renderer.ProgressFunc {
	return p.Report
}

// Start marks the beginning of the render so elapsed time includes the first
// scanline. Without it the clock starts at the first Report.
func (p *ProgressReporter) Start() {
	now := p.now()
	p.start = now
	p.last = now
}

// Report records that rowsDone of totalRows scanlines are finished
func (p *ProgressReporter) Report(rowsDone, totalRows int) {
	now := p.now()
	if p.start.IsZero() {
		p.Start()
	}

	done := rowsDone == totalRows
	if !done && now.Sub(p.last) < p.interval {
		return
	}
	p.last = now

	p.logger.Info("render progress",
		"scanlines", p.printer.Sprintf("%d/%d", rowsDone, totalRows),
		"pixels", p.printer.Sprintf("%d", rowsDone*p.width),
		"percent", p.printer.Sprintf("%.1f%%", 100*float64(rowsDone)/float64(totalRows)),
		"elapsed", now.Sub(p.start).Round(time.Millisecond))
}
