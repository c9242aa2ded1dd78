package report

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"io"
	"math"

	"github.com/ughe/kami/bresenham"
	"github.com/ughe/kami/parser"
)

var (
	// BoundaryPen outlines the region of each line.
	BoundaryPen = bresenham.Pen{Color: color.RGBA{255, 0, 0, 255}, Weight: 1}
	// BaselinePen draws the baseline of each line.
	BaselinePen = bresenham.Pen{Color: color.RGBA{0, 0, 255, 255}, Weight: 1}
)

func toImagePoints(pts []parser.Point) []image.Point {
	out := make([]image.Point, len(pts))
	for i, p := range pts {
		out[i] = image.Point{int(math.Round(p.X)), int(math.Round(p.Y))}
	}
	return out
}

// Annotate draws the line boundaries and baselines of doc over img, a JPEG
// or PNG, and writes the result to w as a PNG.
func Annotate(w io.Writer, img []byte, doc *parser.Document, boundaries, baselines bool) error {
	m, _, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return err
	}
	dst := image.NewRGBA(m.Bounds())
	draw.Draw(dst, dst.Bounds(), m, m.Bounds().Min, draw.Src)
	for _, line := range doc.Lines {
		if boundaries {
			BoundaryPen.Polygon(dst, toImagePoints(line.Boundary))
		}
		if baselines {
			BaselinePen.Polyline(dst, toImagePoints(line.Baseline))
		}
	}
	return png.Encode(w, dst)
}
