// Package bresenham draws thick lines and polygons on images.
package bresenham

import (
	"image"
	"image/color"
	"image/draw"
)

func abs(n int) int {
	if n >= 0 {
		return n
	}
	return -n
}

// Pen draws with Color. Each point is a square of side 2*Weight+1.
type Pen struct {
	Color  color.Color
	Weight int
}

func (p Pen) Dot(img draw.Image, pt image.Point) {
	for i := -p.Weight; i <= p.Weight; i++ {
		for j := -p.Weight; j <= p.Weight; j++ {
			img.Set(pt.X+i, pt.Y+j, p.Color)
		}
	}
}

// Line draws from p0 to p1, both included.
// https://en.wikipedia.org/wiki/Bresenham%27s_line_algorithm
func (p Pen) Line(img draw.Image, p0, p1 image.Point) {
	dx, dy := abs(p1.X-p0.X), -abs(p1.Y-p0.Y)
	sx, sy := 1, 1
	if p1.X < p0.X {
		sx = -1
	}
	if p1.Y < p0.Y {
		sy = -1
	}
	x, y := p0.X, p0.Y
	acc := dx + dy
	for {
		p.Dot(img, image.Point{x, y})
		if x == p1.X && y == p1.Y {
			return
		}
		acc2 := 2 * acc
		if acc2 >= dy {
			acc += dy
			x += sx
		}
		if acc2 <= dx {
			acc += dx
			y += sy
		}
	}
}

// Polyline joins consecutive points. A single point is drawn as a dot.
func (p Pen) Polyline(img draw.Image, pts []image.Point) {
	if len(pts) == 1 {
		p.Dot(img, pts[0])
	}
	for i := 1; i < len(pts); i++ {
		p.Line(img, pts[i-1], pts[i])
	}
}

// Polygon is a Polyline closed back to its first point.
func (p Pen) Polygon(img draw.Image, pts []image.Point) {
	p.Polyline(img, pts)
	if len(pts) > 2 {
		p.Line(img, pts[len(pts)-1], pts[0])
	}
}
