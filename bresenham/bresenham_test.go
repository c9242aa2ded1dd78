package bresenham

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

var red = color.RGBA{255, 0, 0, 255}

func blankImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

func count(img *image.RGBA, c color.Color) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.At(x, y) == c {
				n++
			}
		}
	}
	return n
}

func TestDot(t *testing.T) {
	img := blankImage(20, 20)
	Pen{red, 2}.Dot(img, image.Point{10, 10})
	if n := count(img, red); n != 25 {
		t.Fatalf("Dot of weight 2 set %d pixels, want 25", n)
	}
	// Clipped at the border.
	img = blankImage(20, 20)
	Pen{red, 1}.Dot(img, image.Point{0, 0})
	if n := count(img, red); n != 4 {
		t.Fatalf("Dot in corner set %d pixels, want 4", n)
	}
}

func TestLine(t *testing.T) {
	cases := []struct {
		name   string
		p0, p1 image.Point
		want   int
	}{
		{"horizontal", image.Point{2, 5}, image.Point{12, 5}, 11},
		{"vertical upward", image.Point{5, 12}, image.Point{5, 2}, 11},
		{"diagonal", image.Point{0, 0}, image.Point{9, 9}, 10},
		{"steep right to left", image.Point{15, 1}, image.Point{12, 18}, 18},
		{"point", image.Point{3, 3}, image.Point{3, 3}, 1},
	}
	for _, c := range cases {
		img := blankImage(20, 20)
		Pen{red, 0}.Line(img, c.p0, c.p1)
		if n := count(img, red); n != c.want {
			t.Errorf("%s: %d pixels, want %d", c.name, n, c.want)
		}
		if img.At(c.p0.X, c.p0.Y) != red || img.At(c.p1.X, c.p1.Y) != red {
			t.Errorf("%s: end points not drawn", c.name)
		}
	}
}

func TestPolygon(t *testing.T) {
	img := blankImage(20, 20)
	square := []image.Point{{2, 2}, {12, 2}, {12, 12}, {2, 12}}
	Pen{red, 0}.Polygon(img, square)
	if n := count(img, red); n != 40 {
		t.Fatalf("square outline has %d pixels, want 40", n)
	}
	if img.At(7, 7) == red {
		t.Fatal("inside of the square is drawn")
	}

	img = blankImage(20, 20)
	Pen{red, 0}.Polyline(img, square)
	if img.At(2, 7) == red {
		t.Fatal("polyline is closed")
	}
}
