package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrUnknownFormat is returned for XML that is neither PAGE nor ALTO.
var ErrUnknownFormat = errors.New("parser: not a PAGE or ALTO document")

type Format int

const (
	Page Format = iota
	Alto
)

func (f Format) String() string {
	switch f {
	case Page:
		return "PAGE"
	case Alto:
		return "ALTO"
	}
	return "Format(" + strconv.Itoa(int(f)) + ")"
}

type Point struct {
	X, Y float64
}

// Line is one transcribed text line and its position on the image.
// Baseline is nil when the document has none.
type Line struct {
	Text     string
	Boundary []Point
	Baseline []Point
}

type Document struct {
	Format Format
	// File is the base name of the file the document was read from.
	File string
	// Image is the file name of the transcribed image, when given.
	Image string
	Lines []Line
}

// Texts lists the text of each line.
func (d *Document) Texts() []string {
	texts := make([]string, len(d.Lines))
	for i, l := range d.Lines {
		texts[i] = l.Text
	}
	return texts
}

// Content joins the lines with "\n".
func (d *Document) Content() string {
	return strings.Join(d.Texts(), "\n")
}

type node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Content string     `xml:",chardata"`
	Nodes   []node     `xml:",any"`
}

func (n *node) attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (n *node) child(name string) *node {
	for i := range n.Nodes {
		if n.Nodes[i].XMLName.Local == name {
			return &n.Nodes[i]
		}
	}
	return nil
}

// find returns the first descendant of n named name, depth first.
func (n *node) find(name string) *node {
	for i := range n.Nodes {
		c := &n.Nodes[i]
		if c.XMLName.Local == name {
			return c
		}
		if d := c.find(name); d != nil {
			return d
		}
	}
	return nil
}

// findAll returns the descendants of n named name in document order,
// without looking inside a match.
func (n *node) findAll(name string) []*node {
	var out []*node
	for i := range n.Nodes {
		c := &n.Nodes[i]
		if c.XMLName.Local == name {
			out = append(out, c)
			continue
		}
		out = append(out, c.findAll(name)...)
	}
	return out
}

// ReadXML parses the PAGE or ALTO file at path.
func ReadXML(path string) (*Document, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("parser: %v", err)
	}
	doc, err := ParseXML(buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.File = filepath.Base(path)
	return doc, nil
}

// ParseXML parses a PAGE or ALTO document.
func ParseXML(data []byte) (*Document, error) {
	var root node
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parser: %v", err)
	}
	switch strings.ToLower(root.XMLName.Local) {
	case "pcgts":
		return parsePage(&root)
	case "alto":
		return parseAlto(&root)
	}
	return nil, fmt.Errorf("%w: root element %q", ErrUnknownFormat, root.XMLName.Local)
}

func parsePage(root *node) (*Document, error) {
	doc := &Document{Format: Page}
	if p := root.find("Page"); p != nil {
		doc.Image, _ = p.attr("imageFilename")
	}
	for _, tl := range root.findAll("TextLine") {
		var line Line
		var err error
		if c := tl.child("Coords"); c != nil {
			pts, _ := c.attr("points")
			if line.Boundary, err = parsePoints(pts); err != nil {
				return nil, fmt.Errorf("parser: TextLine Coords: %v", err)
			}
		}
		if b := tl.child("Baseline"); b != nil {
			pts, _ := b.attr("points")
			if line.Baseline, err = parsePoints(pts); err != nil {
				return nil, fmt.Errorf("parser: TextLine Baseline: %v", err)
			}
		}
		// The line's own TextEquiv wins over the ones of its words.
		var u *node
		if te := tl.child("TextEquiv"); te != nil {
			u = te.child("Unicode")
		}
		if u == nil {
			u = tl.find("Unicode")
		}
		if u != nil {
			line.Text = u.Content
		}
		doc.Lines = append(doc.Lines, line)
	}
	return doc, nil
}

func parseAlto(root *node) (*Document, error) {
	doc := &Document{Format: Alto}
	if info := root.find("sourceImageInformation"); info != nil {
		if f := info.child("fileName"); f != nil {
			doc.Image = strings.TrimSpace(f.Content)
		}
	}
	for _, tl := range root.findAll("TextLine") {
		var words []string
		for _, s := range tl.findAll("String") {
			if w, ok := s.attr("CONTENT"); ok {
				words = append(words, w)
			}
		}
		line := Line{Text: strings.Join(words, " ")}

		box, err := altoBox(tl)
		if err != nil {
			return nil, err
		}
		if poly := tl.find("Polygon"); poly != nil {
			pts, _ := poly.attr("POINTS")
			if line.Boundary, err = parsePoints(pts); err != nil {
				return nil, fmt.Errorf("parser: TextLine Polygon: %v", err)
			}
		} else if box != nil {
			x, y, w, h := box[0], box[1], box[2], box[3]
			line.Boundary = []Point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
		}
		if bl, ok := tl.attr("BASELINE"); ok {
			if line.Baseline, err = altoBaseline(bl, box); err != nil {
				return nil, fmt.Errorf("parser: TextLine BASELINE: %v", err)
			}
		}
		doc.Lines = append(doc.Lines, line)
	}
	return doc, nil
}

// altoBox returns HPOS, VPOS, WIDTH and HEIGHT, or nil when one is missing.
func altoBox(n *node) ([]float64, error) {
	box := make([]float64, 4)
	for i, name := range []string{"HPOS", "VPOS", "WIDTH", "HEIGHT"} {
		v, ok := n.attr(name)
		if !ok {
			return nil, nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("parser: TextLine %s: %v", name, err)
		}
		box[i] = clamp(f)
	}
	return box, nil
}

// altoBaseline reads either a list of points or a single ordinate, which
// spans the width of the line.
func altoBaseline(s string, box []float64) ([]Point, error) {
	if y, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		if box == nil {
			return nil, nil
		}
		y = clamp(y)
		return []Point{{box[0], y}, {box[0] + box[2], y}}, nil
	}
	return parsePoints(s)
}

// parsePoints reads "x1,y1 x2,y2 ..." as well as "x1 y1 x2 y2 ...".
// Negative coordinates are set to 0.
func parsePoints(s string) ([]Point, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields)%2 != 0 {
		return nil, fmt.Errorf("odd number of coordinates in %q", s)
	}
	pts := make([]Point, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		x, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, err
		}
		y, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, err
		}
		pts = append(pts, Point{clamp(x), clamp(y)})
	}
	return pts, nil
}

func clamp(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
