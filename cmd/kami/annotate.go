package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ughe/kami/parser"
	"github.com/ughe/kami/report"
)

// annotatedName is page.jpg -> page.bl.png for boundaries and baselines.
func annotatedName(image string, boundaries, baselines bool) string {
	tag := ""
	if boundaries {
		tag += "b"
	}
	if baselines {
		tag += "l"
	}
	return fmt.Sprintf("%v.%v.png", strings.TrimSuffix(filepath.Base(image), filepath.Ext(image)), tag)
}

// Draws the line regions of a PAGE or ALTO file on its image
func annotateCommand(xmlPath, image, dst string, boundaries, baselines bool) error {
	doc, err := parser.ReadXML(xmlPath)
	if err != nil {
		return err
	}
	if len(doc.Lines) == 0 {
		return fmt.Errorf("Failed to annotate. No lines in: %s", xmlPath)
	}
	if image == "" {
		if doc.Image == "" {
			return fmt.Errorf("%s names no image", xmlPath)
		}
		image = filepath.Join(filepath.Dir(xmlPath), doc.Image)
	}
	img, err := os.ReadFile(image)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := report.Annotate(&buf, img, doc, boundaries, baselines); err != nil {
		return fmt.Errorf("%s: %v", image, err)
	}
	if dst == "" {
		dst = annotatedName(image, boundaries, baselines)
	}
	if err := os.WriteFile(dst, buf.Bytes(), 0600); err != nil {
		return err
	}
	fmt.Printf("[INFO] Annotated image: %v\n", dst)
	return nil
}
