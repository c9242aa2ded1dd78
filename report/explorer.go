package report

import (
	"os"
	"path"

	"github.com/ughe/explorer"
)

// ResultsFile is where Explorer saves the scores, relative to its directory.
const ResultsFile = "data/results.csv"

// Explorer writes the static explorer files to dir with the scores of
// entries, ready to be served.
func Explorer(dir string, entries []Entry) error {
	if err := os.MkdirAll(path.Join(dir, "js"), 0755); err != nil {
		return err
	}
	if err := os.MkdirAll(path.Join(dir, "data"), 0755); err != nil {
		return err
	}
	files := []struct {
		name string
		buf  []byte
	}{
		{"index.html", explorer.Index},
		{"style.css", explorer.Style},
		{path.Join("js", "main.js"), explorer.Main},
		{path.Join("js", "grid.js"), explorer.Grid},
	}
	for _, f := range files {
		if err := os.WriteFile(path.Join(dir, f.name), f.buf, 0644); err != nil {
			return err
		}
	}

	f, err := os.Create(path.Join(dir, ResultsFile))
	if err != nil {
		return err
	}
	if err := CSV(f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
