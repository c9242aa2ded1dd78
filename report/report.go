// Package report renders evaluations as CSV, as a PDF document, and as a
// static explorer site.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ughe/kami/metrics"
	"github.com/ughe/kami/pipeline"
)

// Entry is the evaluation of one document.
type Entry struct {
	Name   string
	Report *pipeline.Report
}

// Header is the first row written by CSV.
func Header() []string {
	return append([]string{"name", "variant"}, metrics.Keys...)
}

func format(v interface{}) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case string:
		return x
	}
	return fmt.Sprint(v)
}

// Rows lists one row per board of e.
func (e Entry) Rows() [][]string {
	rows := make([][]string, 0, len(e.Report.Variants))
	for _, v := range e.Report.Variants {
		row := []string{e.Name, v.Name}
		for _, entry := range v.Board.Entries() {
			row = append(row, format(entry.Value))
		}
		rows = append(rows, row)
	}
	return rows
}

// CSV writes the boards of every entry, one row per board.
func CSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.WriteAll(e.Rows()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
