// Package parser reads references and predictions: plain text files and
// PAGE or ALTO XML transcriptions.
package parser

import (
	"fmt"
	"os"
	"strings"
)

// Text returns the content of the file named source, cleaned with Clean.
// When no such file exists, source itself is the text.
func Text(source string) (string, error) {
	fi, err := os.Stat(source)
	if err != nil || fi.IsDir() {
		return source, nil
	}
	buf, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("parser: %v", err)
	}
	return Clean(string(buf)), nil
}

// Clean drops blank lines and ends every remaining line with "\n".
func Clean(content string) string {
	var sb strings.Builder
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
