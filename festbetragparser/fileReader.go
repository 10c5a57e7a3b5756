// Package festbetragparser extracts structured medication records from the
// layout-preserving text of the German reference-price and co-payment
// exemption lists. The text is produced by an external pdftotext step; the
// parser only consumes the resulting line stream.
package festbetragparser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// openLines opens a source text file and returns a line scanner. Extracted
// text shows up both as UTF-8 and as ISO-8859-1 depending on the producing
// toolchain, so the content is sniffed and decoded before scanning.
func openLines(path string) (*bufio.Scanner, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var reader io.Reader
	if utf8.Valid(content) {
		reader = bytes.NewReader(content)
	} else {
		reader = charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(content))
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0), 1*1024*1024)
	return scanner, nil
}

var standDatumRegex = regexp.MustCompile(`(\d{4})(\d{2})(\d{2})`)

// StandDatumFromFilename derives the data date (DD.MM.YYYY) from a YYYYMMDD
// stamp in the source file name, e.g. "BfArM_Festbetraege_20251101.txt" ->
// "01.11.2025". Returns "" when the name carries no stamp.
func StandDatumFromFilename(path string) string {
	match := standDatumRegex.FindStringSubmatch(path)
	if match == nil {
		return ""
	}
	return fmt.Sprintf("%s.%s.%s", match[3], match[2], match[1])
}
