package leadergeo

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"net/netip"
	"os"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Manual overrides let an operator pin or correct the geography of
// individual participants ahead of cluster discovery. The format is
// line-oriented: `<base58-key>,<geo-source>` where geo-source is an IP
// literal or a bucket label (case-insensitive, optional leading '@').
// Blank lines and lines starting with '#' are ignored.

// ParseOverrides reads override rows from r. Malformed rows are
// skipped with a warning, never fatal: a typo in a hand-edited file
// must not take down a generation run. Only a read failure is an
// error.
func ParseOverrides(r io.Reader) ([]InputRow, error) {
	scanner := bufio.NewScanner(r)
	var rows []InputRow
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		row, err := parseOverrideRow(line)
		if err != nil {
			log.Printf("warning: skipping override line %d: %v", lineNo, err)
			continue
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading overrides: %w", err)
	}
	return rows, nil
}

// ParseOverridesFile reads override rows from the file at path.
func ParseOverridesFile(path string) ([]InputRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening overrides: %w", err)
	}
	defer f.Close()
	return ParseOverrides(f)
}

func parseOverrideRow(line string) (InputRow, error) {
	keyText, srcText, ok := strings.Cut(line, ",")
	if !ok {
		return InputRow{}, fmt.Errorf("no comma separator in %q", line)
	}
	key, err := ParsePublicKey(strings.TrimSpace(keyText))
	if err != nil {
		return InputRow{}, err
	}
	src, err := parseGeoSource(strings.TrimSpace(srcText))
	if err != nil {
		return InputRow{}, err
	}
	return InputRow{Key: key, Source: src}, nil
}

// parseGeoSource accepts a bucket label or an IP address literal.
func parseGeoSource(text string) (GeoSource, error) {
	if b, ok := BucketFromLabel(text); ok {
		return SourceBucket(b), nil
	}
	if addr, err := netip.ParseAddr(text); err == nil {
		return SourceAddr(addr), nil
	}
	if hint := closestLabel(text); hint != "" {
		return GeoSource{}, fmt.Errorf("unusable geo source %q (did you mean %q?)", text, hint)
	}
	return GeoSource{}, fmt.Errorf("unusable geo source %q", text)
}

// overrideLabels lists the accepted labels for typo suggestions.
var overrideLabels = []string{"UNKNOWN", "EU", "NA", "APAC", "ME"}

// closestLabel returns the known bucket label within edit distance 2
// of the input, if any. Catches the common case of a misspelled label
// in a hand-edited file.
func closestLabel(text string) string {
	t := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(text, "@")))
	best, bestDist := "", 3
	for _, l := range overrideLabels {
		if d := levenshtein.ComputeDistance(t, l); d < bestDist {
			best, bestDist = l, d
		}
	}
	return best
}
