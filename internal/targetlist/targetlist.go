// Package targetlist reads the scanner's address watchlist input: a plain
// UTF-8 text file, one Bitcoin address per line.
package targetlist

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
)

// Load reads path and returns every line that looks like a Bitcoin
// address. '#' starts a comment, leading/trailing whitespace is stripped,
// and blank lines are skipped silently. A line that survives stripping but
// does not start with "1", "3", or "bc1" is logged and skipped rather than
// treated as an error — the file as a whole is not rejected for one bad
// row.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening target list %s: %w", path, err)
	}
	defer f.Close()

	var addresses []string
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !hasValidPrefix(line) {
			log.Printf("targetlist: line %d: %q does not look like a Bitcoin address, skipping", lineNo, line)
			continue
		}
		addresses = append(addresses, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading target list %s: %w", path, err)
	}
	return addresses, nil
}

func hasValidPrefix(addr string) bool {
	return strings.HasPrefix(addr, "1") || strings.HasPrefix(addr, "3") || strings.HasPrefix(addr, "bc1")
}
