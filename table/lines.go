package table

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadLines reads a text file with one entry per line.
// Lines are trimmed and blank lines are dropped.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error processing the file at %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error processing the file at %s: %w", path, err)
	}
	return lines, nil
}
