package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/cellmatch/core"
)

// Options controls how a dataset is read.
type Options struct {
	// Delimiter separates fields. Zero means ';'.
	Delimiter rune
	// ParseDates enables date detection for text columns.
	ParseDates bool
}

// DefaultOptions returns the options used for the shipment dataset.
func DefaultOptions() Options {
	return Options{
		Delimiter:  ';',
		ParseDates: true,
	}
}

// Load reads a delimited file whose first line is the header.
func Load(path string, opts Options) (*core.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	tbl, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}
	slog.Default().With("component", "table").Info("dataset loaded",
		"path", path, "rows", tbl.Rows(), "columns", len(tbl.Columns()))
	return tbl, nil
}

// Read parses a delimited stream whose first record is the header.
// Every record must have as many fields as the header.
func Read(r io.Reader, opts Options) (*core.Table, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = ';'
	}
	if opts.Delimiter == '"' || opts.Delimiter == '\r' || opts.Delimiter == '\n' {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDelimiter, opts.Delimiter)
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyInput
		}
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	cells := make([][]string, len(header))
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		for i, field := range record {
			cells[i] = append(cells[i], field)
		}
	}

	columns := make([]*core.Column, len(header))
	for i, name := range header {
		columns[i] = inferColumn(strings.TrimSpace(name), cells[i], opts.ParseDates)
	}
	return core.NewTable(columns...)
}
