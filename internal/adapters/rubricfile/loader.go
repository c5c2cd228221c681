// Package rubricfile loads the rubric from its tabular CSV source: one row
// per criterion, keyword cells holding comma-delimited lists. The file is
// read once at startup and never written.
package rubricfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/talklens/talklens/internal/domain/rubric"
)

// Column names expected in the rubric header row (case-insensitive).
const (
	colName     = "name"
	colWeight   = "weight"
	colRequired = "required_keywords"
	colOptional = "optional_keywords"
	colMinWords = "min_words"
	colMaxWords = "max_words"
	colDesc     = "description"
)

var requiredColumns = []string{colName, colWeight, colRequired, colOptional, colMinWords, colMaxWords, colDesc}

// Load reads and validates the rubric at path. Any malformed row, missing
// column or rubric-level invariant violation wraps ErrLoad; the caller must
// treat that as fatal and refuse to serve.
func Load(path string) (*rubric.Rubric, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("open rubric %s: %w: %w", path, ErrLoad, err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse rubric %s: %w: %w", path, ErrLoad, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("rubric %s has no criterion rows: %w", path, ErrLoad)
	}

	cols, err := headerIndex(records[0])
	if err != nil {
		return nil, fmt.Errorf("rubric %s: %w: %w", path, ErrLoad, err)
	}

	criteria := make([]rubric.Criterion, 0, len(records)-1)
	for i, row := range records[1:] {
		c, err := parseRow(row, cols)
		if err != nil {
			return nil, fmt.Errorf("rubric %s row %d: %w: %w", path, i+2, ErrLoad, err)
		}
		criteria = append(criteria, c)
	}

	r, err := rubric.New(criteria)
	if err != nil {
		return nil, fmt.Errorf("rubric %s: %w: %w", path, ErrLoad, err)
	}
	return r, nil
}

func headerIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}
	return cols, nil
}

func parseRow(row []string, cols map[string]int) (rubric.Criterion, error) {
	cell := func(name string) string {
		idx := cols[name]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	weight, err := strconv.ParseFloat(cell(colWeight), 64)
	if err != nil {
		return rubric.Criterion{}, fmt.Errorf("weight %q: %w", cell(colWeight), err)
	}
	minWords, err := parseOptionalInt(cell(colMinWords))
	if err != nil {
		return rubric.Criterion{}, fmt.Errorf("min_words: %w", err)
	}
	maxWords, err := parseOptionalInt(cell(colMaxWords))
	if err != nil {
		return rubric.Criterion{}, fmt.Errorf("max_words: %w", err)
	}

	return rubric.Criterion{
		Name:             cell(colName),
		Weight:           weight,
		RequiredKeywords: splitKeywords(cell(colRequired)),
		OptionalKeywords: splitKeywords(cell(colOptional)),
		MinWords:         minWords,
		MaxWords:         maxWords,
		Description:      cell(colDesc),
	}, nil
}

// parseOptionalInt treats an empty cell as "no bound".
func parseOptionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("integer %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative bound %d", n)
	}
	return n, nil
}

// splitKeywords parses a comma-delimited keyword cell.
func splitKeywords(cell string) []string {
	if cell == "" {
		return nil
	}
	parts := strings.Split(cell, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		if kw := strings.TrimSpace(p); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}
