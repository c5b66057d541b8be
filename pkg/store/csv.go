package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ccollicutt/gachalog/pkg/banner"
	"github.com/ccollicutt/gachalog/pkg/timeline"
)

// ErrUnknownFormat is returned when a table path has no recognized extension.
var ErrUnknownFormat = errors.New("unknown table format")

// WriteCSV writes records with a header row of banner.Columns. Absent
// rerun intervals are written as empty cells.
func WriteCSV(w io.Writer, records []banner.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(banner.Columns); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Version.String(),
			string(r.Phase),
			r.Character,
			strconv.Itoa(r.WishCount),
			strconv.Itoa(r.DaysSinceLaunch),
			strconv.Itoa(r.MajorVersion),
			r.IntervalString(),
			strconv.Itoa(r.RerunCount),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a table written by WriteCSV. Columns are located by
// header name, so extra columns and reordering are tolerated.
func ReadCSV(r io.Reader) ([]banner.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("empty table: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, col := range banner.Columns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	records := make([]banner.Record, 0)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec, err := decodeRow(row, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func decodeRow(row []string, idx map[string]int) (banner.Record, error) {
	var r banner.Record

	field := func(col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var err error
	if r.Version, err = timeline.ParseVersion(field("Version")); err != nil {
		return r, err
	}
	if r.Phase, err = banner.ParsePhase(field("Phase")); err != nil {
		return r, err
	}
	r.Character = field("Character")

	ints := []struct {
		col string
		dst *int
	}{
		{"WishCount", &r.WishCount},
		{"DaysSinceLaunch", &r.DaysSinceLaunch},
		{"MajorVersion", &r.MajorVersion},
		{"RerunCount", &r.RerunCount},
	}
	for _, f := range ints {
		n, err := parseIntCell(field(f.col))
		if err != nil {
			return r, fmt.Errorf("%s: %w", f.col, err)
		}
		*f.dst = n
	}

	if cell := field("RerunInterval"); cell != "" && !strings.EqualFold(cell, "nan") {
		n, err := parseIntCell(cell)
		if err != nil {
			return r, fmt.Errorf("RerunInterval: %w", err)
		}
		r.RerunInterval = &n
	}

	return r, nil
}

// parseIntCell accepts "49" as well as float-formatted "49.0".
func parseIntCell(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("non-integral value %q", s)
	}
	return int(f), nil
}

// LoadTable reads a persisted table, choosing CSV or SQLite by extension.
func LoadTable(ctx context.Context, path string) ([]banner.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path) // #nosec G304 -- user-provided table path is expected
		if err != nil {
			return nil, fmt.Errorf("opening table: %w", err)
		}
		defer f.Close()
		return ReadCSV(f)

	case ".db", ".sqlite", ".sqlite3":
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("opening table: %w", err)
		}
		db, err := Open(ctx, path)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return db.Load(ctx)

	default:
		return nil, fmt.Errorf("%w: %s (use .csv, .db, .sqlite)", ErrUnknownFormat, path)
	}
}

// SaveCSV writes records to a CSV file at path.
func SaveCSV(path string, records []banner.Record) error {
	f, err := os.Create(path) // #nosec G304 -- user-provided output path is expected
	if err != nil {
		return fmt.Errorf("creating table: %w", err)
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return fmt.Errorf("writing table: %w", err)
	}
	return f.Close()
}
