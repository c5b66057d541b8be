package store

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ccollicutt/gachalog/pkg/banner"
	"github.com/ccollicutt/gachalog/pkg/timeline"
)

func sampleRecords() []banner.Record {
	interval := 49
	return []banner.Record{
		{
			Version:         timeline.VersionLabel{Major: 5, Minor: 2},
			Phase:           banner.PhaseA,
			Character:       "Chasca",
			WishCount:       109105,
			DaysSinceLaunch: 1512,
			MajorVersion:    5,
		},
		{
			Version:         timeline.VersionLabel{Major: 5, Minor: 2},
			Phase:           banner.PhaseB,
			Character:       "Kaedehara Kazuha",
			WishCount:       13980,
			DaysSinceLaunch: 1533,
			MajorVersion:    5,
			RerunInterval:   &interval,
			RerunCount:      3,
		},
	}
}

func assertSameRecords(t *testing.T, got, want []banner.Record) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.Version != w.Version || g.Phase != w.Phase || g.Character != w.Character ||
			g.WishCount != w.WishCount || g.DaysSinceLaunch != w.DaysSinceLaunch ||
			g.MajorVersion != w.MajorVersion || g.RerunCount != w.RerunCount {
			t.Errorf("record %d = %+v, want %+v", i, g, w)
		}
		if (g.RerunInterval == nil) != (w.RerunInterval == nil) {
			t.Errorf("record %d interval presence = %v, want %v", i, g.RerunInterval != nil, w.RerunInterval != nil)
		} else if g.RerunInterval != nil && *g.RerunInterval != *w.RerunInterval {
			t.Errorf("record %d interval = %d, want %d", i, *g.RerunInterval, *w.RerunInterval)
		}
	}
}

func TestWriteCSV_Header(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "Version,Phase,Character,WishCount,DaysSinceLaunch,MajorVersion,RerunInterval,RerunCount" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "5.2,A,Chasca,109105,1512,5,,0" {
		t.Errorf("first row = %q (absent interval must be empty)", lines[1])
	}
	if lines[2] != "5.2,B,Kaedehara Kazuha,13980,1533,5,49,3" {
		t.Errorf("second row = %q", lines[2])
	}
}

func TestCSV_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	assertSameRecords(t, got, sampleRecords())
}

func TestReadCSV_FloatIntervalsAndReorderedColumns(t *testing.T) {
	data := "Character,Version,Phase,WishCount,DaysSinceLaunch,MajorVersion,RerunInterval,RerunCount,Extra\n" +
		"Chasca,5.2,A,109105,1512,5,,0,x\n" +
		"Kaedehara Kazuha,5.2,B,13980,1533,5,49.0,3,y\n"

	got, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	assertSameRecords(t, got, sampleRecords())
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"missing column", "Version,Phase\n5.2,A\n"},
		{"bad phase", "Version,Phase,Character,WishCount,DaysSinceLaunch,MajorVersion,RerunInterval,RerunCount\n5.2,D,X,1,0,5,,0\n"},
		{"bad count", "Version,Phase,Character,WishCount,DaysSinceLaunch,MajorVersion,RerunInterval,RerunCount\n5.2,A,X,many,0,5,,0\n"},
		{"fractional interval", "Version,Phase,Character,WishCount,DaysSinceLaunch,MajorVersion,RerunInterval,RerunCount\n5.2,A,X,1,0,5,4.5,1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.data)); err == nil {
				t.Error("ReadCSV() expected error")
			}
		})
	}
}

func TestDB_SaveLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "gachalog.db")

	db, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if err := db.Save(ctx, sampleRecords()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := db.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	assertSameRecords(t, got, sampleRecords())
}

func TestDB_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "gachalog.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if err := db.Save(ctx, sampleRecords()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := db.Save(ctx, sampleRecords()[:1]); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	n, err := db.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestLoadTable(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "cleaned_wish_data.csv")
	if err := SaveCSV(csvPath, sampleRecords()); err != nil {
		t.Fatalf("SaveCSV() error = %v", err)
	}
	got, err := LoadTable(ctx, csvPath)
	if err != nil {
		t.Fatalf("LoadTable(csv) error = %v", err)
	}
	assertSameRecords(t, got, sampleRecords())

	dbPath := filepath.Join(dir, "table.sqlite")
	db, err := Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := db.Save(ctx, sampleRecords()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	db.Close()

	got, err = LoadTable(ctx, dbPath)
	if err != nil {
		t.Fatalf("LoadTable(sqlite) error = %v", err)
	}
	assertSameRecords(t, got, sampleRecords())
}

func TestLoadTable_Errors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	txt := filepath.Join(dir, "table.txt")
	if err := os.WriteFile(txt, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTable(ctx, txt); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("LoadTable(.txt) error = %v, want ErrUnknownFormat", err)
	}

	if _, err := LoadTable(ctx, filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("LoadTable(missing.csv) expected error")
	}
	if _, err := LoadTable(ctx, filepath.Join(dir, "missing.db")); err == nil {
		t.Error("LoadTable(missing.db) expected error")
	}
}
