package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/gachalog/pkg/config"
	"github.com/ccollicutt/gachalog/pkg/output"
	"github.com/ccollicutt/gachalog/pkg/store"
)

const sampleReport = `export header
1.0 A
1,234,567
Venti Summoned

1.0 B
2,000,000
Klee Summoned

1.4 A
345,678
Venti Summoned

2.2 B
9,001 Venti Summoned
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// run executes cmd with args and returns what it wrote to stdout.
func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNewExtractCommand(t *testing.T) {
	cmd := NewExtractCommand()

	if cmd.Use != "extract [report...]" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	flags := []string{"config", "marker", "output", "out", "db", "verbose", "quiet",
		"webhook-url", "webhook-token", "webhook-trigger"}
	for _, flag := range flags {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestCommandUsage(t *testing.T) {
	tests := []struct {
		cmd  *cobra.Command
		want string
	}{
		{NewHistoryCommand(), "history <character> [report...]"},
		{NewStatsCommand(), "stats <table>"},
		{NewTimelineCommand(), "timeline"},
		{NewDiagnoseCommand(), "diagnose <report>"},
		{NewValidateCommand(), "validate <config-file>"},
		{NewVersionCommand(), "version"},
	}

	for _, tt := range tests {
		if tt.cmd.Use != tt.want {
			t.Errorf("Use = %q, want %q", tt.cmd.Use, tt.want)
		}
	}
}

func TestRunExtract_JSON(t *testing.T) {
	dir := t.TempDir()
	report := writeFile(t, dir, "wish_stats.txt", sampleReport)

	out, err := run(t, NewExtractCommand(), "-o", "json", report)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", ExitCode)
	}

	var decoded struct {
		Summary output.Summary
		Records []struct {
			Character       string
			DaysSinceLaunch int
			RerunInterval   *int
			RerunCount      int
		}
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}

	if decoded.Summary.Records != 4 || decoded.Summary.Characters != 2 || decoded.Summary.Reruns != 2 {
		t.Errorf("Summary = %+v", decoded.Summary)
	}

	// Venti: day 0, day 168 (1.4 A), day 399 (2.2 B)
	last := decoded.Records[3]
	if last.Character != "Venti" || last.DaysSinceLaunch != 399 {
		t.Fatalf("last record = %+v", last)
	}
	if last.RerunInterval == nil || *last.RerunInterval != 399-(168+21) {
		t.Errorf("RerunInterval = %v, want %d", last.RerunInterval, 399-(168+21))
	}
	if last.RerunCount != 2 {
		t.Errorf("RerunCount = %d, want 2", last.RerunCount)
	}
}

func TestRunExtract_Text(t *testing.T) {
	dir := t.TempDir()
	report := writeFile(t, dir, "wish_stats.txt", sampleReport)

	out, err := run(t, NewExtractCommand(), report)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	for _, want := range []string{"Venti", "Klee", "147", "Summary: 4 records from 1 report(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunExtract_MultipleReportsGlob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "1.0 A\n100\nVenti Summoned\n")
	writeFile(t, dir, "b.txt", "1.1 A\n200\nVenti Summoned\n")

	out, err := run(t, NewExtractCommand(), "-q", filepath.Join(dir, "*.txt"))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	want := "gachalog: 2 records, 1 characters, 1 reruns\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestRunExtract_NoRecords(t *testing.T) {
	dir := t.TempDir()
	report := writeFile(t, dir, "empty.txt", "nothing here\n")

	if _, err := run(t, NewExtractCommand(), "-q", report); err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", ExitCode)
	}
}

func TestRunExtract_Errors(t *testing.T) {
	dir := t.TempDir()
	report := writeFile(t, dir, "wish_stats.txt", sampleReport)

	tests := []struct {
		name string
		args []string
	}{
		{"no reports", []string{}},
		{"missing report", []string{filepath.Join(dir, "missing.txt")}},
		{"bad format", []string{"-o", "xml", report}},
		{"bad marker", []string{"--marker", "two words", report}},
		{"missing config", []string{"--config", filepath.Join(dir, "missing.yaml"), report}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, NewExtractCommand(), tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunExtract_OutFileAndDatabase(t *testing.T) {
	dir := t.TempDir()
	report := writeFile(t, dir, "wish_stats.txt", sampleReport)
	csvPath := filepath.Join(dir, "out.csv")
	dbPath := filepath.Join(dir, "banners.db")

	out, err := run(t, NewExtractCommand(), "-o", "csv", "--out", csvPath, "--db", dbPath, report)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if out != "" {
		t.Errorf("expected nothing on stdout with --out, got %q", out)
	}

	fromCSV, err := store.LoadTable(context.Background(), csvPath)
	if err != nil {
		t.Fatalf("LoadTable(csv) error = %v", err)
	}
	fromDB, err := store.LoadTable(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("LoadTable(db) error = %v", err)
	}

	if len(fromCSV) != 4 || len(fromDB) != 4 {
		t.Fatalf("got %d csv and %d db records, want 4", len(fromCSV), len(fromDB))
	}
	for i := range fromCSV {
		if fromCSV[i].Character != fromDB[i].Character || fromCSV[i].RerunCount != fromDB[i].RerunCount {
			t.Errorf("row %d differs: csv %+v, db %+v", i, fromCSV[i], fromDB[i])
		}
	}
	if fromDB[0].RerunInterval != nil {
		t.Errorf("first appearance should have no interval, got %d", *fromDB[0].RerunInterval)
	}
}

func TestRunExtract_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "wish_stats.txt", "2.0 A\n5,000\nRaiden Pulled\n")
	cfgPath := writeFile(t, dir, "config.yaml", `reports:
  - `+filepath.Join(dir, "*.txt")+`
marker: Pulled
output:
  format: json
`)

	out, err := run(t, NewExtractCommand(), "--config", cfgPath)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if !strings.Contains(out, `"Character": "Raiden"`) {
		t.Errorf("expected Raiden in JSON output:\n%s", out)
	}
}

func TestRunExtract_Webhook(t *testing.T) {
	dir := t.TempDir()
	report := writeFile(t, dir, "wish_stats.txt", sampleReport)

	var received []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cmd := NewExtractCommand()
	var errOut bytes.Buffer
	cmd.SetOut(io.Discard)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"-q", "--webhook-url", server.URL, "--webhook-trigger", "always", report})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	if !strings.Contains(errOut.String(), "Webhook cli: sent (200") {
		t.Errorf("stderr = %q", errOut.String())
	}

	var payload struct{ Summary output.Summary }
	if err := json.Unmarshal(received, &payload); err != nil {
		t.Fatalf("invalid webhook payload: %v", err)
	}
	if payload.Summary.Records != 4 {
		t.Errorf("payload Summary.Records = %d, want 4", payload.Summary.Records)
	}
}

func TestCollectWebhooks(t *testing.T) {
	cfg := &config.Config{
		Webhooks: []config.WebhookConfig{
			{Name: "dashboard", URL: "https://example.com/a"},
		},
	}

	hooks := collectWebhooks(cfg, &ExtractOptions{})
	if len(hooks) != 1 {
		t.Fatalf("got %d webhooks, want 1", len(hooks))
	}

	hooks = collectWebhooks(cfg, &ExtractOptions{WebhookURL: "https://example.com/b", WebhookToken: "secret"})
	if len(hooks) != 2 {
		t.Fatalf("got %d webhooks, want 2", len(hooks))
	}
	cli := hooks[1]
	if cli.Name != "cli" || cli.Token != "secret" {
		t.Errorf("cli webhook = %+v", cli)
	}
	if cli.Trigger != config.WebhookTriggerOnRecords {
		t.Errorf("cli trigger = %q, want on_records", cli.Trigger)
	}
	if cli.Timeout != config.DefaultWebhookTimeout {
		t.Errorf("cli timeout = %v", cli.Timeout)
	}
}

func TestRunHistory(t *testing.T) {
	dir := t.TempDir()
	report := writeFile(t, dir, "wish_stats.txt", sampleReport)

	out, err := run(t, NewHistoryCommand(), "Venti", report)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", ExitCode)
	}
	for _, want := range []string{"=== Venti ===", "1.4", "2.2", "147", "210", "Appearances: 3, reruns: 2, longest wait: 210 days"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Klee") {
		t.Error("history should only show the requested character")
	}
}

func TestRunHistory_NotFound(t *testing.T) {
	dir := t.TempDir()
	report := writeFile(t, dir, "wish_stats.txt", sampleReport)

	out, err := run(t, NewHistoryCommand(), "Nahida", report)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", ExitCode)
	}
	if !strings.Contains(out, "No appearances found for Nahida") {
		t.Errorf("output = %q", out)
	}
}

func TestRunHistory_FromTable(t *testing.T) {
	dir := t.TempDir()
	report := writeFile(t, dir, "wish_stats.txt", sampleReport)
	csvPath := filepath.Join(dir, "table.csv")

	if _, err := run(t, NewExtractCommand(), "-o", "csv", "--out", csvPath, report); err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	out, err := run(t, NewHistoryCommand(), "Klee", "--table", csvPath, "-o", "json")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}

	var h struct {
		Character   string
		Appearances []map[string]any
	}
	if err := json.Unmarshal([]byte(out), &h); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if h.Character != "Klee" || len(h.Appearances) != 1 {
		t.Errorf("history = %+v", h)
	}
}

func TestRunStats(t *testing.T) {
	dir := t.TempDir()
	report := writeFile(t, dir, "wish_stats.txt", sampleReport)
	csvPath := filepath.Join(dir, "table.csv")

	if _, err := run(t, NewExtractCommand(), "-o", "csv", "--out", csvPath, report); err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	out, err := run(t, NewStatsCommand(), "-o", "json", "--zscores", csvPath)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}

	var decoded statsReport
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}

	if len(decoded.Majors) != 2 {
		t.Fatalf("got %d majors, want 2", len(decoded.Majors))
	}
	if decoded.Majors[0].MajorVersion != 1 || decoded.Majors[0].Count != 3 {
		t.Errorf("major 1 = %+v", decoded.Majors[0])
	}
	if decoded.Majors[1].StdDev != nil {
		t.Errorf("single-banner major should have no stddev, got %v", *decoded.Majors[1].StdDev)
	}

	// major 1 has one rerun (147), major 2 has one (210)
	if len(decoded.Intervals) != 2 || decoded.Intervals[0].MeanInterval != 147 || decoded.Intervals[1].MeanInterval != 210 {
		t.Errorf("intervals = %+v", decoded.Intervals)
	}
	if len(decoded.Scored) != 4 {
		t.Errorf("got %d scored rows, want 4", len(decoded.Scored))
	}
}

func TestRunStats_Text(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeFile(t, dir, "table.csv", strings.Join([]string{
		"Version,Phase,Character,WishCount,DaysSinceLaunch,MajorVersion,RerunInterval,RerunCount",
		"1.0,A,Venti,100,0,1,,0",
		"1.1,A,Venti,300,42,1,21.0,1",
	}, "\n")+"\n")

	out, err := run(t, NewStatsCommand(), csvPath)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	for _, want := range []string{"2 records", "WishCount by major version", "200.0", "141.4", "21.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunStats_UnknownFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "table.txt", "")

	if _, err := run(t, NewStatsCommand(), path); err == nil {
		t.Error("expected error for unknown table format")
	}
}

func TestRunTimeline(t *testing.T) {
	out, err := run(t, NewTimelineCommand(), "-o", "json")
	if err != nil {
		t.Fatalf("timeline failed: %v", err)
	}

	var entries []struct {
		Version string
		Day     int
	}
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(entries) != 52 {
		t.Errorf("got %d versions, want 52", len(entries))
	}
	if entries[0].Version != "1.0" || entries[0].Day != 0 {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[7].Version != "2.0" || entries[7].Day != 294 {
		t.Errorf("entry 7 = %+v, want 2.0 at day 294", entries[7])
	}

	text, err := run(t, NewTimelineCommand())
	if err != nil {
		t.Fatalf("timeline failed: %v", err)
	}
	if !strings.Contains(text, "52 versions, 42 days per version") {
		t.Errorf("text output missing summary:\n%s", text)
	}
}

func TestRunDiagnose(t *testing.T) {
	dir := t.TempDir()
	report := writeFile(t, dir, "wish_stats.txt", "5.2 A\n109,105\nnot a name\nChasca Summoned\n")

	out, err := run(t, NewDiagnoseCommand(), report)
	if err != nil {
		t.Fatalf("diagnose failed: %v", err)
	}

	for _, want := range []string{"[PASS] Report File", "[PASS] Version Headers", "[WARN] Records", "1 dropped", "[WARN] Unrecognized Lines", "not a name"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0 for warnings only", ExitCode)
	}
}

func TestRunDiagnose_Errors(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, NewDiagnoseCommand(), filepath.Join(dir, "missing.txt"))
	if err != nil {
		t.Fatalf("diagnose failed: %v", err)
	}
	if !strings.Contains(out, "[FAIL] Report File") || ExitCode != 1 {
		t.Errorf("expected report file failure, ExitCode=%d:\n%s", ExitCode, out)
	}

	report := writeFile(t, dir, "noheader.txt", "just text\n")
	out, err = run(t, NewDiagnoseCommand(), report)
	if err != nil {
		t.Fatalf("diagnose failed: %v", err)
	}
	if !strings.Contains(out, "[FAIL] Version Headers") || ExitCode != 1 {
		t.Errorf("expected header failure, ExitCode=%d:\n%s", ExitCode, out)
	}
}

func TestRunValidate_Success(t *testing.T) {
	dir := t.TempDir()
	report := writeFile(t, dir, "wish_stats.txt", sampleReport)
	cfgPath := writeFile(t, dir, "config.yaml", `reports:
  - `+report+`
  - `+filepath.Join(dir, "gone.txt")+`
webhooks:
  - name: dashboard
    url: https://example.com/hook
    trigger: always
`)

	out, err := run(t, NewValidateCommand(), cfgPath)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	for _, want := range []string{"Configuration valid!", "Reports:   2 pattern(s)", "dashboard [always]", "gone.txt (warning: not found)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunValidate_Invalid(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", "output:\n  format: xml\n")

	if _, err := run(t, NewValidateCommand(), cfgPath); err == nil {
		t.Error("expected validation error")
	}
}

func TestRunVersion(t *testing.T) {
	out, err := run(t, NewVersionCommand())
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	want := "gachalog dev\ntimeline: 1.0 to 6.8 (52 versions, 42 days each)\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}

	out, err = run(t, NewVersionCommand(), "--short")
	if err != nil {
		t.Fatalf("version --short failed: %v", err)
	}
	if out != "gachalog dev\n" {
		t.Errorf("short output = %q", out)
	}
}

func TestFormatOptionsFor_NonTerminal(t *testing.T) {
	var buf bytes.Buffer
	opts := formatOptionsFor(&buf, output.FormatOptions{Verbose: true})
	if !opts.Plain || !opts.Verbose || opts.Width != 0 {
		t.Errorf("opts = %+v", opts)
	}
}

func TestLoadConfig_OverridesBeforeValidate(t *testing.T) {
	ctx := context.Background()

	_, err := loadConfig(ctx, sourceOptions{}, []string{"a.txt"}, func(cfg *config.Config) {
		cfg.Output.Format = "xml"
	})
	if err == nil {
		t.Error("expected override to be validated")
	}

	cfg, err := loadConfig(ctx, sourceOptions{Marker: "Pulled"}, []string{"a.txt"}, func(cfg *config.Config) {
		cfg.Database = "table.db"
	})
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Database != "table.db" || cfg.Marker != "Pulled" {
		t.Errorf("Database = %q, Marker = %q", cfg.Database, cfg.Marker)
	}
	if cfg.Output.Format != config.DefaultOutputFormat {
		t.Errorf("Output.Format = %q, want default", cfg.Output.Format)
	}
}
