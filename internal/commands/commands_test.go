package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statement = "01/02/2024 Transfer to unknown account $12,345.67\n" +
	"Beginning balance $500.00\n" +
	"03/04/2024 Coffee shop $4.50\n"

func runFlagger(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeStatement(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScan_TextFile(t *testing.T) {
	dir := t.TempDir()
	path := writeStatement(t, dir, "jan.txt", statement)

	out, err := runFlagger(t, "", "scan", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Processing: "+path)
	assert.Contains(t, out, "Scanned 3 line(s), flagged 1")
	assert.Contains(t, out, "$12,345.67")

	data, err := os.ReadFile(filepath.Join(dir, "jan.flagged.csv"))
	require.NoError(t, err)
	csv := string(data)
	assert.Contains(t, csv, "# Source,jan.txt")
	assert.Contains(t, csv, "Date,Description,Amount,Flag reason\n")
	assert.Contains(t, csv, `01/02/2024,"01/02/2024 Transfer to unknown account $12,345.67",12345.67,"Amount over $10,000; Keyword: ""unknown account"""`)
}

func TestScan_Stdin(t *testing.T) {
	out, err := runFlagger(t, statement, "scan", "--header=false", "-")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Description,Amount,Flag reason", lines[0])
	assert.Contains(t, lines[1], "12345.67")
}

func TestScan_StdinEmpty(t *testing.T) {
	out, err := runFlagger(t, "", "scan", "--header=false", "-")
	require.NoError(t, err)
	assert.Equal(t, "Date,Description,Amount,Flag reason\n", out)
}

func TestScan_FlagOverrides(t *testing.T) {
	out, err := runFlagger(t, "Rent 150.00\nRoyalty 5.00\nPension 9.00\n",
		"scan", "--header=false", "--threshold", "100", "--keyword", "royalty", "--workers", "2", "-")
	require.NoError(t, err)

	assert.Contains(t, out, "Rent 150.00,150,Amount over $100")
	assert.Contains(t, out, `Royalty 5.00,5,"Keyword: ""royalty"""`)
	assert.NotContains(t, out, "Pension")
}

func TestScan_OutputFlag(t *testing.T) {
	dir := t.TempDir()
	path := writeStatement(t, dir, "jan.txt", statement)
	outPath := filepath.Join(dir, "report.csv")

	_, err := runFlagger(t, "", "scan", "-o", outPath, path)
	require.NoError(t, err)
	assert.FileExists(t, outPath)
}

func TestScan_OutputWithMultipleInputs(t *testing.T) {
	_, err := runFlagger(t, "", "scan", "-o", "x.csv", "a.txt", "b.txt")
	assert.ErrorContains(t, err, "single input file")
}

func TestScan_MissingFile(t *testing.T) {
	_, err := runFlagger(t, "", "scan", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestScan_InvalidThreshold(t *testing.T) {
	_, err := runFlagger(t, statement, "scan", "--threshold", "-5", "-")
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestScan_Debug(t *testing.T) {
	dir := t.TempDir()
	path := writeStatement(t, dir, "jan.txt", statement)

	out, err := runFlagger(t, "", "scan", "--debug", path)
	require.NoError(t, err)
	assert.Contains(t, out, "summary")
	assert.Contains(t, out, "not-flagged")
}

func TestConfigInitAndUse(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "flagger.yaml")

	out, err := runFlagger(t, "", "config", "init", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote default configuration")

	_, err = runFlagger(t, "", "config", "init", cfgPath)
	assert.ErrorContains(t, err, "already exists")

	require.NoError(t, os.WriteFile(cfgPath, []byte("rules:\n  amount_threshold: 100\n  keywords: []\n"), 0o644))

	out, err = runFlagger(t, "Rent 150.00\nPension 9.00\n", "--config", cfgPath, "scan", "--header=false", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Rent 150.00")
	assert.NotContains(t, out, "Pension")
}

func TestConfigShow(t *testing.T) {
	t.Setenv("FLAGGER_THRESHOLD", "2500")

	out, err := runFlagger(t, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "amount_threshold: 2500")
	assert.Contains(t, out, "- unknown account")
}

func TestVersion(t *testing.T) {
	out, err := runFlagger(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "test")
}

func TestScan_InputSizeLimit(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeStatement(t, dir, "small.yaml", "server:\n  max_input_bytes: 32\n")
	big := writeStatement(t, dir, "big.txt", statement)

	tests := []struct {
		name    string
		stdin   string
		args    []string
		wantErr bool
	}{
		{"stdin over limit", statement, []string{"-"}, true},
		{"file over limit", "", []string{big}, true},
		{"stdin at limit", strings.Repeat("x", 31) + "\n", []string{"-"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", cfgPath, "scan"}, tt.args...)
			_, err := runFlagger(t, tt.stdin, args...)
			if tt.wantErr {
				require.ErrorIs(t, err, errInputTooLarge)
				return
			}
			require.NoError(t, err)
		})
	}
}
