package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreiashu/geostats"
)

const fixture = "../../testdata/countries.json"

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func decodeEntries(t *testing.T, out string) []geostats.Entry {
	t.Helper()
	var entries []geostats.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	return entries
}

func TestRun_JSONPopulation(t *testing.T) {
	out, err := execute(t, "", fixture)
	require.NoError(t, err)

	entries := decodeEntries(t, out)
	require.Len(t, entries, 7)
	assert.Equal(t, "FRA", entries[0].ShortName)
	assert.Equal(t, 66710000.0, entries[0].Value)
	assert.Equal(t, "N/A", entries[3].ShortName)
}

func TestRun_EmptyListsEncodeAsArrays(t *testing.T) {
	out, err := execute(t, `[null]`, "-", "-c", "borders")
	require.NoError(t, err)
	assert.Contains(t, out, `"languages": []`)
	assert.Contains(t, out, `"timezones": []`)
	assert.NotContains(t, out, "null")
}

func TestRun_RegionCategoriesFromStdin(t *testing.T) {
	input := `[
		{"region": "Test", "timezones": ["UTC+1", "UTC+2"], "population": 1000},
		{"region": "Test", "timezones": ["UTC+1", "UTC+3"], "population": 2000},
		{"name": "Lonely"}
	]`
	out, err := execute(t, input, "-", "--category", "region_timezones")
	require.NoError(t, err)

	entries := decodeEntries(t, out)
	require.Len(t, entries, 2)
	assert.Equal(t, "Test", entries[0].ShortName)
	assert.Equal(t, 3.0, entries[0].Value)
	assert.Equal(t, 3000.0, entries[0].Metadata.TotalPopulation)
	assert.Equal(t, "Unknown", entries[1].LongName)
}

func TestRun_UnknownCategoryIsEmpty(t *testing.T) {
	out, err := execute(t, "", fixture, "-c", "populaton")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestRun_Table(t *testing.T) {
	out, err := execute(t, "", fixture, "-c", "region_countries", "-f", "table")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2+4)
	assert.Contains(t, lines[0], "Short")
	assert.Contains(t, lines[0], "Population")
	assert.Contains(t, lines[2], "Europe")
	assert.Contains(t, lines[2], "French, German")
	assert.Contains(t, lines[5], "Unknown")
}

func TestRun_Near(t *testing.T) {
	out, err := execute(t, "", fixture, "--near", "48.85,2.35", "--radius", "800")
	require.NoError(t, err)

	entries := decodeEntries(t, out)
	require.Len(t, entries, 2)
	assert.Equal(t, "FRA", entries[0].ShortName)
	assert.Equal(t, "DEU", entries[1].ShortName)
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	source, err := filepath.Abs(fixture)
	require.NoError(t, err)

	path := filepath.Join(dir, "geostats.yaml")
	cfg := "source: " + source + "\ncategory: region_countries\ntimeout: 5s\n"
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))

	out, err := execute(t, "", "--config", path)
	require.NoError(t, err)
	entries := decodeEntries(t, out)
	require.Len(t, entries, 4)
	assert.Equal(t, "Europe", entries[0].ShortName)

	// Flags override the file.
	out, err = execute(t, "", "--config", path, "-c", "languages")
	require.NoError(t, err)
	assert.Len(t, decodeEntries(t, out), 7)
}

func TestRun_Errors(t *testing.T) {
	badConfig := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(badConfig, []byte("category: [unterminated"), 0644))

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "no source", args: []string{}, wantErr: "no source given"},
		{name: "missing file", args: []string{"missing.json"}, wantErr: "missing.json"},
		{name: "bad format", args: []string{fixture, "-f", "xml"}, wantErr: "unknown format"},
		{name: "bad near", args: []string{fixture, "--near", "48.85"}, wantErr: "want lat,lng"},
		{name: "bad latitude", args: []string{fixture, "--near", "north,2"}, wantErr: "invalid latitude"},
		{name: "missing config", args: []string{"--config", "nope.yaml"}, wantErr: "reading config"},
		{name: "bad config", args: []string{"--config", badConfig}, wantErr: "parsing config"},
		{name: "too many args", args: []string{"a", "b"}, wantErr: "accepts at most 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFileConfig_Apply(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--format", "table"}))

	opts := &options{category: "population", format: "table", timeout: time.Second, radius: defaultRadiusKm}
	cfg := &fileConfig{
		Source:   "from-file.json",
		Category: "borders",
		Format:   "json",
		Timeout:  10 * time.Second,
		Near:     "1,2",
		Radius:   50,
	}

	source := cfg.apply(cmd.Flags(), opts, "")
	assert.Equal(t, "from-file.json", source)
	assert.Equal(t, "borders", opts.category)
	assert.Equal(t, "table", opts.format, "explicit flag wins")
	assert.Equal(t, 10*time.Second, opts.timeout)
	assert.Equal(t, "1,2", opts.near)
	assert.Equal(t, 50.0, opts.radius)

	assert.Equal(t, "arg.json", cfg.apply(cmd.Flags(), opts, "arg.json"))
}

func TestParseLatLng(t *testing.T) {
	lat, lng, err := parseLatLng(" 48.85 , 2.35 ")
	require.NoError(t, err)
	assert.Equal(t, 48.85, lat)
	assert.Equal(t, 2.35, lng)

	_, _, err = parseLatLng("1,east")
	assert.ErrorContains(t, err, "invalid longitude")
}
