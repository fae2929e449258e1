package geostats

import (
	"bufio"
	"compress/bzip2"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// continentNames maps Geonames continent codes to region display names.
var continentNames = map[string]string{
	"AF": "Africa",
	"AN": "Antarctica",
	"AS": "Asia",
	"EU": "Europe",
	"NA": "North America",
	"OC": "Oceania",
	"SA": "South America",
}

// countryInfoFields is the column count of a Geonames countryInfo.txt line.
const countryInfoFields = 19

// stdinSource selects standard input as the record source.
const stdinSource = "-"

// LoaderConfig contains configuration options for a Loader.
type LoaderConfig struct {
	Timeout    time.Duration // HTTP timeout for URL sources (default: 30s)
	HTTPClient *http.Client  // Client for URL sources (default: built from Timeout)
	Logger     *zap.Logger   // Logger (default: no-op)
	Stdin      io.Reader     // Reader for the "-" source (default: os.Stdin)
}

// Option is a functional option for configuring a Loader.
type Option func(*LoaderConfig)

// WithTimeout sets the HTTP timeout used when no client is supplied.
func WithTimeout(d time.Duration) Option {
	return func(c *LoaderConfig) {
		c.Timeout = d
	}
}

// WithHTTPClient sets the HTTP client used for URL sources.
func WithHTTPClient(client *http.Client) Option {
	return func(c *LoaderConfig) {
		c.HTTPClient = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *LoaderConfig) {
		c.Logger = logger
	}
}

// WithStdin sets the reader consulted for the "-" source.
func WithStdin(r io.Reader) Option {
	return func(c *LoaderConfig) {
		c.Stdin = r
	}
}

// defaultConfig returns the default configuration.
func defaultConfig() *LoaderConfig {
	return &LoaderConfig{
		Timeout: 30 * time.Second,
		Logger:  zap.NewNop(),
		Stdin:   os.Stdin,
	}
}

// Loader reads raw country records from files, standard input or HTTP endpoints.
// Safe for concurrent use.
type Loader struct {
	config *LoaderConfig
	client *http.Client
	log    *zap.Logger
}

// NewLoader creates a Loader.
//
//	l := NewLoader(WithTimeout(10*time.Second), WithLogger(logger))
//	records, err := l.Load(ctx, "https://restcountries.com/v2/all")
func NewLoader(opts ...Option) *Loader {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Loader{config: cfg, client: client, log: cfg.Logger}
}

// Load reads records from source: "-" for standard input, an http(s) URL, or a file path.
// Names ending in ".txt" are parsed as Geonames countryInfo.txt, anything else as a JSON
// array. A trailing ".bz2" is decompressed transparently.
func (l *Loader) Load(ctx context.Context, source string) ([]Record, error) {
	switch {
	case source == stdinSource:
		l.log.Debug("loading records", zap.String("source", "stdin"))
		return l.decode(source, l.config.Stdin)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return l.loadURL(ctx, source)
	}
	return l.loadFile(source)
}

func (l *Loader) loadFile(path string) ([]Record, error) {
	l.log.Debug("loading records", zap.String("path", path))
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer fh.Close()

	records, err := l.decode(path, fh)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return records, nil
}

func (l *Loader) loadURL(ctx context.Context, rawURL string) ([]Record, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing URL %s: %w", rawURL, err)
	}
	l.log.Debug("fetching records", zap.String("url", rawURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", rawURL, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP GET %s: status %d", rawURL, resp.StatusCode)
	}

	records, err := l.decode(u.Path, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", rawURL, err)
	}
	return records, nil
}

// decode picks the format from name and decodes r.
func (l *Loader) decode(name string, r io.Reader) ([]Record, error) {
	if strings.HasSuffix(name, ".bz2") {
		name = strings.TrimSuffix(name, ".bz2")
		r = bzip2.NewReader(r)
	}

	var (
		records []Record
		err     error
	)
	if strings.HasSuffix(name, ".txt") {
		records, err = l.decodeCountryInfo(r)
	} else {
		records, err = DecodeRecords(r)
	}
	if err != nil {
		return nil, err
	}
	l.log.Info("loaded records", zap.String("source", name), zap.Int("count", len(records)))
	return records, nil
}

// DecodeRecords decodes a JSON array of country records. Elements that are not JSON
// objects (null, numbers, strings, arrays) become absent records rather than errors.
func DecodeRecords(r io.Reader) ([]Record, error) {
	var raw []any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}

	records := make([]Record, len(raw))
	for i, v := range raw {
		if m, ok := v.(map[string]any); ok {
			records[i] = Record(m)
		}
	}
	return records, nil
}

// DecodeCountryInfo parses the Geonames countryInfo.txt tab-separated format.
// Format: ISO, ISO3, ISO-Numeric, fips, Country, Capital, Area, Population, Continent,
// tld, CurrencyCode, CurrencyName, Phone, Postal Code Format, Postal Code Regex,
// Languages, geonameid, neighbours, EquivalentFipsCode.
func DecodeCountryInfo(r io.Reader) ([]Record, error) {
	return NewLoader().decodeCountryInfo(r)
}

func (l *Loader) decodeCountryInfo(r io.Reader) ([]Record, error) {
	records := []Record{}

	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanLines)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		t := scanner.Text()
		if len(t) == 0 || t[0] == '#' {
			continue
		}

		fields := strings.SplitN(t, "\t", countryInfoFields)
		if len(fields) != countryInfoFields || fields[0] == "" || fields[0] == "0" {
			l.log.Debug("skipping country info line", zap.Int("line", lineNo), zap.Int("fields", len(fields)))
			continue
		}
		records = append(records, countryInfoRecord(fields))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading country info: %w", err)
	}
	return records, nil
}

// countryInfoRecord maps one countryInfo.txt line onto the raw record shape.
// A population that does not parse is left out, so it counts as absent.
func countryInfoRecord(fields []string) Record {
	rec := Record{
		"alpha2Code": fields[0],
		"alpha3Code": fields[1],
		"name":       fields[4],
		"borders":    splitList(fields[17]),
		"languages":  splitList(fields[15]),
	}
	if pop, err := strconv.Atoi(fields[7]); err == nil {
		rec["population"] = float64(pop)
	}
	if region, ok := continentNames[fields[8]]; ok {
		rec["region"] = region
	}
	return rec
}

// splitList splits a comma-separated column into a sequence, dropping empty items.
func splitList(s string) []any {
	out := []any{}
	for _, raw := range strings.Split(s, ",") {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
