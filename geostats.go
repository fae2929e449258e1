// Package geostats turns loosely-structured country records into category summaries
// suitable for charting.
//
// The core is Categorize, a pure function: it never fails, performs no I/O and keeps no
// state between calls. Malformed or absent input degrades to documented fallbacks.
//
// Example:
//
//	records, err := geostats.NewLoader().Load(ctx, "countries.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, e := range geostats.Categorize(records, geostats.CategoryRegionCountries) {
//	    fmt.Printf("%s: %v\n", e.LongName, e.Value)
//	}
package geostats

// Category selects the metric and grouping strategy applied by Categorize.
type Category string

const (
	CategoryPopulation      Category = "population"
	CategoryBorders         Category = "borders"
	CategoryTimezones       Category = "timezones"
	CategoryLanguages       Category = "languages"
	CategoryRegionCountries Category = "region_countries"
	CategoryRegionTimezones Category = "region_timezones"
)

// categories lists every known category in presentation order.
var categories = []Category{
	CategoryPopulation,
	CategoryBorders,
	CategoryTimezones,
	CategoryLanguages,
	CategoryRegionCountries,
	CategoryRegionTimezones,
}

// Categories returns all known categories.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, k := range categories {
		if c == k {
			return true
		}
	}
	return false
}

// Grouped reports whether c aggregates records by region.
func (c Category) Grouped() bool {
	return c == CategoryRegionCountries || c == CategoryRegionTimezones
}

func (c Category) String() string { return string(c) }

// Entry is one summary row of a categorization.
type Entry struct {
	ShortName string   `json:"short_name"` // Compact identifier, never empty
	LongName  string   `json:"long_name"`  // Display label
	Value     float64  `json:"value"`      // Category metric, never negative
	Metadata  Metadata `json:"metadata"`
}

// Metadata carries population and language/timezone details for an entry.
type Metadata struct {
	TotalPopulation float64  `json:"total_population"`
	Languages       []string `json:"languages"`
	Timezones       []string `json:"timezones"`
}

// Categorize summarizes data for the given category.
//
// Per-record categories (population, borders, timezones, languages) yield one entry per
// input element in input order, absent records included. Grouped categories
// (region_countries, region_timezones) yield one entry per region in first-encounter order.
// An unknown category yields an empty result; so does empty input.
func Categorize(data []Record, category Category) []Entry {
	switch {
	case category.Grouped():
		return CategorizeByRegion(data, category)
	case category.Valid():
		return categorizeRecords(data, category)
	}
	return []Entry{}
}

// categorizeRecords builds one entry per record for a per-record category.
func categorizeRecords(data []Record, category Category) []Entry {
	entries := make([]Entry, 0, len(data))
	for _, r := range data {
		entries = append(entries, Entry{
			ShortName: DeriveCode(r),
			LongName:  r.longName(),
			Value:     recordValue(r, category),
			Metadata:  RecordMetadata(r),
		})
	}
	return entries
}

// recordValue computes the metric of a single record.
func recordValue(r Record, category Category) float64 {
	switch category {
	case CategoryPopulation:
		return r.population()
	case CategoryBorders:
		return float64(r.length("borders"))
	case CategoryTimezones:
		return float64(r.length("timezones"))
	case CategoryLanguages:
		return float64(r.length("languages"))
	}
	return 0
}
