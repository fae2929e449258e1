package geostats

// unknownRegion is the group key for present records without a region.
const unknownRegion = "Unknown"

// stringSet is an insertion-ordered set of strings: a lookup slice for order and an
// index map for membership.
type stringSet struct {
	lookup []string
	index  map[string]int
}

func newStringSet() *stringSet {
	return &stringSet{
		lookup: []string{},
		index:  make(map[string]int),
	}
}

// add inserts s if it is not already present. Reports whether s was added.
func (ss *stringSet) add(s string) bool {
	if _, ok := ss.index[s]; ok {
		return false
	}
	ss.index[s] = len(ss.lookup)
	ss.lookup = append(ss.lookup, s)
	return true
}

func (ss *stringSet) len() int {
	return len(ss.lookup)
}

// values returns the members in insertion order.
func (ss *stringSet) values() []string {
	out := make([]string, len(ss.lookup))
	copy(out, ss.lookup)
	return out
}

// regionGroup accumulates the records of one region.
type regionGroup struct {
	count      int
	population float64
	languages  *stringSet
	timezones  *stringSet
}

// merge folds one present record into the group.
func (g *regionGroup) merge(r Record) {
	g.count++
	g.population += r.population()
	for _, name := range r.languages() {
		g.languages.add(name)
	}
	for _, tz := range r.timezones() {
		if tz != "" {
			g.timezones.add(tz)
		}
	}
}

// regionGroups maps region keys to accumulators, remembering first-encounter order.
type regionGroups struct {
	order  []string
	groups map[string]*regionGroup
}

func newRegionGroups() *regionGroups {
	return &regionGroups{groups: make(map[string]*regionGroup)}
}

// get returns the accumulator for key, creating it on first sight.
func (rg *regionGroups) get(key string) *regionGroup {
	if g, ok := rg.groups[key]; ok {
		return g
	}
	g := &regionGroup{
		languages: newStringSet(),
		timezones: newStringSet(),
	}
	rg.groups[key] = g
	rg.order = append(rg.order, key)
	return g
}

// regionKey returns the record's region, or "Unknown" when it has none.
func regionKey(r Record) string {
	if region, ok := r.text("region"); ok {
		return region
	}
	return unknownRegion
}

// CategorizeByRegion groups data by region for a grouped category. Absent records are
// skipped. The entry value is the record count for region_countries and the number of
// distinct timezones for region_timezones. Any other category yields an empty result.
func CategorizeByRegion(data []Record, category Category) []Entry {
	if !category.Grouped() {
		return []Entry{}
	}

	rg := newRegionGroups()
	for _, r := range data {
		if r == nil {
			continue
		}
		rg.get(regionKey(r)).merge(r)
	}

	entries := make([]Entry, 0, len(rg.order))
	for _, key := range rg.order {
		g := rg.groups[key]
		value := float64(g.count)
		if category == CategoryRegionTimezones {
			value = float64(g.timezones.len())
		}
		entries = append(entries, Entry{
			ShortName: key,
			LongName:  key,
			Value:     value,
			Metadata: Metadata{
				TotalPopulation: g.population,
				Languages:       g.languages.values(),
				Timezones:       g.timezones.values(),
			},
		})
	}
	return entries
}
