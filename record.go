package geostats

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// notAvailable is the short and long name used when a record carries nothing to name it by.
const notAvailable = "N/A"

// codePrefixLen is the number of characters taken from a name when no code field is set.
const codePrefixLen = 3

// codeFields lists the identifier fields consulted by DeriveCode, in priority order.
var codeFields = []string{"alpha3Code", "cioc", "alpha2Code"}

// Record is one raw country record of untrusted shape, typically decoded from JSON.
// A nil Record is an absent record. Every field may be missing or of the wrong kind;
// all access goes through the accessors below, which degrade to typed defaults.
type Record map[string]any

// text returns the named field when it is a non-empty string.
func (r Record) text(key string) (string, bool) {
	s, ok := r[key].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// list returns the named field when it is a sequence.
func (r Record) list(key string) ([]any, bool) {
	return sequence(r[key])
}

// length returns the length of the named sequence field, or 0 when it is not a sequence.
func (r Record) length(key string) int {
	l, _ := r.list(key)
	return len(l)
}

// population returns the population field when it is a finite positive number, else 0.
func (r Record) population() float64 {
	n, ok := number(r["population"])
	if !ok || n <= 0 {
		return 0
	}
	return n
}

// languages resolves the display names of the languages field in order, keeping duplicates.
func (r Record) languages() []string {
	names := []string{}
	l, _ := r.list("languages")
	for _, v := range l {
		if name, ok := languageName(v); ok {
			names = append(names, name)
		}
	}
	return names
}

// timezones returns the string elements of the timezones field in order, keeping duplicates.
func (r Record) timezones() []string {
	zones := []string{}
	l, _ := r.list("timezones")
	for _, v := range l {
		if tz, ok := v.(string); ok {
			zones = append(zones, tz)
		}
	}
	return zones
}

// longName returns the display name: name, then region, then "N/A".
func (r Record) longName() string {
	if name, ok := r.text("name"); ok {
		return name
	}
	if region, ok := r.text("region"); ok {
		return region
	}
	return notAvailable
}

// DeriveCode computes the short identifier of a record. It prefers alpha3Code, cioc and
// alpha2Code in that order, then the first three characters of the name uppercased,
// and finally "N/A".
func DeriveCode(r Record) string {
	if r == nil {
		return notAvailable
	}
	for _, key := range codeFields {
		if code, ok := r.text(key); ok {
			return code
		}
	}
	if name, ok := r.text("name"); ok {
		return namePrefix(name)
	}
	return notAvailable
}

// namePrefix returns up to the first three characters of name, uppercased.
// Names are NFC-normalized first so a decomposed accent is never split from its letter.
func namePrefix(name string) string {
	runes := []rune(norm.NFC.String(name))
	if len(runes) > codePrefixLen {
		runes = runes[:codePrefixLen]
	}
	return toUpper(string(runes))
}

// RecordMetadata computes the metadata of a single record. Languages and timezones keep
// their original order and duplicates. An absent record yields zero metadata.
func RecordMetadata(r Record) Metadata {
	return Metadata{
		TotalPopulation: r.population(),
		Languages:       r.languages(),
		Timezones:       r.timezones(),
	}
}

// languageName resolves one element of a languages sequence: an object with a non-empty
// name field, or a non-empty string. Anything else has no name.
func languageName(v any) (string, bool) {
	var name string
	switch l := v.(type) {
	case string:
		name = l
	case map[string]any:
		name, _ = l["name"].(string)
	case Record:
		name, _ = l["name"].(string)
	case map[string]string:
		name = l["name"]
	}
	return name, name != ""
}

// sequence reports whether v is a slice or array and returns its elements.
// JSON-decoded values arrive as []any; typed slices built in code are converted.
func sequence(v any) ([]any, bool) {
	switch s := v.(type) {
	case nil:
		return nil, false
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// number converts a numeric value of any Go numeric kind to float64.
// NaN and infinities are rejected.
func number(v any) (float64, bool) {
	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case float32:
		n = float64(x)
	case int:
		n = float64(x)
	case int8:
		n = float64(x)
	case int16:
		n = float64(x)
	case int32:
		n = float64(x)
	case int64:
		n = float64(x)
	case uint:
		n = float64(x)
	case uint8:
		n = float64(x)
	case uint16:
		n = float64(x)
	case uint32:
		n = float64(x)
	case uint64:
		n = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// toUpper converts a string to uppercase using the standard library.
// Country names are UTF-8 and need Unicode-aware case mapping.
func toUpper(s string) string {
	return strings.ToUpper(s)
}

// toLower converts a string to lowercase using the standard library.
func toLower(s string) string {
	return strings.ToLower(s)
}
