package geostats

import (
	"math"
	"testing"
)

func TestWithinRadius(t *testing.T) {
	paris := Record{"name": "Paris", "latlng": []any{48.8566, 2.3522}}
	berlin := Record{"name": "Berlin", "latlng": []any{52.52, 13.405}}
	tokyo := Record{"name": "Tokyo", "latlng": []any{35.6762, 139.6503}}
	typed := Record{"name": "Brussels", "latlng": []float64{50.8503, 4.3517}}
	data := []Record{
		paris,
		nil,
		berlin,
		{"name": "No coords"},
		{"name": "Bad coords", "latlng": []any{"48", "2"}},
		{"name": "Short coords", "latlng": []any{48.0}},
		{"name": "Out of range", "latlng": []any{123.0, 2.0}},
		tokyo,
		typed,
	}

	tests := []struct {
		name      string
		lat, lng  float64
		radiusKm  float64
		wantNames []string
	}{
		{"paris 100km", 48.8566, 2.3522, 100, []string{"Paris"}},
		{"paris 1000km keeps order", 48.8566, 2.3522, 1000, []string{"Paris", "Berlin", "Brussels"}},
		{"zero radius exact point", 35.6762, 139.6503, 0, []string{"Tokyo"}},
		{"whole globe", 0, 0, 21000, []string{"Paris", "Berlin", "Tokyo", "Brussels"}},
		{"negative radius", 0, 0, -1, []string{}},
		{"NaN latitude", math.NaN(), 0, 1000, []string{}},
		{"infinite radius", 0, 0, math.Inf(1), []string{}},
		{"invalid center", 91, 0, 1000, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WithinRadius(data, tt.lat, tt.lng, tt.radiusKm)
			if got == nil {
				t.Fatal("WithinRadius returned nil")
			}
			names := make([]string, len(got))
			for i, r := range got {
				names[i], _ = r.text("name")
			}
			if !equalStrings(names, tt.wantNames) {
				t.Errorf("WithinRadius(%v, %v, %v) = %q, want %q", tt.lat, tt.lng, tt.radiusKm, names, tt.wantNames)
			}
		})
	}
}
