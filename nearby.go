package geostats

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// earthRadiusKm is the mean Earth radius used to turn kilometres into angles on the unit sphere.
const earthRadiusKm = 6371.0088

// WithinRadius keeps the records whose latlng field lies within radiusKm of (lat, lng),
// preserving order. Absent records and records without usable coordinates are dropped.
// Invalid centers or radii yield an empty result.
func WithinRadius(data []Record, lat, lng, radiusKm float64) []Record {
	out := []Record{}

	// Reject invalid float values that could cause undefined behavior
	// in S2 geometry calculations.
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsNaN(radiusKm) ||
		math.IsInf(lat, 0) || math.IsInf(lng, 0) || math.IsInf(radiusKm, 0) || radiusKm < 0 {
		return out
	}
	center := s2.LatLngFromDegrees(lat, lng)
	if !center.IsValid() {
		return out
	}
	maxAngle := s1.Angle(radiusKm / earthRadiusKm)

	for _, r := range data {
		ll, ok := r.latLng()
		if !ok {
			continue
		}
		if center.Distance(ll) <= maxAngle {
			out = append(out, r)
		}
	}
	return out
}

// latLng returns the record's [lat, lng] pair when it holds two valid numbers.
func (r Record) latLng() (s2.LatLng, bool) {
	l, ok := r.list("latlng")
	if !ok || len(l) < 2 {
		return s2.LatLng{}, false
	}
	lat, okLat := number(l[0])
	lng, okLng := number(l[1])
	if !okLat || !okLng {
		return s2.LatLng{}, false
	}
	ll := s2.LatLngFromDegrees(lat, lng)
	return ll, ll.IsValid()
}
