package main

import (
	"fmt"
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/tzneal/coordconv"
)

// hemisphereToRune renders a coordconv.Hemisphere the way a human reads a
// UTM coordinate: 'N', 'S', or '?' if the conversion could not classify it.
func hemisphereToRune(h coordconv.Hemisphere) rune {
	switch h {
	case coordconv.HemisphereNorth:
		return 'N'
	case coordconv.HemisphereSouth:
		return 'S'
	default:
		return '?'
	}
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// stationTag renders a Station's location as a UTM tag suitable for
// embedding in capture filenames and log lines, prefixed with the
// callsign, e.g. "N0CALL 17N 583960E 4507523N".
// It is purely metadata: the dfir.Filter and its kernel never see this
// value, consistent with the core staying free of anything not in its
// spec'd contract.
func stationTag(st *Station) string {
	if st == nil {
		return ""
	}

	latLng := s2.LatLng{
		Lat: s1.Angle(degreesToRadians(st.LatDeg)),
		Lng: s1.Angle(degreesToRadians(st.LonDeg)),
	}

	utm, err := coordconv.DefaultUTMConverter.ConvertFromGeodetic(latLng, 0)
	if err != nil {
		return st.Callsign
	}

	return fmt.Sprintf("%s %d%c %.0fE %.0fN", st.Callsign, utm.Zone, hemisphereToRune(utm.Hemisphere), utm.Easting, utm.Northing)
}
