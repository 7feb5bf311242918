package maps

import (
	"context"
	"math"
	"strconv"
	"strings"
)

const (
	earthRadiusKm = 6371.0
	// roadFactor stretches straight-line distance toward a typical urban road distance.
	roadFactor     = 1.3
	averageSpeedKm = 30.0
)

// SyntheticPlanner estimates a route from coordinates alone. It is the
// fallback when no mapping provider is configured or the provider fails.
type SyntheticPlanner struct{}

func (SyntheticPlanner) Plan(_ context.Context, waypoints []string) (Route, error) {
	if len(waypoints) < 2 {
		return Route{}, ErrTooFewWaypoints
	}
	points := make([][2]float64, len(waypoints))
	for i, w := range waypoints {
		lat, lng, ok := parseLatLng(w)
		if !ok {
			return Route{}, ErrUnsupportedWaypoint
		}
		points[i] = [2]float64{lat, lng}
	}

	km := 0.0
	for i := 1; i < len(points); i++ {
		km += haversineKm(points[i-1][0], points[i-1][1], points[i][0], points[i][1])
	}
	km *= roadFactor

	return Route{
		DistanceMeters:  math.Round(km * 1000),
		DurationSeconds: math.Round(km / averageSpeedKm * 3600),
		Source:          "synthetic",
	}, nil
}

// parseLatLng accepts "lat,lng" in decimal degrees.
func parseLatLng(s string) (float64, float64, bool) {
	latStr, lngStr, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return 0, 0, false
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	lng, err2 := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, false
	}
	return lat, lng, true
}

// haversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLng := degreesToRadians(lng2 - lng1)

	rLat1 := degreesToRadians(lat1)
	rLat2 := degreesToRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
