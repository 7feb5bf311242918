package maps

import (
	"context"
	"errors"
	"fmt"

	"googlemaps.github.io/maps"
)

var (
	ErrNoRoute             = errors.New("no route found")
	ErrTooFewWaypoints     = errors.New("at least two waypoints are required")
	ErrUnsupportedWaypoint = errors.New("waypoint is not a lat,lng pair")
)

// Route is the only thing the tariff engine consumes from a mapping provider.
type Route struct {
	DistanceMeters  float64 `json:"distanceMeters"`
	DurationSeconds float64 `json:"durationSeconds"`
	Source          string  `json:"source"`
}

// Planner resolves an ordered list of waypoints into a single route. Waypoints
// are visited in the given order; nothing is reordered.
type Planner interface {
	Plan(ctx context.Context, waypoints []string) (Route, error)
}

// RouteService handles interactions with the Google Directions API.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// Plan asks for a driving route from the first to the last waypoint through
// the intermediate ones, and sums distance and duration over every leg.
func (s *RouteService) Plan(ctx context.Context, waypoints []string) (Route, error) {
	if len(waypoints) < 2 {
		return Route{}, ErrTooFewWaypoints
	}
	r := &maps.DirectionsRequest{
		Origin:      waypoints[0],
		Destination: waypoints[len(waypoints)-1],
		Waypoints:   waypoints[1 : len(waypoints)-1],
		Mode:        maps.TravelModeDriving,
		Language:    "ko",
		Region:      "KR",
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return Route{}, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return Route{}, ErrNoRoute
	}

	out := Route{Source: "google"}
	for _, leg := range routes[0].Legs {
		out.DistanceMeters += float64(leg.Distance.Meters)
		out.DurationSeconds += leg.Duration.Seconds()
	}
	return out, nil
}
